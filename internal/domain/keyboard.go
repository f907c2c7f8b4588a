package domain

const keyboardColumns = 3

type ButtonKind string

const (
	ButtonPick ButtonKind = "pick"
	ButtonPage ButtonKind = "page"
)

type Button struct {
	Kind        ButtonKind
	Label       string
	CandidateID CandidateID
	Page        int
}

type Keyboard [][]Button

func BuildKeyboard(page Page) Keyboard {
	rows := make(Keyboard, 0, len(page.Items)/keyboardColumns+2)

	var row []Button
	for _, item := range page.Items {
		row = append(row, Button{Kind: ButtonPick, Label: item.Name, CandidateID: item.ID})
		if len(row) == keyboardColumns {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}

	var nav []Button
	if page.HasPrev {
		nav = append(nav, Button{Kind: ButtonPage, Label: "⬅️", Page: page.Index - 1})
	}
	if page.HasNext {
		nav = append(nav, Button{Kind: ButtonPage, Label: "➡️", Page: page.Index + 1})
	}
	if len(nav) > 0 {
		rows = append(rows, nav)
	}

	return rows
}
