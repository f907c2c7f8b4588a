package pages

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/bnema/yolka/internal/domain"
)

// PageView is one catalog page as a user with Picked already chosen sees it.
type PageView struct {
	Page     domain.Page
	MaxPage  int
	Keyboard domain.Keyboard
	Picked   []string
	Total    int
}

func NewPageView(catalog domain.Catalog, picked []domain.CandidateID, page int) (PageView, error) {
	p, err := domain.ComputePage(catalog, picked, page)
	if err != nil {
		return PageView{}, err
	}

	return PageView{
		Page:     p,
		MaxPage:  domain.MaxPage(catalog, picked),
		Keyboard: domain.BuildKeyboard(p),
		Picked:   catalog.Names(picked),
		Total:    catalog.Len(),
	}, nil
}

func renderView(v PageView, s styles) string {
	lines := []string{
		s.title.Render(fmt.Sprintf("Page %d/%d", v.Page.Index+1, v.MaxPage+1)),
		s.header.Render(fmt.Sprintf("candidates: %d, picked: %d/%d", v.Total, len(v.Picked), domain.MaxPicks)),
		renderProgressBar(len(v.Picked), domain.MaxPicks, s),
	}

	if len(v.Picked) > 0 {
		lines = append(lines, s.picked.Render("picked: "+strings.Join(v.Picked, ", ")))
	}

	if len(v.Keyboard) == 0 {
		lines = append(lines, s.section.Render(s.empty.Render("Nothing left to pick.")))
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}

	rows := make([]string, 0, len(v.Keyboard))
	for _, row := range v.Keyboard {
		cells := make([]string, 0, len(row))
		for _, button := range row {
			cells = append(cells, renderButton(button, s))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	lines = append(lines, s.section.Render(lipgloss.JoinVertical(lipgloss.Left, rows...)))

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func renderButton(button domain.Button, s styles) string {
	if button.Kind == domain.ButtonPage {
		return s.nav.Render(fmt.Sprintf("%s %d", button.Label, button.Page+1))
	}
	return s.button.Render(fmt.Sprintf("%s (%s)", button.Label, button.CandidateID))
}

func renderProgressBar(done, total int, s styles) string {
	done = min(max(done, 0), total)

	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		s.barBracket.Render("["),
		s.barFill.Render(strings.Repeat("*", done)),
		s.barEmpty.Render(strings.Repeat("-", total-done)),
		s.barBracket.Render("]"),
	)
}
