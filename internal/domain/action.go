package domain

type ActionKind string

const (
	ActionSendPhoto   ActionKind = "send_photo"
	ActionEditMarkup  ActionKind = "edit_markup"
	ActionEditCaption ActionKind = "edit_caption"
	ActionEditMedia   ActionKind = "edit_media"
	ActionSendText    ActionKind = "send_text"
)

// Photo references either a named asset or in-memory image bytes.
type Photo struct {
	Asset    string
	Data     []byte
	Filename string
}

type Action struct {
	Kind      ActionKind
	ChatID    int64
	MessageID int
	Photo     *Photo
	Caption   string
	Text      string
	Keyboard  Keyboard
}
