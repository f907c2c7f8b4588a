package domain

type EventKind string

const (
	EventStart EventKind = "start"
	EventPage  EventKind = "page"
	EventPick  EventKind = "pick"
	EventText  EventKind = "text"
)

// Event is an inbound user interaction, already decoded from the transport
// payload. MessageID points at the message that carries the keyboard.
type Event struct {
	Kind        EventKind
	UserID      UserID
	ChatID      int64
	MessageID   int
	Page        int
	CandidateID CandidateID
	Text        string
}
