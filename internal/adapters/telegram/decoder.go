package telegram

import (
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/bnema/yolka/internal/domain"
)

const startCommand = "/start"

// Decoder turns updates into domain events. Greetings start the workflow like
// /start; a greeting matches case-insensitively within one edit.
type Decoder struct {
	greetings []string
}

func NewDecoder(greetings []string) *Decoder {
	normalized := make([]string, 0, len(greetings))
	for _, g := range greetings {
		if g = normalize(g); g != "" {
			normalized = append(normalized, g)
		}
	}
	return &Decoder{greetings: normalized}
}

func (d *Decoder) Decode(update Update) (domain.Event, bool) {
	switch {
	case update.CallbackQuery != nil:
		return d.decodeCallbackQuery(*update.CallbackQuery)
	case update.Message != nil:
		return d.decodeMessage(*update.Message)
	default:
		return domain.Event{}, false
	}
}

func (d *Decoder) decodeCallbackQuery(query CallbackQuery) (domain.Event, bool) {
	if query.Message == nil {
		return domain.Event{}, false
	}

	event, ok := decodeCallback(query.Data)
	if !ok {
		return domain.Event{}, false
	}
	event.UserID = domain.UserID(query.From.ID)
	event.ChatID = query.Message.Chat.ID
	event.MessageID = query.Message.MessageID
	return event, true
}

func (d *Decoder) decodeMessage(msg Message) (domain.Event, bool) {
	if msg.From == nil {
		return domain.Event{}, false
	}

	event := domain.Event{
		Kind:      domain.EventText,
		UserID:    domain.UserID(msg.From.ID),
		ChatID:    msg.Chat.ID,
		MessageID: msg.MessageID,
		Text:      msg.Text,
	}
	if isStartCommand(msg.Text) || d.isGreeting(msg.Text) {
		event.Kind = domain.EventStart
	}
	return event, true
}

func isStartCommand(text string) bool {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return false
	}
	cmd, _, _ := strings.Cut(fields[0], "@")
	return cmd == startCommand
}

func (d *Decoder) isGreeting(text string) bool {
	text = normalize(text)
	if text == "" {
		return false
	}
	for _, g := range d.greetings {
		if levenshtein.ComputeDistance(text, g) <= 1 {
			return true
		}
	}
	return false
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
