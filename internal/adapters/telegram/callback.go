package telegram

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/bnema/yolka/internal/domain"
)

const (
	pickPrefix = "pick:"
	pagePrefix = "page:"

	// Bot API limit for callback_data.
	maxCallbackData = 64
)

func encodeCallback(button domain.Button) (string, error) {
	var data string
	switch button.Kind {
	case domain.ButtonPick:
		data = pickPrefix + string(button.CandidateID)
	case domain.ButtonPage:
		data = pagePrefix + strconv.Itoa(button.Page)
	default:
		return "", fmt.Errorf("unsupported button kind %q", button.Kind)
	}
	if len(data) > maxCallbackData {
		return "", fmt.Errorf("callback data %q exceeds %d bytes", data, maxCallbackData)
	}
	return data, nil
}

// decodeCallback fills the kind-specific fields of an event from callback
// data. It reports false for payloads the bot never sends.
func decodeCallback(data string) (domain.Event, bool) {
	switch {
	case strings.HasPrefix(data, pickPrefix):
		id := strings.TrimPrefix(data, pickPrefix)
		if id == "" {
			return domain.Event{}, false
		}
		return domain.Event{Kind: domain.EventPick, CandidateID: domain.CandidateID(id)}, true
	case strings.HasPrefix(data, pagePrefix):
		page, err := strconv.Atoi(strings.TrimPrefix(data, pagePrefix))
		if err != nil {
			return domain.Event{}, false
		}
		return domain.Event{Kind: domain.EventPage, Page: page}, true
	default:
		return domain.Event{}, false
	}
}

func markup(keyboard domain.Keyboard) (*InlineKeyboardMarkup, error) {
	if len(keyboard) == 0 {
		return nil, nil
	}

	rows := make([][]InlineKeyboardButton, 0, len(keyboard))
	for _, row := range keyboard {
		buttons := make([]InlineKeyboardButton, 0, len(row))
		for _, button := range row {
			data, err := encodeCallback(button)
			if err != nil {
				return nil, err
			}
			buttons = append(buttons, InlineKeyboardButton{Text: button.Label, CallbackData: data})
		}
		rows = append(rows, buttons)
	}
	return &InlineKeyboardMarkup{InlineKeyboard: rows}, nil
}
