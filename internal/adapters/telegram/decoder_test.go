package telegram

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/yolka/internal/domain"
)

func textUpdate(text string) Update {
	return Update{
		UpdateID: 1,
		Message: &Message{
			MessageID: 10,
			From:      &User{ID: 42},
			Chat:      Chat{ID: 420},
			Text:      text,
		},
	}
}

func callbackUpdate(data string) Update {
	return Update{
		UpdateID: 2,
		CallbackQuery: &CallbackQuery{
			ID:      "cb-1",
			From:    User{ID: 42},
			Message: &Message{MessageID: 77, Chat: Chat{ID: 420}},
			Data:    data,
		},
	}
}

func TestDecoderStartAndGreetings(t *testing.T) {
	decoder := NewDecoder([]string{"Привет"})

	testCases := []struct {
		text string
		want domain.EventKind
	}{
		{text: "/start", want: domain.EventStart},
		{text: "/start@yolka_bot", want: domain.EventStart},
		{text: "/start ref123", want: domain.EventStart},
		{text: "привет", want: domain.EventStart},
		{text: "  ПРИВЕТ ", want: domain.EventStart},
		{text: "привет!", want: domain.EventStart},
		{text: "првет", want: domain.EventStart},
		{text: "пока", want: domain.EventText},
		{text: "/startover", want: domain.EventText},
		{text: "", want: domain.EventText},
	}

	for _, tc := range testCases {
		t.Run(tc.text, func(t *testing.T) {
			event, ok := decoder.Decode(textUpdate(tc.text))
			require.True(t, ok)
			assert.Equal(t, tc.want, event.Kind)
			assert.Equal(t, domain.UserID(42), event.UserID)
			assert.Equal(t, int64(420), event.ChatID)
		})
	}
}

func TestDecoderCallbacks(t *testing.T) {
	decoder := NewDecoder(nil)

	event, ok := decoder.Decode(callbackUpdate("pick:k07"))
	require.True(t, ok)
	assert.Equal(t, domain.Event{
		Kind:        domain.EventPick,
		UserID:      42,
		ChatID:      420,
		MessageID:   77,
		CandidateID: "k07",
	}, event)

	event, ok = decoder.Decode(callbackUpdate("page:2"))
	require.True(t, ok)
	assert.Equal(t, domain.EventPage, event.Kind)
	assert.Equal(t, 2, event.Page)

	event, ok = decoder.Decode(callbackUpdate("page:-1"))
	require.True(t, ok)
	assert.Equal(t, -1, event.Page)

	for _, data := range []string{"", "pick:", "page:two", "vote:k01"} {
		_, ok := decoder.Decode(callbackUpdate(data))
		assert.False(t, ok, data)
	}
}

func TestDecoderIgnoresUpdatesWithoutSender(t *testing.T) {
	decoder := NewDecoder(nil)

	_, ok := decoder.Decode(Update{UpdateID: 3})
	assert.False(t, ok)

	update := textUpdate("/start")
	update.Message.From = nil
	_, ok = decoder.Decode(update)
	assert.False(t, ok)

	cb := callbackUpdate("pick:k01")
	cb.CallbackQuery.Message = nil
	_, ok = decoder.Decode(cb)
	assert.False(t, ok)
}

func TestMarkupEncodesCallbacks(t *testing.T) {
	keyboard := domain.Keyboard{
		{{Kind: domain.ButtonPick, Label: "Name 01", CandidateID: "k01"}},
		{{Kind: domain.ButtonPage, Label: "➡️", Page: 1}},
	}

	got, err := markup(keyboard)
	require.NoError(t, err)
	assert.Equal(t, &InlineKeyboardMarkup{InlineKeyboard: [][]InlineKeyboardButton{
		{{Text: "Name 01", CallbackData: "pick:k01"}},
		{{Text: "➡️", CallbackData: "page:1"}},
	}}, got)

	empty, err := markup(nil)
	require.NoError(t, err)
	assert.Nil(t, empty)

	long := domain.CandidateID(make([]byte, 70))
	_, err = markup(domain.Keyboard{{{Kind: domain.ButtonPick, CandidateID: long}}})
	require.ErrorContains(t, err, "exceeds 64 bytes")
}
