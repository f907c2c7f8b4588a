package telegram

import (
	"context"
	"errors"
	"fmt"
	"path"

	"github.com/bnema/yolka/internal/domain"
	"github.com/bnema/yolka/internal/ports"
)

// Messenger delivers domain actions through the Bot API. Named photos are
// read from assets and uploaded; edits that change nothing are not errors.
type Messenger struct {
	client *Client
	assets ports.AssetSource
}

var _ ports.Messenger = (*Messenger)(nil)

func NewMessenger(client *Client, assets ports.AssetSource) *Messenger {
	return &Messenger{client: client, assets: assets}
}

func (m *Messenger) Deliver(ctx context.Context, action domain.Action) error {
	err := m.deliver(ctx, action)
	if errors.Is(err, errNotModified) {
		return nil
	}
	return err
}

func (m *Messenger) deliver(ctx context.Context, action domain.Action) error {
	keyboard, err := markup(action.Keyboard)
	if err != nil {
		return err
	}

	switch action.Kind {
	case domain.ActionSendText:
		return m.client.SendMessage(ctx, action.ChatID, action.Text)
	case domain.ActionSendPhoto:
		upload, err := m.upload(ctx, action.Photo)
		if err != nil {
			return err
		}
		_, err = m.client.SendPhoto(ctx, action.ChatID, upload, action.Caption, keyboard)
		return err
	case domain.ActionEditMarkup:
		return m.client.EditMessageReplyMarkup(ctx, action.ChatID, action.MessageID, keyboard)
	case domain.ActionEditCaption:
		return m.client.EditMessageCaption(ctx, action.ChatID, action.MessageID, action.Caption, keyboard)
	case domain.ActionEditMedia:
		upload, err := m.upload(ctx, action.Photo)
		if err != nil {
			return err
		}
		return m.client.EditMessageMedia(ctx, action.ChatID, action.MessageID, upload, action.Caption, keyboard)
	default:
		return fmt.Errorf("unsupported action kind %q", action.Kind)
	}
}

func (m *Messenger) upload(ctx context.Context, photo *domain.Photo) (Upload, error) {
	if photo == nil {
		return Upload{}, errors.New("photo is missing")
	}
	if len(photo.Data) > 0 {
		filename := photo.Filename
		if filename == "" {
			filename = "photo.png"
		}
		return Upload{Filename: filename, Data: photo.Data}, nil
	}

	data, err := m.assets.Raw(ctx, photo.Asset)
	if err != nil {
		return Upload{}, fmt.Errorf("load photo: %w", err)
	}
	return Upload{Filename: path.Base(photo.Asset), Data: data}, nil
}
