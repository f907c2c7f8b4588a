package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"golang.org/x/time/rate"
)

const (
	DefaultAPIURL      = "https://api.telegram.org"
	DefaultPollTimeout = 30 * time.Second
	parseModeHTML      = "HTML"
	requestSlack       = 15 * time.Second
)

var errNotModified = errors.New("message is not modified")

// Client calls the Bot API. Every call except getUpdates waits on the
// outbound rate limiter first.
type Client struct {
	http        *resty.Client
	token       string
	limiter     *rate.Limiter
	pollTimeout time.Duration
}

type ClientConfig struct {
	APIURL            string
	Token             string
	PollTimeout       time.Duration
	RequestsPerSecond float64
	HTTPClient        *http.Client
}

func NewClient(cfg ClientConfig) (*Client, error) {
	token := strings.TrimSpace(cfg.Token)
	if token == "" {
		return nil, errors.New("telegram token is empty")
	}
	if cfg.APIURL == "" {
		cfg.APIURL = DefaultAPIURL
	}
	if cfg.PollTimeout <= 0 {
		cfg.PollTimeout = DefaultPollTimeout
	}
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = 25
	}

	httpClient := resty.New()
	if cfg.HTTPClient != nil {
		httpClient = resty.NewWithClient(cfg.HTTPClient)
	}
	httpClient.
		SetBaseURL(strings.TrimRight(cfg.APIURL, "/")).
		SetTimeout(cfg.PollTimeout + requestSlack)

	return &Client{
		http:        httpClient,
		token:       token,
		limiter:     rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), max(1, int(cfg.RequestsPerSecond))),
		pollTimeout: cfg.PollTimeout,
	}, nil
}

func (c *Client) GetUpdates(ctx context.Context, offset int64) ([]Update, error) {
	var updates []Update
	err := c.call(ctx, "getUpdates", false, map[string]any{
		"offset":          offset,
		"timeout":         int(c.pollTimeout / time.Second),
		"allowed_updates": []string{"message", "callback_query"},
	}, &updates)
	return updates, err
}

func (c *Client) AnswerCallbackQuery(ctx context.Context, queryID string) error {
	return c.call(ctx, "answerCallbackQuery", true, map[string]any{"callback_query_id": queryID}, nil)
}

func (c *Client) SendMessage(ctx context.Context, chatID int64, text string) error {
	return c.call(ctx, "sendMessage", true, map[string]any{
		"chat_id": chatID,
		"text":    text,
	}, nil)
}

func (c *Client) EditMessageReplyMarkup(ctx context.Context, chatID int64, messageID int, keyboard *InlineKeyboardMarkup) error {
	body := map[string]any{"chat_id": chatID, "message_id": messageID}
	if keyboard != nil {
		body["reply_markup"] = keyboard
	}
	return c.call(ctx, "editMessageReplyMarkup", true, body, nil)
}

func (c *Client) EditMessageCaption(ctx context.Context, chatID int64, messageID int, caption string, keyboard *InlineKeyboardMarkup) error {
	body := map[string]any{
		"chat_id":    chatID,
		"message_id": messageID,
		"caption":    caption,
		"parse_mode": parseModeHTML,
	}
	if keyboard != nil {
		body["reply_markup"] = keyboard
	}
	return c.call(ctx, "editMessageCaption", true, body, nil)
}

// Upload is a file sent as multipart form data.
type Upload struct {
	Filename string
	Data     []byte
}

func (c *Client) SendPhoto(ctx context.Context, chatID int64, photo Upload, caption string, keyboard *InlineKeyboardMarkup) (Message, error) {
	fields := map[string]string{
		"chat_id":    strconv.FormatInt(chatID, 10),
		"caption":    caption,
		"parse_mode": parseModeHTML,
	}
	if keyboard != nil {
		encoded, err := json.Marshal(keyboard)
		if err != nil {
			return Message{}, fmt.Errorf("encode reply markup: %w", err)
		}
		fields["reply_markup"] = string(encoded)
	}

	var sent Message
	err := c.upload(ctx, "sendPhoto", fields, "photo", photo, &sent)
	return sent, err
}

// EditMessageMedia replaces the photo of a message. The inline keyboard is
// removed unless keyboard is set.
func (c *Client) EditMessageMedia(ctx context.Context, chatID int64, messageID int, photo Upload, caption string, keyboard *InlineKeyboardMarkup) error {
	media, err := json.Marshal(map[string]string{
		"type":       "photo",
		"media":      "attach://photo",
		"caption":    caption,
		"parse_mode": parseModeHTML,
	})
	if err != nil {
		return fmt.Errorf("encode media: %w", err)
	}

	fields := map[string]string{
		"chat_id":    strconv.FormatInt(chatID, 10),
		"message_id": strconv.Itoa(messageID),
		"media":      string(media),
	}
	if keyboard != nil {
		encoded, err := json.Marshal(keyboard)
		if err != nil {
			return fmt.Errorf("encode reply markup: %w", err)
		}
		fields["reply_markup"] = string(encoded)
	}

	return c.upload(ctx, "editMessageMedia", fields, "photo", photo, nil)
}

func (c *Client) call(ctx context.Context, method string, limited bool, body any, result any) error {
	if limited {
		if err := c.limiter.Wait(ctx); err != nil {
			return fmt.Errorf("telegram %s: %w", method, err)
		}
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(body).
		Post(c.path(method))
	if err != nil {
		return fmt.Errorf("telegram %s: %w", method, err)
	}
	return decodeResponse(method, resp, result)
}

func (c *Client) upload(ctx context.Context, method string, fields map[string]string, fileField string, file Upload, result any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("telegram %s: %w", method, err)
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetMultipartFormData(fields).
		SetFileReader(fileField, file.Filename, bytes.NewReader(file.Data)).
		Post(c.path(method))
	if err != nil {
		return fmt.Errorf("telegram %s: %w", method, err)
	}
	return decodeResponse(method, resp, result)
}

func (c *Client) path(method string) string {
	return "/bot" + c.token + "/" + method
}

func decodeResponse(method string, resp *resty.Response, result any) error {
	var env struct {
		envelope
		Result json.RawMessage `json:"result"`
	}
	if err := json.Unmarshal(resp.Body(), &env); err != nil {
		return fmt.Errorf("telegram %s: http %d: decode response: %w", method, resp.StatusCode(), err)
	}

	if !env.OK {
		apiErr := &APIError{Method: method, Code: env.ErrorCode, Description: env.Description}
		if apiErr.Code == 0 {
			apiErr.Code = resp.StatusCode()
		}
		if env.Parameters != nil {
			apiErr.RetryAfter = env.Parameters.RetryAfter
		}
		if strings.Contains(env.Description, errNotModified.Error()) {
			return errors.Join(errNotModified, apiErr)
		}
		return apiErr
	}

	if result == nil || len(env.Result) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Result, result); err != nil {
		return fmt.Errorf("telegram %s: decode result: %w", method, err)
	}
	return nil
}
