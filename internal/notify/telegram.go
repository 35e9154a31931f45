package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

const telegramAPIBase = "https://api.telegram.org"

// TelegramSender posts HTML messages through the Bot API sendMessage method.
type TelegramSender struct {
	token   string
	baseURL string
	client  *http.Client
}

type TelegramOption func(*TelegramSender)

// WithTelegramBaseURL points the sender at another API host, e.g. a test server.
func WithTelegramBaseURL(u string) TelegramOption {
	return func(s *TelegramSender) { s.baseURL = u }
}

func WithTelegramHTTPClient(c *http.Client) TelegramOption {
	return func(s *TelegramSender) { s.client = c }
}

func NewTelegramSender(token string, opts ...TelegramOption) *TelegramSender {
	s := &TelegramSender{
		token:   token,
		baseURL: telegramAPIBase,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type inlineKeyboard struct {
	InlineKeyboard [][]Button `json:"inline_keyboard"`
}

type sendMessageRequest struct {
	ChatID      string          `json:"chat_id"`
	Text        string          `json:"text"`
	ParseMode   string          `json:"parse_mode"`
	ReplyMarkup *inlineKeyboard `json:"reply_markup,omitempty"`
}

// Send delivers to every chat in msg.To and joins the per-chat errors.
func (s *TelegramSender) Send(ctx context.Context, msg Message) error {
	if s.token == "" {
		return ErrChannelDisabled
	}
	var errs []error
	for _, chatID := range msg.To {
		if err := s.sendOne(ctx, chatID, msg); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (s *TelegramSender) sendOne(ctx context.Context, chatID string, msg Message) error {
	body := sendMessageRequest{ChatID: chatID, Text: msg.Body, ParseMode: "HTML"}
	if len(msg.Buttons) > 0 {
		body.ReplyMarkup = &inlineKeyboard{InlineKeyboard: msg.Buttons}
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encode telegram payload: %w", err)
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", s.baseURL, s.token)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build telegram request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("telegram chat %s: %w", chatID, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("telegram chat %s: status %d: %s", chatID, resp.StatusCode, bytes.TrimSpace(detail))
	}
	return nil
}
