// Package telegram delivers signals through the Bot API sendMessage call.
package telegram

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"ViralGen/internal/domain/models"
	drepo "ViralGen/internal/domain/repository"
	xhttp "ViralGen/pkg/http"
)

var ErrNotConfigured = errors.New("telegram: token and chat id required")

type Notifier struct {
	baseURL string
	http    *xhttp.Client
}

var _ drepo.Notifier = (*Notifier)(nil)

func New(baseURL string, timeout time.Duration) *Notifier {
	return &Notifier{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    xhttp.NewClient(xhttp.WithTimeout(timeout)),
	}
}

type sendMessage struct {
	ChatID    string `json:"chat_id"`
	Text      string `json:"text"`
	ParseMode string `json:"parse_mode,omitempty"`
}

type apiResult struct {
	OK          bool   `json:"ok"`
	Description string `json:"description"`
}

func (n *Notifier) NotifySignal(ctx context.Context, token, chatID string, s models.TradingSignal) error {
	if token == "" || chatID == "" {
		return ErrNotConfigured
	}

	var res apiResult
	err := n.http.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodPost,
		URL:    fmt.Sprintf("%s/bot%s/sendMessage", n.baseURL, token),
		Body:   sendMessage{ChatID: chatID, Text: FormatSignal(s)},
	}, &res)
	if err != nil {
		return fmt.Errorf("telegram send: %w", err)
	}
	if !res.OK {
		return fmt.Errorf("telegram send: %s", res.Description)
	}
	return nil
}

// FormatSignal renders s as a plain-text alert.
func FormatSignal(s models.TradingSignal) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s [%s]\n", s.Action, s.Pair, s.ID)
	fmt.Fprintf(&b, "Entry: %g\nTP: %g\nSL: %g\n", s.Entry, s.TP, s.SL)
	if s.Reasoning != "" {
		fmt.Fprintf(&b, "\n%s\n", s.Reasoning)
	}
	if s.VideoHook != "" {
		fmt.Fprintf(&b, "\nHook: %s", s.VideoHook)
	}
	return strings.TrimRight(b.String(), "\n")
}
