// Package notify sends the SOS alert through the Telegram Bot API.
package notify

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/TanushriS/IntelliQRHelp/internal/config"
)

// GenericFailureMessage is shown when the provider gave no description
const GenericFailureMessage = "Error sending SOS notification."

// DefaultMessage is the alert text
const DefaultMessage = "SOS! Help me, I am in danger!"

var ErrNotConfigured = errors.New("sos notification is not configured")

// ProviderError is a rejection reported by the messaging provider
type ProviderError struct {
	Description string
}

func (e *ProviderError) Error() string {
	return "Failed to send notification: " + e.Description
}

// UserMessage returns the text to show the user for a failed send
func UserMessage(err error) string {
	var pe *ProviderError
	if errors.As(err, &pe) && pe.Description != "" {
		return pe.Error()
	}
	return GenericFailureMessage
}

// Notifier sends the SOS alert
type Notifier interface {
	SendSOS(ctx context.Context) error
}

type botResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description,omitempty"`
}

// TelegramNotifier posts the alert to one chat through a bot
type TelegramNotifier struct {
	client  *resty.Client
	token   string
	chatID  string
	message string
	logger  *zap.SugaredLogger
}

var _ Notifier = (*TelegramNotifier)(nil)

func NewTelegramNotifier(cfg config.SOSConfig, logger *zap.SugaredLogger) *TelegramNotifier {
	base := strings.TrimRight(cfg.APIBase, "/")
	if base == "" {
		base = "https://api.telegram.org"
	}
	msg := cfg.Message
	if msg == "" {
		msg = DefaultMessage
	}
	return &TelegramNotifier{
		client:  resty.New().SetBaseURL(base),
		token:   cfg.BotToken,
		chatID:  cfg.ChatID,
		message: msg,
		logger:  logger,
	}
}

// SendSOS sends the configured message. A provider rejection is returned as
// *ProviderError.
func (n *TelegramNotifier) SendSOS(ctx context.Context) error {
	if n.token == "" || n.chatID == "" {
		return ErrNotConfigured
	}

	var ok, failed botResponse
	resp, err := n.client.R().
		SetContext(ctx).
		SetPathParam("token", n.token).
		SetQueryParams(map[string]string{
			"chat_id": n.chatID,
			"text":    n.message,
		}).
		SetResult(&ok).
		SetError(&failed).
		Get("/bot{token}/sendMessage")
	if err != nil {
		n.logger.Errorw("sos request failed", "error", err)
		return fmt.Errorf("unable to reach messaging provider: %w", err)
	}

	if resp.IsError() || !ok.OK {
		desc := failed.Description
		if desc == "" {
			desc = ok.Description
		}
		n.logger.Warnw("sos rejected by provider", "status", resp.StatusCode(), "description", desc)
		if desc == "" {
			return fmt.Errorf("messaging provider responded with status %d", resp.StatusCode())
		}
		return &ProviderError{Description: desc}
	}

	n.logger.Infow("sos notification sent", "chatId", n.chatID)
	return nil
}
