package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/TanushriS/IntelliQRHelp/internal/notify"
)

type fakeNotifier struct{ err error }

func (f fakeNotifier) SendSOS(context.Context) error { return f.err }

func TestSendSOSOutcomes(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		body   string
	}{
		{"sent", nil, http.StatusOK, `{"sent":true,"message":"SOS notification sent"}`},
		{"provider rejection", &notify.ProviderError{Description: "chat not found"}, http.StatusBadGateway,
			`{"sent":false,"message":"Failed to send notification: chat not found"}`},
		{"transport failure", errors.New("dial tcp: refused"), http.StatusBadGateway,
			`{"sent":false,"message":"Error sending SOS notification."}`},
		{"not configured", notify.ErrNotConfigured, http.StatusServiceUnavailable,
			`{"error":"SOS unavailable","message":"sos notification is not configured"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewSOSHandler(fakeNotifier{err: tt.err}, zap.NewNop().Sugar())
			rec := httptest.NewRecorder()
			h.SendSOS(rec, httptest.NewRequest(http.MethodPost, "/api/sos", nil))
			assert.Equal(t, tt.status, rec.Code)
			assert.JSONEq(t, tt.body, rec.Body.String())
		})
	}
}
