package handlers

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/TanushriS/IntelliQRHelp/internal/dto"
	"github.com/TanushriS/IntelliQRHelp/internal/middleware"
	"github.com/TanushriS/IntelliQRHelp/internal/notify"
	"github.com/TanushriS/IntelliQRHelp/internal/utils"
)

// SOSHandler sends the SOS alert for the signed-in user
type SOSHandler struct {
	notifier notify.Notifier
	logger   *zap.SugaredLogger
}

func NewSOSHandler(notifier notify.Notifier, logger *zap.SugaredLogger) *SOSHandler {
	return &SOSHandler{notifier: notifier, logger: logger}
}

// SendSOS godoc
// @Summary      Send SOS notification
// @Tags         sos
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dto.SOSResponse
// @Failure      502  {object}  dto.SOSResponse
// @Failure      503  {object}  dto.ErrorResponse
// @Router       /api/sos [post]
func (h *SOSHandler) SendSOS(w http.ResponseWriter, r *http.Request) {
	userID := ""
	if claims, ok := middleware.ClaimsFromContext(r.Context()); ok {
		userID = claims.UserID
	}

	err := h.notifier.SendSOS(r.Context())
	switch {
	case err == nil:
		h.logger.Infow("sos sent", "userId", userID)
		utils.WriteJSONResponse(w, http.StatusOK, dto.SOSResponse{Sent: true, Message: "SOS notification sent"})
	case errors.Is(err, notify.ErrNotConfigured):
		utils.WriteErrorResponse(w, http.StatusServiceUnavailable, "SOS unavailable", err.Error())
	default:
		h.logger.Warnw("sos failed", "userId", userID, "error", err)
		utils.WriteJSONResponse(w, http.StatusBadGateway, dto.SOSResponse{Sent: false, Message: notify.UserMessage(err)})
	}
}
