package handlers

import (
	"net/http"
	"strconv"

	"github.com/TanushriS/IntelliQRHelp/internal/qr"
	"github.com/TanushriS/IntelliQRHelp/internal/utils"
)

// GetQR godoc
// @Summary      Current QR link
// @Tags         qr
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  qr.Link
// @Router       /api/profile/qr [get]
func (h *ProfileHandler) GetQR(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	link, err := sess.Link()
	if err != nil {
		writeProfileError(w, err)
		return
	}
	utils.WriteJSONResponse(w, http.StatusOK, link)
}

// RegenerateQR godoc
// @Summary      Regenerate QR link
// @Tags         qr
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  qr.Link
// @Router       /api/profile/qr/regenerate [post]
func (h *ProfileHandler) RegenerateQR(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	link, err := sess.Regenerate(r.Context())
	if err != nil {
		writeProfileError(w, err)
		return
	}
	utils.WriteJSONResponse(w, http.StatusOK, link)
}

// DownloadQR godoc
// @Summary      Download QR image
// @Description  Returns the rendered QR code as my_qr_code.png
// @Tags         qr
// @Produce      png
// @Security     BearerAuth
// @Success      200
// @Failure      502  {object}  dto.ErrorResponse
// @Router       /api/profile/qr/image [get]
func (h *ProfileHandler) DownloadQR(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	link, err := sess.Link()
	if err != nil {
		writeProfileError(w, err)
		return
	}

	img, err := h.images.Fetch(r.Context(), link.ImageURL)
	if err != nil {
		h.logger.Warnw("qr image download failed", "userId", sess.Identity().UserID, "error", err)
		utils.WriteErrorResponse(w, http.StatusBadGateway, "Download failed", "Unable to download the QR code, try again later")
		return
	}

	w.Header().Set("Content-Type", img.ContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+qr.DefaultImageFileName+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(img.Data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(img.Data)
}
