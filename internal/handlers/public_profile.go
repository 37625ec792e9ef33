package handlers

import (
	"embed"
	"html/template"
	"net/http"

	"go.uber.org/zap"

	"github.com/TanushriS/IntelliQRHelp/internal/qr"
	"github.com/TanushriS/IntelliQRHelp/internal/utils"
)

//go:embed templates/public_profile.html
var templateFS embed.FS

var publicProfileTmpl = template.Must(template.ParseFS(templateFS, "templates/public_profile.html"))

// profileNotFound is the only failure a viewer ever sees
const profileNotFound = "Profile Not Found"

// PublicProfileHandler serves the redacted profile a QR code points at
type PublicProfileHandler struct {
	resolver *qr.Resolver
	logger   *zap.SugaredLogger
}

func NewPublicProfileHandler(resolver *qr.Resolver, logger *zap.SugaredLogger) *PublicProfileHandler {
	return &PublicProfileHandler{resolver: resolver, logger: logger}
}

// PublicProfilePage godoc
// @Summary      Public emergency profile page
// @Description  HTML page opened by scanning the QR code
// @Tags         public
// @Produce      html
// @Param        uid   query  string  true   "User id"
// @Param        name  query  string  false  "Name hint"
// @Success      200
// @Failure      404
// @Failure      429
// @Router       /public-profile [get]
func (h *PublicProfileHandler) PublicProfilePage(w http.ResponseWriter, r *http.Request) {
	view, err := h.resolver.ResolvePublicProfile(r.Context(), r.URL.Query())
	status := http.StatusOK
	if err != nil {
		view, status = nil, http.StatusNotFound
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	if err := publicProfileTmpl.Execute(w, struct{ View *qr.PublicView }{view}); err != nil {
		h.logger.Errorw("render public profile", "error", err)
	}
}

// PublicProfileJSON godoc
// @Summary      Public emergency profile
// @Tags         public
// @Produce      json
// @Param        uid   query     string  true   "User id"
// @Param        name  query     string  false  "Name hint"
// @Success      200   {object}  qr.PublicView
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      429   {object}  dto.ErrorResponse
// @Router       /api/public-profile [get]
func (h *PublicProfileHandler) PublicProfileJSON(w http.ResponseWriter, r *http.Request) {
	view, err := h.resolver.ResolvePublicProfile(r.Context(), r.URL.Query())
	if err != nil {
		utils.WriteErrorResponse(w, http.StatusNotFound, profileNotFound, "")
		return
	}
	w.Header().Set("Cache-Control", "no-store")
	utils.WriteJSONResponse(w, http.StatusOK, view)
}
