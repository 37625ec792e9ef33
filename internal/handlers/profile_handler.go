package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/TanushriS/IntelliQRHelp/internal/dto"
	"github.com/TanushriS/IntelliQRHelp/internal/middleware"
	"github.com/TanushriS/IntelliQRHelp/internal/models"
	"github.com/TanushriS/IntelliQRHelp/internal/profile"
	"github.com/TanushriS/IntelliQRHelp/internal/qr"
	"github.com/TanushriS/IntelliQRHelp/internal/utils"
)

// ProfileHandler serves the signed-in user's profile
type ProfileHandler struct {
	sessions *profile.Manager
	images   *qr.ImageClient
	logger   *zap.SugaredLogger
}

func NewProfileHandler(sessions *profile.Manager, images *qr.ImageClient, logger *zap.SugaredLogger) *ProfileHandler {
	return &ProfileHandler{sessions: sessions, images: images, logger: logger}
}

// session loads the caller's session, writing the error response on failure
func (h *ProfileHandler) session(w http.ResponseWriter, r *http.Request) (*profile.Session, bool) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		utils.WriteErrorResponse(w, http.StatusUnauthorized, "Unauthorized", "User not authenticated")
		return nil, false
	}
	sess, err := h.sessions.Session(r.Context(), IdentityFromClaims(claims))
	if err != nil {
		writeProfileError(w, err)
		return nil, false
	}
	return sess, true
}

// IdentityFromClaims converts token claims to a profile identity
func IdentityFromClaims(c *middleware.JWTClaims) profile.Identity {
	return profile.Identity{
		UserID:      c.UserID,
		DisplayName: c.Name,
		Email:       c.Email,
		PhotoURL:    c.Picture,
	}
}

func (h *ProfileHandler) writeProfile(w http.ResponseWriter, sess *profile.Session, status int) {
	p, err := sess.Snapshot()
	if err != nil {
		writeProfileError(w, err)
		return
	}
	utils.WriteJSONResponse(w, status, dto.ProfileResponse{
		Profile: p,
		QR:      qr.Link{PublicLink: p.QRLink, ImageURL: p.QRCode},
		Sync:    sess.SyncStatus(),
	})
}

// GetProfile godoc
// @Summary      Get emergency profile
// @Description  Loads the caller's profile, creating the default document on first use
// @Tags         profile
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  dto.ProfileResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      503  {object}  dto.ErrorResponse
// @Router       /api/profile [get]
func (h *ProfileHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	h.writeProfile(w, sess, http.StatusOK)
}

// UpdateProfile godoc
// @Summary      Update profile fields
// @Description  Applies the updates in order. Updates before a rejected one stay applied.
// @Tags         profile
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      dto.UpdateProfileRequest  true  "Field updates"
// @Success      200      {object}  dto.ProfileResponse
// @Failure      400      {object}  dto.ErrorResponse
// @Failure      401      {object}  dto.ErrorResponse
// @Failure      422      {object}  dto.ErrorResponse
// @Router       /api/profile [patch]
func (h *ProfileHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}
	if len(req.Updates) == 0 {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Missing required fields", "At least one update is required")
		return
	}

	sess, ok := h.session(w, r)
	if !ok {
		return
	}

	for _, u := range req.Updates {
		field := models.Field(u.Field)
		value, err := decodeFieldValue(field, u.Value)
		if err != nil {
			utils.WriteErrorResponse(w, http.StatusBadRequest, "Invalid field", u.Field+": "+err.Error())
			return
		}
		if err := sess.UpdateField(r.Context(), field, value); err != nil {
			writeProfileError(w, err)
			return
		}
	}
	h.writeProfile(w, sess, http.StatusOK)
}

func decodeFieldValue(field models.Field, raw json.RawMessage) (any, error) {
	if field == models.FieldEmergencyContacts {
		var contacts []models.Contact
		err := json.Unmarshal(raw, &contacts)
		return contacts, err
	}
	var v any
	err := json.Unmarshal(raw, &v)
	return v, err
}

// AddContact godoc
// @Summary      Add emergency contact
// @Tags         contacts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        payload  body      dto.ContactRequest  true  "Contact"
// @Success      201      {object}  models.Contact
// @Failure      400      {object}  dto.ErrorResponse
// @Failure      422      {object}  dto.ErrorResponse  "Maximum 3 contacts allowed."
// @Router       /api/profile/contacts [post]
func (h *ProfileHandler) AddContact(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeContact(w, r)
	if !ok {
		return
	}
	sess, ok := h.session(w, r)
	if !ok {
		return
	}

	c, err := sess.AddContact(r.Context(), models.Contact{Name: req.Name, Number: req.Number, Photo: req.Photo})
	if err != nil {
		writeProfileError(w, err)
		return
	}
	utils.WriteJSONResponse(w, http.StatusCreated, c)
}

// UpdateContact godoc
// @Summary      Edit emergency contact
// @Tags         contacts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id       path      string              true  "Contact id"
// @Param        payload  body      dto.ContactRequest  true  "Contact"
// @Success      200      {object}  models.Contact
// @Failure      404      {object}  dto.ErrorResponse
// @Router       /api/profile/contacts/{id} [put]
func (h *ProfileHandler) UpdateContact(w http.ResponseWriter, r *http.Request) {
	req, ok := decodeContact(w, r)
	if !ok {
		return
	}
	sess, ok := h.session(w, r)
	if !ok {
		return
	}

	c, err := sess.UpdateContactByID(r.Context(), r.PathValue("id"), models.Contact{Name: req.Name, Number: req.Number, Photo: req.Photo})
	if err != nil {
		writeProfileError(w, err)
		return
	}
	utils.WriteJSONResponse(w, http.StatusOK, c)
}

// DeleteContact godoc
// @Summary      Remove emergency contact
// @Tags         contacts
// @Security     BearerAuth
// @Param        id   path  string  true  "Contact id"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/profile/contacts/{id} [delete]
func (h *ProfileHandler) DeleteContact(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	if err := sess.RemoveContactByID(r.Context(), r.PathValue("id")); err != nil {
		writeProfileError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func decodeContact(w http.ResponseWriter, r *http.Request) (dto.ContactRequest, bool) {
	var req dto.ContactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return req, false
	}
	if req.Name == "" || req.Number == "" {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Missing required fields", "Name and number are required")
		return req, false
	}
	return req, true
}

// AddEntry godoc
// @Summary      Append medical entry
// @Tags         medical
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        field    path      string            true  "allergies, previousDiseases or currentMeds"
// @Param        payload  body      dto.EntryRequest  true  "Entry"
// @Success      201      {object}  dto.ProfileResponse
// @Failure      400      {object}  dto.ErrorResponse
// @Router       /api/profile/medical/{field} [post]
func (h *ProfileHandler) AddEntry(w http.ResponseWriter, r *http.Request) {
	var req dto.EntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}
	sess, ok := h.session(w, r)
	if !ok {
		return
	}

	if err := sess.AddEntry(r.Context(), models.Field(r.PathValue("field")), req.Value); err != nil {
		writeProfileError(w, err)
		return
	}
	h.writeProfile(w, sess, http.StatusCreated)
}

// UpdateEntry godoc
// @Summary      Edit medical entry
// @Description  When expect is set the entry at index must still equal it
// @Tags         medical
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        field    path      string            true  "allergies, previousDiseases or currentMeds"
// @Param        index    path      int               true  "Entry index"
// @Param        payload  body      dto.EntryRequest  true  "Entry"
// @Success      200      {object}  dto.ProfileResponse
// @Failure      409      {object}  dto.ErrorResponse
// @Router       /api/profile/medical/{field}/{index} [put]
func (h *ProfileHandler) UpdateEntry(w http.ResponseWriter, r *http.Request) {
	index, ok := pathIndex(w, r)
	if !ok {
		return
	}
	var req dto.EntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Invalid request body", err.Error())
		return
	}
	sess, ok := h.session(w, r)
	if !ok {
		return
	}

	if err := sess.UpdateEntry(r.Context(), models.Field(r.PathValue("field")), index, req.Value, req.Expect); err != nil {
		writeProfileError(w, err)
		return
	}
	h.writeProfile(w, sess, http.StatusOK)
}

// DeleteEntry godoc
// @Summary      Remove medical entry
// @Tags         medical
// @Produce      json
// @Security     BearerAuth
// @Param        field   path      string  true   "allergies, previousDiseases or currentMeds"
// @Param        index   path      int     true   "Entry index"
// @Param        expect  query     string  false  "Entry expected at index"
// @Success      200     {object}  dto.ProfileResponse
// @Failure      409     {object}  dto.ErrorResponse
// @Router       /api/profile/medical/{field}/{index} [delete]
func (h *ProfileHandler) DeleteEntry(w http.ResponseWriter, r *http.Request) {
	index, ok := pathIndex(w, r)
	if !ok {
		return
	}
	var expect *string
	if q := r.URL.Query(); q.Has("expect") {
		v := q.Get("expect")
		expect = &v
	}
	sess, ok := h.session(w, r)
	if !ok {
		return
	}

	if err := sess.RemoveEntry(r.Context(), models.Field(r.PathValue("field")), index, expect); err != nil {
		writeProfileError(w, err)
		return
	}
	h.writeProfile(w, sess, http.StatusOK)
}

func pathIndex(w http.ResponseWriter, r *http.Request) (int, bool) {
	index, err := strconv.Atoi(r.PathValue("index"))
	if err != nil {
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Invalid index", "Index must be a number")
		return 0, false
	}
	return index, true
}

// GetSync godoc
// @Summary      Sync indicator
// @Tags         profile
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  profile.SyncStatus
// @Router       /api/profile/sync [get]
func (h *ProfileHandler) GetSync(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	utils.WriteJSONResponse(w, http.StatusOK, sess.SyncStatus())
}

// RetrySync godoc
// @Summary      Retry failed sync
// @Tags         profile
// @Produce      json
// @Security     BearerAuth
// @Success      202  {object}  profile.SyncStatus
// @Router       /api/profile/sync/retry [post]
func (h *ProfileHandler) RetrySync(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	sess.RetrySync()
	utils.WriteJSONResponse(w, http.StatusAccepted, sess.SyncStatus())
}
