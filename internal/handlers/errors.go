package handlers

import (
	"errors"
	"net/http"

	"github.com/TanushriS/IntelliQRHelp/internal/profile"
	"github.com/TanushriS/IntelliQRHelp/internal/utils"
)

// contactLimitMessage is the alert shown when a fourth contact is added
const contactLimitMessage = "Maximum 3 contacts allowed."

// writeProfileError maps profile session errors to responses
func writeProfileError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, profile.ErrContactLimit):
		utils.WriteErrorResponse(w, http.StatusUnprocessableEntity, "Contact limit reached", contactLimitMessage)
	case errors.Is(err, profile.ErrContactNotFound):
		utils.WriteErrorResponse(w, http.StatusNotFound, "Contact not found", err.Error())
	case errors.Is(err, profile.ErrIndexOutOfRange):
		utils.WriteErrorResponse(w, http.StatusConflict, "Entry not found", err.Error())
	case errors.Is(err, profile.ErrStaleEntry):
		utils.WriteErrorResponse(w, http.StatusConflict, "Stale entry", "The entry changed since it was read; reload and try again")
	case errors.Is(err, profile.ErrUnknownField),
		errors.Is(err, profile.ErrReadOnlyField),
		errors.Is(err, profile.ErrInvalidValue):
		utils.WriteErrorResponse(w, http.StatusBadRequest, "Invalid field", err.Error())
	case errors.Is(err, profile.ErrLoadFailed):
		utils.WriteErrorResponse(w, http.StatusServiceUnavailable, "Profile unavailable", "Unable to load profile, try again later")
	case errors.Is(err, profile.ErrNotLoaded):
		utils.WriteErrorResponse(w, http.StatusConflict, "Session ended", "Sign in again to continue")
	default:
		utils.WriteErrorResponse(w, http.StatusInternalServerError, "Internal server error", err.Error())
	}
}
