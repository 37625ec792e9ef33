package dto

import (
	"encoding/json"

	"github.com/TanushriS/IntelliQRHelp/internal/models"
	"github.com/TanushriS/IntelliQRHelp/internal/profile"
	"github.com/TanushriS/IntelliQRHelp/internal/qr"
)

// ProfileResponse is the signed-in user's profile with its QR link and
// sync indicator
type ProfileResponse struct {
	Profile models.Profile     `json:"profile"`
	QR      qr.Link            `json:"qr"`
	Sync    profile.SyncStatus `json:"sync"`
}

// FieldUpdate sets one profile field
type FieldUpdate struct {
	Field string          `json:"field" example:"bloodGroup"`
	Value json.RawMessage `json:"value" swaggertype:"string" example:"O+"`
}

// UpdateProfileRequest applies field updates in order
type UpdateProfileRequest struct {
	Updates []FieldUpdate `json:"updates"`
}

// ContactRequest creates or edits an emergency contact
type ContactRequest struct {
	Name   string `json:"name" example:"Maria"`
	Number string `json:"number" example:"+5511999990000"`
	Photo  string `json:"photo,omitempty"`
}

// EntryRequest appends or edits one medical list entry. Expect, when set,
// must equal the entry currently at the addressed index.
type EntryRequest struct {
	Value  string  `json:"value" example:"penicillin"`
	Expect *string `json:"expect,omitempty"`
}

// SOSResponse reports the outcome of an SOS alert
type SOSResponse struct {
	Sent    bool   `json:"sent"`
	Message string `json:"message"`
}
