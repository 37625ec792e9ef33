package qr

import (
	"context"
	"errors"
	"net/url"
	"strings"

	"github.com/TanushriS/IntelliQRHelp/internal/models"
)

// Placeholders shown in the public view
const (
	UnknownName  = "Unknown"
	NotAvailable = "N/A"
	None         = "None"
)

// ErrNotFound covers every way a public lookup can fail
var ErrNotFound = errors.New("profile not found")

// DocumentGetter reads a profile document
type DocumentGetter interface {
	Get(ctx context.Context, userID string) (models.Document, error)
}

// PublicView is the redacted profile shown to whoever scans the QR code
type PublicView struct {
	Name               string `json:"name"`
	BloodGroup         string `json:"bloodGroup"`
	Allergies          string `json:"allergies"`
	EmergencyContact   string `json:"emergencyContact"`
	PreviousDiseases   string `json:"previousDiseases"`
	CurrentMedications string `json:"currentMedications"`
}

// ResolvePublicProfile reads the uid and name parameters of a public link
// and returns the redacted view of that user's document. A missing uid
// fails without touching the store; lookup errors are logged and reported
// as ErrNotFound.
func (r *Resolver) ResolvePublicProfile(ctx context.Context, query url.Values) (*PublicView, error) {
	userID := strings.TrimSpace(query.Get(QueryUserID))
	if userID == "" || r.docs == nil {
		return nil, ErrNotFound
	}

	doc, err := r.docs.Get(ctx, userID)
	if err != nil {
		if r.logger != nil {
			r.logger.Warnw("public profile lookup failed", "userId", userID, "error", err)
		}
		return nil, ErrNotFound
	}
	if doc == nil {
		return nil, ErrNotFound
	}

	view := Redact(doc, query.Get(QueryName))
	return &view, nil
}

// Redact projects a document into the public view. The name falls back from
// the stored name to the link's name hint, then the email local part, then
// "Unknown". Only the first emergency contact is shown.
func Redact(doc models.Document, nameHint string) PublicView {
	name := doc.String(models.FieldName)
	if name == "" {
		name = nameHint
	}
	if name == "" {
		name = doc.EmailLocalPart()
	}
	if name == "" {
		name = UnknownName
	}

	blood := doc.String(models.FieldBloodGroup)
	if blood == "" {
		blood = NotAvailable
	}

	contact := None
	if contacts := doc.Contacts(models.FieldEmergencyContacts); len(contacts) > 0 {
		contact = contacts[0].Name + ": " + contacts[0].Number
	}

	return PublicView{
		Name:               name,
		BloodGroup:         blood,
		Allergies:          joinOrNone(doc.Strings(models.FieldAllergies)),
		EmergencyContact:   contact,
		PreviousDiseases:   joinOrNone(doc.Strings(models.FieldPreviousDiseases)),
		CurrentMedications: joinOrNone(doc.Strings(models.FieldCurrentMeds)),
	}
}

func joinOrNone(list []string) string {
	if len(list) == 0 {
		return None
	}
	return strings.Join(list, ", ")
}
