package models

import (
	"strings"

	"github.com/google/uuid"
)

// Document is the stored form of a profile: a flat mapping of field name to
// a JSON-shaped value (string, []any, map[string]any).
type Document map[string]any

// Document converts the profile to its stored form. The user id is the
// document key and is not part of the body.
func (p Profile) Document() Document {
	return Document{
		string(FieldName):              p.DisplayName,
		string(FieldEmail):             p.Email,
		string(FieldDescription):       p.Description,
		string(FieldBloodGroup):        p.BloodGroup,
		string(FieldAllergies):         StringsValue(p.Allergies),
		string(FieldPreviousDiseases):  StringsValue(p.PreviousDiseases),
		string(FieldCurrentMeds):       StringsValue(p.CurrentMeds),
		string(FieldEmergencyContacts): ContactsValue(p.EmergencyContacts),
		string(FieldProfilePhoto):      p.ProfilePhoto,
		string(FieldQRLink):            p.QRLink,
		string(FieldQRCode):            p.QRCode,
	}
}

// StringsValue converts a string list to its document value
func StringsValue(list []string) []any {
	out := make([]any, 0, len(list))
	for _, s := range list {
		out = append(out, s)
	}
	return out
}

// ContactsValue converts contacts to their document value
func ContactsValue(contacts []Contact) []any {
	out := make([]any, 0, len(contacts))
	for _, c := range contacts {
		out = append(out, map[string]any{
			"id":     c.ID,
			"name":   c.Name,
			"number": c.Number,
			"photo":  c.Photo,
		})
	}
	return out
}

// ProfileFromDocument projects a stored document into a Profile. Missing or
// mistyped fields fall back to their empty form; contacts stored without an
// id are given one.
func ProfileFromDocument(userID string, doc Document) Profile {
	p := NewDefaultProfile(userID, doc.String(FieldName), doc.String(FieldEmail))
	p.Description = doc.String(FieldDescription)
	p.BloodGroup = doc.String(FieldBloodGroup)
	p.Allergies = doc.Strings(FieldAllergies)
	p.PreviousDiseases = doc.Strings(FieldPreviousDiseases)
	p.CurrentMeds = doc.Strings(FieldCurrentMeds)
	p.EmergencyContacts = doc.Contacts(FieldEmergencyContacts)
	p.ProfilePhoto = doc.String(FieldProfilePhoto)
	p.QRLink = doc.String(FieldQRLink)
	p.QRCode = doc.String(FieldQRCode)
	return p
}

// String returns the field as a string, or "" when absent or not a string
func (d Document) String(f Field) string {
	if s, ok := d[string(f)].(string); ok {
		return s
	}
	return ""
}

// Strings returns the field as a string list. Non-string elements are skipped.
func (d Document) Strings(f Field) []string {
	out := []string{}
	switch v := d[string(f)].(type) {
	case []string:
		out = append(out, v...)
	case []any:
		for _, e := range v {
			if s, ok := e.(string); ok {
				out = append(out, s)
			}
		}
	}
	return out
}

// Contacts returns the field as a contact list
func (d Document) Contacts(f Field) []Contact {
	out := []Contact{}
	switch v := d[string(f)].(type) {
	case []Contact:
		out = append(out, v...)
	case []any:
		for _, e := range v {
			m, ok := e.(map[string]any)
			if !ok {
				continue
			}
			c := Contact{}
			c.ID, _ = m["id"].(string)
			c.Name, _ = m["name"].(string)
			c.Number, _ = m["number"].(string)
			c.Photo, _ = m["photo"].(string)
			out = append(out, c)
		}
	}
	for i := range out {
		if out[i].ID == "" {
			out[i].ID = uuid.NewString()
		}
	}
	return out
}

// EmailLocalPart returns the part of the stored email before "@"
func (d Document) EmailLocalPart() string {
	email := d.String(FieldEmail)
	if email == "" {
		return ""
	}
	local, _, _ := strings.Cut(email, "@")
	return local
}
