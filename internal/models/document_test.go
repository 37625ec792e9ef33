package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultProfileDocument(t *testing.T) {
	doc := NewDefaultProfile("u1", "Ana Lima", "ana@example.org").Document()

	assert.Equal(t, Document{
		"name":              "Ana Lima",
		"email":             "ana@example.org",
		"userDescription":   "",
		"bloodGroup":        "",
		"allergies":         []any{},
		"previousDiseases":  []any{},
		"currentMeds":       []any{},
		"emergencyContacts": []any{},
		"profilePhoto":      "",
		"qrLink":            "",
		"qrCode":            "",
	}, doc)

	// lists serialize as [] rather than null
	raw, err := json.Marshal(doc)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"allergies":[]`)
}

func TestProfileFromPartialDocument(t *testing.T) {
	p := ProfileFromDocument("u1", Document{
		"bloodGroup": "O+",
		"allergies":  []any{"penicillin", 7, "latex"},
		"name":       42,
	})

	assert.Equal(t, "u1", p.UserID)
	assert.Equal(t, "", p.DisplayName)
	assert.Equal(t, "O+", p.BloodGroup)
	assert.Equal(t, []string{"penicillin", "latex"}, p.Allergies)
	assert.Equal(t, []string{}, p.PreviousDiseases)
	assert.Equal(t, []string{}, p.CurrentMeds)
	assert.Equal(t, []Contact{}, p.EmergencyContacts)
	assert.Equal(t, "", p.QRLink)
}

func TestContactsAreGivenIDs(t *testing.T) {
	doc := Document{"emergencyContacts": []any{
		map[string]any{"name": "Bea", "number": "555"},
		map[string]any{"id": "c2", "name": "Caio", "number": "556", "photo": "p.png"},
		"garbage",
	}}

	contacts := doc.Contacts(FieldEmergencyContacts)
	require.Len(t, contacts, 2)
	assert.NotEmpty(t, contacts[0].ID)
	assert.Equal(t, "Bea", contacts[0].Name)
	assert.Equal(t, Contact{ID: "c2", Name: "Caio", Number: "556", Photo: "p.png"}, contacts[1])
}

func TestDocumentRoundTrip(t *testing.T) {
	p := NewDefaultProfile("u1", "Ana", "")
	p.Allergies = []string{"penicillin"}
	p.EmergencyContacts = []Contact{{ID: "c1", Name: "Bea", Number: "555", Photo: ContactPhotoPlaceholder}}

	raw, err := json.Marshal(p.Document())
	require.NoError(t, err)
	var doc Document
	require.NoError(t, json.Unmarshal(raw, &doc))

	assert.Equal(t, p, ProfileFromDocument("u1", doc))
}

func TestEmailLocalPart(t *testing.T) {
	assert.Equal(t, "ana.lima", Document{"email": "ana.lima@example.org"}.EmailLocalPart())
	assert.Equal(t, "nobody", Document{"email": "nobody"}.EmailLocalPart())
	assert.Equal(t, "", Document{}.EmailLocalPart())
}

func TestCloneIsDeep(t *testing.T) {
	p := NewDefaultProfile("u1", "Ana", "")
	p.Allergies = []string{"a"}
	c := p.Clone()
	c.Allergies[0] = "b"
	assert.Equal(t, "a", p.Allergies[0])
}
