package models

// Field names of the per-user profile document
type Field string

const (
	FieldName              Field = "name"
	FieldEmail             Field = "email"
	FieldDescription       Field = "userDescription"
	FieldBloodGroup        Field = "bloodGroup"
	FieldAllergies         Field = "allergies"
	FieldPreviousDiseases  Field = "previousDiseases"
	FieldCurrentMeds       Field = "currentMeds"
	FieldEmergencyContacts Field = "emergencyContacts"
	FieldProfilePhoto      Field = "profilePhoto"
	FieldQRLink            Field = "qrLink"
	FieldQRCode            Field = "qrCode"
)

const (
	// MaxEmergencyContacts caps the emergency contact list
	MaxEmergencyContacts = 3

	// ContactPhotoPlaceholder is stored when a contact has no photo
	ContactPhotoPlaceholder = "https://via.placeholder.com/45"
)

// MedicalListFields are the free-form, uncapped list fields
var MedicalListFields = []Field{FieldAllergies, FieldPreviousDiseases, FieldCurrentMeds}

// IsMedicalList reports whether f is one of the free-form medical lists
func IsMedicalList(f Field) bool {
	for _, m := range MedicalListFields {
		if f == m {
			return true
		}
	}
	return false
}

// Contact is one emergency contact. ID is assigned when the contact is
// created and survives reordering.
type Contact struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Number string `json:"number"`
	Photo  string `json:"photo"`
}

// Profile is one user's emergency profile
type Profile struct {
	UserID            string    `json:"userId"`
	DisplayName       string    `json:"name"`
	Email             string    `json:"email"`
	Description       string    `json:"userDescription"`
	BloodGroup        string    `json:"bloodGroup"`
	Allergies         []string  `json:"allergies"`
	PreviousDiseases  []string  `json:"previousDiseases"`
	CurrentMeds       []string  `json:"currentMeds"`
	EmergencyContacts []Contact `json:"emergencyContacts"`
	ProfilePhoto      string    `json:"profilePhoto"`
	QRLink            string    `json:"qrLink"`
	QRCode            string    `json:"qrCode"`
}

// NewDefaultProfile is the document created for a user seen for the first time
func NewDefaultProfile(userID, displayName, email string) Profile {
	return Profile{
		UserID:            userID,
		DisplayName:       displayName,
		Email:             email,
		Allergies:         []string{},
		PreviousDiseases:  []string{},
		CurrentMeds:       []string{},
		EmergencyContacts: []Contact{},
	}
}

// List returns the medical list stored under f
func (p *Profile) List(f Field) []string {
	switch f {
	case FieldAllergies:
		return p.Allergies
	case FieldPreviousDiseases:
		return p.PreviousDiseases
	case FieldCurrentMeds:
		return p.CurrentMeds
	}
	return nil
}

// SetList replaces the medical list stored under f
func (p *Profile) SetList(f Field, list []string) {
	switch f {
	case FieldAllergies:
		p.Allergies = list
	case FieldPreviousDiseases:
		p.PreviousDiseases = list
	case FieldCurrentMeds:
		p.CurrentMeds = list
	}
}

// Clone returns a deep copy
func (p Profile) Clone() Profile {
	c := p
	c.Allergies = append([]string{}, p.Allergies...)
	c.PreviousDiseases = append([]string{}, p.PreviousDiseases...)
	c.CurrentMeds = append([]string{}, p.CurrentMeds...)
	c.EmergencyContacts = append([]Contact{}, p.EmergencyContacts...)
	return c
}
