package profile

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/TanushriS/IntelliQRHelp/internal/config"
	"github.com/TanushriS/IntelliQRHelp/internal/models"
	"github.com/TanushriS/IntelliQRHelp/internal/qr"
	"github.com/TanushriS/IntelliQRHelp/internal/store"
)

var testIdentity = Identity{UserID: "u1", DisplayName: "Ana Lima", Email: "ana@example.org"}

func testPolicy() RetryPolicy {
	return RetryPolicy{MaxTries: 2, InitialBackoff: time.Millisecond, MaxBackoff: 2 * time.Millisecond}
}

func testResolver() *qr.Resolver {
	return qr.NewResolver(config.QRConfig{
		PublicBaseURL:   "https://help.example.org",
		ServiceEndpoint: "https://api.qrserver.com/v1/create-qr-code/",
	}, nil, zap.NewNop().Sugar())
}

func newTestSession(t *testing.T, s *store.MemoryStore) *Session {
	t.Helper()
	sess := NewSession(testIdentity, s, testResolver(), testPolicy(), zap.NewNop().Sugar())
	t.Cleanup(func() { sess.Close(context.Background()) })
	return sess
}

func loaded(t *testing.T, s *store.MemoryStore) *Session {
	t.Helper()
	sess := newTestSession(t, s)
	require.NoError(t, sess.Load(context.Background()))
	return sess
}

func flush(t *testing.T, sess *Session) SyncStatus {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return sess.Flush(ctx)
}

func countWrites(writes []store.Write, field models.Field) int {
	n := 0
	for _, w := range writes {
		if _, ok := w.Fields[string(field)]; ok {
			n++
		}
	}
	return n
}

func TestLoadCreatesDefaultDocument(t *testing.T) {
	s := store.NewMemoryStore()
	sess := loaded(t, s)

	sets := s.Sets()
	require.Len(t, sets, 1)
	assert.Equal(t, "u1", sets[0].UserID)
	assert.Equal(t, models.Document{
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
	}, sets[0].Fields)

	assert.Equal(t, StateLoaded, sess.State())
	assert.Equal(t, uint64(1), sess.Regenerations())

	p, err := sess.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, "https://help.example.org/public-profile?uid=u1&name=Ana%20Lima", p.QRLink)

	assert.Equal(t, SyncSynced, flush(t, sess).State)
	raw, ok := s.Raw("u1")
	require.True(t, ok)
	assert.Equal(t, p.QRLink, raw["qrLink"])
	assert.Equal(t, p.QRCode, raw["qrCode"])
}

func TestLoadPartialDocument(t *testing.T) {
	s := store.NewMemoryStore()
	require.NoError(t, s.Set(context.Background(), "u1", models.Document{
		"bloodGroup": "O+",
		"allergies":  []string{"penicillin"},
	}))

	sess := loaded(t, s)
	p, err := sess.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, "Ana Lima", p.DisplayName)
	assert.Equal(t, "O+", p.BloodGroup)
	assert.Equal(t, []string{"penicillin"}, p.Allergies)
	assert.Empty(t, p.CurrentMeds)
	assert.NotNil(t, p.CurrentMeds)
	assert.Empty(t, p.EmergencyContacts)
	assert.Len(t, s.Sets(), 1)
}

func TestLoadFailureStaysUninitialized(t *testing.T) {
	s := store.NewMemoryStore()
	s.FailGets(errors.New("unavailable"))
	sess := newTestSession(t, s)

	err := sess.Load(context.Background())
	assert.ErrorIs(t, err, ErrLoadFailed)
	assert.Equal(t, StateUninitialized, sess.State())
	assert.ErrorIs(t, sess.UpdateField(context.Background(), models.FieldBloodGroup, "A+"), ErrNotLoaded)
	_, err = sess.AddContact(context.Background(), models.Contact{Name: "Bo"})
	assert.ErrorIs(t, err, ErrNotLoaded)
	assert.Empty(t, s.Sets())
}

func TestRegenerationTriggers(t *testing.T) {
	ctx := context.Background()
	tests := []struct {
		name  string
		edit  func(*Session) error
		delta uint64
	}{
		{"name", func(s *Session) error { return s.UpdateField(ctx, models.FieldName, "Ana L") }, 1},
		{"blood group", func(s *Session) error { return s.UpdateField(ctx, models.FieldBloodGroup, "B+") }, 1},
		{"allergies", func(s *Session) error { return s.AddEntry(ctx, models.FieldAllergies, "latex") }, 1},
		{"previous diseases", func(s *Session) error { return s.AddEntry(ctx, models.FieldPreviousDiseases, "asthma") }, 1},
		{"current meds", func(s *Session) error { return s.AddEntry(ctx, models.FieldCurrentMeds, "insulin") }, 1},
		{"contacts", func(s *Session) error {
			_, err := s.AddContact(ctx, models.Contact{Name: "Bo", Number: "555"})
			return err
		}, 1},
		{"description", func(s *Session) error { return s.UpdateField(ctx, models.FieldDescription, "hi") }, 0},
		{"profile photo", func(s *Session) error { return s.UpdateField(ctx, models.FieldProfilePhoto, "p.png") }, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sess := loaded(t, store.NewMemoryStore())
			before := sess.Regenerations()
			require.NoError(t, tt.edit(sess))
			assert.Equal(t, tt.delta, sess.Regenerations()-before)
		})
	}
}

func TestUpdateFieldValidation(t *testing.T) {
	ctx := context.Background()
	sess := loaded(t, store.NewMemoryStore())

	assert.ErrorIs(t, sess.UpdateField(ctx, models.FieldQRLink, "x"), ErrReadOnlyField)
	assert.ErrorIs(t, sess.UpdateField(ctx, models.FieldEmail, "x@y"), ErrReadOnlyField)
	assert.ErrorIs(t, sess.UpdateField(ctx, "shoeSize", "42"), ErrUnknownField)
	assert.ErrorIs(t, sess.UpdateField(ctx, models.FieldBloodGroup, 7), ErrInvalidValue)
	assert.ErrorIs(t, sess.UpdateField(ctx, models.FieldAllergies, []any{"a", 1}), ErrInvalidValue)

	require.NoError(t, sess.UpdateField(ctx, models.FieldAllergies, []any{"a", "b"}))
	p, _ := sess.Snapshot()
	assert.Equal(t, []string{"a", "b"}, p.Allergies)
}

func TestContactCap(t *testing.T) {
	ctx := context.Background()
	sess := loaded(t, store.NewMemoryStore())

	for _, n := range []string{"A", "B", "C"} {
		_, err := sess.AddContact(ctx, models.Contact{Name: n, Number: "1"})
		require.NoError(t, err)
	}
	before, _ := sess.Snapshot()
	regens := sess.Regenerations()

	_, err := sess.AddContact(ctx, models.Contact{Name: "D", Number: "1"})
	assert.ErrorIs(t, err, ErrContactLimit)

	after, _ := sess.Snapshot()
	assert.Equal(t, before.EmergencyContacts, after.EmergencyContacts)
	assert.Equal(t, regens, sess.Regenerations())

	// editing a full list is still allowed
	c, err := sess.UpdateContact(ctx, 1, models.Contact{Name: "B2", Number: "2"})
	require.NoError(t, err)
	assert.Equal(t, before.EmergencyContacts[1].ID, c.ID)

	tooMany := []models.Contact{{Name: "1"}, {Name: "2"}, {Name: "3"}, {Name: "4"}}
	assert.ErrorIs(t, sess.UpdateField(ctx, models.FieldEmergencyContacts, tooMany), ErrContactLimit)
}

func TestAddContactDefaultsPhoto(t *testing.T) {
	sess := loaded(t, store.NewMemoryStore())
	c, err := sess.AddContact(context.Background(), models.Contact{Name: " Bo ", Number: "555"})
	require.NoError(t, err)
	assert.NotEmpty(t, c.ID)
	assert.Equal(t, "Bo", c.Name)
	assert.Equal(t, models.ContactPhotoPlaceholder, c.Photo)
}

func TestRemoveContactShiftsIndexes(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore()
	sess := loaded(t, s)

	var ids []string
	for _, n := range []string{"A", "B", "C"} {
		c, err := sess.AddContact(ctx, models.Contact{Name: n, Number: "1"})
		require.NoError(t, err)
		ids = append(ids, c.ID)
	}

	require.NoError(t, sess.RemoveContact(ctx, 0))
	p, _ := sess.Snapshot()
	require.Len(t, p.EmergencyContacts, 2)
	assert.Equal(t, "B", p.EmergencyContacts[0].Name)

	i, ok := sess.ContactIndex(ids[2])
	assert.True(t, ok)
	assert.Equal(t, 1, i)
	_, ok = sess.ContactIndex(ids[0])
	assert.False(t, ok)

	assert.ErrorIs(t, sess.RemoveContact(ctx, 5), ErrIndexOutOfRange)

	assert.Equal(t, SyncSynced, flush(t, sess).State)
	raw, _ := s.Raw("u1")
	assert.Len(t, raw["emergencyContacts"], 2)
}

func TestMedicalEntries(t *testing.T) {
	ctx := context.Background()
	sess := loaded(t, store.NewMemoryStore())

	require.NoError(t, sess.AddEntry(ctx, models.FieldCurrentMeds, "a"))
	require.NoError(t, sess.AddEntry(ctx, models.FieldCurrentMeds, "b"))
	require.NoError(t, sess.AddEntry(ctx, models.FieldCurrentMeds, "c"))

	stale := "a"
	assert.ErrorIs(t, sess.UpdateEntry(ctx, models.FieldCurrentMeds, 1, "x", &stale), ErrStaleEntry)

	cur := "b"
	require.NoError(t, sess.UpdateEntry(ctx, models.FieldCurrentMeds, 1, "b2", &cur))
	require.NoError(t, sess.RemoveEntry(ctx, models.FieldCurrentMeds, 0, nil))

	p, _ := sess.Snapshot()
	assert.Equal(t, []string{"b2", "c"}, p.CurrentMeds)

	assert.ErrorIs(t, sess.RemoveEntry(ctx, models.FieldCurrentMeds, 2, nil), ErrIndexOutOfRange)
	assert.ErrorIs(t, sess.AddEntry(ctx, models.FieldBloodGroup, "x"), ErrUnknownField)
}

func TestFailedWriteKeepsLocalValue(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore()
	sess := loaded(t, s)
	require.Equal(t, SyncSynced, flush(t, sess).State)

	s.FailUpdates(errors.New("network down"))
	require.NoError(t, sess.UpdateField(ctx, models.FieldDescription, "diabetic"))

	st := flush(t, sess)
	assert.Equal(t, SyncFailed, st.State)
	assert.Equal(t, string(models.FieldDescription), st.FailedKey)
	assert.Contains(t, st.LastError, "network down")

	p, _ := sess.Snapshot()
	assert.Equal(t, "diabetic", p.Description)
	raw, _ := s.Raw("u1")
	assert.Equal(t, "", raw["userDescription"])

	s.FailUpdates(nil)
	sess.RetrySync()
	assert.Equal(t, SyncSynced, flush(t, sess).State)
	raw, _ = s.Raw("u1")
	assert.Equal(t, "diabetic", raw["userDescription"])
}

func TestQRWriteSkippedWhenUnchanged(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore()
	sess := loaded(t, s)
	flush(t, sess)
	require.Equal(t, 1, countWrites(s.Updates(), models.FieldQRLink))

	require.NoError(t, sess.UpdateField(ctx, models.FieldBloodGroup, "AB-"))
	flush(t, sess)
	assert.Equal(t, 1, countWrites(s.Updates(), models.FieldQRLink))

	require.NoError(t, sess.UpdateField(ctx, models.FieldName, "Ana Maria"))
	flush(t, sess)
	assert.Equal(t, 2, countWrites(s.Updates(), models.FieldQRLink))

	raw, _ := s.Raw("u1")
	assert.Equal(t, "https://help.example.org/public-profile?uid=u1&name=Ana%20Maria", raw["qrLink"])
}

func TestLoadKeepsStoredLinkWhenCurrent(t *testing.T) {
	s := store.NewMemoryStore()
	first := loaded(t, s)
	flush(t, first)
	first.Close(context.Background())

	second := loaded(t, s)
	flush(t, second)
	assert.Equal(t, 1, countWrites(s.Updates(), models.FieldQRLink))
	assert.Equal(t, uint64(1), second.Regenerations())
}

func TestCloseIsIdempotent(t *testing.T) {
	sess := loaded(t, store.NewMemoryStore())
	sess.Close(context.Background())
	sess.Close(context.Background())
	assert.Equal(t, StateUninitialized, sess.State())
	_, err := sess.Snapshot()
	assert.ErrorIs(t, err, ErrNotLoaded)
}

func TestClosedSessionRejectsEdits(t *testing.T) {
	s := store.NewMemoryStore()
	sess := loaded(t, s)
	sess.Close(context.Background())

	err := sess.UpdateField(context.Background(), models.FieldBloodGroup, "AB+")
	assert.ErrorIs(t, err, ErrNotLoaded)
	assert.Zero(t, countWrites(s.Updates(), models.FieldBloodGroup))
	assert.Zero(t, sess.SyncStatus().Pending)
}

func TestContactsByIDSurviveReordering(t *testing.T) {
	ctx := context.Background()
	sess := loaded(t, store.NewMemoryStore())

	a, err := sess.AddContact(ctx, models.Contact{Name: "A", Number: "1"})
	require.NoError(t, err)
	b, err := sess.AddContact(ctx, models.Contact{Name: "B", Number: "2"})
	require.NoError(t, err)

	require.NoError(t, sess.RemoveContactByID(ctx, a.ID))
	updated, err := sess.UpdateContactByID(ctx, b.ID, models.Contact{Name: "B2", Number: "22"})
	require.NoError(t, err)
	assert.Equal(t, b.ID, updated.ID)

	p, _ := sess.Snapshot()
	require.Len(t, p.EmergencyContacts, 1)
	assert.Equal(t, "B2", p.EmergencyContacts[0].Name)

	assert.ErrorIs(t, sess.RemoveContactByID(ctx, a.ID), ErrContactNotFound)
	_, err = sess.UpdateContactByID(ctx, "nope", models.Contact{})
	assert.ErrorIs(t, err, ErrContactNotFound)
}
