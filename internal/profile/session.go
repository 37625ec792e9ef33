// Package profile keeps one user's emergency profile in memory, writes every
// accepted edit through to the profile store and keeps the QR link derived
// from it current.
package profile

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/TanushriS/IntelliQRHelp/internal/models"
	"github.com/TanushriS/IntelliQRHelp/internal/qr"
	"github.com/TanushriS/IntelliQRHelp/internal/store"
)

var (
	ErrNotLoaded     = errors.New("profile is not loaded")
	ErrLoadFailed    = errors.New("unable to load profile")
	ErrUnknownField  = errors.New("unknown profile field")
	ErrReadOnlyField = errors.New("profile field is read-only")
	ErrInvalidValue  = errors.New("invalid value for profile field")
)

// qrWriteKey queues the derived link and image URL as one write
const qrWriteKey = "qr"

// State of a session
type State int

const (
	StateUninitialized State = iota
	StateLoaded
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateLoaded:
		return "loaded"
	}
	return "unknown"
}

// Identity is what the identity provider tells us about the signed-in user
type Identity struct {
	UserID      string
	DisplayName string
	Email       string
	PhotoURL    string
}

// regenerates lists the fields whose edits re-derive the QR link
var regenerates = map[models.Field]bool{
	models.FieldName:              true,
	models.FieldBloodGroup:        true,
	models.FieldAllergies:         true,
	models.FieldPreviousDiseases:  true,
	models.FieldCurrentMeds:       true,
	models.FieldEmergencyContacts: true,
}

// Session owns the in-memory profile of one user. Edits are applied locally
// first and queued for the store; a failed write never rolls the local
// value back.
type Session struct {
	identity Identity
	store    store.ProfileStore
	resolver *qr.Resolver
	syncer   *Syncer
	logger   *zap.SugaredLogger

	mu            sync.Mutex
	state         State
	profile       models.Profile
	queuedLink    qr.Link
	regenerations uint64
	closeOnce     sync.Once
}

func NewSession(identity Identity, s store.ProfileStore, resolver *qr.Resolver, policy RetryPolicy, logger *zap.SugaredLogger) *Session {
	logger = logger.With("userId", identity.UserID)
	return &Session{
		identity: identity,
		store:    s,
		resolver: resolver,
		syncer:   NewSyncer(identity.UserID, s, policy, logger),
		logger:   logger,
	}
}

// Load reads the user's document, creating and persisting a default one for
// a first-time user. On a read failure the session stays uninitialized.
func (s *Session) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateLoaded {
		return nil
	}

	doc, err := s.store.Get(ctx, s.identity.UserID)
	switch {
	case errors.Is(err, store.ErrNotFound):
		p := models.NewDefaultProfile(s.identity.UserID, s.identity.DisplayName, s.identity.Email)
		if err := s.store.Set(ctx, s.identity.UserID, p.Document()); err != nil {
			s.logger.Errorw("unable to create default profile", "error", err)
			return fmt.Errorf("%w: %v", ErrLoadFailed, err)
		}
		s.logger.Infow("created default profile")
		s.profile = p
	case err != nil:
		s.logger.Errorw("unable to load profile", "error", err)
		return fmt.Errorf("%w: %v", ErrLoadFailed, err)
	default:
		p := models.ProfileFromDocument(s.identity.UserID, doc)
		if p.DisplayName == "" {
			p.DisplayName = s.identity.DisplayName
		}
		if p.Email == "" {
			p.Email = s.identity.Email
		}
		s.profile = p
	}

	s.queuedLink = qr.Link{PublicLink: s.profile.QRLink, ImageURL: s.profile.QRCode}
	s.state = StateLoaded
	s.regenerateLocked()
	return nil
}

// State returns the lifecycle state
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Snapshot returns a copy of the in-memory profile
func (s *Session) Snapshot() (models.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateLoaded {
		return models.Profile{}, ErrNotLoaded
	}
	return s.profile.Clone(), nil
}

// Identity returns who the session belongs to
func (s *Session) Identity() Identity {
	return s.identity
}

// UpdateField sets one field and queues a partial write of it
func (s *Session) UpdateField(ctx context.Context, field models.Field, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateLoaded {
		return ErrNotLoaded
	}

	switch field {
	case models.FieldName, models.FieldDescription, models.FieldBloodGroup, models.FieldProfilePhoto:
		v, ok := value.(string)
		if !ok {
			return fmt.Errorf("%w: %s must be a string", ErrInvalidValue, field)
		}
		s.setStringLocked(field, v)
		s.commitLocked(field, v)
	case models.FieldAllergies, models.FieldPreviousDiseases, models.FieldCurrentMeds:
		list, ok := toStrings(value)
		if !ok {
			return fmt.Errorf("%w: %s must be a list of strings", ErrInvalidValue, field)
		}
		s.profile.SetList(field, list)
		s.commitLocked(field, models.StringsValue(list))
	case models.FieldEmergencyContacts:
		contacts, ok := value.([]models.Contact)
		if !ok {
			return fmt.Errorf("%w: %s must be a list of contacts", ErrInvalidValue, field)
		}
		if len(contacts) > models.MaxEmergencyContacts {
			return ErrContactLimit
		}
		out := make([]models.Contact, 0, len(contacts))
		for _, c := range contacts {
			out = append(out, prepareContact(c, ""))
		}
		s.profile.EmergencyContacts = out
		s.commitLocked(field, models.ContactsValue(out))
	case models.FieldEmail, models.FieldQRLink, models.FieldQRCode:
		return fmt.Errorf("%w: %s", ErrReadOnlyField, field)
	default:
		return fmt.Errorf("%w: %s", ErrUnknownField, field)
	}
	return nil
}

// AddContact appends a contact unless the list is full
func (s *Session) AddContact(ctx context.Context, c models.Contact) (models.Contact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateLoaded {
		return models.Contact{}, ErrNotLoaded
	}

	c = prepareContact(c, uuid.NewString())
	list, err := appendBounded(s.profile.EmergencyContacts, c, models.MaxEmergencyContacts, ErrContactLimit)
	if err != nil {
		return models.Contact{}, err
	}
	s.setContactsLocked(list)
	return c, nil
}

// UpdateContact replaces the contact at index in place, keeping its id.
// Editing is allowed when the list is full.
func (s *Session) UpdateContact(ctx context.Context, index int, c models.Contact) (models.Contact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateLoaded {
		return models.Contact{}, ErrNotLoaded
	}
	if index < 0 || index >= len(s.profile.EmergencyContacts) {
		return models.Contact{}, ErrIndexOutOfRange
	}

	c = prepareContact(c, s.profile.EmergencyContacts[index].ID)
	list, err := replaceAt(s.profile.EmergencyContacts, index, c)
	if err != nil {
		return models.Contact{}, err
	}
	s.setContactsLocked(list)
	return c, nil
}

// RemoveContact deletes the contact at index; later contacts move up
func (s *Session) RemoveContact(ctx context.Context, index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateLoaded {
		return ErrNotLoaded
	}

	list, err := removeAt(s.profile.EmergencyContacts, index)
	if err != nil {
		return err
	}
	s.setContactsLocked(list)
	return nil
}

// ContactIndex finds the current position of a contact by id
func (s *Session) ContactIndex(id string) (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.contactIndexLocked(id)
	return i, i >= 0
}

// UpdateContactByID edits the contact with the given id wherever it
// currently sits in the list
func (s *Session) UpdateContactByID(ctx context.Context, id string, c models.Contact) (models.Contact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateLoaded {
		return models.Contact{}, ErrNotLoaded
	}
	i := s.contactIndexLocked(id)
	if i < 0 {
		return models.Contact{}, ErrContactNotFound
	}

	c = prepareContact(c, id)
	list, err := replaceAt(s.profile.EmergencyContacts, i, c)
	if err != nil {
		return models.Contact{}, err
	}
	s.setContactsLocked(list)
	return c, nil
}

// RemoveContactByID deletes the contact with the given id
func (s *Session) RemoveContactByID(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateLoaded {
		return ErrNotLoaded
	}
	i := s.contactIndexLocked(id)
	if i < 0 {
		return ErrContactNotFound
	}

	list, err := removeAt(s.profile.EmergencyContacts, i)
	if err != nil {
		return err
	}
	s.setContactsLocked(list)
	return nil
}

func (s *Session) contactIndexLocked(id string) int {
	for i, c := range s.profile.EmergencyContacts {
		if c.ID == id {
			return i
		}
	}
	return -1
}

// AddEntry appends an entry to one of the medical lists
func (s *Session) AddEntry(ctx context.Context, field models.Field, entry string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkListLocked(field); err != nil {
		return err
	}

	list, err := appendBounded(s.profile.List(field), entry, 0, nil)
	if err != nil {
		return err
	}
	s.setListLocked(field, list)
	return nil
}

// UpdateEntry replaces the entry at index. When expect is set the current
// entry must equal it, so an edit made from an outdated list is refused.
func (s *Session) UpdateEntry(ctx context.Context, field models.Field, index int, entry string, expect *string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkListLocked(field); err != nil {
		return err
	}
	if err := checkExpected(s.profile.List(field), index, expect); err != nil {
		return err
	}

	list, err := replaceAt(s.profile.List(field), index, entry)
	if err != nil {
		return err
	}
	s.setListLocked(field, list)
	return nil
}

// RemoveEntry deletes the entry at index; later entries move up
func (s *Session) RemoveEntry(ctx context.Context, field models.Field, index int, expect *string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkListLocked(field); err != nil {
		return err
	}
	if err := checkExpected(s.profile.List(field), index, expect); err != nil {
		return err
	}

	list, err := removeAt(s.profile.List(field), index)
	if err != nil {
		return err
	}
	s.setListLocked(field, list)
	return nil
}

// Regenerate re-derives the QR link now
func (s *Session) Regenerate(ctx context.Context) (qr.Link, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateLoaded {
		return qr.Link{}, ErrNotLoaded
	}
	return s.regenerateLocked(), nil
}

// Link returns the current QR link without re-deriving it
func (s *Session) Link() (qr.Link, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateLoaded {
		return qr.Link{}, ErrNotLoaded
	}
	return qr.Link{PublicLink: s.profile.QRLink, ImageURL: s.profile.QRCode}, nil
}

// Regenerations counts how many times the QR link has been re-derived
func (s *Session) Regenerations() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.regenerations
}

// SyncStatus reports whether local edits have reached the store
func (s *Session) SyncStatus() SyncStatus {
	return s.syncer.Status()
}

// RetrySync re-arms a failed sync
func (s *Session) RetrySync() {
	s.syncer.Retry()
}

// Flush waits until queued writes have been attempted
func (s *Session) Flush(ctx context.Context) SyncStatus {
	return s.syncer.Flush(ctx)
}

// Close flushes queued writes (bounded by ctx) and releases the session.
// It is safe to call more than once.
func (s *Session) Close(ctx context.Context) {
	s.closeOnce.Do(func() {
		// stop accepting edits before the worker stops
		s.mu.Lock()
		s.state = StateUninitialized
		s.profile = models.Profile{}
		s.mu.Unlock()
		s.syncer.Close(ctx)
	})
}

func (s *Session) checkListLocked(field models.Field) error {
	if s.state != StateLoaded {
		return ErrNotLoaded
	}
	if !models.IsMedicalList(field) {
		return fmt.Errorf("%w: %s is not a medical list", ErrUnknownField, field)
	}
	return nil
}

func (s *Session) setStringLocked(field models.Field, v string) {
	switch field {
	case models.FieldName:
		s.profile.DisplayName = v
	case models.FieldDescription:
		s.profile.Description = v
	case models.FieldBloodGroup:
		s.profile.BloodGroup = v
	case models.FieldProfilePhoto:
		s.profile.ProfilePhoto = v
	}
}

func (s *Session) setContactsLocked(list []models.Contact) {
	s.profile.EmergencyContacts = list
	s.commitLocked(models.FieldEmergencyContacts, models.ContactsValue(list))
}

func (s *Session) setListLocked(field models.Field, list []string) {
	s.profile.SetList(field, list)
	s.commitLocked(field, models.StringsValue(list))
}

// commitLocked queues the whole field value and re-derives the QR link when
// the field feeds it
func (s *Session) commitLocked(field models.Field, value any) {
	s.syncer.Enqueue(string(field), models.Document{string(field): value})
	if regenerates[field] {
		s.regenerateLocked()
	}
}

// regenerateLocked derives the link and queues it for the store. The write
// is skipped when the derived pair equals the last one queued.
func (s *Session) regenerateLocked() qr.Link {
	s.regenerations++

	name := s.profile.DisplayName
	if name == "" {
		name = s.identity.DisplayName
	}
	link := s.resolver.Derive(s.identity.UserID, name)
	s.profile.QRLink = link.PublicLink
	s.profile.QRCode = link.ImageURL

	if link == s.queuedLink {
		return link
	}
	s.queuedLink = link
	s.syncer.Enqueue(qrWriteKey, models.Document{
		string(models.FieldQRLink): link.PublicLink,
		string(models.FieldQRCode): link.ImageURL,
	})
	s.logger.Debugw("queued qr link", "publicLink", link.PublicLink)
	return link
}

func prepareContact(c models.Contact, id string) models.Contact {
	if id != "" {
		c.ID = id
	}
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	c.Name = strings.TrimSpace(c.Name)
	c.Number = strings.TrimSpace(c.Number)
	if c.Photo == "" {
		c.Photo = models.ContactPhotoPlaceholder
	}
	return c
}

func checkExpected(list []string, index int, expect *string) error {
	if index < 0 || index >= len(list) {
		return ErrIndexOutOfRange
	}
	if expect != nil && list[index] != *expect {
		return ErrStaleEntry
	}
	return nil
}

func toStrings(value any) ([]string, bool) {
	switch v := value.(type) {
	case []string:
		return append([]string{}, v...), true
	case []any:
		out := make([]string, 0, len(v))
		for _, e := range v {
			s, ok := e.(string)
			if !ok {
				return nil, false
			}
			out = append(out, s)
		}
		return out, true
	}
	return nil, false
}
