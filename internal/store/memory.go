package store

import (
	"context"
	"strings"
	"sync"

	"github.com/TanushriS/IntelliQRHelp/internal/models"
)

// MemoryStore keeps documents in process. It backs the "memory" driver and
// stands in for the remote store in tests.
type MemoryStore struct {
	mu        sync.Mutex
	docs      map[string]models.Document
	users     map[string]models.User
	getErr    error
	updateErr error

	gets    int
	sets    []Write
	updates []Write
}

// Write is one recorded Set or Update call
type Write struct {
	UserID string
	Fields models.Document
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		docs:  map[string]models.Document{},
		users: map[string]models.User{},
	}
}

func (s *MemoryStore) Get(_ context.Context, userID string) (models.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gets++
	if s.getErr != nil {
		return nil, s.getErr
	}
	doc, ok := s.docs[userID]
	if !ok {
		return nil, ErrNotFound
	}
	return normalize(doc)
}

func (s *MemoryStore) Set(_ context.Context, userID string, doc models.Document) error {
	n, err := normalize(doc)
	if err != nil {
		return err
	}
	// the recorded copy must not see later in-place updates
	rec, err := normalize(doc)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sets = append(s.sets, Write{UserID: userID, Fields: rec})
	s.docs[userID] = n
	return nil
}

func (s *MemoryStore) Update(_ context.Context, userID string, fields models.Document) error {
	n, err := normalize(fields)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.updates = append(s.updates, Write{UserID: userID, Fields: n})
	if s.updateErr != nil {
		return s.updateErr
	}
	doc, ok := s.docs[userID]
	if !ok {
		return ErrNotFound
	}
	for k, v := range n {
		doc[k] = v
	}
	return nil
}

func (s *MemoryStore) Ping(context.Context) error { return nil }

func (s *MemoryStore) Close(context.Context) error { return nil }

func (s *MemoryStore) CreateUser(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := strings.ToLower(user.Email)
	if _, ok := s.users[key]; ok {
		return ErrUserExists
	}
	s.users[key] = *user
	return nil
}

func (s *MemoryStore) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[strings.ToLower(email)]
	if !ok {
		return nil, ErrNotFound
	}
	return &u, nil
}

// FailGets makes every Get return err until called again with nil
func (s *MemoryStore) FailGets(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.getErr = err
}

// FailUpdates makes every Update return err until called again with nil
func (s *MemoryStore) FailUpdates(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.updateErr = err
}

// Gets returns the number of Get calls
func (s *MemoryStore) Gets() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.gets
}

// Sets returns every Set call in order
func (s *MemoryStore) Sets() []Write {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Write(nil), s.sets...)
}

// Updates returns every Update call, including failed ones, in order
func (s *MemoryStore) Updates() []Write {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Write(nil), s.updates...)
}

// Raw returns a copy of the stored document without counting a Get
func (s *MemoryStore) Raw(userID string) (models.Document, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, ok := s.docs[userID]
	if !ok {
		return nil, false
	}
	n, err := normalize(doc)
	if err != nil {
		return nil, false
	}
	return n, true
}
