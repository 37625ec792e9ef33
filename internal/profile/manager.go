package profile

import (
	"context"
	"fmt"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/TanushriS/IntelliQRHelp/internal/qr"
	"github.com/TanushriS/IntelliQRHelp/internal/store"
)

// evictFlushTimeout bounds how long an evicted session may spend flushing
const evictFlushTimeout = 30 * time.Second

// Manager hands out one loaded Session per signed-in user. Sessions are
// kept in a bounded LRU cache; an evicted session flushes its pending
// writes in the background. A user's next session is not loaded until the
// previous one has finished closing.
type Manager struct {
	store    store.ProfileStore
	resolver *qr.Resolver
	policy   RetryPolicy
	logger   *zap.SugaredLogger

	cache *lru.Cache
	loads singleflight.Group

	mu      sync.Mutex
	closing map[string]*closingSession
}

type closingSession struct {
	session *Session
	done    chan struct{}
}

func NewManager(s store.ProfileStore, resolver *qr.Resolver, policy RetryPolicy, size int, logger *zap.SugaredLogger) (*Manager, error) {
	if size <= 0 {
		size = 1024
	}
	m := &Manager{
		store:    s,
		resolver: resolver,
		policy:   policy,
		logger:   logger,
		closing:  make(map[string]*closingSession),
	}
	cache, err := lru.NewWithEvict(size, m.evicted)
	if err != nil {
		return nil, fmt.Errorf("create session cache: %w", err)
	}
	m.cache = cache
	return m, nil
}

// Session returns the user's loaded session, loading it on first use.
// Concurrent first requests for the same user share one load.
func (m *Manager) Session(ctx context.Context, id Identity) (*Session, error) {
	if v, ok := m.cache.Get(id.UserID); ok {
		return v.(*Session), nil
	}

	v, err, _ := m.loads.Do(id.UserID, func() (interface{}, error) {
		if v, ok := m.cache.Get(id.UserID); ok {
			return v, nil
		}
		if err := m.awaitClosed(ctx, id.UserID); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrLoadFailed, err)
		}
		s := NewSession(id, m.store, m.resolver, m.policy, m.logger)
		if err := s.Load(ctx); err != nil {
			s.Close(ctx)
			return nil, err
		}
		m.cache.Add(id.UserID, s)
		return s, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Session), nil
}

// End drops the user's session after flushing its pending writes
func (m *Manager) End(ctx context.Context, userID string) {
	v, ok := m.cache.Peek(userID)
	if !ok {
		return
	}
	s := v.(*Session)
	c := m.beginClose(userID, s)
	if c == nil {
		return
	}
	// evicted sees the session already closing and leaves it to us
	m.cache.Remove(userID)
	s.Close(ctx)
	m.finishClose(userID, c)
}

// Len returns the number of live sessions
func (m *Manager) Len() int {
	return m.cache.Len()
}

// Close ends every session
func (m *Manager) Close(ctx context.Context) {
	for _, k := range m.cache.Keys() {
		m.End(ctx, k.(string))
	}
}

func (m *Manager) evicted(key, value interface{}) {
	userID, _ := key.(string)
	s, ok := value.(*Session)
	if !ok {
		return
	}
	c := m.beginClose(userID, s)
	if c == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), evictFlushTimeout)
		defer cancel()
		s.Close(ctx)
		m.finishClose(userID, c)
		m.logger.Debugw("closed profile session", "userId", userID)
	}()
}

// beginClose records s as closing. It returns nil when s is already being
// closed by someone else.
func (m *Manager) beginClose(userID string, s *Session) *closingSession {
	m.mu.Lock()
	defer m.mu.Unlock()
	if c, ok := m.closing[userID]; ok && c.session == s {
		return nil
	}
	c := &closingSession{session: s, done: make(chan struct{})}
	m.closing[userID] = c
	return c
}

func (m *Manager) finishClose(userID string, c *closingSession) {
	m.mu.Lock()
	if m.closing[userID] == c {
		delete(m.closing, userID)
	}
	m.mu.Unlock()
	close(c.done)
}

// awaitClosed blocks until no earlier session of the user is still flushing
func (m *Manager) awaitClosed(ctx context.Context, userID string) error {
	for {
		m.mu.Lock()
		c, ok := m.closing[userID]
		m.mu.Unlock()
		if !ok {
			return nil
		}
		select {
		case <-c.done:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
