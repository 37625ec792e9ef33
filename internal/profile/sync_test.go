package profile

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/TanushriS/IntelliQRHelp/internal/models"
	"github.com/TanushriS/IntelliQRHelp/internal/store"
)

// gatedUpdater blocks its first Update until release is closed
type gatedUpdater struct {
	started chan struct{}
	release chan struct{}
	once    sync.Once

	mu    sync.Mutex
	calls []models.Document
	err   error
}

func newGatedUpdater() *gatedUpdater {
	return &gatedUpdater{started: make(chan struct{}), release: make(chan struct{})}
}

func (g *gatedUpdater) Update(ctx context.Context, _ string, fields models.Document) error {
	first := false
	g.once.Do(func() { first = true })
	if first {
		close(g.started)
		select {
		case <-g.release:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.calls = append(g.calls, fields)
	return g.err
}

func (g *gatedUpdater) Calls() []models.Document {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]models.Document(nil), g.calls...)
}

func waitFlush(t *testing.T, s *Syncer) SyncStatus {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.Flush(ctx)
}

func TestSyncerCoalescesQueuedWrites(t *testing.T) {
	g := newGatedUpdater()
	s := NewSyncer("u1", g, testPolicy(), zap.NewNop().Sugar())
	defer s.Close(context.Background())

	s.Enqueue("a", models.Document{"a": 1})
	<-g.started

	s.Enqueue("a", models.Document{"a": 2})
	s.Enqueue("b", models.Document{"b": 1})
	s.Enqueue("b", models.Document{"b": 2})
	assert.Equal(t, SyncPending, s.Status().State)
	assert.Equal(t, 2, s.Status().Pending)

	close(g.release)
	st := waitFlush(t, s)
	assert.Equal(t, SyncSynced, st.State)
	assert.Zero(t, st.Pending)
	assert.NotNil(t, st.LastSyncedAt)

	assert.Equal(t, []models.Document{
		{"a": 1},
		{"a": 2},
		{"b": 2},
	}, g.Calls())
}

func TestSyncerStopsAtFailedWrite(t *testing.T) {
	s := store.NewMemoryStore()
	require.NoError(t, s.Set(context.Background(), "u1", models.Document{}))
	s.FailUpdates(errors.New("boom"))

	sy := NewSyncer("u1", s, testPolicy(), zap.NewNop().Sugar())
	defer sy.Close(context.Background())

	sy.Enqueue("x", models.Document{"x": "1"})
	sy.Enqueue("y", models.Document{"y": "1"})
	st := waitFlush(t, sy)
	assert.Equal(t, SyncFailed, st.State)
	assert.Equal(t, "x", st.FailedKey)
	assert.Equal(t, 2, st.Pending)

	// x is retried per the policy, y is never attempted
	assert.Equal(t, 2, countWrites(s.Updates(), "x"))
	assert.Zero(t, countWrites(s.Updates(), "y"))

	s.FailUpdates(nil)
	sy.Retry()
	st = waitFlush(t, sy)
	assert.Equal(t, SyncSynced, st.State)
	raw, _ := s.Raw("u1")
	assert.Equal(t, "1", raw["x"])
	assert.Equal(t, "1", raw["y"])
}

func TestSyncerMissingDocumentIsNotRetried(t *testing.T) {
	s := store.NewMemoryStore()
	sy := NewSyncer("ghost", s, RetryPolicy{MaxTries: 5, InitialBackoff: time.Millisecond}, zap.NewNop().Sugar())
	defer sy.Close(context.Background())

	sy.Enqueue("x", models.Document{"x": "1"})
	st := waitFlush(t, sy)
	assert.Equal(t, SyncFailed, st.State)
	assert.Len(t, s.Updates(), 1)
}

func TestSyncerCloseReportsUnsavedWrites(t *testing.T) {
	g := newGatedUpdater()
	sy := NewSyncer("u1", g, testPolicy(), zap.NewNop().Sugar())
	sy.Enqueue("a", models.Document{"a": 1})
	<-g.started

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	st := sy.Close(ctx)
	assert.NotEqual(t, SyncSynced, st.State)
}
