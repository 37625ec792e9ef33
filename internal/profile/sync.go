package profile

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v5"
	"go.uber.org/zap"

	"github.com/TanushriS/IntelliQRHelp/internal/config"
	"github.com/TanushriS/IntelliQRHelp/internal/models"
	"github.com/TanushriS/IntelliQRHelp/internal/store"
)

// SyncState describes the remote copy relative to local edits
type SyncState string

const (
	SyncSynced  SyncState = "synced"
	SyncPending SyncState = "pending"
	SyncFailed  SyncState = "failed"
)

// SyncStatus is the indicator shown next to the profile
type SyncStatus struct {
	State        SyncState  `json:"state"`
	Pending      int        `json:"pending"`
	FailedKey    string     `json:"failedKey,omitempty"`
	LastError    string     `json:"lastError,omitempty"`
	LastSyncedAt *time.Time `json:"lastSyncedAt,omitempty"`
}

// RetryPolicy bounds the attempts made for one queued write
type RetryPolicy struct {
	MaxTries       uint
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
}

// PolicyFromConfig converts the sync section of the configuration
func PolicyFromConfig(cfg config.SyncConfig) RetryPolicy {
	return RetryPolicy{
		MaxTries:       cfg.MaxTries,
		InitialBackoff: cfg.InitialBackoff,
		MaxBackoff:     cfg.MaxBackoff,
	}
}

// Updater is the part of the store the syncer writes through
type Updater interface {
	Update(ctx context.Context, userID string, fields models.Document) error
}

type pendingWrite struct {
	key    string
	fields models.Document
	gen    uint64
}

// Syncer is a write-behind log for one user's document. Writes are queued
// by key and flushed in order by a single worker; a newer write for a key
// that is still queued replaces the older one in place. A write that keeps
// failing after the retry policy is exhausted stays at the head of the log
// and marks the syncer failed until Retry or the next Enqueue.
type Syncer struct {
	userID string
	store  Updater
	policy RetryPolicy
	logger *zap.SugaredLogger

	ctx    context.Context
	cancel context.CancelFunc
	wake   chan struct{}
	done   chan struct{}

	mu         sync.Mutex
	queue      []*pendingWrite
	byKey      map[string]*pendingWrite
	state      SyncState
	inFlight   bool
	failedKey  string
	lastErr    string
	lastSynced *time.Time
	settled    chan struct{}
}

// NewSyncer starts the flush worker. Stop it with Close.
func NewSyncer(userID string, s Updater, policy RetryPolicy, logger *zap.SugaredLogger) *Syncer {
	if policy.MaxTries == 0 {
		policy.MaxTries = 1
	}
	ctx, cancel := context.WithCancel(context.Background())
	sy := &Syncer{
		userID:  userID,
		store:   s,
		policy:  policy,
		logger:  logger,
		ctx:     ctx,
		cancel:  cancel,
		wake:    make(chan struct{}, 1),
		done:    make(chan struct{}),
		byKey:   map[string]*pendingWrite{},
		state:   SyncSynced,
		settled: make(chan struct{}),
	}
	go sy.run()
	return sy
}

// Enqueue records a write of fields under key and returns immediately
func (s *Syncer) Enqueue(key string, fields models.Document) {
	s.mu.Lock()
	if w, ok := s.byKey[key]; ok {
		w.fields = fields
		w.gen++
	} else {
		w := &pendingWrite{key: key, fields: fields}
		s.queue = append(s.queue, w)
		s.byKey[key] = w
	}
	s.state = SyncPending
	s.mu.Unlock()
	s.poke()
}

// Retry re-arms a failed syncer
func (s *Syncer) Retry() {
	s.mu.Lock()
	if s.state == SyncFailed {
		s.state = SyncPending
	}
	s.mu.Unlock()
	s.poke()
}

// Status reports the current indicator
func (s *Syncer) Status() SyncStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := SyncStatus{
		State:     s.state,
		Pending:   len(s.queue),
		FailedKey: s.failedKey,
		LastError: s.lastErr,
	}
	if s.lastSynced != nil {
		t := *s.lastSynced
		st.LastSyncedAt = &t
	}
	return st
}

// Flush blocks until the log is empty or the syncer has failed
func (s *Syncer) Flush(ctx context.Context) SyncStatus {
	for {
		s.mu.Lock()
		if s.isSettledLocked() {
			s.mu.Unlock()
			return s.Status()
		}
		ch := s.settled
		s.mu.Unlock()

		select {
		case <-ch:
		case <-ctx.Done():
			return s.Status()
		}
	}
}

// Close waits for queued writes (bounded by ctx) and stops the worker
func (s *Syncer) Close(ctx context.Context) SyncStatus {
	st := s.Flush(ctx)
	s.cancel()
	<-s.done
	if st.State != SyncSynced {
		s.logger.Warnw("profile sync stopped with unsaved writes",
			"userId", s.userID, "pending", st.Pending, "lastError", st.LastError)
	}
	return st
}

func (s *Syncer) poke() {
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

func (s *Syncer) isSettledLocked() bool {
	return !s.inFlight && (len(s.queue) == 0 || s.state == SyncFailed)
}

func (s *Syncer) signalLocked() {
	close(s.settled)
	s.settled = make(chan struct{})
}

func (s *Syncer) run() {
	defer close(s.done)
	for {
		select {
		case <-s.ctx.Done():
			return
		case <-s.wake:
			s.drain()
		}
	}
}

func (s *Syncer) drain() {
	for {
		s.mu.Lock()
		if len(s.queue) == 0 {
			s.state = SyncSynced
			s.failedKey, s.lastErr = "", ""
			s.signalLocked()
			s.mu.Unlock()
			return
		}
		w := s.queue[0]
		key, fields, gen := w.key, w.fields, w.gen
		s.inFlight = true
		s.state = SyncPending
		s.mu.Unlock()

		attempts, err := s.write(fields)

		s.mu.Lock()
		s.inFlight = false
		if err != nil {
			s.state = SyncFailed
			s.failedKey = key
			s.lastErr = err.Error()
			s.signalLocked()
			s.mu.Unlock()
			s.logger.Errorw("unable to sync profile field",
				"userId", s.userID, "field", key, "attempts", attempts, "error", err)
			return
		}
		if cur, ok := s.byKey[key]; ok && cur == w && cur.gen == gen {
			delete(s.byKey, key)
			s.queue = s.queue[1:]
		}
		now := time.Now().UTC()
		s.lastSynced = &now
		s.mu.Unlock()
	}
}

func (s *Syncer) write(fields models.Document) (uint, error) {
	var attempts uint
	b := backoff.NewExponentialBackOff()
	if s.policy.InitialBackoff > 0 {
		b.InitialInterval = s.policy.InitialBackoff
	}
	if s.policy.MaxBackoff > 0 {
		b.MaxInterval = s.policy.MaxBackoff
	}

	_, err := backoff.Retry(s.ctx, func() (struct{}, error) {
		attempts++
		err := s.store.Update(s.ctx, s.userID, fields)
		if errors.Is(err, store.ErrNotFound) {
			return struct{}{}, backoff.Permanent(err)
		}
		return struct{}{}, err
	}, backoff.WithBackOff(b), backoff.WithMaxTries(s.policy.MaxTries))
	return attempts, err
}
