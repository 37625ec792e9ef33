package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/TanushriS/IntelliQRHelp/internal/config"
	"github.com/TanushriS/IntelliQRHelp/internal/models"
)

var (
	ErrNotFound   = errors.New("not found")
	ErrUserExists = errors.New("user already exists")
)

// ProfileStore holds one document per user, keyed by user id
type ProfileStore interface {
	// Get returns ErrNotFound when the user has no document
	Get(ctx context.Context, userID string) (models.Document, error)
	// Set replaces the whole document
	Set(ctx context.Context, userID string, doc models.Document) error
	// Update writes only the given fields and leaves the rest untouched
	Update(ctx context.Context, userID string, fields models.Document) error
	Ping(ctx context.Context) error
}

// UserStore holds login accounts
type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
}

// Store is a backend that serves both profiles and accounts
type Store interface {
	ProfileStore
	UserStore
	Close(ctx context.Context) error
}

// Open connects to the backend selected by cfg.Store.Driver
func Open(ctx context.Context, cfg *config.Config, logger *zap.SugaredLogger) (Store, error) {
	switch cfg.Store.Driver {
	case config.DriverPostgres:
		return NewPostgresStore(ctx, cfg, logger)
	case config.DriverMongo:
		return NewMongoStore(ctx, cfg, logger)
	case config.DriverMemory:
		logger.Warn("using in-memory store, data will not survive a restart")
		return NewMemoryStore(), nil
	}
	return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
}

// normalize converts any JSON-encodable value to plain JSON types so every
// backend hands out documents of the same shape
func normalize(doc models.Document) (models.Document, error) {
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("unable to encode document: %w", err)
	}
	return decodeDocument(raw)
}

func decodeDocument(raw []byte) (models.Document, error) {
	out := models.Document{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("unable to decode document: %w", err)
	}
	return out, nil
}
