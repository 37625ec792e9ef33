package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/TanushriS/IntelliQRHelp/internal/config"
	"github.com/TanushriS/IntelliQRHelp/internal/models"
)

const schema = `
create table if not exists public.profiles (
	user_id    text primary key,
	doc        jsonb not null default '{}'::jsonb,
	updated_at timestamptz not null default now()
);
create table if not exists public.users (
	id            text primary key,
	email         text not null,
	password_hash text not null default '',
	display_name  text not null default '',
	photo_url     text not null default '',
	provider      text not null,
	created_at    timestamptz not null default now()
);
create unique index if not exists users_email_key on public.users (lower(email));
`

// PostgresStore keeps each profile as a JSONB document in public.profiles
type PostgresStore struct {
	pool   *pgxpool.Pool
	logger *zap.SugaredLogger
}

var _ Store = (*PostgresStore)(nil)

// NewPostgresStore opens a pool, pings it and makes sure the schema exists
func NewPostgresStore(ctx context.Context, cfg *config.Config, logger *zap.SugaredLogger) (*PostgresStore, error) {
	pcfg, err := pgxpool.ParseConfig(cfg.GetDSN())
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}
	// simple protocol is required behind PgBouncer in transaction mode
	pcfg.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeSimpleProtocol
	pcfg.ConnConfig.RuntimeParams["application_name"] = "intelliqrhelp-backend"
	pcfg.ConnConfig.RuntimeParams["statement_timeout"] = fmt.Sprintf("%d", cfg.Store.OpTimeout.Milliseconds())
	pcfg.MaxConns = cfg.Database.MaxConns
	pcfg.MinConns = cfg.Database.MinConns
	pcfg.MaxConnLifetime = cfg.Database.MaxLifetime

	pool, err := pgxpool.NewWithConfig(ctx, pcfg)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}

	s := &PostgresStore{pool: pool, logger: logger}

	pingCtx, cancel := context.WithTimeout(ctx, 20*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}
	if err := s.Initialize(pingCtx); err != nil {
		pool.Close()
		return nil, err
	}

	logger.Infow("connected to postgres", "host", cfg.Database.Host, "database", cfg.Database.Name)
	return s, nil
}

// Initialize creates the tables if they do not exist
func (s *PostgresStore) Initialize(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("unable to create schema: %w", err)
	}
	return nil
}

func (s *PostgresStore) Get(ctx context.Context, userID string) (models.Document, error) {
	const q = `select doc from public.profiles where user_id = $1 limit 1`

	var raw []byte
	if err := s.pool.QueryRow(ctx, q, userID).Scan(&raw); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("unable to get profile: %w", err)
	}
	return decodeDocument(raw)
}

func (s *PostgresStore) Set(ctx context.Context, userID string, doc models.Document) error {
	const q = `
insert into public.profiles (user_id, doc, updated_at)
values ($1, $2::jsonb, now())
on conflict (user_id) do update set doc = excluded.doc, updated_at = now()
`
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("unable to encode document: %w", err)
	}
	if _, err := s.pool.Exec(ctx, q, userID, string(raw)); err != nil {
		return fmt.Errorf("unable to set profile: %w", err)
	}
	return nil
}

// Update merges the given top-level fields into the stored document
func (s *PostgresStore) Update(ctx context.Context, userID string, fields models.Document) error {
	const q = `update public.profiles set doc = doc || $2::jsonb, updated_at = now() where user_id = $1`

	raw, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("unable to encode fields: %w", err)
	}
	ct, err := s.pool.Exec(ctx, q, userID, string(raw))
	if err != nil {
		return fmt.Errorf("unable to update profile: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func (s *PostgresStore) Close(context.Context) error {
	s.pool.Close()
	return nil
}

func (s *PostgresStore) CreateUser(ctx context.Context, user *models.User) error {
	const q = `
insert into public.users (id, email, password_hash, display_name, photo_url, provider, created_at)
values ($1, $2, $3, $4, $5, $6, $7)
`
	_, err := s.pool.Exec(ctx, q,
		user.ID, user.Email, user.PasswordHash, user.DisplayName, user.PhotoURL, user.Provider, user.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return ErrUserExists
		}
		return fmt.Errorf("unable to create user: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	const q = `
select id, email, password_hash, display_name, photo_url, provider, created_at
from public.users
where lower(email) = lower($1)
limit 1
`
	u := &models.User{}
	err := s.pool.QueryRow(ctx, q, email).Scan(
		&u.ID, &u.Email, &u.PasswordHash, &u.DisplayName, &u.PhotoURL, &u.Provider, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("unable to get user: %w", err)
	}
	return u, nil
}
