package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Store drivers
const (
	DriverPostgres = "postgres"
	DriverMongo    = "mongo"
	DriverMemory   = "memory"
)

// Config holds all configuration for the application
type Config struct {
	Server      ServerConfig
	Store       StoreConfig
	Database    DatabaseConfig
	Mongo       MongoConfig
	JWT         JWTConfig
	GoogleOAuth GoogleOAuthConfig
	CORS        CORSConfig
	QR          QRConfig
	SOS         SOSConfig
	Sync        SyncConfig
	Session     SessionConfig
	Public      PublicConfig
	Log         LogConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port              string        `envconfig:"SERVER_PORT" default:"8080"`
	ReadHeaderTimeout time.Duration `envconfig:"SERVER_READ_HEADER_TIMEOUT" default:"5s"`
	ShutdownTimeout   time.Duration `envconfig:"SERVER_SHUTDOWN_TIMEOUT" default:"5s"`
}

// StoreConfig selects the profile document backend
type StoreConfig struct {
	Driver    string        `envconfig:"STORE_DRIVER" default:"postgres"`
	OpTimeout time.Duration `envconfig:"STORE_OP_TIMEOUT" default:"10s"`
}

// DatabaseConfig holds database-related configuration
type DatabaseConfig struct {
	Host        string        `envconfig:"DB_HOST" default:"localhost"`
	Port        string        `envconfig:"DB_PORT" default:"5432"`
	User        string        `envconfig:"DB_USER" default:"postgres"`
	Password    string        `envconfig:"DB_PASSWORD"`
	Name        string        `envconfig:"DB_NAME" default:"postgres"`
	SSLMode     string        `envconfig:"DB_SSLMODE" default:"disable"`
	MaxConns    int32         `envconfig:"DB_MAX_CONNS" default:"5"`
	MinConns    int32         `envconfig:"DB_MIN_CONNS" default:"0"`
	MaxLifetime time.Duration `envconfig:"DB_MAX_LIFETIME" default:"1h"`
	ConnTimeout time.Duration `envconfig:"DB_CONN_TIMEOUT" default:"10s"`
}

// MongoConfig holds MongoDB connection settings
type MongoConfig struct {
	Scheme    string `envconfig:"MONGO_SCHEME" default:"mongodb"`
	Hosts     string `envconfig:"MONGO_HOSTS" default:"localhost"`
	User      string `envconfig:"MONGO_USER"`
	Password  string `envconfig:"MONGO_PASSWORD"`
	TLS       bool   `envconfig:"MONGO_TLS"`
	OptParams string `envconfig:"MONGO_OPT_PARAMS"`
	Database  string `envconfig:"MONGO_DATABASE" default:"intelliqrhelp"`
}

// JWTConfig holds JWT-related configuration
type JWTConfig struct {
	Secret         string        `envconfig:"JWT_SECRET"`
	AccessTokenTTL time.Duration `envconfig:"JWT_ACCESS_TTL" default:"168h"`
}

// GoogleOAuthConfig holds Google OAuth configuration
type GoogleOAuthConfig struct {
	ClientID            string `envconfig:"GOOGLE_CLIENT_ID"`
	ClientSecret        string `envconfig:"GOOGLE_CLIENT_SECRET"`
	RedirectURL         string `envconfig:"GOOGLE_REDIRECT_URL" default:"http://localhost:8080/api/auth/google/callback"`
	FrontendCallbackURL string `envconfig:"FRONTEND_CALLBACK_URL" default:"http://localhost:3000/callback"`
}

// CORSConfig holds CORS configuration
type CORSConfig struct {
	AllowedOrigins   []string `envconfig:"CORS_ALLOWED_ORIGINS" default:"*"`
	AllowCredentials bool     `envconfig:"CORS_ALLOW_CREDENTIALS" default:"true"`
}

// QRConfig holds the endpoints the public link and its image are derived from
type QRConfig struct {
	PublicBaseURL   string        `envconfig:"PUBLIC_BASE_URL"`
	ServiceEndpoint string        `envconfig:"QR_SERVICE_ENDPOINT" default:"https://api.qrserver.com/v1/create-qr-code/"`
	ImageSize       string        `envconfig:"QR_IMAGE_SIZE" default:"200x200"`
	FetchTimeout    time.Duration `envconfig:"QR_FETCH_TIMEOUT" default:"10s"`
}

// SOSConfig holds the Telegram bot used for SOS notifications
type SOSConfig struct {
	BotToken string `envconfig:"SOS_BOT_TOKEN"`
	ChatID   string `envconfig:"SOS_CHAT_ID"`
	APIBase  string `envconfig:"SOS_API_BASE" default:"https://api.telegram.org"`
	Message  string `envconfig:"SOS_MESSAGE" default:"SOS! Help me, I am in danger!"`
}

// SyncConfig controls the background flush of profile writes
type SyncConfig struct {
	MaxTries       uint          `envconfig:"SYNC_MAX_TRIES" default:"5"`
	InitialBackoff time.Duration `envconfig:"SYNC_INITIAL_BACKOFF" default:"200ms"`
	MaxBackoff     time.Duration `envconfig:"SYNC_MAX_BACKOFF" default:"5s"`
}

// SessionConfig bounds the number of profiles held in memory
type SessionConfig struct {
	CacheSize int `envconfig:"SESSION_CACHE_SIZE" default:"1024"`
}

// PublicConfig holds rate limits for the unauthenticated view
type PublicConfig struct {
	RateLimitRPS   int `envconfig:"PUBLIC_RATE_LIMIT_RPS" default:"5"`
	RateLimitBurst int `envconfig:"PUBLIC_RATE_LIMIT_BURST" default:"10"`
}

// LogConfig holds logger settings
type LogConfig struct {
	Level  string `envconfig:"LOG_LEVEL" default:"info"`
	Format string `envconfig:"LOG_FORMAT" default:"json"`
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	cfg, err := LoadEnv()
	if err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// LoadEnv reads .env (from the parent directory first, then the current
// one) and processes the environment without validating. Tools that need
// only part of the configuration use it.
func LoadEnv() (*Config, error) {
	if err := godotenv.Load("../.env"); err != nil {
		if err := godotenv.Load(".env"); err != nil {
			log.Printf("Warning: .env file not found: %v", err)
		}
	}
	return FromEnv()
}

// FromEnv processes the environment without reading .env or validating
func FromEnv() (*Config, error) {
	cfg := &Config{}
	sections := []any{
		&cfg.Server, &cfg.Store, &cfg.Database, &cfg.Mongo, &cfg.JWT, &cfg.GoogleOAuth,
		&cfg.CORS, &cfg.QR, &cfg.SOS, &cfg.Sync, &cfg.Session, &cfg.Public, &cfg.Log,
	}
	for _, s := range sections {
		if err := envconfig.Process("", s); err != nil {
			return nil, fmt.Errorf("unable to process environment: %w", err)
		}
	}
	return cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	switch c.Store.Driver {
	case DriverPostgres:
		if c.Database.Password == "" {
			return fmt.Errorf("DB_PASSWORD is required for the %s store", DriverPostgres)
		}
	case DriverMongo, DriverMemory:
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.Store.Driver)
	}

	if strings.TrimSpace(c.QR.PublicBaseURL) == "" {
		return fmt.Errorf("PUBLIC_BASE_URL is required")
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}

	if !c.IsGoogleOAuthConfigured() {
		log.Println("Warning: Google OAuth credentials not configured. Google login will not work.")
	}
	if !c.IsSOSConfigured() {
		log.Println("Warning: SOS bot credentials not configured. SOS notifications will not work.")
	}
	return nil
}

// GetDSN returns the database connection string
func (c *Config) GetDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s&connect_timeout=%d",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
		int(c.Database.ConnTimeout.Seconds()),
	)
}

// GetMongoURI builds the MongoDB connection string
func (c *Config) GetMongoURI() string {
	cs := c.Mongo.Scheme + "://"
	if c.Mongo.Scheme == "" {
		cs = "mongodb://"
	}
	if c.Mongo.User != "" {
		cs += c.Mongo.User
		if c.Mongo.Password != "" {
			cs += ":" + c.Mongo.Password
		}
		cs += "@"
	}
	if c.Mongo.Hosts != "" {
		cs += c.Mongo.Hosts
	} else {
		cs += "localhost"
	}
	cs += "/"
	if c.Mongo.TLS {
		cs += "?ssl=true"
	} else {
		cs += "?ssl=false"
	}
	if c.Mongo.OptParams != "" {
		cs += "&" + c.Mongo.OptParams
	}
	return cs
}

// IsGoogleOAuthConfigured checks if Google OAuth is properly configured
func (c *Config) IsGoogleOAuthConfigured() bool {
	return c.GoogleOAuth.ClientID != "" && c.GoogleOAuth.ClientSecret != ""
}

// IsSOSConfigured checks if the SOS bot is properly configured
func (c *Config) IsSOSConfigured() bool {
	return c.SOS.BotToken != "" && c.SOS.ChatID != ""
}
