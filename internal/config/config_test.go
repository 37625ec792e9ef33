package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnvDefaults(t *testing.T) {
	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, DriverPostgres, cfg.Store.Driver)
	assert.Equal(t, "https://api.qrserver.com/v1/create-qr-code/", cfg.QR.ServiceEndpoint)
	assert.Equal(t, "200x200", cfg.QR.ImageSize)
	assert.Equal(t, "SOS! Help me, I am in danger!", cfg.SOS.Message)
	assert.Equal(t, uint(5), cfg.Sync.MaxTries)
	assert.Equal(t, 200*time.Millisecond, cfg.Sync.InitialBackoff)
	assert.Equal(t, []string{"*"}, cfg.CORS.AllowedOrigins)
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("STORE_DRIVER", DriverMongo)
	t.Setenv("PUBLIC_BASE_URL", "https://help.example.org")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example.org,https://b.example.org")
	t.Setenv("SYNC_MAX_BACKOFF", "2s")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, DriverMongo, cfg.Store.Driver)
	assert.Equal(t, "https://help.example.org", cfg.QR.PublicBaseURL)
	assert.Equal(t, []string{"https://a.example.org", "https://b.example.org"}, cfg.CORS.AllowedOrigins)
	assert.Equal(t, 2*time.Second, cfg.Sync.MaxBackoff)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Store: StoreConfig{Driver: DriverMemory},
			QR:    QRConfig{PublicBaseURL: "https://help.example.org"},
			JWT:   JWTConfig{Secret: "s3cret"},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "memory store", mutate: func(c *Config) {}},
		{name: "unknown driver", mutate: func(c *Config) { c.Store.Driver = "sqlite" }, wantErr: "unknown STORE_DRIVER"},
		{name: "postgres without password", mutate: func(c *Config) { c.Store.Driver = DriverPostgres }, wantErr: "DB_PASSWORD"},
		{name: "postgres with password", mutate: func(c *Config) {
			c.Store.Driver = DriverPostgres
			c.Database.Password = "pw"
		}},
		{name: "missing public base url", mutate: func(c *Config) { c.QR.PublicBaseURL = " " }, wantErr: "PUBLIC_BASE_URL"},
		{name: "missing jwt secret", mutate: func(c *Config) { c.JWT.Secret = "" }, wantErr: "JWT_SECRET"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestConnectionStrings(t *testing.T) {
	cfg := &Config{
		Database: DatabaseConfig{User: "u", Password: "p", Host: "db", Port: "5432", Name: "app", SSLMode: "require", ConnTimeout: 10 * time.Second},
		Mongo:    MongoConfig{Scheme: "mongodb+srv", Hosts: "cluster0", User: "m", Password: "pw", TLS: true, OptParams: "w=majority"},
	}

	assert.Equal(t, "postgres://u:p@db:5432/app?sslmode=require&connect_timeout=10", cfg.GetDSN())
	assert.Equal(t, "mongodb+srv://m:pw@cluster0/?ssl=true&w=majority", cfg.GetMongoURI())
}
