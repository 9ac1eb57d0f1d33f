package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEnv_ClientFields(t *testing.T) {
	t.Setenv("CLIENT_MODE", "remote")
	t.Setenv("CLIENT_SERVER_ADDRESS", "http://localhost:8080")
	t.Setenv("CLIENT_RETRY_DELAY", "250ms")
	t.Setenv("STORAGE_SQLITE_PATH", "/tmp/sessions.db")

	cfg := &StructuredConfig{}
	require.NoError(t, parseEnv(cfg))

	assert.Equal(t, "remote", cfg.Client.Mode)
	assert.Equal(t, "http://localhost:8080", cfg.Client.ServerAddress)
	assert.Equal(t, 250*time.Millisecond, cfg.Client.RetryDelay)
	assert.Equal(t, "/tmp/sessions.db", cfg.Storage.SQLite.Path)
}

func TestParseJSON_FullFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	body := `{
		"client": {"mode": "remote", "server_address": "http://store:8080", "retry_delay": "1s"},
		"server": {"address": "0.0.0.0:8080", "request_timeout": "30s"},
		"storage": {"sqlite": {"path": "data/sessions.db"}}
	}`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	cfg, err := parseJSON(path)
	require.NoError(t, err)

	assert.Equal(t, "remote", cfg.Client.Mode)
	assert.Equal(t, "http://store:8080", cfg.Client.ServerAddress)
	assert.Equal(t, time.Second, cfg.Client.RetryDelay)
	assert.Equal(t, "0.0.0.0:8080", cfg.Server.Address)
	assert.Equal(t, 30*time.Second, cfg.Server.RequestTimeout)
	assert.Equal(t, "data/sessions.db", cfg.Storage.SQLite.Path)
}

func TestParseJSON_MissingFile(t *testing.T) {
	_, err := parseJSON("does-not-exist.json")
	require.Error(t, err)
}

func TestDuration_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    time.Duration
		wantErr bool
	}{
		{name: "string form", input: `"1h30m"`, want: 90 * time.Minute},
		{name: "nanosecond number", input: `1000000000`, want: time.Second},
		{name: "garbage string", input: `"soon"`, wantErr: true},
		{name: "wrong type", input: `true`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d Duration
			err := d.UnmarshalJSON([]byte(tt.input))
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, time.Duration(d))
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*StructuredConfig)
		wantErr bool
	}{
		{name: "defaults are valid", mutate: func(c *StructuredConfig) {}},
		{
			name:   "remote with address",
			mutate: func(c *StructuredConfig) { c.Client.Mode = ModeRemote; c.Client.ServerAddress = "http://x:8080" },
		},
		{
			name:    "remote without address",
			mutate:  func(c *StructuredConfig) { c.Client.Mode = ModeRemote },
			wantErr: true,
		},
		{
			name:    "unknown mode",
			mutate:  func(c *StructuredConfig) { c.Client.Mode = "hybrid" },
			wantErr: true,
		},
		{
			name: "both backends configured",
			mutate: func(c *StructuredConfig) {
				c.Storage.DB.DSN = "postgres://localhost/x"
				c.Storage.SQLite.Path = "x.db"
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &StructuredConfig{}
			cfg.applyDefaults()
			tt.mutate(cfg)

			err := cfg.validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidConfig)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := &StructuredConfig{}
	cfg.applyDefaults()

	assert.Equal(t, ModeLocal, cfg.Client.Mode)
	assert.Equal(t, defaultRequestTimeout, cfg.Client.RequestTimeout)
	assert.Equal(t, defaultRetryDelay, cfg.Client.RetryDelay)
	assert.Equal(t, defaultServerAddress, cfg.Server.Address)
}
