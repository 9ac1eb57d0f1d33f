package config

import (
	"fmt"
	"time"
)

const (
	defaultServerAddress  = "localhost:8080"
	defaultRequestTimeout = 15 * time.Second
	defaultRetryDelay     = 500 * time.Millisecond
	defaultClientMode     = ModeLocal
)

// Client storage modes.
const (
	ModeLocal  = "local"
	ModeRemote = "remote"
)

// applyDefaults fills every zero-valued field that has a documented
// default. Runs after all sources are merged, so explicit configuration
// always wins.
func (c *StructuredConfig) applyDefaults() {
	if c.Client.Mode == "" {
		c.Client.Mode = defaultClientMode
	}
	if c.Client.RequestTimeout <= 0 {
		c.Client.RequestTimeout = defaultRequestTimeout
	}
	if c.Client.RetryDelay <= 0 {
		c.Client.RetryDelay = defaultRetryDelay
	}
	if c.Server.Address == "" {
		c.Server.Address = defaultServerAddress
	}
	if c.Server.RequestTimeout <= 0 {
		c.Server.RequestTimeout = defaultRequestTimeout
	}
}

// validate checks cross-field consistency of the merged configuration.
func (c *StructuredConfig) validate() error {
	switch c.Client.Mode {
	case ModeLocal, ModeRemote:
	default:
		return fmt.Errorf("%w: unknown client mode %q", ErrInvalidConfig, c.Client.Mode)
	}

	if c.Client.Mode == ModeRemote && c.Client.ServerAddress == "" {
		return fmt.Errorf("%w: remote mode requires a server address", ErrInvalidConfig)
	}

	if c.Storage.DB.DSN != "" && c.Storage.SQLite.Path != "" {
		return fmt.Errorf("%w: choose either postgres or sqlite, not both", ErrInvalidConfig)
	}

	return nil
}
