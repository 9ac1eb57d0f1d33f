package config

import (
	"fmt"
	"time"
)

// ClientConfig is the client-specific view assembled from
// [StructuredConfig]: everything the storage facade and the sync core
// need, and nothing server-side.
type ClientConfig struct {
	// Mode selects the active storage adapter ("local" or "remote").
	Mode string
	// ServerAddress is the session store base URL (remote mode).
	ServerAddress string
	// StatePath is the directory for the local key-value file and the
	// remembered tenant id.
	StatePath string
	// RequestTimeout bounds outbound calls to the session store.
	RequestTimeout time.Duration
	// RetryDelay is the fixed pause before a sync retry.
	RetryDelay time.Duration
}

// GetClientConfig builds and validates a client-specific config view
// from the merged structured configuration.
func GetClientConfig() (*ClientConfig, error) {
	cfg, err := GetStructuredConfig()
	if err != nil {
		return nil, fmt.Errorf("error get structured config: %w", err)
	}

	return &ClientConfig{
		Mode:           cfg.Client.Mode,
		ServerAddress:  cfg.Client.ServerAddress,
		StatePath:      cfg.Client.StatePath,
		RequestTimeout: cfg.Client.RequestTimeout,
		RetryDelay:     cfg.Client.RetryDelay,
	}, nil
}
