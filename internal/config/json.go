package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"
)

type structuredJSONConfig struct {
	Client struct {
		Mode           string   `json:"mode"`
		ServerAddress  string   `json:"server_address"`
		StatePath      string   `json:"state_path"`
		RequestTimeout Duration `json:"request_timeout"`
		RetryDelay     Duration `json:"retry_delay"`
	} `json:"client,omitempty"`

	Server struct {
		Address        string   `json:"address"`
		RequestTimeout Duration `json:"request_timeout"`
	} `json:"server,omitempty"`

	Storage struct {
		DB struct {
			DSN string `json:"dsn"`
		} `json:"db,omitempty"`
		SQLite struct {
			Path string `json:"path"`
		} `json:"sqlite,omitempty"`
	} `json:"storage,omitempty"`
}

func parseJSON(jsonFilePath string) (*StructuredConfig, error) {
	jsonFile, err := os.Open(jsonFilePath)
	if err != nil {
		return nil, fmt.Errorf("error reading a json file: %w", err)
	}
	defer jsonFile.Close()

	var jsonCfg structuredJSONConfig
	if err = json.NewDecoder(jsonFile).Decode(&jsonCfg); err != nil {
		return nil, fmt.Errorf("error decoding json configs: %w", err)
	}

	return &StructuredConfig{
		Client: Client{
			Mode:           jsonCfg.Client.Mode,
			ServerAddress:  jsonCfg.Client.ServerAddress,
			StatePath:      jsonCfg.Client.StatePath,
			RequestTimeout: time.Duration(jsonCfg.Client.RequestTimeout),
			RetryDelay:     time.Duration(jsonCfg.Client.RetryDelay),
		},
		Server: Server{
			Address:        jsonCfg.Server.Address,
			RequestTimeout: time.Duration(jsonCfg.Server.RequestTimeout),
		},
		Storage: Storage{
			DB:     DB{DSN: jsonCfg.Storage.DB.DSN},
			SQLite: SQLite{Path: jsonCfg.Storage.SQLite.Path},
		},
	}, nil
}

// Duration is a wrapper around time.Duration that supports JSON
// unmarshaling from strings like "1h" or "30s" as well as bare
// nanosecond numbers.
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		parsed, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", value, err)
		}
		*d = Duration(parsed)
		return nil
	default:
		return errors.New("invalid duration value")
	}
}
