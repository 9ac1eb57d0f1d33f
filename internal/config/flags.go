package config

import (
	"flag"
	"os"
	"time"
)

// parseFlags parses all configuration flags into a [StructuredConfig].
//
// Flags:
//
//	-a server listen address in format [host]:[port]
//	-d PostgreSQL DSN for the session store
//	-sqlite SQLite database file for the session store
//	-mode client storage mode: local or remote
//	-server-address session store base URL used by the client
//	-state client state directory
//	-request-timeout request timeout (e.g. "30s", "1m")
//	-retry-delay background sync retry delay (e.g. "500ms")
//	-c/-config json file path with configs
//
// A dedicated FlagSet is used so repeated invocations (tests) never
// re-register flags on flag.CommandLine.
func parseFlags() (*StructuredConfig, error) {
	fs := flag.NewFlagSet(os.Args[0], flag.ContinueOnError)

	var (
		serverAddress        string
		databaseDSN          string
		sqlitePath           string
		clientMode           string
		clientServerAddress  string
		clientStatePath      string
		requestTimeout       time.Duration
		clientRetryDelay     time.Duration
		jsonConfigPath       string
		jsonConfigPathAlias  string
	)

	fs.StringVar(&serverAddress, "a", "", "Net address host:port")
	fs.StringVar(&databaseDSN, "d", "", "PostgreSQL DSN")
	fs.StringVar(&sqlitePath, "sqlite", "", "SQLite database file")
	fs.StringVar(&clientMode, "mode", "", "Client storage mode: local or remote")
	fs.StringVar(&clientServerAddress, "server-address", "", "Session store base URL")
	fs.StringVar(&clientStatePath, "state", "", "Client state directory")
	fs.DurationVar(&requestTimeout, "request-timeout", 0, "Request timeout (e.g., 30s, 1m)")
	fs.DurationVar(&clientRetryDelay, "retry-delay", 0, "Sync retry delay (e.g., 500ms)")
	fs.StringVar(&jsonConfigPath, "c", "", "JSON config file path")
	fs.StringVar(&jsonConfigPathAlias, "config", "", "JSON config file path (alias)")

	if err := fs.Parse(os.Args[1:]); err != nil {
		return nil, err
	}

	if jsonConfigPath == "" {
		jsonConfigPath = jsonConfigPathAlias
	}

	return &StructuredConfig{
		Client: Client{
			Mode:           clientMode,
			ServerAddress:  clientServerAddress,
			StatePath:      clientStatePath,
			RequestTimeout: requestTimeout,
			RetryDelay:     clientRetryDelay,
		},
		Server: Server{
			Address:        serverAddress,
			RequestTimeout: requestTimeout,
		},
		Storage: Storage{
			DB:     DB{DSN: databaseDSN},
			SQLite: SQLite{Path: sqlitePath},
		},
		JSONFilePath: jsonConfigPath,
	}, nil
}
