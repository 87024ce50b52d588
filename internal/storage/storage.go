package storage

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/julianstephens/thankful/internal/constants"
	"github.com/julianstephens/thankful/internal/keyring"
	"github.com/julianstephens/thankful/internal/storage/postgres"
	"github.com/julianstephens/thankful/internal/storage/sqlite"
)

// ErrEmbeddedCredentials is returned by Open when a postgres URL passed on
// the command line carries a password.
var ErrEmbeddedCredentials = postgres.ErrEmbeddedCredentials

// IsPostgres reports whether config names a postgres database rather than a sqlite file.
func IsPostgres(config string) bool {
	return strings.HasPrefix(config, "postgres://") || strings.HasPrefix(config, "postgresql://")
}

// HasEmbeddedCredentials reports whether a postgres connection string includes a password.
func HasEmbeddedCredentials(connStr string) bool {
	_, err := postgres.ValidateConnString(connStr)
	return errors.Is(err, postgres.ErrEmbeddedCredentials)
}

// Open picks a backend for config. A connection string from the environment
// or the OS keyring takes precedence and may carry credentials; one given
// on the command line may not.
func Open(config string) (Provider, error) {
	if connStr := os.Getenv(constants.EnvDBConnection); connStr != "" {
		return postgres.New(connStr), nil
	}
	if IsPostgres(config) {
		if HasEmbeddedCredentials(config) {
			return nil, ErrEmbeddedCredentials
		}
		return postgres.New(config), nil
	}
	if connStr, err := keyring.GetConnectionString(); err == nil && connStr != "" {
		return postgres.New(connStr), nil
	}
	return sqlite.NewStore(ExpandPath(config)), nil
}

// ExpandPath resolves a leading ~ to the user's home directory.
func ExpandPath(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(path, "~"))
		}
	}
	return path
}

// Migrator is implemented by backends that can upgrade an existing database.
type Migrator interface {
	Migrate() error
}

var (
	_ Provider = (*sqlite.Store)(nil)
	_ Provider = (*postgres.Store)(nil)
	_ Migrator = (*sqlite.Store)(nil)
	_ Migrator = (*postgres.Store)(nil)
)
