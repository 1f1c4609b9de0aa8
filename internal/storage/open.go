package storage

import (
	"fmt"
	"strings"

	"github.com/julianstephens/focos/internal/keyring"
	"github.com/julianstephens/focos/internal/logger"
)

const (
	// MemoryDSN selects the in-process store that is discarded on exit.
	MemoryDSN = ":memory:"
	// KeyringDSN reads a PostgreSQL connection string from the OS keyring.
	KeyringDSN = "keyring"
)

// Kind names the backend a DSN resolves to.
type Kind string

const (
	KindMemory   Kind = "memory"
	KindJSON     Kind = "json"
	KindSQLite   Kind = "sqlite"
	KindPostgres Kind = "postgres"
	KindRedis    Kind = "redis"
)

// DetectKind maps a DSN onto a backend without opening anything.
func DetectKind(dsn string) Kind {
	switch {
	case dsn == MemoryDSN:
		return KindMemory
	case dsn == KeyringDSN, isPostgresURL(dsn), strings.Contains(dsn, "host="):
		return KindPostgres
	case strings.HasPrefix(dsn, "redis://"), strings.HasPrefix(dsn, "rediss://"):
		return KindRedis
	case strings.HasSuffix(strings.ToLower(dsn), ".json"):
		return KindJSON
	default:
		return KindSQLite
	}
}

// Open builds the provider for dsn. The returned provider still needs Init
// or Load.
func Open(dsn string) (Provider, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, fmt.Errorf("storage dsn cannot be empty")
	}
	kind := DetectKind(dsn)
	logger.Debug("Opening storage", "kind", kind)

	switch kind {
	case KindMemory:
		return NewMemoryStore(), nil
	case KindJSON:
		return NewJSONStore(dsn), nil
	case KindRedis:
		return NewRedisStore(dsn), nil
	case KindPostgres:
		if dsn == KeyringDSN {
			connStr, err := keyring.GetConnectionString()
			if err != nil {
				return nil, fmt.Errorf("failed to read connection string from keyring: %w", err)
			}
			return NewPostgresStore(connStr), nil
		}
		if err := ValidateConnString(dsn); err != nil {
			if err == ErrEmbeddedCredentials {
				return nil, fmt.Errorf("%w; store it with 'focos keyring set' and use --db %s", err, KeyringDSN)
			}
			return nil, err
		}
		return NewPostgresStore(dsn), nil
	default:
		return NewSQLiteStore(dsn), nil
	}
}

// KindOf reports the backend of an opened provider.
func KindOf(p Provider) Kind {
	switch p.(type) {
	case *MemoryStore:
		return KindMemory
	case *JSONStore:
		return KindJSON
	case *PostgresStore:
		return KindPostgres
	case *RedisStore:
		return KindRedis
	default:
		return KindSQLite
	}
}
