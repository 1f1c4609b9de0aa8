package storage

// Provider is durable string key-value storage. Every state slice is stored
// under its own key as text.
type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Get returns apperrors.ErrNotFound when the key is absent.
	Get(key string) (string, error)
	Set(key, value string) error
	// SetMany writes all entries atomically where the backend supports it.
	SetMany(entries map[string]string) error
	Delete(key string) error
	Keys() ([]string, error)

	// Utils
	GetConfigPath() string
}
