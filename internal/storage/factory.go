package storage

import "fmt"

const (
	KindMemory = "memory"
	KindFile   = "file"
	KindSQLite = "sqlite"
)

func DefaultStoreKind() string { return KindFile }

// NewStore builds a backend. location is the data directory for the file
// backend and the database path for sqlite; memory ignores it.
func NewStore(kind, location string) (Store, error) {
	switch kind {
	case KindMemory:
		return NewMemoryStore(), nil
	case "", KindFile:
		return NewFileStore(location), nil
	case KindSQLite:
		return newSQLiteStore(location)
	default:
		return nil, fmt.Errorf("unsupported store backend: %s", kind)
	}
}

func CloseIfSupported(store Store) error {
	closer, ok := store.(interface{ Close() error })
	if !ok {
		return nil
	}
	return closer.Close()
}
