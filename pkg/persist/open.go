package persist

import (
	"fmt"
	"path/filepath"
)

// Kinds of backend understood by Open.
const (
	KindFile   = "file"
	KindSQLite = "sqlite"
	KindMemory = "memory"
)

// Kinds lists every backend kind Open accepts.
var Kinds = []string{KindFile, KindSQLite, KindMemory}

// Open creates the backend of the given kind. For "file" path is a directory;
// for "sqlite" it is the database file, and a directory path gets
// "state.db" appended.
func Open(kind, path string) (Backend, error) {
	switch kind {
	case KindFile, "":
		return NewFileBackend(path)
	case KindSQLite:
		if filepath.Ext(path) == "" {
			path = filepath.Join(path, "state.db")
		}
		return NewSQLiteBackend(path)
	case KindMemory:
		return NewMemoryBackend(), nil
	default:
		return nil, fmt.Errorf("unknown storage backend %q", kind)
	}
}
