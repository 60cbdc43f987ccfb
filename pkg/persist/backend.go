// Package persist provides the key/value persistence backends that snapshots
// of application state are written to.
package persist

import (
	"context"
	"encoding/json"
	"fmt"
)

// Backend is a minimal text key/value store. A missing key is reported by
// GetText returning ok=false and a nil error.
type Backend interface {
	GetText(ctx context.Context, key string) (text string, ok bool, err error)
	SetText(ctx context.Context, key, text string) error
	DeleteItem(ctx context.Context, key string) error
	Clear(ctx context.Context) error
	GetKeys(ctx context.Context) ([]string, error)
	Close() error
}

// GetJSON reads key and decodes it into v. A value that is absent or does not
// parse as JSON is reported as ok=false with a nil error; only backend
// failures are returned as errors.
func GetJSON(ctx context.Context, b Backend, key string, v any) (bool, error) {
	text, ok, err := b.GetText(ctx, key)
	if err != nil || !ok {
		return false, err
	}
	if err := json.Unmarshal([]byte(text), v); err != nil {
		return false, nil
	}
	return true, nil
}

// SetJSON encodes v as JSON and stores it under key.
func SetJSON(ctx context.Context, b Backend, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", key, err)
	}
	return b.SetText(ctx, key, string(data))
}
