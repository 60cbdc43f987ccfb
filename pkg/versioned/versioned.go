// Package versioned implements the {ver, obj} persistence envelope. An
// envelope's obj is valid for exactly the schema its ver names; reading an
// envelope written by another version goes through a migration first.
package versioned

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
)

// Object is the persisted envelope.
type Object[T any] struct {
	Ver int `json:"ver"`
	Obj T   `json:"obj"`
}

// Raw is an envelope whose payload has not been decoded yet.
type Raw = Object[json.RawMessage]

// Migrator converts a payload stored at version from into the current schema.
type Migrator[T any] func(obj json.RawMessage, from int) (T, error)

// New wraps obj in an envelope at version ver.
func New[T any](obj T, ver int) Object[T] {
	return Object[T]{Ver: ver, Obj: obj}
}

// Decode parses data as an envelope. It reports false when data is not JSON
// or does not look like an envelope: ver must be an integral number and obj
// must be a JSON object (not an array, not null).
func Decode(data []byte) (Raw, bool) {
	var probe struct {
		Ver json.RawMessage `json:"ver"`
		Obj json.RawMessage `json:"obj"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return Raw{}, false
	}
	ver, ok := integral(bytes.TrimSpace(probe.Ver))
	if !ok {
		return Raw{}, false
	}
	obj := bytes.TrimSpace(probe.Obj)
	if len(obj) == 0 || obj[0] != '{' {
		return Raw{}, false
	}
	return Raw{Ver: ver, Obj: obj}, true
}

// integral parses a JSON number literal that holds a whole value.
func integral(lit []byte) (int, bool) {
	if len(lit) == 0 || (lit[0] != '-' && (lit[0] < '0' || lit[0] > '9')) {
		return 0, false
	}
	f, err := strconv.ParseFloat(string(lit), 64)
	if err != nil || f != math.Trunc(f) || math.Abs(f) > math.MaxInt32 {
		return 0, false
	}
	return int(f), true
}

// Unwrap returns the payload of env in the current schema. When env.Ver equals
// current the payload is decoded directly and migrate is not called;
// otherwise migrate converts it. Migration errors are returned unchanged.
func Unwrap[T any](env Raw, current int, migrate Migrator[T]) (T, error) {
	if env.Ver == current {
		var obj T
		if err := json.Unmarshal(env.Obj, &obj); err != nil {
			return obj, fmt.Errorf("decode version %d payload: %w", env.Ver, err)
		}
		return obj, nil
	}
	if migrate == nil {
		var zero T
		return zero, fmt.Errorf("no migration from version %d to %d", env.Ver, current)
	}
	return migrate(env.Obj, env.Ver)
}
