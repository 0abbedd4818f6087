package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
)

// undefinedLiteral is what a browser writes when a missing object is
// stringified; it is treated like an absent value.
const undefinedLiteral = "undefined"

// ReadJSON decodes the value stored under key into a T.
//
// An absent key and the literal "undefined" yield def with a nil error.
// A value that does not decode yields def together with an error wrapping
// ErrCorrupt; callers are expected to carry on with def. Any other error
// comes from the backend.
func ReadJSON[T any](ctx context.Context, s Store, key string, def T) (T, error) {
	raw, err := s.Get(ctx, key)
	if err != nil {
		return def, err
	}

	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || string(raw) == undefinedLiteral || string(raw) == "null" {
		return def, nil
	}

	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return def, fmt.Errorf("%w: %s: %v", ErrCorrupt, key, err)
	}
	return v, nil
}

// WriteJSON encodes v and stores it under key.
func WriteJSON[T any](ctx context.Context, s Store, key string, v T) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	return s.Set(ctx, key, b)
}
