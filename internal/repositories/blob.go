package repositories

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/poofware/coi-service/internal/storage"
)

// ErrInvalidBlob marks stored content that is absent or cannot be used:
// missing key, empty array, "null", "undefined" or undecodable JSON.
// Callers treat it as a signal to seed defaults.
var ErrInvalidBlob = errors.New("invalid_blob")

// loadArray reads key and decodes it into a slice. Empty or unusable content
// is reported as ErrInvalidBlob (wrapped with the decode error when there is one).
func loadArray[T any](ctx context.Context, kv storage.KV, key string) ([]T, error) {
	raw, err := kv.Get(ctx, key)
	if errors.Is(err, storage.ErrKeyNotFound) {
		return nil, ErrInvalidBlob
	}
	if err != nil {
		return nil, err
	}

	trimmed := bytes.TrimSpace(raw)
	switch string(trimmed) {
	case "", "[]", "null", "undefined", `"undefined"`:
		return nil, ErrInvalidBlob
	}

	var out []T
	if err := json.Unmarshal(trimmed, &out); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidBlob, key, err)
	}
	if len(out) == 0 {
		return nil, ErrInvalidBlob
	}
	return out, nil
}

func storeArray[T any](ctx context.Context, kv storage.KV, key string, items []T) error {
	if items == nil {
		items = []T{}
	}
	b, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return kv.Set(ctx, key, b)
}

func isInvalidBlob(err error) bool {
	return errors.Is(err, ErrInvalidBlob)
}
