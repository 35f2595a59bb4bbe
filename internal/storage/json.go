package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrCorrupt is returned when a stored value cannot be decoded
var ErrCorrupt = errors.New("stored value is corrupt")

// ReadJSON loads and decodes the value at key into dst.
// It returns model.ErrNotFound when absent and ErrCorrupt when undecodable.
func ReadJSON(ctx context.Context, s Storage, key string, dst any) error {
	data, err := s.Get(ctx, key)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrCorrupt, key, err)
	}
	return nil
}

// WriteJSON encodes v and stores it at key
func WriteJSON(ctx context.Context, s Storage, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return s.Set(ctx, key, data)
}
