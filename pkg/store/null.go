package store

import "context"

// NullStore is a no-op store that never stores anything.
// Useful for testing or when persistence should be disabled.
type NullStore struct{}

// NewNullStore creates a null store.
func NewNullStore() Store {
	return &NullStore{}
}

// Load always reports a missing key.
func (s *NullStore) Load(ctx context.Context, key string) ([]byte, bool, error) {
	return nil, false, nil
}

// Save does nothing.
func (s *NullStore) Save(ctx context.Context, key string, data []byte) error {
	return nil
}

// Delete does nothing.
func (s *NullStore) Delete(ctx context.Context, key string) error {
	return nil
}

// Close does nothing.
func (s *NullStore) Close() error {
	return nil
}

// Ensure NullStore implements Store.
var _ Store = (*NullStore)(nil)
