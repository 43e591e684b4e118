package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"github.com/peterbourgon/diskv/v3"
)

// DiskvStore stores layouts in a diskv directory. Recently read layouts are
// served from diskv's in-memory cache.
type DiskvStore struct {
	d *diskv.Diskv
}

// NewDiskvStore creates a diskv-backed store rooted at dir. cacheBytes
// bounds the read cache; zero uses 1MB.
func NewDiskvStore(dir string, cacheBytes uint64) *DiskvStore {
	if cacheBytes == 0 {
		cacheBytes = 1024 * 1024
	}
	return &DiskvStore{d: diskv.New(diskv.Options{
		BasePath:          dir,
		AdvancedTransform: keyToPath,
		InverseTransform:  pathToKey,
		CacheSizeMax:      cacheBytes,
	})}
}

// keyToPath spreads hashed keys over 256 subdirectories.
func keyToPath(key string) *diskv.PathKey {
	hash := Hash([]byte(key))
	return &diskv.PathKey{
		Path:     []string{hash[:2]},
		FileName: hash[2:],
	}
}

func pathToKey(pk *diskv.PathKey) string {
	if len(pk.Path) == 0 {
		return pk.FileName
	}
	return pk.Path[0] + pk.FileName
}

// Load reads the layout under key.
func (s *DiskvStore) Load(ctx context.Context, key string) ([]byte, bool, error) {
	data, err := s.d.Read(key)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("diskv read: %w", err)
	}
	return data, true, nil
}

// Save writes the layout under key.
func (s *DiskvStore) Save(ctx context.Context, key string, data []byte) error {
	if err := s.d.Write(key, data); err != nil {
		return fmt.Errorf("diskv write: %w", err)
	}
	return nil
}

// Delete erases key.
func (s *DiskvStore) Delete(ctx context.Context, key string) error {
	if !s.d.Has(key) {
		return nil
	}
	if err := s.d.Erase(key); err != nil {
		return fmt.Errorf("diskv erase: %w", err)
	}
	return nil
}

// Close does nothing; diskv holds no open handles.
func (s *DiskvStore) Close() error {
	return nil
}

// Ensure DiskvStore implements Store.
var _ Store = (*DiskvStore)(nil)
