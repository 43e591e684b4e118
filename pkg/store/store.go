// Package store persists encoded layouts under string keys.
//
// The layout engine only ever needs to load, save and forget one blob per
// workspace, so the [Store] contract is deliberately small. Several backends
// implement it:
//
//   - [MemoryStore]: process-local map, for tests and the HTTP server's
//     ephemeral mode
//   - [FileStore]: one file per key under a directory, for the CLI
//   - [DiskvStore]: diskv-backed directory with an in-memory read cache
//   - [RedisStore]: Redis, for servers sharing layouts across instances
//   - [MongoStore]: MongoDB collection, one document per key
//   - [NullStore]: stores nothing
//
// Keys come from a [Keyer]. [ScopedKeyer] prefixes every key so several
// tenants can share one backend.
//
// # Usage
//
//	st, err := store.NewFileStore(dir)
//	if err != nil {
//	    return err
//	}
//	defer st.Close()
//
//	key := store.NewDefaultKeyer().LayoutKey("my-workspace")
//	err = st.Save(ctx, key, data)
//	data, ok, err := st.Load(ctx, key)
package store

import "context"

// Store is a key/value blob store for encoded layouts.
type Store interface {
	// Load returns the data stored under key. ok is false, with a nil
	// error, when the key is absent.
	Load(ctx context.Context, key string) (data []byte, ok bool, err error)

	// Save stores data under key, replacing any previous value.
	Save(ctx context.Context, key string, data []byte) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}
