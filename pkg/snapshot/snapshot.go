package snapshot

import "context"

// Store is the persistence-helper contract shared by every backend: a
// store hydrates from its named key once at construction time and writes
// the full serialized value back after every mutation.
//
// Load returns (nil, nil) when the key is absent. Callers treat Save
// failures as best-effort and log them rather than surfacing them.
type Store interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, value []byte) error
	Ping(ctx context.Context) error
	Close() error
}
