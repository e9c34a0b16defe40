// Package localstate persists small pieces of client state (the session
// record, the current-upload selector) as key/value pairs in the local
// SQLite database.
package localstate

import "context"

type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
}
