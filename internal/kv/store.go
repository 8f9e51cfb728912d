// Package kv is the client-local side of the storefront: a small durable
// key-value store plus a broadcast channel. Every open view of the same
// client shares both, so cart state written by one view is picked up by the
// others. The broadcast carries no payload; receivers re-read the store.
package kv

import "context"

// Store is durable per-client storage. Get reports ok=false when the key
// has never been written.
type Store interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
}

// Broadcaster fans a payload-less change notification out to every
// subscribed view. Subscribe delivers until ctx is done.
type Broadcaster interface {
	Publish(ctx context.Context) error
	Subscribe(ctx context.Context) (<-chan struct{}, error)
}
