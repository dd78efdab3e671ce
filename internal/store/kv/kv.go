// Package kv defines the minimal key/value contract document stores build on.
package kv

import "context"

// KV is a flat byte-valued key space. Get returns model.ErrNotFound for
// missing keys. Put overwrites unconditionally (last write wins).
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	HealthPing(ctx context.Context) error
}
