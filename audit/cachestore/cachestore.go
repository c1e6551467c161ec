// Audit component for caching scan results (as JSON strings) with a fixed
// TTL and purging.
//
// Includes an interface and implementations using redis and in-process
// memory.
//
// The orchestrator uses this to skip re-scanning identical text: the
// regenerate-validate loop frequently re-submits the same transcript, and a
// scan against an unchanged lexicon snapshot is fully deterministic, so the
// cached spans are exact.
package cachestore

import (
	"context"
)

type CacheStore interface {
	Get(ctx context.Context, name, key string) (string, error)
	Set(ctx context.Context, name, key string, val string) error
	Purge(ctx context.Context, name, key string) error
}
