// Package cache provides a short-lived, process-wide value cache.
package cache

import (
	"context"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"
)

// loadTimeout bounds a shared load, which no single caller can cancel.
const loadTimeout = 30 * time.Second

type entry[T any] struct {
	value     T
	expiresAt time.Time
}

// Value caches the result of a single loader for a fixed TTL.
//
// Reads never block on each other. When the entry is missing or expired,
// concurrent callers share one load through a singleflight group and the
// fresh entry is swapped in atomically. A non-positive TTL disables caching
// but still collapses concurrent loads.
type Value[T any] struct {
	ttl   time.Duration
	now   func() time.Time
	group singleflight.Group
	entry atomic.Pointer[entry[T]]
}

// New creates an empty cache. A nil clock defaults to time.Now.
func New[T any](ttl time.Duration, now func() time.Time) *Value[T] {
	if now == nil {
		now = time.Now
	}
	return &Value[T]{ttl: ttl, now: now}
}

// Get returns the cached value, calling load when the entry is missing or
// expired. The boolean reports whether the value came from the cache.
//
// The load runs detached from ctx's cancellation, since callers joined to
// the same flight would otherwise inherit the first caller's cancellation.
// ctx's values still reach the loader.
func (v *Value[T]) Get(ctx context.Context, load func(context.Context) (T, error)) (T, bool, error) {
	if val, ok := v.fresh(); ok {
		return val, true, nil
	}

	res, err, _ := v.group.Do("value", func() (any, error) {
		// A previous flight may have refreshed the entry while we waited.
		if val, ok := v.fresh(); ok {
			return val, nil
		}
		loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), loadTimeout)
		defer cancel()

		val, err := load(loadCtx)
		if err != nil {
			return nil, err
		}
		if v.ttl > 0 {
			v.entry.Store(&entry[T]{value: val, expiresAt: v.now().Add(v.ttl)})
		}
		return val, nil
	})
	if err != nil {
		var zero T
		return zero, false, err
	}
	return res.(T), false, nil
}

// Invalidate drops the cached entry so the next Get reloads.
func (v *Value[T]) Invalidate() {
	v.entry.Store(nil)
}

func (v *Value[T]) fresh() (T, bool) {
	e := v.entry.Load()
	if e == nil || !v.now().Before(e.expiresAt) {
		var zero T
		return zero, false
	}
	return e.value, true
}
