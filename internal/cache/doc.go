// Package cache persists translations per ordered language pair. Stores are
// append-only: once a text has a translation it is never replaced. A cache
// failure is never fatal to callers; every I/O problem is reported as
// ErrCacheIO so it can be logged and skipped.
package cache
