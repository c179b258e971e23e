// Package timeouts holds the deadlines applied to store calls.
//
// Guards and handlers do not impose their own deadlines. Every store method
// bounds its Mongo round trip with Store(), so a slow database surfaces as an
// error from the store once that deadline passes.
//
// Values are set once at startup with Configure; defaults apply otherwise.
package timeouts

import (
	"context"
	"sync"
	"time"
)

// Default timeout values (used if Configure is not called).
const (
	DefaultPing   = 2 * time.Second
	DefaultStore  = 5 * time.Second
	DefaultSchema = 30 * time.Second
)

var mu sync.RWMutex

var (
	ping   = DefaultPing
	store  = DefaultStore
	schema = DefaultSchema
)

// Ping returns the timeout for health checks.
func Ping() time.Duration {
	mu.RLock()
	defer mu.RUnlock()
	return ping
}

// Store returns the timeout for a single store call.
func Store() time.Duration {
	mu.RLock()
	defer mu.RUnlock()
	return store
}

// Schema returns the timeout for index reconciliation at startup.
func Schema() time.Duration {
	mu.RLock()
	defer mu.RUnlock()
	return schema
}

// WithStore derives a context bounded by the store timeout.
func WithStore(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, Store())
}

// Config holds timeout configuration values.
// Zero values are ignored (defaults are kept).
type Config struct {
	Ping   time.Duration
	Store  time.Duration
	Schema time.Duration
}

// Configure sets custom timeout values. Call it during startup before
// handlers are registered.
func Configure(cfg Config) {
	mu.Lock()
	defer mu.Unlock()
	if cfg.Ping > 0 {
		ping = cfg.Ping
	}
	if cfg.Store > 0 {
		store = cfg.Store
	}
	if cfg.Schema > 0 {
		schema = cfg.Schema
	}
}

// Reset restores all timeouts to their default values.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	ping = DefaultPing
	store = DefaultStore
	schema = DefaultSchema
}

// Current returns the current timeout configuration.
func Current() Config {
	mu.RLock()
	defer mu.RUnlock()
	return Config{Ping: ping, Store: store, Schema: schema}
}
