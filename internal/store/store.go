// Package store persists the habit registry. Every backend writes the full
// registry on Save and reads it back once at startup on Load.
package store

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/papapumpkin/habitflow/internal/habit"
)

// Backend names accepted by Open.
const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
)

// Gateway loads and saves the complete registry state.
type Gateway interface {
	// Load reads the persisted registry. A missing store yields an empty
	// registry. Unreadable content is recovered as an empty registry with
	// LoadResult.Recovered set; only I/O failures are returned as errors.
	Load(ctx context.Context) (LoadResult, error)

	// Save replaces the persisted state with reg.
	Save(ctx context.Context, reg *habit.Registry) error

	// Close releases any resources held by the gateway.
	Close() error
}

// LoadResult is the outcome of Gateway.Load.
type LoadResult struct {
	Registry *habit.Registry

	// Recovered is true when the persisted state was corrupt and Registry
	// is an empty substitute. Cause wraps habit.ErrCorruptState.
	Recovered bool
	Cause     error
}

// Options carries dependencies shared by all backends.
type Options struct {
	// Clock stamps habits added to loaded registries. Nil means time.Now.
	Clock habit.Clock

	// Logger receives diagnostic output. Nil means a no-op logger.
	Logger *zap.Logger
}

func (o Options) logger() *zap.Logger {
	if o.Logger == nil {
		return zap.NewNop()
	}
	return o.Logger
}

// Open returns the gateway for backend rooted at path.
func Open(ctx context.Context, backend, path string, opts Options) (Gateway, error) {
	switch backend {
	case BackendJSON, "":
		return NewJSONStore(path, opts), nil
	case BackendSQLite:
		return NewSQLiteStore(ctx, path, opts)
	default:
		return nil, fmt.Errorf("store: unknown backend %q", backend)
	}
}

// recovered builds the empty-registry substitute for corrupt state.
func recovered(opts Options, cause error) LoadResult {
	return LoadResult{
		Registry:  habit.NewRegistry(opts.Clock),
		Recovered: true,
		Cause:     cause,
	}
}
