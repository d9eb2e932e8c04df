// Package store persists the whole application document. There are no
// partial updates anywhere: every gateway loads and replaces the entire
// aggregate as one JSON document, and the Container is the single owned
// copy the handlers transform.
package store

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"hesabyar/internal/models"
	"hesabyar/internal/observability/metrics"
)

// Gateway reads and replaces the single stored document.
type Gateway interface {
	// Load returns the stored document, or a freshly seeded default
	// document when none has ever been saved.
	Load(ctx context.Context) (models.AppData, error)
	// Save unconditionally overwrites the stored document.
	Save(ctx context.Context, data models.AppData) error
}

// Transform is one whole-document state change. It receives a private
// copy of the aggregate and returns the replacement, or an error to
// discard the attempt entirely.
type Transform func(data models.AppData) (models.AppData, error)

// Container owns the in-memory aggregate. Every mutation is a full
// read-modify-write through Apply; nothing else touches the document.
type Container struct {
	mu      sync.Mutex
	gateway Gateway
	logger  *zap.Logger
	data    models.AppData
}

// NewContainer loads the current document through the gateway and wraps
// it in a container.
func NewContainer(ctx context.Context, gateway Gateway, logger *zap.Logger) (*Container, error) {
	data, err := gateway.Load(ctx)
	if err != nil {
		return nil, err
	}
	return &Container{gateway: gateway, logger: logger, data: data}, nil
}

// Snapshot returns a deep copy of the current aggregate for reads.
func (c *Container) Snapshot() models.AppData {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.data.Clone()
}

// Apply runs one transform against a copy of the aggregate. If the
// transform fails, nothing changes and the error is returned. If it
// succeeds, the in-memory document is replaced and saved through the
// gateway.
//
// A failed save is reported (persisted=false) but does NOT roll the
// in-memory state back; the user sees a warning instead of losing the
// change they just made. This mirrors the legacy app's best-effort,
// no-retry write path.
func (c *Container) Apply(ctx context.Context, fn Transform) (persisted bool, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	next, err := fn(c.data.Clone())
	if err != nil {
		return false, err
	}
	c.data = next

	if saveErr := c.gateway.Save(ctx, c.data); saveErr != nil {
		c.logger.Error("failed to persist document, in-memory state kept", zap.Error(saveErr))
		metrics.ObserveSaveFailure()
		return false, nil
	}
	return true, nil
}

// Replace swaps the whole document in one step (used by restore and the
// raw document endpoint). Same save semantics as Apply.
func (c *Container) Replace(ctx context.Context, data models.AppData) (persisted bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.data = data
	if err := c.gateway.Save(ctx, c.data); err != nil {
		c.logger.Error("failed to persist replaced document", zap.Error(err))
		metrics.ObserveSaveFailure()
		return false
	}
	return true
}
