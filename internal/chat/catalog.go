package chat

import (
	"context"
	"log/slog"
	"slices"
	"sync"

	"github.com/suPer8Hu/ai-assistant/internal/ai"
)

// ModelList is the outcome of a catalog query. Models is never nil; Err is set
// when the runtime could not be queried, so callers can tell an empty catalog
// from a failed one.
type ModelList struct {
	Models []string
	Err    error
}

// Catalog lists runtime models and validates selections against the most
// recent listing. A failed listing counts as an empty one.
type Catalog struct {
	lister ai.ModelLister
	logger *slog.Logger

	mu     sync.RWMutex
	listed bool
	models []string
}

func NewCatalog(lister ai.ModelLister, logger *slog.Logger) *Catalog {
	if logger == nil {
		logger = slog.Default()
	}
	return &Catalog{lister: lister, logger: logger}
}

func (c *Catalog) List(ctx context.Context) ModelList {
	models, err := c.lister.ListModels(ctx)
	if err != nil {
		c.logger.Warn("list models failed", "err", err)
		// the failed listing is the latest one: nothing is selectable
		c.mu.Lock()
		c.models = nil
		c.listed = true
		c.mu.Unlock()
		return ModelList{Models: []string{}, Err: err}
	}
	if models == nil {
		models = []string{}
	}

	c.mu.Lock()
	c.models = slices.Clone(models)
	c.listed = true
	c.mu.Unlock()

	return ModelList{Models: models}
}

// Select makes name the conversation's current model. The catalog is listed
// first if that has not happened yet in this process. On failure conv is left
// untouched.
func (c *Catalog) Select(ctx context.Context, conv *Conversation, name string) error {
	c.mu.RLock()
	listed := c.listed
	c.mu.RUnlock()
	if !listed {
		c.List(ctx)
	}

	c.mu.RLock()
	ok := slices.Contains(c.models, name)
	c.mu.RUnlock()
	if !ok {
		return &InvalidModelError{Name: name}
	}

	conv.Model = name
	c.logger.Info("model selected", "model", name, "session_id", conv.SessionID)
	return nil
}
