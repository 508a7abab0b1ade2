package history

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"go.uber.org/zap"

	"aquavigil/backend/services/dashboard-agent/internal/models"
)

// Capacity bounds the number of remembered views.
const Capacity = 20

// now is swapped out by tests.
var now = time.Now

// Cache is the bounded, recency-ordered, deduplicated log of viewed modules.
// Mutations are read-modify-write units under one mutex, and the full list is
// rewritten to the store on every change.
type Cache struct {
	mu     sync.Mutex
	store  Store
	logger *zap.Logger
}

// NewCache builds a cache over the given durable store.
func NewCache(store Store, logger *zap.Logger) *Cache {
	return &Cache{store: store, logger: logger}
}

// Record remembers that the module was just viewed. An existing entry for the
// same id is removed and the new snapshot takes its place at the front with a
// fresh viewedAt; the oldest entries fall off once the list exceeds Capacity.
func (c *Cache) Record(ctx context.Context, snapshot models.ModuleSnapshot) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	entries := c.load(ctx)

	kept := make([]models.HistoryEntry, 0, len(entries)+1)
	kept = append(kept, models.HistoryEntry{Snapshot: snapshot, ViewedAt: now()})
	for _, e := range entries {
		if e.Snapshot.ID == snapshot.ID {
			continue
		}
		kept = append(kept, e)
	}
	if len(kept) > Capacity {
		kept = kept[:Capacity]
	}

	data, err := json.Marshal(kept)
	if err != nil {
		return err
	}
	return c.store.Save(ctx, data)
}

// List returns entries most-recently-viewed first. A missing or unparsable
// blob yields an empty list, never an error.
func (c *Cache) List(ctx context.Context) ([]models.HistoryEntry, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.load(ctx), nil
}

// Clear drops all entries from durable storage.
func (c *Cache) Clear(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.store.Clear(ctx)
}

func (c *Cache) load(ctx context.Context) []models.HistoryEntry {
	data, err := c.store.Load(ctx)
	if err != nil {
		c.logger.Warn("history store unreadable, treating as empty", zap.Error(err))
		return nil
	}
	if len(data) == 0 {
		return nil
	}
	var entries []models.HistoryEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		c.logger.Warn("history blob unparsable, starting over", zap.Error(err))
		return nil
	}
	return entries
}
