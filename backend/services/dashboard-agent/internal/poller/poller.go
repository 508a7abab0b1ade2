package poller

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// FetchFunc produces a fresh value from the remote service.
type FetchFunc[T any] func(ctx context.Context) (*T, error)

// State is what a consuming view reads on every render. Data is the latest
// successful snapshot and survives later failures; Err is the most recent tick
// failure, nil after a success.
type State[T any] struct {
	Data    *T
	Loading bool
	Err     error
}

// Options tune a handle beyond the fetch itself.
type Options[T any] struct {
	// OnSuccess runs after a successful tick is applied, outside the state
	// lock. Only fires for results applied before Cancel.
	OnSuccess func(*T)
	// OnError runs after a failed tick is applied. Only fires for results
	// applied before Cancel.
	OnError func(error)
}

// Handle owns one repeating poll cycle. Fetches are issued from a single
// goroutine, one at a time: a tick that fires while the previous fetch is
// still outstanding is simply not observed until the loop returns to the
// ticker, so no two fetches for the same handle are ever in flight.
type Handle[T any] struct {
	name     string
	interval time.Duration
	fetch    FetchFunc[T]
	opts     Options[T]
	logger   *zap.Logger

	mu        sync.Mutex
	state     State[T]
	cancelled bool

	cancel context.CancelFunc
	done   chan struct{}
}

// Start begins polling: one immediate fetch, then one per interval until the
// handle is cancelled or ctx ends.
func Start[T any](ctx context.Context, name string, interval time.Duration, fetch FetchFunc[T], opts Options[T], logger *zap.Logger) *Handle[T] {
	loopCtx, cancel := context.WithCancel(ctx)
	h := &Handle[T]{
		name:     name,
		interval: interval,
		fetch:    fetch,
		opts:     opts,
		logger:   logger,
		state:    State[T]{Loading: true},
		cancel:   cancel,
		done:     make(chan struct{}),
	}
	go h.run(loopCtx)
	return h
}

func (h *Handle[T]) run(ctx context.Context) {
	defer close(h.done)

	h.tick(ctx)

	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			h.tick(ctx)
		}
	}
}

func (h *Handle[T]) tick(ctx context.Context) {
	data, err := h.fetch(ctx)

	h.mu.Lock()
	if h.cancelled {
		// The result arrived after Cancel; drop it on the floor.
		h.mu.Unlock()
		return
	}
	h.state.Loading = false
	if err != nil {
		h.state.Err = err
		h.mu.Unlock()
		h.logger.Warn("poll tick failed", zap.String("poll", h.name), zap.Error(err))
		if h.opts.OnError != nil {
			h.opts.OnError(err)
		}
		return
	}
	h.state.Data = data
	h.state.Err = nil
	h.mu.Unlock()

	if h.opts.OnSuccess != nil {
		h.opts.OnSuccess(data)
	}
}

// State returns the current view of the poll.
func (h *Handle[T]) State() State[T] {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.state
}

// Cancel permanently stops the handle. Idempotent. An in-flight fetch is
// allowed to finish but its result is discarded: no state mutation and no
// callback happens for results that complete after Cancel.
func (h *Handle[T]) Cancel() {
	h.mu.Lock()
	if h.cancelled {
		h.mu.Unlock()
		return
	}
	h.cancelled = true
	h.mu.Unlock()
	h.cancel()
}

// Done is closed once the poll loop has fully exited.
func (h *Handle[T]) Done() <-chan struct{} { return h.done }
