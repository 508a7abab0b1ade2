package poller

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"
)

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("condition not met within %s", timeout)
}

func TestFirstTickFailureReportsErrorWithoutData(t *testing.T) {
	fetch := func(context.Context) (*string, error) {
		return nil, errors.New("connection refused")
	}

	h := Start(context.Background(), "test", time.Hour, fetch, Options[string]{}, zap.NewNop())
	defer h.Cancel()

	waitFor(t, time.Second, func() bool { return !h.State().Loading })
	state := h.State()
	if state.Err == nil {
		t.Fatalf("expected error after failed first tick")
	}
	if state.Data != nil {
		t.Fatalf("expected no data after failed first tick, got %q", *state.Data)
	}
}

func TestFailedTickKeepsLastGoodSnapshot(t *testing.T) {
	var mu sync.Mutex
	calls := 0
	fetch := func(context.Context) (*string, error) {
		mu.Lock()
		defer mu.Unlock()
		calls++
		switch calls {
		case 1:
			s := "S1"
			return &s, nil
		case 2:
			return nil, errors.New("remote down")
		default:
			s := "S2"
			return &s, nil
		}
	}

	h := Start(context.Background(), "test", 20*time.Millisecond, fetch, Options[string]{}, zap.NewNop())
	defer h.Cancel()

	waitFor(t, time.Second, func() bool {
		st := h.State()
		return st.Data != nil && *st.Data == "S1" && st.Err == nil
	})

	waitFor(t, time.Second, func() bool { return h.State().Err != nil })
	state := h.State()
	if state.Data == nil || *state.Data != "S1" {
		t.Fatalf("expected stale S1 to survive the failed tick, got %+v", state.Data)
	}

	waitFor(t, time.Second, func() bool {
		st := h.State()
		return st.Data != nil && *st.Data == "S2" && st.Err == nil
	})
}

func TestCancelDiscardsInFlightResult(t *testing.T) {
	started := make(chan struct{}, 1)
	release := make(chan struct{})
	fetch := func(context.Context) (*string, error) {
		started <- struct{}{}
		<-release
		s := "late"
		return &s, nil
	}

	var mu sync.Mutex
	successCalls := 0
	opts := Options[string]{
		OnSuccess: func(*string) {
			mu.Lock()
			successCalls++
			mu.Unlock()
		},
	}

	h := Start(context.Background(), "test", time.Hour, fetch, opts, zap.NewNop())

	<-started
	h.Cancel()
	close(release)
	<-h.Done()

	state := h.State()
	if state.Data != nil {
		t.Fatalf("in-flight result applied after cancel: %q", *state.Data)
	}
	if state.Err != nil {
		t.Fatalf("unexpected error after cancel: %v", state.Err)
	}
	mu.Lock()
	defer mu.Unlock()
	if successCalls != 0 {
		t.Fatalf("OnSuccess fired after cancel")
	}
}

func TestCancelIsIdempotent(t *testing.T) {
	fetch := func(context.Context) (*string, error) {
		s := "ok"
		return &s, nil
	}
	h := Start(context.Background(), "test", time.Hour, fetch, Options[string]{}, zap.NewNop())
	h.Cancel()
	h.Cancel()
	<-h.Done()
}

func TestCallbacksRunOnEachTick(t *testing.T) {
	var mu sync.Mutex
	calls := 0
	successes := 0
	failures := 0

	fetch := func(context.Context) (*string, error) {
		mu.Lock()
		defer mu.Unlock()
		calls++
		if calls%2 == 0 {
			return nil, errors.New("flaky")
		}
		s := "ok"
		return &s, nil
	}
	opts := Options[string]{
		OnSuccess: func(*string) {
			mu.Lock()
			successes++
			mu.Unlock()
		},
		OnError: func(error) {
			mu.Lock()
			failures++
			mu.Unlock()
		},
	}

	h := Start(context.Background(), "test", 10*time.Millisecond, fetch, opts, zap.NewNop())
	defer h.Cancel()

	waitFor(t, time.Second, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return successes >= 2 && failures >= 2
	})
}

type fakeHandle struct {
	mu        sync.Mutex
	cancelled bool
}

func (f *fakeHandle) Cancel() {
	f.mu.Lock()
	f.cancelled = true
	f.mu.Unlock()
}

func (f *fakeHandle) isCancelled() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.cancelled
}

func TestManagerTrackReplacesAndCancels(t *testing.T) {
	m := NewManager()
	first := &fakeHandle{}
	second := &fakeHandle{}

	m.Track("module-detail", first)
	if first.isCancelled() {
		t.Fatalf("fresh handle cancelled prematurely")
	}

	m.Track("module-detail", second)
	if !first.isCancelled() {
		t.Fatalf("tracking a new handle must cancel the previous one")
	}
	if second.isCancelled() {
		t.Fatalf("replacement handle cancelled prematurely")
	}
}

func TestManagerStopAndStopAll(t *testing.T) {
	m := NewManager()
	a := &fakeHandle{}
	b := &fakeHandle{}

	m.Track("modules", a)
	m.Track("statistics", b)

	m.Stop("modules")
	if !a.isCancelled() {
		t.Fatalf("Stop did not cancel the handle")
	}
	if b.isCancelled() {
		t.Fatalf("Stop cancelled an unrelated handle")
	}

	// Stopping an unknown view is a no-op.
	m.Stop("unknown")

	m.StopAll()
	if !b.isCancelled() {
		t.Fatalf("StopAll did not cancel remaining handles")
	}
}
