package engine

import (
	"sync"
	"time"

	"github.com/glyphpack/glyphpack/internal/model"
)

// Dispatcher runs placement requests on background goroutines. At most one
// computation is in flight per character id; duplicate requests for an id
// with an outstanding computation are dropped, not queued. Results are not
// ordered across characters: a later character may deliver before an earlier
// one, and callers needing strict ordering must disambiguate themselves.
// There is no cancellation: a superseded computation simply has its result
// discarded by the caller. A computation that exceeds the timeout resolves
// to the fallback placement so the caller is never left waiting.
type Dispatcher struct {
	engine  *Engine
	timeout time.Duration
	results chan model.Response

	mu       sync.Mutex
	inflight map[string]bool
	wg       sync.WaitGroup
	closed   bool
}

// DefaultDispatchTimeout bounds a single placement computation.
const DefaultDispatchTimeout = 2 * time.Second

// NewDispatcher creates a dispatcher over the given engine. A non-positive
// timeout falls back to DefaultDispatchTimeout.
func NewDispatcher(engine *Engine, timeout time.Duration) *Dispatcher {
	if timeout <= 0 {
		timeout = DefaultDispatchTimeout
	}
	return &Dispatcher{
		engine:   engine,
		timeout:  timeout,
		results:  make(chan model.Response, 64),
		inflight: make(map[string]bool),
	}
}

// Results returns the channel on which responses are delivered.
func (d *Dispatcher) Results() <-chan model.Response {
	return d.results
}

// Submit schedules a placement computation for the request. It returns false
// when the request was deduplicated against an in-flight computation for the
// same character id, or when the dispatcher is closed.
func (d *Dispatcher) Submit(req model.Request) bool {
	d.mu.Lock()
	if d.closed || d.inflight[req.CharacterID] {
		d.mu.Unlock()
		return false
	}
	d.inflight[req.CharacterID] = true
	d.wg.Add(1)
	d.mu.Unlock()

	go d.run(req)
	return true
}

func (d *Dispatcher) run(req model.Request) {
	defer d.wg.Done()

	done := make(chan model.Response, 1)
	go func() {
		done <- d.engine.Place(req)
	}()

	var resp model.Response
	select {
	case resp = <-done:
	case <-time.After(d.timeout):
		// The computation keeps running but its eventual result is dropped;
		// the caller gets the fallback instead of waiting indefinitely.
		resp = model.Response{
			CharacterID: req.CharacterID,
			Placement:   d.engine.Fallback(req.Viewport),
		}
	}

	d.mu.Lock()
	delete(d.inflight, req.CharacterID)
	closed := d.closed
	d.mu.Unlock()

	if !closed {
		d.results <- resp
	}
}

// Close waits for in-flight computations and closes the results channel.
// Submitting after Close is a no-op.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	d.mu.Unlock()

	d.wg.Wait()
	close(d.results)
}
