package filter

import (
	"sync"
	"time"

	"github.com/bep/debounce"
	"github.com/google/uuid"

	"github.com/ShayestehHS/apidock/internal/models"
)

// Controller owns the single mutable filter state. All input events funnel
// through it; recomputation is debounced with last-write-wins semantics so
// rapid input produces one filter pass.
type Controller struct {
	mu          sync.Mutex
	engine      *Engine
	state       models.FilterState
	editing     string
	debounced   func(func())
	subscribers map[string]chan models.FilterResult
}

// NewController creates a controller over the engine. interval bounds
// recomputation frequency under rapid input.
func NewController(engine *Engine, interval time.Duration) *Controller {
	if interval <= 0 {
		interval = 250 * time.Millisecond
	}
	return &Controller{
		engine:      engine,
		debounced:   debounce.New(interval),
		subscribers: make(map[string]chan models.FilterResult),
	}
}

// State returns the current filter state.
func (c *Controller) State() models.FilterState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// SetState replaces the state from an input event and schedules a
// debounced recomputation. A newer event cancels the pending one.
func (c *Controller) SetState(state models.FilterState, editingFacet string) {
	c.mu.Lock()
	c.state = state
	c.editing = editingFacet
	c.mu.Unlock()

	c.debounced(c.recompute)
}

// ApplyNow runs a filter pass immediately, bypassing the debounce. Used
// for the initial page load where state comes from the URL.
func (c *Controller) ApplyNow(state models.FilterState, editingFacet string) models.FilterResult {
	c.mu.Lock()
	c.state = state
	c.editing = editingFacet
	c.mu.Unlock()

	return c.engine.Apply(state, editingFacet)
}

// Clear resets every facet and recomputes immediately.
func (c *Controller) Clear() models.FilterResult {
	c.mu.Lock()
	c.state = models.FilterState{}
	c.editing = ""
	c.mu.Unlock()

	result := c.engine.Clear()
	c.broadcast(result)
	return result
}

func (c *Controller) recompute() {
	c.mu.Lock()
	state := c.state
	editing := c.editing
	c.mu.Unlock()

	c.broadcast(c.engine.Apply(state, editing))
}

// Subscribe registers a listener for recomputed results.
func (c *Controller) Subscribe() (string, chan models.FilterResult) {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := uuid.New().String()
	ch := make(chan models.FilterResult, 16)
	c.subscribers[id] = ch
	return id, ch
}

// Unsubscribe removes a listener.
func (c *Controller) Unsubscribe(id string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if ch, ok := c.subscribers[id]; ok {
		close(ch)
		delete(c.subscribers, id)
	}
}

func (c *Controller) broadcast(result models.FilterResult) {
	c.mu.Lock()
	subs := make([]chan models.FilterResult, 0, len(c.subscribers))
	for _, ch := range c.subscribers {
		subs = append(subs, ch)
	}
	c.mu.Unlock()

	for _, ch := range subs {
		select {
		case ch <- result:
		default:
			// Listener is behind; drop rather than block the UI thread.
		}
	}
}
