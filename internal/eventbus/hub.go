// Package eventbus fans a synthesis's wfc.Event stream out to any
// number of WebSocket subscribers, so a browser or external dashboard
// can watch a run progress live. It carries no synthesis semantics of
// its own: a Hub is just a wfc.Sink that happens to have network
// listeners attached.
package eventbus

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/wavetile/tilesynth/internal/config"
	"github.com/wavetile/tilesynth/internal/logger"
	"github.com/wavetile/tilesynth/internal/wfc"
)

// wireEvent is the JSON shape broadcast to subscribers. wfc.Event isn't
// marshaled directly so the "Kind" field reads as a string on the wire
// instead of the enum's underlying int.
type wireEvent struct {
	RunID string `json:"run_id"`
	Kind  string `json:"kind"`

	AttemptNumber int `json:"attempt_number,omitempty"`
	MaxAttempts   int `json:"max_attempts,omitempty"`

	Iteration          int          `json:"iteration,omitempty"`
	TotalCollapsed     int          `json:"total_collapsed,omitempty"`
	TotalCells         int          `json:"total_cells,omitempty"`
	CollapsedCell      *wfc.Position `json:"collapsed_cell,omitempty"`
	PropagationChanges int          `json:"propagation_changes,omitempty"`

	Result *wireResult `json:"result,omitempty"`
}

type wireResult struct {
	Success            bool       `json:"success"`
	IsPartial          bool       `json:"is_partial"`
	Arrangement        [][]string `json:"arrangement,omitempty"`
	AttemptNumber      int        `json:"attempt_number"`
	CompatibilityScore int        `json:"compatibility_score"`
	Error              string     `json:"error,omitempty"`
}

func toWireEvent(runID string, e wfc.Event) wireEvent {
	w := wireEvent{
		RunID:              runID,
		Kind:               e.Kind.String(),
		AttemptNumber:      e.AttemptNumber,
		MaxAttempts:        e.MaxAttempts,
		Iteration:          e.Iteration,
		TotalCollapsed:     e.TotalCollapsed,
		TotalCells:         e.TotalCells,
		CollapsedCell:      e.CollapsedCell,
		PropagationChanges: e.PropagationChanges,
	}
	if e.Result != nil {
		errText := ""
		if e.Result.Err != nil {
			errText = e.Result.Err.Error()
		}
		w.Result = &wireResult{
			Success:            e.Result.Success,
			IsPartial:          e.Result.IsPartial,
			Arrangement:        e.Result.Arrangement,
			AttemptNumber:      e.Result.AttemptNumber,
			CompatibilityScore: e.Result.CompatibilityScore,
			Error:              errText,
		}
	}
	return w
}

// Hub broadcasts one synthesis's event stream to every subscriber
// currently connected. It satisfies wfc.Sink.
type Hub struct {
	runID    string
	cfg      config.EventBusConfig
	upgrader websocket.Upgrader
	limiter  *subscriberLimiter

	mu          sync.Mutex
	subscribers map[*subscriber]struct{}
}

// NewHub builds a Hub from its configuration, identified by a freshly
// generated run id so a subscriber watching several concurrent
// syntheses can tell their event streams apart. maxPerOrigin and
// maxTotal bound concurrent subscribers the same way a connection
// limiter bounds inbound game sessions; either may be zero to mean
// unbounded.
func NewHub(cfg config.EventBusConfig, maxPerOrigin, maxTotal int) *Hub {
	h := &Hub{
		runID:       uuid.New().String(),
		cfg:         cfg,
		limiter:     newSubscriberLimiter(maxPerOrigin, maxTotal),
		subscribers: make(map[*subscriber]struct{}),
	}
	h.upgrader = websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			return cfg.IsOriginAllowed(origin, r.Host)
		},
	}
	return h
}

// ServeHTTP upgrades an incoming request to a WebSocket and registers it
// as a subscriber for the lifetime of the connection.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	origin := r.Header.Get("Origin")
	if !h.limiter.tryAcquire(origin) {
		http.Error(w, "too many subscribers", http.StatusServiceUnavailable)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.limiter.release(origin)
		logger.Warningf("eventbus: upgrade failed: %v", err)
		return
	}

	maxSize := h.cfg.MaxMessageSize
	if maxSize <= 0 {
		maxSize = 4096
	}
	sub := newSubscriber(conn, origin, maxSize)

	h.mu.Lock()
	h.subscribers[sub] = struct{}{}
	h.mu.Unlock()

	go sub.writeLoop()
	sub.readLoop() // blocks until the client disconnects

	h.mu.Lock()
	delete(h.subscribers, sub)
	h.mu.Unlock()
	h.limiter.release(origin)
}

// Emit implements wfc.Sink. It never blocks on a slow subscriber: a
// subscriber whose outbox is full has this event dropped for it rather
// than stalling the synthesis.
func (h *Hub) Emit(e wfc.Event) {
	payload, err := json.Marshal(toWireEvent(h.runID, e))
	if err != nil {
		logger.Warningf("eventbus: marshaling event: %v", err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for sub := range h.subscribers {
		sub.enqueue(payload)
	}
}

// RunID returns this hub's generated run identifier.
func (h *Hub) RunID() string {
	return h.runID
}

// SubscriberCount reports the current number of connected subscribers.
func (h *Hub) SubscriberCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subscribers)
}

// Addr renders the hub's configured listen address as host:port.
func Addr(cfg config.EventBusConfig) string {
	return fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
}
