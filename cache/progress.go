package cache

import (
	"sync"

	"github.com/sparqldesk/sparqldesk/ontology"
)

// Status is the state a progress event reports.
type Status string

const (
	StatusLoading Status = "loading"
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// Progress is a fetch progress notification. Events fire after each element
// kind's query completes, plus a final success or error event. Callers may
// ignore them; they carry no return value.
type Progress struct {
	JobID     string        `json:"jobId"`
	BackendID string        `json:"backendId"`
	Status    Status        `json:"status"`
	Kind      ontology.Kind `json:"kind,omitempty"`
	Fetched   int           `json:"fetched"`
	Message   string        `json:"message,omitempty"`
}

// ProgressFunc receives progress events. Callbacks run on the fetching
// goroutine and must not block.
type ProgressFunc func(Progress)

// progressHub fans progress events out to subscribers keyed by backend ID.
type progressHub struct {
	mu   sync.RWMutex
	subs map[string]map[int]ProgressFunc
	next int
}

func newProgressHub() *progressHub {
	return &progressHub{subs: make(map[string]map[int]ProgressFunc)}
}

// subscribe registers a callback for one backend's events and returns an
// unsubscribe function.
func (h *progressHub) subscribe(backendID string, fn ProgressFunc) func() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.subs[backendID] == nil {
		h.subs[backendID] = make(map[int]ProgressFunc)
	}
	id := h.next
	h.next++
	h.subs[backendID][id] = fn

	return func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		delete(h.subs[backendID], id)
		if len(h.subs[backendID]) == 0 {
			delete(h.subs, backendID)
		}
	}
}

// publish delivers an event to the backend's subscribers.
func (h *progressHub) publish(p Progress) {
	h.mu.RLock()
	fns := make([]ProgressFunc, 0, len(h.subs[p.BackendID]))
	for _, fn := range h.subs[p.BackendID] {
		fns = append(fns, fn)
	}
	h.mu.RUnlock()

	for _, fn := range fns {
		fn(p)
	}
}
