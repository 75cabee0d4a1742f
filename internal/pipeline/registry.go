package pipeline

import (
	"sync"
	"time"
)

// StreamInfo describes one active processing stream.
type StreamInfo struct {
	TicketID  string
	StartedAt time.Time
}

// Registry maps stream ids to their active streams so later work on the
// same ticket can be attributed to a running stream. It is a convenience
// lookup only: absence of an entry is never an error.
type Registry struct {
	mu      sync.RWMutex
	streams map[string]StreamInfo
}

func NewRegistry() *Registry {
	return &Registry{streams: make(map[string]StreamInfo)}
}

func (r *Registry) Add(streamID, ticketID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.streams[streamID] = StreamInfo{TicketID: ticketID, StartedAt: time.Now()}
}

func (r *Registry) Remove(streamID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.streams, streamID)
}

func (r *Registry) Get(streamID string) (StreamInfo, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	info, ok := r.streams[streamID]
	return info, ok
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.streams)
}
