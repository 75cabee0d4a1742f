package models

import "time"

// Progress event types emitted over the processing stream.
const (
	EventStart         = "start"
	EventAgentActivity = "agent_activity"
	EventInsight       = "insight"
	EventCommunication = "communication"
	EventComplete      = "complete"
	EventError         = "error"
)

// ProgressEvent is one entry in a ticket-processing stream. Events are
// append-only and delivered at most once; consumers must tolerate unknown
// fields and must not assume a fixed event count.
type ProgressEvent struct {
	Type      string         `json:"type"`
	Agent     string         `json:"agent,omitempty"`
	Phase     string         `json:"phase,omitempty"`
	Data      map[string]any `json:"data"`
	Timestamp string         `json:"timestamp"`
}

// NewProgressEvent stamps an event with the current time in RFC 3339 format.
func NewProgressEvent(eventType, agent, phase string, data map[string]any) ProgressEvent {
	if data == nil {
		data = map[string]any{}
	}
	return ProgressEvent{
		Type:      eventType,
		Agent:     agent,
		Phase:     phase,
		Data:      data,
		Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
	}
}
