// Package chat is the live event hub: it fans change notifications out
// to connected websocket clients through a pluggable broker (in-process
// channel or Kafka) and applies the delivered-on-visible rule when a
// live receiver gets a new message.
package chat

import (
	"encoding/json"

	"github.com/Avatara12345/Chat-Application/internal/dto/respond"
)

// EventType discriminates hub events.
type EventType string

const (
	// EventMessageNew carries a freshly appended message to its receiver.
	EventMessageNew EventType = "message.new"
	// EventMessageStatus signals that delivery statuses changed within a
	// session (delivered sweep, read sweep, soft delete).
	EventMessageStatus EventType = "message.status"
	// EventTyping carries a peer's typing flag change.
	EventTyping EventType = "typing"
	// EventPresence broadcasts a user's online/offline change.
	EventPresence EventType = "presence"
	// EventRoster pushes a recomputed roster entry to one participant.
	EventRoster EventType = "roster"
)

// Event is the hub's wire unit, both on the broker and on websocket
// frames. Targets names the client uuids the event is routed to; an
// empty Targets broadcasts.
type Event struct {
	Type      EventType                   `json:"type"`
	SessionId string                      `json:"session_id,omitempty"`
	UserId    string                      `json:"user_id,omitempty"`
	Typing    bool                        `json:"typing,omitempty"`
	Status    string                      `json:"status,omitempty"`
	Message   *respond.MessageRespond     `json:"message,omitempty"`
	Roster    *respond.RosterEntryRespond `json:"roster,omitempty"`
	Targets   []string                    `json:"targets,omitempty"`
}

// Encode marshals the event for the broker or a websocket frame.
func (e Event) Encode() ([]byte, error) {
	return json.Marshal(e)
}

// DecodeEvent unmarshals a broker payload.
func DecodeEvent(data []byte) (Event, error) {
	var evt Event
	err := json.Unmarshal(data, &evt)
	return evt, err
}

// clientFrame is what a connected client may send upstream: typing
// input events and read acknowledgements for the open conversation.
type clientFrame struct {
	Type      string `json:"type"` // "typing" | "read"
	SessionId string `json:"session_id"`
	Typing    bool   `json:"typing"`
}
