package zoom

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// Event type values recognized by the tracker. Any other value parses
// successfully but is rejected downstream as an unsupported command.
const (
	EventSharingStarted  = "meeting.sharing_started"
	EventSharingEnded    = "meeting.sharing_ended"
	EventParticipantLeft = "meeting.participant_left"
)

// ErrInvalidJSON is returned when the request body is not valid JSON.
var ErrInvalidJSON = errors.New("zoom: invalid json payload")

// FieldError reports a required payload field that was absent for a
// recognized event type.
type FieldError struct {
	Field string
}

// Error implements the error interface.
func (e *FieldError) Error() string {
	return fmt.Sprintf("zoom: required field %q is missing", e.Field)
}

// Sentinel instances for each required field, checked in this order.
var (
	ErrUserIDMissing    = &FieldError{Field: "user_id"}
	ErrUsernameMissing  = &FieldError{Field: "user_name"}
	ErrRoomIDMissing    = &FieldError{Field: "id"}
	ErrRoomTopicMissing = &FieldError{Field: "topic"}
	ErrTimestampMissing = &FieldError{Field: "event_ts"}
)

// Event is the validated, flattened form of a Zoom webhook payload.
type Event struct {
	Type      string
	UserID    string
	Username  string
	RoomID    string
	RoomName  string
	Timestamp time.Time
}

// Recognized reports whether the event type is one the tracker acts on.
func (e Event) Recognized() bool {
	switch e.Type {
	case EventSharingStarted, EventSharingEnded, EventParticipantLeft:
		return true
	}
	return false
}

// hookPayload mirrors the JSON bodies Zoom sends for meeting.sharing_started,
// meeting.sharing_ended and meeting.participant_left. Pointer fields
// distinguish absent values from empty ones.
type hookPayload struct {
	Event   string    `json:"event"`
	Payload *hookBody `json:"payload"`
	EventTS *int64    `json:"event_ts"`
}

type hookBody struct {
	Object *hookObject `json:"object"`
}

type hookObject struct {
	Participant *hookParticipant `json:"participant"`
	RoomID      *string          `json:"id"`
	RoomTopic   *string          `json:"topic"`
}

type hookParticipant struct {
	UserID   *string `json:"user_id"`
	Username *string `json:"user_name"`
}

// ParseEvent decodes and validates a raw webhook body. Malformed JSON yields
// ErrInvalidJSON. For recognized event types every required field is checked
// individually, in payload order, and the first absent one is reported as its
// own FieldError. Unrecognized event types pass through unvalidated so the
// caller can reject them as unsupported.
func ParseEvent(body []byte) (Event, error) {
	var payload hookPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return Event{}, ErrInvalidJSON
	}

	event := Event{Type: payload.Event}
	if !event.Recognized() {
		return event, nil
	}

	var participant *hookParticipant
	var object *hookObject
	if payload.Payload != nil {
		object = payload.Payload.Object
	}
	if object != nil {
		participant = object.Participant
	}

	if participant == nil || participant.UserID == nil {
		return Event{}, ErrUserIDMissing
	}
	event.UserID = *participant.UserID

	if participant.Username == nil {
		return Event{}, ErrUsernameMissing
	}
	event.Username = *participant.Username

	if object.RoomID == nil {
		return Event{}, ErrRoomIDMissing
	}
	event.RoomID = *object.RoomID

	if object.RoomTopic == nil {
		return Event{}, ErrRoomTopicMissing
	}
	event.RoomName = *object.RoomTopic

	if payload.EventTS == nil {
		return Event{}, ErrTimestampMissing
	}
	event.Timestamp = time.UnixMilli(*payload.EventTS).UTC()

	return event, nil
}
