package queue

import (
	"fmt"
	"strconv"
)

type EventType string

const (
	EventTypeGenerationCompleted EventType = "generation_completed"
	EventTypeFeedbackSubmitted   EventType = "feedback_submitted"
	EventTypeStyleAnalyzed       EventType = "style_analyzed"
	EventTypeUserSignedUp        EventType = "user_signed_up"
)

// Event is one entry on the copywriter event stream. RefID is the key of
// the record the event describes.
type Event struct {
	ID           int64
	Type         EventType
	UserID       string
	RefID        string
	FallbackUsed bool
	TraceID      *string
}

// eventValues is the stream encoding of evt, read back by ParseMessage.
func eventValues(evt Event, attempt int) map[string]any {
	values := map[string]any{
		"event_id":      strconv.FormatInt(evt.ID, 10),
		"event_type":    string(evt.Type),
		"user_id":       evt.UserID,
		"ref_id":        evt.RefID,
		"fallback_used": strconv.FormatBool(evt.FallbackUsed),
		"attempt":       strconv.Itoa(attempt),
	}
	if evt.TraceID != nil && *evt.TraceID != "" {
		values["trace_id"] = *evt.TraceID
	}
	return values
}

func (t EventType) Valid() bool {
	switch t {
	case EventTypeGenerationCompleted, EventTypeFeedbackSubmitted, EventTypeStyleAnalyzed, EventTypeUserSignedUp:
		return true
	}
	return false
}

func parseEvent(values map[string]any) (Event, error) {
	rawID, err := requireString(values, "event_id")
	if err != nil {
		return Event{}, err
	}
	eventID, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil {
		return Event{}, fmt.Errorf("parsing event_id: %w", err)
	}

	rawType, err := requireString(values, "event_type")
	if err != nil {
		return Event{}, err
	}
	eventType := EventType(rawType)
	if !eventType.Valid() {
		return Event{}, fmt.Errorf("unknown event_type %q", rawType)
	}

	evt := Event{
		ID:     eventID,
		Type:   eventType,
		UserID: optionalString(values, "user_id"),
		RefID:  optionalString(values, "ref_id"),
	}
	if raw := optionalString(values, "fallback_used"); raw != "" {
		if evt.FallbackUsed, err = strconv.ParseBool(raw); err != nil {
			return Event{}, fmt.Errorf("parsing fallback_used: %w", err)
		}
	}
	if traceID := optionalString(values, "trace_id"); traceID != "" {
		evt.TraceID = &traceID
	}
	return evt, nil
}

func requireString(values map[string]any, key string) (string, error) {
	raw, ok := values[key]
	if !ok {
		return "", fmt.Errorf("missing %s", key)
	}
	return fmt.Sprint(raw), nil
}

func optionalString(values map[string]any, key string) string {
	raw, ok := values[key]
	if !ok {
		return ""
	}
	return fmt.Sprint(raw)
}
