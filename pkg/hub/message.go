// Package hub provides a thread-safe websocket broadcast hub using the
// channel-based fan-out pattern. The dashboard subscribes to session
// events through it.
package hub

// Event is one broadcast session event, serialized as JSON.
type Event struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// Event type names on the wire.
const (
	EventState      = "state"
	EventVolume     = "volume"
	EventTranscript = "transcript"
	EventContext    = "context"
	EventMetrics    = "metrics"
)

// StateEvent announces a session state change.
func StateEvent(state string, personaID string) Event {
	return Event{Type: EventState, Data: map[string]string{
		"state":      state,
		"persona_id": personaID,
	}}
}

// VolumeEvent carries the latest input and output levels.
func VolumeEvent(in, out float64) Event {
	return Event{Type: EventVolume, Data: map[string]float64{
		"in":  in,
		"out": out,
	}}
}

// TranscriptEvent carries one created, grown or finalized message.
func TranscriptEvent(message any) Event {
	return Event{Type: EventTranscript, Data: message}
}

// ContextEvent carries one updated context field.
func ContextEvent(field any) Event {
	return Event{Type: EventContext, Data: field}
}

// MetricsEvent carries a session metrics snapshot.
func MetricsEvent(metrics any) Event {
	return Event{Type: EventMetrics, Data: metrics}
}
