package domain

type Direction int

const (
	DirectionReceived Direction = iota
	DirectionSent
)

func (d Direction) String() string {
	switch d {
	case DirectionSent:
		return "sent"
	case DirectionReceived:
		return "received"
	default:
		return "unknown"
	}
}

// Event is one entry of a polled batch. The set of implementations is closed;
// UnknownEvent carries any type tag the decoder does not recognize.
type Event interface {
	eventType() string
}

type InstantMessage struct {
	Direction Direction
	Peer      string
	// Body is plain text with markup already stripped.
	Body string
}

type PresenceLost struct {
	Peer string
}

type ProfileViewed struct {
	Peer string
}

type UnknownEvent struct {
	Type string
}

const (
	EventTypeInstantMessage = "im"
	EventTypePresenceLost   = "orbit_user_signoff"
	EventTypeProfileViewed  = "stalk"
)

func (InstantMessage) eventType() string { return EventTypeInstantMessage }
func (PresenceLost) eventType() string   { return EventTypePresenceLost }
func (ProfileViewed) eventType() string  { return EventTypeProfileViewed }
func (e UnknownEvent) eventType() string { return e.Type }

// EventType returns the wire type tag of an event.
func EventType(e Event) string {
	if e == nil {
		return ""
	}
	return e.eventType()
}
