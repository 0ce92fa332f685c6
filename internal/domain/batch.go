package domain

type PersonSnapshot struct {
	Name      string
	Thumbnail string
	Online    bool
}

// Batch is a decoded poll response. Nil pointer fields mean the key was
// absent and the corresponding local state must not be touched.
type Batch struct {
	People      []PersonSnapshot
	Events      []Event
	UnreadCount *int
	SequenceID  *int64
	ServerTime  *int64
	// Skipped counts people and event entries dropped as undecodable.
	Skipped int
}
