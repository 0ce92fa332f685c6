package domain

// Cursor is the resume position sent with every poll.
type Cursor struct {
	SequenceID int64
	ServerTime int64
}

// Advance applies the positions reported by a batch. Absent values and
// values behind the current position are ignored, so the cursor never
// moves backwards.
func (c Cursor) Advance(sequenceID, serverTime *int64) Cursor {
	next := c
	if sequenceID != nil && *sequenceID > next.SequenceID {
		next.SequenceID = *sequenceID
	}
	if serverTime != nil && *serverTime > next.ServerTime {
		next.ServerTime = *serverTime
	}
	return next
}
