package domain

import (
	"time"
	"unicode/utf8"
)

// MaxBodyLength is the longest plain-text body the server accepts, in characters.
const MaxBodyLength = 999

type DeliveryState int

const (
	DeliveryPending DeliveryState = iota
	DeliverySubmitted
	DeliveryRetrying
	DeliveryAcknowledged
	DeliveryFailed
	DeliveryAbandoned
)

func (s DeliveryState) String() string {
	switch s {
	case DeliveryPending:
		return "pending"
	case DeliverySubmitted:
		return "submitted"
	case DeliveryRetrying:
		return "retrying"
	case DeliveryAcknowledged:
		return "acknowledged"
	case DeliveryFailed:
		return "failed"
	case DeliveryAbandoned:
		return "abandoned"
	default:
		return "unknown"
	}
}

func (s DeliveryState) Terminal() bool {
	return s == DeliveryAcknowledged || s == DeliveryFailed || s == DeliveryAbandoned
}

type OutgoingMessage struct {
	// RequestID is reused across retries so the server can drop duplicates.
	RequestID    int64
	Peer         string
	Body         string
	AttemptCount int
	SubmittedAt  time.Time
	State        DeliveryState
}

func ValidateBody(body string) error {
	if utf8.RuneCountInString(body) > MaxBodyLength {
		return ErrMessageTooLong
	}
	return nil
}
