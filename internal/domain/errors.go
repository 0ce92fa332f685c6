package domain

import (
	"errors"
	"fmt"
)

var (
	ErrAccountNotFound = errors.New("account not found")
	ErrSecretNotFound  = errors.New("secret not found")

	ErrTransportFailure = errors.New("transport failure")
	ErrMalformedPayload = errors.New("malformed payload")
	ErrMessageTooLong   = errors.New("message too long")
	ErrSessionClosed    = errors.New("session closed")
)

type RejectReason string

const (
	RejectRecipientOffline RejectReason = "recip_not_online"
	RejectSelfMessage      RejectReason = "im_self"
	RejectRecipientMissing RejectReason = "im_not_ok"
	RejectRecipientIMOff   RejectReason = "recip_im_off"
)

var rejectMessages = map[RejectReason]string{
	RejectRecipientOffline: "Recipient not online",
	RejectSelfMessage:      "You cannot send an IM to yourself",
	RejectRecipientMissing: "Recipient is 'missing'",
	RejectRecipientIMOff:   "Recipient turned IM off",
}

// UserMessage returns the text shown for a known reason, or "" otherwise.
func (r RejectReason) UserMessage() string {
	return rejectMessages[r]
}

func (r RejectReason) Known() bool {
	_, ok := rejectMessages[r]
	return ok
}

// RejectionError is a send the server explicitly refused.
type RejectionError struct {
	Status int
	Reason RejectReason
}

func (e *RejectionError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("message rejected with status %d", e.Status)
	}
	return fmt.Sprintf("message rejected with status %d: %s", e.Status, e.Reason)
}

func (e *RejectionError) Known() bool {
	return e.Reason.Known()
}
