package domain

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func int64Ptr(v int64) *int64 { return &v }

func TestCursorAdvanceAppliesReportedPositions(t *testing.T) {
	c := Cursor{}.Advance(int64Ptr(5), int64Ptr(100))

	assert.Equal(t, Cursor{SequenceID: 5, ServerTime: 100}, c)
}

func TestCursorAdvanceKeepsAbsentFields(t *testing.T) {
	c := Cursor{SequenceID: 5, ServerTime: 100}.Advance(nil, int64Ptr(120))

	assert.Equal(t, Cursor{SequenceID: 5, ServerTime: 120}, c)
}

func TestCursorAdvanceNeverRegresses(t *testing.T) {
	c := Cursor{SequenceID: 9, ServerTime: 300}.Advance(int64Ptr(4), int64Ptr(299))

	assert.Equal(t, Cursor{SequenceID: 9, ServerTime: 300}, c)
}

func TestNewAvatarRequestStripsHostPrefix(t *testing.T) {
	tests := []struct {
		name      string
		thumbnail string
		wantPath  string
	}{
		{name: "absolute cdn url", thumbnail: "http://cdn.okcimg.com/x.jpg", wantPath: "x.jpg"},
		{name: "nested path", thumbnail: "http://cdn.okcimg.com/php/load_okc_image.php/images/60x60/1.jpg", wantPath: "php/load_okc_image.php/images/60x60/1.jpg"},
		{name: "relative path kept", thumbnail: "/thumbs/a.png", wantPath: "/thumbs/a.png"},
		{name: "other host kept verbatim", thumbnail: "http://example.com/a.png", wantPath: "http://example.com/a.png"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := NewAvatarRequest("bob", tt.thumbnail, "")
			assert.Equal(t, "cdn.okcimg.com", req.Host)
			assert.Equal(t, tt.wantPath, req.Path)
			assert.Equal(t, tt.thumbnail, req.Fingerprint)
			assert.Equal(t, "bob", req.Contact)
		})
	}
}

func TestValidateBodyCountsCharactersNotBytes(t *testing.T) {
	require.NoError(t, ValidateBody(strings.Repeat("a", MaxBodyLength)))
	require.NoError(t, ValidateBody(strings.Repeat("é", MaxBodyLength)))

	err := ValidateBody(strings.Repeat("a", MaxBodyLength+1))
	require.ErrorIs(t, err, ErrMessageTooLong)
}

func TestRejectReasonUserMessages(t *testing.T) {
	tests := []struct {
		reason RejectReason
		want   string
	}{
		{reason: RejectRecipientOffline, want: "Recipient not online"},
		{reason: RejectSelfMessage, want: "You cannot send an IM to yourself"},
		{reason: RejectRecipientMissing, want: "Recipient is 'missing'"},
		{reason: RejectRecipientIMOff, want: "Recipient turned IM off"},
		{reason: RejectReason("rate_limited"), want: ""},
	}

	for _, tt := range tests {
		t.Run(string(tt.reason), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.reason.UserMessage())
			assert.Equal(t, tt.want != "", tt.reason.Known())
		})
	}
}

func TestRejectionErrorUnwrapsWithErrorsAs(t *testing.T) {
	var err error = &RejectionError{Status: 150, Reason: RejectSelfMessage}

	var rejection *RejectionError
	require.True(t, errors.As(err, &rejection))
	assert.Equal(t, 150, rejection.Status)
	assert.True(t, rejection.Known())
	assert.Contains(t, err.Error(), "im_self")
}

func TestEventTypeTags(t *testing.T) {
	assert.Equal(t, "im", EventType(InstantMessage{}))
	assert.Equal(t, "orbit_user_signoff", EventType(PresenceLost{}))
	assert.Equal(t, "stalk", EventType(ProfileViewed{}))
	assert.Equal(t, "wink", EventType(UnknownEvent{Type: "wink"}))
	assert.Equal(t, "", EventType(nil))
}

func TestDeliveryStateTerminal(t *testing.T) {
	assert.False(t, DeliveryPending.Terminal())
	assert.False(t, DeliveryRetrying.Terminal())
	assert.True(t, DeliveryAcknowledged.Terminal())
	assert.True(t, DeliveryFailed.Terminal())
	assert.True(t, DeliveryAbandoned.Terminal())
	assert.Equal(t, "retrying", DeliveryRetrying.String())
}

func TestContactPersistable(t *testing.T) {
	assert.True(t, Contact{Name: "bob"}.Persistable())
	assert.False(t, Contact{Name: "bob", SuppressPersistence: true}.Persistable())
	assert.False(t, Contact{}.Persistable())
}

func TestSessionCookieSecretRef(t *testing.T) {
	assert.Equal(t, "okc://acc-1/session_cookie", SessionCookieSecretRef("acc-1"))
}
