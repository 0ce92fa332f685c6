// Package protocol encodes requests for and decodes responses from the
// instant-events endpoint.
package protocol

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/bnema/okc-cli/internal/domain"
	"github.com/bnema/okc-cli/internal/markup"
)

// Ack is the server reply to a send.
type Ack struct {
	Status int
	Reason domain.RejectReason
}

// Accepted reports whether the server took the message. Any status below
// 100 counts as accepted, including codes that carry a reason string.
func (a Ack) Accepted() bool {
	return a.Status < 100
}

// DecodeBatch parses a poll response. Bytes before the first '{' and after
// the last '}' are ignored. Only a missing object or invalid JSON inside it
// fails the whole batch; individual bad entries are skipped and counted.
func DecodeBatch(data []byte) (domain.Batch, error) {
	fields, err := decodeObject(data)
	if err != nil {
		return domain.Batch{}, err
	}

	var batch domain.Batch

	if raw, ok := fields["people"]; ok {
		var entries []json.RawMessage
		if json.Unmarshal(raw, &entries) == nil {
			for _, entry := range entries {
				person, ok := decodePerson(entry)
				if !ok {
					batch.Skipped++
					continue
				}
				batch.People = append(batch.People, person)
			}
		}
	}

	if raw, ok := fields["events"]; ok {
		var entries []json.RawMessage
		if json.Unmarshal(raw, &entries) == nil {
			for _, entry := range entries {
				event, ok := decodeEvent(entry)
				if !ok {
					batch.Skipped++
					continue
				}
				batch.Events = append(batch.Events, event)
			}
		}
	}

	if n, ok := intField(fields, "num_unread"); ok {
		count := int(n)
		batch.UnreadCount = &count
	}
	if n, ok := intField(fields, "server_seqid"); ok {
		batch.SequenceID = &n
	}
	if n, ok := intField(fields, "server_gmt"); ok {
		batch.ServerTime = &n
	}

	return batch, nil
}

// DecodeAck parses a send reply. A reply without a numeric status is
// malformed.
func DecodeAck(data []byte) (Ack, error) {
	fields, err := decodeObject(data)
	if err != nil {
		return Ack{}, err
	}

	status, ok := intField(fields, "status")
	if !ok {
		return Ack{}, fmt.Errorf("decode ack: %w: missing status", domain.ErrMalformedPayload)
	}

	return Ack{
		Status: int(status),
		Reason: domain.RejectReason(stringField(fields, "status_str")),
	}, nil
}

func decodeObject(data []byte) (map[string]json.RawMessage, error) {
	start := bytes.IndexByte(data, '{')
	end := bytes.LastIndexByte(data, '}')
	if start < 0 || end < start {
		return nil, fmt.Errorf("decode payload: %w: no json object", domain.ErrMalformedPayload)
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data[start:end+1], &fields); err != nil {
		return nil, fmt.Errorf("decode payload: %w: %v", domain.ErrMalformedPayload, err)
	}

	return fields, nil
}

func decodePerson(raw json.RawMessage) (domain.PersonSnapshot, bool) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return domain.PersonSnapshot{}, false
	}

	name := stringField(fields, "screenname")
	if name == "" {
		return domain.PersonSnapshot{}, false
	}

	return domain.PersonSnapshot{
		Name:      name,
		Thumbnail: stringField(fields, "thumbnail"),
		Online:    truthyField(fields, "im_ok"),
	}, true
}

func decodeEvent(raw json.RawMessage) (domain.Event, bool) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, false
	}

	eventType := stringField(fields, "type")
	switch eventType {
	case domain.EventTypeInstantMessage:
		return decodeInstantMessage(fields)
	case domain.EventTypePresenceLost:
		peer := stringField(fields, "from")
		if peer == "" {
			return nil, false
		}
		return domain.PresenceLost{Peer: peer}, true
	case domain.EventTypeProfileViewed:
		peer := stringField(fields, "from")
		if peer == "" {
			return nil, false
		}
		return domain.ProfileViewed{Peer: peer}, true
	default:
		return domain.UnknownEvent{Type: eventType}, true
	}
}

func decodeInstantMessage(fields map[string]json.RawMessage) (domain.Event, bool) {
	msg := domain.InstantMessage{}
	if _, ok := fields["to"]; ok {
		msg.Direction = domain.DirectionSent
		msg.Peer = stringField(fields, "to")
	} else if _, ok := fields["from"]; ok {
		msg.Direction = domain.DirectionReceived
		msg.Peer = stringField(fields, "from")
	}
	if msg.Peer == "" {
		return nil, false
	}

	msg.Body = markup.StripHTML(messageText(fields["contents"]))

	return msg, true
}

// messageText unwraps contents that are themselves a JSON document carrying
// a "text" member. Anything that does not parse that way is used verbatim.
func messageText(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}

	var contents string
	if err := json.Unmarshal(raw, &contents); err != nil {
		// Some servers inline the object instead of quoting it.
		if text, ok := textMember(raw); ok {
			return text
		}
		return ""
	}

	if text, ok := textMember([]byte(contents)); ok {
		return text
	}

	return contents
}

func textMember(data []byte) (string, bool) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return "", false
	}

	var nested map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &nested); err != nil {
		return "", false
	}
	if _, ok := nested["text"]; !ok {
		return "", false
	}

	return stringField(nested, "text"), true
}

func stringField(fields map[string]json.RawMessage, key string) string {
	raw, ok := fields[key]
	if !ok {
		return ""
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}

	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}

	return ""
}

func intField(fields map[string]json.RawMessage, key string) (int64, bool) {
	raw, ok := fields[key]
	if !ok {
		return 0, false
	}

	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return 0, false
		}
		n = json.Number(strings.TrimSpace(s))
	}

	if v, err := n.Int64(); err == nil {
		return v, true
	}
	if f, err := strconv.ParseFloat(n.String(), 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
		return int64(f), true
	}

	return 0, false
}

func truthyField(fields map[string]json.RawMessage, key string) bool {
	raw, ok := fields[key]
	if !ok {
		return false
	}

	var b bool
	if err := json.Unmarshal(raw, &b); err == nil {
		return b
	}

	n, ok := intField(fields, key)
	return ok && n != 0
}
