package ports

import "context"

type Method string

const (
	MethodGet  Method = "GET"
	MethodPost Method = "POST"
)

type Request struct {
	Method Method
	// Host overrides the account's service host, e.g. for the avatar CDN.
	Host string
	Path string
	// Body is a form-encoded payload for POST requests.
	Body string
	// LongPoll marks requests the server may hold open.
	LongPoll bool
}

// Transport issues requests asynchronously. onComplete is called exactly
// once, from any goroutine, with the response body. A nil or empty body
// means the request failed; no further detail is reported.
type Transport interface {
	Issue(ctx context.Context, req Request, onComplete func(body []byte))
}
