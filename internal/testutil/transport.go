package testutil

import (
	"context"
	"sync"

	"github.com/bnema/okc-cli/internal/ports"
)

// IssuedRequest is one call captured by FakeTransport.
type IssuedRequest struct {
	Ctx        context.Context
	Request    ports.Request
	onComplete func([]byte)
	done       bool
}

// FakeTransport records requests and lets the test decide when and how
// each one completes.
type FakeTransport struct {
	mu       sync.Mutex
	requests []*IssuedRequest
}

var _ ports.Transport = (*FakeTransport)(nil)

func (t *FakeTransport) Issue(ctx context.Context, req ports.Request, onComplete func(body []byte)) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.requests = append(t.requests, &IssuedRequest{Ctx: ctx, Request: req, onComplete: onComplete})
}

// Requests returns every request issued so far.
func (t *FakeTransport) Requests() []ports.Request {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([]ports.Request, 0, len(t.requests))
	for _, issued := range t.requests {
		out = append(out, issued.Request)
	}
	return out
}

// Outstanding counts requests that have not been completed.
func (t *FakeTransport) Outstanding() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	count := 0
	for _, issued := range t.requests {
		if !issued.done {
			count++
		}
	}
	return count
}

// Last returns the most recent request.
func (t *FakeTransport) Last() (ports.Request, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if len(t.requests) == 0 {
		return ports.Request{}, false
	}
	return t.requests[len(t.requests)-1].Request, true
}

// Complete finishes the oldest outstanding request matching method with
// body and reports whether one was found. The callback runs on the
// calling goroutine.
func (t *FakeTransport) Complete(method ports.Method, body []byte) bool {
	t.mu.Lock()
	var target *IssuedRequest
	for _, issued := range t.requests {
		if !issued.done && issued.Request.Method == method {
			target = issued
			break
		}
	}
	if target != nil {
		target.done = true
	}
	t.mu.Unlock()

	if target == nil {
		return false
	}
	target.onComplete(body)
	return true
}

// ContextOf returns the context passed with the oldest outstanding request
// of the given method.
func (t *FakeTransport) ContextOf(method ports.Method) (context.Context, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	for _, issued := range t.requests {
		if !issued.done && issued.Request.Method == method {
			return issued.Ctx, true
		}
	}
	return nil, false
}
