// Copyright 2021 The httpfn Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package redirect

import (
	"io"

	"github.com/gogama/httpfn/request"
)

const (
	nilStrategyMsg  = "httpfn/redirect: nil strategy"
	nilTransportMsg = "httpfn/redirect: nil transport"
	nilResultMsg    = "httpfn/redirect: nil result"

	// maxDrain is how much of a superseded response body is read to
	// allow its connection to be reused.
	maxDrain = 2 << 10
)

// A Transport performs a single HTTP transfer without following
// redirects. It returns an error only if no response was obtained;
// responses with any status, including 3XX and 5XX, are Results.
//
// httpfn.Client implements Transport.
type Transport interface {
	Transfer(r *request.Request) (*request.Result, error)
}

// TransportFunc is a function implementing the Transport interface.
type TransportFunc func(r *request.Request) (*request.Result, error)

// Transfer calls f(r).
func (f TransportFunc) Transfer(r *request.Request) (*request.Result, error) {
	return f(r)
}

// A Follower follows redirects starting from the Result r of an
// initial transfer, using t to transfer each redirect. It returns the
// last Result obtained, or an *Error if a transfer fails.
type Follower func(t Transport, r *request.Result) (*request.Result, error)

// Follow returns a Follower that follows up to max redirects using the
// Default strategy.
func Follow(max int) Follower {
	return FollowWith(Default)(max)
}

// FollowWith returns a function which, given a hop budget max, returns
// a Follower that follows redirects as directed by s.
//
// The Follower transfers at most max redirects. At each step it asks s
// for the next request. If that request is equivalent, in the sense of
// request.Equivalent, to any request transferred so far, or the budget
// is spent, the Follower returns the current Result without error. The
// Result may then still hold a redirect status.
//
// Before each redirect is transferred, the body of the Result it
// replaces is drained and closed. The body of the returned Result is
// left for the caller to read.
//
// FollowWith panics if s is nil.
func FollowWith(s Strategy) func(max int) Follower {
	if s == nil {
		panic(nilStrategyMsg)
	}
	return func(max int) Follower {
		return func(t Transport, r *request.Result) (*request.Result, error) {
			if t == nil {
				panic(nilTransportMsg)
			}
			if r == nil || r.Request == nil {
				panic(nilResultMsg)
			}
			var history []*request.Request
			for hop := 1; hop <= max; hop++ {
				history = append(history, r.Request)
				next := s(r)
				if seen(history, next) {
					break
				}
				discard(r)
				res, err := t.Transfer(next)
				if err != nil {
					return nil, &Error{Request: next, Hop: hop, Cause: err}
				}
				r = res
			}
			return r, nil
		}
	}
}

// seen reports whether next is equivalent to a request in history. The
// most recent requests are checked first, as a strategy that stops
// returns the latest one.
func seen(history []*request.Request, next *request.Request) bool {
	for i := len(history) - 1; i >= 0; i-- {
		if request.Equivalent(history[i], next) {
			return true
		}
	}
	return false
}

func discard(r *request.Result) {
	if r.Response == nil || r.Response.Body == nil {
		return
	}
	_, _ = io.CopyN(io.Discard, r.Response.Body, maxDrain)
	_ = r.Response.Body.Close()
}
