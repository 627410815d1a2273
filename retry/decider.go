// Copyright 2021 The httpfn Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package retry

import (
	"time"

	"github.com/gogama/httpfn/request"
	"github.com/gogama/httpfn/transient"
)

// A Decider decides whether the transfer that just finished should be
// attempted again.
//
// Implementations of Decider must be safe for concurrent use by
// multiple goroutines.
//
// Use the constructors Times, Before, StatusCode and Category, or the
// ready-made deciders TransientErr, Unsent and Idempotent, or write
// your own. DeciderFunc turns an ordinary function into a Decider and
// composes deciders with And and Or.
type Decider interface {
	Decide(x *request.Exchange) bool
}

// The DeciderFunc type is an adapter to allow the use of ordinary
// functions as retry deciders. It implements the Decider interface, and
// also provides the logical composition methods And and Or.
type DeciderFunc func(x *request.Exchange) bool

// DefaultTimes is the number of times DefaultPolicy will retry.
const DefaultTimes = 5

// DefaultDecider is a general-purpose retry decider. It allows up to
// DefaultTimes retries per hop.
//
// A request that never reached the server (Unsent) is always retried.
// An idempotent request is also retried on any other transient error,
// or on a response with status 429 (Too Many Requests), 502 (Bad
// Gateway), 503 (Service Unavailable) or 504 (Gateway Timeout).
var DefaultDecider = Times(DefaultTimes).
	And(Unsent.Or(Idempotent.And(StatusCode(429, 502, 503, 504).Or(TransientErr))))

// TransientErr is a decider that indicates a retry if the current
// error is transient according to transient.Categorize.
//
// TransientErr only looks at the error, so it always returns false if
// the transfer got a response.
var TransientErr DeciderFunc = transientErr

// Unsent is a decider that indicates a retry if the current error shows
// the request never reached the server: the connection was refused, or
// the host name could not be resolved for a temporary reason. Such a
// transfer is safe to repeat whatever the request method.
var Unsent = Category(transient.ConnRefused, transient.DNS)

// Idempotent is a decider that indicates a retry if the method of the
// current request is idempotent, as defined by RFC 7231 section 4.2.2:
// GET, HEAD, OPTIONS, TRACE, PUT or DELETE.
//
// Idempotent only looks at the request, so compose it with a decider
// that looks at the outcome.
var Idempotent DeciderFunc = idempotent

// Decide returns true if the transfer should be attempted again, and
// false otherwise.
func (f DeciderFunc) Decide(x *request.Exchange) bool {
	return f(x)
}

// And composes two retry deciders into a new decider which returns true
// if both sub-deciders return true, and false otherwise.
//
// Short-circuit logic is used, so g will not be evaluated if f returns
// false.
func (f DeciderFunc) And(g DeciderFunc) DeciderFunc {
	return func(x *request.Exchange) bool {
		return f(x) && g(x)
	}
}

// Or composes two retry deciders into a new decider which returns
// true if either of the two sub-deciders returns true, but false if
// they both return false.
//
// Short-circuit logic is used, so g will not be evaluated if f returns
// true.
func (f DeciderFunc) Or(g DeciderFunc) DeciderFunc {
	return func(x *request.Exchange) bool {
		return f(x) || g(x)
	}
}

// Times constructs a retry decider which allows up to n retries within
// each hop. The returned decider returns true while the attempt number
// x.Attempt is less than n.
func Times(n int) DeciderFunc {
	return func(x *request.Exchange) bool {
		return x.Attempt < n
	}
}

// Before constructs a retry decider allowing retries until d has
// elapsed since the exchange started. Time spent on earlier hops
// counts.
func Before(d time.Duration) DeciderFunc {
	return func(x *request.Exchange) bool {
		return x.Duration() < d
	}
}

// StatusCode constructs a retry decider which returns true if the
// transfer got a response whose status code is in ss.
func StatusCode(ss ...int) DeciderFunc {
	set := make(map[int]bool, len(ss))
	for _, s := range ss {
		set[s] = true
	}
	return func(x *request.Exchange) bool {
		return x.Result != nil && set[x.StatusCode()]
	}
}

// Category constructs a retry decider which returns true if the
// transfer failed with an error whose transient.Category is in cs.
func Category(cs ...transient.Category) DeciderFunc {
	cs2 := make([]transient.Category, len(cs))
	copy(cs2, cs)
	return func(x *request.Exchange) bool {
		if x.Err == nil {
			return false
		}
		c := transient.Categorize(x.Err)
		for i := range cs2 {
			if c == cs2[i] {
				return true
			}
		}
		return false
	}
}

func transientErr(x *request.Exchange) bool {
	return transient.Categorize(x.Err) != transient.Not
}

func idempotent(x *request.Exchange) bool {
	switch x.Request.Method {
	case "", "GET", "HEAD", "OPTIONS", "TRACE", "PUT", "DELETE":
		return true
	default:
		return false
	}
}
