// Copyright 2021 The httpfn Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package request

import (
	"context"
	"net/http"
	"time"

	"github.com/gogama/httpfn/transient"
)

// An Exchange represents the state of a single client call, from the
// initial transfer through every redirect hop to the final Result.
//
// The client creates an Exchange when a call starts and updates it as
// the call progresses: each time a hop is transferred, each time a
// response arrives, and when the call ends. Timeout policies and event
// handlers receive the Exchange. They may store their own data in it
// using SetValue, but should treat the exported fields as read-only.
type Exchange struct {
	// Request is the request of the current hop: about to be sent, being
	// sent, or already sent. It is never nil.
	Request *Request
	// Start is the time the exchange started. It is zero until the
	// exchange starts and constant thereafter.
	Start time.Time
	// End is the time the exchange ended. It is zero until the exchange
	// ends.
	End time.Time
	// Hop is the zero-based number of the current transfer. It is zero
	// for the initial transfer, one for the first redirect followed, and
	// so on.
	Hop int
	// Attempt is the zero-based number of the current attempt within
	// the hop. It is zero for the first attempt and increases each time
	// a retry policy repeats the transfer of the same request.
	Attempt int
	// Result is the result of the most recent transfer. It is nil before
	// the first response arrives, while a hop is underway, and if the
	// most recent transfer ended in error.
	Result *Result
	// Err is the error of the most recent transfer, if any. Once the
	// exchange has ended, Err is the error returned to the caller.
	Err error
	// data holds values stored by SetValue.
	data context.Context
}

// StatusCode returns the status code of the most recent response, or 0
// if there is none.
func (x *Exchange) StatusCode() int {
	return x.Result.StatusCode()
}

// Header returns the headers of the most recent response, or the nil
// header if there is none.
func (x *Exchange) Header() http.Header {
	return x.Result.Header()
}

// Duration returns the duration of the exchange.
//
// If the exchange has not yet started, the duration is zero. If it has
// ended, the duration is End minus Start. Otherwise it is the current
// time minus Start.
func (x *Exchange) Duration() time.Duration {
	if !x.Started() {
		return time.Duration(0)
	} else if !x.Ended() {
		return time.Since(x.Start)
	}
	return x.End.Sub(x.Start)
}

// Started indicates whether the exchange has started.
func (x *Exchange) Started() bool {
	return x.Start != (time.Time{})
}

// Ended indicates whether the exchange has ended.
func (x *Exchange) Ended() bool {
	return x.End != (time.Time{})
}

// Timeout indicates whether Err currently holds a timeout error.
func (x *Exchange) Timeout() bool {
	return transient.Categorize(x.Err) == transient.Timeout
}

// SetValue allows event handlers to store arbitrary data in the
// exchange.
//
// The key must follow the same rules as the key parameter in
// context.WithValue: it may not be nil, it must be comparable, and it
// should not be of a built-in type, to avoid collisions between
// different handlers.
func (x *Exchange) SetValue(key, value interface{}) {
	ctx := x.data
	if ctx == nil {
		ctx = context.Background()
	}
	x.data = context.WithValue(ctx, key, value)
}

// Value returns the data value associated with this exchange for key,
// or nil if there is no value associated with key.
func (x *Exchange) Value(key interface{}) interface{} {
	ctx := x.data
	if ctx == nil {
		return nil
	}
	return ctx.Value(key)
}
