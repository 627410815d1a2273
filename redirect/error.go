// Copyright 2021 The httpfn Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package redirect

import (
	"github.com/gogama/httpfn/request"
	"github.com/gogama/httpfn/transient"
)

// Error reports a transport failure while following a redirect. When
// following fails, no Result is returned, not even the one from before
// the failed hop.
type Error struct {
	// Request is the redirect request whose transfer failed.
	Request *request.Request
	// Hop is the one-based number of the redirect that failed.
	Hop int
	// Cause is the error returned by the Transport.
	Cause error
}

func (e *Error) Error() string {
	return "After redirect: " + e.Cause.Error()
}

func (e *Error) Unwrap() error { return e.Cause }

// Timeout reports whether the transport failed because of a timeout.
func (e *Error) Timeout() bool {
	return transient.Categorize(e.Cause) == transient.Timeout
}
