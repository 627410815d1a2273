// Copyright 2021 The httpfn Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package request

import "net/http"

// A Result pairs an HTTP response with the Request that produced it.
//
// The response body can be read only once. Use package decode to read
// it, and decode.Duplicate if it must be read twice.
type Result struct {
	// Response is the HTTP response received.
	Response *http.Response
	// Request is the request that was sent to obtain Response.
	Request *Request
}

// StatusCode returns the status code of the response. If there is no
// response, 0 is returned.
func (r *Result) StatusCode() int {
	if r == nil || r.Response == nil {
		return 0
	}
	return r.Response.StatusCode
}

// Header returns the response headers. If there is no response, the
// nil header is returned, which is safe for read-only use.
func (r *Result) Header() http.Header {
	if r == nil || r.Response == nil {
		var nilHeader http.Header
		return nilHeader
	}
	return r.Response.Header
}
