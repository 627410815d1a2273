// Copyright 2021 The httpfn Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package redirect

import (
	"github.com/gogama/httpfn/header"
	"github.com/gogama/httpfn/request"
	"github.com/gogama/httpfn/status"
	"github.com/gogama/httpfn/urls"
)

// A Strategy computes the next request to transfer from the result of
// the previous transfer. To stop redirecting, it returns r.Request.
//
// A Strategy must be a pure function: it may not modify r, and must be
// safe for concurrent use by multiple goroutines.
type Strategy func(r *request.Result) *request.Request

// Default follows the redirects that are safe to follow for any
// request: it follows 301, 302 and 307 only for GET requests, turns a
// 303 into a GET, follows 305, and stops on every other status.
var Default = ByStatus(map[int]Strategy{
	301: IfGetMethod,
	302: IfGetMethod,
	303: UsingGetMethod,
	305: AnyRequest,
	307: IfGetMethod,
})

// Aggressive follows 301, 302, 305 and 307 whatever the request method,
// turns a 303 into a GET, and answers a 304 by repeating a GET request
// without its conditional headers.
var Aggressive = ByStatus(map[int]Strategy{
	301: AnyRequest,
	302: AnyRequest,
	303: UsingGetMethod,
	304: RetryWithoutCondition,
	305: AnyRequest,
	307: AnyRequest,
})

// ByStatus returns a Strategy that dispatches on the exact status code
// of the result using pattern. Status codes not in pattern stop.
//
// ByStatus copies pattern. It panics if any Strategy in pattern is nil.
func ByStatus(pattern map[int]Strategy) Strategy {
	p := make(map[int]func(*request.Result) *request.Request, len(pattern))
	for code, s := range pattern {
		if s == nil {
			panic(nilStrategyMsg)
		}
		p[code] = s
	}
	return status.Match(Stop, p)
}

// Stop never redirects.
func Stop(r *request.Result) *request.Request {
	return r.Request
}

// AnyRequest redirects to the URL in the response's Location header,
// resolved against the request URL, whatever the request method. The
// method, body and headers are kept, except that Authorization and
// Cookie are dropped if the new URL is not of the same origin.
//
// Only the first Location value counts. If it is missing or empty, or
// does not resolve to a usable absolute URL, AnyRequest stops.
func AnyRequest(r *request.Result) *request.Request {
	loc := r.Header().Get("Location")
	if loc == "" {
		return r.Request
	}
	base, ok := urls.Parse(r.Request.URL)
	if !ok {
		return r.Request
	}
	u, ok := urls.Navigate(loc, base)
	if !ok {
		return r.Request
	}
	next := r.Request.WithURL(u)
	if !urls.SameOrigin(base, u) {
		next = next.WithHeader(header.OmitConfidential(next.Header))
	}
	return next
}

// IfGetMethod redirects as AnyRequest does if the request method is
// GET, and otherwise stops.
func IfGetMethod(r *request.Result) *request.Request {
	if r.Request.Method != "GET" {
		return r.Request
	}
	return AnyRequest(r)
}

// UsingGetMethod redirects as AnyRequest does, after changing the
// request to a GET without a body. If AnyRequest would stop, so does
// UsingGetMethod, returning the request unchanged.
func UsingGetMethod(r *request.Result) *request.Request {
	get := r.Request.WithMethod("GET").WithBody(nil)
	next := AnyRequest(&request.Result{Response: r.Response, Request: get})
	if next == get {
		return r.Request
	}
	return next
}

// RetryWithoutCondition repeats a GET request without its conditional
// headers (If-Match, If-Modified-Since, If-None-Match and
// If-Unmodified-Since), to get a full response in place of a 304 Not
// Modified. Requests with any other method are returned unchanged.
func RetryWithoutCondition(r *request.Result) *request.Request {
	if r.Request.Method != "GET" {
		return r.Request
	}
	return r.Request.WithHeader(header.OmitConditional(r.Request.Header))
}
