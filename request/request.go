// Copyright 2021 The httpfn Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package request

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	urlpkg "net/url"
	"strings"

	"github.com/gogama/httpfn/header"
	"github.com/gogama/httpfn/urls"
	"golang.org/x/net/http/httpguts"
)

const (
	nilCtxMsg = "httpfn/request: nil context"
)

// A RedirectMode tells a transport how to treat redirect responses.
type RedirectMode int

const (
	// RedirectManual means 3XX responses are returned to the caller
	// unfollowed, leaving redirect decisions to package redirect.
	RedirectManual RedirectMode = iota
	// RedirectFollow means the transport itself may follow redirects.
	RedirectFollow
)

// String returns "manual" or "follow".
func (m RedirectMode) String() string {
	if m == RedirectFollow {
		return "follow"
	}
	return "manual"
}

// A Request describes one HTTP request.
//
// Treat every field as read-only. To derive a different request, use the
// builder methods (WithMethod, SetHeader, WithBody, and so on), each of
// which returns a new Request.
type Request struct {
	// Method specifies the HTTP method (GET, POST, PUT, etc.).
	Method string
	// URL is the absolute URL to send the request to.
	URL string
	// Header contains the request header fields. Requests derived from
	// one another may share the same header set, so it must not be
	// modified.
	Header http.Header
	// Body is the pre-buffered request body. A nil or empty body means
	// no body is sent.
	Body []byte
	// Referrer is the URL of the resource the request originated from.
	// If non-empty, it is sent as the Referer header unless Header
	// already has one.
	Referrer string
	// Redirect tells the transport how to treat redirect responses.
	// Requests made by New and the builders use RedirectManual.
	Redirect RedirectMode
	// ctx allows the exchange to be cancelled. It should only be
	// modified by copying the whole Request using WithContext.
	ctx context.Context
}

// New wraps NewWithContext using the background context.
//
// Parameter body may be nil (empty body), or it may be a string,
// []byte, io.Reader, or io.ReadCloser. If body is an io.Reader, it is
// read to the end and buffered into a []byte. If body is an
// io.ReadCloser, it is closed after buffering.
func New(method, url string, body interface{}) (*Request, error) {
	return NewWithContext(context.Background(), method, url, body)
}

// NewWithContext returns a new Request given a method, absolute URL,
// and optional body. An empty method means GET.
//
// Parameter body may be nil (empty body), or it may be a string,
// []byte, io.Reader, or io.ReadCloser. If body is an io.Reader, it is
// read to the end and buffered into a []byte. If body is an
// io.ReadCloser, it is closed after buffering.
func NewWithContext(ctx context.Context, method, url string, body interface{}) (*Request, error) {
	if ctx == nil {
		return nil, errors.New(nilCtxMsg)
	}
	if method == "" {
		method = "GET"
	}
	if !ValidMethod(method) {
		return nil, fmt.Errorf("httpfn/request: invalid method %q", method)
	}
	u, err := urls.ParseStrict(url)
	if err != nil {
		return nil, err
	}
	b, err := BodyBytes(body)
	if err != nil {
		return nil, err
	}
	return &Request{
		ctx:      ctx,
		Method:   method,
		URL:      u.String(),
		Header:   make(http.Header),
		Body:     b,
		Redirect: RedirectManual,
	}, nil
}

// ValidMethod reports whether method is a valid HTTP method token.
func ValidMethod(method string) bool {
	return method != "" && strings.IndexFunc(method, isNotToken) == -1
}

func isNotToken(r rune) bool {
	return !httpguts.IsTokenRune(r)
}

// Context returns the request's context. To change the context, use
// WithContext.
//
// The returned context is always non-nil; it defaults to the
// background context.
func (r *Request) Context() context.Context {
	if r.ctx != nil {
		return r.ctx
	}
	return context.Background()
}

// ParsedURL returns r's URL as a *url.URL. It panics if r.URL is not a
// valid absolute URL, which cannot happen for a Request made by New or
// a builder method.
func (r *Request) ParsedURL() *urlpkg.URL {
	return urls.MustParse(r.URL)
}

// WithContext returns a copy of r with its context changed to ctx,
// which must be non-nil.
func (r *Request) WithContext(ctx context.Context) *Request {
	if ctx == nil {
		panic(nilCtxMsg)
	}
	r2 := r.clone()
	r2.ctx = ctx
	return r2
}

// WithMethod returns a copy of r with the given method. An empty method
// means GET.
func (r *Request) WithMethod(method string) *Request {
	if method == "" {
		method = "GET"
	}
	r2 := r.clone()
	r2.Method = method
	return r2
}

// WithURL returns a copy of r pointed at u.
func (r *Request) WithURL(u *urlpkg.URL) *Request {
	r2 := r.clone()
	r2.URL = u.String()
	return r2
}

// WithHeader returns a copy of r whose header set is replaced by h.
func (r *Request) WithHeader(h http.Header) *Request {
	r2 := r.clone()
	r2.Header = header.Clone(h)
	return r2
}

// MergeHeader returns a copy of r in which every header in h overrides
// the same-named header of r. Other headers of r are kept.
func (r *Request) MergeHeader(h http.Header) *Request {
	h2 := r.Header
	for k := range h {
		v, _ := header.Lookup(h, k)
		h2 = header.Set(h2, k, v)
	}
	return r.WithHeader(h2)
}

// SetHeader returns a copy of r with the named header set to value.
func (r *Request) SetHeader(name, value string) *Request {
	return r.WithHeader(header.Set(r.Header, name, value))
}

// AppendHeader returns a copy of r with value appended to the named
// header, as header.Append does.
func (r *Request) AppendHeader(name, value string) *Request {
	return r.WithHeader(header.Append(r.Header, name, value))
}

// UnsetHeader returns a copy of r without the named header.
func (r *Request) UnsetHeader(name string) *Request {
	return r.WithHeader(header.Unset(r.Header, name))
}

// WithBody returns a copy of r with the given body. A nil body means no
// body is sent.
func (r *Request) WithBody(b []byte) *Request {
	r2 := r.clone()
	r2.Body = b
	return r2
}

// WithJSON returns a copy of r whose body is the JSON encoding of v and
// whose Content-Type is application/json.
func (r *Request) WithJSON(v interface{}) (*Request, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return r.WithBody(b).SetHeader("Content-Type", "application/json"), nil
}

// WithReferrer returns a copy of r with the given referrer.
func (r *Request) WithReferrer(referrer string) *Request {
	r2 := r.clone()
	r2.Referrer = referrer
	return r2
}

// WithRedirect returns a copy of r with the given redirect mode.
func (r *Request) WithRedirect(mode RedirectMode) *Request {
	r2 := r.clone()
	r2.Redirect = mode
	return r2
}

// SetBasicAuth returns a copy of r whose Authorization header uses HTTP
// Basic Authentication with the provided username and password.
//
// With HTTP Basic Authentication the provided username and password
// are not encrypted.
func (r *Request) SetBasicAuth(username, password string) *Request {
	return r.SetHeader("Authorization", "Basic "+basicAuth(username, password))
}

// ToHTTP creates a net/http request corresponding to r. The context of
// the new request is set to ctx, which may not be nil.
//
// The http.Request gets its own copy of the header set, so changes made
// to it, for example by request signing, do not reach r.
func (r *Request) ToHTTP(ctx context.Context) (*http.Request, error) {
	var body io.Reader
	if len(r.Body) > 0 {
		body = bytes.NewReader(r.Body)
	}
	req, err := http.NewRequestWithContext(ctx, r.Method, r.URL, body)
	if err != nil {
		return nil, err
	}
	req.Header = header.Clone(r.Header)
	if _, ok := header.Lookup(req.Header, "Referer"); !ok && r.Referrer != "" {
		req.Header.Set("Referer", r.Referrer)
	}
	return req, nil
}

// Equivalent reports whether a and b describe the same request for the
// purpose of redirect loop detection: the same method, URL, referrer,
// and header set. Bodies, redirect modes and contexts are not compared.
func Equivalent(a, b *Request) bool {
	if a == b {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	return a.Method == b.Method &&
		a.URL == b.URL &&
		a.Referrer == b.Referrer &&
		header.Equal(a.Header, b.Header)
}

func (r *Request) clone() *Request {
	r2 := new(Request)
	*r2 = *r
	return r2
}

// basicAuth is lifted verbatim from net/http/client.go.
//
// See 2 (end of page 4) https://www.ietf.org/rfc/rfc2617.txt
// "To receive authorization, the client sends the userid and password,
// separated by a single colon (":") character, within a base64
// encoded string in the credentials."
// It is not meant to be urlencoded.
func basicAuth(username, password string) string {
	auth := username + ":" + password
	return base64.StdEncoding.EncodeToString([]byte(auth))
}
