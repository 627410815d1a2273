// Copyright 2021 The httpfn Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package decode

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gogama/httpfn/request"
)

// MaxErrorBody is the maximum number of body bytes Error copies into a
// StatusError.
var MaxErrorBody int64 = 64 << 10

// A StatusError describes a response whose status the caller did not
// accept. It is produced by Error.
type StatusError struct {
	// Method is the method of the request that produced the response.
	Method string
	// URL is the URL of the request that produced the response.
	URL string
	// StatusCode is the response status code.
	StatusCode int
	// Status is the response status line text, e.g. "404 Not Found".
	Status string
	// RetryAfter is parsed from the Retry-After response header, or zero
	// if the header is absent or invalid.
	RetryAfter time.Duration
	// Body holds up to MaxErrorBody bytes of the response body.
	Body []byte
}

func (e *StatusError) Error() string {
	var b strings.Builder
	if e.Method != "" {
		b.WriteString(e.Method)
		b.WriteString(" ")
	}
	if e.URL != "" {
		b.WriteString(e.URL)
		b.WriteString(": ")
	}
	status := e.Status
	if status == "" {
		status = strconv.Itoa(e.StatusCode)
		if t := http.StatusText(e.StatusCode); t != "" {
			status += " " + t
		}
	}
	b.WriteString(status)
	if body := strings.TrimSpace(string(e.Body)); body != "" {
		b.WriteString(": ")
		b.WriteString(body)
	}
	return b.String()
}

// Error consumes the response body of r and returns a *StatusError
// describing the response. The error is built even if reading the body
// fails, in which case Body holds whatever was read.
//
// If r has no response, Error returns ErrNoResponse.
func Error(r *request.Result) error {
	if r == nil || r.Response == nil {
		return ErrNoResponse
	}
	resp := r.Response
	e := &StatusError{
		StatusCode: resp.StatusCode,
		Status:     resp.Status,
		RetryAfter: retryAfter(resp.Header.Get("Retry-After"), time.Now()),
	}
	if r.Request != nil {
		e.Method = r.Request.Method
		e.URL = r.Request.URL
	}
	if resp.Body != nil {
		defer resp.Body.Close()
		if MaxErrorBody > 0 {
			e.Body, _ = io.ReadAll(io.LimitReader(resp.Body, MaxErrorBody))
		}
	}
	return e
}

// AsStatusError extracts a *StatusError from err's chain.
func AsStatusError(err error) (*StatusError, bool) {
	var se *StatusError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}

func retryAfter(v string, now time.Time) time.Duration {
	v = strings.TrimSpace(v)
	if v == "" {
		return 0
	}
	if secs, err := strconv.Atoi(v); err == nil {
		if secs < 0 {
			return 0
		}
		return time.Duration(secs) * time.Second
	}
	if t, err := http.ParseTime(v); err == nil {
		if d := t.Sub(now); d > 0 {
			return d
		}
	}
	return 0
}
