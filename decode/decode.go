// Copyright 2021 The httpfn Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package decode reads the body of a request.Result.
//
// A response body can be read once. Every function in this package
// other than Duplicate consumes the body and closes it, so decoding the
// same Result a second time fails with the error the body reports on a
// read after close. When a body must be decoded more than once, call
// Duplicate first and decode each copy once.
package decode

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"

	"github.com/gogama/httpfn/request"
	"golang.org/x/net/html/charset"
)

// ErrNoResponse is returned when decoding a Result that holds no
// response.
var ErrNoResponse = errors.New("httpfn/decode: no response")

// A Blob is binary response content together with its media type.
type Blob struct {
	// Type is the value of the response's Content-Type header, or the
	// empty string if the response has none.
	Type string
	// Data is the response body.
	Data []byte
}

// Buffer reads the whole response body and closes it.
func Buffer(r *request.Result) ([]byte, error) {
	if r == nil || r.Response == nil {
		return nil, ErrNoResponse
	}
	body := r.Response.Body
	if body == nil {
		return nil, nil
	}
	b, err := io.ReadAll(body)
	closeErr := body.Close()
	if err != nil {
		return nil, err
	}
	if closeErr != nil {
		return nil, closeErr
	}
	return b, nil
}

// Text reads the whole response body as a string. If the response's
// Content-Type names a charset other than UTF-8, the body is
// transcoded to UTF-8. An unknown charset is an error.
func Text(r *request.Result) (string, error) {
	b, err := Buffer(r)
	if err != nil {
		return "", err
	}
	label := charsetOf(r.Header().Get("Content-Type"))
	if label == "" {
		return string(b), nil
	}
	rd, err := charset.NewReaderLabel(label, bytes.NewReader(b))
	if err != nil {
		return "", err
	}
	utf8, err := io.ReadAll(rd)
	if err != nil {
		return "", err
	}
	return string(utf8), nil
}

// JSON decodes the response body as a single JSON value into v, which
// must be a non-nil pointer. Content after the first JSON value, other
// than white space, is an error.
func JSON(r *request.Result, v interface{}) error {
	if r == nil || r.Response == nil {
		return ErrNoResponse
	}
	if r.Response.Body == nil {
		return io.ErrUnexpectedEOF
	}
	defer r.Response.Body.Close()
	dec := json.NewDecoder(r.Response.Body)
	if err := dec.Decode(v); err != nil {
		return err
	}
	var extra interface{}
	if err := dec.Decode(&extra); !errors.Is(err, io.EOF) {
		if err != nil {
			return err
		}
		return errors.New("httpfn/decode: unexpected extra JSON value in response body")
	}
	return nil
}

// ReadBlob reads the whole response body into a Blob.
func ReadBlob(r *request.Result) (*Blob, error) {
	b, err := Buffer(r)
	if err != nil {
		return nil, err
	}
	return &Blob{
		Type: r.Header().Get("Content-Type"),
		Data: b,
	}, nil
}

// Duplicate reads and closes the body of r, returning two Results that
// share r's request and response metadata but each have their own
// unread copy of the body. The original Result must not be decoded
// again.
func Duplicate(r *request.Result) (*request.Result, *request.Result, error) {
	b, err := Buffer(r)
	if err != nil {
		return nil, nil, err
	}
	return withBody(r, b), withBody(r, b), nil
}

func withBody(r *request.Result, b []byte) *request.Result {
	resp := new(http.Response)
	*resp = *r.Response
	resp.Body = io.NopCloser(bytes.NewReader(b))
	return &request.Result{
		Response: resp,
		Request:  r.Request,
	}
}

func charsetOf(contentType string) string {
	if contentType == "" {
		return ""
	}
	_, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		return ""
	}
	cs := params["charset"]
	switch cs {
	case "", "utf-8", "UTF-8", "utf8":
		return ""
	}
	return cs
}
