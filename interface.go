// Copyright 2021 The httpfn Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package httpfn

import (
	"net/url"

	"github.com/gogama/httpfn/request"
)

// Doer is the interface that wraps the basic Do method.
//
// Do sends a request, follows redirects, and returns the final result
// (and error, if any). Client implements the Doer interface, and any
// other Doer implementation must behave substantially the same as
// Client.Do.
//
// Any Doer can be converted into an Executor via the Inflate function.
type Doer interface {
	Do(r *request.Request) (*request.Result, error)
}

// Transferer is the interface that wraps the basic Transfer method.
//
// Transfer sends a request and returns the result without following
// redirects. Client implements the Transferer interface. Every
// Transferer is also a redirect.Transport.
type Transferer interface {
	Transfer(r *request.Request) (*request.Result, error)
}

// Getter is the interface that wraps the basic Get method.
//
// Get creates a request to issue a GET to the specified URL, does it,
// and returns the final result (and error, if any). Client implements
// the Getter interface, and any other Getter implementation must behave
// substantially the same as Client.Get.
//
// Any Doer can be used to emulate a Getter via the Get function.
type Getter interface {
	Get(url string) (*request.Result, error)
}

// Header is the interface that wraps the basic Head method.
//
// Head creates a request to issue a HEAD to the specified URL, does it,
// and returns the final result (and error, if any). Client implements
// the Header interface, and any other Header implementation must behave
// substantially the same as Client.Head.
//
// Any Doer can be used to emulate a Header via the Head function.
type Header interface {
	Head(url string) (*request.Result, error)
}

// Poster is the interface that wraps the basic Post method.
//
// Post creates a request to issue a POST to the specified URL, does
// it, and returns the final result (and error, if any). Client
// implements the Poster interface, and any other Poster implementation
// must behave substantially the same as Client.Post.
//
// The body parameter may be nil for an empty body, or may be any of the
// types supported by request.New and request.BodyBytes, namely: string;
// []byte; url.Values; io.Reader; and io.ReadCloser.
//
// Any Doer can be used to emulate a Poster via the Post function.
type Poster interface {
	Post(url, contentType string, body interface{}) (*request.Result, error)
}

// FormPoster is the interface that wraps the basic PostForm method.
//
// PostForm creates a request to issue a form POST to the specified URL,
// does it, and returns the final result (and error, if any). Client
// implements the FormPoster interface, and any other FormPoster
// implementation must behave substantially the same as
// Client.PostForm.
//
// The request body is set to the URL-encoded keys and values from data,
// and the content type is set to application/x-www-form-urlencoded.
//
// Any Doer can be used to emulate a FormPoster via the PostForm
// function.
type FormPoster interface {
	PostForm(url string, data url.Values) (*request.Result, error)
}

// JSONPoster is the interface that wraps the basic PostJSON method.
//
// PostJSON creates a request to issue a POST of the JSON encoding of v
// to the specified URL, does it, and returns the final result (and
// error, if any).
//
// Any Doer can be used to emulate a JSONPoster via the PostJSON
// function.
type JSONPoster interface {
	PostJSON(url string, v interface{}) (*request.Result, error)
}

// IdleCloser is the interface that wraps the basic CloseIdleConnections
// method.
//
// If the underlying implementation supports it, CloseIdleConnections
// closes any idle which were previously connected from previous
// requests but are now sitting idle in a "keep-alive" state. It does
// not interrupt any connections currently in use.
//
// If the underlying implementation does not support this ability,
// CloseIdleConnections does nothing.
type IdleCloser interface {
	CloseIdleConnections()
}

// Executor is the interface that groups the basic Do, Get, Head, Post,
// PostForm, PostJSON, and CloseIdleConnections methods.
//
// Any Doer can be converted into an Executor via the Inflate function.
type Executor interface {
	Doer
	Getter
	Header
	Poster
	FormPoster
	JSONPoster
	IdleCloser
}

// Get uses the specified Doer to issue a GET to the specified URL,
// using the same policies as d.Do.
//
// To make a request with custom headers, use request.New and d.Do.
func Get(d Doer, url string) (*request.Result, error) {
	r, err := request.New("GET", url, nil)
	if err != nil {
		return nil, err
	}
	return d.Do(r)
}

// Head uses the specified Doer to issue a HEAD to the specified URL,
// using the same policies as d.Do.
//
// To make a request with custom headers, use request.New and d.Do.
func Head(d Doer, url string) (*request.Result, error) {
	r, err := request.New("HEAD", url, nil)
	if err != nil {
		return nil, err
	}
	return d.Do(r)
}

// Post uses the specified Doer to issue a POST to the specified URL,
// using the same policies as d.Do.
//
// The body parameter may be nil for an empty body, or may be any of the
// types supported by Client.Post, request.New, and request.BodyBytes,
// namely: string; []byte; url.Values; io.Reader; and io.ReadCloser.
//
// To make a request with custom headers, use request.New and d.Do.
func Post(d Doer, url, contentType string, body interface{}) (*request.Result, error) {
	r, err := request.New("POST", url, body)
	if err != nil {
		return nil, err
	}
	return d.Do(r.SetHeader("Content-Type", contentType))
}

// PostForm uses the specified Doer to issue a POST to the specified URL,
// with data's keys and values URL-encoded as the request body.
//
// The Content-Type header is set to application/x-www-form-urlencoded.
// To set other headers, use request.New and d.Do.
func PostForm(d Doer, url string, data url.Values) (*request.Result, error) {
	return Post(d, url, "application/x-www-form-urlencoded", data)
}

// PostJSON uses the specified Doer to issue a POST to the specified
// URL, with the JSON encoding of v as the request body.
//
// The Content-Type header is set to application/json. To set other
// headers, use request.New, Request.WithJSON and d.Do.
func PostJSON(d Doer, url string, v interface{}) (*request.Result, error) {
	r, err := request.New("POST", url, nil)
	if err != nil {
		return nil, err
	}
	r, err = r.WithJSON(v)
	if err != nil {
		return nil, err
	}
	return d.Do(r)
}

// Inflate converts any non-nil Doer into an Executor. This may be
// helpful for interop across library boundaries, i.e. if code that only
// has access to a Doer needs to call a function that requires an
// Executor.
func Inflate(d Doer) Executor {
	if d == nil {
		panic("httpfn: nil doer")
	}

	if e, ok := d.(Executor); ok {
		return e
	}

	return inflated{d}
}

type inflated struct {
	doer Doer
}

func (i inflated) Do(r *request.Request) (*request.Result, error) {
	return i.doer.Do(r)
}

func (i inflated) Get(url string) (*request.Result, error) {
	return Get(i.doer, url)
}

func (i inflated) Head(url string) (*request.Result, error) {
	return Head(i.doer, url)
}

func (i inflated) Post(url, contentType string, body interface{}) (*request.Result, error) {
	return Post(i.doer, url, contentType, body)
}

func (i inflated) PostForm(url string, data url.Values) (*request.Result, error) {
	return PostForm(i.doer, url, data)
}

func (i inflated) PostJSON(url string, v interface{}) (*request.Result, error) {
	return PostJSON(i.doer, url, v)
}

func (i inflated) CloseIdleConnections() {
	if ic, ok := i.doer.(IdleCloser); ok {
		ic.CloseIdleConnections()
	}
}
