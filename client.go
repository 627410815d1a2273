// Copyright 2021 The httpfn Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package httpfn

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gogama/httpfn/redirect"
	"github.com/gogama/httpfn/request"
	"github.com/gogama/httpfn/retry"
	"github.com/gogama/httpfn/timeout"
	"golang.org/x/net/http/httpguts"
)

// DefaultMaxRedirects is the number of redirects a Client follows when
// its MaxRedirects field is zero.
const DefaultMaxRedirects = 20

// An HTTPDoer implements a Do method in the same manner as the GoLang
// standard library http.Client from the net/http package.
type HTTPDoer interface {
	// Do sends an HTTP request and returns an HTTP response following
	// policy (such as redirects, cookies, auth) configured on the
	// HTTPDoer.
	//
	// The Do method must follow the contract documented on the GoLang
	// standard library http.Client from the net/http package.
	Do(r *http.Request) (*http.Response, error)
}

var emptyHandlers = HandlerGroup{}

// manualDoer is the HTTPDoer used when a Client has none. It returns
// redirect responses as they are, leaving redirects to the Client.
var manualDoer = &http.Client{
	CheckRedirect: func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	},
}

// A Client is an HTTP client that follows redirects under its own
// control, using a redirect.Strategy, rather than leaving them to the
// underlying HTTPDoer. Its zero value is a valid configuration.
//
// The zero value client uses an http.Client that does not follow
// redirects as the HTTPDoer, timeout.DefaultPolicy as the timeout
// policy, retry.Never as the retry policy, redirect.Default as the
// redirect strategy, follows at most DefaultMaxRedirects redirects, and
// has an empty handler group (no event handlers/plug-ins).
//
// Client's HTTPDoer typically has an internal state (cached TCP
// connections) so Client instances should be reused instead of created
// as needed. Client is safe for concurrent use by multiple goroutines.
//
// A Client is higher-level than an HTTPDoer. The HTTPDoer is
// responsible for all details of sending one HTTP request and receiving
// its response, while Client builds on top of it:
//
// • Client follows redirects one hop at a time, asking its redirect
// strategy for each next request, stopping on a redirect loop or when
// the redirect budget is spent;
//
// • Client drops credentials when a redirect leaves the origin of the
// request, as directed by the redirect strategy;
//
// • Client sets a timeout on each hop using a customizable timeout
// policy;
//
// • Client optionally repeats a failed transfer within a hop, as
// directed by a retry policy;
//
// • Client invokes user-provided handler functions at designated plug-in
// points within the exchange, allowing new features, such as logging,
// to be mixed in from outside; and
//
// • Client implements the httpfn.Executor and redirect.Transport
// interfaces.
//
// If a custom HTTPDoer follows redirects itself, the Client only sees
// the final response of each transfer, and its redirect strategy has
// nothing to do. An *http.Client used as HTTPDoer should therefore have
// a CheckRedirect function that returns http.ErrUseLastResponse.
//
// Unlike http.Client, Client consumes a request.Request, which is an
// immutable value that can be derived and compared, and returns a
// request.Result, which pairs the final response with the request that
// produced it. As with http.Client, the caller must close the response
// body.
type Client struct {
	// HTTPDoer specifies the mechanics of sending HTTP requests and
	// receiving responses.
	//
	// If HTTPDoer is nil, an http.Client is used which does not follow
	// redirects. For requests whose Redirect mode is
	// request.RedirectFollow, http.DefaultClient is used instead.
	HTTPDoer HTTPDoer
	// TimeoutPolicy specifies how to set timeouts on individual
	// transfers.
	//
	// If TimeoutPolicy is nil, timeout.DefaultPolicy is used.
	TimeoutPolicy timeout.Policy
	// RetryPolicy decides whether to repeat a transfer that failed or
	// got an unwanted response, and how long to wait first. Retries
	// happen within a hop: each redirect hop starts again at attempt
	// zero, and a hop whose last attempt fails ends the exchange as if
	// there were no retries.
	//
	// If RetryPolicy is nil, retry.Never is used.
	RetryPolicy retry.Policy
	// RedirectStrategy decides which redirects to follow and how.
	//
	// If RedirectStrategy is nil, redirect.Default is used.
	RedirectStrategy redirect.Strategy
	// MaxRedirects is the maximum number of redirects followed by Do.
	//
	// If MaxRedirects is zero, DefaultMaxRedirects is used. If it is
	// negative, Do follows no redirects.
	MaxRedirects int
	// Handlers allows custom handler chains to be invoked when
	// designated events occur during an exchange.
	//
	// If Handlers is nil, no custom handlers will be run.
	Handlers *HandlerGroup
}

// Do sends an HTTP request, follows redirects as directed by the
// client's redirect strategy, and returns the final result.
//
// A non-2XX status code in the final result does not cause an error.
// Nor does running out of redirect budget, or a redirect the strategy
// declines to follow: in those cases the final result holds the 3XX
// response, and the caller decides what it means, for example with
// package status.
//
// An error is returned only if a transfer fails to get a response. If
// the initial transfer fails, the error is a *url.Error. If a redirect
// transfer fails, the error is a *redirect.Error wrapping the
// *url.Error, and no result is returned. A transfer only fails once
// the retry policy declines to repeat it.
//
// On success, the caller must close the body of the returned response.
// The timeout of the final hop lasts until the body is closed.
//
// For simple use cases, the Get, Head, Post, PostForm and PostJSON
// methods may prove easier to use than Do.
func (c *Client) Do(r *request.Request) (*request.Result, error) {
	return c.exchange(r, redirect.FollowWith(c.strategy())(c.maxRedirects()))
}

// Transfer sends an HTTP request and returns the result without
// following any redirect. It is the single-hop transport underlying Do,
// and makes Client usable as a redirect.Transport.
//
// A response of any status is a result. An error, always a *url.Error,
// is returned only if no response was obtained.
func (c *Client) Transfer(r *request.Request) (*request.Result, error) {
	return c.exchange(r, nil)
}

func (c *Client) exchange(r *request.Request, follow redirect.Follower) (*request.Result, error) {
	if r == nil {
		panic("httpfn: nil request")
	}

	x := &request.Exchange{
		Request: r,
	}

	handlers := c.Handlers
	if handlers == nil {
		handlers = &emptyHandlers
	}
	handlers.run(BeforeExchangeStart, x)
	if x.Request == nil {
		panic("httpfn: request deleted from exchange")
	}
	x.Start = time.Now()

	res, err := c.transfer(x, handlers)
	if err == nil && follow != nil {
		t := redirect.TransportFunc(func(next *request.Request) (*request.Result, error) {
			x.Hop++
			x.Request = next
			handlers.run(BeforeRedirect, x)
			return c.transfer(x, handlers)
		})
		res, err = follow(t, res)
		x.Result, x.Err = res, err
	}

	x.End = time.Now()
	handlers.run(AfterExchangeEnd, x)
	return x.Result, x.Err
}

// transfer sends the current request of x, repeating the attempt for as
// long as the retry policy says to.
func (c *Client) transfer(x *request.Exchange, handlers *HandlerGroup) (*request.Result, error) {
	policy := c.retryPolicy()
	for x.Attempt = 0; ; x.Attempt++ {
		c.attempt(x, handlers)
		if !policy.Decide(x) {
			return x.Result, x.Err
		}

		wait := policy.Wait(x)
		if x.Result != nil {
			drain(x.Result.Response)
		}
		if err := sleep(x.Request.Context(), wait); err != nil {
			x.Result, x.Err = nil, urlErrorWrap(x.Request, err)
			return nil, x.Err
		}
	}
}

func (c *Client) attempt(x *request.Exchange, handlers *HandlerGroup) {
	x.Result, x.Err = nil, nil
	handlers.run(BeforeTransfer, x)
	r := x.Request
	if r == nil {
		panic("httpfn: request deleted from exchange")
	}

	ctx, cancel := context.WithTimeout(r.Context(), c.timeoutPolicy().Timeout(x))
	var resp *http.Response
	done := false
	defer func() {
		// Only reached with done unset if the doer or a handler panics.
		if done {
			return
		} else if resp != nil {
			_ = resp.Body.Close()
		} else {
			cancel()
		}
	}()

	var err error
	resp, err = c.send(ctx, r)
	if err != nil {
		cancel()
		x.Err = urlErrorWrap(r, err)
		if x.Timeout() {
			handlers.run(AfterTransferTimeout, x)
		}
	} else {
		resp.Body = &cancelBody{ReadCloser: resp.Body, cancel: cancel}
		x.Result = &request.Result{
			Response: resp,
			Request:  r,
		}
	}

	handlers.run(AfterTransfer, x)
	done = true
}

func (c *Client) send(ctx context.Context, r *request.Request) (*http.Response, error) {
	if err := validate(r); err != nil {
		return nil, err
	}
	req, err := r.ToHTTP(ctx)
	if err != nil {
		return nil, err
	}
	resp, err := c.doer(r).Do(req)
	if err != nil {
		if resp != nil && resp.Body != nil {
			_ = resp.Body.Close()
		}
		return nil, err
	}
	if resp.Body == nil {
		resp.Body = http.NoBody
	}
	return resp, nil
}

// Get issues a GET to the specified URL, using the same policies
// followed by Do.
//
// To make a request with custom headers, use request.New and
// Client.Do.
func (c *Client) Get(url string) (*request.Result, error) {
	return Get(c, url)
}

// Head issues a HEAD to the specified URL, using the same policies
// followed by Do.
//
// To make a request with custom headers, use request.New and
// Client.Do.
func (c *Client) Head(url string) (*request.Result, error) {
	return Head(c, url)
}

// Post issues a POST to the specified URL, using the same policies
// followed by Do.
//
// The body parameter may be nil for an empty body, or may be any of the
// types supported by request.New and request.BodyBytes, namely: string;
// []byte; url.Values; io.Reader; and io.ReadCloser.
//
// Note that with the default redirect strategy, a redirected POST is
// only followed on a 303 See Other, which turns it into a GET.
func (c *Client) Post(url, contentType string, body interface{}) (*request.Result, error) {
	return Post(c, url, contentType, body)
}

// PostForm issues a POST to the specified URL, with data's keys and
// values URL-encoded as the request body.
//
// The Content-Type header is set to application/x-www-form-urlencoded.
// To set other headers, use request.New and Client.Do.
func (c *Client) PostForm(url string, data url.Values) (*request.Result, error) {
	return PostForm(c, url, data)
}

// PostJSON issues a POST to the specified URL, with the JSON encoding
// of v as the request body.
//
// The Content-Type header is set to application/json.
func (c *Client) PostJSON(url string, v interface{}) (*request.Result, error) {
	return PostJSON(c, url, v)
}

// CloseIdleConnections invokes the same method on the client's
// underlying HTTPDoer.
//
// If the HTTPDoer has no CloseIdleConnections method, this method does
// nothing.
//
// If the HTTPDoer does have a CloseIdleConnections method, then the
// effect of this method depends entirely on its implementation in the
// HTTPDoer. For example, the http.Client type forwards the call to its
// Transport, but only if the Transport itself has a CloseIdleConnections
// method (otherwise it does nothing).
func (c *Client) CloseIdleConnections() {
	doer := c.HTTPDoer
	if doer == nil {
		doer = manualDoer
	}
	if ic, ok := doer.(IdleCloser); ok {
		ic.CloseIdleConnections()
	}
}

func (c *Client) doer(r *request.Request) HTTPDoer {
	if c.HTTPDoer != nil {
		return c.HTTPDoer
	}
	if r.Redirect == request.RedirectFollow {
		return http.DefaultClient
	}
	return manualDoer
}

func (c *Client) timeoutPolicy() timeout.Policy {
	if c.TimeoutPolicy == nil {
		return timeout.DefaultPolicy
	}
	return c.TimeoutPolicy
}

func (c *Client) retryPolicy() retry.Policy {
	if c.RetryPolicy == nil {
		return retry.Never
	}
	return c.RetryPolicy
}

func (c *Client) strategy() redirect.Strategy {
	if c.RedirectStrategy == nil {
		return redirect.Default
	}
	return c.RedirectStrategy
}

func (c *Client) maxRedirects() int {
	switch {
	case c.MaxRedirects == 0:
		return DefaultMaxRedirects
	case c.MaxRedirects < 0:
		return 0
	default:
		return c.MaxRedirects
	}
}

// validate checks what net/http only checks in its own transports, so
// that a custom HTTPDoer never sees a malformed request.
func validate(r *request.Request) error {
	if !request.ValidMethod(r.Method) {
		return fmt.Errorf("httpfn: invalid method %q", r.Method)
	}
	for name, values := range r.Header {
		if !httpguts.ValidHeaderFieldName(name) {
			return fmt.Errorf("httpfn: invalid header field name %q", name)
		}
		for _, v := range values {
			if !httpguts.ValidHeaderFieldValue(v) {
				return fmt.Errorf("httpfn: invalid header field value for %q", name)
			}
		}
	}
	return nil
}

// cancelBody releases the timeout context of a transfer once the
// response body is closed.
type cancelBody struct {
	io.ReadCloser
	cancel context.CancelFunc
}

func (b *cancelBody) Close() error {
	err := b.ReadCloser.Close()
	b.cancel()
	return err
}

// drain reads a little of a superseded response body, so the
// connection can be reused, and closes it.
func drain(resp *http.Response) {
	_, _ = io.CopyN(io.Discard, resp.Body, 2<<10)
	_ = resp.Body.Close()
}

// sleep waits for d to elapse or ctx to end, whichever comes first.
func sleep(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func urlErrorWrap(r *request.Request, err error) error {
	if _, ok := err.(*url.Error); ok {
		return err
	}

	return &url.Error{
		Op:  urlErrorOp(r.Method),
		URL: r.URL,
		Err: err,
	}
}

// urlErrorOp is lifted verbatim from net/http/client.go
func urlErrorOp(method string) string {
	if method == "" {
		return "Get"
	}
	return method[:1] + strings.ToLower(method[1:])
}
