// Copyright 2021 The httpfn Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Command httpfn sends one HTTP request, following redirects with an
// httpfn.Client, and prints the final response body.
//
// Usage:
//
//	httpfn [flags] URL
//
// For example:
//
//	httpfn -v --max-redirects 3 https://example.com/old-page
//	httpfn -X POST --json '{"a":1}' --fail https://example.com/api
//	httpfn --retry 3 https://example.com/flaky
package main

import (
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/corpix/uarand"
	"github.com/gogama/httpfn"
	"github.com/gogama/httpfn/decode"
	"github.com/gogama/httpfn/header"
	"github.com/gogama/httpfn/redirect"
	"github.com/gogama/httpfn/request"
	"github.com/gogama/httpfn/retry"
	"github.com/gogama/httpfn/timeout"
	"github.com/gogama/httpfn/transient"
	"github.com/spf13/cobra"
)

type options struct {
	method       string
	headers      []string
	data         string
	json         string
	maxRedirects int
	aggressive   bool
	timeout      time.Duration
	retries      int
	fail         bool
	include      bool
	verbose      bool
	userAgent    string
	randomAgent  bool
}

func main() {
	if err := newRootCommand(os.Stdout, os.Stderr).Execute(); err != nil {
		var se *decode.StatusError
		if errors.As(err, &se) {
			os.Exit(22)
		}
		os.Exit(1)
	}
}

func newRootCommand(out, errOut io.Writer) *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:           "httpfn [flags] URL",
		Short:         "Send an HTTP request and follow its redirects",
		Long:          `Sends one HTTP request, follows redirects hop by hop using a redirect strategy, and prints the body of the final response.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := run(opts, args[0], out, errOut)
			if err != nil {
				fmt.Fprintf(errOut, "httpfn: %v\n", err)
			}
			return err
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.method, "method", "X", "", "HTTP method (default GET, or POST when a body is given)")
	flags.StringArrayVarP(&opts.headers, "header", "H", nil, "HTTP header to include in the request, as \"Name: value\". Can be specified multiple times.")
	flags.StringVarP(&opts.data, "data", "d", "", "Request body")
	flags.StringVar(&opts.json, "json", "", "Request body sent as application/json")
	flags.IntVar(&opts.maxRedirects, "max-redirects", httpfn.DefaultMaxRedirects, "Maximum number of redirects to follow (negative for none)")
	flags.BoolVar(&opts.aggressive, "aggressive", false, "Follow redirects for any method, and retry 304 without cache validators")
	flags.DurationVar(&opts.timeout, "timeout", 5*time.Second, "Timeout for each hop")
	flags.IntVar(&opts.retries, "retry", 0, "Retry each hop up to this many times on a transient error or a 429, 502, 503 or 504 response")
	flags.BoolVarP(&opts.fail, "fail", "f", false, "Fail on a final status outside 2XX")
	flags.BoolVarP(&opts.include, "include", "i", false, "Print the final status line and headers")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "Log each hop to stderr")
	flags.StringVarP(&opts.userAgent, "user-agent", "A", "", "User-Agent header")
	flags.BoolVar(&opts.randomAgent, "random-agent", false, "Use a random browser User-Agent header")

	return cmd
}

func run(opts *options, rawURL string, out, errOut io.Writer) error {
	r, err := newRequest(opts, rawURL)
	if err != nil {
		return err
	}

	cl := &httpfn.Client{
		TimeoutPolicy: timeout.Fixed(opts.timeout),
		MaxRedirects:  opts.maxRedirects,
	}
	if opts.maxRedirects == 0 {
		cl.MaxRedirects = -1
	}
	if opts.retries > 0 {
		cl.RetryPolicy = retry.NewPolicy(
			retry.Times(opts.retries).And(retry.DefaultDecider),
			retry.DefaultWaiter,
		)
	}
	if opts.aggressive {
		cl.RedirectStrategy = redirect.Aggressive
	}
	if opts.verbose {
		cl.Handlers = logHandlers(log.New(errOut, "* ", 0))
	}

	res, err := cl.Do(r)
	if err != nil {
		return err
	}

	if opts.include {
		fmt.Fprintf(out, "%s %s\n", res.Response.Proto, res.Response.Status)
		_ = res.Header().Write(out)
		fmt.Fprintln(out)
	}

	code := res.StatusCode()
	if opts.fail && (code < 200 || code > 299) {
		return decode.Error(res)
	}

	text, err := decode.Text(res)
	if err != nil {
		return err
	}
	_, err = io.WriteString(out, text)
	return err
}

func newRequest(opts *options, rawURL string) (*request.Request, error) {
	var body interface{}
	switch {
	case opts.json != "":
		body = opts.json
	case opts.data != "":
		body = opts.data
	}
	method := opts.method
	if method == "" && body != nil {
		method = "POST"
	}

	r, err := request.New(method, rawURL, body)
	if err != nil {
		return nil, err
	}

	for _, h := range opts.headers {
		name, value, ok := strings.Cut(h, ":")
		if !ok || strings.TrimSpace(name) == "" {
			return nil, fmt.Errorf("invalid header %q (use \"Name: value\")", h)
		}
		r = r.AppendHeader(strings.TrimSpace(name), strings.TrimSpace(value))
	}

	if _, ok := header.Lookup(r.Header, "Content-Type"); !ok {
		if opts.json != "" {
			r = r.SetHeader("Content-Type", "application/json")
		} else if opts.data != "" {
			r = r.SetHeader("Content-Type", "application/x-www-form-urlencoded")
		}
	}

	switch {
	case opts.userAgent != "":
		r = r.SetHeader("User-Agent", opts.userAgent)
	case opts.randomAgent:
		r = r.SetHeader("User-Agent", uarand.GetRandom())
	}

	return r, nil
}

func logHandlers(logger *log.Logger) *httpfn.HandlerGroup {
	g := &httpfn.HandlerGroup{}
	g.PushBack(httpfn.BeforeTransfer, httpfn.HandlerFunc(func(_ httpfn.Event, x *request.Exchange) {
		if x.Attempt > 0 {
			logger.Printf("[%d] retry %d: %s %s", x.Hop, x.Attempt, x.Request.Method, x.Request.URL)
			return
		}
		logger.Printf("[%d] %s %s", x.Hop, x.Request.Method, x.Request.URL)
	}))
	g.PushBack(httpfn.AfterTransfer, httpfn.HandlerFunc(func(_ httpfn.Event, x *request.Exchange) {
		if x.Err != nil {
			logger.Printf("[%d] error (%s): %v", x.Hop, transient.Categorize(x.Err), x.Err)
			return
		}
		if loc := x.Header().Get("Location"); loc != "" {
			logger.Printf("[%d] %s -> %s", x.Hop, x.Result.Response.Status, loc)
			return
		}
		logger.Printf("[%d] %s", x.Hop, x.Result.Response.Status)
	}))
	g.PushBack(httpfn.AfterTransferTimeout, httpfn.HandlerFunc(func(_ httpfn.Event, x *request.Exchange) {
		logger.Printf("[%d] timed out after %s", x.Hop, x.Duration())
	}))
	g.PushBack(httpfn.AfterExchangeEnd, httpfn.HandlerFunc(func(_ httpfn.Event, x *request.Exchange) {
		logger.Printf("done in %s after %d redirect(s)", x.Duration(), x.Hop)
	}))
	return g
}
