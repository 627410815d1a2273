// Copyright 2021 The httpfn Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package httpfn provides an HTTP client that follows redirects under its
own control, hop by hop, using pure redirect strategies, within a simple
and familiar interface.

Create a Client to begin making requests.

	client := &httpfn.Client{}
	res, err := client.Get("https://www.example.com")
	...
	res, err := client.Post("https://www.example.com/upload",
		"application/json", &buf)
	...
	res, err := client.PostForm("http://example.com/form",
		url.Values{"key": {"Value"}, "id": {"123"}})

A successful call returns a request.Result pairing the final response
with the request that produced it. Any status code is a success; use
package status to branch on it and package decode to read the body:

	handle := status.MatchW(
		func(r *request.Result) error { return decode.Error(r) },
		map[int]func(*request.Result) []byte{
			200: func(r *request.Result) []byte { b, _ := decode.Buffer(r); return b },
		})
	body := handle(res)

For control over how the client sends HTTP requests and receives HTTP
responses, use a custom HTTPDoer. For example, use a GoLang standard
HTTP client which leaves redirects to the Client:

	doer := &http.Client{
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
		..., // See package "net/http" for detailed documentation
	}
	client := &httpfn.Client{
		HTTPDoer: doer,
	}

For control over which redirects the client follows, and how many, set
a redirect strategy from package redirect and a redirect budget:

	client := &httpfn.Client{
		RedirectStrategy: redirect.Aggressive,
		MaxRedirects:     5,
	}

For control over the client's individual hop timeouts, set a custom
timeout policy using package timeout:

	client := &httpfn.Client{
		TimeoutPolicy: timeout.Fixed(10*time.Second),
	}

To repeat a failed transfer before giving up on a hop, set a retry
policy using package retry. Retries stay within one hop, so a redirect
hop that fails on its last attempt still ends the call:

	client := &httpfn.Client{
		RetryPolicy: retry.DefaultPolicy,
	}

To hook into the fine-grained details of the client's exchange logic,
install a handler into the appropriate handler chain:

	log := log.New(os.Stdout, "", log.LstdFlags)
	handlers := &httpfn.HandlerGroup{}
	handlers.PushBack(httpfn.BeforeRedirect, httpfn.HandlerFunc(
		func(_ httpfn.Event, x *request.Exchange) {
			log.Printf("Redirect %d to %s", x.Hop, x.Request.URL)
		}),
	)
	client := &httpfn.Client{
		HTTPDoer: doer,
		Handlers: handlers,
	}

Package httpfn provides basic interfaces for each method of the client
(Doer, Transferer, Getter, Header, Poster, FormPoster, JSONPoster, and
IdleCloser); a combined interface that composes the basic methods
(Executor); and utility functions for working with a Doer (Inflate,
Get, Head, Post, PostForm, and PostJSON).
*/
package httpfn
