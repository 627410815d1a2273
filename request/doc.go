// Copyright 2021 The httpfn Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package request contains the value types every other httpfn package is
built from: Request (describes one HTTP request), Result (pairs a
response with the request that produced it), and Exchange (the state of
one client call, as seen by policies and event handlers).

A Request is immutable by convention. It is never modified in place;
each builder method returns a new Request and leaves the receiver
untouched, so a Request may be kept in a history, compared with
Equivalent, and used to derive follow-up requests safely:

	r, err := request.New("GET", "https://example.com/items", nil)
	...
	r2 := r.SetHeader("Accept", "application/json")
	r3, err := r2.WithJSON(item)
	...

For those familiar with net/http, a Request looks like a stripped-down
http.Request whose body is a pre-buffered []byte. Because the body is
buffered, a Request can be sent any number of times, which is what a
redirect engine needs.

A Request may be assigned a context, which is carried over to every
request derived from it by the builder methods. The context controls
cancellation of each exchange made with the request.

A Result is the output of a single HTTP exchange. Its Request member is
always the request that was actually sent, never a reconstructed one.
*/
package request
