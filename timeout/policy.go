// Copyright 2021 The httpfn Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package timeout

import (
	"time"

	"github.com/gogama/httpfn/request"
)

// A Policy defines a timeout policy which may be plugged into the HTTP
// client (httpfn.Client) to direct how to set the timeout for the
// initial transfer, as well as for each redirect followed.
//
// A transfer's timeout covers sending the request, receiving the
// response, and reading the response body, up until the body is
// closed.
//
// Implementations of Policy must be safe for concurrent use by multiple
// goroutines.
type Policy interface {
	// Timeout returns the timeout to set on the next transfer within
	// the exchange.
	//
	// Parameter x contains the current state of the exchange. Its Hop
	// and Request fields describe the transfer about to start.
	Timeout(x *request.Exchange) time.Duration
}

// DefaultPolicy is the default timeout policy. It sets a fixed timeout
// of 5 seconds on each transfer.
var DefaultPolicy Policy = Fixed(5 * time.Second)

// Infinite is a built-in timeout policy which never times out.
var Infinite Policy = Fixed(1<<63 - 1)

// Fixed constructs a timeout policy that uses the same value to set
// every transfer timeout.
func Fixed(d time.Duration) Policy {
	return PerHop(d)
}

// PerHop constructs a timeout policy that uses first as the timeout of
// the initial transfer and the values in rest, in order, for the
// redirects that follow. If more redirects are followed than rest has
// elements, the last element of rest is used for the remaining ones.
// If rest is empty, first is used for every transfer.
//
// Consider the following timeout policy:
//
// 	p := PerHop(2*time.Second, 500*time.Millisecond)
//
// The policy p gives the initial transfer 2 seconds and each redirect
// 500 milliseconds, suiting a service whose redirects point to a cache
// that answers faster than the origin.
func PerHop(first time.Duration, rest ...time.Duration) Policy {
	p := make(policy, 1, 1+len(rest))
	p[0] = first
	return append(p, rest...)
}

type policy []time.Duration

func (p policy) Timeout(x *request.Exchange) time.Duration {
	i := x.Hop
	if i > len(p)-1 {
		i = len(p) - 1
	}
	return p[i]
}

// Budget constructs a timeout policy that caps the timeouts chosen by
// per so that the whole exchange, every hop included, takes at most
// total. Once total is spent the timeout returned is zero or negative,
// so the next transfer fails immediately with a timeout.
func Budget(total time.Duration, per Policy) Policy {
	return budget{total: total, per: per}
}

type budget struct {
	total time.Duration
	per   Policy
}

func (b budget) Timeout(x *request.Exchange) time.Duration {
	d := b.per.Timeout(x)
	if remaining := b.total - x.Duration(); remaining < d {
		return remaining
	}
	return d
}
