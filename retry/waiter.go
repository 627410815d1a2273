// Copyright 2021 The httpfn Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package retry

import (
	"math/rand"
	"sync"
	"time"

	"github.com/gogama/httpfn/request"
)

// A Waiter says how long to wait before attempting a transfer again.
//
// Implementations of Waiter must be safe for concurrent use by multiple
// goroutines.
//
// The client only consults the Waiter after the Decider of the same
// policy returned true.
type Waiter interface {
	Wait(x *request.Exchange) time.Duration
}

// DefaultWaiter is the default retry wait policy. It uses a jittered
// exponential backoff formula with a base wait of 50 milliseconds and a
// maximum wait of 1 second.
var DefaultWaiter = NewExpWaiter(50*time.Millisecond, 1*time.Second, time.Now())

// NewFixedWaiter constructs a Waiter that always returns d.
func NewFixedWaiter(d time.Duration) Waiter {
	return fixedWaiter(d)
}

type fixedWaiter time.Duration

func (w fixedWaiter) Wait(_ *request.Exchange) time.Duration {
	return time.Duration(w)
}

// NewExpWaiter constructs a Waiter implementing exponential backoff
// with optional "Full Jitter", as described in
// https://aws.amazon.com/blogs/architecture/exponential-backoff-and-jitter.
//
// The ceiling of the wait before retry number x.Attempt+1 is:
//
//	ceil := min(base * 2**x.Attempt, max)
//
// Base must be positive and max must be at least base.
//
// If jitter is nil, the waiter returns ceil itself. Otherwise the wait
// is a random duration in [0, ceil), drawn from jitter when it is a
// *rand.Rand or rand.Source, or from a generator seeded with jitter
// when it is a time.Time, int or int64.
func NewExpWaiter(base, max time.Duration, jitter interface{}) Waiter {
	if base < 1 {
		panic("httpfn/retry: base must be positive")
	}
	if max < base {
		panic("httpfn/retry: max must be at least base")
	}
	return &expWaiter{
		base: base,
		max:  max,
		rand: jitterToRand(jitter),
	}
}

type expWaiter struct {
	base time.Duration
	max  time.Duration
	lock sync.Mutex
	rand *rand.Rand
}

func (w *expWaiter) Wait(x *request.Exchange) time.Duration {
	ceil := w.max
	if x.Attempt >= 0 && x.Attempt < 63 {
		if exp := w.base << x.Attempt; exp>>x.Attempt == w.base && exp < w.max {
			ceil = exp
		}
	}

	if w.rand == nil {
		return ceil
	}

	w.lock.Lock()
	defer w.lock.Unlock()
	return time.Duration(w.rand.Int63n(int64(ceil)))
}

func jitterToRand(jitter interface{}) *rand.Rand {
	var s rand.Source
	switch j := jitter.(type) {
	case nil:
		return nil
	case time.Time:
		s = rand.NewSource(j.UnixNano())
	case int:
		s = rand.NewSource(int64(j))
	case int64:
		s = rand.NewSource(j)
	case *rand.Rand:
		if j == nil {
			panic("httpfn/retry: jitter may not be a typed nil")
		}
		return j
	case rand.Source:
		s = j
	default:
		panic("httpfn/retry: invalid jitter type")
	}
	return rand.New(s)
}
