// Copyright 2021 The httpfn Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package retry

// A Policy controls whether and when the client repeats a transfer
// within the current hop. After every attempt the client asks the
// Policy to Decide, and if it says yes, how long to Wait before the
// next attempt.
//
// Implementations of Policy must be safe for concurrent use by multiple
// goroutines.
type Policy interface {
	Decider
	Waiter
}

// DefaultPolicy is a general-purpose retry policy composed of
// DefaultDecider and DefaultWaiter.
var DefaultPolicy Policy = NewPolicy(DefaultDecider, DefaultWaiter)

// Never is a policy that never retries. It is the policy a Client uses
// when it has none.
var Never Policy = NewPolicy(Times(0), NewFixedWaiter(0))

type policy struct {
	Decider
	Waiter
}

// NewPolicy composes a Decider and a Waiter into a retry Policy.
func NewPolicy(d Decider, w Waiter) Policy {
	if d == nil {
		panic("httpfn/retry: nil decider")
	}
	if w == nil {
		panic("httpfn/retry: nil waiter")
	}
	return policy{d, w}
}
