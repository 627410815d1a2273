// Copyright 2021 The httpfn Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package retry provides policies for repeating a failed transfer
// within one hop of an exchange, and for how long to wait before each
// repeat.
//
// A Policy pairs a Decider, which says whether to repeat the transfer,
// with a Waiter, which says how long to wait first. Both have
// constructors for common cases, so a useful policy is quick to
// assemble:
//
//	decider := retry.Times(3).
//		And(retry.Before(5 * time.Second)).
//		And(retry.Idempotent.Or(retry.Unsent)).
//		And(retry.StatusCode(503).Or(retry.TransientErr))
//	waiter := retry.NewExpWaiter(100*time.Millisecond, 2*time.Second, time.Now())
//	policy := retry.NewPolicy(decider, waiter)
//
// Retries never cross a hop boundary. When the last attempt of a
// redirect hop fails, the client reports the failure the same way it
// would without retries.
package retry
