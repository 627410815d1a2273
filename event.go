// Copyright 2021 The httpfn Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package httpfn

// An Event identifies the event type when installing or running a
// Handler. Install event handlers in a Client to extend it with custom
// functionality, such as logging each hop of an exchange.
type Event int

const (
	// BeforeExchangeStart identifies the event that occurs before the
	// exchange starts.
	//
	// When Client fires BeforeExchangeStart, the exchange is non-nil
	// but the only field that has been set is the initial request.
	// Handlers may replace the request.
	BeforeExchangeStart Event = iota
	// BeforeTransfer identifies the event that occurs before each
	// transfer attempt, including redirects and retries. The
	// exchange's attempt field tells a retry from a first attempt.
	//
	// When Client fires BeforeTransfer, the exchange's request field is
	// set to the request that WILL BE sent after all BeforeTransfer
	// handlers have finished, and its result and error fields are nil.
	//
	// BeforeTransfer handlers may replace the exchange's request with a
	// request derived from it, for example to add a header. The
	// replacement is what is sent, and what the Result of the transfer
	// records. Because redirect loops are detected by comparing
	// requests, a handler that makes every request unique disables
	// loop detection, leaving only the redirect budget.
	BeforeTransfer
	// AfterTransferTimeout identifies the event that occurs after a
	// transfer failed because of a timeout error.
	//
	// When Client fires AfterTransferTimeout, the exchange's error
	// field is set to the timeout error.
	AfterTransferTimeout
	// AfterTransfer identifies the event that occurs after a transfer
	// is concluded, regardless of whether it concluded successfully or
	// not.
	//
	// When Client fires AfterTransfer, exactly one of the exchange's
	// result and error fields is non-nil. The body of the result has
	// not been read.
	AfterTransfer
	// BeforeRedirect identifies the event that occurs after the
	// redirect strategy has chosen a redirect to follow, but before
	// it is transferred.
	//
	// When Client fires BeforeRedirect, the exchange's hop counter has
	// been incremented, its request field is set to the redirect
	// request, and its result field still holds the redirect response,
	// whose body has already been closed.
	BeforeRedirect
	// AfterExchangeEnd identifies the event that occurs after the
	// exchange ends.
	//
	// When Client fires AfterExchangeEnd, the exchange holds the final
	// result, or the error returned to the caller, and the end time is
	// set.
	AfterExchangeEnd
	// eventSentinel provides the total number of events typed as an
	// Event.
	eventSentinel

	// numEvents provides the total number of events types as an int.
	numEvents = int(eventSentinel)
)

var eventNames = []string{
	"BeforeExchangeStart",
	"BeforeTransfer",
	"AfterTransferTimeout",
	"AfterTransfer",
	"BeforeRedirect",
	"AfterExchangeEnd",
}

// Events returns a slice containing all events which can occur in an
// exchange by Client, in the order in which they would first occur.
func Events() []Event {
	return []Event{
		BeforeExchangeStart,
		BeforeTransfer,
		AfterTransferTimeout,
		AfterTransfer,
		BeforeRedirect,
		AfterExchangeEnd,
	}
}

// Name returns the name of the event.
func (evt Event) Name() string {
	return eventNames[int(evt)]
}

// String returns the name of the event.
func (evt Event) String() string {
	return evt.Name()
}
