// Copyright 2021 The httpfn Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package redirect decides which redirects to follow and follows them.
//
// A Strategy is a plain function from the Result of one transfer to the
// Request to transfer next. A Strategy that does not want to redirect
// returns the Result's own Request, unchanged. Strategies hold no state
// and never fail: a missing or unusable Location header simply means
// "stop".
//
// The primitive strategies AnyRequest, IfGetMethod, UsingGetMethod, and
// RetryWithoutCondition each implement one redirect behavior. ByStatus
// composes them into a dispatch table keyed by status code. Two such
// tables are predefined:
//
//     Status  Default         Aggressive
//     301     IfGetMethod     AnyRequest
//     302     IfGetMethod     AnyRequest
//     303     UsingGetMethod  UsingGetMethod
//     304     (stop)          RetryWithoutCondition
//     305     AnyRequest      AnyRequest
//     307     IfGetMethod     AnyRequest
//
// Every other status stops. Whenever a redirect leaves the origin of
// the request, the Authorization and Cookie headers are dropped.
//
// FollowWith turns a Strategy into a Follower, which repeatedly applies
// the Strategy to the latest Result and transfers the Request it
// produces. Following stops when the hop budget is spent, or when the
// Strategy produces a Request equivalent to one already transferred,
// which covers both "stop" and redirect loops. Neither is an error: the
// last Result is returned, and callers should check its status, for
// example with package status. Only a transport failure is an error,
// reported as *Error.
package redirect
