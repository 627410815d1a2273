// Copyright 2021 The httpfn Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package transient classifies network errors raised by a transport as
// transient or non-transient. Mid-redirect network errors are always
// fatal to a redirect-following call, so the classification is offered
// to callers deciding whether to repeat the whole call, and for other
// purposes such as bucketing error metrics.
//
// Package transient depends only on the standard library, so it
// doesn't bring any significant dependencies when imported as a
// standalone package.
package transient
