// Copyright 2021 The httpfn Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package timeout defines policies for setting the timeout of each
// transfer made by httpfn.Client, the initial transfer and each
// redirect hop alike. A generic interface for timeout policies is
// provided, Policy, along with several useful policy generating
// functions and built-in policies.
package timeout
