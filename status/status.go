// Copyright 2021 The httpfn Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package status dispatches on the status code of a request.Result.
//
// Match selects a handler by exact status code, falling back to a
// mismatch handler for every other code:
//
//     text := status.Match(
//         func(r *request.Result) string { return "unexpected" },
//         map[int]func(*request.Result) string{
//             200: func(r *request.Result) string { return "ok" },
//             404: func(r *request.Result) string { return "missing" },
//         })
//
// There are no range or class patterns. A pattern matching all of 2XX
// must list each code it accepts.
//
// MatchW and Accept return an Either, which lets the mismatch branch
// produce a different type than the matched branches. This is the usual
// way to turn an unexpected status into an error while keeping the
// successful Result:
//
//     e := status.Accept(200)(res)
//     if e.IsLeft() {
//         return decode.Error(res)
//     }
package status

import "github.com/gogama/httpfn/request"

const nilHandlerMsg = "httpfn/status: nil handler"

// Match returns a function that looks up the status code of its Result
// in pattern and invokes the handler found there. If the status code is
// not in pattern, or there is no response, onMismatch is invoked
// instead.
//
// Match copies pattern, so later changes to the map have no effect on
// the returned function. Match panics if onMismatch or any handler in
// pattern is nil.
func Match[T any](onMismatch func(*request.Result) T, pattern map[int]func(*request.Result) T) func(*request.Result) T {
	if onMismatch == nil {
		panic(nilHandlerMsg)
	}
	p := make(map[int]func(*request.Result) T, len(pattern))
	for code, h := range pattern {
		if h == nil {
			panic(nilHandlerMsg)
		}
		p[code] = h
	}
	return func(r *request.Result) T {
		if h, ok := p[r.StatusCode()]; ok {
			return h(r)
		}
		return onMismatch(r)
	}
}

// MatchW is the widening form of Match. The mismatch handler and the
// pattern handlers may return different types: a mismatch produces a
// Left holding the result of onMismatch, and a match produces a Right
// holding the result of the matched handler.
func MatchW[L, R any](onMismatch func(*request.Result) L, pattern map[int]func(*request.Result) R) func(*request.Result) Either[L, R] {
	if onMismatch == nil {
		panic(nilHandlerMsg)
	}
	widened := make(map[int]func(*request.Result) Either[L, R], len(pattern))
	for code, h := range pattern {
		if h == nil {
			panic(nilHandlerMsg)
		}
		h := h
		widened[code] = func(r *request.Result) Either[L, R] {
			return Right[L, R](h(r))
		}
	}
	return Match(func(r *request.Result) Either[L, R] {
		return Left[L, R](onMismatch(r))
	}, widened)
}

// Accept returns a function that tags its Result as Right if the status
// code equals code, and Left otherwise. Either way the tagged value is
// the Result itself.
func Accept(code int) func(*request.Result) Either[*request.Result, *request.Result] {
	return MatchW(identity, map[int]func(*request.Result) *request.Result{
		code: identity,
	})
}

func identity(r *request.Result) *request.Result {
	return r
}
