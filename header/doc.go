// Copyright 2021 The httpfn Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package header provides pure transforms over HTTP header sets.
//
// Every function treats its http.Header input as read-only and returns a
// new header set, so a header set attached to a request.Request can be
// shared freely between requests. Header names are matched
// case-insensitively, and each name is treated as carrying a single
// value: where several values are stored under one name they are read
// back joined with ", ".
package header
