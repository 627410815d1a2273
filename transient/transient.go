// Copyright 2021 The httpfn Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package transient

import (
	"errors"
	"net"
	"syscall"
)

// A Category is the transience category of a network error, as reported
// by Categorize.
//
// Not means a repeat of the same transfer is very unlikely to succeed.
// Every other category means a repeat has some prospect of success,
// which callers may use to decide whether to issue the whole call again.
type Category int

const (
	// Not indicates any non-transient error, or no error.
	Not Category = iota
	// Timeout indicates a client-side timeout: the error or one of its
	// wrapped causes has a Timeout method that reports true.
	Timeout
	// ConnRefused indicates the remote host refused the connection
	// (syscall.ECONNREFUSED). The service may be starting or restarting.
	ConnRefused
	// ConnReset indicates the remote host reset a previously active
	// connection (syscall.ECONNRESET), typically because the service or
	// a load balancer in front of it went away mid-response.
	ConnReset
	// DNS indicates a temporary name resolution failure: a
	// *net.DNSError whose IsTemporary field is set. Permanent failures,
	// such as a host that does not exist, are Not.
	DNS
)

var categoryNames = []string{
	"Not",
	"Timeout",
	"ConnRefused",
	"ConnReset",
	"DNS",
}

// String returns the name of the category.
func (c Category) String() string {
	if c < 0 || int(c) >= len(categoryNames) {
		return "Category(?)"
	}
	return categoryNames[c]
}

// Categorize returns the transience category of the given error. A nil
// error and a non-transient error both produce Not.
//
// Categorize looks at wrapped cause errors contained within err, not
// just err itself. It never consults a Temporary method, as the
// semantics of Temporary aren't entirely clear.
func Categorize(err error) Category {
	if err == nil {
		return Not
	}

	var hasTimeout hasTimeout
	if errors.As(err, &hasTimeout) && hasTimeout.Timeout() {
		return Timeout
	}

	var errno syscall.Errno
	if errors.As(err, &errno) {
		if errno == syscall.ECONNRESET {
			return ConnReset
		} else if errno == syscall.ECONNREFUSED {
			return ConnRefused
		}
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) && dnsErr.IsTemporary {
		return DNS
	}

	return Not
}

type hasTimeout interface {
	Timeout() bool
}
