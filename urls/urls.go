// Copyright 2021 The httpfn Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package urls provides pure transforms over absolute URLs: parsing,
// relative navigation, query parameter updates, and the same-origin
// test used to decide whether credentials may follow a redirect.
//
// No function in this package modifies a *url.URL passed to it. Every
// URL returned is a fresh value.
package urls

import (
	"errors"
	"net"
	"net/url"
	"strings"

	"golang.org/x/net/idna"
)

// ParseStrict parses s as an absolute URL. It returns a *url.Error if s
// is malformed, has no scheme, or is an http or https URL without a
// host.
func ParseStrict(s string) (*url.URL, error) {
	u, err := url.Parse(s)
	if err != nil {
		return nil, err
	}
	if err = checkAbs(u); err != nil {
		return nil, &url.Error{Op: "parse", URL: s, Err: err}
	}
	return u, nil
}

// Parse parses s as an absolute URL. The boolean result is false if s
// is not a valid absolute URL. Parse never panics.
func Parse(s string) (*url.URL, bool) {
	u, err := ParseStrict(s)
	return u, err == nil
}

// MustParse is like Parse but panics if s is not a valid absolute URL.
// Use it only for strings already known to be valid, such as the URL of
// a request.Request.
func MustParse(s string) *url.URL {
	u, err := ParseStrict(s)
	if err != nil {
		panic(err)
	}
	return u
}

// Navigate resolves location against base following RFC 3986 reference
// resolution, the way a browser follows a link. The boolean result is
// false if location cannot be parsed or does not resolve to a usable
// absolute URL, for example "//" resolved against an http URL.
func Navigate(location string, base *url.URL) (*url.URL, bool) {
	if base == nil {
		return nil, false
	}
	ref, err := url.Parse(location)
	if err != nil {
		return nil, false
	}
	// An empty authority ("//", "//?q") names no host to navigate to.
	if strings.HasPrefix(location, "//") && ref.Host == "" {
		return nil, false
	}
	u := base.ResolveReference(ref)
	if checkAbs(u) != nil {
		return nil, false
	}
	return u, true
}

// Param returns a copy of u with the query parameter key set to value,
// replacing any previous values of key.
func Param(key, value string, u *url.URL) *url.URL {
	q := u.Query()
	q.Set(key, value)
	return withQuery(u, q)
}

// UnsetParam returns a copy of u without the query parameter key.
func UnsetParam(key string, u *url.URL) *url.URL {
	q := u.Query()
	q.Del(key)
	return withQuery(u, q)
}

// Params returns a copy of u whose query string is replaced by values.
func Params(values url.Values, u *url.URL) *url.URL {
	return withQuery(u, values)
}

// SameOrigin reports whether dest may be treated as belonging to origin.
//
// The schemes must match, except that an https dest is accepted for an
// http origin (an upgrade); the reverse downgrade is not accepted. The
// hosts, ports included, must match, or dest's host must be a subdomain
// of origin's host. Hosts are compared in lower-case ASCII form, so an
// internationalized host matches its punycode spelling.
func SameOrigin(origin, dest *url.URL) bool {
	if origin == nil || dest == nil {
		return false
	}
	from, to := strings.ToLower(origin.Scheme), strings.ToLower(dest.Scheme)
	if from != to && !(from == "http" && to == "https") {
		return false
	}
	oh, dh := asciiHost(origin.Host), asciiHost(dest.Host)
	return oh == dh || strings.HasSuffix(dh, "."+oh)
}

func withQuery(u *url.URL, q url.Values) *url.URL {
	u2 := *u
	if u.User != nil {
		user := *u.User
		u2.User = &user
	}
	u2.RawQuery = q.Encode()
	u2.ForceQuery = false
	return &u2
}

func checkAbs(u *url.URL) error {
	if u.Scheme == "" {
		return errors.New("missing scheme")
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https":
		if u.Hostname() == "" {
			return errors.New("missing host")
		}
	}
	return nil
}

func asciiHost(host string) string {
	name, port, err := net.SplitHostPort(host)
	if err != nil {
		name, port = host, ""
	}
	if a, err := idna.Lookup.ToASCII(name); err == nil {
		name = a
	}
	name = strings.ToLower(name)
	if port != "" {
		return net.JoinHostPort(name, port)
	}
	return name
}
