// Copyright 2021 The httpfn Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package header

import (
	"net/http"
	"net/textproto"
	"sort"
	"strings"
)

// Confidential lists the headers removed by OmitConfidential. They carry
// credentials which must not leak to another origin on redirect.
var Confidential = []string{"authorization", "cookie"}

// Conditional lists the cache validator headers removed by
// OmitConditional.
var Conditional = []string{"if-match", "if-modified-since", "if-none-match", "if-unmodified-since"}

// Lookup returns the value of the named header, matching the name
// case-insensitively. The boolean result reports whether the header is
// present.
//
// If h holds several names equal to name under case folding, their
// values are joined in byte order of the names.
func Lookup(h http.Header, name string) (string, bool) {
	var vs []string
	found := false
	for _, k := range sortedKeys(h) {
		if strings.EqualFold(k, name) {
			vs = append(vs, h[k]...)
			found = true
		}
	}
	if !found {
		return "", false
	}
	return strings.Join(vs, ", "), true
}

// Set returns a copy of h in which name maps to value alone. Any prior
// values of name, under any casing, are dropped.
func Set(h http.Header, name, value string) http.Header {
	h2 := without(h, name)
	h2[textproto.CanonicalMIMEHeaderKey(name)] = []string{value}
	return h2
}

// Append returns a copy of h with value appended to the named header.
//
// If the header is already present the new value is the old value, a
// comma and a space, then value. Commas inside either value are not
// escaped, so a value containing a comma cannot be told apart from two
// appended values afterward. If the header is absent, Append behaves
// like Set.
func Append(h http.Header, name, value string) http.Header {
	if old, ok := Lookup(h, name); ok {
		return Set(h, name, old+", "+value)
	}
	return Set(h, name, value)
}

// Unset returns a copy of h without the named header.
func Unset(h http.Header, name string) http.Header {
	return without(h, name)
}

// Omit returns a copy of h without any of the named headers.
func Omit(h http.Header, names ...string) http.Header {
	return without(h, names...)
}

// OmitConfidential returns a copy of h without the Confidential headers.
func OmitConfidential(h http.Header) http.Header {
	return Omit(h, Confidential...)
}

// OmitConditional returns a copy of h without the Conditional headers.
func OmitConditional(h http.Header) http.Header {
	return Omit(h, Conditional...)
}

// Equal reports whether a and b hold the same names with identical
// values. Name casing and insertion order do not matter.
func Equal(a, b http.Header) bool {
	ca, cb := flatten(a), flatten(b)
	if len(ca) != len(cb) {
		return false
	}
	for k, v := range ca {
		if w, ok := cb[k]; !ok || v != w {
			return false
		}
	}
	return true
}

// Clone returns a deep copy of h with every name in canonical form. The
// result is never nil. Names which differ only in case are merged, in
// the same order as Lookup.
func Clone(h http.Header) http.Header {
	return without(h)
}

func without(h http.Header, names ...string) http.Header {
	h2 := make(http.Header, len(h))
Outer:
	for _, k := range sortedKeys(h) {
		vs := h[k]
		for _, name := range names {
			if strings.EqualFold(k, name) {
				continue Outer
			}
		}
		ck := textproto.CanonicalMIMEHeaderKey(k)
		vs2 := make([]string, len(h2[ck]), len(h2[ck])+len(vs))
		copy(vs2, h2[ck])
		h2[ck] = append(vs2, vs...)
	}
	return h2
}

func flatten(h http.Header) map[string]string {
	m := make(map[string]string, len(h))
	for k := range h {
		ck := textproto.CanonicalMIMEHeaderKey(k)
		if _, ok := m[ck]; !ok {
			m[ck], _ = Lookup(h, k)
		}
	}
	return m
}

func sortedKeys(h http.Header) []string {
	keys := make([]string, 0, len(h))
	for k := range h {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
