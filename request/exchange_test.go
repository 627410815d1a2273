// Copyright 2021 The httpfn Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package request

import (
	"errors"
	"net/http"
	"net/url"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResult(t *testing.T) {
	t.Run("nil Result", func(t *testing.T) {
		var r *Result
		assert.Equal(t, 0, r.StatusCode())
		assert.Nil(t, r.Header())
	})
	t.Run("no Response", func(t *testing.T) {
		r := &Result{}
		assert.Equal(t, 0, r.StatusCode())
		assert.Nil(t, r.Header())
	})
	t.Run("with Response", func(t *testing.T) {
		h := http.Header{"Location": {"/next"}}
		r := &Result{Response: &http.Response{StatusCode: 302, Header: h}}
		assert.Equal(t, 302, r.StatusCode())
		assert.Equal(t, h, r.Header())
	})
}

func TestExchange_StatusCode(t *testing.T) {
	x := &Exchange{}
	t.Run("no Result", func(t *testing.T) {
		require.Nil(t, x.Result)
		assert.Equal(t, 0, x.StatusCode())
	})
	t.Run("with Result", func(t *testing.T) {
		x.Result = &Result{Response: &http.Response{StatusCode: 999}}
		assert.Equal(t, 999, x.StatusCode())
	})
}

func TestExchange_Header(t *testing.T) {
	x := &Exchange{}
	t.Run("no Result", func(t *testing.T) {
		require.Nil(t, x.Result)
		assert.Nil(t, x.Header())
		assert.Empty(t, x.Header().Get("foo"))
	})
	t.Run("with Result", func(t *testing.T) {
		h := http.Header{
			"Foo": []string{"bar"},
			"Ham": []string{"eggs", "spam"},
		}
		x.Result = &Result{Response: &http.Response{Header: h}}
		assert.Equal(t, h, x.Header())
		assert.Equal(t, []string{"eggs", "spam"}, x.Header()["Ham"])
	})
}

func TestExchange_TimeMethods(t *testing.T) {
	t.Run("not started", func(t *testing.T) {
		x := &Exchange{}
		assert.False(t, x.Started())
		assert.False(t, x.Ended())
		assert.Equal(t, time.Duration(0), x.Duration())
	})
	t.Run("started but not ended", func(t *testing.T) {
		x := &Exchange{}
		x.Start = time.Now()
		assert.True(t, x.Started())
		assert.False(t, x.Ended())
		time.Sleep(2*time.Millisecond + 50*time.Microsecond)
		d := x.Duration()
		assert.LessOrEqual(t, d, time.Since(x.Start))
		assert.GreaterOrEqual(t, d, 2*time.Millisecond)
	})
	t.Run("ended", func(t *testing.T) {
		x := &Exchange{}
		x.Start = time.Now()
		time.Sleep(2*time.Millisecond + 50*time.Microsecond)
		x.End = time.Now()
		d := x.Duration()
		assert.Greater(t, d, 2*time.Millisecond)
		assert.True(t, x.Ended())
		time.Sleep(2*time.Millisecond + 50*time.Microsecond)
		assert.Equal(t, d, x.Duration())
	})
}

func TestExchange_Timeout(t *testing.T) {
	t.Run("no error", func(t *testing.T) {
		assert.False(t, (&Exchange{}).Timeout())
	})
	t.Run("generic error not timeout", func(t *testing.T) {
		assert.False(t, (&Exchange{Err: errors.New("foo")}).Timeout())
	})
	t.Run("direct timeout", func(t *testing.T) {
		assert.True(t, (&Exchange{Err: syscall.ETIMEDOUT}).Timeout())
	})
	t.Run("indirect timeout", func(t *testing.T) {
		x := &Exchange{
			Err: &url.Error{
				Err: syscall.ETIMEDOUT,
			},
		}
		assert.True(t, x.Timeout())
	})
}

func TestExchange_Value(t *testing.T) {
	t.Run("new Exchange", func(t *testing.T) {
		x := &Exchange{}
		assert.Nil(t, x.Value("foo"))
		x.SetValue("foo", "bar")
		assert.Equal(t, "bar", x.Value("foo"))
	})
	t.Run("different keys", func(t *testing.T) {
		x := &Exchange{}
		x.SetValue("funky", "foo")
		x.SetValue(funKey{}, "bar")
		x.SetValue(funkyKey{}, "baz")
		assert.Equal(t, "foo", x.Value("funky"))
		assert.Equal(t, "bar", x.Value(funKey{}))
		assert.Equal(t, "baz", x.Value(funkyKey{}))
	})
	t.Run("same key multiple times", func(t *testing.T) {
		x := &Exchange{}
		x.SetValue(funKey{}, "ham")
		x.SetValue(funkyKey{}, "eggs")
		x.SetValue(funKey{}, "spam")
		assert.Equal(t, "spam", x.Value(funKey{}))
		assert.Equal(t, "eggs", x.Value(funkyKey{}))
	})
}

type funKey struct{}

type funkyKey struct{}
