package facade

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/avos-io/facade/face"
	"github.com/avos-io/facade/internal/testutil"
)

func TestFuture(t *testing.T) {
	t.Run("Result", func(t *testing.T) {
		is := require.New(t)

		tf := testutil.NewTestFuture()
		fut := newFuture(tf)
		is.True(fut.Running())
		is.False(fut.Done())

		tf.Complete("hi", nil)

		got, err := fut.Result(time.Second)
		is.NoError(err)
		is.Equal("hi", got)
		is.True(fut.Done())
		is.False(fut.Running())
		is.False(fut.Cancelled())

		exc, err := fut.Exception(time.Second)
		is.NoError(err)
		is.NoError(exc)
	})

	t.Run("Expiration", func(t *testing.T) {
		is := require.New(t)

		tf := testutil.NewTestFuture()
		fut := newFuture(tf)
		tf.Complete(nil, &face.ExpirationError{Message: "too slow"})

		got, err := fut.Result(time.Second)
		is.Nil(got)
		is.ErrorIs(err, ErrExpired)

		exc, err := fut.Exception(time.Second)
		is.NoError(err)
		is.ErrorIs(exc, ErrExpired)

		var fromResult, fromException *RpcError
		_, rerr := fut.Result(time.Second)
		is.ErrorAs(rerr, &fromResult)
		is.ErrorAs(exc, &fromException)
		is.Equal(fromResult, fromException)
	})

	t.Run("Unknown error kind", func(t *testing.T) {
		is := require.New(t)

		tf := testutil.NewTestFuture()
		fut := newFuture(tf)
		tf.Complete(nil, quotaError{})

		exc, err := fut.Exception(0)
		is.NoError(err)
		is.ErrorIs(exc, ErrRpc)
		is.NotErrorIs(exc, ErrCancelled)
	})

	t.Run("Translated at observation", func(t *testing.T) {
		is := require.New(t)

		tf := testutil.NewTestFuture()
		fut := newFuture(tf)
		// Nothing to translate until the wrapped future fails.
		tf.Complete(nil, &face.CancellationError{})

		_, err := fut.Result(0)
		is.ErrorIs(err, ErrCancelled)
	})

	t.Run("Timeout", func(t *testing.T) {
		is := require.New(t)

		fut := newFuture(testutil.NewTestFuture())

		_, err := fut.Result(10 * time.Millisecond)
		is.ErrorIs(err, ErrTimeout)

		exc, err := fut.Exception(10 * time.Millisecond)
		is.Nil(exc)
		is.ErrorIs(err, ErrTimeout)

		_, err = fut.Traceback(10 * time.Millisecond)
		is.ErrorIs(err, ErrTimeout)
	})

	t.Run("Cancel", func(t *testing.T) {
		is := require.New(t)

		tf := testutil.NewTestFuture()
		fut := newFuture(tf)

		is.True(fut.Cancel())
		is.True(fut.Cancelled())
		is.True(fut.Done())
		is.False(fut.Cancel())

		_, err := fut.Result(0)
		is.ErrorIs(err, ErrCancelled)

		exc, err := fut.Exception(0)
		is.Nil(exc)
		is.ErrorIs(err, ErrCancelled)
	})

	t.Run("Cancel after completion", func(t *testing.T) {
		is := require.New(t)

		tf := testutil.NewTestFuture()
		fut := newFuture(tf)
		tf.Complete(1, nil)

		is.False(fut.Cancel())
		is.False(fut.Cancelled())
	})

	t.Run("Traceback", func(t *testing.T) {
		is := require.New(t)

		tf := testutil.NewTestFuture()
		fut := newFuture(tf)
		tf.Complete(nil, &face.ServicerError{Code: 13, Message: "boom"})

		tb, err := fut.Traceback(0)
		is.NoError(err)
		is.Contains(tb, "boom")
	})
}

func TestFutureDoneCallback(t *testing.T) {
	t.Run("Receives adapter", func(t *testing.T) {
		is := require.New(t)

		tf := testutil.NewTestFuture()
		fut := newFuture(tf)

		got := make(chan Future, 2)
		fut.AddDoneCallback(func(f Future) { got <- f })

		tf.Complete("done", nil)
		tf.Complete("again", nil)

		select {
		case f := <-got:
			is.Same(fut, f)
			resp, err := f.Result(0)
			is.NoError(err)
			is.Equal("done", resp)
		case <-time.After(time.Second):
			t.Fatal("timeout")
		}

		select {
		case <-got:
			t.Fatal("callback fired twice")
		case <-time.After(20 * time.Millisecond):
		}
	})

	t.Run("Each callback once", func(t *testing.T) {
		is := require.New(t)

		tf := testutil.NewTestFuture()
		fut := newFuture(tf)

		var a, b atomic.Int32
		fut.AddDoneCallback(func(Future) { a.Add(1) })
		fut.AddDoneCallback(func(Future) { b.Add(1) })

		tf.Complete(nil, &face.NetworkError{})
		tf.Complete(nil, nil)

		is.Equal(int32(1), a.Load())
		is.Equal(int32(1), b.Load())
	})

	t.Run("After completion", func(t *testing.T) {
		is := require.New(t)

		tf := testutil.NewTestFuture()
		fut := newFuture(tf)
		tf.Complete(nil, &face.ExpirationError{})

		var got Future
		fut.AddDoneCallback(func(f Future) { got = f })
		is.Same(fut, got)

		exc, err := got.Exception(0)
		is.NoError(err)
		is.ErrorIs(exc, ErrExpired)
	})
}
