package grpcface

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/avos-io/facade/face"
)

// blockingCall returns a call that completes once release is closed, or
// fails with the context's error if it ends first.
func blockingCall(release <-chan struct{}, resp any, err error) func(context.Context) (any, error) {
	return func(ctx context.Context) (any, error) {
		select {
		case <-release:
			return resp, err
		case <-ctx.Done():
			return nil, faceError(ctx.Err())
		}
	}
}

func newTestFuture(cl clock.Clock, call func(context.Context) (any, error)) *future {
	ctx, cancel := context.WithCancel(context.Background())
	return startFuture(ctx, cancel, cl, call)
}

func TestFutureLifecycle(t *testing.T) {
	t.Run("OK", func(t *testing.T) {
		is := require.New(t)

		release := make(chan struct{})
		f := newTestFuture(clock.New(), blockingCall(release, "resp", nil))

		is.True(f.Running())
		is.False(f.Done())
		is.False(f.Cancelled())

		close(release)

		resp, err := f.Result(0)
		is.NoError(err)
		is.Equal("resp", resp)
		is.True(f.Done())
		is.False(f.Running())

		exc, err := f.Exception(0)
		is.NoError(err)
		is.NoError(exc)

		tb, err := f.Traceback(0)
		is.NoError(err)
		is.Empty(tb)

		is.False(f.Cancel())
	})

	t.Run("Failure", func(t *testing.T) {
		is := require.New(t)

		release := make(chan struct{})
		close(release)
		f := newTestFuture(clock.New(), blockingCall(release, nil,
			faceError(status.Error(codes.DeadlineExceeded, "late"))))

		_, err := f.Result(0)
		var expired *face.ExpirationError
		is.ErrorAs(err, &expired)

		exc, err := f.Exception(0)
		is.NoError(err)
		is.ErrorAs(exc, &expired)
	})

	t.Run("Cancel", func(t *testing.T) {
		is := require.New(t)

		f := newTestFuture(clock.New(), blockingCall(make(chan struct{}), "never", nil))

		is.True(f.Cancel())
		is.False(f.Cancel())
		is.True(f.Cancelled())
		is.True(f.Done())
		is.False(f.Running())

		var cancelled *face.CancellationError
		_, err := f.Result(0)
		is.ErrorAs(err, &cancelled)

		exc, err := f.Exception(0)
		is.Nil(exc)
		is.ErrorAs(err, &cancelled)
	})
}

func TestFutureTimeout(t *testing.T) {
	is := require.New(t)

	cl := clock.NewMock()
	f := newTestFuture(cl, blockingCall(make(chan struct{}), nil, nil))
	defer f.Cancel()

	errc := make(chan error, 1)
	go func() {
		_, err := f.Result(time.Second)
		errc <- err
	}()

	for {
		select {
		case err := <-errc:
			is.ErrorIs(err, face.ErrTimeout)
			is.False(f.Done())
			return
		case <-time.After(time.Millisecond):
			cl.Add(time.Second)
		}
	}
}

func TestFutureDoneCallback(t *testing.T) {
	t.Run("Before completion", func(t *testing.T) {
		is := require.New(t)

		release := make(chan struct{})
		f := newTestFuture(clock.New(), blockingCall(release, 1, nil))

		got := make(chan face.Future, 2)
		f.AddDoneCallback(func(ff face.Future) { got <- ff })
		close(release)

		select {
		case ff := <-got:
			is.Same(f, ff)
		case <-time.After(time.Second):
			t.Fatal("timeout")
		}
	})

	t.Run("After completion", func(t *testing.T) {
		is := require.New(t)

		release := make(chan struct{})
		close(release)
		f := newTestFuture(clock.New(), blockingCall(release, 1, nil))
		_, err := f.Result(0)
		is.NoError(err)

		var calls atomic.Int32
		fired := make(chan struct{})
		f.AddDoneCallback(func(face.Future) {
			calls.Add(1)
			close(fired)
		})

		select {
		case <-fired:
		case <-time.After(time.Second):
			t.Fatal("timeout")
		}
		time.Sleep(10 * time.Millisecond)
		is.Equal(int32(1), calls.Load())
	})

	t.Run("Cancelled", func(t *testing.T) {
		is := require.New(t)

		f := newTestFuture(clock.New(), blockingCall(make(chan struct{}), nil, nil))

		fired := make(chan struct{})
		f.AddDoneCallback(func(ff face.Future) {
			is.True(ff.Cancelled())
			close(fired)
		})
		is.True(f.Cancel())

		select {
		case <-fired:
		case <-time.After(time.Second):
			t.Fatal("timeout")
		}
	})
}
