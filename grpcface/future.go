package grpcface

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/avos-io/facade/face"
)

const (
	stateRunning int32 = iota
	stateDone
	stateCancelled
)

// future runs one call on its own goroutine. Its outcome fields are written
// once, before done is closed, and only read after.
type future struct {
	clock  clock.Clock
	cancel context.CancelFunc
	done   chan struct{}
	state  atomic.Int32

	resp  any
	err   error
	trace string
}

var _ face.Future = (*future)(nil)

func startFuture(
	ctx context.Context,
	cancel context.CancelFunc,
	cl clock.Clock,
	call func(context.Context) (any, error),
) *future {
	f := &future{
		clock:  cl,
		cancel: cancel,
		done:   make(chan struct{}),
	}
	go func() {
		resp, err := call(ctx)
		f.complete(resp, err)
	}()
	return f
}

func (f *future) complete(resp any, err error) {
	if !f.state.CompareAndSwap(stateRunning, stateDone) {
		return
	}
	f.resp, f.err = resp, err
	if err != nil {
		f.trace = traceback(err)
	}
	f.cancel()
	close(f.done)
}

// Cancel succeeds only while the call is still running.
func (f *future) Cancel() bool {
	if !f.state.CompareAndSwap(stateRunning, stateCancelled) {
		return false
	}
	f.err = &face.CancellationError{Message: "future cancelled"}
	f.trace = f.err.Error()
	f.cancel()
	close(f.done)
	return true
}

func (f *future) Cancelled() bool {
	return f.state.Load() == stateCancelled
}

func (f *future) Running() bool {
	return f.state.Load() == stateRunning
}

func (f *future) Done() bool {
	return f.state.Load() != stateRunning
}

func (f *future) wait(timeout time.Duration) error {
	if timeout <= 0 {
		<-f.done
		return nil
	}
	select {
	case <-f.done:
		return nil
	default:
	}

	t := f.clock.Timer(timeout)
	defer t.Stop()
	select {
	case <-f.done:
		return nil
	case <-t.C:
		return face.ErrTimeout
	}
}

func (f *future) Result(timeout time.Duration) (any, error) {
	if err := f.wait(timeout); err != nil {
		return nil, err
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.resp, nil
}

func (f *future) Exception(timeout time.Duration) (error, error) {
	if err := f.wait(timeout); err != nil {
		return nil, err
	}
	if f.Cancelled() {
		return nil, f.err
	}
	return f.err, nil
}

func (f *future) Traceback(timeout time.Duration) (string, error) {
	if err := f.wait(timeout); err != nil {
		return "", err
	}
	if f.Cancelled() {
		return "", f.err
	}
	return f.trace, nil
}

// AddDoneCallback delivers fn from its own goroutine once the call is done,
// so registration never blocks and may happen after completion.
func (f *future) AddDoneCallback(fn func(face.Future)) {
	go func() {
		<-f.done
		fn(f)
	}()
}
