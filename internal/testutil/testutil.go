// Package testutil holds in-memory face implementations for tests.
package testutil

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/avos-io/facade/face"
)

// TestFuture is a face.Future completed by hand. Callbacks run on the
// goroutine that completes it, or on the registering goroutine if it is
// already done.
type TestFuture struct {
	mu        sync.Mutex
	done      chan struct{}
	finished  bool
	cancelled bool
	resp      any
	err       error
	trace     string
	callbacks []func(face.Future)
}

var _ face.Future = (*TestFuture)(nil)

func NewTestFuture() *TestFuture {
	return &TestFuture{done: make(chan struct{})}
}

// Complete finishes the future with resp or err. Only the first completion
// (or cancellation) counts.
func (f *TestFuture) Complete(resp any, err error) {
	f.finish(func() {
		f.resp, f.err = resp, err
		if err != nil {
			f.trace = "trace: " + err.Error()
		}
	})
}

func (f *TestFuture) finish(set func()) bool {
	f.mu.Lock()
	if f.finished {
		f.mu.Unlock()
		return false
	}
	f.finished = true
	set()
	callbacks := f.callbacks
	f.callbacks = nil
	close(f.done)
	f.mu.Unlock()

	for _, cb := range callbacks {
		cb(f)
	}
	return true
}

func (f *TestFuture) Cancel() bool {
	return f.finish(func() {
		f.cancelled = true
		f.err = &face.CancellationError{Message: "test future cancelled"}
	})
}

func (f *TestFuture) Cancelled() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.cancelled
}

func (f *TestFuture) Running() bool {
	return !f.Done()
}

func (f *TestFuture) Done() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.finished
}

func (f *TestFuture) wait(timeout time.Duration) error {
	if timeout <= 0 {
		<-f.done
		return nil
	}
	select {
	case <-f.done:
		return nil
	case <-time.After(timeout):
		return face.ErrTimeout
	}
}

func (f *TestFuture) Result(timeout time.Duration) (any, error) {
	if err := f.wait(timeout); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.resp, f.err
}

func (f *TestFuture) Exception(timeout time.Duration) (error, error) {
	if err := f.wait(timeout); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.cancelled {
		return nil, f.err
	}
	return f.err, nil
}

func (f *TestFuture) Traceback(timeout time.Duration) (string, error) {
	if err := f.wait(timeout); err != nil {
		return "", err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.trace, nil
}

func (f *TestFuture) AddDoneCallback(fn func(face.Future)) {
	f.mu.Lock()
	if !f.finished {
		f.callbacks = append(f.callbacks, fn)
		f.mu.Unlock()
		return
	}
	f.mu.Unlock()
	fn(f)
}

// TestCursor is a face.Cursor fed through ReadChan. Closing ReadChan ends the
// stream.
type TestCursor struct {
	ReadChan chan ReadReturn

	mu        sync.Mutex
	cancelled bool
	Cancels   int
}

type ReadReturn struct {
	Msg any
	Err error
}

var _ face.Cursor = (*TestCursor)(nil)

func NewTestCursor() *TestCursor {
	return &TestCursor{ReadChan: make(chan ReadReturn)}
}

// NewTestCursorOf returns a cursor that yields msgs and then io.EOF.
func NewTestCursorOf(msgs ...any) *TestCursor {
	c := &TestCursor{ReadChan: make(chan ReadReturn, len(msgs))}
	for _, m := range msgs {
		c.ReadChan <- ReadReturn{Msg: m}
	}
	close(c.ReadChan)
	return c
}

func (c *TestCursor) Next() (any, error) {
	c.mu.Lock()
	cancelled := c.cancelled
	c.mu.Unlock()
	if cancelled {
		return nil, &face.CancellationError{Message: "test cursor cancelled"}
	}

	rr, ok := <-c.ReadChan
	if !ok {
		return nil, io.EOF
	}
	return rr.Msg, rr.Err
}

func (c *TestCursor) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cancelled = true
	c.Cancels++
}

// TestRpcContext is a face.RpcContext aborted by hand.
type TestRpcContext struct {
	Active    bool
	Remaining time.Duration

	mu        sync.Mutex
	callbacks []func(face.Abortion)
}

var _ face.RpcContext = (*TestRpcContext)(nil)

func (x *TestRpcContext) IsActive() bool {
	return x.Active
}

func (x *TestRpcContext) TimeRemaining() time.Duration {
	return x.Remaining
}

func (x *TestRpcContext) AddAbortionCallback(cb func(face.Abortion)) {
	x.mu.Lock()
	defer x.mu.Unlock()
	x.callbacks = append(x.callbacks, cb)
}

// Abort calls every registered callback with a, in registration order.
func (x *TestRpcContext) Abort(a face.Abortion) {
	x.mu.Lock()
	callbacks := append([]func(face.Abortion){}, x.callbacks...)
	x.mu.Unlock()

	for _, cb := range callbacks {
		cb(a)
	}
}

// MockStub is a face.DynamicStub. Open and Close are mocked; multi-callables
// come from the Unary*/Stream* maps.
type MockStub struct {
	mock.Mock

	UnaryUnaries  map[string]face.UnaryUnaryMultiCallable
	UnaryStreams  map[string]face.UnaryStreamMultiCallable
	StreamUnaries map[string]face.StreamUnaryMultiCallable
	StreamStreams map[string]face.StreamStreamMultiCallable
}

var _ face.DynamicStub = (*MockStub)(nil)

func NewMockStub() *MockStub {
	return &MockStub{
		UnaryUnaries:  map[string]face.UnaryUnaryMultiCallable{},
		UnaryStreams:  map[string]face.UnaryStreamMultiCallable{},
		StreamUnaries: map[string]face.StreamUnaryMultiCallable{},
		StreamStreams: map[string]face.StreamStreamMultiCallable{},
	}
}

func (s *MockStub) UnaryUnary(method string) face.UnaryUnaryMultiCallable {
	return s.UnaryUnaries[method]
}

func (s *MockStub) UnaryStream(method string) face.UnaryStreamMultiCallable {
	return s.UnaryStreams[method]
}

func (s *MockStub) StreamUnary(method string) face.StreamUnaryMultiCallable {
	return s.StreamUnaries[method]
}

func (s *MockStub) StreamStream(method string) face.StreamStreamMultiCallable {
	return s.StreamStreams[method]
}

func (s *MockStub) Open(ctx context.Context) error {
	args := s.Called(ctx)
	return args.Error(0)
}

func (s *MockStub) Close() error {
	args := s.Called()
	return args.Error(0)
}

// UnaryUnaryFunc is a face.UnaryUnaryMultiCallable backed by a function.
// Future runs the function on a new goroutine.
type UnaryUnaryFunc func(req any, timeout time.Duration) (any, error)

func (fn UnaryUnaryFunc) Call(req any, timeout time.Duration) (any, error) {
	return fn(req, timeout)
}

func (fn UnaryUnaryFunc) Future(req any, timeout time.Duration) face.Future {
	f := NewTestFuture()
	go func() {
		f.Complete(fn(req, timeout))
	}()
	return f
}

// UnaryStreamFunc is a face.UnaryStreamMultiCallable backed by a function.
type UnaryStreamFunc func(req any, timeout time.Duration) face.Cursor

func (fn UnaryStreamFunc) Call(req any, timeout time.Duration) face.Cursor {
	return fn(req, timeout)
}

// StreamUnaryFunc is a face.StreamUnaryMultiCallable backed by a function.
type StreamUnaryFunc func(reqs face.RequestIterator, timeout time.Duration) (any, error)

func (fn StreamUnaryFunc) Call(reqs face.RequestIterator, timeout time.Duration) (any, error) {
	return fn(reqs, timeout)
}

func (fn StreamUnaryFunc) Future(reqs face.RequestIterator, timeout time.Duration) face.Future {
	f := NewTestFuture()
	go func() {
		f.Complete(fn(reqs, timeout))
	}()
	return f
}

// StreamStreamFunc is a face.StreamStreamMultiCallable backed by a function.
type StreamStreamFunc func(reqs face.RequestIterator, timeout time.Duration) face.Cursor

func (fn StreamStreamFunc) Call(reqs face.RequestIterator, timeout time.Duration) face.Cursor {
	return fn(reqs, timeout)
}

// Drain reads reqs to the end.
func Drain(reqs face.RequestIterator) ([]any, error) {
	var out []any
	for {
		req, err := reqs.Next()
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return out, err
		}
		out = append(out, req)
	}
}
