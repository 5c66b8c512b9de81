// Package facade is the public face of an RPC client. It adapts the futures,
// cursors, per-call contexts and errors of an implementation-facing stack
// (package face) into a stable vocabulary, and dispatches each method through
// the calling convention of its cardinality.
//
// Only the error kinds defined here cross the boundary for RPC failures:
// cancellation, expiration and the generic RPC error.
package facade

import (
	"fmt"
	"time"

	"github.com/avos-io/facade/face"
)

// Cardinality is the shape of a remote call: whether its request and its
// response are single values or streams.
type Cardinality int

const (
	UnaryUnary Cardinality = iota
	UnaryStream
	StreamUnary
	StreamStream
)

func (c Cardinality) String() string {
	switch c {
	case UnaryUnary:
		return "UNARY_UNARY"
	case UnaryStream:
		return "UNARY_STREAM"
	case StreamUnary:
		return "STREAM_UNARY"
	case StreamStream:
		return "STREAM_STREAM"
	default:
		return fmt.Sprintf("Cardinality(%d)", int(c))
	}
}

// CardinalityTable maps fully qualified method names ("service/method") to
// their cardinality.
type CardinalityTable map[string]Cardinality

// RequestIterator is a pull-based source of request messages; Next returns
// io.EOF once there are no more.
type RequestIterator = face.RequestIterator

// Future is a handle to an RPC whose response arrives asynchronously.
//
// Blocking methods take a timeout; a timeout <= 0 waits without bound. When a
// wait times out the observation error is ErrTimeout. Errors of the call are
// reported as *RpcError.
type Future interface {
	// Cancel requests cancellation and reports whether it succeeded. It
	// never blocks.
	Cancel() bool
	Cancelled() bool
	Running() bool
	Done() bool

	// Result returns the response, or the error the call failed with.
	Result(timeout time.Duration) (any, error)

	// Exception returns the error the call failed with, or nil if it
	// succeeded. The second value reports a failure to observe the call.
	Exception(timeout time.Duration) (error, error)

	// Traceback returns diagnostic detail of a failed call as reported by
	// the underlying stack.
	Traceback(timeout time.Duration) (string, error)

	// AddDoneCallback registers fn to be called with this Future once the
	// call completes. fn may run on another goroutine.
	AddDoneCallback(fn func(Future))
}

// CancellableIterator is a pull-based sequence of responses that can be
// terminated early. Next returns io.EOF once the sequence is exhausted.
type CancellableIterator interface {
	Next() (any, error)
	Cancel()
}

// RpcContext is the per-call context of an RPC in progress.
type RpcContext interface {
	IsActive() bool
	TimeRemaining() time.Duration

	// AddAbortionCallback registers cb to be called if the RPC is aborted.
	// cb may run on another goroutine.
	AddAbortionCallback(cb func(Abortion))
}
