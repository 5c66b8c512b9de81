// Package face is the implementation-facing RPC vocabulary: the futures,
// cursors, per-call contexts and errors produced by a concrete RPC stack.
//
// Callers of the public API never see these types; package facade adapts
// them at its boundary.
package face

import (
	"math"
	"time"
)

// Unbounded is the time remaining reported for a call without a deadline.
const Unbounded = time.Duration(math.MaxInt64)

// Abortion describes why an RPC ended without a normal response.
type Abortion int

const (
	AbortionCancelled Abortion = iota + 1
	AbortionExpired
	AbortionNetworkFailure
	AbortionServicedFailure
	AbortionServicerFailure
)

// Abortions lists every known Abortion in declaration order.
var Abortions = []Abortion{
	AbortionCancelled,
	AbortionExpired,
	AbortionNetworkFailure,
	AbortionServicedFailure,
	AbortionServicerFailure,
}

func (a Abortion) String() string {
	switch a {
	case AbortionCancelled:
		return "cancelled"
	case AbortionExpired:
		return "expired"
	case AbortionNetworkFailure:
		return "network failure"
	case AbortionServicedFailure:
		return "serviced failure"
	case AbortionServicerFailure:
		return "servicer failure"
	default:
		return "unknown abortion"
	}
}

// Future is a handle to an RPC whose single response arrives asynchronously.
//
// A timeout <= 0 waits without bound.
type Future interface {
	Cancel() bool
	Cancelled() bool
	Running() bool
	Done() bool

	// Result blocks until the call completes and returns its response or the
	// error the call failed with.
	Result(timeout time.Duration) (any, error)

	// Exception blocks until the call completes and returns the error the
	// call failed with, or nil. The second return reports a failure to
	// observe the call (timeout or cancellation).
	Exception(timeout time.Duration) (error, error)

	// Traceback returns diagnostic detail for a failed call.
	Traceback(timeout time.Duration) (string, error)

	// AddDoneCallback registers fn to run once the call completes. fn runs
	// promptly if the call has already completed.
	AddDoneCallback(fn func(Future))
}

// Cursor is a pull-based view of a response stream. Next returns io.EOF once
// the stream is exhausted.
type Cursor interface {
	Next() (any, error)
	Cancel()
}

// RequestIterator is a pull-based source of request messages. Next returns
// io.EOF once there are no more requests.
type RequestIterator interface {
	Next() (any, error)
}

// RpcContext is the per-call context of an RPC in progress.
type RpcContext interface {
	IsActive() bool
	TimeRemaining() time.Duration
	AddAbortionCallback(cb func(Abortion))
}
