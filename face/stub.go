package face

import (
	"context"
	"time"
)

type UnaryUnaryMultiCallable interface {
	Call(req any, timeout time.Duration) (any, error)
	Future(req any, timeout time.Duration) Future
}

type UnaryStreamMultiCallable interface {
	Call(req any, timeout time.Duration) Cursor
}

type StreamUnaryMultiCallable interface {
	Call(reqs RequestIterator, timeout time.Duration) (any, error)
	Future(reqs RequestIterator, timeout time.Duration) Future
}

type StreamStreamMultiCallable interface {
	Call(reqs RequestIterator, timeout time.Duration) Cursor
}

// DynamicStub hands out multi-callables for fully qualified method names of
// the form "service/method". Open and Close bracket the stub's use of its
// underlying connection.
type DynamicStub interface {
	UnaryUnary(method string) UnaryUnaryMultiCallable
	UnaryStream(method string) UnaryStreamMultiCallable
	StreamUnary(method string) StreamUnaryMultiCallable
	StreamStream(method string) StreamStreamMultiCallable

	Open(ctx context.Context) error
	Close() error
}
