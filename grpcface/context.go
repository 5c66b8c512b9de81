package grpcface

import (
	"context"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/pkg/errors"

	"github.com/avos-io/facade/face"
)

// rpcContext is the face.RpcContext of a call whose lifetime is a
// context.Context, as seen by a gRPC handler.
type rpcContext struct {
	ctx   context.Context
	clock clock.Clock

	once     sync.Once
	finished chan struct{}
	err      error // written once, before finished is closed
}

var _ face.RpcContext = (*rpcContext)(nil)

// NewRpcContext returns the per-call context of the call governed by ctx,
// and the func the handler calls with its return error when it is done. A
// nil clock uses the wall clock.
//
// gRPC ends the handler's context however the call ends, so only finish
// tells a normal return from an abortion:
//
//	rc, finish := grpcface.NewRpcContext(ctx, nil)
//	defer func() { finish(err) }()
func NewRpcContext(ctx context.Context, cl clock.Clock) (face.RpcContext, func(error)) {
	if cl == nil {
		cl = clock.New()
	}
	c := &rpcContext{ctx: ctx, clock: cl, finished: make(chan struct{})}
	return c, c.finish
}

func (c *rpcContext) finish(err error) {
	c.once.Do(func() {
		c.err = err
		close(c.finished)
	})
}

func (c *rpcContext) IsActive() bool {
	select {
	case <-c.finished:
		return false
	default:
	}
	return c.ctx.Err() == nil
}

func (c *rpcContext) TimeRemaining() time.Duration {
	deadline, ok := c.ctx.Deadline()
	if !ok {
		return face.Unbounded
	}
	if d := deadline.Sub(c.clock.Now()); d > 0 {
		return d
	}
	return 0
}

// AddAbortionCallback calls cb from its own goroutine if the call aborts:
// its context ends before the handler finishes, or the handler finishes with
// an RPC error. A handler that returns normally never aborts.
func (c *rpcContext) AddAbortionCallback(cb func(face.Abortion)) {
	go func() {
		select {
		case <-c.finished:
		case <-c.ctx.Done():
			// The handler finishes before gRPC ends its context.
			select {
			case <-c.finished:
			default:
				cb(contextAbortion(c.ctx))
				return
			}
		}
		if a, ok := finishAbortion(c.err); ok {
			cb(a)
		}
	}()
}

func contextAbortion(ctx context.Context) face.Abortion {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return face.AbortionExpired
	}
	return face.AbortionCancelled
}

func finishAbortion(err error) (face.Abortion, bool) {
	if err == nil {
		return 0, false
	}
	var rpcErr face.RpcError
	if !errors.As(faceError(err), &rpcErr) {
		// gRPC reports a plain handler error as codes.Unknown.
		return face.AbortionServicerFailure, true
	}
	return face.AbortionOf(rpcErr)
}
