package grpcface

import (
	"context"
	"io"
	"sync/atomic"

	"github.com/pkg/errors"
	"google.golang.org/grpc"

	"github.com/avos-io/facade/face"
)

// cursor reads the responses of a server-streaming call. Next is meant for a
// single reader; Cancel may be called from anywhere.
type cursor struct {
	s      *DynamicStub
	method string

	cs     grpc.ClientStream
	cancel context.CancelFunc

	cancelled atomic.Bool
	sendErr   atomic.Pointer[error]
	err       error // terminal: io.EOF or the error the stream ended with
}

var _ face.Cursor = (*cursor)(nil)

func newCursor(s *DynamicStub, method string, cancel context.CancelFunc) *cursor {
	return &cursor{s: s, method: method, cancel: cancel}
}

func (c *cursor) fail(err error) {
	c.err = err
	c.cancel()
}

// failSend records why sending requests stopped, then ends the call.
func (c *cursor) failSend(err error) {
	c.sendErr.Store(&err)
	c.cancel()
}

func (c *cursor) Next() (any, error) {
	if c.cancelled.Load() {
		return nil, &face.CancellationError{Message: "cursor cancelled"}
	}
	if c.err != nil {
		return nil, c.err
	}

	reply, err := c.s.newResponse(c.method)
	if err != nil {
		return nil, err
	}
	if err := c.cs.RecvMsg(reply); err != nil {
		if errors.Is(err, io.EOF) {
			c.fail(io.EOF)
			return nil, io.EOF
		}
		if sendErr := c.sendErr.Load(); sendErr != nil {
			c.fail(*sendErr)
			return nil, c.err
		}
		if c.cancelled.Load() {
			return nil, &face.CancellationError{Message: "cursor cancelled"}
		}
		c.fail(faceError(err))
		return nil, c.err
	}
	return reply, nil
}

// Cancel ends the call. It is safe to call more than once and after the
// stream is exhausted.
func (c *cursor) Cancel() {
	if c.cancelled.CompareAndSwap(false, true) {
		c.cancel()
	}
}
