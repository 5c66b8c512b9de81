package grpcface

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"google.golang.org/grpc"

	"github.com/avos-io/facade/face"
)

var (
	unaryStreamDesc  = &grpc.StreamDesc{ServerStreams: true}
	streamUnaryDesc  = &grpc.StreamDesc{ClientStreams: true}
	streamStreamDesc = &grpc.StreamDesc{ClientStreams: true, ServerStreams: true}
)

type unaryUnary struct {
	s      *DynamicStub
	method string
}

func (c *unaryUnary) Call(req any, timeout time.Duration) (any, error) {
	ctx, cancel := c.s.callContext(timeout)
	defer cancel()

	return c.s.invoke(ctx, c.method, req)
}

func (c *unaryUnary) Future(req any, timeout time.Duration) face.Future {
	ctx, cancel := c.s.callContext(timeout)
	return startFuture(ctx, cancel, c.s.clock, func(ctx context.Context) (any, error) {
		return c.s.invoke(ctx, c.method, req)
	})
}

type unaryStream struct {
	s      *DynamicStub
	method string
}

func (c *unaryStream) Call(req any, timeout time.Duration) face.Cursor {
	ctx, cancel := c.s.callContext(timeout)
	cur := newCursor(c.s, c.method, cancel)

	cs, err := c.s.newStream(ctx, unaryStreamDesc, c.method)
	if err != nil {
		cur.fail(faceError(err))
		return cur
	}
	if err := cs.SendMsg(req); err != nil {
		cur.fail(faceError(err))
		return cur
	}
	if err := cs.CloseSend(); err != nil {
		cur.fail(faceError(err))
		return cur
	}
	cur.cs = cs
	return cur
}

type streamUnary struct {
	s      *DynamicStub
	method string
}

func (c *streamUnary) Call(reqs face.RequestIterator, timeout time.Duration) (any, error) {
	ctx, cancel := c.s.callContext(timeout)
	defer cancel()

	return c.call(ctx, reqs)
}

func (c *streamUnary) Future(reqs face.RequestIterator, timeout time.Duration) face.Future {
	ctx, cancel := c.s.callContext(timeout)
	return startFuture(ctx, cancel, c.s.clock, func(ctx context.Context) (any, error) {
		return c.call(ctx, reqs)
	})
}

func (c *streamUnary) call(ctx context.Context, reqs face.RequestIterator) (any, error) {
	reply, err := c.s.newResponse(c.method)
	if err != nil {
		return nil, err
	}
	cs, err := c.s.newStream(ctx, streamUnaryDesc, c.method)
	if err != nil {
		return nil, faceError(err)
	}
	if err := sendAll(cs, reqs); err != nil {
		return nil, err
	}
	if err := cs.RecvMsg(reply); err != nil {
		return nil, faceError(err)
	}
	return reply, nil
}

type streamStream struct {
	s      *DynamicStub
	method string
}

func (c *streamStream) Call(reqs face.RequestIterator, timeout time.Duration) face.Cursor {
	ctx, cancel := c.s.callContext(timeout)
	cur := newCursor(c.s, c.method, cancel)

	cs, err := c.s.newStream(ctx, streamStreamDesc, c.method)
	if err != nil {
		cur.fail(faceError(err))
		return cur
	}
	cur.cs = cs

	go func() {
		if err := sendAll(cs, reqs); err != nil {
			// Receiving would otherwise wait on a server still expecting
			// requests.
			log.Debug().Err(err).Str("method", c.method).Msg("streamStream: send")
			cur.failSend(err)
		}
	}()

	return cur
}
