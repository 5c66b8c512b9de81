// Package grpcface implements the face vocabulary on top of a
// grpc.ClientConnInterface, so that a facade.Stub can drive real gRPC
// services.
package grpcface

import (
	"context"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	grpcMiddleware "github.com/grpc-ecosystem/go-grpc-middleware"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"google.golang.org/grpc"

	"github.com/avos-io/facade/face"
)

// MethodDesc describes what the stub needs to know about a method beyond its
// name.
type MethodDesc struct {
	// NewResponse allocates a message to decode a response into.
	NewResponse func() any
}

// DynamicStub is a face.DynamicStub which issues calls over a
// grpc.ClientConnInterface.
type DynamicStub struct {
	cc      grpc.ClientConnInterface
	methods map[string]MethodDesc

	unaryInterceptors  []grpc.UnaryClientInterceptor
	streamInterceptors []grpc.StreamClientInterceptor
	unaryInterceptor   grpc.UnaryClientInterceptor
	streamInterceptor  grpc.StreamClientInterceptor

	callOpts  []grpc.CallOption
	clock     clock.Clock
	closeConn bool

	base struct {
		sync.Mutex
		ctx    context.Context
		cancel context.CancelFunc
	}
}

var _ face.DynamicStub = (*DynamicStub)(nil)

// NewDynamicStub returns a stub for methods, keyed by "service/method", over
// cc.
func NewDynamicStub(cc grpc.ClientConnInterface, methods map[string]MethodDesc, opts ...Option) *DynamicStub {
	s := &DynamicStub{
		cc:        cc,
		methods:   methods,
		clock:     clock.New(),
		closeConn: true,
	}
	s.base.ctx = context.Background()

	for _, opt := range opts {
		opt.apply(s)
	}

	switch len(s.unaryInterceptors) {
	case 0:
	case 1:
		s.unaryInterceptor = s.unaryInterceptors[0]
	default:
		s.unaryInterceptor = grpcMiddleware.ChainUnaryClient(s.unaryInterceptors...)
	}
	switch len(s.streamInterceptors) {
	case 0:
	case 1:
		s.streamInterceptor = s.streamInterceptors[0]
	default:
		s.streamInterceptor = grpcMiddleware.ChainStreamClient(s.streamInterceptors...)
	}

	return s
}

// Open scopes every subsequent call to ctx: cancelling ctx, or calling Close,
// cancels calls still in flight.
func (s *DynamicStub) Open(ctx context.Context) error {
	s.base.Lock()
	defer s.base.Unlock()

	if s.base.cancel != nil {
		return errors.New("grpcface: stub already open")
	}
	s.base.ctx, s.base.cancel = context.WithCancel(ctx)
	return nil
}

// Close cancels calls in flight and, unless WithoutConnClose was given,
// closes the connection if it is an io.Closer.
func (s *DynamicStub) Close() error {
	s.base.Lock()
	if s.base.cancel != nil {
		s.base.cancel()
		s.base.cancel = nil
	}
	s.base.ctx = context.Background()
	s.base.Unlock()

	if !s.closeConn {
		return nil
	}
	if c, ok := s.cc.(io.Closer); ok {
		if err := c.Close(); err != nil {
			return errors.Wrap(err, "grpcface: close conn")
		}
	}
	return nil
}

func (s *DynamicStub) UnaryUnary(method string) face.UnaryUnaryMultiCallable {
	return &unaryUnary{s: s, method: method}
}

func (s *DynamicStub) UnaryStream(method string) face.UnaryStreamMultiCallable {
	return &unaryStream{s: s, method: method}
}

func (s *DynamicStub) StreamUnary(method string) face.StreamUnaryMultiCallable {
	return &streamUnary{s: s, method: method}
}

func (s *DynamicStub) StreamStream(method string) face.StreamStreamMultiCallable {
	return &streamStream{s: s, method: method}
}

// callContext derives the context of a single call from the stub's base
// context.
func (s *DynamicStub) callContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	s.base.Lock()
	parent := s.base.ctx
	s.base.Unlock()

	if timeout > 0 {
		return context.WithTimeout(parent, timeout)
	}
	return context.WithCancel(parent)
}

func (s *DynamicStub) newResponse(method string) (any, error) {
	desc, ok := s.methods[method]
	if !ok || desc.NewResponse == nil {
		return nil, errors.Errorf("grpcface: no response type for %q", method)
	}
	return desc.NewResponse(), nil
}

func (s *DynamicStub) invoke(ctx context.Context, method string, req any) (any, error) {
	reply, err := s.newResponse(method)
	if err != nil {
		return nil, err
	}

	fullMethod := fullMethodName(method)
	if s.unaryInterceptor != nil {
		err = s.unaryInterceptor(ctx, fullMethod, req, reply, nil, s.asInvoker, s.callOpts...)
	} else {
		err = s.cc.Invoke(ctx, fullMethod, req, reply, s.callOpts...)
	}
	if err != nil {
		log.Debug().Err(err).Str("method", method).Msg("invoke")
		return nil, faceError(err)
	}
	return reply, nil
}

func (s *DynamicStub) asInvoker(
	ctx context.Context,
	method string,
	req, reply interface{},
	_ *grpc.ClientConn,
	opts ...grpc.CallOption,
) error {
	return s.cc.Invoke(ctx, method, req, reply, opts...)
}

func (s *DynamicStub) newStream(ctx context.Context, desc *grpc.StreamDesc, method string) (grpc.ClientStream, error) {
	fullMethod := fullMethodName(method)
	if s.streamInterceptor != nil {
		return s.streamInterceptor(ctx, desc, nil, fullMethod, s.asStreamer, s.callOpts...)
	}
	return s.cc.NewStream(ctx, desc, fullMethod, s.callOpts...)
}

func (s *DynamicStub) asStreamer(
	ctx context.Context,
	desc *grpc.StreamDesc,
	_ *grpc.ClientConn,
	method string,
	opts ...grpc.CallOption,
) (grpc.ClientStream, error) {
	return s.cc.NewStream(ctx, desc, method, opts...)
}

// sendAll sends every request of reqs on cs and half-closes it. A send that
// fails with io.EOF means the server has already ended the call; the real
// outcome is left for RecvMsg to report.
func sendAll(cs grpc.ClientStream, reqs face.RequestIterator) error {
	for {
		req, err := reqs.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return errors.Wrap(err, "grpcface: request iterator")
		}
		if err := cs.SendMsg(req); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return faceError(err)
		}
	}
	if err := cs.CloseSend(); err != nil {
		return faceError(err)
	}
	return nil
}

// fullMethodName turns "service/method" into gRPC's "/service/method".
func fullMethodName(method string) string {
	if strings.HasPrefix(method, "/") {
		return method
	}
	return "/" + method
}
