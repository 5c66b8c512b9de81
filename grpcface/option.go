package grpcface

import (
	"github.com/benbjohnson/clock"
	"google.golang.org/grpc"
)

// Option is an option used when constructing a NewDynamicStub.
type Option interface {
	apply(*DynamicStub)
}

type optFunc func(*DynamicStub)

func (fn optFunc) apply(s *DynamicStub) {
	fn(s)
}

// WithUnaryInterceptor adds an interceptor for unary RPCs. Interceptors run
// in the order they were added, the first being the outermost.
//
// WARNING: interceptors are called with a nil *grpc.ClientConn, since the
// stub only holds a grpc.ClientConnInterface.
func WithUnaryInterceptor(is ...grpc.UnaryClientInterceptor) Option {
	return optFunc(func(s *DynamicStub) {
		s.unaryInterceptors = append(s.unaryInterceptors, is...)
	})
}

// WithStreamInterceptor adds an interceptor for streaming RPCs, with the same
// ordering as WithUnaryInterceptor.
func WithStreamInterceptor(is ...grpc.StreamClientInterceptor) Option {
	return optFunc(func(s *DynamicStub) {
		s.streamInterceptors = append(s.streamInterceptors, is...)
	})
}

// WithCallOptions sets grpc.CallOptions passed to every call.
func WithCallOptions(opts ...grpc.CallOption) Option {
	return optFunc(func(s *DynamicStub) {
		s.callOpts = append(s.callOpts, opts...)
	})
}

// WithClock sets the clock used to time out blocking waits on futures.
func WithClock(cl clock.Clock) Option {
	return optFunc(func(s *DynamicStub) {
		s.clock = cl
	})
}

// WithoutConnClose keeps Close from closing the underlying connection.
func WithoutConnClose() Option {
	return optFunc(func(s *DynamicStub) {
		s.closeConn = false
	})
}
