// Package echo is a small gRPC service with one method of each cardinality,
// described by hand so it needs no generated code. Its messages are
// wrapperspb.StringValue.
package echo

import (
	"context"
	"io"
	"strings"

	"github.com/rs/zerolog/log"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/avos-io/facade"
	"github.com/avos-io/facade/grpcface"
)

const ServiceName = "facade.echo.Echo"

// Qualified method names.
const (
	MethodEcho  = ServiceName + "/Echo"
	MethodSplit = ServiceName + "/Split"
	MethodJoin  = ServiceName + "/Join"
	MethodChat  = ServiceName + "/Chat"
)

// Requests the service treats specially.
const (
	// Stall blocks until the call is aborted by the client.
	Stall = "stall"
	// Fail fails with codes.Internal.
	Fail = "fail"
	// Unavailable fails with codes.Unavailable.
	Unavailable = "unavailable"
	// Invalid fails with codes.InvalidArgument.
	Invalid = "invalid"
)

// Table is the cardinality of every method of the service.
var Table = facade.CardinalityTable{
	MethodEcho:  facade.UnaryUnary,
	MethodSplit: facade.UnaryStream,
	MethodJoin:  facade.StreamUnary,
	MethodChat:  facade.StreamStream,
}

// Methods describes every method of the service to grpcface.
var Methods = map[string]grpcface.MethodDesc{
	MethodEcho:  {NewResponse: newMsg},
	MethodSplit: {NewResponse: newMsg},
	MethodJoin:  {NewResponse: newMsg},
	MethodChat:  {NewResponse: newMsg},
}

func newMsg() any {
	return &wrapperspb.StringValue{}
}

// Service is the handler interface of the echo service.
type Service interface {
	Echo(context.Context, *wrapperspb.StringValue) (*wrapperspb.StringValue, error)
	Split(*wrapperspb.StringValue, grpc.ServerStream) error
	Join(grpc.ServerStream) error
	Chat(grpc.ServerStream) error
}

// Server implements Service.
type Server struct{}

var _ Service = Server{}

// Register registers srv with s.
func Register(s grpc.ServiceRegistrar, srv Service) {
	s.RegisterService(&serviceDesc, srv)
}

// Echo returns its request.
func (Server) Echo(ctx context.Context, req *wrapperspb.StringValue) (*wrapperspb.StringValue, error) {
	if err := special(ctx, req.GetValue()); err != nil {
		return nil, err
	}
	return wrapperspb.String(req.GetValue()), nil
}

// Split streams back each space-separated word of its request.
func (Server) Split(req *wrapperspb.StringValue, stream grpc.ServerStream) error {
	if err := special(stream.Context(), req.GetValue()); err != nil {
		return err
	}
	for _, w := range strings.Fields(req.GetValue()) {
		if err := stream.SendMsg(wrapperspb.String(w)); err != nil {
			return err
		}
	}
	return nil
}

// Join replies with its requests joined by spaces.
func (Server) Join(stream grpc.ServerStream) error {
	var words []string
	for {
		var msg wrapperspb.StringValue
		err := stream.RecvMsg(&msg)
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		if err := special(stream.Context(), msg.GetValue()); err != nil {
			return err
		}
		words = append(words, msg.GetValue())
	}
	return stream.SendMsg(wrapperspb.String(strings.Join(words, " ")))
}

// Chat echoes every request as it arrives.
func (Server) Chat(stream grpc.ServerStream) error {
	for {
		var msg wrapperspb.StringValue
		err := stream.RecvMsg(&msg)
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if err := special(stream.Context(), msg.GetValue()); err != nil {
			return err
		}
		if err := stream.SendMsg(wrapperspb.String(msg.GetValue())); err != nil {
			return err
		}
	}
}

func special(ctx context.Context, value string) error {
	switch value {
	case Stall:
		return stall(ctx)
	case Fail:
		return status.Error(codes.Internal, "echo failed")
	case Unavailable:
		return status.Error(codes.Unavailable, "echo unavailable")
	case Invalid:
		return status.Error(codes.InvalidArgument, "echo refused request")
	}
	return nil
}

// stall waits for the call to be aborted by its client.
func stall(ctx context.Context) (err error) {
	frc, finish := grpcface.NewRpcContext(ctx, nil)
	defer func() { finish(err) }()

	aborted := make(chan facade.Abortion, 1)
	facade.NewRpcContext(frc).AddAbortionCallback(func(a facade.Abortion) {
		aborted <- a
	})
	a := <-aborted
	log.Debug().Stringer("abortion", a).Msg("echo: stalled call aborted")
	if a == facade.Expired {
		return status.Error(codes.DeadlineExceeded, "stalled past deadline")
	}
	return status.Error(codes.Canceled, "stalled call cancelled")
}
