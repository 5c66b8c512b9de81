package grpcface

import (
	"context"

	"github.com/pkg/errors"
	spb "google.golang.org/genproto/googleapis/rpc/status"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/encoding/prototext"

	"github.com/avos-io/facade/face"
)

// faceError maps a gRPC error onto the face error hierarchy. Errors that
// carry no gRPC status and are not context errors are not RPC failures; they
// come back wrapped but otherwise untouched.
func faceError(err error) error {
	if err == nil {
		return nil
	}
	if st, ok := status.FromError(err); ok {
		fe := fromStatus(st)
		if fe == nil {
			return nil
		}
		return &tracedError{err: fe, trace: formatStatus(st.Proto())}
	}
	switch {
	case errors.Is(err, context.Canceled):
		return &face.CancellationError{Message: err.Error()}
	case errors.Is(err, context.DeadlineExceeded):
		return &face.ExpirationError{Message: err.Error()}
	}
	return errors.Wrap(err, "grpcface")
}

func fromStatus(st *status.Status) error {
	code, msg := int(st.Code()), st.Message()
	switch st.Code() {
	case codes.OK:
		return nil
	case codes.Canceled:
		return &face.CancellationError{Message: msg}
	case codes.DeadlineExceeded:
		return &face.ExpirationError{Message: msg}
	case codes.Unavailable:
		return &face.NetworkError{Code: code, Message: msg}
	case codes.Unknown, codes.Internal, codes.Unimplemented, codes.DataLoss:
		return &face.ServicerError{Code: code, Message: msg}
	default:
		return &face.ServicedError{Code: code, Message: msg}
	}
}

// tracedError keeps the status a face error was made from, for Traceback.
type tracedError struct {
	err   error
	trace string
}

func (e *tracedError) Error() string {
	return e.err.Error()
}

func (e *tracedError) Unwrap() error {
	return e.err
}

func formatStatus(p *spb.Status) string {
	return prototext.Format(p)
}

// traceback returns the diagnostic detail of a call error: the status it was
// made from when there is one, its text otherwise.
func traceback(err error) string {
	if err == nil {
		return ""
	}
	var te *tracedError
	if errors.As(err, &te) {
		return te.trace
	}
	return err.Error()
}
