package facade

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/avos-io/facade/face"
	"github.com/avos-io/facade/internal/metrics"
)

// ErrorKind classifies a public RPC error.
type ErrorKind int

const (
	KindRpc ErrorKind = iota
	KindCancellation
	KindExpiration
)

func (k ErrorKind) String() string {
	switch k {
	case KindCancellation:
		return "cancellation"
	case KindExpiration:
		return "expiration"
	default:
		return "rpc"
	}
}

// RpcError is the only error type through which RPC failures cross the
// facade. Match it with errors.Is against ErrRpc, ErrCancelled or ErrExpired;
// every RpcError matches ErrRpc.
type RpcError struct {
	Kind ErrorKind

	msg string
}

func (e *RpcError) Error() string {
	if e.msg != "" {
		return e.msg
	}
	switch e.Kind {
	case KindCancellation:
		return "rpc cancelled"
	case KindExpiration:
		return "rpc expired"
	default:
		return "rpc error"
	}
}

// Is reports whether target is a sentinel this error belongs to.
func (e *RpcError) Is(target error) bool {
	t, ok := target.(*RpcError)
	if !ok {
		return false
	}
	return t == ErrRpc || t.Kind == e.Kind
}

var (
	ErrRpc       = &RpcError{Kind: KindRpc}
	ErrCancelled = &RpcError{Kind: KindCancellation}
	ErrExpired   = &RpcError{Kind: KindExpiration}

	// ErrTimeout is the observation error of a blocking wait that timed out
	// before the call completed.
	ErrTimeout = face.ErrTimeout

	ErrUnknownMethod       = errors.New("unknown method")
	ErrCardinalityMismatch = errors.New("cardinality mismatch")
)

// translateError converts an implementation-facing error into the public
// vocabulary. Cancellation and expiration keep their kind; every other
// face.RpcError, including kinds this package has never heard of, becomes a
// generic RpcError. Errors that are not RPC errors pass through unchanged.
func translateError(err error) error {
	if err == nil {
		return nil
	}

	var (
		cancelled *face.CancellationError
		expired   *face.ExpirationError
		rpcErr    face.RpcError
		out       *RpcError
	)
	switch {
	case errors.As(err, &cancelled):
		out = &RpcError{Kind: KindCancellation}
	case errors.As(err, &expired):
		out = &RpcError{Kind: KindExpiration}
	case errors.As(err, &rpcErr):
		out = &RpcError{Kind: KindRpc, msg: rpcErr.Error()}
	default:
		return err
	}

	metrics.TranslatedErrors.WithLabelValues(out.Kind.String()).Inc()
	log.Debug().Err(err).Stringer("kind", out.Kind).Msg("translateError")
	return out
}

// UnknownMethodError is returned when a stub has no method by the requested
// name.
type UnknownMethodError struct {
	Method string
}

func (e *UnknownMethodError) Error() string {
	return fmt.Sprintf("stub has no method %q", e.Method)
}

func (e *UnknownMethodError) Is(target error) bool {
	return target == ErrUnknownMethod
}

// CardinalityMismatchError is returned by the typed stub accessors when the
// method exists with another cardinality.
type CardinalityMismatchError struct {
	Method string
	Want   Cardinality
	Got    Cardinality
}

func (e *CardinalityMismatchError) Error() string {
	return fmt.Sprintf("method %q is %s, not %s", e.Method, e.Got, e.Want)
}

func (e *CardinalityMismatchError) Is(target error) bool {
	return target == ErrCardinalityMismatch
}
