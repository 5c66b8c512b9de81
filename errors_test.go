package facade

import (
	"fmt"
	"io"
	"testing"

	"github.com/pkg/errors"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/avos-io/facade/face"
	"github.com/avos-io/facade/internal/metrics"
)

// quotaError is an RpcError kind this package knows nothing about.
type quotaError struct{}

func (quotaError) Error() string { return "quota exhausted" }
func (quotaError) RpcError()     {}

func TestTranslateError(t *testing.T) {
	tests := []struct {
		name string
		in   error
		want *RpcError
	}{
		{"Cancellation", &face.CancellationError{Message: "bye"}, ErrCancelled},
		{"Expiration", &face.ExpirationError{}, ErrExpired},
		{"Network", &face.NetworkError{Code: 14}, ErrRpc},
		{"Serviced", &face.ServicedError{Code: 3}, ErrRpc},
		{"Servicer", &face.ServicerError{Code: 13}, ErrRpc},
		{"Unknown subtype", quotaError{}, ErrRpc},
		{"Wrapped cancellation", errors.Wrap(&face.CancellationError{}, "call"), ErrCancelled},
		{"Wrapped expiration", fmt.Errorf("call: %w", &face.ExpirationError{}), ErrExpired},
		{"Wrapped unknown", fmt.Errorf("call: %w", quotaError{}), ErrRpc},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			is := require.New(t)

			got := translateError(tt.in)

			var pub *RpcError
			is.True(errors.As(got, &pub))
			is.Equal(tt.want.Kind, pub.Kind)
			is.ErrorIs(got, tt.want)
			is.ErrorIs(got, ErrRpc)

			// Nothing from the face side leaks through.
			var rpcErr face.RpcError
			is.False(errors.As(got, &rpcErr))
		})
	}

	t.Run("Nil", func(t *testing.T) {
		require.NoError(t, translateError(nil))
	})

	t.Run("Not an rpc error", func(t *testing.T) {
		is := require.New(t)

		bug := errors.New("nil message")
		is.Equal(bug, translateError(bug))
		is.Equal(io.EOF, translateError(io.EOF))
		is.Equal(ErrTimeout, translateError(face.ErrTimeout))
	})

	t.Run("Kinds are distinct", func(t *testing.T) {
		is := require.New(t)

		cancelled := translateError(&face.CancellationError{})
		expired := translateError(&face.ExpirationError{})
		generic := translateError(&face.NetworkError{})

		is.NotErrorIs(cancelled, ErrExpired)
		is.NotErrorIs(expired, ErrCancelled)
		is.NotErrorIs(generic, ErrCancelled)
		is.NotErrorIs(generic, ErrExpired)
	})

	t.Run("Counted", func(t *testing.T) {
		is := require.New(t)

		c := metrics.TranslatedErrors.WithLabelValues(KindExpiration.String())
		before := promtest.ToFloat64(c)
		translateError(&face.ExpirationError{})
		is.Equal(before+1, promtest.ToFloat64(c))
	})
}

func TestLookupErrors(t *testing.T) {
	is := require.New(t)

	var err error = &UnknownMethodError{Method: "Nope"}
	is.ErrorIs(err, ErrUnknownMethod)
	is.Contains(err.Error(), "Nope")

	err = &CardinalityMismatchError{Method: "svc/Echo", Want: UnaryStream, Got: UnaryUnary}
	is.ErrorIs(err, ErrCardinalityMismatch)
	is.Contains(err.Error(), "UNARY_UNARY")
}
