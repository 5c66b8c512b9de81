package grpcface

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	spb "google.golang.org/genproto/googleapis/rpc/status"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/avos-io/facade/face"
)

var errTest = errors.New("TEST ERROR (EXPECTED)")

func TestFaceError(t *testing.T) {
	tests := []struct {
		code     codes.Code
		abortion face.Abortion
	}{
		{codes.Canceled, face.AbortionCancelled},
		{codes.DeadlineExceeded, face.AbortionExpired},
		{codes.Unavailable, face.AbortionNetworkFailure},
		{codes.Unknown, face.AbortionServicerFailure},
		{codes.Internal, face.AbortionServicerFailure},
		{codes.Unimplemented, face.AbortionServicerFailure},
		{codes.DataLoss, face.AbortionServicerFailure},
		{codes.InvalidArgument, face.AbortionServicedFailure},
		{codes.NotFound, face.AbortionServicedFailure},
		{codes.PermissionDenied, face.AbortionServicedFailure},
		{codes.ResourceExhausted, face.AbortionServicedFailure},
	}

	for _, tt := range tests {
		t.Run(tt.code.String(), func(t *testing.T) {
			is := require.New(t)

			err := faceError(status.FromProto(&spb.Status{
				Code:    int32(tt.code),
				Message: "msg",
			}).Err())

			var rpcErr face.RpcError
			is.True(errors.As(err, &rpcErr))
			got, ok := face.AbortionOf(rpcErr)
			is.True(ok)
			is.Equal(tt.abortion, got)
			is.Contains(err.Error(), "msg")
		})
	}

	t.Run("Nil", func(t *testing.T) {
		require.NoError(t, faceError(nil))
	})

	t.Run("Context", func(t *testing.T) {
		is := require.New(t)

		var cancelled *face.CancellationError
		is.ErrorAs(faceError(context.Canceled), &cancelled)

		var expired *face.ExpirationError
		is.ErrorAs(faceError(fmt.Errorf("wait: %w", context.DeadlineExceeded)), &expired)
	})

	t.Run("Not an rpc error", func(t *testing.T) {
		is := require.New(t)

		err := faceError(errTest)
		is.ErrorIs(err, errTest)

		var rpcErr face.RpcError
		is.False(errors.As(err, &rpcErr))
	})
}

func TestTraceback(t *testing.T) {
	is := require.New(t)

	is.Empty(traceback(nil))
	is.Equal(errTest.Error(), traceback(errTest))

	err := faceError(status.Error(codes.Internal, "servicer exploded"))
	tb := traceback(err)
	is.Contains(tb, "servicer exploded")
	is.Contains(tb, "13")

	// Wrapping does not lose the status.
	is.Equal(tb, traceback(fmt.Errorf("call: %w", err)))
}
