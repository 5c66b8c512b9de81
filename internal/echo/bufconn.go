package echo

import (
	"context"
	"net"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/test/bufconn"
)

const bufSize = 1 << 20

// StartBufconn serves Server over an in-memory listener and dials it. The
// returned teardown stops the server; the caller owns the conn.
func StartBufconn(opts ...grpc.ServerOption) (*grpc.ClientConn, func(), error) {
	return ServeBufconn(Server{}, opts...)
}

// ServeBufconn is StartBufconn for any implementation of the echo service.
func ServeBufconn(svc Service, opts ...grpc.ServerOption) (*grpc.ClientConn, func(), error) {
	lis := bufconn.Listen(bufSize)

	srv := grpc.NewServer(opts...)
	Register(srv, svc)

	go func() {
		if err := srv.Serve(lis); err != nil {
			log.Error().Err(err).Msg("echo: bufconn serve")
		}
	}()

	conn, err := grpc.DialContext(
		context.Background(),
		"bufnet",
		grpc.WithContextDialer(func(context.Context, string) (net.Conn, error) {
			return lis.Dial()
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		srv.Stop()
		return nil, nil, errors.Wrap(err, "echo: dial bufconn")
	}

	return conn, srv.Stop, nil
}
