package main

import (
	"context"
	"net"
	"os"
	"os/signal"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"google.golang.org/grpc"

	"github.com/avos-io/facade/internal/echo"
)

func newServeCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the echo service",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			l, err := net.Listen("tcp", addr)
			if err != nil {
				return errors.Wrapf(err, "listen on %s", addr)
			}

			srv := grpc.NewServer(
				grpc.ChainUnaryInterceptor(logUnary),
				grpc.ChainStreamInterceptor(logStream),
			)
			echo.Register(srv, echo.Server{})

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			go func() {
				<-ctx.Done()
				srv.GracefulStop()
			}()

			log.Info().Str("addr", l.Addr().String()).Msg("serving echo")
			return srv.Serve(l)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "localhost:50051", "address to listen on")
	return cmd
}

func logUnary(
	ctx context.Context,
	req interface{},
	info *grpc.UnaryServerInfo,
	handler grpc.UnaryHandler,
) (interface{}, error) {
	resp, err := handler(ctx, req)
	log.Debug().Err(err).Str("method", info.FullMethod).Msg("unary")
	return resp, err
}

func logStream(
	srv interface{},
	ss grpc.ServerStream,
	info *grpc.StreamServerInfo,
	handler grpc.StreamHandler,
) error {
	err := handler(srv, ss)
	log.Debug().Err(err).Str("method", info.FullMethod).Msg("stream")
	return err
}
