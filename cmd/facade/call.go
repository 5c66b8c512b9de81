package main

import (
	"fmt"
	"io"
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/avos-io/facade"
	"github.com/avos-io/facade/grpcface"
	"github.com/avos-io/facade/internal/echo"
)

func newCallCmd() *cobra.Command {
	var (
		addr    string
		timeout time.Duration
		async   bool
	)

	cmd := &cobra.Command{
		Use:   "call METHOD [VALUE...]",
		Short: "Call an echo method through the facade",
		Long: "Call an echo method through the facade. METHOD may omit the service " +
			"name. Unary-request methods send the first VALUE; stream-request " +
			"methods send every VALUE.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			conn, err := grpc.DialContext(
				cmd.Context(),
				addr,
				grpc.WithTransportCredentials(insecure.NewCredentials()),
			)
			if err != nil {
				return errors.Wrapf(err, "dial %s", addr)
			}

			stub := facade.NewStub(grpcface.NewDynamicStub(conn, echo.Methods), echo.Table)
			return stub.Do(cmd.Context(), func(s *facade.Stub) error {
				m, err := s.Method(args[0])
				if err != nil {
					return err
				}
				return call(cmd.OutOrStdout(), m, args[1:], timeout, async)
			})
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "localhost:50051", "address of the echo service")
	cmd.Flags().DurationVar(&timeout, "timeout", 5*time.Second, "per-call timeout")
	cmd.Flags().BoolVar(&async, "async", false, "use the future form of unary-response methods")
	return cmd
}

func call(w io.Writer, m facade.Method, values []string, timeout time.Duration, async bool) error {
	msgs := make([]any, len(values))
	for i, v := range values {
		msgs[i] = wrapperspb.String(v)
	}
	first := func() any {
		if len(msgs) == 0 {
			return wrapperspb.String("")
		}
		return msgs[0]
	}

	switch m := m.(type) {
	case *facade.UnaryUnaryMethod:
		if async {
			return printFuture(w, m.Future(first(), timeout), timeout)
		}
		resp, err := m.Call(first(), timeout)
		if err != nil {
			return err
		}
		return printMsg(w, resp)

	case *facade.UnaryStreamMethod:
		return printAll(w, m.Call(first(), timeout))

	case *facade.StreamUnaryMethod:
		if async {
			return printFuture(w, m.Future(facade.Requests(msgs...), timeout), timeout)
		}
		resp, err := m.Call(facade.Requests(msgs...), timeout)
		if err != nil {
			return err
		}
		return printMsg(w, resp)

	case *facade.StreamStreamMethod:
		return printAll(w, m.Call(facade.Requests(msgs...), timeout))
	}
	return errors.Errorf("unexpected method shape %T", m)
}

func printFuture(w io.Writer, f facade.Future, timeout time.Duration) error {
	resp, err := f.Result(timeout)
	if err != nil {
		if tb, tbErr := f.Traceback(timeout); tbErr == nil && tb != "" {
			fmt.Fprintln(w, tb)
		}
		return err
	}
	return printMsg(w, resp)
}

func printAll(w io.Writer, it facade.CancellableIterator) error {
	defer it.Cancel()
	for {
		msg, err := it.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if err := printMsg(w, msg); err != nil {
			return err
		}
	}
}

func printMsg(w io.Writer, msg any) error {
	sv, ok := msg.(*wrapperspb.StringValue)
	if !ok {
		return errors.Errorf("unexpected response %T", msg)
	}
	_, err := fmt.Fprintln(w, sv.GetValue())
	return err
}
