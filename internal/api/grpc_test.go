package api

import (
	"context"
	"net"
	"testing"

	"github.com/aegis-sign/governance/internal/action"
	"github.com/aegis-sign/governance/internal/client"
	"github.com/aegis-sign/governance/internal/client/stub"
	"github.com/aegis-sign/governance/internal/dispatch"
	"github.com/aegis-sign/governance/internal/session"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/structpb"
)

const bufSize = 1024 * 1024

func setupGRPC(t *testing.T) (*ActionServiceClient, *stub.Client) {
	t.Helper()
	provider, err := session.NewStatic(testAccount, false)
	require.NoError(t, err)
	c := stub.New()
	d, err := dispatch.NewDispatcher(dispatch.Config{
		Client:  c,
		Session: provider,
		Metrics: dispatch.NewMetrics(prometheus.NewRegistry()),
	})
	require.NoError(t, err)

	lis := bufconn.Listen(bufSize)
	srv := grpc.NewServer()
	RegisterActionServiceServer(srv, NewGRPCServer(d))
	go func() {
		_ = srv.Serve(lis)
	}()
	t.Cleanup(srv.Stop)

	conn, err := grpc.DialContext(context.Background(), "bufnet",
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithContextDialer(func(context.Context, string) (net.Conn, error) { return lis.Dial() }),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return NewActionServiceClient(conn), c
}

func mustStruct(t *testing.T, m map[string]any) *structpb.Struct {
	t.Helper()
	s, err := structpb.NewStruct(m)
	require.NoError(t, err)
	return s
}

func TestGRPCSendStatement(t *testing.T) {
	cli, c := setupGRPC(t)
	resp, err := cli.Send(context.Background(), mustStruct(t, map[string]any{
		"space":   "s.eth",
		"action":  "set-statement",
		"payload": map[string]any{"about": "hello", "statement": "I will vote"},
	}))
	require.NoError(t, err)
	require.True(t, resp.GetFields()["ok"].GetBoolValue())
	require.Equal(t, "stub-1", resp.GetFields()["receipt"].GetStructValue().GetFields()["id"].GetStringValue())

	calls := c.Calls()
	require.Len(t, calls, 1)
	require.Equal(t, action.Statement{Space: "s.eth", About: "hello", Statement: "I will vote"}, calls[0].Message)
}

func TestGRPCSendErrors(t *testing.T) {
	cli, c := setupGRPC(t)

	_, err := cli.Send(context.Background(), mustStruct(t, map[string]any{"action": "vote"}))
	require.Equal(t, codes.InvalidArgument, status.Code(err))

	_, err = cli.Send(context.Background(), mustStruct(t, map[string]any{"space": "s.eth", "action": "launch"}))
	require.Equal(t, codes.NotFound, status.Code(err))

	c.FailWith(&client.RemoteError{Description: "space not found"})
	_, err = cli.Send(context.Background(), mustStruct(t, map[string]any{"space": "s.eth", "action": "delete-space"}))
	require.Equal(t, codes.Unavailable, status.Code(err))
	require.Equal(t, "Oops, space not found", status.Convert(err).Message())
}

func TestGRPCSendNilRequest(t *testing.T) {
	server := NewGRPCServer(valueSender{})
	_, err := server.Send(context.Background(), nil)
	require.Equal(t, codes.InvalidArgument, status.Code(err))
}
