package grpc

import (
	"context"
	"strings"
	"testing"

	"github.com/talentlayer/talentlayer-sdk-go/internal/testutil/grpcbuf"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protoreflect"
	"google.golang.org/protobuf/types/dynamicpb"
)

// echoProto is a minimal proto definition used for testing dynamic gRPC invocation.
const echoProto = `
syntax = "proto3";
package test;
service Echo {
  rpc Say(SayRequest) returns (SayReply);
}
message SayRequest { string text = 1; }
message SayReply { string text = 1; bool shouted = 2; }
`

func startEcho(t *testing.T) (*Client, *grpcbuf.MetaCapture) {
	t.Helper()
	files, err := CompileProtoFiles(map[string]string{"echo.proto": echoProto})
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	sd := files[0].Services().ByName("Echo")

	desc := grpcbuf.ServiceDesc(sd, map[string]grpcbuf.UnaryFunc{
		"Say": func(ctx context.Context, in *dynamicpb.Message) (proto.Message, error) {
			text := in.Get(in.Descriptor().Fields().ByName("text")).String()
			if text == "" {
				return nil, status.Error(codes.InvalidArgument, "text required")
			}
			out := dynamicpb.NewMessage(sd.Methods().ByName("Say").Output())
			fields := out.Descriptor().Fields()
			out.Set(fields.ByName("text"), protoreflect.ValueOfString(strings.ToUpper(text)))
			out.Set(fields.ByName("shouted"), protoreflect.ValueOfBool(true))
			return out, nil
		},
	})
	srv, lis, capture := grpcbuf.StartServer(desc)
	t.Cleanup(srv.Stop)

	conn, err := grpcbuf.Dial(lis)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	client, err := NewClientWithConn(conn, map[string]string{"echo.proto": echoProto})
	if err != nil {
		t.Fatalf("NewClientWithConn: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })
	return client, capture
}

func TestClientCallVariants(t *testing.T) {
	client, capture := startEcho(t)
	ctx := metadata.AppendToOutgoingContext(context.Background(), "x-request-id", "req-1")

	t.Run("CallWithJSON", func(t *testing.T) {
		resp, err := client.CallWithJSON(ctx, "Say", []byte(`{"text":"hi","ignored":1}`))
		if err != nil {
			t.Fatalf("CallWithJSON error: %v", err)
		}
		if !strings.Contains(string(resp), `"HI"`) {
			t.Fatalf("unexpected response %s", resp)
		}
		if got := capture.Last().Get("x-request-id"); len(got) != 1 || got[0] != "req-1" {
			t.Fatalf("metadata not forwarded: %v", got)
		}
	})

	t.Run("CallWithMap", func(t *testing.T) {
		resp, err := client.CallWithMap(ctx, "Say", map[string]any{"text": "hello"})
		if err != nil {
			t.Fatalf("CallWithMap error: %v", err)
		}
		if resp["text"] != "HELLO" || resp["shouted"] != true {
			t.Fatalf("unexpected map response %v", resp)
		}
	})

	t.Run("ServerError", func(t *testing.T) {
		_, err := client.CallWithMap(ctx, "Say", map[string]any{})
		if status.Code(err) != codes.InvalidArgument {
			t.Fatalf("expected InvalidArgument, got %v", err)
		}
	})

	t.Run("UnknownMethod", func(t *testing.T) {
		if _, err := client.CallWithJSON(ctx, "Shout", []byte(`{}`)); err == nil {
			t.Fatal("expected error for unknown method")
		}
	})
}

func TestCloseNilClient(t *testing.T) {
	var c *Client
	if err := c.Close(); err != nil {
		t.Fatalf("Close on nil client: %v", err)
	}
}
