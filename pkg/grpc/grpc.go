// Package grpc is a small dynamic gRPC client: .proto sources are compiled at
// runtime with protocompile and messages are built with dynamicpb, so callers
// need no generated stubs. Requests and replies travel as JSON or Go maps.
package grpc

import (
	"context"
	"fmt"
	"strings"

	"github.com/bufbuild/protocompile/linker"
	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/dynamicpb"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Client invokes unary methods declared in its compiled proto files.
type Client struct {
	conn  *grpc.ClientConn
	files linker.Files
}

// NewClient compiles protoFiles (filename -> source) and connects to endpoint.
// An "https://" endpoint uses TLS; "http://" or a bare host:port is insecure.
// Extra dial options are appended after the transport credentials.
func NewClient(endpoint string, protoFiles map[string]string, opts ...grpc.DialOption) (*Client, error) {
	files, err := CompileProtoFiles(protoFiles)
	if err != nil {
		return nil, err
	}

	addr, creds := credsFromEndpoint(endpoint)
	conn, err := grpc.NewClient(addr, append([]grpc.DialOption{creds}, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("grpc client for %s: %w", endpoint, err)
	}
	conn.Connect()

	zap.L().Debug("grpc client created", zap.String("endpoint", endpoint), zap.Int("files", len(files)))
	return &Client{conn: conn, files: files}, nil
}

// NewClientWithConn wraps an existing connection. The client takes ownership of conn.
func NewClientWithConn(conn *grpc.ClientConn, protoFiles map[string]string) (*Client, error) {
	files, err := CompileProtoFiles(protoFiles)
	if err != nil {
		return nil, err
	}
	return &Client{conn: conn, files: files}, nil
}

// Close shuts down the underlying connection. It is safe on a nil client.
func (c *Client) Close() error {
	if c == nil || c.conn == nil {
		return nil
	}
	return c.conn.Close()
}

// CallWithMap JSON-encodes params, calls method and decodes the reply into a map.
func (c *Client) CallWithMap(ctx context.Context, method string, params map[string]any, opts ...grpc.CallOption) (map[string]any, error) {
	body, err := json.Marshal(params)
	if err != nil {
		return nil, fmt.Errorf("encode %s request: %w", method, err)
	}

	reply, err := c.CallWithJSON(ctx, method, body, opts...)
	if err != nil {
		return nil, err
	}

	var result map[string]any
	if err := json.Unmarshal(reply, &result); err != nil {
		return nil, fmt.Errorf("decode %s reply: %w", method, err)
	}
	return result, nil
}

// CallWithJSON calls method with a JSON request. Unknown request fields are
// dropped; the reply uses proto field names and includes unpopulated fields.
func (c *Client) CallWithJSON(ctx context.Context, method string, body []byte, opts ...grpc.CallOption) ([]byte, error) {
	fullMethod, md, err := FindMethod(c.files, method)
	if err != nil {
		return nil, err
	}

	in := dynamicpb.NewMessage(md.Input())
	out := dynamicpb.NewMessage(md.Output())

	if err := (protojson.UnmarshalOptions{AllowPartial: true, DiscardUnknown: true}).Unmarshal(body, in); err != nil {
		return nil, fmt.Errorf("decode %s request: %w", method, err)
	}

	if err := c.conn.Invoke(ctx, fullMethod, in, out, opts...); err != nil {
		return nil, err
	}

	return protojson.MarshalOptions{EmitUnpopulated: true, UseProtoNames: true}.Marshal(out)
}

func credsFromEndpoint(endpoint string) (string, grpc.DialOption) {
	switch {
	case strings.HasPrefix(endpoint, "https://"):
		return strings.TrimPrefix(endpoint, "https://"), grpc.WithTransportCredentials(credentials.NewTLS(nil))
	case strings.HasPrefix(endpoint, "http://"):
		return strings.TrimPrefix(endpoint, "http://"), grpc.WithTransportCredentials(insecure.NewCredentials())
	default:
		return endpoint, grpc.WithTransportCredentials(insecure.NewCredentials())
	}
}
