package signature

import (
	"context"
	_ "embed"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/talentlayer/talentlayer-sdk-go/pkg/grpc"
	"go.uber.org/zap"
	grpclib "google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
)

//go:embed signature.proto
var signatureProto string

// ProtoFiles returns the service definition used by GRPCClient.
func ProtoFiles() map[string]string {
	return map[string]string{"signature.proto": signatureProto}
}

const getSignatureMethod = "GetSignature"

// GRPCClient requests signatures over gRPC.
type GRPCClient struct {
	client *grpc.Client
}

// NewGRPCClient dials endpoint ("https://host:port" for TLS).
func NewGRPCClient(endpoint string, opts ...grpclib.DialOption) (*GRPCClient, error) {
	if endpoint == "" {
		return nil, ErrNotConfigured
	}
	c, err := grpc.NewClient(endpoint, ProtoFiles(), opts...)
	if err != nil {
		return nil, err
	}
	return &GRPCClient{client: c}, nil
}

// NewGRPCClientWithConn uses an existing connection.
func NewGRPCClientWithConn(conn *grpclib.ClientConn) (*GRPCClient, error) {
	c, err := grpc.NewClientWithConn(conn, ProtoFiles())
	if err != nil {
		return nil, err
	}
	return &GRPCClient{client: c}, nil
}

// Close releases the connection.
func (c *GRPCClient) Close() error { return c.client.Close() }

// Authorize calls GetSignature with the request.
func (c *GRPCClient) Authorize(ctx context.Context, req Request) (string, error) {
	if err := req.Validate(); err != nil {
		return "", err
	}

	requestID := uuid.NewString()
	ctx = metadata.AppendToOutgoingContext(ctx, "x-request-id", requestID)
	reply, err := c.client.CallWithMap(ctx, getSignatureMethod, map[string]any{
		"method": string(req.Action),
		"args":   req.args(),
	})
	if err != nil {
		return "", fmt.Errorf("signature request %s: %w", req.Action, err)
	}

	sig, _ := reply["signature"].(string)
	sig = strings.TrimSpace(sig)
	if sig == "" {
		return "", fmt.Errorf("%w: %s: empty signature", ErrRejected, req.Action)
	}
	zap.L().Debug("signature obtained",
		zap.String("action", string(req.Action)),
		zap.String("cid", req.CID),
		zap.String("requestId", requestID))
	return sig, nil
}
