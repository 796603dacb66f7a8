package signature

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/talentlayer/talentlayer-sdk-go/internal/httpjson"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

// HTTPClient requests signatures from an HTTP(S) signing endpoint.
type HTTPClient struct {
	url  string
	http *httpjson.Client
}

// NewHTTPClient returns a client posting to url. timeout applies to calls whose
// context has no deadline.
func NewHTTPClient(url string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{url: url, http: httpjson.New(timeout)}
}

// Authorize posts {"method": action, "args": {...}} and returns the signature.
// The reply may be {"signature": "0x.."}, a JSON string, or bare text.
func (c *HTTPClient) Authorize(ctx context.Context, req Request) (string, error) {
	if c == nil || c.url == "" {
		return "", ErrNotConfigured
	}
	if err := req.Validate(); err != nil {
		return "", err
	}

	requestID := uuid.NewString()
	body := map[string]any{
		"method": string(req.Action),
		"args":   req.args(),
	}
	reply, err := c.http.PostJSON(ctx, c.url, body, httpjson.Header{Key: "X-Request-Id", Value: requestID})
	if err != nil {
		return "", fmt.Errorf("signature request %s: %w", req.Action, err)
	}
	if !reply.OK() {
		return "", fmt.Errorf("%w: %s: status %d: %s", ErrRejected, req.Action, reply.Status,
			strings.TrimSpace(string(reply.Body)))
	}

	sig := parseSignature(reply.Body)
	if sig == "" {
		return "", fmt.Errorf("%w: %s: empty signature", ErrRejected, req.Action)
	}
	zap.L().Debug("signature obtained",
		zap.String("action", string(req.Action)),
		zap.String("cid", req.CID),
		zap.String("requestId", requestID))
	return sig, nil
}

func parseSignature(body []byte) string {
	if gjson.ValidBytes(body) {
		res := gjson.ParseBytes(body)
		switch {
		case res.IsObject():
			return strings.TrimSpace(res.Get("signature").String())
		case res.Type == gjson.String:
			return strings.TrimSpace(res.String())
		}
	}
	return strings.TrimSpace(string(body))
}
