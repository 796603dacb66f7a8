package graphql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/talentlayer/talentlayer-sdk-go/internal/httpjson"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

// ErrNoEndpoint is returned when the client has no subgraph URL.
var ErrNoEndpoint = errors.New("graphql: subgraph url not configured")

// Querier runs a GraphQL query against the read layer.
type Querier interface {
	Query(ctx context.Context, query string) (Response, error)
}

// Response is a parsed GraphQL reply.
type Response struct {
	gjson.Result
}

// Data returns the node at data.<path>. A missing node, or a reply that only
// carries errors, yields a result whose Exists() is false.
func (r Response) Data(path string) gjson.Result {
	return r.Get("data." + path)
}

// Errors returns the messages of the reply's errors array.
func (r Response) Errors() []string {
	var out []string
	r.Get("errors").ForEach(func(_, v gjson.Result) bool {
		out = append(out, v.Get("message").String())
		return true
	})
	return out
}

// Client queries a subgraph endpoint over HTTP.
type Client struct {
	url  string
	http *httpjson.Client
}

// NewClient returns a client for the subgraph at url. timeout applies to
// requests whose context has no deadline.
func NewClient(url string, timeout time.Duration) *Client {
	return &Client{url: url, http: httpjson.New(timeout)}
}

// URL returns the subgraph endpoint.
func (c *Client) URL() string { return c.url }

// Query posts {"query": query}. Transport failures, non-2xx statuses and
// non-JSON bodies are errors; GraphQL-level errors are not, they surface as
// absent data.
func (c *Client) Query(ctx context.Context, query string) (Response, error) {
	if c.url == "" {
		return Response{}, ErrNoEndpoint
	}

	reply, err := c.http.PostJSON(ctx, c.url, map[string]string{"query": query})
	if err != nil {
		return Response{}, fmt.Errorf("graphql request: %w", err)
	}
	if !reply.OK() {
		return Response{}, fmt.Errorf("graphql request failed, status code: %d", reply.Status)
	}
	if !gjson.ValidBytes(reply.Body) {
		return Response{}, fmt.Errorf("graphql reply is not valid json")
	}

	resp := Response{gjson.ParseBytes(reply.Body)}
	if errs := resp.Errors(); len(errs) > 0 {
		zap.L().Debug("graphql reply carries errors", zap.Strings("errors", errs))
	}
	return resp, nil
}
