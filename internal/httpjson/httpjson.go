// Package httpjson posts JSON documents over fasthttp and hands back the raw
// reply. It is shared by the subgraph and authorization clients.
package httpjson

import (
	"context"
	"fmt"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/valyala/fasthttp"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// DefaultTimeout applies when the context carries no deadline.
const DefaultTimeout = 15 * time.Second

type Header struct {
	Key   string
	Value string
}

// Reply is a completed HTTP exchange. Body is a copy and outlives the request.
type Reply struct {
	Status int
	Body   []byte
}

// OK reports a 2xx status.
func (r Reply) OK() bool { return r.Status >= 200 && r.Status < 300 }

// Client wraps a fasthttp client with a fallback timeout.
type Client struct {
	HTTP    *fasthttp.Client
	Timeout time.Duration
}

// New returns a client with the given fallback timeout (DefaultTimeout when zero).
func New(timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		HTTP:    &fasthttp.Client{Name: "talentlayer-sdk-go"},
		Timeout: timeout,
	}
}

// PostJSON marshals body and POSTs it to url. A transport failure is an error;
// any HTTP status is returned in the Reply for the caller to judge.
func (c *Client) PostJSON(ctx context.Context, url string, body any, headers ...Header) (Reply, error) {
	if err := ctx.Err(); err != nil {
		return Reply{}, err
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return Reply{}, fmt.Errorf("marshal request: %w", err)
	}

	request := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(request)
	response := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(response)

	request.Header.SetMethod(fasthttp.MethodPost)
	request.SetRequestURI(url)
	request.Header.SetContentType("application/json")
	request.SetBody(payload)
	for _, h := range headers {
		request.Header.Set(h.Key, h.Value)
	}

	deadline, ok := ctx.Deadline()
	if !ok {
		deadline = time.Now().Add(c.Timeout)
	}
	if err := c.HTTP.DoDeadline(request, response, deadline); err != nil {
		return Reply{}, err
	}

	return Reply{
		Status: response.StatusCode(),
		Body:   append([]byte(nil), response.Body()...),
	}, nil
}
