package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/ipfs/go-cid"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

// quickNodePinner pins content through the QuickNode IPFS REST API.
type quickNodePinner struct {
	endpoint   string
	apiKey     string
	httpClient *http.Client
}

// pin posts data in a single authenticated request. The reply body is the CID.
// Some gateways answer with a JSON object instead; its "cid" or "pin.cid" field is used then.
func (p *quickNodePinner) pin(ctx context.Context, data []byte) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, bytes.NewReader(data))
	if err != nil {
		return "", &TransportError{Err: err}
	}
	req.Header.Set("x-api-key", p.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", &TransportError{Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &TransportError{Status: resp.StatusCode, Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &TransportError{
			Status: resp.StatusCode,
			Err:    fmt.Errorf("quicknode pinning: %s", strings.TrimSpace(string(body))),
		}
	}

	result := strings.TrimSpace(string(body))
	if parsed := gjson.Parse(result); parsed.IsObject() {
		result = strings.TrimSpace(parsed.Get("cid").String())
		if result == "" {
			result = strings.TrimSpace(parsed.Get("pin.cid").String())
		}
	}
	if result == "" {
		return "", &RejectedError{Reason: "quicknode returned an empty body"}
	}
	if _, err := cid.Decode(result); err != nil {
		zap.L().Warn("quicknode reply is not a valid cid", zap.String("reply", result), zap.Error(err))
	}
	return result, nil
}
