package storage

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/ipfs/go-cid"
	"github.com/ipfs/kubo/client/rpc"
	jsoniter "github.com/json-iterator/go"
	"github.com/talentlayer/talentlayer-sdk-go/pkg/config"
	"go.uber.org/zap"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// ipfsSession is an authenticated kubo RPC session (Infura).
type ipfsSession struct {
	api           *rpc.HttpApi
	authorization string
}

// BasicAuthorization returns the Infura authorization header value for the credentials.
func BasicAuthorization(clientID, clientSecret string) string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(clientID+":"+clientSecret))
}

// openIPFSSession builds the kubo client and probes the node with `version`
// so that bad credentials or endpoints surface before the first Store.
func openIPFSSession(ctx context.Context, cfg config.IPFSConfig, hc *http.Client) (*ipfsSession, error) {
	base := cfg.BaseURL
	if base == "" {
		base = config.DefaultInfuraURL
	}
	base = strings.TrimSuffix(strings.TrimSuffix(base, "/"), "/api/v0")

	api, err := rpc.NewURLApiWithClient(base, recordReplies(hc))
	if err != nil {
		return nil, fmt.Errorf("connect to ipfs at %s: %w", base, err)
	}
	s := &ipfsSession{api: api, authorization: BasicAuthorization(cfg.ClientID, cfg.ClientSecret)}

	var version struct {
		Version string `json:"Version"`
	}
	if err := s.exec(ctx, "version", nil, &version); err != nil {
		return nil, fmt.Errorf("probe ipfs at %s: %w", base, err)
	}
	zap.L().Debug("connected to ipfs", zap.String("url", base), zap.String("version", version.Version))
	return s, nil
}

// addAndPin adds data and pins the resulting CID. A pin failure fails the whole call.
func (s *ipfsSession) addAndPin(ctx context.Context, data []byte) (string, error) {
	var added struct {
		Name string `json:"Name"`
		Hash string `json:"Hash"`
	}
	if err := s.exec(ctx, "add", bytes.NewReader(data), &added); err != nil {
		return "", err
	}
	if added.Hash == "" {
		return "", &RejectedError{Reason: "add returned no hash"}
	}
	if _, err := cid.Decode(added.Hash); err != nil {
		return "", &RejectedError{Reason: fmt.Sprintf("add returned invalid cid %q", added.Hash)}
	}

	var pinned struct {
		Pins []string `json:"Pins"`
	}
	if err := s.exec(ctx, "pin/add", nil, &pinned, added.Hash); err != nil {
		return "", fmt.Errorf("pin %s: %w", added.Hash, err)
	}
	return added.Hash, nil
}

// exec sends one RPC command and decodes its JSON reply into out.
func (s *ipfsSession) exec(ctx context.Context, cmd string, body io.Reader, out any, args ...string) (err error) {
	req := s.api.Request(cmd, args...).Header("Authorization", s.authorization)
	if body != nil {
		req = req.FileBody(body)
	}

	reply := &httpReply{}
	resp, err := req.Send(context.WithValue(ctx, httpReplyKey{}, reply))
	if err != nil {
		return &TransportError{Err: err}
	}
	defer func(resp *rpc.Response) {
		if cerr := resp.Close(); cerr != nil {
			zap.L().Debug("error closing ipfs response", zap.String("cmd", cmd), zap.Error(cerr))
		}
	}(resp)

	if resp.Error != nil {
		if reply.commandError() {
			return &RejectedError{Reason: resp.Error.Error()}
		}
		return &TransportError{Status: reply.status, Err: fmt.Errorf("%s: %w", cmd, resp.Error)}
	}

	raw, err := io.ReadAll(resp.Output)
	if err != nil {
		return &TransportError{Err: err}
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return &RejectedError{Reason: fmt.Sprintf("%s: malformed reply: %v", cmd, err)}
	}
	return nil
}

type httpReplyKey struct{}

// httpReply is the status line of the last reply to one RPC command.
type httpReply struct {
	status      int
	contentType string
}

// commandError reports whether the reply carries a kubo command error rather
// than a gateway or HTTP failure. Kubo answers failed commands with a JSON
// error body and status 400 or 500, or with a stream error after 200.
func (r *httpReply) commandError() bool {
	switch r.status {
	case 0, http.StatusOK:
		return true
	case http.StatusBadRequest, http.StatusInternalServerError:
		return strings.HasPrefix(r.contentType, "application/json")
	default:
		return false
	}
}

// replyRecorder copies the status of every response into the httpReply carried
// by the request context.
type replyRecorder struct {
	base http.RoundTripper
}

func (t replyRecorder) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := t.base.RoundTrip(req)
	if resp != nil {
		if r, ok := req.Context().Value(httpReplyKey{}).(*httpReply); ok {
			r.status = resp.StatusCode
			r.contentType = resp.Header.Get("Content-Type")
		}
	}
	return resp, err
}

// recordReplies returns a copy of hc whose transport records reply statuses.
func recordReplies(hc *http.Client) *http.Client {
	if hc == nil {
		hc = http.DefaultClient
	}
	base := hc.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	wrapped := *hc
	wrapped.Transport = replyRecorder{base: base}
	return &wrapped
}

// IsTransient reports whether err is a transport-level storage failure that a
// caller may choose to retry.
func IsTransient(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}
