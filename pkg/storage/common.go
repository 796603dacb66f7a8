package storage

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/talentlayer/talentlayer-sdk-go/pkg/config"
	"go.uber.org/zap"
)

var (
	// ErrMissingCredentials is returned by NewClient when the selected provider lacks its credentials.
	ErrMissingCredentials = fmt.Errorf("%w: missing storage credentials", config.ErrConfiguration)
	// ErrUnknownProvider is returned by NewClient for a provider name it does not support.
	ErrUnknownProvider = fmt.Errorf("%w: unknown storage provider", config.ErrConfiguration)
	// ErrNotInitialized is returned by Store while the provider session is not usable.
	ErrNotInitialized = errors.New("storage client not initialized")
)

// TransportError reports a failure to reach the provider or a non-success HTTP status.
// Status is 0 when no HTTP response was received.
type TransportError struct {
	Status int
	Err    error
}

func (e *TransportError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("storage transport error (status %d): %v", e.Status, e.Err)
	}
	return fmt.Sprintf("storage transport error: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// RejectedError reports that the provider answered but refused or failed the operation.
type RejectedError struct {
	Reason string
}

func (e *RejectedError) Error() string {
	return "storage provider rejected content: " + e.Reason
}

// Uploader stores a serialized payload and returns its content identifier.
type Uploader interface {
	Store(ctx context.Context, payload string) (string, error)
}

// Option customizes a Client.
type Option func(*Client)

// WithHTTPClient sets the HTTP client used for provider requests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithSessionTimeout bounds the asynchronous Infura session setup.
func WithSessionTimeout(d time.Duration) Option {
	return func(c *Client) { c.sessionTimeout = d }
}

// Client stores content on the configured IPFS pinning provider.
// The provider is fixed for the lifetime of the client.
type Client struct {
	provider       string
	cfg            config.IPFSConfig
	httpClient     *http.Client
	sessionTimeout time.Duration

	quickNode *quickNodePinner

	once    sync.Once
	ready   chan struct{}
	session *ipfsSession
	sessErr error
}

// NewClient validates the provider configuration and returns a client.
//
// QuickNode clients are ready immediately. Infura clients open their kubo
// session in the background; see Ready and WaitReady.
func NewClient(cfg config.IPFSConfig, opts ...Option) (*Client, error) {
	if strings.TrimSpace(cfg.Provider) == "" {
		zap.L().Warn("no ipfs provider configured, falling back to default",
			zap.String("provider", config.DefaultProvider))
	}

	c := &Client{
		provider: cfg.ProviderName(),
		cfg:      cfg,
		ready:    make(chan struct{}),
	}
	defaults := config.Timeouts{}.WithDefaults()
	c.httpClient = &http.Client{Timeout: defaults.HTTP}
	c.sessionTimeout = defaults.Session
	for _, opt := range opts {
		opt(c)
	}

	switch c.provider {
	case config.ProviderQuickNode:
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("%w: quicknode requires an api key", ErrMissingCredentials)
		}
		endpoint := quickNodeEndpoint(cfg.BaseURL)
		c.quickNode = &quickNodePinner{endpoint: endpoint, apiKey: cfg.APIKey, httpClient: c.httpClient}
		close(c.ready)
	case config.ProviderInfura:
		if cfg.ClientID == "" || cfg.ClientSecret == "" {
			return nil, fmt.Errorf("%w: infura requires client id and client secret", ErrMissingCredentials)
		}
		c.connect()
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownProvider, cfg.Provider)
	}

	zap.L().Debug("storage client created", zap.String("provider", c.provider))
	return c, nil
}

// quickNodeEndpoint returns base when it is an absolute http(s) URL and the
// public pinning endpoint otherwise. Configs written for other clients often
// carry a bare host such as "www.quicknode.com" here.
func quickNodeEndpoint(base string) string {
	if base == "" {
		return config.DefaultQuickNodeURL
	}
	u, err := url.Parse(base)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		zap.L().Warn("ignoring quicknode base url, using default endpoint",
			zap.String("base_url", base), zap.String("endpoint", config.DefaultQuickNodeURL))
		return config.DefaultQuickNodeURL
	}
	return base
}

// connect starts the session setup exactly once.
func (c *Client) connect() {
	c.once.Do(func() {
		go func() {
			defer close(c.ready)
			ctx, cancel := context.WithTimeout(context.Background(), c.sessionTimeout)
			defer cancel()
			c.session, c.sessErr = openIPFSSession(ctx, c.cfg, c.httpClient)
			if c.sessErr != nil {
				zap.L().Error("ipfs session failed", zap.String("provider", c.provider), zap.Error(c.sessErr))
				return
			}
			zap.L().Debug("ipfs session ready", zap.String("provider", c.provider))
		}()
	})
}

// Provider returns the effective provider name.
func (c *Client) Provider() string { return c.provider }

// Ready returns a channel closed once the provider session attempt has finished.
func (c *Client) Ready() <-chan struct{} { return c.ready }

// WaitReady blocks until the session attempt finishes or ctx is done. It
// returns the session error, if any.
func (c *Client) WaitReady(ctx context.Context) error {
	select {
	case <-c.ready:
		return c.sessErr
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Store uploads payload and returns its CID. It fails with ErrNotInitialized
// while the session is being established or after it failed; it never queues.
func (c *Client) Store(ctx context.Context, payload string) (string, error) {
	select {
	case <-c.ready:
	default:
		return "", ErrNotInitialized
	}
	if c.sessErr != nil {
		return "", fmt.Errorf("%w: %w", ErrNotInitialized, c.sessErr)
	}

	var (
		cid string
		err error
	)
	switch c.provider {
	case config.ProviderQuickNode:
		cid, err = c.quickNode.pin(ctx, []byte(payload))
	default:
		cid, err = c.session.addAndPin(ctx, []byte(payload))
	}
	if err != nil {
		zap.L().Error("store failed", zap.String("provider", c.provider), zap.Error(err))
		return "", err
	}
	zap.L().Debug("content stored", zap.String("provider", c.provider), zap.String("cid", cid))
	return cid, nil
}
