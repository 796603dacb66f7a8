// Package config defines the construction-time configuration for the SDK:
// network selection (or a fully custom chain), the Ethereum RPC endpoint and
// signer key, the IPFS pinning provider and its credentials, the default
// platform, the authorization service address, and transport timeouts. It also
// provides validation, defaulting, and YAML/environment loading helpers.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/talentlayer/talentlayer-sdk-go/pkg/networks"
	"gopkg.in/yaml.v3"
)

// ErrConfiguration is the root of every construction-time configuration failure.
var ErrConfiguration = errors.New("configuration error")

// Storage providers understood by the storage client.
const (
	ProviderQuickNode = "quicknode"
	ProviderInfura    = "infura"
	// DefaultProvider is selected when IPFSConfig.Provider is empty. It is an
	// explicit fallback and is logged as such by the storage client.
	DefaultProvider = ProviderInfura
)

const (
	DefaultInfuraURL    = "https://ipfs.infura.io:5001"
	DefaultQuickNodeURL = "https://api.quicknode.com/ipfs/rest/v1/pinning"
)

// Config holds all SDK settings. It is set once at construction and never mutated afterwards.
type Config struct {
	// Network selects the built-in registry entry. Ignored for contract lookup when Custom is set.
	Network networks.ID `json:"network" yaml:"network" envconfig:"NETWORK"`
	// RPCAddr is the Ethereum JSON-RPC endpoint. Defaults to Custom.Chain.RPCURL when empty.
	RPCAddr string `json:"rpc_addr" yaml:"rpc_addr" envconfig:"RPC_ADDR"`
	// PrivateKey is the hex-encoded signer key. Without it the SDK is read-only.
	PrivateKey string `json:"private_key" yaml:"private_key" envconfig:"PRIVATE_KEY"`
	// IPFS selects the pinning provider and carries its credentials.
	IPFS IPFSConfig `json:"ipfs" yaml:"ipfs" envconfig:"IPFS"`
	// PlatformID is the default platform used when an operation does not name one.
	PlatformID uint64 `json:"platform_id" yaml:"platform_id" envconfig:"PLATFORM_ID"`
	// SignatureAPIURL is the HTTP(S) endpoint of the authorization service.
	SignatureAPIURL string `json:"signature_api_url" yaml:"signature_api_url" envconfig:"SIGNATURE_API_URL"`
	// SignatureGRPCAddr selects the gRPC authorization transport instead of HTTP when set.
	SignatureGRPCAddr string `json:"signature_grpc_addr" yaml:"signature_grpc_addr" envconfig:"SIGNATURE_GRPC_ADDR"`
	// Custom replaces the network registry entirely.
	Custom *networks.CustomConfig `json:"custom,omitempty" yaml:"custom,omitempty" ignored:"true"`
	// Debug enables verbose logging.
	Debug bool `json:"debug" yaml:"debug" envconfig:"DEBUG"`
	// Timeouts configures transport timeouts. See Timeouts.WithDefaults for defaults.
	Timeouts Timeouts `json:"timeouts" yaml:"timeouts" envconfig:"TIMEOUTS"`
}

// IPFSConfig selects one storage backend and its credentials.
type IPFSConfig struct {
	// Provider is "quicknode" or "infura". Empty means DefaultProvider.
	Provider string `json:"provider" yaml:"provider" envconfig:"PROVIDER"`
	// APIKey authenticates QuickNode requests.
	APIKey string `json:"api_key" yaml:"api_key" envconfig:"API_KEY"`
	// ClientID and ClientSecret are exchanged for an Infura basic-auth header.
	ClientID     string `json:"client_id" yaml:"client_id" envconfig:"CLIENT_ID"`
	ClientSecret string `json:"client_secret" yaml:"client_secret" envconfig:"CLIENT_SECRET"`
	// BaseURL is the provider endpoint. Defaults per provider. For quicknode it
	// is the full pinning URL and is only honoured when it is an absolute
	// http(s) URL; anything else falls back to DefaultQuickNodeURL.
	BaseURL string `json:"base_url" yaml:"base_url" envconfig:"BASE_URL"`
}

// Timeouts controls transport deadlines. Zero values are replaced in WithDefaults.
// The write pipeline itself imposes no deadline; callers wrap it in their own context.
type Timeouts struct {
	HTTP        time.Duration `json:"http" yaml:"http" envconfig:"HTTP"`                         // storage, subgraph, signature API
	Session     time.Duration `json:"session" yaml:"session" envconfig:"SESSION"`                // IPFS session setup
	Dial        time.Duration `json:"dial" yaml:"dial" envconfig:"DIAL"`                         // Web3 dial
	ChainSubmit time.Duration `json:"chain_submit" yaml:"chain_submit" envconfig:"CHAIN_SUBMIT"` // send tx
}

// ProviderName returns the effective provider, applying DefaultProvider to an empty value.
func (c IPFSConfig) ProviderName() string {
	p := strings.ToLower(strings.TrimSpace(c.Provider))
	if p == "" {
		return DefaultProvider
	}
	return p
}

// Validate checks that the credentials required by the selected provider are present.
func (c IPFSConfig) Validate() error {
	switch c.ProviderName() {
	case ProviderQuickNode:
		if c.APIKey == "" {
			return fmt.Errorf("%w: quicknode provider requires an API key", ErrConfiguration)
		}
	case ProviderInfura:
		if c.ClientID == "" || c.ClientSecret == "" {
			return fmt.Errorf("%w: infura provider requires client id and client secret", ErrConfiguration)
		}
	default:
		return fmt.Errorf("%w: unknown ipfs provider %q", ErrConfiguration, c.Provider)
	}
	return nil
}

// Validate normalizes the configuration by applying implicit defaults (Mumbai
// network, provider base URLs, RPC address from a custom chain) and verifies
// required fields. Every returned error wraps ErrConfiguration.
func (c *Config) Validate() error {
	if c.Network == 0 {
		c.Network = networks.Mumbai
	}

	if c.IPFS.BaseURL == "" {
		switch c.IPFS.ProviderName() {
		case ProviderQuickNode:
			c.IPFS.BaseURL = DefaultQuickNodeURL
		case ProviderInfura:
			c.IPFS.BaseURL = DefaultInfuraURL
		}
	}
	if err := c.IPFS.Validate(); err != nil {
		return err
	}

	if c.RPCAddr == "" && c.Custom != nil {
		c.RPCAddr = c.Custom.Chain.RPCURL
	}
	if c.RPCAddr == "" {
		return fmt.Errorf("%w: RPC address is required", ErrConfiguration)
	}

	return nil
}

// WithDefaults returns a copy of t with zero values replaced by defaults:
//
//	HTTP:        15s
//	Session:     30s
//	Dial:        5s
//	ChainSubmit: 25s
func (t Timeouts) WithDefaults() Timeouts {
	tt := t
	if tt.HTTP == 0 {
		tt.HTTP = 15 * time.Second
	}
	if tt.Session == 0 {
		tt.Session = 30 * time.Second
	}
	if tt.Dial == 0 {
		tt.Dial = 5 * time.Second
	}
	if tt.ChainSubmit == 0 {
		tt.ChainSubmit = 25 * time.Second
	}
	return tt
}

// Load reads a YAML configuration file. The result is not validated.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg := new(Config)
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return nil, fmt.Errorf("%w: parse %s: %v", ErrConfiguration, path, err)
	}
	return cfg, nil
}

// FromEnv overlays environment variables named <prefix>_<FIELD> onto cfg, e.g.
// TALENTLAYER_PRIVATE_KEY or TALENTLAYER_IPFS_API_KEY. Unset variables leave
// the existing values untouched.
func FromEnv(prefix string, cfg *Config) error {
	if err := envconfig.Process(prefix, cfg); err != nil {
		return fmt.Errorf("%w: environment: %v", ErrConfiguration, err)
	}
	return nil
}
