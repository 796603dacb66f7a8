// Package networks holds the chain and contract registry used by the SDK:
// per-network subgraph URL, contract addresses and ABIs, and accepted tokens.
// A CustomConfig replaces the registry entirely for private or local chains.
package networks

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"
)

// ID is the chain ID of a supported network.
type ID uint64

const (
	Local   ID = 1
	IExec   ID = 134
	Polygon ID = 137
	Mumbai  ID = 80001
)

// Contract names used by the write operations.
const (
	ServiceContract  = "talentLayerService"
	PlatformContract = "talentLayerPlatformId"
)

// ErrUnknownNetwork is returned when the registry has no entry for a network ID.
var ErrUnknownNetwork = errors.New("network not supported")

// Token describes an ERC-20 (or the native token at the zero address) accepted as a rate token.
type Token struct {
	Name                     string         `json:"name" yaml:"name"`
	Address                  common.Address `json:"address" yaml:"address"`
	Symbol                   string         `json:"symbol" yaml:"symbol"`
	Decimals                 uint8          `json:"decimals" yaml:"decimals"`
	MinimumTransactionAmount string         `json:"minimumTransactionAmount,omitempty" yaml:"minimum_transaction_amount,omitempty"`
}

// Contract is a deployed contract address with its JSON ABI. An empty ABI is
// filled from the embedded defaults for the contract name.
type Contract struct {
	Address common.Address `json:"address" yaml:"address"`
	ABI     string         `json:"abi,omitempty" yaml:"abi,omitempty"`
}

// Config is the contract-level configuration of one network.
type Config struct {
	NetworkID    ID                  `json:"networkId" yaml:"network_id"`
	SubgraphURL  string              `json:"subgraphUrl" yaml:"subgraph_url"`
	EscrowConfig map[string]any      `json:"escrowConfig" yaml:"escrow_config"`
	Contracts    map[string]Contract `json:"contracts" yaml:"contracts"`
	Tokens       map[string]Token    `json:"tokens" yaml:"tokens"`
}

// Currency describes the native currency of a chain.
type Currency struct {
	Name     string `json:"name" yaml:"name"`
	Symbol   string `json:"symbol" yaml:"symbol"`
	Decimals uint8  `json:"decimals" yaml:"decimals"`
}

// Chain describes a custom EVM chain.
type Chain struct {
	ID             ID       `json:"id" yaml:"id"`
	Name           string   `json:"name" yaml:"name"`
	RPCURL         string   `json:"rpcUrl" yaml:"rpc_url"`
	NativeCurrency Currency `json:"nativeCurrency" yaml:"native_currency"`
}

// CustomConfig is a fully custom chain plus contract configuration. When set on
// the SDK it bypasses the registry lookup regardless of the requested ID.
type CustomConfig struct {
	Chain     Chain  `json:"chainConfig" yaml:"chain"`
	Contracts Config `json:"contractConfig" yaml:"contracts"`
}

//go:embed networks.json abi/*.json
var assets embed.FS

var registry map[ID]*Config

func init() {
	raw, err := assets.ReadFile("networks.json")
	if err != nil {
		panic(err)
	}
	var byID map[string]*Config
	if err := json.Unmarshal(raw, &byID); err != nil {
		panic(fmt.Errorf("parse embedded networks.json: %w", err))
	}
	registry = make(map[ID]*Config, len(byID))
	for key, cfg := range byID {
		id, err := strconv.ParseUint(key, 10, 64)
		if err != nil {
			panic(fmt.Errorf("bad network key %q: %w", key, err))
		}
		registry[ID(id)] = cfg
	}
}

// Lookup returns a copy of the registry entry for id with ABIs filled in.
func Lookup(id ID) (*Config, error) {
	cfg, ok := registry[id]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownNetwork, id)
	}
	return cfg.withDefaultABIs(), nil
}

// DefaultABI returns the embedded ABI for a contract name, or "" if none is bundled.
func DefaultABI(contract string) string {
	raw, err := assets.ReadFile("abi/" + contract + ".json")
	if err != nil {
		return ""
	}
	return string(raw)
}

// withDefaultABIs returns a copy of c whose contracts all carry an ABI when one is bundled.
func (c *Config) withDefaultABIs() *Config {
	out := *c
	out.Contracts = make(map[string]Contract, len(c.Contracts))
	for name, contract := range c.Contracts {
		if contract.ABI == "" {
			contract.ABI = DefaultABI(name)
		}
		out.Contracts[name] = contract
	}
	return &out
}

// Resolver resolves network IDs to configs, honouring an optional custom override.
type Resolver struct {
	Custom *CustomConfig
}

// ChainConfig returns the custom contract configuration when one is set, whatever
// id is; otherwise the registry entry for id.
func (r Resolver) ChainConfig(id ID) (*Config, error) {
	if r.Custom != nil {
		if id != r.Custom.Contracts.NetworkID {
			zap.L().Debug("custom config overrides network lookup",
				zap.Uint64("requested", uint64(id)),
				zap.Uint64("custom", uint64(r.Custom.Contracts.NetworkID)))
		}
		return r.Custom.Contracts.withDefaultABIs(), nil
	}
	return Lookup(id)
}
