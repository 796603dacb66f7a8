// Package sdk is the entry point of the TalentLayer client. It wires the
// storage client, the authorization client, the subgraph reader and the chain
// submitter into one write pipeline and exposes the marketplace modules
// (services, proposals, platforms) on top of it.
package sdk

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/talentlayer/talentlayer-sdk-go/pkg/blockchain"
	"github.com/talentlayer/talentlayer-sdk-go/pkg/config"
	"github.com/talentlayer/talentlayer-sdk-go/pkg/fee"
	"github.com/talentlayer/talentlayer-sdk-go/pkg/graphql"
	"github.com/talentlayer/talentlayer-sdk-go/pkg/model"
	"github.com/talentlayer/talentlayer-sdk-go/pkg/networks"
	"github.com/talentlayer/talentlayer-sdk-go/pkg/pipeline"
	"github.com/talentlayer/talentlayer-sdk-go/pkg/signature"
	"github.com/talentlayer/talentlayer-sdk-go/pkg/storage"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

// ErrNotFound is returned by reads when the subgraph has no such entity.
var ErrNotFound = errors.New("not found")

// TalentLayerSDK is the public interface of the client.
type TalentLayerSDK interface {
	// Service returns the service module.
	Service() Service
	// Proposal returns the proposal module.
	Proposal() Proposal
	// Platform returns the platform module.
	Platform() Platform
	// GetChainConfig returns the contract configuration for id. A custom
	// configuration, when supplied, is returned for every id.
	GetChainConfig(id networks.ID) (*networks.Config, error)
	// Close releases network clients.
	Close()
}

// init configures a default global zap logger for the SDK. Applications may
// replace it with zap.ReplaceGlobals(...) if they need custom logging.
func init() {
	setupLogger(false)
}

func setupLogger(debug bool) {
	level := zap.InfoLevel
	if debug {
		level = zap.DebugLevel
	}
	c := zap.Config{
		Level:            zap.NewAtomicLevelAt(level),
		Development:      false,
		Encoding:         "console",
		EncoderConfig:    zap.NewDevelopmentEncoderConfig(),
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stderr"},
	}

	logger, err := c.Build()
	if err != nil {
		panic(err)
	}
	zap.ReplaceGlobals(logger)
}

// Core is the concrete SDK implementation.
type Core struct {
	cfg      *config.Config
	resolver networks.Resolver
	chain    *networks.Config

	store    storage.Uploader
	graph    graphql.Querier
	evm      *blockchain.EVMClient
	pipeline *pipeline.Pipeline
	closers  []io.Closer
}

// NewSDK validates cfg, resolves the network and connects every
// collaborator. The storage session of an infura provider keeps opening in
// the background; writes fail with storage.ErrNotInitialized until it is
// ready (see Core.WaitReady).
func NewSDK(ctx context.Context, cfg *config.Config) (*Core, error) {
	if err := cfg.Validate(); err != nil {
		zap.L().Error("Invalid config", zap.Error(err))
		return nil, err
	}
	cfg.Timeouts = cfg.Timeouts.WithDefaults()
	if cfg.Debug {
		setupLogger(true)
	}

	resolver := networks.Resolver{Custom: cfg.Custom}
	chain, err := resolver.ChainConfig(cfg.Network)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", config.ErrConfiguration, err)
	}

	store, err := storage.NewClient(cfg.IPFS,
		storage.WithHTTPClient(&http.Client{Timeout: cfg.Timeouts.HTTP}),
		storage.WithSessionTimeout(cfg.Timeouts.Session))
	if err != nil {
		return nil, err
	}

	var (
		auth    signature.Authorizer
		closers []io.Closer
	)
	if cfg.SignatureGRPCAddr != "" {
		gc, err := signature.NewGRPCClient(cfg.SignatureGRPCAddr)
		if err != nil {
			return nil, fmt.Errorf("signature client: %w", err)
		}
		auth = gc
		closers = append(closers, gc)
	} else {
		if cfg.SignatureAPIURL == "" {
			zap.L().Warn("no signature endpoint configured, create and update calls will fail")
		}
		auth = signature.NewHTTPClient(cfg.SignatureAPIURL, cfg.Timeouts.HTTP)
	}

	dialCtx, cancel := context.WithTimeout(ctx, cfg.Timeouts.Dial)
	defer cancel()
	evm, err := blockchain.InitEvm(dialCtx, cfg.RPCAddr, chain, cfg.PrivateKey)
	if err != nil {
		zap.L().Error("Init ethereum client failed", zap.Error(err))
		closeAll(closers)
		return nil, err
	}
	if cfg.PrivateKey == "" {
		zap.L().Warn("some methods disabled: no private key configured")
	}
	if cfg.Debug {
		zap.L().Debug("signer address", zap.String("addr", evm.From().Hex()))
	}

	graph := graphql.NewClient(chain.SubgraphURL, cfg.Timeouts.HTTP)
	zap.L().Debug("subgraph endpoint", zap.String("url", graph.URL()), zap.Uint64("network", uint64(cfg.Network)))

	c := newCore(cfg, resolver, chain, store, auth, graph, evm)
	c.evm = evm
	c.closers = closers
	return c, nil
}

// newCore assembles a Core from ready collaborators.
func newCore(cfg *config.Config, resolver networks.Resolver, chain *networks.Config,
	store storage.Uploader, auth signature.Authorizer, graph graphql.Querier, submitter pipeline.Submitter) *Core {
	return &Core{
		cfg:      cfg,
		resolver: resolver,
		chain:    chain,
		store:    store,
		graph:    graph,
		pipeline: pipeline.New(store, auth, fee.NewResolver(graph), submitter),
	}
}

// Service returns the service module.
func (c *Core) Service() Service { return &serviceClient{core: c} }

// Proposal returns the proposal module.
func (c *Core) Proposal() Proposal { return &proposalClient{core: c} }

// Platform returns the platform module.
func (c *Core) Platform() Platform { return &platformClient{core: c} }

// GetChainConfig returns the contract configuration for id.
func (c *Core) GetChainConfig(id networks.ID) (*networks.Config, error) {
	return c.resolver.ChainConfig(id)
}

// GetEvm returns the EVM client for advanced operations.
func (c *Core) GetEvm() *blockchain.EVMClient {
	return c.evm
}

// WaitReady blocks until the storage client can accept uploads.
func (c *Core) WaitReady(ctx context.Context) error {
	if s, ok := c.store.(*storage.Client); ok {
		return s.WaitReady(ctx)
	}
	return nil
}

// WaitMined waits for the receipt of a submitted transaction. Without a
// deadline on ctx it gives up after Timeouts.ChainSubmit.
func (c *Core) WaitMined(ctx context.Context, tx common.Hash) (*types.Receipt, error) {
	if c.evm == nil {
		return nil, errors.New("no chain client")
	}
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.cfg.Timeouts.ChainSubmit)
		defer cancel()
	}
	return c.evm.WaitMined(ctx, tx, 5*time.Second)
}

// platformID returns id, or the configured platform when id is zero.
func (c *Core) platformID(id uint64) uint64 {
	if id == 0 {
		return c.cfg.PlatformID
	}
	return id
}

// query runs q and returns the node at path, or ErrNotFound.
func (c *Core) query(ctx context.Context, q, path string) (gjson.Result, error) {
	resp, err := c.graph.Query(ctx, q)
	if err != nil {
		return gjson.Result{}, err
	}
	node := resp.Data(path)
	if !node.Exists() || node.Type == gjson.Null {
		if errs := resp.Errors(); len(errs) > 0 {
			zap.L().Debug("subgraph errors", zap.String("path", path), zap.Strings("errors", errs))
		}
		return gjson.Result{}, fmt.Errorf("%s: %w", path, ErrNotFound)
	}
	return node, nil
}

// Close shuts down underlying network clients.
func (c *Core) Close() {
	closeAll(c.closers)
	if c.evm != nil {
		c.evm.Close()
	}
}

func closeAll(closers []io.Closer) {
	for _, cl := range closers {
		if err := cl.Close(); err != nil {
			zap.L().Warn("close failed", zap.Error(err))
		}
	}
}

// upload stores details outside of a write.
func (c *Core) upload(ctx context.Context, details any) (string, error) {
	rec, err := model.NewContentRecord(details)
	if err != nil {
		return "", err
	}
	return c.store.Store(ctx, rec.Payload)
}

var _ TalentLayerSDK = (*Core)(nil)
