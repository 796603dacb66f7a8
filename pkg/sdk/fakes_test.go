package sdk

import (
	"context"
	"math/big"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/talentlayer/talentlayer-sdk-go/pkg/config"
	"github.com/talentlayer/talentlayer-sdk-go/pkg/graphql"
	"github.com/talentlayer/talentlayer-sdk-go/pkg/networks"
	"github.com/talentlayer/talentlayer-sdk-go/pkg/signature"
	"github.com/tidwall/gjson"
)

// world records every collaborator call made by a Core under test.
type world struct {
	mu       sync.Mutex
	payloads []string
	auths    []signature.Request
	queries  []string
	writes   []write
	subgraph map[string]string // query substring -> reply body
	cid      string
	sig      string
	tx       common.Hash
}

type write struct {
	contract string
	function string
	args     []any
	value    *big.Int
}

func newWorld() *world {
	return &world{
		cid:      "bafycid1",
		sig:      "0xsig",
		tx:       crypto.Keccak256Hash([]byte("tx")),
		subgraph: map[string]string{},
	}
}

func (w *world) Store(_ context.Context, payload string) (string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.payloads = append(w.payloads, payload)
	return w.cid, nil
}

func (w *world) Authorize(_ context.Context, req signature.Request) (string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := req.Validate(); err != nil {
		return "", err
	}
	w.auths = append(w.auths, req)
	return w.sig, nil
}

func (w *world) Query(_ context.Context, q string) (graphql.Response, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.queries = append(w.queries, q)
	for key, body := range w.subgraph {
		if strings.Contains(q, key) {
			return graphql.Response{Result: gjson.Parse(body)}, nil
		}
	}
	return graphql.Response{Result: gjson.Parse(`{"data":{}}`)}, nil
}

func (w *world) WriteContract(_ context.Context, contract, function string, args []any, value *big.Int) (common.Hash, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.writes = append(w.writes, write{contract, function, args, value})
	return w.tx, nil
}

func (w *world) core(cfg *config.Config) *Core {
	if cfg == nil {
		cfg = &config.Config{PlatformID: 3}
	}
	cfg.Timeouts = cfg.Timeouts.WithDefaults()
	resolver := networks.Resolver{Custom: cfg.Custom}
	chain, _ := resolver.ChainConfig(networks.Mumbai)
	return newCore(cfg, resolver, chain, w, w, w, w)
}

func (w *world) lastWrite() write {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.writes[len(w.writes)-1]
}
