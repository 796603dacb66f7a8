// Package blockchain submits TalentLayer contract calls to an EVM chain. It
// binds every contract of a networks.Config by ABI at runtime, coerces loosely
// typed arguments to the ABI's Go types and signs transactions with a local key.
package blockchain

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/talentlayer/talentlayer-sdk-go/pkg/networks"
	"go.uber.org/zap"
)

var (
	// ErrNoSigner is returned by write operations when no private key was configured.
	ErrNoSigner = errors.New("no private key configured")
	// ErrUnknownContract is returned for a contract name absent from the network config.
	ErrUnknownContract = errors.New("unknown contract")
	// ErrUnknownFunction is returned for a function absent from the contract ABI.
	ErrUnknownFunction = errors.New("unknown contract function")
)

// Backend is the chain access the client needs. *ethclient.Client satisfies it.
type Backend interface {
	bind.ContractBackend
	ChainID(ctx context.Context) (*big.Int, error)
	TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error)
}

type boundContract struct {
	address common.Address
	abi     abi.ABI
	bound   *bind.BoundContract
}

// EVMClient holds a chain backend, the bound contracts of one network and the signer key.
type EVMClient struct {
	Client  Backend
	ChainID *big.Int

	contracts  map[string]*boundContract
	privateKey *ecdsa.PrivateKey
	from       common.Address
}

// InitEvm dials endpoint and binds the contracts of cfg. privateKeyHex may be
// empty, in which case the client is read-only.
func InitEvm(ctx context.Context, endpoint string, cfg *networks.Config, privateKeyHex string) (*EVMClient, error) {
	client, err := ethclient.DialContext(ctx, endpoint)
	if err != nil {
		zap.L().Error("Failed to ethdial", zap.String("endpoint", endpoint), zap.Error(err))
		return nil, err
	}
	evm, err := NewEVMClient(ctx, client, cfg, privateKeyHex)
	if err != nil {
		client.Close()
		return nil, err
	}
	return evm, nil
}

// NewEVMClient binds the contracts of cfg on an existing backend.
func NewEVMClient(ctx context.Context, backend Backend, cfg *networks.Config, privateKeyHex string) (*EVMClient, error) {
	if cfg == nil {
		return nil, errors.New("network config is required")
	}

	chainID, err := backend.ChainID(ctx)
	if err != nil {
		zap.L().Error("failed to get chain ID", zap.Error(err))
		return nil, fmt.Errorf("chain id: %w", err)
	}

	evm := &EVMClient{
		Client:    backend,
		ChainID:   chainID,
		contracts: make(map[string]*boundContract, len(cfg.Contracts)),
	}

	for name, c := range cfg.Contracts {
		if c.ABI == "" {
			zap.L().Debug("contract has no ABI, skipping", zap.String("contract", name))
			continue
		}
		parsed, err := abi.JSON(strings.NewReader(c.ABI))
		if err != nil {
			return nil, fmt.Errorf("parse ABI of %s: %w", name, err)
		}
		evm.contracts[name] = &boundContract{
			address: c.Address,
			abi:     parsed,
			bound:   bind.NewBoundContract(c.Address, parsed, backend, backend, backend),
		}
	}

	if privateKeyHex != "" {
		from, key, err := ParsePrivateKeyECDSA(strings.TrimPrefix(privateKeyHex, "0x"))
		if err != nil {
			return nil, fmt.Errorf("parse private key: %w", err)
		}
		evm.privateKey, evm.from = key, from
	}

	zap.L().Debug("evm client ready",
		zap.String("chainId", chainID.String()),
		zap.Int("contracts", len(evm.contracts)),
		zap.Bool("signer", evm.privateKey != nil))
	return evm, nil
}

// From returns the signer address, or the zero address for a read-only client.
func (evm *EVMClient) From() common.Address { return evm.from }

// ContractAddress returns the address of a bound contract.
func (evm *EVMClient) ContractAddress(contract string) (common.Address, bool) {
	c, ok := evm.contracts[contract]
	if !ok {
		return common.Address{}, false
	}
	return c.address, true
}

// WriteContract sends a transaction calling function on contract with args in
// ABI order. value is attached as native payment when non-nil.
func (evm *EVMClient) WriteContract(ctx context.Context, contract, function string, args []any, value *big.Int) (common.Hash, error) {
	if evm.privateKey == nil {
		return common.Hash{}, ErrNoSigner
	}
	c, ok := evm.contracts[contract]
	if !ok {
		return common.Hash{}, fmt.Errorf("%w: %s", ErrUnknownContract, contract)
	}
	method, ok := c.abi.Methods[function]
	if !ok {
		return common.Hash{}, fmt.Errorf("%w: %s.%s", ErrUnknownFunction, contract, function)
	}

	params, err := coerceArgs(method.Inputs, args)
	if err != nil {
		return common.Hash{}, fmt.Errorf("%s.%s: %w", contract, function, err)
	}

	opts, err := GetTransactOpts(evm.ChainID, evm.privateKey)
	if err != nil {
		return common.Hash{}, err
	}
	opts.Context = ctx
	if value != nil {
		opts.Value = new(big.Int).Set(value)
	}

	tx, err := c.bound.Transact(opts, function, params...)
	if err != nil {
		zap.L().Error("transaction failed",
			zap.String("contract", contract),
			zap.String("function", function),
			zap.Error(err))
		return common.Hash{}, fmt.Errorf("%s.%s: %w", contract, function, err)
	}

	zap.L().Info("transaction sent",
		zap.String("contract", contract),
		zap.String("function", function),
		zap.String("txHash", tx.Hash().Hex()))
	return tx.Hash(), nil
}

// Close releases the backend connection when the backend supports it.
func (evm *EVMClient) Close() {
	if c, ok := evm.Client.(interface{ Close() }); ok {
		c.Close()
	}
}
