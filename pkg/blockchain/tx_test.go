package blockchain

import (
	"context"
	"errors"
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
)

func TestGetTransactOpts(t *testing.T) {
	priv, err := crypto.GenerateKey()
	if err != nil {
		t.Fatalf("failed to generate key: %v", err)
	}

	opts, err := GetTransactOpts(big.NewInt(137), priv)
	if err != nil {
		t.Fatalf("GetTransactOpts failed: %v", err)
	}
	if opts.From != crypto.PubkeyToAddress(priv.PublicKey) {
		t.Fatalf("unexpected From address: got %s, want %s",
			opts.From.Hex(),
			crypto.PubkeyToAddress(priv.PublicKey).Hex())
	}
}

func TestGetTransactOpts_NilKey(t *testing.T) {
	if _, err := GetTransactOpts(big.NewInt(1), nil); !errors.Is(err, ErrNoSigner) {
		t.Fatalf("expected ErrNoSigner, got %v", err)
	}
}

func TestGetTransactOpts_NilChainID(t *testing.T) {
	priv, err := crypto.GenerateKey()
	if err != nil {
		t.Fatalf("failed to generate key: %v", err)
	}

	opts, err := GetTransactOpts(nil, priv)
	if err == nil {
		t.Fatal("expected error for nil chainID")
	}
	if opts != nil {
		t.Fatal("expected nil opts on error")
	}
}

func TestWaitMined(t *testing.T) {
	backend := newFakeBackend()
	evm := &EVMClient{Client: backend}
	hash := common.HexToHash("0x01")
	backend.receipts[hash] = &types.Receipt{Status: types.ReceiptStatusSuccessful, TxHash: hash}
	backend.misses = 1

	receipt, err := evm.WaitMined(context.Background(), hash, time.Second)
	if err != nil {
		t.Fatalf("WaitMined returned error: %v", err)
	}
	if receipt.TxHash != hash {
		t.Fatalf("unexpected receipt %s", receipt.TxHash.Hex())
	}
}

func TestWaitMined_Reverted(t *testing.T) {
	backend := newFakeBackend()
	evm := &EVMClient{Client: backend}
	hash := common.HexToHash("0x02")
	backend.receipts[hash] = &types.Receipt{Status: types.ReceiptStatusFailed, TxHash: hash}

	if _, err := evm.WaitMined(context.Background(), hash, 0); !errors.Is(err, ErrReverted) {
		t.Fatalf("expected ErrReverted, got %v", err)
	}
}

func TestWaitMined_ContextDone(t *testing.T) {
	evm := &EVMClient{Client: newFakeBackend()}
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	if _, err := evm.WaitMined(ctx, common.HexToHash("0x03"), 0); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}
