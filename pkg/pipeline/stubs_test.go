package pipeline_test

import (
	"context"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/talentlayer/talentlayer-sdk-go/pkg/fee"
	"github.com/talentlayer/talentlayer-sdk-go/pkg/signature"
)

type uploaderFunc func(ctx context.Context, payload string) (string, error)

func (f uploaderFunc) Store(ctx context.Context, payload string) (string, error) {
	return f(ctx, payload)
}

type authorizerFunc func(ctx context.Context, req signature.Request) (string, error)

func (f authorizerFunc) Authorize(ctx context.Context, req signature.Request) (string, error) {
	return f(ctx, req)
}

type feeFunc func(ctx context.Context, kind fee.Kind, platformID uint64) (*big.Int, error)

func (f feeFunc) ResolveFee(ctx context.Context, kind fee.Kind, platformID uint64) (*big.Int, error) {
	return f(ctx, kind, platformID)
}

type submission struct {
	contract string
	function string
	args     []any
	value    *big.Int
}

// recorder counts calls to every collaborator and records submissions.
type recorder struct {
	mu          sync.Mutex
	payloads    []string
	authorized  []signature.Request
	feeLookups  int
	submissions []submission

	cid      string
	sig      string
	fee      *big.Int
	storeErr error
	authErr  error
	feeErr   error
	sendErr  error
	tx       common.Hash
}

func newRecorder() *recorder {
	return &recorder{
		cid: "bafycid1",
		sig: "0xsig",
		fee: big.NewInt(500),
		tx:  crypto.Keccak256Hash([]byte("tx")),
	}
}

func (r *recorder) uploader() uploaderFunc {
	return func(_ context.Context, payload string) (string, error) {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.payloads = append(r.payloads, payload)
		if r.storeErr != nil {
			return "", r.storeErr
		}
		return r.cid, nil
	}
}

func (r *recorder) authorizer() authorizerFunc {
	return func(_ context.Context, req signature.Request) (string, error) {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.authorized = append(r.authorized, req)
		if r.authErr != nil {
			return "", r.authErr
		}
		return r.sig, nil
	}
}

func (r *recorder) fees() feeFunc {
	return func(context.Context, fee.Kind, uint64) (*big.Int, error) {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.feeLookups++
		if r.feeErr != nil {
			return nil, r.feeErr
		}
		return r.fee, nil
	}
}

func (r *recorder) WriteContract(_ context.Context, contract, function string, args []any, value *big.Int) (common.Hash, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.submissions = append(r.submissions, submission{contract, function, args, value})
	if r.sendErr != nil {
		return common.Hash{}, r.sendErr
	}
	return r.tx, nil
}

func (r *recorder) counts() (uploads, auths, fees, submits int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.payloads), len(r.authorized), r.feeLookups, len(r.submissions)
}
