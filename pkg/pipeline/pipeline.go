// Package pipeline runs marketplace writes through their fixed stages:
// store the details, obtain an authorization for the new CID, resolve the
// posting fee, then submit the contract call. A failure stops the sequence
// and is reported as a *StageError carrying whatever was obtained so far;
// completed stages are never rolled back.
package pipeline

import (
	"context"
	"errors"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/talentlayer/talentlayer-sdk-go/pkg/fee"
	"github.com/talentlayer/talentlayer-sdk-go/pkg/model"
	"github.com/talentlayer/talentlayer-sdk-go/pkg/signature"
	"github.com/talentlayer/talentlayer-sdk-go/pkg/storage"
	"go.uber.org/zap"
)

// ErrInvalidWrite is returned for a Write missing its target or argument builder.
var ErrInvalidWrite = errors.New("invalid write")

// FeeResolver is satisfied by *fee.Resolver.
type FeeResolver interface {
	ResolveFee(ctx context.Context, kind fee.Kind, platformID uint64) (*big.Int, error)
}

// Submitter is satisfied by *blockchain.EVMClient.
type Submitter interface {
	WriteContract(ctx context.Context, contract, function string, args []any, value *big.Int) (common.Hash, error)
}

// Artifacts are the values produced by the stages preceding submission.
type Artifacts struct {
	CID       string
	Signature string
	Fee       *big.Int
}

// FeeSpec selects the posting fee attached to a write as native value.
type FeeSpec struct {
	Kind       fee.Kind
	PlatformID uint64
}

// Write describes one marketplace write.
type Write struct {
	Contract string
	Function string
	// Details is serialized to JSON and stored. Ignored by Submit.
	Details any
	// Authorization, when set, is completed with the stored CID and signed.
	Authorization *signature.Request
	// Fee, when set, is resolved and sent as the transaction value.
	Fee *FeeSpec
	// Args builds the ABI-ordered call arguments.
	Args func(Artifacts) []any
}

func (w Write) validate() error {
	if w.Contract == "" || w.Function == "" {
		return errors.Join(ErrInvalidWrite, errors.New("contract and function are required"))
	}
	if w.Args == nil {
		return errors.Join(ErrInvalidWrite, errors.New("argument builder is required"))
	}
	return nil
}

// Pipeline sequences the write stages. It keeps no state between calls and is
// safe for concurrent use when its collaborators are.
type Pipeline struct {
	uploader   storage.Uploader
	authorizer signature.Authorizer
	fees       FeeResolver
	submitter  Submitter
}

// New returns a pipeline over the given collaborators.
func New(uploader storage.Uploader, authorizer signature.Authorizer, fees FeeResolver, submitter Submitter) *Pipeline {
	return &Pipeline{
		uploader:   uploader,
		authorizer: authorizer,
		fees:       fees,
		submitter:  submitter,
	}
}

// Execute runs every stage of w and returns the stored CID with the
// transaction hash.
func (p *Pipeline) Execute(ctx context.Context, w Write) (model.WriteResult, error) {
	if err := w.validate(); err != nil {
		return model.WriteResult{}, err
	}
	log := zap.L().With(zap.String("contract", w.Contract), zap.String("function", w.Function))

	rec, err := model.NewContentRecord(w.Details)
	if err != nil {
		return model.WriteResult{}, &StageError{Stage: StageUpload, Err: err}
	}
	rec.CID, err = p.uploader.Store(ctx, rec.Payload)
	if err == nil && rec.CID == "" {
		err = errors.New("storage returned an empty cid")
	}
	if err != nil {
		log.Error("upload failed", zap.Error(err))
		return model.WriteResult{}, &StageError{Stage: StageUpload, Err: err}
	}
	art := Artifacts{CID: rec.CID}
	log.Debug("uploaded", zap.String("cid", art.CID))

	if w.Authorization != nil {
		req := *w.Authorization
		req.CID = art.CID
		art.Signature, err = p.authorizer.Authorize(ctx, req)
		if err != nil {
			log.Error("authorization failed", zap.String("cid", art.CID), zap.Error(err))
			return model.WriteResult{}, &StageError{Stage: StageAuthorization, CID: art.CID, Err: err}
		}
		log.Debug("authorized", zap.String("cid", art.CID), zap.String("action", string(req.Action)))
	}

	if w.Fee != nil {
		art.Fee, err = p.fees.ResolveFee(ctx, w.Fee.Kind, w.Fee.PlatformID)
		if err != nil {
			log.Error("fee resolution failed", zap.String("cid", art.CID), zap.Error(err))
			return model.WriteResult{}, &StageError{
				Stage: StageFeeResolution, CID: art.CID, Signature: art.Signature, Err: err,
			}
		}
		log.Debug("fee resolved", zap.String("fee", art.Fee.String()))
	}

	tx, err := p.submit(ctx, w, art)
	if err != nil {
		log.Error("submission failed", zap.String("cid", art.CID), zap.Error(err))
		return model.WriteResult{}, &StageError{
			Stage: StageSubmission, CID: art.CID, Signature: art.Signature, Fee: art.Fee, Err: err,
		}
	}

	log.Info("write submitted", zap.String("cid", art.CID), zap.String("txHash", tx.Hex()))
	return model.WriteResult{CID: art.CID, Tx: tx}, nil
}

// Submit sends a write that carries no content: nothing is stored, signed or
// charged. Details, Authorization and Fee are ignored.
func (p *Pipeline) Submit(ctx context.Context, w Write) (common.Hash, error) {
	if err := w.validate(); err != nil {
		return common.Hash{}, err
	}
	tx, err := p.submit(ctx, w, Artifacts{})
	if err != nil {
		zap.L().Error("submission failed",
			zap.String("contract", w.Contract),
			zap.String("function", w.Function),
			zap.Error(err))
		return common.Hash{}, &StageError{Stage: StageSubmission, Err: err}
	}
	zap.L().Info("write submitted",
		zap.String("contract", w.Contract),
		zap.String("function", w.Function),
		zap.String("txHash", tx.Hex()))
	return tx, nil
}

func (p *Pipeline) submit(ctx context.Context, w Write, art Artifacts) (common.Hash, error) {
	var value *big.Int
	if w.Fee != nil && art.Fee != nil {
		value = art.Fee
	}
	tx, err := p.submitter.WriteContract(ctx, w.Contract, w.Function, w.Args(art), value)
	if err != nil {
		return common.Hash{}, err
	}
	if tx == (common.Hash{}) {
		return common.Hash{}, errors.New("empty transaction hash")
	}
	return tx, nil
}
