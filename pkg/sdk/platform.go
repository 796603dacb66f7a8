package sdk

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strconv"

	"github.com/ethereum/go-ethereum/common"
	"github.com/talentlayer/talentlayer-sdk-go/pkg/graphql"
	"github.com/talentlayer/talentlayer-sdk-go/pkg/model"
	"github.com/talentlayer/talentlayer-sdk-go/pkg/networks"
	"github.com/talentlayer/talentlayer-sdk-go/pkg/pipeline"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

// Platform manages a platform on the talentLayerPlatformId contract. Writes
// are gated on chain by platform ownership, so none of them is signed or
// charged. A zero platformID selects the configured platform.
type Platform interface {
	// Update stores details and submits updateProfileData.
	Update(ctx context.Context, details model.PlatformDetails, platformID uint64) (model.WriteResult, error)
	UpdateServicePostingFee(ctx context.Context, fee *big.Int, platformID uint64) (common.Hash, error)
	UpdateProposalPostingFee(ctx context.Context, fee *big.Int, platformID uint64) (common.Hash, error)
	GetOne(ctx context.Context, id string) (gjson.Result, error)
}

type platformClient struct {
	core *Core
}

func (p *platformClient) Update(ctx context.Context, details model.PlatformDetails, platformID uint64) (model.WriteResult, error) {
	platformID = p.core.platformID(platformID)
	return p.core.pipeline.Execute(ctx, pipeline.Write{
		Contract: networks.PlatformContract,
		Function: "updateProfileData",
		Details:  details,
		Args: func(a pipeline.Artifacts) []any {
			return []any{platformID, a.CID}
		},
	})
}

func (p *platformClient) UpdateServicePostingFee(ctx context.Context, fee *big.Int, platformID uint64) (common.Hash, error) {
	return p.updateFee(ctx, "updateServicePostingFee", fee, platformID)
}

func (p *platformClient) UpdateProposalPostingFee(ctx context.Context, fee *big.Int, platformID uint64) (common.Hash, error) {
	return p.updateFee(ctx, "updateProposalPostingFee", fee, platformID)
}

func (p *platformClient) updateFee(ctx context.Context, function string, fee *big.Int, platformID uint64) (common.Hash, error) {
	if fee == nil || fee.Sign() < 0 {
		return common.Hash{}, fmt.Errorf("%w: fee must be a non-negative amount", ErrInvalidArgument)
	}
	platformID = p.core.platformID(platformID)
	if platformID == 0 {
		return common.Hash{}, fmt.Errorf("%w: platform id is required", ErrInvalidArgument)
	}
	amount := new(big.Int).Set(fee)
	zap.L().Debug("updating platform fee",
		zap.String("function", function),
		zap.Uint64("platform", platformID),
		zap.String("fee", amount.String()))
	return p.core.pipeline.Submit(ctx, pipeline.Write{
		Contract: networks.PlatformContract,
		Function: function,
		Args: func(pipeline.Artifacts) []any {
			return []any{platformID, amount}
		},
	})
}

func (p *platformClient) GetOne(ctx context.Context, id string) (gjson.Result, error) {
	if id == "" {
		if p.core.cfg.PlatformID == 0 {
			return gjson.Result{}, errors.New("platform id is required")
		}
		id = strconv.FormatUint(p.core.cfg.PlatformID, 10)
	}
	return p.core.query(ctx, graphql.PlatformByID(id), "platform")
}
