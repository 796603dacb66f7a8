package sdk

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strconv"

	"github.com/ethereum/go-ethereum/common"
	"github.com/talentlayer/talentlayer-sdk-go/pkg/fee"
	"github.com/talentlayer/talentlayer-sdk-go/pkg/graphql"
	"github.com/talentlayer/talentlayer-sdk-go/pkg/model"
	"github.com/talentlayer/talentlayer-sdk-go/pkg/networks"
	"github.com/talentlayer/talentlayer-sdk-go/pkg/pipeline"
	"github.com/talentlayer/talentlayer-sdk-go/pkg/signature"
	"github.com/tidwall/gjson"
)

// ErrInvalidArgument is returned before any network call when proposal terms are malformed.
var ErrInvalidArgument = errors.New("invalid argument")

// ProposalTerms are the on-chain terms of a proposal.
type ProposalTerms struct {
	ProfileID uint64
	ServiceID uint64
	// RateToken is the token address; the zero address is the native token.
	RateToken string
	// RateAmount is an integer amount in the token's smallest unit.
	RateAmount string
	// ExpirationDate is a unix timestamp in seconds.
	ExpirationDate string
}

func (t ProposalTerms) validate() error {
	if !common.IsHexAddress(t.RateToken) {
		return fmt.Errorf("%w: rate token %q is not an address", ErrInvalidArgument, t.RateToken)
	}
	if n, ok := new(big.Int).SetString(t.RateAmount, 10); !ok || n.Sign() < 0 {
		return fmt.Errorf("%w: rate amount %q", ErrInvalidArgument, t.RateAmount)
	}
	if _, err := strconv.ParseUint(t.ExpirationDate, 10, 64); err != nil {
		return fmt.Errorf("%w: expiration date %q", ErrInvalidArgument, t.ExpirationDate)
	}
	return nil
}

// CreateProposal are the terms of a new proposal. A zero PlatformID selects
// the configured platform.
type CreateProposal struct {
	ProposalTerms
	PlatformID uint64
}

// UpdateProposal are the replacement terms of an existing proposal.
type UpdateProposal struct {
	ProposalTerms
}

// Proposal manages proposals on the talentLayerService contract.
type Proposal interface {
	// Create stores details, obtains a createProposal signature, resolves the
	// platform's proposal posting fee and submits createProposal.
	Create(ctx context.Context, details model.ProposalDetails, terms CreateProposal) (model.WriteResult, error)
	// Update stores the new details and submits updateProposal with a fresh
	// signature. No fee is charged.
	Update(ctx context.Context, details model.ProposalDetails, terms UpdateProposal) (model.WriteResult, error)
	// Upload stores details and returns the CID.
	Upload(ctx context.Context, details model.ProposalDetails) (string, error)
	GetOne(ctx context.Context, id string) (gjson.Result, error)
	GetByService(ctx context.Context, serviceID string) (gjson.Result, error)
	GetByUser(ctx context.Context, userID string) (gjson.Result, error)
}

type proposalClient struct {
	core *Core
}

func (p *proposalClient) Create(ctx context.Context, details model.ProposalDetails, terms CreateProposal) (model.WriteResult, error) {
	if err := terms.validate(); err != nil {
		return model.WriteResult{}, err
	}
	platformID := p.core.platformID(terms.PlatformID)
	return p.core.pipeline.Execute(ctx, pipeline.Write{
		Contract: networks.ServiceContract,
		Function: "createProposal",
		Details:  details,
		Authorization: &signature.Request{
			Action:    signature.CreateProposal,
			ProfileID: terms.ProfileID,
			TargetID:  signature.Target(terms.ServiceID),
		},
		Fee: &pipeline.FeeSpec{Kind: fee.ProposalPosting, PlatformID: platformID},
		Args: func(a pipeline.Artifacts) []any {
			return []any{
				terms.ProfileID, terms.ServiceID, terms.RateToken, terms.RateAmount,
				platformID, a.CID, terms.ExpirationDate, a.Signature,
			}
		},
	})
}

func (p *proposalClient) Update(ctx context.Context, details model.ProposalDetails, terms UpdateProposal) (model.WriteResult, error) {
	if err := terms.validate(); err != nil {
		return model.WriteResult{}, err
	}
	return p.core.pipeline.Execute(ctx, pipeline.Write{
		Contract: networks.ServiceContract,
		Function: "updateProposal",
		Details:  details,
		Authorization: &signature.Request{
			Action:    signature.UpdateProposal,
			ProfileID: terms.ProfileID,
			TargetID:  signature.Target(terms.ServiceID),
		},
		Args: func(a pipeline.Artifacts) []any {
			return []any{
				terms.ProfileID, terms.ServiceID, terms.RateToken, terms.RateAmount,
				a.CID, terms.ExpirationDate, a.Signature,
			}
		},
	})
}

func (p *proposalClient) Upload(ctx context.Context, details model.ProposalDetails) (string, error) {
	return p.core.upload(ctx, details)
}

func (p *proposalClient) GetOne(ctx context.Context, id string) (gjson.Result, error) {
	return p.core.query(ctx, graphql.ProposalByID(id), "proposal")
}

func (p *proposalClient) GetByService(ctx context.Context, serviceID string) (gjson.Result, error) {
	resp, err := p.core.graph.Query(ctx, graphql.ProposalsByService(serviceID))
	if err != nil {
		return gjson.Result{}, err
	}
	return resp.Data("proposals"), nil
}

func (p *proposalClient) GetByUser(ctx context.Context, userID string) (gjson.Result, error) {
	resp, err := p.core.graph.Query(ctx, graphql.ProposalsByUser(userID))
	if err != nil {
		return gjson.Result{}, err
	}
	return resp.Data("proposals"), nil
}
