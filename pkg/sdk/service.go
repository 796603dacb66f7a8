package sdk

import (
	"context"
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

// Service manages service requests on the talentLayerService contract.
type Service interface {
	// Create stores details, obtains a createService signature, resolves the
	// platform's service posting fee and submits createService with the fee
	// as value. A zero platformID selects the configured platform.
	Create(ctx context.Context, details model.ServiceDetails, profileID, platformID uint64) (model.WriteResult, error)
	// Update stores the new details and submits updateServiceData with a
	// signature bound to the new CID. No fee is charged.
	Update(ctx context.Context, details model.ServiceDetails, profileID, serviceID uint64) (model.WriteResult, error)
	// Cancel submits cancelService. Nothing is stored or signed.
	Cancel(ctx context.Context, profileID, serviceID uint64) (common.Hash, error)
	// Upload stores details and returns the CID.
	Upload(ctx context.Context, details model.ServiceDetails) (string, error)
	// GetOne reads a service from the subgraph.
	GetOne(ctx context.Context, id string) (gjson.Result, error)
	// List reads the services matching filter, newest first.
	List(ctx context.Context, filter graphql.ServiceFilter) (gjson.Result, error)
}

type serviceClient struct {
	core *Core
}

func (s *serviceClient) Create(ctx context.Context, details model.ServiceDetails, profileID, platformID uint64) (model.WriteResult, error) {
	platformID = s.core.platformID(platformID)
	return s.core.pipeline.Execute(ctx, pipeline.Write{
		Contract:      networks.ServiceContract,
		Function:      "createService",
		Details:       details,
		Authorization: &signature.Request{Action: signature.CreateService, ProfileID: profileID},
		Fee:           &pipeline.FeeSpec{Kind: fee.ServicePosting, PlatformID: platformID},
		Args: func(a pipeline.Artifacts) []any {
			return []any{profileID, platformID, a.CID, a.Signature}
		},
	})
}

func (s *serviceClient) Update(ctx context.Context, details model.ServiceDetails, profileID, serviceID uint64) (model.WriteResult, error) {
	return s.core.pipeline.Execute(ctx, pipeline.Write{
		Contract: networks.ServiceContract,
		Function: "updateServiceData",
		Details:  details,
		Authorization: &signature.Request{
			Action:    signature.UpdateService,
			ProfileID: profileID,
			TargetID:  signature.Target(serviceID),
		},
		Args: func(a pipeline.Artifacts) []any {
			return []any{profileID, serviceID, a.CID, a.Signature}
		},
	})
}

func (s *serviceClient) Cancel(ctx context.Context, profileID, serviceID uint64) (common.Hash, error) {
	return s.core.pipeline.Submit(ctx, pipeline.Write{
		Contract: networks.ServiceContract,
		Function: "cancelService",
		Args: func(pipeline.Artifacts) []any {
			return []any{profileID, serviceID}
		},
	})
}

func (s *serviceClient) Upload(ctx context.Context, details model.ServiceDetails) (string, error) {
	return s.core.upload(ctx, details)
}

func (s *serviceClient) GetOne(ctx context.Context, id string) (gjson.Result, error) {
	return s.core.query(ctx, graphql.ServiceByID(id), "service")
}

func (s *serviceClient) List(ctx context.Context, filter graphql.ServiceFilter) (gjson.Result, error) {
	if filter.PlatformID == "" && s.core.cfg.PlatformID != 0 {
		filter.PlatformID = strconv.FormatUint(s.core.cfg.PlatformID, 10)
	}
	resp, err := s.core.graph.Query(ctx, graphql.Services(filter))
	if err != nil {
		return gjson.Result{}, err
	}
	return resp.Data("services"), nil
}
