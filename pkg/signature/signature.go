package signature

import (
	"context"
	"errors"
	"fmt"
)

// Action names a mutating marketplace operation the signing service authorizes.
type Action string

const (
	CreateService  Action = "createService"
	CreateProposal Action = "createProposal"
	UpdateService  Action = "updateService"
	UpdateProposal Action = "updateProposal"
)

var (
	// ErrNotConfigured is returned when no authorization service address is set.
	ErrNotConfigured = errors.New("authorization service not configured")
	// ErrInvalidRequest is returned by Request.Validate.
	ErrInvalidRequest = errors.New("invalid authorization request")
	// ErrRejected is returned when the service answers without a usable signature.
	ErrRejected = errors.New("authorization rejected")
)

// Authorizer obtains a signature binding an action to its exact parameters.
type Authorizer interface {
	Authorize(ctx context.Context, req Request) (string, error)
}

// Request fully determines a signature. Any change requires a new signature.
type Request struct {
	Action    Action
	ProfileID uint64
	// TargetID is the service the action refers to. Every action except
	// CreateService requires it.
	TargetID *uint64
	CID      string
}

// Target returns a pointer suitable for Request.TargetID.
func Target(id uint64) *uint64 { return &id }

// Validate checks that every field the on-chain verifier inspects is present.
func (r Request) Validate() error {
	switch r.Action {
	case CreateService, CreateProposal, UpdateService, UpdateProposal:
	default:
		return fmt.Errorf("%w: unknown action %q", ErrInvalidRequest, r.Action)
	}
	if r.ProfileID == 0 {
		return fmt.Errorf("%w: %s requires a profile id", ErrInvalidRequest, r.Action)
	}
	if r.CID == "" {
		return fmt.Errorf("%w: %s requires a cid", ErrInvalidRequest, r.Action)
	}
	if r.Action != CreateService && r.TargetID == nil {
		return fmt.Errorf("%w: %s requires a service id", ErrInvalidRequest, r.Action)
	}
	return nil
}

// args is the parameter object sent to the signing service.
func (r Request) args() map[string]any {
	args := map[string]any{
		"profileId": r.ProfileID,
		"cid":       r.CID,
	}
	if r.TargetID != nil {
		args["serviceId"] = *r.TargetID
	}
	return args
}
