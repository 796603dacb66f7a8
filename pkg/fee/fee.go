// Package fee resolves the posting fee a platform currently charges, in the
// native token's smallest unit. Fees are read fresh for every write.
package fee

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strconv"

	"github.com/shopspring/decimal"
	"github.com/talentlayer/talentlayer-sdk-go/pkg/graphql"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

// Kind selects which platform fee is resolved.
type Kind int

const (
	ServicePosting Kind = iota
	ProposalPosting
)

func (k Kind) String() string {
	switch k {
	case ServicePosting:
		return "servicePostingFee"
	case ProposalPosting:
		return "proposalPostingFee"
	default:
		return "Kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// ErrInvalidAmount is returned when the read layer reports a fee that is not a
// non-negative integer.
var ErrInvalidAmount = errors.New("invalid fee amount")

// Resolver reads platform fees from the subgraph.
type Resolver struct {
	q graphql.Querier
}

// NewResolver returns a resolver backed by q.
func NewResolver(q graphql.Querier) *Resolver {
	return &Resolver{q: q}
}

// ResolveFee returns the fee of the given kind for platformID. An unknown
// platform or an unset fee is zero. Transport failures and malformed amounts
// are errors.
func (r *Resolver) ResolveFee(ctx context.Context, kind Kind, platformID uint64) (*big.Int, error) {
	var field string
	switch kind {
	case ServicePosting, ProposalPosting:
		field = kind.String()
	default:
		return nil, fmt.Errorf("unknown fee kind %s", kind)
	}

	id := strconv.FormatUint(platformID, 10)
	resp, err := r.q.Query(ctx, graphql.PlatformByID(id))
	if err != nil {
		return nil, fmt.Errorf("resolve %s for platform %s: %w", field, id, err)
	}

	node := resp.Data("platform." + field)
	if !node.Exists() || node.Type == gjson.Null || node.String() == "" {
		zap.L().Debug("no fee configured", zap.String("platform", id), zap.String("fee", field))
		return new(big.Int), nil
	}

	amount, err := parseAmount(node.String())
	if err != nil {
		return nil, fmt.Errorf("%s for platform %s: %w", field, id, err)
	}
	zap.L().Debug("fee resolved", zap.String("platform", id), zap.String("fee", field), zap.String("amount", amount.String()))
	return amount, nil
}

// parseAmount accepts integer strings, including exponent notation such as
// "5e2", and rejects negative or fractional values.
func parseAmount(s string) (*big.Int, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAmount, s)
	}
	if d.IsNegative() {
		return nil, fmt.Errorf("%w: negative %q", ErrInvalidAmount, s)
	}
	if !d.Equal(d.Truncate(0)) {
		return nil, fmt.Errorf("%w: fractional %q", ErrInvalidAmount, s)
	}
	return d.BigInt(), nil
}
