package fee

import (
	"context"
	"errors"
	"math/big"
	"strings"
	"testing"

	"github.com/talentlayer/talentlayer-sdk-go/pkg/graphql"
	"github.com/tidwall/gjson"
)

type querierFunc func(ctx context.Context, query string) (graphql.Response, error)

func (f querierFunc) Query(ctx context.Context, query string) (graphql.Response, error) {
	return f(ctx, query)
}

func reply(body string) querierFunc {
	return func(context.Context, string) (graphql.Response, error) {
		return graphql.Response{Result: gjson.Parse(body)}, nil
	}
}

func TestResolveFee(t *testing.T) {
	tests := []struct {
		name string
		kind Kind
		body string
		want int64
	}{
		{name: "service fee", kind: ServicePosting, body: `{"data":{"platform":{"servicePostingFee":"500","proposalPostingFee":"7"}}}`, want: 500},
		{name: "proposal fee", kind: ProposalPosting, body: `{"data":{"platform":{"servicePostingFee":"500","proposalPostingFee":"7"}}}`, want: 7},
		{name: "numeric literal", kind: ServicePosting, body: `{"data":{"platform":{"servicePostingFee":1000}}}`, want: 1000},
		{name: "exponent notation", kind: ServicePosting, body: `{"data":{"platform":{"servicePostingFee":"5e2"}}}`, want: 500},
		{name: "fee null", kind: ServicePosting, body: `{"data":{"platform":{"servicePostingFee":null}}}`, want: 0},
		{name: "fee absent", kind: ProposalPosting, body: `{"data":{"platform":{"id":"1"}}}`, want: 0},
		{name: "platform absent", kind: ServicePosting, body: `{"data":{"platform":null}}`, want: 0},
		{name: "errors only", kind: ServicePosting, body: `{"data":null,"errors":[{"message":"boom"}]}`, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewResolver(reply(tt.body)).ResolveFee(context.Background(), tt.kind, 1)
			if err != nil {
				t.Fatalf("ResolveFee returned error: %v", err)
			}
			if got.Cmp(big.NewInt(tt.want)) != 0 {
				t.Fatalf("got %s want %d", got, tt.want)
			}
		})
	}
}

func TestResolveFee_InvalidAmounts(t *testing.T) {
	for _, amount := range []string{`"abc"`, `"-1"`, `"1.5"`} {
		body := `{"data":{"platform":{"servicePostingFee":` + amount + `}}}`
		_, err := NewResolver(reply(body)).ResolveFee(context.Background(), ServicePosting, 1)
		if !errors.Is(err, ErrInvalidAmount) {
			t.Fatalf("amount %s: expected ErrInvalidAmount, got %v", amount, err)
		}
	}
}

func TestResolveFee_TransportFailure(t *testing.T) {
	boom := errors.New("connection refused")
	q := querierFunc(func(context.Context, string) (graphql.Response, error) {
		return graphql.Response{}, boom
	})
	_, err := NewResolver(q).ResolveFee(context.Background(), ServicePosting, 1)
	if !errors.Is(err, boom) {
		t.Fatalf("expected transport error, got %v", err)
	}
}

func TestResolveFee_QueriesRequestedPlatformEveryTime(t *testing.T) {
	var queries []string
	fees := []string{"100", "250"}
	q := querierFunc(func(_ context.Context, query string) (graphql.Response, error) {
		queries = append(queries, query)
		fee := fees[len(queries)-1]
		return graphql.Response{Result: gjson.Parse(`{"data":{"platform":{"servicePostingFee":"` + fee + `"}}}`)}, nil
	})
	r := NewResolver(q)

	first, err := r.ResolveFee(context.Background(), ServicePosting, 42)
	if err != nil {
		t.Fatalf("first ResolveFee: %v", err)
	}
	second, err := r.ResolveFee(context.Background(), ServicePosting, 42)
	if err != nil {
		t.Fatalf("second ResolveFee: %v", err)
	}

	if first.Int64() != 100 || second.Int64() != 250 {
		t.Fatalf("fee must not be cached: got %s then %s", first, second)
	}
	if len(queries) != 2 {
		t.Fatalf("expected 2 queries, got %d", len(queries))
	}
	if !strings.Contains(queries[0], `platform(id: "42")`) {
		t.Fatalf("query does not target platform 42: %s", queries[0])
	}
}

func TestResolveFee_UnknownKind(t *testing.T) {
	if _, err := NewResolver(reply(`{}`)).ResolveFee(context.Background(), Kind(9), 1); err == nil {
		t.Fatal("expected error for unknown kind")
	}
}
