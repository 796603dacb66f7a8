package sdk

import (
	"context"
	"errors"
	"math/big"
	"reflect"
	"testing"

	"github.com/talentlayer/talentlayer-sdk-go/pkg/model"
	"github.com/talentlayer/talentlayer-sdk-go/pkg/signature"
)

const nativeToken = "0x0000000000000000000000000000000000000000"

func terms() ProposalTerms {
	return ProposalTerms{
		ProfileID:      12,
		ServiceID:      42,
		RateToken:      nativeToken,
		RateAmount:     "1000000000000000000",
		ExpirationDate: "1700000000",
	}
}

func TestProposalCreate(t *testing.T) {
	w := newWorld()
	w.subgraph[`platform(id: "3")`] = `{"data":{"platform":{"proposalPostingFee":"7","servicePostingFee":"500"}}}`

	res, err := w.core(nil).Proposal().Create(context.Background(), model.ProposalDetails{About: "I can do it"},
		CreateProposal{ProposalTerms: terms()})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if res.CID != "bafycid1" {
		t.Fatalf("unexpected cid %s", res.CID)
	}
	auth := w.auths[0]
	if auth.Action != signature.CreateProposal || *auth.TargetID != 42 || auth.CID != "bafycid1" {
		t.Fatalf("unexpected authorization %+v", auth)
	}
	wr := w.lastWrite()
	want := []any{uint64(12), uint64(42), nativeToken, "1000000000000000000", uint64(3), "bafycid1", "1700000000", "0xsig"}
	if wr.function != "createProposal" || !reflect.DeepEqual(wr.args, want) {
		t.Fatalf("unexpected write %s %v", wr.function, wr.args)
	}
	if wr.value.Cmp(big.NewInt(7)) != 0 {
		t.Fatalf("expected proposal posting fee 7, got %v", wr.value)
	}
}

func TestProposalUpdate(t *testing.T) {
	w := newWorld()
	w.cid = "bafynew"

	if _, err := w.core(nil).Proposal().Update(context.Background(), model.ProposalDetails{About: "revised"},
		UpdateProposal{ProposalTerms: terms()}); err != nil {
		t.Fatalf("Update returned error: %v", err)
	}
	if w.auths[0].Action != signature.UpdateProposal || w.auths[0].CID != "bafynew" {
		t.Fatalf("unexpected authorization %+v", w.auths[0])
	}
	if len(w.queries) != 0 {
		t.Fatal("update must not resolve a fee")
	}
	wr := w.lastWrite()
	want := []any{uint64(12), uint64(42), nativeToken, "1000000000000000000", "bafynew", "1700000000", "0xsig"}
	if wr.function != "updateProposal" || !reflect.DeepEqual(wr.args, want) || wr.value != nil {
		t.Fatalf("unexpected write %+v", wr)
	}
}

func TestProposalInvalidTerms(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*ProposalTerms)
	}{
		{"bad token", func(p *ProposalTerms) { p.RateToken = "matic" }},
		{"bad amount", func(p *ProposalTerms) { p.RateAmount = "1.5" }},
		{"negative amount", func(p *ProposalTerms) { p.RateAmount = "-1" }},
		{"bad expiration", func(p *ProposalTerms) { p.ExpirationDate = "tomorrow" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := newWorld()
			pt := terms()
			tt.mutate(&pt)
			_, err := w.core(nil).Proposal().Create(context.Background(), model.ProposalDetails{}, CreateProposal{ProposalTerms: pt})
			if !errors.Is(err, ErrInvalidArgument) {
				t.Fatalf("expected ErrInvalidArgument, got %v", err)
			}
			if len(w.payloads) != 0 {
				t.Fatal("nothing may be stored for invalid terms")
			}
		})
	}
}

func TestProposalReads(t *testing.T) {
	w := newWorld()
	w.subgraph[`proposal(id: "42-12")`] = `{"data":{"proposal":{"id":"42-12"}}}`
	w.subgraph[`service_: {id: "42"}`] = `{"data":{"proposals":[{"id":"42-12"}]}}`
	w.subgraph[`seller: "12"`] = `{"data":{"proposals":[{"id":"42-12"},{"id":"43-12"}]}}`
	p := w.core(nil).Proposal()
	ctx := context.Background()

	if got, err := p.GetOne(ctx, "42-12"); err != nil || got.Get("id").String() != "42-12" {
		t.Fatalf("GetOne: %s, %v", got.Raw, err)
	}
	if _, err := p.GetOne(ctx, "1-1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if got, err := p.GetByService(ctx, "42"); err != nil || len(got.Array()) != 1 {
		t.Fatalf("GetByService: %s, %v", got.Raw, err)
	}
	if got, err := p.GetByUser(ctx, "12"); err != nil || len(got.Array()) != 2 {
		t.Fatalf("GetByUser: %s, %v", got.Raw, err)
	}
}
