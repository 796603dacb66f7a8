package model

import (
	"github.com/ethereum/go-ethereum/common"
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// ServiceDetails is the off-chain description of a service request.
type ServiceDetails struct {
	Title      string `json:"title"`
	About      string `json:"about"`
	Keywords   string `json:"keywords,omitempty"`
	Role       string `json:"role,omitempty"`
	RateToken  string `json:"rateToken,omitempty"`
	RateAmount string `json:"rateAmount,omitempty"`
	Recipient  string `json:"recipient,omitempty"`
	// Extra holds additional top-level fields. Keys that collide with the
	// named fields are ignored.
	Extra map[string]any `json:"-"`
}

// MarshalJSON flattens Extra into the document.
func (d ServiceDetails) MarshalJSON() ([]byte, error) {
	type plain ServiceDetails
	return marshalWithExtra(plain(d), d.Extra)
}

// ProposalDetails is the off-chain description of a proposal.
type ProposalDetails struct {
	About         string `json:"about"`
	StartDate     string `json:"startDate,omitempty"`
	ExpectedHours string `json:"expectedHours,omitempty"`
	VideoURL      string `json:"video_url,omitempty"`
	// Extra holds additional top-level fields.
	Extra map[string]any `json:"-"`
}

// MarshalJSON flattens Extra into the document.
func (d ProposalDetails) MarshalJSON() ([]byte, error) {
	type plain ProposalDetails
	return marshalWithExtra(plain(d), d.Extra)
}

// PlatformDetails is the profile document of a platform.
type PlatformDetails struct {
	About    string `json:"about"`
	Website  string `json:"website"`
	VideoURL string `json:"video_url"`
	ImageURL string `json:"image_url"`
	// Extra holds additional top-level fields.
	Extra map[string]any `json:"-"`
}

// MarshalJSON flattens Extra into the document.
func (d PlatformDetails) MarshalJSON() ([]byte, error) {
	type plain PlatformDetails
	return marshalWithExtra(plain(d), d.Extra)
}

func marshalWithExtra(v any, extra map[string]any) ([]byte, error) {
	if len(extra) == 0 {
		return json.Marshal(v)
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	fields := make(map[string]any, len(extra)+8)
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, err
	}
	for k, val := range extra {
		if _, taken := fields[k]; !taken {
			fields[k] = val
		}
	}
	return json.Marshal(fields)
}

// ContentRecord is a serialized details document and the CID it was stored
// under. A record is never modified after upload; an update produces a new one.
type ContentRecord struct {
	Payload string `json:"payload"`
	CID     string `json:"cid"`
}

// NewContentRecord serializes details into a record without a CID.
func NewContentRecord(details any) (ContentRecord, error) {
	b, err := json.Marshal(details)
	if err != nil {
		return ContentRecord{}, err
	}
	return ContentRecord{Payload: string(b)}, nil
}

// Stored reports whether the record has been assigned a CID.
func (r ContentRecord) Stored() bool { return r.CID != "" }

// WriteResult is returned by successful write operations. Both fields are set.
type WriteResult struct {
	CID string      `json:"cid"`
	Tx  common.Hash `json:"tx"`
}
