package graphql

import (
	"fmt"
	"strconv"
	"strings"
)

const serviceFields = `
    id
    status
    createdAt
    updatedAt
    cid
    transaction {
      id
    }
    platform {
      id
    }
    buyer {
      id
      handle
      address
    }
    seller {
      id
      handle
    }
    description {
      id
      title
      about
      startDate
      expectedEndDate
      rateAmount
      rateToken
      keywords_raw
      video_url
    }`

const proposalFields = `
    id
    status
    cid
    rateToken {
      address
      decimals
      name
      symbol
    }
    rateAmount
    createdAt
    updatedAt
    expirationDate
    platform {
      id
    }
    service {
      id
      cid
      buyer {
        id
      }
    }
    seller {
      id
      handle
      address
    }
    description {
      id
      about
      video_url
    }`

// PlatformByID selects a platform with its posting fees.
func PlatformByID(id string) string {
	return fmt.Sprintf(`{
  platform(id: %s) {
    id
    name
    address
    cid
    servicePostingFee
    proposalPostingFee
    originServiceFeeRate
    originValidatedProposalFeeRate
    description {
      about
      website
      video_url
      image_url
    }
  }
}`, strconv.Quote(id))
}

// ServiceByID selects a single service.
func ServiceByID(id string) string {
	return fmt.Sprintf("{\n  service(id: %s) {%s\n  }\n}", strconv.Quote(id), serviceFields)
}

// ServiceFilter narrows a service listing. Zero fields are ignored.
type ServiceFilter struct {
	Status        string
	BuyerID       string
	SellerID      string
	PlatformID    string
	Keywords      string
	NumberPerPage int
	Offset        int
}

// Services lists services matching f, newest first.
func Services(f ServiceFilter) string {
	var where []string
	if f.Status != "" {
		where = append(where, "status: "+strconv.Quote(f.Status))
	}
	if f.BuyerID != "" {
		where = append(where, "buyer: "+strconv.Quote(f.BuyerID))
	}
	if f.SellerID != "" {
		where = append(where, "seller: "+strconv.Quote(f.SellerID))
	}
	if f.PlatformID != "" {
		where = append(where, "platform: "+strconv.Quote(f.PlatformID))
	}
	if f.Keywords != "" {
		where = append(where, "description_: {keywords_raw_contains: "+strconv.Quote(f.Keywords)+"}")
	}

	args := []string{"orderBy: createdAt", "orderDirection: desc"}
	if len(where) > 0 {
		args = append(args, "where: {"+strings.Join(where, ", ")+"}")
	}
	if f.NumberPerPage > 0 {
		args = append(args, "first: "+strconv.Itoa(f.NumberPerPage))
	}
	if f.Offset > 0 {
		args = append(args, "skip: "+strconv.Itoa(f.Offset))
	}
	return fmt.Sprintf("{\n  services(%s) {%s\n  }\n}", strings.Join(args, ", "), serviceFields)
}

// ProposalByID selects a single proposal.
func ProposalByID(id string) string {
	return fmt.Sprintf("{\n  proposal(id: %s) {%s\n  }\n}", strconv.Quote(id), proposalFields)
}

// ProposalsByService lists the proposals made on a service.
func ProposalsByService(serviceID string) string {
	return fmt.Sprintf("{\n  proposals(where: {service_: {id: %s}}) {%s\n  }\n}", strconv.Quote(serviceID), proposalFields)
}

// ProposalsByUser lists the proposals made by a seller.
func ProposalsByUser(userID string) string {
	return fmt.Sprintf("{\n  proposals(where: {seller: %s}) {%s\n  }\n}", strconv.Quote(userID), proposalFields)
}
