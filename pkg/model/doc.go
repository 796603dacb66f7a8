// Package model defines the documents the SDK writes to content-addressed
// storage and the results of write operations.
//
// # Documents
//
// ServiceDetails, ProposalDetails and PlatformDetails are serialized to JSON
// and stored as-is; the CID of that blob is what the contracts reference. Any
// field the subgraph indexes but these structs do not name can be supplied
// through Extra:
//
//	details := model.ServiceDetails{
//		Title: "logo design",
//		About: "vector logo for a bakery",
//		Extra: map[string]any{"category": "graphics"},
//	}
//
// # Results
//
// Write operations return a WriteResult holding the CID of the stored
// document and the hash of the submitted transaction.
package model
