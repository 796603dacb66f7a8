// Package graphql is the read layer of the SDK: a minimal client for the
// TalentLayer subgraph plus the query builders used by the marketplace modules.
//
// Replies are parsed with gjson. A reply that only carries GraphQL errors is
// not a transport failure; the requested node is simply absent:
//
//	resp, err := client.Query(ctx, graphql.PlatformByID("1"))
//	if err != nil {
//		return err // unreachable, non-2xx, or not JSON
//	}
//	fee := resp.Data("platform.servicePostingFee")
//	if !fee.Exists() {
//		// not found
//	}
package graphql
