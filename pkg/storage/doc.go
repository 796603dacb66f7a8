// Package storage uploads marketplace documents to IPFS through a pinning
// provider and returns their content identifiers (CIDs).
//
// # Providers
//
// The provider is chosen once, from config.IPFSConfig, when the client is built:
//
// QuickNode:
//   - Single POST of the payload to the pinning endpoint
//   - Authenticated with the x-api-key header
//   - The response body is the CID
//   - Ready as soon as NewClient returns
//
// Infura:
//   - kubo RPC API (default https://ipfs.infura.io:5001)
//   - Authenticated with Basic base64(clientId:clientSecret)
//   - Content is added, then pinned; a failed pin fails the Store
//   - The RPC session is opened in the background
//
// An empty provider name selects config.DefaultProvider (infura) and logs a
// warning. Any other unknown name is rejected with ErrUnknownProvider.
//
// # Readiness
//
// Store never waits for an Infura session and never sends an unauthenticated
// request. Until the session is ready it returns ErrNotInitialized:
//
//	client, err := storage.NewClient(cfg.IPFS)
//	if err != nil {
//		log.Fatal(err)
//	}
//	if err := client.WaitReady(ctx); err != nil {
//		log.Fatal(err)
//	}
//	cid, err := client.Store(ctx, `{"title":"Logo design"}`)
//
// # Errors
//
//   - ErrMissingCredentials, ErrUnknownProvider: construction, wrap config.ErrConfiguration
//   - ErrNotInitialized: session not ready, or failed (the cause is wrapped)
//   - *TransportError: provider unreachable or non-2xx status
//   - *RejectedError: provider answered but refused or failed the request
//
// Store performs no retries, no deduplication and no local caching.
package storage
