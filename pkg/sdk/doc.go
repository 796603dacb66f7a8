// Quick start
//
//	cfg := &config.Config{
//		Network:         networks.Mumbai,
//		RPCAddr:         "https://polygon-mumbai.infura.io/v3/YOUR_PROJECT_ID",
//		PrivateKey:      "YOUR_PRIVATE_KEY",
//		PlatformID:      1,
//		SignatureAPIURL: "https://your-platform.example/api/signature",
//		IPFS: config.IPFSConfig{
//			Provider: config.ProviderQuickNode,
//			APIKey:   "YOUR_QUICKNODE_KEY",
//		},
//	}
//
//	tl, err := sdk.NewSDK(ctx, cfg)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer tl.Close()
//
//	res, err := tl.Service().Create(ctx, model.ServiceDetails{Title: "Logo design"}, profileID, 0)
//
// # Writes
//
// Create and update operations store the details document, obtain a signature
// for its CID from the platform's authorization service, resolve the posting
// fee when one applies, and submit the contract call. Failures are
// *pipeline.StageError values: errors.Is matches pipeline.ErrUploadFailed and
// its siblings, and errors.As exposes the CID, signature and fee obtained
// before the failing stage. Nothing already stored is removed.
//
// Cancel and the platform fee setters skip every stage but submission.
//
// # Reads
//
// GetOne, List and the proposal lookups query the network's subgraph and
// return the raw gjson node. A missing entity is ErrNotFound for single-entity
// reads and an empty array for lists.
//
// # Storage readiness
//
// The infura provider opens its session in the background. Until it is ready
// every write fails fast with storage.ErrNotInitialized; call Core.WaitReady
// first when writing right after start-up.
//
// # Logging
//
// The package installs a console zap logger at info level. Config.Debug
// raises it to debug; applications may replace it with zap.ReplaceGlobals.
package sdk
