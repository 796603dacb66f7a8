// Package config provides configuration management for the TalentLayer SDK.
//
// # Basic Configuration
//
// The minimum configuration names an RPC endpoint and IPFS credentials:
//
//	cfg := &config.Config{
//		Network: networks.Mumbai,
//		RPCAddr: "https://rpc-mumbai.maticvigil.com",
//		IPFS: config.IPFSConfig{
//			Provider:     config.ProviderInfura,
//			ClientID:     "YOUR_CLIENT_ID",
//			ClientSecret: "YOUR_CLIENT_SECRET",
//		},
//		PlatformID:      1,
//		SignatureAPIURL: "https://your-platform.example/api/signature",
//	}
//
// # Storage Providers
//
// Two pinning providers are supported:
//
//   - quicknode: requires APIKey. Content is pinned with one authenticated POST.
//   - infura:    requires ClientID and ClientSecret. Content is added, then pinned,
//     through the kubo RPC API at BaseURL (default https://ipfs.infura.io:5001).
//
// An empty Provider selects DefaultProvider (infura). This fallback is explicit
// and logged at construction; set Provider to avoid relying on it. Any other
// value is rejected.
//
// # Custom Chains
//
// Custom replaces the network registry entirely. When it is present every
// network ID resolves to Custom.Contracts, and RPCAddr defaults to
// Custom.Chain.RPCURL.
//
// # Loading
//
// Load reads a YAML file; FromEnv overlays variables such as
// TALENTLAYER_PRIVATE_KEY or TALENTLAYER_IPFS_CLIENT_SECRET:
//
//	cfg, err := config.Load("talentlayer.yaml")
//	if err != nil {
//		log.Fatal(err)
//	}
//	if err := config.FromEnv("TALENTLAYER", cfg); err != nil {
//		log.Fatal(err)
//	}
//
// Validate applies defaults and checks required fields. Every error it returns
// wraps ErrConfiguration.
//
// # Thread Safety
//
// Config instances should be created once and not modified after passing to sdk.NewClient.
package config
