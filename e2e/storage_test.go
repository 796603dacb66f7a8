//go:build e2e

package e2e

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/talentlayer/talentlayer-sdk-go/pkg/config"
	"github.com/talentlayer/talentlayer-sdk-go/pkg/storage"
)

func TestStoreRoundTrip(t *testing.T) {
	var cfg config.IPFSConfig
	switch {
	case os.Getenv("QUICKNODE_API_KEY") != "":
		cfg = config.IPFSConfig{Provider: config.ProviderQuickNode, APIKey: os.Getenv("QUICKNODE_API_KEY")}
	case os.Getenv("INFURA_IPFS_CLIENT_ID") != "":
		cfg = config.IPFSConfig{
			Provider:     config.ProviderInfura,
			ClientID:     os.Getenv("INFURA_IPFS_CLIENT_ID"),
			ClientSecret: os.Getenv("INFURA_IPFS_CLIENT_SECRET"),
			BaseURL:      config.DefaultInfuraURL,
		}
	default:
		t.Skip("no IPFS provider credentials set")
	}

	client, err := storage.NewClient(cfg)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()
	if err := client.WaitReady(ctx); err != nil {
		t.Fatalf("WaitReady: %v", err)
	}

	cid, err := client.Store(ctx, `{"title":"e2e","about":"`+time.Now().UTC().Format(time.RFC3339Nano)+`"}`)
	if err != nil {
		t.Fatalf("Store: %v", err)
	}
	if !storage.ValidCID(cid) {
		t.Fatalf("invalid cid %q", cid)
	}
}
