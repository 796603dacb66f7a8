// Package grpc calls unary gRPC methods without generated stubs.
//
// The SDK uses it for the gRPC transport of the authorization service, whose
// signature.proto is embedded in package signature and compiled at startup:
//
//	client, err := grpc.NewClient("https://signer.example:443", map[string]string{
//		"signature.proto": src,
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer client.Close()
//
//	reply, err := client.CallWithMap(ctx, "GetSignature", map[string]any{
//		"method": "createService",
//		"args":   map[string]any{"profileId": "12", "cid": cid},
//	})
//
// Endpoint schemes select transport security: "https://" uses TLS, while
// "http://" and bare host:port addresses are insecure. Requests are
// protojson-decoded with unknown fields discarded; replies use proto field
// names and include unpopulated fields.
package grpc
