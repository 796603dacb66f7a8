// Package signature obtains authorization signatures from the platform's
// off-chain signing service. A signature binds an action to the exact actor,
// target and CID that the on-chain contract will verify, so a new one is
// needed whenever any of them changes.
//
// Two transports implement Authorizer. HTTPClient is the default:
//
//	POST <url>
//	{"method": "createProposal", "args": {"profileId": 12, "serviceId": 3, "cid": "bafy..."}}
//
// and accepts {"signature": "0x.."}, a JSON string or bare text in reply.
// GRPCClient calls SignatureService.GetSignature from the embedded
// signature.proto. Both send a fresh request id (X-Request-Id header or
// x-request-id metadata) with every call.
package signature
