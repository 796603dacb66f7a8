// Package blockchain is the write path of the SDK onto an EVM chain.
//
// An EVMClient binds every contract of a networks.Config by its JSON ABI, so
// no generated bindings are needed. Calls are made by contract and function
// name with arguments in ABI order:
//
//	evm, err := blockchain.InitEvm(ctx, rpcURL, netCfg, privateKey)
//	if err != nil {
//		return err
//	}
//	txHash, err := evm.WriteContract(ctx, networks.ServiceContract, "createService",
//		[]any{profileID, platformID, cid, signature}, fee)
//
// Arguments are coerced to the ABI types before packing: integers accept Go
// integers, *big.Int and decimal or 0x strings; bytes accept []byte or 0x hex;
// addresses accept common.Address or a hex string.
//
// WriteContract returns as soon as the node accepts the transaction. Use
// WaitMined to poll for the receipt; a reverted receipt yields ErrReverted.
//
// A client built without a private key is read-only and every write returns
// ErrNoSigner.
package blockchain
