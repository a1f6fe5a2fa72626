// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime

import (
	"github.com/takamaka/node/crypto"
	"github.com/takamaka/node/request"
	"github.com/takamaka/node/state"
	"github.com/takamaka/node/takamaka"
)

// sigCacheKey identifies one exact (request hash, public key) verification
// outcome; the request hash covers the signature too, so a caller
// resubmitting or polling the same signed request never needs its
// ed25519/ECDSA check redone.
func sigCacheKey(req request.Request, publicKey []byte) takamaka.Bytes32 {
	return takamaka.SHA256(request.Hash(req).Bytes(), publicKey)
}

// admitCommon implements §4.H step 1 for every non-initial request kind:
// the caller must deserialize, its nonce must match, its signature must
// verify, its gas limit must be at least minGas, and its chain identifier
// must match consensus. It returns the deserialized caller object so the
// builder can reuse it for gas reservation without a second lookup.
func admitCommon(ctx *Context, deserializer *state.Deserializer, req request.Request, common request.Common, minGas uint64) (*state.Object, error) {
	if common.ChainID != ctx.Consensus.ChainID {
		return nil, Reject("chain id %q does not match %q", common.ChainID, ctx.Consensus.ChainID)
	}
	if common.GasLimit < minGas {
		return nil, Reject("gas limit %d is below the minimum %d", common.GasLimit, minGas)
	}

	caller, err := deserializer.Deserialize(common.Caller)
	if err != nil {
		return nil, Reject("caller %s does not deserialize: %v", common.Caller, err)
	}

	nonceValue, ok := caller.Get(nonceField)
	if !ok {
		return nil, Reject("caller %s has no nonce field", common.Caller)
	}
	currentNonce, ok := nonceValue.(takamaka.BigIntegerValue)
	if !ok {
		return nil, Reject("caller %s nonce field is not a BigInteger", common.Caller)
	}
	if common.Nonce == nil || currentNonce.Int.Cmp(common.Nonce) != 0 {
		return nil, Reject("nonce %s does not match caller's current nonce %s", common.Nonce, currentNonce.Int)
	}

	if err := verifySignature(ctx, caller, req, common.Signature); err != nil {
		return nil, err
	}

	return caller, nil
}

func verifySignature(ctx *Context, caller *state.Object, req request.Request, signature []byte) error {
	signer, err := crypto.ForScheme(ctx.Consensus.Signature)
	if err != nil {
		return Reject("unsupported signature scheme %q: %v", ctx.Consensus.Signature, err)
	}

	pubKeyValue, ok := caller.Get(publicKeyField)
	if !ok {
		return Reject("caller %s has no publicKey field", caller.Ref)
	}
	encoded, ok := pubKeyValue.(takamaka.StringValue)
	if !ok {
		return Reject("caller %s publicKey field is not a String", caller.Ref)
	}
	publicKey, err := signer.DecodePublicKey(string(encoded))
	if err != nil {
		return Reject("caller %s publicKey does not decode: %v", caller.Ref, err)
	}

	verified, err := ctx.sigCache.GetOrLoad(sigCacheKey(req, publicKey), func(interface{}) (interface{}, error) {
		return signer.Verify(publicKey, request.SigningBytes(req), signature), nil
	})
	if err != nil {
		return Reject("signature verification for caller %s failed: %v", caller.Ref, err)
	}
	if !verified.(bool) {
		return Reject("signature does not verify for caller %s", caller.Ref)
	}
	return nil
}
