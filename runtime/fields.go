// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime

import "github.com/takamaka/node/takamaka"

// The two fields every externally owned account carries, read during
// admission checking (§4.H step 1: "nonce matches, signature valid").
var (
	nonceField = takamaka.FieldSignature{
		DefiningClass: "io.takamaka.code.lang.ExternallyOwnedAccount",
		Name:          "nonce",
		Type:          "java.math.BigInteger",
	}
	publicKeyField = takamaka.FieldSignature{
		DefiningClass: "io.takamaka.code.lang.ExternallyOwnedAccount",
		Name:          "publicKey",
		Type:          "java.lang.String",
	}
	// balanceRedField is the gamete's red balance, set once at
	// GameteCreationResponseBuilder time (§3's dual-balance contract
	// accounting); state.updateFor recognizes it by name alongside balance.
	balanceRedField = takamaka.FieldSignature{
		DefiningClass: "io.takamaka.code.lang.Contract",
		Name:          "balanceRed",
		Type:          "java.math.BigInteger",
	}
)
