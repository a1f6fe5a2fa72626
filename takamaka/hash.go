// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package takamaka

import "crypto/sha256"

// SHA256 hashes the concatenation of the given byte slices. This is the
// default digest used for transaction references, trie node hashes and
// response hashes; the crypto adapter package offers the pluggable
// alternatives named by consensus.signature.
func SHA256(data ...[]byte) (h Bytes32) {
	hasher := sha256.New()
	for _, d := range data {
		hasher.Write(d)
	}
	copy(h[:], hasher.Sum(nil))
	return
}

// SHA256Fn hashes whatever is written to the io.Writer passed to fn; handy
// for hashing directly from a marshalling Writer without buffering twice.
func SHA256Fn(fn func(w interface{ Write([]byte) (int, error) })) (h Bytes32) {
	hasher := sha256.New()
	fn(hasher)
	copy(h[:], hasher.Sum(nil))
	return
}
