// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package takamaka

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
)

// Bytes32 is a 32-byte hash-sized value, used for transaction references,
// trie roots and digests throughout the engine.
type Bytes32 [32]byte

// Bytes returns a slice view of the value.
func (b Bytes32) Bytes() []byte { return b[:] }

// String returns the 0x-prefixed hex string.
func (b Bytes32) String() string {
	return "0x" + hex.EncodeToString(b[:])
}

// IsZero tells whether the value is all zero bytes.
func (b Bytes32) IsZero() bool {
	return b == Bytes32{}
}

// BytesToBytes32 converts a byte slice into a Bytes32, left-padding or
// truncating from the left as needed (matches the teacher's Address/Bytes32
// conversion behavior).
func BytesToBytes32(b []byte) (v Bytes32) {
	if len(b) > 32 {
		b = b[len(b)-32:]
	}
	copy(v[32-len(b):], b)
	return
}

// ParseBytes32 parses a 0x-prefixed or bare hex string into a Bytes32.
func ParseBytes32(s string) (Bytes32, error) {
	var v Bytes32
	if len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		s = s[2:]
	}
	if len(s) > 64 {
		return v, errors.New("takamaka: hex string too long for Bytes32")
	}
	// left-pad odd-length / short strings
	if len(s)%2 != 0 {
		s = "0" + s
	}
	data, err := hex.DecodeString(s)
	if err != nil {
		return v, fmt.Errorf("takamaka: invalid hex: %w", err)
	}
	copy(v[32-len(data):], data)
	return v, nil
}

// MustParseBytes32 is like ParseBytes32 but panics on error; intended for
// test fixtures and constant initialization.
func MustParseBytes32(s string) Bytes32 {
	v, err := ParseBytes32(s)
	if err != nil {
		panic(err)
	}
	return v
}

// MarshalJSON implements json.Marshaler.
func (b Bytes32) MarshalJSON() ([]byte, error) {
	return json.Marshal(b.String())
}

// UnmarshalJSON implements json.Unmarshaler.
func (b *Bytes32) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	v, err := ParseBytes32(s)
	if err != nil {
		return err
	}
	*b = v
	return nil
}

// Compare orders two Bytes32 lexicographically.
func (b Bytes32) Compare(other Bytes32) int {
	for i := range b {
		if b[i] != other[i] {
			if b[i] < other[i] {
				return -1
			}
			return 1
		}
	}
	return 0
}
