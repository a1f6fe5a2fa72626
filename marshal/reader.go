// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package marshal

import (
	"encoding/binary"
	"fmt"
	"io"
	"math/big"
)

// Reader is the dual of Writer: it decodes the canonical byte encoding
// produced by it, failing fast on the first error.
type Reader struct {
	r   io.Reader
	err error
}

// NewReader wraps r.
func NewReader(r io.Reader) *Reader {
	return &Reader{r: r}
}

// Err returns the first error encountered by any Read* call.
func (r *Reader) Err() error {
	return r.err
}

func (r *Reader) read(n int) []byte {
	if r.err != nil {
		return nil
	}
	b := make([]byte, n)
	if _, err := io.ReadFull(r.r, b); err != nil {
		r.err = err
		return nil
	}
	return b
}

// Byte reads a single byte.
func (r *Reader) Byte() byte {
	b := r.read(1)
	if b == nil {
		return 0
	}
	return b[0]
}

// Bytes reads n raw bytes.
func (r *Reader) Bytes(n int) []byte {
	return r.read(n)
}

// Bool reads a boolean byte.
func (r *Reader) Bool() bool {
	return r.Byte() != 0
}

// Uint16 reads a 2-byte big-endian unsigned integer.
func (r *Reader) Uint16() uint16 {
	b := r.read(2)
	if b == nil {
		return 0
	}
	return binary.BigEndian.Uint16(b)
}

// Int32 reads a 4-byte big-endian signed integer.
func (r *Reader) Int32() int32 {
	b := r.read(4)
	if b == nil {
		return 0
	}
	return int32(binary.BigEndian.Uint32(b))
}

// Uint32 reads a 4-byte big-endian unsigned integer.
func (r *Reader) Uint32() uint32 {
	b := r.read(4)
	if b == nil {
		return 0
	}
	return binary.BigEndian.Uint32(b)
}

// Int64 reads an 8-byte big-endian signed integer.
func (r *Reader) Int64() int64 {
	b := r.read(8)
	if b == nil {
		return 0
	}
	return int64(binary.BigEndian.Uint64(b))
}

// Uint64 reads an 8-byte big-endian unsigned integer.
func (r *Reader) Uint64() uint64 {
	b := r.read(8)
	if b == nil {
		return 0
	}
	return binary.BigEndian.Uint64(b)
}

// CompactInt reads a compact-encoded non-negative integer (§4.A).
func (r *Reader) CompactInt() int {
	b := r.Byte()
	if b != compactIntEscape {
		return int(b)
	}
	return int(r.Int32())
}

// LengthPrefixedBytes reads a compact-int length followed by that many bytes.
func (r *Reader) LengthPrefixedBytes() []byte {
	n := r.CompactInt()
	if n < 0 {
		if r.err == nil {
			r.err = fmt.Errorf("marshal: negative length %d", n)
		}
		return nil
	}
	return r.read(n)
}

// String reads a length-prefixed UTF-8 string.
func (r *Reader) String() string {
	return string(r.LengthPrefixedBytes())
}

// BigInteger reads a sign-and-magnitude encoded arbitrary precision integer.
func (r *Reader) BigInteger() *big.Int {
	sign := r.Byte()
	if sign == 0 {
		return new(big.Int)
	}
	mag := r.LengthPrefixedBytes()
	v := new(big.Int).SetBytes(mag)
	if sign == 2 {
		v.Neg(v)
	}
	return v
}
