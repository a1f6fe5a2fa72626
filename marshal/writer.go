// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package marshal implements the bit-exact binary wire format of the
// engine: a big-endian, selector-tagged stream used for every Value,
// Update, Request and Response. The format is canonical (two logically
// equal beans always produce byte-equal output) because transaction
// references are derived by hashing encoded request bytes.
package marshal

import (
	"encoding/binary"
	"io"
	"math/big"
)

// compactIntEscape is the sentinel compact-int byte signalling "the real
// value follows as a 4-byte big-endian signed integer" (§4.A).
const compactIntEscape = 0xFF

// Writer accumulates the canonical byte encoding of a bean. It wraps any
// io.Writer (normally a bytes.Buffer) and never buffers internally, so that
// partial writes surface immediately.
type Writer struct {
	w   io.Writer
	err error
}

// NewWriter wraps w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// Err returns the first error encountered by any Write* call.
func (w *Writer) Err() error {
	return w.err
}

func (w *Writer) write(p []byte) {
	if w.err != nil {
		return
	}
	_, w.err = w.w.Write(p)
}

// Byte writes a single selector or payload byte.
func (w *Writer) Byte(b byte) {
	w.write([]byte{b})
}

// Bytes writes a raw byte slice verbatim, with no length prefix.
func (w *Writer) Bytes(b []byte) {
	w.write(b)
}

// Bool writes one byte: 1 for true, 0 for false.
func (w *Writer) Bool(v bool) {
	if v {
		w.Byte(1)
	} else {
		w.Byte(0)
	}
}

// Uint16 writes a 2-byte big-endian unsigned integer.
func (w *Writer) Uint16(v uint16) {
	var b [2]byte
	binary.BigEndian.PutUint16(b[:], v)
	w.write(b[:])
}

// Int32 writes a 4-byte big-endian signed integer.
func (w *Writer) Int32(v int32) {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], uint32(v))
	w.write(b[:])
}

// Uint32 writes a 4-byte big-endian unsigned integer.
func (w *Writer) Uint32(v uint32) {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], v)
	w.write(b[:])
}

// Int64 writes an 8-byte big-endian signed integer.
func (w *Writer) Int64(v int64) {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], uint64(v))
	w.write(b[:])
}

// Uint64 writes an 8-byte big-endian unsigned integer.
func (w *Writer) Uint64(v uint64) {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], v)
	w.write(b[:])
}

// CompactInt writes a non-negative integer using the compact encoding of
// §4.A: one byte for 0..254, else 0xFF followed by a 4-byte big-endian
// signed integer.
func (w *Writer) CompactInt(v int) {
	if v >= 0 && v < compactIntEscape {
		w.Byte(byte(v))
		return
	}
	w.Byte(compactIntEscape)
	w.Int32(int32(v))
}

// LengthPrefixedBytes writes a compact-int length followed by the bytes.
func (w *Writer) LengthPrefixedBytes(b []byte) {
	w.CompactInt(len(b))
	w.Bytes(b)
}

// String writes a UTF-8 string as a length-prefixed byte sequence.
func (w *Writer) String(s string) {
	w.LengthPrefixedBytes([]byte(s))
}

// BigInteger writes an arbitrary precision integer as a sign byte (0 for
// zero, 1 for positive, 2 for negative) followed, for non-zero values, by
// the length-prefixed big-endian magnitude; this round-trips unambiguously
// including zero.
func (w *Writer) BigInteger(v *big.Int) {
	sign := byte(0)
	switch v.Sign() {
	case -1:
		sign = 2
	case 1:
		sign = 1
	}
	w.Byte(sign)
	if sign != 0 {
		w.LengthPrefixedBytes(v.Bytes())
	}
}
