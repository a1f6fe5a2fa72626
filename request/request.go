// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package request defines the sum type of transaction requests (§3) and
// their bit-exact marshalling (§4.A).
package request

import (
	"bytes"
	"fmt"
	"math/big"

	"github.com/takamaka/node/marshal"
	"github.com/takamaka/node/takamaka"
)

// Kind discriminates the Request sum type.
type Kind int

const (
	KindJarStoreInitial Kind = iota
	KindGameteCreation
	KindInitialization
	KindJarStore
	KindConstructorCall
	KindInstanceMethodCall
	KindStaticMethodCall
	KindTransfer
)

// MethodSignature identifies a method by name, formal parameter types and
// declared return type ("" for void).
type MethodSignature struct {
	DefiningClass string
	Name          string
	Params        []string
	Returns       string // empty for void
}

// ConstructorSignature identifies a constructor by formal parameter types.
type ConstructorSignature struct {
	DefiningClass string
	Params        []string
}

// Request is the sum type of §3. Concrete types below implement it.
type Request interface {
	Kind() Kind
	// Into writes the canonical encoding, signature included for
	// non-initial requests.
	Into(w *marshal.Writer)
	// IntoWithoutSignature writes everything Into does except the
	// trailing signature bytes; this is exactly the payload that gets
	// signed and, for initial requests (which carry no signature), is
	// identical to Into.
	IntoWithoutSignature(w *marshal.Writer)
}

// Common holds the fields shared by every non-initial request (§3).
type Common struct {
	Caller    takamaka.StorageRef
	Nonce     *big.Int
	ChainID   string
	GasLimit  uint64
	GasPrice  *big.Int
	Classpath takamaka.Bytes32
	Signature []byte
}

func (c *Common) writeCommonWithoutSignature(w *marshal.Writer) {
	w.WriteStorageRefWithoutSelector(c.Caller)
	w.BigInteger(c.Nonce)
	w.String(c.ChainID)
	w.Uint64(c.GasLimit)
	w.BigInteger(c.GasPrice)
	w.Bytes(c.Classpath.Bytes())
}

func readCommonWithoutSignature(r *marshal.Reader) Common {
	caller := r.ReadStorageRefWithoutSelector()
	nonce := r.BigInteger()
	chainID := r.String()
	gasLimit := r.Uint64()
	gasPrice := r.BigInteger()
	var classpath takamaka.Bytes32
	copy(classpath[:], r.Bytes(32))
	return Common{Caller: caller, Nonce: nonce, ChainID: chainID, GasLimit: gasLimit, GasPrice: gasPrice, Classpath: classpath}
}

// Hash computes the transaction reference of a request: SHA-256 of its
// full canonical encoding (signature included, where present), per §3.
func Hash(req Request) takamaka.Bytes32 {
	var buf bytes.Buffer
	w := marshal.NewWriter(&buf)
	req.Into(w)
	return takamaka.SHA256(buf.Bytes())
}

// Encode renders a request's full canonical encoding.
func Encode(req Request) ([]byte, error) {
	var buf bytes.Buffer
	w := marshal.NewWriter(&buf)
	req.Into(w)
	if err := w.Err(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// SigningBytes renders the payload that a caller's signature covers: the
// canonical encoding minus the trailing signature field (§4.A).
func SigningBytes(req Request) []byte {
	var buf bytes.Buffer
	w := marshal.NewWriter(&buf)
	req.IntoWithoutSignature(w)
	return buf.Bytes()
}

// Decode parses a request previously produced by Encode.
func Decode(data []byte) (Request, error) {
	r := marshal.NewReader(bytes.NewReader(data))
	sel := r.Byte()
	req := decodeBySelector(int(sel), r)
	if err := r.Err(); err != nil {
		return nil, err
	}
	if req == nil {
		return nil, fmt.Errorf("marshal: unknown request selector %d", sel)
	}
	return req, nil
}
