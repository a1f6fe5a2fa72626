// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package request_test

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/takamaka/node/request"
	"github.com/takamaka/node/takamaka"
)

func commonFixture() request.Common {
	return request.Common{
		Caller:    takamaka.NewStorageRef(takamaka.SHA256([]byte("caller")), 0),
		Nonce:     big.NewInt(3),
		ChainID:   "takamaka-test",
		GasLimit:  100000,
		GasPrice:  big.NewInt(1),
		Classpath: takamaka.SHA256([]byte("classpath")),
		Signature: []byte{1, 2, 3, 4},
	}
}

func roundTrip(t *testing.T, req request.Request) request.Request {
	t.Helper()
	data, err := request.Encode(req)
	require.NoError(t, err)
	got, err := request.Decode(data)
	require.NoError(t, err)
	return got
}

func TestRequestRoundTrip(t *testing.T) {
	receiver := takamaka.NewStorageRef(takamaka.SHA256([]byte("receiver")), 0)
	manifest := takamaka.NewStorageRef(takamaka.SHA256([]byte("manifest")), 0)

	tests := []struct {
		name string
		req  request.Request
	}{
		{
			"jar store initial",
			&request.JarStoreInitialRequest{Jar: []byte{0xCA, 0xFE, 0xBA, 0xBE}},
		},
		{
			"gamete creation",
			&request.GameteCreationRequest{
				Classpath:        takamaka.SHA256([]byte("classpath")),
				InitialSupply:    big.NewInt(1_000_000),
				InitialRedSupply: big.NewInt(500),
				PublicKey:        []byte{9, 9, 9},
			},
		},
		{
			"initialization",
			&request.InitializationRequest{Classpath: takamaka.SHA256([]byte("classpath")), Manifest: manifest},
		},
		{
			"jar store",
			&request.JarStoreRequest{Common: commonFixture(), Jar: []byte{1, 2, 3}},
		},
		{
			"constructor call",
			&request.ConstructorCallRequest{
				Common:      commonFixture(),
				Constructor: request.ConstructorSignature{DefiningClass: "org.example.Counter", Params: []string{"int"}},
				Actuals:     []takamaka.Value{takamaka.IntValue(42)},
			},
		},
		{
			"instance method call",
			&request.InstanceMethodCallRequest{
				Common:   commonFixture(),
				Receiver: receiver,
				Method:   request.MethodSignature{DefiningClass: "org.example.Counter", Name: "increment", Params: []string{"int"}, Returns: "int"},
				Actuals:  []takamaka.Value{takamaka.IntValue(1)},
			},
		},
		{
			"instance method call void",
			&request.InstanceMethodCallRequest{
				Common:   commonFixture(),
				Receiver: receiver,
				Method:   request.MethodSignature{DefiningClass: "org.example.Counter", Name: "reset", Params: []string{}},
				Actuals:  []takamaka.Value{},
			},
		},
		{
			"static method call",
			&request.StaticMethodCallRequest{
				Common:  commonFixture(),
				Method:  request.MethodSignature{DefiningClass: "org.example.Factory", Name: "create", Params: []string{"java.lang.String"}, Returns: "org.example.Counter"},
				Actuals: []takamaka.Value{takamaka.StringValue("name")},
			},
		},
		{
			"transfer int amount",
			&request.TransferRequest{
				Caller: commonFixture().Caller, Receiver: receiver, Nonce: big.NewInt(1),
				ChainID: "takamaka-test", GasPrice: big.NewInt(1), Classpath: takamaka.SHA256([]byte("classpath")),
				Signature: []byte{5, 6}, Amount: big.NewInt(1000),
			},
		},
		{
			"transfer long amount",
			&request.TransferRequest{
				Caller: commonFixture().Caller, Receiver: receiver, Nonce: big.NewInt(1),
				ChainID: "takamaka-test", GasPrice: big.NewInt(1), Classpath: takamaka.SHA256([]byte("classpath")),
				Signature: []byte{5, 6}, Amount: big.NewInt(1 << 40),
			},
		},
		{
			"transfer big integer amount",
			&request.TransferRequest{
				Caller: commonFixture().Caller, Receiver: receiver, Nonce: big.NewInt(1),
				ChainID: "takamaka-test", GasPrice: big.NewInt(1), Classpath: takamaka.SHA256([]byte("classpath")),
				Signature: []byte{5, 6}, Amount: new(big.Int).Lsh(big.NewInt(1), 100),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := roundTrip(t, tt.req)
			assert.Equal(t, tt.req, got)
			assert.Equal(t, tt.req.Kind(), got.Kind())
		})
	}
}

// TestTransferRequestAmountSelector pins the minimal-width selection rule
// (§4.A / §8 scenario 2): an int32-sized amount encodes as the int form, a
// wider int64-sized amount as the long form, and anything else falls back
// to the full BigInteger form.
func TestTransferRequestAmountSelector(t *testing.T) {
	receiver := takamaka.NewStorageRef(takamaka.SHA256([]byte("receiver")), 0)
	base := func(amount *big.Int) *request.TransferRequest {
		return &request.TransferRequest{
			Caller: commonFixture().Caller, Receiver: receiver, Nonce: big.NewInt(1),
			ChainID: "takamaka-test", GasPrice: big.NewInt(1), Classpath: takamaka.SHA256([]byte("classpath")),
			Signature: []byte{5, 6}, Amount: amount,
		}
	}

	for _, tt := range []struct {
		name   string
		amount *big.Int
	}{
		{"negative fits int32", big.NewInt(-1000)},
		{"fits int32", big.NewInt(1 << 20)},
		{"fits int64 only", big.NewInt(1 << 40)},
		{"needs full bigint", new(big.Int).Lsh(big.NewInt(1), 100)},
	} {
		t.Run(tt.name, func(t *testing.T) {
			req := base(tt.amount)
			got := roundTrip(t, req)
			gotTransfer, ok := got.(*request.TransferRequest)
			require.True(t, ok)
			assert.Equal(t, 0, tt.amount.Cmp(gotTransfer.Amount))
		})
	}
}

func TestSigningBytesExcludesSignature(t *testing.T) {
	req := &request.JarStoreRequest{Common: commonFixture(), Jar: []byte{1, 2, 3}}
	signed, err := request.Encode(req)
	require.NoError(t, err)

	signingBytes := request.SigningBytes(req)
	assert.Less(t, len(signingBytes), len(signed))
	assert.True(t, len(signed) >= len(signingBytes))

	other := *req
	other.Signature = []byte{9, 9, 9, 9, 9}
	assert.Equal(t, signingBytes, request.SigningBytes(&other))
}

func TestHashIsStableForEqualRequests(t *testing.T) {
	req1 := &request.JarStoreInitialRequest{Jar: []byte{1, 2, 3}}
	req2 := &request.JarStoreInitialRequest{Jar: []byte{1, 2, 3}}
	assert.Equal(t, request.Hash(req1), request.Hash(req2))

	req3 := &request.JarStoreInitialRequest{Jar: []byte{1, 2, 4}}
	assert.NotEqual(t, request.Hash(req1), request.Hash(req3))
}

func TestDecodeRejectsUnknownSelector(t *testing.T) {
	_, err := request.Decode([]byte{255})
	assert.Error(t, err)
}
