// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package response defines the sum type of transaction responses (§3) and
// their bit-exact marshalling (§4.A). Responses are the other half of
// every committed (request, response, history-update) triple written into
// the node store (§4.D).
package response

import (
	"bytes"
	"fmt"
	"math/big"

	"github.com/takamaka/node/marshal"
	"github.com/takamaka/node/takamaka"
)

// GasConsumption breaks down the gas accounted for by a response, so that
// invariant P4 (gas conservation) can be checked directly against it.
type GasConsumption struct {
	ForCPU     uint64
	ForRAM     uint64
	ForStorage uint64
	Refund     *big.Int // refunded to the caller, in gas-price units
	Penalty    *big.Int // charged to deter spam on the failure branch
}

// Failure classifies an unsuccessful outcome (§3, §7).
type Failure struct {
	ClassNameOfCause string
	Message          string
	Where            string
}

// Response is the sum type of §3.
type Response interface {
	Into(w *marshal.Writer)
	// Updates returns the updates this response commits, in the
	// deterministic order of §4.I.
	Updates() []takamaka.Update
}

// --- Initial responses ---

type GameteCreationResponse struct {
	UpdatesList []takamaka.Update
	Gamete      takamaka.StorageRef
}

func (r *GameteCreationResponse) Updates() []takamaka.Update { return r.UpdatesList }
func (r *GameteCreationResponse) Into(w *marshal.Writer) {
	w.Byte(marshal.SelectorResponseGameteCreation)
	w.WriteUpdates(r.UpdatesList)
	w.WriteStorageRefWithoutSelector(r.Gamete)
}

type InitializationResponse struct{}

func (r *InitializationResponse) Updates() []takamaka.Update { return nil }
func (r *InitializationResponse) Into(w *marshal.Writer) {
	w.Byte(marshal.SelectorResponseInitialization)
}

type JarStoreInitialResponse struct {
	InstrumentedJar []byte
}

func (r *JarStoreInitialResponse) Updates() []takamaka.Update { return nil }
func (r *JarStoreInitialResponse) Into(w *marshal.Writer) {
	w.Byte(marshal.SelectorResponseJarStoreInitial)
	w.LengthPrefixedBytes(r.InstrumentedJar)
}

// --- Non-initial responses ---

type JarStoreSuccessfulResponse struct {
	Gas             GasConsumption
	UpdatesList     []takamaka.Update
	InstrumentedJar []byte
}

func (r *JarStoreSuccessfulResponse) Updates() []takamaka.Update { return r.UpdatesList }
func (r *JarStoreSuccessfulResponse) Into(w *marshal.Writer) {
	w.Byte(marshal.SelectorResponseJarStoreSuccessful)
	writeGas(w, r.Gas)
	w.WriteUpdates(r.UpdatesList)
	w.LengthPrefixedBytes(r.InstrumentedJar)
}

type JarStoreFailedResponse struct {
	Gas         GasConsumption
	UpdatesList []takamaka.Update
	Cause       Failure
}

func (r *JarStoreFailedResponse) Updates() []takamaka.Update { return r.UpdatesList }
func (r *JarStoreFailedResponse) Into(w *marshal.Writer) {
	w.Byte(marshal.SelectorResponseJarStoreFailed)
	writeGas(w, r.Gas)
	w.WriteUpdates(r.UpdatesList)
	writeFailure(w, r.Cause)
}

type ConstructorCallSuccessfulResponse struct {
	Gas         GasConsumption
	UpdatesList []takamaka.Update
	Events      []takamaka.StorageRef
	NewObject   takamaka.StorageRef
}

func (r *ConstructorCallSuccessfulResponse) Updates() []takamaka.Update { return r.UpdatesList }
func (r *ConstructorCallSuccessfulResponse) Into(w *marshal.Writer) {
	w.Byte(marshal.SelectorResponseConstructorSuccessful)
	writeGas(w, r.Gas)
	w.WriteUpdates(r.UpdatesList)
	writeEvents(w, r.Events)
	w.WriteStorageRefWithoutSelector(r.NewObject)
}

type ConstructorCallExceptionResponse struct {
	Gas         GasConsumption
	UpdatesList []takamaka.Update
	Events      []takamaka.StorageRef
	Exception   Failure
}

func (r *ConstructorCallExceptionResponse) Updates() []takamaka.Update { return r.UpdatesList }
func (r *ConstructorCallExceptionResponse) Into(w *marshal.Writer) {
	w.Byte(marshal.SelectorResponseConstructorException)
	writeGas(w, r.Gas)
	w.WriteUpdates(r.UpdatesList)
	writeEvents(w, r.Events)
	writeFailure(w, r.Exception)
}

type ConstructorCallFailedResponse struct {
	Gas         GasConsumption
	UpdatesList []takamaka.Update
	Cause       Failure
}

func (r *ConstructorCallFailedResponse) Updates() []takamaka.Update { return r.UpdatesList }
func (r *ConstructorCallFailedResponse) Into(w *marshal.Writer) {
	w.Byte(marshal.SelectorResponseConstructorFailed)
	writeGas(w, r.Gas)
	w.WriteUpdates(r.UpdatesList)
	writeFailure(w, r.Cause)
}

type MethodCallSuccessfulResponse struct {
	Gas         GasConsumption
	UpdatesList []takamaka.Update
	Events      []takamaka.StorageRef
	Result      takamaka.Value
}

func (r *MethodCallSuccessfulResponse) Updates() []takamaka.Update { return r.UpdatesList }
func (r *MethodCallSuccessfulResponse) Into(w *marshal.Writer) {
	w.Byte(marshal.SelectorResponseMethodSuccessful)
	writeGas(w, r.Gas)
	w.WriteUpdates(r.UpdatesList)
	writeEvents(w, r.Events)
	w.WriteValue(r.Result)
}

type VoidMethodCallSuccessfulResponse struct {
	Gas         GasConsumption
	UpdatesList []takamaka.Update
	Events      []takamaka.StorageRef
}

func (r *VoidMethodCallSuccessfulResponse) Updates() []takamaka.Update { return r.UpdatesList }
func (r *VoidMethodCallSuccessfulResponse) Into(w *marshal.Writer) {
	w.Byte(marshal.SelectorResponseVoidMethodSuccessful)
	writeGas(w, r.Gas)
	w.WriteUpdates(r.UpdatesList)
	writeEvents(w, r.Events)
}

type MethodCallExceptionResponse struct {
	Gas         GasConsumption
	UpdatesList []takamaka.Update
	Events      []takamaka.StorageRef
	Exception   Failure
}

func (r *MethodCallExceptionResponse) Updates() []takamaka.Update { return r.UpdatesList }
func (r *MethodCallExceptionResponse) Into(w *marshal.Writer) {
	w.Byte(marshal.SelectorResponseMethodException)
	writeGas(w, r.Gas)
	w.WriteUpdates(r.UpdatesList)
	writeEvents(w, r.Events)
	writeFailure(w, r.Exception)
}

type MethodCallFailedResponse struct {
	Gas         GasConsumption
	UpdatesList []takamaka.Update
	Cause       Failure
}

func (r *MethodCallFailedResponse) Updates() []takamaka.Update { return r.UpdatesList }
func (r *MethodCallFailedResponse) Into(w *marshal.Writer) {
	w.Byte(marshal.SelectorResponseMethodFailed)
	writeGas(w, r.Gas)
	w.WriteUpdates(r.UpdatesList)
	writeFailure(w, r.Cause)
}

func writeGas(w *marshal.Writer, g GasConsumption) {
	w.Uint64(g.ForCPU)
	w.Uint64(g.ForRAM)
	w.Uint64(g.ForStorage)
	w.BigInteger(nonNilBig(g.Refund))
	w.BigInteger(nonNilBig(g.Penalty))
}

func readGas(r *marshal.Reader) GasConsumption {
	cpu := r.Uint64()
	ram := r.Uint64()
	storage := r.Uint64()
	refund := r.BigInteger()
	penalty := r.BigInteger()
	return GasConsumption{ForCPU: cpu, ForRAM: ram, ForStorage: storage, Refund: refund, Penalty: penalty}
}

func nonNilBig(v *big.Int) *big.Int {
	if v == nil {
		return new(big.Int)
	}
	return v
}

func writeFailure(w *marshal.Writer, f Failure) {
	w.String(f.ClassNameOfCause)
	w.String(f.Message)
	w.String(f.Where)
}

func readFailure(r *marshal.Reader) Failure {
	class := r.String()
	msg := r.String()
	where := r.String()
	return Failure{ClassNameOfCause: class, Message: msg, Where: where}
}

func writeEvents(w *marshal.Writer, events []takamaka.StorageRef) {
	w.CompactInt(len(events))
	for _, e := range events {
		w.WriteStorageRefWithoutSelector(e)
	}
}

func readEvents(r *marshal.Reader) []takamaka.StorageRef {
	n := r.CompactInt()
	out := make([]takamaka.StorageRef, n)
	for i := range out {
		out[i] = r.ReadStorageRefWithoutSelector()
	}
	return out
}

// Encode renders a response's canonical encoding.
func Encode(resp Response) ([]byte, error) {
	var buf bytes.Buffer
	w := marshal.NewWriter(&buf)
	resp.Into(w)
	if err := w.Err(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Decode parses a response previously produced by Encode.
func Decode(data []byte) (Response, error) {
	r := marshal.NewReader(bytes.NewReader(data))
	sel := int(r.Byte())
	resp := decodeBySelector(sel, r)
	if err := r.Err(); err != nil {
		return nil, err
	}
	if resp == nil {
		return nil, fmt.Errorf("marshal: unknown response selector %d", sel)
	}
	return resp, nil
}

func decodeBySelector(sel int, r *marshal.Reader) Response {
	switch sel {
	case marshal.SelectorResponseGameteCreation:
		updates := r.ReadUpdates()
		gamete := r.ReadStorageRefWithoutSelector()
		return &GameteCreationResponse{UpdatesList: updates, Gamete: gamete}
	case marshal.SelectorResponseInitialization:
		return &InitializationResponse{}
	case marshal.SelectorResponseJarStoreInitial:
		return &JarStoreInitialResponse{InstrumentedJar: r.LengthPrefixedBytes()}
	case marshal.SelectorResponseJarStoreSuccessful:
		gas := readGas(r)
		updates := r.ReadUpdates()
		jar := r.LengthPrefixedBytes()
		return &JarStoreSuccessfulResponse{Gas: gas, UpdatesList: updates, InstrumentedJar: jar}
	case marshal.SelectorResponseJarStoreFailed:
		gas := readGas(r)
		updates := r.ReadUpdates()
		cause := readFailure(r)
		return &JarStoreFailedResponse{Gas: gas, UpdatesList: updates, Cause: cause}
	case marshal.SelectorResponseConstructorSuccessful:
		gas := readGas(r)
		updates := r.ReadUpdates()
		events := readEvents(r)
		newObj := r.ReadStorageRefWithoutSelector()
		return &ConstructorCallSuccessfulResponse{Gas: gas, UpdatesList: updates, Events: events, NewObject: newObj}
	case marshal.SelectorResponseConstructorException:
		gas := readGas(r)
		updates := r.ReadUpdates()
		events := readEvents(r)
		exc := readFailure(r)
		return &ConstructorCallExceptionResponse{Gas: gas, UpdatesList: updates, Events: events, Exception: exc}
	case marshal.SelectorResponseConstructorFailed:
		gas := readGas(r)
		updates := r.ReadUpdates()
		cause := readFailure(r)
		return &ConstructorCallFailedResponse{Gas: gas, UpdatesList: updates, Cause: cause}
	case marshal.SelectorResponseMethodSuccessful:
		gas := readGas(r)
		updates := r.ReadUpdates()
		events := readEvents(r)
		result := r.ReadValue()
		return &MethodCallSuccessfulResponse{Gas: gas, UpdatesList: updates, Events: events, Result: result}
	case marshal.SelectorResponseVoidMethodSuccessful:
		gas := readGas(r)
		updates := r.ReadUpdates()
		events := readEvents(r)
		return &VoidMethodCallSuccessfulResponse{Gas: gas, UpdatesList: updates, Events: events}
	case marshal.SelectorResponseMethodException:
		gas := readGas(r)
		updates := r.ReadUpdates()
		events := readEvents(r)
		exc := readFailure(r)
		return &MethodCallExceptionResponse{Gas: gas, UpdatesList: updates, Events: events, Exception: exc}
	case marshal.SelectorResponseMethodFailed:
		gas := readGas(r)
		updates := r.ReadUpdates()
		cause := readFailure(r)
		return &MethodCallFailedResponse{Gas: gas, UpdatesList: updates, Cause: cause}
	default:
		return nil
	}
}

// IsSuccessful reports whether resp represents a committable non-failing
// outcome (success proper, or a declared-exception success per §7).
func IsSuccessful(resp Response) bool {
	switch resp.(type) {
	case *JarStoreFailedResponse, *ConstructorCallFailedResponse, *MethodCallFailedResponse:
		return false
	default:
		return true
	}
}
