// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/takamaka/node/classfile"
	"github.com/takamaka/node/crypto"
	"github.com/takamaka/node/instrumenter"
	"github.com/takamaka/node/request"
	"github.com/takamaka/node/response"
	"github.com/takamaka/node/state"
	"github.com/takamaka/node/takamaka"
	"github.com/takamaka/node/verifier"
	"github.com/takamaka/node/xenv"
)

// gameteClassName is the runtime class every GameteCreationResponseBuilder
// allocates; it is a subclass of ExternallyOwnedAccount, so it carries the
// same nonce/publicKey fields admission checking reads later.
const gameteClassName = "io.takamaka.code.lang.Gamete"

// Run dispatches req to the response builder of its kind (§4.H): the
// single entry point a node calls once per transaction. Apart from the
// gamete and manifest info slots that the gamete-creation and
// initialization builders write, it does not mutate the store — a
// non-Rejected Result still needs Apply to be staged, and st.Commit to
// become durable and authenticated.
func Run(ctx *Context, req request.Request) (*Result, error) {
	switch r := req.(type) {
	case *request.JarStoreInitialRequest:
		return buildJarStoreInitial(ctx, r)
	case *request.GameteCreationRequest:
		return buildGameteCreation(ctx, r)
	case *request.InitializationRequest:
		return buildInitialization(ctx, r)
	case *request.JarStoreRequest:
		return buildJarStore(ctx, r)
	case *request.ConstructorCallRequest:
		return buildConstructorCall(ctx, r)
	case *request.InstanceMethodCallRequest:
		return buildInstanceMethodCall(ctx, r, takamaka.GasMinimum)
	case *request.StaticMethodCallRequest:
		return buildStaticMethodCall(ctx, r)
	case *request.TransferRequest:
		if r.Amount != nil && r.Amount.Sign() < 0 {
			return rejectedResult(Reject("transfer amount %s is negative", r.Amount)), nil
		}
		return buildInstanceMethodCall(ctx, r.AsInstanceMethodCall(), takamaka.GasTransfer)
	default:
		return nil, fmt.Errorf("runtime: unknown request kind %v", req.Kind())
	}
}

func rejectedResult(err error) *Result {
	return &Result{State: Rejected, Reason: err.Error()}
}

// --- Initial transactions (single-shot, no admission checking) ---

// buildJarStoreInitial installs the node's bootstrap jar(s). There is no
// pre-existing committed classpath to verify against yet, so this builder
// trusts its input and only instruments it — the usual verification step
// applies to every later, non-initial jar-store instead.
func buildJarStoreInitial(ctx *Context, req *request.JarStoreInitialRequest) (*Result, error) {
	txRef := request.Hash(req)

	jar, err := classfile.Decode(req.Jar)
	if err != nil {
		return rejectedResult(Reject("jar does not decode: %v", err)), nil
	}

	instrumented := instrumenter.Instrument(jar, ctx.CostModel)
	encoded, err := instrumented.Encode()
	if err != nil {
		return nil, err
	}

	return &Result{State: Succeeded, TxRef: txRef, Response: &response.JarStoreInitialResponse{InstrumentedJar: encoded}}, nil
}

// buildGameteCreation allocates the funded account every later transaction
// ultimately traces balance back to. Its classpath must already resolve
// (the gamete's class lives in the just-installed runtime jar), recording
// itself as the well-known gamete info-trie slot on success (§4.D).
func buildGameteCreation(ctx *Context, req *request.GameteCreationRequest) (*Result, error) {
	txRef := request.Hash(req)

	if req.InitialSupply.Sign() < 0 || req.InitialRedSupply.Sign() < 0 {
		return rejectedResult(Reject("initial supply must not be negative")), nil
	}

	loader, err := buildClassLoader(ctx, req.Classpath)
	if err != nil {
		return rejectedResult(err), nil
	}

	signer, err := crypto.ForScheme(ctx.Consensus.Signature)
	if err != nil {
		return rejectedResult(Reject("unsupported signature scheme %q: %v", ctx.Consensus.Signature, err)), nil
	}

	arena := state.NewArena()
	gameteRef := takamaka.NewStorageRef(txRef, 0)
	obj := arena.New(gameteRef, gameteClassName, req.Classpath)
	obj.Set(state.BalanceField, takamaka.NewBigIntegerValue(req.InitialSupply))
	obj.Set(balanceRedField, takamaka.NewBigIntegerValue(req.InitialRedSupply))
	obj.Set(nonceField, takamaka.NewBigIntegerValue(big.NewInt(0)))
	obj.Set(publicKeyField, takamaka.StringValue(signer.EncodePublicKey(req.PublicKey)))

	updates := state.ExtractUpdates(arena, classRank(loader, gameteClassName), gameteRef)

	if err := ctx.Store.PutGamete(gameteRef); err != nil {
		return nil, err
	}

	return &Result{State: Succeeded, TxRef: txRef, Response: &response.GameteCreationResponse{UpdatesList: updates, Gamete: gameteRef}}, nil
}

// buildInitialization records that the node is initialized; it may run at
// most once, enforced by checking the manifest info-trie slot it itself
// populates (§3 lifecycles).
func buildInitialization(ctx *Context, req *request.InitializationRequest) (*Result, error) {
	if _, alreadySet, err := ctx.Store.GetManifest(); err != nil {
		return nil, err
	} else if alreadySet {
		return rejectedResult(Reject("the node is already initialized")), nil
	}

	if err := ctx.Store.PutManifest(req.Manifest); err != nil {
		return nil, err
	}

	return &Result{State: Succeeded, TxRef: request.Hash(req), Response: &response.InitializationResponse{}}, nil
}

// --- Non-initial transactions ---

// buildJarStore installs a jar signed by an already-funded account: verify
// then instrument, charging CPU linear in both the submitted and the
// instrumented jar's size (§4.H).
func buildJarStore(ctx *Context, req *request.JarStoreRequest) (*Result, error) {
	txRef := request.Hash(req)

	loader, err := buildClassLoader(ctx, req.Classpath)
	if err != nil {
		return rejectedResult(err), nil
	}
	arena := state.NewArena()
	deserializer := state.NewDeserializer(ctx.Store, loader, arena)

	caller, err := admitCommon(ctx, deserializer, req, req.Common, takamaka.GasMinimum)
	if err != nil {
		return rejectedResult(err), nil
	}

	preReserveBalance := balanceOf(caller)
	if err := reserveGas(caller, req.GasLimit, req.GasPrice); err != nil {
		return rejectedResult(Reject("%v", err)), nil
	}
	bumpNonce(caller, req.Nonce)

	fail := func(cause response.Failure) *Result {
		gc, updates := applyPenalty(caller, preReserveBalance, req.GasLimit, req.GasPrice)
		return &Result{State: Failed, TxRef: txRef, Response: &response.JarStoreFailedResponse{Gas: gc, UpdatesList: updates, Cause: cause}}
	}

	jar, err := classfile.Decode(req.Jar)
	if err != nil {
		return fail(response.Failure{ClassNameOfCause: "java.lang.ClassFormatError", Message: err.Error()}), nil
	}

	classpathJar, _, _, err := (storeJarSource{st: ctx.Store, cache: ctx.jarCache}).ResolveJar(req.Classpath)
	if err != nil {
		return fail(response.Failure{ClassNameOfCause: "java.lang.ClassNotFoundException", Message: err.Error()}), nil
	}

	issues := verifier.Verify(jar, classpathJar, ctx.whiteList(), ctx.storageTypes(), ctx.verifierOptions())
	if verifier.HasErrors(issues) {
		return fail(response.Failure{
			ClassNameOfCause: "io.takamaka.code.verification.VerificationException",
			Message:          issuesToMessage(issues),
		}), nil
	}

	env := xenv.New(req.GasLimit, deserializer, state.NewBalances(arena))
	if err := env.UseGas(uint64(len(req.Jar)) * takamaka.GasPerByteOfJar); err != nil {
		return fail(outOfGasFailure()), nil
	}

	instrumented := instrumenter.Instrument(jar, ctx.CostModel)
	encoded, err := instrumented.Encode()
	if err != nil {
		return nil, err
	}
	if err := env.UseGas(uint64(len(encoded)) * takamaka.GasPerByteOfJar); err != nil {
		return fail(outOfGasFailure()), nil
	}

	gc, updates := settleSimple(caller, env, req.GasPrice)
	gc.ForCPU = req.GasLimit - env.GasRemaining()

	return &Result{State: Succeeded, TxRef: txRef, Response: &response.JarStoreSuccessfulResponse{
		Gas: gc, UpdatesList: updates, InstrumentedJar: encoded,
	}}, nil
}

// buildConstructorCall runs a constructor of a storage class, allocating
// the new object as txRef's progressive 0 before the body executes so
// from_contract/payable prologues and the native body can both see it.
func buildConstructorCall(ctx *Context, req *request.ConstructorCallRequest) (*Result, error) {
	txRef := request.Hash(req)

	loader, err := buildClassLoader(ctx, req.Classpath)
	if err != nil {
		return rejectedResult(err), nil
	}
	arena := state.NewArena()
	deserializer := state.NewDeserializer(ctx.Store, loader, arena)

	caller, err := admitCommon(ctx, deserializer, req, req.Common, takamaka.GasMinimum)
	if err != nil {
		return rejectedResult(err), nil
	}

	preReserveBalance := balanceOf(caller)
	if err := reserveGas(caller, req.GasLimit, req.GasPrice); err != nil {
		return rejectedResult(Reject("%v", err)), nil
	}
	bumpNonce(caller, req.Nonce)

	fail := func(cause response.Failure) *Result {
		gc, updates := applyPenalty(caller, preReserveBalance, req.GasLimit, req.GasPrice)
		return &Result{State: Failed, TxRef: txRef, Response: &response.ConstructorCallFailedResponse{Gas: gc, UpdatesList: updates, Cause: cause}}
	}

	class, ctor, ok := resolveConstructor(loader, req.Constructor.DefiningClass, req.Constructor.Params)
	if !ok {
		return fail(response.Failure{ClassNameOfCause: "java.lang.NoSuchMethodException", Message: fmt.Sprintf("no constructor %s(%s)", req.Constructor.DefiningClass, strings.Join(req.Constructor.Params, ","))}), nil
	}
	if !loader.IsDefinedHere(class.Name) {
		return fail(response.Failure{ClassNameOfCause: "java.lang.ClassNotFoundException", Message: fmt.Sprintf("%s is not defined in the classpath", class.Name)}), nil
	}

	newRef := takamaka.NewStorageRef(txRef, 0)
	receiver := arena.New(newRef, class.Name, req.Classpath)

	actuals, err := deserializeActuals(deserializer, req.Actuals)
	if err != nil {
		return fail(response.Failure{ClassNameOfCause: "java.lang.RuntimeException", Message: err.Error()}), nil
	}

	env := xenv.New(req.GasLimit, deserializer, state.NewBalances(arena))
	_, execErr := executeBody(env, class.Name, ctor, caller.Ref, newRef, receiver, actuals)

	roots := append([]takamaka.StorageRef{caller.Ref, newRef}, actualRefs(actuals)...)
	rank := classRank(loader, class.Name)

	if execErr != nil {
		if execErr == xenv.ErrOutOfGas {
			return fail(outOfGasFailure()), nil
		}
		if declared, isDeclared := execErr.(*DeclaredException); isDeclared {
			if !ctor.ThrowsExceptions {
				return fail(response.Failure{ClassNameOfCause: declared.ClassName, Message: declared.Message, Where: declared.Where}), nil
			}
			gc, updates, events, settleErr := settle(env, arena, rank, caller, req.GasLimit, req.GasPrice, roots...)
			if settleErr != nil {
				return fail(outOfGasFailure()), nil
			}
			return &Result{State: Succeeded, TxRef: txRef, Response: &response.ConstructorCallExceptionResponse{
				Gas: gc, UpdatesList: updates, Events: events,
				Exception: response.Failure{ClassNameOfCause: declared.ClassName, Message: declared.Message, Where: declared.Where},
			}}, nil
		}
		return fail(response.Failure{ClassNameOfCause: "java.lang.RuntimeException", Message: execErr.Error()}), nil
	}

	gc, updates, events, settleErr := settle(env, arena, rank, caller, req.GasLimit, req.GasPrice, roots...)
	if settleErr != nil {
		return fail(outOfGasFailure()), nil
	}

	return &Result{State: Succeeded, TxRef: txRef, Response: &response.ConstructorCallSuccessfulResponse{
		Gas: gc, UpdatesList: updates, Events: events, NewObject: newRef,
	}}, nil
}

// buildInstanceMethodCall runs an instance method on an already-deserialized
// receiver. minGas lets the compact transfer form (which fixes gas at
// takamaka.GasTransfer, below the general minimum) share this builder
// with ordinary instance method calls.
func buildInstanceMethodCall(ctx *Context, req *request.InstanceMethodCallRequest, minGas uint64) (*Result, error) {
	txRef := request.Hash(req)

	loader, err := buildClassLoader(ctx, req.Classpath)
	if err != nil {
		return rejectedResult(err), nil
	}
	arena := state.NewArena()
	deserializer := state.NewDeserializer(ctx.Store, loader, arena)

	caller, err := admitCommon(ctx, deserializer, req, req.Common, minGas)
	if err != nil {
		return rejectedResult(err), nil
	}

	preReserveBalance := balanceOf(caller)
	if err := reserveGas(caller, req.GasLimit, req.GasPrice); err != nil {
		return rejectedResult(Reject("%v", err)), nil
	}
	bumpNonce(caller, req.Nonce)

	fail := func(cause response.Failure) *Result {
		gc, updates := applyPenalty(caller, preReserveBalance, req.GasLimit, req.GasPrice)
		return &Result{State: Failed, TxRef: txRef, Response: &response.MethodCallFailedResponse{Gas: gc, UpdatesList: updates, Cause: cause}}
	}

	class, m, ok := resolveMethod(loader, req.Method.DefiningClass, req.Method.Name, req.Method.Params, req.Method.Returns)
	if !ok {
		return fail(response.Failure{ClassNameOfCause: "java.lang.NoSuchMethodException", Message: fmt.Sprintf("no method %s", targetOf(req.Method.DefiningClass, req.Method.Name))}), nil
	}
	if m.Static {
		return fail(response.Failure{ClassNameOfCause: "java.lang.IncompatibleClassChangeError", Message: "method is static"}), nil
	}
	if allowed := loader.IsDefinedHere(class.Name) || ctx.whiteList().IsWhitelisted(targetOf(class.Name, m.Name)); !allowed {
		return fail(response.Failure{ClassNameOfCause: "java.lang.ClassNotFoundException", Message: fmt.Sprintf("%s is not defined in the classpath", class.Name)}), nil
	}
	if m.View && ctx.Consensus.MaxGasPerView > 0 && req.GasLimit > ctx.Consensus.MaxGasPerView {
		return rejectedResult(Reject("gas limit %d exceeds the consensus maximum %d for a view call", req.GasLimit, ctx.Consensus.MaxGasPerView)), nil
	}

	receiver, err := deserializer.Deserialize(req.Receiver)
	if err != nil {
		return fail(response.Failure{ClassNameOfCause: "java.lang.RuntimeException", Message: err.Error()}), nil
	}
	actuals, err := deserializeActuals(deserializer, req.Actuals)
	if err != nil {
		return fail(response.Failure{ClassNameOfCause: "java.lang.RuntimeException", Message: err.Error()}), nil
	}

	env := xenv.New(req.GasLimit, deserializer, state.NewBalances(arena))
	result, execErr := executeBody(env, class.Name, m, caller.Ref, req.Receiver, receiver, actuals)

	roots := append([]takamaka.StorageRef{caller.Ref, req.Receiver}, actualRefs(actuals)...)
	rank := classRank(loader, class.Name)

	if execErr != nil {
		return failFromExecError(txRef, execErr, m.ThrowsExceptions, env, arena, rank, caller, req.GasLimit, req.GasPrice, roots, fail, methodExceptionResponse)
	}

	gc, updates, events, settleErr := settle(env, arena, rank, caller, req.GasLimit, req.GasPrice, roots...)
	if settleErr != nil {
		return fail(outOfGasFailure()), nil
	}

	if m.View && !viewRespectsContract(updates, caller.Ref) {
		return fail(response.Failure{ClassNameOfCause: "java.lang.SecurityException", Message: fmt.Sprintf("view method %s had side effects", m.Name)}), nil
	}

	if m.ReturnType == "" {
		return &Result{State: Succeeded, TxRef: txRef, Response: &response.VoidMethodCallSuccessfulResponse{Gas: gc, UpdatesList: updates, Events: events}}, nil
	}
	return &Result{State: Succeeded, TxRef: txRef, Response: &response.MethodCallSuccessfulResponse{Gas: gc, UpdatesList: updates, Events: events, Result: result}}, nil
}

// buildStaticMethodCall runs a static method: there is no receiver to
// deserialize and no from_contract discipline to honor on the call site
// itself (though the body may still call from_contract members).
func buildStaticMethodCall(ctx *Context, req *request.StaticMethodCallRequest) (*Result, error) {
	txRef := request.Hash(req)

	loader, err := buildClassLoader(ctx, req.Classpath)
	if err != nil {
		return rejectedResult(err), nil
	}
	arena := state.NewArena()
	deserializer := state.NewDeserializer(ctx.Store, loader, arena)

	caller, err := admitCommon(ctx, deserializer, req, req.Common, takamaka.GasMinimum)
	if err != nil {
		return rejectedResult(err), nil
	}

	preReserveBalance := balanceOf(caller)
	if err := reserveGas(caller, req.GasLimit, req.GasPrice); err != nil {
		return rejectedResult(Reject("%v", err)), nil
	}
	bumpNonce(caller, req.Nonce)

	fail := func(cause response.Failure) *Result {
		gc, updates := applyPenalty(caller, preReserveBalance, req.GasLimit, req.GasPrice)
		return &Result{State: Failed, TxRef: txRef, Response: &response.MethodCallFailedResponse{Gas: gc, UpdatesList: updates, Cause: cause}}
	}

	class, m, ok := resolveMethod(loader, req.Method.DefiningClass, req.Method.Name, req.Method.Params, req.Method.Returns)
	if !ok {
		return fail(response.Failure{ClassNameOfCause: "java.lang.NoSuchMethodException", Message: fmt.Sprintf("no method %s", targetOf(req.Method.DefiningClass, req.Method.Name))}), nil
	}
	if !m.Static {
		return fail(response.Failure{ClassNameOfCause: "java.lang.IncompatibleClassChangeError", Message: "method is not static"}), nil
	}
	if allowed := loader.IsDefinedHere(class.Name) || ctx.whiteList().IsWhitelisted(targetOf(class.Name, m.Name)); !allowed {
		return fail(response.Failure{ClassNameOfCause: "java.lang.ClassNotFoundException", Message: fmt.Sprintf("%s is not defined in the classpath", class.Name)}), nil
	}

	actuals, err := deserializeActuals(deserializer, req.Actuals)
	if err != nil {
		return fail(response.Failure{ClassNameOfCause: "java.lang.RuntimeException", Message: err.Error()}), nil
	}

	env := xenv.New(req.GasLimit, deserializer, state.NewBalances(arena))
	result, execErr := executeBody(env, class.Name, m, caller.Ref, takamaka.StorageRef{}, nil, actuals)

	roots := append([]takamaka.StorageRef{caller.Ref}, actualRefs(actuals)...)
	rank := classRank(loader, class.Name)

	if execErr != nil {
		return failFromExecError(txRef, execErr, m.ThrowsExceptions, env, arena, rank, caller, req.GasLimit, req.GasPrice, roots, fail, methodExceptionResponse)
	}

	gc, updates, events, settleErr := settle(env, arena, rank, caller, req.GasLimit, req.GasPrice, roots...)
	if settleErr != nil {
		return fail(outOfGasFailure()), nil
	}

	if m.View && !viewRespectsContract(updates, caller.Ref) {
		return fail(response.Failure{ClassNameOfCause: "java.lang.SecurityException", Message: fmt.Sprintf("view method %s had side effects", m.Name)}), nil
	}

	if m.ReturnType == "" {
		return &Result{State: Succeeded, TxRef: txRef, Response: &response.VoidMethodCallSuccessfulResponse{Gas: gc, UpdatesList: updates, Events: events}}, nil
	}
	return &Result{State: Succeeded, TxRef: txRef, Response: &response.MethodCallSuccessfulResponse{Gas: gc, UpdatesList: updates, Events: events, Result: result}}, nil
}

// failFromExecError classifies an executeBody error into either a Failed
// result (built by fail) or a Succeeded exception-carrying response (built
// by exceptionResponse), per §4.H: out-of-gas and undeclared errors fail
// the transaction, a declared checked exception is a modeled, successful
// outcome.
func failFromExecError(
	txRef takamaka.Bytes32,
	execErr error,
	throwsExceptions bool,
	env *xenv.Environment,
	arena *state.Arena,
	rank takamaka.ClassRank,
	caller *state.Object,
	gasLimit uint64,
	gasPrice *big.Int,
	roots []takamaka.StorageRef,
	fail func(response.Failure) *Result,
	exceptionResponse func(gc response.GasConsumption, updates []takamaka.Update, events []takamaka.StorageRef, exc response.Failure) response.Response,
) (*Result, error) {
	if execErr == xenv.ErrOutOfGas {
		return fail(outOfGasFailure()), nil
	}
	declared, isDeclared := execErr.(*DeclaredException)
	if !isDeclared {
		return fail(response.Failure{ClassNameOfCause: "java.lang.RuntimeException", Message: execErr.Error()}), nil
	}
	exc := response.Failure{ClassNameOfCause: declared.ClassName, Message: declared.Message, Where: declared.Where}
	if !throwsExceptions {
		return fail(exc), nil
	}

	gc, updates, events, settleErr := settle(env, arena, rank, caller, gasLimit, gasPrice, roots...)
	if settleErr != nil {
		return fail(outOfGasFailure()), nil
	}
	return &Result{State: Succeeded, TxRef: txRef, Response: exceptionResponse(gc, updates, events, exc)}, nil
}

func methodExceptionResponse(gc response.GasConsumption, updates []takamaka.Update, events []takamaka.StorageRef, exc response.Failure) response.Response {
	return &response.MethodCallExceptionResponse{Gas: gc, UpdatesList: updates, Events: events, Exception: exc}
}

// deserializeActuals ensures every storage-reference-valued actual is
// loaded into the arena, so it participates in the updates BFS and is
// visible to a native body that dereferences it.
func deserializeActuals(d *state.Deserializer, actuals []takamaka.Value) ([]takamaka.Value, error) {
	for _, a := range actuals {
		if refVal, ok := a.(takamaka.StorageRefValue); ok {
			if _, err := d.Deserialize(refVal.Ref); err != nil {
				return nil, err
			}
		}
	}
	return actuals, nil
}

func actualRefs(actuals []takamaka.Value) []takamaka.StorageRef {
	var refs []takamaka.StorageRef
	for _, a := range actuals {
		if refVal, ok := a.(takamaka.StorageRefValue); ok {
			refs = append(refs, refVal.Ref)
		}
	}
	return refs
}

func issuesToMessage(issues []verifier.Issue) string {
	var b strings.Builder
	for _, iss := range issues {
		if iss.Severity != verifier.SeverityError {
			continue
		}
		if b.Len() > 0 {
			b.WriteString("; ")
		}
		b.WriteString(iss.String())
	}
	return b.String()
}
