// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package marshal

// Selector spaces are local to the kind of bean being encoded: a Value
// selector byte and a Response selector byte are never compared against
// each other, so the same numeric value (e.g. 11) can mean different
// things in each space, matching the compatibility surface enumerated in
// spec.md §6.

// Value selectors. Selectors [IntValueBase, 255] double as a single-byte
// encoding of small non-negative int values (IntValue == selector -
// IntValueBase); values that don't fit use SelectorIntFull followed by a
// 4-byte payload.
const (
	SelectorBoolTrue       = 0
	SelectorBoolFalse      = 1
	SelectorByte           = 2
	SelectorChar           = 3
	SelectorShort          = 4
	SelectorLong           = 5
	SelectorFloat          = 6
	SelectorDouble         = 7
	SelectorBigInteger     = 8
	SelectorString         = 9
	SelectorNull           = 10
	SelectorStorageRef     = 11 // normative, spec.md §6
	SelectorEnum           = 12
	SelectorIntFull        = 13
	IntValueBase           = 14
	IntValueDirectMax      = 255 - IntValueBase // inclusive, encodable in one byte
)

// Update selectors, keyed by update shape.
const (
	SelectorUpdateClassTag        = 0
	SelectorUpdateOfPrimitive     = 1
	SelectorUpdateOfBigInteger    = 2
	SelectorUpdateOfString        = 3
	SelectorUpdateOfEnum          = 4
	SelectorUpdateOfReference     = 5
	SelectorUpdateOfReferenceNull = 6 // "to null" variant, either eager or lazy (flag follows)
	SelectorUpdateOfBalance       = 7
)

// Request selectors (non-initial requests carry caller/nonce/signature).
const (
	SelectorRequestConstructorCall    = 1
	SelectorRequestInstanceMethodCall = 2
	SelectorRequestStaticMethodCall   = 3
	SelectorRequestJarStore           = 4
	SelectorRequestTransferInt        = 7 // normative, spec.md §4.A / §8 scenario 2
	SelectorRequestTransferLong       = 8
	SelectorRequestTransferBigInt     = 9

	// Initial requests (no caller, no signature).
	SelectorRequestJarStoreInitial   = 10
	SelectorRequestGameteCreation    = 11
	SelectorRequestInitialization    = 12
)

// Response selectors; the four values named in spec.md §6 are reproduced
// verbatim (GameteCreationTransactionResponse=0,
// ConstructorCallTransactionExceptionResponse=4,
// MethodCallTransactionFailedResponse=8,
// MethodCallTransactionSuccessfulResponse=9); the remaining response kinds
// fill the unused slots of the same normative table.
const (
	SelectorResponseGameteCreation             = 0
	SelectorResponseInitialization              = 1
	SelectorResponseJarStoreInitial              = 2
	SelectorResponseJarStoreFailed                = 3
	SelectorResponseConstructorException         = 4 // normative
	SelectorResponseConstructorFailed             = 5
	SelectorResponseConstructorSuccessful         = 6
	SelectorResponseJarStoreSuccessful             = 7
	SelectorResponseMethodFailed                   = 8 // normative
	SelectorResponseMethodSuccessful               = 9 // normative
	SelectorResponseVoidMethodSuccessful           = 10
	SelectorResponseMethodException                = 11
)
