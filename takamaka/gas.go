// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package takamaka

// Gas cost constants for the pluggable cost-model table of §4.F. Named in
// the teacher's own style (see builtin/gascharger/gas_charger.go for the
// precedent of naming per-opcode gas constants on this package).
const (
	// GasPerByteOfJar is the per-byte cost of installing a jar (§4.H:
	// "Charges CPU linear in jar size").
	GasPerByteOfJar uint64 = 1
	// GasBaseCpu is the minimum CPU allowance every transaction must
	// reserve (invariant U2's "cpu+ram+storage baseline").
	GasBaseCpu uint64 = 10_000
	// GasBaseRam is the minimum RAM allowance.
	GasBaseRam uint64 = 10_000
	// GasBaseStorage is the minimum storage-charge allowance.
	GasBaseStorage uint64 = 10_000
	// GasMinimum is the combined minimum gas limit (invariant U2).
	GasMinimum = GasBaseCpu + GasBaseRam + GasBaseStorage

	// GasTransfer is the fixed gas limit of the compact transfer request
	// form (§4.A, scenario 2 of §8).
	GasTransfer uint64 = 10_000

	// GasPerUpdate is the per-update storage charge used by the response
	// builder's storage-cost accounting (step 4 of the §4.H skeleton).
	GasPerUpdate uint64 = 50
	// GasPerEventByte is the per-byte storage charge for emitted events.
	GasPerEventByte uint64 = 1
)
