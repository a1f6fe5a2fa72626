// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime

import (
	"fmt"

	"github.com/takamaka/node/response"
	"github.com/takamaka/node/takamaka"
)

// State is one node of the per-transaction state machine of §4.H.
type State int

const (
	Created State = iota
	AdmissionChecked
	GasReserved
	Executing
	Succeeded
	Failed
	Rejected
)

func (s State) String() string {
	switch s {
	case Created:
		return "Created"
	case AdmissionChecked:
		return "AdmissionChecked"
	case GasReserved:
		return "GasReserved"
	case Executing:
		return "Executing"
	case Succeeded:
		return "Succeeded"
	case Failed:
		return "Failed"
	case Rejected:
		return "Rejected"
	default:
		return "Unknown"
	}
}

// Result is the outcome of running one request through its builder. A
// Rejected result carries no TxRef and is never written to the store
// (§4.H: "nothing is written to the store"); Succeeded and Failed results
// both produce a persisted response, the only difference being which
// updates they carry.
type Result struct {
	State    State
	Response response.Response
	TxRef    takamaka.Bytes32
	Reason   string // populated iff State == Rejected
}

// RejectedError is returned by a builder when admission checking fails
// (§4.H step 1); Run translates it into a Rejected Result rather than
// propagating it as a hard error, since rejection is an ordinary outcome
// of this state machine, not an engine fault.
type RejectedError struct {
	Reason string
}

func (e *RejectedError) Error() string { return e.Reason }

// Reject constructs a RejectedError with a formatted reason.
func Reject(format string, args ...interface{}) error {
	return &RejectedError{Reason: fmt.Sprintf(format, args...)}
}
