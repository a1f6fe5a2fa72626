// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime

import "fmt"

// DeclaredException is thrown by a native method body to model a checked
// exception that the invoked method/constructor declared with
// throws_exceptions (§4.E). The builder classifies it as a successful
// outcome carrying the exception payload (an "...ExceptionResponse"),
// never as a transaction failure.
type DeclaredException struct {
	ClassName string
	Message   string
	Where     string
}

func (e *DeclaredException) Error() string {
	return fmt.Sprintf("%s: %s", e.ClassName, e.Message)
}

// SideEffectsInViewMethod describes a view-annotated call whose extracted
// updates go beyond the caller's nonce and balance (§4.H tie-break rule).
// The response builders do not return it: they report that case as a
// failed response whose cause is a java.lang.SecurityException.
type SideEffectsInViewMethod struct {
	Method string
}

func (e *SideEffectsInViewMethod) Error() string {
	return fmt.Sprintf("SideEffectsInViewMethod: %s", e.Method)
}
