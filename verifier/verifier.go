// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package verifier checks an uploaded jar against the contract-execution
// subset of §4.E before it is instrumented. Issues are collected rather
// than failing fast, so a submitter sees every problem in one round trip;
// presence of any error-severity issue fails the jar-store transaction.
package verifier

import (
	"fmt"

	"github.com/takamaka/node/classfile"
)

// Severity distinguishes a hard failure from an advisory note.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
)

// Issue is one verification finding, always attributable to a class and,
// when relevant, a member of it.
type Issue struct {
	Severity Severity
	Class    string
	Member   string
	Message  string
}

func (i Issue) String() string {
	if i.Member == "" {
		return fmt.Sprintf("%s: %s", i.Class, i.Message)
	}
	return fmt.Sprintf("%s.%s: %s", i.Class, i.Member, i.Message)
}

// WhiteList answers whether an external reference is permitted: either it
// resolves to an entry of the white-listing wizard, or to a class defined
// within the jar's own classpath.
type WhiteList interface {
	IsWhitelisted(target string) bool
}

// StorageTypes answers whether a type name is permitted for a field of a
// persistent (storage) class.
type StorageTypes interface {
	IsStoragePermitted(typeName string) bool
}

// Options carries the consensus parameters that affect verification
// outcomes (§4.E's self_charged rule is consensus-gated).
type Options struct {
	AllowSelfCharged bool
}

// Verify checks every class of jar, given a classpath (the jar itself plus
// whatever the class loader resolves beneath it) against which class
// membership and white-listing are checked.
func Verify(jar *classfile.Jar, classpath *classfile.Jar, wl WhiteList, st StorageTypes, opts Options) []Issue {
	var issues []Issue
	for _, c := range jar.Classes {
		issues = append(issues, verifyClass(c, jar, classpath, wl, st, opts)...)
	}
	return issues
}

// HasErrors reports whether issues contains any error-severity finding.
func HasErrors(issues []Issue) bool {
	for _, i := range issues {
		if i.Severity == SeverityError {
			return true
		}
	}
	return false
}

func verifyClass(c *classfile.Class, jar, classpath *classfile.Jar, wl WhiteList, st StorageTypes, opts Options) []Issue {
	var issues []Issue

	for _, f := range c.Fields {
		if !f.Static && !st.IsStoragePermitted(f.Type) {
			issues = append(issues, Issue{
				Severity: SeverityError, Class: c.Name, Member: f.Name,
				Message: fmt.Sprintf("field type %q is not storage-permitted", f.Type),
			})
		}
	}

	for _, m := range c.Constructors {
		issues = append(issues, verifyMethod(c, m, jar, classpath, wl, opts)...)
	}
	for _, m := range c.Methods {
		issues = append(issues, verifyMethod(c, m, jar, classpath, wl, opts)...)
	}
	return issues
}

func verifyMethod(c *classfile.Class, m classfile.Method, jar, classpath *classfile.Jar, wl WhiteList, opts Options) []Issue {
	var issues []Issue

	if m.Payable && !m.FromContract {
		issues = append(issues, Issue{
			Severity: SeverityError, Class: c.Name, Member: m.Name,
			Message: "payable implies from_contract",
		})
	}

	if m.FromContract && m.Static {
		issues = append(issues, Issue{
			Severity: SeverityError, Class: c.Name, Member: m.Name,
			Message: "from_contract requires an instance receiver and is not allowed on a static method",
		})
	}

	if m.SelfCharged {
		if !opts.AllowSelfCharged {
			issues = append(issues, Issue{
				Severity: SeverityError, Class: c.Name, Member: m.Name,
				Message: "self_charged is not allowed by the current consensus parameters",
			})
		} else if m.Static || m.Name == "<init>" {
			issues = append(issues, Issue{
				Severity: SeverityError, Class: c.Name, Member: m.Name,
				Message: "self_charged is only permitted on public instance methods of contract classes",
			})
		}
	}

	for _, instr := range m.Body {
		switch instr.Op {
		case classfile.OpJsr, classfile.OpRet, classfile.OpMonitorEnter, classfile.OpMonitorExit:
			issues = append(issues, Issue{
				Severity: SeverityError, Class: c.Name, Member: m.Name,
				Message: fmt.Sprintf("forbidden opcode %s", instr.Op),
			})
		case classfile.OpStoreSlot0:
			if !m.Static {
				issues = append(issues, Issue{
					Severity: SeverityError, Class: c.Name, Member: m.Name,
					Message: "write to local slot 0 in an instance method is forbidden",
				})
			}
		case classfile.OpPutStatic:
			if m.Name != "<clinit>" && !isSynthetic(m.Name) {
				issues = append(issues, Issue{
					Severity: SeverityError, Class: c.Name, Member: m.Name,
					Message: "putstatic is only allowed in class initializers and synthetic methods",
				})
			}
		case classfile.OpCall, classfile.OpFieldRead, classfile.OpFieldWrite, classfile.OpNew:
			if !isDefinedInClasspath(instr.Target, jar, classpath) && !wl.IsWhitelisted(instr.Target) {
				issues = append(issues, Issue{
					Severity: SeverityError, Class: c.Name, Member: m.Name,
					Message: fmt.Sprintf("reference to %q is neither white-listed nor defined in the classpath", instr.Target),
				})
			}
			if instr.Op == classfile.OpCall {
				issues = append(issues, verifyFromContractDiscipline(c, m, instr, jar, classpath)...)
			}
		}
	}

	return issues
}

func verifyFromContractDiscipline(c *classfile.Class, caller classfile.Method, instr classfile.Instruction, jar, classpath *classfile.Jar) []Issue {
	target := resolveMethod(instr.Target, jar, classpath)
	if target == nil || !target.FromContract {
		return nil
	}
	if caller.FromContract {
		return nil
	}
	return []Issue{{
		Severity: SeverityError, Class: c.Name, Member: caller.Name,
		Message: fmt.Sprintf("call to from_contract member %q from non-from_contract code", instr.Target),
	}}
}

func isSynthetic(name string) bool {
	return len(name) > 0 && name[0] == '$'
}

func isDefinedInClasspath(target string, jars ...*classfile.Jar) bool {
	className, _ := splitTarget(target)
	for _, j := range jars {
		if j == nil {
			continue
		}
		if _, ok := j.Class(className); ok {
			return true
		}
	}
	return false
}

func resolveMethod(target string, jars ...*classfile.Jar) *classfile.Method {
	className, member := splitTarget(target)
	for _, j := range jars {
		if j == nil {
			continue
		}
		c, ok := j.Class(className)
		if !ok {
			continue
		}
		for i := range c.Methods {
			if c.Methods[i].Name == member {
				return &c.Methods[i]
			}
		}
		for i := range c.Constructors {
			if c.Constructors[i].Name == member {
				return &c.Constructors[i]
			}
		}
	}
	return nil
}

// splitTarget splits "Class.member" into its two parts; a target with no
// "." (a bare class reference, e.g. for OpNew) returns ("Class", "").
func splitTarget(target string) (class, member string) {
	for i := len(target) - 1; i >= 0; i-- {
		if target[i] == '.' {
			return target[:i], target[i+1:]
		}
	}
	return target, ""
}
