// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package classloader builds the per-transaction classpath view of §4.G:
// a parent chain whose leaves are dependency jars and whose root is the
// transaction's own classpath reference, with class lookups cached for
// the lifetime of the transaction and discarded with it.
package classloader

import (
	"fmt"

	"github.com/takamaka/node/classfile"
	"github.com/takamaka/node/takamaka"
)

// JarSource resolves a classpath transaction reference to its decoded jar
// and, when the classpath is recursive, the classpath references of the
// jars it in turn depends on. This is the seam the engine's store-backed
// jar-store history implements; classloader only needs the read side.
type JarSource interface {
	ResolveJar(txRef takamaka.Bytes32) (jar *classfile.Jar, dependencies []takamaka.Bytes32, recursive bool, err error)
}

// ClassLoader is a per-transaction, destroy-on-completion component. Its
// parent field forms the chain described in §4.G: classes are looked up in
// this loader's own jar first, then recursively in parent.
type ClassLoader struct {
	root   takamaka.Bytes32
	jar    *classfile.Jar
	parent *ClassLoader

	// cache memoizes class resolution for the lifetime of this loader; it
	// must not outlive the loader (§4.G), so it is never shared across
	// transactions.
	cache map[string]*classfile.Class
}

// Build constructs the parent chain for classpath by breadth-first,
// de-duplicated traversal of its dependencies (only followed when the
// classpath is marked recursive).
func Build(source JarSource, classpath takamaka.Bytes32) (*ClassLoader, error) {
	jar, deps, recursive, err := source.ResolveJar(classpath)
	if err != nil {
		return nil, fmt.Errorf("classloader: resolve %s: %w", classpath, err)
	}

	loader := &ClassLoader{root: classpath, jar: jar, cache: make(map[string]*classfile.Class)}
	if !recursive || len(deps) == 0 {
		return loader, nil
	}

	visited := map[takamaka.Bytes32]bool{classpath: true}
	queue := append([]takamaka.Bytes32(nil), deps...)
	parent := loader
	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]
		if visited[next] {
			continue
		}
		visited[next] = true

		depJar, depDeps, depRecursive, err := source.ResolveJar(next)
		if err != nil {
			return nil, fmt.Errorf("classloader: resolve dependency %s: %w", next, err)
		}
		dependent := &ClassLoader{root: next, jar: depJar, cache: make(map[string]*classfile.Class)}
		parent.parent = dependent
		parent = dependent

		if depRecursive {
			queue = append(queue, depDeps...)
		}
	}
	return loader, nil
}

// Resolve looks up className in this loader's own jar, then in its parent
// chain, caching the result (§4.G).
func (cl *ClassLoader) Resolve(className string) (*classfile.Class, bool) {
	if c, ok := cl.cache[className]; ok {
		return c, true
	}
	if c, ok := cl.jar.Class(className); ok {
		cl.cache[className] = c
		return c, true
	}
	if cl.parent != nil {
		return cl.parent.Resolve(className)
	}
	return nil, false
}

// Root returns the transaction reference this loader was built for.
func (cl *ClassLoader) Root() takamaka.Bytes32 {
	return cl.root
}

// IsDefinedHere reports whether className is defined somewhere in the
// chain rooted at cl, without going through the cache (used by the
// verifier's "defined within the installed classpath" white-listing rule).
func (cl *ClassLoader) IsDefinedHere(className string) bool {
	for l := cl; l != nil; l = l.parent {
		if _, ok := l.jar.Class(className); ok {
			return true
		}
	}
	return false
}
