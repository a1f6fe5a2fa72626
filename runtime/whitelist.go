// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime

import "github.com/takamaka/node/takamaka"

// staticWhiteList implements verifier.WhiteList over a fixed consensus-
// supplied set of permitted external references: the white-listing
// wizard of §4.E, reduced to its observable contract (a membership test)
// rather than its internal construction from annotated stub classes.
type staticWhiteList struct {
	targets map[string]bool
}

func newStaticWhiteList(targets []string) *staticWhiteList {
	m := make(map[string]bool, len(targets))
	for _, t := range targets {
		m[t] = true
	}
	return &staticWhiteList{targets: m}
}

func (w *staticWhiteList) IsWhitelisted(target string) bool {
	return w.targets[target]
}

// staticStorageTypes implements verifier.StorageTypes: the built-in eager
// types are always storage-permitted; additional class names come from
// consensus (every class reachable from the installed classpath and
// declared storage-permitted in genesis, e.g. the io.takamaka.code.lang
// hierarchy itself).
type staticStorageTypes struct {
	permitted map[string]bool
}

func newStaticStorageTypes(names []string) *staticStorageTypes {
	m := make(map[string]bool, len(names))
	for _, n := range names {
		m[n] = true
	}
	return &staticStorageTypes{permitted: m}
}

func (s *staticStorageTypes) IsStoragePermitted(typeName string) bool {
	return takamaka.IsEagerType(typeName) || s.permitted[typeName]
}
