// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime

import (
	"github.com/takamaka/node/classloader"
	"github.com/takamaka/node/takamaka"
)

// classRank builds the superclass-first ClassRank of §4.I/§9 for the
// ancestor chain rooted at rootClassName, the same total order the
// deserialization constructor uses (state.deserializationConstructorOrder);
// the updates extractor must agree with it exactly.
func classRank(loader *classloader.ClassLoader, rootClassName string) takamaka.ClassRank {
	var chain []string
	for cn := rootClassName; cn != ""; {
		chain = append(chain, cn)
		c, ok := loader.Resolve(cn)
		if !ok {
			break
		}
		cn = c.Super
	}

	order := make(map[string]int, len(chain))
	rank := 0
	for i := len(chain) - 1; i >= 0; i-- {
		order[chain[i]] = rank
		rank++
	}

	return func(className string) int {
		if r, ok := order[className]; ok {
			return r
		}
		return rank
	}
}
