// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package takamaka

import "sort"

// ClassRank answers, for a field's defining class, its position in the
// superclass-first total order for the runtime class currently being
// deserialized/updated. It is precomputed at verify time per §9 and
// supplied by the class loader; takamaka itself knows nothing about class
// hierarchies, to avoid an import cycle.
type ClassRank func(className string) int

// CompareUpdates orders two updates of the same storage object using the
// canonical comparator of §4.I: defining class (superclasses first), then
// field name, then field type. A ClassTag update always sorts first since
// it has no field and must be found before any eager field update is
// considered resolved during deserialization.
func CompareUpdates(a, b Update, rank ClassRank) int {
	_, aIsTag := a.(ClassTagUpdate)
	_, bIsTag := b.(ClassTagUpdate)
	if aIsTag != bIsTag {
		if aIsTag {
			return -1
		}
		return 1
	}
	if aIsTag && bIsTag {
		return 0
	}

	fa, fb := a.Field(), b.Field()
	if fa.DefiningClass != fb.DefiningClass {
		ra, rb := rank(fa.DefiningClass), rank(fb.DefiningClass)
		if ra != rb {
			if ra < rb {
				return -1
			}
			return 1
		}
		// ranks tie (unknown to the rank function): fall back to name
	}
	if fa.Name != fb.Name {
		if fa.Name < fb.Name {
			return -1
		}
		return 1
	}
	if fa.Type != fb.Type {
		if fa.Type < fb.Type {
			return -1
		}
		return 1
	}
	return 0
}

// SortUpdates sorts updates in place using CompareUpdates. The resulting
// order is the one written into a response and the one the deserialization
// constructor expects on replay (§4.I).
func SortUpdates(updates []Update, rank ClassRank) {
	sort.SliceStable(updates, func(i, j int) bool {
		return CompareUpdates(updates[i], updates[j], rank) < 0
	})
}
