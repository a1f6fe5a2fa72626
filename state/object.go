// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package state implements the deserializer and updates extractor of
// §4.I: it turns a storage reference's history into a live object graph,
// and turns a mutated object graph back into the sorted update list a
// response carries.
package state

import (
	"github.com/takamaka/node/takamaka"
)

// Object is a deserialized storage object: its class tag, and for every
// eager field known so far, both its current value (which instrumented
// code may mutate during execution) and the shadow old_ value captured at
// deserialization time (§4.F.4). Lazy fields are absent from both maps
// until first accessed via xenv.LazyResolver, at which point Load records
// them in both (the just-fetched value becomes its own shadow).
type Object struct {
	Ref   takamaka.StorageRef
	Class takamaka.ClassTag

	current map[takamaka.FieldSignature]takamaka.Value
	shadow  map[takamaka.FieldSignature]takamaka.Value

	// new marks an object allocated during this transaction (no prior
	// history): the updates extractor must emit its ClassTag.
	new bool
}

func newObject(ref takamaka.StorageRef, tag takamaka.ClassTag) *Object {
	return &Object{
		Ref:     ref,
		Class:   tag,
		current: make(map[takamaka.FieldSignature]takamaka.Value),
		shadow:  make(map[takamaka.FieldSignature]takamaka.Value),
	}
}

// Get returns the current value of field, and whether it has been loaded
// (eagerly at deserialization, or lazily on first access).
func (o *Object) Get(field takamaka.FieldSignature) (takamaka.Value, bool) {
	v, ok := o.current[field]
	return v, ok
}

// Set mutates field's current value. It does not touch the shadow value,
// so a later Diff sees the change.
func (o *Object) Set(field takamaka.FieldSignature, value takamaka.Value) {
	o.current[field] = value
}

// Load records a value as both current and shadow, for fields read for the
// first time during this transaction (eagerly at construction, or lazily
// via xenv).
func (o *Object) Load(field takamaka.FieldSignature, value takamaka.Value) {
	o.current[field] = value
	o.shadow[field] = value
}

// Fields returns every field this object has loaded so far, in no
// particular order; callers that need determinism sort with
// takamaka.SortUpdates or takamaka.CompareUpdates downstream.
func (o *Object) Fields() []takamaka.FieldSignature {
	fields := make([]takamaka.FieldSignature, 0, len(o.current))
	for f := range o.current {
		fields = append(fields, f)
	}
	return fields
}

// Dirty reports whether field's current value differs from its shadow
// value (§4.F.4's "!Objects.equals(old, current)").
func (o *Object) Dirty(field takamaka.FieldSignature) bool {
	cur, curOK := o.current[field]
	old, oldOK := o.shadow[field]
	if curOK != oldOK {
		return true
	}
	if !curOK {
		return false
	}
	return cur.String() != old.String()
}

// Arena caches deserialized objects by storage reference for the lifetime
// of one transaction, guaranteeing reference identity (§4.I).
type Arena struct {
	objects map[takamaka.StorageRef]*Object
}

// NewArena creates an empty per-transaction object cache.
func NewArena() *Arena {
	return &Arena{objects: make(map[takamaka.StorageRef]*Object)}
}

func (a *Arena) get(ref takamaka.StorageRef) (*Object, bool) {
	o, ok := a.objects[ref]
	return o, ok
}

func (a *Arena) put(o *Object) {
	a.objects[o.Ref] = o
}

// New registers and returns a freshly allocated object (no prior history),
// used by constructor-call response builders.
func (a *Arena) New(ref takamaka.StorageRef, className string, jar takamaka.Bytes32) *Object {
	o := newObject(ref, takamaka.ClassTag{Object: ref, ClassName: className, Jar: jar})
	o.new = true
	a.put(o)
	return o
}
