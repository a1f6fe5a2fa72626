// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"fmt"
	"sort"

	"github.com/takamaka/node/classfile"
	"github.com/takamaka/node/classloader"
	"github.com/takamaka/node/store"
	"github.com/takamaka/node/takamaka"
)

// Deserializer turns storage references into the live object graph of
// §4.I, backed by one node store and one per-transaction class loader.
// Every object it produces is cached in its Arena, so two deserializations
// of the same reference within a transaction yield the identical *Object.
type Deserializer struct {
	store  *store.Store
	loader *classloader.ClassLoader
	arena  *Arena
}

// NewDeserializer builds a deserializer over store, resolving classes
// through loader and caching results in arena.
func NewDeserializer(st *store.Store, loader *classloader.ClassLoader, arena *Arena) *Deserializer {
	return &Deserializer{store: st, loader: loader, arena: arena}
}

// Deserialize resolves ref to a live Object, recursively deserializing its
// eager reference-typed fields (§4.I steps 1-3).
func (d *Deserializer) Deserialize(ref takamaka.StorageRef) (*Object, error) {
	if o, ok := d.arena.get(ref); ok {
		return o, nil
	}

	history, ok, err := d.store.GetHistory(ref)
	if err != nil {
		return nil, err
	}
	if !ok || len(history) == 0 {
		return nil, fmt.Errorf("state: no history for %s", ref)
	}

	var tag *takamaka.ClassTag
	eager := make(map[takamaka.FieldSignature]takamaka.Value)

scan:
	for _, txRef := range history {
		resp, ok, err := d.store.GetResponse(txRef)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		for _, u := range resp.Updates() {
			if u.Object() != ref {
				continue
			}
			if ct, isTag := u.(takamaka.ClassTagUpdate); isTag {
				t := ct.Tag
				tag = &t
				break scan
			}
			f := u.Field()
			if _, known := eager[f]; !known {
				eager[f] = valueOfUpdate(u)
			}
		}
	}
	if tag == nil {
		return nil, fmt.Errorf("state: %s has no class tag in its history", ref)
	}

	o := newObject(ref, *tag)
	d.arena.put(o)

	class, ok := d.loader.Resolve(tag.ClassName)
	if !ok {
		return nil, fmt.Errorf("state: class %q not found for %s", tag.ClassName, ref)
	}

	for _, fs := range deserializationConstructorOrder(d.loader, class) {
		v, ok := eager[fs]
		if !ok {
			continue // lazy field: resolved on first access via xenv
		}
		o.Load(fs, v)
		if ref2, isRef := v.(takamaka.StorageRefValue); isRef {
			if _, err := d.Deserialize(ref2.Ref); err != nil {
				return nil, err
			}
		}
	}
	return o, nil
}

// DeserializeLastLazyUpdateFor implements xenv.LazyResolver: it scans
// object's history for the most recent update of the given field and
// records it on the corresponding Object (becoming its own shadow value).
func (d *Deserializer) DeserializeLastLazyUpdateFor(object takamaka.StorageRef, definingClass, name, fieldType string) (takamaka.Value, error) {
	fs := takamaka.FieldSignature{DefiningClass: definingClass, Name: name, Type: fieldType}
	v, found, err := d.lastUpdateValue(object, fs)
	if err != nil {
		return nil, err
	}
	if !found {
		return takamaka.NullValue{}, nil
	}
	if o, ok := d.arena.get(object); ok {
		o.Load(fs, v)
	}
	return v, nil
}

func (d *Deserializer) lastUpdateValue(owner takamaka.StorageRef, field takamaka.FieldSignature) (takamaka.Value, bool, error) {
	history, ok, err := d.store.GetHistory(owner)
	if err != nil || !ok {
		return nil, false, err
	}
	for _, txRef := range history {
		resp, ok, err := d.store.GetResponse(txRef)
		if err != nil {
			return nil, false, err
		}
		if !ok {
			continue
		}
		for _, u := range resp.Updates() {
			if u.Object() == owner && u.Field() == field {
				return valueOfUpdate(u), true, nil
			}
		}
	}
	return nil, false, nil
}

// valueOfUpdate renders any field-carrying Update as a takamaka.Value,
// uniformly across the five field-update shapes.
func valueOfUpdate(u takamaka.Update) takamaka.Value {
	switch up := u.(type) {
	case takamaka.PrimitiveUpdate:
		return up.Value
	case takamaka.BigIntegerUpdate:
		return takamaka.NewBigIntegerValue(up.Value)
	case takamaka.StringUpdate:
		return takamaka.StringValue(up.Value)
	case takamaka.EnumUpdate:
		return up.Value
	case takamaka.ReferenceUpdate:
		if up.ToNull {
			return takamaka.NullValue{}
		}
		return takamaka.StorageRefValue{Ref: up.Value}
	case takamaka.UpdateOfBalance:
		return takamaka.NewBigIntegerValue(up.Balance)
	default:
		return takamaka.NullValue{}
	}
}

// deserializationConstructorOrder returns class's own persistent fields
// plus every ancestor's, ordered (defining class superclass-first, then
// field name, then field type) — the same total order §4.I requires the
// deserialization constructor and the updates extractor to agree on.
func deserializationConstructorOrder(loader *classloader.ClassLoader, class *classfile.Class) []takamaka.FieldSignature {
	type layer struct {
		className string
		fields    []takamaka.FieldSignature
	}
	var layers []layer
	for c := class; c != nil; {
		fs := make([]takamaka.FieldSignature, 0, len(c.Fields))
		for _, f := range c.Fields {
			if f.Static {
				continue
			}
			fs = append(fs, takamaka.FieldSignature{DefiningClass: c.Name, Name: f.Name, Type: f.Type})
		}
		layers = append(layers, layer{className: c.Name, fields: fs})
		if c.Super == "" {
			break
		}
		next, ok := loader.Resolve(c.Super)
		if !ok {
			break
		}
		c = next
	}

	// layers is currently leaf-to-root; reverse to superclass-first.
	out := make([]takamaka.FieldSignature, 0)
	for i := len(layers) - 1; i >= 0; i-- {
		fields := layers[i].fields
		sort.Slice(fields, func(a, b int) bool {
			if fields[a].Name != fields[b].Name {
				return fields[a].Name < fields[b].Name
			}
			return fields[a].Type < fields[b].Type
		})
		out = append(out, fields...)
	}
	return out
}
