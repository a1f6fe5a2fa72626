// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package marshal

import (
	"fmt"

	"github.com/takamaka/node/takamaka"
)

// WriteFieldSignature writes a (defining_class, name, declared_type) triple.
func (w *Writer) WriteFieldSignature(f takamaka.FieldSignature) {
	w.String(f.DefiningClass)
	w.String(f.Name)
	w.String(f.Type)
}

// ReadFieldSignature reads a FieldSignature.
func (r *Reader) ReadFieldSignature() takamaka.FieldSignature {
	class := r.String()
	name := r.String()
	typ := r.String()
	return takamaka.FieldSignature{DefiningClass: class, Name: name, Type: typ}
}

// WriteUpdate encodes one Update using the selector scheme of selectors.go.
func (w *Writer) WriteUpdate(u takamaka.Update) {
	switch t := u.(type) {
	case takamaka.ClassTagUpdate:
		w.Byte(SelectorUpdateClassTag)
		w.WriteStorageRefWithoutSelector(t.Tag.Object)
		w.String(t.Tag.ClassName)
		w.Bytes(t.Tag.Jar.Bytes())
	case takamaka.PrimitiveUpdate:
		w.Byte(SelectorUpdateOfPrimitive)
		w.WriteStorageRefWithoutSelector(t.Obj)
		w.WriteFieldSignature(t.Fld)
		w.WriteValue(t.Value)
	case takamaka.BigIntegerUpdate:
		w.Byte(SelectorUpdateOfBigInteger)
		w.WriteStorageRefWithoutSelector(t.Obj)
		w.WriteFieldSignature(t.Fld)
		w.BigInteger(t.Value)
	case takamaka.StringUpdate:
		w.Byte(SelectorUpdateOfString)
		w.WriteStorageRefWithoutSelector(t.Obj)
		w.WriteFieldSignature(t.Fld)
		w.String(t.Value)
	case takamaka.EnumUpdate:
		w.Byte(SelectorUpdateOfEnum)
		w.WriteStorageRefWithoutSelector(t.Obj)
		w.WriteFieldSignature(t.Fld)
		w.String(t.Value.EnumClass)
		w.String(t.Value.Name)
	case takamaka.ReferenceUpdate:
		if t.ToNull {
			w.Byte(SelectorUpdateOfReferenceNull)
			w.WriteStorageRefWithoutSelector(t.Obj)
			w.WriteFieldSignature(t.Fld)
			w.Bool(t.EagerKind)
			return
		}
		w.Byte(SelectorUpdateOfReference)
		w.WriteStorageRefWithoutSelector(t.Obj)
		w.WriteFieldSignature(t.Fld)
		w.Bool(t.EagerKind)
		w.WriteStorageRefWithoutSelector(t.Value)
	case takamaka.UpdateOfBalance:
		w.Byte(SelectorUpdateOfBalance)
		w.WriteStorageRefWithoutSelector(t.Obj)
		w.Bool(t.Red)
		w.BigInteger(t.Balance)
	default:
		if w.err == nil {
			w.err = fmt.Errorf("marshal: unknown update type %T", u)
		}
	}
}

// ReadUpdate decodes an Update.
func (r *Reader) ReadUpdate() takamaka.Update {
	sel := int(r.Byte())
	if r.err != nil {
		return nil
	}
	switch sel {
	case SelectorUpdateClassTag:
		obj := r.ReadStorageRefWithoutSelector()
		class := r.String()
		var jar takamaka.Bytes32
		copy(jar[:], r.Bytes(32))
		return takamaka.ClassTagUpdate{Tag: takamaka.ClassTag{Object: obj, ClassName: class, Jar: jar}}
	case SelectorUpdateOfPrimitive:
		obj := r.ReadStorageRefWithoutSelector()
		fld := r.ReadFieldSignature()
		val := r.ReadValue()
		return takamaka.PrimitiveUpdate{Obj: obj, Fld: fld, Value: val}
	case SelectorUpdateOfBigInteger:
		obj := r.ReadStorageRefWithoutSelector()
		fld := r.ReadFieldSignature()
		val := r.BigInteger()
		return takamaka.BigIntegerUpdate{Obj: obj, Fld: fld, Value: val}
	case SelectorUpdateOfString:
		obj := r.ReadStorageRefWithoutSelector()
		fld := r.ReadFieldSignature()
		val := r.String()
		return takamaka.StringUpdate{Obj: obj, Fld: fld, Value: val}
	case SelectorUpdateOfEnum:
		obj := r.ReadStorageRefWithoutSelector()
		fld := r.ReadFieldSignature()
		class := r.String()
		name := r.String()
		return takamaka.EnumUpdate{Obj: obj, Fld: fld, Value: takamaka.EnumValue{EnumClass: class, Name: name}}
	case SelectorUpdateOfReferenceNull:
		obj := r.ReadStorageRefWithoutSelector()
		fld := r.ReadFieldSignature()
		eager := r.Bool()
		return takamaka.ReferenceUpdate{Obj: obj, Fld: fld, ToNull: true, EagerKind: eager}
	case SelectorUpdateOfReference:
		obj := r.ReadStorageRefWithoutSelector()
		fld := r.ReadFieldSignature()
		eager := r.Bool()
		val := r.ReadStorageRefWithoutSelector()
		return takamaka.ReferenceUpdate{Obj: obj, Fld: fld, EagerKind: eager, Value: val}
	case SelectorUpdateOfBalance:
		obj := r.ReadStorageRefWithoutSelector()
		red := r.Bool()
		bal := r.BigInteger()
		return takamaka.UpdateOfBalance{Obj: obj, Balance: bal, Red: red}
	default:
		if r.err == nil {
			r.err = fmt.Errorf("marshal: unknown update selector %d", sel)
		}
		return nil
	}
}

// WriteUpdates writes a compact-int count followed by each update in order.
// Callers are responsible for having sorted updates with
// takamaka.SortUpdates beforehand; this function does not re-sort, since
// re-sorting at encode time would hide a caller bug that breaks the
// deserialization-constructor contract.
func (w *Writer) WriteUpdates(updates []takamaka.Update) {
	w.CompactInt(len(updates))
	for _, u := range updates {
		w.WriteUpdate(u)
	}
}

// ReadUpdates reads back a slice of updates written by WriteUpdates.
func (r *Reader) ReadUpdates() []takamaka.Update {
	n := r.CompactInt()
	if n < 0 {
		return nil
	}
	out := make([]takamaka.Update, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, r.ReadUpdate())
		if r.err != nil {
			return out
		}
	}
	return out
}
