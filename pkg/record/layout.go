package record

import (
	"go.uber.org/zap"
)

// WithSlots returns a copy of the record type t whose instances store exactly
// its Ordinary fields. Name, bases, methods and field table are shared with
// t; the field defaults stay reachable through the table.
func WithSlots(t *Type) (*Type, error) {
	if t == nil || t.table == nil {
		name := ""
		if t != nil {
			name = t.name
		}
		return nil, declError(ErrNotARecordType, CodeNotARecordType, name, "",
			"a fixed layout can only be derived from a record type")
	}
	if t.slots != nil {
		e := declError(ErrLayoutConflict, CodeLayoutConflict, t.name, "",
			"%s already specifies a fixed layout", t.name)
		e.Hint = "declare the type without Slots and let WithSlots derive the layout"
		return nil, e
	}

	slots := t.table.Names()
	nt := &Type{
		name:        t.name,
		doc:         t.doc,
		bases:       append([]*Type(nil), t.bases...),
		annotations: append([]Annotation(nil), t.annotations...),
		attrs:       make(map[string]any, len(t.attrs)),
		methods:     make(map[MethodName]any, len(t.methods)),
		slots:       slots,
		slotIndex:   indexSlots(slots),
		table:       t.table,
		frozen:      t.frozen,
		options:     t.options,
	}
	for k, v := range t.attrs {
		if _, isField := nt.slotIndex[k]; isField {
			continue
		}
		nt.attrs[k] = v
	}
	for k, v := range t.methods {
		nt.methods[k] = v
	}
	nt.mro = append([]*Type{nt}, t.mro[1:]...)

	Logger().Debug("derived fixed layout",
		zap.String("type", t.name),
		zap.Strings("slots", slots))
	return nt, nil
}
