package record

// Table is the resolved, ordered field table of a record type. It is built
// once by the resolver and never modified afterwards.
type Table struct {
	entries []*Field
	index   map[string]int
}

func newTable() *Table {
	return &Table{index: make(map[string]int)}
}

// set inserts f, or replaces an existing entry of the same name in place so
// the field keeps its original position
func (t *Table) set(f *Field) {
	if i, ok := t.index[f.name]; ok {
		t.entries[i] = f
		return
	}
	t.index[f.name] = len(t.entries)
	t.entries = append(t.entries, f)
}

// Len returns the number of entries, constants included
func (t *Table) Len() int {
	return len(t.entries)
}

// Get returns the entry named name
func (t *Table) Get(name string) (*Field, bool) {
	i, ok := t.index[name]
	if !ok {
		return nil, false
	}
	return t.entries[i], true
}

// All returns every entry in table order, constants and construction-only
// fields included
func (t *Table) All() []*Field {
	out := make([]*Field, len(t.entries))
	copy(out, t.entries)
	return out
}

// Fields returns the Ordinary entries in table order
func (t *Table) Fields() []*Field {
	return t.filter(func(f *Field) bool { return f.kind == Ordinary })
}

// Names returns the names of the Ordinary entries in table order
func (t *Table) Names() []string {
	fields := t.Fields()
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = f.name
	}
	return names
}

func (t *Table) filter(keep func(*Field) bool) []*Field {
	var out []*Field
	for _, f := range t.entries {
		if keep(f) {
			out = append(out, f)
		}
	}
	return out
}
