package record

// FieldSpec describes one field for Make. Field is optional.
type FieldSpec struct {
	Name  string
	Type  DeclaredType
	Field *Field
}

// Make declares and processes a record type in one call
func Make(name string, specs []FieldSpec, bases []*Type, opts Options) (*Type, error) {
	d, err := DeclareFields(name, specs, bases...)
	if err != nil {
		return nil, err
	}
	return d.Record(opts)
}

// DeclareFields starts a declaration from field specs, for callers that
// need to add a doc, methods or class attributes before processing
func DeclareFields(name string, specs []FieldSpec, bases ...*Type) (*Declaration, error) {
	d := Declare(name).Extends(bases...)
	for i, s := range specs {
		if s.Name == "" {
			return nil, declError(ErrInvalidDeclaration, CodeInvalidDeclaration, name, "",
				"field spec at position %d has no name", i)
		}
		if s.Type == nil {
			return nil, declError(ErrInvalidDeclaration, CodeInvalidDeclaration, name, s.Name,
				"field spec %q has no declared type", s.Name)
		}
		if s.Field != nil {
			d.Field(s.Name, s.Type, s.Field)
		} else {
			d.Field(s.Name, s.Type)
		}
	}
	return d, nil
}
