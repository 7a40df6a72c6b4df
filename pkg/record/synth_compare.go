package record

func synthesizeCompare(fields []*Field, op MethodName) CompareFunc {
	return func(self, other *Instance) (Outcome, error) {
		if other == nil || other.typ != self.typ {
			return NotComparable, nil
		}
		a, err := self.tuple(fields)
		if err != nil {
			return NotComparable, err
		}
		b, err := other.tuple(fields)
		if err != nil {
			return NotComparable, err
		}

		switch op {
		case MethodEq:
			return outcomeOf(tuplesEqual(a, b)), nil
		case MethodNe:
			return outcomeOf(!tuplesEqual(a, b)), nil
		}

		c, err := compareTuples(a, b)
		if err != nil {
			return NotComparable, err
		}
		switch op {
		case MethodLt:
			return outcomeOf(c < 0), nil
		case MethodLe:
			return outcomeOf(c <= 0), nil
		case MethodGt:
			return outcomeOf(c > 0), nil
		default:
			return outcomeOf(c >= 0), nil
		}
	}
}

func synthesizeHash(fields []*Field) HashFunc {
	return func(self *Instance) (uint64, error) {
		values, err := self.tuple(fields)
		if err != nil {
			return 0, err
		}
		return HashTuple(values...)
	}
}

func frozenSetAttr(self *Instance, _ Store, name string, _ any) error {
	return instanceError(ErrFrozenInstance, CodeFrozenInstance, self.typ.name, name,
		"cannot assign to field %q", name)
}

func frozenDelAttr(self *Instance, _ Store, name string) error {
	return instanceError(ErrFrozenInstance, CodeFrozenInstance, self.typ.name, name,
		"cannot delete field %q", name)
}
