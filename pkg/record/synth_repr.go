package record

import (
	"strings"
)

func synthesizeRepr(fields []*Field) ReprFunc {
	return func(self *Instance) string {
		var b strings.Builder
		b.WriteString(self.typ.name)
		b.WriteByte('(')
		for i, f := range fields {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(f.name)
			b.WriteByte('=')
			v, err := self.Get(f.name)
			if err != nil {
				b.WriteString("<unset>")
				continue
			}
			b.WriteString(FormatValue(v))
		}
		b.WriteByte(')')
		return b.String()
	}
}
