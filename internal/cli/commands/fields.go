package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/conduit-lang/records/internal/cli/ui"
	"github.com/conduit-lang/records/pkg/record"
)

func newFieldsCommand(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "fields FILE TYPE",
		Short: "Show the resolved field table of a record type",
		Long: `Show every entry of the resolved field table of TYPE in table order,
inherited fields first, together with the synthesis policy in effect.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			file, name := args[0], args[1]
			loader, err := s.load(cmd.ErrOrStderr(), file)
			if err != nil {
				return err
			}

			t, err := s.lookup(cmd.ErrOrStderr(), loader.Registry(), file, name)
			if err != nil {
				return err
			}
			renderFields(cmd.OutOrStdout(), t, s.noColor)
			return nil
		},
	}
}

// lookup finds a declared type, reporting near misses when it is missing
func (s *session) lookup(w io.Writer, reg *record.Registry, file, name string) (*record.Type, error) {
	t, ok := reg.Get(name)
	if ok {
		return t, nil
	}
	suggestions := ui.FindSimilar(name, reg.List(), nil)
	fmt.Fprint(w, ui.TypeNotFoundError(name, file, suggestions, s.noColor))
	return nil, &reportedError{err: fmt.Errorf("type %s not found in %s", name, file)}
}

func renderFields(w io.Writer, t *record.Type, noColor bool) {
	ui.Header(w, t.Name()+t.Signature(), noColor)

	table := ui.NewTable(w, []string{"FIELD", "TYPE", "KIND", "DEFAULT", "INIT", "REPR", "COMPARE", "HASH"},
		&ui.TableOptions{NoColor: noColor})
	for _, f := range t.Table().All() {
		table.AddRow(
			f.Name(),
			f.Type().TypeName(),
			f.Kind().String(),
			defaultColumn(f),
			yesNo(f.Init()),
			yesNo(f.Repr()),
			yesNo(f.Compare()),
			yesNo(f.InHash()),
		)
	}
	table.Render()
	fmt.Fprintln(w)

	opts := t.Options()
	kv := ui.NewKeyValueTable(w, noColor)
	kv.AddRow("MRO", mroColumn(t))
	kv.AddRow("Methods", strings.Join(methodNames(t), ", "))
	kv.AddRow("Order", yesNo(opts.Order))
	kv.AddRow("Frozen", yesNo(t.Frozen()))
	kv.AddRow("Hash", hashColumn(t))
	if slots := t.Slots(); slots != nil {
		kv.AddRow("Layout", "fixed ("+strings.Join(slots, ", ")+")")
	} else {
		kv.AddRow("Layout", "dynamic")
	}
	kv.Render()
}

func defaultColumn(f *record.Field) string {
	if f.Factory() != nil {
		return "<factory>"
	}
	if v, ok := f.Default(); ok {
		return record.FormatValue(v)
	}
	return "MISSING"
}

func mroColumn(t *record.Type) string {
	mro := t.MRO()
	names := make([]string, len(mro))
	for i, m := range mro {
		names[i] = m.Name()
	}
	return strings.Join(names, " → ")
}

// methodNames lists the methods reachable on t, in MethodName order
func methodNames(t *record.Type) []string {
	var names []string
	for _, name := range record.MethodNames() {
		if fn, ok := t.Method(name); ok && fn != record.Unhashable {
			names = append(names, string(name))
		}
	}
	return names
}

func hashColumn(t *record.Type) string {
	fn, ok := t.Method(record.MethodHash)
	switch {
	case !ok:
		return "identity"
	case fn == record.Unhashable:
		return "unhashable"
	case t.HasOwnMethod(record.MethodHash):
		return "defined"
	default:
		return "inherited"
	}
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
