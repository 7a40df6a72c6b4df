package commands

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/conduit-lang/records/internal/cli/ui"
	"github.com/conduit-lang/records/pkg/record"
)

func newNewCommand(s *session) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "new FILE TYPE [VALUE | NAME=VALUE]...",
		Short: "Construct an instance of a record type",
		Long: `Construct an instance of TYPE through its synthesized constructor and
print it. Arguments are positional unless written NAME=VALUE; values are
parsed as YAML, so 3 is an int, "3" a string and [1, 2] a list.`,
		Example: `  records new shapes.yaml Point 3 y=4
  records new shapes.yaml Tagged --output yaml`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if output != "repr" && output != "yaml" {
				return fmt.Errorf("invalid output format %q (expected repr or yaml)", output)
			}

			file, name := args[0], args[1]
			loader, err := s.load(cmd.ErrOrStderr(), file)
			if err != nil {
				return err
			}
			t, err := s.lookup(cmd.ErrOrStderr(), loader.Registry(), file, name)
			if err != nil {
				return err
			}

			positional, kwargs, err := parseArguments(args[2:])
			if err != nil {
				return err
			}
			inst, err := t.Call(positional, kwargs)
			if err != nil {
				fmt.Fprint(cmd.ErrOrStderr(), ui.ConstructionError(t.Name(), t.Signature(), err.Error(), s.noColor))
				return &reportedError{err: err}
			}

			return writeInstance(cmd.OutOrStdout(), inst, output)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "repr", "output format (repr, yaml)")
	return cmd
}

// parseArguments splits command-line values into positional and keyword
// constructor arguments
func parseArguments(args []string) ([]any, map[string]any, error) {
	var positional []any
	kwargs := make(map[string]any)
	for _, arg := range args {
		name, raw, isKeyword := strings.Cut(arg, "=")
		if !isKeyword || !isIdentifier(name) {
			if len(kwargs) > 0 {
				return nil, nil, fmt.Errorf("positional argument %q follows keyword argument", arg)
			}
			v, err := parseValue(arg)
			if err != nil {
				return nil, nil, err
			}
			positional = append(positional, v)
			continue
		}
		if _, dup := kwargs[name]; dup {
			return nil, nil, fmt.Errorf("keyword argument %q repeated", name)
		}
		v, err := parseValue(raw)
		if err != nil {
			return nil, nil, err
		}
		kwargs[name] = v
	}
	return positional, kwargs, nil
}

func parseValue(raw string) (any, error) {
	var v any
	if err := yaml.Unmarshal([]byte(raw), &v); err != nil {
		return nil, fmt.Errorf("invalid value %q: %w", raw, err)
	}
	return v, nil
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case i > 0 && r >= '0' && r <= '9':
		default:
			return false
		}
	}
	return true
}

func writeInstance(w io.Writer, inst *record.Instance, output string) error {
	if output == "yaml" {
		m, err := record.AsMap(inst)
		if err != nil {
			return err
		}
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(map[string]any{inst.Type().Name(): m}); err != nil {
			return err
		}
		return enc.Close()
	}

	fmt.Fprintln(w, inst.String())
	h, err := inst.Hash()
	switch {
	case errors.Is(err, record.ErrUnhashable):
		fmt.Fprintln(w, "hash: unhashable")
	case err != nil:
		return err
	default:
		fmt.Fprintf(w, "hash: %016x\n", h)
	}
	return nil
}
