package record

import (
	"fmt"
	"sort"
	"strings"
)

func synthesizeInit(p *plan) InitFunc {
	params := p.params
	index := make(map[string]int, len(params))
	for i, f := range params {
		index[f.name] = i
	}
	fields := p.fields
	frozen := p.frozen

	return func(self *Instance, args []any, kwargs map[string]any) error {
		values, supplied, err := bindArguments(self.typ.name, params, index, args, kwargs)
		if err != nil {
			return err
		}

		store := Store{inst: self}
		assign := self.Set
		if frozen {
			assign = store.Set
		}

		var initVars []any
		for _, f := range fields {
			var v any
			if i, ok := index[f.name]; ok {
				if supplied[i] {
					v = values[i]
				} else {
					v = f.value()
				}
			} else if f.factory != nil || f.kind == ConstructionOnly {
				v = f.value()
			} else {
				// init=false with a plain default: served from the type
				continue
			}

			if f.kind == ConstructionOnly {
				initVars = append(initVars, v)
				continue
			}
			if err := assign(f.name, v); err != nil {
				return err
			}
		}

		if hook, ok := self.typ.Method(MethodPostInit); ok {
			if fn, ok := hook.(PostInitFunc); ok {
				return fn(self, store, initVars)
			}
		}
		return nil
	}
}

// bindArguments matches positional and keyword arguments to the constructor
// parameters
func bindArguments(typeName string, params []*Field, index map[string]int, args []any, kwargs map[string]any) ([]any, []bool, error) {
	if len(args) > len(params) {
		return nil, nil, instanceError(ErrArguments, CodeArguments, typeName, "",
			"takes %d positional arguments but %d were given", len(params), len(args))
	}

	values := make([]any, len(params))
	supplied := make([]bool, len(params))
	for i, a := range args {
		values[i] = a
		supplied[i] = true
	}

	keys := make([]string, 0, len(kwargs))
	for k := range kwargs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		i, ok := index[k]
		if !ok {
			return nil, nil, instanceError(ErrArguments, CodeArguments, typeName, k,
				"got an unexpected keyword argument %q", k)
		}
		if supplied[i] {
			return nil, nil, instanceError(ErrArguments, CodeArguments, typeName, k,
				"got multiple values for argument %q", k)
		}
		values[i] = kwargs[k]
		supplied[i] = true
	}

	var missing []string
	for i, f := range params {
		if !supplied[i] && !f.HasDefault() {
			missing = append(missing, fmt.Sprintf("%q", f.name))
		}
	}
	if len(missing) > 0 {
		return nil, nil, instanceError(ErrArguments, CodeArguments, typeName, "",
			"missing %d required argument(s): %s", len(missing), strings.Join(missing, ", "))
	}
	return values, supplied, nil
}
