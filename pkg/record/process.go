package record

import (
	"errors"
	"sort"

	"github.com/davecgh/go-spew/spew"
	"go.uber.org/zap"
)

// plan holds the filtered field lists the synthesized methods close over
type plan struct {
	typeName string
	frozen   bool
	fields   []*Field // Ordinary and ConstructionOnly, table order
	params   []*Field
	repr     []*Field
	compare  []*Field
	hash     []*Field
}

func newPlan(t *Type, table *Table, frozen bool) *plan {
	p := &plan{typeName: t.name, frozen: frozen}
	for _, f := range table.entries {
		if f.kind == Constant {
			continue
		}
		p.fields = append(p.fields, f)
		if f.init {
			p.params = append(p.params, f)
		}
		if f.kind == ConstructionOnly {
			continue
		}
		if f.repr {
			p.repr = append(p.repr, f)
		}
		if f.compare {
			p.compare = append(p.compare, f)
		}
		if f.InHash() {
			p.hash = append(p.hash, f)
		}
	}
	return p
}

// Process resolves the field table of t and synthesizes its methods
// according to opts. It returns t itself. On error t is left unchanged.
func Process(t *Type, opts Options) (*Type, error) {
	if t == nil {
		return nil, declError(ErrInvalidDeclaration, CodeInvalidDeclaration, "", "", "cannot process a nil type")
	}
	if t.table != nil {
		return nil, declError(ErrInvalidDeclaration, CodeInvalidDeclaration, t.name, "",
			"type %s is already a record type", t.name)
	}

	res, err := resolve(t)
	if err != nil {
		return nil, err
	}

	if opts.Order {
		opts.Eq = true
	}
	frozen := opts.Frozen
	for _, b := range t.mro[1:] {
		if b.frozen {
			frozen = true
		}
	}

	p := newPlan(t, res.table, frozen)
	methods, err := synthesize(t, p, opts)
	if err != nil {
		return nil, err
	}

	t.table = res.table
	t.attrs = res.attrs
	for name, fn := range methods {
		t.methods[name] = fn
	}
	t.frozen = frozen
	t.options = opts
	for _, b := range res.bound {
		b.desc.owner = t.name
		b.desc.name = b.name
	}
	if t.doc == "" {
		t.doc = t.name + t.Signature()
	}

	logPlan(p, methods)
	return t, nil
}

// synthesize builds the methods selected by opts without touching t
func synthesize(t *Type, p *plan, opts Options) (map[MethodName]any, error) {
	methods := make(map[MethodName]any)
	var errs []error
	install := func(name MethodName, fn any) {
		if t.HasOwnMethod(name) {
			errs = append(errs, declError(ErrAttributeConflict, CodeAttributeConflict, t.name, "",
				"cannot overwrite method %s in type %s", name, t.name))
			return
		}
		methods[name] = fn
	}

	if opts.Init {
		install(MethodInit, synthesizeInit(p))
	}
	if opts.Repr {
		install(MethodRepr, synthesizeRepr(p.repr))
	}
	if p.frozen {
		install(MethodSetAttr, SetAttrFunc(frozenSetAttr))
		install(MethodDelAttr, DelAttrFunc(frozenDelAttr))
	}

	switch opts.Hash {
	case HashAlways:
		install(MethodHash, synthesizeHash(p.hash))
	case HashDerive:
		if opts.Eq {
			if p.frozen {
				install(MethodHash, synthesizeHash(p.hash))
			} else {
				install(MethodHash, Unhashable)
			}
		}
	}

	if opts.Eq {
		install(MethodEq, synthesizeCompare(p.compare, MethodEq))
		install(MethodNe, synthesizeCompare(p.compare, MethodNe))
	}
	if opts.Order {
		for _, op := range []MethodName{MethodLt, MethodLe, MethodGt, MethodGe} {
			install(op, synthesizeCompare(p.compare, op))
		}
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return methods, nil
}

type planSummary struct {
	Type    string
	Frozen  bool
	Methods []string
	Params  []string
	Repr    []string
	Compare []string
	Hash    []string
}

func logPlan(p *plan, methods map[MethodName]any) {
	if !debugEnabled() {
		return
	}
	installed := make([]string, 0, len(methods))
	for name := range methods {
		installed = append(installed, string(name))
	}
	sort.Strings(installed)

	summary := planSummary{
		Type:    p.typeName,
		Frozen:  p.frozen,
		Methods: installed,
		Params:  names(p.params),
		Repr:    names(p.repr),
		Compare: names(p.compare),
		Hash:    names(p.hash),
	}
	Logger().Debug("synthesized record methods",
		zap.String("type", p.typeName),
		zap.Strings("methods", installed),
		zap.String("plan", spew.Sdump(summary)))
}
