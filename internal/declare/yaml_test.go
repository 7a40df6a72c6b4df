package declare

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conduit-lang/records/pkg/record"
)

const shapes = `
records:
  - name: Point
    options:
      frozen: true
    fields:
      - name: x
        type: int
      - name: y
        type: int
        default: 0
  - name: Point3
    bases: [Point]
    fields:
      - name: z
        type: int
        default: 0
  - name: Tagged
    doc: A point with labels
    slots: true
    fields:
      - name: id
        type: string
        factory: uuid
      - name: labels
        type: "[]string"
        factory: list
        compare: false
      - name: registry
        type: string
        class_var: true
        default: shapes
      - name: scale
        type: int
        init_var: true
        default: 1
`

func TestLoad(t *testing.T) {
	loader := NewLoader(nil, record.DefaultOptions())
	types, err := loader.Load(strings.NewReader(shapes))
	require.NoError(t, err)
	require.Len(t, types, 3)
	assert.Equal(t, []string{"Point", "Point3", "Tagged"}, loader.Registry().List())

	t.Run("options and defaults", func(t *testing.T) {
		point := types[0]
		assert.True(t, point.Frozen())
		p, err := point.New(3)
		require.NoError(t, err)
		assert.Equal(t, "Point(x=3, y=0)", p.String())

		h, err := p.Hash()
		require.NoError(t, err)
		want, err := record.HashTuple(3, 0)
		require.NoError(t, err)
		assert.Equal(t, want, h)
	})

	t.Run("bases by name", func(t *testing.T) {
		point3 := types[1]
		assert.Equal(t, []string{"x", "y", "z"}, point3.Table().Names())
		assert.True(t, point3.Frozen())
		assert.Equal(t, "Point3(x int, y int = 0, z int = 0)", point3.Doc())
	})

	t.Run("factories, kinds and layout", func(t *testing.T) {
		tagged := types[2]
		assert.Equal(t, "A point with labels", tagged.Doc())
		assert.Equal(t, []string{"id", "labels"}, tagged.Slots())

		a, err := tagged.New()
		require.NoError(t, err)
		b, err := tagged.New()
		require.NoError(t, err)
		assert.NotEqual(t, mustGet(t, a, "id"), mustGet(t, b, "id"))
		assert.Equal(t, []any{}, mustGet(t, a, "labels"))

		reg, ok := tagged.Attr("registry")
		require.True(t, ok)
		assert.Equal(t, "shapes", reg)

		f, ok := tagged.Table().Get("scale")
		require.True(t, ok)
		assert.Equal(t, record.ConstructionOnly, f.Kind())
	})
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		check   func(t *testing.T, err error)
		declare int
	}{
		{
			name: "unknown base",
			doc: `
records:
  - name: Point
    fields: [{name: x, type: int}]
  - name: Child
    bases: [Pont]
`,
			declare: 1,
			check: func(t *testing.T, err error) {
				var unknown *UnknownNameError
				require.True(t, errors.As(err, &unknown))
				assert.Equal(t, "base", unknown.What)
				assert.Equal(t, "Pont", unknown.Name)
				assert.Equal(t, []string{"Point"}, unknown.Known)
			},
		},
		{
			name: "unknown factory",
			doc: `
records:
  - name: Bag
    fields: [{name: items, type: list, factory: lst}]
`,
			check: func(t *testing.T, err error) {
				var unknown *UnknownNameError
				require.True(t, errors.As(err, &unknown))
				assert.Equal(t, "factory", unknown.What)
				assert.Contains(t, unknown.Known, "list")
			},
		},
		{
			name: "field order",
			doc: `
records:
  - name: Bad
    fields:
      - {name: a, type: int, default: 1}
      - {name: b, type: int}
`,
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, record.ErrFieldOrder)
			},
		},
		{
			name: "mutable default",
			doc: `
records:
  - name: Bad
    fields:
      - {name: tags, type: list, default: [a, b]}
`,
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, record.ErrUnsafeMutableDefault)
			},
		},
		{
			name: "missing type",
			doc: `
records:
  - name: Bad
    fields:
      - {name: a}
`,
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, record.ErrInvalidDeclaration)
			},
		},
		{
			name: "bad hash mode",
			doc: `
records:
  - name: Bad
    options: {hash: sometimes}
`,
			check: func(t *testing.T, err error) {
				assert.ErrorIs(t, err, record.ErrInvalidDeclaration)
			},
		},
		{
			name: "unknown key",
			doc: `
records:
  - name: Bad
    colour: red
`,
			check: func(t *testing.T, err error) {
				assert.Contains(t, err.Error(), "colour")
			},
		},
		{
			name: "class_var and init_var",
			doc: `
records:
  - name: Bad
    fields:
      - {name: a, type: int, class_var: true, init_var: true}
`,
			check: func(t *testing.T, err error) {
				assert.Contains(t, err.Error(), "both class_var and init_var")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loader := NewLoader(record.NewRegistry(), record.DefaultOptions())
			types, err := loader.Load(strings.NewReader(tt.doc))
			require.Error(t, err)
			assert.Len(t, types, tt.declare)
			tt.check(t, err)
		})
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "shapes.yaml")
	require.NoError(t, os.WriteFile(path, []byte(shapes), 0o644))

	loader := NewLoader(nil, record.DefaultOptions())
	types, err := loader.LoadFile(path)
	require.NoError(t, err)
	assert.Len(t, types, 3)

	_, err = loader.LoadFile(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)

	empty := filepath.Join(dir, "empty.yaml")
	require.NoError(t, os.WriteFile(empty, nil, 0o644))
	types, err = NewLoader(nil, record.DefaultOptions()).LoadFile(empty)
	require.NoError(t, err)
	assert.Empty(t, types)
}

func TestOptionsDeclApply(t *testing.T) {
	yes, no := true, false
	opts, err := OptionsDecl{Order: &yes, Repr: &no, Hash: "always"}.Apply(record.DefaultOptions())
	require.NoError(t, err)
	assert.True(t, opts.Order)
	assert.False(t, opts.Repr)
	assert.True(t, opts.Init)
	assert.Equal(t, record.HashAlways, opts.Hash)
}

func TestFactories(t *testing.T) {
	assert.Equal(t, []string{"list", "map", "now", "set", "uuid"}, FactoryNames())

	RegisterFactory("zero", func() any { return 0 })
	fn, ok := LookupFactory("zero")
	require.True(t, ok)
	assert.Equal(t, 0, fn())

	assert.Panics(t, func() { RegisterFactory("zero", func() any { return 1 }) })
	assert.Panics(t, func() { RegisterFactory("nil", nil) })
}

func mustGet(t *testing.T, inst *record.Instance, name string) any {
	t.Helper()
	v, err := inst.Get(name)
	require.NoError(t, err)
	return v
}
