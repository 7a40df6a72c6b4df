package record

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatValue(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{"nil", nil, "nil"},
		{"int", 42, "42"},
		{"string", "hi", `"hi"`},
		{"escaped string", "a\"b", `"a\"b"`},
		{"float", 1.5, "1.5"},
		{"bool", true, "true"},
		{"slice", []int{1, 2}, "[1 2]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatValue(tt.in))
		})
	}
}

func TestHashTuple(t *testing.T) {
	t.Run("deterministic", func(t *testing.T) {
		a, err := HashTuple(1, "a", 2.5, true, nil)
		require.NoError(t, err)
		b, err := HashTuple(1, "a", 2.5, true, nil)
		require.NoError(t, err)
		assert.Equal(t, a, b)
	})

	t.Run("order matters", func(t *testing.T) {
		a, _ := HashTuple(1, 2)
		b, _ := HashTuple(2, 1)
		assert.NotEqual(t, a, b)
	})

	t.Run("tuple boundaries matter", func(t *testing.T) {
		a, _ := HashTuple("ab", "c")
		b, _ := HashTuple("a", "bc")
		assert.NotEqual(t, a, b)
	})

	t.Run("negative zero", func(t *testing.T) {
		a, _ := HashTuple(0.0)
		b, _ := HashTuple(math.Copysign(0, -1))
		assert.Equal(t, a, b)
	})

	t.Run("types are distinguished", func(t *testing.T) {
		a, _ := HashTuple(1)
		b, _ := HashTuple(int64(1))
		assert.NotEqual(t, a, b)
	})

	t.Run("time instants", func(t *testing.T) {
		now := time.Now()
		a, _ := HashTuple(now)
		b, _ := HashTuple(now.In(time.UTC))
		assert.Equal(t, a, b)
		assert.True(t, valuesEqual(now, now.In(time.UTC)))
	})

	t.Run("arrays and comparable structs", func(t *testing.T) {
		type pt struct{ X, Y int }
		a, err := HashTuple([2]int{1, 2}, pt{1, 2})
		require.NoError(t, err)
		b, err := HashTuple([2]int{1, 2}, pt{1, 2})
		require.NoError(t, err)
		assert.Equal(t, a, b)
	})

	t.Run("struct fields hash like equality", func(t *testing.T) {
		type vec struct{ X, Y float64 }
		negZero := math.Copysign(0, -1)
		require.True(t, valuesEqual(vec{0, 1}, vec{negZero, 1}))
		a, err := HashTuple(vec{0, 1})
		require.NoError(t, err)
		b, err := HashTuple(vec{negZero, 1})
		require.NoError(t, err)
		assert.Equal(t, a, b)

		c, _ := HashTuple(vec{1, 0})
		assert.NotEqual(t, a, c)
	})

	t.Run("unexported and blank struct fields", func(t *testing.T) {
		type sealed struct {
			label string
			when  time.Time
			_     int
		}
		now := time.Now()
		x := sealed{label: "a", when: now}
		y := sealed{label: "a", when: now}
		assert.True(t, valuesEqual(x, y))
		a, err := HashTuple(x)
		require.NoError(t, err)
		b, err := HashTuple(y)
		require.NoError(t, err)
		assert.Equal(t, a, b)

		assert.False(t, valuesEqual(x, sealed{label: "b", when: now}))
	})

	t.Run("unhashable values", func(t *testing.T) {
		_, err := HashTuple([]int{1})
		assert.ErrorIs(t, err, ErrUnhashable)
		_, err = HashTuple(map[string]int{})
		assert.ErrorIs(t, err, ErrUnhashable)
		_, err = HashTuple(func() {})
		assert.ErrorIs(t, err, ErrUnhashable)
	})
}

func TestValueOrdering(t *testing.T) {
	tests := []struct {
		name string
		a, b any
		want int
	}{
		{"ints", 1, 2, -1},
		{"uints", uint8(3), uint8(2), 1},
		{"floats", 1.5, 1.5, 0},
		{"strings", "b", "a", 1},
		{"bools", false, true, -1},
		{"slices", []int{1, 2}, []int{1, 3}, -1},
		{"shorter slice first", []int{1}, []int{1, 0}, -1},
		{"times", time.Unix(1, 0), time.Unix(2, 0), -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := orderValues(tt.a, tt.b)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("mixed types", func(t *testing.T) {
		_, err := orderValues(1, int64(1))
		assert.ErrorIs(t, err, ErrNotOrderable)
		_, err = orderValues(map[string]int{}, map[string]int{})
		assert.ErrorIs(t, err, ErrNotOrderable)
	})

	t.Run("tuples", func(t *testing.T) {
		c, err := compareTuples([]any{1, "b"}, []any{1, "a"})
		require.NoError(t, err)
		assert.Equal(t, 1, c)

		c, err = compareTuples([]any{1}, []any{1, 2})
		require.NoError(t, err)
		assert.Equal(t, -1, c)
	})

	t.Run("unordered pairs do not decide", func(t *testing.T) {
		c, err := compareTuples([]any{math.NaN(), 1}, []any{math.NaN(), 2})
		require.NoError(t, err)
		assert.Equal(t, -1, c)
	})
}

func TestValuesEqual(t *testing.T) {
	assert.True(t, valuesEqual([]int{1, 2}, []int{1, 2}))
	assert.False(t, valuesEqual([]int{1, 2}, []int{2, 1}))
	assert.True(t, valuesEqual(map[string]int{"a": 1}, map[string]int{"a": 1}))
	assert.False(t, valuesEqual(map[string]int{"a": 1}, map[string]int{"b": 1}))
	assert.False(t, valuesEqual(1, int64(1)))
	assert.False(t, valuesEqual(math.NaN(), math.NaN()))
	assert.True(t, valuesEqual(nil, nil))
	assert.False(t, valuesEqual(nil, 0))
	assert.True(t, valuesEqual([]any{1, nil}, []any{1, nil}))
	assert.False(t, valuesEqual([]any{1, nil}, []any{1, 0}))
}

func TestEqualInstancesHashEqual(t *testing.T) {
	type vec struct{ X float64 }
	holder := mustRecord(t, Declare("Holder").Field("v", TypeOf[vec]()), frozenOptions())

	a, err := holder.New(vec{0})
	require.NoError(t, err)
	b, err := holder.New(vec{math.Copysign(0, -1)})
	require.NoError(t, err)
	require.True(t, a.Equal(b))

	ha, err := a.Hash()
	require.NoError(t, err)
	hb, err := b.Hash()
	require.NoError(t, err)
	assert.Equal(t, ha, hb)
}
