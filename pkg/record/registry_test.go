package record

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestRegistry(t *testing.T) {
	t.Run("register and get type", func(t *testing.T) {
		registry := NewRegistry()
		point := declarePoint(t, DefaultOptions())

		require.NoError(t, registry.Register(point))

		retrieved, exists := registry.Get("Point")
		require.True(t, exists)
		assert.Same(t, point, retrieved)
		assert.True(t, registry.Exists("Point"))
		assert.False(t, registry.Exists("Line"))
	})

	t.Run("duplicate registration", func(t *testing.T) {
		registry := NewRegistry()
		point := declarePoint(t, DefaultOptions())

		require.NoError(t, registry.Register(point))
		err := registry.Register(point)
		assert.Error(t, err)
		assert.Error(t, registry.Register(nil))
	})

	t.Run("list keeps registration order", func(t *testing.T) {
		registry := NewRegistry()
		for _, name := range []string{"User", "Post", "Comment"} {
			typ := mustRecord(t, Declare(name).Field("id", intType()), DefaultOptions())
			require.NoError(t, registry.Register(typ))
		}
		assert.Equal(t, []string{"User", "Post", "Comment"}, registry.List())
		assert.Equal(t, 3, registry.Count())
		assert.Len(t, registry.All(), 3)

		registry.Clear()
		assert.Equal(t, 0, registry.Count())
		assert.Empty(t, registry.List())
	})

	t.Run("fields", func(t *testing.T) {
		registry := NewRegistry()
		require.NoError(t, registry.Register(declarePoint(t, DefaultOptions())))

		table, err := registry.GetFields("Point")
		require.NoError(t, err)
		assert.Equal(t, []string{"x", "y"}, table.Names())

		_, err = registry.GetFields("Missing")
		assert.Error(t, err)
	})

	t.Run("stats", func(t *testing.T) {
		registry := NewRegistry()
		plain, err := Declare("Plain").Class()
		require.NoError(t, err)
		ordered := DefaultOptions()
		ordered.Order = true

		require.NoError(t, registry.Register(plain))
		require.NoError(t, registry.Register(declarePoint(t, DefaultOptions())))
		frozen := mustRecord(t, Declare("Frozen").Field("v", intType()), frozenOptions())
		require.NoError(t, registry.Register(frozen))
		slotted, err := WithSlots(mustRecord(t, Declare("Ordered").Field("v", intType()), ordered))
		require.NoError(t, err)
		require.NoError(t, registry.Register(slotted))

		stats := registry.GetStats()
		assert.Equal(t, 4, stats.TotalTypes)
		assert.Equal(t, 3, stats.TotalRecords)
		assert.Equal(t, 4, stats.TotalFields)
		assert.Equal(t, 1, stats.Frozen)
		assert.Equal(t, 1, stats.Ordered)
		assert.Equal(t, 1, stats.FixedLayout)
		assert.Equal(t, 2, stats.Unhashable)
	})

	t.Run("concurrent access", func(t *testing.T) {
		registry := NewRegistry()
		point := declarePoint(t, DefaultOptions())
		require.NoError(t, registry.Register(point))

		var wg sync.WaitGroup
		for i := 0; i < 8; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				typ, ok := registry.Get("Point")
				if ok {
					_, _ = typ.New(1)
				}
				_ = registry.List()
			}()
		}
		wg.Wait()
	})
}

func TestDebugLogging(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	SetLogger(zap.New(core))
	defer SetLogger(nil)

	base := mustRecord(t, Declare("Base").Field("a", intType()), DefaultOptions())
	mustRecord(t, Declare("Derived").Extends(base).Field("b", intType(), 0), DefaultOptions())

	merged := logs.FilterMessage("merged base fields").All()
	require.Len(t, merged, 1)
	assert.Equal(t, "Base", merged[0].ContextMap()["base"])

	plans := logs.FilterMessage("synthesized record methods").All()
	require.Len(t, plans, 2)
	assert.Equal(t, "Derived", plans[1].ContextMap()["type"])
	assert.Contains(t, plans[1].ContextMap()["plan"], "Params")

	assert.Equal(t, 2, logs.FilterMessage("resolved field").Len())
}
