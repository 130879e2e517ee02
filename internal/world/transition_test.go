package world

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/annel0/openworld/internal/vec"
)

func TestTransitionGraphTriggersInWorldSpace(t *testing.T) {
	w := newTestWorld(t)
	g := w.Transitions()

	require.Len(t, g.All(), 5)

	// east_to_start: origin east_r (1000,0) + смещение (0,400)
	var et *Transition
	for _, tr := range g.All() {
		if tr.ID == "east_to_start" {
			et = tr
		}
	}
	require.NotNil(t, et)
	assert.Equal(t, vec.Vec2{X: 1000, Y: 400}, et.Trigger.Origin,
		"зона триггера пересчитана в мировые координаты")
}

func TestTransitionAt(t *testing.T) {
	w := newTestWorld(t)
	g := w.Transitions()

	tr, ok := g.TransitionAt(vec.Vec2{X: 980, Y: 500})
	require.True(t, ok)
	assert.Equal(t, "start_to_east", tr.ID)

	_, ok = g.TransitionAt(vec.Vec2{X: 500, Y: 500})
	assert.False(t, ok, "точка вне всех зон")

	// Граница зоны полуоткрытая: правый край не входит
	_, ok = g.TransitionAt(vec.Vec2{X: 1000, Y: 500})
	require.True(t, ok, "x=1000 попадает в зону east_to_start")
	_, ok = g.TransitionAt(vec.Vec2{X: 960, Y: 600})
	assert.False(t, ok, "y=600 уже за зоной")
}

func TestTransitionCollisions(t *testing.T) {
	w := newTestWorld(t)
	g := w.Transitions()

	// Прямоугольник накрывает обе зоны на границе start/east
	hits := g.CollidingTransitions(vec.Rect{
		Origin: vec.Vec2{X: 950, Y: 450},
		Size:   vec.Vec2{X: 100, Y: 100},
	})
	require.Len(t, hits, 2)
	assert.Equal(t, "start_to_east", hits[0].ID, "порядок объявления сохраняется")
	assert.Equal(t, "east_to_start", hits[1].ID)

	assert.Empty(t, g.CollidingTransitions(vec.Rect{
		Origin: vec.Vec2{X: 5000, Y: 5000},
		Size:   vec.Vec2{X: 10, Y: 10},
	}))
}

func TestAvailableTransitionsRespectFlags(t *testing.T) {
	w := newTestWorld(t)
	g := w.Transitions()

	avail := g.AvailableTransitions("east")
	require.Len(t, avail, 1, "гейт vault_key скрывает east_to_vault")
	assert.Equal(t, "east_to_start", avail[0].ID)

	require.NoError(t, w.Unlock("vault_key"))

	avail = g.AvailableTransitions("east")
	require.Len(t, avail, 2)
	assert.Equal(t, "east_to_vault", avail[1].ID)
}

func TestTravelPathTrivial(t *testing.T) {
	w := newTestWorld(t)

	path, ok := w.TravelPath("start", "start")
	require.True(t, ok)
	assert.Equal(t, []string{"start"}, path, "путь в себя состоит из одного биома")
}

func TestTravelPathRespectsGates(t *testing.T) {
	w := newTestWorld(t)

	path, ok := w.TravelPath("start", "east")
	require.True(t, ok)
	assert.Equal(t, []string{"start", "east"}, path)

	_, ok = w.TravelPath("start", "vault")
	assert.False(t, ok, "оба входа в vault закрыты")

	_, ok = w.TravelPath("vault", "start")
	assert.False(t, ok, "из vault нет исходящих переходов")
}

func TestTravelPathDeterministic(t *testing.T) {
	w := newTestWorld(t)
	require.NoError(t, w.Unlock("vault_key"))

	// После флага в vault ведут два маршрута одинаковой длины;
	// BFS в порядке объявления рёбер стабильно выбирает восточный.
	first, ok := w.TravelPath("start", "vault")
	require.True(t, ok)
	assert.Equal(t, []string{"start", "east", "vault"}, first)

	for i := 0; i < 5; i++ {
		path, ok := w.TravelPath("start", "vault")
		require.True(t, ok)
		assert.Equal(t, first, path, "повторные запросы возвращают тот же путь")
	}
}

func TestTravelPathUnknownBiome(t *testing.T) {
	w := newTestWorld(t)

	_, ok := w.TravelPath("start", "no_such_biome")
	assert.False(t, ok)

	_, ok = w.TravelPath("no_such_biome", "start")
	assert.False(t, ok)
}

func TestIsUnlockedEmptyFlag(t *testing.T) {
	w := newTestWorld(t)
	g := w.Transitions()

	for _, tr := range g.All() {
		if tr.RequiredFlag == "" {
			assert.True(t, g.IsUnlocked(tr), "переход без флага всегда открыт")
		} else {
			assert.False(t, g.IsUnlocked(tr))
		}
	}
}
