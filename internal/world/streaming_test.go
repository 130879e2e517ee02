package world

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/annel0/openworld/internal/config"
	"github.com/annel0/openworld/internal/vec"
)

// Центр start_r лежит в (500,500); якорь двигаем вдоль y=500,
// так что расстояние до центра равно |x-500|.
func anchorAt(d float64) vec.Vec2 {
	return vec.Vec2{X: 500 + d, Y: 500}
}

func TestStreamingRadiiValidation(t *testing.T) {
	w := newTestWorld(t)

	bad := config.StreamingConfig{
		ActiveRadius:   800,
		AdjacentRadius: 800, // не строго возрастают
		LoadRadius:     2400,
		UnloadRadius:   3200,
	}
	_, err := NewStreamingController(bad, w.Regions(), NewNotifier())
	assert.Error(t, err, "радиусы должны строго возрастать")

	bad.AdjacentRadius = 1600
	bad.UnloadRadius = 2400 // unload должен быть больше load
	_, err = NewStreamingController(bad, w.Regions(), NewNotifier())
	assert.Error(t, err)
}

func TestStreamingTierProgression(t *testing.T) {
	w := newTestWorld(t)
	events := collectEvents(w)

	// Радиусы по умолчанию: 800 / 1600 / 2400 / 3200
	steps := []struct {
		d    float64
		tier SimulationTier
	}{
		{5000, TierUnloaded},
		{2300, TierDistant},
		{1200, TierAdjacent},
		{100, TierActive},
	}

	for _, step := range steps {
		w.Update(anchorAt(step.d), 0.05)
		assert.Equal(t, step.tier, w.Streaming().Tier("start_r"),
			"на расстоянии %v ожидался уровень %v", step.d, step.tier)
	}

	loads := regionEvents(*events, EventTypeRegionLoaded, "start_r")
	assert.Len(t, loads, 1, "приближение даёт ровно одну загрузку")
	assert.Empty(t, regionEvents(*events, EventTypeRegionUnloaded, "start_r"))

	r, _ := w.Regions().Get("start_r")
	assert.True(t, r.Loaded())
}

func TestStreamingHysteresis(t *testing.T) {
	w := newTestWorld(t)

	// Загружаем регион, затем отходим в зазор между LoadRadius и UnloadRadius
	w.Update(anchorAt(100), 0.05)
	r, _ := w.Regions().Get("start_r")
	require.True(t, r.Loaded())

	w.Update(anchorAt(2800), 0.05)
	assert.Equal(t, TierUnloaded, w.Streaming().Tier("start_r"),
		"за LoadRadius уровень уже Unloaded")
	assert.True(t, r.Loaded(), "но ресурс держится до UnloadRadius")

	// Возврат внутрь LoadRadius не перезагружает регион
	events := collectEvents(w)
	w.Update(anchorAt(2300), 0.05)
	assert.True(t, r.Loaded())
	assert.Empty(t, regionEvents(*events, EventTypeRegionLoaded, "start_r"),
		"колебание якоря у границы не дёргает загрузку")
}

func TestStreamingUnloadOnce(t *testing.T) {
	w := newTestWorld(t)

	w.Update(anchorAt(100), 0.05)
	events := collectEvents(w)

	// Уходим за UnloadRadius и топчемся там
	w.Update(anchorAt(3500), 0.05)
	w.Update(anchorAt(3600), 0.05)
	w.Update(anchorAt(3500), 0.05)

	unloads := regionEvents(*events, EventTypeRegionUnloaded, "start_r")
	assert.Len(t, unloads, 1, "выгрузка происходит ровно один раз")

	r, _ := w.Regions().Get("start_r")
	assert.False(t, r.Loaded())
}

func TestStreamingReloadAfterUnload(t *testing.T) {
	w := newTestWorld(t)

	w.Update(anchorAt(100), 0.05)
	w.Update(anchorAt(3500), 0.05)

	r, _ := w.Regions().Get("start_r")
	require.False(t, r.Loaded())
	before := len(r.Triggers())

	// Повторное приближение загружает заново, триггеры не пересоздаются
	events := collectEvents(w)
	w.Update(anchorAt(100), 0.05)
	assert.True(t, r.Loaded())
	assert.Len(t, regionEvents(*events, EventTypeRegionLoaded, "start_r"), 1)
	assert.Equal(t, before, len(r.Triggers()), "триггеры переживают цикл выгрузки")
}

func TestStreamingForceActive(t *testing.T) {
	w := newTestWorld(t)

	r, ok := w.Regions().Get("vault_r")
	require.True(t, ok)
	require.False(t, r.Loaded())

	w.Streaming().ForceActive(r)
	assert.True(t, r.Loaded())
	assert.Equal(t, TierActive, w.Streaming().Tier("vault_r"))

	// Повторный вызов идемпотентен
	w.Streaming().ForceActive(r)
	assert.True(t, r.Loaded())
}

func TestStreamingTiersSnapshot(t *testing.T) {
	w := newTestWorld(t)
	w.Update(anchorAt(100), 0.05)

	tiers := w.Streaming().Tiers()
	assert.Equal(t, TierActive, tiers["start_r"])

	// Мутация копии не трогает контроллер
	tiers["start_r"] = TierUnloaded
	assert.Equal(t, TierActive, w.Streaming().Tier("start_r"))

	assert.Equal(t, TierUnloaded, w.Streaming().Tier("no_such_region"),
		"неизвестный регион считается выгруженным")
}
