package world

import (
	"fmt"

	"github.com/annel0/openworld/internal/config"
	"github.com/annel0/openworld/internal/logging"
	"github.com/annel0/openworld/internal/vec"
)

// StreamingController назначает регионам уровни симуляции по расстоянию
// от якоря до центра региона и выполняет загрузку/выгрузку ресурсов.
//
// Гистерезис: регион загружается, как только его уровень покидает Unloaded,
// а выгружается только при расстоянии больше UnloadRadius, который строго
// больше LoadRadius. Это исключает дёргание загрузки/выгрузки при колебании
// якоря у границы уровня.
type StreamingController struct {
	cfg      config.StreamingConfig
	registry *RegionRegistry
	notifier *Notifier
	tiers    map[string]SimulationTier
}

// NewStreamingController проверяет радиусы и создаёт контроллер
func NewStreamingController(cfg config.StreamingConfig, registry *RegionRegistry, notifier *Notifier) (*StreamingController, error) {
	if !(cfg.ActiveRadius < cfg.AdjacentRadius &&
		cfg.AdjacentRadius < cfg.LoadRadius &&
		cfg.LoadRadius < cfg.UnloadRadius) {
		return nil, fmt.Errorf("радиусы должны строго возрастать: active=%v adjacent=%v load=%v unload=%v",
			cfg.ActiveRadius, cfg.AdjacentRadius, cfg.LoadRadius, cfg.UnloadRadius)
	}

	sc := &StreamingController{
		cfg:      cfg,
		registry: registry,
		notifier: notifier,
		tiers:    make(map[string]SimulationTier, len(registry.All())),
	}
	for _, r := range registry.All() {
		sc.tiers[r.ID] = TierUnloaded
	}
	return sc, nil
}

// tierFor возвращает уровень симуляции для расстояния до центра региона
func (sc *StreamingController) tierFor(d float64) SimulationTier {
	switch {
	case d < sc.cfg.ActiveRadius:
		return TierActive
	case d < sc.cfg.AdjacentRadius:
		return TierAdjacent
	case d < sc.cfg.LoadRadius:
		return TierDistant
	default:
		return TierUnloaded
	}
}

// Update пересчитывает уровни всех регионов для позиции якоря.
// Повторный вызов с той же позицией не производит побочных эффектов.
func (sc *StreamingController) Update(anchor vec.Vec2) {
	for _, r := range sc.registry.All() {
		d := anchor.DistanceTo(r.Bounds.Center())
		tier := sc.tierFor(d)
		sc.tiers[r.ID] = tier

		switch {
		case tier != TierUnloaded && !r.Loaded():
			sc.load(r, tier)
		case r.Loaded() && d > sc.cfg.UnloadRadius:
			sc.unload(r)
		}
	}
}

// ForceActive загружает регион и принудительно назначает уровень Active.
// Используется переходами и телепортом: целевой регион должен быть готов
// до того, как в него попадёт якорь.
func (sc *StreamingController) ForceActive(r *Region) {
	if !r.Loaded() {
		sc.load(r, TierActive)
	}
	sc.tiers[r.ID] = TierActive
}

// Tier возвращает текущий уровень симуляции региона
func (sc *StreamingController) Tier(regionID string) SimulationTier {
	if t, ok := sc.tiers[regionID]; ok {
		return t
	}
	return TierUnloaded
}

// Tiers возвращает копию карты уровней
func (sc *StreamingController) Tiers() map[string]SimulationTier {
	out := make(map[string]SimulationTier, len(sc.tiers))
	for id, t := range sc.tiers {
		out[id] = t
	}
	return out
}

// load выполняет загрузку ресурса региона с событием и метриками
func (sc *StreamingController) load(r *Region, tier SimulationTier) {
	sc.registry.Load(r)
	getMetrics().regionLoads.Inc()
	getMetrics().loadedRegions.Inc()
	logging.Debug("Регион %s загружен (биом %s, уровень %s)", r.ID, r.Biome, tier)
	sc.notifier.Emit(RegionEvent{
		EventType: EventTypeRegionLoaded,
		RegionID:  r.ID,
		Biome:     r.Biome,
		Tier:      tier,
	})
}

// unload выполняет выгрузку ресурса региона с событием и метриками
func (sc *StreamingController) unload(r *Region) {
	sc.registry.Unload(r)
	getMetrics().regionUnloads.Inc()
	getMetrics().loadedRegions.Dec()
	logging.Debug("Регион %s выгружен", r.ID)
	sc.notifier.Emit(RegionEvent{
		EventType: EventTypeRegionUnloaded,
		RegionID:  r.ID,
		Biome:     r.Biome,
		Tier:      TierUnloaded,
	})
}
