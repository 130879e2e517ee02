package world

import (
	"fmt"

	"github.com/annel0/openworld/internal/biome"
	"github.com/annel0/openworld/internal/flags"
	"github.com/annel0/openworld/internal/vec"
)

// Transition представляет односторонний портал между регионами/биомами.
// Двусторонняя связь моделируется двумя независимыми записями.
type Transition struct {
	ID               string
	FromBiome        string
	FromRegion       string
	ToBiome          string
	ToRegion         string
	Trigger          vec.Rect // Зона срабатывания в мировых координатах
	SpawnOffset      vec.Vec2 // Смещение точки появления от origin целевого региона
	RequiredFlag     string   // Пустая строка - переход всегда открыт
	RecommendedLevel int      // Рекомендательный, ядром не проверяется
}

// TransitionGraph хранит направленный граф переходов с гейтами-флагами.
// Порядок исходящих рёбер фиксирован порядком объявления, поэтому
// результаты поиска пути детерминированы для одинаковой конфигурации флагов.
type TransitionGraph struct {
	transitions []*Transition
	byBiome     map[string][]*Transition
	flags       flags.Store
}

// NewTransitionGraph строит граф переходов из статической раскладки
func NewTransitionGraph(layout *biome.Layout, registry *RegionRegistry, flagStore flags.Store) (*TransitionGraph, error) {
	g := &TransitionGraph{
		byBiome: make(map[string][]*Transition),
		flags:   flagStore,
	}

	for _, spec := range layout.Transitions {
		src, ok := registry.Get(spec.FromRegion)
		if !ok {
			return nil, fmt.Errorf("переход %q: неизвестный исходный регион %q", spec.ID, spec.FromRegion)
		}

		t := &Transition{
			ID:         spec.ID,
			FromBiome:  spec.FromBiome,
			FromRegion: spec.FromRegion,
			ToBiome:    spec.ToBiome,
			ToRegion:   spec.ToRegion,
			Trigger: vec.Rect{
				Origin: src.Bounds.Origin.Add(spec.TriggerOffset),
				Size:   spec.TriggerSize,
			},
			SpawnOffset:      spec.SpawnOffset,
			RequiredFlag:     spec.RequiredFlag,
			RecommendedLevel: spec.RecommendedLevel,
		}

		g.transitions = append(g.transitions, t)
		g.byBiome[t.FromBiome] = append(g.byBiome[t.FromBiome], t)
	}

	return g, nil
}

// All возвращает переходы в порядке объявления
func (g *TransitionGraph) All() []*Transition {
	return g.transitions
}

// IsUnlocked сообщает, открыт ли переход: флаг не требуется
// или стор флагов подтверждает его наличие
func (g *TransitionGraph) IsUnlocked(t *Transition) bool {
	if t.RequiredFlag == "" {
		return true
	}
	return g.flags.Has(t.RequiredFlag)
}

// TransitionAt возвращает первый переход, чья зона содержит точку
func (g *TransitionGraph) TransitionAt(p vec.Vec2) (*Transition, bool) {
	for _, t := range g.transitions {
		if t.Trigger.Contains(p) {
			return t, true
		}
	}
	return nil, false
}

// CollidingTransitions возвращает переходы, чьи зоны пересекают прямоугольник
func (g *TransitionGraph) CollidingTransitions(r vec.Rect) []*Transition {
	var out []*Transition
	for _, t := range g.transitions {
		if t.Trigger.Intersects(r) {
			out = append(out, t)
		}
	}
	return out
}

// AvailableTransitions возвращает открытые переходы из указанного биома
func (g *TransitionGraph) AvailableTransitions(fromBiome string) []*Transition {
	var out []*Transition
	for _, t := range g.byBiome[fromBiome] {
		if g.IsUnlocked(t) {
			out = append(out, t)
		}
	}
	return out
}

// TravelPath ищет кратчайший по числу рёбер путь между биомами
// поиском в ширину только по открытым переходам.
// Возвращает последовательность биомов от from до to включительно
// и false, если цель недостижима при текущих флагах.
func (g *TransitionGraph) TravelPath(from, to string) ([]string, bool) {
	if from == to {
		return []string{from}, true
	}

	prev := map[string]string{from: ""}
	queue := []string{from}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		// Рёбра обходим в порядке объявления - путь детерминирован
		for _, t := range g.byBiome[cur] {
			if !g.IsUnlocked(t) {
				continue
			}
			if _, visited := prev[t.ToBiome]; visited {
				continue
			}
			prev[t.ToBiome] = cur

			if t.ToBiome == to {
				return buildPath(prev, from, to), true
			}
			queue = append(queue, t.ToBiome)
		}
	}

	return nil, false
}

// buildPath восстанавливает путь по карте предшественников
func buildPath(prev map[string]string, from, to string) []string {
	var rev []string
	for cur := to; cur != ""; cur = prev[cur] {
		rev = append(rev, cur)
		if cur == from {
			break
		}
	}

	path := make([]string, 0, len(rev))
	for i := len(rev) - 1; i >= 0; i-- {
		path = append(path, rev[i])
	}
	return path
}
