package world

import (
	"fmt"

	"github.com/annel0/openworld/internal/biome"
	"github.com/annel0/openworld/internal/logging"
	"github.com/annel0/openworld/internal/vec"
)

// SimulationTier определяет уровень симуляции региона по удалению от якоря
type SimulationTier int

const (
	TierActive   SimulationTier = iota // Полная симуляция
	TierAdjacent                       // Соседний регион, упрощённая симуляция
	TierDistant                        // Загружен, но не симулируется
	TierUnloaded                       // Ресурсы могут быть выгружены
)

// String возвращает строковое имя уровня симуляции
func (t SimulationTier) String() string {
	switch t {
	case TierActive:
		return "active"
	case TierAdjacent:
		return "adjacent"
	case TierDistant:
		return "distant"
	default:
		return "unloaded"
	}
}

// Region представляет регион мира ("чанк"): прямоугольный кусок мира,
// принадлежащий ровно одному биому, с независимо загружаемой картой.
// Регионы строятся один раз при инициализации мира и не разрушаются.
type Region struct {
	ID       string
	Biome    string
	Bounds   vec.Rect
	triggers []*EncounterTrigger
	mapRes   *MapResource
	loaded   bool
}

// Loaded сообщает, загружен ли ресурс карты региона
func (r *Region) Loaded() bool {
	return r.loaded
}

// Triggers возвращает триггеры энкаунтеров региона
func (r *Region) Triggers() []*EncounterTrigger {
	return r.triggers
}

// RegionRegistry владеет всеми регионами мира.
// Поиск по точке — линейный просмотр в порядке объявления; при
// пересекающихся регионах действует семантика первого совпадения.
type RegionRegistry struct {
	regions []*Region
	byID    map[string]*Region
	byBiome map[string][]*Region
	gen     *MapGenerator
}

// NewRegionRegistry строит регионы из статической раскладки и засеивает
// их триггерами энкаунтеров
func NewRegionRegistry(layout *biome.Layout, gen *MapGenerator, seeder *EncounterSeeder) (*RegionRegistry, error) {
	reg := &RegionRegistry{
		byID:    make(map[string]*Region, len(layout.Regions)),
		byBiome: make(map[string][]*Region),
		gen:     gen,
	}

	for _, spec := range layout.Regions {
		def, ok := layout.Table.Get(spec.Biome)
		if !ok {
			return nil, fmt.Errorf("регион %q: неизвестный биом %q", spec.ID, spec.Biome)
		}

		bounds := vec.Rect{
			Origin: spec.Origin,
			Size:   vec.Vec2{X: def.ChunkWidth, Y: def.ChunkHeight},
		}

		r := &Region{
			ID:     spec.ID,
			Biome:  spec.Biome,
			Bounds: bounds,
		}
		r.triggers = seeder.Seed(r.ID, r.Bounds, def)

		// Пересечение границ — нарушение инварианта раскладки.
		// Не защищаемся, только предупреждаем: поиск по точке
		// вернёт первый регион в порядке объявления.
		for _, other := range reg.regions {
			if r.Bounds.Intersects(other.Bounds) {
				logging.Warn("Регионы %s и %s пересекаются, regionAt вернёт первый по порядку", other.ID, r.ID)
			}
		}

		reg.regions = append(reg.regions, r)
		reg.byID[r.ID] = r
		reg.byBiome[r.Biome] = append(reg.byBiome[r.Biome], r)
	}

	return reg, nil
}

// All возвращает все регионы в порядке объявления
func (reg *RegionRegistry) All() []*Region {
	return reg.regions
}

// Get возвращает регион по идентификатору
func (reg *RegionRegistry) Get(id string) (*Region, bool) {
	r, ok := reg.byID[id]
	return r, ok
}

// RegionAt возвращает первый регион, содержащий точку
func (reg *RegionRegistry) RegionAt(p vec.Vec2) (*Region, bool) {
	for _, r := range reg.regions {
		if r.Bounds.Contains(p) {
			return r, true
		}
	}
	return nil, false
}

// RegionsInBiome возвращает регионы указанного биома
func (reg *RegionRegistry) RegionsInBiome(name string) []*Region {
	return reg.byBiome[name]
}

// WorldBounds возвращает агрегированные границы всех регионов
func (reg *RegionRegistry) WorldBounds() (vec.Rect, bool) {
	if len(reg.regions) == 0 {
		return vec.Rect{}, false
	}

	min := reg.regions[0].Bounds.Origin
	max := reg.regions[0].Bounds.Max()
	for _, r := range reg.regions[1:] {
		o := r.Bounds.Origin
		m := r.Bounds.Max()
		if o.X < min.X {
			min.X = o.X
		}
		if o.Y < min.Y {
			min.Y = o.Y
		}
		if m.X > max.X {
			max.X = m.X
		}
		if m.Y > max.Y {
			max.Y = m.Y
		}
	}

	return vec.Rect{Origin: min, Size: max.Sub(min)}, true
}

// IsBlocked проверяет проходимость мировой точки.
// Точка вне всех регионов считается заблокированной; для незагруженного
// региона ответ тоже "заблокировано" — карта ещё не получена.
func (reg *RegionRegistry) IsBlocked(p vec.Vec2) bool {
	r, ok := reg.RegionAt(p)
	if !ok {
		return true
	}
	if !r.loaded || r.mapRes == nil {
		return true
	}
	return r.mapRes.Blocked(p)
}

// Load синхронно загружает ресурс карты региона. Идемпотентна.
func (reg *RegionRegistry) Load(r *Region) {
	if r.loaded {
		return
	}
	r.mapRes = reg.gen.Generate(r.ID, r.Bounds)
	r.loaded = true
}

// Unload освобождает ресурс карты региона. Идемпотентна.
// Триггеры энкаунтеров не пересоздаются при повторной загрузке.
func (reg *RegionRegistry) Unload(r *Region) {
	if !r.loaded {
		return
	}
	r.mapRes = nil
	r.loaded = false
}

// LoadedRegions возвращает загруженные регионы в порядке объявления
func (reg *RegionRegistry) LoadedRegions() []*Region {
	out := make([]*Region, 0, len(reg.regions))
	for _, r := range reg.regions {
		if r.loaded {
			out = append(out, r)
		}
	}
	return out
}
