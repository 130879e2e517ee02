package world

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/annel0/openworld/internal/biome"
	"github.com/annel0/openworld/internal/config"
	"github.com/annel0/openworld/internal/vec"
)

// EncounterTrigger представляет точку спавна существ внутри региона.
// Триггеры создаются один раз при построении региона и никогда не удаляются:
// зачистка только взводит флаг Cleared.
type EncounterTrigger struct {
	ID       string   // Уникальный в пределах мира: <region>/enc/<n>
	RegionID string   // Регион-владелец
	Position vec.Vec2 // Мировая позиция
	Pool     []string // Пул существ для спавна
	Cleared  bool     // Триггер зачищен и неактивен
}

// EncounterSeeder размещает триггеры энкаунтеров при построении региона.
// Количество = round(baseCount * encounter_rate биома), позиции равномерно
// случайные внутри региона с отступом от краёв.
type EncounterSeeder struct {
	cfg config.EncounterConfig
	rng *rand.Rand
}

// NewEncounterSeeder создаёт сидер с инжектированным источником случайности
func NewEncounterSeeder(cfg config.EncounterConfig, rng *rand.Rand) *EncounterSeeder {
	return &EncounterSeeder{cfg: cfg, rng: rng}
}

// Seed создаёт триггеры для региона по описанию его биома
func (s *EncounterSeeder) Seed(regionID string, bounds vec.Rect, def biome.Def) []*EncounterTrigger {
	count := int(math.Round(float64(s.cfg.BaseCount) * def.EncounterRate))
	if count <= 0 {
		return nil
	}

	interior := bounds.Inset(s.cfg.EdgeMargin)
	triggers := make([]*EncounterTrigger, 0, count)

	for i := 0; i < count; i++ {
		pos := vec.Vec2{
			X: interior.Origin.X + s.rng.Float64()*interior.Size.X,
			Y: interior.Origin.Y + s.rng.Float64()*interior.Size.Y,
		}

		pool := make([]string, 0, len(def.Native)+len(def.Rare))
		pool = append(pool, def.Native...)
		if len(def.Rare) > 0 && s.rng.Float64() < s.cfg.RareProbability {
			pool = append(pool, def.Rare...)
		}

		triggers = append(triggers, &EncounterTrigger{
			ID:       fmt.Sprintf("%s/enc/%d", regionID, i),
			RegionID: regionID,
			Position: pos,
			Pool:     pool,
		})
	}

	return triggers
}
