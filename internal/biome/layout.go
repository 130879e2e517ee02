package biome

import (
	"fmt"
	"os"

	"github.com/annel0/openworld/internal/vec"
	"gopkg.in/yaml.v3"
)

// RegionSpec описывает регион мира в статической раскладке.
// Размер региона берётся из chunk_width/chunk_height его биома.
type RegionSpec struct {
	ID     string   `yaml:"id"`
	Biome  string   `yaml:"biome"`
	Origin vec.Vec2 `yaml:"origin"`
}

// TransitionSpec описывает односторонний портал между регионами.
// Двусторонняя связь задаётся двумя записями.
type TransitionSpec struct {
	ID               string   `yaml:"id"`
	FromBiome        string   `yaml:"from_biome"`
	FromRegion       string   `yaml:"from_region"`
	ToBiome          string   `yaml:"to_biome"`
	ToRegion         string   `yaml:"to_region"`
	TriggerOffset    vec.Vec2 `yaml:"trigger_offset"` // в координатах исходного региона
	TriggerSize      vec.Vec2 `yaml:"trigger_size"`
	SpawnOffset      vec.Vec2 `yaml:"spawn_offset"` // от origin целевого региона
	RequiredFlag     string   `yaml:"required_flag"`
	RecommendedLevel int      `yaml:"recommended_level"`
}

// Layout объединяет таблицу биомов и статическую раскладку мира.
// Документ загружается один раз и далее неизменяем.
type Layout struct {
	Table       *Table
	Regions     []RegionSpec
	Transitions []TransitionSpec
}

type layoutDoc struct {
	Start       string           `yaml:"start_biome"`
	Biomes      []Def            `yaml:"biomes"`
	Regions     []RegionSpec     `yaml:"regions"`
	Transitions []TransitionSpec `yaml:"transitions"`
}

// LoadLayout читает YAML документ с таблицей биомов и раскладкой мира
func LoadLayout(path string) (*Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("чтение таблицы биомов: %w", err)
	}
	return ParseLayout(data)
}

// ParseLayout разбирает YAML документ раскладки мира
func ParseLayout(data []byte) (*Layout, error) {
	var doc layoutDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("разбор таблицы биомов: %w", err)
	}

	table, err := NewTable(doc.Biomes, doc.Start)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(doc.Regions))
	for _, r := range doc.Regions {
		if r.ID == "" {
			return nil, fmt.Errorf("регион без id")
		}
		if _, dup := seen[r.ID]; dup {
			return nil, fmt.Errorf("дубликат региона %q", r.ID)
		}
		seen[r.ID] = struct{}{}
		if _, ok := table.Get(r.Biome); !ok {
			return nil, fmt.Errorf("регион %q ссылается на неизвестный биом %q", r.ID, r.Biome)
		}
	}

	for _, tr := range doc.Transitions {
		if tr.ID == "" {
			return nil, fmt.Errorf("переход без id")
		}
		if _, ok := table.Get(tr.FromBiome); !ok {
			return nil, fmt.Errorf("переход %q: неизвестный исходный биом %q", tr.ID, tr.FromBiome)
		}
		// Целевой биом не валидируем жёстко: неизвестный ключ разрешается
		// в стартовый биом на этапе использования.
	}

	return &Layout{
		Table:       table,
		Regions:     doc.Regions,
		Transitions: doc.Transitions,
	}, nil
}
