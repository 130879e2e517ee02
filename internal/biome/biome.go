package biome

import (
	"fmt"

	"github.com/annel0/openworld/internal/vec"
)

// TimeOfDay определяет время суток для погодных вероятностей и пулов существ
type TimeOfDay int

const (
	Day TimeOfDay = iota
	Night
)

// String возвращает строковое представление времени суток
func (t TimeOfDay) String() string {
	if t == Night {
		return "night"
	}
	return "day"
}

// WeatherKind определяет тип погоды
type WeatherKind string

// WeatherNone означает отсутствие погодного эффекта
const WeatherNone WeatherKind = "none"

// WeatherOption описывает допустимую погоду биома с вероятностями по времени суток
type WeatherOption struct {
	Kind        WeatherKind `yaml:"kind"`
	DayChance   float64     `yaml:"day_chance"`
	NightChance float64     `yaml:"night_chance"`
}

// Chance возвращает вероятность опции для указанного времени суток
func (w WeatherOption) Chance(tod TimeOfDay) float64 {
	if tod == Night {
		return w.NightChance
	}
	return w.DayChance
}

// Def описывает статические параметры биома.
// Таблица биомов неизменяемая и загружается один раз при создании мира.
type Def struct {
	Name          string          `yaml:"name"`
	ChunkWidth    float64         `yaml:"chunk_width"`
	ChunkHeight   float64         `yaml:"chunk_height"`
	Connectivity  []string        `yaml:"connectivity"`
	Native        []string        `yaml:"native_creatures"`
	Rare          []string        `yaml:"rare_creatures"`
	Night         []string        `yaml:"night_creatures"`
	Boss          []string        `yaml:"boss_creatures"`
	Weathers      []WeatherOption `yaml:"weathers"`
	Hazards       []string        `yaml:"hazards"`
	EncounterRate float64         `yaml:"encounter_rate"`
	DefaultSpawn  vec.Vec2        `yaml:"default_spawn"`
}

// SpawnPool возвращает пул существ биома для указанного времени суток
func (d Def) SpawnPool(tod TimeOfDay) []string {
	pool := make([]string, 0, len(d.Native)+len(d.Night))
	pool = append(pool, d.Native...)
	if tod == Night {
		pool = append(pool, d.Night...)
	}
	return pool
}

// Table содержит все описания биомов мира.
// Неизвестные ключи разрешаются в стартовый биом (fallback по спецификации сохранений).
type Table struct {
	start string
	defs  map[string]Def
	order []string
}

// NewTable создаёт таблицу биомов из списка описаний
func NewTable(defs []Def, start string) (*Table, error) {
	if len(defs) == 0 {
		return nil, fmt.Errorf("таблица биомов пуста")
	}

	t := &Table{
		start: start,
		defs:  make(map[string]Def, len(defs)),
		order: make([]string, 0, len(defs)),
	}

	for _, d := range defs {
		if d.Name == "" {
			return nil, fmt.Errorf("биом без имени")
		}
		if _, dup := t.defs[d.Name]; dup {
			return nil, fmt.Errorf("дубликат биома %q", d.Name)
		}
		if d.EncounterRate < 0 {
			return nil, fmt.Errorf("биом %q: отрицательный encounter_rate", d.Name)
		}
		t.defs[d.Name] = d
		t.order = append(t.order, d.Name)
	}

	if t.start == "" {
		t.start = t.order[0]
	}
	if _, ok := t.defs[t.start]; !ok {
		return nil, fmt.Errorf("стартовый биом %q отсутствует в таблице", t.start)
	}

	return t, nil
}

// Get возвращает описание биома по имени
func (t *Table) Get(name string) (Def, bool) {
	d, ok := t.defs[name]
	return d, ok
}

// Resolve возвращает описание биома, подставляя стартовый биом для неизвестных ключей
func (t *Table) Resolve(name string) Def {
	if d, ok := t.defs[name]; ok {
		return d
	}
	return t.defs[t.start]
}

// Start возвращает имя стартового биома
func (t *Table) Start() string {
	return t.start
}

// Names возвращает имена биомов в порядке объявления
func (t *Table) Names() []string {
	names := make([]string, len(t.order))
	copy(names, t.order)
	return names
}
