package world

import (
	"fmt"
	"math/rand"

	"github.com/annel0/openworld/internal/biome"
	"github.com/annel0/openworld/internal/config"
	"github.com/annel0/openworld/internal/flags"
	"github.com/annel0/openworld/internal/logging"
	"github.com/annel0/openworld/internal/vec"
)

// World управляет открытым миром: стримингом регионов, графом переходов
// и погодой текущего биома. Все мутации идут через операции мира;
// потребители читают состояние только после завершения тика.
type World struct {
	cfg      *config.Config
	table    *biome.Table
	registry *RegionRegistry
	stream   *StreamingController
	graph    *TransitionGraph
	weather  *WeatherDirector
	notifier *Notifier
	flags    flags.Store
	rng      *rand.Rand

	anchor           vec.Vec2
	currentRegion    *Region
	currentBiome     string
	activeTransition *Transition
	tick             uint64
}

// TransitionStatus аннотирует переход статусом разблокировки для UI
type TransitionStatus struct {
	Transition *Transition
	Unlocked   bool
}

// NewWorld строит мир из статической раскладки.
// rng - инжектируемый источник случайности; nil означает
// детерминированный генератор от сида конфигурации.
func NewWorld(cfg *config.Config, layout *biome.Layout, flagStore flags.Store, rng *rand.Rand) (*World, error) {
	if rng == nil {
		rng = rand.New(rand.NewSource(cfg.World.Seed))
	}

	notifier := NewNotifier()
	gen := NewMapGenerator(cfg.World.Seed)
	seeder := NewEncounterSeeder(cfg.Encounter, rng)

	registry, err := NewRegionRegistry(layout, gen, seeder)
	if err != nil {
		return nil, fmt.Errorf("построение регионов: %w", err)
	}

	stream, err := NewStreamingController(cfg.Streaming, registry, notifier)
	if err != nil {
		return nil, fmt.Errorf("контроллер стриминга: %w", err)
	}

	graph, err := NewTransitionGraph(layout, registry, flagStore)
	if err != nil {
		return nil, fmt.Errorf("граф переходов: %w", err)
	}

	weather := NewWeatherDirector(cfg.Weather, layout.Table, rng, notifier)

	w := &World{
		cfg:          cfg,
		table:        layout.Table,
		registry:     registry,
		stream:       stream,
		graph:        graph,
		weather:      weather,
		notifier:     notifier,
		flags:        flagStore,
		rng:          rng,
		currentBiome: layout.Table.Start(),
	}

	weather.EnterBiome(w.currentBiome)
	logging.Info("Мир построен: %d регионов, %d переходов, стартовый биом %s",
		len(registry.All()), len(graph.All()), w.currentBiome)

	return w, nil
}

// Subscribe регистрирует подписчика на события мира
func (w *World) Subscribe(l Listener) func() {
	return w.notifier.Subscribe(l)
}

// Update выполняет один тик симуляции для позиции якоря.
// Конвейер фиксированный и полностью синхронный: приём якоря ->
// пересчёт уровней -> загрузка/выгрузка -> погода -> проверка переходов.
func (w *World) Update(anchor vec.Vec2, dt float64) {
	w.tick++
	w.anchor = anchor

	w.stream.Update(anchor)

	// Позиция якоря синхронизирует текущий регион: пересечение
	// открытой границы тоже считается сменой биома.
	if r, ok := w.registry.RegionAt(anchor); ok && r != w.currentRegion {
		w.currentRegion = r
		w.setBiome(r.Biome, "")
	}

	w.weather.Advance(dt)

	if t, ok := w.graph.TransitionAt(anchor); ok {
		w.activeTransition = t
	} else {
		w.activeTransition = nil
	}
}

// UseTransition проводит якорь через переход. Не возвращает ошибок:
// если целевой регион не разрешается, используется точка появления
// биома по умолчанию. Возвращает позицию появления.
func (w *World) UseTransition(t *Transition) vec.Vec2 {
	getMetrics().transitionsUse.Inc()

	var spawn vec.Vec2
	newBiome := t.ToBiome
	if _, ok := w.table.Get(newBiome); !ok {
		newBiome = w.table.Start()
	}

	if dest, ok := w.registry.Get(t.ToRegion); ok {
		w.stream.ForceActive(dest)
		spawn = dest.Bounds.Origin.Add(t.SpawnOffset)
		w.currentRegion = dest
	} else {
		// Целевой регион не разрешился - падаем на дефолтный
		// спавн биома.
		spawn = w.table.Resolve(newBiome).DefaultSpawn
		w.currentRegion = nil
		logging.Warn("Переход %s: регион %q не найден, спавн в точке биома %s", t.ID, t.ToRegion, newBiome)
	}

	w.anchor = spawn
	w.setBiome(newBiome, t.ID)
	return spawn
}

// TeleportTo переносит якорь в точку, принудительно загружая регион,
// который её содержит. Точка вне регионов переносит якорь без смены биома.
func (w *World) TeleportTo(p vec.Vec2) vec.Vec2 {
	w.anchor = p

	r, ok := w.registry.RegionAt(p)
	if !ok {
		logging.Warn("Телепорт в точку (%.0f, %.0f) вне регионов", p.X, p.Y)
		return p
	}

	w.stream.ForceActive(r)
	w.currentRegion = r
	w.setBiome(r.Biome, "")
	return p
}

// setBiome меняет текущий биом. Событие biome_changed и ререолл погоды
// происходят ровно один раз и только если биом действительно сменился.
func (w *World) setBiome(newBiome, via string) {
	if newBiome == w.currentBiome {
		return
	}

	old := w.currentBiome
	w.currentBiome = newBiome
	getMetrics().biomeChanges.Inc()
	logging.Info("Смена биома: %s -> %s", old, newBiome)
	w.notifier.Emit(BiomeEvent{OldBiome: old, NewBiome: newBiome, Via: via})
	w.weather.EnterBiome(newBiome)
}

// Unlock устанавливает флаг прогресса, открывающий гейты переходов
func (w *World) Unlock(flag string) error {
	if err := w.flags.Set(flag); err != nil {
		return fmt.Errorf("установка флага %q: %w", flag, err)
	}
	logging.Info("Флаг %q установлен", flag)
	return nil
}

// ClearEncounter взводит флаг зачистки триггера.
// Триггер остаётся в регионе и не пересоздаётся при перезагрузке.
func (w *World) ClearEncounter(id string) bool {
	for _, r := range w.registry.All() {
		for _, tr := range r.Triggers() {
			if tr.ID == id {
				tr.Cleared = true
				return true
			}
		}
	}
	return false
}

// TravelPath ищет кратчайший путь между биомами по открытым переходам
func (w *World) TravelPath(from, to string) ([]string, bool) {
	return w.graph.TravelPath(from, to)
}

// Anchor возвращает позицию якоря на момент последнего тика
func (w *World) Anchor() vec.Vec2 {
	return w.anchor
}

// Tick возвращает номер последнего тика
func (w *World) Tick() uint64 {
	return w.tick
}

// CurrentBiome возвращает имя текущего биома
func (w *World) CurrentBiome() string {
	return w.currentBiome
}

// CurrentRegion возвращает текущий регион якоря
func (w *World) CurrentRegion() (*Region, bool) {
	return w.currentRegion, w.currentRegion != nil
}

// Weather возвращает текущую погоду и прогресс перехода
func (w *World) Weather() (biome.WeatherKind, float64) {
	return w.weather.Kind(), w.weather.Progress()
}

// SetTimeOfDay задаёт время суток для погодных вероятностей
func (w *World) SetTimeOfDay(tod biome.TimeOfDay) {
	w.weather.SetTimeOfDay(tod)
}

// Regions возвращает реестр регионов
func (w *World) Regions() *RegionRegistry {
	return w.registry
}

// Streaming возвращает контроллер стриминга
func (w *World) Streaming() *StreamingController {
	return w.stream
}

// Transitions возвращает граф переходов
func (w *World) Transitions() *TransitionGraph {
	return w.graph
}

// ActiveTransition возвращает переход под якорем, если есть
func (w *World) ActiveTransition() (*Transition, bool) {
	return w.activeTransition, w.activeTransition != nil
}

// TransitionsStatus возвращает все переходы со статусом разблокировки
func (w *World) TransitionsStatus() []TransitionStatus {
	out := make([]TransitionStatus, 0, len(w.graph.All()))
	for _, t := range w.graph.All() {
		out = append(out, TransitionStatus{Transition: t, Unlocked: w.graph.IsUnlocked(t)})
	}
	return out
}

// AvailableTransitions возвращает открытые переходы из текущего биома
func (w *World) AvailableTransitions() []*Transition {
	return w.graph.AvailableTransitions(w.currentBiome)
}

// Restore восстанавливает минимальное состояние сессии: биом и позицию.
// Уровни симуляции, погода и триггеры пересчитываются следующим тиком.
func (w *World) Restore(biomeName string, anchor vec.Vec2) {
	if _, ok := w.table.Get(biomeName); !ok {
		biomeName = w.table.Start()
	}
	w.anchor = anchor
	w.currentRegion = nil
	if w.currentBiome != biomeName {
		w.currentBiome = biomeName
		w.weather.EnterBiome(biomeName)
	}
}
