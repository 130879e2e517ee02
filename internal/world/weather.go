package world

import (
	"math/rand"

	"github.com/annel0/openworld/internal/biome"
	"github.com/annel0/openworld/internal/config"
	"github.com/annel0/openworld/internal/logging"
)

// WeatherDirector ведёт погодный автомат текущего биома.
// Состояние хранится только для текущего биома и не персистится:
// при входе в биом или истечении таймера выполняется новый ролл.
// Шкала progress [0..1] растёт линейно за RampDuration и используется
// рендером для кроссфейда (вне зоны ответственности ядра).
type WeatherDirector struct {
	cfg      config.WeatherConfig
	table    *biome.Table
	rng      *rand.Rand
	notifier *Notifier

	currentBiome string
	tod          biome.TimeOfDay
	kind         biome.WeatherKind
	elapsed      float64
	duration     float64
	progress     float64
}

// NewWeatherDirector создаёт директор погоды с инжектированным
// источником случайности
func NewWeatherDirector(cfg config.WeatherConfig, table *biome.Table, rng *rand.Rand, notifier *Notifier) *WeatherDirector {
	return &WeatherDirector{
		cfg:      cfg,
		table:    table,
		rng:      rng,
		notifier: notifier,
		kind:     biome.WeatherNone,
		progress: 1,
	}
}

// Kind возвращает текущую погоду
func (wd *WeatherDirector) Kind() biome.WeatherKind {
	return wd.kind
}

// Progress возвращает прогресс перехода погоды в диапазоне [0,1]
func (wd *WeatherDirector) Progress() float64 {
	return wd.progress
}

// SetTimeOfDay задаёт время суток для погодных вероятностей
func (wd *WeatherDirector) SetTimeOfDay(tod biome.TimeOfDay) {
	wd.tod = tod
}

// EnterBiome переключает директор на новый биом и сразу делает ролл
func (wd *WeatherDirector) EnterBiome(name string) {
	wd.currentBiome = name
	wd.reroll()
}

// Advance продвигает таймер погоды на dt единиц времени.
// Директор сам планирует роллы по собственному таймеру,
// внешних триггеров кроме этого вызова не требуется.
func (wd *WeatherDirector) Advance(dt float64) {
	wd.elapsed += dt

	if wd.progress < 1 && wd.cfg.RampDuration > 0 {
		wd.progress += dt / wd.cfg.RampDuration
		if wd.progress > 1 {
			wd.progress = 1
		}
	}

	if wd.elapsed >= wd.duration {
		wd.reroll()
	}
}

// reroll выбирает новую погоду для текущего биома.
// Пустой список или единственный "none" принудительно дают "none".
func (wd *WeatherDirector) reroll() {
	def := wd.table.Resolve(wd.currentBiome)
	options := wd.eligibleOptions(def)

	next := biome.WeatherNone
	duration := wd.calmDuration()

	forced := len(options) == 0 || (len(options) == 1 && options[0].Kind == biome.WeatherNone)
	if !forced && wd.rng.Float64() < wd.cfg.StartProbability {
		picked := options[wd.rng.Intn(len(options))]
		next = picked.Kind
		duration = wd.cfg.MinDuration + wd.rng.Float64()*(wd.cfg.MaxDuration-wd.cfg.MinDuration)
	}

	wd.elapsed = 0
	wd.duration = duration

	if next == wd.kind {
		return
	}

	old := wd.kind
	wd.kind = next
	wd.progress = 0
	getMetrics().weatherChanges.Inc()
	logging.Debug("Погода в биоме %s: %s -> %s (%.0f ед.)", wd.currentBiome, old, next, duration)
	wd.notifier.Emit(WeatherEvent{
		Biome: wd.currentBiome,
		Old:   old,
		New:   next,
	})
}

// eligibleOptions возвращает опции погоды, возможные в текущее время суток
func (wd *WeatherDirector) eligibleOptions(def biome.Def) []biome.WeatherOption {
	var out []biome.WeatherOption
	for _, opt := range def.Weathers {
		if opt.Chance(wd.tod) > 0 {
			out = append(out, opt)
		}
	}
	return out
}

// calmDuration возвращает длительность периода без погоды
func (wd *WeatherDirector) calmDuration() float64 {
	return wd.cfg.MinCalmDuration + wd.rng.Float64()*(wd.cfg.MaxCalmDuration-wd.cfg.MinCalmDuration)
}
