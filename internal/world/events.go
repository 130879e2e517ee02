package world

import (
	"github.com/annel0/openworld/internal/biome"
)

// EventType определяет тип события мира
type EventType uint8

const (
	EventTypeRegionLoaded   EventType = iota // Ресурсы региона загружены
	EventTypeRegionUnloaded                  // Ресурсы региона выгружены
	EventTypeBiomeChanged                    // Сменился текущий биом
	EventTypeWeatherChanged                  // Сменилась погода текущего биома
)

// String возвращает строковое имя типа события
func (t EventType) String() string {
	switch t {
	case EventTypeRegionLoaded:
		return "region_loaded"
	case EventTypeRegionUnloaded:
		return "region_unloaded"
	case EventTypeBiomeChanged:
		return "biome_changed"
	case EventTypeWeatherChanged:
		return "weather_changed"
	default:
		return "unknown"
	}
}

// Event представляет собой интерфейс для всех событий мира
type Event interface {
	GetType() EventType
}

// RegionEvent представляет событие загрузки/выгрузки региона
type RegionEvent struct {
	EventType EventType
	RegionID  string         // Идентификатор региона
	Biome     string         // Биом региона
	Tier      SimulationTier // Уровень симуляции на момент события
}

// GetType возвращает тип события
func (e RegionEvent) GetType() EventType {
	return e.EventType
}

// BiomeEvent представляет смену текущего биома
type BiomeEvent struct {
	OldBiome string
	NewBiome string
	Via      string // Идентификатор перехода, пустой при телепорте или перемещении
}

// GetType возвращает тип события
func (e BiomeEvent) GetType() EventType {
	return EventTypeBiomeChanged
}

// WeatherEvent представляет смену погоды текущего биома
type WeatherEvent struct {
	Biome string
	Old   biome.WeatherKind
	New   biome.WeatherKind
}

// GetType возвращает тип события
func (e WeatherEvent) GetType() EventType {
	return EventTypeWeatherChanged
}

// Listener потребляет события мира
type Listener func(Event)

// Notifier доставляет события подписчикам синхронно внутри тика.
// Обработчик может повторно войти в мир (например вызвать UseTransition):
// вложенные события ставятся в очередь и доставляются после текущего,
// итерация идёт по снапшоту списка подписчиков.
type Notifier struct {
	listeners   []Listener
	nextID      int
	ids         []int
	dispatching bool
	pending     []Event
}

// NewNotifier создаёт пустой реестр подписчиков
func NewNotifier() *Notifier {
	return &Notifier{}
}

// Subscribe добавляет подписчика и возвращает функцию отписки
func (n *Notifier) Subscribe(l Listener) func() {
	id := n.nextID
	n.nextID++
	n.listeners = append(n.listeners, l)
	n.ids = append(n.ids, id)

	return func() {
		for i, lid := range n.ids {
			if lid == id {
				n.listeners = append(n.listeners[:i], n.listeners[i+1:]...)
				n.ids = append(n.ids[:i], n.ids[i+1:]...)
				return
			}
		}
	}
}

// Emit доставляет событие всем подписчикам.
// Вызовы из обработчиков откладываются до завершения текущей доставки.
func (n *Notifier) Emit(ev Event) {
	if n.dispatching {
		n.pending = append(n.pending, ev)
		return
	}

	n.dispatching = true
	n.dispatch(ev)
	for len(n.pending) > 0 {
		next := n.pending[0]
		n.pending = n.pending[1:]
		n.dispatch(next)
	}
	n.dispatching = false
}

// dispatch доставляет одно событие по снапшоту подписчиков
func (n *Notifier) dispatch(ev Event) {
	snapshot := make([]Listener, len(n.listeners))
	copy(snapshot, n.listeners)
	for _, l := range snapshot {
		l(ev)
	}
}
