package world

import (
	"context"
	"encoding/json"
	"time"

	"github.com/annel0/openworld/internal/eventbus"
	"github.com/annel0/openworld/internal/logging"
	"github.com/google/uuid"
)

// BusBridge транслирует события мира во внешнюю шину событий.
// Публикация неблокирующая для тика: переполненный буфер шины
// приводит к дропу события, а не к остановке симуляции.
type BusBridge struct {
	bus    eventbus.EventBus
	source string
}

// NewBusBridge подписывает мост на события мира и возвращает его
func NewBusBridge(w *World, bus eventbus.EventBus, source string) *BusBridge {
	b := &BusBridge{bus: bus, source: source}
	w.Subscribe(b.onEvent)
	return b
}

// onEvent сериализует событие мира в конверт шины
func (b *BusBridge) onEvent(ev Event) {
	payload, err := json.Marshal(ev)
	if err != nil {
		logging.Error("Сериализация события %s: %v", ev.GetType(), err)
		return
	}

	envelope := &eventbus.Envelope{
		ID:        uuid.NewString(),
		Timestamp: time.Now().UTC(),
		Source:    b.source,
		EventType: ev.GetType().String(),
		Payload:   payload,
	}

	if err := b.bus.Publish(context.Background(), envelope); err != nil {
		logging.Warn("Публикация события %s: %v", envelope.EventType, err)
	}
}
