package world

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/annel0/openworld/internal/eventbus"
	"github.com/annel0/openworld/internal/vec"
)

func TestBusBridgePublishesBiomeChange(t *testing.T) {
	w := newTestWorld(t)
	bus := eventbus.NewMemoryBus(16)

	received := make(chan *eventbus.Envelope, 4)
	_, err := bus.Subscribe(context.Background(),
		eventbus.Filter{Types: []string{"biome_changed"}},
		func(_ context.Context, ev *eventbus.Envelope) { received <- ev })
	require.NoError(t, err)

	NewBusBridge(w, bus, "world_test")
	w.TeleportTo(vec.Vec2{X: 1500, Y: 500})

	select {
	case env := <-received:
		assert.NotEmpty(t, env.ID)
		assert.Equal(t, "world_test", env.Source)
		assert.Equal(t, "biome_changed", env.EventType)
		assert.False(t, env.Timestamp.IsZero())

		var payload BiomeEvent
		require.NoError(t, json.Unmarshal(env.Payload, &payload))
		assert.Equal(t, "start", payload.OldBiome)
		assert.Equal(t, "east", payload.NewBiome)
	case <-time.After(2 * time.Second):
		t.Fatal("Конверт biome_changed не дошёл до шины")
	}
}

func TestBusBridgePublishesRegionEvents(t *testing.T) {
	w := newTestWorld(t)
	bus := eventbus.NewMemoryBus(16)

	received := make(chan *eventbus.Envelope, 16)
	_, err := bus.Subscribe(context.Background(),
		eventbus.Filter{Types: []string{"region_loaded"}},
		func(_ context.Context, ev *eventbus.Envelope) { received <- ev })
	require.NoError(t, err)

	NewBusBridge(w, bus, "world_test")
	w.Update(vec.Vec2{X: 500, Y: 500}, 0.05)

	select {
	case env := <-received:
		var payload RegionEvent
		require.NoError(t, json.Unmarshal(env.Payload, &payload))
		assert.NotEmpty(t, payload.RegionID)
	case <-time.After(2 * time.Second):
		t.Fatal("Конверт region_loaded не дошёл до шины")
	}
}
