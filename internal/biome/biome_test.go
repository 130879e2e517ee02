package biome

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/annel0/openworld/internal/vec"
)

func TestNewTableValidation(t *testing.T) {
	_, err := NewTable(nil, "")
	assert.Error(t, err, "пустая таблица отвергается")

	_, err = NewTable([]Def{{Name: ""}}, "")
	assert.Error(t, err, "биом без имени отвергается")

	_, err = NewTable([]Def{{Name: "a"}, {Name: "a"}}, "a")
	assert.Error(t, err, "дубликат имени отвергается")

	_, err = NewTable([]Def{{Name: "a", EncounterRate: -1}}, "a")
	assert.Error(t, err, "отрицательная частота энкаунтеров отвергается")

	_, err = NewTable([]Def{{Name: "a"}}, "missing")
	assert.Error(t, err, "стартовый биом должен быть в таблице")
}

func TestTableStartFallback(t *testing.T) {
	table, err := NewTable([]Def{{Name: "first"}, {Name: "second"}}, "")
	require.NoError(t, err)
	assert.Equal(t, "first", table.Start(), "пустой старт падает на первый биом")

	table, err = NewTable([]Def{{Name: "first"}, {Name: "second"}}, "second")
	require.NoError(t, err)
	assert.Equal(t, "second", table.Start())
}

func TestTableResolve(t *testing.T) {
	table, err := NewTable([]Def{
		{Name: "meadow", DefaultSpawn: vec.Vec2{X: 1, Y: 2}},
		{Name: "marsh"},
	}, "meadow")
	require.NoError(t, err)

	d, ok := table.Get("marsh")
	require.True(t, ok)
	assert.Equal(t, "marsh", d.Name)

	_, ok = table.Get("no_such")
	assert.False(t, ok)

	// Неизвестный ключ разрешается в стартовый биом
	d = table.Resolve("no_such")
	assert.Equal(t, "meadow", d.Name)
	assert.Equal(t, vec.Vec2{X: 1, Y: 2}, d.DefaultSpawn)
}

func TestTableNamesOrder(t *testing.T) {
	table, err := NewTable([]Def{{Name: "c"}, {Name: "a"}, {Name: "b"}}, "c")
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "a", "b"}, table.Names(), "порядок объявления сохраняется")
}

func TestSpawnPool(t *testing.T) {
	d := Def{
		Native: []string{"hare", "serpent"},
		Night:  []string{"moth"},
	}

	assert.Equal(t, []string{"hare", "serpent"}, d.SpawnPool(Day))
	assert.Equal(t, []string{"hare", "serpent", "moth"}, d.SpawnPool(Night),
		"ночью пул расширяется ночными существами")
}

func TestWeatherOptionChance(t *testing.T) {
	opt := WeatherOption{Kind: "fog", DayChance: 0.2, NightChance: 0.6}
	assert.Equal(t, 0.2, opt.Chance(Day))
	assert.Equal(t, 0.6, opt.Chance(Night))
}

func TestTimeOfDayString(t *testing.T) {
	assert.Equal(t, "day", Day.String())
	assert.Equal(t, "night", Night.String())
}
