package world

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/annel0/openworld/internal/biome"
	"github.com/annel0/openworld/internal/config"
	"github.com/annel0/openworld/internal/vec"
)

func newTestRegistry(t *testing.T, layout *biome.Layout) *RegionRegistry {
	t.Helper()

	rng := rand.New(rand.NewSource(1))
	seeder := NewEncounterSeeder(config.Default().Encounter, rng)
	reg, err := NewRegionRegistry(layout, NewMapGenerator(1), seeder)
	require.NoError(t, err)
	return reg
}

func TestRegionRegistryBuild(t *testing.T) {
	reg := newTestRegistry(t, testLayout(t))

	require.Len(t, reg.All(), 4)
	assert.Equal(t, "start_r", reg.All()[0].ID, "порядок объявления сохраняется")

	r, ok := reg.Get("east_r")
	require.True(t, ok)
	assert.Equal(t, "east", r.Biome)
	assert.Equal(t, vec.NewRect(1000, 0, 1000, 1000), r.Bounds,
		"размер региона берётся из chunk-размеров биома")
	assert.False(t, r.Loaded())

	_, ok = reg.Get("no_such")
	assert.False(t, ok)
}

func TestRegionRegistryUnknownBiome(t *testing.T) {
	layout := testLayout(t)
	layout.Regions = append(layout.Regions, biome.RegionSpec{
		ID: "bad_r", Biome: "no_such_biome",
	})

	rng := rand.New(rand.NewSource(1))
	seeder := NewEncounterSeeder(config.Default().Encounter, rng)
	_, err := NewRegionRegistry(layout, NewMapGenerator(1), seeder)
	assert.Error(t, err, "регион с неизвестным биомом отвергается")
}

func TestRegionAtFirstMatch(t *testing.T) {
	layout := testLayout(t)
	// Дубль поверх start_r: при пересечении действует первый по порядку
	layout.Regions = append(layout.Regions, biome.RegionSpec{
		ID: "overlap_r", Biome: "east", Origin: vec.Vec2{X: 500, Y: 0},
	})
	reg := newTestRegistry(t, layout)

	r, ok := reg.RegionAt(vec.Vec2{X: 700, Y: 500})
	require.True(t, ok)
	assert.Equal(t, "start_r", r.ID, "точка в пересечении принадлежит первому региону")

	_, ok = reg.RegionAt(vec.Vec2{X: -10, Y: -10})
	assert.False(t, ok)
}

func TestRegionBoundsHalfOpen(t *testing.T) {
	reg := newTestRegistry(t, testLayout(t))

	// Граница x=1000 принадлежит east_r, не start_r
	r, ok := reg.RegionAt(vec.Vec2{X: 1000, Y: 500})
	require.True(t, ok)
	assert.Equal(t, "east_r", r.ID)

	r, ok = reg.RegionAt(vec.Vec2{X: 999.999, Y: 500})
	require.True(t, ok)
	assert.Equal(t, "start_r", r.ID)
}

func TestWorldBounds(t *testing.T) {
	reg := newTestRegistry(t, testLayout(t))

	bounds, ok := reg.WorldBounds()
	require.True(t, ok)
	assert.Equal(t, vec.Vec2{X: 0, Y: 0}, bounds.Origin)
	assert.Equal(t, vec.Vec2{X: 21000, Y: 21000}, bounds.Max(),
		"границы накрывают самые дальние регионы")

	empty := &RegionRegistry{}
	_, ok = empty.WorldBounds()
	assert.False(t, ok, "пустой реестр не имеет границ")
}

func TestRegionsInBiome(t *testing.T) {
	reg := newTestRegistry(t, testLayout(t))

	rs := reg.RegionsInBiome("start")
	require.Len(t, rs, 1)
	assert.Equal(t, "start_r", rs[0].ID)

	assert.Empty(t, reg.RegionsInBiome("no_such"))
}

func TestIsBlocked(t *testing.T) {
	reg := newTestRegistry(t, testLayout(t))

	assert.True(t, reg.IsBlocked(vec.Vec2{X: -10, Y: -10}),
		"точка вне регионов заблокирована")

	r, _ := reg.Get("start_r")
	assert.True(t, reg.IsBlocked(vec.Vec2{X: 500, Y: 500}),
		"незагруженный регион заблокирован целиком")

	reg.Load(r)
	// После загрузки хотя бы часть региона проходима
	passable := 0
	for x := 50.0; x < 1000; x += 100 {
		for y := 50.0; y < 1000; y += 100 {
			if !reg.IsBlocked(vec.Vec2{X: x, Y: y}) {
				passable++
			}
		}
	}
	assert.Greater(t, passable, 0, "карта региона содержит проходимые клетки")
}

func TestRegionLoadUnloadIdempotent(t *testing.T) {
	reg := newTestRegistry(t, testLayout(t))
	r, _ := reg.Get("start_r")

	reg.Load(r)
	require.True(t, r.Loaded())
	first := r.mapRes
	reg.Load(r)
	assert.Same(t, first, r.mapRes, "повторная загрузка не пересоздаёт карту")

	reg.Unload(r)
	assert.False(t, r.Loaded())
	reg.Unload(r)
	assert.False(t, r.Loaded())

	assert.Empty(t, reg.LoadedRegions())
	reg.Load(r)
	require.Len(t, reg.LoadedRegions(), 1)
}

func TestMapGeneratorDeterministic(t *testing.T) {
	bounds := vec.NewRect(0, 0, 1000, 1000)

	a := NewMapGenerator(5).Generate("r1", bounds)
	b := NewMapGenerator(5).Generate("r1", bounds)
	c := NewMapGenerator(5).Generate("r2", bounds)

	sameAsA := true
	differsFromC := false
	for row := 0; row < 62; row++ {
		for col := 0; col < 62; col++ {
			if a.Cell(col, row) != b.Cell(col, row) {
				sameAsA = false
			}
			if a.Cell(col, row) != c.Cell(col, row) {
				differsFromC = true
			}
		}
	}
	assert.True(t, sameAsA, "одинаковые сид и регион дают одинаковую карту")
	assert.True(t, differsFromC, "разные регионы дают разные карты")
}

func TestMapResourceOutOfRange(t *testing.T) {
	m := NewMapGenerator(5).Generate("r1", vec.NewRect(0, 0, 100, 100))

	assert.Equal(t, CellRock, m.Cell(-1, -1), "клетка вне карты считается скалой")
	assert.Equal(t, CellRock, m.Cell(1000, 1000))
	assert.True(t, m.Blocked(vec.Vec2{X: 500, Y: 500}), "точка вне границ заблокирована")
}
