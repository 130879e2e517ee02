package world

import (
	"hash/fnv"

	"github.com/annel0/openworld/internal/vec"
	"github.com/aquilax/go-perlin"
)

// Размер ячейки карты в мировых единицах
const mapCellSize = 16.0

// Пороговые значения шума для типов ячеек
const (
	waterMax  = 0.30 // Ниже - вода
	rockStart = 0.82 // Выше - скалы
)

// CellType представляет тип ячейки карты региона
type CellType uint8

const (
	CellGround CellType = iota
	CellWater
	CellRock
)

// MapResource представляет загружаемый ресурс карты региона.
// Для ядра мира содержимое непрозрачно, кроме маски проходимости.
type MapResource struct {
	bounds vec.Rect
	cols   int
	rows   int
	cells  []CellType
}

// Cell возвращает тип ячейки по индексам сетки
func (m *MapResource) Cell(col, row int) CellType {
	if col < 0 || row < 0 || col >= m.cols || row >= m.rows {
		return CellRock
	}
	return m.cells[row*m.cols+col]
}

// Blocked проверяет проходимость мировой точки внутри региона
func (m *MapResource) Blocked(p vec.Vec2) bool {
	if !m.bounds.Contains(p) {
		return true
	}
	col := int((p.X - m.bounds.Origin.X) / mapCellSize)
	row := int((p.Y - m.bounds.Origin.Y) / mapCellSize)
	c := m.Cell(col, row)
	return c == CellWater || c == CellRock
}

// MapGenerator генерирует карты регионов на основе шума Перлина.
// Генерация детерминирована: сид складывается из глобального сида и id региона.
type MapGenerator struct {
	seed       int64
	noiseScale float64
}

// NewMapGenerator создаёт генератор карт с указанным глобальным сидом
func NewMapGenerator(seed int64) *MapGenerator {
	return &MapGenerator{
		seed:       seed,
		noiseScale: 0.05, // Настройка сглаженности ландшафта
	}
}

// Generate создаёт карту региона по его границам
func (g *MapGenerator) Generate(regionID string, bounds vec.Rect) *MapResource {
	cols := int(bounds.Size.X / mapCellSize)
	rows := int(bounds.Size.Y / mapCellSize)
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}

	noise := perlin.NewPerlin(2.0, 2.0, 3, g.regionSeed(regionID))

	m := &MapResource{
		bounds: bounds,
		cols:   cols,
		rows:   rows,
		cells:  make([]CellType, cols*rows),
	}

	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			nx := (bounds.Origin.X/mapCellSize + float64(col)) * g.noiseScale
			ny := (bounds.Origin.Y/mapCellSize + float64(row)) * g.noiseScale

			// Приводим значение шума из [-1,1] в [0,1]
			height := (noise.Noise2D(nx, ny) + 1.0) / 2.0

			switch {
			case height < waterMax:
				m.cells[row*cols+col] = CellWater
			case height > rockStart:
				m.cells[row*cols+col] = CellRock
			default:
				m.cells[row*cols+col] = CellGround
			}
		}
	}

	return m
}

// regionSeed возвращает сид региона на основе глобального сида и id
func (g *MapGenerator) regionSeed(regionID string) int64 {
	h := fnv.New64a()
	h.Write([]byte(regionID))
	return g.seed + int64(h.Sum64()&0x7FFFFFFF)
}
