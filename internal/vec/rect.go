package vec

// Rect представляет прямоугольник в мировых координатах (origin + size).
// Правая и нижняя границы не включаются, чтобы соседние регионы не пересекались.
type Rect struct {
	Origin Vec2
	Size   Vec2
}

// NewRect создаёт прямоугольник по координатам угла и размерам
func NewRect(x, y, w, h float64) Rect {
	return Rect{Origin: Vec2{X: x, Y: y}, Size: Vec2{X: w, Y: h}}
}

// Max возвращает противоположный origin угол
func (r Rect) Max() Vec2 {
	return Vec2{X: r.Origin.X + r.Size.X, Y: r.Origin.Y + r.Size.Y}
}

// Center возвращает центр прямоугольника
func (r Rect) Center() Vec2 {
	return Vec2{X: r.Origin.X + r.Size.X/2, Y: r.Origin.Y + r.Size.Y/2}
}

// Contains проверяет, находится ли точка внутри прямоугольника
func (r Rect) Contains(p Vec2) bool {
	m := r.Max()
	return p.X >= r.Origin.X && p.X < m.X && p.Y >= r.Origin.Y && p.Y < m.Y
}

// Intersects проверяет пересечение двух прямоугольников
func (r Rect) Intersects(other Rect) bool {
	m := r.Max()
	om := other.Max()
	return r.Origin.X < om.X && other.Origin.X < m.X &&
		r.Origin.Y < om.Y && other.Origin.Y < m.Y
}

// Inset возвращает прямоугольник, сжатый на margin с каждой стороны.
// Если margin слишком велик, возвращает вырожденный прямоугольник в центре.
func (r Rect) Inset(margin float64) Rect {
	if r.Size.X <= margin*2 || r.Size.Y <= margin*2 {
		c := r.Center()
		return Rect{Origin: c, Size: Vec2{}}
	}
	return Rect{
		Origin: Vec2{X: r.Origin.X + margin, Y: r.Origin.Y + margin},
		Size:   Vec2{X: r.Size.X - margin*2, Y: r.Size.Y - margin*2},
	}
}
