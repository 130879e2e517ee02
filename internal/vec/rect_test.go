package vec

import (
	"testing"
)

func TestRectContainsHalfOpen(t *testing.T) {
	r := NewRect(0, 0, 100, 100)

	cases := []struct {
		p    Vec2
		want bool
	}{
		{Vec2{X: 0, Y: 0}, true},     // левый верхний угол входит
		{Vec2{X: 50, Y: 50}, true},   // центр
		{Vec2{X: 100, Y: 50}, false}, // правая граница не входит
		{Vec2{X: 50, Y: 100}, false}, // нижняя граница не входит
		{Vec2{X: 99.999, Y: 99.999}, true},
		{Vec2{X: -1, Y: 50}, false},
	}

	for _, tc := range cases {
		if got := r.Contains(tc.p); got != tc.want {
			t.Errorf("Contains(%v): ожидалось %v, получено %v", tc.p, tc.want, got)
		}
	}
}

func TestRectMaxCenter(t *testing.T) {
	r := NewRect(10, 20, 100, 200)

	if m := r.Max(); m.X != 110 || m.Y != 220 {
		t.Errorf("Max: ожидалось (110,220), получено %v", m)
	}
	if c := r.Center(); c.X != 60 || c.Y != 120 {
		t.Errorf("Center: ожидалось (60,120), получено %v", c)
	}
}

func TestRectIntersects(t *testing.T) {
	a := NewRect(0, 0, 100, 100)

	if !a.Intersects(NewRect(50, 50, 100, 100)) {
		t.Error("Перекрывающиеся прямоугольники должны пересекаться")
	}
	if a.Intersects(NewRect(100, 0, 100, 100)) {
		t.Error("Смежные прямоугольники не пересекаются (граница полуоткрытая)")
	}
	if a.Intersects(NewRect(200, 200, 10, 10)) {
		t.Error("Удалённые прямоугольники не пересекаются")
	}
	if !a.Intersects(NewRect(-50, -50, 200, 200)) {
		t.Error("Вложенность - частный случай пересечения")
	}
}

func TestRectInset(t *testing.T) {
	r := NewRect(0, 0, 100, 100)

	in := r.Inset(10)
	if in.Origin.X != 10 || in.Origin.Y != 10 || in.Size.X != 80 || in.Size.Y != 80 {
		t.Errorf("Inset(10): ожидалось (10,10)-(80x80), получено %v", in)
	}

	// Слишком большой отступ даёт вырожденный прямоугольник в центре
	deg := r.Inset(60)
	if deg.Size.X != 0 || deg.Size.Y != 0 {
		t.Errorf("Вырожденный прямоугольник должен иметь нулевой размер: %v", deg)
	}
	if deg.Origin.X != 50 || deg.Origin.Y != 50 {
		t.Errorf("Вырожденный прямоугольник должен лежать в центре: %v", deg)
	}
}

func TestVec2Math(t *testing.T) {
	a := Vec2{X: 3, Y: 4}

	if l := a.Length(); l != 5 {
		t.Errorf("Length: ожидалось 5, получено %v", l)
	}
	if d := a.DistanceTo(Vec2{X: 0, Y: 0}); d != 5 {
		t.Errorf("DistanceTo: ожидалось 5, получено %v", d)
	}

	sum := a.Add(Vec2{X: 1, Y: 1})
	if sum.X != 4 || sum.Y != 5 {
		t.Errorf("Add: ожидалось (4,5), получено %v", sum)
	}

	diff := a.Sub(Vec2{X: 1, Y: 1})
	if diff.X != 2 || diff.Y != 3 {
		t.Errorf("Sub: ожидалось (2,3), получено %v", diff)
	}

	scaled := a.Mul(2)
	if scaled.X != 6 || scaled.Y != 8 {
		t.Errorf("Mul: ожидалось (6,8), получено %v", scaled)
	}
}
