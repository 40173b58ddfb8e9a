package domain

// Vec2 - точка или вектор на карте (в пикселях).
type Vec2 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Rect - прямоугольник, выровненный по осям (AABB).
// X, Y - левый верхний угол.
type Rect struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// WorldBounds - границы игровой карты, начинаются в (0,0).
func WorldBounds(width, height float64) Rect {
	return Rect{W: width, H: height}
}

// Center возвращает центр прямоугольника
func (r Rect) Center() Vec2 {
	return Vec2{X: r.X + r.W/2, Y: r.Y + r.H/2}
}

// Contains проверяет, лежит ли точка внутри (границы включительно)
func (r Rect) Contains(p Vec2) bool {
	return p.X >= r.X && p.X <= r.X+r.W && p.Y >= r.Y && p.Y <= r.Y+r.H
}

// Expand возвращает прямоугольник, расширенный на margin со всех сторон.
func (r Rect) Expand(margin float64) Rect {
	return Rect{X: r.X - margin, Y: r.Y - margin, W: r.W + 2*margin, H: r.H + 2*margin}
}

// Overlaps - пересечение двух AABB. Касание краями пересечением не считается.
func (r Rect) Overlaps(o Rect) bool {
	return r.X < o.X+o.W && o.X < r.X+r.W && r.Y < o.Y+o.H && o.Y < r.Y+r.H
}

// Clamp зажимает точку в [X+margin, X+W-margin] по каждой оси.
// Если margin больше половины стороны, точка прижимается к центру этой оси.
func (r Rect) Clamp(p Vec2, margin float64) Vec2 {
	return Vec2{
		X: clampAxis(p.X, r.X, r.W, margin),
		Y: clampAxis(p.Y, r.Y, r.H, margin),
	}
}

func clampAxis(v, origin, size, margin float64) float64 {
	lo := origin + margin
	hi := origin + size - margin
	if lo > hi {
		return origin + size/2
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
