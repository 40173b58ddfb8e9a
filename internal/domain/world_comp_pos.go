package domain

import "math"

// Add складывает векторы
func (v Vec2) Add(o Vec2) Vec2 {
	return Vec2{X: v.X + o.X, Y: v.Y + o.Y}
}

// Sub вычитает векторы
func (v Vec2) Sub(o Vec2) Vec2 {
	return Vec2{X: v.X - o.X, Y: v.Y - o.Y}
}

// Scale умножает вектор на скаляр
func (v Vec2) Scale(k float64) Vec2 {
	return Vec2{X: v.X * k, Y: v.Y * k}
}

// Len - длина вектора
func (v Vec2) Len() float64 {
	return math.Hypot(v.X, v.Y)
}

// IsZero возвращает true для нулевого вектора
func (v Vec2) IsZero() bool {
	return v.X == 0 && v.Y == 0
}

// Normalize возвращает единичный вектор. Нулевой вектор остаётся нулевым.
func (v Vec2) Normalize() Vec2 {
	l := v.Len()
	if l == 0 {
		return Vec2{}
	}
	return Vec2{X: v.X / l, Y: v.Y / l}
}

// DistanceTo возвращает евклидово расстояние до другой точки
func (v Vec2) DistanceTo(o Vec2) float64 {
	return math.Hypot(v.X-o.X, v.Y-o.Y)
}

// DistanceSquaredTo возвращает квадрат расстояния (для сравнения без корней)
func (v Vec2) DistanceSquaredTo(o Vec2) float64 {
	dx := v.X - o.X
	dy := v.Y - o.Y
	return dx*dx + dy*dy
}

// AngleTo - угол (в радианах) направления на другую точку
func (v Vec2) AngleTo(o Vec2) float64 {
	return math.Atan2(o.Y-v.Y, o.X-v.X)
}

// FromAngle строит вектор длины length в направлении angle
func FromAngle(angle, length float64) Vec2 {
	return Vec2{X: math.Cos(angle) * length, Y: math.Sin(angle) * length}
}
