package systems

import (
	"time"

	"github.com/DivyanshGoel20/token-strike/internal/domain"
)

// NormalizeInput превращает сырой ввод (клавиши или джойстик) в вектор длины <= 1.
// Каждая ось зажимается в [-1, 1]; диагональ (1,1) даёт 1/√2 по каждой оси.
func NormalizeInput(dx, dy float64) domain.Vec2 {
	v := domain.Vec2{X: clampUnit(dx), Y: clampUnit(dy)}
	if v.Len() > 1 {
		return v.Normalize()
	}
	return v
}

func clampUnit(v float64) float64 {
	if v != v { // NaN
		return 0
	}
	if v > 1 {
		return 1
	}
	if v < -1 {
		return -1
	}
	return v
}

// PlayerVelocity - скорость игрока с учётом улучшения скорости
func PlayerVelocity(input domain.Vec2, baseSpeed, multiplier float64) domain.Vec2 {
	if multiplier < 0 {
		multiplier = 0
	}
	return input.Scale(baseSpeed * multiplier)
}

// VelocityToward - скорость, направленная из from в to с модулем speed.
// Если точки совпадают, возвращает нулевой вектор.
func VelocityToward(from, to domain.Vec2, speed float64) domain.Vec2 {
	return to.Sub(from).Normalize().Scale(speed)
}

// Integrate сдвигает позицию на vel * dt
func Integrate(pos, vel domain.Vec2, dt time.Duration) domain.Vec2 {
	return pos.Add(vel.Scale(dt.Seconds()))
}

// ClampToBounds не даёт телу выйти за границы мира
func ClampToBounds(pos domain.Vec2, bounds domain.Rect, halfSize float64) domain.Vec2 {
	return bounds.Clamp(pos, halfSize)
}

// SteerEnemies направляет всех живых врагов на игрока
func SteerEnemies(enemies []*domain.Enemy, target domain.Vec2, speed float64) {
	for _, e := range enemies {
		if !e.Alive {
			continue
		}
		e.Vel = VelocityToward(e.Pos, target, speed)
	}
}
