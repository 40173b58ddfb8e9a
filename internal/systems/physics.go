package systems

import (
	"github.com/DivyanshGoel20/token-strike/internal/domain"
)

// Hitbox строит квадратный AABB вокруг центра
func Hitbox(center domain.Vec2, size float64) domain.Rect {
	return domain.Rect{X: center.X - size/2, Y: center.Y - size/2, W: size, H: size}
}

// Overlaps - пересекаются ли два квадратных тела
func Overlaps(a domain.Vec2, sizeA float64, b domain.Vec2, sizeB float64) bool {
	return Hitbox(a, sizeA).Overlaps(Hitbox(b, sizeB))
}

// FirstOverlappingEnemy возвращает первого живого врага, пересекающегося с телом.
func FirstOverlappingEnemy(pos domain.Vec2, size float64, enemies []*domain.Enemy) *domain.Enemy {
	box := Hitbox(pos, size)
	for _, e := range enemies {
		if !e.Alive {
			continue
		}
		if box.Overlaps(Hitbox(e.Pos, domain.EnemyHitbox)) {
			return e
		}
	}
	return nil
}

// AnyEnemyOverlaps - есть ли хоть один живой враг в контакте с телом
func AnyEnemyOverlaps(pos domain.Vec2, size float64, enemies []*domain.Enemy) bool {
	return FirstOverlappingEnemy(pos, size, enemies) != nil
}
