package systems

import (
	"github.com/DivyanshGoel20/token-strike/internal/domain"
)

// NearestEnemy выбирает ближайшего живого врага для автонаведения.
//
// При равных расстояниях побеждает первый найденный: порядок обхода не гарантирован,
// поэтому полагаться на конкретного победителя нельзя.
// Возвращает nil, если живых врагов нет.
func NearestEnemy(from domain.Vec2, enemies []*domain.Enemy) *domain.Enemy {
	var target *domain.Enemy
	best := 0.0

	for _, e := range enemies {
		if e == nil || !e.Alive {
			continue
		}
		d := from.DistanceSquaredTo(e.Pos)
		if target == nil || d < best {
			target = e
			best = d
		}
	}
	return target
}
