package systems

import (
	"math"
	"time"

	"github.com/DivyanshGoel20/token-strike/internal/domain"
)

// FireVolley рассчитывает скорости для count пуль, летящих из from в aim.
// Пули раскладываются веером вокруг линии прицела, spread радиан между соседними.
// Если from совпадает с aim, стреляем вправо.
func FireVolley(from, aim domain.Vec2, count int, speed, spread float64) []domain.Vec2 {
	if count <= 0 {
		return nil
	}
	base := 0.0
	if !aim.Sub(from).IsZero() {
		base = from.AngleTo(aim)
	}

	vels := make([]domain.Vec2, 0, count)
	// Центр веера: для чётного числа пуль линия прицела проходит между двумя средними.
	offset := float64(count-1) / 2
	for i := 0; i < count; i++ {
		angle := base + (float64(i)-offset)*spread
		vels = append(vels, domain.FromAngle(angle, speed))
	}
	return vels
}

// IsOutOfBounds - пуля вылетела за карту, расширенную на margin
func IsOutOfBounds(pos domain.Vec2, bounds domain.Rect, margin float64) bool {
	return !bounds.Expand(margin).Contains(pos)
}

// ResolveMiss переводит пулю в Miss и списывает ровно один патрон.
// Попавшая или уже завершённая пуля патрон не тратит: возвращается false.
func ResolveMiss(p *domain.Projectile, ammo *int) bool {
	if p == nil || !p.MarkMiss() {
		return false
	}
	if ammo != nil && *ammo > 0 {
		*ammo--
	}
	return true
}

// ResolveHit переводит пулю в Hit. Патроны не трогает.
func ResolveHit(p *domain.Projectile) bool {
	if p == nil {
		return false
	}
	return p.MarkHit()
}

// FireInterval - период стрельбы с учётом улучшения перезарядки.
// Множитель не опускается ниже MinBulletRateFactor.
func FireInterval(base time.Duration, multiplier float64) time.Duration {
	if math.IsNaN(multiplier) || multiplier < domain.MinBulletRateFactor {
		multiplier = domain.MinBulletRateFactor
	}
	return time.Duration(math.Round(float64(base) * multiplier))
}
