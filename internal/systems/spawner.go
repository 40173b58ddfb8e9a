package systems

import (
	"math"
	"math/rand"

	"github.com/DivyanshGoel20/token-strike/internal/domain"
	"github.com/DivyanshGoel20/token-strike/pkg/utils"
)

// SpawnRing - кольцо вокруг игрока, в котором появляются сущности
type SpawnRing struct {
	MinDistance float64
	MaxDistance float64
	Margin      float64 // отступ от краёв карты
}

// SpawnPoint выбирает точку на случайном расстоянии [min, max] и под случайным углом
// [0, 2π) от игрока, затем прижимает её к карте с отступом Margin.
func SpawnPoint(rng *rand.Rand, player domain.Vec2, ring SpawnRing, bounds domain.Rect) domain.Vec2 {
	angle := rng.Float64() * 2 * math.Pi
	distance := utils.FloatRange(rng, ring.MinDistance, ring.MaxDistance)

	raw := player.Add(domain.FromAngle(angle, distance))
	return bounds.Clamp(raw, ring.Margin)
}

// RollEnemyHealth - стартовое здоровье врага, равномерно в [0, max]
func RollEnemyHealth(rng *rand.Rand, max int) int {
	if max < 0 {
		max = 0
	}
	return utils.IntInclusive(rng, 0, max)
}

// PickTag выбирает визуальный ключ врага. Пустой список даёт пустую строку.
func PickTag(rng *rand.Rand, tags []string) string {
	if len(tags) == 0 {
		return ""
	}
	return tags[rng.Intn(len(tags))]
}

// BurstSize - сколько врагов появляется при смене волны
func BurstSize(wave int) int {
	return domain.BurstBase + domain.BurstPerWave*wave
}

// BurstPoints раскладывает count точек равномерно по окружности вокруг игрока.
// Каждая точка прижимается к карте независимо.
func BurstPoints(player domain.Vec2, count int, radius float64, bounds domain.Rect, margin float64) []domain.Vec2 {
	if count <= 0 {
		return nil
	}
	points := make([]domain.Vec2, 0, count)
	step := 2 * math.Pi / float64(count)
	for i := 0; i < count; i++ {
		raw := player.Add(domain.FromAngle(step*float64(i), radius))
		points = append(points, bounds.Clamp(raw, margin))
	}
	return points
}
