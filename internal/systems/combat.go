package systems

import (
	"math"
	"sort"

	"github.com/DivyanshGoel20/token-strike/internal/domain"
	"github.com/DivyanshGoel20/token-strike/pkg/logger"

	"github.com/sirupsen/logrus"
)

// NormalizeBulletDamage - урон из внешнего источника. Ноль, отрицательное и NaN дают 1,
// чтобы врага всегда можно было убить.
func NormalizeBulletDamage(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return domain.DefaultBulletDamage
	}
	return v
}

// ShotDamage = max(1, floor(bulletDamage + bonus))
func ShotDamage(bulletDamage float64, bonus int) int {
	dmg := int(math.Floor(bulletDamage + float64(bonus)))
	if dmg < domain.MinShotDamage {
		return domain.MinShotDamage
	}
	return dmg
}

// HealthTable - здоровье врагов по EntityID.
// Значения всегда >= 0: мёртвые записи удаляются, а не уходят в минус.
type HealthTable struct {
	hp map[domain.EntityID]int
}

func NewHealthTable() *HealthTable {
	return &HealthTable{hp: make(map[domain.EntityID]int)}
}

// Set записывает здоровье. Отрицательное зажимается в 0.
func (t *HealthTable) Set(id domain.EntityID, hp int) {
	if hp < 0 {
		hp = 0
	}
	t.hp[id] = hp
}

// Get возвращает здоровье; для отсутствующей записи (0, false).
func (t *HealthTable) Get(id domain.EntityID) (int, bool) {
	hp, ok := t.hp[id]
	return hp, ok
}

func (t *HealthTable) Delete(id domain.EntityID) {
	delete(t.hp, id)
}

func (t *HealthTable) Len() int {
	return len(t.hp)
}

// Reset очищает таблицу целиком (конец сессии)
func (t *HealthTable) Reset() {
	t.hp = make(map[domain.EntityID]int)
}

// HealthEntry - строка снапшота
type HealthEntry struct {
	ID     domain.EntityID `json:"id"`
	Health int             `json:"health"`
}

// Snapshot - копия таблицы, отсортированная по ID (для тестов и отладки)
func (t *HealthTable) Snapshot() []HealthEntry {
	out := make([]HealthEntry, 0, len(t.hp))
	for id, hp := range t.hp {
		out = append(out, HealthEntry{ID: id, Health: hp})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// ApplyProjectileHit наносит урон врагу.
// Отсутствующая запись считается здоровьем 0, так что любой урон её убивает.
func ApplyProjectileHit(table *HealthTable, enemyID domain.EntityID, damage int) (remaining int, killed bool) {
	before, _ := table.Get(enemyID)
	remaining = before - damage

	combatLogger := logger.Log.WithFields(logrus.Fields{
		"component": "combat_system",
		"enemy_id":  enemyID.String(),
		"damage":    damage,
		"hp_before": before,
	})

	if remaining <= 0 {
		table.Delete(enemyID)
		combatLogger.Debug("Enemy killed.")
		return 0, true
	}

	table.Set(enemyID, remaining)
	combatLogger.WithField("hp_after", remaining).Debug("Enemy damaged.")
	return remaining, false
}

// ApplyContactDamage - контакт игрока с врагом.
// Во время неуязвимости ничего не делает. Иначе -1 HP и окно неуязвимости от nowMs.
func ApplyContactDamage(p *domain.Player, nowMs int64, window int64) (damaged, died bool) {
	if p.Invulnerable || p.IsDead() {
		return false, false
	}

	died = p.TakeHit()
	p.Invulnerable = true
	p.InvulnerableUntil = nowMs + window

	logger.Log.WithFields(logrus.Fields{
		"component": "combat_system",
		"hp_after":  p.Health,
		"until_ms":  p.InvulnerableUntil,
		"died":      died,
	}).Debug("Player took contact damage.")

	return true, died
}

// ClearInvulnerability снимает неуязвимость (по таймеру сессии)
func ClearInvulnerability(p *domain.Player) {
	p.Invulnerable = false
	p.InvulnerableUntil = 0
}
