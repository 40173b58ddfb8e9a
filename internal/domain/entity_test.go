package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProjectile_ExclusiveTerminalState(t *testing.T) {
	p := &Projectile{Alive: true}

	assert.True(t, p.MarkHit())
	assert.True(t, p.HasHitEnemy)
	assert.False(t, p.MarkMiss(), "a hit projectile must never become a miss")
	assert.False(t, p.MarkHit(), "hit is recorded once")
	assert.Equal(t, OutcomeHit, p.Outcome)

	q := &Projectile{Alive: true}
	assert.True(t, q.MarkMiss())
	assert.False(t, q.MarkHit())
	assert.False(t, q.MarkMiss())
	assert.Equal(t, OutcomeMiss, q.Outcome)
	assert.False(t, q.HasHitEnemy)
}

func TestPlayer_HealthBounds(t *testing.T) {
	p := NewPlayer(Vec2{}, 2)

	assert.False(t, p.TakeHit())
	assert.True(t, p.TakeHit())
	assert.Equal(t, 0, p.Health)
	assert.False(t, p.TakeHit(), "already dead")
	assert.Equal(t, 0, p.Health)

	p.Heal(5)
	assert.Equal(t, 0, p.Health, "dead players are not healed")

	alive := NewPlayer(Vec2{}, 5)
	alive.TakeHit()
	alive.Heal(10)
	assert.Equal(t, 5, alive.Health)

	alive.GrowMaxHealth(1)
	alive.Heal(1)
	assert.Equal(t, 6, alive.Health)
	assert.Equal(t, 6, alive.MaxHealth)
}

func TestUpgradeState_Apply(t *testing.T) {
	u := DefaultUpgrades()

	u.Apply(UpgradeSpeed)
	assert.InDelta(t, 1.2, u.SpeedMultiplier, 1e-9)

	eff := u.Apply(UpgradeDamage)
	assert.Equal(t, 10, u.DamageBonus)
	assert.False(t, eff.RateChanged)

	eff = u.Apply(UpgradeHealth)
	assert.Equal(t, 1, u.MaxHealthBonus)
	assert.Equal(t, 1, eff.MaxHealthGain)

	u.Apply(UpgradeMultishot)
	assert.Equal(t, 2, u.BulletsPerShot)

	for i := 0; i < 7; i++ {
		eff = u.Apply(UpgradeReload)
		assert.True(t, eff.RateChanged)
	}
	assert.InDelta(t, MinBulletRateFactor, u.BulletRateMultiplier, 1e-9)

	eff = u.Apply(UpgradeReload)
	assert.False(t, eff.RateChanged, "rate multiplier is floored")
	assert.InDelta(t, MinBulletRateFactor, u.BulletRateMultiplier, 1e-9)
}

func TestFormatElapsed(t *testing.T) {
	assert.Equal(t, "00:00", FormatElapsed(0))
	assert.Equal(t, "01:01", FormatElapsed(61000))
	assert.Equal(t, "00:00", FormatElapsed(-5))
}

func TestReplaySession_RecordAndInputAt(t *testing.T) {
	r := &ReplaySession{}
	r.Record(0, Vec2{X: 1})
	r.Record(1, Vec2{X: 1})
	r.Record(5, Vec2{Y: -1})

	assert.Len(t, r.Frames, 2, "unchanged input is not recorded twice")
	assert.Equal(t, Vec2{X: 1}, r.InputAt(3))
	assert.Equal(t, Vec2{Y: -1}, r.InputAt(5))
	assert.Equal(t, Vec2{Y: -1}, r.InputAt(100))
}
