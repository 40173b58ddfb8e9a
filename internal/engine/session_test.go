package engine

import (
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/DivyanshGoel20/token-strike/internal/config"
	"github.com/DivyanshGoel20/token-strike/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testTick = 16 * time.Millisecond

type eventLog struct {
	events []domain.Event
}

func (l *eventLog) sink(ev domain.Event) {
	l.events = append(l.events, ev)
}

func (l *eventLog) count(t domain.EventType) int {
	n := 0
	for _, ev := range l.events {
		if ev.Type == t {
			n++
		}
	}
	return n
}

func (l *eventLog) last(t domain.EventType) (domain.Event, bool) {
	for i := len(l.events) - 1; i >= 0; i-- {
		if l.events[i].Type == t {
			return l.events[i], true
		}
	}
	return domain.Event{}, false
}

// newTestSession создает запущенную сессию с фиксированным сидом
func newTestSession(t *testing.T, params domain.StartParams, tune func(*config.Options)) (*GameSession, *eventLog) {
	t.Helper()
	opts := config.DefaultOptions()
	if tune != nil {
		tune(&opts)
	}
	log := &eventLog{}
	s := NewSession("test-session", opts, params, rand.New(rand.NewSource(42)), log.sink)
	require.NoError(t, s.Start())
	return s, log
}

func tickUntil(s *GameSession, elapsedMs int64) {
	for s.running() && s.ElapsedMs < elapsedMs {
		s.Tick(testTick, domain.Vec2{})
	}
}

// placeProjectile кладёт пулю в арену вместе с таймером промаха, как это делает выстрел
func placeProjectile(s *GameSession, pos, vel domain.Vec2) *domain.Projectile {
	p := &domain.Projectile{Pos: pos, Vel: vel, Alive: true, FiredAt: s.Scheduler.Now()}
	id := s.Projectiles.Alloc(p)
	p.ID = id
	p.MissTimer = s.Scheduler.After(timerMiss, s.Options.MissTimeout, func() { s.onMissTimeout(id) })
	s.stats.ShotsFired++
	return p
}

func TestSession_StartRegistersTimersAndEvents(t *testing.T) {
	s, log := newTestSession(t, domain.StartParams{Ammo: 5}, nil)

	assert.Equal(t, domain.PhaseRunning, s.Phase)
	assert.Equal(t, 3, s.Scheduler.Len(), "enemy, ore and fire timers")
	assert.Equal(t, domain.Vec2{X: 1000, Y: 1000}, s.Player.Pos)
	assert.Equal(t, 5, s.Player.Health)

	require.Len(t, log.events, 2)
	assert.Equal(t, domain.EventSessionStarted, log.events[0].Type)
	assert.Equal(t, domain.EventWaveChanged, log.events[1].Type)
	assert.Equal(t, 1, log.events[1].Wave)
}

func TestSession_StartRejectedOutsideInitializing(t *testing.T) {
	s, _ := newTestSession(t, domain.StartParams{Ammo: 1}, nil)

	err := s.Start()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidPhase))

	s.End(domain.EndAborted)
	assert.True(t, errors.Is(s.Start(), ErrInvalidPhase), "GameOver is terminal")
}

func TestSession_ZeroAmmoEndsOnFirstFireTick(t *testing.T) {
	s, log := newTestSession(t, domain.StartParams{Ammo: 0}, nil)

	tickUntil(s, 992)
	require.Equal(t, domain.PhaseRunning, s.Phase, "nothing ends the run before the first fire tick")

	s.Tick(testTick, domain.Vec2{}) // 1008ms, огонь в 1000ms
	assert.Equal(t, domain.PhaseGameOver, s.Phase)
	assert.Equal(t, domain.EndAmmoDepleted, s.EndReason)
	assert.Zero(t, s.stats.ShotsFired, "no projectile spawned")
	assert.Zero(t, s.Projectiles.Len())
	assert.Zero(t, s.Ammo)

	ended, ok := log.last(domain.EventSessionEnded)
	require.True(t, ok)
	assert.Equal(t, domain.EndAmmoDepleted, ended.Reason)
	require.NotNil(t, ended.Summary)
	assert.Zero(t, ended.Summary.AmmoSpent())
}

func TestSession_ContactWithOneHealthEndsRun(t *testing.T) {
	s, log := newTestSession(t, domain.StartParams{Ammo: 3}, func(o *config.Options) {
		o.PlayerMaxHealth = 1
	})

	s.addEnemy(s.Player.Pos)
	s.Tick(testTick, domain.Vec2{})

	assert.Equal(t, domain.PhaseGameOver, s.Phase)
	assert.Equal(t, domain.EndHealthDepleted, s.EndReason)
	assert.Zero(t, s.Player.Health)
	assert.Equal(t, 1, log.count(domain.EventPlayerDamaged))
	assert.Equal(t, 1, log.count(domain.EventSessionEnded))
}

func TestSession_InvulnerabilityWindow(t *testing.T) {
	s, log := newTestSession(t, domain.StartParams{Ammo: 3}, func(o *config.Options) {
		o.EnemyRate = time.Hour
		o.BulletRate = time.Hour
	})

	s.addEnemy(s.Player.Pos)
	s.Tick(testTick, domain.Vec2{})
	require.Equal(t, 4, s.Player.Health)
	require.True(t, s.Player.Invulnerable)

	// Враг стоит на игроке, но окно ещё не истекло
	for s.ElapsedMs < 1000 {
		s.Tick(testTick, domain.Vec2{})
	}
	assert.Equal(t, 4, s.Player.Health)

	// Окно истекло (таймер в 16+1000), следующий контакт снова ранит
	tickUntil(s, 1040)
	assert.Equal(t, 3, s.Player.Health)
	assert.Equal(t, 2, log.count(domain.EventPlayerDamaged))
}

func TestSession_OreEconomy(t *testing.T) {
	s, log := newTestSession(t, domain.StartParams{Ammo: 3}, nil)

	dropOres := func(n int) {
		for i := 0; i < n; i++ {
			o := &domain.Ore{Pos: s.Player.Pos, Alive: true}
			o.ID = s.Ores.Alloc(o)
		}
	}

	dropOres(9)
	s.Tick(testTick, domain.Vec2{})
	assert.Equal(t, 9, s.stats.OresCollected)
	assert.Zero(t, log.count(domain.EventUpgradeApplied), "9 ores give nothing")
	assert.Equal(t, 9, s.Economy.Collected)

	dropOres(1)
	s.Tick(testTick, domain.Vec2{})
	assert.Equal(t, 1, log.count(domain.EventUpgradeApplied), "the 10th ore grants exactly one upgrade")
	assert.Zero(t, s.Economy.Collected, "counter resets")
	assert.Len(t, s.stats.Upgrades, 1)
}

func TestSession_WaveBurst(t *testing.T) {
	s, log := newTestSession(t, domain.StartParams{Ammo: 10}, func(o *config.Options) {
		o.EnemyRate = time.Hour
		o.OreRate = time.Hour
		o.WaveMinutesPerWave = 1
	})

	for s.running() && s.Waves.Current < 2 {
		s.Tick(testTick, domain.Vec2{})
	}

	require.Equal(t, domain.PhaseRunning, s.Phase)
	assert.Equal(t, int64(60000), s.ElapsedMs)
	assert.Equal(t, 25, s.stats.LastBurst, "15 + 5*2")
	assert.Equal(t, 25, s.Enemies.Len())
	assert.Equal(t, 25, s.Health.Len(), "every burst enemy has a health entry")
	assert.Equal(t, 10, s.Ammo, "no target before the burst, no shots")

	ev, ok := log.last(domain.EventWaveChanged)
	require.True(t, ok)
	assert.Equal(t, 2, ev.Wave)

	for _, e := range s.Enemies.Values() {
		assert.InDelta(t, 400.0, e.Pos.DistanceTo(s.Player.Pos), 1e-6)
	}
}

func TestSession_HitDamageWithUpgrade(t *testing.T) {
	s, _ := newTestSession(t, domain.StartParams{Ammo: 5, BulletDamage: 3}, nil)
	s.ApplyUpgrade(domain.UpgradeDamage)

	id := s.addEnemy(domain.Vec2{X: 1300, Y: 1000})
	s.Health.Set(id, 20)
	enemy := s.Enemies.Get(id)

	p := placeProjectile(s, enemy.Pos, domain.Vec2{})
	s.resolveHit(p, enemy)

	hp, ok := s.Health.Get(id)
	require.True(t, ok)
	assert.Equal(t, 7, hp, "3 + 10 = 13 damage")
	assert.Equal(t, 5, s.Ammo, "hits are free")

	p2 := placeProjectile(s, enemy.Pos, domain.Vec2{})
	s.resolveHit(p2, enemy)
	assert.Nil(t, s.Enemies.Get(id), "killed enemy leaves the arena")
	_, ok = s.Health.Get(id)
	assert.False(t, ok)
	assert.Equal(t, 1, s.stats.Kills)
}

func TestSession_MissTimeoutAfterHitIsFree(t *testing.T) {
	s, log := newTestSession(t, domain.StartParams{Ammo: 5}, func(o *config.Options) {
		o.EnemyRate = time.Hour
		o.BulletRate = time.Hour
	})

	id := s.addEnemy(domain.Vec2{X: 1300, Y: 1000})
	s.Health.Set(id, 50)
	p := placeProjectile(s, domain.Vec2{X: 1300, Y: 1000}, domain.Vec2{})
	s.resolveHit(p, s.Enemies.Get(id))
	require.Equal(t, domain.OutcomeHit, p.Outcome)

	tickUntil(s, 6000)
	s.resolveMiss(p)

	assert.Equal(t, 5, s.Ammo)
	assert.Zero(t, s.stats.Misses)
	assert.Zero(t, log.count(domain.EventProjectileMissed))
}

func TestSession_MissTimeoutCostsOne(t *testing.T) {
	s, log := newTestSession(t, domain.StartParams{Ammo: 5}, func(o *config.Options) {
		o.EnemyRate = time.Hour
		o.BulletRate = time.Hour
	})

	p := placeProjectile(s, s.Player.Pos, domain.Vec2{})
	tickUntil(s, 5000)

	assert.Equal(t, domain.OutcomeMiss, p.Outcome)
	assert.Equal(t, 4, s.Ammo)
	assert.Equal(t, 1, log.count(domain.EventProjectileMissed))
	assert.Zero(t, s.Projectiles.Len())
}

func TestSession_OutOfBoundsMiss(t *testing.T) {
	s, _ := newTestSession(t, domain.StartParams{Ammo: 2}, nil)

	p := placeProjectile(s, domain.Vec2{X: -150, Y: 1000}, domain.Vec2{})
	s.Tick(testTick, domain.Vec2{})

	assert.Equal(t, domain.OutcomeMiss, p.Outcome)
	assert.Equal(t, 1, s.Ammo)
	assert.False(t, s.Scheduler.Has(p.MissTimer), "miss timer cancelled")
	assert.Equal(t, domain.PhaseRunning, s.Phase)
}

func TestSession_LastMissEndsRun(t *testing.T) {
	s, _ := newTestSession(t, domain.StartParams{Ammo: 1}, nil)

	placeProjectile(s, domain.Vec2{X: 1000, Y: 2200}, domain.Vec2{})
	s.Tick(testTick, domain.Vec2{})

	assert.Zero(t, s.Ammo)
	assert.Equal(t, domain.PhaseGameOver, s.Phase)
	assert.Equal(t, domain.EndAmmoDepleted, s.EndReason)
}

func TestSession_EndCancelsEverything(t *testing.T) {
	s, log := newTestSession(t, domain.StartParams{Ammo: 5}, nil)
	tickUntil(s, 3000)
	require.NotZero(t, s.Scheduler.Len())

	require.True(t, s.End(domain.EndAborted))
	assert.False(t, s.End(domain.EndHealthDepleted), "end happens once")

	assert.Zero(t, s.Scheduler.Len())
	assert.Zero(t, s.Enemies.Len())
	assert.Zero(t, s.Projectiles.Len())
	assert.Zero(t, s.Ores.Len())
	assert.Zero(t, s.Health.Len())
	assert.Equal(t, 1, log.count(domain.EventSessionEnded))

	// Тики после конца ничего не меняют
	elapsed := s.ElapsedMs
	s.Tick(testTick, domain.Vec2{X: 1})
	assert.Equal(t, elapsed, s.ElapsedMs)
}

func TestSession_ReloadUpgradeReschedulesFire(t *testing.T) {
	s, _ := newTestSession(t, domain.StartParams{Ammo: 5}, nil)

	s.ApplyUpgrade(domain.UpgradeReload)
	assert.InDelta(t, 0.9, s.Upgrades.BulletRateMultiplier, 1e-9)
	assert.True(t, s.Scheduler.Has(s.fireTimer))

	var fireDue int64
	for _, item := range s.Scheduler.DebugDump() {
		if item["name"] == timerFire {
			fireDue = item["dueMs"].(int64)
		}
	}
	assert.Equal(t, int64(900), fireDue)
}

func TestSession_AmmoNeverGrows(t *testing.T) {
	opts := config.DefaultOptions()
	s := NewSession("ammo", opts, domain.StartParams{Ammo: 15, Seed: 7}, nil, nil)

	prev := 15
	input := func(tick int64, g *GameSession) domain.Vec2 {
		if g.Ammo > prev {
			t.Fatalf("ammo grew from %d to %d at tick %d", prev, g.Ammo, tick)
		}
		if g.Ammo < 0 {
			t.Fatalf("ammo went negative at tick %d", tick)
		}
		prev = g.Ammo
		// Медленный круг, чтобы подбирать руду и уходить от врагов
		return domain.FromAngle(float64(tick)/120, 1)
	}

	summary, err := Simulate(s, input, 10000)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, summary.AmmoRemaining, 0)
	// Патроны тратятся только на промахи; промах при нуле уже ничего не стоит
	assert.LessOrEqual(t, summary.AmmoSpent(), summary.Misses)
}
