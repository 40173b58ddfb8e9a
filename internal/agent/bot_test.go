package agent

import (
	"context"
	"testing"
	"time"

	"github.com/DivyanshGoel20/token-strike/internal/config"
	"github.com/DivyanshGoel20/token-strike/internal/domain"
	"github.com/DivyanshGoel20/token-strike/internal/engine"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startedSession(t *testing.T) *engine.GameSession {
	t.Helper()
	s := engine.NewSession("bot-test", config.DefaultOptions(), domain.StartParams{Ammo: 5, Seed: 11}, nil, nil)
	require.NoError(t, s.Start())
	return s
}

func addEnemy(s *engine.GameSession, pos domain.Vec2) {
	e := &domain.Enemy{Pos: pos, Alive: true}
	e.ID = s.Enemies.Alloc(e)
}

func TestKiter_FleesFromEnemies(t *testing.T) {
	s := startedSession(t)
	addEnemy(s, s.Player.Pos.Add(domain.Vec2{X: 100}))

	v := NewKiter().Steer(s)
	assert.Less(t, v.X, 0.0, "run left, away from the enemy on the right")
	assert.InDelta(t, 1.0, v.Len(), 1e-9)
}

func TestKiter_IgnoresFarEnemiesAndCollectsOre(t *testing.T) {
	s := startedSession(t)
	addEnemy(s, s.Player.Pos.Add(domain.Vec2{X: 900}))
	ore := &domain.Ore{Pos: s.Player.Pos.Add(domain.Vec2{Y: -300}), Alive: true}
	ore.ID = s.Ores.Alloc(ore)

	v := NewKiter().Steer(s)
	assert.InDelta(t, 0.0, v.X, 1e-9)
	assert.InDelta(t, -1.0, v.Y, 1e-9)
}

func TestKiter_CornerDoesNotTrap(t *testing.T) {
	s := startedSession(t)
	s.Player.Pos = domain.Vec2{X: 40, Y: 1000}
	addEnemy(s, domain.Vec2{X: 140, Y: 1000})

	v := NewKiter().Steer(s)
	// Враг справа, стена слева: уходим вдоль стены, а не в неё
	assert.GreaterOrEqual(t, v.X, 0.0)
}

func TestKiter_ReturnsHomeWhenIdle(t *testing.T) {
	s := startedSession(t)
	s.Player.Pos = domain.Vec2{X: 1000, Y: 1600}

	v := NewKiter().Steer(s)
	assert.InDelta(t, -1.0, v.Y, 1e-9)

	s.Player.Pos = domain.Vec2{X: 1000, Y: 1100}
	assert.Equal(t, domain.Vec2{}, NewKiter().Steer(s))
}

func TestKiter_HeadlessRun(t *testing.T) {
	s := engine.NewSession("bot-run", config.DefaultOptions(), domain.StartParams{Ammo: 25, Seed: 5}, nil, nil)
	summary, err := engine.Simulate(s, engine.PilotInput(NewKiter()), 20000)
	require.NoError(t, err)
	assert.LessOrEqual(t, summary.AmmoSpent(), summary.Misses)
	assert.GreaterOrEqual(t, summary.AmmoRemaining, 0)
}

func TestBot_RunStopsOnCancel(t *testing.T) {
	svc := engine.NewService(engine.NewConfig())
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = svc.Shutdown(ctx)
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	tel, err := NewBot(svc, NewKiter(), domain.StartParams{Ammo: 50}).Run(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, domain.PhaseGameOver, tel.Phase)
}
