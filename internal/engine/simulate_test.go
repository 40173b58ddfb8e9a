package engine

import (
	"testing"

	"github.com/DivyanshGoel20/token-strike/internal/config"
	"github.com/DivyanshGoel20/token-strike/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func zigzag(tick int64, _ *GameSession) domain.Vec2 {
	switch (tick / 90) % 4 {
	case 0:
		return domain.Vec2{X: 1}
	case 1:
		return domain.Vec2{Y: 1}
	case 2:
		return domain.Vec2{X: -1}
	default:
		return domain.Vec2{Y: -1}
	}
}

func TestSimulate_SameSeedSameRun(t *testing.T) {
	opts := config.DefaultOptions()
	params := domain.StartParams{Ammo: 20, BulletDamage: 5, Tags: []string{"gold", "silver"}, Seed: 1234}

	a, err := Simulate(NewSession("a", opts, params, nil, nil), zigzag, 6000)
	require.NoError(t, err)
	b, err := Simulate(NewSession("b", opts, params, nil, nil), zigzag, 6000)
	require.NoError(t, err)

	a.SessionID, b.SessionID = "", ""
	assert.Equal(t, a, b)
	assert.NotZero(t, a.ElapsedMs)
}

func TestSimulate_MaxTicksAborts(t *testing.T) {
	s := NewSession("short", config.DefaultOptions(), domain.StartParams{Ammo: 100, Seed: 3}, nil, nil)

	summary, err := Simulate(s, nil, 10)
	require.NoError(t, err)
	assert.Equal(t, domain.EndAborted, summary.Reason)
	assert.Equal(t, int64(10), s.TickCount)
	assert.Equal(t, int64(160), summary.ElapsedMs)
}

func TestSimulate_RejectsStartedSession(t *testing.T) {
	s, _ := newTestSession(t, domain.StartParams{Ammo: 1}, nil)
	_, err := Simulate(s, nil, 10)
	assert.ErrorIs(t, err, ErrInvalidPhase)
}

func TestRerun_ReproducesRecordedRun(t *testing.T) {
	cfg := NewConfig()
	params := domain.StartParams{Ammo: 12, Tags: []string{"x"}, Seed: 99}

	s := NewSession("orig", cfg.Game, params, nil, nil)
	original, err := Simulate(s, zigzag, 5000)
	require.NoError(t, err)

	again, err := Rerun(cfg, s.Replay, 5000)
	require.NoError(t, err)
	assert.Equal(t, original, again)
}

func TestRerun_AppliesGrantedUpgrades(t *testing.T) {
	cfg := NewConfig()
	params := domain.StartParams{Ammo: 20, BulletDamage: 1, Seed: 77}

	// Живая сессия: улучшения выдаются командой между тиками
	s := NewSession("granted", cfg.Game, params, nil, nil)
	require.NoError(t, s.Start())
	s.GrantUpgrade(domain.UpgradeReload)
	for s.running() && s.TickCount < 6000 {
		if s.TickCount == 300 {
			s.GrantUpgrade(domain.UpgradeMultishot)
			s.GrantUpgrade(domain.UpgradeDamage)
		}
		s.Tick(cfg.Game.TickInterval, zigzag(s.TickCount+1, s))
	}
	if s.running() {
		s.End(domain.EndAborted)
	}
	original := s.Summary()

	require.Len(t, s.Replay.Grants, 3)
	assert.Equal(t, int64(0), s.Replay.Grants[0].Tick)
	assert.Equal(t, int64(300), s.Replay.Grants[1].Tick)

	again, err := Rerun(cfg, s.Replay, 6000)
	require.NoError(t, err)
	assert.Equal(t, original, again)
	assert.Contains(t, again.Upgrades, "MULTISHOT")
}
