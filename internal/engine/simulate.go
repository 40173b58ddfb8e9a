package engine

import (
	"fmt"
	"time"

	"github.com/DivyanshGoel20/token-strike/internal/domain"
)

// InputFunc выдаёт ввод на тик tick (нумерация с 1)
type InputFunc func(tick int64, s *GameSession) domain.Vec2

// Simulate прогоняет сессию без реального времени, пока она не закончится
// или не пройдет maxTicks кадров. Сессия должна быть в Initializing.
func Simulate(s *GameSession, input InputFunc, maxTicks int64) (domain.RunSummary, error) {
	return simulate(s, input, nil, maxTicks)
}

// between вызывается перед каждым тиком, как команды в потоке живой сессии
func simulate(s *GameSession, input InputFunc, between func(*GameSession), maxTicks int64) (domain.RunSummary, error) {
	if err := s.Start(); err != nil {
		return domain.RunSummary{}, err
	}

	dt := s.Options.TickInterval
	for s.running() && s.TickCount < maxTicks {
		if between != nil {
			between(s)
			if !s.running() {
				break
			}
		}
		var in domain.Vec2
		if input != nil {
			in = input(s.TickCount+1, s)
		}
		s.Tick(dt, in)
	}

	if s.running() {
		s.End(domain.EndAborted)
	}
	return s.Summary(), nil
}

// ReplayInput проигрывает записанную ленту ввода
func ReplayInput(r *domain.ReplaySession) InputFunc {
	return func(tick int64, _ *GameSession) domain.Vec2 {
		return r.InputAt(tick)
	}
}

// replayGrants выдаёт записанные улучшения после тика, на котором их выдали
func replayGrants(r *domain.ReplaySession) func(*GameSession) {
	next := 0
	return func(s *GameSession) {
		for next < len(r.Grants) && r.Grants[next].Tick <= s.TickCount {
			s.GrantUpgrade(r.Grants[next].Upgrade)
			next++
		}
	}
}

// PilotInput превращает Autopilot в InputFunc
func PilotInput(p Autopilot) InputFunc {
	return func(_ int64, s *GameSession) domain.Vec2 {
		return p.Steer(s)
	}
}

// Rerun пересчитывает партию по реплею с теми же параметрами старта.
// При одинаковом сиде результат совпадает с оригиналом.
func Rerun(opts Config, r *domain.ReplaySession, maxTicks int64) (domain.RunSummary, error) {
	if r == nil {
		return domain.RunSummary{}, fmt.Errorf("rerun: nil replay")
	}
	game := opts.Game
	if r.TickMs > 0 {
		game.TickInterval = time.Duration(r.TickMs) * time.Millisecond
	}
	params := domain.StartParams{
		Ammo:         r.InitialAmmo,
		BulletDamage: r.BulletDamage,
		Tags:         r.Tags,
		Seed:         r.Seed,
	}
	s := NewSession(r.SessionID, game, params, nil, nil)
	return simulate(s, ReplayInput(r), replayGrants(r), maxTicks)
}
