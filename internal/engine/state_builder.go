package engine

import (
	"github.com/DivyanshGoel20/token-strike/internal/domain"
	"github.com/DivyanshGoel20/token-strike/pkg/api"
)

// Telemetry собирает read-only срез для HUD
func (s *GameSession) Telemetry() domain.Telemetry {
	t := domain.Telemetry{
		SessionID:   s.ID,
		Phase:       s.Phase,
		Tick:        s.TickCount,
		ElapsedMs:   s.ElapsedMs,
		Clock:       domain.FormatElapsed(s.ElapsedMs),
		Ammo:        s.Ammo,
		Wave:        s.Waves.Current,
		Ores:        s.Economy.Collected,
		Enemies:     s.Enemies.Len(),
		Projectiles: s.Projectiles.Len(),
		Upgrades:    s.Upgrades,
	}
	if t.Wave == 0 {
		t.Wave = 1
	}
	if s.Player != nil {
		t.Health = s.Player.Health
		t.MaxHealth = s.Player.MaxHealth
		t.Player = s.Player.Pos
	}
	return t
}

// Snapshot - все сущности сессии (для отладки и тонкого клиента)
func (s *GameSession) Snapshot() api.SnapshotView {
	view := api.SnapshotView{
		SessionID: s.ID,
		Tick:      s.TickCount,
		// Инициализируем как пустые слайсы, а не nil. Тогда в JSON это будет "[]", а не "null"
		Enemies:     make([]api.EntityView, 0, s.Enemies.Len()),
		Projectiles: make([]api.EntityView, 0, s.Projectiles.Len()),
		Ores:        make([]api.EntityView, 0, s.Ores.Len()),
	}
	if s.Player != nil {
		view.Player = s.Player.Pos
	}

	for _, e := range s.Enemies.Values() {
		ev := api.EntityView{ID: e.ID.String(), Kind: e.ID.Kind().String(), Pos: e.Pos, Tag: e.Tag}
		if hp, ok := s.Health.Get(e.ID); ok {
			ev.Health = &hp
		}
		view.Enemies = append(view.Enemies, ev)
	}
	for _, p := range s.Projectiles.Values() {
		view.Projectiles = append(view.Projectiles, api.EntityView{
			ID:     p.ID.String(),
			Kind:   p.ID.Kind().String(),
			Pos:    p.Pos,
			Target: p.TargetID.String(),
		})
	}
	for _, o := range s.Ores.Values() {
		view.Ores = append(view.Ores, api.EntityView{ID: o.ID.String(), Kind: o.ID.Kind().String(), Pos: o.Pos})
	}
	return view
}

// EnemyPositions - позиции живых врагов (для автопилота)
func (s *GameSession) EnemyPositions() []domain.Vec2 {
	out := make([]domain.Vec2, 0, s.Enemies.Len())
	for _, e := range s.Enemies.Values() {
		out = append(out, e.Pos)
	}
	return out
}

// OrePositions - позиции руды на карте
func (s *GameSession) OrePositions() []domain.Vec2 {
	out := make([]domain.Vec2, 0, s.Ores.Len())
	for _, o := range s.Ores.Values() {
		out = append(out, o.Pos)
	}
	return out
}
