package agent

import (
	"context"
	"fmt"

	"github.com/DivyanshGoel20/token-strike/internal/domain"
	"github.com/DivyanshGoel20/token-strike/internal/engine"
	"github.com/DivyanshGoel20/token-strike/pkg/api"
	"github.com/DivyanshGoel20/token-strike/pkg/logger"

	"github.com/sirupsen/logrus"
)

// Kiter - автопилот "держи дистанцию": убегает от ближних врагов,
// отталкивается от краёв карты, в спокойное время собирает руду.
// Стреляет сессия сама, автопилот только двигает игрока.
type Kiter struct {
	DangerRadius float64 // враги ближе этого отталкивают
	WallMargin   float64 // края карты ближе этого отталкивают
	HomeRadius   float64 // дальше этого от центра без дела идём к центру
}

func NewKiter() Kiter {
	return Kiter{
		DangerRadius: 260,
		WallMargin:   160,
		HomeRadius:   250,
	}
}

// Steer реализует engine.Autopilot. Вызывается в потоке сессии.
func (k Kiter) Steer(s *engine.GameSession) domain.Vec2 {
	if s.Player == nil {
		return domain.Vec2{}
	}
	me := s.Player.Pos

	// --- ШАГ 1: ОТТАЛКИВАНИЕ ОТ ВРАГОВ ---
	var push domain.Vec2
	for _, e := range s.EnemyPositions() {
		d := me.DistanceTo(e)
		if d == 0 || d > k.DangerRadius {
			continue
		}
		weight := (k.DangerRadius - d) / k.DangerRadius
		push = push.Add(me.Sub(e).Normalize().Scale(weight))
	}

	// --- ШАГ 2: КРАЯ КАРТЫ ---
	// Загнанный в угол игрок умирает, поэтому стены тоже отталкивают
	if push.Len() > 0 {
		push = push.Add(k.wallPush(me, s.Bounds))
	}
	if push.Len() > 0.05 {
		return push.Normalize()
	}

	// --- ШАГ 3: РУДА ---
	if ore, ok := nearest(me, s.OrePositions()); ok {
		return ore.Sub(me).Normalize()
	}

	// --- ШАГ 4: ДОМОЙ, В ЦЕНТР ---
	center := s.Bounds.Center()
	if me.DistanceTo(center) > k.HomeRadius {
		return center.Sub(me).Normalize()
	}
	return domain.Vec2{}
}

func (k Kiter) wallPush(p domain.Vec2, b domain.Rect) domain.Vec2 {
	var v domain.Vec2
	if d := p.X - b.X; d < k.WallMargin {
		v.X += (k.WallMargin - d) / k.WallMargin
	}
	if d := b.X + b.W - p.X; d < k.WallMargin {
		v.X -= (k.WallMargin - d) / k.WallMargin
	}
	if d := p.Y - b.Y; d < k.WallMargin {
		v.Y += (k.WallMargin - d) / k.WallMargin
	}
	if d := b.Y + b.H - p.Y; d < k.WallMargin {
		v.Y -= (k.WallMargin - d) / k.WallMargin
	}
	return v
}

func nearest(from domain.Vec2, points []domain.Vec2) (domain.Vec2, bool) {
	best := -1.0
	var out domain.Vec2
	for _, p := range points {
		if d := from.DistanceSquaredTo(p); best < 0 || d < best {
			best = d
			out = p
		}
	}
	return out, best >= 0
}

// Bot - партия, которую играет автопилот на живом сервере.
// Подписывается на свою сессию в хабе, как обычный клиент, и пишет события в лог.
type Bot struct {
	Service *engine.GameService
	Pilot   engine.Autopilot
	Params  domain.StartParams

	log *logrus.Entry
}

func NewBot(service *engine.GameService, pilot engine.Autopilot, params domain.StartParams) *Bot {
	return &Bot{
		Service: service,
		Pilot:   pilot,
		Params:  params,
		log:     logger.Component("bot"),
	}
}

// Run запускает партию и ждёт её конца (или отмены ctx - тогда партия прерывается).
// Возвращает последнюю телеметрию.
func (b *Bot) Run(ctx context.Context) (domain.Telemetry, error) {
	h, err := b.Service.StartAutopilotSession(b.Params, b.Pilot)
	if err != nil {
		return domain.Telemetry{}, fmt.Errorf("bot start: %w", err)
	}
	log := b.log.WithField("session_id", h.ID)
	log.Info("Bot session started")

	inbox := b.Service.Hub.Register(h.ID, "bot")
	defer b.Service.Hub.Unregister(h.ID, "bot")

	for {
		select {
		case msg, ok := <-inbox:
			if !ok {
				inbox = nil
				continue
			}
			b.observe(log, msg)

		case <-h.Done():
			t := h.Telemetry()
			log.WithFields(logrus.Fields{
				"wave":  t.Wave,
				"clock": t.Clock,
				"ammo":  t.Ammo,
			}).Info("Bot session finished")
			return t, nil

		case <-ctx.Done():
			_ = b.Service.StopSession(h.ID)
			<-h.Done()
			return h.Telemetry(), ctx.Err()
		}
	}
}

func (b *Bot) observe(log *logrus.Entry, msg api.ServerResponse) {
	if msg.Type != api.MsgEvent || msg.Event == nil {
		return
	}
	ev := msg.Event
	switch ev.Type {
	case domain.EventWaveChanged:
		log.WithField("wave", ev.Wave).Info("Bot reached new wave")
	case domain.EventUpgradeApplied:
		log.WithField("upgrade", ev.Upgrade).Info("Bot got upgrade")
	case domain.EventPlayerDamaged:
		log.WithField("health", ev.Health).Debug("Bot took damage")
	}
}
