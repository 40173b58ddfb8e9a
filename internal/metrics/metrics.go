// Package metrics публикует игровые счётчики через OpenTelemetry.
// Без установленного MeterProvider все инструменты no-op.
package metrics

import (
	"context"
	"fmt"

	"github.com/DivyanshGoel20/token-strike/internal/domain"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

const instrumentationName = "github.com/DivyanshGoel20/token-strike/internal/engine"

func meter() metric.Meter {
	return otel.Meter(instrumentationName)
}

// Recorder - набор инструментов движка
type Recorder struct {
	sessionsStarted metric.Int64Counter
	sessionsEnded   metric.Int64Counter
	shotsFired      metric.Int64Counter
	hits            metric.Int64Counter
	misses          metric.Int64Counter
	kills           metric.Int64Counter
	waves           metric.Int64Counter
	upgrades        metric.Int64Counter
	playerDamage    metric.Int64Counter

	activeSessions metric.Int64ObservableGauge
}

// New создает инструменты на глобальном meter.
// active - колбэк для gauge активных сессий, может быть nil.
func New(active func() int) (*Recorder, error) {
	return NewWithMeter(meter(), active)
}

// NewWithMeter создает инструменты на переданном meter (для тестов)
func NewWithMeter(m metric.Meter, active func() int) (*Recorder, error) {
	r := &Recorder{}

	counters := []struct {
		dst  *metric.Int64Counter
		name string
		desc string
	}{
		{&r.sessionsStarted, "tokenstrike.sessions.started", "Sessions moved to RUNNING"},
		{&r.sessionsEnded, "tokenstrike.sessions.ended", "Sessions moved to GAME_OVER"},
		{&r.shotsFired, "tokenstrike.shots.fired", "Projectiles spawned"},
		{&r.hits, "tokenstrike.shots.hit", "Projectiles resolved as hit"},
		{&r.misses, "tokenstrike.shots.missed", "Projectiles resolved as miss (ammo spent)"},
		{&r.kills, "tokenstrike.enemies.killed", "Enemies killed by projectiles"},
		{&r.waves, "tokenstrike.waves.reached", "Wave transitions"},
		{&r.upgrades, "tokenstrike.upgrades.applied", "Ore upgrades applied"},
		{&r.playerDamage, "tokenstrike.player.damaged", "Contact damage taken by players"},
	}

	var err error
	for _, c := range counters {
		*c.dst, err = m.Int64Counter(c.name, metric.WithDescription(c.desc))
		if err != nil {
			return nil, fmt.Errorf("creating %s counter: %w", c.name, err)
		}
	}

	r.activeSessions, err = m.Int64ObservableGauge(
		"tokenstrike.sessions.active",
		metric.WithDescription("Sessions currently running"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating active sessions gauge: %w", err)
	}

	if active != nil {
		_, err = m.RegisterCallback(
			func(ctx context.Context, o metric.Observer) error {
				o.ObserveInt64(r.activeSessions, int64(active()))
				return nil
			},
			r.activeSessions,
		)
		if err != nil {
			return nil, fmt.Errorf("registering active sessions callback: %w", err)
		}
	}

	return r, nil
}

// Noop - рекордер, который никуда не пишет
func Noop() *Recorder {
	r, _ := NewWithMeter(noop.NewMeterProvider().Meter(instrumentationName), nil)
	return r
}

// SessionStarted учитывает старт партии
func (r *Recorder) SessionStarted(ctx context.Context) {
	r.sessionsStarted.Add(ctx, 1)
}

// ObserveEvent переводит событие сессии в счётчики
func (r *Recorder) ObserveEvent(ctx context.Context, ev domain.Event) {
	switch ev.Type {
	case domain.EventEnemyKilled:
		r.kills.Add(ctx, 1)
	case domain.EventProjectileMissed:
		r.misses.Add(ctx, 1)
	case domain.EventWaveChanged:
		r.waves.Add(ctx, 1, metric.WithAttributes(attribute.Int("wave", ev.Wave)))
	case domain.EventUpgradeApplied:
		r.upgrades.Add(ctx, 1, metric.WithAttributes(attribute.String("upgrade", ev.Upgrade)))
	case domain.EventPlayerDamaged:
		r.playerDamage.Add(ctx, 1)
	case domain.EventSessionEnded:
		r.sessionsEnded.Add(ctx, 1, metric.WithAttributes(attribute.String("reason", string(ev.Reason))))
		if ev.Summary != nil {
			r.shotsFired.Add(ctx, int64(ev.Summary.ShotsFired))
			r.hits.Add(ctx, int64(ev.Summary.Hits))
		}
	}
}
