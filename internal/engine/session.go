package engine

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/DivyanshGoel20/token-strike/internal/config"
	"github.com/DivyanshGoel20/token-strike/internal/domain"
	"github.com/DivyanshGoel20/token-strike/internal/systems"
	"github.com/DivyanshGoel20/token-strike/pkg/api"
	"github.com/DivyanshGoel20/token-strike/pkg/logger"
	"github.com/DivyanshGoel20/token-strike/pkg/utils"

	"github.com/sirupsen/logrus"
)

var (
	ErrSessionNotFound   = errors.New("session not found")
	ErrSessionNotRunning = errors.New("session is not running")
	ErrInvalidPhase      = errors.New("invalid session phase for this operation")
)

// Имена таймеров (видны в /debug/timers)
const (
	timerEnemySpawn = "enemy_spawn"
	timerOreSpawn   = "ore_spawn"
	timerFire       = "fire"
	timerMiss       = "miss_timeout"
	timerInvuln     = "invulnerability"
)

// sessionStats - счётчики для итога партии
type sessionStats struct {
	ShotsFired    int
	Hits          int
	Misses        int
	Kills         int
	OresCollected int
	BurstSpawned  int
	LastBurst     int
	Upgrades      []string
}

// GameSession - одна партия. Единственный владелец всего игрового состояния.
// Не потокобезопасна: все вызовы идут из одного потока (горутины сессии).
type GameSession struct {
	ID      string
	Phase   domain.Phase
	Options config.Options
	Seed    int64

	Bounds   domain.Rect
	Player   *domain.Player
	Upgrades domain.UpgradeState
	Economy  systems.Economy
	Waves    systems.WaveTracker

	Enemies     *Arena[domain.Enemy]
	Projectiles *Arena[domain.Projectile]
	Ores        *Arena[domain.Ore]
	Health      *systems.HealthTable

	Ammo         int
	InitialAmmo  int
	BulletDamage float64
	Tags         []string

	Scheduler *Scheduler
	fireTimer TimerID
	invTimer  TimerID

	ElapsedMs int64
	TickCount int64
	EndReason domain.EndReason

	Replay *domain.ReplaySession
	Logs   []api.LogEntry

	rng   *rand.Rand
	sink  domain.EventSink
	log   *logrus.Entry
	stats sessionStats
}

// NewSession создает сессию в состоянии Initializing.
// rng == nil означает генератор от params.Seed (0 = случайный сид).
func NewSession(id string, opts config.Options, params domain.StartParams, rng *rand.Rand, sink domain.EventSink) *GameSession {
	seed := params.Seed
	if rng == nil {
		rng, seed = utils.NewRand(params.Seed)
	}

	ammo := params.Ammo
	if ammo < 0 {
		ammo = 0
	}

	tags := make([]string, len(params.Tags))
	copy(tags, params.Tags)

	s := &GameSession{
		ID:           id,
		Phase:        domain.PhaseInitializing,
		Options:      opts,
		Seed:         seed,
		Bounds:       domain.WorldBounds(opts.MapWidth, opts.MapHeight),
		Ammo:         ammo,
		InitialAmmo:  ammo,
		BulletDamage: systems.NormalizeBulletDamage(params.BulletDamage),
		Tags:         tags,
		Enemies:      NewArena[domain.Enemy](domain.KindEnemy),
		Projectiles:  NewArena[domain.Projectile](domain.KindProjectile),
		Ores:         NewArena[domain.Ore](domain.KindOre),
		Health:       systems.NewHealthTable(),
		Scheduler:    NewScheduler(),
		Logs:         []api.LogEntry{},
		rng:          rng,
		sink:         sink,
		log:          logger.ForSession("game_session", id),
	}
	s.Replay = &domain.ReplaySession{
		SessionID:    id,
		Seed:         seed,
		InitialAmmo:  ammo,
		BulletDamage: s.BulletDamage,
		TickMs:       int(opts.TickInterval.Milliseconds()),
		Timestamp:    time.Now().Unix(),
		Tags:         tags,
		Frames:       make([]domain.ReplayFrame, 0),
	}
	return s
}

// Start переводит сессию Initializing -> Running: сброс состояния, игрок в центре карты,
// регистрация периодических таймеров.
func (s *GameSession) Start() error {
	if s.Phase != domain.PhaseInitializing {
		return fmt.Errorf("start session %s in phase %s: %w", s.ID, s.Phase, ErrInvalidPhase)
	}

	s.Upgrades = domain.DefaultUpgrades()
	s.Economy = systems.NewEconomy(s.Options.OresPerUpgrade)
	s.Waves = systems.NewWaveTracker(s.Options.WaveMinutesPerWave)
	s.Player = domain.NewPlayer(s.Bounds.Center(), s.Options.PlayerMaxHealth)
	s.Enemies.Clear()
	s.Projectiles.Clear()
	s.Ores.Clear()
	s.Health.Reset()
	s.Scheduler = NewScheduler()
	s.ElapsedMs = 0
	s.TickCount = 0
	s.stats = sessionStats{Upgrades: []string{}}

	s.Phase = domain.PhaseRunning

	s.Scheduler.Every(timerEnemySpawn, s.Options.EnemyRate, s.spawnEnemy)
	s.Scheduler.Every(timerOreSpawn, s.Options.OreRate, s.spawnOre)
	s.fireTimer = s.Scheduler.Every(timerFire, s.fireInterval(), s.fireTick)

	s.log.WithFields(logrus.Fields{
		"seed":   s.Seed,
		"ammo":   s.Ammo,
		"damage": s.BulletDamage,
		"tags":   len(s.Tags),
	}).Info("Session started")

	s.emit(domain.Event{Type: domain.EventSessionStarted})
	s.emit(domain.Event{Type: domain.EventWaveChanged, Wave: s.Waves.Current})
	s.AddLog(fmt.Sprintf("Wave %d", s.Waves.Current), LogWave)
	return nil
}

func (s *GameSession) running() bool {
	return s.Phase == domain.PhaseRunning
}

func (s *GameSession) fireInterval() time.Duration {
	return systems.FireInterval(s.Options.BulletRate, s.Upgrades.BulletRateMultiplier)
}

// Tick - один кадр симуляции. input - сырой вектор ввода, нормализуется здесь.
func (s *GameSession) Tick(dt time.Duration, input domain.Vec2) {
	if !s.running() {
		return
	}

	s.TickCount++
	s.ElapsedMs += dt.Milliseconds()
	s.Replay.Record(s.TickCount, input)

	// 1. Таймеры: спавн, стрельба, таймауты промахов, конец неуязвимости
	s.Scheduler.Advance(s.ElapsedMs)
	if !s.running() {
		return
	}

	// 2. Движение
	move := systems.NormalizeInput(input.X, input.Y)
	s.Player.Vel = systems.PlayerVelocity(move, s.Options.PlayerSpeed, s.Upgrades.SpeedMultiplier)
	s.Player.Pos = systems.ClampToBounds(
		systems.Integrate(s.Player.Pos, s.Player.Vel, dt), s.Bounds, domain.PlayerHitbox/2)

	enemies := s.Enemies.Values()
	systems.SteerEnemies(enemies, s.Player.Pos, s.Options.EnemySpeed)
	for _, e := range enemies {
		e.Pos = systems.Integrate(e.Pos, e.Vel, dt)
	}

	// 3. Пули: полёт, вылет за карту, попадания
	for _, p := range s.Projectiles.Values() {
		p.Pos = systems.Integrate(p.Pos, p.Vel, dt)
		if systems.IsOutOfBounds(p.Pos, s.Bounds, s.Options.MissBoundsMargin) {
			s.resolveMiss(p)
			continue
		}
		if target := systems.FirstOverlappingEnemy(p.Pos, domain.ProjectileHitbox, s.Enemies.Values()); target != nil {
			s.resolveHit(p, target)
		}
	}

	// 4. Контакт игрока с врагами
	if systems.AnyEnemyOverlaps(s.Player.Pos, domain.PlayerHitbox, s.Enemies.Values()) {
		s.TakeDamage()
		if !s.running() {
			return
		}
	}

	// 5. Подбор руды
	for _, o := range s.Ores.Values() {
		if systems.Overlaps(s.Player.Pos, domain.PlayerHitbox, o.Pos, domain.OreHitbox) {
			s.collectOre(o)
		}
	}

	// 6. Волна
	if wave, changed := s.Waves.Advance(s.ElapsedMs); changed {
		s.emit(domain.Event{Type: domain.EventWaveChanged, Wave: wave})
		s.AddLog(fmt.Sprintf("Wave %d", wave), LogWave)
		s.burstSpawn(wave)
	}

	// 7. Патроны кончились и в полёте нет пуль, которые ещё могут попасть
	if s.Ammo <= 0 && s.stats.ShotsFired > 0 && s.Projectiles.Len() == 0 {
		s.End(domain.EndAmmoDepleted)
	}
}

// fireTick - периодический выстрел по ближайшему врагу
func (s *GameSession) fireTick() {
	if !s.running() {
		return
	}
	if s.Ammo <= 0 {
		s.End(domain.EndAmmoDepleted)
		return
	}

	target := systems.NearestEnemy(s.Player.Pos, s.Enemies.Values())
	if target == nil {
		return
	}

	vels := systems.FireVolley(s.Player.Pos, target.Pos, s.Upgrades.BulletsPerShot,
		s.Options.BulletSpeed, s.Options.MultishotSpread)
	for _, v := range vels {
		p := &domain.Projectile{
			Pos:       s.Player.Pos,
			Vel:       v,
			TargetID:  target.ID,
			TargetPos: target.Pos,
			FiredAt:   s.Scheduler.Now(),
			Alive:     true,
		}
		id := s.Projectiles.Alloc(p)
		p.ID = id
		p.MissTimer = s.Scheduler.After(timerMiss, s.Options.MissTimeout, func() { s.onMissTimeout(id) })
		s.stats.ShotsFired++
	}
}

func (s *GameSession) onMissTimeout(id domain.EntityID) {
	if !s.running() {
		return
	}
	if p := s.Projectiles.Get(id); p != nil {
		s.resolveMiss(p)
	}
}

// resolveMiss: промах стоит ровно один патрон
func (s *GameSession) resolveMiss(p *domain.Projectile) {
	if !systems.ResolveMiss(p, &s.Ammo) {
		return
	}
	s.Scheduler.Cancel(p.MissTimer)
	s.Projectiles.Free(p.ID)
	s.stats.Misses++
	s.emit(domain.Event{Type: domain.EventProjectileMissed, EntityID: p.ID})
}

// resolveHit: попадание бесплатно, урон идёт в таблицу здоровья
func (s *GameSession) resolveHit(p *domain.Projectile, enemy *domain.Enemy) {
	if !systems.ResolveHit(p) {
		return
	}
	s.Scheduler.Cancel(p.MissTimer)
	s.Projectiles.Free(p.ID)
	s.stats.Hits++

	damage := systems.ShotDamage(s.BulletDamage, s.Upgrades.DamageBonus)
	if _, killed := systems.ApplyProjectileHit(s.Health, enemy.ID, damage); killed {
		enemy.Alive = false
		s.Enemies.Free(enemy.ID)
		s.stats.Kills++
		s.emit(domain.Event{Type: domain.EventEnemyKilled, EntityID: enemy.ID})
	}
}

func (s *GameSession) spawnEnemy() {
	if !s.running() {
		return
	}
	ring := systems.SpawnRing{
		MinDistance: s.Options.EnemySpawnMin,
		MaxDistance: s.Options.EnemySpawnMax,
		Margin:      s.Options.SpawnMargin,
	}
	s.addEnemy(systems.SpawnPoint(s.rng, s.Player.Pos, ring, s.Bounds))
}

func (s *GameSession) addEnemy(pos domain.Vec2) domain.EntityID {
	e := &domain.Enemy{
		Pos:   pos,
		Tag:   systems.PickTag(s.rng, s.Tags),
		Alive: true,
	}
	id := s.Enemies.Alloc(e)
	e.ID = id
	e.Vel = systems.VelocityToward(pos, s.Player.Pos, s.Options.EnemySpeed)
	s.Health.Set(id, systems.RollEnemyHealth(s.rng, s.Options.EnemyMaxHealth))
	return id
}

func (s *GameSession) spawnOre() {
	if !s.running() {
		return
	}
	ring := systems.SpawnRing{
		MinDistance: s.Options.OreSpawnMin,
		MaxDistance: s.Options.OreSpawnMax,
		Margin:      s.Options.SpawnMargin,
	}
	o := &domain.Ore{Pos: systems.SpawnPoint(s.rng, s.Player.Pos, ring, s.Bounds), Alive: true}
	o.ID = s.Ores.Alloc(o)
}

// burstSpawn - волна врагов по кругу вокруг игрока
func (s *GameSession) burstSpawn(wave int) int {
	points := systems.BurstPoints(s.Player.Pos, systems.BurstSize(wave),
		s.Options.BurstRadius, s.Bounds, s.Options.SpawnMargin)
	for _, pt := range points {
		s.addEnemy(pt)
	}
	s.stats.BurstSpawned += len(points)
	s.stats.LastBurst = len(points)

	s.log.WithFields(logrus.Fields{"wave": wave, "count": len(points)}).Info("Wave burst spawned")
	return len(points)
}

func (s *GameSession) collectOre(o *domain.Ore) {
	if !s.Ores.Free(o.ID) {
		return
	}
	o.Alive = false
	s.stats.OresCollected++
	if s.Economy.Collect() {
		s.ApplyUpgrade(systems.RollUpgrade(s.rng))
	}
}

// ApplyUpgrade применяет улучшение. Перезарядка перерегистрирует таймер стрельбы.
func (s *GameSession) ApplyUpgrade(kind domain.UpgradeKind) {
	if !s.running() || kind == domain.UpgradeUnknown {
		return
	}
	eff := systems.ApplyUpgrade(&s.Upgrades, s.Player, kind)
	if eff.RateChanged {
		s.Scheduler.Reschedule(s.fireTimer, s.fireInterval())
	}
	s.stats.Upgrades = append(s.stats.Upgrades, kind.String())

	s.emit(domain.Event{Type: domain.EventUpgradeApplied, Upgrade: kind.String()})
	s.AddLog("Upgrade: "+kind.String(), LogUpgrade)
}

// GrantUpgrade - улучшение по команде, а не за руду. Пишется в реплей,
// чтобы пересчёт партии применил его на том же тике.
func (s *GameSession) GrantUpgrade(kind domain.UpgradeKind) {
	if !s.running() || kind == domain.UpgradeUnknown {
		return
	}
	s.Replay.RecordGrant(s.TickCount, kind)
	s.ApplyUpgrade(kind)
}

// TakeDamage - контакт игрока с врагом. Во время неуязвимости ничего не делает.
func (s *GameSession) TakeDamage() {
	if !s.running() {
		return
	}
	damaged, died := systems.ApplyContactDamage(s.Player, s.Scheduler.Now(), s.Options.Invulnerability.Milliseconds())
	if !damaged {
		return
	}

	s.Scheduler.Cancel(s.invTimer)
	s.invTimer = s.Scheduler.After(timerInvuln, s.Options.Invulnerability, func() {
		if !s.running() {
			return
		}
		systems.ClearInvulnerability(s.Player)
	})

	s.emit(domain.Event{Type: domain.EventPlayerDamaged})
	if died {
		s.End(domain.EndHealthDepleted)
	}
}

// End переводит Running -> GameOver ровно один раз: снимает все таймеры,
// очищает сущности и отправляет SessionEnded.
func (s *GameSession) End(reason domain.EndReason) bool {
	if !s.running() {
		return false
	}
	s.Phase = domain.PhaseGameOver
	s.EndReason = reason

	s.Scheduler.CancelAll()
	s.Enemies.Clear()
	s.Projectiles.Clear()
	s.Ores.Clear()
	s.Health.Reset()

	summary := s.Summary()
	s.log.WithFields(logrus.Fields{
		"reason":     reason,
		"elapsed_ms": s.ElapsedMs,
		"wave":       s.Waves.Current,
		"ammo_spent": summary.AmmoSpent(),
		"kills":      summary.Kills,
	}).Info("Session ended")

	s.AddLog("Game over: "+string(reason), LogSystem)
	s.emit(domain.Event{Type: domain.EventSessionEnded, Reason: reason, Summary: &summary})
	return true
}

// Summary - итог партии на текущий момент
func (s *GameSession) Summary() domain.RunSummary {
	upgrades := make([]string, len(s.stats.Upgrades))
	copy(upgrades, s.stats.Upgrades)
	return domain.RunSummary{
		SessionID:     s.ID,
		Seed:          s.Seed,
		InitialAmmo:   s.InitialAmmo,
		AmmoRemaining: s.Ammo,
		BulletDamage:  s.BulletDamage,
		ShotsFired:    s.stats.ShotsFired,
		Hits:          s.stats.Hits,
		Misses:        s.stats.Misses,
		Kills:         s.stats.Kills,
		OresCollected: s.stats.OresCollected,
		Upgrades:      upgrades,
		Wave:          s.Waves.Current,
		ElapsedMs:     s.ElapsedMs,
		Reason:        s.EndReason,
	}
}

func (s *GameSession) emit(ev domain.Event) {
	ev.SessionID = s.ID
	ev.Tick = s.TickCount
	ev.ElapsedMs = s.ElapsedMs
	ev.Ammo = s.Ammo
	if s.Player != nil {
		ev.Health = s.Player.Health
	}
	if s.sink != nil {
		s.sink(ev)
	}
}
