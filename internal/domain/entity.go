package domain

// ProjectileOutcome - терминальное состояние снаряда
type ProjectileOutcome uint8

const (
	OutcomePending ProjectileOutcome = iota
	OutcomeHit
	OutcomeMiss
)

func (o ProjectileOutcome) String() string {
	switch o {
	case OutcomeHit:
		return "HIT"
	case OutcomeMiss:
		return "MISS"
	default:
		return "PENDING"
	}
}

// Player - единственный игрок сессии. Принадлежит GameSession.
type Player struct {
	Pos       Vec2 `json:"pos"`
	Vel       Vec2 `json:"vel"`
	Health    int  `json:"health"`
	MaxHealth int  `json:"maxHealth"`

	SpeedMultiplier float64 `json:"speedMultiplier"`

	// Invulnerable снимается отложенным таймером сессии.
	Invulnerable      bool  `json:"invulnerable"`
	InvulnerableUntil int64 `json:"invulnerableUntil"` // мс от старта сессии
}

// NewPlayer создает игрока с полным здоровьем
func NewPlayer(pos Vec2, maxHealth int) *Player {
	if maxHealth < 1 {
		maxHealth = 1
	}
	return &Player{
		Pos:             pos,
		Health:          maxHealth,
		MaxHealth:       maxHealth,
		SpeedMultiplier: 1,
	}
}

// Enemy - враг. Здоровье хранится отдельно, в таблице сессии по ID.
type Enemy struct {
	ID    EntityID `json:"id"`
	Pos   Vec2     `json:"pos"`
	Vel   Vec2     `json:"vel"`
	Tag   string   `json:"tag"` // визуальный ключ, на логику не влияет
	Alive bool     `json:"alive"`
}

// Projectile - пуля. Цель фиксируется в момент выстрела и больше не меняется.
type Projectile struct {
	ID        EntityID          `json:"id"`
	Pos       Vec2              `json:"pos"`
	Vel       Vec2              `json:"vel"`
	TargetID  EntityID          `json:"targetId"`
	TargetPos Vec2              `json:"targetPos"`
	FiredAt   int64             `json:"firedAt"`
	Alive     bool              `json:"alive"`
	Outcome   ProjectileOutcome `json:"outcome"`

	// HasHitEnemy выставляется один раз и никогда не сбрасывается.
	HasHitEnemy bool `json:"hasHitEnemy"`

	// MissTimer - ID таймера промаха в планировщике сессии.
	MissTimer uint64 `json:"-"`
}

// MarkHit переводит снаряд в Hit. Возвращает false, если он уже в терминальном состоянии.
func (p *Projectile) MarkHit() bool {
	if p.Outcome != OutcomePending || p.HasHitEnemy {
		return false
	}
	p.HasHitEnemy = true
	p.Outcome = OutcomeHit
	p.Alive = false
	return true
}

// MarkMiss переводит снаряд в Miss. Попавший снаряд промахнуться не может.
func (p *Projectile) MarkMiss() bool {
	if p.Outcome != OutcomePending || p.HasHitEnemy {
		return false
	}
	p.Outcome = OutcomeMiss
	p.Alive = false
	return true
}

// Ore - руда, подбирается игроком
type Ore struct {
	ID    EntityID `json:"id"`
	Pos   Vec2     `json:"pos"`
	Alive bool     `json:"alive"`
}
