package domain

import "fmt"

// Phase - состояние конечного автомата сессии
type Phase uint8

const (
	PhaseInitializing Phase = iota
	PhaseRunning
	PhaseGameOver
)

func (p Phase) String() string {
	switch p {
	case PhaseInitializing:
		return "INITIALIZING"
	case PhaseRunning:
		return "RUNNING"
	case PhaseGameOver:
		return "GAME_OVER"
	default:
		return "UNKNOWN"
	}
}

func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *Phase) UnmarshalText(text []byte) error {
	switch string(text) {
	case "INITIALIZING":
		*p = PhaseInitializing
	case "RUNNING":
		*p = PhaseRunning
	case "GAME_OVER":
		*p = PhaseGameOver
	default:
		return fmt.Errorf("unknown phase %q", text)
	}
	return nil
}

// EndReason - почему сессия закончилась
type EndReason string

const (
	EndHealthDepleted EndReason = "HEALTH_DEPLETED"
	EndAmmoDepleted   EndReason = "AMMO_DEPLETED"
	EndAborted        EndReason = "ABORTED"
)

// RunSummary - итог партии. Уходит во внешний учёт (ledger) при GameOver.
type RunSummary struct {
	SessionID     string    `json:"sessionId"`
	Seed          int64     `json:"seed"`
	InitialAmmo   int       `json:"initialAmmo"`
	AmmoRemaining int       `json:"ammoRemaining"`
	BulletDamage  float64   `json:"bulletDamage"`
	ShotsFired    int       `json:"shotsFired"`
	Hits          int       `json:"hits"`
	Misses        int       `json:"misses"`
	Kills         int       `json:"kills"`
	OresCollected int       `json:"oresCollected"`
	Upgrades      []string  `json:"upgrades"`
	Wave          int       `json:"wave"`
	ElapsedMs     int64     `json:"elapsedMs"`
	Reason        EndReason `json:"reason"`
}

// AmmoSpent - сколько патронов ушло в промахи
func (r RunSummary) AmmoSpent() int {
	return r.InitialAmmo - r.AmmoRemaining
}

// StartParams - то, что окружение передаёт сессии на старте
type StartParams struct {
	Ammo         int
	BulletDamage float64
	Tags         []string
	Seed         int64 // 0 = случайный
}
