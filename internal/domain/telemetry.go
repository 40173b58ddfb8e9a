package domain

import "fmt"

// Telemetry - read-only срез сессии для интерфейса. Опрашивается, а не рассылается.
type Telemetry struct {
	SessionID   string       `json:"sessionId"`
	Phase       Phase        `json:"phase"`
	Tick        int64        `json:"tick"`
	ElapsedMs   int64        `json:"elapsedMs"`
	Clock       string       `json:"clock"`
	Health      int          `json:"health"`
	MaxHealth   int          `json:"maxHealth"`
	Ammo        int          `json:"ammo"`
	Wave        int          `json:"wave"`
	Ores        int          `json:"ores"`
	Enemies     int          `json:"enemies"`
	Projectiles int          `json:"projectiles"`
	Player      Vec2         `json:"player"`
	Upgrades    UpgradeState `json:"upgrades"`
}

// FormatElapsed форматирует время как MM:SS
func FormatElapsed(ms int64) string {
	if ms < 0 {
		ms = 0
	}
	total := ms / 1000
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}
