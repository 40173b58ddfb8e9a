package domain

import "strings"

// EventType - внутренний идентификатор события сессии
type EventType uint8

const (
	EventUnknown EventType = iota
	EventSessionStarted
	EventWaveChanged
	EventSessionEnded
	EventUpgradeApplied
	EventEnemyKilled
	EventProjectileMissed
	EventPlayerDamaged
)

var eventStringToType = map[string]EventType{
	"SESSION_STARTED":   EventSessionStarted,
	"WAVE_CHANGED":      EventWaveChanged,
	"SESSION_ENDED":     EventSessionEnded,
	"UPGRADE_APPLIED":   EventUpgradeApplied,
	"ENEMY_KILLED":      EventEnemyKilled,
	"PROJECTILE_MISSED": EventProjectileMissed,
	"PLAYER_DAMAGED":    EventPlayerDamaged,
}

var eventTypeToString = map[EventType]string{
	EventSessionStarted:   "SESSION_STARTED",
	EventWaveChanged:      "WAVE_CHANGED",
	EventSessionEnded:     "SESSION_ENDED",
	EventUpgradeApplied:   "UPGRADE_APPLIED",
	EventEnemyKilled:      "ENEMY_KILLED",
	EventProjectileMissed: "PROJECTILE_MISSED",
	EventPlayerDamaged:    "PLAYER_DAMAGED",
}

// ParseEvent конвертирует строку из JSON в EventType
func ParseEvent(s string) EventType {
	if val, ok := eventStringToType[strings.ToUpper(s)]; ok {
		return val
	}
	return EventUnknown
}

func (e EventType) String() string {
	if val, ok := eventTypeToString[e]; ok {
		return val
	}
	return "UNKNOWN"
}

// MarshalText - в JSON событие уходит строкой
func (e EventType) MarshalText() ([]byte, error) {
	return []byte(e.String()), nil
}

// UnmarshalText нужен клиентам, которые читают события обратно в структуру
func (e *EventType) UnmarshalText(text []byte) error {
	*e = ParseEvent(string(text))
	return nil
}

// Event - то, что сессия сообщает внешнему миру.
// Заполняются только поля, относящиеся к типу события.
type Event struct {
	Type      EventType `json:"type"`
	SessionID string    `json:"sessionId"`
	Tick      int64     `json:"tick"`
	ElapsedMs int64     `json:"elapsedMs"`

	Wave     int         `json:"wave,omitempty"`
	Upgrade  string      `json:"upgrade,omitempty"`
	Reason   EndReason   `json:"reason,omitempty"`
	EntityID EntityID    `json:"entityId,omitempty"`
	Ammo     int         `json:"ammo"`
	Health   int         `json:"health"`
	Summary  *RunSummary `json:"summary,omitempty"`
}

// EventSink получает события сессии. Вызывается в потоке сессии.
type EventSink func(Event)
