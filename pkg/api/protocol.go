package api

import (
	"encoding/json"

	"github.com/DivyanshGoel20/token-strike/internal/domain"
	"github.com/DivyanshGoel20/token-strike/pkg/utils"
)

// Типы сообщений сервер -> клиент
const (
	MsgTelemetry = "TELEMETRY"
	MsgEvent     = "EVENT"
	MsgError     = "ERROR"
	MsgStarted   = "STARTED"
)

// --- СЕРВЕР -> КЛИЕНТ ---

// ServerResponse это корневой объект, который сервер отправляет клиенту.
// Заполняется только то поле, которое соответствует Type.
type ServerResponse struct {
	// Type тип сообщения: TELEMETRY, EVENT, ERROR, STARTED.
	Type string `json:"type"`

	// SessionID сессия, к которой относится сообщение.
	SessionID string `json:"sessionId,omitempty"`

	// Telemetry срез состояния сессии (для HUD: время, здоровье, патроны, волна).
	Telemetry *domain.Telemetry `json:"telemetry,omitempty"`

	// Event событие сессии (смена волны, улучшение, конец игры).
	Event *domain.Event `json:"event,omitempty"`

	// Error текст ошибки для Type == ERROR.
	Error string `json:"error,omitempty"`

	// Logs новые записи игрового лога.
	Logs []LogEntry `json:"logs,omitempty"`
}

// LogEntry представляет одну запись в игровом логе.
type LogEntry struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Type      string `json:"type"`      // INFO, COMBAT, WAVE, UPGRADE, SYSTEM
	Timestamp int64  `json:"timestamp"` // Unix milliseconds
}

// SessionView - строка списка сессий (/sessions, /debug/sessions)
type SessionView struct {
	ID        string           `json:"id"`
	Phase     string           `json:"phase"`
	Seed      int64            `json:"seed"`
	Telemetry domain.Telemetry `json:"telemetry"`
}

// EntityView - сущность для отладочного снапшота
type EntityView struct {
	ID     string      `json:"id"`
	Kind   string      `json:"kind"`
	Pos    domain.Vec2 `json:"pos"`
	Tag    string      `json:"tag,omitempty"`
	Health *int        `json:"health,omitempty"`
	Target string      `json:"target,omitempty"`
}

// SnapshotView - все сущности сессии на текущем тике
type SnapshotView struct {
	SessionID   string       `json:"sessionId"`
	Tick        int64        `json:"tick"`
	Player      domain.Vec2  `json:"player"`
	Enemies     []EntityView `json:"enemies"`
	Projectiles []EntityView `json:"projectiles"`
	Ores        []EntityView `json:"ores"`
}

// --- КЛИЕНТ -> СЕРВЕР ---

// ClientCommand это корневой объект для всех сообщений от клиента к серверу.
type ClientCommand struct {
	// Action название действия: START, INPUT, STOP.
	Action string `json:"action"`

	// SessionID нужен только при управлении чужой сессией через HTTP;
	// websocket-клиент привязан к своей сессии.
	SessionID string `json:"sessionId,omitempty"`

	// Payload JSON-объект с данными для действия. Его структура зависит от Action.
	Payload json.RawMessage `json:"payload"`
}

// --- Payloads ---

// StartPayload - параметры новой партии, приходящие извне (из контракта).
// Отсутствующие поля не ошибка: ammo -> 0, damage -> 1.
type StartPayload struct {
	Ammo   *int     `json:"ammo,omitempty"`
	Damage *float64 `json:"damage,omitempty"`
	Tags   []string `json:"tags,omitempty"`
	Seed   int64    `json:"seed,omitempty"`

	// SeedPhrase - сид строкой ("daily-2026-10-17"). Используется, если Seed не задан.
	SeedPhrase string `json:"seedPhrase,omitempty"`
}

// Params переводит payload в параметры сессии
func (p StartPayload) Params() domain.StartParams {
	params := domain.StartParams{
		BulletDamage: domain.DefaultBulletDamage,
		Tags:         p.Tags,
		Seed:         p.Seed,
	}
	if p.Ammo != nil {
		params.Ammo = *p.Ammo
	}
	if p.Damage != nil {
		params.BulletDamage = *p.Damage
	}
	if params.Seed == 0 && p.SeedPhrase != "" {
		params.Seed = utils.StringToSeed(p.SeedPhrase)
	}
	return params
}

// InputPayload - вектор ввода (клавиатура или джойстик), оси в [-1, 1].
type InputPayload struct {
	Dx float64 `json:"dx"`
	Dy float64 `json:"dy"`
}
