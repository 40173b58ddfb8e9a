package handlers

import (
	"encoding/json"

	"github.com/DivyanshGoel20/token-strike/internal/domain"
)

// SessionController описывает то, что хендлеры могут делать с сессиями.
// GameService неявно реализует этот интерфейс.
type SessionController interface {
	StartSession(params domain.StartParams) (string, error)
	StopSession(id string) error
	SetInput(id string, input domain.Vec2) error
	GrantUpgrade(id string, kind domain.UpgradeKind) error
}

// Context передает хендлеру то, от чьего имени выполняется команда.
type Context struct {
	Sessions SessionController

	// SessionID - сессия, к которой привязан клиент. Пусто до START.
	SessionID string
	ClientID  string
}

// Result - возвращает результат выполнения команды.
// Хендлер НЕ пишет в соединение напрямую, он возвращает данные.
type Result struct {
	SessionID string // Привязка клиента после команды (START меняет её)
	Msg       string // Текст лога
	MsgType   string // Тип лога (INFO, SYSTEM)
}

// HandlerFunc - это контракт для любой команды (START, INPUT, STOP).
type HandlerFunc func(ctx Context, payload json.RawMessage) (Result, error)

// EmptyResult - вспомогательная функция для пустого успешного ответа
func EmptyResult(ctx Context) Result {
	return Result{SessionID: ctx.SessionID}
}
