package handlers

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/DivyanshGoel20/token-strike/pkg/api"
)

// ErrNoSession - команда требует привязанной сессии, а клиент ещё не прислал START
var ErrNoSession = errors.New("no active session, send START first")

// TypedHandlerFunc работает с уже разобранным и проверенным payload
type TypedHandlerFunc[T any] func(ctx Context, payload T) (Result, error)

// EmptyHandlerFunc - команда без данных (INIT, STOP)
type EmptyHandlerFunc func(ctx Context) (Result, error)

// WithPayload разбирает JSON в T и вызывает Validate, если T его реализует.
// Пустой или null payload даёт нулевое T: так START без параметров берёт значения по умолчанию.
func WithPayload[T any](handler TypedHandlerFunc[T]) HandlerFunc {
	return func(ctx Context, raw json.RawMessage) (Result, error) {
		var payload T
		if len(raw) > 0 && string(raw) != "null" {
			if err := json.Unmarshal(raw, &payload); err != nil {
				return Result{}, fmt.Errorf("invalid payload format: %w", err)
			}
		}

		if v, ok := any(payload).(api.Validator); ok {
			if err := v.Validate(); err != nil {
				return Result{}, fmt.Errorf("validation failed: %w", err)
			}
		}
		return handler(ctx, payload)
	}
}

// WithEmptyPayload игнорирует payload
func WithEmptyPayload(handler EmptyHandlerFunc) HandlerFunc {
	return func(ctx Context, _ json.RawMessage) (Result, error) {
		return handler(ctx)
	}
}

// RequireSession пропускает команду, только если клиент привязан к сессии.
// Проверка идёт до разбора payload.
func RequireSession(next HandlerFunc) HandlerFunc {
	return func(ctx Context, raw json.RawMessage) (Result, error) {
		if ctx.SessionID == "" {
			return Result{}, ErrNoSession
		}
		return next(ctx, raw)
	}
}
