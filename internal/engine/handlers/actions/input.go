package actions

import (
	"github.com/DivyanshGoel20/token-strike/internal/domain"
	"github.com/DivyanshGoel20/token-strike/internal/engine/handlers"
	"github.com/DivyanshGoel20/token-strike/pkg/api"
)

// HandleInput обновляет вектор ввода. Нормализация происходит в сессии на тике.
// Регистрируется под RequireSession.
func HandleInput(ctx handlers.Context, p api.InputPayload) (handlers.Result, error) {
	if err := ctx.Sessions.SetInput(ctx.SessionID, domain.Vec2{X: p.Dx, Y: p.Dy}); err != nil {
		return handlers.Result{}, err
	}
	return handlers.EmptyResult(ctx), nil
}
