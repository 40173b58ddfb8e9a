package actions

import (
	"fmt"

	"github.com/DivyanshGoel20/token-strike/internal/engine/handlers"
	"github.com/DivyanshGoel20/token-strike/pkg/api"
)

// HandleStart запускает новую партию. Старая партия клиента прерывается:
// перезапуск - это всегда новая сессия, а не продолжение.
func HandleStart(ctx handlers.Context, p api.StartPayload) (handlers.Result, error) {
	if ctx.SessionID != "" {
		// Ошибку игнорируем: прошлая партия могла уже закончиться сама
		_ = ctx.Sessions.StopSession(ctx.SessionID)
	}

	params := p.Params()
	id, err := ctx.Sessions.StartSession(params)
	if err != nil {
		return handlers.Result{}, fmt.Errorf("start session: %w", err)
	}

	return handlers.Result{
		SessionID: id,
		Msg:       fmt.Sprintf("Session started with %d ammo", params.Ammo),
		MsgType:   "SYSTEM",
	}, nil
}
