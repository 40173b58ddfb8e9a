package actions

import (
	"github.com/DivyanshGoel20/token-strike/internal/engine/handlers"
)

// HandleStop прерывает партию (ABORTED). Итог всё равно уходит в учёт.
func HandleStop(ctx handlers.Context) (handlers.Result, error) {
	if err := ctx.Sessions.StopSession(ctx.SessionID); err != nil {
		return handlers.Result{}, err
	}
	return handlers.Result{
		SessionID: ctx.SessionID,
		Msg:       "Session stopped",
		MsgType:   "SYSTEM",
	}, nil
}
