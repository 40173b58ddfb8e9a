package actions

import "github.com/DivyanshGoel20/token-strike/internal/engine/handlers"

func HandleInit(ctx handlers.Context) (handlers.Result, error) {
	return handlers.Result{
		SessionID: ctx.SessionID,
		Msg:       "Welcome to Token Strike. Send START to begin.",
		MsgType:   "INFO",
	}, nil
}
