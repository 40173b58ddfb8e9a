package admin

import (
	"fmt"

	"github.com/DivyanshGoel20/token-strike/internal/domain"
	"github.com/DivyanshGoel20/token-strike/internal/engine/handlers"
)

// UpgradePayload: { "kind": "multishot" }
type UpgradePayload struct {
	Kind string `json:"kind"`
}

func (p UpgradePayload) Validate() error {
	if domain.ParseUpgrade(p.Kind) == domain.UpgradeUnknown {
		return fmt.Errorf("unknown upgrade %q", p.Kind)
	}
	return nil
}

// HandleGrantUpgrade выдаёт улучшение вне экономики руды (для отладки баланса)
func HandleGrantUpgrade(ctx handlers.Context, p UpgradePayload) (handlers.Result, error) {
	kind := domain.ParseUpgrade(p.Kind)
	if err := ctx.Sessions.GrantUpgrade(ctx.SessionID, kind); err != nil {
		return handlers.Result{}, err
	}
	return handlers.Result{
		SessionID: ctx.SessionID,
		Msg:       "⚡ Upgrade granted via admin: " + kind.String(),
		MsgType:   "INFO",
	}, nil
}
