package systems

import (
	"math/rand"

	"github.com/DivyanshGoel20/token-strike/internal/domain"
)

// Economy считает собранную руду до следующего улучшения
type Economy struct {
	Collected int `json:"collected"`
	Threshold int `json:"threshold"`
}

func NewEconomy(threshold int) Economy {
	if threshold < 1 {
		threshold = 1
	}
	return Economy{Threshold: threshold}
}

// Collect учитывает одну руду. На пороге счётчик сбрасывается в 0 и возвращается true.
func (e *Economy) Collect() bool {
	e.Collected++
	if e.Collected >= e.Threshold {
		e.Collected = 0
		return true
	}
	return false
}

// RollUpgrade выбирает улучшение равновероятно из AllUpgrades
func RollUpgrade(rng *rand.Rand) domain.UpgradeKind {
	return domain.AllUpgrades[rng.Intn(len(domain.AllUpgrades))]
}

// ApplyUpgrade применяет улучшение к состоянию и игроку.
// Здоровье: +1 к максимуму и сразу +1 к текущему.
func ApplyUpgrade(state *domain.UpgradeState, p *domain.Player, kind domain.UpgradeKind) domain.UpgradeEffect {
	eff := state.Apply(kind)
	if p == nil {
		return eff
	}
	p.SpeedMultiplier = state.SpeedMultiplier
	if eff.MaxHealthGain > 0 {
		p.GrowMaxHealth(eff.MaxHealthGain)
		p.Heal(eff.MaxHealthGain)
	}
	return eff
}
