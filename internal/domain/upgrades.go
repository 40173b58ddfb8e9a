package domain

import (
	"math"
	"strings"
)

// UpgradeKind - вид постоянного улучшения за руду
type UpgradeKind uint8

const (
	UpgradeUnknown UpgradeKind = iota
	UpgradeSpeed
	UpgradeReload
	UpgradeDamage
	UpgradeHealth
	UpgradeMultishot
)

// AllUpgrades - пул, из которого выбирается случайное улучшение. Порядок фиксирован.
var AllUpgrades = []UpgradeKind{
	UpgradeSpeed,
	UpgradeReload,
	UpgradeDamage,
	UpgradeHealth,
	UpgradeMultishot,
}

var upgradeStringToKind = map[string]UpgradeKind{
	"SPEED":     UpgradeSpeed,
	"RELOAD":    UpgradeReload,
	"DAMAGE":    UpgradeDamage,
	"HEALTH":    UpgradeHealth,
	"MULTISHOT": UpgradeMultishot,
}

var upgradeKindToString = map[UpgradeKind]string{
	UpgradeSpeed:     "SPEED",
	UpgradeReload:    "RELOAD",
	UpgradeDamage:    "DAMAGE",
	UpgradeHealth:    "HEALTH",
	UpgradeMultishot: "MULTISHOT",
}

// ParseUpgrade конвертирует строку в UpgradeKind (без учёта регистра)
func ParseUpgrade(s string) UpgradeKind {
	if val, ok := upgradeStringToKind[strings.ToUpper(s)]; ok {
		return val
	}
	return UpgradeUnknown
}

func (u UpgradeKind) String() string {
	if val, ok := upgradeKindToString[u]; ok {
		return val
	}
	return "UNKNOWN"
}

// UpgradeState - накопленные улучшения сессии
type UpgradeState struct {
	SpeedMultiplier      float64 `json:"speedMultiplier"`
	BulletRateMultiplier float64 `json:"bulletRateMultiplier"` // меньше = быстрее стрельба
	DamageBonus          int     `json:"damageBonus"`
	MaxHealthBonus       int     `json:"maxHealthBonus"`
	BulletsPerShot       int     `json:"bulletsPerShot"`
}

// DefaultUpgrades - нейтральные значения на старте сессии
func DefaultUpgrades() UpgradeState {
	return UpgradeState{
		SpeedMultiplier:      1,
		BulletRateMultiplier: 1,
		BulletsPerShot:       1,
	}
}

// UpgradeEffect описывает, что поменялось после Apply
type UpgradeEffect struct {
	Kind          UpgradeKind
	RateChanged   bool // нужно перерегистрировать таймер стрельбы
	MaxHealthGain int  // на сколько вырос максимум здоровья (и лечение)
}

// Apply применяет одно улучшение. Здоровье игрока меняет вызывающая сторона по MaxHealthGain.
func (u *UpgradeState) Apply(kind UpgradeKind) UpgradeEffect {
	eff := UpgradeEffect{Kind: kind}

	switch kind {
	case UpgradeSpeed:
		u.SpeedMultiplier += SpeedUpgradeStep
	case UpgradeReload:
		before := u.BulletRateMultiplier
		u.BulletRateMultiplier -= ReloadUpgradeStep
		if u.BulletRateMultiplier < MinBulletRateFactor {
			u.BulletRateMultiplier = MinBulletRateFactor
		}
		eff.RateChanged = math.Abs(u.BulletRateMultiplier-before) > 1e-9
	case UpgradeDamage:
		u.DamageBonus += DamageUpgradeStep
	case UpgradeHealth:
		u.MaxHealthBonus += HealthUpgradeStep
		eff.MaxHealthGain = HealthUpgradeStep
	case UpgradeMultishot:
		u.BulletsPerShot += MultishotUpgradeStep
	}

	return eff
}
