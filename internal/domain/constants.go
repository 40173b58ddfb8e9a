package domain

import "time"

// Размеры хитбоксов (квадраты, в пикселях)
const (
	PlayerHitbox     = 40.0
	EnemyHitbox      = 60.0
	ProjectileHitbox = 10.0
	OreHitbox        = 30.0
)

// Параметры экономики улучшений
const (
	SpeedUpgradeStep     = 0.2
	ReloadUpgradeStep    = 0.1
	MinBulletRateFactor  = 0.3
	DamageUpgradeStep    = 10
	HealthUpgradeStep    = 1
	MultishotUpgradeStep = 1
)

// Бой и снаряды
const (
	InvulnerabilityWindow = 1000 * time.Millisecond
	MissTimeout           = 5000 * time.Millisecond
	MissBoundsMargin      = 100.0
	MinShotDamage         = 1
	DefaultBulletDamage   = 1.0
)

// Волны
const (
	BurstBase    = 15
	BurstPerWave = 5
	BurstRadius  = 400.0
)
