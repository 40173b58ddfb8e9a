package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// FileName - имя необязательного файла конфигурации
const FileName = "tokenstrike.cfg.json"

// Options - тюнинг геймплея. Значения по умолчанию совпадают с игровым клиентом.
type Options struct {
	MapWidth  float64 `mapstructure:"mapWidth"`
	MapHeight float64 `mapstructure:"mapHeight"`

	PlayerSpeed     float64 `mapstructure:"playerSpeed"` // пикселей в секунду
	EnemySpeed      float64 `mapstructure:"enemySpeed"`
	BulletSpeed     float64 `mapstructure:"bulletSpeed"`
	PlayerMaxHealth int     `mapstructure:"playerMaxHealth"`

	BulletRate time.Duration `mapstructure:"bulletRate"`
	EnemyRate  time.Duration `mapstructure:"enemyRate"`
	OreRate    time.Duration `mapstructure:"oreRate"`

	Invulnerability  time.Duration `mapstructure:"invulnerability"`
	MissTimeout      time.Duration `mapstructure:"missTimeout"`
	MissBoundsMargin float64       `mapstructure:"missBoundsMargin"`

	WaveMinutesPerWave float64 `mapstructure:"waveMinutesPerWave"`
	BurstRadius        float64 `mapstructure:"burstRadius"`
	OresPerUpgrade     int     `mapstructure:"oresPerUpgrade"`
	EnemyMaxHealth     int     `mapstructure:"enemyMaxHealth"`
	MultishotSpread    float64 `mapstructure:"multishotSpread"` // радианы между соседними пулями

	EnemySpawnMin float64 `mapstructure:"enemySpawnMin"`
	EnemySpawnMax float64 `mapstructure:"enemySpawnMax"`
	OreSpawnMin   float64 `mapstructure:"oreSpawnMin"`
	OreSpawnMax   float64 `mapstructure:"oreSpawnMax"`
	SpawnMargin   float64 `mapstructure:"spawnMargin"`

	TickInterval time.Duration `mapstructure:"tickInterval"`
}

// ServerConfig - сетевые параметры
type ServerConfig struct {
	Port         string
	SendInterval time.Duration // как часто слать телеметрию подписчикам
	Retention    time.Duration // сколько законченная партия видна в /sessions
}

// LedgerConfig - куда записываются итоги партий
type LedgerConfig struct {
	Enabled   bool
	Driver    string // sqlite | postgres
	Path      string // файл sqlite; пусто = в памяти
	DSN       string // строка подключения postgres
	Replays   bool
	ReplayDir string
}

// MetricsConfig - счётчики OpenTelemetry
type MetricsConfig struct {
	Enabled     bool
	ServiceName string
}

var defaults = map[string]any{
	"logLevel": "info",

	"game.mapWidth":           2000.0,
	"game.mapHeight":          2000.0,
	"game.playerSpeed":        100.0,
	"game.enemySpeed":         35.0,
	"game.bulletSpeed":        200.0,
	"game.playerMaxHealth":    5,
	"game.bulletRate":         "1000ms",
	"game.enemyRate":          "800ms",
	"game.oreRate":            "2000ms",
	"game.invulnerability":    "1000ms",
	"game.missTimeout":        "5000ms",
	"game.missBoundsMargin":   100.0,
	"game.waveMinutesPerWave": 1.0,
	"game.burstRadius":        400.0,
	"game.oresPerUpgrade":     10,
	"game.enemyMaxHealth":     50,
	"game.multishotSpread":    0.15,
	"game.enemySpawnMin":      300.0,
	"game.enemySpawnMax":      500.0,
	"game.oreSpawnMin":        200.0,
	"game.oreSpawnMax":        600.0,
	"game.spawnMargin":        50.0,
	"game.tickInterval":       "16ms",

	"server.port":         "8080",
	"server.sendInterval": "100ms",
	"server.retention":    "1m",

	"ledger.enabled":   true,
	"ledger.driver":    "sqlite",
	"ledger.path":      "./tokenstrike.db",
	"ledger.dsn":       "",
	"ledger.replays":   true,
	"ledger.replayDir": "./replays",

	"metrics.enabled":     false,
	"metrics.serviceName": "token-strike",
}

// SetDefaults регистрирует значения по умолчанию в viper.
func SetDefaults() {
	for k, v := range defaults {
		viper.SetDefault(k, v)
	}
}

// Load читает конфигурацию из JSON в configDir и переменных окружения TS_*.
// Отсутствие файла не ошибка: работаем на значениях по умолчанию.
func Load(configDir string) error {
	SetDefaults()

	viper.SetEnvPrefix("TS")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	viper.SetConfigName(FileName)
	viper.SetConfigType("json")
	viper.AddConfigPath(configDir)

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("error reading config file: %w", err)
	}
	return nil
}

// DefaultOptions возвращает тюнинг по умолчанию без обращения к viper.
func DefaultOptions() Options {
	return Options{
		MapWidth:           2000,
		MapHeight:          2000,
		PlayerSpeed:        100,
		EnemySpeed:         35,
		BulletSpeed:        200,
		PlayerMaxHealth:    5,
		BulletRate:         1000 * time.Millisecond,
		EnemyRate:          800 * time.Millisecond,
		OreRate:            2000 * time.Millisecond,
		Invulnerability:    1000 * time.Millisecond,
		MissTimeout:        5000 * time.Millisecond,
		MissBoundsMargin:   100,
		WaveMinutesPerWave: 1,
		BurstRadius:        400,
		OresPerUpgrade:     10,
		EnemyMaxHealth:     50,
		MultishotSpread:    0.15,
		EnemySpawnMin:      300,
		EnemySpawnMax:      500,
		OreSpawnMin:        200,
		OreSpawnMax:        600,
		SpawnMargin:        50,
		TickInterval:       16 * time.Millisecond,
	}
}

// GetGameOptions собирает Options из viper.
func GetGameOptions() Options {
	return Options{
		MapWidth:           viper.GetFloat64("game.mapWidth"),
		MapHeight:          viper.GetFloat64("game.mapHeight"),
		PlayerSpeed:        viper.GetFloat64("game.playerSpeed"),
		EnemySpeed:         viper.GetFloat64("game.enemySpeed"),
		BulletSpeed:        viper.GetFloat64("game.bulletSpeed"),
		PlayerMaxHealth:    viper.GetInt("game.playerMaxHealth"),
		BulletRate:         viper.GetDuration("game.bulletRate"),
		EnemyRate:          viper.GetDuration("game.enemyRate"),
		OreRate:            viper.GetDuration("game.oreRate"),
		Invulnerability:    viper.GetDuration("game.invulnerability"),
		MissTimeout:        viper.GetDuration("game.missTimeout"),
		MissBoundsMargin:   viper.GetFloat64("game.missBoundsMargin"),
		WaveMinutesPerWave: viper.GetFloat64("game.waveMinutesPerWave"),
		BurstRadius:        viper.GetFloat64("game.burstRadius"),
		OresPerUpgrade:     viper.GetInt("game.oresPerUpgrade"),
		EnemyMaxHealth:     viper.GetInt("game.enemyMaxHealth"),
		MultishotSpread:    viper.GetFloat64("game.multishotSpread"),
		EnemySpawnMin:      viper.GetFloat64("game.enemySpawnMin"),
		EnemySpawnMax:      viper.GetFloat64("game.enemySpawnMax"),
		OreSpawnMin:        viper.GetFloat64("game.oreSpawnMin"),
		OreSpawnMax:        viper.GetFloat64("game.oreSpawnMax"),
		SpawnMargin:        viper.GetFloat64("game.spawnMargin"),
		TickInterval:       viper.GetDuration("game.tickInterval"),
	}
}

// GetServerConfig возвращает сетевые параметры
func GetServerConfig() ServerConfig {
	return ServerConfig{
		Port:         viper.GetString("server.port"),
		SendInterval: viper.GetDuration("server.sendInterval"),
		Retention:    viper.GetDuration("server.retention"),
	}
}

// GetLedgerConfig возвращает параметры хранилища итогов
func GetLedgerConfig() LedgerConfig {
	return LedgerConfig{
		Enabled:   viper.GetBool("ledger.enabled"),
		Driver:    viper.GetString("ledger.driver"),
		Path:      viper.GetString("ledger.path"),
		DSN:       viper.GetString("ledger.dsn"),
		Replays:   viper.GetBool("ledger.replays"),
		ReplayDir: viper.GetString("ledger.replayDir"),
	}
}

// GetMetricsConfig возвращает параметры метрик
func GetMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Enabled:     viper.GetBool("metrics.enabled"),
		ServiceName: viper.GetString("metrics.serviceName"),
	}
}

// Validate отсекает значения, при которых симуляция теряет смысл.
func (o Options) Validate() error {
	switch {
	case o.MapWidth <= 0 || o.MapHeight <= 0:
		return fmt.Errorf("map size must be positive, got %vx%v", o.MapWidth, o.MapHeight)
	case o.TickInterval <= 0:
		return fmt.Errorf("tickInterval must be positive, got %v", o.TickInterval)
	case o.BulletRate <= 0 || o.EnemyRate <= 0 || o.OreRate <= 0:
		return errors.New("spawn and fire rates must be positive")
	case o.EnemySpawnMin > o.EnemySpawnMax || o.OreSpawnMin > o.OreSpawnMax:
		return errors.New("spawn min distance exceeds max distance")
	case o.OresPerUpgrade < 1:
		return fmt.Errorf("oresPerUpgrade must be at least 1, got %d", o.OresPerUpgrade)
	case o.PlayerMaxHealth < 1:
		return fmt.Errorf("playerMaxHealth must be at least 1, got %d", o.PlayerMaxHealth)
	}
	return nil
}
