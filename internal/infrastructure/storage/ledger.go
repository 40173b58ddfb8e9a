package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/DivyanshGoel20/token-strike/internal/config"
	"github.com/DivyanshGoel20/token-strike/internal/domain"
	"github.com/DivyanshGoel20/token-strike/pkg/logger"

	"github.com/glebarez/sqlite"
	"gorm.io/datatypes"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var ErrRunNotFound = errors.New("run not found")

// SessionRecord - строка ledger: итог одной партии
type SessionRecord struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"createdAt"`

	SessionID     string         `json:"sessionId" gorm:"size:64;uniqueIndex"`
	Seed          int64          `json:"seed"`
	Reason        string         `json:"reason" gorm:"size:32;index"`
	InitialAmmo   int            `json:"initialAmmo"`
	AmmoRemaining int            `json:"ammoRemaining"`
	AmmoSpent     int            `json:"ammoSpent"`
	BulletDamage  float64        `json:"bulletDamage"`
	ShotsFired    int            `json:"shotsFired"`
	Hits          int            `json:"hits"`
	Misses        int            `json:"misses"`
	Kills         int            `json:"kills"`
	OresCollected int            `json:"oresCollected"`
	Wave          int            `json:"wave"`
	ElapsedMs     int64          `json:"elapsedMs"`
	Upgrades      datatypes.JSON `json:"upgrades"`
}

// TableName - имя таблицы не зависит от имени структуры
func (SessionRecord) TableName() string {
	return "session_results"
}

// NewSessionRecord переводит итог партии в строку ledger
func NewSessionRecord(s domain.RunSummary) SessionRecord {
	upgrades := datatypes.JSON("[]")
	if len(s.Upgrades) > 0 {
		if data, err := json.Marshal(s.Upgrades); err == nil {
			upgrades = datatypes.JSON(data)
		}
	}
	return SessionRecord{
		SessionID:     s.SessionID,
		Seed:          s.Seed,
		Reason:        string(s.Reason),
		InitialAmmo:   s.InitialAmmo,
		AmmoRemaining: s.AmmoRemaining,
		AmmoSpent:     s.AmmoSpent(),
		BulletDamage:  s.BulletDamage,
		ShotsFired:    s.ShotsFired,
		Hits:          s.Hits,
		Misses:        s.Misses,
		Kills:         s.Kills,
		OresCollected: s.OresCollected,
		Wave:          s.Wave,
		ElapsedMs:     s.ElapsedMs,
		Upgrades:      upgrades,
	}
}

// Summary восстанавливает итог партии из строки
func (r SessionRecord) Summary() domain.RunSummary {
	var upgrades []string
	if len(r.Upgrades) > 0 {
		_ = json.Unmarshal(r.Upgrades, &upgrades)
	}
	if upgrades == nil {
		upgrades = []string{}
	}
	return domain.RunSummary{
		SessionID:     r.SessionID,
		Seed:          r.Seed,
		InitialAmmo:   r.InitialAmmo,
		AmmoRemaining: r.AmmoRemaining,
		BulletDamage:  r.BulletDamage,
		ShotsFired:    r.ShotsFired,
		Hits:          r.Hits,
		Misses:        r.Misses,
		Kills:         r.Kills,
		OresCollected: r.OresCollected,
		Upgrades:      upgrades,
		Wave:          r.Wave,
		ElapsedMs:     r.ElapsedMs,
		Reason:        domain.EndReason(r.Reason),
	}
}

// LedgerStats - агрегаты по всем партиям
type LedgerStats struct {
	Runs       int64 `json:"runs"`
	AmmoSpent  int64 `json:"ammoSpent"`
	Kills      int64 `json:"kills"`
	BestWave   int64 `json:"bestWave"`
	LongestRun int64 `json:"longestRunMs"`
}

// Ledger - внешний учёт итогов партий поверх gorm
type Ledger struct {
	db *gorm.DB
}

// OpenLedger подключается к sqlite или postgres и мигрирует схему
func OpenLedger(cfg config.LedgerConfig) (*Ledger, error) {
	var (
		db  *gorm.DB
		err error
	)

	switch cfg.Driver {
	case "", "sqlite":
		db, err = openSqlite(cfg.Path)
	case "postgres":
		db, err = openPostgres(cfg.DSN)
	default:
		return nil, fmt.Errorf("unknown ledger driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, err
	}

	return NewLedger(db)
}

// NewLedger оборачивает готовое подключение
func NewLedger(db *gorm.DB) (*Ledger, error) {
	if err := db.AutoMigrate(&SessionRecord{}); err != nil {
		return nil, fmt.Errorf("failed to migrate ledger schema: %w", err)
	}
	logger.Component("ledger").WithField("driver", db.Dialector.Name()).Info("Ledger ready")
	return &Ledger{db: db}, nil
}

func openPostgres(dsn string) (*gorm.DB, error) {
	if dsn == "" {
		return nil, errors.New("postgres ledger needs a DSN")
	}
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  dsn,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}
	return db, nil
}

// openSqlite: пустой путь означает базу в памяти
func openSqlite(path string) (*gorm.DB, error) {
	dsn := path
	if dsn == "" {
		dsn = "file::memory:?cache=shared"
	}

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		PrepareStmt:            true,
		SkipDefaultTransaction: true,
		Logger:                 gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite ledger: %w", err)
	}

	pragmas := []string{
		"PRAGMA user_version = 1;",
		"PRAGMA journal_mode = WAL;",
		"PRAGMA synchronous = NORMAL;",
		"PRAGMA temp_store = MEMORY;",
	}
	for _, pragma := range pragmas {
		if err := db.Exec(pragma).Error; err != nil {
			return nil, fmt.Errorf("error setting PRAGMA: %w", err)
		}
	}
	return db, nil
}

// Record сохраняет итог партии
func (l *Ledger) Record(ctx context.Context, summary domain.RunSummary) error {
	rec := NewSessionRecord(summary)
	if err := l.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return fmt.Errorf("record run %s: %w", summary.SessionID, err)
	}
	return nil
}

// Recent - последние limit партий, новые первыми
func (l *Ledger) Recent(ctx context.Context, limit int) ([]SessionRecord, error) {
	if limit <= 0 {
		limit = 20
	}
	records := make([]SessionRecord, 0, limit)
	err := l.db.WithContext(ctx).Order("id DESC").Limit(limit).Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("load recent runs: %w", err)
	}
	return records, nil
}

// Get ищет партию по ID сессии
func (l *Ledger) Get(ctx context.Context, sessionID string) (*SessionRecord, error) {
	var rec SessionRecord
	err := l.db.WithContext(ctx).Where("session_id = ?", sessionID).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("run %s: %w", sessionID, ErrRunNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// Stats считает агрегаты по всем записям
func (l *Ledger) Stats(ctx context.Context) (LedgerStats, error) {
	var stats LedgerStats
	err := l.db.WithContext(ctx).Model(&SessionRecord{}).
		Select("COUNT(*) AS runs, COALESCE(SUM(ammo_spent), 0) AS ammo_spent, COALESCE(SUM(kills), 0) AS kills, " +
			"COALESCE(MAX(wave), 0) AS best_wave, COALESCE(MAX(elapsed_ms), 0) AS longest_run").
		Scan(&stats).Error
	if err != nil {
		return LedgerStats{}, fmt.Errorf("ledger stats: %w", err)
	}
	return stats, nil
}

// Close закрывает подключение
func (l *Ledger) Close() error {
	sqlDB, err := l.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
