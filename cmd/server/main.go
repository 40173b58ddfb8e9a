package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/DivyanshGoel20/token-strike/internal/agent"
	"github.com/DivyanshGoel20/token-strike/internal/config"
	"github.com/DivyanshGoel20/token-strike/internal/domain"
	"github.com/DivyanshGoel20/token-strike/internal/engine"
	"github.com/DivyanshGoel20/token-strike/internal/infrastructure/storage"
	"github.com/DivyanshGoel20/token-strike/internal/metrics"
	"github.com/DivyanshGoel20/token-strike/internal/server"
	"github.com/DivyanshGoel20/token-strike/internal/version"
	"github.com/DivyanshGoel20/token-strike/pkg/logger"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

func init() {
	logger.Init()
}

func main() {
	// 1. Парсинг флагов
	var (
		seed       int64
		configDir  string
		replayPath string
		headless   bool
		ammo       int
		damage     float64
		port       string
		maxTicks   int64
	)
	// Читаем флаг -seed. По умолчанию 0 (значит сгенерировать случайно).
	flag.Int64Var(&seed, "seed", 0, "Master seed (0 for random)")
	flag.StringVar(&configDir, "config", ".", "Directory with "+config.FileName)
	flag.StringVar(&replayPath, "replay", "", "Path to .tsrp replay file to re-simulate")
	flag.BoolVar(&headless, "headless", false, "Play one run with the autopilot and exit")
	flag.IntVar(&ammo, "ammo", 30, "Ammo for the headless run")
	flag.Float64Var(&damage, "damage", 1, "Bullet damage for the headless run")
	flag.StringVar(&port, "port", "", "HTTP port (overrides config)")
	flag.Int64Var(&maxTicks, "ticks", 60*60*60, "Tick limit for headless and replay runs")
	flag.Parse()

	logger.Log.Info("Starting Token Strike...")
	logger.Log.Info(version.String())

	if err := config.Load(configDir); err != nil {
		logger.Log.WithError(err).Fatal("Failed to load config")
	}

	cfg := engine.NewConfig()
	cfg.Game = config.GetGameOptions()
	if err := cfg.Game.Validate(); err != nil {
		logger.Log.WithError(err).Fatal("Invalid game options")
	}
	serverCfg := config.GetServerConfig()
	cfg.SendInterval = serverCfg.SendInterval
	cfg.Retention = serverCfg.Retention
	if seed != 0 {
		cfg.Seed = seed
		logger.Log.Infof("🎲 Using explicit Master Seed: %d", seed)
	}

	// РЕЖИМ РЕПЛЕЯ
	if replayPath != "" {
		logger.Log.Info("💿 Mode: Replay Simulation")
		runReplay(cfg, replayPath, maxTicks)
		return // Выходим после симуляции
	}

	ledgerCfg := config.GetLedgerConfig()
	var ledger *storage.Ledger
	if ledgerCfg.Enabled {
		l, err := storage.OpenLedger(ledgerCfg)
		if err != nil {
			logger.Log.WithError(err).Fatal("Failed to open ledger")
		}
		defer l.Close()
		ledger = l
	}

	// РЕЖИМ БОТА БЕЗ СЕРВЕРА
	if headless {
		logger.Log.Info("🤖 Mode: Headless autopilot run")
		runHeadless(cfg, ledger, domain.StartParams{Ammo: ammo, BulletDamage: damage, Seed: cfg.Seed}, maxTicks)
		return
	}

	// 2. Инициализация ядра с конфигом
	opts := []engine.Option{}
	if ledger != nil {
		opts = append(opts, engine.WithResultStore(ledger))
	}
	if ledgerCfg.Replays {
		replays, err := storage.NewReplayService(ledgerCfg.ReplayDir)
		if err != nil {
			logger.Log.WithError(err).Fatal("Failed to prepare replay dir")
		}
		opts = append(opts, engine.WithReplayStore(replays))
	}

	var gameService *engine.GameService
	if config.GetMetricsConfig().Enabled {
		rec, err := metrics.New(func() int {
			if gameService == nil {
				return 0
			}
			return gameService.ActiveCount()
		})
		if err != nil {
			logger.Log.WithError(err).Fatal("Failed to create metrics")
		}
		opts = append(opts, engine.WithMetrics(rec))
	}
	gameService = engine.NewService(cfg, opts...)

	if port == "" {
		port = serverCfg.Port
	}

	// 3. Запуск сервера
	srv := server.New(gameService, port)
	if ledger != nil {
		srv.History = ledger
	}

	// Graceful Shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		if err := srv.Run(); err != nil {
			logger.Log.WithError(err).Fatal("Server start error")
		}
	}()

	<-stop
	logger.Log.Info("Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.WithError(err).Warn("HTTP shutdown incomplete")
	}
	// Прерываем все партии: итоги и реплеи успевают записаться
	if err := gameService.Shutdown(ctx); err != nil {
		logger.Log.WithError(err).Warn("Game service shutdown incomplete")
	}

	logger.Log.Info("Done.")
}

func runReplay(cfg engine.Config, path string, maxTicks int64) {
	replay, err := storage.LoadReplay(path)
	if err != nil {
		logger.Log.WithError(err).Fatal("Failed to load replay")
	}

	summary, err := engine.Rerun(cfg, replay, maxTicks)
	if err != nil {
		logger.Log.WithError(err).Fatal("Replay simulation failed")
	}
	logSummary(summary)
}

func runHeadless(cfg engine.Config, ledger *storage.Ledger, params domain.StartParams, maxTicks int64) {
	session := engine.NewSession(uuid.NewString(), cfg.Game, params, nil, nil)
	summary, err := engine.Simulate(session, engine.PilotInput(agent.NewKiter()), maxTicks)
	if err != nil {
		logger.Log.WithError(err).Fatal("Headless run failed")
	}
	logSummary(summary)

	if ledger != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := ledger.Record(ctx, summary); err != nil {
			logger.Log.WithError(err).Error("Failed to record headless run")
		}
	}
}

func logSummary(s domain.RunSummary) {
	logger.Log.WithFields(logrus.Fields{
		"session_id": s.SessionID,
		"seed":       s.Seed,
		"reason":     s.Reason,
		"wave":       s.Wave,
		"clock":      domain.FormatElapsed(s.ElapsedMs),
		"ammo_spent": s.AmmoSpent(),
		"hits":       s.Hits,
		"misses":     s.Misses,
		"kills":      s.Kills,
		"upgrades":   s.Upgrades,
	}).Info("Run finished")
}
