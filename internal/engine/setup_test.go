package engine

import (
	"os"
	"testing"

	"github.com/DivyanshGoel20/token-strike/pkg/logger"
)

func TestMain(m *testing.M) {
	// LOG_LEVEL=debug go test ./internal/engine -v покажет логи сессий
	if _, ok := os.LookupEnv("LOG_LEVEL"); !ok {
		os.Setenv("LOG_LEVEL", "warn")
	}
	logger.Init()
	os.Exit(m.Run())
}
