package logger

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Log является глобальным экземпляром логгера для всего сервера.
var Log *logrus.Logger

func init() {
	// Пакеты, которые пишут в лог до вызова Init (тесты, утилиты), не должны падать на nil.
	Log = logrus.New()
	Log.SetOutput(io.Discard)
}

// Init настраивает глобальный логгер. Вызывается один раз в main.go.
//
// LOG_LEVEL - уровень (по умолчанию info).
// LOG_FORMAT - "json" для продакшена, всё остальное - цветной текст.
func Init() {
	Log = logrus.New()

	logLevel, ok := os.LookupEnv("LOG_LEVEL")
	if !ok {
		logLevel = "info"
	}
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		level = logrus.InfoLevel
	}
	Log.SetLevel(level)

	if strings.ToLower(os.Getenv("LOG_FORMAT")) == "json" {
		Log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		Log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
			ForceColors:   true,
		})
	}

	Log.SetOutput(os.Stdout)
}

// Component возвращает запись с полем component.
func Component(name string) *logrus.Entry {
	return Log.WithField("component", name)
}

// ForSession возвращает запись, привязанную к игровой сессии.
func ForSession(component, sessionID string) *logrus.Entry {
	return Log.WithFields(logrus.Fields{
		"component":  component,
		"session_id": sessionID,
	})
}
