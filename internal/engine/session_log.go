package engine

import (
	"fmt"
	"time"

	"github.com/DivyanshGoel20/token-strike/pkg/api"
	"github.com/DivyanshGoel20/token-strike/pkg/logger"

	"github.com/sirupsen/logrus"
)

// Типы записей игрового лога
const (
	LogInfo    = "INFO"
	LogWave    = "WAVE"
	LogUpgrade = "UPGRADE"
	LogSystem  = "SYSTEM"
)

// maxSessionLogs - сколько последних записей держим до отправки клиенту
const maxSessionLogs = 64

// AddLog добавляет лог в историю сессии
func (s *GameSession) AddLog(text, logType string) {
	s.Logs = append(s.Logs, api.LogEntry{
		ID:        fmt.Sprintf("%s_%d_%d", s.ID, s.TickCount, len(s.Logs)),
		Text:      text,
		Type:      logType,
		Timestamp: time.Now().UnixMilli(),
	})
	if over := len(s.Logs) - maxSessionLogs; over > 0 {
		s.Logs = append(s.Logs[:0], s.Logs[over:]...)
	}

	logger.Log.WithFields(logrus.Fields{
		"session_id": s.ID,
		"component":  "game_log",
		"log_type":   logType,
	}).Info(text)
}

// DrainLogs забирает накопленные записи (после рассылки клиентам)
func (s *GameSession) DrainLogs() []api.LogEntry {
	if len(s.Logs) == 0 {
		return nil
	}
	out := s.Logs
	s.Logs = []api.LogEntry{}
	return out
}
