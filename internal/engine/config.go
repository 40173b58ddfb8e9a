package engine

import (
	"time"

	"github.com/DivyanshGoel20/token-strike/internal/config"
)

// Config хранит параметры запуска движка
type Config struct {
	// Game - тюнинг геймплея, общий для всех сессий
	Game config.Options

	// SendInterval - как часто рассылать телеметрию подписчикам сессии
	SendInterval time.Duration

	// Retention - сколько законченная сессия остаётся в реестре после записи итога
	Retention time.Duration

	// Seed - если не 0, сессии без явного сида получают Seed + порядковый номер.
	// Так весь прогон сервера воспроизводим.
	Seed int64
}

// NewConfig создает конфиг по умолчанию
func NewConfig() Config {
	return Config{
		Game:         config.DefaultOptions(),
		SendInterval: 100 * time.Millisecond,
		Retention:    time.Minute,
	}
}
