package network

import (
	"sync"

	"github.com/DivyanshGoel20/token-strike/pkg/api"
	"github.com/DivyanshGoel20/token-strike/pkg/logger"

	"github.com/sirupsen/logrus"
)

// subscriberBuffer - размер личного канала подписчика
const subscriberBuffer = 100

// Broadcaster занимается только рассылкой сообщений подписчикам сессий
type Broadcaster struct {
	mu sync.RWMutex
	// Мапа: SessionID -> ClientID -> Личный канал
	subscribers map[string]map[string]chan api.ServerResponse
}

func NewBroadcaster() *Broadcaster {
	return &Broadcaster{
		subscribers: make(map[string]map[string]chan api.ServerResponse),
	}
}

// Register создает личный канал клиента для сессии.
// Повторная регистрация того же клиента закрывает старый канал.
func (b *Broadcaster) Register(sessionID, clientID string) chan api.ServerResponse {
	b.mu.Lock()
	defer b.mu.Unlock()

	clients, ok := b.subscribers[sessionID]
	if !ok {
		clients = make(map[string]chan api.ServerResponse)
		b.subscribers[sessionID] = clients
	}
	if old, ok := clients[clientID]; ok {
		close(old)
	}

	ch := make(chan api.ServerResponse, subscriberBuffer)
	clients[clientID] = ch
	return ch
}

// Unregister удаляет подписчика
func (b *Broadcaster) Unregister(sessionID, clientID string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	clients, ok := b.subscribers[sessionID]
	if !ok {
		return
	}
	if ch, ok := clients[clientID]; ok {
		close(ch)
		delete(clients, clientID)
	}
	if len(clients) == 0 {
		delete(b.subscribers, sessionID)
	}
}

// CloseSession отписывает всех подписчиков сессии
func (b *Broadcaster) CloseSession(sessionID string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, ch := range b.subscribers[sessionID] {
		close(ch)
	}
	delete(b.subscribers, sessionID)
}

// Publish отправляет сообщение всем подписчикам сессии. Никогда не блокирует.
func (b *Broadcaster) Publish(sessionID string, msg api.ServerResponse) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for clientID, ch := range b.subscribers[sessionID] {
		select {
		case ch <- msg:
		default:
			logger.Log.WithFields(logrus.Fields{
				"component":  "hub",
				"session_id": sessionID,
				"client_id":  clientID,
			}).Debug("Channel full, message dropped")
		}
	}
}

// Broadcast отправляет всем (например, объявление об остановке сервера)
func (b *Broadcaster) Broadcast(msg api.ServerResponse) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, clients := range b.subscribers {
		for _, ch := range clients {
			select {
			case ch <- msg:
			default:
			}
		}
	}
}

// HasSubscriber проверяет, смотрит ли кто-то на сессию.
// Используется, чтобы не собирать телеметрию впустую.
func (b *Broadcaster) HasSubscriber(sessionID string) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers[sessionID]) > 0
}

// SubscriberCount возвращает количество активных подписчиков по всем сессиям.
func (b *Broadcaster) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	n := 0
	for _, clients := range b.subscribers {
		n += len(clients)
	}
	return n
}
