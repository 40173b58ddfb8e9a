package server

import (
	"net/http"
	"sync"
	"time"

	"github.com/DivyanshGoel20/token-strike/internal/domain"
	"github.com/DivyanshGoel20/token-strike/internal/engine"
	"github.com/DivyanshGoel20/token-strike/pkg/api"
	"github.com/DivyanshGoel20/token-strike/pkg/logger"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

// Настройки WebSocket
const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096 // START может нести список тегов
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Client - посредник между Websocket и GameService.
// Один клиент управляет не более чем одной сессией за раз.
type Client struct {
	Game *engine.GameService
	Conn *websocket.Conn
	Send chan api.ServerResponse
	ID   string

	mu        sync.Mutex
	sessionID string

	done chan struct{}
	log  *logrus.Entry
}

func NewClient(game *engine.GameService, conn *websocket.Conn) *Client {
	id := uuid.NewString()
	return &Client{
		Game: game,
		Conn: conn,
		Send: make(chan api.ServerResponse, 256),
		ID:   id,
		done: make(chan struct{}),
		log:  logger.Log.WithFields(logrus.Fields{"component": "ws_client", "client_id": id}),
	}
}

func (c *Client) session() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sessionID
}

// bind переподписывает клиента на новую сессию
func (c *Client) bind(sessionID string) {
	c.mu.Lock()
	old := c.sessionID
	c.sessionID = sessionID
	c.mu.Unlock()

	if old == sessionID {
		return
	}
	if old != "" {
		c.Game.Hub.Unregister(old, c.ID)
	}
	if sessionID == "" {
		return
	}

	updates := c.Game.Hub.Register(sessionID, c.ID)
	// Пересылка обновлений из Hub в writePump до отписки или отключения
	go func() {
		for msg := range updates {
			select {
			case c.Send <- msg:
			case <-c.done:
				return
			}
		}
	}()
	c.log.WithField("session_id", sessionID).Info("Client bound to session")
}

func (c *Client) reply(msg api.ServerResponse) {
	select {
	case c.Send <- msg:
	case <-c.done:
	}
}

// readPump читает команды от клиента
func (c *Client) readPump() {
	defer func() {
		close(c.done)
		if id := c.session(); id != "" {
			c.Game.Hub.Unregister(id, c.ID)
			// Брошенная партия прерывается, итог всё равно уходит в учёт
			if err := c.Game.StopSession(id); err == nil {
				c.log.WithField("session_id", id).Info("Session aborted on disconnect")
			}
		}
		if err := c.Conn.Close(); err != nil {
			c.log.WithError(err).Debug("failed to close websocket connection")
		}
		c.log.Info("Client disconnected")
	}()

	c.Conn.SetReadLimit(maxMessageSize)
	if err := c.Conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		c.log.WithError(err).Warn("failed to set read deadline")
	}
	c.Conn.SetPongHandler(func(string) error {
		if err := c.Conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
			c.log.WithError(err).Warn("failed to set pong read deadline")
		}
		return nil
	})

	c.log.Info("Client connected")

	for {
		var cmd api.ClientCommand
		if err := c.Conn.ReadJSON(&cmd); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.log.WithError(err).Error("WS Error")
			}
			return
		}
		c.handle(cmd)
	}
}

func (c *Client) handle(cmd api.ClientCommand) {
	current := c.session()
	// Клиент управляет только своей сессией
	cmd.SessionID = ""

	res, err := c.Game.ProcessCommand(current, c.ID, cmd)
	if err != nil {
		c.reply(api.ServerResponse{Type: api.MsgError, SessionID: current, Error: err.Error()})
		return
	}

	if res.SessionID != current {
		c.bind(res.SessionID)
	}

	msg := api.ServerResponse{Type: api.MsgEvent, SessionID: res.SessionID}
	if domain.ParseAction(cmd.Action) == domain.ActionStart {
		msg.Type = api.MsgStarted
	}
	if res.Msg != "" {
		msg.Logs = []api.LogEntry{{
			ID:        uuid.NewString(),
			Text:      res.Msg,
			Type:      res.MsgType,
			Timestamp: time.Now().UnixMilli(),
		}}
	}
	// INPUT приходит десятки раз в секунду, на него не отвечаем
	if msg.Type == api.MsgStarted || len(msg.Logs) > 0 {
		c.reply(msg)
	}
}

// writePump отправляет данные клиенту + Ping
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		if err := c.Conn.Close(); err != nil {
			c.log.WithError(err).Debug("failed to close websocket connection in writePump")
		}
	}()

	for {
		select {
		case message := <-c.Send:
			if err := c.Conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				c.log.WithError(err).Warn("failed to set write deadline")
			}
			if err := c.Conn.WriteJSON(message); err != nil {
				c.log.WithError(err).Debug("write json message failed")
				return
			}

		case <-ticker.C:
			if err := c.Conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				c.log.WithError(err).Warn("failed to set ping write deadline")
			}
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.log.WithError(err).Debug("ping failed")
				return
			}

		case <-c.done:
			_ = c.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.Conn.WriteMessage(websocket.CloseMessage, []byte{}); err != nil {
				c.log.WithError(err).Debug("write close message failed")
			}
			return
		}
	}
}
