package engine

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/DivyanshGoel20/token-strike/internal/domain"
	"github.com/DivyanshGoel20/token-strike/internal/engine/handlers"
	"github.com/DivyanshGoel20/token-strike/internal/engine/handlers/actions"
	"github.com/DivyanshGoel20/token-strike/internal/engine/handlers/admin"
	"github.com/DivyanshGoel20/token-strike/internal/metrics"
	"github.com/DivyanshGoel20/token-strike/internal/network"
	"github.com/DivyanshGoel20/token-strike/pkg/api"
	"github.com/DivyanshGoel20/token-strike/pkg/logger"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// ResultStore - внешний учёт итогов партий (ledger)
type ResultStore interface {
	Record(ctx context.Context, summary domain.RunSummary) error
}

// ReplayStore сохраняет ленту ввода партии
type ReplayStore interface {
	Save(replay *domain.ReplaySession) (string, error)
}

// Autopilot - источник ввода вместо человека (бот, реплей).
// Вызывается в потоке сессии на каждом тике.
type Autopilot interface {
	Steer(s *GameSession) domain.Vec2
}

// SessionHandle - запущенная сессия и её горутина
type SessionHandle struct {
	ID      string
	session *GameSession

	commands chan func(*GameSession)
	done     chan struct{}

	inputMu sync.Mutex
	input   domain.Vec2

	autopilot Autopilot

	// Незавершённые записи итога и реплея
	persisting sync.WaitGroup

	// Последняя телеметрия: читается из HTTP без захода в поток сессии
	telemetry atomic.Pointer[domain.Telemetry]
}

func (h *SessionHandle) setInput(v domain.Vec2) {
	h.inputMu.Lock()
	h.input = v
	h.inputMu.Unlock()
}

func (h *SessionHandle) currentInput() domain.Vec2 {
	h.inputMu.Lock()
	defer h.inputMu.Unlock()
	return h.input
}

// Done закрывается, когда горутина сессии завершилась
func (h *SessionHandle) Done() <-chan struct{} {
	return h.done
}

// Telemetry - последний опубликованный срез
func (h *SessionHandle) Telemetry() domain.Telemetry {
	if t := h.telemetry.Load(); t != nil {
		return *t
	}
	return domain.Telemetry{SessionID: h.ID}
}

// GameService владеет всеми сессиями сервера
type GameService struct {
	cfg Config

	Hub     *network.Broadcaster
	metrics *metrics.Recorder
	results ResultStore
	replays ReplayStore

	handlers map[domain.ActionType]handlers.HandlerFunc

	mu       sync.RWMutex
	sessions map[string]*SessionHandle
	started  int64

	loops   sync.WaitGroup
	persist sync.WaitGroup
	closed  atomic.Bool
}

// Option настраивает GameService
type Option func(*GameService)

func WithResultStore(store ResultStore) Option {
	return func(s *GameService) { s.results = store }
}

func WithReplayStore(store ReplayStore) Option {
	return func(s *GameService) { s.replays = store }
}

func WithMetrics(r *metrics.Recorder) Option {
	return func(s *GameService) { s.metrics = r }
}

func WithHub(hub *network.Broadcaster) Option {
	return func(s *GameService) { s.Hub = hub }
}

func NewService(cfg Config, opts ...Option) *GameService {
	if cfg.Game.TickInterval <= 0 {
		cfg.Game.TickInterval = 16 * time.Millisecond
	}
	if cfg.SendInterval <= 0 {
		cfg.SendInterval = 100 * time.Millisecond
	}
	if cfg.Retention <= 0 {
		cfg.Retention = time.Minute
	}

	s := &GameService{
		cfg:      cfg,
		Hub:      network.NewBroadcaster(),
		metrics:  metrics.Noop(),
		handlers: make(map[domain.ActionType]handlers.HandlerFunc),
		sessions: make(map[string]*SessionHandle),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.registerHandlers()
	return s
}

func (s *GameService) registerHandlers() {
	s.handlers[domain.ActionInit] = handlers.WithEmptyPayload(actions.HandleInit)
	s.handlers[domain.ActionStart] = handlers.WithPayload(actions.HandleStart)
	s.handlers[domain.ActionInput] = handlers.RequireSession(handlers.WithPayload(actions.HandleInput))
	s.handlers[domain.ActionStop] = handlers.RequireSession(handlers.WithEmptyPayload(actions.HandleStop))
	s.handlers[domain.ActionGrantUpgrade] = handlers.RequireSession(handlers.WithPayload(admin.HandleGrantUpgrade))
}

// Config - параметры движка (для /debug и headless-режима)
func (s *GameService) Config() Config {
	return s.cfg
}

// ProcessCommand принимает команду от внешнего мира (WebSocket).
// sessionID - текущая привязка клиента; в Result возвращается новая.
func (s *GameService) ProcessCommand(sessionID, clientID string, cmd api.ClientCommand) (handlers.Result, error) {
	actionType := domain.ParseAction(cmd.Action)
	handler, ok := s.handlers[actionType]
	if !ok {
		return handlers.Result{SessionID: sessionID}, fmt.Errorf("unknown action %q", cmd.Action)
	}

	ctx := handlers.Context{
		Sessions:  s,
		SessionID: sessionID,
		ClientID:  clientID,
	}
	if cmd.SessionID != "" {
		ctx.SessionID = cmd.SessionID
	}

	res, err := handler(ctx, cmd.Payload)
	if err != nil {
		logger.Log.WithFields(logrus.Fields{
			"component":  "game_service",
			"action":     actionType.String(),
			"session_id": ctx.SessionID,
		}).WithError(err).Warn("Command rejected")
		return handlers.Result{SessionID: ctx.SessionID}, err
	}
	return res, nil
}

// StartSession создает и запускает сессию в собственной горутине
func (s *GameService) StartSession(params domain.StartParams) (string, error) {
	h, err := s.startSession(params, nil)
	if err != nil {
		return "", err
	}
	return h.ID, nil
}

// StartAutopilotSession запускает сессию, вводом которой управляет pilot
func (s *GameService) StartAutopilotSession(params domain.StartParams, pilot Autopilot) (*SessionHandle, error) {
	return s.startSession(params, pilot)
}

func (s *GameService) startSession(params domain.StartParams, pilot Autopilot) (*SessionHandle, error) {
	if s.closed.Load() {
		return nil, fmt.Errorf("service is shutting down")
	}

	id := uuid.NewString()

	s.mu.Lock()
	s.started++
	if params.Seed == 0 && s.cfg.Seed != 0 {
		params.Seed = s.cfg.Seed + s.started
	}
	s.mu.Unlock()

	h := &SessionHandle{
		ID:        id,
		commands:  make(chan func(*GameSession), 64),
		done:      make(chan struct{}),
		autopilot: pilot,
	}
	h.session = NewSession(id, s.cfg.Game, params, nil, func(ev domain.Event) { s.processEvent(h, ev) })

	if err := h.session.Start(); err != nil {
		return nil, err
	}
	s.metrics.SessionStarted(context.Background())
	h.storeTelemetry()

	s.mu.Lock()
	s.sessions[id] = h
	s.mu.Unlock()

	s.loops.Add(1)
	go func() {
		s.runSession(h)
		s.retire(h)
	}()
	return h, nil
}

// retire убирает законченную сессию из реестра: сначала ждём записи итога,
// потом ещё Retention, чтобы клиенты успели забрать финальную телеметрию.
func (s *GameService) retire(h *SessionHandle) {
	h.persisting.Wait()
	time.AfterFunc(s.cfg.Retention, func() {
		if s.Forget(h.ID) {
			logger.ForSession("game_service", h.ID).Debug("Session retired")
		}
	})
}

// runSession - игровой цикл ЭТОЙ сессии. Всё состояние сессии меняется только здесь.
func (s *GameService) runSession(h *SessionHandle) {
	defer s.loops.Done()
	defer close(h.done)

	log := logger.ForSession("game_service", h.ID)
	log.Info("Session loop started")

	frame := time.NewTicker(s.cfg.Game.TickInterval)
	defer frame.Stop()
	publish := time.NewTicker(s.cfg.SendInterval)
	defer publish.Stop()

	for {
		select {
		case <-frame.C:
			input := h.currentInput()
			if h.autopilot != nil {
				input = h.autopilot.Steer(h.session)
			}
			h.session.Tick(s.cfg.Game.TickInterval, input)
			h.storeTelemetry()

		case fn := <-h.commands:
			fn(h.session)
			h.storeTelemetry()

		case <-publish.C:
			s.publishTelemetry(h)
		}

		if h.session.Phase == domain.PhaseGameOver {
			s.publishTelemetry(h)
			log.Info("Session loop finished")
			return
		}
	}
}

func (h *SessionHandle) storeTelemetry() {
	t := h.session.Telemetry()
	h.telemetry.Store(&t)
}

// exec выполняет fn в потоке сессии и ждёт результата
func (s *GameService) exec(id string, fn func(*GameSession) error) error {
	h, ok := s.get(id)
	if !ok {
		return fmt.Errorf("session %s: %w", id, ErrSessionNotFound)
	}

	errCh := make(chan error, 1)
	select {
	case h.commands <- func(g *GameSession) { errCh <- fn(g) }:
	case <-h.done:
		return fmt.Errorf("session %s: %w", id, ErrSessionNotRunning)
	}

	select {
	case err := <-errCh:
		return err
	case <-h.done:
		// Сессия могла закончиться на этой же команде (STOP)
		select {
		case err := <-errCh:
			return err
		default:
			return fmt.Errorf("session %s: %w", id, ErrSessionNotRunning)
		}
	}
}

// StopSession прерывает партию с причиной ABORTED
func (s *GameService) StopSession(id string) error {
	return s.exec(id, func(g *GameSession) error {
		if !g.End(domain.EndAborted) {
			return fmt.Errorf("session %s: %w", id, ErrSessionNotRunning)
		}
		return nil
	})
}

// SetInput запоминает вектор ввода; сессия прочитает его на следующем тике
func (s *GameService) SetInput(id string, input domain.Vec2) error {
	h, ok := s.get(id)
	if !ok {
		return fmt.Errorf("session %s: %w", id, ErrSessionNotFound)
	}
	select {
	case <-h.done:
		return fmt.Errorf("session %s: %w", id, ErrSessionNotRunning)
	default:
	}
	h.setInput(input)
	return nil
}

// GrantUpgrade применяет улучшение в потоке сессии
func (s *GameService) GrantUpgrade(id string, kind domain.UpgradeKind) error {
	return s.exec(id, func(g *GameSession) error {
		if g.Phase != domain.PhaseRunning {
			return fmt.Errorf("session %s: %w", id, ErrSessionNotRunning)
		}
		g.GrantUpgrade(kind)
		return nil
	})
}

// Inspect выполняет read-only fn в потоке сессии.
// Для завершённой сессии fn вызывается напрямую: её горутина уже вышла.
func (s *GameService) Inspect(id string, fn func(*GameSession)) error {
	h, ok := s.get(id)
	if !ok {
		return fmt.Errorf("session %s: %w", id, ErrSessionNotFound)
	}
	select {
	case <-h.done:
		fn(h.session)
		return nil
	default:
	}

	err := s.exec(id, func(g *GameSession) error {
		fn(g)
		return nil
	})
	if err != nil {
		select {
		case <-h.done:
			fn(h.session)
			return nil
		default:
		}
	}
	return err
}

func (s *GameService) get(id string) (*SessionHandle, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	h, ok := s.sessions[id]
	return h, ok
}

// Get возвращает дескриптор сессии
func (s *GameService) Get(id string) (*SessionHandle, bool) {
	return s.get(id)
}

// Sessions - список сессий, отсортированный по ID
func (s *GameService) Sessions() []api.SessionView {
	s.mu.RLock()
	list := make([]api.SessionView, 0, len(s.sessions))
	for _, h := range s.sessions {
		t := h.Telemetry()
		list = append(list, api.SessionView{
			ID:        h.ID,
			Phase:     t.Phase.String(),
			Seed:      h.session.Seed,
			Telemetry: t,
		})
	}
	s.mu.RUnlock()

	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list
}

// ActiveCount - сколько сессий сейчас в RUNNING
func (s *GameService) ActiveCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, h := range s.sessions {
		select {
		case <-h.done:
		default:
			n++
		}
	}
	return n
}

// Forget удаляет завершённую сессию из реестра
func (s *GameService) Forget(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	h, ok := s.sessions[id]
	if !ok {
		return false
	}
	select {
	case <-h.done:
		delete(s.sessions, id)
		s.Hub.CloseSession(id)
		return true
	default:
		return false
	}
}

// Shutdown прерывает все сессии и ждёт записи итогов
func (s *GameService) Shutdown(ctx context.Context) error {
	s.closed.Store(true)
	s.Hub.Broadcast(api.ServerResponse{Type: api.MsgError, Error: "server is shutting down"})

	s.mu.RLock()
	ids := make([]string, 0, len(s.sessions))
	for id := range s.sessions {
		ids = append(ids, id)
	}
	s.mu.RUnlock()

	for _, id := range ids {
		_ = s.StopSession(id)
	}

	finished := make(chan struct{})
	go func() {
		s.loops.Wait()
		s.persist.Wait()
		close(finished)
	}()

	select {
	case <-finished:
		logger.Log.WithFields(logrus.Fields{
			"sessions":    len(ids),
			"subscribers": s.Hub.SubscriberCount(),
		}).Info("Game service stopped")
		return nil
	case <-ctx.Done():
		return fmt.Errorf("shutdown: %w", ctx.Err())
	}
}

func (s *GameService) publishTelemetry(h *SessionHandle) {
	if !s.Hub.HasSubscriber(h.ID) {
		h.session.DrainLogs()
		return
	}
	t := h.session.Telemetry()
	s.Hub.Publish(h.ID, api.ServerResponse{
		Type:      api.MsgTelemetry,
		SessionID: h.ID,
		Telemetry: &t,
		Logs:      h.session.DrainLogs(),
	})
}
