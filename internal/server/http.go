package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	_ "net/http/pprof" // Profiling
	"strconv"
	"time"

	"github.com/DivyanshGoel20/token-strike/internal/engine"
	"github.com/DivyanshGoel20/token-strike/internal/infrastructure/storage"
	"github.com/DivyanshGoel20/token-strike/internal/version"
	"github.com/DivyanshGoel20/token-strike/pkg/api"
	"github.com/DivyanshGoel20/token-strike/pkg/logger"
)

// RunHistory - то, что HTTP-слой читает из ledger
type RunHistory interface {
	Recent(ctx context.Context, limit int) ([]storage.SessionRecord, error)
}

type Server struct {
	Engine  *engine.GameService
	History RunHistory // может быть nil, если ledger выключен
	Port    string

	httpServer *http.Server
}

func New(engine *engine.GameService, port string) *Server {
	return &Server{
		Engine: engine,
		Port:   port,
	}
}

// Handler собирает все роуты сервера
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/ws", enableCORS(s.handleWS))
	mux.HandleFunc("/health", enableCORS(s.handleHealth))
	mux.HandleFunc("/version", enableCORS(s.handleVersion))
	mux.HandleFunc("/sessions", enableCORS(s.handleSessions))
	mux.HandleFunc("/results", enableCORS(s.handleResults))

	debugHandler := NewDebugHandler(s.Engine)
	debugHandler.RegisterRoutes(mux)

	// pprof регистрируется в DefaultServeMux
	mux.Handle("/debug/pprof/", http.DefaultServeMux)

	return mux
}

// Run запускает HTTP сервер и блокируется до Shutdown
func (s *Server) Run() error {
	s.httpServer = &http.Server{
		Addr:              ":" + s.Port,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.Log.Infof("🎯 Token Strike server running on :%s", s.Port)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown останавливает приём соединений
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

func enableCORS(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// Разрешаем запросы с фронтенда
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next(w, r)
	}
}

// handleWS обрабатывает подключение по WebSocket
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Log.WithError(err).Error("Upgrade error")
		return
	}

	client := NewClient(s.Engine, conn)

	// Запускаем пампы
	go client.writePump()
	go client.readPump()
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, version.Current())
}

// /sessions: GET - список, POST - новая партия (тело как у START)
func (s *Server) handleSessions(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, s.Engine.Sessions())

	case http.MethodPost:
		var payload api.StartPayload
		if r.Body != nil && r.ContentLength != 0 {
			if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
				http.Error(w, "invalid payload: "+err.Error(), http.StatusBadRequest)
				return
			}
		}
		if err := payload.Validate(); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		id, err := s.Engine.StartSession(payload.Params())
		if err != nil {
			http.Error(w, err.Error(), http.StatusServiceUnavailable)
			return
		}
		writeJSONStatus(w, http.StatusCreated, map[string]string{"sessionId": id})

	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

// /results?limit=20 - последние итоги из ledger
func (s *Server) handleResults(w http.ResponseWriter, r *http.Request) {
	if s.History == nil {
		http.Error(w, "ledger disabled", http.StatusNotFound)
		return
	}

	limit := 20
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			http.Error(w, "invalid limit", http.StatusBadRequest)
			return
		}
		limit = n
	}

	records, err := s.History.Recent(r.Context(), limit)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, records)
}
