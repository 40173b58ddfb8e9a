package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/DivyanshGoel20/token-strike/internal/engine"
	"github.com/DivyanshGoel20/token-strike/pkg/logger"
)

// DebugHandler предоставляет доступ к внутреннему состоянию движка
type DebugHandler struct {
	Service *engine.GameService
}

func NewDebugHandler(s *engine.GameService) *DebugHandler {
	return &DebugHandler{Service: s}
}

// RegisterRoutes регистрирует debug-эндпоинты
func (h *DebugHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/debug/sessions", h.handleListSessions)
	mux.HandleFunc("/debug/entities", h.handleDumpEntities)
	mux.HandleFunc("/debug/timers", h.handleTimers)
	mux.HandleFunc("/debug/config", h.handleConfig)
}

// /debug/sessions - все сессии с телеметрией
func (h *DebugHandler) handleListSessions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.Service.Sessions())
}

// /debug/entities?session=<id> - все сущности сессии, включая здоровье врагов
func (h *DebugHandler) handleDumpEntities(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("session")

	var snapshot interface{}
	err := h.Service.Inspect(id, func(g *engine.GameSession) {
		snapshot = g.Snapshot()
	})
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, snapshot)
}

// /debug/timers?session=<id> - очередь планировщика в порядке срабатывания
func (h *DebugHandler) handleTimers(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("session")

	var dump []map[string]interface{}
	err := h.Service.Inspect(id, func(g *engine.GameSession) {
		dump = g.Scheduler.DebugDump()
	})
	if err != nil {
		writeEngineError(w, err)
		return
	}
	writeJSON(w, dump)
}

// /debug/config - действующий тюнинг геймплея
func (h *DebugHandler) handleConfig(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.Service.Config())
}

func writeEngineError(w http.ResponseWriter, err error) {
	if errors.Is(err, engine.ErrSessionNotFound) {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	http.Error(w, err.Error(), http.StatusConflict)
}

func writeJSON(w http.ResponseWriter, data interface{}) {
	writeJSONStatus(w, http.StatusOK, data)
}

func writeJSONStatus(w http.ResponseWriter, status int, data interface{}) {
	// Разрешаем запросы с любого источника (нужно для локального debug-клиента)
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	// Если data == nil (например, пустая очередь), возвращаем пустой массив [], а не null
	if data == nil {
		_, _ = w.Write([]byte("[]"))
		return
	}

	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Log.WithError(err).Warn("failed to encode debug response")
	}
}
