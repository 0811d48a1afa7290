package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"regexp"
	"time"

	"github.com/gorilla/websocket"

	"showcase/logger"
	"showcase/metrics"
	"showcase/models"
	"showcase/showcase"
)

// Pinger reports whether the item store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

const defaultShowcase = "testimonials"

var showcaseName = regexp.MustCompile(`^[a-z0-9-]{1,64}$`)

type Server struct {
	mux         *http.ServeMux
	mgr         *showcase.Manager
	validator   *CommandValidator
	store       Pinger
	maxCmdBytes int64
}

func NewServer(mgr *showcase.Manager, validator *CommandValidator, store Pinger, maxCmdBytes int64) *Server {
	if validator == nil {
		validator = NewCommandValidator()
	}
	s := &Server{mux: http.NewServeMux(), mgr: mgr, validator: validator, store: store, maxCmdBytes: maxCmdBytes}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.mux.HandleFunc("/ws", s.handleWS)
	s.mux.HandleFunc("/api/ws", s.handleWS)
	s.mux.HandleFunc("GET /api/showcases/{name}/items", s.handleItems)
	s.mux.HandleFunc("POST /api/showcases/{name}/reload", s.handleReload)
	s.mux.HandleFunc("/healthz", s.handleHealth)
	s.mux.HandleFunc("/readyz", s.handleReady)
	s.mux.HandleFunc("GET /metrics", metrics.Handler)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) { s.mux.ServeHTTP(w, r) }

var upgrader = websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}

// handleWS mounts one showcase session for the lifetime of the connection.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("showcase")
	if name == "" {
		name = defaultShowcase
	}
	if !showcaseName.MatchString(name) {
		http.Error(w, "invalid showcase", http.StatusBadRequest)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Error("websocket upgrade failed", err)
		return
	}
	metrics.IncWSConnections()
	defer metrics.DecWSConnections()

	c := newClient(conn)
	sess, err := s.mgr.Mount(r.Context(), name, c.pushView)
	if err != nil {
		logger.Error("mount failed", err, logger.FieldKV("showcase", name))
		_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
		_ = conn.WriteJSON(frame{Type: "error", Error: "showcase unavailable"})
		_ = conn.Close()
		return
	}
	c.start(sess.ID)
	defer func() {
		sess.Unmount()
		c.close()
	}()

	conn.SetReadLimit(s.maxCmdBytes)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error { return conn.SetReadDeadline(time.Now().Add(pongWait)) })

	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logger.Error("ws read", err, logger.FieldKV("session_id", sess.ID))
			}
			return
		}
		cmd, err := s.validator.Decode(raw)
		if err != nil {
			metrics.IncCommandsRejected()
			c.pushError(err.Error())
			continue
		}
		if err := sess.Apply(cmd); err != nil {
			metrics.IncCommandsRejected()
			c.pushError(err.Error())
		}
	}
}

func (s *Server) handleItems(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	if !showcaseName.MatchString(name) {
		http.Error(w, "invalid showcase", http.StatusBadRequest)
		return
	}
	items, err := s.mgr.Items(r.Context(), name)
	if err != nil {
		logger.Error("fetch items failed", err, logger.FieldKV("showcase", name))
		http.Error(w, "fetch failed", http.StatusInternalServerError)
		return
	}
	if items == nil {
		items = []models.Item{}
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(items)
}

func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	if !showcaseName.MatchString(name) {
		http.Error(w, "invalid showcase", http.StatusBadRequest)
		return
	}
	if err := s.mgr.Reload(r.Context(), name); err != nil {
		status := http.StatusBadGateway
		if errors.Is(err, context.Canceled) {
			status = http.StatusRequestTimeout
		}
		logger.Error("reload failed", err, logger.FieldKV("showcase", name))
		http.Error(w, "reload failed", status)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"showcase": name,
		"sessions": s.mgr.Hub().Count(name),
		"status":   "reloaded",
	})
}

// Health endpoint
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

// Readiness endpoint
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 1*time.Second)
	defer cancel()
	if s.store != nil {
		if err := s.store.Ping(ctx); err != nil {
			http.Error(w, "store not ready", http.StatusServiceUnavailable)
			return
		}
	}
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ready"))
}
