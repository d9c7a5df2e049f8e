package server

import (
	"log"
	"net/http"
	"strconv"

	"github.com/mroblesdev/scratch-win-server/config"
	"github.com/mroblesdev/scratch-win-server/game"
	"github.com/mroblesdev/scratch-win-server/store"
)

type Server struct {
	cfg    *config.Config
	store  store.Store
	engine *game.Engine
	ledger *store.PlayLedger
}

// New opens the configured store (Postgres when DATABASE_URL is set, JSON
// file store otherwise) and wires the draw engine over it.
func New(cfg *config.Config) (*Server, error) {
	var st store.Store
	if cfg.DatabaseURL != "" {
		pg, err := store.NewPostgresStore(cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		st = pg
		log.Printf("scratchwin: using postgres store")
	} else {
		fs, err := store.NewFileStore(cfg.DataDir)
		if err != nil {
			return nil, err
		}
		st = fs
		log.Printf("scratchwin: using file store in %s", cfg.DataDir)
	}
	return NewWithStore(cfg, st), nil
}

// NewWithStore wires the server over an already-open store (tests).
func NewWithStore(cfg *config.Config, st store.Store) *Server {
	return &Server{
		cfg:    cfg,
		store:  st,
		engine: game.NewEngine(st, st, st),
		ledger: store.NewPlayLedger(cfg.DataDir),
	}
}

// Handler builds the full route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.health)

	mux.HandleFunc("POST /api/play", s.handlePlay)

	mux.HandleFunc("GET /api/prizes", s.handleListPrizes)
	mux.HandleFunc("GET /api/prizes/{id}", s.handleGetPrize)
	mux.HandleFunc("POST /api/prizes", s.adminOnly(s.handleCreatePrize))
	mux.HandleFunc("PUT /api/prizes/{id}", s.adminOnly(s.handleUpdatePrize))
	mux.HandleFunc("DELETE /api/prizes/{id}", s.adminOnly(s.handleDeletePrize))

	mux.HandleFunc("GET /api/settings", s.handleGetSettings)
	mux.HandleFunc("PUT /api/settings", s.adminOnly(s.handleUpdateSettings))

	mux.HandleFunc("GET /api/stats", s.handleGetStats)
	mux.HandleFunc("GET /api/plays", s.adminOnly(s.handleRecentPlays))

	return s.cors(requestLogger(mux))
}

func (s *Server) Run() error {
	port := s.cfg.Port
	if port <= 0 {
		port = 8080
	}
	addr := ":" + strconv.Itoa(port)
	log.Printf("scratchwin listening on %s", addr)
	return http.ListenAndServe(addr, s.Handler())
}

func (s *Server) cors(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", s.cfg.AllowedOrigin)
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		h.ServeHTTP(w, r)
	})
}

// requestLogger logs method and path for each request (no body or secrets).
func requestLogger(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log.Printf("scratchwin %s %s", r.Method, r.URL.Path)
		h.ServeHTTP(w, r)
	})
}

// adminOnly guards mutation endpoints with the configured bearer token.
// With no ADMIN_TOKEN configured, admin endpoints stay disabled.
func (s *Server) adminOnly(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.cfg.AdminToken == "" {
			writeError(w, http.StatusForbidden, "admin endpoints disabled", "ADMIN_DISABLED")
			return
		}
		auth := r.Header.Get("Authorization")
		const prefix = "Bearer "
		if len(auth) <= len(prefix) || auth[:len(prefix)] != prefix || auth[len(prefix):] != s.cfg.AdminToken {
			writeError(w, http.StatusUnauthorized, "invalid admin token", "UNAUTHORIZED")
			return
		}
		h(w, r)
	}
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "service": "scratchwin"})
}
