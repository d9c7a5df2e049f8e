package server

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/mroblesdev/scratch-win-server/game"
)

func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := s.store.Settings(r.Context())
	if err != nil {
		log.Printf("settings: read failed: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to load settings", "TECHNICAL_ERROR")
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

func (s *Server) handleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	var in game.GameSettings
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body", "INVALID_BODY")
		return
	}
	if in.GlobalWinRate < 0 || in.GlobalWinRate > 100 {
		writeError(w, http.StatusBadRequest, "globalWinRate must be between 0 and 100", "INVALID_SETTINGS")
		return
	}
	settings, err := s.store.UpdateSettings(r.Context(), in)
	if err != nil {
		log.Printf("settings: update failed: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to update settings", "TECHNICAL_ERROR")
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

func (s *Server) handleGetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.store.Stats(r.Context())
	if err != nil {
		log.Printf("stats: read failed: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to load stats", "TECHNICAL_ERROR")
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
