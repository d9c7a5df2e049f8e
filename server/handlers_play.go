package server

import (
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/mroblesdev/scratch-win-server/store"
)

// PlayResponse is the outcome envelope for POST /api/play.
type PlayResponse struct {
	PlayID  string      `json:"playId"`
	Won     bool        `json:"won"`
	Prize   interface{} `json:"prize,omitempty"`
	Message string      `json:"message,omitempty"`
}

// handlePlay resolves one play. Infrastructure failures surface as a generic
// "try again" error; game-logic ambiguity never errors, it loses.
func (s *Server) handlePlay(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	settings, err := s.store.Settings(ctx)
	if err != nil {
		log.Printf("play: settings read failed: %v", err)
		writeError(w, http.StatusInternalServerError, "something went wrong, try again", "TECHNICAL_ERROR")
		return
	}
	if !settings.EnableGame {
		writeError(w, http.StatusForbidden, "the game is currently disabled", "GAME_DISABLED")
		return
	}

	outcome, err := s.engine.ResolvePlay(ctx)
	if err != nil {
		log.Printf("play: resolve failed: %v", err)
		writeError(w, http.StatusInternalServerError, "something went wrong, try again", "TECHNICAL_ERROR")
		return
	}

	playID := uuid.New().String()
	rec := store.PlayRecord{
		PlayID:    playID,
		Won:       outcome.Won,
		SettledAt: time.Now(),
	}
	resp := PlayResponse{PlayID: playID, Won: outcome.Won}
	if outcome.Won {
		rec.PrizeID = &outcome.Prize.ID
		rec.PrizeName = outcome.Prize.Name
		resp.Prize = outcome.Prize
	} else {
		resp.Message = "Better luck next time!"
	}
	if err := s.ledger.Append(rec); err != nil {
		// The play is already settled in the store; a ledger write failure
		// must not turn a resolved outcome into a player-visible error.
		log.Printf("play: ledger append failed: %v", err)
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleRecentPlays returns the last plays from the audit ledger (admin).
func (s *Server) handleRecentPlays(w http.ResponseWriter, r *http.Request) {
	const limit = 100
	plays, err := s.ledger.Recent(limit)
	if err != nil {
		log.Printf("plays: ledger read failed: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to read play history", "TECHNICAL_ERROR")
		return
	}
	if plays == nil {
		plays = []store.PlayRecord{}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"plays": plays})
}
