package server

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/mroblesdev/scratch-win-server/game"
	"github.com/mroblesdev/scratch-win-server/store"
)

func prizeID(r *http.Request) (int, bool) {
	id, err := strconv.Atoi(r.PathValue("id"))
	return id, err == nil
}

// validatePrize normalizes and checks a create/update payload.
func validatePrize(np *store.NewPrize) string {
	np.Name = strings.TrimSpace(np.Name)
	np.Type = strings.TrimSpace(np.Type)
	if np.Name == "" {
		return "name is required"
	}
	if !game.ValidType(np.Type) {
		return "type must be Physical, Digital, or Discount"
	}
	if np.Probability < 0 {
		return "probability must not be negative"
	}
	if np.Stock != nil && *np.Stock < 0 {
		return "stock must not be negative (omit for unlimited)"
	}
	return ""
}

func (s *Server) handleListPrizes(w http.ResponseWriter, r *http.Request) {
	prizes, err := s.store.ListPrizes(r.Context())
	if err != nil {
		log.Printf("prizes: list failed: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to list prizes", "TECHNICAL_ERROR")
		return
	}
	if prizes == nil {
		prizes = []game.Prize{}
	}
	writeJSON(w, http.StatusOK, prizes)
}

func (s *Server) handleGetPrize(w http.ResponseWriter, r *http.Request) {
	id, ok := prizeID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid prize id", "INVALID_ID")
		return
	}
	p, err := s.store.GetPrize(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "prize not found", "NOT_FOUND")
		return
	}
	if err != nil {
		log.Printf("prizes: get %d failed: %v", id, err)
		writeError(w, http.StatusInternalServerError, "failed to load prize", "TECHNICAL_ERROR")
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleCreatePrize(w http.ResponseWriter, r *http.Request) {
	var np store.NewPrize
	if err := json.NewDecoder(r.Body).Decode(&np); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body", "INVALID_BODY")
		return
	}
	if msg := validatePrize(&np); msg != "" {
		writeError(w, http.StatusBadRequest, msg, "INVALID_PRIZE")
		return
	}
	p, err := s.store.CreatePrize(r.Context(), np)
	if err != nil {
		log.Printf("prizes: create failed: %v", err)
		writeError(w, http.StatusInternalServerError, "failed to create prize", "TECHNICAL_ERROR")
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (s *Server) handleUpdatePrize(w http.ResponseWriter, r *http.Request) {
	id, ok := prizeID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid prize id", "INVALID_ID")
		return
	}
	var np store.NewPrize
	if err := json.NewDecoder(r.Body).Decode(&np); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body", "INVALID_BODY")
		return
	}
	if msg := validatePrize(&np); msg != "" {
		writeError(w, http.StatusBadRequest, msg, "INVALID_PRIZE")
		return
	}
	p, err := s.store.UpdatePrize(r.Context(), id, np)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "prize not found", "NOT_FOUND")
		return
	}
	if err != nil {
		log.Printf("prizes: update %d failed: %v", id, err)
		writeError(w, http.StatusInternalServerError, "failed to update prize", "TECHNICAL_ERROR")
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleDeletePrize(w http.ResponseWriter, r *http.Request) {
	id, ok := prizeID(r)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid prize id", "INVALID_ID")
		return
	}
	err := s.store.DeletePrize(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "prize not found", "NOT_FOUND")
		return
	}
	if err != nil {
		log.Printf("prizes: delete %d failed: %v", id, err)
		writeError(w, http.StatusInternalServerError, "failed to delete prize", "TECHNICAL_ERROR")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "prize deleted"})
}
