package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"dns-ledger-sim/authority"
	"dns-ledger-sim/logger"
	"dns-ledger-sim/models"

	"go.uber.org/zap"
)

// Handler contains the HTTP handlers for the decision authority API
type Handler struct {
	Network *authority.Network
}

// NewHandler creates and returns a new Handler instance
func NewHandler(n *authority.Network) *Handler {
	return &Handler{Network: n}
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Logger.Warn("Failed to encode response", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, models.ErrorResponse{Error: msg})
}

// StartSimulation creates a fresh set of validators
func (h *Handler) StartSimulation(w http.ResponseWriter, r *http.Request) {
	if err := h.Network.Start(); err != nil {
		logger.Logger.Error("Failed to start simulation", zap.Error(err))
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, models.MessageResponse{
		Message: fmt.Sprintf("Simulation started with %d nodes", len(h.Network.Validators())),
	})
}

// StopSimulation discards the validators and their chains
func (h *Handler) StopSimulation(w http.ResponseWriter, r *http.Request) {
	if err := h.Network.Stop(); err != nil {
		logger.Logger.Error("Failed to stop simulation", zap.Error(err))
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, models.MessageResponse{Message: "Simulation stopped"})
}

// SubmitEntry runs a voting round for the posted record
func (h *Handler) SubmitEntry(w http.ResponseWriter, r *http.Request) {
	var rec models.CandidateRecord
	if err := json.NewDecoder(r.Body).Decode(&rec); err != nil {
		logger.Logger.Error("Failed to decode entry", zap.Error(err))
		writeError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	resp, err := h.Network.Submit(r.Context(), rec)
	switch {
	case errors.Is(err, authority.ErrInvalidRecord):
		writeError(w, http.StatusBadRequest, "Domain and IP are required")
		return
	case errors.Is(err, authority.ErrNotStarted):
		writeError(w, http.StatusConflict, "Simulation not started")
		return
	case err != nil:
		logger.Logger.Error("Failed to evaluate entry", zap.String("domain", rec.Domain), zap.Error(err))
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// GetBlockchains returns every validator's chain keyed "Node <id>"
func (h *Handler) GetBlockchains(w http.ResponseWriter, r *http.Request) {
	chains, err := h.Network.Chains()
	if errors.Is(err, authority.ErrNotStarted) {
		writeError(w, http.StatusBadRequest, "Simulation not started")
		return
	}
	if err != nil {
		logger.Logger.Error("Failed to load chains", zap.Error(err))
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	out := make(map[string][]models.LedgerBlock, len(chains))
	for id, blocks := range chains {
		out[fmt.Sprintf("Node %d", id)] = blocks
	}
	writeJSON(w, http.StatusOK, out)
}
