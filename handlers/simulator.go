package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"dns-ledger-sim/logger"
	"dns-ledger-sim/models"
	"dns-ledger-sim/simulation"

	"go.uber.org/zap"
)

// Dispatcher runs a function on the simulation's event thread.
type Dispatcher interface {
	Do(ctx context.Context, fn func()) error
}

// SimulatorHandler exposes the simulation engine over HTTP
type SimulatorHandler struct {
	Engine *simulation.Engine
	Loop   Dispatcher
}

// NewSimulatorHandler creates and returns a new SimulatorHandler instance
func NewSimulatorHandler(e *simulation.Engine, loop Dispatcher) *SimulatorHandler {
	return &SimulatorHandler{Engine: e, Loop: loop}
}

func (h *SimulatorHandler) do(w http.ResponseWriter, r *http.Request, fn func()) bool {
	if err := h.Loop.Do(r.Context(), fn); err != nil {
		logger.Logger.Error("Event loop unavailable", zap.Error(err))
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return false
	}
	return true
}

// StartSession asks the control authority to start the session
func (h *SimulatorHandler) StartSession(w http.ResponseWriter, r *http.Request) {
	if h.do(w, r, h.Engine.StartSession) {
		writeJSON(w, http.StatusAccepted, models.MessageResponse{Message: "Simulation start requested"})
	}
}

// StopSession asks the control authority to stop the session
func (h *SimulatorHandler) StopSession(w http.ResponseWriter, r *http.Request) {
	if h.do(w, r, h.Engine.StopSession) {
		writeJSON(w, http.StatusAccepted, models.MessageResponse{Message: "Simulation stop requested"})
	}
}

// ToggleSession mirrors the single start/stop button
func (h *SimulatorHandler) ToggleSession(w http.ResponseWriter, r *http.Request) {
	if h.do(w, r, h.Engine.ToggleSession) {
		writeJSON(w, http.StatusAccepted, models.MessageResponse{Message: "Simulation toggle requested"})
	}
}

// SubmitEntry starts a round for the posted record
func (h *SimulatorHandler) SubmitEntry(w http.ResponseWriter, r *http.Request) {
	var rec models.CandidateRecord
	if err := json.NewDecoder(r.Body).Decode(&rec); err != nil {
		logger.Logger.Error("Failed to decode entry", zap.Error(err))
		writeError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if rec.Domain == "" || rec.IP == "" {
		writeError(w, http.StatusBadRequest, "Domain and IP are required")
		return
	}
	h.submit(w, r, func() error { return h.Engine.Submit(rec) }, rec)
}

// SubmitOK sends the benign preset entry
func (h *SimulatorHandler) SubmitOK(w http.ResponseWriter, r *http.Request) {
	h.submit(w, r, func() error { return h.Engine.SubmitPreset(false) }, simulation.OKRecord)
}

// SubmitMalicious sends the malicious preset entry
func (h *SimulatorHandler) SubmitMalicious(w http.ResponseWriter, r *http.Request) {
	h.submit(w, r, func() error { return h.Engine.SubmitPreset(true) }, simulation.MaliciousRecord)
}

func (h *SimulatorHandler) submit(w http.ResponseWriter, r *http.Request, fn func() error, rec models.CandidateRecord) {
	var err error
	if !h.do(w, r, func() { err = fn() }) {
		return
	}
	if errors.Is(err, simulation.ErrSessionInactive) || errors.Is(err, simulation.ErrSubmissionInFlight) {
		writeError(w, http.StatusConflict, err.Error())
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]interface{}{
		"message": "Entry submitted",
		"entry":   rec,
	})
}

// GetState returns the current simulation snapshot
func (h *SimulatorHandler) GetState(w http.ResponseWriter, r *http.Request) {
	var snap simulation.Snapshot
	if h.do(w, r, func() { snap = h.Engine.Snapshot() }) {
		writeJSON(w, http.StatusOK, snap)
	}
}

// GetLogs returns the full simulation log, newest first
func (h *SimulatorHandler) GetLogs(w http.ResponseWriter, r *http.Request) {
	var logs []string
	if h.do(w, r, func() { logs = h.Engine.Logs() }) {
		writeJSON(w, http.StatusOK, map[string][]string{"logs": logs})
	}
}
