package routers

import (
	"net/http"

	"dns-ledger-sim/handlers"

	"github.com/gorilla/mux"
)

// RegisterRoutes sets up the decision authority routes
func RegisterRoutes(r *mux.Router, h *handlers.Handler) {

	// Creates fresh validators, each holding only the genesis block
	r.HandleFunc("/start_simulation", h.StartSimulation).Methods("POST")

	// Discards validators and their chains
	r.HandleFunc("/stop_simulation", h.StopSimulation).Methods("POST")

	// Runs a majority vote on a {domain, ip} entry
	r.HandleFunc("/submit_entry", h.SubmitEntry).Methods("POST")

	// Every validator's chain
	r.HandleFunc("/get_blockchains", h.GetBlockchains).Methods("GET")
}

// RegisterSimulatorRoutes sets up the simulator's control and state routes.
// stream may be nil when no websocket render surface is attached.
func RegisterSimulatorRoutes(r *mux.Router, h *handlers.SimulatorHandler, stream http.HandlerFunc) {

	r.HandleFunc("/session/start", h.StartSession).Methods("POST")
	r.HandleFunc("/session/stop", h.StopSession).Methods("POST")
	r.HandleFunc("/session/toggle", h.ToggleSession).Methods("POST")

	// Arbitrary entry, then the two preset buttons
	r.HandleFunc("/entries", h.SubmitEntry).Methods("POST")
	r.HandleFunc("/entries/ok", h.SubmitOK).Methods("POST")
	r.HandleFunc("/entries/malicious", h.SubmitMalicious).Methods("POST")

	r.HandleFunc("/state", h.GetState).Methods("GET")
	r.HandleFunc("/logs", h.GetLogs).Methods("GET")

	if stream != nil {
		r.HandleFunc("/ws", stream).Methods("GET")
	}
}
