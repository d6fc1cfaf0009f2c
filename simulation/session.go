package simulation

import (
	"context"
	"fmt"

	"dns-ledger-sim/logger"
	"dns-ledger-sim/models"
	"dns-ledger-sim/registry"

	"go.uber.org/zap"
)

// StartSession asks the control authority to start. On success the session
// becomes active and every node goes Idle; on failure the flag stays put and
// the failure is logged.
func (e *Engine) StartSession() {
	e.sched.Async(func() func() {
		err := e.authority.Start(context.Background())
		return func() {
			if err != nil {
				e.state.Log.Push(fmt.Sprintf("Error starting simulation: %v", err))
				logger.Logger.Warn("Failed to start simulation", zap.Error(err))
				e.publish()
				return
			}
			e.epoch++
			e.state.SessionActive = true
			e.state.Nodes.ResetAll(models.Idle)
			logger.Logger.Info("Simulation started")
			e.publish()
		}
	})
}

// StopSession asks the control authority to stop. On success the session
// becomes inactive and every node except the submitter goes Stopped.
func (e *Engine) StopSession() {
	e.sched.Async(func() func() {
		err := e.authority.Stop(context.Background())
		return func() {
			if err != nil {
				e.state.Log.Push(fmt.Sprintf("Error stopping simulation: %v", err))
				logger.Logger.Warn("Failed to stop simulation", zap.Error(err))
				e.publish()
				return
			}
			e.epoch++
			e.state.SessionActive = false
			e.state.Nodes.ApplyTransition(registry.Peers, models.Stopped)
			logger.Logger.Info("Simulation stopped")
			e.publish()
		}
	})
}

// ToggleSession starts an inactive session or stops an active one.
func (e *Engine) ToggleSession() {
	if e.state.SessionActive {
		e.StopSession()
		return
	}
	e.StartSession()
}
