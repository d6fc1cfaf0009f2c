package render

import "dns-ledger-sim/simulation"

// Null discards snapshots; used when running headless.
type Null struct{}

// Draw discards the snapshot.
func (Null) Draw(simulation.Snapshot) {}

// Multi fans a snapshot out to several surfaces.
type Multi []simulation.Surface

// Draw passes s to every surface in order.
func (m Multi) Draw(s simulation.Snapshot) {
	for _, surface := range m {
		surface.Draw(s)
	}
}
