package render

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/pterm/pterm"

	"dns-ledger-sim/logger"
	"dns-ledger-sim/models"
	"dns-ledger-sim/simulation"

	"go.uber.org/zap"
)

// Terminal redraws the network, ledger and log panels in place.
type Terminal struct {
	area        *pterm.AreaPrinter
	minInterval time.Duration
	lastDraw    time.Time
}

// NewTerminal starts a live terminal area. Redraws closer together than
// minInterval are dropped while the token is still moving.
func NewTerminal(minInterval time.Duration) (*Terminal, error) {
	area, err := pterm.DefaultArea.Start()
	if err != nil {
		return nil, err
	}
	return &Terminal{area: area, minInterval: minInterval}, nil
}

// Draw redraws the area with s.
func (t *Terminal) Draw(s simulation.Snapshot) {
	now := time.Now()
	if s.Animation.Visible && now.Sub(t.lastDraw) < t.minInterval {
		return
	}
	t.lastDraw = now
	t.area.Update(Compose(s))
}

// Close stops the live area and leaves the last frame on screen.
func (t *Terminal) Close() error {
	return t.area.Stop()
}

// Compose renders s as terminal text.
func Compose(s simulation.Snapshot) string {
	var b strings.Builder

	status := pterm.LightRed("stopped")
	if s.SessionActive {
		status = pterm.LightGreen("running")
	}
	b.WriteString(pterm.Sprintfln("Simulation %s | phase %s", status, s.Phase))

	nodes := make([]string, 0, len(s.Nodes))
	for _, n := range s.Nodes {
		label := "-"
		if n.Decision != models.Unset {
			label = string(n.Decision)
		}
		if !s.SessionActive {
			nodes = append(nodes, pterm.FgGray.Sprintf("Node %d %s", n.ID, label))
			continue
		}
		nodes = append(nodes, decisionColor(n.Decision).Sprintf("Node %d %s", n.ID, label))
	}
	network := strings.Join(nodes, "   ")
	if s.Animation.Visible {
		token := pterm.FgGreen
		if s.SendingMalicious {
			token = pterm.FgRed
		}
		network += "\n" + token.Sprintf("token at (%.0f, %.0f) opacity %.2f",
			s.Animation.Position.X, s.Animation.Position.Y, s.Animation.Opacity)
	}
	b.WriteString(pterm.DefaultBox.WithTitle("Blockchain Network").Sprint(network))
	b.WriteString("\n")

	if s.Current != nil {
		b.WriteString(pterm.DefaultBox.WithTitle("Current Entry").
			Sprintf("Domain: %s\nIP: %s", s.Current.Domain, s.Current.IP))
		b.WriteString("\n")
	}

	blocks := make([]string, 0, len(s.Ledger))
	for i, block := range s.Ledger {
		data, err := json.Marshal(block.Data)
		if err != nil {
			logger.Logger.Warn("Failed to encode block", zap.Int("index", block.Index), zap.Error(err))
			continue
		}
		blocks = append(blocks, fmt.Sprintf("Block %d: %s", i, data))
	}
	b.WriteString(pterm.DefaultBox.WithTitle("Blockchain Ledger").Sprint(strings.Join(blocks, "\n")))
	b.WriteString("\n")

	logs := "(none)"
	if len(s.Logs) > 0 {
		logs = strings.Join(s.Logs, "\n")
	}
	b.WriteString(pterm.DefaultBox.WithTitle("Simulation Logs").Sprint(logs))
	return b.String()
}

func decisionColor(d models.Decision) pterm.Color {
	switch d {
	case models.Idle:
		return pterm.FgBlue
	case models.Voting:
		return pterm.FgYellow
	case models.OK:
		return pterm.FgGreen
	case models.Malicious:
		return pterm.FgRed
	}
	return pterm.FgGray
}
