package render_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/pterm/pterm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dns-ledger-sim/ledger"
	"dns-ledger-sim/models"
	"dns-ledger-sim/registry"
	"dns-ledger-sim/render"
	"dns-ledger-sim/simulation"
)

func snapshot() simulation.Snapshot {
	nodes := registry.DefaultTopology()
	nodes[1].Decision = models.Voting
	return simulation.Snapshot{
		SessionActive: true,
		Phase:         simulation.PhaseAwaitingVerdict,
		Nodes:         nodes,
		Anchor:        registry.LedgerAnchor,
		Ledger:        []models.LedgerBlock{ledger.Genesis()},
		Logs:          []string{"Entry for google.com ACCEPTED"},
		LogCount:      1,
		Current:       &models.CandidateRecord{Domain: "google.com", IP: "8.8.8.8"},
		Animation:     models.AnimationState{Visible: true, Position: models.Point{X: 350, Y: 275}, Opacity: 1},
	}
}

func TestComposeShowsAllPanels(t *testing.T) {
	pterm.DisableColor()
	defer pterm.EnableColor()

	out := render.Compose(snapshot())
	for _, want := range []string{
		"Simulation running",
		"Node 1 Stopped",
		"Node 2 Voting",
		"token at (350, 275)",
		"Domain: google.com",
		`Block 0: "Genesis Block"`,
		"Entry for google.com ACCEPTED",
	} {
		assert.True(t, strings.Contains(out, want), "missing %q in\n%s", want, out)
	}
}

func TestMultiFansOut(t *testing.T) {
	var a, b countingSurface
	render.Multi{&a, &b, render.Null{}}.Draw(snapshot())
	assert.Equal(t, 1, int(a))
	assert.Equal(t, 1, int(b))
}

type countingSurface int

func (c *countingSurface) Draw(simulation.Snapshot) { *c++ }

func TestHubStreamsSnapshots(t *testing.T) {
	hub := render.NewHub()
	defer hub.Close()
	hub.Draw(snapshot())

	srv := httptest.NewServer(http.HandlerFunc(hub.Handle))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	defer conn.Close()

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)

	var got simulation.Snapshot
	require.NoError(t, json.Unmarshal(msg, &got))
	assert.True(t, got.SessionActive)
	assert.Equal(t, simulation.PhaseAwaitingVerdict, got.Phase)
	assert.Equal(t, models.Voting, got.Nodes[1].Decision)
	assert.True(t, got.Ledger[0].Data.IsGenesis())
}
