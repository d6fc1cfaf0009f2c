package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"dns-ledger-sim/authority"
	"dns-ledger-sim/handlers"
	"dns-ledger-sim/logger"
	"dns-ledger-sim/models"
	"dns-ledger-sim/repository"
	"dns-ledger-sim/routers"
	"dns-ledger-sim/screening"
)

type mockRepo struct {
	mu     sync.Mutex
	chains map[int]map[int]models.LedgerBlock
}

func newMockRepo() *mockRepo {
	return &mockRepo{chains: make(map[int]map[int]models.LedgerBlock)}
}

func (m *mockRepo) PutBlocks(entries []repository.BlockEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range entries {
		if m.chains[e.NodeID] == nil {
			m.chains[e.NodeID] = make(map[int]models.LedgerBlock)
		}
		m.chains[e.NodeID][e.Block.Index] = e.Block
	}
	return nil
}

func (m *mockRepo) GetChain(nodeID int) ([]models.LedgerBlock, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	res := make([]models.LedgerBlock, 0, len(m.chains[nodeID]))
	for _, b := range m.chains[nodeID] {
		res = append(res, b)
	}
	sort.Slice(res, func(i, j int) bool { return res[i].Index < res[j].Index })
	return res, nil
}

func (m *mockRepo) DeleteAll() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.chains = make(map[int]map[int]models.LedgerBlock)
	return nil
}

type listedIPs map[string]bool

func (l listedIPs) Listed(_ context.Context, ip string) (bool, error) {
	return l[ip], nil
}

func testServer() (*mux.Router, *mockRepo) {
	logger.Logger = zap.NewNop()

	mockRepo := newMockRepo()
	var repoInterface repository.ChainRepository = mockRepo
	screener := &screening.Screener{
		EntropyThreshold: screening.DefaultEntropyThreshold,
		Blocklist:        listedIPs{"45.67.89.123": true},
	}
	network := authority.NewNetwork(repoInterface, screener, authority.DefaultSize, 0)
	handler := handlers.NewHandler(network)
	router := mux.NewRouter()
	routers.RegisterRoutes(router, handler)
	return router, mockRepo
}

func post(router *mux.Router, path string, body interface{}) *httptest.ResponseRecorder {
	var payload []byte
	if body != nil {
		payload, _ = json.Marshal(body)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	res := httptest.NewRecorder()
	router.ServeHTTP(res, req)
	return res
}

func TestStartSimulation(t *testing.T) {
	router, mockRepo := testServer()

	res := post(router, "/start_simulation", nil)
	if res.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d, body: %s", res.Code, res.Body.String())
	}

	var msg models.MessageResponse
	if err := json.Unmarshal(res.Body.Bytes(), &msg); err != nil {
		t.Fatalf("Invalid JSON response: %v", err)
	}
	if msg.Message != "Simulation started with 5 nodes" {
		t.Fatalf("unexpected message %q", msg.Message)
	}

	chain, _ := mockRepo.GetChain(5)
	if len(chain) != 1 || !chain[0].Data.IsGenesis() {
		t.Fatalf("expected genesis-only chain for node 5, got %+v", chain)
	}
}

func TestSubmitEntry_NotStarted(t *testing.T) {
	router, _ := testServer()

	res := post(router, "/submit_entry", models.CandidateRecord{Domain: "google.com", IP: "8.8.8.8"})
	if res.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d, body: %s", res.Code, res.Body.String())
	}
}

func TestSubmitEntry_MissingFields(t *testing.T) {
	router, _ := testServer()
	post(router, "/start_simulation", nil)

	res := post(router, "/submit_entry", map[string]string{"domain": "google.com"})
	if res.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d, body: %s", res.Code, res.Body.String())
	}
}

func TestSubmitEntry_InvalidPayload(t *testing.T) {
	router, _ := testServer()

	req := httptest.NewRequest(http.MethodPost, "/submit_entry", bytes.NewReader([]byte("{")))
	res := httptest.NewRecorder()
	router.ServeHTTP(res, req)
	if res.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", res.Code)
	}
}

func TestSubmitEntry_Accepted(t *testing.T) {
	router, mockRepo := testServer()
	post(router, "/start_simulation", nil)

	res := post(router, "/submit_entry", models.CandidateRecord{Domain: "google.com", IP: "8.8.8.8"})
	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d, body: %s", res.Code, res.Body.String())
	}

	var resp models.SubmitResponse
	if err := json.Unmarshal(res.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Invalid JSON response: %v", err)
	}
	if resp.Result != "Accepted" {
		t.Fatalf("expected Accepted, got %s", resp.Result)
	}
	if len(resp.Blockchain) != 2 {
		t.Fatalf("expected 2 blocks, got %d", len(resp.Blockchain))
	}
	if resp.Blockchain[1].Data.Record == nil || resp.Blockchain[1].Data.Record.Domain != "google.com" {
		t.Fatalf("expected google.com at index 1, got %+v", resp.Blockchain[1])
	}

	chain, _ := mockRepo.GetChain(3)
	if len(chain) != 2 {
		t.Fatalf("expected every validator chain to grow, node 3 has %d blocks", len(chain))
	}
}

func TestSubmitEntry_Rejected(t *testing.T) {
	router, _ := testServer()
	post(router, "/start_simulation", nil)

	res := post(router, "/submit_entry", models.CandidateRecord{Domain: "bvn5rtqzq.com", IP: "45.67.89.123"})
	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d, body: %s", res.Code, res.Body.String())
	}

	var resp models.SubmitResponse
	if err := json.Unmarshal(res.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Invalid JSON response: %v", err)
	}
	if resp.Result != "Rejected" || resp.Reason != "Malicious entry" || resp.BannedNode != 1 {
		t.Fatalf("unexpected rejection %+v", resp)
	}
	if len(resp.Votes) != 5 {
		t.Fatalf("expected 5 votes, got %d", len(resp.Votes))
	}
}

func TestGetBlockchains(t *testing.T) {
	router, _ := testServer()

	res := httptest.NewRecorder()
	router.ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/get_blockchains", nil))
	if res.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 before start, got %d", res.Code)
	}

	post(router, "/start_simulation", nil)
	post(router, "/submit_entry", models.CandidateRecord{Domain: "google.com", IP: "8.8.8.8"})

	res = httptest.NewRecorder()
	router.ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/get_blockchains", nil))
	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d, body: %s", res.Code, res.Body.String())
	}

	var chains map[string][]models.LedgerBlock
	if err := json.Unmarshal(res.Body.Bytes(), &chains); err != nil {
		t.Fatalf("Invalid JSON response: %v", err)
	}
	if len(chains) != 5 || len(chains["Node 4"]) != 2 {
		t.Fatalf("unexpected chains %v", chains)
	}
}

func TestStopSimulation(t *testing.T) {
	router, mockRepo := testServer()
	post(router, "/start_simulation", nil)

	res := post(router, "/stop_simulation", nil)
	if res.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", res.Code)
	}
	chain, _ := mockRepo.GetChain(1)
	if len(chain) != 0 {
		t.Fatalf("expected chains cleared, got %d blocks", len(chain))
	}

	res = post(router, "/submit_entry", models.CandidateRecord{Domain: "google.com", IP: "8.8.8.8"})
	if res.Code != http.StatusConflict {
		t.Fatalf("expected 409 after stop, got %d", res.Code)
	}
}
