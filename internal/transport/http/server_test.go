package adminhttp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"optix/internal/fusion"
	"optix/internal/llm"
	"optix/internal/market"
	"optix/internal/scoring"
	"optix/internal/store/auditlog"
	"optix/internal/store/decisionlog"
)

func newTestServer(t *testing.T) (*Server, *fusion.Engine, *decisionlog.Store) {
	t.Helper()
	engine, err := fusion.NewEngine(fusion.DefaultConfig(), nil)
	require.NoError(t, err)
	decisions, err := decisionlog.NewStore(filepath.Join(t.TempDir(), "decisions.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = decisions.Close() })
	audit, err := auditlog.NewStore(filepath.Join(t.TempDir(), "audit.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = audit.Close() })

	srv, err := NewServer(ServerConfig{
		Engine:    engine,
		Decisions: decisions,
		Audit:     audit,
	})
	require.NoError(t, err)
	return srv, engine, decisions
}

func doJSON(t *testing.T, srv *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	return w
}

func TestServer_Healthz(t *testing.T) {
	srv, _, _ := newTestServer(t)
	w := doJSON(t, srv, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestServer_Decisions(t *testing.T) {
	srv, _, decisions := newTestServer(t)
	r := &fusion.Result{
		TradeID:             "T-1",
		TraceID:             "trace-1",
		Timestamp:           time.Now(),
		FinalRecommendation: llm.ActionBuy,
		CompositeScore:      72,
		DecisionCategory:    fusion.CategoryBuy,
		ConfidenceLevel:     fusion.ConfidenceMedium,
		QuantWeight:         0.8,
		LLMWeight:           0.2,
	}
	require.NoError(t, decisions.Append(context.Background(), r))

	w := doJSON(t, srv, http.MethodGet, "/api/decisions?limit=10", "")
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Decisions []decisionlog.DecisionModel `json:"decisions"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Decisions, 1)
	assert.Equal(t, "T-1", resp.Decisions[0].TradeID)

	w = doJSON(t, srv, http.MethodGet, "/api/decisions/T-1", "")
	require.Equal(t, http.StatusOK, w.Code)
	w = doJSON(t, srv, http.MethodGet, "/api/decisions/T-missing", "")
	require.Equal(t, http.StatusOK, w.Code)
}

func TestServer_WeightOverrideLifecycle(t *testing.T) {
	srv, engine, _ := newTestServer(t)

	w := doJSON(t, srv, http.MethodPost, "/api/overrides/weights",
		`{"trade_id":"T-1","quant_weight":0.6,"llm_weight":0.4,"reason":"desk call","ttl_seconds":300}`)
	require.Equal(t, http.StatusOK, w.Code)

	st := engine.WeightOverrideStatus("T-1")
	assert.True(t, st.Active)

	w = doJSON(t, srv, http.MethodGet, "/api/overrides/weights/T-1", "")
	require.Equal(t, http.StatusOK, w.Code)
	var status fusion.OverrideStatus
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &status))
	assert.True(t, status.Active)

	w = doJSON(t, srv, http.MethodDelete, "/api/overrides/weights/T-1", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.False(t, engine.WeightOverrideStatus("T-1").Active)

	// 审计留痕
	w = doJSON(t, srv, http.MethodGet, "/api/overrides/audit", "")
	require.Equal(t, http.StatusOK, w.Code)
	var audit struct {
		Entries []auditlog.Entry `json:"entries"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &audit))
	require.Len(t, audit.Entries, 2)
	assert.Equal(t, "clear", audit.Entries[0].Action)
}

func TestServer_WeightOverrideRejectsBadSum(t *testing.T) {
	srv, _, _ := newTestServer(t)
	w := doJSON(t, srv, http.MethodPost, "/api/overrides/weights",
		`{"trade_id":"T-1","quant_weight":0.7,"llm_weight":0.2}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestServer_DecisionOverride(t *testing.T) {
	srv, engine, _ := newTestServer(t)

	w := doJSON(t, srv, http.MethodPost, "/api/overrides/decision",
		`{"trade_id":"*","decision":"avoid","reason":"circuit breaker","ttl_seconds":60}`)
	require.Equal(t, http.StatusOK, w.Code)

	r := engine.ProcessDecision("anything", scoring.Score{Total: 80, RiskAdjusted: 75}, nil, market.Context{})
	assert.Equal(t, llm.ActionAvoid, r.FinalRecommendation)
	require.NotNil(t, r.Override)

	w = doJSON(t, srv, http.MethodPost, "/api/overrides/decision",
		`{"trade_id":"T-1","decision":"MONITOR"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, srv, http.MethodDelete, "/api/overrides/decision/*", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestServer_RequiresEngine(t *testing.T) {
	_, err := NewServer(ServerConfig{})
	assert.Error(t, err)
}
