package fusion

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"optix/internal/llm"
	"optix/internal/market"
	"optix/internal/scoring"
)

func testResponse(conf float64, action llm.Action, risk llm.RiskLevel, urgency llm.Urgency) *llm.Response {
	return &llm.Response{
		TradeID:            "T-2001",
		AnalysisConfidence: conf,
		TradeRationale: llm.TradeRationale{
			PrimaryCatalyst:    "iv crush post earnings",
			MarketContext:      "range-bound index",
			NarrativeSummary:   "theta positive with capped downside",
			FundamentalFactors: []string{"stable margins"},
			TechnicalFactors:   []string{"above 200dma"},
		},
		RiskAssessment: llm.RiskAssessment{
			OverallRiskLevel: risk,
			RiskFactors:      []string{"fomc next week"},
		},
		ScenarioAnalysis: llm.ScenarioAnalysis{
			BaseCase: "sideways drift",
			BullCase: "slow grind up",
			BearCase: "support retest",
		},
		Recommendation: llm.Recommendation{
			Action:          action,
			ConfidenceScore: conf,
			UrgencyLevel:    urgency,
			KeyAssumptions:  []string{"no macro shock"},
		},
		IsValid: true,
	}
}

func goodQuant() scoring.Score {
	return scoring.Score{
		Total:        82,
		Greeks:       85,
		Volatility:   80,
		Fundamental:  78,
		Technical:    75,
		RiskAdjusted: 76,
	}
}

func newTestEngine(t *testing.T, opts ...Option) *Engine {
	t.Helper()
	e, err := NewEngine(DefaultConfig(), llm.NewNormalizer(llm.DefaultCalibration()), opts...)
	require.NoError(t, err)
	return e
}

func TestNewEngine_RejectsBadWeights(t *testing.T) {
	cfg := DefaultConfig()
	cfg.QuantWeight = 0.7
	cfg.LLMWeight = 0.2
	_, err := NewEngine(cfg, nil)
	assert.Error(t, err)
}

func TestDynamicWeights_SumAndBounds(t *testing.T) {
	e := newTestEngine(t)
	scores := []LLMScore{
		{Confidence: 0.9, RiskLevel: llm.RiskLow, Quality: 1.0, Valid: true},
		{Confidence: 0.1, RiskLevel: llm.RiskExtreme, Quality: 0.2, Valid: true},
		{Confidence: 0.5, RiskLevel: llm.RiskModerate, Quality: 0.8, Valid: true},
		{Confidence: 0.5, RiskLevel: llm.RiskHigh, Quality: 0.3, Valid: false},
	}
	contexts := []market.Context{
		{},
		{Trend: market.TrendBear, Vol: market.VolExtreme, EarningsSeason: true},
		{Trend: market.TrendBull, Vol: market.VolLow},
	}
	quants := []scoring.Score{
		{RiskAdjusted: 80},
		{RiskAdjusted: 30},
		{RiskAdjusted: 55},
	}
	for _, s := range scores {
		for _, mkt := range contexts {
			for _, q := range quants {
				w := e.DynamicWeights(q, s, mkt)
				assert.InDelta(t, 1.0, w.Quant+w.LLM, 1e-9)
				assert.GreaterOrEqual(t, w.Quant, 0.1)
				assert.LessOrEqual(t, w.Quant, 0.9)
				assert.GreaterOrEqual(t, w.LLM, 0.1)
				assert.LessOrEqual(t, w.LLM, 0.9)
			}
		}
	}
}

func TestDynamicWeights_ConfidenceShift(t *testing.T) {
	e := newTestEngine(t)
	quant := scoring.Score{RiskAdjusted: 55}
	high := e.DynamicWeights(quant, LLMScore{Confidence: 0.85, Quality: 1, Valid: true}, market.Context{})
	low := e.DynamicWeights(quant, LLMScore{Confidence: 0.2, Quality: 1, Valid: true}, market.Context{})
	assert.Greater(t, high.LLM, low.LLM)
}

func TestCompositeScore_Clamped(t *testing.T) {
	e := newTestEngine(t)
	w := WeightSet{Quant: 0.8, LLM: 0.2}

	huge := e.compositeScore(scoring.Score{Total: 500}, LLMScore{NormalizedScore: 500, RiskLevel: llm.RiskLow}, w)
	assert.LessOrEqual(t, huge, 100.0)

	tiny := e.compositeScore(scoring.Score{Total: 0}, LLMScore{NormalizedScore: 0, RiskLevel: llm.RiskExtreme}, w)
	assert.GreaterOrEqual(t, tiny, 0.0)
}

func TestCategorize_ThresholdBoundaries(t *testing.T) {
	e := newTestEngine(t)
	assert.Equal(t, CategoryStrongBuy, e.categorize(85.0))
	assert.Equal(t, CategoryBuy, e.categorize(84.999))
	assert.Equal(t, CategoryBuy, e.categorize(70.0))
	assert.Equal(t, CategoryHold, e.categorize(69.999))
	assert.Equal(t, CategoryAvoid, e.categorize(40.0))
	assert.Equal(t, CategoryStrongAvoid, e.categorize(10.0))
}

func TestProcessDecision_Idempotent(t *testing.T) {
	fixed := time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC)
	e := newTestEngine(t, WithClock(func() time.Time { return fixed }))

	resp := testResponse(0.75, llm.ActionBuy, llm.RiskModerate, llm.UrgencyModerate)
	a := e.ProcessDecision("T-2001", goodQuant(), resp, market.Context{})
	b := e.ProcessDecision("T-2001", goodQuant(), resp, market.Context{})

	assert.Equal(t, a.CompositeScore, b.CompositeScore)
	assert.Equal(t, a.DecisionCategory, b.DecisionCategory)
	assert.Equal(t, a.FinalRecommendation, b.FinalRecommendation)
	assert.Equal(t, a.ConfidenceLevel, b.ConfidenceLevel)
	assert.Equal(t, a.QuantWeight, b.QuantWeight)
	assert.Equal(t, a.LLMWeight, b.LLMWeight)
	assert.Equal(t, a.DecisionFactors, b.DecisionFactors)
	assert.Equal(t, a.RiskWarnings, b.RiskWarnings)
	assert.NotEqual(t, a.TraceID, b.TraceID)
}

func TestProcessDecision_InvalidResponseFallback(t *testing.T) {
	e := newTestEngine(t)
	r := e.ProcessDecision("T-1", goodQuant(), nil, market.Context{})

	assert.Equal(t, 0.5, r.LLMScore.Confidence)
	assert.Equal(t, llm.ActionMonitor, r.LLMScore.Action)
	assert.Equal(t, llm.RiskModerate, r.LLMScore.RiskLevel)
	assert.Equal(t, 50.0, r.LLMScore.NormalizedScore)
	assert.False(t, r.LLMScore.Valid)
	assert.Equal(t, ConfidenceLow, r.ConfidenceLevel)
}

func TestProcessDecision_HoldDefersToLLMAction(t *testing.T) {
	e := newTestEngine(t)
	quant := scoring.Score{Total: 68, Greeks: 60, Volatility: 60, Fundamental: 60, Technical: 60, RiskAdjusted: 58}
	resp := testResponse(0.6, llm.ActionMonitor, llm.RiskModerate, llm.UrgencyModerate)

	r := e.ProcessDecision("T-hold", quant, resp, market.Context{})
	require.Equal(t, CategoryHold, r.DecisionCategory)
	assert.Equal(t, llm.ActionMonitor, r.FinalRecommendation)
}

func TestProcessDecision_UrgencyOverride(t *testing.T) {
	e := newTestEngine(t)
	resp := testResponse(0.9, llm.ActionBuy, llm.RiskLow, llm.UrgencyImmediate)

	r := e.ProcessDecision("T-urgent", goodQuant(), resp, market.Context{})
	require.Contains(t, []Category{CategoryStrongBuy, CategoryBuy}, r.DecisionCategory)
	assert.Equal(t, llm.ActionBuy, r.FinalRecommendation)
	assert.Equal(t, ConfidenceHigh, r.ConfidenceLevel)
}

func TestWeightOverride_ReplacesDynamic(t *testing.T) {
	e := newTestEngine(t)
	require.NoError(t, e.SetWeightOverride("T-ov", 0.6, 0.4, "desk call", time.Hour))

	resp := testResponse(0.75, llm.ActionBuy, llm.RiskModerate, llm.UrgencyModerate)
	r := e.ProcessDecision("T-ov", goodQuant(), resp, market.Context{})

	assert.Equal(t, 0.6, r.QuantWeight)
	assert.Equal(t, 0.4, r.LLMWeight)
	require.NotNil(t, r.Override)
	assert.Equal(t, "weight", r.Override.Kind)
	assert.Equal(t, "desk call", r.Override.Reason)
}

func TestWeightOverride_Validation(t *testing.T) {
	e := newTestEngine(t)
	assert.Error(t, e.SetWeightOverride("T-1", 0.7, 0.2, "bad sum", time.Hour))
	assert.Error(t, e.SetWeightOverride("T-1", 1.4, -0.4, "negative", time.Hour))
	assert.Error(t, e.SetWeightOverride("T-1", 0.5, 0.5, "no ttl", 0))
}

func TestWeightOverride_ExpiresLazily(t *testing.T) {
	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	e := newTestEngine(t, WithClock(func() time.Time { return now }))
	require.NoError(t, e.SetWeightOverride("T-exp", 0.5, 0.5, "short lived", time.Minute))

	now = now.Add(2 * time.Minute)
	resp := testResponse(0.75, llm.ActionBuy, llm.RiskModerate, llm.UrgencyModerate)
	r := e.ProcessDecision("T-exp", goodQuant(), resp, market.Context{})

	assert.Nil(t, r.Override)
	assert.NotEqual(t, 0.5, r.QuantWeight)

	st := e.WeightOverrideStatus("T-exp")
	assert.False(t, st.Active)
	assert.True(t, st.Expired)
}

func TestDecisionOverride_Validation(t *testing.T) {
	e := newTestEngine(t)
	assert.Error(t, e.SetDecisionOverride("T-1", llm.ActionMonitor, "not allowed", time.Hour))
	assert.Error(t, e.SetDecisionOverride("T-1", llm.Action("YOLO"), "unknown", time.Hour))
	assert.NoError(t, e.SetDecisionOverride("T-1", llm.ActionSell, "risk desk", time.Hour))
}

func TestDecisionOverride_GlobalKey(t *testing.T) {
	e := newTestEngine(t)
	require.NoError(t, e.SetDecisionOverride(GlobalKey, llm.ActionAvoid, "circuit breaker", time.Hour))

	resp := testResponse(0.9, llm.ActionBuy, llm.RiskLow, llm.UrgencyModerate)
	r := e.ProcessDecision("any-trade", goodQuant(), resp, market.Context{})

	assert.Equal(t, llm.ActionAvoid, r.FinalRecommendation)
	require.NotNil(t, r.Override)
	assert.Equal(t, "decision", r.Override.Kind)

	e.ClearDecisionOverride(GlobalKey)
	r2 := e.ProcessDecision("any-trade", goodQuant(), resp, market.Context{})
	assert.Nil(t, r2.Override)
}

func TestBuildLLMScore_Modifiers(t *testing.T) {
	norm := llm.NormalizedOutput{QualityScore: 1, Valid: true}

	buy := BuildLLMScore(testResponse(0.85, llm.ActionBuy, llm.RiskModerate, llm.UrgencyHigh), norm)
	// 85 + 10(BUY) - 2(MODERATE) = 93
	assert.InDelta(t, 93.0, buy.NormalizedScore, 1e-9)
	assert.Greater(t, buy.NormalizedScore, 50.0)

	sell := BuildLLMScore(testResponse(0.85, llm.ActionSell, llm.RiskExtreme, llm.UrgencyHigh), norm)
	// 85 - 10(SELL) - 15(EXTREME) = 60
	assert.InDelta(t, 60.0, sell.NormalizedScore, 1e-9)

	capped := BuildLLMScore(testResponse(0.99, llm.ActionBuy, llm.RiskLow, llm.UrgencyHigh), norm)
	assert.LessOrEqual(t, capped.NormalizedScore, 100.0)
}

func TestResult_ToMap(t *testing.T) {
	e := newTestEngine(t)
	resp := testResponse(0.75, llm.ActionBuy, llm.RiskModerate, llm.UrgencyModerate)
	r := e.ProcessDecision("T-map", goodQuant(), resp, market.Context{})

	m := r.ToMap()
	assert.Equal(t, "T-map", m["trade_id"])
	assert.Equal(t, string(r.DecisionCategory), m["decision_category"])
	weights, ok := m["weights"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, r.QuantWeight, weights["quantitative"])
	breakdown, ok := m["score_breakdown"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, r.QuantScore.Total, breakdown["quant_total"])
}
