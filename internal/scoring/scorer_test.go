package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScoreGreeks_IdealRange(t *testing.T) {
	s := NewDefaultScorer()
	// delta 在 [0.15,0.35]、gamma<=0.10、theta>=0.15、vega<=0.20 → 高分
	score := s.scoreGreeks(GreeksInput{Delta: 0.25, Gamma: 0.05, Theta: 0.20, Vega: 0.15})
	assert.Greater(t, score, 80.0)
}

func TestScoreGreeks_PutDelta(t *testing.T) {
	s := NewDefaultScorer()
	// 看跌 delta 为负，按绝对值评
	neg := s.scoreGreeks(GreeksInput{Delta: -0.25, Gamma: 0.05, Theta: 0.20, Vega: 0.15})
	pos := s.scoreGreeks(GreeksInput{Delta: 0.25, Gamma: 0.05, Theta: 0.20, Vega: 0.15})
	assert.Equal(t, pos, neg)
}

func TestScoreGreeks_OutOfRange(t *testing.T) {
	s := NewDefaultScorer()
	ideal := s.scoreGreeks(GreeksInput{Delta: 0.25, Gamma: 0.02, Theta: 0.2, Vega: 0.1})
	deep := s.scoreGreeks(GreeksInput{Delta: 0.85, Gamma: 0.3, Theta: 0.01, Vega: 0.6})
	assert.Greater(t, ideal, deep)
}

func TestRiskAdjusted_NeverAboveMean(t *testing.T) {
	s := NewDefaultScorer()
	cases := []struct {
		g GreeksInput
		v VolatilityInput
		f FundamentalsInput
		t TechnicalsInput
	}{
		{
			GreeksInput{Delta: 0.25, Gamma: 0.05, Theta: 0.2, Vega: 0.15},
			VolatilityInput{IVPercentile: 50, ImpliedVol: 0.3, RealizedVol: 0.25},
			FundamentalsInput{Beta: 1.0, PERatio: 18, DebtToEquity: 0.5, ROE: 0.15, AnalystRating: "buy"},
			TechnicalsInput{TrendStrength: 0.7, RSI: 50, RelativeStrength: 0.02},
		},
		{
			GreeksInput{Delta: 0.9, Gamma: 0.5, Theta: 0.0, Vega: 1.0},
			VolatilityInput{IVPercentile: 95, ImpliedVol: 0.2, RealizedVol: 0.8},
			FundamentalsInput{Beta: 2.5, PERatio: 80, DebtToEquity: 3.0, ROE: -0.1, AnalystRating: "sell"},
			TechnicalsInput{TrendStrength: 0.1, RSI: 85, RelativeStrength: -0.3},
		},
		{}, // 全零输入也不能越界
	}
	for _, tc := range cases {
		out := s.Score(tc.g, tc.v, tc.f, tc.t)
		mean := (out.Greeks + out.Volatility + out.Fundamental + out.Technical) / 4
		assert.LessOrEqual(t, out.RiskAdjusted, mean+1e-9)
		assert.GreaterOrEqual(t, out.Total, 0.0)
		assert.LessOrEqual(t, out.Total, 100.0)
		assert.GreaterOrEqual(t, out.RiskAdjusted, 0.0)
	}
}

func TestScoreVolatility_MidPercentileBest(t *testing.T) {
	s := NewDefaultScorer()
	mid := s.scoreVolatility(VolatilityInput{IVPercentile: 50})
	low := s.scoreVolatility(VolatilityInput{IVPercentile: 5})
	high := s.scoreVolatility(VolatilityInput{IVPercentile: 98})
	assert.Greater(t, mid, low)
	assert.Greater(t, mid, high)
}

func TestScoreVolatility_RatioPenalty(t *testing.T) {
	s := NewDefaultScorer()
	calm := s.scoreVolatility(VolatilityInput{IVPercentile: 50, ImpliedVol: 0.3, RealizedVol: 0.3})
	hot := s.scoreVolatility(VolatilityInput{IVPercentile: 50, ImpliedVol: 0.3, RealizedVol: 0.6})
	assert.Greater(t, calm, hot)
}

func TestScoreFundamentals_Rating(t *testing.T) {
	assert.Equal(t, 100.0, ratingToScore("buy"))
	assert.Equal(t, 60.0, ratingToScore("HOLD"))
	assert.Equal(t, 20.0, ratingToScore("sell"))
	assert.Equal(t, 50.0, ratingToScore("overweight"))
	assert.Equal(t, 50.0, ratingToScore(""))
}

func TestScoreTechnicals_NeutralRSI(t *testing.T) {
	s := NewDefaultScorer()
	neutral := s.scoreTechnicals(TechnicalsInput{TrendStrength: 0.7, RSI: 50, RelativeStrength: 0.01})
	overbought := s.scoreTechnicals(TechnicalsInput{TrendStrength: 0.7, RSI: 88, RelativeStrength: 0.01})
	assert.Greater(t, neutral, overbought)
}

func TestCompositeWeighting(t *testing.T) {
	s := NewDefaultScorer()
	out := s.Score(
		GreeksInput{Delta: 0.25, Gamma: 0.05, Theta: 0.2, Vega: 0.15},
		VolatilityInput{IVPercentile: 50},
		FundamentalsInput{Beta: 1.0, PERatio: 18, DebtToEquity: 0.5, ROE: 0.15, AnalystRating: "buy"},
		TechnicalsInput{TrendStrength: 0.7, RSI: 50, RelativeStrength: 0.01},
	)
	want := out.Greeks*0.40 + out.Volatility*0.30 + out.Fundamental*0.20 + out.Technical*0.10
	assert.InDelta(t, want, out.Total, 1e-9)
}
