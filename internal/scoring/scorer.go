package scoring

// 中文说明：
// 量化评分器：四组输入 → 四个 [0,100] 分量 → 加权综合分 + 风险调整分。
// 风险调整只做减法，恒有 RiskAdjusted <= mean(分量)。

import (
	"math"
	"strings"

	"optix/internal/pkg/convert"
)

// Scorer 把原始输入映射为量化评分。
type Scorer struct {
	thresholds Thresholds
	weights    Weights
}

func NewScorer(t Thresholds, w Weights) *Scorer {
	return &Scorer{thresholds: t, weights: w}
}

func NewDefaultScorer() *Scorer {
	return NewScorer(DefaultThresholds(), DefaultWeights())
}

// Score 计算一次完整的量化评分。
func (s *Scorer) Score(g GreeksInput, v VolatilityInput, f FundamentalsInput, t TechnicalsInput) Score {
	out := Score{
		Greeks:      s.scoreGreeks(g),
		Volatility:  s.scoreVolatility(v),
		Fundamental: s.scoreFundamentals(f),
		Technical:   s.scoreTechnicals(t),
	}
	out.Total = convert.Clamp(
		out.Greeks*s.weights.Greeks+
			out.Volatility*s.weights.Volatility+
			out.Fundamental*s.weights.Fundamental+
			out.Technical*s.weights.Technical,
		0, 100)

	mean := (out.Greeks + out.Volatility + out.Fundamental + out.Technical) / 4
	penalty := (100-out.Volatility)*s.weights.RiskVolatility +
		(100-out.Fundamental)*s.weights.RiskFundamental +
		(100-out.Greeks)*s.weights.RiskGreeks +
		(100-out.Technical)*s.weights.RiskTechnical
	penalty = math.Min(penalty, maxRiskPenalty)
	out.RiskAdjusted = convert.Clamp(mean-penalty, 0, 100)
	return out
}

// scoreGreeks 子权重 delta 0.3 / gamma 0.2 / theta 0.3 / vega 0.2。
func (s *Scorer) scoreGreeks(g GreeksInput) float64 {
	th := s.thresholds

	// delta 取绝对值，看跌为负号
	delta := math.Abs(g.Delta)
	var deltaScore float64
	switch {
	case delta >= th.DeltaIdealLow && delta <= th.DeltaIdealHigh:
		deltaScore = 100
	case delta < th.DeltaIdealLow:
		deltaScore = 100 * delta / th.DeltaIdealLow
	default:
		deltaScore = math.Max(0, 100*(1-(delta-th.DeltaIdealHigh)/th.DeltaIdealHigh))
	}

	// gamma 越小越好，封顶归零
	gamma := math.Abs(g.Gamma)
	gammaScore := math.Max(0, 100*(1-math.Min(gamma, th.GammaCap)/th.GammaCap))

	// theta 收入达到门槛才满分
	theta := math.Abs(g.Theta)
	var thetaScore float64
	if theta >= th.ThetaMin {
		thetaScore = 100
	} else {
		thetaScore = 50 * theta / th.ThetaMin
	}

	// vega 超过上限线性扣分
	vega := math.Abs(g.Vega)
	var vegaScore float64
	if vega <= th.VegaCap {
		vegaScore = 100
	} else {
		vegaScore = math.Max(0, 100*(1-(vega-th.VegaCap)/th.VegaCap))
	}

	return convert.Clamp(
		deltaScore*greeksDeltaWeight+
			gammaScore*greeksGammaWeight+
			thetaScore*greeksThetaWeight+
			vegaScore*greeksVegaWeight,
		0, 100)
}

func (s *Scorer) scoreVolatility(v VolatilityInput) float64 {
	th := s.thresholds

	// IV 分位落在中段最好，两端线性衰减
	var pctScore float64
	switch {
	case v.IVPercentile >= th.IVPercentileLow && v.IVPercentile <= th.IVPercentileHigh:
		pctScore = 100
	case v.IVPercentile < th.IVPercentileLow:
		pctScore = 100 * v.IVPercentile / th.IVPercentileLow
	default:
		pctScore = math.Max(0, 100*(100-v.IVPercentile)/(100-th.IVPercentileHigh))
	}

	// 实现波动/隐含波动比值过高说明 IV 低估了风险
	ratioScore := 100.0
	if v.ImpliedVol > 0 && v.RealizedVol > 0 {
		ratio := v.RealizedVol / v.ImpliedVol
		if ratio > th.RVIVRatioMax {
			ratioScore = math.Max(0, 100*(1-(ratio-th.RVIVRatioMax)/th.RVIVRatioMax))
		}
	}

	// 偏斜越出带宽越扣
	skewScore := 100.0
	if excess := math.Abs(v.Skew) - th.SkewBand; excess > 0 {
		skewScore = math.Max(0, 100*(1-excess/th.SkewBand))
	}

	return convert.Clamp(pctScore*0.4+ratioScore*0.35+skewScore*0.25, 0, 100)
}

func (s *Scorer) scoreFundamentals(f FundamentalsInput) float64 {
	th := s.thresholds

	betaScore := 50.0
	if f.Beta > 0 {
		switch {
		case f.Beta >= th.BetaIdealLow && f.Beta <= th.BetaIdealHigh:
			betaScore = 100
		case f.Beta < th.BetaIdealLow:
			betaScore = 100 * f.Beta / th.BetaIdealLow
		default:
			betaScore = math.Max(0, 100*(1-(f.Beta-th.BetaIdealHigh)/th.BetaIdealHigh))
		}
	}

	peScore := 50.0
	if f.PERatio > 0 {
		if f.PERatio <= th.PEMax {
			peScore = 100
		} else {
			peScore = math.Max(0, 100*(1-(f.PERatio-th.PEMax)/th.PEMax))
		}
	}

	deScore := 50.0
	if f.DebtToEquity > 0 {
		if f.DebtToEquity <= th.DebtToEquityMax {
			deScore = 100
		} else {
			deScore = math.Max(0, 100*(1-(f.DebtToEquity-th.DebtToEquityMax)/th.DebtToEquityMax))
		}
	}

	roeScore := 50.0
	if f.ROE != 0 {
		if f.ROE >= th.ROEMin {
			roeScore = 100
		} else {
			roeScore = math.Max(0, 100*f.ROE/th.ROEMin)
		}
	}

	ratingScore := ratingToScore(f.AnalystRating)

	return convert.Clamp((betaScore+peScore+deScore+roeScore+ratingScore)/5, 0, 100)
}

func ratingToScore(rating string) float64 {
	switch strings.ToLower(strings.TrimSpace(rating)) {
	case "buy", "strong_buy", "strong buy":
		return 100
	case "hold":
		return 60
	case "sell", "strong_sell", "strong sell":
		return 20
	default:
		return 50
	}
}

func (s *Scorer) scoreTechnicals(t TechnicalsInput) float64 {
	th := s.thresholds

	var trendScore float64
	if t.TrendStrength >= th.TrendStrengthMin {
		trendScore = 100
	} else {
		trendScore = math.Max(0, 100*t.TrendStrength/th.TrendStrengthMin)
	}

	var rsiScore float64
	switch {
	case t.RSI >= th.RSINeutralLow && t.RSI <= th.RSINeutralHigh:
		rsiScore = 100
	case t.RSI > 0 && t.RSI < th.RSINeutralLow:
		rsiScore = 100 * t.RSI / th.RSINeutralLow
	case t.RSI > th.RSINeutralHigh:
		rsiScore = math.Max(0, 100*(100-t.RSI)/(100-th.RSINeutralHigh))
	default:
		rsiScore = 0
	}

	var relScore float64
	if t.RelativeStrength >= 0 {
		relScore = 100
	} else {
		relScore = math.Max(0, 50+100*t.RelativeStrength)
	}

	return convert.Clamp(trendScore*0.4+rsiScore*0.35+relScore*0.25, 0, 100)
}
