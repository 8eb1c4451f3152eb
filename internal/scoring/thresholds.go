package scoring

// 中文说明：
// 评分阈值与权重全部集中在这里，配置可覆盖，默认值面向
// 备兑开仓 / 现金担保卖出看跌的合约筛选。

// Thresholds 各子评分的阈值参数。
type Thresholds struct {
	DeltaIdealLow  float64 `toml:"delta_ideal_low" json:"delta_ideal_low"`
	DeltaIdealHigh float64 `toml:"delta_ideal_high" json:"delta_ideal_high"`
	GammaCap       float64 `toml:"gamma_cap" json:"gamma_cap"`
	ThetaMin       float64 `toml:"theta_min" json:"theta_min"`
	VegaCap        float64 `toml:"vega_cap" json:"vega_cap"`

	IVPercentileLow  float64 `toml:"iv_percentile_low" json:"iv_percentile_low"`
	IVPercentileHigh float64 `toml:"iv_percentile_high" json:"iv_percentile_high"`
	RVIVRatioMax     float64 `toml:"rv_iv_ratio_max" json:"rv_iv_ratio_max"`
	SkewBand         float64 `toml:"skew_band" json:"skew_band"`

	BetaIdealLow    float64 `toml:"beta_ideal_low" json:"beta_ideal_low"`
	BetaIdealHigh   float64 `toml:"beta_ideal_high" json:"beta_ideal_high"`
	PEMax           float64 `toml:"pe_max" json:"pe_max"`
	DebtToEquityMax float64 `toml:"debt_to_equity_max" json:"debt_to_equity_max"`
	ROEMin          float64 `toml:"roe_min" json:"roe_min"`

	TrendStrengthMin float64 `toml:"trend_strength_min" json:"trend_strength_min"`
	RSINeutralLow    float64 `toml:"rsi_neutral_low" json:"rsi_neutral_low"`
	RSINeutralHigh   float64 `toml:"rsi_neutral_high" json:"rsi_neutral_high"`
}

// Weights 类别权重与风险罚分权重。
type Weights struct {
	Greeks      float64 `toml:"greeks" json:"greeks"`
	Volatility  float64 `toml:"volatility" json:"volatility"`
	Fundamental float64 `toml:"fundamental" json:"fundamental"`
	Technical   float64 `toml:"technical" json:"technical"`

	RiskGreeks      float64 `toml:"risk_greeks" json:"risk_greeks"`
	RiskVolatility  float64 `toml:"risk_volatility" json:"risk_volatility"`
	RiskFundamental float64 `toml:"risk_fundamental" json:"risk_fundamental"`
	RiskTechnical   float64 `toml:"risk_technical" json:"risk_technical"`
}

func DefaultThresholds() Thresholds {
	return Thresholds{
		DeltaIdealLow:  0.15,
		DeltaIdealHigh: 0.35,
		GammaCap:       0.10,
		ThetaMin:       0.15,
		VegaCap:        0.20,

		IVPercentileLow:  30,
		IVPercentileHigh: 70,
		RVIVRatioMax:     1.5,
		SkewBand:         0.1,

		BetaIdealLow:    0.8,
		BetaIdealHigh:   1.3,
		PEMax:           25,
		DebtToEquityMax: 1.5,
		ROEMin:          0.10,

		TrendStrengthMin: 0.6,
		RSINeutralLow:    40,
		RSINeutralHigh:   60,
	}
}

// DefaultWeights 希腊值/波动率主导合约筛选质量。
func DefaultWeights() Weights {
	return Weights{
		Greeks:      0.40,
		Volatility:  0.30,
		Fundamental: 0.20,
		Technical:   0.10,

		RiskVolatility:  0.3,
		RiskFundamental: 0.2,
		RiskGreeks:      0.2,
		RiskTechnical:   0.1,
	}
}

// 希腊值内部子权重，和为 1.0。
const (
	greeksDeltaWeight = 0.3
	greeksGammaWeight = 0.2
	greeksThetaWeight = 0.3
	greeksVegaWeight  = 0.2
)

// maxRiskPenalty 风险罚分上限。
const maxRiskPenalty = 30.0
