package scoring

// 中文说明：
// 四组评分输入由外部采集层（行情/基本面/技术面）拼装后传入，
// 字段缺失按零值处理，评分端负责退化。

import "optix/internal/pricing"

// GreeksInput 希腊值评分输入。
type GreeksInput struct {
	Delta            float64            `json:"delta"`
	Gamma            float64            `json:"gamma"`
	Theta            float64            `json:"theta"`
	Vega             float64            `json:"vega"`
	Rho              float64            `json:"rho"`
	OptionType       pricing.OptionType `json:"option_type"`
	Strike           float64            `json:"strike"`
	DaysToExpiration int                `json:"days_to_expiration"`
}

// VolatilityInput 波动率评分输入。
type VolatilityInput struct {
	ImpliedVol    float64 `json:"implied_vol"`
	RealizedVol   float64 `json:"realized_vol"`
	IVPercentile  float64 `json:"iv_percentile"` // 0~100
	Skew          float64 `json:"skew"`
	TermStructure float64 `json:"term_structure"`
	Regime        string  `json:"regime"`
}

// FundamentalsInput 基本面评分输入。
type FundamentalsInput struct {
	Sector        string  `json:"sector"`
	MarketCap     float64 `json:"market_cap"`
	Beta          float64 `json:"beta"`
	PERatio       float64 `json:"pe_ratio"`
	DividendYield float64 `json:"dividend_yield"`
	DebtToEquity  float64 `json:"debt_to_equity"`
	ROA           float64 `json:"roa"`
	ROE           float64 `json:"roe"`
	Margins       float64 `json:"margins"`
	RevenueGrowth float64 `json:"revenue_growth"`
	AnalystRating string  `json:"analyst_rating"` // buy/hold/sell
}

// TechnicalsInput 技术面评分输入。
type TechnicalsInput struct {
	TrendDirection   string  `json:"trend_direction"`
	TrendStrength    float64 `json:"trend_strength"` // 0~1
	Support          float64 `json:"support"`
	Resistance       float64 `json:"resistance"`
	RSI              float64 `json:"rsi"`
	MACDSignal       float64 `json:"macd_signal"`
	VolumeProfile    float64 `json:"volume_profile"`
	RelativeStrength float64 `json:"relative_strength"`
}

// Score 量化评分结果，所有分量均约束在 [0,100]。
// RiskAdjusted 恒不大于四个分量的简单平均。
type Score struct {
	Total        float64 `json:"total_score"`
	Greeks       float64 `json:"greeks_score"`
	Volatility   float64 `json:"volatility_score"`
	Fundamental  float64 `json:"fundamental_score"`
	Technical    float64 `json:"technical_score"`
	RiskAdjusted float64 `json:"risk_adjusted_score"`
}
