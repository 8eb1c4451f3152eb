package option

// 中文说明：
// 期权合约数据模型：从原始行情行构建，经 Normalize/Validate 后方可参与评分。
// Validated=true 之后视为只读（缺口回填字段除外）。

import (
	"time"

	"optix/internal/pricing"
)

// Contract 单个期权合约。
type Contract struct {
	Symbol     string             `json:"symbol"`
	Expiration time.Time          `json:"expiration"`
	Strike     float64            `json:"strike"`
	Type       pricing.OptionType `json:"type"`

	Bid  float64 `json:"bid"`
	Ask  float64 `json:"ask"`
	Last float64 `json:"last"`

	Volume       int64   `json:"volume"`
	OpenInterest int64   `json:"open_interest"`
	ImpliedVol   float64 `json:"implied_vol"`

	Greeks pricing.Greeks `json:"greeks"`

	DaysToExpiration int     `json:"days_to_expiration"`
	Underlying       float64 `json:"underlying_price"`

	// 策略收益（卖方视角）
	MaxCoveredCallReturn float64 `json:"max_covered_call_return"`
	PutReturnOnRisk      float64 `json:"put_return_on_risk"`
	PutReturnOnCapital   float64 `json:"put_return_on_capital"`

	Validated bool `json:"validated"`
}

// Mid 返回买卖中间价；缺一边时退化为另一边或 Last。
func (c *Contract) Mid() float64 {
	switch {
	case c.Bid > 0 && c.Ask > 0:
		return (c.Bid + c.Ask) / 2
	case c.Ask > 0:
		return c.Ask
	case c.Bid > 0:
		return c.Bid
	default:
		return c.Last
	}
}

// YearsToExpiration 年化剩余期限。
func (c *Contract) YearsToExpiration() float64 {
	return float64(c.DaysToExpiration) / 365.0
}
