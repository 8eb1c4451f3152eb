package option

// 中文说明：
// 卖方策略收益：备兑开仓最大收益、现金担保卖出看跌的风险/本金收益率。
// 金额运算走 decimal，避免浮点累积误差。

import (
	"math"

	"github.com/shopspring/decimal"
)

var decZero = decimal.Zero

func decFromFloat(val float64) decimal.Decimal {
	if math.IsNaN(val) || math.IsInf(val, 0) {
		return decZero
	}
	return decimal.NewFromFloat(val)
}

func decToFloat(val decimal.Decimal) float64 {
	f, _ := val.Float64()
	return f
}

// fillStrategyReturns 计算年化策略收益，按合约类型各取所需。
func fillStrategyReturns(c *Contract) {
	premium := decFromFloat(c.Bid)
	if premium.Sign() <= 0 || c.DaysToExpiration <= 0 {
		return
	}
	annual := decimal.NewFromInt(365).Div(decimal.NewFromInt(int64(c.DaysToExpiration)))

	switch c.Type {
	case "call":
		if c.Underlying <= 0 {
			return
		}
		under := decFromFloat(c.Underlying)
		strike := decFromFloat(c.Strike)
		// 被行权时的总收益 = 权利金 + max(0, 行权价-现价)
		gain := premium
		if strike.Cmp(under) > 0 {
			gain = gain.Add(strike.Sub(under))
		}
		c.MaxCoveredCallReturn = decToFloat(gain.Div(under).Mul(annual))
	case "put":
		strike := decFromFloat(c.Strike)
		if strike.Sign() <= 0 {
			return
		}
		risk := strike.Sub(premium)
		if risk.Sign() > 0 {
			c.PutReturnOnRisk = decToFloat(premium.Div(risk).Mul(annual))
		}
		c.PutReturnOnCapital = decToFloat(premium.Div(strike).Mul(annual))
	}
}
