package market

// 中文说明：
// 市场环境枚举：趋势与波动率 regime，供 LLM 校准与动态权重使用。
// 用枚举 + switch 表达，避免字符串表缺 key 时的静默兜底。

import "strings"

// Trend 大盘趋势。
type Trend int

const (
	TrendSideways Trend = iota
	TrendBull
	TrendBear
)

func (t Trend) String() string {
	switch t {
	case TrendBull:
		return "bull"
	case TrendBear:
		return "bear"
	default:
		return "sideways"
	}
}

// VolRegime 波动率环境。
type VolRegime int

const (
	VolNormal VolRegime = iota
	VolLow
	VolHigh
	VolExtreme
)

func (v VolRegime) String() string {
	switch v {
	case VolLow:
		return "low"
	case VolHigh:
		return "high"
	case VolExtreme:
		return "extreme"
	default:
		return "normal"
	}
}

// ParseVolRegime 宽容解析，未知值回落 normal。
func ParseVolRegime(s string) VolRegime {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "low":
		return VolLow
	case "high", "elevated":
		return VolHigh
	case "extreme", "crisis":
		return VolExtreme
	default:
		return VolNormal
	}
}

// ParseTrend 宽容解析，未知值回落 sideways。
func ParseTrend(s string) Trend {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "bull", "bullish", "up":
		return TrendBull
	case "bear", "bearish", "down":
		return TrendBear
	default:
		return TrendSideways
	}
}

// Context 决策时刻的市场环境快照。
type Context struct {
	Trend          Trend     `json:"trend"`
	Vol            VolRegime `json:"vol_regime"`
	EarningsSeason bool      `json:"earnings_season"`
}
