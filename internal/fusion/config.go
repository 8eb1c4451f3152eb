package fusion

// 中文说明：
// 决策矩阵配置：基础权重、分档阈值、动态权重参数。
// 权重和不为 1 属于配置错误，在构造时直接拒绝。

import (
	"fmt"
	"math"
)

const weightSumTolerance = 0.001

// CategoryThresholds 五档分类阈值（含下界）。
type CategoryThresholds struct {
	StrongBuy   float64 `toml:"strong_buy" json:"strong_buy"`
	Buy         float64 `toml:"buy" json:"buy"`
	Hold        float64 `toml:"hold" json:"hold"`
	Avoid       float64 `toml:"avoid" json:"avoid"`
	StrongAvoid float64 `toml:"strong_avoid" json:"strong_avoid"`
}

func DefaultCategoryThresholds() CategoryThresholds {
	return CategoryThresholds{
		StrongBuy:   85,
		Buy:         70,
		Hold:        55,
		Avoid:       40,
		StrongAvoid: 25,
	}
}

// Config 引擎配置。
type Config struct {
	QuantWeight float64 `toml:"quant_weight" json:"quant_weight"`
	LLMWeight   float64 `toml:"llm_weight" json:"llm_weight"`

	HighConfidence float64 `toml:"high_confidence" json:"high_confidence"`
	LowConfidence  float64 `toml:"low_confidence" json:"low_confidence"`

	RiskAdjustmentFactor float64 `toml:"risk_adjustment_factor" json:"risk_adjustment_factor"`

	Thresholds CategoryThresholds `toml:"thresholds" json:"thresholds"`
}

func DefaultConfig() Config {
	return Config{
		QuantWeight:          0.80,
		LLMWeight:            0.20,
		HighConfidence:       0.8,
		LowConfidence:        0.3,
		RiskAdjustmentFactor: 0.5,
		Thresholds:           DefaultCategoryThresholds(),
	}
}

// Validate 校验权重和与阈值序。配置层与引擎构造共用。
func (c Config) Validate() error {
	if math.Abs(c.QuantWeight+c.LLMWeight-1.0) > weightSumTolerance {
		return fmt.Errorf("quant_weight(%v)+llm_weight(%v) 必须等于 1.0", c.QuantWeight, c.LLMWeight)
	}
	if c.QuantWeight < 0 || c.LLMWeight < 0 {
		return fmt.Errorf("权重不能为负")
	}
	th := c.Thresholds
	if !(th.StrongBuy > th.Buy && th.Buy > th.Hold && th.Hold > th.Avoid && th.Avoid > th.StrongAvoid) {
		return fmt.Errorf("分档阈值必须严格递减: %+v", th)
	}
	return nil
}
