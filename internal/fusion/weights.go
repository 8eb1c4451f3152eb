package fusion

// 中文说明：
// 动态权重：基础 80/20，按 LLM 置信度、市场环境、风险分歧做独立微调，
// 归一化 → 夹到 [0.1,0.9] → 再归一化，保证和恒为 1。
// 纯函数，不改引擎状态，便于并发调用。

import (
	"optix/internal/market"
	"optix/internal/pkg/convert"
	"optix/internal/scoring"
)

// 权重边界
const (
	weightFloor = 0.1
	weightCeil  = 0.9
)

// 各项调整量
const (
	confidenceShift    = 0.10
	highVolShift       = 0.15
	earningsShift      = 0.05
	bearShift          = 0.05
	riskConflictShift  = 0.08
	riskConfirmShift   = 0.03
	lowQualityShift    = 0.05
	bearConfidenceBar  = 0.7
	riskConflictFloor  = 70.0
	riskConfirmCeiling = 40.0
	lowQualityBar      = 0.5
)

// WeightSet 一组归一化后的融合权重。
type WeightSet struct {
	Quant float64 `json:"quantitative"`
	LLM   float64 `json:"llm"`
}

// DynamicWeights 计算本次决策使用的权重（不含人工覆盖）。
func (e *Engine) DynamicWeights(quant scoring.Score, score LLMScore, mkt market.Context) WeightSet {
	quantW := e.cfg.QuantWeight
	llmW := e.cfg.LLMWeight

	// 置信度调整：高信 LLM 多给，低信少给
	switch {
	case score.Confidence >= e.cfg.HighConfidence:
		llmW += confidenceShift
		quantW -= confidenceShift
	case score.Confidence <= e.cfg.LowConfidence:
		llmW -= confidenceShift
		quantW += confidenceShift
	}

	// 市场环境调整：动荡行情信模型不信叙事
	if mkt.Vol == market.VolHigh || mkt.Vol == market.VolExtreme {
		quantW += highVolShift
		llmW -= highVolShift
	}
	if mkt.EarningsSeason {
		quantW += earningsShift
		llmW -= earningsShift
	}
	if mkt.Trend == market.TrendBear && score.Confidence < bearConfidenceBar {
		quantW += bearShift
		llmW -= bearShift
	}

	// 风险分歧调整
	switch {
	case score.RiskLevel.Elevated() && quant.RiskAdjusted > riskConflictFloor:
		// LLM 喊风险而量化面不支持，信模型
		quantW += riskConflictShift
		llmW -= riskConflictShift
	case score.RiskLevel.Elevated() && quant.RiskAdjusted < riskConfirmCeiling:
		// 两边都认为风险高，小幅确认
		quantW += riskConfirmShift
		llmW -= riskConfirmShift
	}
	if score.Quality < lowQualityBar {
		quantW += lowQualityShift
		llmW -= lowQualityShift
	}

	return normalizeWeights(quantW, llmW)
}

// normalizeWeights 归一化并夹界，返回和严格为 1 的权重对。
func normalizeWeights(quantW, llmW float64) WeightSet {
	sum := quantW + llmW
	if sum <= 0 {
		return WeightSet{Quant: weightCeil, LLM: weightFloor}
	}
	quantW /= sum
	llmW /= sum

	quantW = convert.Clamp(quantW, weightFloor, weightCeil)
	llmW = convert.Clamp(llmW, weightFloor, weightCeil)

	sum = quantW + llmW
	return WeightSet{Quant: quantW / sum, LLM: llmW / sum}
}
