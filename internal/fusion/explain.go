package fusion

// 中文说明：
// 可解释性输出：最多 5 条决策依据、最多 3 条风险提示。
// 各项独立阈值判断，按列出顺序先到先得。

import (
	"fmt"

	"optix/internal/llm"
	"optix/internal/pkg/text"
	"optix/internal/scoring"
)

const (
	maxDecisionFactors = 5
	maxRiskWarnings    = 3

	strongSubScore = 70.0
	weakSubScore   = 40.0

	rationaleMaxLen = 80
)

// decisionFactors 汇总本次决策的主要依据。
func decisionFactors(quant scoring.Score, score LLMScore, resp *llm.Response) []string {
	factors := make([]string, 0, maxDecisionFactors)
	add := func(f string) {
		if len(factors) < maxDecisionFactors {
			factors = append(factors, f)
		}
	}

	switch {
	case quant.Greeks >= strongSubScore:
		add(fmt.Sprintf("希腊值结构良好 (%.0f/100)", quant.Greeks))
	case quant.Greeks < weakSubScore:
		add(fmt.Sprintf("希腊值结构偏弱 (%.0f/100)", quant.Greeks))
	}
	switch {
	case quant.Volatility >= strongSubScore:
		add(fmt.Sprintf("波动率定位有利 (%.0f/100)", quant.Volatility))
	case quant.Volatility < weakSubScore:
		add(fmt.Sprintf("波动率定位不利 (%.0f/100)", quant.Volatility))
	}
	add(fmt.Sprintf("LLM 置信度 %.2f (%s)", score.Confidence, score.Action))
	add(fmt.Sprintf("LLM 风险评估: %s", score.RiskLevel))

	if resp != nil && resp.IsValid {
		rationale := resp.TradeRationale.NarrativeSummary
		if rationale == "" {
			rationale = resp.TradeRationale.PrimaryCatalyst
		}
		if rationale != "" {
			add("论据: " + text.Truncate(rationale, rationaleMaxLen))
		}
	}
	return factors
}

// riskWarnings 独立阈值检查，最多 3 条。
func riskWarnings(quant scoring.Score, score LLMScore) []string {
	warnings := make([]string, 0, maxRiskWarnings)
	add := func(w string) {
		if len(warnings) < maxRiskWarnings {
			warnings = append(warnings, w)
		}
	}

	if score.RiskLevel.Elevated() {
		add(fmt.Sprintf("LLM 判定风险等级 %s", score.RiskLevel))
	}
	if quant.RiskAdjusted < weakSubScore {
		add(fmt.Sprintf("风险调整后量化分偏低 (%.0f/100)", quant.RiskAdjusted))
	}
	if score.Confidence < 0.3 {
		add(fmt.Sprintf("LLM 置信度过低 (%.2f)", score.Confidence))
	}
	if quant.Greeks < weakSubScore {
		add(fmt.Sprintf("希腊值子分偏低 (%.0f/100)", quant.Greeks))
	}
	if quant.Volatility < weakSubScore {
		add(fmt.Sprintf("波动率子分偏低 (%.0f/100)", quant.Volatility))
	}
	return warnings
}
