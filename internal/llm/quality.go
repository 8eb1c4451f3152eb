package llm

// 中文说明：
// 输出质量评估：四项完整度检查加权求和，另外产出可观测性用的质量标记
// （标记只记录，不参与打分）。

import "strings"

// 质量检查权重
const (
	weightReasoning = 0.3
	weightScenario  = 0.25
	weightRisk      = 0.25
	weightAction    = 0.2
)

// 质量标记
const (
	FlagLowQuality       = "LOW_QUALITY_OUTPUT"
	FlagMissingCatalyst  = "MISSING_PRIMARY_CATALYST"
	FlagMissingBaseCase  = "MISSING_BASE_CASE"
	FlagMissingRisks     = "MISSING_RISK_FACTORS"
	FlagOverconfident    = "OVERCONFIDENT_OUTPUT"
	FlagUnderconfident   = "UNDERCONFIDENT_OUTPUT"
	lowQualityThreshold  = 0.5
	overconfidenceLimit  = 0.95
	underconfidenceLimit = 0.1
)

// QualityScore 计算 [0,1] 的输出质量分。
func QualityScore(r *Response) float64 {
	if r == nil {
		return 0
	}
	reasoning := fractionPresent(
		r.TradeRationale.PrimaryCatalyst != "",
		r.TradeRationale.MarketContext != "",
		r.TradeRationale.NarrativeSummary != "",
		len(r.TradeRationale.FundamentalFactors) > 0,
		len(r.TradeRationale.TechnicalFactors) > 0,
	)
	scenario := fractionPresent(
		r.ScenarioAnalysis.BaseCase != "",
		r.ScenarioAnalysis.BullCase != "",
		r.ScenarioAnalysis.BearCase != "",
	)
	risk := fractionPresent(
		r.RiskAssessment.OverallRiskLevel != "",
		len(r.RiskAssessment.RiskFactors) > 0,
	)
	action := fractionPresent(
		r.Recommendation.Action != "",
		r.Recommendation.ConfidenceScore > 0,
		r.Recommendation.UrgencyLevel != "",
		len(r.Recommendation.KeyAssumptions) > 0,
	)
	return reasoning*weightReasoning + scenario*weightScenario +
		risk*weightRisk + action*weightAction
}

// QualityFlags 产出观测标记，顺序固定。
func QualityFlags(r *Response, quality float64) []string {
	if r == nil {
		return []string{FlagLowQuality}
	}
	var flags []string
	if quality < lowQualityThreshold {
		flags = append(flags, FlagLowQuality)
	}
	if strings.TrimSpace(r.TradeRationale.PrimaryCatalyst) == "" {
		flags = append(flags, FlagMissingCatalyst)
	}
	if strings.TrimSpace(r.ScenarioAnalysis.BaseCase) == "" {
		flags = append(flags, FlagMissingBaseCase)
	}
	if len(r.RiskAssessment.RiskFactors) == 0 {
		flags = append(flags, FlagMissingRisks)
	}
	if conf := r.Confidence(); conf > overconfidenceLimit {
		flags = append(flags, FlagOverconfident)
	} else if conf < underconfidenceLimit {
		flags = append(flags, FlagUnderconfident)
	}
	return flags
}

func fractionPresent(checks ...bool) float64 {
	if len(checks) == 0 {
		return 0
	}
	hit := 0
	for _, ok := range checks {
		if ok {
			hit++
		}
	}
	return float64(hit) / float64(len(checks))
}
