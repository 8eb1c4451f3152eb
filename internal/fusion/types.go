package fusion

// 中文说明：
// 决策矩阵的数据结构：LLM 侧评分、五档决策分类、最终结果载体。
// Result 每次 ProcessDecision 生成一份，只读。

import (
	"time"

	"optix/internal/llm"
	"optix/internal/pkg/convert"
	"optix/internal/scoring"
)

// Category 综合分阈值分档。
type Category string

const (
	CategoryStrongBuy   Category = "STRONG_BUY"
	CategoryBuy         Category = "BUY"
	CategoryHold        Category = "HOLD"
	CategoryAvoid       Category = "AVOID"
	CategoryStrongAvoid Category = "STRONG_AVOID"
)

// ConfidenceLevel 报告置信级别。
type ConfidenceLevel string

const (
	ConfidenceHigh   ConfidenceLevel = "HIGH"
	ConfidenceMedium ConfidenceLevel = "MEDIUM"
	ConfidenceLow    ConfidenceLevel = "LOW"
)

// LLMScore 决策矩阵消费的 LLM 侧评分。
type LLMScore struct {
	Confidence      float64       `json:"confidence"`
	NormalizedScore float64       `json:"normalized_score"` // [0,100]
	Action          llm.Action    `json:"action"`
	RiskLevel       llm.RiskLevel `json:"risk_level"`
	Urgency         llm.Urgency   `json:"urgency"`
	Quality         float64       `json:"quality"`
	Valid           bool          `json:"valid"`
}

// 动作/风险对归一化分的修正量
func actionModifier(a llm.Action) float64 {
	switch a {
	case llm.ActionBuy:
		return 10
	case llm.ActionSell:
		return -10
	case llm.ActionAvoid:
		return -8
	case llm.ActionMonitor:
		return -5
	default:
		return 0
	}
}

func riskModifier(r llm.RiskLevel) float64 {
	switch r {
	case llm.RiskLow:
		return 2
	case llm.RiskHigh:
		return -8
	case llm.RiskExtreme:
		return -15
	default:
		return -2
	}
}

// BuildLLMScore 由响应与归一化输出构建矩阵侧评分。
// 无效响应返回固定中性兜底（置信 0.5 / MONITOR / MODERATE / 50 分）。
func BuildLLMScore(resp *llm.Response, norm llm.NormalizedOutput) LLMScore {
	if resp == nil || !resp.IsValid || !norm.Valid {
		return LLMScore{
			Confidence:      0.5,
			NormalizedScore: 50.0,
			Action:          llm.ActionMonitor,
			RiskLevel:       llm.RiskModerate,
			Urgency:         llm.UrgencyModerate,
			Quality:         0,
			Valid:           false,
		}
	}
	conf := resp.Confidence()
	score := convert.Clamp(
		conf*100+
			actionModifier(resp.Recommendation.Action)+
			riskModifier(resp.RiskAssessment.OverallRiskLevel),
		0, 100)
	return LLMScore{
		Confidence:      conf,
		NormalizedScore: score,
		Action:          resp.Recommendation.Action,
		RiskLevel:       resp.RiskAssessment.OverallRiskLevel,
		Urgency:         resp.Recommendation.UrgencyLevel,
		Quality:         norm.QualityScore,
		Valid:           true,
	}
}

// Result 一次融合决策的完整输出。
type Result struct {
	TradeID             string          `json:"trade_id"`
	TraceID             string          `json:"trace_id"`
	Timestamp           time.Time       `json:"timestamp"`
	FinalRecommendation llm.Action      `json:"final_recommendation"`
	CompositeScore      float64         `json:"composite_score"`
	DecisionCategory    Category        `json:"decision_category"`
	ConfidenceLevel     ConfidenceLevel `json:"confidence_level"`
	QuantWeight         float64         `json:"quantitative_weight"`
	LLMWeight           float64         `json:"llm_weight"`

	QuantScore QuantBreakdown `json:"quantitative_score"`
	LLMScore   LLMScore          `json:"llm_score"`

	DecisionFactors []string `json:"decision_factors"` // ≤5
	RiskWarnings    []string `json:"risk_warnings"`    // ≤3

	Override       *OverrideRecord `json:"override,omitempty"`
	ProcessingTime time.Duration   `json:"processing_time"`
}

// QuantBreakdown 结果里内嵌的量化分快照。
type QuantBreakdown struct {
	Total        float64 `json:"total_score"`
	Greeks       float64 `json:"greeks_score"`
	Volatility   float64 `json:"volatility_score"`
	Fundamental  float64 `json:"fundamental_score"`
	Technical    float64 `json:"technical_score"`
	RiskAdjusted float64 `json:"risk_adjusted_score"`
}

// OverrideRecord 覆盖生效时记录在结果中的元数据。
type OverrideRecord struct {
	Kind     string    `json:"kind"` // weight / decision
	Reason   string    `json:"reason"`
	SetAt    time.Time `json:"set_at"`
	ExpireAt time.Time `json:"expire_at"`
}

// ToMap 是持久化/回测层消费的 wire 契约（可 JSON 序列化的嵌套 map）。
func (r *Result) ToMap() map[string]any {
	m := map[string]any{
		"trade_id":             r.TradeID,
		"trace_id":             r.TraceID,
		"timestamp":            r.Timestamp.UnixMilli(),
		"final_recommendation": string(r.FinalRecommendation),
		"composite_score":      r.CompositeScore,
		"decision_category":    string(r.DecisionCategory),
		"confidence_level":     string(r.ConfidenceLevel),
		"weights": map[string]any{
			"quantitative": r.QuantWeight,
			"llm":          r.LLMWeight,
		},
		"score_breakdown": map[string]any{
			"quant_total":         r.QuantScore.Total,
			"quant_greeks":        r.QuantScore.Greeks,
			"quant_volatility":    r.QuantScore.Volatility,
			"quant_fundamental":   r.QuantScore.Fundamental,
			"quant_technical":     r.QuantScore.Technical,
			"quant_risk_adjusted": r.QuantScore.RiskAdjusted,
			"llm_normalized":      r.LLMScore.NormalizedScore,
			"llm_confidence":      r.LLMScore.Confidence,
			"llm_quality":         r.LLMScore.Quality,
		},
		"decision_factors": r.DecisionFactors,
		"risk_warnings":    r.RiskWarnings,
	}
	if r.Override != nil {
		m["override"] = map[string]any{
			"kind":      r.Override.Kind,
			"reason":    r.Override.Reason,
			"set_at":    r.Override.SetAt.UnixMilli(),
			"expire_at": r.Override.ExpireAt.UnixMilli(),
		}
	}
	return m
}

func newQuantBreakdown(s scoring.Score) QuantBreakdown {
	return QuantBreakdown{
		Total:        s.Total,
		Greeks:       s.Greeks,
		Volatility:   s.Volatility,
		Fundamental:  s.Fundamental,
		Technical:    s.Technical,
		RiskAdjusted: s.RiskAdjusted,
	}
}
