package llm

// 中文说明：
// 模型分析响应的结构化形态。上游解析/schema 校验层产出该结构，
// 本包只负责从原始文本兜底提取与归一化。

import "strings"

// Action 建议动作。
type Action string

const (
	ActionBuy     Action = "BUY"
	ActionSell    Action = "SELL"
	ActionHold    Action = "HOLD"
	ActionAvoid   Action = "AVOID"
	ActionMonitor Action = "MONITOR"
)

// ParseAction 宽容解析，未知值回落 HOLD。
func ParseAction(s string) Action {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "BUY", "STRONG_BUY", "LONG", "OPEN":
		return ActionBuy
	case "SELL", "STRONG_SELL", "SHORT":
		return ActionSell
	case "AVOID", "REJECT":
		return ActionAvoid
	case "MONITOR", "WATCH", "WAIT":
		return ActionMonitor
	default:
		return ActionHold
	}
}

// Polarity 返回动作的情绪极性基值。
func (a Action) Polarity() float64 {
	switch a {
	case ActionBuy:
		return 1.0
	case ActionSell:
		return -1.0
	case ActionAvoid:
		return -0.8
	case ActionMonitor:
		return -0.2
	default:
		return 0.0
	}
}

// RiskLevel 模型给出的整体风险评估。
type RiskLevel string

const (
	RiskLow      RiskLevel = "LOW"
	RiskModerate RiskLevel = "MODERATE"
	RiskHigh     RiskLevel = "HIGH"
	RiskExtreme  RiskLevel = "EXTREME"
)

func ParseRiskLevel(s string) RiskLevel {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "LOW", "MINIMAL":
		return RiskLow
	case "HIGH", "ELEVATED":
		return RiskHigh
	case "EXTREME", "SEVERE", "CRITICAL":
		return RiskExtreme
	default:
		return RiskModerate
	}
}

// Multiplier 风险等级对应的系数，(0,1] 区间。
func (r RiskLevel) Multiplier() float64 {
	switch r {
	case RiskLow:
		return 1.0
	case RiskHigh:
		return 0.7
	case RiskExtreme:
		return 0.4
	default:
		return 0.9
	}
}

// Elevated 是否属于高/极端风险。
func (r RiskLevel) Elevated() bool {
	return r == RiskHigh || r == RiskExtreme
}

// Urgency 建议紧迫度。
type Urgency string

const (
	UrgencyImmediate Urgency = "IMMEDIATE"
	UrgencyHigh      Urgency = "HIGH"
	UrgencyModerate  Urgency = "MODERATE"
	UrgencyLow       Urgency = "LOW"
)

func ParseUrgency(s string) Urgency {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "IMMEDIATE", "URGENT", "NOW":
		return UrgencyImmediate
	case "HIGH":
		return UrgencyHigh
	case "LOW":
		return UrgencyLow
	default:
		return UrgencyModerate
	}
}

// Multiplier 紧迫度对极性的放大系数。
func (u Urgency) Multiplier() float64 {
	switch u {
	case UrgencyImmediate:
		return 1.2
	case UrgencyHigh:
		return 1.1
	case UrgencyLow:
		return 0.9
	default:
		return 1.0
	}
}

// TradeRationale 交易论据。
type TradeRationale struct {
	PrimaryCatalyst    string   `json:"primary_catalyst"`
	MarketContext      string   `json:"market_context"`
	NarrativeSummary   string   `json:"narrative_summary"`
	FundamentalFactors []string `json:"fundamental_factors"`
	TechnicalFactors   []string `json:"technical_factors"`
}

// RiskAssessment 风险评估块。
type RiskAssessment struct {
	OverallRiskLevel RiskLevel `json:"overall_risk_level"`
	RiskFactors      []string  `json:"risk_factors"`
}

// ScenarioAnalysis 情景分析块。
type ScenarioAnalysis struct {
	BaseCase string `json:"base_case"`
	BullCase string `json:"bull_case"`
	BearCase string `json:"bear_case"`
}

// Recommendation 建议块。
type Recommendation struct {
	Action          Action   `json:"action"`
	ConfidenceScore float64  `json:"confidence_score"`
	UrgencyLevel    Urgency  `json:"urgency_level"`
	KeyAssumptions  []string `json:"key_assumptions"`
}

// Response 一次完整的模型分析响应。
type Response struct {
	TradeID            string           `json:"trade_id"`
	Timestamp          int64            `json:"timestamp"`
	AnalysisConfidence float64          `json:"analysis_confidence"`
	TradeRationale     TradeRationale   `json:"trade_rationale"`
	RiskAssessment     RiskAssessment   `json:"risk_assessment"`
	ScenarioAnalysis   ScenarioAnalysis `json:"scenario_analysis"`
	Recommendation     Recommendation   `json:"recommendation"`

	RawOutput string `json:"-"`
	IsValid   bool   `json:"-"`
}

// Confidence 取置信度：建议块优先，其次整体分析置信度。
func (r *Response) Confidence() float64 {
	if r == nil {
		return 0.5
	}
	if r.Recommendation.ConfidenceScore > 0 {
		return r.Recommendation.ConfidenceScore
	}
	if r.AnalysisConfidence > 0 {
		return r.AnalysisConfidence
	}
	return 0.5
}
