package llm

// 中文说明：
// 从模型自由输出中提取结构化响应：
// 1. 提取 JSON 块（代码围栏/括号配平）
// 2. gjson 宽容取字段，字符串数字照收
// 3. 全部失败时用正则从文本里捞 confidence / 关键词动作
// 解析失败不是错误：返回 IsValid=false 的兜底响应，由归一化端降级。

import (
	"regexp"
	"strings"

	"optix/internal/pkg/convert"
	"optix/internal/pkg/jsonutil"

	"github.com/tidwall/gjson"
)

var confidencePattern = regexp.MustCompile(`(?i)confidence[^0-9]{0,12}([01]?\.?[0-9]+%?)`)

// 动作关键词按优先级排列，先命中先得。
var actionKeywords = []Action{ActionBuy, ActionSell, ActionAvoid, ActionMonitor, ActionHold}

// Parse 把原始模型输出转为 Response。永不返回 error。
func Parse(raw string) *Response {
	resp := &Response{RawOutput: raw}

	block, ok := jsonutil.ExtractJSON(raw)
	if !ok || !gjson.Valid(block) {
		// 纯文本兜底
		resp.AnalysisConfidence = confidenceFromText(raw)
		resp.Recommendation.Action = actionFromText(raw)
		resp.Recommendation.UrgencyLevel = UrgencyModerate
		resp.RiskAssessment.OverallRiskLevel = RiskModerate
		return resp
	}

	doc := gjson.Parse(block)
	resp.TradeID = doc.Get("trade_id").String()
	resp.Timestamp = doc.Get("timestamp").Int()
	resp.AnalysisConfidence = floatField(doc, "analysis_confidence", "confidence")

	rat := doc.Get("trade_rationale")
	resp.TradeRationale = TradeRationale{
		PrimaryCatalyst:    rat.Get("primary_catalyst").String(),
		MarketContext:      rat.Get("market_context").String(),
		NarrativeSummary:   rat.Get("narrative_summary").String(),
		FundamentalFactors: stringList(rat.Get("fundamental_factors")),
		TechnicalFactors:   stringList(rat.Get("technical_factors")),
	}

	risk := doc.Get("risk_assessment")
	resp.RiskAssessment = RiskAssessment{
		OverallRiskLevel: ParseRiskLevel(risk.Get("overall_risk_level").String()),
		RiskFactors:      stringList(risk.Get("risk_factors")),
	}

	scen := doc.Get("scenario_analysis")
	resp.ScenarioAnalysis = ScenarioAnalysis{
		BaseCase: scen.Get("base_case").String(),
		BullCase: scen.Get("bull_case").String(),
		BearCase: scen.Get("bear_case").String(),
	}

	rec := doc.Get("recommendation")
	action := rec.Get("action").String()
	if action == "" {
		action = doc.Get("action").String()
	}
	if action == "" {
		resp.Recommendation.Action = actionFromText(raw)
	} else {
		resp.Recommendation.Action = ParseAction(action)
	}
	resp.Recommendation.ConfidenceScore = normalizeConfidence(floatField(rec, "confidence_score", "confidence"))
	resp.Recommendation.UrgencyLevel = ParseUrgency(rec.Get("urgency_level").String())
	resp.Recommendation.KeyAssumptions = stringList(rec.Get("key_assumptions"))

	if resp.AnalysisConfidence == 0 && resp.Recommendation.ConfidenceScore == 0 {
		resp.AnalysisConfidence = confidenceFromText(raw)
	}
	resp.AnalysisConfidence = normalizeConfidence(resp.AnalysisConfidence)

	// 有动作或置信度即认为结构可用
	resp.IsValid = resp.Recommendation.Action != "" &&
		(resp.AnalysisConfidence > 0 || resp.Recommendation.ConfidenceScore > 0)
	return resp
}

func floatField(doc gjson.Result, keys ...string) float64 {
	for _, key := range keys {
		v := doc.Get(key)
		if !v.Exists() {
			continue
		}
		if f, ok := convert.ToFloat64Ok(v.Value()); ok {
			return f
		}
	}
	return 0
}

func stringList(v gjson.Result) []string {
	if !v.IsArray() {
		return nil
	}
	var out []string
	v.ForEach(func(_, item gjson.Result) bool {
		if s := strings.TrimSpace(item.String()); s != "" {
			out = append(out, s)
		}
		return true
	})
	return out
}

// normalizeConfidence 把百分数形态（>1）折回 [0,1]。
func normalizeConfidence(f float64) float64 {
	if f > 1 && f <= 100 {
		f /= 100
	}
	return convert.Clamp01(f)
}

func confidenceFromText(raw string) float64 {
	m := confidencePattern.FindStringSubmatch(raw)
	if len(m) < 2 {
		return 0.5
	}
	f, ok := convert.ToFloat64Ok(m[1])
	if !ok {
		return 0.5
	}
	if strings.HasSuffix(m[1], "%") || f > 1 {
		f /= 100
	}
	if f <= 0 || f > 1 {
		return 0.5
	}
	return f
}

func actionFromText(raw string) Action {
	upper := strings.ToUpper(raw)
	for _, a := range actionKeywords {
		if strings.Contains(upper, string(a)) {
			return a
		}
	}
	return ActionHold
}
