package llm

// 中文说明：
// 置信度校准采用保守 sigmoid：sigmoid(5*(x-0.6))*0.9，
// 刻意把拐点右移并封顶 90%，机构化地折价模型自报置信度。
// 熊市/高波动环境再打折扣，高质量输出对 0.7 以上的值适度放大。

import (
	"math"

	"optix/internal/market"
	"optix/internal/pkg/convert"
)

// CalibrationConfig 校准曲线参数。
type CalibrationConfig struct {
	SigmoidSlope      float64 `toml:"sigmoid_slope"`
	SigmoidCenter     float64 `toml:"sigmoid_center"`
	ConfidenceCap     float64 `toml:"confidence_cap"`
	HistoricalOffset  float64 `toml:"historical_offset"`
	BearMultiplier    float64 `toml:"bear_multiplier"`
	HighVolMultiplier float64 `toml:"high_vol_multiplier"`
}

func DefaultCalibration() CalibrationConfig {
	return CalibrationConfig{
		SigmoidSlope:      5.0,
		SigmoidCenter:     0.6,
		ConfidenceCap:     0.9,
		HistoricalOffset:  0.05,
		BearMultiplier:    0.9,
		HighVolMultiplier: 0.85,
	}
}

// NormalizedOutput 归一化结果，全部字段一次生成后只读。
type NormalizedOutput struct {
	Confidence           float64   `json:"confidence_score"`      // 原始 [0,1]
	NormalizedConfidence float64   `json:"normalized_confidence"` // 校准后 [0,1]
	ActionPolarity       float64   `json:"action_polarity"`       // [-1,1]
	RiskAdjustment       float64   `json:"risk_adjustment"`       // (0,1]
	QualityScore         float64   `json:"quality_score"`         // [0,1]
	CalibratedScore      float64   `json:"calibrated_score"`      // [0,100]
	Action               Action    `json:"action"`
	RiskLevel            RiskLevel `json:"risk_level"`
	Urgency              Urgency   `json:"urgency"`
	Flags                []string  `json:"quality_flags,omitempty"`
	Valid                bool      `json:"valid"`
}

// Normalizer 把模型响应折算为校准分。
type Normalizer struct {
	cfg CalibrationConfig
}

func NewNormalizer(cfg CalibrationConfig) *Normalizer {
	if cfg.SigmoidSlope == 0 {
		cfg = DefaultCalibration()
	}
	return &Normalizer{cfg: cfg}
}

// Normalize 执行完整归一化管线。resp 无效时返回固定中性兜底。
func (n *Normalizer) Normalize(resp *Response, mkt market.Context) NormalizedOutput {
	if resp == nil || !resp.IsValid {
		return FallbackOutput()
	}

	raw := resp.Confidence()
	quality := QualityScore(resp)
	calibrated := n.calibrate(raw, quality, mkt)

	polarity := convert.Clamp(
		resp.Recommendation.Action.Polarity()*resp.Recommendation.UrgencyLevel.Multiplier(),
		-1, 1)
	riskAdj := resp.RiskAssessment.OverallRiskLevel.Multiplier()

	score := convert.Clamp01(((calibrated+(polarity+1)/2)/2)*riskAdj*quality) * 100

	return NormalizedOutput{
		Confidence:           raw,
		NormalizedConfidence: calibrated,
		ActionPolarity:       polarity,
		RiskAdjustment:       riskAdj,
		QualityScore:         quality,
		CalibratedScore:      score,
		Action:               resp.Recommendation.Action,
		RiskLevel:            resp.RiskAssessment.OverallRiskLevel,
		Urgency:              resp.Recommendation.UrgencyLevel,
		Flags:                QualityFlags(resp, quality),
		Valid:                true,
	}
}

func (n *Normalizer) calibrate(raw, quality float64, mkt market.Context) float64 {
	c := n.cfg
	calibrated := sigmoid(c.SigmoidSlope*(raw-c.SigmoidCenter)) * c.ConfidenceCap
	calibrated += c.HistoricalOffset

	if mkt.Trend == market.TrendBear {
		calibrated *= c.BearMultiplier
	}
	if mkt.Vol == market.VolHigh || mkt.Vol == market.VolExtreme {
		calibrated *= c.HighVolMultiplier
	}

	// 高质量输出对高置信段适度放大
	if calibrated > 0.7 {
		calibrated += (calibrated - 0.7) * 0.5 * quality
	}
	return convert.Clamp01(calibrated)
}

func sigmoid(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}

// FallbackOutput 解析失败时的固定中性输出：
// 置信度 0.5 / MONITOR / MODERATE / 校准分 50。
func FallbackOutput() NormalizedOutput {
	return NormalizedOutput{
		Confidence:           0.5,
		NormalizedConfidence: 0.5,
		ActionPolarity:       ActionMonitor.Polarity(),
		RiskAdjustment:       RiskModerate.Multiplier(),
		QualityScore:         0,
		CalibratedScore:      50,
		Action:               ActionMonitor,
		RiskLevel:            RiskModerate,
		Urgency:              UrgencyModerate,
		Flags:                []string{FlagLowQuality},
		Valid:                false,
	}
}
