package fusion

// 中文说明：
// 融合引擎：量化总分与 LLM 归一化分按动态权重合成综合分，
// 阈值分档 → 建议映射 → 紧迫度/人工覆盖 → 可解释性输出。
// 除覆盖存储外全程无状态，同样输入必得同样结果。

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"optix/internal/llm"
	"optix/internal/logger"
	"optix/internal/market"
	"optix/internal/pkg/convert"
	"optix/internal/scoring"
)

// Engine 决策矩阵引擎。并发安全。
type Engine struct {
	cfg        Config
	normalizer *llm.Normalizer
	clock      func() time.Time

	mu                sync.Mutex
	weightOverrides   map[string]*WeightOverride
	decisionOverrides map[string]*DecisionOverride
}

// Option 引擎构造选项。
type Option func(*Engine)

// WithClock 注入时钟，测试用。
func WithClock(clock func() time.Time) Option {
	return func(e *Engine) { e.clock = clock }
}

// NewEngine 构造引擎；基础权重之和偏离 1.0 超过容差视为配置错误。
func NewEngine(cfg Config, normalizer *llm.Normalizer, opts ...Option) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("决策矩阵配置非法: %w", err)
	}
	if normalizer == nil {
		normalizer = llm.NewNormalizer(llm.DefaultCalibration())
	}
	e := &Engine{
		cfg:               cfg,
		normalizer:        normalizer,
		clock:             time.Now,
		weightOverrides:   make(map[string]*WeightOverride),
		decisionOverrides: make(map[string]*DecisionOverride),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// ProcessDecision 执行一次完整融合，永远返回结果，不因坏响应中断。
func (e *Engine) ProcessDecision(tradeID string, quant scoring.Score, resp *llm.Response, mkt market.Context) *Result {
	started := time.Now()
	now := e.clock()

	norm := e.normalizer.Normalize(resp, mkt)
	score := BuildLLMScore(resp, norm)

	// 权重：人工覆盖整体替换动态计算
	var (
		weights  WeightSet
		override *OverrideRecord
	)
	if ov := e.activeWeightOverride(tradeID, now); ov != nil {
		weights = WeightSet{Quant: ov.QuantWeight, LLM: ov.LLMWeight}
		override = &OverrideRecord{Kind: "weight", Reason: ov.Reason, SetAt: ov.StartTime, ExpireAt: ov.EndTime}
	} else {
		weights = e.DynamicWeights(quant, score, mkt)
	}

	composite := e.compositeScore(quant, score, weights)
	category := e.categorize(composite)
	recommendation := e.recommend(category, score)
	confidence := e.confidenceLevel(score)

	// 高置信 + IMMEDIATE：方向性分档下强制动作并上调置信级别
	if score.Confidence > e.cfg.HighConfidence && score.Urgency == llm.UrgencyImmediate {
		switch category {
		case CategoryStrongBuy, CategoryBuy:
			recommendation = llm.ActionBuy
			confidence = ConfidenceHigh
		case CategoryAvoid, CategoryStrongAvoid:
			recommendation = llm.ActionAvoid
			confidence = ConfidenceHigh
		}
	}

	// 人工决策覆盖最后生效，直接替换建议
	if ov := e.activeDecisionOverride(tradeID, now); ov != nil {
		recommendation = ov.Decision
		override = &OverrideRecord{Kind: "decision", Reason: ov.Reason, SetAt: ov.StartTime, ExpireAt: ov.EndTime}
	}

	result := &Result{
		TradeID:             tradeID,
		TraceID:             uuid.NewString(),
		Timestamp:           now,
		FinalRecommendation: recommendation,
		CompositeScore:      composite,
		DecisionCategory:    category,
		ConfidenceLevel:     confidence,
		QuantWeight:         weights.Quant,
		LLMWeight:           weights.LLM,
		QuantScore:          newQuantBreakdown(quant),
		LLMScore:            score,
		DecisionFactors:     decisionFactors(quant, score, resp),
		RiskWarnings:        riskWarnings(quant, score),
		Override:            override,
		ProcessingTime:      time.Since(started),
	}

	logger.Debugf("决策矩阵 %s: composite=%.2f category=%s rec=%s weights=%.2f/%.2f",
		tradeID, composite, category, recommendation, weights.Quant, weights.LLM)
	return result
}

// compositeScore 加权合成并按风险系数修正，夹到 [0,100]。
func (e *Engine) compositeScore(quant scoring.Score, score LLMScore, w WeightSet) float64 {
	composite := quant.Total*w.Quant + score.NormalizedScore*w.LLM
	// 系数 <1 扣分，>1 对称加分
	m := score.RiskLevel.Multiplier()
	composite += (m - 1.0) * e.cfg.RiskAdjustmentFactor * 100
	return convert.Clamp(composite, 0, 100)
}

// categorize 阈值分档，下界含。
func (e *Engine) categorize(composite float64) Category {
	th := e.cfg.Thresholds
	switch {
	case composite >= th.StrongBuy:
		return CategoryStrongBuy
	case composite >= th.Buy:
		return CategoryBuy
	case composite >= th.Hold:
		return CategoryHold
	case composite >= th.Avoid:
		return CategoryAvoid
	default:
		return CategoryStrongAvoid
	}
}

// recommend 分档到动作。HOLD 档让 LLM 自己的建议直接透出。
func (e *Engine) recommend(category Category, score LLMScore) llm.Action {
	switch category {
	case CategoryStrongBuy, CategoryBuy:
		return llm.ActionBuy
	case CategoryHold:
		return score.Action
	default:
		return llm.ActionAvoid
	}
}

func (e *Engine) confidenceLevel(score LLMScore) ConfidenceLevel {
	switch {
	case !score.Valid || score.Confidence <= e.cfg.LowConfidence:
		return ConfidenceLow
	case score.Confidence >= e.cfg.HighConfidence:
		return ConfidenceHigh
	default:
		return ConfidenceMedium
	}
}
