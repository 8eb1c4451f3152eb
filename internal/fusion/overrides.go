package fusion

// 中文说明：
// 人工覆盖：按 trade_id 或 "*"（全局）存放，带起止时间。
// 读取时惰性过期（now > end_time 置 Active=false），过期不是错误。
// 覆盖校验失败属于操作员错误，直接拒绝。

import (
	"fmt"
	"math"
	"strings"
	"time"

	"optix/internal/llm"
)

// GlobalKey 全局覆盖键。
const GlobalKey = "*"

// WeightOverride 人工权重覆盖。
type WeightOverride struct {
	QuantWeight float64   `json:"quantitative_weight"`
	LLMWeight   float64   `json:"llm_weight"`
	Reason      string    `json:"reason"`
	StartTime   time.Time `json:"start_time"`
	EndTime     time.Time `json:"end_time"`
	Active      bool      `json:"active"`
}

// DecisionOverride 人工决策覆盖。
type DecisionOverride struct {
	Decision  llm.Action `json:"decision"`
	Reason    string     `json:"reason"`
	StartTime time.Time  `json:"start_time"`
	EndTime   time.Time  `json:"end_time"`
	Active    bool       `json:"active"`
}

// OverrideStatus 覆盖状态查询结果。
type OverrideStatus struct {
	Active  bool      `json:"active"`
	Expired bool      `json:"expired"`
	Reason  string    `json:"reason,omitempty"`
	EndTime time.Time `json:"end_time,omitempty"`
}

// 可被决策覆盖使用的动作集合。
func overridableDecision(a llm.Action) bool {
	switch a {
	case llm.ActionBuy, llm.ActionSell, llm.ActionHold, llm.ActionAvoid:
		return true
	default:
		return false
	}
}

// SetWeightOverride 设置权重覆盖；权重和不为 1 直接拒绝。
func (e *Engine) SetWeightOverride(tradeID string, quantW, llmW float64, reason string, ttl time.Duration) error {
	if math.Abs(quantW+llmW-1.0) > weightSumTolerance {
		return fmt.Errorf("覆盖权重之和必须为 1.0: quant=%v llm=%v", quantW, llmW)
	}
	if quantW < 0 || llmW < 0 {
		return fmt.Errorf("覆盖权重不能为负")
	}
	if ttl <= 0 {
		return fmt.Errorf("覆盖时长必须 > 0")
	}
	now := e.clock()
	e.mu.Lock()
	defer e.mu.Unlock()
	e.weightOverrides[overrideKey(tradeID)] = &WeightOverride{
		QuantWeight: quantW,
		LLMWeight:   llmW,
		Reason:      reason,
		StartTime:   now,
		EndTime:     now.Add(ttl),
		Active:      true,
	}
	return nil
}

// SetDecisionOverride 设置决策覆盖；非法动作直接拒绝。
func (e *Engine) SetDecisionOverride(tradeID string, decision llm.Action, reason string, ttl time.Duration) error {
	if !overridableDecision(decision) {
		return fmt.Errorf("非法覆盖决策: %s（仅允许 BUY/SELL/HOLD/AVOID）", decision)
	}
	if ttl <= 0 {
		return fmt.Errorf("覆盖时长必须 > 0")
	}
	now := e.clock()
	e.mu.Lock()
	defer e.mu.Unlock()
	e.decisionOverrides[overrideKey(tradeID)] = &DecisionOverride{
		Decision:  decision,
		Reason:    reason,
		StartTime: now,
		EndTime:   now.Add(ttl),
		Active:    true,
	}
	return nil
}

// ClearWeightOverride 移除权重覆盖。
func (e *Engine) ClearWeightOverride(tradeID string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.weightOverrides, overrideKey(tradeID))
}

// ClearDecisionOverride 移除决策覆盖。
func (e *Engine) ClearDecisionOverride(tradeID string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.decisionOverrides, overrideKey(tradeID))
}

// WeightOverrideStatus 返回覆盖状态；过期覆盖报告 {active:false, expired:true}。
func (e *Engine) WeightOverrideStatus(tradeID string) OverrideStatus {
	now := e.clock()
	e.mu.Lock()
	defer e.mu.Unlock()
	ov := e.weightOverrides[overrideKey(tradeID)]
	if ov == nil {
		return OverrideStatus{}
	}
	if now.After(ov.EndTime) {
		ov.Active = false
		return OverrideStatus{Expired: true, Reason: ov.Reason, EndTime: ov.EndTime}
	}
	return OverrideStatus{Active: ov.Active, Reason: ov.Reason, EndTime: ov.EndTime}
}

// activeWeightOverride 查找未过期的覆盖：trade 维度优先于全局。
// 过期条目惰性失活。调用方不持锁。
func (e *Engine) activeWeightOverride(tradeID string, now time.Time) *WeightOverride {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, key := range []string{overrideKey(tradeID), GlobalKey} {
		ov := e.weightOverrides[key]
		if ov == nil || !ov.Active {
			continue
		}
		if now.After(ov.EndTime) {
			ov.Active = false
			continue
		}
		return ov
	}
	return nil
}

func (e *Engine) activeDecisionOverride(tradeID string, now time.Time) *DecisionOverride {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, key := range []string{overrideKey(tradeID), GlobalKey} {
		ov := e.decisionOverrides[key]
		if ov == nil || !ov.Active {
			continue
		}
		if now.After(ov.EndTime) {
			ov.Active = false
			continue
		}
		return ov
	}
	return nil
}

func overrideKey(tradeID string) string {
	tradeID = strings.TrimSpace(tradeID)
	if tradeID == "" {
		return GlobalKey
	}
	return tradeID
}
