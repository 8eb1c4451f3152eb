package option

// 中文说明：
// 合约校验与回填：
// - ask >= bid >= 0
// - 0 <= implied_vol <= 5
// - 0 <= days_to_expiration <= 1000
// 坏行只产生错误列表，不中断整批扫描。

import (
	"fmt"
	"strings"
	"time"
)

const (
	maxImpliedVol = 5.0
	maxDTE        = 1000
)

// Normalize 回填缺口字段（Last 为零时取中间价、DTE 从到期日推导），
// 再跑一遍校验；全部通过才置 Validated。
func Normalize(c *Contract, now time.Time) []error {
	if c.DaysToExpiration == 0 && !c.Expiration.IsZero() {
		c.DaysToExpiration = int(c.Expiration.Sub(now).Hours() / 24)
	}
	if c.Last == 0 {
		c.Last = c.Mid()
	}
	errs := Validate(c)
	c.Validated = len(errs) == 0
	if c.Validated {
		fillStrategyReturns(c)
	}
	return errs
}

// Validate 返回所有不变量违规；nil 表示合约可用。
func Validate(c *Contract) []error {
	var errs []error
	if strings.TrimSpace(c.Symbol) == "" {
		errs = append(errs, fmt.Errorf("symbol 不能为空"))
	}
	if c.Strike <= 0 {
		errs = append(errs, fmt.Errorf("strike 必须 > 0: %v", c.Strike))
	}
	if c.Type != "call" && c.Type != "put" {
		errs = append(errs, fmt.Errorf("非法期权类型: %s", c.Type))
	}
	if c.Bid < 0 {
		errs = append(errs, fmt.Errorf("bid 不能为负: %v", c.Bid))
	}
	if c.Ask < c.Bid {
		errs = append(errs, fmt.Errorf("ask(%v) 必须 >= bid(%v)", c.Ask, c.Bid))
	}
	if c.ImpliedVol < 0 || c.ImpliedVol > maxImpliedVol {
		errs = append(errs, fmt.Errorf("implied_vol 超界 [0,%v]: %v", maxImpliedVol, c.ImpliedVol))
	}
	if c.DaysToExpiration < 0 || c.DaysToExpiration > maxDTE {
		errs = append(errs, fmt.Errorf("days_to_expiration 超界 [0,%d]: %d", maxDTE, c.DaysToExpiration))
	}
	if c.Underlying < 0 {
		errs = append(errs, fmt.Errorf("underlying_price 不能为负: %v", c.Underlying))
	}
	return errs
}
