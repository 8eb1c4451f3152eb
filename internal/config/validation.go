package config

import (
	"fmt"
	"math"
	"strings"
)

// validate 对配置进行基础校验。配置错误直接拒绝启动。
func validate(c *Config) error {
	if err := c.App.validate(); err != nil {
		return err
	}
	if err := c.Pricing.validate(); err != nil {
		return err
	}
	if err := c.Scoring.validate(); err != nil {
		return err
	}
	if err := c.Fusion.Validate(); err != nil {
		return fmt.Errorf("fusion: %w", err)
	}
	return nil
}

func (a *AppConfig) validate() error {
	switch strings.ToLower(strings.TrimSpace(a.LogLevel)) {
	case "debug", "info", "warn", "error":
		return nil
	default:
		return fmt.Errorf("app.log_level 非法: %s", a.LogLevel)
	}
}

func (p *PricingConfig) validate() error {
	if p.Steps <= 0 {
		return fmt.Errorf("pricing.steps 必须 > 0: %d", p.Steps)
	}
	if p.DividendYield < 0 {
		return fmt.Errorf("pricing.dividend_yield 不能为负: %v", p.DividendYield)
	}
	return nil
}

func (s *ScoringConfig) validate() error {
	sum := s.Weights.Greeks + s.Weights.Volatility + s.Weights.Fundamental + s.Weights.Technical
	if math.Abs(sum-1.0) > 0.001 {
		return fmt.Errorf("scoring.weights 四项之和必须为 1.0: %v", sum)
	}
	if s.Thresholds.DeltaIdealLow >= s.Thresholds.DeltaIdealHigh {
		return fmt.Errorf("scoring.thresholds delta 区间非法: [%v,%v]",
			s.Thresholds.DeltaIdealLow, s.Thresholds.DeltaIdealHigh)
	}
	return nil
}
