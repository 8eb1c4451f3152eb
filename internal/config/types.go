package config

// 中文说明：
// 顶层配置结构。各业务包自带配置结构（toml tag），这里只做聚合；
// keySet 追踪文件中显式写过的键，避免把用户写的 0 当缺省覆盖掉。

import (
	"strings"

	"optix/internal/fusion"
	"optix/internal/llm"
	"optix/internal/scoring"
)

// Config 进程完整配置。
type Config struct {
	Include []string `toml:"include"`

	App         AppConfig             `toml:"app"`
	Pricing     PricingConfig         `toml:"pricing"`
	Scoring     ScoringConfig         `toml:"scoring"`
	Calibration llm.CalibrationConfig `toml:"calibration"`
	Fusion      fusion.Config         `toml:"fusion"`
	Chain       ChainConfig           `toml:"chain"`
	Store       StoreConfig           `toml:"store"`
	Tuning      TuningConfig          `toml:"tuning"`
}

// AppConfig 进程级配置。
type AppConfig struct {
	Env      string `toml:"env"`
	LogLevel string `toml:"log_level"`
	LogPath  string `toml:"log_path"`
	HTTPAddr string `toml:"http_addr"`
}

// PricingConfig 定价引擎参数。
type PricingConfig struct {
	RiskFreeRate  float64 `toml:"risk_free_rate"`
	DividendYield float64 `toml:"dividend_yield"`
	Steps         int     `toml:"steps"`
}

// ScoringConfig 量化评分参数。
type ScoringConfig struct {
	Thresholds scoring.Thresholds `toml:"thresholds"`
	Weights    scoring.Weights    `toml:"weights"`
}

// ChainConfig 链分析器参数。
type ChainConfig struct {
	Concurrency int `toml:"concurrency"`
}

// StoreConfig 持久化路径。
type StoreConfig struct {
	DecisionLogPath string `toml:"decision_log_path"`
	AuditLogPath    string `toml:"audit_log_path"`
}

// TuningConfig 参数档案。
type TuningConfig struct {
	ProfilesPath   string `toml:"profiles_path"`
	DefaultProfile string `toml:"default_profile"`
}

// keySet 追踪配置文件中显式设置的字段路径。
type keySet map[string]struct{}

func (k keySet) mark(path string) {
	path = strings.ToLower(strings.TrimSpace(path))
	if path == "" {
		return
	}
	k[path] = struct{}{}
}

func (k keySet) isSet(path string) bool {
	if len(k) == 0 {
		return false
	}
	path = strings.ToLower(strings.TrimSpace(path))
	if path == "" {
		return false
	}
	_, ok := k[path]
	return ok
}

// fieldDefault 描述单个字段的默认值设置规则。
type fieldDefault struct {
	key   string
	need  func() bool
	apply func()
}
