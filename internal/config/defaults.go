package config

// 中文说明：
// 默认值回填：文件里显式写过的键不动，没写或零值的按默认补齐。
// 业务包自带默认值函数的直接整块替换。

import (
	"strings"

	"optix/internal/fusion"
	"optix/internal/llm"
	"optix/internal/scoring"
)

const (
	defaultAppEnv          = "dev"
	defaultAppLogLevel     = "info"
	defaultAppLogPath      = "/data/logs/optix.log"
	defaultAppHTTPAddr     = ":9981"
	defaultPricingRate     = 0.05
	defaultPricingSteps    = 100
	defaultChainConcur     = 8
	defaultDecisionLogPath = "/data/optix/decisions.db"
	defaultAuditLogPath    = "/data/optix/override_audit.db"
	defaultProfilesPath    = "configs/profiles.yaml"
)

// applyDefaults 为所有子配置应用默认值。
func (c *Config) applyDefaults(keys keySet) {
	c.App.applyDefaults(keys)
	c.Pricing.applyDefaults(keys)
	c.Scoring.applyDefaults(keys)
	c.Chain.applyDefaults(keys)
	c.Store.applyDefaults(keys)
	c.Tuning.applyDefaults(keys)

	if c.Calibration.SigmoidSlope == 0 && !keys.isSet("calibration.sigmoid_slope") {
		c.Calibration = llm.DefaultCalibration()
	}
	if c.Fusion.QuantWeight == 0 && c.Fusion.LLMWeight == 0 {
		c.Fusion = fusion.DefaultConfig()
	}
	if c.Fusion.Thresholds == (fusion.CategoryThresholds{}) {
		c.Fusion.Thresholds = fusion.DefaultCategoryThresholds()
	}
}

func (a *AppConfig) applyDefaults(keys keySet) {
	if a == nil {
		return
	}
	applyFieldDefaults(keys,
		stringFieldDefault("app.env", &a.Env, defaultAppEnv),
		stringFieldDefault("app.log_level", &a.LogLevel, defaultAppLogLevel),
		stringFieldDefault("app.log_path", &a.LogPath, defaultAppLogPath),
		stringFieldDefault("app.http_addr", &a.HTTPAddr, defaultAppHTTPAddr),
	)
}

func (p *PricingConfig) applyDefaults(keys keySet) {
	if p == nil {
		return
	}
	applyFieldDefaults(keys,
		fieldDefault{
			key:   "pricing.risk_free_rate",
			need:  func() bool { return p.RiskFreeRate == 0 },
			apply: func() { p.RiskFreeRate = defaultPricingRate },
		},
		fieldDefault{
			key:   "pricing.steps",
			need:  func() bool { return p.Steps <= 0 },
			apply: func() { p.Steps = defaultPricingSteps },
		},
	)
}

func (s *ScoringConfig) applyDefaults(keys keySet) {
	if s == nil {
		return
	}
	if s.Thresholds == (scoring.Thresholds{}) {
		s.Thresholds = scoring.DefaultThresholds()
	}
	if s.Weights == (scoring.Weights{}) {
		s.Weights = scoring.DefaultWeights()
	}
}

func (c *ChainConfig) applyDefaults(keys keySet) {
	if c == nil {
		return
	}
	applyFieldDefaults(keys,
		fieldDefault{
			key:   "chain.concurrency",
			need:  func() bool { return c.Concurrency <= 0 },
			apply: func() { c.Concurrency = defaultChainConcur },
		},
	)
}

func (s *StoreConfig) applyDefaults(keys keySet) {
	if s == nil {
		return
	}
	applyFieldDefaults(keys,
		stringFieldDefault("store.decision_log_path", &s.DecisionLogPath, defaultDecisionLogPath),
		stringFieldDefault("store.audit_log_path", &s.AuditLogPath, defaultAuditLogPath),
	)
}

func (t *TuningConfig) applyDefaults(keys keySet) {
	if t == nil {
		return
	}
	applyFieldDefaults(keys,
		stringFieldDefault("tuning.profiles_path", &t.ProfilesPath, defaultProfilesPath),
	)
}

func applyFieldDefaults(keys keySet, defs ...fieldDefault) {
	for _, def := range defs {
		if def.apply == nil {
			continue
		}
		if def.key != "" && keys.isSet(def.key) {
			continue
		}
		if def.need != nil && !def.need() {
			continue
		}
		def.apply()
	}
}

func stringFieldDefault(key string, target *string, def string) fieldDefault {
	return fieldDefault{
		key: key,
		need: func() bool {
			return target != nil && strings.TrimSpace(*target) == ""
		},
		apply: func() {
			if target != nil {
				*target = def
			}
		},
	}
}
