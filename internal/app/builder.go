package app

// 中文说明：
// 依赖装配：配置 → 校准器/评分器/定价引擎 → 融合引擎 → 存储 → HTTP。
// tuning 档案在装配期套用（default_profile），热加载只记日志，
// 覆盖存储带状态，换配置需重启进程。

import (
	"fmt"

	"optix/internal/chain"
	oxcfg "optix/internal/config"
	"optix/internal/fusion"
	"optix/internal/llm"
	"optix/internal/logger"
	"optix/internal/pricing"
	"optix/internal/scoring"
	"optix/internal/store/auditlog"
	"optix/internal/store/decisionlog"
	adminhttp "optix/internal/transport/http"
	"optix/internal/tuning"
)

// AppBuilder 按配置逐层装配应用。
type AppBuilder struct {
	cfg *oxcfg.Config
}

func NewAppBuilder(cfg *oxcfg.Config) *AppBuilder {
	return &AppBuilder{cfg: cfg}
}

// Build 完成全部装配。任何一层失败都视为启动失败。
func (b *AppBuilder) Build() (*App, error) {
	cfg := b.cfg

	registry := b.buildTuning()

	fusionCfg := cfg.Fusion
	calibration := cfg.Calibration
	scoringCfg := cfg.Scoring
	if registry != nil && cfg.Tuning.DefaultProfile != "" {
		if err := applyProfile(registry, cfg.Tuning.DefaultProfile, &fusionCfg, &calibration, &scoringCfg); err != nil {
			return nil, err
		}
	}

	normalizer := llm.NewNormalizer(calibration)
	engine, err := fusion.NewEngine(fusionCfg, normalizer)
	if err != nil {
		return nil, fmt.Errorf("构建融合引擎失败: %w", err)
	}

	pricer := pricing.NewEngine(cfg.Pricing.RiskFreeRate, cfg.Pricing.DividendYield, cfg.Pricing.Steps)
	scorer := scoring.NewScorer(scoringCfg.Thresholds, scoringCfg.Weights)
	analyzer := chain.NewAnalyzer(pricer, scorer, cfg.Chain.Concurrency)

	decisions, err := decisionlog.NewStore(cfg.Store.DecisionLogPath)
	if err != nil {
		return nil, fmt.Errorf("打开决策日志失败: %w", err)
	}
	audit, err := auditlog.NewStore(cfg.Store.AuditLogPath)
	if err != nil {
		decisions.Close()
		return nil, fmt.Errorf("打开覆盖审计失败: %w", err)
	}

	server, err := adminhttp.NewServer(adminhttp.ServerConfig{
		Addr:      cfg.App.HTTPAddr,
		Engine:    engine,
		Decisions: decisions,
		Audit:     audit,
		Profiles:  registry,
	})
	if err != nil {
		decisions.Close()
		audit.Close()
		return nil, fmt.Errorf("构建 HTTP 服务失败: %w", err)
	}

	return &App{
		cfg:       cfg,
		engine:    engine,
		analyzer:  analyzer,
		decisions: decisions,
		audit:     audit,
		server:    server,
		registry:  registry,
	}, nil
}

// buildTuning 档案文件缺失不阻塞启动，只降级为无档案模式。
func (b *AppBuilder) buildTuning() *tuning.Registry {
	path := b.cfg.Tuning.ProfilesPath
	if path == "" {
		return nil
	}
	registry, err := tuning.NewRegistry(path)
	if err != nil {
		logger.Warnf("参数档案不可用（%s）: %v", path, err)
		return nil
	}
	registry.Subscribe(func(snap tuning.Snapshot) {
		logger.Infof("参数档案已更新 version=%d profiles=%d（覆盖存储带状态，重启后生效）",
			snap.Version, len(snap.Profiles))
	})
	return registry
}

func applyProfile(registry *tuning.Registry, id string, fusionCfg *fusion.Config, calibration *llm.CalibrationConfig, scoringCfg *oxcfg.ScoringConfig) error {
	p, ok := registry.Profile(id)
	if !ok {
		return fmt.Errorf("默认参数档案不存在: %s", id)
	}
	var err error
	switch p.Target {
	case tuning.TargetFusion:
		err = registry.Decode(id, fusionCfg)
	case tuning.TargetCalibration:
		err = registry.Decode(id, calibration)
	case tuning.TargetScoring:
		err = registry.Decode(id, scoringCfg)
	default:
		err = fmt.Errorf("未知档案目标: %s", p.Target)
	}
	if err != nil {
		return fmt.Errorf("套用参数档案 %s 失败: %w", id, err)
	}
	logger.Infof("已套用参数档案 %s (target=%s v%d)", p.ID, p.Target, p.Version)
	return nil
}
