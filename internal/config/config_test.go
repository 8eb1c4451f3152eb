package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	path := writeFile(t, t.TempDir(), "config.yaml", "app:\n  env: prod\n")
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "prod", cfg.App.Env)
	assert.Equal(t, "info", cfg.App.LogLevel)
	assert.Equal(t, ":9981", cfg.App.HTTPAddr)
	assert.Equal(t, 0.05, cfg.Pricing.RiskFreeRate)
	assert.Equal(t, 100, cfg.Pricing.Steps)
	assert.Equal(t, 0.40, cfg.Scoring.Weights.Greeks)
	assert.Equal(t, 0.80, cfg.Fusion.QuantWeight)
	assert.Equal(t, 5.0, cfg.Calibration.SigmoidSlope)
	assert.Equal(t, 85.0, cfg.Fusion.Thresholds.StrongBuy)
	assert.Equal(t, 8, cfg.Chain.Concurrency)
}

func TestLoad_ExplicitZeroRespected(t *testing.T) {
	path := writeFile(t, t.TempDir(), "config.yaml",
		"pricing:\n  risk_free_rate: 0\n  steps: 200\n")
	cfg, err := Load(path)
	require.NoError(t, err)
	// 显式写 0 的键不被默认值覆盖
	assert.Equal(t, 0.0, cfg.Pricing.RiskFreeRate)
	assert.Equal(t, 200, cfg.Pricing.Steps)
}

func TestLoad_IncludeMerge(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "base.yaml", "app:\n  log_level: debug\n  http_addr: \":7000\"\n")
	main := writeFile(t, dir, "config.yaml",
		"include:\n  - base.yaml\napp:\n  http_addr: \":8000\"\n")

	cfg, err := Load(main)
	require.NoError(t, err)
	// 主文件覆盖 include，未覆盖的键沿用 include
	assert.Equal(t, ":8000", cfg.App.HTTPAddr)
	assert.Equal(t, "debug", cfg.App.LogLevel)
}

func TestLoad_IncludeCycle(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.yaml", "include: [b.yaml]\n")
	pathA := filepath.Join(dir, "a.yaml")
	writeFile(t, dir, "b.yaml", "include: [a.yaml]\n")

	_, err := Load(pathA)
	assert.Error(t, err)
}

func TestLoad_RejectsBadConfig(t *testing.T) {
	dir := t.TempDir()

	bad := writeFile(t, dir, "bad-level.yaml", "app:\n  log_level: verbose\n")
	_, err := Load(bad)
	assert.Error(t, err)

	badFusion := writeFile(t, dir, "bad-fusion.yaml",
		"fusion:\n  quant_weight: 0.7\n  llm_weight: 0.2\n")
	_, err = Load(badFusion)
	assert.Error(t, err)

	badWeights := writeFile(t, dir, "bad-weights.yaml",
		"scoring:\n  weights:\n    greeks: 0.9\n    volatility: 0.3\n    fundamental: 0.2\n    technical: 0.1\n")
	_, err = Load(badWeights)
	assert.Error(t, err)
}
