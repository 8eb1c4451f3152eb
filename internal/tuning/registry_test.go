package tuning

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"optix/internal/fusion"
)

const profilesYAML = `profiles:
  conservative-fusion:
    description: "lean quant in chop"
    target: fusion
    version: 2
    params:
      quant_weight: 0.85
      llm_weight: 0.15
      high_confidence: 0.8
      low_confidence: 0.3
      risk_adjustment_factor: "0.5"
    schema:
      type: object
      required: [quant_weight, llm_weight]
      properties:
        quant_weight:
          type: number
          minimum: 0
          maximum: 1
        llm_weight:
          type: number
          minimum: 0
          maximum: 1
  bad-schema-params:
    target: fusion
    params:
      quant_weight: 1.5
    schema:
      type: object
      properties:
        quant_weight:
          type: number
          maximum: 1
`

func writeProfiles(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "profiles.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestRegistry_LoadAndLookup(t *testing.T) {
	r, err := NewRegistry(writeProfiles(t, profilesYAML))
	require.NoError(t, err)

	snap := r.Snapshot()
	assert.Equal(t, int64(1), snap.Version)
	assert.Len(t, snap.Profiles, 2)

	p, ok := r.Profile("conservative-fusion")
	require.True(t, ok)
	assert.Equal(t, "conservative-fusion", p.ID)
	assert.Equal(t, TargetFusion, p.Target)
	assert.Equal(t, 2, p.Version)

	_, ok = r.Profile("missing")
	assert.False(t, ok)
}

func TestRegistry_DecodeIntoFusionConfig(t *testing.T) {
	r, err := NewRegistry(writeProfiles(t, profilesYAML))
	require.NoError(t, err)

	cfg := fusion.DefaultConfig()
	require.NoError(t, r.Decode("conservative-fusion", &cfg))
	assert.Equal(t, 0.85, cfg.QuantWeight)
	assert.Equal(t, 0.15, cfg.LLMWeight)
	// 字符串数字弱类型转换
	assert.Equal(t, 0.5, cfg.RiskAdjustmentFactor)
	// profile 未覆盖的字段保留默认值
	assert.Equal(t, 0.8, cfg.HighConfidence)
}

func TestRegistry_SchemaRejectsBadParams(t *testing.T) {
	r, err := NewRegistry(writeProfiles(t, profilesYAML))
	require.NoError(t, err)

	var cfg fusion.Config
	assert.Error(t, r.Decode("bad-schema-params", &cfg))
}

func TestRegistry_RejectsUnknownFields(t *testing.T) {
	path := writeProfiles(t, "profiles: {}\nunexpected: true\n")
	_, err := NewRegistry(path)
	assert.Error(t, err)
}

func TestCoerceNumbers(t *testing.T) {
	out := coerceNumbers(map[string]any{
		"a": "0.35",
		"b": []any{"1", "x"},
		"c": map[string]any{"d": " 42 "},
		"e": true,
	}).(map[string]any)

	assert.Equal(t, 0.35, out["a"])
	assert.Equal(t, []any{1.0, "x"}, out["b"])
	assert.Equal(t, 42.0, out["c"].(map[string]any)["d"])
	assert.Equal(t, true, out["e"])
}
