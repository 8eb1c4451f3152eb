package jsonutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractJSON_Fence(t *testing.T) {
	raw := "分析如下：\n```json\n{\"action\": \"BUY\", \"note\": \"a {brace} in string\"}\n```\n完毕。"
	out, ok := ExtractJSON(raw)
	require.True(t, ok)
	assert.Equal(t, `{"action": "BUY", "note": "a {brace} in string"}`, out)
}

func TestExtractJSON_BareObject(t *testing.T) {
	raw := `prefix {"a": {"b": 1}} suffix {"c": 2}`
	out, ok := ExtractJSON(raw)
	require.True(t, ok)
	assert.Equal(t, `{"a": {"b": 1}}`, out)
}

func TestExtractJSON_ObjectPreferredOverArray(t *testing.T) {
	raw := `[1,2,3] then {"a": 1}`
	out, ok := ExtractJSON(raw)
	require.True(t, ok)
	assert.Equal(t, `{"a": 1}`, out)
}

func TestExtractJSON_ArrayFallback(t *testing.T) {
	out, ok := ExtractJSON(`values: [1, 2, 3]`)
	require.True(t, ok)
	assert.Equal(t, `[1, 2, 3]`, out)
}

func TestExtractJSON_None(t *testing.T) {
	_, ok := ExtractJSON("no json here")
	assert.False(t, ok)
	_, ok = ExtractJSON("   ")
	assert.False(t, ok)
	// 未配平
	_, ok = ExtractJSON(`{"a": 1`)
	assert.False(t, ok)
}

func TestExtractJSON_EscapedQuoteInString(t *testing.T) {
	raw := `{"msg": "he said \"}\" loudly"}`
	out, ok := ExtractJSON(raw)
	require.True(t, ok)
	assert.Equal(t, raw, out)
}
