package model

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUsageAdd(t *testing.T) {
	var u Usage
	u.Add(Usage{PromptTokens: 10, CompletionTokens: 5})
	u.Add(Usage{PromptTokens: 1, CompletionTokens: 2, TotalTokens: 4})

	assert.Equal(t, 11, u.PromptTokens)
	assert.Equal(t, 7, u.CompletionTokens)
	assert.Equal(t, 19, u.TotalTokens)
}

func TestUsageAggregator(t *testing.T) {
	agg := NewUsageAggregator()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			agg.Record("qwen", "qwen3-max", Usage{PromptTokens: 2, CompletionTokens: 1})
		}()
	}
	wg.Wait()
	agg.Record("openai", "gpt-5", Usage{PromptTokens: 100, CompletionTokens: 50, TotalTokens: 150})

	stats := agg.Stats()
	require.Len(t, stats, 2)
	assert.Equal(t, "openai", stats[0].Provider)
	assert.Equal(t, 1, stats[0].Calls)
	assert.Equal(t, "qwen", stats[1].Provider)
	assert.Equal(t, 20, stats[1].Calls)
	assert.Equal(t, 60, stats[1].TotalTokens)

	assert.Equal(t, 210, agg.Total().TotalTokens)
	assert.Contains(t, agg.String(), "qwen (qwen3-max): calls=20")
}

func TestToolCallDecodeArguments(t *testing.T) {
	var args map[string]any
	require.NoError(t, ToolCall{Name: "x"}.DecodeArguments(&args))
	assert.Empty(t, args)

	require.NoError(t, ToolCall{Arguments: `{"a":1}`}.DecodeArguments(&args))
	assert.Equal(t, float64(1), args["a"])

	assert.Error(t, ToolCall{Arguments: `{a:1}`}.DecodeArguments(&args))
}
