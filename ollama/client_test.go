package ollama

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSupportsToolCalling(t *testing.T) {
	tests := []struct {
		model string
		want  bool
	}{
		{"qwen3:latest", true},
		{"llama3.2:3b", true},
		{"llama3:8b", false},
		{"Llama3.1:latest", true},
		{"gemma2", false},
		{"unknown-model", false},
	}
	for _, tt := range tests {
		t.Run(tt.model, func(t *testing.T) {
			assert.Equal(t, tt.want, SupportsToolCalling(tt.model))
		})
	}
}

func TestNewClientDefaults(t *testing.T) {
	c, err := NewClient("", "")
	assert.NoError(t, err)
	assert.Equal(t, "qwen3:latest", c.GetModel())

	c.SetModel("llama3.1")
	assert.Equal(t, "llama3.1", c.GetModel())
	assert.True(t, c.SupportsToolCalling())

	_, err = NewClient("://bad", "")
	assert.Error(t, err)
}
