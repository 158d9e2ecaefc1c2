package storage

import (
	"context"
	"strings"
	"testing"
	"unicode/utf8"

	"adcraft/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConversationRoundTrip(t *testing.T) {
	forEachBackend(t, func(t *testing.T, kv KV) {
		ctx := context.Background()
		s := NewConversationStore(kv)

		has, err := s.HasConversation(ctx, "ad1")
		require.NoError(t, err)
		assert.False(t, has)

		msgs, err := s.GetConversation(ctx, "ad1")
		require.NoError(t, err)
		assert.Nil(t, msgs)

		call := model.ToolCall{ID: "call_1", Name: "search_voices", Arguments: `{"language":"en"}`}
		history := []model.Message{
			model.NewSystemMessage("sys"),
			model.NewUserMessage("make an ad"),
			{Role: model.RoleAssistant, ToolCalls: []model.ToolCall{call}},
			model.NewToolMessage(call, `{"count":0}`),
		}
		require.NoError(t, s.SaveConversation(ctx, "ad1", history))

		has, err = s.HasConversation(ctx, "ad1")
		require.NoError(t, err)
		assert.True(t, has)

		conv, err := s.Load(ctx, "ad1")
		require.NoError(t, err)
		require.NotNil(t, conv)
		assert.NotEmpty(t, conv.ID)
		require.Len(t, conv.Messages, 4)
		assert.Equal(t, call, conv.Messages[2].ToolCalls[0])
		assert.Equal(t, "call_1", conv.Messages[3].ToolCallID)

		// Saving again keeps the conversation id.
		firstID := conv.ID
		require.NoError(t, s.SaveConversation(ctx, "ad1", history[:2]))
		conv, err = s.Load(ctx, "ad1")
		require.NoError(t, err)
		assert.Equal(t, firstID, conv.ID)
		assert.Len(t, conv.Messages, 2)
	})
}

func TestAdStore(t *testing.T) {
	forEachBackend(t, func(t *testing.T, kv KV) {
		ctx := context.Background()
		s := NewAdStore(kv)

		meta, err := s.GetAd(ctx, "ad1")
		require.NoError(t, err)
		assert.Nil(t, meta)

		meta, err = s.EnsureAdExists(ctx, "ad1", "sess", "Summer sale radio spot for a bike shop downtown")
		require.NoError(t, err)
		assert.Equal(t, "Summer sale radio spot for a", meta.Name)

		// Second call does not overwrite or re-index.
		again, err := s.EnsureAdExists(ctx, "ad1", "sess", "other brief")
		require.NoError(t, err)
		assert.Equal(t, meta.Name, again.Name)

		ads, err := s.ListAdsForSession(ctx, "sess")
		require.NoError(t, err)
		assert.Equal(t, []string{"ad1"}, ads)

		renamed, err := s.SetAdName(ctx, "ad1", "Bike Bonanza")
		require.NoError(t, err)
		assert.Equal(t, "Bike Bonanza", renamed.Name)

		_, err = s.SetAdName(ctx, "nope", "x")
		assert.Error(t, err)
	})
}

func TestGenerateAdName(t *testing.T) {
	assert.Equal(t, "Untitled ad", GenerateAdName("  "))
	assert.Equal(t, "Short brief", GenerateAdName("Short brief"))
	assert.Equal(t, "Summer sale radio spot for a", GenerateAdName("Summer sale radio spot for a furniture store"))

	// Truncation counts runes so multi-byte text is never split.
	long := strings.Repeat("ü", 30) + " " + strings.Repeat("ß", 30)
	name := GenerateAdName(long)
	assert.True(t, utf8.ValidString(name))
	assert.Equal(t, 50, utf8.RuneCountInString(name))
	assert.True(t, strings.HasSuffix(name, "..."))
}
