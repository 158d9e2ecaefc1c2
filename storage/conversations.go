package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"adcraft/model"

	"github.com/google/uuid"
)

// Conversation is the full message history of the agent for one ad.
type Conversation struct {
	ID        string          `json:"id"`
	AdID      string          `json:"adId"`
	Messages  []model.Message `json:"messages"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// ConversationStore persists one conversation blob per ad.
type ConversationStore struct {
	kv KV
}

// NewConversationStore wraps kv.
func NewConversationStore(kv KV) *ConversationStore {
	return &ConversationStore{kv: kv}
}

// Load returns the stored conversation or nil when the ad has none.
func (s *ConversationStore) Load(ctx context.Context, adID string) (*Conversation, error) {
	raw, ok, err := s.kv.Get(ctx, conversationKey(adID))
	if err != nil {
		return nil, fmt.Errorf("failed to read conversation: %w", err)
	}
	if !ok {
		return nil, nil
	}
	var conv Conversation
	if err := json.Unmarshal([]byte(raw), &conv); err != nil {
		return nil, fmt.Errorf("failed to unmarshal conversation: %w", err)
	}
	return &conv, nil
}

// Save writes conv, assigning an id and timestamps on first save.
func (s *ConversationStore) Save(ctx context.Context, conv *Conversation) error {
	if conv.AdID == "" {
		return fmt.Errorf("conversation has no ad id")
	}
	if conv.ID == "" {
		conv.ID = uuid.New().String()
	}
	now := time.Now()
	if conv.CreatedAt.IsZero() {
		conv.CreatedAt = now
	}
	conv.UpdatedAt = now

	data, err := json.Marshal(conv)
	if err != nil {
		return fmt.Errorf("failed to marshal conversation: %w", err)
	}
	if err := s.kv.Set(ctx, conversationKey(conv.AdID), string(data)); err != nil {
		return fmt.Errorf("failed to write conversation: %w", err)
	}
	return nil
}

// GetConversation returns the stored messages of the ad, or nil.
func (s *ConversationStore) GetConversation(ctx context.Context, adID string) ([]model.Message, error) {
	conv, err := s.Load(ctx, adID)
	if err != nil || conv == nil {
		return nil, err
	}
	return conv.Messages, nil
}

// SaveConversation replaces the stored messages of the ad.
func (s *ConversationStore) SaveConversation(ctx context.Context, adID string, messages []model.Message) error {
	conv, err := s.Load(ctx, adID)
	if err != nil {
		return err
	}
	if conv == nil {
		conv = &Conversation{AdID: adID}
	}
	conv.Messages = messages
	return s.Save(ctx, conv)
}

// HasConversation reports whether the ad has a stored conversation.
func (s *ConversationStore) HasConversation(ctx context.Context, adID string) (bool, error) {
	_, ok, err := s.kv.Get(ctx, conversationKey(adID))
	return ok, err
}
