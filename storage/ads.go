package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"
)

// AdMetadata describes an ad independently of its versions.
type AdMetadata struct {
	AdID      string    `json:"adId"`
	Name      string    `json:"name"`
	Brief     string    `json:"brief,omitempty"`
	SessionID string    `json:"sessionId,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AdStore manages ad metadata and the per-session ad index.
type AdStore struct {
	kv KV
	mu sync.Mutex
}

// NewAdStore wraps kv.
func NewAdStore(kv KV) *AdStore {
	return &AdStore{kv: kv}
}

// GetAd returns the metadata of the ad, or nil when it does not exist.
func (s *AdStore) GetAd(ctx context.Context, adID string) (*AdMetadata, error) {
	raw, ok, err := s.kv.Get(ctx, metaKey(adID))
	if err != nil {
		return nil, fmt.Errorf("failed to read ad metadata: %w", err)
	}
	if !ok {
		return nil, nil
	}
	var meta AdMetadata
	if err := json.Unmarshal([]byte(raw), &meta); err != nil {
		return nil, fmt.Errorf("failed to unmarshal ad metadata: %w", err)
	}
	return &meta, nil
}

// EnsureAdExists creates the ad metadata on first use and indexes the ad
// under its session. Existing ads are returned unchanged.
func (s *AdStore) EnsureAdExists(ctx context.Context, adID, sessionID, brief string) (*AdMetadata, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	meta, err := s.GetAd(ctx, adID)
	if err != nil || meta != nil {
		return meta, err
	}

	now := time.Now()
	meta = &AdMetadata{
		AdID:      adID,
		Name:      GenerateAdName(brief),
		Brief:     brief,
		SessionID: sessionID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.put(ctx, meta); err != nil {
		return nil, err
	}
	if sessionID != "" {
		if err := s.kv.ListAppend(ctx, sessionAdsKey(sessionID), adID); err != nil {
			return nil, fmt.Errorf("failed to index ad: %w", err)
		}
	}
	return meta, nil
}

// SetAdName renames an existing ad.
func (s *AdStore) SetAdName(ctx context.Context, adID, name string) (*AdMetadata, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	meta, err := s.GetAd(ctx, adID)
	if err != nil {
		return nil, err
	}
	if meta == nil {
		return nil, fmt.Errorf("ad %s does not exist", adID)
	}
	meta.Name = name
	meta.UpdatedAt = time.Now()
	return meta, s.put(ctx, meta)
}

// ListAdsForSession returns the ad ids created in a session, oldest first.
func (s *AdStore) ListAdsForSession(ctx context.Context, sessionID string) ([]string, error) {
	return s.kv.ListRange(ctx, sessionAdsKey(sessionID))
}

func (s *AdStore) put(ctx context.Context, meta *AdMetadata) error {
	data, err := json.Marshal(meta)
	if err != nil {
		return fmt.Errorf("failed to marshal ad metadata: %w", err)
	}
	return s.kv.Set(ctx, metaKey(meta.AdID), string(data))
}

// GenerateAdName derives a short default name from the brief.
func GenerateAdName(brief string) string {
	brief = strings.TrimSpace(strings.ReplaceAll(brief, "\n", " "))
	if brief == "" {
		return "Untitled ad"
	}
	words := strings.Fields(brief)
	if len(words) > 6 {
		words = words[:6]
	}
	name := strings.Join(words, " ")
	if r := []rune(name); len(r) > 50 {
		name = string(r[:47]) + "..."
	}
	return name
}
