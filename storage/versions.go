package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"
)

var (
	// ErrVersionNotFound is returned when a version id does not exist in a stream.
	ErrVersionNotFound = errors.New("version not found")
	// ErrActiveVersion is returned when deleting the active version of a stream.
	ErrActiveVersion = errors.New("cannot delete the active version")
	// ErrInvalidStream is returned for stream names other than voices, music, sfx.
	ErrInvalidStream = errors.New("invalid stream")
	// ErrInvalidStatus is returned for status values a caller may not set directly.
	ErrInvalidStatus = errors.New("invalid status")
)

// Stream is one independently versioned component of an ad.
type Stream string

const (
	StreamVoices Stream = "voices"
	StreamMusic  Stream = "music"
	StreamSFX    Stream = "sfx"
)

// Streams lists every stream in display order.
var Streams = []Stream{StreamVoices, StreamMusic, StreamSFX}

// ParseStream validates a stream name.
func ParseStream(s string) (Stream, error) {
	switch Stream(s) {
	case StreamVoices, StreamMusic, StreamSFX:
		return Stream(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidStream, s)
}

// Status is the lifecycle state of a version.
type Status string

const (
	StatusDraft  Status = "draft"
	StatusFrozen Status = "frozen"
	StatusActive Status = "active"
)

// Creator records who produced a version.
type Creator string

const (
	CreatedByUser Creator = "user"
	CreatedByLLM  Creator = "llm"
	CreatedByFork Creator = "fork"
)

// VoiceTrack is one spoken line of the voice stream.
type VoiceTrack struct {
	VoiceID      string  `json:"voiceId"`
	VoiceName    string  `json:"voiceName,omitempty"`
	Text         string  `json:"text"`
	Style        string  `json:"style,omitempty"`
	Speed        float64 `json:"speed,omitempty"`
	PlayAfter    string  `json:"playAfter,omitempty"`
	Overlap      float64 `json:"overlap,omitempty"`
	Provider     string  `json:"provider,omitempty"`
	GeneratedURL string  `json:"generatedUrl,omitempty"`
	Duration     float64 `json:"duration,omitempty"`
}

// MusicSpec is the payload of a music version.
type MusicSpec struct {
	Prompt       string  `json:"prompt"`
	Provider     string  `json:"provider,omitempty"`
	Duration     float64 `json:"duration,omitempty"`
	GeneratedURL string  `json:"generatedUrl,omitempty"`
}

// SoundEffect is one sound-effect prompt of the sfx stream.
type SoundEffect struct {
	Description  string  `json:"description"`
	PlayAfter    string  `json:"playAfter,omitempty"`
	Overlap      float64 `json:"overlap,omitempty"`
	Duration     float64 `json:"duration,omitempty"`
	GeneratedURL string  `json:"generatedUrl,omitempty"`
}

// Version is an immutable-by-convention snapshot of one stream. Only the
// payload matching the stream is populated.
type Version struct {
	ID              string    `json:"id"`
	CreatedAt       time.Time `json:"createdAt"`
	CreatedBy       Creator   `json:"createdBy"`
	Status          Status    `json:"status"`
	ParentVersionID string    `json:"parentVersionId,omitempty"`
	RequestText     string    `json:"requestText,omitempty"`

	VoiceTracks  []VoiceTrack  `json:"voiceTracks,omitempty"`
	Music        *MusicSpec    `json:"music,omitempty"`
	SoundEffects []SoundEffect `json:"soundFxPrompts,omitempty"`
}

// VersionPatch is a shallow merge applied by UpdateVersion. Nil fields are
// left unchanged; non-nil slices replace the stored ones.
type VersionPatch struct {
	Status       *Status
	RequestText  *string
	VoiceTracks  []VoiceTrack
	Music        *MusicSpec
	SoundEffects []SoundEffect
}

// VersionStore manages the versions of every (ad, stream) pair. All
// mutations of one pair are serialized by an in-process lock; version ids
// come from an atomic counter in the backend.
type VersionStore struct {
	kv    KV
	now   func() time.Time
	locks sync.Map // "adId:stream" -> *sync.Mutex
}

// NewVersionStore wraps kv.
func NewVersionStore(kv KV) *VersionStore {
	return &VersionStore{kv: kv, now: time.Now}
}

func (s *VersionStore) lock(adID string, stream Stream) func() {
	m, _ := s.locks.LoadOrStore(adID+":"+string(stream), &sync.Mutex{})
	mu := m.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

// CreateVersion stores v as the next version of the stream and returns its
// id. Ids are "v1", "v2", ... and are never reused, even after a delete.
// A version stored as draft (the default) first freezes the existing drafts.
func (s *VersionStore) CreateVersion(ctx context.Context, adID string, stream Stream, v Version) (string, error) {
	if _, err := ParseStream(string(stream)); err != nil {
		return "", err
	}
	defer s.lock(adID, stream)()
	id, _, err := s.createLocked(ctx, adID, stream, v)
	return id, err
}

// CreateDraft stores v as the single draft of the stream. It returns the new
// id and the ids of the drafts it froze.
func (s *VersionStore) CreateDraft(ctx context.Context, adID string, stream Stream, v Version) (string, []string, error) {
	if _, err := ParseStream(string(stream)); err != nil {
		return "", nil, err
	}
	defer s.lock(adID, stream)()

	v.Status = StatusDraft
	return s.createLocked(ctx, adID, stream, v)
}

func (s *VersionStore) createLocked(ctx context.Context, adID string, stream Stream, v Version) (string, []string, error) {
	switch v.Status {
	case "":
		v.Status = StatusDraft
	case StatusDraft, StatusFrozen:
	default:
		return "", nil, fmt.Errorf("%w: cannot create a version as %q, use SetActiveVersion", ErrInvalidStatus, v.Status)
	}

	var frozen []string
	if v.Status == StatusDraft {
		var err error
		if frozen, err = s.freezeLocked(ctx, adID, stream); err != nil {
			return "", frozen, err
		}
	}

	n, err := s.kv.Incr(ctx, seqKey(adID, stream))
	if err != nil {
		return "", frozen, fmt.Errorf("failed to allocate version id: %w", err)
	}

	v.ID = fmt.Sprintf("v%d", n)
	if v.CreatedAt.IsZero() {
		v.CreatedAt = s.now()
	}
	if v.CreatedBy == "" {
		v.CreatedBy = CreatedByUser
	}

	if err := s.put(ctx, adID, stream, &v); err != nil {
		return "", frozen, err
	}
	if err := s.kv.ListAppend(ctx, versionsKey(adID, stream), v.ID); err != nil {
		return "", frozen, fmt.Errorf("failed to index version: %w", err)
	}
	return v.ID, frozen, nil
}

// freezeLocked moves every draft of the stream to frozen and returns their ids.
func (s *VersionStore) freezeLocked(ctx context.Context, adID string, stream Stream) ([]string, error) {
	versions, err := s.GetAllVersionsWithData(ctx, adID, stream)
	if err != nil {
		return nil, err
	}
	var frozen []string
	for i := range versions {
		v := &versions[i]
		if v.Status != StatusDraft {
			continue
		}
		v.Status = StatusFrozen
		if err := s.put(ctx, adID, stream, v); err != nil {
			return frozen, err
		}
		frozen = append(frozen, v.ID)
	}
	return frozen, nil
}

// GetVersion returns the version or nil when it does not exist.
func (s *VersionStore) GetVersion(ctx context.Context, adID string, stream Stream, versionID string) (*Version, error) {
	raw, ok, err := s.kv.Get(ctx, versionKey(adID, stream, versionID))
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	var v Version
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return nil, fmt.Errorf("failed to decode version %s/%s: %w", stream, versionID, err)
	}
	return &v, nil
}

// ListVersions returns the version ids of the stream in creation order.
func (s *VersionStore) ListVersions(ctx context.Context, adID string, stream Stream) ([]string, error) {
	return s.kv.ListRange(ctx, versionsKey(adID, stream))
}

// GetAllVersionsWithData returns every version of the stream in creation
// order. Ids whose blob is missing are skipped.
func (s *VersionStore) GetAllVersionsWithData(ctx context.Context, adID string, stream Stream) ([]Version, error) {
	ids, err := s.ListVersions(ctx, adID, stream)
	if err != nil {
		return nil, err
	}
	out := make([]Version, 0, len(ids))
	for _, id := range ids {
		v, err := s.GetVersion(ctx, adID, stream, id)
		if err != nil {
			return nil, err
		}
		if v != nil {
			out = append(out, *v)
		}
	}
	return out, nil
}

// LatestVersion returns the most recently created version or nil.
func (s *VersionStore) LatestVersion(ctx context.Context, adID string, stream Stream) (*Version, error) {
	ids, err := s.ListVersions(ctx, adID, stream)
	if err != nil {
		return nil, err
	}
	for i := len(ids) - 1; i >= 0; i-- {
		v, err := s.GetVersion(ctx, adID, stream, ids[i])
		if err != nil || v != nil {
			return v, err
		}
	}
	return nil, nil
}

// GetActiveVersion returns the active version id, or "" when none is set.
func (s *VersionStore) GetActiveVersion(ctx context.Context, adID string, stream Stream) (string, error) {
	id, _, err := s.kv.Get(ctx, activeKey(adID, stream))
	return id, err
}

// SetActiveVersion points the stream at versionID and marks it active.
// Other versions keep their status.
func (s *VersionStore) SetActiveVersion(ctx context.Context, adID string, stream Stream, versionID string) error {
	defer s.lock(adID, stream)()

	v, err := s.GetVersion(ctx, adID, stream, versionID)
	if err != nil {
		return err
	}
	if v == nil {
		return fmt.Errorf("%w: %s/%s", ErrVersionNotFound, stream, versionID)
	}
	if err := s.kv.Set(ctx, activeKey(adID, stream), versionID); err != nil {
		return fmt.Errorf("failed to set active version: %w", err)
	}
	v.Status = StatusActive
	return s.put(ctx, adID, stream, v)
}

// CloneVersion copies sourceID into a new draft with createdBy=fork and
// parentVersionId=sourceID. Existing drafts are frozen first.
func (s *VersionStore) CloneVersion(ctx context.Context, adID string, stream Stream, sourceID string) (string, error) {
	defer s.lock(adID, stream)()

	src, err := s.GetVersion(ctx, adID, stream, sourceID)
	if err != nil {
		return "", err
	}
	if src == nil {
		return "", fmt.Errorf("%w: %s/%s", ErrVersionNotFound, stream, sourceID)
	}

	clone := *src
	clone.CreatedAt = s.now()
	clone.CreatedBy = CreatedByFork
	clone.Status = StatusDraft
	clone.ParentVersionID = sourceID

	id, _, err := s.createLocked(ctx, adID, stream, clone)
	return id, err
}

// UpdateVersion merges patch into an existing version and returns the result.
// A status patch may move a version between draft and frozen; moving it to
// draft freezes the other drafts. Activation goes through SetActiveVersion,
// and the active version keeps its status until another one is activated.
func (s *VersionStore) UpdateVersion(ctx context.Context, adID string, stream Stream, versionID string, patch VersionPatch) (*Version, error) {
	defer s.lock(adID, stream)()

	v, err := s.GetVersion(ctx, adID, stream, versionID)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, fmt.Errorf("%w: %s/%s", ErrVersionNotFound, stream, versionID)
	}

	if patch.Status != nil && *patch.Status != v.Status {
		if err := s.checkStatusChange(ctx, adID, stream, v, *patch.Status); err != nil {
			return nil, err
		}
		if *patch.Status == StatusDraft {
			if _, err := s.freezeLocked(ctx, adID, stream); err != nil {
				return nil, err
			}
		}
		v.Status = *patch.Status
	}
	if patch.RequestText != nil {
		v.RequestText = *patch.RequestText
	}
	if patch.VoiceTracks != nil {
		v.VoiceTracks = patch.VoiceTracks
	}
	if patch.Music != nil {
		v.Music = patch.Music
	}
	if patch.SoundEffects != nil {
		v.SoundEffects = patch.SoundEffects
	}

	if err := s.put(ctx, adID, stream, v); err != nil {
		return nil, err
	}
	return v, nil
}

func (s *VersionStore) checkStatusChange(ctx context.Context, adID string, stream Stream, v *Version, to Status) error {
	switch to {
	case StatusDraft, StatusFrozen:
	case StatusActive:
		return fmt.Errorf("%w: use SetActiveVersion to activate %s/%s", ErrInvalidStatus, stream, v.ID)
	default:
		return fmt.Errorf("%w: %q", ErrInvalidStatus, to)
	}

	active, err := s.GetActiveVersion(ctx, adID, stream)
	if err != nil {
		return err
	}
	if active == v.ID {
		return fmt.Errorf("%w: %s/%s is active, activate another version first", ErrInvalidStatus, stream, v.ID)
	}
	return nil
}

// DeleteVersion removes a non-active version from the stream.
func (s *VersionStore) DeleteVersion(ctx context.Context, adID string, stream Stream, versionID string) error {
	defer s.lock(adID, stream)()

	active, err := s.GetActiveVersion(ctx, adID, stream)
	if err != nil {
		return err
	}
	if active != "" && active == versionID {
		return fmt.Errorf("%w: %s/%s", ErrActiveVersion, stream, versionID)
	}

	_, ok, err := s.kv.Get(ctx, versionKey(adID, stream, versionID))
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: %s/%s", ErrVersionNotFound, stream, versionID)
	}

	if err := s.kv.ListRemove(ctx, versionsKey(adID, stream), versionID); err != nil {
		return fmt.Errorf("failed to unindex version: %w", err)
	}
	if err := s.kv.Delete(ctx, versionKey(adID, stream, versionID)); err != nil {
		return fmt.Errorf("failed to delete version: %w", err)
	}
	return nil
}

func (s *VersionStore) put(ctx context.Context, adID string, stream Stream, v *Version) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal version: %w", err)
	}
	if err := s.kv.Set(ctx, versionKey(adID, stream, v.ID), string(data)); err != nil {
		return fmt.Errorf("failed to write version %s/%s: %w", stream, v.ID, err)
	}
	return nil
}
