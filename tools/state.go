package tools

import (
	"context"

	"adcraft/model"
	"adcraft/storage"
)

// StreamState is the summary of one stream.
type StreamState struct {
	Latest       *storage.Version `json:"latest"`
	ActiveID     string           `json:"activeVersionId,omitempty"`
	VersionCount int              `json:"versionCount"`
}

// UsedVoice is a voice that appeared in an earlier voice version.
type UsedVoice struct {
	VoiceID   string `json:"voiceId"`
	VoiceName string `json:"voiceName,omitempty"`
	VersionID string `json:"versionId"`
}

// AdState is the body returned by read_ad_state.
type AdState struct {
	AdID         string                         `json:"adId"`
	Name         string                         `json:"name,omitempty"`
	Streams      map[storage.Stream]StreamState `json:"streams"`
	VoiceHistory []UsedVoice                    `json:"voiceHistory"`
	Missing      []string                       `json:"missing,omitempty"`
}

func (e *Executor) readAdState(ctx context.Context, _ model.ToolCall) (any, *Result, error) {
	state, err := ReadState(ctx, e.deps.Store, e.scope.AdID)
	if err != nil {
		return nil, nil, err
	}
	return state, nil, nil
}

// ReadState summarizes the ad: the latest version of each stream and the
// voices used by earlier voice versions. It never creates the ad.
func ReadState(ctx context.Context, store *storage.Store, adID string) (*AdState, error) {
	state := &AdState{
		AdID:         adID,
		Streams:      make(map[storage.Stream]StreamState, len(storage.Streams)),
		VoiceHistory: []UsedVoice{},
	}

	meta, err := store.Ads.GetAd(ctx, adID)
	if err != nil {
		return nil, err
	}
	if meta != nil {
		state.Name = meta.Name
	}

	for _, stream := range storage.Streams {
		ids, err := store.Versions.ListVersions(ctx, adID, stream)
		if err != nil {
			return nil, err
		}
		latest, err := store.Versions.LatestVersion(ctx, adID, stream)
		if err != nil {
			return nil, err
		}
		active, err := store.Versions.GetActiveVersion(ctx, adID, stream)
		if err != nil {
			return nil, err
		}

		state.Streams[stream] = StreamState{Latest: latest, ActiveID: active, VersionCount: len(ids)}
		if latest == nil {
			state.Missing = append(state.Missing, DraftTool(stream))
			continue
		}

		if stream == storage.StreamVoices && len(ids) > 1 {
			versions, err := store.Versions.GetAllVersionsWithData(ctx, adID, stream)
			if err != nil {
				return nil, err
			}
			earlier := make([]storage.Version, 0, len(versions))
			for _, v := range versions {
				if v.ID != latest.ID {
					earlier = append(earlier, v)
				}
			}
			state.VoiceHistory = voiceHistory(earlier)
		}
	}
	return state, nil
}

// voiceHistory lists each voice of the given versions once, newest first.
func voiceHistory(versions []storage.Version) []UsedVoice {
	seen := make(map[string]bool)
	out := []UsedVoice{}
	for i := len(versions) - 1; i >= 0; i-- {
		for _, t := range versions[i].VoiceTracks {
			if t.VoiceID == "" || seen[t.VoiceID] {
				continue
			}
			seen[t.VoiceID] = true
			out = append(out, UsedVoice{VoiceID: t.VoiceID, VoiceName: t.VoiceName, VersionID: versions[i].ID})
		}
	}
	return out
}
