package storage

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func voiceVersion(text string) Version {
	return Version{
		CreatedBy:   CreatedByLLM,
		RequestText: "brief",
		VoiceTracks: []VoiceTrack{{VoiceID: "voice-1", VoiceName: "Ava", Text: text}},
	}
}

func TestCreateVersionIDsAreMonotonic(t *testing.T) {
	forEachBackend(t, func(t *testing.T, kv KV) {
		ctx := context.Background()
		s := NewVersionStore(kv)

		for i, want := range []string{"v1", "v2", "v3"} {
			id, err := s.CreateVersion(ctx, "ad1", StreamVoices, voiceVersion("line"))
			require.NoError(t, err, "create %d", i)
			assert.Equal(t, want, id)
		}

		// Streams are numbered independently.
		id, err := s.CreateVersion(ctx, "ad1", StreamMusic, Version{Music: &MusicSpec{Prompt: "lofi"}})
		require.NoError(t, err)
		assert.Equal(t, "v1", id)

		// Ids are not reused after a delete.
		require.NoError(t, s.DeleteVersion(ctx, "ad1", StreamVoices, "v3"))
		id, err = s.CreateVersion(ctx, "ad1", StreamVoices, voiceVersion("again"))
		require.NoError(t, err)
		assert.Equal(t, "v4", id)

		ids, err := s.ListVersions(ctx, "ad1", StreamVoices)
		require.NoError(t, err)
		assert.Equal(t, []string{"v1", "v2", "v4"}, ids)
	})
}

func TestCreateVersionConcurrentUniqueIDs(t *testing.T) {
	forEachBackend(t, func(t *testing.T, kv KV) {
		ctx := context.Background()
		s := NewVersionStore(kv)

		const n = 10
		var wg sync.WaitGroup
		for i := 0; i < n; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := s.CreateVersion(ctx, "ad1", StreamSFX, Version{SoundEffects: []SoundEffect{{Description: "whoosh"}}})
				assert.NoError(t, err)
			}()
		}
		wg.Wait()

		ids, err := s.ListVersions(ctx, "ad1", StreamSFX)
		require.NoError(t, err)
		assert.Len(t, ids, n)
		assert.ElementsMatch(t, []string{"v1", "v2", "v3", "v4", "v5", "v6", "v7", "v8", "v9", "v10"}, ids)
	})
}

func TestCreateDraftFreezesExistingDrafts(t *testing.T) {
	forEachBackend(t, func(t *testing.T, kv KV) {
		ctx := context.Background()
		s := NewVersionStore(kv)

		first, frozen, err := s.CreateDraft(ctx, "ad1", StreamVoices, voiceVersion("first"))
		require.NoError(t, err)
		assert.Empty(t, frozen)

		second, frozen, err := s.CreateDraft(ctx, "ad1", StreamVoices, voiceVersion("second"))
		require.NoError(t, err)
		assert.Equal(t, []string{first}, frozen)

		versions, err := s.GetAllVersionsWithData(ctx, "ad1", StreamVoices)
		require.NoError(t, err)
		require.Len(t, versions, 2)

		drafts := 0
		for _, v := range versions {
			if v.Status == StatusDraft {
				drafts++
				assert.Equal(t, second, v.ID)
			}
		}
		assert.Equal(t, 1, drafts)
		assert.Equal(t, StatusFrozen, versions[0].Status)
	})
}

func TestSetActiveVersionAndDeleteProtection(t *testing.T) {
	forEachBackend(t, func(t *testing.T, kv KV) {
		ctx := context.Background()
		s := NewVersionStore(kv)

		id, err := s.CreateVersion(ctx, "ad1", StreamVoices, voiceVersion("x"))
		require.NoError(t, err)

		err = s.SetActiveVersion(ctx, "ad1", StreamVoices, "v9")
		assert.ErrorIs(t, err, ErrVersionNotFound)

		require.NoError(t, s.SetActiveVersion(ctx, "ad1", StreamVoices, id))
		active, err := s.GetActiveVersion(ctx, "ad1", StreamVoices)
		require.NoError(t, err)
		assert.Equal(t, id, active)

		v, err := s.GetVersion(ctx, "ad1", StreamVoices, id)
		require.NoError(t, err)
		assert.Equal(t, StatusActive, v.Status)

		err = s.DeleteVersion(ctx, "ad1", StreamVoices, id)
		assert.ErrorIs(t, err, ErrActiveVersion)

		ids, err := s.ListVersions(ctx, "ad1", StreamVoices)
		require.NoError(t, err)
		assert.Equal(t, []string{id}, ids)

		err = s.DeleteVersion(ctx, "ad1", StreamVoices, "v7")
		assert.ErrorIs(t, err, ErrVersionNotFound)
	})
}

func TestCloneVersionLineage(t *testing.T) {
	forEachBackend(t, func(t *testing.T, kv KV) {
		ctx := context.Background()
		s := NewVersionStore(kv)

		src := voiceVersion("hello")
		src.Status = StatusFrozen
		srcID, err := s.CreateVersion(ctx, "ad1", StreamVoices, src)
		require.NoError(t, err)

		cloneID, err := s.CloneVersion(ctx, "ad1", StreamVoices, srcID)
		require.NoError(t, err)
		assert.Equal(t, "v2", cloneID)

		orig, err := s.GetVersion(ctx, "ad1", StreamVoices, srcID)
		require.NoError(t, err)
		clone, err := s.GetVersion(ctx, "ad1", StreamVoices, cloneID)
		require.NoError(t, err)

		assert.Equal(t, CreatedByFork, clone.CreatedBy)
		assert.Equal(t, StatusDraft, clone.Status)
		assert.Equal(t, srcID, clone.ParentVersionID)
		assert.Equal(t, orig.VoiceTracks, clone.VoiceTracks)
		assert.Equal(t, orig.RequestText, clone.RequestText)

		_, err = s.CloneVersion(ctx, "ad1", StreamVoices, "v42")
		assert.ErrorIs(t, err, ErrVersionNotFound)
	})
}

func TestUpdateVersionShallowMerge(t *testing.T) {
	forEachBackend(t, func(t *testing.T, kv KV) {
		ctx := context.Background()
		s := NewVersionStore(kv)

		id, err := s.CreateVersion(ctx, "ad1", StreamMusic, Version{Music: &MusicSpec{Prompt: "jazz", Duration: 30}})
		require.NoError(t, err)

		frozen := StatusFrozen
		updated, err := s.UpdateVersion(ctx, "ad1", StreamMusic, id, VersionPatch{
			Status: &frozen,
			Music:  &MusicSpec{Prompt: "jazz", Duration: 30, GeneratedURL: "https://cdn/x.mp3"},
		})
		require.NoError(t, err)
		assert.Equal(t, StatusFrozen, updated.Status)
		assert.Equal(t, "https://cdn/x.mp3", updated.Music.GeneratedURL)

		stored, err := s.GetVersion(ctx, "ad1", StreamMusic, id)
		require.NoError(t, err)
		assert.Equal(t, updated, stored)

		_, err = s.UpdateVersion(ctx, "ad1", StreamMusic, "v5", VersionPatch{})
		assert.ErrorIs(t, err, ErrVersionNotFound)
	})
}

func TestLatestVersionAndMissing(t *testing.T) {
	forEachBackend(t, func(t *testing.T, kv KV) {
		ctx := context.Background()
		s := NewVersionStore(kv)

		latest, err := s.LatestVersion(ctx, "ad1", StreamVoices)
		require.NoError(t, err)
		assert.Nil(t, latest)

		v, err := s.GetVersion(ctx, "ad1", StreamVoices, "v1")
		require.NoError(t, err)
		assert.Nil(t, v)

		_, err = s.CreateVersion(ctx, "ad1", StreamVoices, voiceVersion("a"))
		require.NoError(t, err)
		_, err = s.CreateVersion(ctx, "ad1", StreamVoices, voiceVersion("b"))
		require.NoError(t, err)

		latest, err = s.LatestVersion(ctx, "ad1", StreamVoices)
		require.NoError(t, err)
		require.NotNil(t, latest)
		assert.Equal(t, "v2", latest.ID)
		assert.Equal(t, "b", latest.VoiceTracks[0].Text)
	})
}

func TestParseStream(t *testing.T) {
	for _, s := range []string{"voices", "music", "sfx"} {
		got, err := ParseStream(s)
		require.NoError(t, err)
		assert.Equal(t, Stream(s), got)
	}
	_, err := ParseStream("video")
	assert.ErrorIs(t, err, ErrInvalidStream)
}

func TestActivatingAnotherVersionReleasesDeleteProtection(t *testing.T) {
	forEachBackend(t, func(t *testing.T, kv KV) {
		ctx := context.Background()
		s := NewVersionStore(kv)

		v1, err := s.CreateVersion(ctx, "ad1", StreamMusic, Version{Music: &MusicSpec{Prompt: "a"}})
		require.NoError(t, err)
		v2, err := s.CreateVersion(ctx, "ad1", StreamMusic, Version{Music: &MusicSpec{Prompt: "b"}})
		require.NoError(t, err)

		require.NoError(t, s.SetActiveVersion(ctx, "ad1", StreamMusic, v1))
		require.NoError(t, s.SetActiveVersion(ctx, "ad1", StreamMusic, v2))

		assert.ErrorIs(t, s.DeleteVersion(ctx, "ad1", StreamMusic, v2), ErrActiveVersion)
		assert.NoError(t, s.DeleteVersion(ctx, "ad1", StreamMusic, v1))

		ids, err := s.ListVersions(ctx, "ad1", StreamMusic)
		require.NoError(t, err)
		assert.Equal(t, []string{v2}, ids)
	})
}

func countDrafts(t *testing.T, s *VersionStore, stream Stream) []string {
	t.Helper()
	versions, err := s.GetAllVersionsWithData(context.Background(), "ad1", stream)
	require.NoError(t, err)
	var drafts []string
	for _, v := range versions {
		if v.Status == StatusDraft {
			drafts = append(drafts, v.ID)
		}
	}
	return drafts
}

func TestCreateVersionKeepsSingleDraft(t *testing.T) {
	forEachBackend(t, func(t *testing.T, kv KV) {
		ctx := context.Background()
		s := NewVersionStore(kv)

		for i := 0; i < 3; i++ {
			_, err := s.CreateVersion(ctx, "ad1", StreamVoices, voiceVersion("line"))
			require.NoError(t, err)
		}
		assert.Equal(t, []string{"v3"}, countDrafts(t, s, StreamVoices))

		// Frozen versions can be stored without touching the draft.
		frozen := voiceVersion("archived")
		frozen.Status = StatusFrozen
		_, err := s.CreateVersion(ctx, "ad1", StreamVoices, frozen)
		require.NoError(t, err)
		assert.Equal(t, []string{"v3"}, countDrafts(t, s, StreamVoices))

		active := voiceVersion("shortcut")
		active.Status = StatusActive
		_, err = s.CreateVersion(ctx, "ad1", StreamVoices, active)
		assert.ErrorIs(t, err, ErrInvalidStatus)

		// Concurrent creations also leave a single draft.
		var wg sync.WaitGroup
		for i := 0; i < 5; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := s.CreateVersion(ctx, "ad1", StreamSFX, Version{SoundEffects: []SoundEffect{{Description: "pop"}}})
				assert.NoError(t, err)
			}()
		}
		wg.Wait()
		assert.Len(t, countDrafts(t, s, StreamSFX), 1)
	})
}

func TestUpdateVersionStatusTransitions(t *testing.T) {
	forEachBackend(t, func(t *testing.T, kv KV) {
		ctx := context.Background()
		s := NewVersionStore(kv)

		v1, _, err := s.CreateDraft(ctx, "ad1", StreamVoices, voiceVersion("one"))
		require.NoError(t, err)
		v2, _, err := s.CreateDraft(ctx, "ad1", StreamVoices, voiceVersion("two"))
		require.NoError(t, err)

		draft := StatusDraft
		updated, err := s.UpdateVersion(ctx, "ad1", StreamVoices, v1, VersionPatch{Status: &draft})
		require.NoError(t, err)
		assert.Equal(t, StatusDraft, updated.Status)
		assert.Equal(t, []string{v1}, countDrafts(t, s, StreamVoices))

		active := StatusActive
		_, err = s.UpdateVersion(ctx, "ad1", StreamVoices, v2, VersionPatch{Status: &active})
		assert.ErrorIs(t, err, ErrInvalidStatus)
		current, err := s.GetActiveVersion(ctx, "ad1", StreamVoices)
		require.NoError(t, err)
		assert.Empty(t, current)

		bogus := Status("whatever")
		_, err = s.UpdateVersion(ctx, "ad1", StreamVoices, v2, VersionPatch{Status: &bogus})
		assert.ErrorIs(t, err, ErrInvalidStatus)

		// The active version keeps its status until another one is activated.
		require.NoError(t, s.SetActiveVersion(ctx, "ad1", StreamVoices, v2))
		frozen := StatusFrozen
		_, err = s.UpdateVersion(ctx, "ad1", StreamVoices, v2, VersionPatch{Status: &frozen})
		assert.ErrorIs(t, err, ErrInvalidStatus)

		v, err := s.GetVersion(ctx, "ad1", StreamVoices, v2)
		require.NoError(t, err)
		assert.Equal(t, StatusActive, v.Status)

		// Attaching audio to the active version is still allowed.
		url := "https://cdn/v2.mp3"
		tracks := []VoiceTrack{{VoiceID: "voice-1", Text: "two", GeneratedURL: url}}
		v, err = s.UpdateVersion(ctx, "ad1", StreamVoices, v2, VersionPatch{Status: &active, VoiceTracks: tracks})
		require.NoError(t, err)
		assert.Equal(t, url, v.VoiceTracks[0].GeneratedURL)
	})
}

func TestDeleteVersionWithoutActivePointer(t *testing.T) {
	forEachBackend(t, func(t *testing.T, kv KV) {
		ctx := context.Background()
		s := NewVersionStore(kv)

		err := s.DeleteVersion(ctx, "ad1", StreamSFX, "")
		assert.ErrorIs(t, err, ErrVersionNotFound)
		assert.NotErrorIs(t, err, ErrActiveVersion)

		id, err := s.CreateVersion(ctx, "ad1", StreamSFX, Version{SoundEffects: []SoundEffect{{Description: "ding"}}})
		require.NoError(t, err)
		assert.NoError(t, s.DeleteVersion(ctx, "ad1", StreamSFX, id))
	})
}
