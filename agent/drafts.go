package agent

import (
	"adcraft/storage"
	"adcraft/tools"
)

// Drafts holds the version ids created during one run, per stream.
type Drafts struct {
	Voices string `json:"voices,omitempty"`
	Music  string `json:"music,omitempty"`
	SFX    string `json:"sfx,omitempty"`
}

func (d *Drafts) ptr(stream storage.Stream) *string {
	switch stream {
	case storage.StreamVoices:
		return &d.Voices
	case storage.StreamMusic:
		return &d.Music
	case storage.StreamSFX:
		return &d.SFX
	}
	return nil
}

// Set records versionID as the draft of stream.
func (d *Drafts) Set(stream storage.Stream, versionID string) {
	if p := d.ptr(stream); p != nil {
		*p = versionID
	}
}

// Get returns the draft of stream, or "".
func (d Drafts) Get(stream storage.Stream) string {
	if p := d.ptr(stream); p != nil {
		return *p
	}
	return ""
}

// Has reports whether stream already has a draft in this run.
func (d Drafts) Has(stream storage.Stream) bool {
	return d.Get(stream) != ""
}

// Complete reports whether every stream has a draft.
func (d Drafts) Complete() bool {
	return len(d.Missing()) == 0
}

// Missing returns the tools still needed to complete the ad, in stream order.
func (d Drafts) Missing() []string {
	var missing []string
	for _, stream := range storage.Streams {
		if !d.Has(stream) {
			missing = append(missing, tools.DraftTool(stream))
		}
	}
	return missing
}
