// Package catalogue is the voice catalogue collaborator the agent searches
// before writing voice drafts.
package catalogue

import (
	"context"
	"strings"
)

// Voice is one entry of the catalogue, already normalized by the service.
type Voice struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Provider    string `json:"provider"`
	Language    string `json:"language"`
	Gender      string `json:"gender,omitempty"`
	Accent      string `json:"accent,omitempty"`
	Age         string `json:"age,omitempty"`
	Style       string `json:"style,omitempty"`
	Personality string `json:"personality,omitempty"`
	Description string `json:"description,omitempty"`
	PreviewURL  string `json:"previewUrl,omitempty"`
}

// Query filters a search. Empty fields match everything.
type Query struct {
	Provider string `json:"provider,omitempty"`
	Language string `json:"language,omitempty"`
	Gender   string `json:"gender,omitempty"`
	Accent   string `json:"accent,omitempty"`
}

// Catalogue searches voices. An empty result is not an error.
type Catalogue interface {
	Search(ctx context.Context, q Query) ([]Voice, error)
}

// matchLanguage accepts "en" for "en-US" and the reverse.
func matchLanguage(want, have string) bool {
	if want == "" {
		return true
	}
	want, have = strings.ToLower(want), strings.ToLower(have)
	if want == have {
		return true
	}
	return strings.HasPrefix(have, want+"-") || strings.HasPrefix(want, have+"-")
}

func matchExact(want, have string) bool {
	return want == "" || want == "any" || strings.EqualFold(want, have)
}
