package catalogue

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/sahilm/fuzzy"
)

// Static is an in-memory catalogue, typically loaded from a JSON file.
// Provider, language and gender must match; the accent filter is fuzzy so
// "british" finds "British (RP)".
type Static struct {
	voices []Voice
}

// NewStatic wraps voices.
func NewStatic(voices []Voice) *Static {
	return &Static{voices: voices}
}

// LoadStatic reads a JSON array of voices from path.
func LoadStatic(path string) (*Static, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read voice catalogue: %w", err)
	}
	var voices []Voice
	if err := json.Unmarshal(data, &voices); err != nil {
		return nil, fmt.Errorf("failed to parse voice catalogue: %w", err)
	}
	return NewStatic(voices), nil
}

func (s *Static) Search(_ context.Context, q Query) ([]Voice, error) {
	var candidates []Voice
	for _, v := range s.voices {
		if matchExact(q.Provider, v.Provider) && matchLanguage(q.Language, v.Language) && matchExact(q.Gender, v.Gender) {
			candidates = append(candidates, v)
		}
	}
	if q.Accent == "" || len(candidates) == 0 {
		return candidates, nil
	}

	accents := make([]string, len(candidates))
	for i, v := range candidates {
		accents[i] = v.Accent
	}
	matches := fuzzy.Find(q.Accent, accents)

	out := make([]Voice, 0, len(matches))
	for _, m := range matches {
		out = append(out, candidates[m.Index])
	}
	return out, nil
}
