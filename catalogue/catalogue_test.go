package catalogue

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleVoices() []Voice {
	return []Voice{
		{ID: "el-1", Name: "Ava", Provider: "elevenlabs", Language: "en-US", Gender: "female", Accent: "American"},
		{ID: "el-2", Name: "Oliver", Provider: "elevenlabs", Language: "en-GB", Gender: "male", Accent: "British (RP)"},
		{ID: "lv-1", Name: "Sofia", Provider: "lovo", Language: "es-ES", Gender: "female", Accent: "Castilian"},
	}
}

func TestStaticSearch(t *testing.T) {
	cat := NewStatic(sampleVoices())
	ctx := context.Background()

	tests := []struct {
		name  string
		query Query
		want  []string
	}{
		{"language prefix", Query{Language: "en"}, []string{"el-1", "el-2"}},
		{"provider and gender", Query{Provider: "elevenlabs", Gender: "male"}, []string{"el-2"}},
		{"any provider", Query{Provider: "any", Language: "es"}, []string{"lv-1"}},
		{"fuzzy accent", Query{Language: "en", Accent: "british"}, []string{"el-2"}},
		{"no match", Query{Language: "fr"}, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			voices, err := cat.Search(ctx, tt.query)
			require.NoError(t, err)
			var ids []string
			for _, v := range voices {
				ids = append(ids, v.ID)
			}
			assert.Equal(t, tt.want, ids)
		})
	}
}

func TestLoadStatic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "voices.json")
	data, err := json.Marshal(sampleVoices())
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0600))

	cat, err := LoadStatic(path)
	require.NoError(t, err)
	voices, err := cat.Search(context.Background(), Query{})
	require.NoError(t, err)
	assert.Len(t, voices, 3)

	_, err = LoadStatic(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestHTTPCatalogue(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/voices", r.URL.Path)
		assert.Equal(t, "en", r.URL.Query().Get("language"))
		assert.Empty(t, r.URL.Query().Get("provider"))
		_ = json.NewEncoder(w).Encode(voicesResponse{Voices: sampleVoices()[:1]})
	}))
	defer srv.Close()

	cat, err := NewHTTPCatalogue(srv.URL+"/", time.Second)
	require.NoError(t, err)

	voices, err := cat.Search(context.Background(), Query{Provider: "any", Language: "en"})
	require.NoError(t, err)
	require.Len(t, voices, 1)
	assert.Equal(t, "Ava", voices[0].Name)
}

func TestHTTPCatalogueErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer srv.Close()

	cat, err := NewHTTPCatalogue(srv.URL, 0)
	require.NoError(t, err)
	_, err = cat.Search(context.Background(), Query{})
	assert.ErrorContains(t, err, "502")

	_, err = NewHTTPCatalogue("not a url", 0)
	assert.Error(t, err)
}
