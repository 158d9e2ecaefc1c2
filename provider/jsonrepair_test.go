package provider

import (
	"encoding/json"
	"testing"
)

func TestRepairJSON(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   map[string]any
		wantOK bool
	}{
		{
			name:   "valid input untouched",
			input:  `{"voiceId":"v1","text":"hi"}`,
			want:   map[string]any{"voiceId": "v1", "text": "hi"},
			wantOK: true,
		},
		{
			name:   "single quotes and trailing comma",
			input:  `{"voiceId": 'v1', "text": "hi",}`,
			want:   map[string]any{"voiceId": "v1", "text": "hi"},
			wantOK: true,
		},
		{
			name:   "bare key",
			input:  `{voiceId: "v1"}`,
			want:   map[string]any{"voiceId": "v1"},
			wantOK: true,
		},
		{
			name:   "raw newline inside string",
			input:  "{\"text\": \"line one\nline two\"}",
			want:   map[string]any{"text": "line one\nline two"},
			wantOK: true,
		},
		{
			name:   "double quote inside single-quoted string",
			input:  `{'text': 'say "hello"'}`,
			want:   map[string]any{"text": `say "hello"`},
			wantOK: true,
		},
		{
			name:   "escaped apostrophe",
			input:  `{'text': 'it\'s here'}`,
			want:   map[string]any{"text": "it's here"},
			wantOK: true,
		},
		{
			name:   "nested trailing commas and literals",
			input:  `{tracks: [{voiceId: 'a', loud: true,},], count: 2,}`,
			want:   map[string]any{"tracks": []any{map[string]any{"voiceId": "a", "loud": true}}, "count": float64(2)},
			wantOK: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := RepairJSON(tt.input)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v (output %q)", ok, tt.wantOK, got)
			}

			var decoded map[string]any
			if err := json.Unmarshal([]byte(got), &decoded); err != nil {
				t.Fatalf("repaired output does not parse: %v (%q)", err, got)
			}
			gotJSON, _ := json.Marshal(decoded)
			wantJSON, _ := json.Marshal(tt.want)
			if string(gotJSON) != string(wantJSON) {
				t.Errorf("got %s, want %s", gotJSON, wantJSON)
			}
		})
	}
}

func TestRepairJSONIrreparable(t *testing.T) {
	inputs := []string{
		`{"voiceId": `,
		`not json at all`,
		`{"a": [1, 2}`,
	}
	for _, in := range inputs {
		got, ok := RepairJSON(in)
		if ok {
			t.Errorf("RepairJSON(%q) reported success with %q", in, got)
		}
		if got != in {
			t.Errorf("RepairJSON(%q) = %q, want original string", in, got)
		}
	}
}
