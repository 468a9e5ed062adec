package prompts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		key     string
		want    string
		wantErr string
	}{
		{name: "job posting", file: "parsing.json", key: "extract-job-posting", want: "{{.JobText}}"},
		{name: "explanation", file: "matching.json", key: "explain-match", want: "{{.RequiredSkills}}"},
		{name: "missing file", file: "nonexistent.json", key: "x", wantErr: "failed to read prompt file"},
		{name: "missing key", file: "parsing.json", key: "nonexistent", wantErr: `prompt "nonexistent" not found in parsing.json`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Get(tt.file, tt.key)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Contains(t, got, tt.want)
		})
	}
}

func TestKeys(t *testing.T) {
	keys, err := Keys("parsing.json")
	require.NoError(t, err)
	assert.Equal(t, []string{"extract-job-posting"}, keys)

	_, err = Keys("nonexistent.json")
	assert.Error(t, err)
}

func TestLoad_Cached(t *testing.T) {
	first, err := load("matching.json")
	require.NoError(t, err)
	second, err := load("matching.json")
	require.NoError(t, err)
	assert.Equal(t, first, second)

	loadedMu.RLock()
	_, ok := loaded["matching.json"]
	loadedMu.RUnlock()
	assert.True(t, ok)
}

func TestPlaceholders(t *testing.T) {
	assert.Equal(t, []string{"A", "B"}, Placeholders("{{.A}} and {{.B}} then {{.A}}"))
	assert.Empty(t, Placeholders("no fields {{ .Spaced }}"))
}

func TestRender(t *testing.T) {
	out, err := Render("parsing.json", "extract-job-posting", map[string]string{
		"JobText": "Go developer wanted",
		"Unused":  "ignored",
	})
	require.NoError(t, err)
	assert.Contains(t, out, "Go developer wanted")
	assert.NotContains(t, out, "{{.")
}

func TestRender_MissingValue(t *testing.T) {
	_, err := Render("matching.json", "explain-match", map[string]string{"JobTitle": "Engineer"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "prompt matching.json/explain-match: no value for")
	assert.NotContains(t, err.Error(), "JobTitle")
}

func TestRender_EveryTemplateFieldIsSupplied(t *testing.T) {
	tmpl, err := Get("matching.json", "explain-match")
	require.NoError(t, err)

	data := map[string]string{}
	for _, name := range Placeholders(tmpl) {
		data[name] = "x"
	}
	out, err := Render("matching.json", "explain-match", data)
	require.NoError(t, err)
	assert.NotContains(t, out, "{{.")
}
