package ingestion

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanText_PreserveMarkdownHeadings(t *testing.T) {
	input := "# Title\n## Subtitle\nContent here"
	result := CleanText(input)

	assert.Contains(t, result, "# Title")
	assert.Contains(t, result, "## Subtitle")
	assert.Contains(t, result, "Content here")
}

func TestCleanText_NormalizeBullets(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "dash kept", input: "- Built APIs", want: "- Built APIs"},
		{name: "asterisk", input: "* Built APIs", want: "- Built APIs"},
		{name: "round bullet", input: "• Built APIs", want: "- Built APIs"},
		{name: "middle dot", input: "· Built APIs", want: "- Built APIs"},
		{name: "square bullet", input: "▪ Built APIs", want: "- Built APIs"},
		{name: "black circle", input: "● Built APIs", want: "- Built APIs"},
		{name: "en dash", input: "– Built APIs", want: "- Built APIs"},
		{name: "indent kept", input: "Intro\n  • Nested   item", want: "Intro\n  - Nested item"},
		{name: "mid-line en dash untouched", input: "Acme Corp 2019 – 2021", want: "Acme Corp 2019 – 2021"},
		{name: "no space after glyph", input: "•Built", want: "•Built"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanText(tt.input))
		})
	}
}

func TestCleanText_NormalizeWhitespace(t *testing.T) {
	input := "Line    with \t multiple  spaces"
	result := CleanText(input)

	assert.Equal(t, "Line with multiple spaces", result)
}

func TestCleanText_RemoveExcessiveBlankLines(t *testing.T) {
	input := "Line 1\n\n\n\n\nLine 2"
	result := CleanText(input)

	assert.Equal(t, "Line 1\n\nLine 2", result)
}

func TestCleanText_NormalizeLineEndings(t *testing.T) {
	input := "Line 1\r\nLine 2\rLine 3\nLine 4"
	result := CleanText(input)

	assert.Equal(t, "Line 1\nLine 2\nLine 3\nLine 4", result)
}

func TestCleanText_StripsZeroWidth(t *testing.T) {
	input := "\ufeffJane\u200b Doe\nsoft\u00adware"
	assert.Equal(t, "Jane Doe\nsoftware", CleanText(input))
}

func TestCleanText_DeterministicOutput(t *testing.T) {
	input := "Test content   with   spaces\n\n\nMultiple   blank   lines"
	assert.Equal(t, CleanText(input), CleanText(input))
}

func TestCleanText_EmptyInput(t *testing.T) {
	assert.Empty(t, CleanText(""))
	assert.Empty(t, CleanText("   \n  \n  "))
}

func TestCleanText_SpecialCharacters(t *testing.T) {
	input := "Test with émojis 🚀 and spéciàl chàracters"
	result := CleanText(input)

	assert.Contains(t, result, "émojis")
	assert.Contains(t, result, "🚀")
	assert.Contains(t, result, "spéciàl chàracters")
}

func TestCleanText_PreserveIndentation(t *testing.T) {
	input := "Header\n    Indented   line\n  Less indented"
	result := CleanText(input)

	assert.Equal(t, "Header\n    Indented line\n  Less indented", result)
}

func TestCleanText_ResumeLayout(t *testing.T) {
	input := "JANE DOE\r\n\r\nEXPERIENCE\r\n\r\n\r\n\r\nSenior Engineer,   Acme   Jan 2020 – Present\r\n•  Led the   payments team\r\n• Shipped Kafka ingestion\r\n"
	want := "JANE DOE\n\nEXPERIENCE\n\nSenior Engineer, Acme Jan 2020 – Present\n- Led the payments team\n- Shipped Kafka ingestion"

	assert.Equal(t, want, CleanText(input))
}
