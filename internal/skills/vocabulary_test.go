package skills

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFindInText(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected []string
	}{
		{
			name:     "ordered by first appearance",
			text:     "Built services in Go and Python, deployed with Kubernetes.",
			expected: []string{"Go", "Python", "Kubernetes"},
		},
		{
			name:     "ambiguous words need a capital",
			text:     "Ready to go the extra mile in spring and rest easy.",
			expected: nil,
		},
		{
			name:     "joined tokens are not split",
			text:     "A go-getter who shipped node.js apps",
			expected: []string{"Node.js"},
		},
		{
			name:     "longest alias wins",
			text:     "Mobile apps with React Native and a React web client",
			expected: []string{"React Native", "React"},
		},
		{
			name:     "punctuation inside names",
			text:     "Set up CI/CD for C++ and C# services on AWS",
			expected: []string{"CI/CD", "C++", "C#", "AWS"},
		},
		{
			name:     "repeated mentions reported once",
			text:     "Docker, docker compose and more Docker",
			expected: []string{"Docker"},
		},
		{
			name:     "empty",
			text:     "   ",
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FindInText(tt.text)
			if tt.expected == nil {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tt.expected, got)
		})
	}
}
