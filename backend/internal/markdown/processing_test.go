package markdown

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRender(t *testing.T) {
	tp := New()

	tests := []struct {
		name     string
		input    string
		contains []string
		absent   []string
	}{
		{
			name:     "emphasis",
			input:    "the midterm is **on Friday**",
			contains: []string{"<strong>on Friday</strong>"},
		},
		{
			name:     "strikethrough",
			input:    "~~room 101~~ room 204",
			contains: []string{"<del>room 101</del>"},
		},
		{
			name:     "code block",
			input:    "```\nfmt.Println(1)\n```",
			contains: []string{"<pre><code>fmt.Println(1)"},
		},
		{
			name:     "raw html is not rendered",
			input:    "<script>alert(1)</script> hi",
			absent:   []string{"<script>"},
			contains: []string{"hi"},
		},
		{
			name:   "javascript links are dropped",
			input:  "[click](javascript:alert(1))",
			absent: []string{"javascript:"},
		},
		{
			name:     "links get nofollow",
			input:    "see https://campus.edu/calendar",
			contains: []string{`href="https://campus.edu/calendar"`, `rel="nofollow`},
		},
		{
			name:     "line breaks are kept",
			input:    "first\nsecond",
			contains: []string{"<br"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := tp.Render(tt.input)
			for _, want := range tt.contains {
				assert.Contains(t, out, want)
			}
			for _, bad := range tt.absent {
				assert.NotContains(t, out, bad)
			}
		})
	}
}

func TestRenderEmpty(t *testing.T) {
	assert.Equal(t, "", strings.TrimSpace(New().Render("")))
}
