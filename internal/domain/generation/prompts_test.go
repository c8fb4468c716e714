package generation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseQuestions(t *testing.T) {
	tests := []struct {
		name   string
		output string
		want   []string
	}{
		{
			name:   "plain lines",
			output: "What did you build in Go?\n\nHow do you handle outages?\n",
			want:   []string{"What did you build in Go?", "How do you handle outages?"},
		},
		{
			name:   "numbered and bulleted",
			output: "1. First question?\n2) Second question?\n- Third question?\n* Fourth question?\nQ5: Fifth question?",
			want:   []string{"First question?", "Second question?", "Third question?", "Fourth question?", "Fifth question?"},
		},
		{
			name:   "numbers inside text survive",
			output: "3.5 years of Kubernetes: what changed?",
			want:   []string{"3.5 years of Kubernetes: what changed?"},
		},
		{
			name:   "capped at seven",
			output: strings.Repeat("Why?\n", 10),
			want:   []string{"Why?", "Why?", "Why?", "Why?", "Why?", "Why?", "Why?"},
		},
		{
			name:   "empty",
			output: "  \n\n",
			want:   []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseQuestions(tt.output))
		})
	}
}

func TestCoverLetterPrompt_ExcerptsResume(t *testing.T) {
	resume := strings.Repeat("r", 600)
	prompt := coverLetterPrompt(resume, "Build APIs", "Acme")

	assert.Contains(t, prompt, strings.Repeat("r", 500)+"...")
	assert.NotContains(t, prompt, strings.Repeat("r", 501))
	assert.Contains(t, prompt, "Company: Acme")
	assert.Contains(t, prompt, "Build APIs")
}

func TestExcerpt_ShortTextUnchanged(t *testing.T) {
	assert.Equal(t, "short", excerpt("short", 500))
	assert.Equal(t, "héllo...", excerpt("héllo wörld", 5))
}
