package jobs

import (
	"testing"

	"github.com/rezzy/server/internal/model"
	"github.com/stretchr/testify/assert"
)

func TestSearchQuery(t *testing.T) {
	tests := []struct {
		name        string
		description string
		want        string
	}{
		{"role in leading lines", "Acme\n  Staff Data Analyst  \nRemote", "staff data analyst"},
		{"first line fallback", "\nAcme Corp\nWe are hiring", "Acme Corp"},
		{"role after scanned lines", "a\nb\nc\nd\ne\nGo Developer", "a"},
		{"empty", "   ", defaultQuery},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, searchQuery(tt.description))
		})
	}
}

func TestExperienceLevel(t *testing.T) {
	assert.Equal(t, model.ExperienceSenior, experienceLevel("Principal Architect"))
	assert.Equal(t, model.ExperienceMid, experienceLevel("Requires 4+ years of Go"))
	assert.Equal(t, model.ExperienceEntry, experienceLevel("Junior position"))
	assert.Equal(t, model.ExperienceMid, experienceLevel("Backend work"))
}
