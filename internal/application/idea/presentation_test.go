package idea

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	wfmodel "bizprompt-api/internal/workflow/model"
)

func TestClassifyDifficulty(t *testing.T) {
	tests := []struct {
		in   string
		want DifficultyClass
		tone Tone
	}{
		{"BEGINNER", DifficultyBeginner, ToneGreen},
		{"beginner", DifficultyBeginner, ToneGreen},
		{"Beginner", DifficultyBeginner, ToneGreen},
		{"intermediate", DifficultyIntermediate, ToneYellow},
		{"AdVaNcEd", DifficultyAdvanced, ToneRed},
		{"Expert", DifficultyUnknown, ToneGray},
		{"", DifficultyUnknown, ToneGray},
		{"Beginner-friendly", DifficultyUnknown, ToneGray},
	}
	for _, tt := range tests {
		got := ClassifyDifficulty(tt.in)
		assert.Equal(t, tt.want, got, tt.in)
		assert.Equal(t, tt.tone, got.Tone(), tt.in)
	}
}

func TestIsReasonableMVPTime(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"2-4 weeks", true},
		{"6 weeks", true},
		{"12 weeks", true},
		{"1 week", true},
		{"About 8 - 10 Weeks", true},
		{"10-14 weeks", false},
		{"13 weeks", false},
		{"3 months", false},
		{"6 weeks to 2 months", false},
		{"1 year", false},
		{"", false},
		{"a few weeks", false},
		{"ASAP", false},
		{"99999999999999999999 weeks", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, IsReasonableMVPTime(tt.in), tt.in)
	}
}

func sampleIdea() wfmodel.GeneratedIdea {
	return wfmodel.GeneratedIdea{
		Name:         "PetPal",
		Description:  "Dog walking marketplace.",
		Monetization: "15% commission",
		ToolsNeeded:  []string{"React Native", "Stripe", "Firebase"},
		TimeToMVP:    "6-8 weeks",
		Difficulty:   "Intermediate",
		Category:     "Marketplace",
	}
}

func TestExportText(t *testing.T) {
	want := "Business Idea: PetPal\n\n" +
		"Description: Dog walking marketplace.\n\n" +
		"Monetization: 15% commission\n\n" +
		"Tools Needed: React Native, Stripe, Firebase\n\n" +
		"Time to MVP: 6-8 weeks\n\n" +
		"Difficulty: Intermediate\n\n" +
		`Generated with BizPrompt from prompt: "dog walkers"`

	first := ExportText(sampleIdea(), "dog walkers")
	assert.Equal(t, want, first)
	assert.Equal(t, first, ExportText(sampleIdea(), "dog walkers"))
}

func TestExportTextWithMissingFields(t *testing.T) {
	got := ExportText(wfmodel.GeneratedIdea{Name: "Solo"}, "p")
	assert.Contains(t, got, "Business Idea: Solo\n\nDescription: \n\n")
	assert.Contains(t, got, "Tools Needed: \n\n")
}

func TestNewView(t *testing.T) {
	ts := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	v := NewView(wfmodel.GenerationResult{Prompt: "dog walkers", Idea: sampleIdea(), Timestamp: ts})

	assert.Equal(t, DifficultyIntermediate, v.DifficultyClass)
	assert.Equal(t, ToneYellow, v.DifficultyTone)
	assert.Equal(t, "6-8 weeks", v.TimeToMVP)
	assert.Equal(t, "Marketplace", v.Category)
	assert.Equal(t, ExportText(sampleIdea(), "dog walkers"), v.ExportText)
	assert.Equal(t, ts, v.Timestamp)

	idea := sampleIdea()
	idea.TimeToMVP = "4 months"
	idea.Difficulty = "Expert"
	idea.Category = "  "
	idea.ToolsNeeded = nil
	v = NewView(wfmodel.GenerationResult{Prompt: "x", Idea: idea})
	assert.Empty(t, v.TimeToMVP)
	assert.Empty(t, v.Category)
	assert.Equal(t, DifficultyUnknown, v.DifficultyClass)
	assert.Equal(t, ToneGray, v.DifficultyTone)
	assert.Equal(t, "Expert", v.Difficulty)
	assert.NotNil(t, v.ToolsNeeded)
}
