package catalog

import (
	"testing"
	"time"

	"mental_models_hub/internal/domain/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestTruncateWords(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		limit    int
		expected string
	}{
		{name: "over limit", text: "one two three four five", limit: 3, expected: "one two three..."},
		{name: "under limit", text: "a b", limit: 5, expected: "a b"},
		{name: "exact limit", text: "a b c", limit: 3, expected: "a b c"},
		{name: "empty", text: "", limit: 3, expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, TruncateWords(tt.text, tt.limit))
		})
	}
}

func TestColorForSlug_Deterministic(t *testing.T) {
	palette := []string{"red", "green", "blue"}

	first := ColorForSlug("strategy", palette)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, ColorForSlug("strategy", palette))
	}
	assert.Contains(t, palette, first)

	assert.Equal(t, "", ColorForSlug("strategy", nil))
}

func TestAudioStatusLabel(t *testing.T) {
	assert.Equal(t, "Audio Ready", AudioStatusLabel(models.AudioReady))
	assert.Equal(t, "Audio Pending", AudioStatusLabel(models.AudioGenerating))
	assert.Equal(t, "Audio Pending", AudioStatusLabel(models.AudioIdle))
	assert.Equal(t, "Audio Pending", AudioStatusLabel(""))
}

func TestCategoryIndex_FallbackTiers(t *testing.T) {
	idx := NewCategoryIndex([]models.Category{
		{ID: uuid.New(), Slug: "business-economics", Name: "Business & Economics"},
		{ID: uuid.New(), Slug: "decision-making", Name: "Decision Making"},
	})

	tests := []struct {
		name     string
		stored   string
		expected string
	}{
		{name: "exact slug", stored: "business-economics", expected: "Business & Economics"},
		{name: "hyphen prefix", stored: "business", expected: "Business & Economics"},
		{name: "alphanumeric stripped", stored: "businesseconomics", expected: "Business & Economics"},
		{name: "stripped stored value", stored: "decision-making!", expected: "Decision Making"},
		{name: "unresolvable keeps raw value", stored: "mystery", expected: "mystery"},
		{name: "empty means general", stored: "", expected: "General"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, idx.Resolve(tt.stored))
		})
	}
}

func TestTagIndex_Resolve(t *testing.T) {
	id := uuid.New()
	idx := NewTagIndex([]models.Tag{{ID: id, Slug: "cognitive-bias", Name: "Cognitive Bias"}})

	assert.Equal(t, "Cognitive Bias", idx.Resolve(id.String()))
	assert.Equal(t, "Cognitive Bias", idx.Resolve("cognitive-bias"))
	assert.Equal(t, "free-text", idx.Resolve("free-text"))
}

func TestDecorateModels(t *testing.T) {
	category := "business-economics"
	cover := "https://cdn.example.com/cover.png"
	readTime := 7

	item := models.Model{
		ID:          uuid.New(),
		Title:       "Circle of Competence",
		Slug:        "circle-of-competence",
		Summary:     "one two three four five six seven eight nine ten eleven twelve thirteen fourteen fifteen sixteen seventeen eighteen nineteen twenty twentyone",
		Tags:        []string{"cognitive-bias", "unknown-tag"},
		Category:    &category,
		CoverURL:    &cover,
		ReadTime:    &readTime,
		Status:      models.StatusPublished,
		AudioStatus: models.AudioReady,
		CreatedAt:   time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}

	categories := NewCategoryIndex([]models.Category{{Slug: "business-economics", Name: "Business & Economics"}})
	tags := NewTagIndex([]models.Tag{{ID: uuid.New(), Slug: "cognitive-bias", Name: "Cognitive Bias"}})

	cards := DecorateModels([]models.Model{item}, categories, tags)
	assert.Len(t, cards, 1)

	card := cards[0]
	assert.Equal(t, "Business & Economics", card.CategoryName)
	assert.Equal(t, []string{"Cognitive Bias", "unknown-tag"}, card.TagNames)
	assert.Equal(t, "Audio Ready", card.AudioLabel)
	assert.Equal(t, "7 min read", card.ReadTime)
	assert.True(t, len(card.Summary) < len(item.Summary))
	assert.Contains(t, card.Summary, "...")
	assert.Equal(t, ColorForSlug(category, TagPalette), card.Color)
	assert.Equal(t, cover, card.CoverURL)
	assert.Equal(t, "2024-05-01T12:00:00Z", card.CreatedAt)
}

func TestDecorateModels_NilFieldDefaults(t *testing.T) {
	item := models.Model{
		ID:     uuid.New(),
		Title:  "Occam's Razor",
		Slug:   "occams-razor",
		Status: models.StatusDraft,
	}

	card := DecorateModels([]models.Model{item}, NewCategoryIndex(nil), NewTagIndex(nil))[0]

	assert.Equal(t, "General", card.CategoryName)
	assert.Equal(t, "—", card.ReadTime)
	assert.Equal(t, "Audio Pending", card.AudioLabel)
	assert.Equal(t, ColorForSlug("occams-razor", TagPalette), card.Color)
	assert.Empty(t, card.CoverURL)
}
