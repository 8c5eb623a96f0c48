package catalog

import (
	"fmt"
	"strings"
	"time"

	"mental_models_hub/internal/domain/models"
)

const summaryWordLimit = 20

// TagPalette is the fixed set of display color classes. A category maps to
// the same entry on every render.
var TagPalette = []string{
	"emerald",
	"sky",
	"purple",
	"rose",
	"amber",
}

// ModelCard is the decorated, render-ready form of one catalog row.
type ModelCard struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	Slug         string   `json:"slug"`
	Summary      string   `json:"summary"`
	CategorySlug string   `json:"category_slug,omitempty"`
	CategoryName string   `json:"category_name"`
	TagNames     []string `json:"tag_names"`
	CoverURL     string   `json:"cover_url,omitempty"`
	AudioURL     string   `json:"audio_url,omitempty"`
	AudioLabel   string   `json:"audio_label"`
	ReadTime     string   `json:"read_time"`
	Color        string   `json:"color"`
	Status       string   `json:"status"`
	CreatedAt    string   `json:"created_at"`
}

// TruncateWords cuts text at a word boundary, appending "..." only when
// something was actually dropped.
func TruncateWords(text string, limit int) string {
	words := strings.Fields(text)
	if len(words) <= limit {
		return text
	}
	return strings.Join(words[:limit], " ") + "..."
}

// ColorForSlug picks a palette entry by summing character codes modulo the
// palette length. Pure and stable for a given input.
func ColorForSlug(slug string, palette []string) string {
	if len(palette) == 0 {
		return ""
	}
	sum := 0
	for _, r := range slug {
		sum += int(r)
	}
	return palette[sum%len(palette)]
}

// AudioStatusLabel maps the stored audio status to its human label. Only
// "ready" counts; everything else, including the empty value, is pending.
func AudioStatusLabel(status models.AudioStatus) string {
	if status == models.AudioReady {
		return "Audio Ready"
	}
	return "Audio Pending"
}

func stripNonAlnum(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, s)
}

// CategoryIndex resolves the category slug variants stored on models to
// display names. Stored values historically used inconsistent slug forms,
// so lookup falls through exact slug, the first hyphen-delimited segment,
// and the alphanumeric-stripped slug before giving up.
type CategoryIndex struct {
	byKey map[string]string
}

func NewCategoryIndex(categories []models.Category) CategoryIndex {
	idx := CategoryIndex{byKey: make(map[string]string, len(categories)*3)}
	for _, c := range categories {
		name := c.Name
		if name == "" {
			name = c.Slug
		}
		idx.byKey[c.Slug] = name
		if primary, _, found := strings.Cut(c.Slug, "-"); found && primary != "" {
			if _, ok := idx.byKey[primary]; !ok {
				idx.byKey[primary] = name
			}
		}
		if normalized := stripNonAlnum(c.Slug); normalized != "" {
			if _, ok := idx.byKey[normalized]; !ok {
				idx.byKey[normalized] = name
			}
		}
	}
	return idx
}

// Resolve returns the display name for a stored category value, falling
// back to the raw value when no tier matches. An unresolvable reference is
// not an error.
func (idx CategoryIndex) Resolve(stored string) string {
	if stored == "" {
		return "General"
	}
	if name, ok := idx.byKey[stored]; ok {
		return name
	}
	if name, ok := idx.byKey[stripNonAlnum(stored)]; ok {
		return name
	}
	return stored
}

// TagIndex resolves tag identifiers (ids or slugs, the list is mixed) to
// names, falling back to the raw value.
type TagIndex struct {
	byKey map[string]string
}

func NewTagIndex(tags []models.Tag) TagIndex {
	idx := TagIndex{byKey: make(map[string]string, len(tags)*2)}
	for _, t := range tags {
		name := t.Name
		if name == "" {
			name = t.ID.String()
		}
		idx.byKey[t.ID.String()] = name
		if t.Slug != "" {
			idx.byKey[t.Slug] = name
		}
	}
	return idx
}

func (idx TagIndex) Resolve(stored string) string {
	if name, ok := idx.byKey[stored]; ok {
		return name
	}
	return stored
}

// DecorateModels joins raw rows with the taxonomy indexes into display
// records.
func DecorateModels(items []models.Model, categories CategoryIndex, tags TagIndex) []ModelCard {
	cards := make([]ModelCard, 0, len(items))
	for _, m := range items {
		cards = append(cards, decorateModel(m, categories, tags))
	}
	return cards
}

func decorateModel(m models.Model, categories CategoryIndex, tags TagIndex) ModelCard {
	card := ModelCard{
		ID:         m.ID.String(),
		Title:      m.Title,
		Slug:       m.Slug,
		Summary:    TruncateWords(m.Summary, summaryWordLimit),
		AudioLabel: AudioStatusLabel(m.AudioStatus),
		ReadTime:   readTimeLabel(m.ReadTime),
		Status:     string(m.Status),
		CreatedAt:  m.CreatedAt.UTC().Format(time.RFC3339),
	}

	colorKey := m.Slug
	if m.Category != nil && *m.Category != "" {
		card.CategorySlug = *m.Category
		colorKey = *m.Category
	}
	card.CategoryName = categories.Resolve(card.CategorySlug)
	card.Color = ColorForSlug(colorKey, TagPalette)

	card.TagNames = make([]string, 0, len(m.Tags))
	for _, t := range m.Tags {
		card.TagNames = append(card.TagNames, tags.Resolve(t))
	}

	if m.CoverURL != nil {
		card.CoverURL = *m.CoverURL
	}
	if m.AudioURL != nil {
		card.AudioURL = *m.AudioURL
	}
	return card
}

func readTimeLabel(minutes *int) string {
	if minutes == nil || *minutes <= 0 {
		return "—"
	}
	return fmt.Sprintf("%d min read", *minutes)
}
