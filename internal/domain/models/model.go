package models

import (
	"time"

	"github.com/google/uuid"
)

type ModelStatus string

const (
	StatusDraft     ModelStatus = "draft"
	StatusPublished ModelStatus = "published"
)

type AudioStatus string

const (
	AudioIdle       AudioStatus = "idle"
	AudioGenerating AudioStatus = "generating"
	AudioReady      AudioStatus = "ready"
)

// Model is a single mental-model article. Category holds a category slug
// (denormalized, resolved to a display name at read time) and Tags holds a
// mix of tag ids and free-text names inherited from the create flow.
type Model struct {
	ID          uuid.UUID   `db:"id" json:"id"`
	Title       string      `db:"title" json:"title"`
	Slug        string      `db:"slug" json:"slug"`
	Summary     string      `db:"summary" json:"summary,omitempty"`
	Body        string      `db:"body" json:"body,omitempty"`
	Tags        []string    `db:"tags" json:"tags"`
	Category    *string     `db:"category" json:"category,omitempty"`
	CoverURL    *string     `db:"cover_url" json:"cover_url,omitempty"`
	AudioURL    *string     `db:"audio_url" json:"audio_url,omitempty"`
	ReadTime    *int        `db:"read_time" json:"read_time,omitempty"`
	Status      ModelStatus `db:"status" json:"status"`
	AudioStatus AudioStatus `db:"audio_status" json:"audio_status"`
	CreatedAt   time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time   `db:"updated_at" json:"updated_at"`
}

// AudioAsset is one narration artifact for a model. At most one asset per
// model is primary.
type AudioAsset struct {
	ID        uuid.UUID   `db:"id" json:"id"`
	ModelID   uuid.UUID   `db:"model_id" json:"model_id"`
	AudioURL  string      `db:"audio_url" json:"audio_url"`
	Status    AudioStatus `db:"status" json:"status"`
	IsPrimary bool        `db:"is_primary" json:"is_primary"`
	CreatedAt time.Time   `db:"created_at" json:"created_at"`
}
