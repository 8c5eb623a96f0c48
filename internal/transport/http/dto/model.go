package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateModelRequest struct {
	Title       string      `json:"title" validate:"required"`
	Slug        string      `json:"slug"`
	Summary     string      `json:"summary" validate:"required"`
	Body        string      `json:"body" validate:"required"`
	Tags        []string    `json:"tags"`
	Category    *string     `json:"category"`
	CoverURL    *string     `json:"cover_url"`
	Status      string      `json:"status"`
	CategoryIDs []uuid.UUID `json:"category_ids"`
	TagIDs      []uuid.UUID `json:"tag_ids"`
}

type UpdateModelRequest struct {
	Title       *string     `json:"title"`
	Slug        *string     `json:"slug"`
	Summary     *string     `json:"summary"`
	Body        *string     `json:"body"`
	Tags        []string    `json:"tags"`
	Category    *string     `json:"category"`
	CoverURL    *string     `json:"cover_url"`
	Status      *string     `json:"status"`
	CategoryIDs []uuid.UUID `json:"category_ids"`
	TagIDs      []uuid.UUID `json:"tag_ids"`
}

type ModelResponse struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Slug        string    `json:"slug"`
	Summary     string    `json:"summary"`
	Body        string    `json:"body"`
	Tags        []string  `json:"tags"`
	Category    *string   `json:"category,omitempty"`
	CoverURL    *string   `json:"cover_url,omitempty"`
	AudioURL    *string   `json:"audio_url,omitempty"`
	ReadTime    *int      `json:"read_time,omitempty"`
	Status      string    `json:"status"`
	AudioStatus string    `json:"audio_status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
