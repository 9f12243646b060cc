package tags

import (
	"time"

	"github.com/google/uuid"
)

// Tag represents a discovery tag attached to events (e.g. "Music", "Comedy").
type Tag struct {
	ID          uuid.UUID  `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	Name        string     `json:"name" gorm:"uniqueIndex;not null;size:100"`
	Slug        string     `json:"slug" gorm:"uniqueIndex;not null;size:100"`
	Description string     `json:"description" gorm:"size:500"`
	Color       string     `json:"color" gorm:"size:7;default:'#6B7280'"` // Hex color code
	IsActive    bool       `json:"is_active" gorm:"default:true"`
	CreatedBy   uuid.UUID  `json:"created_by" gorm:"type:uuid;not null"`
	UpdatedBy   *uuid.UUID `json:"updated_by" gorm:"type:uuid"`
	CreatedAt   time.Time  `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt   time.Time  `json:"updated_at" gorm:"autoUpdateTime"`
}

func (Tag) TableName() string {
	return "tags"
}

func (t *Tag) ToResponse() TagResponse {
	return TagResponse{
		ID:          t.ID.String(),
		Name:        t.Name,
		Slug:        t.Slug,
		Description: t.Description,
		Color:       t.Color,
		IsActive:    t.IsActive,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

// TagResponse is the API shape for a tag.
type TagResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
	Color       string    `json:"color"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CreateTagRequest is the admin payload for creating a tag.
type CreateTagRequest struct {
	Name        string `json:"name" binding:"required,min=2,max=100"`
	Description string `json:"description" binding:"max=500"`
	Color       string `json:"color" binding:"omitempty,len=7"`
}

// UpdateTagRequest is the admin payload for updating a tag.
type UpdateTagRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=2,max=100"`
	Description *string `json:"description" binding:"omitempty,max=500"`
	Color       *string `json:"color" binding:"omitempty,len=7"`
	IsActive    *bool   `json:"is_active"`
}
