package models

import "time"

// Announcement is either global (IsGlobal, no class) or scoped to a class.
type Announcement struct {
	ID        string    `db:"id" json:"id"`
	Title     string    `db:"title" json:"title"`
	Content   string    `db:"content" json:"content"`
	ClassID   *string   `db:"class_id" json:"class_id,omitempty"`
	IsGlobal  bool      `db:"is_global" json:"is_global"`
	Important bool      `db:"important" json:"important"`
	AuthorID  string    `db:"author_id" json:"author_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// AnnouncementDetail joins in the author's name for read responses.
type AnnouncementDetail struct {
	Announcement
	AuthorName string `db:"author_name" json:"author_name"`
}

// CreateAnnouncementRequest holds the payload for creating an announcement.
// ClassID is set from the route for class-scoped announcements.
type CreateAnnouncementRequest struct {
	Title     string `json:"title" validate:"required"`
	Content   string `json:"content" validate:"required"`
	Important bool   `json:"important"`
}

// UpdateAnnouncementRequest holds a partial update; nil fields keep prior
// values.
type UpdateAnnouncementRequest struct {
	Title     *string `json:"title"`
	Content   *string `json:"content"`
	Important *bool   `json:"important"`
}
