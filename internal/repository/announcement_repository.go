package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/classroom-api/internal/models"
)

// AnnouncementRepository manages persistence for announcements.
type AnnouncementRepository struct {
	db *sqlx.DB
}

// NewAnnouncementRepository constructs the repository.
func NewAnnouncementRepository(db *sqlx.DB) *AnnouncementRepository {
	return &AnnouncementRepository{db: db}
}

const announcementColumns = `a.id, a.title, a.content, a.class_id, a.is_global, a.important, a.author_id, a.created_at, a.updated_at, u.full_name AS author_name`

// ListGlobal returns the global announcement pool, newest first.
func (r *AnnouncementRepository) ListGlobal(ctx context.Context) ([]models.AnnouncementDetail, error) {
	query := fmt.Sprintf(`SELECT %s FROM announcements a JOIN users u ON u.id = a.author_id
        WHERE a.is_global = TRUE ORDER BY a.created_at DESC`, announcementColumns)
	var announcements []models.AnnouncementDetail
	if err := r.db.SelectContext(ctx, &announcements, query); err != nil {
		return nil, fmt.Errorf("list global announcements: %w", err)
	}
	return announcements, nil
}

// ListByClass returns the class-scoped pool, newest first.
func (r *AnnouncementRepository) ListByClass(ctx context.Context, classID string) ([]models.AnnouncementDetail, error) {
	query := fmt.Sprintf(`SELECT %s FROM announcements a JOIN users u ON u.id = a.author_id
        WHERE a.class_id = $1 ORDER BY a.created_at DESC`, announcementColumns)
	var announcements []models.AnnouncementDetail
	if err := r.db.SelectContext(ctx, &announcements, query, classID); err != nil {
		return nil, fmt.Errorf("list class announcements: %w", err)
	}
	return announcements, nil
}

// FindByID returns a single announcement.
func (r *AnnouncementRepository) FindByID(ctx context.Context, id string) (*models.Announcement, error) {
	const query = `SELECT id, title, content, class_id, is_global, important, author_id, created_at, updated_at FROM announcements WHERE id = $1`
	var announcement models.Announcement
	if err := r.db.GetContext(ctx, &announcement, query, id); err != nil {
		return nil, err
	}
	return &announcement, nil
}

// Create persists an announcement.
func (r *AnnouncementRepository) Create(ctx context.Context, announcement *models.Announcement) error {
	if announcement.ID == "" {
		announcement.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if announcement.CreatedAt.IsZero() {
		announcement.CreatedAt = now
	}
	announcement.UpdatedAt = now

	const query = `INSERT INTO announcements (id, title, content, class_id, is_global, important, author_id, created_at, updated_at)
        VALUES (:id, :title, :content, :class_id, :is_global, :important, :author_id, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, announcement); err != nil {
		return fmt.Errorf("create announcement: %w", err)
	}
	return nil
}

// Update modifies an announcement's content fields.
func (r *AnnouncementRepository) Update(ctx context.Context, announcement *models.Announcement) error {
	announcement.UpdatedAt = time.Now().UTC()
	const query = `UPDATE announcements SET title = :title, content = :content, important = :important, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, announcement); err != nil {
		return fmt.Errorf("update announcement: %w", err)
	}
	return nil
}

// Delete removes an announcement.
func (r *AnnouncementRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM announcements WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete announcement: %w", err)
	}
	return nil
}
