package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/classroom-api/internal/models"
)

// MaterialRepository manages persistence for class materials.
type MaterialRepository struct {
	db *sqlx.DB
}

// NewMaterialRepository constructs the repository.
func NewMaterialRepository(db *sqlx.DB) *MaterialRepository {
	return &MaterialRepository{db: db}
}

// Create persists a material record.
func (r *MaterialRepository) Create(ctx context.Context, material *models.Material) error {
	if material.ID == "" {
		material.ID = uuid.NewString()
	}
	if material.CreatedAt.IsZero() {
		material.CreatedAt = time.Now().UTC()
	}

	const query = `INSERT INTO materials (id, class_id, teacher_id, title, description, type, file_url, created_at)
        VALUES (:id, :class_id, :teacher_id, :title, :description, :type, :file_url, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, material); err != nil {
		return fmt.Errorf("create material: %w", err)
	}
	return nil
}

// ListByClass returns a class's materials, newest first.
func (r *MaterialRepository) ListByClass(ctx context.Context, classID string) ([]models.Material, error) {
	const query = `SELECT id, class_id, teacher_id, title, description, type, file_url, created_at
        FROM materials WHERE class_id = $1 ORDER BY created_at DESC`
	var materials []models.Material
	if err := r.db.SelectContext(ctx, &materials, query, classID); err != nil {
		return nil, fmt.Errorf("list materials: %w", err)
	}
	return materials, nil
}
