package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/classroom-api/internal/models"
)

// AssignmentRepository manages persistence for assignments.
type AssignmentRepository struct {
	db *sqlx.DB
}

// NewAssignmentRepository constructs the repository.
func NewAssignmentRepository(db *sqlx.DB) *AssignmentRepository {
	return &AssignmentRepository{db: db}
}

// Create persists an assignment.
func (r *AssignmentRepository) Create(ctx context.Context, assignment *models.Assignment) error {
	if assignment.ID == "" {
		assignment.ID = uuid.NewString()
	}
	if assignment.TotalPoints <= 0 {
		assignment.TotalPoints = 100
	}
	now := time.Now().UTC()
	if assignment.CreatedAt.IsZero() {
		assignment.CreatedAt = now
	}
	assignment.UpdatedAt = now

	const query = `INSERT INTO assignments (id, class_id, title, description, due_date, total_points, created_at, updated_at)
        VALUES (:id, :class_id, :title, :description, :due_date, :total_points, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, assignment); err != nil {
		return fmt.Errorf("create assignment: %w", err)
	}
	return nil
}

// FindByID returns an assignment by identifier.
func (r *AssignmentRepository) FindByID(ctx context.Context, id string) (*models.Assignment, error) {
	const query = `SELECT id, class_id, title, description, due_date, total_points, created_at, updated_at FROM assignments WHERE id = $1`
	var assignment models.Assignment
	if err := r.db.GetContext(ctx, &assignment, query, id); err != nil {
		return nil, err
	}
	return &assignment, nil
}

// ListByClass returns a class's assignments ordered by due date.
func (r *AssignmentRepository) ListByClass(ctx context.Context, classID string) ([]models.Assignment, error) {
	const query = `SELECT id, class_id, title, description, due_date, total_points, created_at, updated_at
        FROM assignments WHERE class_id = $1 ORDER BY due_date ASC NULLS LAST`
	var assignments []models.Assignment
	if err := r.db.SelectContext(ctx, &assignments, query, classID); err != nil {
		return nil, fmt.Errorf("list class assignments: %w", err)
	}
	return assignments, nil
}

// ListByTeacher returns assignments across all classes the teacher owns.
func (r *AssignmentRepository) ListByTeacher(ctx context.Context, teacherID string) ([]models.AssignmentDetail, error) {
	const query = `SELECT a.id, a.class_id, a.title, a.description, a.due_date, a.total_points, a.created_at, a.updated_at, c.name AS class_name
        FROM assignments a JOIN classes c ON c.id = a.class_id
        WHERE c.teacher_id = $1 ORDER BY a.due_date ASC NULLS LAST`
	var assignments []models.AssignmentDetail
	if err := r.db.SelectContext(ctx, &assignments, query, teacherID); err != nil {
		return nil, fmt.Errorf("list teacher assignments: %w", err)
	}
	return assignments, nil
}

// ListByStudent returns assignments across a student's enrolled classes.
func (r *AssignmentRepository) ListByStudent(ctx context.Context, studentID string) ([]models.AssignmentDetail, error) {
	const query = `SELECT a.id, a.class_id, a.title, a.description, a.due_date, a.total_points, a.created_at, a.updated_at, c.name AS class_name
        FROM assignments a
        JOIN classes c ON c.id = a.class_id
        JOIN class_students cs ON cs.class_id = a.class_id
        WHERE cs.student_id = $1 ORDER BY a.due_date ASC NULLS LAST`
	var assignments []models.AssignmentDetail
	if err := r.db.SelectContext(ctx, &assignments, query, studentID); err != nil {
		return nil, fmt.Errorf("list student assignments: %w", err)
	}
	return assignments, nil
}

// CountByStudent counts assignments across a student's enrolled classes.
func (r *AssignmentRepository) CountByStudent(ctx context.Context, studentID string) (int, error) {
	const query = `SELECT COUNT(*) FROM assignments a JOIN class_students cs ON cs.class_id = a.class_id WHERE cs.student_id = $1`
	var count int
	if err := r.db.GetContext(ctx, &count, query, studentID); err != nil {
		return 0, fmt.Errorf("count student assignments: %w", err)
	}
	return count, nil
}
