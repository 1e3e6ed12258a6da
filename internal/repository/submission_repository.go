package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/classroom-api/internal/models"
)

// SubmissionRepository manages persistence for assignment submissions.
type SubmissionRepository struct {
	db *sqlx.DB
}

// NewSubmissionRepository constructs the repository.
func NewSubmissionRepository(db *sqlx.DB) *SubmissionRepository {
	return &SubmissionRepository{db: db}
}

// Create persists a submission, defaulting its status to submitted.
func (r *SubmissionRepository) Create(ctx context.Context, submission *models.Submission) error {
	if submission.ID == "" {
		submission.ID = uuid.NewString()
	}
	if submission.Status == "" {
		submission.Status = models.SubmissionStatusSubmitted
	}
	now := time.Now().UTC()
	if submission.SubmittedAt.IsZero() {
		submission.SubmittedAt = now
	}
	submission.UpdatedAt = now

	const query = `INSERT INTO submissions (id, assignment_id, student_id, file_url, status, grade, feedback, submitted_at, updated_at)
        VALUES (:id, :assignment_id, :student_id, :file_url, :status, :grade, :feedback, :submitted_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, submission); err != nil {
		return fmt.Errorf("create submission: %w", err)
	}
	return nil
}

// FindByID returns a submission by identifier.
func (r *SubmissionRepository) FindByID(ctx context.Context, id string) (*models.Submission, error) {
	const query = `SELECT id, assignment_id, student_id, file_url, status, grade, feedback, submitted_at, updated_at FROM submissions WHERE id = $1`
	var submission models.Submission
	if err := r.db.GetContext(ctx, &submission, query, id); err != nil {
		return nil, err
	}
	return &submission, nil
}

// ListByAssignment returns submissions with student info, newest first.
func (r *SubmissionRepository) ListByAssignment(ctx context.Context, assignmentID string) ([]models.SubmissionDetail, error) {
	const query = `SELECT s.id, s.assignment_id, s.student_id, s.file_url, s.status, s.grade, s.feedback, s.submitted_at, s.updated_at,
        u.full_name AS student_name, u.email AS student_email
        FROM submissions s JOIN users u ON u.id = s.student_id
        WHERE s.assignment_id = $1 ORDER BY s.submitted_at DESC`
	var submissions []models.SubmissionDetail
	if err := r.db.SelectContext(ctx, &submissions, query, assignmentID); err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}
	return submissions, nil
}

// SetGrade records grade and feedback and moves the status to graded.
func (r *SubmissionRepository) SetGrade(ctx context.Context, submission *models.Submission) error {
	submission.UpdatedAt = time.Now().UTC()
	const query = `UPDATE submissions SET grade = :grade, feedback = :feedback, status = :status, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, submission); err != nil {
		return fmt.Errorf("grade submission: %w", err)
	}
	return nil
}

// CountSubmittedByTeacher counts ungraded submissions across all
// assignments belonging to the teacher's classes.
func (r *SubmissionRepository) CountSubmittedByTeacher(ctx context.Context, teacherID string) (int, error) {
	const query = `SELECT COUNT(*) FROM submissions s
        JOIN assignments a ON a.id = s.assignment_id
        JOIN classes c ON c.id = a.class_id
        WHERE c.teacher_id = $1 AND s.status = $2`
	var count int
	if err := r.db.GetContext(ctx, &count, query, teacherID, models.SubmissionStatusSubmitted); err != nil {
		return 0, fmt.Errorf("count pending submissions: %w", err)
	}
	return count, nil
}
