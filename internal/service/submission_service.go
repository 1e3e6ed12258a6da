package service

import (
	"context"
	"database/sql"
	"errors"
	"mime/multipart"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/classroom-api/internal/models"
	appErrors "github.com/noah-isme/classroom-api/pkg/errors"
	"github.com/noah-isme/classroom-api/pkg/storage"
)

type submissionRepository interface {
	Create(ctx context.Context, submission *models.Submission) error
	FindByID(ctx context.Context, id string) (*models.Submission, error)
	ListByAssignment(ctx context.Context, assignmentID string) ([]models.SubmissionDetail, error)
	SetGrade(ctx context.Context, submission *models.Submission) error
}

type submissionAssignmentRepository interface {
	FindByID(ctx context.Context, id string) (*models.Assignment, error)
}

type uploadStorage interface {
	SaveUpload(filename string, file multipart.File) (string, error)
}

// SubmissionService manages assignment submissions and grading.
type SubmissionService struct {
	repo        submissionRepository
	assignments submissionAssignmentRepository
	storage     uploadStorage
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewSubmissionService constructs a SubmissionService instance.
func NewSubmissionService(repo submissionRepository, assignments submissionAssignmentRepository, store uploadStorage, validate *validator.Validate, logger *zap.Logger) *SubmissionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &SubmissionService{repo: repo, assignments: assignments, storage: store, validator: validate, logger: logger}
}

// Submit stores the uploaded answer file and records the submission. A
// file is mandatory.
func (s *SubmissionService) Submit(ctx context.Context, assignmentID, studentID string, fileHeader *multipart.FileHeader) (*models.Submission, error) {
	if fileHeader == nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "submission file is required")
	}

	if _, err := s.assignments.FindByID(ctx, assignmentID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "assignment not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch assignment")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "failed to read submission file")
	}
	defer file.Close() //nolint:errcheck

	filename := storage.GenerateFilename("submission", fileHeader.Filename)
	if _, err := s.storage.SaveUpload(filename, file); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store submission file")
	}

	submission := &models.Submission{
		AssignmentID: assignmentID,
		StudentID:    studentID,
		FileURL:      "/uploads/" + filename,
		Status:       models.SubmissionStatusSubmitted,
	}
	if err := s.repo.Create(ctx, submission); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create submission")
	}
	return submission, nil
}

// ListByAssignment returns an assignment's submissions with student info.
func (s *SubmissionService) ListByAssignment(ctx context.Context, assignmentID string) ([]models.SubmissionDetail, error) {
	if _, err := s.assignments.FindByID(ctx, assignmentID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "assignment not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch assignment")
	}
	submissions, err := s.repo.ListByAssignment(ctx, assignmentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list submissions")
	}
	return submissions, nil
}

// Grade records grade and feedback and marks the submission graded.
// Re-grading overwrites the previous values; any teacher may grade, the
// caller is not checked against the submission's class owner.
func (s *SubmissionService) Grade(ctx context.Context, id string, req models.GradeSubmissionRequest) (*models.Submission, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid grade payload")
	}

	submission, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "submission not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch submission")
	}

	submission.Grade = req.Grade
	submission.Feedback = req.Feedback
	submission.Status = models.SubmissionStatusGraded
	if err := s.repo.SetGrade(ctx, submission); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to grade submission")
	}
	return submission, nil
}
