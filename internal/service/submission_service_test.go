package service

import (
	"context"
	"database/sql"
	"errors"
	"mime/multipart"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/classroom-api/internal/models"
	appErrors "github.com/noah-isme/classroom-api/pkg/errors"
)

type mockSubmissionRepo struct {
	submissions map[string]models.Submission
	graded      *models.Submission
}

func (m *mockSubmissionRepo) Create(ctx context.Context, submission *models.Submission) error {
	if m.submissions == nil {
		m.submissions = make(map[string]models.Submission)
	}
	if submission.ID == "" {
		submission.ID = "new-sub"
	}
	m.submissions[submission.ID] = *submission
	return nil
}

func (m *mockSubmissionRepo) FindByID(ctx context.Context, id string) (*models.Submission, error) {
	if s, ok := m.submissions[id]; ok {
		return &s, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockSubmissionRepo) ListByAssignment(ctx context.Context, assignmentID string) ([]models.SubmissionDetail, error) {
	var out []models.SubmissionDetail
	for _, s := range m.submissions {
		if s.AssignmentID == assignmentID {
			out = append(out, models.SubmissionDetail{Submission: s})
		}
	}
	return out, nil
}

func (m *mockSubmissionRepo) SetGrade(ctx context.Context, submission *models.Submission) error {
	m.submissions[submission.ID] = *submission
	m.graded = submission
	return nil
}

type mockAssignmentLookup struct {
	assignments map[string]models.Assignment
}

func (m *mockAssignmentLookup) FindByID(ctx context.Context, id string) (*models.Assignment, error) {
	if a, ok := m.assignments[id]; ok {
		return &a, nil
	}
	return nil, sql.ErrNoRows
}

type mockUploadStorage struct {
	saved []string
}

func (m *mockUploadStorage) SaveUpload(filename string, file multipart.File) (string, error) {
	m.saved = append(m.saved, filename)
	return filename, nil
}

func TestSubmissionServiceSubmitRequiresFile(t *testing.T) {
	svc := NewSubmissionService(&mockSubmissionRepo{}, &mockAssignmentLookup{}, &mockUploadStorage{}, nil, nil)

	_, err := svc.Submit(context.Background(), "a1", "s1", nil)
	require.Error(t, err)

	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}

func TestSubmissionServiceSubmitUnknownAssignment(t *testing.T) {
	svc := NewSubmissionService(&mockSubmissionRepo{}, &mockAssignmentLookup{}, &mockUploadStorage{}, nil, nil)

	_, err := svc.Submit(context.Background(), "missing", "s1", &multipart.FileHeader{Filename: "answer.pdf"})
	require.Error(t, err)

	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}

func TestSubmissionServiceGradeUnknownSubmission(t *testing.T) {
	svc := NewSubmissionService(&mockSubmissionRepo{}, &mockAssignmentLookup{}, &mockUploadStorage{}, nil, nil)

	grade := 90.0
	_, err := svc.Grade(context.Background(), "missing", models.GradeSubmissionRequest{Grade: &grade})
	require.Error(t, err)

	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}

func TestSubmissionServiceGradeSetsStatusGraded(t *testing.T) {
	repo := &mockSubmissionRepo{submissions: map[string]models.Submission{
		"sub-1": {ID: "sub-1", AssignmentID: "a1", StudentID: "s1", Status: models.SubmissionStatusSubmitted},
	}}
	svc := NewSubmissionService(repo, &mockAssignmentLookup{}, &mockUploadStorage{}, nil, nil)

	grade := 85.0
	feedback := "solid work"
	graded, err := svc.Grade(context.Background(), "sub-1", models.GradeSubmissionRequest{Grade: &grade, Feedback: &feedback})
	require.NoError(t, err)

	assert.Equal(t, models.SubmissionStatusGraded, graded.Status)
	require.NotNil(t, graded.Grade)
	assert.Equal(t, 85.0, *graded.Grade)
}

func TestSubmissionServiceRegradeOverwrites(t *testing.T) {
	repo := &mockSubmissionRepo{submissions: map[string]models.Submission{
		"sub-1": {ID: "sub-1", Status: models.SubmissionStatusSubmitted},
	}}
	svc := NewSubmissionService(repo, &mockAssignmentLookup{}, &mockUploadStorage{}, nil, nil)

	first := 70.0
	_, err := svc.Grade(context.Background(), "sub-1", models.GradeSubmissionRequest{Grade: &first})
	require.NoError(t, err)

	second := 95.0
	graded, err := svc.Grade(context.Background(), "sub-1", models.GradeSubmissionRequest{Grade: &second})
	require.NoError(t, err)

	assert.Equal(t, models.SubmissionStatusGraded, graded.Status)
	assert.Equal(t, 95.0, *graded.Grade)
}
