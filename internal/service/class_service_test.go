package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/classroom-api/internal/models"
	appErrors "github.com/noah-isme/classroom-api/pkg/errors"
)

type mockClassRepo struct {
	classes     map[string]models.Class
	enrolled    map[string]map[string]bool
	enrollErr   error
	createErr   error
	codeTaken   bool
	enrollCalls int
}

func (m *mockClassRepo) List(ctx context.Context, filter models.ClassFilter) ([]models.ClassDetail, error) {
	var out []models.ClassDetail
	for _, cls := range m.classes {
		if filter.TeacherID != "" && cls.TeacherID != filter.TeacherID {
			continue
		}
		out = append(out, models.ClassDetail{Class: cls})
	}
	return out, nil
}

func (m *mockClassRepo) FindByID(ctx context.Context, id string) (*models.Class, error) {
	if cls, ok := m.classes[id]; ok {
		return &cls, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockClassRepo) FindDetailByID(ctx context.Context, id string) (*models.ClassDetail, error) {
	if cls, ok := m.classes[id]; ok {
		return &models.ClassDetail{Class: cls}, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockClassRepo) FindByCode(ctx context.Context, code string) (*models.Class, error) {
	for _, cls := range m.classes {
		if cls.Code == code {
			return &cls, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *mockClassRepo) ExistsByCode(ctx context.Context, code string) (bool, error) {
	if m.codeTaken {
		return true, nil
	}
	_, err := m.FindByCode(ctx, code)
	return err == nil, nil
}

func (m *mockClassRepo) Create(ctx context.Context, class *models.Class) error {
	if m.createErr != nil {
		return m.createErr
	}
	if m.classes == nil {
		m.classes = make(map[string]models.Class)
	}
	if class.ID == "" {
		class.ID = "new-class"
	}
	m.classes[class.ID] = *class
	return nil
}

func (m *mockClassRepo) Update(ctx context.Context, class *models.Class) error {
	m.classes[class.ID] = *class
	return nil
}

func (m *mockClassRepo) Delete(ctx context.Context, id string) error {
	delete(m.classes, id)
	return nil
}

func (m *mockClassRepo) Students(ctx context.Context, classID string) ([]models.ClassMember, error) {
	var out []models.ClassMember
	for studentID := range m.enrolled[classID] {
		out = append(out, models.ClassMember{ID: studentID})
	}
	return out, nil
}

func (m *mockClassRepo) IsEnrolled(ctx context.Context, classID, studentID string) (bool, error) {
	return m.enrolled[classID][studentID], nil
}

func (m *mockClassRepo) Enroll(ctx context.Context, classID, studentID string) error {
	m.enrollCalls++
	if m.enrollErr != nil {
		return m.enrollErr
	}
	if m.enrolled == nil {
		m.enrolled = make(map[string]map[string]bool)
	}
	if m.enrolled[classID] == nil {
		m.enrolled[classID] = make(map[string]bool)
	}
	m.enrolled[classID][studentID] = true
	return nil
}

func (m *mockClassRepo) ListByStudent(ctx context.Context, studentID string) ([]models.EnrolledClass, error) {
	var out []models.EnrolledClass
	for classID, students := range m.enrolled {
		if students[studentID] {
			cls := m.classes[classID]
			out = append(out, models.EnrolledClass{ID: cls.ID, Name: cls.Name, Subject: cls.Subject})
		}
	}
	return out, nil
}

func TestClassServiceCreateRejectsDuplicateCode(t *testing.T) {
	repo := &mockClassRepo{codeTaken: true}
	svc := NewClassService(repo, nil, nil)

	_, err := svc.Create(context.Background(), "teacher-1", models.CreateClassRequest{
		Name: "Math", Subject: "Algebra", Code: "MATH01",
	})
	require.Error(t, err)

	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}

func TestClassServiceCreateMapsConstraintRace(t *testing.T) {
	repo := &mockClassRepo{createErr: &pq.Error{Code: "23505"}}
	svc := NewClassService(repo, nil, nil)

	_, err := svc.Create(context.Background(), "teacher-1", models.CreateClassRequest{
		Name: "Math", Subject: "Algebra", Code: "MATH01",
	})
	require.Error(t, err)

	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}

func TestClassServiceUpdateRequiresOwnership(t *testing.T) {
	repo := &mockClassRepo{classes: map[string]models.Class{
		"c1": {ID: "c1", Name: "Math", TeacherID: "teacher-1"},
	}}
	svc := NewClassService(repo, nil, nil)

	name := "Renamed"
	_, err := svc.Update(context.Background(), "c1", "teacher-2", models.UpdateClassRequest{Name: &name})
	require.Error(t, err)

	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrForbidden.Code, appErr.Code)
	assert.Equal(t, "Math", repo.classes["c1"].Name)
}

func TestClassServiceUpdateKeepsAbsentFields(t *testing.T) {
	repo := &mockClassRepo{classes: map[string]models.Class{
		"c1": {ID: "c1", Name: "Math", Subject: "Algebra", TeacherID: "teacher-1"},
	}}
	svc := NewClassService(repo, nil, nil)

	name := "Math II"
	updated, err := svc.Update(context.Background(), "c1", "teacher-1", models.UpdateClassRequest{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Math II", updated.Name)
	assert.Equal(t, "Algebra", updated.Subject)
}

func TestClassServiceJoinUnknownCode(t *testing.T) {
	svc := NewClassService(&mockClassRepo{}, nil, nil)

	_, err := svc.Join(context.Background(), "student-1", models.JoinClassRequest{ClassCode: "NOPE"})
	require.Error(t, err)

	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}

func TestClassServiceJoinTwiceKeepsSingleMembership(t *testing.T) {
	repo := &mockClassRepo{classes: map[string]models.Class{
		"c1": {ID: "c1", Name: "Math", Code: "MATH01", TeacherID: "teacher-1"},
	}}
	svc := NewClassService(repo, nil, nil)

	_, err := svc.Join(context.Background(), "student-1", models.JoinClassRequest{ClassCode: "MATH01"})
	require.NoError(t, err)

	_, err = svc.Join(context.Background(), "student-1", models.JoinClassRequest{ClassCode: "MATH01"})
	require.Error(t, err)

	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrAlreadyEnrolled.Code, appErr.Code)
	assert.Len(t, repo.enrolled["c1"], 1)
}

func TestClassServiceJoinConstraintRaceMapsToAlreadyEnrolled(t *testing.T) {
	repo := &mockClassRepo{
		classes:   map[string]models.Class{"c1": {ID: "c1", Code: "MATH01"}},
		enrollErr: &pq.Error{Code: "23505"},
	}
	svc := NewClassService(repo, nil, nil)

	_, err := svc.Join(context.Background(), "student-1", models.JoinClassRequest{ClassCode: "MATH01"})
	require.Error(t, err)

	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrAlreadyEnrolled.Code, appErr.Code)
}
