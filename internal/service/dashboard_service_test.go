package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/classroom-api/internal/models"
)

type mockDashboardClasses struct {
	byTeacher        int
	studentsOfSchool int
	byStudent        int
}

func (m *mockDashboardClasses) CountByTeacher(ctx context.Context, teacherID string) (int, error) {
	return m.byTeacher, nil
}

func (m *mockDashboardClasses) CountStudentsByTeacher(ctx context.Context, teacherID string) (int, error) {
	return m.studentsOfSchool, nil
}

func (m *mockDashboardClasses) CountByStudent(ctx context.Context, studentID string) (int, error) {
	return m.byStudent, nil
}

type mockDashboardAssignments struct {
	byStudent int
}

func (m *mockDashboardAssignments) CountByStudent(ctx context.Context, studentID string) (int, error) {
	return m.byStudent, nil
}

type mockDashboardSubmissions struct {
	submitted int
}

func (m *mockDashboardSubmissions) CountSubmittedByTeacher(ctx context.Context, teacherID string) (int, error) {
	return m.submitted, nil
}

type mockDashboardAttendance struct {
	history []models.StudentAttendanceDay
}

func (m *mockDashboardAttendance) StudentHistory(ctx context.Context, studentID string) ([]models.StudentAttendanceDay, error) {
	return m.history, nil
}

func TestDashboardServiceTeacher(t *testing.T) {
	svc := NewDashboardService(
		&mockDashboardClasses{byTeacher: 3, studentsOfSchool: 42},
		&mockDashboardAssignments{},
		&mockDashboardSubmissions{submitted: 7},
		&mockDashboardAttendance{},
		nil,
	)

	dashboard, err := svc.Teacher(context.Background(), "teacher-1")
	require.NoError(t, err)

	assert.Equal(t, 3, dashboard.TotalClasses)
	assert.Equal(t, 42, dashboard.TotalStudents)
	assert.Equal(t, 7, dashboard.PendingSubmissions)
}

func TestDashboardServiceStudentCountsAllAssignments(t *testing.T) {
	svc := NewDashboardService(
		&mockDashboardClasses{byStudent: 2},
		&mockDashboardAssignments{byStudent: 9},
		&mockDashboardSubmissions{},
		&mockDashboardAttendance{history: []models.StudentAttendanceDay{
			{Status: models.AttendanceStatusPresent},
			{Status: models.AttendanceStatusAbsent},
		}},
		nil,
	)

	dashboard, err := svc.Student(context.Background(), "student-1")
	require.NoError(t, err)

	assert.Equal(t, 2, dashboard.EnrolledClasses)
	assert.Equal(t, 9, dashboard.PendingAssignments)
	assert.Equal(t, 50, dashboard.AttendanceRate)
}

func TestDashboardServiceStudentNoHistory(t *testing.T) {
	svc := NewDashboardService(
		&mockDashboardClasses{},
		&mockDashboardAssignments{},
		&mockDashboardSubmissions{},
		&mockDashboardAttendance{},
		nil,
	)

	dashboard, err := svc.Student(context.Background(), "student-1")
	require.NoError(t, err)
	assert.Equal(t, 0, dashboard.AttendanceRate)
}
