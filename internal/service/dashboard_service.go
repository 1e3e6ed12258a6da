package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/noah-isme/classroom-api/internal/models"
	appErrors "github.com/noah-isme/classroom-api/pkg/errors"
)

type dashboardClassRepository interface {
	CountByTeacher(ctx context.Context, teacherID string) (int, error)
	CountStudentsByTeacher(ctx context.Context, teacherID string) (int, error)
	CountByStudent(ctx context.Context, studentID string) (int, error)
}

type dashboardAssignmentRepository interface {
	CountByStudent(ctx context.Context, studentID string) (int, error)
}

type dashboardSubmissionRepository interface {
	CountSubmittedByTeacher(ctx context.Context, teacherID string) (int, error)
}

type dashboardAttendanceRepository interface {
	StudentHistory(ctx context.Context, studentID string) ([]models.StudentAttendanceDay, error)
}

// DashboardService derives role dashboards from live data on every call.
// Results are never cached; both dashboards read committed state only.
type DashboardService struct {
	classes     dashboardClassRepository
	assignments dashboardAssignmentRepository
	submissions dashboardSubmissionRepository
	attendance  dashboardAttendanceRepository
	logger      *zap.Logger
}

// NewDashboardService constructs a DashboardService instance.
func NewDashboardService(classes dashboardClassRepository, assignments dashboardAssignmentRepository, submissions dashboardSubmissionRepository, attendance dashboardAttendanceRepository, logger *zap.Logger) *DashboardService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardService{classes: classes, assignments: assignments, submissions: submissions, attendance: attendance, logger: logger}
}

// Teacher aggregates the teacher's class count, enrolled-student total and
// ungraded submission backlog.
func (s *DashboardService) Teacher(ctx context.Context, teacherID string) (*models.TeacherDashboard, error) {
	totalClasses, err := s.classes.CountByTeacher(ctx, teacherID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count classes")
	}
	totalStudents, err := s.classes.CountStudentsByTeacher(ctx, teacherID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count students")
	}
	pending, err := s.submissions.CountSubmittedByTeacher(ctx, teacherID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count submissions")
	}

	return &models.TeacherDashboard{
		TotalClasses:       totalClasses,
		TotalStudents:      totalStudents,
		PendingSubmissions: pending,
		UpcomingClasses:    totalClasses,
	}, nil
}

// Student aggregates the student's enrollment count, assignment load and
// attendance rate. The assignment count covers every assignment in
// enrolled classes regardless of submission state.
func (s *DashboardService) Student(ctx context.Context, studentID string) (*models.StudentDashboard, error) {
	enrolled, err := s.classes.CountByStudent(ctx, studentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count enrolled classes")
	}
	assignments, err := s.assignments.CountByStudent(ctx, studentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count assignments")
	}
	history, err := s.attendance.StudentHistory(ctx, studentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load attendance history")
	}

	rate := 0
	if len(history) > 0 {
		attended := 0
		for _, day := range history {
			if day.Status == models.AttendanceStatusPresent {
				attended++
			}
		}
		rate = int(float64(attended)/float64(len(history))*100 + 0.5)
	}

	return &models.StudentDashboard{
		EnrolledClasses:    enrolled,
		PendingAssignments: assignments,
		AttendanceRate:     rate,
		UpcomingClasses:    enrolled,
	}, nil
}
