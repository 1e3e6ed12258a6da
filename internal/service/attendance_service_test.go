package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/classroom-api/internal/models"
	appErrors "github.com/noah-isme/classroom-api/pkg/errors"
)

type mockAttendanceRepo struct {
	records   map[string]models.Attendance
	entries   map[string][]models.AttendanceEntry
	history   []models.StudentAttendanceDay
	createErr error
	replaced  int
}

func (m *mockAttendanceRepo) key(classID string, date time.Time) string {
	return classID + "|" + date.Format("2006-01-02")
}

func (m *mockAttendanceRepo) FindByClassAndDate(ctx context.Context, classID string, date time.Time) (*models.Attendance, error) {
	if rec, ok := m.records[m.key(classID, date)]; ok {
		return &rec, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockAttendanceRepo) Create(ctx context.Context, attendance *models.Attendance, entries []models.AttendanceEntry) error {
	if m.createErr != nil {
		return m.createErr
	}
	if m.records == nil {
		m.records = make(map[string]models.Attendance)
		m.entries = make(map[string][]models.AttendanceEntry)
	}
	if attendance.ID == "" {
		attendance.ID = "att-" + m.key(attendance.ClassID, attendance.Date)
	}
	m.records[m.key(attendance.ClassID, attendance.Date)] = *attendance
	m.entries[attendance.ID] = entries
	return nil
}

func (m *mockAttendanceRepo) ReplaceEntries(ctx context.Context, attendanceID, markedBy string, entries []models.AttendanceEntry) error {
	m.replaced++
	m.entries[attendanceID] = entries
	return nil
}

func (m *mockAttendanceRepo) Entries(ctx context.Context, attendanceID string) ([]models.AttendanceEntryDetail, error) {
	var out []models.AttendanceEntryDetail
	for _, e := range m.entries[attendanceID] {
		out = append(out, models.AttendanceEntryDetail{AttendanceEntry: e})
	}
	return out, nil
}

func (m *mockAttendanceRepo) ListByClass(ctx context.Context, classID string, date *time.Time) ([]models.Attendance, error) {
	var out []models.Attendance
	for _, rec := range m.records {
		if rec.ClassID != classID {
			continue
		}
		if date != nil && !rec.Date.Equal(*date) {
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}

func (m *mockAttendanceRepo) StudentHistory(ctx context.Context, studentID string) ([]models.StudentAttendanceDay, error) {
	return m.history, nil
}

func markRequest(day time.Time) models.MarkAttendanceRequest {
	return models.MarkAttendanceRequest{
		ClassID: "c1",
		Date:    day,
		Records: []models.AttendanceRecordInput{
			{StudentID: "s1", Status: models.AttendanceStatusPresent},
			{StudentID: "s2", Status: models.AttendanceStatusAbsent},
		},
	}
}

func TestAttendanceServiceMarkNormalizesDate(t *testing.T) {
	repo := &mockAttendanceRepo{}
	classes := &mockClassRepo{classes: map[string]models.Class{"c1": {ID: "c1"}}}
	svc := NewAttendanceService(repo, classes, nil, nil)

	sheet, err := svc.Mark(context.Background(), "teacher-1", markRequest(time.Date(2026, 3, 9, 14, 30, 12, 0, time.UTC)))
	require.NoError(t, err)

	assert.Equal(t, time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC), sheet.Date)
	assert.Len(t, sheet.Records, 2)
}

func TestAttendanceServiceRemarkReplacesRecords(t *testing.T) {
	repo := &mockAttendanceRepo{}
	classes := &mockClassRepo{classes: map[string]models.Class{"c1": {ID: "c1"}}}
	svc := NewAttendanceService(repo, classes, nil, nil)

	day := time.Date(2026, 3, 9, 8, 0, 0, 0, time.UTC)
	first, err := svc.Mark(context.Background(), "teacher-1", markRequest(day))
	require.NoError(t, err)

	// Same day, different time of day, different records and marker.
	second, err := svc.Mark(context.Background(), "teacher-2", models.MarkAttendanceRequest{
		ClassID: "c1",
		Date:    day.Add(6 * time.Hour),
		Records: []models.AttendanceRecordInput{
			{StudentID: "s1", Status: models.AttendanceStatusLate},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "teacher-2", second.MarkedBy)
	assert.Equal(t, 1, repo.replaced)
	assert.Len(t, second.Records, 1)
	assert.Equal(t, models.AttendanceStatusLate, second.Records[0].Status)
}

func TestAttendanceServiceMarkRejectsBadStatus(t *testing.T) {
	classes := &mockClassRepo{classes: map[string]models.Class{"c1": {ID: "c1"}}}
	svc := NewAttendanceService(&mockAttendanceRepo{}, classes, nil, nil)

	_, err := svc.Mark(context.Background(), "teacher-1", models.MarkAttendanceRequest{
		ClassID: "c1",
		Date:    time.Now(),
		Records: []models.AttendanceRecordInput{{StudentID: "s1", Status: "asleep"}},
	})
	require.Error(t, err)

	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}

func TestAttendanceServiceStudentReportStats(t *testing.T) {
	repo := &mockAttendanceRepo{history: []models.StudentAttendanceDay{
		{Status: models.AttendanceStatusPresent},
		{Status: models.AttendanceStatusPresent},
		{Status: models.AttendanceStatusPresent},
		{Status: models.AttendanceStatusAbsent},
	}}
	svc := NewAttendanceService(repo, &mockClassRepo{}, nil, nil)

	report, err := svc.StudentReport(context.Background(), "s1")
	require.NoError(t, err)

	assert.Equal(t, 4, report.Stats.TotalClasses)
	assert.Equal(t, 3, report.Stats.Attended)
	assert.Equal(t, 75, report.Stats.Rate)
}

func TestAttendanceServiceStudentReportEmptyHistory(t *testing.T) {
	svc := NewAttendanceService(&mockAttendanceRepo{}, &mockClassRepo{}, nil, nil)

	report, err := svc.StudentReport(context.Background(), "s1")
	require.NoError(t, err)

	assert.Equal(t, 0, report.Stats.TotalClasses)
	assert.Equal(t, 0, report.Stats.Rate)
	assert.Empty(t, report.History)
}

func TestAttendanceServiceLateCountsAsNotAttended(t *testing.T) {
	repo := &mockAttendanceRepo{history: []models.StudentAttendanceDay{
		{Status: models.AttendanceStatusPresent},
		{Status: models.AttendanceStatusLate},
		{Status: models.AttendanceStatusLate},
	}}
	svc := NewAttendanceService(repo, &mockClassRepo{}, nil, nil)

	report, err := svc.StudentReport(context.Background(), "s1")
	require.NoError(t, err)

	assert.Equal(t, 1, report.Stats.Attended)
	assert.Equal(t, 33, report.Stats.Rate)
}
