package service

import (
	"context"
	"database/sql"
	"errors"
	"math"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/classroom-api/internal/models"
	"github.com/noah-isme/classroom-api/internal/repository"
	appErrors "github.com/noah-isme/classroom-api/pkg/errors"
)

type attendanceRepository interface {
	FindByClassAndDate(ctx context.Context, classID string, date time.Time) (*models.Attendance, error)
	Create(ctx context.Context, attendance *models.Attendance, entries []models.AttendanceEntry) error
	ReplaceEntries(ctx context.Context, attendanceID, markedBy string, entries []models.AttendanceEntry) error
	Entries(ctx context.Context, attendanceID string) ([]models.AttendanceEntryDetail, error)
	ListByClass(ctx context.Context, classID string, date *time.Time) ([]models.Attendance, error)
	StudentHistory(ctx context.Context, studentID string) ([]models.StudentAttendanceDay, error)
}

type attendanceClassRepository interface {
	FindByID(ctx context.Context, id string) (*models.Class, error)
}

// AttendanceService manages per-day class attendance records.
type AttendanceService struct {
	repo      attendanceRepository
	classes   attendanceClassRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewAttendanceService constructs an AttendanceService instance.
func NewAttendanceService(repo attendanceRepository, classes attendanceClassRepository, validate *validator.Validate, logger *zap.Logger) *AttendanceService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &AttendanceService{repo: repo, classes: classes, validator: validate, logger: logger}
}

// normalizeDay truncates a timestamp to midnight UTC so one record exists
// per class per calendar day.
func normalizeDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Mark records attendance for a class on a day. When a record for the
// same (class, day) already exists its entries are replaced wholesale;
// the last writer wins.
func (s *AttendanceService) Mark(ctx context.Context, teacherID string, req models.MarkAttendanceRequest) (*models.AttendanceSheet, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "classId, date and records are required")
	}
	for _, record := range req.Records {
		if !record.Status.Valid() {
			return nil, appErrors.Clone(appErrors.ErrValidation, "attendance status must be present, absent or late")
		}
	}

	if _, err := s.classes.FindByID(ctx, req.ClassID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "class not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch class")
	}

	day := normalizeDay(req.Date)
	entries := make([]models.AttendanceEntry, 0, len(req.Records))
	for _, record := range req.Records {
		entries = append(entries, models.AttendanceEntry{
			StudentID: record.StudentID,
			Status:    record.Status,
			Remarks:   record.Remarks,
		})
	}

	attendance, err := s.upsert(ctx, req.ClassID, teacherID, day, entries)
	if err != nil {
		return nil, err
	}

	details, err := s.repo.Entries(ctx, attendance.ID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load attendance records")
	}
	return &models.AttendanceSheet{Attendance: *attendance, Records: details}, nil
}

func (s *AttendanceService) upsert(ctx context.Context, classID, teacherID string, day time.Time, entries []models.AttendanceEntry) (*models.Attendance, error) {
	existing, err := s.repo.FindByClassAndDate(ctx, classID, day)
	if err == nil {
		if err := s.repo.ReplaceEntries(ctx, existing.ID, teacherID, entries); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update attendance")
		}
		existing.MarkedBy = teacherID
		return existing, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch attendance")
	}

	attendance := &models.Attendance{ClassID: classID, Date: day, MarkedBy: teacherID}
	if err := s.repo.Create(ctx, attendance, entries); err != nil {
		// A concurrent mark for the same day created the row first;
		// fall through to the replace path so the last writer wins.
		if repository.IsUniqueViolation(err) {
			winner, findErr := s.repo.FindByClassAndDate(ctx, classID, day)
			if findErr != nil {
				return nil, appErrors.Wrap(findErr, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch attendance")
			}
			if err := s.repo.ReplaceEntries(ctx, winner.ID, teacherID, entries); err != nil {
				return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update attendance")
			}
			winner.MarkedBy = teacherID
			return winner, nil
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create attendance")
	}
	return attendance, nil
}

// ClassAttendance lists a class's attendance records, optionally filtered
// to one day, each with its expanded entries.
func (s *AttendanceService) ClassAttendance(ctx context.Context, classID string, date *time.Time) ([]models.AttendanceSheet, error) {
	if _, err := s.classes.FindByID(ctx, classID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "class not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch class")
	}

	var day *time.Time
	if date != nil {
		normalized := normalizeDay(*date)
		day = &normalized
	}
	records, err := s.repo.ListByClass(ctx, classID, day)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list attendance")
	}

	sheets := make([]models.AttendanceSheet, 0, len(records))
	for _, record := range records {
		entries, err := s.repo.Entries(ctx, record.ID)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load attendance records")
		}
		sheets = append(sheets, models.AttendanceSheet{Attendance: record, Records: entries})
	}
	return sheets, nil
}

// StudentReport returns the calling student's per-day history with summary
// stats. Days where the student has no entry are not part of the history.
func (s *AttendanceService) StudentReport(ctx context.Context, studentID string) (*models.StudentAttendanceReport, error) {
	history, err := s.repo.StudentHistory(ctx, studentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load attendance history")
	}

	stats := models.StudentAttendanceStats{TotalClasses: len(history)}
	for _, day := range history {
		if day.Status == models.AttendanceStatusPresent {
			stats.Attended++
		}
	}
	if stats.TotalClasses > 0 {
		stats.Rate = int(math.Round(float64(stats.Attended) / float64(stats.TotalClasses) * 100))
	}

	return &models.StudentAttendanceReport{Stats: stats, History: history}, nil
}
