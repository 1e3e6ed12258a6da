package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/classroom-api/internal/models"
)

// AttendanceRepository manages daily attendance sheets and their entries.
type AttendanceRepository struct {
	db *sqlx.DB
}

// NewAttendanceRepository constructs the repository.
func NewAttendanceRepository(db *sqlx.DB) *AttendanceRepository {
	return &AttendanceRepository{db: db}
}

// FindByClassAndDate returns the attendance record for a class on the
// given (already normalized) day.
func (r *AttendanceRepository) FindByClassAndDate(ctx context.Context, classID string, date time.Time) (*models.Attendance, error) {
	const query = `SELECT id, class_id, date, marked_by, created_at, updated_at FROM attendance WHERE class_id = $1 AND date = $2`
	var attendance models.Attendance
	if err := r.db.GetContext(ctx, &attendance, query, classID, date); err != nil {
		return nil, err
	}
	return &attendance, nil
}

// Create inserts a new attendance record with its entries in one
// transaction. The UNIQUE(class_id, date) index rejects duplicates.
func (r *AttendanceRepository) Create(ctx context.Context, attendance *models.Attendance, entries []models.AttendanceEntry) error {
	if attendance.ID == "" {
		attendance.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if attendance.CreatedAt.IsZero() {
		attendance.CreatedAt = now
	}
	attendance.UpdatedAt = now

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin attendance tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	const insertSheet = `INSERT INTO attendance (id, class_id, date, marked_by, created_at, updated_at)
        VALUES (:id, :class_id, :date, :marked_by, :created_at, :updated_at)`
	if _, err := tx.NamedExecContext(ctx, insertSheet, attendance); err != nil {
		if IsUniqueViolation(err) {
			return err
		}
		return fmt.Errorf("create attendance: %w", err)
	}
	if err := insertEntries(ctx, tx, attendance.ID, entries); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit attendance: %w", err)
	}
	return nil
}

// ReplaceEntries overwrites the entry set and marker for an existing
// record. Last writer wins; the replacement is transactional.
func (r *AttendanceRepository) ReplaceEntries(ctx context.Context, attendanceID, markedBy string, entries []models.AttendanceEntry) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin attendance tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, `UPDATE attendance SET marked_by = $2, updated_at = $3 WHERE id = $1`, attendanceID, markedBy, time.Now().UTC()); err != nil {
		return fmt.Errorf("update attendance marker: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM attendance_records WHERE attendance_id = $1`, attendanceID); err != nil {
		return fmt.Errorf("clear attendance records: %w", err)
	}
	if err := insertEntries(ctx, tx, attendanceID, entries); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit attendance: %w", err)
	}
	return nil
}

func insertEntries(ctx context.Context, tx *sqlx.Tx, attendanceID string, entries []models.AttendanceEntry) error {
	const insertEntry = `INSERT INTO attendance_records (attendance_id, student_id, status, remarks) VALUES ($1, $2, $3, $4)`
	for _, entry := range entries {
		if _, err := tx.ExecContext(ctx, insertEntry, attendanceID, entry.StudentID, entry.Status, entry.Remarks); err != nil {
			return fmt.Errorf("insert attendance record: %w", err)
		}
	}
	return nil
}

// Entries returns the detailed entry list for an attendance record.
func (r *AttendanceRepository) Entries(ctx context.Context, attendanceID string) ([]models.AttendanceEntryDetail, error) {
	const query = `SELECT e.attendance_id, e.student_id, e.status, e.remarks, u.full_name AS student_name, u.email AS student_email
        FROM attendance_records e JOIN users u ON u.id = e.student_id
        WHERE e.attendance_id = $1 ORDER BY u.full_name`
	var entries []models.AttendanceEntryDetail
	if err := r.db.SelectContext(ctx, &entries, query, attendanceID); err != nil {
		return nil, fmt.Errorf("list attendance records: %w", err)
	}
	return entries, nil
}

// ListByClass returns a class's attendance records, newest first,
// optionally narrowed to a single normalized day.
func (r *AttendanceRepository) ListByClass(ctx context.Context, classID string, date *time.Time) ([]models.Attendance, error) {
	query := `SELECT id, class_id, date, marked_by, created_at, updated_at FROM attendance WHERE class_id = $1`
	args := []interface{}{classID}
	if date != nil {
		query += ` AND date = $2`
		args = append(args, *date)
	}
	query += ` ORDER BY date DESC`

	var records []models.Attendance
	if err := r.db.SelectContext(ctx, &records, query, args...); err != nil {
		return nil, fmt.Errorf("list class attendance: %w", err)
	}
	return records, nil
}

// StudentHistory returns a student's per-day entries across every class
// they are enrolled in, newest first. Days with no entry for the student
// do not appear.
func (r *AttendanceRepository) StudentHistory(ctx context.Context, studentID string) ([]models.StudentAttendanceDay, error) {
	const query = `SELECT a.id AS attendance_id, a.date, c.name AS class_name, e.status, e.remarks
        FROM attendance_records e
        JOIN attendance a ON a.id = e.attendance_id
        JOIN classes c ON c.id = a.class_id
        JOIN class_students cs ON cs.class_id = a.class_id AND cs.student_id = e.student_id
        WHERE e.student_id = $1 ORDER BY a.date DESC`
	var history []models.StudentAttendanceDay
	if err := r.db.SelectContext(ctx, &history, query, studentID); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("student attendance history: %w", err)
	}
	return history, nil
}
