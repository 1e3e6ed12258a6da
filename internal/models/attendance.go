package models

import "time"

// AttendanceStatus is the per-student state for a recorded day.
type AttendanceStatus string

const (
	AttendanceStatusPresent AttendanceStatus = "present"
	AttendanceStatusAbsent  AttendanceStatus = "absent"
	AttendanceStatusLate    AttendanceStatus = "late"
)

// Valid returns true when the status is a supported value.
func (s AttendanceStatus) Valid() bool {
	switch s {
	case AttendanceStatusPresent, AttendanceStatusAbsent, AttendanceStatusLate:
		return true
	default:
		return false
	}
}

// Attendance is the single record for a class on a calendar day. The date
// is normalized to midnight UTC; (class_id, date) is unique.
type Attendance struct {
	ID        string    `db:"id" json:"id"`
	ClassID   string    `db:"class_id" json:"class_id"`
	Date      time.Time `db:"date" json:"date"`
	MarkedBy  string    `db:"marked_by" json:"marked_by"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// AttendanceEntry maps one student to a status for a recorded day.
type AttendanceEntry struct {
	AttendanceID string           `db:"attendance_id" json:"-"`
	StudentID    string           `db:"student_id" json:"student_id"`
	Status       AttendanceStatus `db:"status" json:"status"`
	Remarks      *string          `db:"remarks" json:"remarks,omitempty"`
}

// AttendanceEntryDetail enriches an entry with student info.
type AttendanceEntryDetail struct {
	AttendanceEntry
	StudentName  string `db:"student_name" json:"student_name"`
	StudentEmail string `db:"student_email" json:"student_email"`
}

// AttendanceSheet is an attendance record with its entries expanded.
type AttendanceSheet struct {
	Attendance
	Records []AttendanceEntryDetail `json:"records"`
}

// StudentAttendanceDay is one row of a student's attendance history.
type StudentAttendanceDay struct {
	AttendanceID string           `db:"attendance_id" json:"id"`
	Date         time.Time        `db:"date" json:"date"`
	ClassName    string           `db:"class_name" json:"className"`
	Status       AttendanceStatus `db:"status" json:"status"`
	Remarks      *string          `db:"remarks" json:"remarks,omitempty"`
}

// StudentAttendanceStats summarises a student's recorded days.
type StudentAttendanceStats struct {
	TotalClasses int `json:"totalClasses"`
	Attended     int `json:"attended"`
	Rate         int `json:"rate"`
}

// StudentAttendanceReport is the full student report payload.
type StudentAttendanceReport struct {
	Stats   StudentAttendanceStats `json:"stats"`
	History []StudentAttendanceDay `json:"history"`
}

// AttendanceRecordInput is one student entry in a mark request.
type AttendanceRecordInput struct {
	StudentID string           `json:"studentId" validate:"required"`
	Status    AttendanceStatus `json:"status" validate:"required"`
	Remarks   *string          `json:"remarks"`
}

// MarkAttendanceRequest records attendance for a class on a day. The date
// is normalized to midnight UTC before persistence.
type MarkAttendanceRequest struct {
	ClassID string                  `json:"classId" validate:"required"`
	Date    time.Time               `json:"date" validate:"required"`
	Records []AttendanceRecordInput `json:"records" validate:"required,min=1,dive"`
}
