package models

import "time"

// Class represents a taught class owned by a single teacher.
type Class struct {
	ID          string    `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Subject     string    `db:"subject" json:"subject"`
	Description string    `db:"description" json:"description"`
	Schedule    string    `db:"schedule" json:"schedule"`
	Code        string    `db:"code" json:"code"`
	TeacherID   string    `db:"teacher_id" json:"teacher_id"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// ClassDetail extends Class with the owning teacher's public info.
type ClassDetail struct {
	Class
	TeacherName  string `db:"teacher_name" json:"teacher_name"`
	TeacherEmail string `db:"teacher_email" json:"teacher_email"`
	StudentCount int    `db:"student_count" json:"student_count"`
}

// ClassMember is an enrolled student as embedded in class detail payloads.
type ClassMember struct {
	ID    string `db:"id" json:"id"`
	Name  string `db:"full_name" json:"name"`
	Email string `db:"email" json:"email"`
}

// EnrolledClass is the student-facing view of an enrolled class.
type EnrolledClass struct {
	ID          string `db:"id" json:"id"`
	Name        string `db:"name" json:"name"`
	Subject     string `db:"subject" json:"subject"`
	TeacherName string `db:"teacher_name" json:"teacher"`
}

// ClassFilter defines filter criteria for listing classes.
type ClassFilter struct {
	TeacherID string
	Search    string
}

// ClassRoster is the full class detail payload with enrolled students.
type ClassRoster struct {
	ClassDetail
	Students []ClassMember `json:"students"`
}

// CreateClassRequest holds the payload for creating a class.
type CreateClassRequest struct {
	Name        string `json:"name" validate:"required"`
	Subject     string `json:"subject" validate:"required"`
	Description string `json:"description"`
	Schedule    string `json:"schedule"`
	Code        string `json:"code" validate:"required"`
}

// UpdateClassRequest holds a partial update; nil fields keep prior values.
type UpdateClassRequest struct {
	Name        *string `json:"name"`
	Subject     *string `json:"subject"`
	Description *string `json:"description"`
	Schedule    *string `json:"schedule"`
}

// JoinClassRequest identifies the class to enroll in by its share code.
type JoinClassRequest struct {
	ClassCode string `json:"classCode" validate:"required"`
}
