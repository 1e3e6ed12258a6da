package models

import "time"

// Assignment belongs to exactly one class.
type Assignment struct {
	ID          string     `db:"id" json:"id"`
	ClassID     string     `db:"class_id" json:"class_id"`
	Title       string     `db:"title" json:"title"`
	Description string     `db:"description" json:"description"`
	DueDate     *time.Time `db:"due_date" json:"due_date,omitempty"`
	TotalPoints int        `db:"total_points" json:"total_points"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updated_at"`
}

// AssignmentDetail joins in the class name for list responses.
type AssignmentDetail struct {
	Assignment
	ClassName string `db:"class_name" json:"class_name"`
}

// CreateAssignmentRequest holds the payload for creating an assignment.
type CreateAssignmentRequest struct {
	ClassID     string     `json:"classId" validate:"required"`
	Title       string     `json:"title" validate:"required"`
	Description string     `json:"description"`
	DueDate     *time.Time `json:"dueDate"`
	TotalPoints int        `json:"totalPoints" validate:"omitempty,gt=0"`
}
