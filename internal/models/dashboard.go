package models

// TeacherDashboard aggregates a teacher's classes and grading backlog.
// Derived per request, never stored.
type TeacherDashboard struct {
	TotalClasses       int `json:"totalClasses"`
	TotalStudents      int `json:"totalStudents"`
	PendingSubmissions int `json:"pendingSubmissions"`
	UpcomingClasses    int `json:"upcomingClasses"`
}

// StudentDashboard aggregates a student's enrollment and assignment load.
type StudentDashboard struct {
	EnrolledClasses    int `json:"enrolledClasses"`
	PendingAssignments int `json:"pendingAssignments"`
	AttendanceRate     int `json:"attendanceRate"`
	UpcomingClasses    int `json:"upcomingClasses"`
}
