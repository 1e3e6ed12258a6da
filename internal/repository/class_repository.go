package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/classroom-api/internal/models"
)

// IsUniqueViolation reports whether the error is a Postgres unique
// constraint failure, used to catch races past existence pre-checks.
func IsUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

// ClassRepository manages persistence for classes and their rosters.
type ClassRepository struct {
	db *sqlx.DB
}

// NewClassRepository constructs a new class repository.
func NewClassRepository(db *sqlx.DB) *ClassRepository {
	return &ClassRepository{db: db}
}

// List returns classes matching filter criteria with teacher info.
func (r *ClassRepository) List(ctx context.Context, filter models.ClassFilter) ([]models.ClassDetail, error) {
	base := `SELECT c.id, c.name, c.subject, c.description, c.schedule, c.code, c.teacher_id, c.created_at, c.updated_at,
        u.full_name AS teacher_name, u.email AS teacher_email,
        (SELECT COUNT(*) FROM class_students cs WHERE cs.class_id = c.id) AS student_count
        FROM classes c
        JOIN users u ON u.id = c.teacher_id WHERE 1=1`
	var conditions []string
	var args []interface{}

	if filter.TeacherID != "" {
		conditions = append(conditions, fmt.Sprintf("c.teacher_id = $%d", len(args)+1))
		args = append(args, filter.TeacherID)
	}
	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("(LOWER(c.name) LIKE $%d OR LOWER(c.subject) LIKE $%d)", len(args)+1, len(args)+1))
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
	}
	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
	}
	base += " ORDER BY c.created_at DESC"

	var classes []models.ClassDetail
	if err := r.db.SelectContext(ctx, &classes, base, args...); err != nil {
		return nil, fmt.Errorf("list classes: %w", err)
	}
	return classes, nil
}

// FindByID returns a class record by ID.
func (r *ClassRepository) FindByID(ctx context.Context, id string) (*models.Class, error) {
	const query = `SELECT id, name, subject, description, schedule, code, teacher_id, created_at, updated_at FROM classes WHERE id = $1`
	var class models.Class
	if err := r.db.GetContext(ctx, &class, query, id); err != nil {
		return nil, err
	}
	return &class, nil
}

// FindDetailByID returns class with joined teacher info.
func (r *ClassRepository) FindDetailByID(ctx context.Context, id string) (*models.ClassDetail, error) {
	const query = `SELECT c.id, c.name, c.subject, c.description, c.schedule, c.code, c.teacher_id, c.created_at, c.updated_at,
        u.full_name AS teacher_name, u.email AS teacher_email,
        (SELECT COUNT(*) FROM class_students cs WHERE cs.class_id = c.id) AS student_count
        FROM classes c JOIN users u ON u.id = c.teacher_id WHERE c.id = $1`
	var detail models.ClassDetail
	if err := r.db.GetContext(ctx, &detail, query, id); err != nil {
		return nil, err
	}
	return &detail, nil
}

// FindByCode resolves a class through its join code.
func (r *ClassRepository) FindByCode(ctx context.Context, code string) (*models.Class, error) {
	const query = `SELECT id, name, subject, description, schedule, code, teacher_id, created_at, updated_at FROM classes WHERE code = $1`
	var class models.Class
	if err := r.db.GetContext(ctx, &class, query, code); err != nil {
		return nil, err
	}
	return &class, nil
}

// ExistsByCode checks whether a class already uses the join code.
func (r *ClassRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	const query = `SELECT 1 FROM classes WHERE code = $1 LIMIT 1`
	var exists int
	if err := r.db.GetContext(ctx, &exists, query, code); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check class code: %w", err)
	}
	return true, nil
}

// Create persists a class record.
func (r *ClassRepository) Create(ctx context.Context, class *models.Class) error {
	if class.ID == "" {
		class.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if class.CreatedAt.IsZero() {
		class.CreatedAt = now
	}
	class.UpdatedAt = now

	const query = `INSERT INTO classes (id, name, subject, description, schedule, code, teacher_id, created_at, updated_at)
        VALUES (:id, :name, :subject, :description, :schedule, :code, :teacher_id, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, class); err != nil {
		if IsUniqueViolation(err) {
			return err
		}
		return fmt.Errorf("create class: %w", err)
	}
	return nil
}

// Update modifies a class record.
func (r *ClassRepository) Update(ctx context.Context, class *models.Class) error {
	class.UpdatedAt = time.Now().UTC()
	const query = `UPDATE classes SET name = :name, subject = :subject, description = :description, schedule = :schedule, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, class); err != nil {
		return fmt.Errorf("update class: %w", err)
	}
	return nil
}

// Delete removes a class record and its roster rows.
func (r *ClassRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM classes WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete class: %w", err)
	}
	return nil
}

// Students returns the enrolled roster for a class.
func (r *ClassRepository) Students(ctx context.Context, classID string) ([]models.ClassMember, error) {
	const query = `SELECT u.id, u.full_name, u.email FROM class_students cs
        JOIN users u ON u.id = cs.student_id WHERE cs.class_id = $1 ORDER BY u.full_name`
	var members []models.ClassMember
	if err := r.db.SelectContext(ctx, &members, query, classID); err != nil {
		return nil, fmt.Errorf("list class students: %w", err)
	}
	return members, nil
}

// IsEnrolled reports whether the student is already on the roster.
func (r *ClassRepository) IsEnrolled(ctx context.Context, classID, studentID string) (bool, error) {
	const query = `SELECT 1 FROM class_students WHERE class_id = $1 AND student_id = $2 LIMIT 1`
	var exists int
	if err := r.db.GetContext(ctx, &exists, query, classID, studentID); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check enrollment: %w", err)
	}
	return true, nil
}

// Enroll appends a student to the class roster. The UNIQUE(class_id,
// student_id) constraint keeps membership idempotent under races.
func (r *ClassRepository) Enroll(ctx context.Context, classID, studentID string) error {
	const query = `INSERT INTO class_students (class_id, student_id, joined_at) VALUES ($1, $2, $3)`
	if _, err := r.db.ExecContext(ctx, query, classID, studentID, time.Now().UTC()); err != nil {
		if IsUniqueViolation(err) {
			return err
		}
		return fmt.Errorf("enroll student: %w", err)
	}
	return nil
}

// ListByStudent returns the classes a student is enrolled in.
func (r *ClassRepository) ListByStudent(ctx context.Context, studentID string) ([]models.EnrolledClass, error) {
	const query = `SELECT c.id, c.name, c.subject, u.full_name AS teacher_name
        FROM class_students cs
        JOIN classes c ON c.id = cs.class_id
        JOIN users u ON u.id = c.teacher_id
        WHERE cs.student_id = $1 ORDER BY c.name`
	var classes []models.EnrolledClass
	if err := r.db.SelectContext(ctx, &classes, query, studentID); err != nil {
		return nil, fmt.Errorf("list enrolled classes: %w", err)
	}
	return classes, nil
}

// CountByTeacher returns how many classes a teacher owns.
func (r *ClassRepository) CountByTeacher(ctx context.Context, teacherID string) (int, error) {
	const query = `SELECT COUNT(*) FROM classes WHERE teacher_id = $1`
	var count int
	if err := r.db.GetContext(ctx, &count, query, teacherID); err != nil {
		return 0, fmt.Errorf("count teacher classes: %w", err)
	}
	return count, nil
}

// CountStudentsByTeacher sums enrolled students across a teacher's classes.
func (r *ClassRepository) CountStudentsByTeacher(ctx context.Context, teacherID string) (int, error) {
	const query = `SELECT COUNT(*) FROM class_students cs JOIN classes c ON c.id = cs.class_id WHERE c.teacher_id = $1`
	var count int
	if err := r.db.GetContext(ctx, &count, query, teacherID); err != nil {
		return 0, fmt.Errorf("count teacher students: %w", err)
	}
	return count, nil
}

// CountByStudent returns how many classes a student is enrolled in.
func (r *ClassRepository) CountByStudent(ctx context.Context, studentID string) (int, error) {
	const query = `SELECT COUNT(*) FROM class_students WHERE student_id = $1`
	var count int
	if err := r.db.GetContext(ctx, &count, query, studentID); err != nil {
		return 0, fmt.Errorf("count enrolled classes: %w", err)
	}
	return count, nil
}
