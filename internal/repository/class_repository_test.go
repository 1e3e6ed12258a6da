package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/classroom-api/internal/models"
)

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, IsUniqueViolation(&pq.Error{Code: "23505"}))
	assert.False(t, IsUniqueViolation(&pq.Error{Code: "23503"}))
	assert.False(t, IsUniqueViolation(errors.New("plain")))
	assert.False(t, IsUniqueViolation(nil))
}

func TestClassFindByCode(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewClassRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "name", "subject", "description", "schedule", "code", "teacher_id", "created_at", "updated_at"}).
		AddRow("c1", "Math", "Algebra", "", "", "MATH01", "t1", now, now)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name, subject, description, schedule, code, teacher_id, created_at, updated_at FROM classes WHERE code = $1")).
		WithArgs("MATH01").
		WillReturnRows(rows)

	class, err := repo.FindByCode(context.Background(), "MATH01")
	require.NoError(t, err)
	assert.Equal(t, "c1", class.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClassFindByCodeMissing(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewClassRepository(db)

	mock.ExpectQuery("SELECT id, name, subject").WithArgs("NOPE").WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByCode(context.Background(), "NOPE")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestClassEnrollPassesThroughUniqueViolation(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewClassRepository(db)

	mock.ExpectExec("INSERT INTO class_students").
		WithArgs("c1", "s1", sqlmock.AnyArg()).
		WillReturnError(&pq.Error{Code: "23505"})

	err := repo.Enroll(context.Background(), "c1", "s1")
	require.Error(t, err)
	assert.True(t, IsUniqueViolation(err))
}

func TestClassListFiltersByTeacher(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewClassRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "name", "subject", "description", "schedule", "code", "teacher_id", "created_at", "updated_at", "teacher_name", "teacher_email", "student_count"}).
		AddRow("c1", "Math", "Algebra", "", "", "MATH01", "t1", now, now, "Pat", "pat@example.com", 12)
	mock.ExpectQuery("SELECT c.id, c.name, c.subject").
		WithArgs("t1").
		WillReturnRows(rows)

	classes, err := repo.List(context.Background(), models.ClassFilter{TeacherID: "t1"})
	require.NoError(t, err)
	require.Len(t, classes, 1)
	assert.Equal(t, "Pat", classes[0].TeacherName)
	assert.Equal(t, 12, classes[0].StudentCount)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClassCountStudentsByTeacher(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewClassRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM class_students cs JOIN classes c ON c.id = cs.class_id WHERE c.teacher_id = $1")).
		WithArgs("t1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(42))

	count, err := repo.CountStudentsByTeacher(context.Background(), "t1")
	require.NoError(t, err)
	assert.Equal(t, 42, count)
}
