package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/classroom-api/internal/middleware"
	"github.com/noah-isme/classroom-api/internal/models"
	"github.com/noah-isme/classroom-api/internal/service"
)

type stubAttendanceRepo struct {
	history []models.StudentAttendanceDay
}

func (s *stubAttendanceRepo) FindByClassAndDate(context.Context, string, time.Time) (*models.Attendance, error) {
	return nil, nil
}

func (s *stubAttendanceRepo) Create(context.Context, *models.Attendance, []models.AttendanceEntry) error {
	return nil
}

func (s *stubAttendanceRepo) ReplaceEntries(context.Context, string, string, []models.AttendanceEntry) error {
	return nil
}

func (s *stubAttendanceRepo) Entries(context.Context, string) ([]models.AttendanceEntryDetail, error) {
	return nil, nil
}

func (s *stubAttendanceRepo) ListByClass(context.Context, string, *time.Time) ([]models.Attendance, error) {
	return nil, nil
}

func (s *stubAttendanceRepo) StudentHistory(context.Context, string) ([]models.StudentAttendanceDay, error) {
	return s.history, nil
}

type stubClassLookup struct{}

func (stubClassLookup) FindByID(context.Context, string) (*models.Class, error) {
	return &models.Class{ID: "c1"}, nil
}

func TestAttendanceHandlerClassAttendanceInvalidDate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewAttendanceHandler(nil, nil)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/attendance/class/c1?date=99-99-9999", nil)
	c.Params = gin.Params{{Key: "classId", Value: "c1"}}

	handler.ClassAttendance(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAttendanceHandlerMarkRequiresClaims(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewAttendanceHandler(nil, nil)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/attendance", nil)

	handler.Mark(c)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAttendanceHandlerExportRejectsUnknownFormat(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewAttendanceHandler(nil, nil)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/attendance/class/c1/export?format=xlsx", nil)
	c.Params = gin.Params{{Key: "classId", Value: "c1"}}

	handler.Export(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAttendanceHandlerStudentReport(t *testing.T) {
	gin.SetMode(gin.TestMode)
	repo := &stubAttendanceRepo{history: []models.StudentAttendanceDay{
		{Status: models.AttendanceStatusPresent, ClassName: "Math"},
		{Status: models.AttendanceStatusAbsent, ClassName: "Math"},
	}}
	svc := service.NewAttendanceService(repo, stubClassLookup{}, nil, nil)
	handler := NewAttendanceHandler(svc, nil)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/attendance/student", nil)
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "student-1", Role: models.RoleStudent})

	handler.StudentReport(c)

	require.Equal(t, http.StatusOK, rec.Code)

	var envelope struct {
		Data models.StudentAttendanceReport `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, 2, envelope.Data.Stats.TotalClasses)
	assert.Equal(t, 1, envelope.Data.Stats.Attended)
	assert.Equal(t, 50, envelope.Data.Stats.Rate)
}
