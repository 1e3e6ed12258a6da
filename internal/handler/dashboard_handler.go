package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/classroom-api/internal/service"
	appErrors "github.com/noah-isme/classroom-api/pkg/errors"
	"github.com/noah-isme/classroom-api/pkg/response"
)

// DashboardHandler serves the role dashboards and per-role assignment lists.
type DashboardHandler struct {
	dashboards  *service.DashboardService
	assignments *service.AssignmentService
}

// NewDashboardHandler creates a new handler.
func NewDashboardHandler(dashboards *service.DashboardService, assignments *service.AssignmentService) *DashboardHandler {
	return &DashboardHandler{dashboards: dashboards, assignments: assignments}
}

// Teacher godoc
// @Summary Teacher dashboard
// @Description Derived from live data on every request
// @Tags Dashboards
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /teacher/dashboard [get]
func (h *DashboardHandler) Teacher(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	dashboard, err := h.dashboards.Teacher(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dashboard, nil)
}

// TeacherAssignments godoc
// @Summary Teacher assignments
// @Description Assignments across the caller's owned classes
// @Tags Dashboards
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /teacher/assignments [get]
func (h *DashboardHandler) TeacherAssignments(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	assignments, err := h.assignments.ListByTeacher(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, assignments, nil)
}

// Student godoc
// @Summary Student dashboard
// @Description Derived from live data on every request
// @Tags Dashboards
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /student/dashboard [get]
func (h *DashboardHandler) Student(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	dashboard, err := h.dashboards.Student(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dashboard, nil)
}

// StudentAssignments godoc
// @Summary Student assignments
// @Description Assignments across the caller's enrolled classes
// @Tags Dashboards
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /student/assignments [get]
func (h *DashboardHandler) StudentAssignments(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	assignments, err := h.assignments.ListByStudent(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, assignments, nil)
}
