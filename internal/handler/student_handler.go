package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/classroom-api/internal/models"
	"github.com/noah-isme/classroom-api/internal/service"
	appErrors "github.com/noah-isme/classroom-api/pkg/errors"
	"github.com/noah-isme/classroom-api/pkg/response"
)

// StudentHandler serves the student-facing enrollment endpoints.
type StudentHandler struct {
	classes *service.ClassService
}

// NewStudentHandler creates a new handler.
func NewStudentHandler(classes *service.ClassService) *StudentHandler {
	return &StudentHandler{classes: classes}
}

// JoinClass godoc
// @Summary Join class
// @Description Enroll the calling student using a class share code
// @Tags Students
// @Accept json
// @Produce json
// @Param payload body models.JoinClassRequest true "Class code"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /student/classes/join [post]
func (h *StudentHandler) JoinClass(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req models.JoinClassRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "class code is required"))
		return
	}

	class, err := h.classes.Join(c.Request.Context(), claims.UserID, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, class, nil)
}

// EnrolledClasses godoc
// @Summary List enrolled classes
// @Description List the classes the calling student belongs to
// @Tags Students
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /student/classes [get]
func (h *StudentHandler) EnrolledClasses(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	classes, err := h.classes.EnrolledClasses(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, classes, nil)
}
