package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/signup-sheets-api/internal/dto"
	"github.com/noah-isme/signup-sheets-api/internal/models"
	"github.com/noah-isme/signup-sheets-api/pkg/response"
)

type gradeService interface {
	Submit(ctx context.Context, req dto.GradeRequest) (*models.GradeSubmission, error)
	List(ctx context.Context, sheetID int64) ([]models.Grade, error)
	Delete(ctx context.Context, sheetID int64, memberID string) error
}

// GradeHandler exposes the grade ledger.
type GradeHandler struct {
	service gradeService
}

// NewGradeHandler constructs a grade handler.
func NewGradeHandler(svc gradeService) *GradeHandler {
	return &GradeHandler{service: svc}
}

// Submit godoc
// @Summary Submit or merge a grade
// @Description The first submission creates the grade (201). Later submissions overwrite the value, append the comment and return the previous value as old (200).
// @Tags Grades
// @Accept json
// @Produce json
// @Param payload body dto.GradeRequest true "Grade"
// @Success 200 {object} response.Envelope
// @Success 201 {object} response.Envelope
// @Router /grades [post]
func (h *GradeHandler) Submit(c *gin.Context) {
	var req dto.GradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidPayload(c, err)
		return
	}
	h.submit(c, req)
}

// SubmitForSheet godoc
// @Summary Submit or merge a grade on a sheet
// @Tags Grades
// @Accept json
// @Produce json
// @Param id path int true "Sheet ID"
// @Param payload body dto.GradeRequest true "Grade"
// @Success 200 {object} response.Envelope
// @Success 201 {object} response.Envelope
// @Router /sheets/{id}/grades [post]
func (h *GradeHandler) SubmitForSheet(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req dto.GradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidPayload(c, err)
		return
	}
	req.SheetID = id
	h.submit(c, req)
}

func (h *GradeHandler) submit(c *gin.Context, req dto.GradeRequest) {
	result, err := h.service.Submit(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	status := http.StatusOK
	if result.Created {
		status = http.StatusCreated
	}
	response.JSON(c, status, result)
}

// List godoc
// @Summary List grades of a sheet
// @Tags Grades
// @Produce json
// @Param id path int true "Sheet ID"
// @Success 200 {object} response.Envelope
// @Router /sheets/{id}/grades [get]
func (h *GradeHandler) List(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	grades, err := h.service.List(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, grades)
}

// Delete godoc
// @Summary Delete a member's grade on a sheet
// @Tags Grades
// @Produce json
// @Param id path int true "Sheet ID"
// @Param memberId path string true "Member ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /sheets/{id}/grades/{memberId} [delete]
func (h *GradeHandler) Delete(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), id, c.Param("memberId")); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, http.StatusOK, nil)
}
