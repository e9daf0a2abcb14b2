package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/signup-sheets-api/internal/dto"
	"github.com/noah-isme/signup-sheets-api/internal/models"
	"github.com/noah-isme/signup-sheets-api/pkg/response"
)

type courseService interface {
	Create(ctx context.Context, req dto.CreateCourseRequest) (*models.Course, error)
	List(ctx context.Context) ([]models.Course, error)
	Get(ctx context.Context, id int64) (*models.Course, error)
	Delete(ctx context.Context, id int64) error
	ListMembers(ctx context.Context, courseID int64) ([]models.Member, error)
	AddMembers(ctx context.Context, courseID int64, req dto.AddMembersRequest) (*models.AddMembersResult, error)
	RemoveMember(ctx context.Context, courseID int64, memberID string) error
}

// CourseHandler exposes course and roster endpoints.
type CourseHandler struct {
	service courseService
}

// NewCourseHandler constructs a course handler.
func NewCourseHandler(svc courseService) *CourseHandler {
	return &CourseHandler{service: svc}
}

// List godoc
// @Summary List courses
// @Tags Courses
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /courses [get]
func (h *CourseHandler) List(c *gin.Context) {
	courses, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, courses)
}

// Create godoc
// @Summary Create course
// @Tags Courses
// @Accept json
// @Produce json
// @Param payload body dto.CreateCourseRequest true "Course payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /courses [post]
func (h *CourseHandler) Create(c *gin.Context) {
	var req dto.CreateCourseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidPayload(c, err)
		return
	}
	course, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, course)
}

// Get godoc
// @Summary Get course with roster
// @Tags Courses
// @Produce json
// @Param courseId path int true "Course ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /courses/{courseId} [get]
func (h *CourseHandler) Get(c *gin.Context) {
	id, ok := idParam(c, "courseId")
	if !ok {
		return
	}
	course, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, course)
}

// Delete godoc
// @Summary Delete course with its sheets and grades
// @Tags Courses
// @Produce json
// @Param courseId path int true "Course ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /courses/{courseId} [delete]
func (h *CourseHandler) Delete(c *gin.Context) {
	id, ok := idParam(c, "courseId")
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, http.StatusOK, nil)
}

// ListMembers godoc
// @Summary List course roster
// @Tags Courses
// @Produce json
// @Param courseId path int true "Course ID"
// @Success 200 {object} response.Envelope
// @Router /courses/{courseId}/members [get]
func (h *CourseHandler) ListMembers(c *gin.Context) {
	id, ok := idParam(c, "courseId")
	if !ok {
		return
	}
	members, err := h.service.ListMembers(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, members)
}

// AddMembers godoc
// @Summary Bulk add roster members
// @Description Accepts either {"members": [...]} or a bare array. Existing ids and names are reported as ignored.
// @Tags Courses
// @Accept json
// @Produce json
// @Param courseId path int true "Course ID"
// @Param payload body dto.AddMembersRequest true "Members"
// @Success 200 {object} response.Envelope
// @Router /courses/{courseId}/members [post]
func (h *CourseHandler) AddMembers(c *gin.Context) {
	id, ok := idParam(c, "courseId")
	if !ok {
		return
	}
	req, err := decodeMembers(c)
	if err != nil {
		invalidPayload(c, err)
		return
	}
	result, err := h.service.AddMembers(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result)
}

// RemoveMember godoc
// @Summary Remove a member from the roster
// @Tags Courses
// @Produce json
// @Param courseId path int true "Course ID"
// @Param memberId path string true "Member ID"
// @Success 200 {object} response.Envelope
// @Router /courses/{courseId}/members/{memberId} [delete]
func (h *CourseHandler) RemoveMember(c *gin.Context) {
	id, ok := idParam(c, "courseId")
	if !ok {
		return
	}
	if err := h.service.RemoveMember(c.Request.Context(), id, c.Param("memberId")); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, http.StatusOK, nil)
}

func decodeMembers(c *gin.Context) (dto.AddMembersRequest, error) {
	var req dto.AddMembersRequest
	raw, err := c.GetRawData()
	if err != nil {
		return req, err
	}
	raw = bytes.TrimSpace(raw)
	if len(raw) > 0 && raw[0] == '[' {
		err = json.Unmarshal(raw, &req.Members)
	} else {
		err = json.Unmarshal(raw, &req)
	}
	return req, err
}
