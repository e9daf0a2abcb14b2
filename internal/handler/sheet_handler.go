package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/signup-sheets-api/internal/dto"
	"github.com/noah-isme/signup-sheets-api/internal/models"
	"github.com/noah-isme/signup-sheets-api/internal/service"
	"github.com/noah-isme/signup-sheets-api/pkg/response"
)

type sheetService interface {
	Create(ctx context.Context, courseID int64, req dto.CreateSheetRequest) (*models.Sheet, error)
	List(ctx context.Context, courseID int64) ([]models.Sheet, error)
	Get(ctx context.Context, id int64) (*models.Sheet, error)
	Delete(ctx context.Context, id int64) error
}

type slotService interface {
	CreateBatch(ctx context.Context, sheetID int64, req dto.CreateSlotsRequest) ([]models.Slot, error)
	List(ctx context.Context, sheetID int64) ([]models.Slot, error)
	Get(ctx context.Context, slotID int64) (*models.Slot, error)
}

type exportService interface {
	ExportSheet(ctx context.Context, sheetID int64, format string) (*service.ExportResult, error)
}

// SheetHandler exposes sheets, their slot batches and exports.
type SheetHandler struct {
	sheets  sheetService
	slots   slotService
	exports exportService
}

// NewSheetHandler constructs a sheet handler.
func NewSheetHandler(sheets sheetService, slots slotService, exports exportService) *SheetHandler {
	return &SheetHandler{sheets: sheets, slots: slots, exports: exports}
}

// Create godoc
// @Summary Create sheet under a course
// @Tags Sheets
// @Accept json
// @Produce json
// @Param courseId path int true "Course ID"
// @Param payload body dto.CreateSheetRequest true "Sheet payload"
// @Success 201 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /courses/{courseId}/sheets [post]
func (h *SheetHandler) Create(c *gin.Context) {
	courseID, ok := idParam(c, "courseId")
	if !ok {
		return
	}
	var req dto.CreateSheetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidPayload(c, err)
		return
	}
	sheet, err := h.sheets.Create(c.Request.Context(), courseID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, sheet)
}

// List godoc
// @Summary List sheets of a course
// @Tags Sheets
// @Produce json
// @Param courseId path int true "Course ID"
// @Success 200 {object} response.Envelope
// @Router /courses/{courseId}/sheets [get]
func (h *SheetHandler) List(c *gin.Context) {
	courseID, ok := idParam(c, "courseId")
	if !ok {
		return
	}
	sheets, err := h.sheets.List(c.Request.Context(), courseID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, sheets)
}

// Get godoc
// @Summary Get sheet
// @Tags Sheets
// @Produce json
// @Param id path int true "Sheet ID"
// @Success 200 {object} response.Envelope
// @Router /sheets/{id} [get]
func (h *SheetHandler) Get(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	sheet, err := h.sheets.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, sheet)
}

// Delete godoc
// @Summary Delete sheet with its slots and grades
// @Tags Sheets
// @Produce json
// @Param id path int true "Sheet ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /sheets/{id} [delete]
func (h *SheetHandler) Delete(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.sheets.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, http.StatusOK, nil)
}

// CreateSlots godoc
// @Summary Create a batch of identical slots
// @Tags Slots
// @Accept json
// @Produce json
// @Param id path int true "Sheet ID"
// @Param payload body dto.CreateSlotsRequest true "Batch"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /sheets/{id}/slots [post]
func (h *SheetHandler) CreateSlots(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req dto.CreateSlotsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidPayload(c, err)
		return
	}
	slots, err := h.slots.CreateBatch(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, slots)
}

// ListSlots godoc
// @Summary List slots of a sheet
// @Tags Slots
// @Produce json
// @Param id path int true "Sheet ID"
// @Success 200 {object} response.Envelope
// @Router /sheets/{id}/slots [get]
func (h *SheetHandler) ListSlots(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	slots, err := h.slots.List(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, slots)
}

// Export godoc
// @Summary Download sheet roster
// @Tags Sheets
// @Produce text/csv
// @Produce application/pdf
// @Param id path int true "Sheet ID"
// @Param format query string false "csv or pdf" default(csv)
// @Success 200 {file} file
// @Router /sheets/{id}/export [get]
func (h *SheetHandler) Export(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	result, err := h.exports.ExportSheet(c.Request.Context(), id, c.Query("format"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, result.Filename, result.ContentType, result.Body)
}
