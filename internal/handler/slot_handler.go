package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/signup-sheets-api/internal/dto"
	"github.com/noah-isme/signup-sheets-api/internal/models"
	"github.com/noah-isme/signup-sheets-api/pkg/response"
)

type signupService interface {
	Signup(ctx context.Context, slotID int64, req dto.SignupRequest) (*models.Slot, error)
	Withdraw(ctx context.Context, slotID int64, memberID string) (*models.Slot, error)
}

// SlotHandler exposes single-slot reads and the sign-up ledger.
type SlotHandler struct {
	slots   slotService
	signups signupService
}

// NewSlotHandler constructs a slot handler.
func NewSlotHandler(slots slotService, signups signupService) *SlotHandler {
	return &SlotHandler{slots: slots, signups: signups}
}

// Get godoc
// @Summary Get slot
// @Tags Slots
// @Produce json
// @Param slotId path int true "Slot ID"
// @Success 200 {object} response.Envelope
// @Router /slots/{slotId} [get]
func (h *SlotHandler) Get(c *gin.Context) {
	id, ok := idParam(c, "slotId")
	if !ok {
		return
	}
	slot, err := h.slots.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, slot)
}

// Signup godoc
// @Summary Sign a member up for a slot
// @Tags Signups
// @Accept json
// @Produce json
// @Param slotId path int true "Slot ID"
// @Param payload body dto.SignupRequest true "Member"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope "invalid member, already signed up or slot full"
// @Failure 404 {object} response.Envelope
// @Router /slots/{slotId}/signup [post]
func (h *SlotHandler) Signup(c *gin.Context) {
	id, ok := idParam(c, "slotId")
	if !ok {
		return
	}
	var req dto.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidPayload(c, err)
		return
	}
	slot, err := h.signups.Signup(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, http.StatusCreated, gin.H{"slot": slot})
}

// Withdraw godoc
// @Summary Withdraw a member from a slot
// @Tags Signups
// @Produce json
// @Param slotId path int true "Slot ID"
// @Param memberId path string true "Member ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope "not signed up"
// @Router /slots/{slotId}/signup/{memberId} [delete]
func (h *SlotHandler) Withdraw(c *gin.Context) {
	id, ok := idParam(c, "slotId")
	if !ok {
		return
	}
	slot, err := h.signups.Withdraw(c.Request.Context(), id, c.Param("memberId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, http.StatusOK, gin.H{"slot": slot})
}
