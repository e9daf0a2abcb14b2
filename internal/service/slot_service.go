package service

import (
	"context"
	"fmt"
	"sort"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/signup-sheets-api/internal/dto"
	"github.com/noah-isme/signup-sheets-api/internal/models"
	appErrors "github.com/noah-isme/signup-sheets-api/pkg/errors"
)

const defaultMaxSlotsPerBatch = 100

// SlotService creates and reads slots.
type SlotService struct {
	store     stateStore
	validator *validator.Validate
	logger    *zap.Logger
	maxBatch  int
}

// NewSlotService constructs SlotService. maxBatch caps NumSlots per call.
func NewSlotService(store stateStore, maxBatch int, validate *validator.Validate, logger *zap.Logger) *SlotService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if maxBatch <= 0 {
		maxBatch = defaultMaxSlotsPerBatch
	}
	return &SlotService{store: store, validator: validate, logger: logger, maxBatch: maxBatch}
}

// CreateBatch appends NumSlots identical slots to the sheet. Every slot gets
// the same start; callers wanting staggered times issue one call per time.
func (s *SlotService) CreateBatch(ctx context.Context, sheetID int64, req dto.CreateSlotsRequest) ([]models.Slot, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err, "invalid slot payload")
	}
	if req.NumSlots > s.maxBatch {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("numSlots must not exceed %d", s.maxBatch))
	}
	start, err := models.ParseTimestamp(req.Start)
	if err != nil {
		return nil, appErrors.Validation(err, "invalid start")
	}

	created := make([]models.Slot, 0, req.NumSlots)
	err = s.store.Update(ctx, func(state *models.State) error {
		sheet, ok := state.FindSheet(sheetID)
		if !ok {
			return sheetNotFound()
		}
		for i := 0; i < req.NumSlots; i++ {
			slot := models.Slot{
				ID:       state.AllocateSlotID(),
				SheetID:  sheetID,
				Start:    start,
				Duration: req.SlotDuration,
				Capacity: req.MaxMembers,
				Signups:  []string{},
			}
			sheet.Slots = append(sheet.Slots, slot)
			created = append(created, slot.Clone())
		}
		return nil
	})
	if err != nil {
		return nil, storeError(err, "failed to create slots")
	}
	s.logger.Info("slots created",
		zap.Int64("sheet_id", sheetID),
		zap.Int("count", len(created)),
		zap.Int64("first_slot_id", created[0].ID),
	)
	return created, nil
}

// List returns the sheet's slots ordered by id.
func (s *SlotService) List(ctx context.Context, sheetID int64) ([]models.Slot, error) {
	var slots []models.Slot
	err := s.store.View(ctx, func(state *models.State) error {
		sheet, ok := state.FindSheet(sheetID)
		if !ok {
			return sheetNotFound()
		}
		slots = sheet.Slots
		return nil
	})
	if err != nil {
		return nil, storeError(err, "failed to list slots")
	}
	sort.Slice(slots, func(i, j int) bool { return slots[i].ID < slots[j].ID })
	return slots, nil
}

// Get returns a single slot.
func (s *SlotService) Get(ctx context.Context, slotID int64) (*models.Slot, error) {
	var slot models.Slot
	err := s.store.View(ctx, func(state *models.State) error {
		_, found, ok := state.FindSlot(slotID)
		if !ok {
			return slotNotFound()
		}
		slot = *found
		return nil
	})
	if err != nil {
		return nil, storeError(err, "failed to load slot")
	}
	return &slot, nil
}
