package service

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/signup-sheets-api/internal/dto"
	"github.com/noah-isme/signup-sheets-api/internal/models"
	appErrors "github.com/noah-isme/signup-sheets-api/pkg/errors"
)

// Signup outcomes reported to the recorder.
const (
	SignupOutcomeAccepted  = "accepted"
	SignupOutcomeWithdrawn = "withdrawn"
	SignupOutcomeFull      = "full"
	SignupOutcomeDuplicate = "duplicate"
	SignupOutcomeRejected  = "rejected"
)

type signupRecorder interface {
	RecordSignup(outcome string)
}

// SignupService reserves and releases seats in slots.
type SignupService struct {
	store     stateStore
	validator *validator.Validate
	logger    *zap.Logger
	recorder  signupRecorder
}

// NewSignupService constructs SignupService. recorder may be nil.
func NewSignupService(store stateStore, recorder signupRecorder, validate *validator.Validate, logger *zap.Logger) *SignupService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SignupService{store: store, validator: validate, logger: logger, recorder: recorder}
}

// Signup adds the member to the slot. The capacity check and the append run
// in one transaction, so concurrent callers can never overfill a slot.
func (s *SignupService) Signup(ctx context.Context, slotID int64, req dto.SignupRequest) (*models.Slot, error) {
	req.MemberID = strings.TrimSpace(req.MemberID)
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err, "invalid signup payload")
	}

	var updated models.Slot
	err := s.store.Update(ctx, func(state *models.State) error {
		sheet, slot, ok := state.FindSlot(slotID)
		if !ok {
			return slotNotFound()
		}
		if _, err := rosterOf(state, sheet, req.MemberID); err != nil {
			return err
		}
		if slot.HasSignup(req.MemberID) {
			return appErrors.Clone(appErrors.ErrConflict, "already signed up")
		}
		if slot.Full() {
			return appErrors.Clone(appErrors.ErrCapacityExceeded, "slot full")
		}
		slot.Signups = append(slot.Signups, req.MemberID)
		updated = slot.Clone()
		return nil
	})
	s.record(err)
	if err != nil {
		return nil, storeError(err, "failed to sign up")
	}
	s.logger.Info("member signed up",
		zap.Int64("slot_id", slotID),
		zap.String("member_id", req.MemberID),
		zap.Int("remaining", updated.Remaining()),
	)
	return &updated, nil
}

// Withdraw removes the member from the slot. Withdrawing a member who holds
// no seat is an error, including a repeated withdraw.
func (s *SignupService) Withdraw(ctx context.Context, slotID int64, memberID string) (*models.Slot, error) {
	var updated models.Slot
	err := s.store.Update(ctx, func(state *models.State) error {
		_, slot, ok := state.FindSlot(slotID)
		if !ok {
			return slotNotFound()
		}
		if !slot.RemoveSignup(memberID) {
			return appErrors.Clone(appErrors.ErrNotFound, "member not signed up")
		}
		updated = slot.Clone()
		return nil
	})
	if err != nil {
		return nil, storeError(err, "failed to withdraw")
	}
	if s.recorder != nil {
		s.recorder.RecordSignup(SignupOutcomeWithdrawn)
	}
	s.logger.Info("member withdrawn", zap.Int64("slot_id", slotID), zap.String("member_id", memberID))
	return &updated, nil
}

func (s *SignupService) record(err error) {
	if s.recorder == nil {
		return
	}
	switch {
	case err == nil:
		s.recorder.RecordSignup(SignupOutcomeAccepted)
	case errors.Is(err, appErrors.ErrCapacityExceeded):
		s.recorder.RecordSignup(SignupOutcomeFull)
	case errors.Is(err, appErrors.ErrConflict):
		s.recorder.RecordSignup(SignupOutcomeDuplicate)
	default:
		s.recorder.RecordSignup(SignupOutcomeRejected)
	}
}
