package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"violation-ledger/internal/lifecycle"
	"violation-ledger/internal/model"
	"violation-ledger/internal/repository"
)

var activeStatuses = []model.ViolationStatus{
	model.ViolationStatusEscalated,
	model.ViolationStatusPending,
}

var liveStatuses = []model.ViolationStatus{
	model.ViolationStatusWarningSent,
	model.ViolationStatusPending,
	model.ViolationStatusEscalated,
}

type ViolationService struct {
	store    ViolationStore
	notifier ChangeNotifier
	now      func() time.Time
}

func NewViolationService(store ViolationStore, notifier ChangeNotifier) *ViolationService {
	return &ViolationService{
		store:    store,
		notifier: notifier,
		now:      time.Now,
	}
}

type CreateViolationInput struct {
	PlateNumber   string
	Location      string
	ViolationType string
	GpsID         string
	GeofenceZone  string
	HostID        string
	HostName      string
	HostPhone     string
	PhotoURL      string
	Notes         string
}

// Create registers a new violation in the pending state. The reporting actor
// must be identified; plate and location are the only required fields.
func (s *ViolationService) Create(ctx context.Context, principal model.Principal, input CreateViolationInput) (*model.Violation, error) {
	if !principal.Identified() {
		return nil, ErrNotAuthenticated
	}

	plate := model.NormalizePlate(input.PlateNumber)
	if plate == "" {
		return nil, fmt.Errorf("%w: plate number is required", ErrValidation)
	}
	location := strings.TrimSpace(input.Location)
	if location == "" {
		return nil, fmt.Errorf("%w: location is required", ErrValidation)
	}

	violation := &model.Violation{
		PlateNumber:   plate,
		Location:      location,
		GpsID:         strings.TrimSpace(input.GpsID),
		GeofenceZone:  strings.TrimSpace(input.GeofenceZone),
		Status:        model.ViolationStatusPending,
		DetectedAt:    s.now(),
		HostID:        strings.TrimSpace(input.HostID),
		HostName:      strings.TrimSpace(input.HostName),
		HostPhone:     strings.TrimSpace(input.HostPhone),
		ViolationType: strings.TrimSpace(input.ViolationType),
		PhotoURL:      input.PhotoURL,
		Notes:         strings.TrimSpace(input.Notes),
		CreatedBy:     principal.UserID,
		TicketIssued:  false,
	}

	if err := s.store.Create(ctx, violation); err != nil {
		return nil, err
	}

	if err := s.store.LogStatusChange(ctx, &model.ViolationStatusLog{
		ViolationID: violation.ID,
		NewStatus:   model.ViolationStatusPending,
		Note:        "reported",
		ChangedBy:   &principal.UserID,
	}); err != nil {
		return nil, err
	}

	s.notify()
	return violation, nil
}

func (s *ViolationService) Get(ctx context.Context, id uuid.UUID) (*model.Violation, error) {
	violation, err := s.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return violation, nil
}

func (s *ViolationService) List(ctx context.Context, filter repository.ViolationFilter) ([]model.Violation, error) {
	return s.store.List(ctx, filter)
}

// ActiveAlerts returns the escalated and pending violations, newest first.
func (s *ViolationService) ActiveAlerts(ctx context.Context) ([]model.Violation, error) {
	return s.store.List(ctx, repository.ViolationFilter{Statuses: activeStatuses})
}

// LiveBoard returns the non-terminal violations grouped into dashboard
// sections (escalated first, then warning_sent, then pending).
func (s *ViolationService) LiveBoard(ctx context.Context) ([]lifecycle.Section, error) {
	violations, err := s.store.List(ctx, repository.ViolationFilter{Statuses: liveStatuses})
	if err != nil {
		return nil, err
	}
	return lifecycle.GroupByStatus(violations), nil
}

// RepeatOffenders recomputes the plate groups with at least minCount
// violations from the current violation set.
func (s *ViolationService) RepeatOffenders(ctx context.Context, minCount int) (map[string][]model.Violation, error) {
	violations, err := s.store.List(ctx, repository.ViolationFilter{})
	if err != nil {
		return nil, err
	}
	return lifecycle.RepeatOffenders(violations, minCount), nil
}

// UpdateStatus moves a violation to target and stamps the matching
// transition timestamp. Extra fields are merged into the update verbatim.
// Transitions are deliberately permissive: any valid status may be written
// regardless of the current one, and the actor need not be identified.
func (s *ViolationService) UpdateStatus(ctx context.Context, principal model.Principal, id uuid.UUID, target model.ViolationStatus, extra map[string]interface{}) error {
	payload, err := lifecycle.Apply(target, s.now(), extra)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}

	violation, err := s.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	if err := s.store.UpdateStatus(ctx, violation.ID, payload); err != nil {
		return err
	}

	logEntry := &model.ViolationStatusLog{
		ViolationID: violation.ID,
		OldStatus:   &violation.Status,
		NewStatus:   target,
	}
	if principal.Identified() {
		logEntry.ChangedBy = &principal.UserID
	}
	if err := s.store.LogStatusChange(ctx, logEntry); err != nil {
		return err
	}

	s.notify()
	return nil
}

func (s *ViolationService) notify() {
	if s.notifier != nil {
		s.notifier.Notify()
	}
}
