package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"violation-ledger/internal/model"
)

type ComplaintService struct {
	store    ComplaintStore
	notifier ChangeNotifier
	now      func() time.Time
}

func NewComplaintService(store ComplaintStore, notifier ChangeNotifier) *ComplaintService {
	return &ComplaintService{
		store:    store,
		notifier: notifier,
		now:      time.Now,
	}
}

type CreateComplaintInput struct {
	Title         string
	Description   string
	ReporterName  string
	ReporterPhone string
	Location      string
	PlateNumber   string
	ViolationID   *uuid.UUID
}

// Create files a complaint in the pending state. Complaints may arrive
// anonymously, so the principal is recorded only when identified.
func (s *ComplaintService) Create(ctx context.Context, principal model.Principal, input CreateComplaintInput) (*model.Complaint, error) {
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", ErrValidation)
	}
	description := strings.TrimSpace(input.Description)
	if description == "" {
		return nil, fmt.Errorf("%w: description is required", ErrValidation)
	}

	complaint := &model.Complaint{
		Title:         title,
		Description:   description,
		ReporterName:  strings.TrimSpace(input.ReporterName),
		ReporterPhone: strings.TrimSpace(input.ReporterPhone),
		Location:      strings.TrimSpace(input.Location),
		PlateNumber:   model.NormalizePlate(input.PlateNumber),
		ViolationID:   input.ViolationID,
		Status:        model.ComplaintStatusPending,
	}
	if principal.Identified() {
		userID := principal.UserID
		complaint.CreatedBy = &userID
	}

	if err := s.store.Create(ctx, complaint); err != nil {
		return nil, err
	}

	s.notify()
	return complaint, nil
}

func (s *ComplaintService) Get(ctx context.Context, id uuid.UUID) (*model.Complaint, error) {
	complaint, err := s.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return complaint, nil
}

func (s *ComplaintService) List(ctx context.Context, status *model.ComplaintStatus) ([]model.Complaint, error) {
	return s.store.List(ctx, status)
}

// UpdateStatus moves a complaint through review, refreshing updated_at and
// merging any extra reviewer fields into the update.
func (s *ComplaintService) UpdateStatus(ctx context.Context, id uuid.UUID, target model.ComplaintStatus, extra map[string]interface{}) error {
	if !target.Valid() {
		return fmt.Errorf("%w: unknown complaint status %q", ErrValidation, target)
	}

	if _, err := s.Get(ctx, id); err != nil {
		return err
	}

	payload := map[string]interface{}{
		"status":     target,
		"updated_at": s.now(),
	}
	for key, value := range extra {
		payload[key] = value
	}

	if err := s.store.UpdateStatus(ctx, id, payload); err != nil {
		return err
	}

	s.notify()
	return nil
}

func (s *ComplaintService) notify() {
	if s.notifier != nil {
		s.notifier.Notify()
	}
}
