package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"violation-ledger/internal/model"
)

type VisitorService struct {
	store VisitorStore
	now   func() time.Time
}

func NewVisitorService(store VisitorStore) *VisitorService {
	return &VisitorService{store: store, now: time.Now}
}

type CreateVisitorInput struct {
	Name            string
	HostID          string
	HostName        string
	PlateNumber     string
	VehicleCategory string
	GpsID           string
}

// Create records a visitor check-in. Guard identity is required; the record
// is immutable afterwards.
func (s *VisitorService) Create(ctx context.Context, principal model.Principal, input CreateVisitorInput) (*model.Visitor, error) {
	if !principal.Identified() {
		return nil, ErrNotAuthenticated
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: visitor name is required", ErrValidation)
	}
	plate := model.NormalizePlate(input.PlateNumber)
	if plate == "" {
		return nil, fmt.Errorf("%w: plate number is required", ErrValidation)
	}
	if strings.TrimSpace(input.HostID) == "" {
		return nil, fmt.Errorf("%w: host is required", ErrValidation)
	}

	visitor := &model.Visitor{
		Name:            name,
		HostID:          strings.TrimSpace(input.HostID),
		HostName:        strings.TrimSpace(input.HostName),
		PlateNumber:     plate,
		VehicleCategory: strings.TrimSpace(input.VehicleCategory),
		GpsID:           strings.TrimSpace(input.GpsID),
		CreatedBy:       principal.UserID,
	}

	if err := s.store.Create(ctx, visitor); err != nil {
		return nil, err
	}
	return visitor, nil
}
