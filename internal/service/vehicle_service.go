package service

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"violation-ledger/internal/model"
	"violation-ledger/internal/repository"
)

// VehicleService answers plate lookups by joining the visitor register with
// the violation history for that plate.
type VehicleService struct {
	visitors   VisitorStore
	violations ViolationStore
	hosts      HostStore
}

func NewVehicleService(visitors VisitorStore, violations ViolationStore, hosts HostStore) *VehicleService {
	return &VehicleService{
		visitors:   visitors,
		violations: violations,
		hosts:      hosts,
	}
}

// SearchByPlate builds the full picture for a plate: registration, violation
// history and the best-known host contact. ErrNotFound when the plate has
// neither a visitor record nor any violations.
func (s *VehicleService) SearchByPlate(ctx context.Context, plate string) (*model.VehicleInfo, error) {
	normalized := model.NormalizePlate(plate)

	visitor, err := s.visitors.FindByPlate(ctx, normalized)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	violations, err := s.violations.List(ctx, repository.ViolationFilter{PlateNumber: normalized})
	if err != nil {
		return nil, err
	}

	if visitor == nil && len(violations) == 0 {
		return nil, ErrNotFound
	}

	info := &model.VehicleInfo{
		PlateNumber:    normalized,
		Visitor:        visitor,
		Violations:     violations,
		ViolationCount: len(violations),
	}

	if visitor != nil {
		info.OwnerName = visitor.Name
		info.VehicleCategory = visitor.VehicleCategory
		info.GpsID = visitor.GpsID
		info.HostID = visitor.HostID
		info.HostName = visitor.HostName
	}

	// Fall back to the most recent violation that knew the host.
	if info.HostName == "" {
		if contact := hostFromViolations(violations); !contact.Empty() {
			info.HostContact = contact
		}
	}

	return info, nil
}

// HostByPlate resolves just the host contact for a plate, preferring the
// visitor register over violation history.
func (s *VehicleService) HostByPlate(ctx context.Context, plate string) (*model.HostContact, error) {
	normalized := model.NormalizePlate(plate)

	visitor, err := s.visitors.FindByPlate(ctx, normalized)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if visitor != nil {
		return &model.HostContact{
			HostID:   visitor.HostID,
			HostName: visitor.HostName,
		}, nil
	}

	violations, err := s.violations.List(ctx, repository.ViolationFilter{PlateNumber: normalized})
	if err != nil {
		return nil, err
	}
	if contact := hostFromViolations(violations); !contact.Empty() {
		return &contact, nil
	}

	return nil, ErrNotFound
}

func (s *VehicleService) ListHosts(ctx context.Context) ([]model.Host, error) {
	return s.hosts.List(ctx)
}

func (s *VehicleService) SearchHosts(ctx context.Context, prefix string) ([]model.Host, error) {
	if prefix == "" {
		return s.hosts.List(ctx)
	}
	return s.hosts.Search(ctx, prefix)
}

func hostFromViolations(violations []model.Violation) model.HostContact {
	for _, v := range violations {
		if v.HostID != "" || v.HostName != "" {
			return model.HostContact{
				HostID:    v.HostID,
				HostName:  v.HostName,
				HostPhone: v.HostPhone,
			}
		}
	}
	return model.HostContact{}
}
