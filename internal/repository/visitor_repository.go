package repository

import (
	"context"

	"gorm.io/gorm"

	"violation-ledger/internal/model"
)

type VisitorRepository struct {
	db *gorm.DB
}

func NewVisitorRepository(db *gorm.DB) *VisitorRepository {
	return &VisitorRepository{db: db}
}

func (r *VisitorRepository) Create(ctx context.Context, visitor *model.Visitor) error {
	return r.db.WithContext(ctx).Create(visitor).Error
}

// FindByPlate returns the most recent visitor registration for a plate, or
// gorm.ErrRecordNotFound when the plate was never checked in.
func (r *VisitorRepository) FindByPlate(ctx context.Context, plate string) (*model.Visitor, error) {
	var visitor model.Visitor
	if err := r.db.WithContext(ctx).
		Where("plate_number = ?", model.NormalizePlate(plate)).
		Order("created_at DESC").
		First(&visitor).Error; err != nil {
		return nil, err
	}
	return &visitor, nil
}
