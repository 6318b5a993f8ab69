package repository

import (
	"context"

	"gorm.io/gorm"

	"violation-ledger/internal/model"
)

type HostRepository struct {
	db *gorm.DB
}

func NewHostRepository(db *gorm.DB) *HostRepository {
	return &HostRepository{db: db}
}

func (r *HostRepository) List(ctx context.Context) ([]model.Host, error) {
	var hosts []model.Host
	if err := r.db.WithContext(ctx).
		Order("name ASC").
		Find(&hosts).Error; err != nil {
		return nil, err
	}
	return hosts, nil
}

// Search does a name prefix scan using the same half-open range the
// violation location filter uses.
func (r *HostRepository) Search(ctx context.Context, prefix string) ([]model.Host, error) {
	var hosts []model.Host
	if err := r.db.WithContext(ctx).
		Where("name >= ? AND name < ?", prefix, PrefixUpperBound(prefix)).
		Order("name ASC").
		Find(&hosts).Error; err != nil {
		return nil, err
	}
	return hosts, nil
}
