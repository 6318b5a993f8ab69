package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"violation-ledger/internal/model"
)

const defaultListLimit = 200

type ViolationRepository struct {
	db *gorm.DB
}

func NewViolationRepository(db *gorm.DB) *ViolationRepository {
	return &ViolationRepository{db: db}
}

// List returns a point-in-time read of all violations matching the filter,
// newest first. Ties on detected_at break on id descending so ordering is
// stable across reads.
func (r *ViolationRepository) List(ctx context.Context, filter ViolationFilter) ([]model.Violation, error) {
	query := filter.Apply(r.db.WithContext(ctx).Model(&model.Violation{}))

	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	} else {
		query = query.Limit(defaultListLimit)
	}

	var violations []model.Violation
	if err := query.
		Order("violations.detected_at DESC, violations.id DESC").
		Find(&violations).Error; err != nil {
		return nil, err
	}
	return violations, nil
}

func (r *ViolationRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Violation, error) {
	var violation model.Violation
	if err := r.db.WithContext(ctx).
		First(&violation, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &violation, nil
}

func (r *ViolationRepository) Create(ctx context.Context, violation *model.Violation) error {
	return r.db.WithContext(ctx).Create(violation).Error
}

// UpdateStatus writes a transition payload built by lifecycle.Apply. The
// payload is persisted as-is; only the columns it names change.
func (r *ViolationRepository) UpdateStatus(ctx context.Context, id uuid.UUID, payload map[string]interface{}) error {
	return r.db.WithContext(ctx).
		Model(&model.Violation{}).
		Where("id = ?", id).
		Updates(payload).Error
}

func (r *ViolationRepository) LogStatusChange(ctx context.Context, logEntry *model.ViolationStatusLog) error {
	return r.db.WithContext(ctx).Create(logEntry).Error
}
