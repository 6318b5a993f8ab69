package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"violation-ledger/internal/model"
)

type ComplaintRepository struct {
	db *gorm.DB
}

func NewComplaintRepository(db *gorm.DB) *ComplaintRepository {
	return &ComplaintRepository{db: db}
}

// List returns complaints newest first, optionally narrowed to one status.
func (r *ComplaintRepository) List(ctx context.Context, status *model.ComplaintStatus) ([]model.Complaint, error) {
	query := r.db.WithContext(ctx).Model(&model.Complaint{})
	if status != nil {
		query = query.Where("status = ?", *status)
	}

	var complaints []model.Complaint
	if err := query.
		Order("created_at DESC, id DESC").
		Limit(defaultListLimit).
		Find(&complaints).Error; err != nil {
		return nil, err
	}
	return complaints, nil
}

func (r *ComplaintRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Complaint, error) {
	var complaint model.Complaint
	if err := r.db.WithContext(ctx).
		First(&complaint, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &complaint, nil
}

func (r *ComplaintRepository) Create(ctx context.Context, complaint *model.Complaint) error {
	return r.db.WithContext(ctx).Create(complaint).Error
}

func (r *ComplaintRepository) UpdateStatus(ctx context.Context, id uuid.UUID, payload map[string]interface{}) error {
	return r.db.WithContext(ctx).
		Model(&model.Complaint{}).
		Where("id = ?", id).
		Updates(payload).Error
}
