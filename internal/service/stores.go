package service

import (
	"context"

	"github.com/google/uuid"

	"violation-ledger/internal/model"
	"violation-ledger/internal/repository"
)

// Storage contracts the services depend on. The gorm repositories satisfy
// them in production; tests plug in in-memory fakes. Every read is a fresh
// point-in-time snapshot and every write targets a single entity, so no
// transaction discipline is required of implementations.

type ViolationStore interface {
	Create(ctx context.Context, violation *model.Violation) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Violation, error)
	List(ctx context.Context, filter repository.ViolationFilter) ([]model.Violation, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, payload map[string]interface{}) error
	LogStatusChange(ctx context.Context, logEntry *model.ViolationStatusLog) error
}

type ComplaintStore interface {
	Create(ctx context.Context, complaint *model.Complaint) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Complaint, error)
	List(ctx context.Context, status *model.ComplaintStatus) ([]model.Complaint, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, payload map[string]interface{}) error
}

type VisitorStore interface {
	Create(ctx context.Context, visitor *model.Visitor) error
	FindByPlate(ctx context.Context, plate string) (*model.Visitor, error)
}

type HostStore interface {
	List(ctx context.Context) ([]model.Host, error)
	Search(ctx context.Context, prefix string) ([]model.Host, error)
}

// ChangeNotifier is poked after every successful write so live feeds can
// re-query and push a fresh snapshot. A nil notifier is a no-op.
type ChangeNotifier interface {
	Notify()
}
