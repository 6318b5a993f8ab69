package service

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"violation-ledger/internal/model"
	"violation-ledger/internal/repository"
)

// memViolationStore is an in-memory ViolationStore mirroring the gorm
// repository's contract, including its detected_at DESC, id DESC ordering.
type memViolationStore struct {
	violations []model.Violation
	logs       []model.ViolationStatusLog
}

func (m *memViolationStore) Create(_ context.Context, v *model.Violation) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	m.violations = append(m.violations, *v)
	return nil
}

func (m *memViolationStore) GetByID(_ context.Context, id uuid.UUID) (*model.Violation, error) {
	for i := range m.violations {
		if m.violations[i].ID == id {
			found := m.violations[i]
			return &found, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *memViolationStore) List(_ context.Context, filter repository.ViolationFilter) ([]model.Violation, error) {
	var out []model.Violation
	for _, v := range m.violations {
		if filter.Matches(v) {
			out = append(out, v)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].DetectedAt.Equal(out[j].DetectedAt) {
			return out[i].DetectedAt.After(out[j].DetectedAt)
		}
		return out[i].ID.String() > out[j].ID.String()
	})
	return out, nil
}

func (m *memViolationStore) UpdateStatus(_ context.Context, id uuid.UUID, payload map[string]interface{}) error {
	for i := range m.violations {
		if m.violations[i].ID != id {
			continue
		}
		v := &m.violations[i]
		for column, value := range payload {
			switch column {
			case "status":
				v.Status = value.(model.ViolationStatus)
			case "warning_sent_at":
				ts := value.(time.Time)
				v.WarningSentAt = &ts
			case "escalated_at":
				ts := value.(time.Time)
				v.EscalatedAt = &ts
			case "resolved_at":
				ts := value.(time.Time)
				v.ResolvedAt = &ts
			case "ticket_issued":
				v.TicketIssued = value.(bool)
			case "notes":
				v.Notes = value.(string)
			}
		}
		return nil
	}
	return gorm.ErrRecordNotFound
}

func (m *memViolationStore) LogStatusChange(_ context.Context, logEntry *model.ViolationStatusLog) error {
	m.logs = append(m.logs, *logEntry)
	return nil
}

type countingNotifier struct {
	calls int
}

func (n *countingNotifier) Notify() { n.calls++ }

func newTestViolationService() (*ViolationService, *memViolationStore, *countingNotifier) {
	store := &memViolationStore{}
	notifier := &countingNotifier{}
	svc := NewViolationService(store, notifier)
	return svc, store, notifier
}

func bpso() model.Principal {
	return model.Principal{UserID: uuid.New(), Role: model.UserRoleBpso}
}

func TestCreateDefaults(t *testing.T) {
	svc, store, notifier := newTestViolationService()
	now := time.Date(2026, 5, 2, 9, 30, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }
	actor := bpso()

	violation, err := svc.Create(context.Background(), actor, CreateViolationInput{
		PlateNumber: " ab-123 ",
		Location:    "Gate 3",
	})
	require.NoError(t, err)

	assert.Equal(t, "AB-123", violation.PlateNumber)
	assert.Equal(t, model.ViolationStatusPending, violation.Status)
	assert.Equal(t, now, violation.DetectedAt)
	assert.Nil(t, violation.WarningSentAt)
	assert.Nil(t, violation.EscalatedAt)
	assert.Nil(t, violation.ResolvedAt)
	assert.False(t, violation.TicketIssued)
	assert.Equal(t, actor.UserID, violation.CreatedBy)

	require.Len(t, store.logs, 1)
	assert.Equal(t, model.ViolationStatusPending, store.logs[0].NewStatus)
	assert.Nil(t, store.logs[0].OldStatus)
	assert.Equal(t, 1, notifier.calls)
}

func TestCreateRequiresActor(t *testing.T) {
	svc, _, _ := newTestViolationService()

	_, err := svc.Create(context.Background(), model.Principal{}, CreateViolationInput{
		PlateNumber: "AB-123",
		Location:    "Gate 3",
	})
	assert.ErrorIs(t, err, ErrNotAuthenticated)
}

func TestCreateValidatesRequiredFields(t *testing.T) {
	svc, _, _ := newTestViolationService()
	actor := bpso()

	_, err := svc.Create(context.Background(), actor, CreateViolationInput{
		PlateNumber: "   ",
		Location:    "Gate 3",
	})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.Create(context.Background(), actor, CreateViolationInput{
		PlateNumber: "AB-123",
	})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestUpdateStatusStampsExactlyOneTimestamp(t *testing.T) {
	svc, store, _ := newTestViolationService()
	actor := bpso()
	created, err := svc.Create(context.Background(), actor, CreateViolationInput{
		PlateNumber: "AB-123",
		Location:    "Gate 3",
	})
	require.NoError(t, err)

	warningTime := time.Date(2026, 5, 2, 10, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return warningTime }
	require.NoError(t, svc.UpdateStatus(context.Background(), actor, created.ID, model.ViolationStatusWarningSent, nil))

	updated, err := store.GetByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ViolationStatusWarningSent, updated.Status)
	require.NotNil(t, updated.WarningSentAt)
	assert.Equal(t, warningTime, *updated.WarningSentAt)
	assert.Nil(t, updated.EscalatedAt)
	assert.Nil(t, updated.ResolvedAt)

	escalateTime := warningTime.Add(30 * time.Minute)
	svc.now = func() time.Time { return escalateTime }
	require.NoError(t, svc.UpdateStatus(context.Background(), actor, created.ID, model.ViolationStatusEscalated, nil))

	updated, err = store.GetByID(context.Background(), created.ID)
	require.NoError(t, err)
	require.NotNil(t, updated.EscalatedAt)
	assert.Equal(t, escalateTime, *updated.EscalatedAt)
	assert.Equal(t, warningTime, *updated.WarningSentAt, "earlier timestamps untouched")
	assert.Nil(t, updated.ResolvedAt)
}

func TestUpdateStatusHostCompliedStampsResolvedAt(t *testing.T) {
	svc, store, _ := newTestViolationService()
	actor := bpso()
	created, err := svc.Create(context.Background(), actor, CreateViolationInput{
		PlateNumber: "AB-123",
		Location:    "Gate 3",
	})
	require.NoError(t, err)

	require.NoError(t, svc.UpdateStatus(context.Background(), actor, created.ID, model.ViolationStatusHostComplied, nil))

	updated, err := store.GetByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, model.ViolationStatusHostComplied, updated.Status)
	assert.NotNil(t, updated.ResolvedAt)
}

func TestUpdateStatusMergesExtraFields(t *testing.T) {
	svc, store, _ := newTestViolationService()
	actor := bpso()
	created, err := svc.Create(context.Background(), actor, CreateViolationInput{
		PlateNumber: "AB-123",
		Location:    "Gate 3",
	})
	require.NoError(t, err)

	err = svc.UpdateStatus(context.Background(), actor, created.ID, model.ViolationStatusResolved, map[string]interface{}{
		"ticket_issued": true,
	})
	require.NoError(t, err)

	updated, err := store.GetByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.True(t, updated.TicketIssued)
	assert.NotNil(t, updated.ResolvedAt)
}

func TestUpdateStatusRejectsUnknownStatus(t *testing.T) {
	svc, _, _ := newTestViolationService()

	err := svc.UpdateStatus(context.Background(), bpso(), uuid.New(), model.ViolationStatus("archived"), nil)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestUpdateStatusNotFound(t *testing.T) {
	svc, _, _ := newTestViolationService()

	err := svc.UpdateStatus(context.Background(), bpso(), uuid.New(), model.ViolationStatusResolved, nil)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateStatusLogsTransitionWithoutActor(t *testing.T) {
	svc, store, _ := newTestViolationService()
	created, err := svc.Create(context.Background(), bpso(), CreateViolationInput{
		PlateNumber: "AB-123",
		Location:    "Gate 3",
	})
	require.NoError(t, err)

	// Transitions do not require an identified actor.
	require.NoError(t, svc.UpdateStatus(context.Background(), model.Principal{}, created.ID, model.ViolationStatusResolved, nil))

	require.Len(t, store.logs, 2)
	transition := store.logs[1]
	require.NotNil(t, transition.OldStatus)
	assert.Equal(t, model.ViolationStatusPending, *transition.OldStatus)
	assert.Equal(t, model.ViolationStatusResolved, transition.NewStatus)
	assert.Nil(t, transition.ChangedBy)
}

func TestActiveAlertsFiltersToEscalatedAndPending(t *testing.T) {
	svc, store, _ := newTestViolationService()
	base := time.Date(2026, 5, 2, 8, 0, 0, 0, time.UTC)
	seed := []model.Violation{
		{ID: uuid.New(), PlateNumber: "AA-100", Status: model.ViolationStatusPending, DetectedAt: base},
		{ID: uuid.New(), PlateNumber: "AA-200", Status: model.ViolationStatusEscalated, DetectedAt: base.Add(time.Hour)},
		{ID: uuid.New(), PlateNumber: "AA-300", Status: model.ViolationStatusResolved, DetectedAt: base.Add(2 * time.Hour)},
	}
	store.violations = seed

	alerts, err := svc.ActiveAlerts(context.Background())
	require.NoError(t, err)
	require.Len(t, alerts, 2)
	// Newest first.
	assert.Equal(t, "AA-200", alerts[0].PlateNumber)
	assert.Equal(t, "AA-100", alerts[1].PlateNumber)
}

func TestLiveBoardGroupsSections(t *testing.T) {
	svc, store, _ := newTestViolationService()
	now := time.Now()
	store.violations = []model.Violation{
		{ID: uuid.New(), PlateNumber: "AA-100", Status: model.ViolationStatusPending, DetectedAt: now},
		{ID: uuid.New(), PlateNumber: "AA-200", Status: model.ViolationStatusWarningSent, DetectedAt: now},
		{ID: uuid.New(), PlateNumber: "AA-300", Status: model.ViolationStatusEscalated, DetectedAt: now},
		{ID: uuid.New(), PlateNumber: "AA-400", Status: model.ViolationStatusHostComplied, DetectedAt: now},
	}

	sections, err := svc.LiveBoard(context.Background())
	require.NoError(t, err)
	require.Len(t, sections, 3)
	assert.Equal(t, model.ViolationStatusEscalated, sections[0].Status)
	assert.Equal(t, model.ViolationStatusWarningSent, sections[1].Status)
	assert.Equal(t, model.ViolationStatusPending, sections[2].Status)
}

func TestRepeatOffendersFromService(t *testing.T) {
	svc, store, _ := newTestViolationService()
	now := time.Now()
	store.violations = []model.Violation{
		{ID: uuid.New(), PlateNumber: "AA-100", Status: model.ViolationStatusPending, DetectedAt: now},
		{ID: uuid.New(), PlateNumber: "AA-100", Status: model.ViolationStatusResolved, DetectedAt: now.Add(-time.Hour)},
		{ID: uuid.New(), PlateNumber: "AA-200", Status: model.ViolationStatusPending, DetectedAt: now},
	}

	offenders, err := svc.RepeatOffenders(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, offenders, 1)
	assert.Len(t, offenders["AA-100"], 2)
}
