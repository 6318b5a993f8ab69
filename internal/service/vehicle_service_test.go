package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"violation-ledger/internal/model"
)

type memVisitorStore struct {
	visitors []model.Visitor
}

func (m *memVisitorStore) Create(_ context.Context, v *model.Visitor) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	m.visitors = append(m.visitors, *v)
	return nil
}

func (m *memVisitorStore) FindByPlate(_ context.Context, plate string) (*model.Visitor, error) {
	for i := len(m.visitors) - 1; i >= 0; i-- {
		if m.visitors[i].PlateNumber == model.NormalizePlate(plate) {
			found := m.visitors[i]
			return &found, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

type memHostStore struct {
	hosts []model.Host
}

func (m *memHostStore) List(_ context.Context) ([]model.Host, error) {
	return m.hosts, nil
}

func (m *memHostStore) Search(_ context.Context, prefix string) ([]model.Host, error) {
	var out []model.Host
	for _, h := range m.hosts {
		if len(h.Name) >= len(prefix) && h.Name[:len(prefix)] == prefix {
			out = append(out, h)
		}
	}
	return out, nil
}

func TestSearchByPlateCombinesVisitorAndHistory(t *testing.T) {
	visitors := &memVisitorStore{}
	violations := &memViolationStore{}
	svc := NewVehicleService(visitors, violations, &memHostStore{})

	guard := model.Principal{UserID: uuid.New(), Role: model.UserRoleGuard}
	visitorSvc := NewVisitorService(visitors)
	_, err := visitorSvc.Create(context.Background(), guard, CreateVisitorInput{
		Name:        "Dana Reyes",
		HostID:      "H-17",
		HostName:    "Unit 402",
		PlateNumber: "ab-777",
	})
	require.NoError(t, err)

	violationSvc := NewViolationService(violations, nil)
	_, err = violationSvc.Create(context.Background(), bpso(), CreateViolationInput{
		PlateNumber: "AB-777",
		Location:    "Lot C",
	})
	require.NoError(t, err)

	info, err := svc.SearchByPlate(context.Background(), " ab-777 ")
	require.NoError(t, err)

	assert.Equal(t, "AB-777", info.PlateNumber)
	require.NotNil(t, info.Visitor)
	assert.Equal(t, "Dana Reyes", info.OwnerName)
	assert.Equal(t, "Unit 402", info.HostName)
	assert.Equal(t, 1, info.ViolationCount)
}

func TestSearchByPlateFallsBackToViolationHost(t *testing.T) {
	violations := &memViolationStore{}
	svc := NewVehicleService(&memVisitorStore{}, violations, &memHostStore{})

	violationSvc := NewViolationService(violations, nil)
	_, err := violationSvc.Create(context.Background(), bpso(), CreateViolationInput{
		PlateNumber: "CD-900",
		Location:    "Lot A",
		HostName:    "Unit 101",
		HostPhone:   "+1-555-0101",
	})
	require.NoError(t, err)

	info, err := svc.SearchByPlate(context.Background(), "CD-900")
	require.NoError(t, err)

	assert.Nil(t, info.Visitor)
	assert.Equal(t, "Unit 101", info.HostName)
	assert.Equal(t, "+1-555-0101", info.HostPhone)
}

func TestSearchByPlateUnknownPlate(t *testing.T) {
	svc := NewVehicleService(&memVisitorStore{}, &memViolationStore{}, &memHostStore{})

	_, err := svc.SearchByPlate(context.Background(), "ZZ-000")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestHostByPlatePrefersVisitorRegister(t *testing.T) {
	visitors := &memVisitorStore{}
	violations := &memViolationStore{}
	svc := NewVehicleService(visitors, violations, &memHostStore{})

	guard := model.Principal{UserID: uuid.New(), Role: model.UserRoleGuard}
	_, err := NewVisitorService(visitors).Create(context.Background(), guard, CreateVisitorInput{
		Name:        "Dana Reyes",
		HostID:      "H-17",
		HostName:    "Unit 402",
		PlateNumber: "AB-777",
	})
	require.NoError(t, err)

	contact, err := svc.HostByPlate(context.Background(), "AB-777")
	require.NoError(t, err)
	assert.Equal(t, "H-17", contact.HostID)
	assert.Equal(t, "Unit 402", contact.HostName)
}

func TestVisitorCreateRequiresActorAndFields(t *testing.T) {
	svc := NewVisitorService(&memVisitorStore{})

	_, err := svc.Create(context.Background(), model.Principal{}, CreateVisitorInput{
		Name: "Dana", HostID: "H-1", PlateNumber: "AB-1",
	})
	assert.ErrorIs(t, err, ErrNotAuthenticated)

	guard := model.Principal{UserID: uuid.New(), Role: model.UserRoleGuard}
	_, err = svc.Create(context.Background(), guard, CreateVisitorInput{
		HostID: "H-1", PlateNumber: "AB-1",
	})
	assert.ErrorIs(t, err, ErrValidation)
}
