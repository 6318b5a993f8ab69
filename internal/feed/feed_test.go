package feed

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"violation-ledger/internal/model"
	"violation-ledger/internal/repository"
)

// fakeStore serves feed queries from an in-memory slice, honoring the
// filter's Matches predicate.
type fakeStore struct {
	mu         sync.Mutex
	violations []model.Violation
	failWith   error
}

func (f *fakeStore) list(_ context.Context, filter repository.ViolationFilter) ([]model.Violation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failWith != nil {
		return nil, f.failWith
	}
	var out []model.Violation
	for _, v := range f.violations {
		if filter.Matches(v) {
			out = append(out, v)
		}
	}
	return out, nil
}

func (f *fakeStore) set(violations []model.Violation, failWith error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.violations = violations
	f.failWith = failWith
}

func recvSnapshot(t *testing.T, sub *Subscription) []model.Violation {
	t.Helper()
	select {
	case snapshot := <-sub.C:
		return snapshot
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for snapshot")
		return nil
	}
}

func TestSubscribeDeliversInitialSnapshot(t *testing.T) {
	store := &fakeStore{violations: []model.Violation{
		{PlateNumber: "AA-100", Status: model.ViolationStatusPending},
	}}
	broker := NewBroker(store.list, zerolog.Nop())

	sub := broker.Subscribe(repository.ViolationFilter{})
	defer sub.Cancel()

	snapshot := recvSnapshot(t, sub)
	require.Len(t, snapshot, 1)
	assert.Equal(t, "AA-100", snapshot[0].PlateNumber)
}

func TestNotifyDeliversFullCurrentSet(t *testing.T) {
	store := &fakeStore{}
	broker := NewBroker(store.list, zerolog.Nop())

	sub := broker.Subscribe(repository.ViolationFilter{})
	defer sub.Cancel()
	assert.Empty(t, recvSnapshot(t, sub))

	store.set([]model.Violation{
		{PlateNumber: "AA-100", Status: model.ViolationStatusPending},
		{PlateNumber: "AA-200", Status: model.ViolationStatusEscalated},
	}, nil)
	broker.Notify()

	snapshot := recvSnapshot(t, sub)
	assert.Len(t, snapshot, 2)
}

func TestSubscriptionHonorsFilter(t *testing.T) {
	store := &fakeStore{violations: []model.Violation{
		{PlateNumber: "AA-100", Status: model.ViolationStatusPending},
		{PlateNumber: "AA-200", Status: model.ViolationStatusResolved},
	}}
	broker := NewBroker(store.list, zerolog.Nop())

	sub := broker.Subscribe(repository.ViolationFilter{Statuses: []model.ViolationStatus{
		model.ViolationStatusEscalated,
		model.ViolationStatusPending,
	}})
	defer sub.Cancel()

	snapshot := recvSnapshot(t, sub)
	require.Len(t, snapshot, 1)
	assert.Equal(t, "AA-100", snapshot[0].PlateNumber)
}

func TestCancelStopsDelivery(t *testing.T) {
	store := &fakeStore{}
	broker := NewBroker(store.list, zerolog.Nop())

	sub := broker.Subscribe(repository.ViolationFilter{})
	recvSnapshot(t, sub)

	sub.Cancel()

	// The snapshot channel closes once the loop winds down.
	select {
	case _, open := <-sub.C:
		assert.False(t, open)
	case <-time.After(2 * time.Second):
		t.Fatal("channel not closed after cancel")
	}

	// Further notifies reach nobody.
	broker.Notify()
}

func TestCancelIsIdempotent(t *testing.T) {
	broker := NewBroker((&fakeStore{}).list, zerolog.Nop())
	sub := broker.Subscribe(repository.ViolationFilter{})
	recvSnapshot(t, sub)

	sub.Cancel()
	sub.Cancel()
}

func TestQueryErrorSurfacesWithoutClosingFeed(t *testing.T) {
	store := &fakeStore{}
	broker := NewBroker(store.list, zerolog.Nop())

	sub := broker.Subscribe(repository.ViolationFilter{})
	defer sub.Cancel()
	recvSnapshot(t, sub)

	backendErr := errors.New("connection refused")
	store.set(nil, backendErr)
	broker.Notify()

	select {
	case err := <-sub.Errs:
		assert.ErrorIs(t, err, backendErr)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for feed error")
	}

	// Feed recovers on the next change.
	store.set([]model.Violation{{PlateNumber: "AA-100"}}, nil)
	broker.Notify()
	snapshot := recvSnapshot(t, sub)
	assert.Len(t, snapshot, 1)
}

func TestIndependentSubscriptions(t *testing.T) {
	store := &fakeStore{violations: []model.Violation{
		{PlateNumber: "AA-100", Status: model.ViolationStatusPending},
		{PlateNumber: "AA-200", Status: model.ViolationStatusResolved},
	}}
	broker := NewBroker(store.list, zerolog.Nop())

	all := broker.Subscribe(repository.ViolationFilter{})
	defer all.Cancel()
	pendingOnly := broker.Subscribe(repository.ViolationFilter{Statuses: []model.ViolationStatus{
		model.ViolationStatusPending,
	}})

	assert.Len(t, recvSnapshot(t, all), 2)
	assert.Len(t, recvSnapshot(t, pendingOnly), 1)

	// Cancelling one feed leaves the other running.
	pendingOnly.Cancel()
	broker.Notify()
	assert.Len(t, recvSnapshot(t, all), 2)
}

func TestSubscribeActiveCount(t *testing.T) {
	store := &fakeStore{violations: []model.Violation{
		{PlateNumber: "AA-100", Status: model.ViolationStatusPending},
		{PlateNumber: "AA-200", Status: model.ViolationStatusEscalated},
		{PlateNumber: "AA-300", Status: model.ViolationStatusResolved},
	}}
	broker := NewBroker(store.list, zerolog.Nop())

	sub := broker.SubscribeActiveCount()
	defer sub.Cancel()

	select {
	case count := <-sub.C:
		assert.Equal(t, 2, count)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for count")
	}

	store.set([]model.Violation{
		{PlateNumber: "AA-100", Status: model.ViolationStatusPending},
	}, nil)
	broker.Notify()

	select {
	case count := <-sub.C:
		assert.Equal(t, 1, count)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for updated count")
	}
}
