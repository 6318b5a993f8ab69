// Package feed turns the repositories' point-in-time reads into live
// subscriptions. A broker is poked by the write paths; on every poke each
// subscription re-queries its filter and delivers the full current matching
// set, never deltas. Subscriptions are independent of each other and stay
// open until explicitly cancelled, including across backend errors.
package feed

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"violation-ledger/internal/model"
	"violation-ledger/internal/repository"
)

// ListFunc is the read the broker re-runs on every change. The violation
// repository's List satisfies it.
type ListFunc func(ctx context.Context, filter repository.ViolationFilter) ([]model.Violation, error)

type Broker struct {
	list ListFunc
	log  zerolog.Logger

	mu   sync.Mutex
	subs map[*Subscription]struct{}
}

func NewBroker(list ListFunc, log zerolog.Logger) *Broker {
	return &Broker{
		list: list,
		log:  log,
		subs: make(map[*Subscription]struct{}),
	}
}

// Subscription is one live feed. Snapshots arrive on C in the same order the
// repository lists them (detected_at descending). Backend failures surface on
// Errs without closing the feed; the consumer decides whether to Cancel.
type Subscription struct {
	C    <-chan []model.Violation
	Errs <-chan error

	filter  repository.ViolationFilter
	trigger chan struct{}
	done    chan struct{}
	once    sync.Once
}

// Cancel stops delivery immediately and releases the subscription. Safe to
// call more than once.
func (s *Subscription) Cancel() {
	s.once.Do(func() { close(s.done) })
}

// Subscribe opens an independent feed for the filter. The initial snapshot is
// delivered before any change notification.
func (b *Broker) Subscribe(filter repository.ViolationFilter) *Subscription {
	snapshots := make(chan []model.Violation)
	errs := make(chan error, 1)

	sub := &Subscription{
		C:       snapshots,
		Errs:    errs,
		filter:  filter,
		trigger: make(chan struct{}, 1),
		done:    make(chan struct{}),
	}
	sub.trigger <- struct{}{}

	b.mu.Lock()
	b.subs[sub] = struct{}{}
	b.mu.Unlock()

	go b.run(sub, snapshots, errs)
	return sub
}

func (b *Broker) run(sub *Subscription, snapshots chan<- []model.Violation, errs chan<- error) {
	defer func() {
		b.mu.Lock()
		delete(b.subs, sub)
		b.mu.Unlock()
		close(snapshots)
	}()

	for {
		select {
		case <-sub.done:
			return
		case <-sub.trigger:
		}

		violations, err := b.list(context.Background(), sub.filter)
		if err != nil {
			b.log.Error().Err(err).Msg("feed query failed")
			select {
			case errs <- err:
			default:
			}
			continue
		}

		select {
		case <-sub.done:
			return
		case snapshots <- violations:
		}
	}
}

// Notify wakes every subscription. Pending wakeups coalesce, so a burst of
// writes costs each subscription at most one extra query.
func (b *Broker) Notify() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for sub := range b.subs {
		select {
		case sub.trigger <- struct{}{}:
		default:
		}
	}
}

// CountSubscription delivers only the cardinality of the active set
// (escalated and pending violations).
type CountSubscription struct {
	C    <-chan int
	Errs <-chan error

	inner *Subscription
}

func (s *CountSubscription) Cancel() {
	s.inner.Cancel()
}

// SubscribeActiveCount opens a feed carrying the active-violation count.
func (b *Broker) SubscribeActiveCount() *CountSubscription {
	inner := b.Subscribe(repository.ViolationFilter{Statuses: []model.ViolationStatus{
		model.ViolationStatusEscalated,
		model.ViolationStatusPending,
	}})

	counts := make(chan int)
	go func() {
		defer close(counts)
		for snapshot := range inner.C {
			select {
			case <-inner.done:
				return
			case counts <- len(snapshot):
			}
		}
	}()

	return &CountSubscription{
		C:     counts,
		Errs:  inner.Errs,
		inner: inner,
	}
}
