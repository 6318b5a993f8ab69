package feed

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"violation-ledger/internal/model"
)

// ComplaintListFunc mirrors the complaint repository's List.
type ComplaintListFunc func(ctx context.Context, status *model.ComplaintStatus) ([]model.Complaint, error)

// ComplaintBroker is the complaint counterpart of Broker: same full-snapshot
// semantics, filtered by a single optional status.
type ComplaintBroker struct {
	list ComplaintListFunc
	log  zerolog.Logger

	mu   sync.Mutex
	subs map[*ComplaintSubscription]struct{}
}

func NewComplaintBroker(list ComplaintListFunc, log zerolog.Logger) *ComplaintBroker {
	return &ComplaintBroker{
		list: list,
		log:  log,
		subs: make(map[*ComplaintSubscription]struct{}),
	}
}

type ComplaintSubscription struct {
	C    <-chan []model.Complaint
	Errs <-chan error

	status  *model.ComplaintStatus
	trigger chan struct{}
	done    chan struct{}
	once    sync.Once
}

func (s *ComplaintSubscription) Cancel() {
	s.once.Do(func() { close(s.done) })
}

func (b *ComplaintBroker) Subscribe(status *model.ComplaintStatus) *ComplaintSubscription {
	snapshots := make(chan []model.Complaint)
	errs := make(chan error, 1)

	sub := &ComplaintSubscription{
		C:       snapshots,
		Errs:    errs,
		status:  status,
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

func (b *ComplaintBroker) run(sub *ComplaintSubscription, snapshots chan<- []model.Complaint, errs chan<- error) {
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

		complaints, err := b.list(context.Background(), sub.status)
		if err != nil {
			b.log.Error().Err(err).Msg("complaint feed query failed")
			select {
			case errs <- err:
			default:
			}
			continue
		}

		select {
		case <-sub.done:
			return
		case snapshots <- complaints:
		}
	}
}

func (b *ComplaintBroker) Notify() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for sub := range b.subs {
		select {
		case sub.trigger <- struct{}{}:
		default:
		}
	}
}
