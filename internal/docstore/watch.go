package docstore

import (
	"context"
	"sync"
)

// hub fans collection change notifications out to subscriptions. Each
// subscription owns a goroutine that re-runs its query after a commit and
// delivers the fresh result, so a slow callback never blocks writers and
// deliveries for one subscription never interleave.
type hub struct {
	mu    sync.Mutex
	subs  map[*subscription]struct{}
	query func(ctx context.Context, collection string, filters []Filter, order *OrderBy) ([]Doc, error)
}

type subscription struct {
	collection string
	filters    []Filter
	order      *OrderBy
	fn         func([]Doc)

	kick chan struct{}
	stop chan struct{}
	once sync.Once
}

func newHub() *hub {
	return &hub{subs: map[*subscription]struct{}{}}
}

func (h *hub) subscribe(collection string, filters []Filter, order *OrderBy, fn func([]Doc)) (cancel func()) {
	sub := &subscription{
		collection: collection,
		filters:    filters,
		order:      order,
		fn:         fn,
		kick:       make(chan struct{}, 1),
		stop:       make(chan struct{}),
	}
	h.mu.Lock()
	h.subs[sub] = struct{}{}
	h.mu.Unlock()

	go h.run(sub)
	sub.kick <- struct{}{} // initial snapshot

	return func() {
		sub.once.Do(func() {
			h.mu.Lock()
			delete(h.subs, sub)
			h.mu.Unlock()
			close(sub.stop)
		})
	}
}

func (h *hub) run(sub *subscription) {
	for {
		select {
		case <-sub.stop:
			return
		case <-sub.kick:
			docs, err := h.query(context.Background(), sub.collection, sub.filters, sub.order)
			if err != nil {
				continue // reads are retried on the next change
			}
			select {
			case <-sub.stop:
				return
			default:
				sub.fn(docs)
			}
		}
	}
}

// notify wakes every subscription on the collection. The kick channel is
// buffered so coalesced changes trigger a single re-query.
func (h *hub) notify(collection string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for sub := range h.subs {
		if sub.collection != collection {
			continue
		}
		select {
		case sub.kick <- struct{}{}:
		default:
		}
	}
}

func (h *hub) closeAll() {
	h.mu.Lock()
	subs := make([]*subscription, 0, len(h.subs))
	for sub := range h.subs {
		subs = append(subs, sub)
	}
	h.mu.Unlock()
	for _, sub := range subs {
		sub.once.Do(func() {
			h.mu.Lock()
			delete(h.subs, sub)
			h.mu.Unlock()
			close(sub.stop)
		})
	}
}
