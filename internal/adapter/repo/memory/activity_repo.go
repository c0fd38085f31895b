package memory

import (
	"context"
	"time"

	"grindstone/internal/app/ports"
	"grindstone/internal/domain/minion"
)

type ActivityRepo struct {
	store *Store
}

func NewActivityRepo(store *Store) ActivityRepo {
	return ActivityRepo{store: store}
}

func (r ActivityRepo) GetUnresolved(ctx context.Context, ownerID string) (minion.Record, error) {
	defer r.store.enter(ctx)()
	rec, ok := r.store.unresolved[ownerID]
	if !ok {
		return minion.Record{}, ports.ErrNotFound
	}
	return rec, nil
}

func (r ActivityRepo) Create(ctx context.Context, record minion.Record) error {
	defer r.store.enter(ctx)()
	if _, exists := r.store.unresolved[record.OwnerID]; exists {
		return ports.ErrConflict
	}
	r.store.unresolved[record.OwnerID] = record
	return nil
}

func (r ActivityRepo) MarkResolved(ctx context.Context, ownerID string, resolvedAt time.Time) error {
	defer r.store.enter(ctx)()
	rec, ok := r.store.unresolved[ownerID]
	if !ok {
		return ports.ErrConflict
	}
	rec.Resolved = true
	delete(r.store.unresolved, ownerID)
	r.store.archive = append(r.store.archive, rec)
	return nil
}

func (r ActivityRepo) DeleteUnresolved(ctx context.Context, ownerID string) error {
	defer r.store.enter(ctx)()
	if _, ok := r.store.unresolved[ownerID]; !ok {
		return ports.ErrNotFound
	}
	delete(r.store.unresolved, ownerID)
	return nil
}

func (r ActivityRepo) ListDue(ctx context.Context, now time.Time, limit int) ([]minion.Record, error) {
	defer r.store.enter(ctx)()
	out := make([]minion.Record, 0)
	for _, rec := range r.store.unresolved {
		if !rec.DueBy(now) {
			continue
		}
		out = append(out, rec)
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}
