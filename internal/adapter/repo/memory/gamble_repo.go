package memory

import (
	"context"

	"grindstone/internal/app/ports"
)

type GambleSessionRepo struct {
	store *Store
}

func NewGambleSessionRepo(store *Store) GambleSessionRepo {
	return GambleSessionRepo{store: store}
}

func (r GambleSessionRepo) Get(ctx context.Context, sessionID string) (ports.GambleSessionRecord, error) {
	defer r.store.enter(ctx)()
	rec, ok := r.store.gambles[sessionID]
	if !ok {
		return ports.GambleSessionRecord{}, ports.ErrNotFound
	}
	return rec, nil
}

func (r GambleSessionRepo) Save(ctx context.Context, record ports.GambleSessionRecord) error {
	defer r.store.enter(ctx)()
	r.store.gambles[record.SessionID] = record
	return nil
}

func (r GambleSessionRepo) Delete(ctx context.Context, sessionID string) error {
	defer r.store.enter(ctx)()
	delete(r.store.gambles, sessionID)
	return nil
}
