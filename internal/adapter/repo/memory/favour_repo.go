package memory

import (
	"context"

	"grindstone/internal/app/ports"
	"grindstone/internal/domain/favour"
)

type FavourStateRepo struct {
	store *Store
}

func NewFavourStateRepo(store *Store) FavourStateRepo {
	return FavourStateRepo{store: store}
}

func (r FavourStateRepo) Get(ctx context.Context, ownerID string) (favour.State, error) {
	defer r.store.enter(ctx)()
	state, ok := r.store.favour[ownerID]
	if !ok {
		return favour.State{}, ports.ErrNotFound
	}
	return state, nil
}

func (r FavourStateRepo) Save(ctx context.Context, ownerID string, state favour.State) error {
	defer r.store.enter(ctx)()
	r.store.favour[ownerID] = state
	return nil
}
