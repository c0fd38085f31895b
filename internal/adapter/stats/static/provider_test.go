package static

import (
	"context"
	"testing"

	"grindstone/internal/domain/minion"
)

func TestProvider_DefaultAndOverride(t *testing.T) {
	p := NewProvider(minion.Stats{FishingLevel: 1})

	got, err := p.SnapshotForOwner(context.Background(), "owner-1")
	if err != nil {
		t.Fatalf("snapshot error: %v", err)
	}
	if got.FishingLevel != 1 {
		t.Fatalf("default level mismatch: got=%d want=1", got.FishingLevel)
	}

	p.SetOwner("owner-1", minion.Stats{FishingLevel: 40, EquipmentBonus: 5})
	got, err = p.SnapshotForOwner(context.Background(), "owner-1")
	if err != nil {
		t.Fatalf("snapshot error: %v", err)
	}
	if got.FishingLevel != 40 || got.EquipmentBonus != 5 {
		t.Fatalf("override mismatch: %+v", got)
	}

	other, err := p.SnapshotForOwner(context.Background(), "owner-2")
	if err != nil {
		t.Fatalf("snapshot error: %v", err)
	}
	if other.FishingLevel != 1 {
		t.Fatalf("other owner should get defaults: %+v", other)
	}
}
