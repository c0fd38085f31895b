package busy

import (
	"errors"
	"testing"

	"grindstone/internal/app/ports"
	"grindstone/internal/domain/minion"
)

func TestBeginEndLifecycle(t *testing.T) {
	tr := NewTracker()
	rec := minion.Record{OwnerID: "owner-1", Type: minion.ActivityFishing}

	if tr.IsBusy("owner-1") {
		t.Fatal("busy before begin")
	}
	if err := tr.Begin("owner-1", rec); err != nil {
		t.Fatalf("Begin: %v", err)
	}
	if !tr.IsBusy("owner-1") {
		t.Fatal("not busy after begin")
	}

	if err := tr.Begin("owner-1", rec); !errors.Is(err, ports.ErrAlreadyBusy) {
		t.Fatalf("second Begin: %v", err)
	}

	got, err := tr.End("owner-1")
	if err != nil {
		t.Fatalf("End: %v", err)
	}
	if got.Type != minion.ActivityFishing {
		t.Fatalf("End returned %+v", got)
	}
	if tr.IsBusy("owner-1") {
		t.Fatal("busy after end")
	}

	if _, err := tr.End("owner-1"); !errors.Is(err, ports.ErrNotBusy) {
		t.Fatalf("End on idle owner: %v", err)
	}
}

func TestOwnersAreIndependent(t *testing.T) {
	tr := NewTracker()
	if err := tr.Begin("a", minion.Record{OwnerID: "a"}); err != nil {
		t.Fatalf("Begin a: %v", err)
	}
	if err := tr.Begin("b", minion.Record{OwnerID: "b"}); err != nil {
		t.Fatalf("Begin b: %v", err)
	}
	if _, err := tr.End("a"); err != nil {
		t.Fatalf("End a: %v", err)
	}
	if !tr.IsBusy("b") {
		t.Fatal("ending a cleared b")
	}
}
