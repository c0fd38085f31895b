package gamble

import (
	"context"
	"errors"
	"testing"
	"time"

	"grindstone/internal/adapter/repo/memory"
	"grindstone/internal/adapter/report"
	"grindstone/internal/app/ports"
	"grindstone/internal/domain/lavatiles"
)

type scriptedRNG struct {
	ints []int
}

func (s *scriptedRNG) RandInt(min, max int) int {
	if len(s.ints) == 0 {
		return min
	}
	v := s.ints[0]
	s.ints = s.ints[1:]
	if v < min {
		v = min
	}
	if v > max {
		v = max
	}
	return v
}

func (s *scriptedRNG) WeightedPick(weights []int) int { return 0 }

type fixture struct {
	store   *memory.Store
	uc      *UseCase
	rng     *scriptedRNG
	reports *report.Collector
	now     time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		store:   memory.NewStore(),
		rng:     &scriptedRNG{},
		reports: report.NewCollector(),
		now:     time.Unix(1700000000, 0),
	}
	f.uc = &UseCase{
		TxManager: memory.NewTxManager(f.store),
		Sessions:  memory.NewGambleSessionRepo(f.store),
		Ledger:    memory.NewLedgerRepo(f.store),
		RNG:       f.rng,
		Reporter:  f.reports,
		Now:       func() time.Time { return f.now },
		NewID:     func() string { return "session-1" },
	}
	return f
}

func (f *fixture) advance(d time.Duration) { f.now = f.now.Add(d) }

// confirmed creates and confirms a session with lava scripted onto the
// first three cells of the default nine-cell board.
func (f *fixture) confirmed(t *testing.T, stake int64) View {
	t.Helper()
	ctx := context.Background()
	view, err := f.uc.Create(ctx, "owner-1", stake)
	if err != nil {
		t.Fatalf("create session: %v", err)
	}
	f.rng.ints = []int{0, 1, 2}
	out, err := f.uc.Act(ctx, ActRequest{SessionID: view.SessionID, Action: ActionConfirm})
	if err != nil {
		t.Fatalf("confirm session: %v", err)
	}
	if out.View.Phase != lavatiles.PhasePlaying {
		t.Fatalf("phase after confirm: %s", out.View.Phase)
	}
	return out.View
}

func TestCreate_EscrowsStake(t *testing.T) {
	f := newFixture(t)
	f.store.SeedCoins("owner-1", 500)

	view, err := f.uc.Create(context.Background(), "owner-1", 100)
	if err != nil {
		t.Fatalf("create error: %v", err)
	}
	if view.Phase != lavatiles.PhaseConfirm {
		t.Fatalf("phase mismatch: %s", view.Phase)
	}
	if got := f.store.Coins("owner-1"); got != 400 {
		t.Fatalf("stake not escrowed: coins=%d", got)
	}
}

func TestCreate_RejectsUnderfundedOwner(t *testing.T) {
	f := newFixture(t)
	f.store.SeedCoins("owner-1", 50)

	if _, err := f.uc.Create(context.Background(), "owner-1", 100); !errors.Is(err, ports.ErrInsufficientFunds) {
		t.Fatalf("expected ErrInsufficientFunds, got %v", err)
	}
	if got := f.store.Coins("owner-1"); got != 50 {
		t.Fatalf("failed create must not move coins: got=%d", got)
	}
}

func TestAct_SafePickThenCashOut(t *testing.T) {
	f := newFixture(t)
	f.store.SeedCoins("owner-1", 500)
	ctx := context.Background()
	view := f.confirmed(t, 100)

	out, err := f.uc.Act(ctx, ActRequest{SessionID: view.SessionID, Action: ActionPick, Cell: 3})
	if err != nil {
		t.Fatalf("pick error: %v", err)
	}
	// One safe reveal on a 9/3 board: fair 1.50x less the house edge.
	if out.View.Multiplier != 142 {
		t.Fatalf("multiplier mismatch: got=%d want=142", out.View.Multiplier)
	}

	out, err = f.uc.Act(ctx, ActRequest{SessionID: view.SessionID, Action: ActionCashOut})
	if err != nil {
		t.Fatalf("cashout error: %v", err)
	}
	if !out.Resolved || out.Busted {
		t.Fatalf("unexpected result: %+v", out)
	}
	if out.Payout != 142 {
		t.Fatalf("payout mismatch: got=%d want=142", out.Payout)
	}
	if got := f.store.Coins("owner-1"); got != 542 {
		t.Fatalf("coins after cashout: got=%d want=542", got)
	}
	if got := len(f.reports.Reports()); got != 1 {
		t.Fatalf("expected one report, got %d", got)
	}

	if _, err := f.uc.Act(ctx, ActRequest{SessionID: view.SessionID, Action: ActionCashOut}); !errors.Is(err, ports.ErrNotFound) {
		t.Fatalf("resolved session should be gone, got %v", err)
	}
}

func TestAct_LavaPickBustsAndForfeitsStake(t *testing.T) {
	f := newFixture(t)
	f.store.SeedCoins("owner-1", 500)
	ctx := context.Background()
	view := f.confirmed(t, 100)

	out, err := f.uc.Act(ctx, ActRequest{SessionID: view.SessionID, Action: ActionPick, Cell: 0})
	if err != nil {
		t.Fatalf("pick error: %v", err)
	}
	if !out.Resolved || !out.Busted {
		t.Fatalf("expected a bust, got %+v", out)
	}
	if out.Payout != 0 {
		t.Fatalf("bust must pay nothing, got %d", out.Payout)
	}
	if got := f.store.Coins("owner-1"); got != 400 {
		t.Fatalf("coins after bust: got=%d want=400", got)
	}
	if _, err := f.uc.Act(ctx, ActRequest{SessionID: view.SessionID, Action: ActionPick, Cell: 1}); !errors.Is(err, ports.ErrNotFound) {
		t.Fatalf("busted session should be gone, got %v", err)
	}
}

func TestAct_AllSafeRevealedCashesOutAutomatically(t *testing.T) {
	f := newFixture(t)
	f.store.SeedCoins("owner-1", 500)
	f.uc.BoardSize = 3
	f.uc.LavaCount = 1
	ctx := context.Background()

	view, err := f.uc.Create(ctx, "owner-1", 100)
	if err != nil {
		t.Fatalf("create error: %v", err)
	}
	f.rng.ints = []int{2}
	if _, err := f.uc.Act(ctx, ActRequest{SessionID: view.SessionID, Action: ActionConfirm}); err != nil {
		t.Fatalf("confirm error: %v", err)
	}
	if _, err := f.uc.Act(ctx, ActRequest{SessionID: view.SessionID, Action: ActionPick, Cell: 0}); err != nil {
		t.Fatalf("first pick error: %v", err)
	}

	out, err := f.uc.Act(ctx, ActRequest{SessionID: view.SessionID, Action: ActionPick, Cell: 1})
	if err != nil {
		t.Fatalf("second pick error: %v", err)
	}
	if !out.Resolved || out.Busted {
		t.Fatalf("expected automatic cashout, got %+v", out)
	}
	// Both safe cells revealed on a 3/1 board: fair 3.00x, paid 2.85x.
	if out.Payout != 285 {
		t.Fatalf("payout mismatch: got=%d want=285", out.Payout)
	}
}

func TestAct_TTLSlidesOnlyForward(t *testing.T) {
	f := newFixture(t)
	f.store.SeedCoins("owner-1", 500)
	ctx := context.Background()
	view := f.confirmed(t, 100)

	created := f.now
	f.advance(30 * time.Second)
	out, err := f.uc.Act(ctx, ActRequest{SessionID: view.SessionID, Action: ActionPick, Cell: 3})
	if err != nil {
		t.Fatalf("pick error: %v", err)
	}
	if want := created.Add(30*time.Second + 2*time.Minute); !out.View.ExpiresAt.Equal(want) {
		t.Fatalf("expiry mismatch: got=%v want=%v", out.View.ExpiresAt, want)
	}
}

func TestAct_ExpiryBeforeConfirmRefundsStake(t *testing.T) {
	f := newFixture(t)
	f.store.SeedCoins("owner-1", 500)
	ctx := context.Background()

	view, err := f.uc.Create(ctx, "owner-1", 100)
	if err != nil {
		t.Fatalf("create error: %v", err)
	}
	f.advance(3 * time.Minute)

	if _, err := f.uc.Act(ctx, ActRequest{SessionID: view.SessionID, Action: ActionConfirm}); !errors.Is(err, ports.ErrNotFound) {
		t.Fatalf("expired session should read as absent, got %v", err)
	}
	if got := f.store.Coins("owner-1"); got != 500 {
		t.Fatalf("unconfirmed expiry must refund: coins=%d", got)
	}
}

func TestAct_ExpiryMidGameForfeitsStake(t *testing.T) {
	f := newFixture(t)
	f.store.SeedCoins("owner-1", 500)
	ctx := context.Background()
	view := f.confirmed(t, 100)

	f.advance(3 * time.Minute)
	if _, err := f.uc.Act(ctx, ActRequest{SessionID: view.SessionID, Action: ActionCashOut}); !errors.Is(err, ports.ErrNotFound) {
		t.Fatalf("expired session should read as absent, got %v", err)
	}
	if got := f.store.Coins("owner-1"); got != 400 {
		t.Fatalf("mid-game expiry must forfeit: coins=%d", got)
	}
}

func TestAct_PhaseAndActionValidation(t *testing.T) {
	f := newFixture(t)
	f.store.SeedCoins("owner-1", 500)
	ctx := context.Background()

	view, err := f.uc.Create(ctx, "owner-1", 100)
	if err != nil {
		t.Fatalf("create error: %v", err)
	}

	if _, err := f.uc.Act(ctx, ActRequest{SessionID: view.SessionID, Action: ActionPick, Cell: 0}); !errors.Is(err, ErrInvalidAction) {
		t.Fatalf("pick before confirm should fail, got %v", err)
	}
	if _, err := f.uc.Act(ctx, ActRequest{SessionID: view.SessionID, Action: "jump"}); !errors.Is(err, ErrInvalidAction) {
		t.Fatalf("unknown action should fail, got %v", err)
	}

	f.rng.ints = []int{0, 1, 2}
	if _, err := f.uc.Act(ctx, ActRequest{SessionID: view.SessionID, Action: ActionConfirm}); err != nil {
		t.Fatalf("confirm error: %v", err)
	}
	if _, err := f.uc.Act(ctx, ActRequest{SessionID: view.SessionID, Action: ActionConfirm}); !errors.Is(err, ErrInvalidAction) {
		t.Fatalf("double confirm should fail, got %v", err)
	}
	if _, err := f.uc.Act(ctx, ActRequest{SessionID: view.SessionID, Action: ActionCashOut}); !errors.Is(err, ErrInvalidAction) {
		t.Fatalf("cashout with nothing revealed should fail, got %v", err)
	}
}
