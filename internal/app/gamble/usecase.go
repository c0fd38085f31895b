// Package gamble runs the lava-tile game: a short-lived stateful session
// resolved through repeated player actions instead of a single timer,
// under the same exactly-once and expiry discipline as trips.
package gamble

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"grindstone/internal/app/ports"
	"grindstone/internal/domain/lavatiles"
	"grindstone/internal/domain/minion"
)

var (
	ErrInvalidRequest = errors.New("invalid gamble request")
	ErrInvalidAction  = errors.New("invalid gamble action")
)

const (
	defaultTTL       = 2 * time.Minute
	defaultBoardSize = 9
	defaultLavaCount = 3
)

type Action string

const (
	ActionConfirm Action = "confirm"
	ActionPick    Action = "pick"
	ActionCashOut Action = "cashout"
)

type ActRequest struct {
	SessionID string
	Action    Action
	Cell      int
}

type View struct {
	SessionID  string          `json:"session_id"`
	OwnerID    string          `json:"owner_id"`
	Phase      lavatiles.Phase `json:"phase"`
	Stake      int64           `json:"stake"`
	Cells      int             `json:"cells"`
	Lava       int             `json:"lava"`
	Revealed   []int           `json:"revealed,omitempty"`
	Multiplier int             `json:"multiplier,omitempty"`
	ExpiresAt  time.Time       `json:"expires_at"`
}

type ActResult struct {
	View     View  `json:"view"`
	Resolved bool  `json:"resolved"`
	Busted   bool  `json:"busted"`
	Payout   int64 `json:"payout,omitempty"`
}

type sessionState struct {
	Board lavatiles.Board `json:"board"`
}

// UseCase owns lava-tile sessions. The stake is escrowed when the
// session is created; expiry in the confirm phase refunds it, expiry
// mid-game forfeits it. Actions on one session are serialized.
type UseCase struct {
	TxManager ports.TxManager
	Sessions  ports.GambleSessionRepository
	Ledger    ports.Ledger
	RNG       ports.RandomnessProvider
	Reporter  ports.ReportSink
	TTL       time.Duration
	BoardSize int
	LavaCount int
	Now       func() time.Time
	NewID     func() string

	sessionMu sync.Mutex
	sessions  map[string]*sync.Mutex
}

func (u *UseCase) now() time.Time {
	if u.Now == nil {
		return time.Now()
	}
	return u.Now()
}

func (u *UseCase) ttl() time.Duration {
	if u.TTL <= 0 {
		return defaultTTL
	}
	return u.TTL
}

func (u *UseCase) boardSize() int {
	if u.BoardSize < 2 {
		return defaultBoardSize
	}
	return u.BoardSize
}

func (u *UseCase) lavaCount() int {
	if u.LavaCount < 1 || u.LavaCount >= u.boardSize() {
		return defaultLavaCount
	}
	return u.LavaCount
}

func (u *UseCase) newID() string {
	if u.NewID == nil {
		return uuid.NewString()
	}
	return u.NewID()
}

func (u *UseCase) lockSession(sessionID string) func() {
	u.sessionMu.Lock()
	if u.sessions == nil {
		u.sessions = make(map[string]*sync.Mutex)
	}
	mu, ok := u.sessions[sessionID]
	if !ok {
		mu = &sync.Mutex{}
		u.sessions[sessionID] = mu
	}
	u.sessionMu.Unlock()
	mu.Lock()
	return mu.Unlock
}

// Create escrows the stake and opens a session in the confirm phase, in
// one transaction.
func (u *UseCase) Create(ctx context.Context, ownerID string, stake int64) (View, error) {
	ownerID = strings.TrimSpace(ownerID)
	if ownerID == "" || stake <= 0 {
		return View{}, ErrInvalidRequest
	}

	now := u.now()
	record := ports.GambleSessionRecord{
		SessionID: u.newID(),
		OwnerID:   ownerID,
		Phase:     string(lavatiles.PhaseConfirm),
		Stake:     stake,
		CreatedAt: now,
		ExpiresAt: now.Add(u.ttl()),
	}

	err := u.TxManager.RunInTx(ctx, func(txCtx context.Context) error {
		if _, err := u.Ledger.ApplyDelta(txCtx, ownerID, minion.Delta{Coins: -stake}); err != nil {
			return err
		}
		return u.Sessions.Save(txCtx, record)
	})
	if err != nil {
		return View{}, err
	}
	return u.viewOf(record, lavatiles.Board{}), nil
}

// Act applies one player action. An instance past its expiry is treated
// as absent by every caller: it is finalized (refund or forfeit) and the
// call reports ErrNotFound. Accepted actions refresh the TTL window.
func (u *UseCase) Act(ctx context.Context, req ActRequest) (ActResult, error) {
	req.SessionID = strings.TrimSpace(req.SessionID)
	if req.SessionID == "" {
		return ActResult{}, ErrInvalidRequest
	}
	unlock := u.lockSession(req.SessionID)
	defer unlock()

	now := u.now()
	record, err := u.Sessions.Get(ctx, req.SessionID)
	if err != nil {
		return ActResult{}, err
	}

	if now.After(record.ExpiresAt) {
		if err := u.TxManager.RunInTx(ctx, func(txCtx context.Context) error {
			return u.finalizeExpired(txCtx, record)
		}); err != nil {
			return ActResult{}, err
		}
		return ActResult{}, ports.ErrNotFound
	}

	var out ActResult
	err = u.TxManager.RunInTx(ctx, func(txCtx context.Context) error {
		var innerErr error
		out, innerErr = u.applyAction(txCtx, record, req, now)
		return innerErr
	})
	if err != nil {
		return ActResult{}, err
	}
	if out.Resolved && u.Reporter != nil {
		_ = u.Reporter.Deliver(ctx, ports.Report{OwnerID: record.OwnerID, Text: reportFor(record, out)})
	}
	return out, nil
}

func (u *UseCase) finalizeExpired(ctx context.Context, record ports.GambleSessionRecord) error {
	if record.Phase == string(lavatiles.PhaseConfirm) {
		// Never confirmed: the escrowed stake goes back.
		if _, err := u.Ledger.ApplyDelta(ctx, record.OwnerID, minion.Delta{Coins: record.Stake}); err != nil {
			return err
		}
	}
	return u.Sessions.Delete(ctx, record.SessionID)
}

func (u *UseCase) applyAction(ctx context.Context, record ports.GambleSessionRecord, req ActRequest, now time.Time) (ActResult, error) {
	state := sessionState{}
	if len(record.State) > 0 {
		if err := json.Unmarshal(record.State, &state); err != nil {
			return ActResult{}, fmt.Errorf("decode session state: %w", err)
		}
	}

	switch req.Action {
	case ActionConfirm:
		if record.Phase != string(lavatiles.PhaseConfirm) {
			return ActResult{}, fmt.Errorf("%w: confirm in phase %s", ErrInvalidAction, record.Phase)
		}
		board, err := lavatiles.NewBoard(u.boardSize(), u.lavaCount(), u.RNG)
		if err != nil {
			return ActResult{}, err
		}
		state.Board = board
		record.Phase = string(lavatiles.PhasePlaying)
		return u.saveTouched(ctx, record, state, now)

	case ActionPick:
		if record.Phase != string(lavatiles.PhasePlaying) {
			return ActResult{}, fmt.Errorf("%w: pick in phase %s", ErrInvalidAction, record.Phase)
		}
		lava, err := state.Board.Reveal(req.Cell)
		if err != nil {
			return ActResult{}, fmt.Errorf("%w: %v", ErrInvalidAction, err)
		}
		if lava {
			// Stake already escrowed at create: a bust pays nothing out.
			if err := u.Sessions.Delete(ctx, record.SessionID); err != nil {
				return ActResult{}, err
			}
			view := u.viewOf(record, state.Board)
			view.Phase = lavatiles.PhaseResolved
			return ActResult{View: view, Resolved: true, Busted: true}, nil
		}
		if state.Board.SafeRemaining() == 0 {
			return u.cashOut(ctx, record, state)
		}
		return u.saveTouched(ctx, record, state, now)

	case ActionCashOut:
		if record.Phase != string(lavatiles.PhasePlaying) {
			return ActResult{}, fmt.Errorf("%w: cashout in phase %s", ErrInvalidAction, record.Phase)
		}
		return u.cashOut(ctx, record, state)

	default:
		return ActResult{}, fmt.Errorf("%w: unknown action %q", ErrInvalidAction, req.Action)
	}
}

func (u *UseCase) saveTouched(ctx context.Context, record ports.GambleSessionRecord, state sessionState, now time.Time) (ActResult, error) {
	encoded, err := json.Marshal(state)
	if err != nil {
		return ActResult{}, err
	}
	record.State = encoded
	// The window only ever slides forward.
	if touched := now.Add(u.ttl()); touched.After(record.ExpiresAt) {
		record.ExpiresAt = touched
	}
	if err := u.Sessions.Save(ctx, record); err != nil {
		return ActResult{}, err
	}
	return ActResult{View: u.viewOf(record, state.Board)}, nil
}

func (u *UseCase) cashOut(ctx context.Context, record ports.GambleSessionRecord, state sessionState) (ActResult, error) {
	mult, err := state.Board.Multiplier()
	if err != nil {
		return ActResult{}, fmt.Errorf("%w: %v", ErrInvalidAction, err)
	}
	payout := record.Stake * int64(mult) / 100
	if _, err := u.Ledger.ApplyDelta(ctx, record.OwnerID, minion.Delta{Coins: payout}); err != nil {
		return ActResult{}, err
	}
	if err := u.Sessions.Delete(ctx, record.SessionID); err != nil {
		return ActResult{}, err
	}
	view := u.viewOf(record, state.Board)
	view.Phase = lavatiles.PhaseResolved
	view.Multiplier = mult
	return ActResult{View: view, Resolved: true, Payout: payout}, nil
}

func (u *UseCase) viewOf(record ports.GambleSessionRecord, board lavatiles.Board) View {
	view := View{
		SessionID: record.SessionID,
		OwnerID:   record.OwnerID,
		Phase:     lavatiles.Phase(record.Phase),
		Stake:     record.Stake,
		Cells:     len(board.Cells),
		Lava:      board.Lava,
		ExpiresAt: record.ExpiresAt,
	}
	for i, cell := range board.Cells {
		if cell.Revealed {
			view.Revealed = append(view.Revealed, i)
		}
	}
	if mult, err := board.Multiplier(); err == nil {
		view.Multiplier = mult
	}
	return view
}

func reportFor(record ports.GambleSessionRecord, out ActResult) string {
	if out.Busted {
		return fmt.Sprintf("%s hit lava and lost the %d coin stake.", record.OwnerID, record.Stake)
	}
	return fmt.Sprintf("%s cashed out of lava tiles for %d coins.", record.OwnerID, out.Payout)
}
