package trip

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"grindstone/internal/app/busy"
	"grindstone/internal/app/ports"
	"grindstone/internal/domain/favour"
	"grindstone/internal/domain/minion"
)

var (
	ErrInvalidRequest = errors.New("invalid trip request")
	ErrInvalidPayload = errors.New("invalid trip payload")
)

const defaultMaxTrip = 30 * time.Minute

// NotDueError reports how long until the tracked activity resolves.
type NotDueError struct {
	RemainingSeconds int
}

func (e *NotDueError) Error() string { return ports.ErrNotDue.Error() }
func (e *NotDueError) Unwrap() error { return ports.ErrNotDue }

// UseCase is the trip scheduler: it validates and stores dispatches,
// lazily resolves due activities exactly once, and reports outcomes.
// Operations on the same owner are serialized through a keyed mutex; the
// persisted resolved flag is the guard that survives restarts.
type UseCase struct {
	TxManager  ports.TxManager
	Activities ports.ActivityRepository
	Ledger     ports.Ledger
	FavourRepo ports.FavourStateRepository
	Stats      ports.StatsProvider
	Busy       *busy.Tracker
	RNG        ports.RandomnessProvider
	Reporter   ports.ReportSink
	Metrics    ports.TripMetrics
	FavourCfg  favour.Config
	MaxTrip    time.Duration
	Now        func() time.Time

	ownerMu sync.Mutex
	owners  map[string]*sync.Mutex
}

func (u *UseCase) now() time.Time {
	if u.Now == nil {
		return time.Now()
	}
	return u.Now()
}

func (u *UseCase) maxTrip() time.Duration {
	if u.MaxTrip <= 0 {
		return defaultMaxTrip
	}
	return u.MaxTrip
}

func (u *UseCase) lockOwner(ownerID string) func() {
	u.ownerMu.Lock()
	if u.owners == nil {
		u.owners = make(map[string]*sync.Mutex)
	}
	mu, ok := u.owners[ownerID]
	if !ok {
		mu = &sync.Mutex{}
		u.owners[ownerID] = mu
	}
	u.ownerMu.Unlock()
	mu.Lock()
	return mu.Unlock
}

// Dispatch accepts a new activity for an idle owner. The dispatch is not
// durable until the store acknowledges the record inside the transaction.
func (u *UseCase) Dispatch(ctx context.Context, req DispatchRequest) (minion.Record, error) {
	req.OwnerID = strings.TrimSpace(req.OwnerID)
	if req.OwnerID == "" {
		return minion.Record{}, ErrInvalidRequest
	}
	spec, ok := activityRegistry()[req.Type]
	if !ok {
		return minion.Record{}, fmt.Errorf("%w: unsupported type %q", ErrInvalidRequest, req.Type)
	}
	if err := spec.ValidatePayload(req.Payload); err != nil {
		return minion.Record{}, err
	}

	unlock := u.lockOwner(req.OwnerID)
	defer unlock()
	return u.dispatchLocked(ctx, req, spec)
}

func (u *UseCase) dispatchLocked(ctx context.Context, req DispatchRequest, spec Spec) (minion.Record, error) {
	duration := req.Duration
	if duration <= 0 {
		duration = spec.DurationFor(req.Payload, u.maxTrip())
	}
	if duration <= 0 {
		return minion.Record{}, fmt.Errorf("%w: empty duration", ErrInvalidRequest)
	}
	if duration > u.maxTrip() {
		duration = u.maxTrip()
	}

	if u.Busy.IsBusy(req.OwnerID) {
		return minion.Record{}, ports.ErrAlreadyBusy
	}

	record := minion.Record{
		OwnerID:   req.OwnerID,
		Type:      req.Type,
		Payload:   req.Payload,
		StartedAt: u.now(),
		Duration:  duration,
	}

	err := u.TxManager.RunInTx(ctx, func(txCtx context.Context) error {
		_, err := u.Activities.GetUnresolved(txCtx, req.OwnerID)
		if err == nil {
			return ports.ErrAlreadyBusy
		}
		if !errors.Is(err, ports.ErrNotFound) {
			return err
		}
		return u.Activities.Create(txCtx, record)
	})
	if err != nil {
		if errors.Is(err, ports.ErrConflict) {
			err = ports.ErrAlreadyBusy
		}
		if u.Metrics != nil && !errors.Is(err, ports.ErrAlreadyBusy) {
			u.Metrics.RecordFailure()
		}
		return minion.Record{}, err
	}

	_ = u.Busy.Begin(req.OwnerID, record)
	if u.Metrics != nil {
		u.Metrics.RecordDispatch(record.Type)
	}
	return record, nil
}

// PollAndResolve checks the owner's tracked activity and, when due,
// resolves it exactly once: resolver outcome, atomic ledger apply,
// resolved flag, busy-state clear, report. A second call after success
// returns ErrNoActivity and never re-applies the delta.
func (u *UseCase) PollAndResolve(ctx context.Context, ownerID string) (Outcome, error) {
	ownerID = strings.TrimSpace(ownerID)
	if ownerID == "" {
		return Outcome{}, ErrInvalidRequest
	}
	unlock := u.lockOwner(ownerID)
	defer unlock()
	return u.resolveLocked(ctx, ownerID)
}

func (u *UseCase) resolveLocked(ctx context.Context, ownerID string) (Outcome, error) {
	now := u.now()

	record, tracked := u.Busy.Peek(ownerID)
	if !tracked {
		var err error
		record, err = u.Activities.GetUnresolved(ctx, ownerID)
		if errors.Is(err, ports.ErrNotFound) {
			return Outcome{}, ports.ErrNoActivity
		}
		if err != nil {
			return Outcome{}, err
		}
		// Rebuilt from storage after a restart.
		_ = u.Busy.Begin(ownerID, record)
	}

	if !record.DueBy(now) {
		remaining := int((record.DueAt().Sub(now) + time.Second - 1) / time.Second)
		if remaining < 1 {
			remaining = 1
		}
		return Outcome{}, &NotDueError{RemainingSeconds: remaining}
	}

	spec, ok := activityRegistry()[record.Type]
	if !ok {
		return Outcome{}, fmt.Errorf("%w: no resolver for type %q", ports.ErrInvariantViolation, record.Type)
	}

	var out Outcome
	var next *DispatchRequest
	err := u.TxManager.RunInTx(ctx, func(txCtx context.Context) error {
		rc := &ResolveContext{Record: record, Now: now}
		if err := spec.Resolver.Prepare(txCtx, u, rc); err != nil {
			return err
		}
		res, err := spec.Resolver.Resolve(u, rc)
		if err != nil {
			return err
		}
		if err := res.Delta.Validate(); err != nil {
			return fmt.Errorf("%w: %v", ports.ErrInvariantViolation, err)
		}

		// The rows-affected guard on the persisted resolved flag is what
		// makes resolution exactly-once across restarts.
		if err := u.Activities.MarkResolved(txCtx, ownerID, now); err != nil {
			if errors.Is(err, ports.ErrConflict) {
				return ports.ErrNoActivity
			}
			return err
		}

		receipt, err := u.Ledger.ApplyDelta(txCtx, ownerID, res.Delta)
		if err != nil {
			return err
		}
		if res.FavourState != nil {
			if err := u.FavourRepo.Save(txCtx, ownerID, *res.FavourState); err != nil {
				return err
			}
		}

		next = res.Next
		out = Outcome{
			OwnerID: ownerID,
			Type:    record.Type,
			Report:  res.Report,
			Delta:   res.Delta,
			Receipt: receipt,
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ports.ErrNoActivity) {
			// The store already shows it resolved; drop the stale entry.
			_, _ = u.Busy.End(ownerID)
			return Outcome{}, ports.ErrNoActivity
		}
		if u.Metrics != nil {
			if errors.Is(err, ports.ErrConflict) {
				u.Metrics.RecordConflict()
			} else {
				u.Metrics.RecordFailure()
			}
		}
		return Outcome{}, err
	}

	_, _ = u.Busy.End(ownerID)
	if u.Metrics != nil {
		u.Metrics.RecordResolved(record.Type)
	}
	if u.Reporter != nil {
		// Delivery failure never un-resolves the trip.
		_ = u.Reporter.Deliver(ctx, ports.Report{OwnerID: ownerID, Text: out.Report})
	}

	if next != nil {
		if chainSpec, ok := activityRegistry()[next.Type]; ok {
			if chained, err := u.dispatchLocked(ctx, *next, chainSpec); err == nil {
				out.Chained = &chained
			}
		}
	}
	return out, nil
}

// Cancel clears the busy state without resolving and without any ledger
// effect. Administrative resets only.
func (u *UseCase) Cancel(ctx context.Context, ownerID string) error {
	ownerID = strings.TrimSpace(ownerID)
	if ownerID == "" {
		return ErrInvalidRequest
	}
	unlock := u.lockOwner(ownerID)
	defer unlock()

	err := u.TxManager.RunInTx(ctx, func(txCtx context.Context) error {
		return u.Activities.DeleteUnresolved(txCtx, ownerID)
	})
	_, trackerErr := u.Busy.End(ownerID)
	if errors.Is(err, ports.ErrNotFound) {
		if trackerErr != nil {
			return ports.ErrNotBusy
		}
		return nil
	}
	return err
}

// PollAll sweeps due unresolved activities, resolving each through the
// normal per-owner path. Informational per-owner conditions are skipped.
func (u *UseCase) PollAll(ctx context.Context, limit int) (int, error) {
	due, err := u.Activities.ListDue(ctx, u.now(), limit)
	if err != nil {
		return 0, err
	}
	resolved := 0
	for _, record := range due {
		if _, err := u.PollAndResolve(ctx, record.OwnerID); err == nil {
			resolved++
		}
	}
	return resolved, nil
}
