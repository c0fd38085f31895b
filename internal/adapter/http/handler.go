package httpadapter

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/protocol/consts"

	"grindstone/internal/app/gamble"
	"grindstone/internal/app/ports"
	"grindstone/internal/app/status"
	"grindstone/internal/app/trip"
	"grindstone/internal/domain/minion"
)

type Handler struct {
	TripUC   *trip.UseCase
	GambleUC *gamble.UseCase
	StatusUC status.UseCase
	KPI      kpiSnapshotProvider
}

func (h Handler) RegisterRoutes(s *server.Hertz) {
	mn := s.Group("/api/minion")
	mn.POST("/trip", h.dispatch)
	mn.POST("/poll", h.poll)
	mn.POST("/cancel", h.cancel)
	mn.POST("/status", h.status)

	gb := s.Group("/api/gamble")
	gb.POST("/lava", h.lavaCreate)
	gb.POST("/lava/act", h.lavaAct)

	s.GET("/ops/kpi", h.kpi)
}

type tripRequest struct {
	OwnerID         string          `json:"owner_id"`
	Type            string          `json:"type"`
	Payload         json.RawMessage `json:"payload,omitempty"`
	DurationSeconds int             `json:"duration_seconds,omitempty"`
}

type tripResponse struct {
	OwnerID         string              `json:"owner_id"`
	Type            minion.ActivityType `json:"type"`
	StartedAt       time.Time           `json:"started_at"`
	DurationSeconds int                 `json:"duration_seconds"`
	DueAt           time.Time           `json:"due_at"`
}

type ownerRequest struct {
	OwnerID string `json:"owner_id"`
}

type notDueResponse struct {
	Resolved         bool   `json:"resolved"`
	Status           string `json:"status"`
	RemainingSeconds int    `json:"remaining_seconds"`
}

type lavaCreateRequest struct {
	OwnerID string `json:"owner_id"`
	Stake   int64  `json:"stake"`
}

type lavaActRequest struct {
	SessionID string `json:"session_id"`
	Action    string `json:"action"`
	Cell      int    `json:"cell"`
}

func (h Handler) dispatch(c context.Context, ctx *app.RequestContext) {
	var body tripRequest
	if err := decodeJSON(ctx, &body); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", "invalid json")
		return
	}

	record, err := h.TripUC.Dispatch(c, trip.DispatchRequest{
		OwnerID:  body.OwnerID,
		Type:     minion.ActivityType(body.Type),
		Payload:  body.Payload,
		Duration: time.Duration(body.DurationSeconds) * time.Second,
	})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusCreated, tripView(record))
}

func (h Handler) poll(c context.Context, ctx *app.RequestContext) {
	var body ownerRequest
	if err := decodeJSON(ctx, &body); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", "invalid json")
		return
	}

	out, err := h.TripUC.PollAndResolve(c, body.OwnerID)
	if err != nil {
		var notDue *trip.NotDueError
		if errors.As(err, &notDue) {
			// Still in flight: informational, not an error.
			ctx.JSON(consts.StatusOK, notDueResponse{
				Status:           "in_progress",
				RemainingSeconds: notDue.RemainingSeconds,
			})
			return
		}
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, out)
}

func (h Handler) cancel(c context.Context, ctx *app.RequestContext) {
	var body ownerRequest
	if err := decodeJSON(ctx, &body); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", "invalid json")
		return
	}

	if err := h.TripUC.Cancel(c, body.OwnerID); err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, map[string]any{"cancelled": true})
}

func (h Handler) status(c context.Context, ctx *app.RequestContext) {
	var body ownerRequest
	if err := decodeJSON(ctx, &body); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", "invalid json")
		return
	}

	resp, err := h.StatusUC.Execute(c, status.Request{OwnerID: body.OwnerID})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) lavaCreate(c context.Context, ctx *app.RequestContext) {
	var body lavaCreateRequest
	if err := decodeJSON(ctx, &body); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", "invalid json")
		return
	}

	view, err := h.GambleUC.Create(c, body.OwnerID, body.Stake)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusCreated, view)
}

func (h Handler) lavaAct(c context.Context, ctx *app.RequestContext) {
	var body lavaActRequest
	if err := decodeJSON(ctx, &body); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", "invalid json")
		return
	}

	out, err := h.GambleUC.Act(c, gamble.ActRequest{
		SessionID: body.SessionID,
		Action:    gamble.Action(body.Action),
		Cell:      body.Cell,
	})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, out)
}

type kpiSnapshotProvider interface {
	SnapshotAny() any
}

func (h Handler) kpi(_ context.Context, ctx *app.RequestContext) {
	if h.KPI == nil {
		writeErrorBody(ctx, consts.StatusNotFound, "not_configured", "kpi provider not configured")
		return
	}
	ctx.JSON(consts.StatusOK, h.KPI.SnapshotAny())
}

func tripView(record minion.Record) tripResponse {
	return tripResponse{
		OwnerID:         record.OwnerID,
		Type:            record.Type,
		StartedAt:       record.StartedAt,
		DurationSeconds: int(record.Duration / time.Second),
		DueAt:           record.DueAt(),
	}
}

func decodeJSON(ctx *app.RequestContext, out any) error {
	body := ctx.Request.Body()
	if len(body) == 0 {
		return nil
	}
	return json.Unmarshal(body, out)
}

func writeError(ctx *app.RequestContext, err error) {
	switch {
	case errors.Is(err, trip.ErrInvalidRequest):
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, trip.ErrInvalidPayload):
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_payload", err.Error())
	case errors.Is(err, gamble.ErrInvalidRequest):
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, gamble.ErrInvalidAction):
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_action", err.Error())
	case errors.Is(err, status.ErrInvalidRequest):
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, ports.ErrAlreadyBusy):
		writeErrorBody(ctx, consts.StatusConflict, "already_busy", err.Error())
	case errors.Is(err, ports.ErrNoActivity):
		writeErrorBody(ctx, consts.StatusNotFound, "no_activity", err.Error())
	case errors.Is(err, ports.ErrNotBusy):
		writeErrorBody(ctx, consts.StatusNotFound, "not_busy", err.Error())
	case errors.Is(err, ports.ErrNotFound):
		writeErrorBody(ctx, consts.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, ports.ErrInsufficientFunds):
		writeErrorBody(ctx, consts.StatusUnprocessableEntity, "insufficient_funds", err.Error())
	case errors.Is(err, ports.ErrConflict):
		writeErrorBody(ctx, consts.StatusConflict, "conflict", err.Error())
	default:
		writeErrorBody(ctx, consts.StatusInternalServerError, "internal_error", "internal error")
	}
}

func writeErrorBody(ctx *app.RequestContext, statusCode int, code, message string) {
	ctx.JSON(statusCode, map[string]any{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}
