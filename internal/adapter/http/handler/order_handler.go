package handler

import (
	"context"
	"errors"
	"time"

	"marketplace-settlement/internal/adapter/http/dto"
	"marketplace-settlement/internal/core/domain"
	"marketplace-settlement/internal/core/ports"
	"marketplace-settlement/internal/service"
	"marketplace-settlement/pkg/apperror"
	"marketplace-settlement/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// OrderHandler handles order-placed events and split inspection.
type OrderHandler struct {
	splitter ports.OrderSplitter
	tasks    *service.TaskTracker[*domain.SplitResult]
	log      zerolog.Logger
}

// NewOrderHandler creates a new OrderHandler.
func NewOrderHandler(splitter ports.OrderSplitter, tasks *service.TaskTracker[*domain.SplitResult], log zerolog.Logger) *OrderHandler {
	return &OrderHandler{splitter: splitter, tasks: tasks, log: log}
}

// OrderPlaced handles POST /api/v1/events/order-placed. The split runs in the
// background; a second event for an order whose split is still running joins
// that run.
func (h *OrderHandler) OrderPlaced(c *gin.Context) {
	var req dto.OrderPlacedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	orderID, err := uuid.Parse(req.OrderID)
	if err != nil {
		response.Error(c, apperror.Validation("order_id must be a uuid"))
		return
	}

	log := h.log.With().Str("order_id", orderID.String()).Str("source", req.Source).Logger()
	task, started := h.tasks.Start(context.WithoutCancel(c.Request.Context()), orderID.String(),
		func(ctx context.Context) (*domain.SplitResult, error) {
			result, err := h.splitter.Split(ctx, orderID)
			if err != nil {
				log.Error().Err(err).Msg("order split failed")
				return nil, err
			}
			log.Info().Str("message", result.Message).Msg("order split finished")
			return result, nil
		})

	response.Accepted(c, dto.SplitAcceptedResponse{
		OrderID: orderID.String(),
		Started: started,
		State:   string(task.Status().State),
	})
}

// SplitStatus handles GET /api/v1/orders/:id/split.
func (h *OrderHandler) SplitStatus(c *gin.Context) {
	orderID, ok := orderIDParam(c)
	if !ok {
		return
	}

	progress, err := h.splitter.Progress(c.Request.Context(), orderID)
	if err != nil {
		response.Error(c, err)
		return
	}

	resp := dto.SplitStatusResponse{OrderID: orderID.String(), Progress: progress}
	if task, ok := h.tasks.Get(orderID.String()); ok {
		resp.Run = toSplitRunStatus(task.Status())
	}
	response.OK(c, resp)
}

// Children handles GET /api/v1/orders/:id/children.
func (h *OrderHandler) Children(c *gin.Context) {
	orderID, ok := orderIDParam(c)
	if !ok {
		return
	}

	children, err := h.splitter.Children(c.Request.Context(), orderID)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]dto.ChildOrderResponse, len(children))
	for i, child := range children {
		items[i] = dto.ChildOrderResponse{
			ID:       child.ID,
			Currency: child.Currency,
			Total:    child.Total,
			Status:   string(child.Status),
			Items:    len(child.Items),
		}
		if child.VendorID != nil {
			items[i].VendorID = child.VendorID.String()
		}
	}
	response.OK(c, items)
}

func orderIDParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.Validation("order id must be a uuid"))
		return uuid.Nil, false
	}
	return id, true
}

func toSplitRunStatus(s service.TaskStatus[*domain.SplitResult]) *dto.SplitRunStatus {
	run := &dto.SplitRunStatus{
		State:     string(s.State),
		StartedAt: s.StartedAt.UTC().Format(time.RFC3339),
		Result:    s.Result,
		Error:     s.Error,
	}
	if s.EndedAt != nil {
		run.EndedAt = s.EndedAt.UTC().Format(time.RFC3339)
	}
	var appErr *apperror.AppError
	if errors.As(s.Err, &appErr) {
		run.ErrorCode = appErr.Code
		run.Details = appErr.Details
	}
	return run
}
