package handler

import (
	"time"

	"marketplace-settlement/internal/adapter/http/dto"
	"marketplace-settlement/internal/core/ports"
	"marketplace-settlement/pkg/apperror"
	"marketplace-settlement/pkg/response"

	"github.com/gin-gonic/gin"
)

// RateHandler triggers exchange-rate refreshes.
type RateHandler struct {
	refresher ports.RateRefresher
}

// NewRateHandler creates a new RateHandler.
func NewRateHandler(refresher ports.RateRefresher) *RateHandler {
	return &RateHandler{refresher: refresher}
}

// Refresh handles POST /api/v1/rates/refresh. It runs the averaging and price
// propagation synchronously and returns what it wrote.
func (h *RateHandler) Refresh(c *gin.Context) {
	var req dto.RateRefreshRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, apperror.Validation(err.Error()))
			return
		}
	}

	var start, end time.Time
	if req.Start != "" {
		start, _ = time.Parse(dto.DateLayout, req.Start)
	}
	if req.End != "" {
		end, _ = time.Parse(dto.DateLayout, req.End)
	}

	report, err := h.refresher.Refresh(c.Request.Context(), start, end)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.RateRefreshResponse{Rates: report.Rates, Propagation: report.Propagation})
}
