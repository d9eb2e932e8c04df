package handlers

import (
	"errors"
	"net/http"

	"hesabyar/internal/format"
	"hesabyar/internal/models"
	"hesabyar/internal/observability/metrics"
	"hesabyar/internal/profit"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AllocateRequest chooses exactly one profit source for a period:
// leave override_amount null to recompute from the period's invoices,
// or set it to use an externally supplied figure.
type AllocateRequest struct {
	Period         string   `json:"period" binding:"required"`
	OverrideAmount *float64 `json:"override_amount"`
}

// Amount is a pointer so an edit down to zero still binds.
type PaymentUpdateRequest struct {
	Amount      *float64 `json:"amount" binding:"required"`
	Description string   `json:"description"`
}

// --- GET: /api/profit?period=1404/06 ---
// Recomputes the period's profit from invoices without touching state.
func (h *Handler) GetPeriodProfit(c *gin.Context) {
	period := format.ToLatinDigits(c.Query("period"))
	if period == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "period query parameter is required"})
		return
	}

	data := h.container.Snapshot()
	total := profit.ForPeriod(data.Invoices, data.Products, period)

	c.JSON(http.StatusOK, gin.H{
		"period":    period,
		"profit":    total,
		"formatted": format.FormatCurrency(total),
	})
}

// --- POST: /api/profit/allocate ---
// Splits a period's profit across partners and appends one payment row
// per partner. There is no duplicate-period guard: re-running a period
// appends a second set of rows, exactly like the legacy ledger.
func (h *Handler) AllocateDividends(c *gin.Context) {
	var input AllocateRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	input.Period = format.ToLatinDigits(input.Period)

	source := profit.ComputedForPeriod(input.Period)
	sourceLabel := "computed"
	if input.OverrideAmount != nil {
		source = profit.Overridden(*input.OverrideAmount)
		sourceLabel = "overridden"
	}

	today := format.TodayJalali().String()
	username := c.GetString("username")

	var rows []models.PaymentHistory
	var total float64
	persisted, err := h.container.Apply(c.Request.Context(), func(data models.AppData) (models.AppData, error) {
		total = source.Resolve(data.Invoices, data.Products)
		allocated, err := profit.Allocate(data.Partners, total, input.Period, today, username)
		if err != nil {
			return data, err
		}
		rows = allocated
		data.Payments = append(data.Payments, allocated...)
		return data, nil
	})
	if err != nil {
		if errors.Is(err, profit.ErrNoProfit) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "No profit to allocate for this period", "profit": total})
			return
		}
		h.logger.Error("dividend allocation failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to allocate dividends"})
		return
	}

	metrics.ObserveAllocation(sourceLabel)
	h.logger.Info("dividends allocated",
		zap.String("period", input.Period),
		zap.String("source", sourceLabel),
		zap.Float64("profit", total),
		zap.Int("rows", len(rows)),
	)

	c.JSON(http.StatusCreated, gin.H{
		"period":    input.Period,
		"profit":    total,
		"payments":  rows,
		"persisted": persisted,
	})
}

// --- Payment history rows ---

func (h *Handler) GetPayments(c *gin.Context) {
	data := h.container.Snapshot()
	c.JSON(http.StatusOK, data.Payments)
}

// UpdatePayment is the manual override on a single payout row.
func (h *Handler) UpdatePayment(c *gin.Context) {
	id := c.Param("id")

	var input PaymentUpdateRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	var updated models.PaymentHistory
	persisted, err := h.container.Apply(c.Request.Context(), func(data models.AppData) (models.AppData, error) {
		for i := range data.Payments {
			if data.Payments[i].ID == id {
				data.Payments[i].Amount = *input.Amount
				if input.Description != "" {
					data.Payments[i].Description = input.Description
				}
				updated = data.Payments[i]
				return data, nil
			}
		}
		return data, ErrNotFound
	})
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Payment not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"payment": updated, "persisted": persisted})
}

func (h *Handler) DeletePayment(c *gin.Context) {
	id := c.Param("id")

	persisted, err := h.container.Apply(c.Request.Context(), func(data models.AppData) (models.AppData, error) {
		kept := data.Payments[:0:0]
		for _, p := range data.Payments {
			if p.ID != id {
				kept = append(kept, p)
			}
		}
		if len(kept) == len(data.Payments) {
			return data, ErrNotFound
		}
		data.Payments = kept
		return data, nil
	})
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Payment not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Payment deleted successfully", "persisted": persisted})
}
