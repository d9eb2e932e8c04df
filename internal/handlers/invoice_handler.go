package handlers

import (
	"errors"
	"net/http"

	"hesabyar/internal/format"
	"hesabyar/internal/inventory"
	"hesabyar/internal/models"
	"hesabyar/internal/observability/metrics"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type InvoiceItemRequest struct {
	ProductID string  `json:"product_id" binding:"required"`
	Quantity  int     `json:"quantity" binding:"required,gt=0"`
	Price     float64 `json:"price" binding:"min=0"`
}

type InvoiceRequest struct {
	CustomerName    string               `json:"customer_name" binding:"required"`
	CustomerPhone   string               `json:"customer_phone"`
	CustomerAddress string               `json:"customer_address"`
	Items           []InvoiceItemRequest `json:"items" binding:"required,min=1"`
	Date            string               `json:"date"`
}

func (h *Handler) GetInvoices(c *gin.Context) {
	data := h.container.Snapshot()
	c.JSON(http.StatusOK, data.Invoices)
}

// --- POST: Create an invoice and deduct its stock ---
func (h *Handler) AddInvoice(c *gin.Context) {
	var input InvoiceRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	invoice := models.Invoice{
		ID:              uuid.NewString(),
		CustomerName:    input.CustomerName,
		CustomerPhone:   input.CustomerPhone,
		CustomerAddress: input.CustomerAddress,
		Date:            input.Date,
		RegisteredBy:    c.GetString("username"),
	}
	if invoice.Date == "" {
		invoice.Date = format.TodayJalali().String()
	}

	persisted, err := h.container.Apply(c.Request.Context(), func(data models.AppData) (models.AppData, error) {
		items, err := snapshotItems(&data, input.Items)
		if err != nil {
			return data, err
		}
		invoice.Items = items
		invoice.TotalAmount = invoice.ComputeTotal()

		// Deduct stock, all or nothing.
		products, err := inventory.Apply(data.Products, nil, invoice.Items)
		if err != nil {
			return data, err
		}
		data.Products = products
		data.Invoices = append(data.Invoices, invoice)
		return data, nil
	})
	if err != nil {
		h.rejectInvoiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"invoice": invoice, "persisted": persisted})
}

// --- PUT: Edit an invoice ---
// The old line items are restored to stock before the new ones are
// deducted, so shrinking a line never trips a false stock error.
func (h *Handler) UpdateInvoice(c *gin.Context) {
	id := c.Param("id")

	var input InvoiceRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	var updated models.Invoice
	persisted, err := h.container.Apply(c.Request.Context(), func(data models.AppData) (models.AppData, error) {
		target := data.FindInvoice(id)
		if target == nil {
			return data, ErrNotFound
		}

		items, err := snapshotItems(&data, input.Items)
		if err != nil {
			return data, err
		}

		products, err := inventory.Apply(data.Products, target.Items, items)
		if err != nil {
			return data, err
		}

		data.Products = products
		target.CustomerName = input.CustomerName
		target.CustomerPhone = input.CustomerPhone
		target.CustomerAddress = input.CustomerAddress
		target.Items = items
		target.TotalAmount = target.ComputeTotal()
		if input.Date != "" {
			target.Date = input.Date
		}
		updated = *target
		return data, nil
	})
	if err != nil {
		h.rejectInvoiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"invoice": updated, "persisted": persisted})
}

// --- DELETE: Remove an invoice and give its stock back ---
func (h *Handler) DeleteInvoice(c *gin.Context) {
	id := c.Param("id")

	persisted, err := h.container.Apply(c.Request.Context(), func(data models.AppData) (models.AppData, error) {
		target := data.FindInvoice(id)
		if target == nil {
			return data, ErrNotFound
		}

		// Unconditional restore; items whose product is gone are skipped.
		data.Products = inventory.Restore(data.Products, target.Items)

		kept := data.Invoices[:0:0]
		for _, inv := range data.Invoices {
			if inv.ID != id {
				kept = append(kept, inv)
			}
		}
		data.Invoices = kept
		return data, nil
	})
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Invoice not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Invoice deleted successfully", "persisted": persisted})
}

// snapshotItems resolves catalog products into frozen line items. A
// zero client price falls back to the product's current sell price.
func snapshotItems(data *models.AppData, items []InvoiceItemRequest) ([]models.InvoiceItem, error) {
	out := make([]models.InvoiceItem, 0, len(items))
	for _, item := range items {
		p := data.FindProduct(item.ProductID)
		if p == nil {
			return nil, inventory.ErrProductNotFound
		}
		price := item.Price
		if price == 0 {
			price = p.SellPrice
		}
		out = append(out, models.InvoiceItem{
			ProductID: p.ID,
			Name:      p.Name,
			Quantity:  item.Quantity,
			Price:     price,
		})
	}
	return out, nil
}

func (h *Handler) rejectInvoiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, inventory.ErrInsufficientStock):
		metrics.ObserveStockRejection()
		h.logger.Warn("invoice rejected for insufficient stock", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, inventory.ErrProductNotFound):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Invoice not found"})
	default:
		h.logger.Error("invoice operation failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Invoice operation failed"})
	}
}
