package handlers

import (
	"math"
	"net/http"

	"hesabyar/internal/format"
	"hesabyar/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ProductRequest struct {
	Code          string  `json:"code"`
	Name          string  `json:"name" binding:"required"`
	BuyPrice      float64 `json:"buy_price" binding:"min=0"`
	ShippingCost  float64 `json:"shipping_cost" binding:"min=0"`
	MarginPercent float64 `json:"margin_percent" binding:"min=0"`
	Quantity      int     `json:"quantity" binding:"min=0"`
}

// sellPrice derives the sale price from cost and margin. The stored
// value is always this derivation, never client input.
func sellPrice(buy, shipping, margin float64) float64 {
	return math.Round((buy + shipping) * (1 + margin/100))
}

// --- GET: List all products ---
func (h *Handler) GetProducts(c *gin.Context) {
	data := h.container.Snapshot()
	c.JSON(http.StatusOK, data.Products)
}

// --- POST: Add a new product ---
func (h *Handler) AddProduct(c *gin.Context) {
	var input ProductRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	product := models.Product{
		ID:            uuid.NewString(),
		Code:          input.Code,
		Name:          input.Name,
		BuyPrice:      input.BuyPrice,
		ShippingCost:  input.ShippingCost,
		MarginPercent: input.MarginPercent,
		SellPrice:     sellPrice(input.BuyPrice, input.ShippingCost, input.MarginPercent),
		Quantity:      input.Quantity,
		RegisteredAt:  format.TodayJalali().String(),
		RegisteredBy:  c.GetString("username"),
	}

	persisted, err := h.container.Apply(c.Request.Context(), func(data models.AppData) (models.AppData, error) {
		data.Products = append(data.Products, product)
		return data, nil
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create product"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"product": product, "persisted": persisted})
}

// --- PUT: Update cost, margin, or stock ---
func (h *Handler) UpdateProduct(c *gin.Context) {
	id := c.Param("id")

	var input ProductRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	var updated models.Product
	persisted, err := h.container.Apply(c.Request.Context(), func(data models.AppData) (models.AppData, error) {
		target := data.FindProduct(id)
		if target == nil {
			return data, ErrNotFound
		}
		target.Code = input.Code
		target.Name = input.Name
		target.BuyPrice = input.BuyPrice
		target.ShippingCost = input.ShippingCost
		target.MarginPercent = input.MarginPercent
		target.SellPrice = sellPrice(input.BuyPrice, input.ShippingCost, input.MarginPercent)
		target.Quantity = input.Quantity
		updated = *target
		return data, nil
	})
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Product updated successfully", "product": updated, "persisted": persisted})
}

// --- DELETE: Remove a product ---
// Past invoices keep their name/price snapshots, so deleting here never
// rewrites invoice history.
func (h *Handler) DeleteProduct(c *gin.Context) {
	id := c.Param("id")

	persisted, err := h.container.Apply(c.Request.Context(), func(data models.AppData) (models.AppData, error) {
		kept := data.Products[:0:0]
		for _, p := range data.Products {
			if p.ID != id {
				kept = append(kept, p)
			}
		}
		if len(kept) == len(data.Products) {
			return data, ErrNotFound
		}
		data.Products = kept
		return data, nil
	})
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Product deleted successfully", "persisted": persisted})
}
