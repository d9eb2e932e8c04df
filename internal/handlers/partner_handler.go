package handlers

import (
	"net/http"

	"hesabyar/internal/format"
	"hesabyar/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type PartnerRequest struct {
	Name          string  `json:"name" binding:"required"`
	InitialAmount float64 `json:"initial_amount" binding:"min=0"`
}

type InvestmentRequest struct {
	Amount float64 `json:"amount" binding:"required,gt=0"`
	Date   string  `json:"date"`
}

func (h *Handler) GetPartners(c *gin.Context) {
	data := h.container.Snapshot()
	c.JSON(http.StatusOK, data.Partners)
}

func (h *Handler) AddPartner(c *gin.Context) {
	var input PartnerRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	today := format.TodayJalali().String()
	partner := models.Partner{
		ID:          uuid.NewString(),
		Name:        input.Name,
		Investments: []models.InvestmentRecord{},
		JoinedAt:    today,
	}
	if input.InitialAmount > 0 {
		partner.Investments = append(partner.Investments, models.InvestmentRecord{
			Amount:       input.InitialAmount,
			Date:         today,
			RegisteredBy: c.GetString("username"),
		})
	}

	persisted, err := h.container.Apply(c.Request.Context(), func(data models.AppData) (models.AppData, error) {
		data.Partners = append(data.Partners, partner)
		return data, nil
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create partner"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"partner": partner, "persisted": persisted})
}

// AddInvestment appends one capital injection to a partner's record.
func (h *Handler) AddInvestment(c *gin.Context) {
	id := c.Param("id")

	var input InvestmentRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Amount must be positive"})
		return
	}
	if input.Date == "" {
		input.Date = format.TodayJalali().String()
	}

	record := models.InvestmentRecord{
		Amount:       input.Amount,
		Date:         input.Date,
		RegisteredBy: c.GetString("username"),
	}

	var updated models.Partner
	persisted, err := h.container.Apply(c.Request.Context(), func(data models.AppData) (models.AppData, error) {
		target := data.FindPartner(id)
		if target == nil {
			return data, ErrNotFound
		}
		target.Investments = append(target.Investments, record)
		updated = *target
		return data, nil
	})
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Partner not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"partner": updated, "persisted": persisted})
}

// DeletePartner removes a partner. Payment history rows that reference
// the partner are left in place (orphaned on purpose, no cascade).
func (h *Handler) DeletePartner(c *gin.Context) {
	id := c.Param("id")

	persisted, err := h.container.Apply(c.Request.Context(), func(data models.AppData) (models.AppData, error) {
		kept := data.Partners[:0:0]
		for _, p := range data.Partners {
			if p.ID != id {
				kept = append(kept, p)
			}
		}
		if len(kept) == len(data.Partners) {
			return data, ErrNotFound
		}
		data.Partners = kept
		return data, nil
	})
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Partner not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Partner deleted successfully", "persisted": persisted})
}
