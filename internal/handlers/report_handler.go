package handlers

import (
	"net/http"

	"hesabyar/internal/format"
	"hesabyar/internal/profit"

	"github.com/gin-gonic/gin"
)

// ValuationItem represents a single row of the stock valuation table
type ValuationItem struct {
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	CostPrice float64 `json:"cost_price"`
	TotalCost float64 `json:"total_cost"`
}

// PartnerEquity is one partner's slice of the invested capital
type PartnerEquity struct {
	PartnerID    string  `json:"partner_id"`
	Name         string  `json:"name"`
	Investment   float64 `json:"investment"`
	SharePercent float64 `json:"share_percent"`
}

// ReportData defines the shape of the dashboard response
type ReportData struct {
	StockItems      []ValuationItem `json:"stock_items"`
	StockValue      float64         `json:"stock_value"`
	StockValueLabel string          `json:"stock_value_label"` // Persian glyphs, grouped

	Period        string  `json:"period"` // current Jalali month
	MonthInvoices int     `json:"month_invoices"`
	MonthRevenue  float64 `json:"month_revenue"`
	MonthProfit   float64 `json:"month_profit"`

	Partners []PartnerEquity `json:"partners"`
}

// --- GET: /api/reports ---
// GetDashboardReport assembles the numbers the main panel shows: stock
// valuation at cost basis, this month's trading, and partner equity.
func (h *Handler) GetDashboardReport(c *gin.Context) {
	data := h.container.Snapshot()
	today := format.TodayJalali()

	report := ReportData{
		StockItems: make([]ValuationItem, 0, len(data.Products)),
		Period:     today.PeriodKey(),
		Partners:   make([]PartnerEquity, 0, len(data.Partners)),
	}

	// 1. Value every product at its current cost basis
	for _, p := range data.Products {
		itemTotal := float64(p.Quantity) * p.CostBasis()
		report.StockItems = append(report.StockItems, ValuationItem{
			Name:      p.Name,
			Quantity:  p.Quantity,
			CostPrice: p.CostBasis(),
			TotalCost: itemTotal,
		})
		report.StockValue += itemTotal
	}
	report.StockValueLabel = format.FormatCurrency(report.StockValue)

	// 2. This month's invoices and profit
	prefix := report.Period + "/"
	for _, inv := range data.Invoices {
		if len(format.ToLatinDigits(inv.Date)) >= len(prefix) &&
			format.ToLatinDigits(inv.Date)[:len(prefix)] == prefix {
			report.MonthInvoices++
			report.MonthRevenue += inv.TotalAmount
		}
	}
	report.MonthProfit = profit.ForPeriod(data.Invoices, data.Products, report.Period)

	// 3. Partner equity shares
	var invested float64
	for _, p := range data.Partners {
		invested += p.TotalInvestment()
	}
	for _, p := range data.Partners {
		eq := PartnerEquity{PartnerID: p.ID, Name: p.Name, Investment: p.TotalInvestment()}
		if invested > 0 {
			eq.SharePercent = 100 * eq.Investment / invested
		}
		report.Partners = append(report.Partners, eq)
	}

	c.JSON(http.StatusOK, report)
}
