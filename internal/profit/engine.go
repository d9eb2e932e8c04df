// Package profit computes a period's trading profit from invoices and
// splits it across partners in proportion to their invested capital.
package profit

import (
	"errors"
	"strings"

	"github.com/google/uuid"

	"hesabyar/internal/format"
	"hesabyar/internal/models"
)

// ErrNoProfit is returned when an allocation is attempted with a zero or
// negative profit figure. No payment rows are created in that case.
var ErrNoProfit = errors.New("profit must be positive to allocate")

// Source says where the profit figure for an allocation comes from:
// either computed from the period's invoices, or a manually supplied
// override. The two are mutually exclusive by construction.
type Source struct {
	computed bool
	period   string
	amount   float64
}

// ComputedForPeriod builds a Source that derives the figure from the
// invoices dated inside the given period key (e.g. "1404/06").
func ComputedForPeriod(period string) Source {
	return Source{computed: true, period: period}
}

// Overridden builds a Source that accepts an externally supplied figure
// and ignores invoices entirely.
func Overridden(amount float64) Source {
	return Source{computed: false, amount: amount}
}

// Period returns the period key for a computed source, "" for overrides.
func (s Source) Period() string {
	if s.computed {
		return s.period
	}
	return ""
}

// Resolve produces the profit figure for this source.
func (s Source) Resolve(invoices []models.Invoice, products []models.Product) float64 {
	if s.computed {
		return ForPeriod(invoices, products, s.period)
	}
	return s.amount
}

// ForPeriod sums the profit of every line item sold in the given Jalali
// period. The cost basis is the product's CURRENT buy price plus
// shipping, not the cost at sale time; that matches the legacy ledger,
// so a later purchase-price change shifts historical profit with it.
// Returns 0 when no invoice falls in the period.
func ForPeriod(invoices []models.Invoice, products []models.Product, period string) float64 {
	period = format.ToLatinDigits(period)
	var total float64
	for _, inv := range invoices {
		if !inPeriod(inv.Date, period) {
			continue
		}
		for _, item := range inv.Items {
			p := findProduct(products, item.ProductID)
			if p == nil {
				continue
			}
			total += (item.Price - p.CostBasis()) * float64(item.Quantity)
		}
	}
	return total
}

// Allocate splits total across the partners proportionally to their
// cumulative investment and returns one new PaymentHistory row per
// partner. Rows are appended by the caller, never replacing earlier
// ones, so re-running a period simply produces a second set of rows.
//
// total <= 0 is rejected with ErrNoProfit. If the partners' combined
// investment is zero, every share is zero.
func Allocate(partners []models.Partner, total float64, period, date, registeredBy string) ([]models.PaymentHistory, error) {
	if total <= 0 {
		return nil, ErrNoProfit
	}

	var invested float64
	for _, p := range partners {
		invested += p.TotalInvestment()
	}

	rows := make([]models.PaymentHistory, 0, len(partners))
	for _, p := range partners {
		var share float64
		if invested > 0 {
			share = total * (p.TotalInvestment() / invested)
		}
		rows = append(rows, models.PaymentHistory{
			ID:           uuid.NewString(),
			PartnerID:    p.ID,
			Amount:       share,
			Period:       period,
			Date:         date,
			Description:  "سهم سود دوره " + period,
			RegisteredBy: registeredBy,
		})
	}
	return rows, nil
}

func inPeriod(date, period string) bool {
	return strings.HasPrefix(format.ToLatinDigits(date), period+"/")
}

func findProduct(products []models.Product, id string) *models.Product {
	for i := range products {
		if products[i].ID == id {
			return &products[i]
		}
	}
	return nil
}
