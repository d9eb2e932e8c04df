// Package inventory reconciles product stock against invoice line items.
// Every invoice create/edit/delete goes through here so that committed
// stock quantities can never drop below zero.
package inventory

import (
	"errors"
	"fmt"

	"hesabyar/internal/models"
)

// ErrInsufficientStock is returned when a line item asks for more units
// than the product has on hand. Callers match it with errors.Is.
var ErrInsufficientStock = errors.New("insufficient stock")

// ErrProductNotFound is returned when a line item references a product
// that is no longer in the catalog and units would have to be deducted.
var ErrProductNotFound = errors.New("product not found")

// Apply adjusts stock for an invoice create or edit and returns the new
// product slice. The input slice is never modified.
//
// Two phases, never interleaved:
//  1. Restore every quantity the old line items had consumed
//     (oldItems is nil on create).
//  2. Deduct the new line items. If ANY item exceeds the stock available
//     after restoration, the whole operation fails and the caller keeps
//     its original products untouched.
//
// Because restoration fully precedes deduction, item order cannot change
// the outcome.
func Apply(products []models.Product, oldItems, newItems []models.InvoiceItem) ([]models.Product, error) {
	next := cloneProducts(products)

	// Phase 1: give back what the previous version of the invoice took.
	restoreInto(next, oldItems)

	// Phase 2: take what the new version needs, all or nothing.
	for _, item := range newItems {
		p := findProduct(next, item.ProductID)
		if p == nil {
			return nil, fmt.Errorf("%w: %s", ErrProductNotFound, item.ProductID)
		}
		if p.Quantity < item.Quantity {
			return nil, fmt.Errorf("%w: %s has %d, invoice needs %d",
				ErrInsufficientStock, p.Name, p.Quantity, item.Quantity)
		}
		p.Quantity -= item.Quantity
	}

	return next, nil
}

// Restore gives an invoice's consumed quantities back to stock, used on
// invoice deletion. There is no failure path: a line item whose product
// was removed from the catalog is skipped with no stock change.
func Restore(products []models.Product, items []models.InvoiceItem) []models.Product {
	next := cloneProducts(products)
	restoreInto(next, items)
	return next
}

func restoreInto(products []models.Product, items []models.InvoiceItem) {
	for _, item := range items {
		if p := findProduct(products, item.ProductID); p != nil {
			p.Quantity += item.Quantity
		}
	}
}

func findProduct(products []models.Product, id string) *models.Product {
	for i := range products {
		if products[i].ID == id {
			return &products[i]
		}
	}
	return nil
}

func cloneProducts(products []models.Product) []models.Product {
	next := make([]models.Product, len(products))
	copy(next, products)
	return next
}
