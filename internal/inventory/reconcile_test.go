package inventory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hesabyar/internal/models"
)

func catalog() []models.Product {
	return []models.Product{
		{ID: "p1", Name: "کابل شارژ", BuyPrice: 1000, Quantity: 5, SellPrice: 1500},
		{ID: "p2", Name: "هدفون", BuyPrice: 20000, Quantity: 2, SellPrice: 30000},
	}
}

func TestApplyCreateDeductsStock(t *testing.T) {
	products := catalog()

	next, err := Apply(products, nil, []models.InvoiceItem{
		{ProductID: "p1", Quantity: 3, Price: 1500},
	})
	require.NoError(t, err)

	assert.Equal(t, 2, next[0].Quantity)
	assert.Equal(t, 5, products[0].Quantity, "input slice must stay untouched")
}

func TestApplyOversellFailsAtomically(t *testing.T) {
	products := catalog()

	// p1 has enough, p2 does not: nothing may be deducted.
	next, err := Apply(products, nil, []models.InvoiceItem{
		{ProductID: "p1", Quantity: 1},
		{ProductID: "p2", Quantity: 3},
	})
	require.ErrorIs(t, err, ErrInsufficientStock)
	assert.Nil(t, next)
	assert.Equal(t, 5, products[0].Quantity)
	assert.Equal(t, 2, products[1].Quantity)
}

func TestApplyUnknownProduct(t *testing.T) {
	_, err := Apply(catalog(), nil, []models.InvoiceItem{
		{ProductID: "ghost", Quantity: 1},
	})
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestApplyEditRestoresBeforeDeducting(t *testing.T) {
	products := catalog()
	products[0].Quantity = 0 // all 5 units already sold on the old invoice

	old := []models.InvoiceItem{{ProductID: "p1", Quantity: 5}}
	// Shrink the line to 2 units; restoration must happen first or this
	// would be a false oversell.
	next, err := Apply(products, old, []models.InvoiceItem{{ProductID: "p1", Quantity: 2}})
	require.NoError(t, err)
	assert.Equal(t, 3, next[0].Quantity)
}

func TestApplyEditStillChecksStock(t *testing.T) {
	products := catalog()
	old := []models.InvoiceItem{{ProductID: "p1", Quantity: 1}}

	// 5 in stock + 1 restored = 6 available; asking for 7 must fail.
	_, err := Apply(products, old, []models.InvoiceItem{{ProductID: "p1", Quantity: 7}})
	assert.ErrorIs(t, err, ErrInsufficientStock)
}

func TestRestoreAddsBack(t *testing.T) {
	products := catalog()

	next := Restore(products, []models.InvoiceItem{
		{ProductID: "p1", Quantity: 3},
		{ProductID: "p2", Quantity: 1},
	})
	assert.Equal(t, 8, next[0].Quantity)
	assert.Equal(t, 3, next[1].Quantity)
}

func TestRestoreSkipsDeletedProducts(t *testing.T) {
	products := catalog()

	// The referenced product is gone from the catalog: no error, no change.
	next := Restore(products, []models.InvoiceItem{
		{ProductID: "deleted-long-ago", Quantity: 10},
	})
	assert.Equal(t, products, next)
}
