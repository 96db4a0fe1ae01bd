package events

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"Shop/internal/models"
)

func TestNewCartItemEvent(t *testing.T) {
	item := models.CartItem{
		ID: 10, CustomerID: 1, CartID: 2, ProductID: 7,
		Quantity: 3, TotalPrice: decimal.RequireFromString("300.00"),
	}

	e1 := NewCartItemEvent(item, true)
	e2 := NewCartItemEvent(item, false)

	assert.True(t, e1.Created)
	assert.False(t, e2.Created)
	assert.Equal(t, item, e1.Item)
	assert.False(t, e1.OccurredAt.IsZero())
	assert.NotEqual(t, e1.ID, e2.ID)
}
