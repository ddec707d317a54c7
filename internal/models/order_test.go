package models

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestItemsTotal(t *testing.T) {
	t.Parallel()

	items := []OrderItem{
		{ProductID: "p1", Quantity: 2, Price: decimal.NewFromInt(10)},
		{ProductID: "p2", Quantity: 1, Price: decimal.NewFromInt(5)},
		{ProductID: "p3", Quantity: 3, Price: decimal.RequireFromString("0.1")},
	}
	assert.True(t, decimal.RequireFromString("25.3").Equal(ItemsTotal(items)))
	assert.True(t, decimal.Zero.Equal(ItemsTotal(nil)))
}

func TestIsDeliveryArea(t *testing.T) {
	t.Parallel()

	assert.True(t, IsDeliveryArea(DefaultDeliveryArea))
	assert.True(t, IsDeliveryArea("manama"))
	assert.False(t, IsDeliveryArea("atlantis"))
	assert.False(t, IsDeliveryArea(""))
}

func TestOrder_JSONEncodesTotalAsNumber(t *testing.T) {
	t.Parallel()

	b, err := json.Marshal(Order{ID: "o1", Total: decimal.NewFromInt(25)})
	require.NoError(t, err)
	assert.Contains(t, string(b), `"total":25`)
}
