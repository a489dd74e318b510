package grocery

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dukerupert/pantrypal/internal/model"
)

func TestSummarize(t *testing.T) {
	items := []model.PantryItem{
		{Name: "Milk", Category: "Dairy", Quantity: "2", Price: "$3.49"},
		{Name: "Cheese", Category: "Dairy", Quantity: "a block", Price: "5.00"},
		{Name: "Rice", Category: "Pantry", Quantity: "1", Price: ""},
		{Name: "Soap", Category: "", Quantity: "3", Price: "1.10"},
	}

	s := Summarize(items)
	assert.Equal(t, 4, s.Items)
	assert.Equal(t, 1, s.Unpriced)
	assert.True(t, s.Value.Equal(decimal.RequireFromString("15.28")), "value = %s", s.Value)

	require.Len(t, s.Categories, 3)
	assert.Equal(t, "Dairy", s.Categories[0].Category)
	assert.Equal(t, 2, s.Categories[0].Count)
	assert.True(t, s.Categories[0].Value.Equal(decimal.RequireFromString("11.98")))
	assert.Equal(t, "Pantry", s.Categories[1].Category)
	assert.True(t, s.Categories[1].Value.IsZero())
	assert.Equal(t, DefaultCategory, s.Categories[2].Category)
}

func TestItemValue(t *testing.T) {
	v, ok := ItemValue(model.PantryItem{Quantity: "0.5", Price: "$1,200.00"})
	require.True(t, ok)
	assert.Equal(t, "600", v.String())

	_, ok = ItemValue(model.PantryItem{Quantity: "1", Price: "free"})
	assert.False(t, ok)
}
