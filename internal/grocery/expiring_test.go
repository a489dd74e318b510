package grocery

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dukerupert/pantrypal/internal/model"
)

func TestExpiringWithin(t *testing.T) {
	now := time.Date(2024, time.June, 10, 9, 30, 0, 0, time.Local)
	items := []model.PantryItem{
		{ID: 1, Name: "Yogurt", ExpirationDate: "06/10/2024"},
		{ID: 2, Name: "Milk", ExpirationDate: "06/11/2024"},
		{ID: 3, Name: "Cheese", ExpirationDate: "06/17/2024"},
		{ID: 4, Name: "Butter", ExpirationDate: "06/18/2024"},
		{ID: 5, Name: "Ham", ExpirationDate: "06/09/2024"},
		{ID: 6, Name: "Rice", ExpirationDate: ""},
		{ID: 7, Name: "Beans", ExpirationDate: "next week"},
		{ID: 8, Name: "Eggs", ExpirationDate: "6/12/2024"},
	}

	got := ExpiringWithin(items, now, DefaultExpiryHorizon)
	require.Len(t, got, 4)

	byName := make(map[string]int)
	for _, e := range got {
		byName[e.Name] = e.DaysLeft
	}
	assert.Equal(t, 0, byName["Yogurt"])
	assert.Equal(t, 1, byName["Milk"])
	assert.Equal(t, 2, byName["Eggs"])
	assert.Equal(t, 7, byName["Cheese"])
	assert.NotContains(t, byName, "Butter")
	assert.NotContains(t, byName, "Ham")
	assert.NotContains(t, byName, "Rice")
	assert.NotContains(t, byName, "Beans")
}

func TestExpiringWithinAtMidnight(t *testing.T) {
	now := time.Date(2024, time.June, 10, 0, 0, 0, 0, time.Local)
	items := []model.PantryItem{
		{ID: 1, Name: "Today", ExpirationDate: "06/10/2024"},
		{ID: 2, Name: "Edge", ExpirationDate: "06/17/2024"},
	}

	got := ExpiringWithin(items, now, 7)
	require.Len(t, got, 2)
	assert.Equal(t, 0, got[0].DaysLeft)
	assert.Equal(t, 7, got[1].DaysLeft)
}

func TestExpiringWithinEmpty(t *testing.T) {
	got := ExpiringWithin(nil, time.Now(), 7)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestParseExpiration(t *testing.T) {
	_, ok := ParseExpiration("12/31/2024")
	assert.True(t, ok)
	_, ok = ParseExpiration("2024-12-31")
	assert.False(t, ok)
	_, ok = ParseExpiration("13/01/2024")
	assert.False(t, ok)
}
