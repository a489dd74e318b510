package grocery

import (
	"math"
	"strings"
	"time"

	"github.com/dukerupert/pantrypal/internal/model"
)

// DefaultExpiryHorizon is the look-ahead window in days for expiring items.
const DefaultExpiryHorizon = 7

// ExpirationLayout is the MM/DD/YYYY form expiration dates are stored in.
// Single-digit months and days are accepted.
const ExpirationLayout = "1/2/2006"

// ParseExpiration parses an expiration date in the local time zone.
func ParseExpiration(s string) (time.Time, bool) {
	return parseIn(s, time.Local)
}

// ExpiringWithin returns the pantry items whose expiration date falls between
// the start of today and horizonDays days later, both ends inclusive. Items
// without a parsable date are skipped. DaysLeft rounds up, so an item
// expiring later today reports 0 and one expiring tomorrow reports 1.
func ExpiringWithin(items []model.PantryItem, now time.Time, horizonDays int) []model.ExpiringIngredient {
	if horizonDays < 0 {
		horizonDays = DefaultExpiryHorizon
	}
	loc := now.Location()
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
	end := start.AddDate(0, 0, horizonDays)

	out := []model.ExpiringIngredient{}
	for _, it := range items {
		exp, ok := parseIn(it.ExpirationDate, loc)
		if !ok {
			continue
		}
		if exp.Before(start) || exp.After(end) {
			continue
		}
		days := int(math.Ceil(exp.Sub(now).Hours() / 24))
		if days < 0 {
			days = 0
		}
		out = append(out, model.ExpiringIngredient{
			ItemID:   it.ID,
			Name:     it.Name,
			DaysLeft: days,
		})
	}
	return out
}

func parseIn(s string, loc *time.Location) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	t, err := time.ParseInLocation(ExpirationLayout, s, loc)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
