package grocery

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/dukerupert/pantrypal/internal/model"
)

// CategorySummary is the per-category line of a pantry summary.
type CategorySummary struct {
	Category string          `json:"category"`
	Count    int             `json:"count"`
	Value    decimal.Decimal `json:"value"`
}

// Summary totals a pantry. Value is price times quantity when the quantity is
// numeric and the price alone otherwise. Items whose price does not parse
// count toward Unpriced and contribute nothing to Value.
type Summary struct {
	Items      int               `json:"items"`
	Unpriced   int               `json:"unpriced"`
	Value      decimal.Decimal   `json:"value"`
	Categories []CategorySummary `json:"categories"`
}

func Summarize(items []model.PantryItem) Summary {
	s := Summary{Categories: []CategorySummary{}}
	index := make(map[string]int)
	for _, it := range items {
		cat := it.Category
		if strings.TrimSpace(cat) == "" {
			cat = DefaultCategory
		}
		i, ok := index[cat]
		if !ok {
			i = len(s.Categories)
			index[cat] = i
			s.Categories = append(s.Categories, CategorySummary{Category: cat})
		}
		s.Items++
		s.Categories[i].Count++

		v, ok := ItemValue(it)
		if !ok {
			s.Unpriced++
			continue
		}
		s.Value = s.Value.Add(v)
		s.Categories[i].Value = s.Categories[i].Value.Add(v)
	}
	return s
}

// ItemValue returns the item's price multiplied by its quantity.
func ItemValue(it model.PantryItem) (decimal.Decimal, bool) {
	price, ok := parseMoney(it.Price)
	if !ok {
		return decimal.Zero, false
	}
	qty, err := decimal.NewFromString(strings.TrimSpace(it.Quantity))
	if err != nil || qty.IsNegative() {
		return price, true
	}
	return price.Mul(qty), true
}

func parseMoney(s string) (decimal.Decimal, bool) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "$")
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil || d.IsNegative() {
		return decimal.Zero, false
	}
	return d, true
}
