package recipe

import "strings"

type Filter string

const (
	FilterAll      Filter = "all"
	FilterHealthy  Filter = "healthy"
	FilterQuick    Filter = "quick"
	FilterBudget   Filter = "budget"
	FilterExpiring Filter = "expiring"
)

// ParseFilter accepts a filter name case-insensitively. Empty means all.
func ParseFilter(s string) (Filter, bool) {
	switch f := Filter(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FilterAll, true
	case FilterAll, FilterHealthy, FilterQuick, FilterBudget, FilterExpiring:
		return f, true
	}
	return "", false
}

// Sets hold lower-cased tags and categories.
var (
	healthyTags       = set("vegetarian", "vegan", "soup", "sidedish", "salad")
	healthyCategories = set("vegetarian", "vegan", "soup", "side", "salad")
	quickTags         = set("onthego", "streetfood", "snack", "breakfast", "sidedish")
	quickCategories   = set("breakfast", "snack", "side")
	budgetTags        = set("budget")
)

func set(values ...string) map[string]struct{} {
	m := make(map[string]struct{}, len(values))
	for _, v := range values {
		m[v] = struct{}{}
	}
	return m
}

func anyTagIn(tags []string, s map[string]struct{}) bool {
	for _, t := range tags {
		if _, ok := s[strings.ToLower(t)]; ok {
			return true
		}
	}
	return false
}

// Match reports whether meal passes f. For FilterExpiring it also returns the
// expiring ingredient names that appear in the meal's ingredient list;
// expiring names are matched as substrings of ingredient names.
func (f Filter) Match(meal Meal, expiring []string) (bool, []string) {
	category := strings.ToLower(meal.Category)
	switch f {
	case FilterHealthy:
		_, ok := healthyCategories[category]
		return ok || anyTagIn(meal.Tags, healthyTags), nil
	case FilterQuick:
		_, ok := quickCategories[category]
		return ok || anyTagIn(meal.Tags, quickTags), nil
	case FilterBudget:
		return anyTagIn(meal.Tags, budgetTags) || strings.Contains(category, "miscellaneous"), nil
	case FilterExpiring:
		matched := MatchExpiring(meal, expiring)
		return len(matched) > 0, matched
	default:
		return true, nil
	}
}

// MatchExpiring returns the expiring names found in the meal's ingredients.
func MatchExpiring(meal Meal, expiring []string) []string {
	var matched []string
	for _, name := range expiring {
		needle := strings.ToLower(strings.TrimSpace(name))
		if needle == "" {
			continue
		}
		for _, ing := range meal.Ingredients {
			if strings.Contains(strings.ToLower(ing.Name), needle) {
				matched = append(matched, name)
				break
			}
		}
	}
	return matched
}
