package grocery

import "github.com/dukerupert/pantrypal/internal/model"

// Group is one category section of a grouped view.
type Group[T any] struct {
	Category string `json:"category"`
	Items    []T    `json:"items"`
}

// GroupByCategory partitions items by category. Groups appear in the order
// their category is first seen and items keep their input order within a
// group. Category strings are compared exactly.
func GroupByCategory[T any](items []T, category func(T) string) []Group[T] {
	groups := []Group[T]{}
	index := make(map[string]int)
	for _, it := range items {
		c := category(it)
		i, ok := index[c]
		if !ok {
			i = len(groups)
			index[c] = i
			groups = append(groups, Group[T]{Category: c})
		}
		groups[i].Items = append(groups[i].Items, it)
	}
	return groups
}

func GroupListItems(items []model.ListItem) []Group[model.ListItem] {
	return GroupByCategory(items, func(it model.ListItem) string { return it.Category })
}

func GroupPantryItems(items []model.PantryItem) []Group[model.PantryItem] {
	return GroupByCategory(items, func(it model.PantryItem) string { return it.Category })
}
