package grocery

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// DefaultCategory is used when no rule matches an item name.
const DefaultCategory = "Other"

type categoryRule struct {
	category string
	exact    []string
	contains []string
}

// Exact names are checked first. Otherwise the longest matching substring
// keyword wins; ties go to the earlier rule.
var categoryRules = []categoryRule{
	{
		category: "Meat & Seafood",
		exact:    []string{"chicken", "beef", "pork", "turkey", "bacon", "sausage", "ham", "steak", "salmon", "shrimp", "tuna", "fish", "lamb", "crab", "tilapia"},
		contains: []string{"chicken breast", "chicken thigh", "ground beef", "ground turkey", "deli meat", "pork chop", "hot dog"},
	},
	{
		category: "Dairy",
		exact:    []string{"milk", "eggs", "butter", "cheese", "yogurt", "cream cheese", "sour cream", "heavy cream", "half and half"},
		contains: []string{"cream cheese", "sour cream", "greek yogurt", "almond milk", "oat milk", "yogurt", "cheese", "milk", "butter", "cream", "egg"},
	},
	{
		category: "Produce",
		exact:    []string{"apple", "apples", "banana", "bananas", "lemon", "lime", "avocado", "tomato", "tomatoes", "potato", "potatoes", "onion", "onions", "garlic", "lettuce", "spinach", "kale", "broccoli", "carrots", "celery", "cucumber", "grapes", "mango", "ginger", "zucchini"},
		contains: []string{"salad mix", "green onion", "sweet potato", "bell pepper", "romaine", "cabbage", "cauliflower", "squash", "melon", "berries", "berry", "fruit", "lettuce", "apple", "banana", "tomato", "potato", "onion", "carrot"},
	},
	{
		category: "Bakery",
		exact:    []string{"bread", "bagels", "tortillas", "rolls", "buns", "muffins", "croissants", "pita"},
		contains: []string{"sourdough", "bread", "bagel", "tortilla", "muffin", "croissant"},
	},
	{
		category: "Pantry",
		exact:    []string{"rice", "pasta", "flour", "sugar", "salt", "pepper", "oil", "olive oil", "vinegar", "honey", "peanut butter", "cereal", "oatmeal", "beans", "lentils", "spaghetti", "noodles"},
		contains: []string{"peanut butter", "olive oil", "maple syrup", "soy sauce", "canned", "cereal", "oatmeal", "rice", "pasta", "noodle", "flour", "sugar", "spice", "sauce", "broth", "soup", "bean", "lentil"},
	},
	{
		category: "Frozen",
		exact:    []string{"ice cream", "frozen pizza", "popsicles"},
		contains: []string{"frozen", "ice cream", "popsicle"},
	},
	{
		category: "Beverages",
		exact:    []string{"water", "juice", "coffee", "tea", "soda", "beer", "wine", "lemonade"},
		contains: []string{"sparkling water", "orange juice", "coffee", "juice", "soda", "water", "beer", "wine", "drink"},
	},
	{
		category: "Snacks",
		exact:    []string{"chips", "crackers", "cookies", "popcorn", "pretzels", "candy", "chocolate"},
		contains: []string{"granola bar", "trail mix", "chip", "cracker", "cookie", "pretzel", "candy", "chocolate", "snack"},
	},
	{
		category: "Household",
		exact:    []string{"paper towels", "toilet paper", "trash bags", "dish soap", "sponges", "napkins", "bleach"},
		contains: []string{"paper towel", "toilet paper", "trash bag", "dish soap", "laundry", "detergent", "cleaner", "sponge", "foil"},
	},
	{
		category: "Personal Care",
		exact:    []string{"shampoo", "conditioner", "soap", "toothpaste", "toothbrush", "deodorant", "lotion", "sunscreen"},
		contains: []string{"body wash", "shampoo", "toothpaste", "toothbrush", "deodorant", "razor", "tissue"},
	},
}

var exactCategory = func() map[string]string {
	m := make(map[string]string)
	for _, r := range categoryRules {
		for _, name := range r.exact {
			if _, ok := m[name]; !ok {
				m[name] = r.category
			}
		}
	}
	return m
}()

// Categorize guesses a grocery category for an item name. Matching is
// case-insensitive: exact names first, then substrings. Unknown names map to
// DefaultCategory.
func Categorize(itemName string) string {
	name := strings.ToLower(strings.TrimSpace(itemName))
	if name == "" {
		return DefaultCategory
	}
	if cat, ok := exactCategory[name]; ok {
		return cat
	}
	best, bestLen := DefaultCategory, 0
	for _, r := range categoryRules {
		for _, kw := range r.contains {
			if len(kw) > bestLen && strings.Contains(name, kw) {
				best, bestLen = r.category, len(kw)
			}
		}
	}
	return best
}

// FormatCategorySlug turns a provider slug such as "en:plant-based-foods" into
// "Plant Based Foods".
func FormatCategorySlug(slug string) string {
	slug = strings.TrimSpace(slug)
	if i := strings.IndexByte(slug, ':'); i >= 0 {
		slug = slug[i+1:]
	}
	words := strings.Split(slug, "-")
	for i, w := range words {
		if w == "" {
			continue
		}
		r, size := utf8.DecodeRuneInString(w)
		words[i] = string(unicode.ToUpper(r)) + w[size:]
	}
	return strings.Join(words, " ")
}
