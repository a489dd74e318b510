package grocery

import "testing"

func TestCategorizeExactMatch(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"milk", "Dairy"},
		{"Chicken", "Meat & Seafood"},
		{"bread", "Bakery"},
		{"peanut butter", "Pantry"},
		{"ice cream", "Frozen"},
		{"coffee", "Beverages"},
		{"chips", "Snacks"},
		{"paper towels", "Household"},
		{"soap", "Personal Care"},
		{"  apple  ", "Produce"},
	}
	for _, tt := range tests {
		got := Categorize(tt.input)
		if got != tt.want {
			t.Errorf("Categorize(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestCategorizeSubstringMatch(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"boneless chicken thighs", "Meat & Seafood"},
		{"whole wheat bread", "Bakery"},
		{"frozen pizza bites", "Frozen"},
		{"canned black beans", "Pantry"},
		{"dish soap refill", "Household"},
		{"greek yogurt cups", "Dairy"},
		{"almond milk unsweetened", "Dairy"},
		{"fresh orange juice", "Beverages"},
	}
	for _, tt := range tests {
		got := Categorize(tt.input)
		if got != tt.want {
			t.Errorf("Categorize(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestCategorizeLongestKeywordWins(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		// "peanut butter" outranks "butter".
		{"crunchy peanut butter jar", "Pantry"},
		// "ice cream" ties with "chocolate"; the earlier rule wins.
		{"chocolate ice cream", "Frozen"},
	}
	for _, tt := range tests {
		got := Categorize(tt.input)
		if got != tt.want {
			t.Errorf("Categorize(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestCategorizeDefault(t *testing.T) {
	for _, input := range []string{"", "   ", "widget"} {
		if got := Categorize(input); got != DefaultCategory {
			t.Errorf("Categorize(%q) = %q, want %q", input, got, DefaultCategory)
		}
	}
}

func TestFormatCategorySlug(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"en:plant-based-foods", "Plant Based Foods"},
		{"snacks", "Snacks"},
		{"fr:épicerie", "Épicerie"},
		{"en:dairies", "Dairies"},
		{"", ""},
	}
	for _, tt := range tests {
		got := FormatCategorySlug(tt.input)
		if got != tt.want {
			t.Errorf("FormatCategorySlug(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
