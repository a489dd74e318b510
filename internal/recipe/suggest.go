package recipe

import (
	"context"
	"log/slog"
	"strings"

	"golang.org/x/sync/errgroup"
)

const (
	lookupConcurrency = 6
	// MaxSuggestions caps how many distinct meals are fetched in full.
	MaxSuggestions = 60
)

// Suggestion is a meal offered for the user's pantry.
type Suggestion struct {
	Meal
	MatchedExpiring []string `json:"matched_expiring,omitempty"`
}

type SuggestOptions struct {
	// Ingredients are the pantry item names to search by.
	Ingredients []string
	Filter      Filter
	// Query keeps only meals whose name contains it, case-insensitively.
	Query string
	// Expiring are the names of pantry items close to expiry.
	Expiring []string
}

// Suggester builds suggestion lists from a Client. API faults never fail a
// suggestion request; the affected ingredient or meal is left out.
type Suggester struct {
	client *Client
	logger *slog.Logger
}

func NewSuggester(client *Client, logger *slog.Logger) *Suggester {
	return &Suggester{client: client, logger: logger}
}

func (s *Suggester) Client() *Client { return s.client }

// Suggest searches by every ingredient, merges the hits in ingredient order
// without repeats, fetches the full recipes and applies the filter and query.
func (s *Suggester) Suggest(ctx context.Context, opts SuggestOptions) []Suggestion {
	ingredients := uniqueFold(opts.Ingredients)
	if len(ingredients) == 0 {
		return []Suggestion{}
	}

	hits := make([][]MealSummary, len(ingredients))
	// Failures are logged and skipped, so the group never cancels.
	var g errgroup.Group
	g.SetLimit(lookupConcurrency)
	for i, ing := range ingredients {
		g.Go(func() error {
			meals, err := s.client.FilterByIngredient(ctx, ing)
			if err != nil {
				s.logger.Warn("filter by ingredient failed", "ingredient", ing, "error", err)
				return nil
			}
			hits[i] = meals
			return nil
		})
	}
	g.Wait()

	var ids []string
	seen := make(map[string]struct{})
	for _, meals := range hits {
		for _, m := range meals {
			if _, ok := seen[m.ID]; ok {
				continue
			}
			seen[m.ID] = struct{}{}
			ids = append(ids, m.ID)
		}
	}
	if len(ids) > MaxSuggestions {
		ids = ids[:MaxSuggestions]
	}

	details := make([]*Meal, len(ids))
	var lookups errgroup.Group
	lookups.SetLimit(lookupConcurrency)
	for i, id := range ids {
		lookups.Go(func() error {
			meal, err := s.client.Lookup(ctx, id)
			if err != nil {
				s.logger.Warn("meal lookup failed", "meal_id", id, "error", err)
				return nil
			}
			details[i] = meal
			return nil
		})
	}
	lookups.Wait()

	query := strings.ToLower(strings.TrimSpace(opts.Query))
	out := []Suggestion{}
	for _, meal := range details {
		if meal == nil {
			continue
		}
		ok, matched := opts.Filter.Match(*meal, opts.Expiring)
		if !ok {
			continue
		}
		if query != "" && !strings.Contains(strings.ToLower(meal.Name), query) {
			continue
		}
		out = append(out, Suggestion{Meal: *meal, MatchedExpiring: matched})
	}
	return out
}

func uniqueFold(names []string) []string {
	var out []string
	seen := make(map[string]struct{})
	for _, n := range names {
		n = strings.TrimSpace(n)
		key := strings.ToLower(n)
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, n)
	}
	return out
}
