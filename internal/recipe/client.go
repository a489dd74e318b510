// Package recipe suggests meals from TheMealDB based on pantry contents.
package recipe

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/gjson"
)

const (
	DefaultBaseURL = "https://www.themealdb.com/api/json/v1/1"

	maxIngredients = 20
	maxBodySize    = 4 << 20
)

// MealSummary is a filter-by-ingredient hit.
type MealSummary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Thumb string `json:"thumb"`
}

type Ingredient struct {
	Name    string `json:"name"`
	Measure string `json:"measure"`
}

// Meal is a full recipe record.
type Meal struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	Category     string       `json:"category"`
	Area         string       `json:"area"`
	Instructions string       `json:"instructions"`
	Thumb        string       `json:"thumb"`
	Tags         []string     `json:"tags"`
	YouTube      string       `json:"youtube,omitempty"`
	Source       string       `json:"source,omitempty"`
	Ingredients  []Ingredient `json:"ingredients"`
}

// Client talks to TheMealDB's JSON API.
type Client struct {
	client  *http.Client
	baseURL string
}

func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		client:  &http.Client{Timeout: 10 * time.Second},
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// FilterByIngredient returns the meals that use ingredient. An unknown
// ingredient yields an empty slice.
func (c *Client) FilterByIngredient(ctx context.Context, ingredient string) ([]MealSummary, error) {
	doc, err := c.get(ctx, "filter.php", ingredient)
	if err != nil {
		return nil, err
	}
	var meals []MealSummary
	doc.Get("meals").ForEach(func(_, m gjson.Result) bool {
		id := m.Get("idMeal").String()
		if id == "" {
			return true
		}
		meals = append(meals, MealSummary{
			ID:    id,
			Name:  m.Get("strMeal").String(),
			Thumb: m.Get("strMealThumb").String(),
		})
		return true
	})
	return meals, nil
}

// Lookup returns the full recipe for id, or nil when there is none.
func (c *Client) Lookup(ctx context.Context, id string) (*Meal, error) {
	doc, err := c.get(ctx, "lookup.php", id)
	if err != nil {
		return nil, err
	}
	m := doc.Get("meals.0")
	if !m.IsObject() {
		return nil, nil
	}
	meal := parseMeal(m)
	return &meal, nil
}

func (c *Client) get(ctx context.Context, endpoint, param string) (gjson.Result, error) {
	reqURL := fmt.Sprintf("%s/%s?i=%s", c.baseURL, endpoint, url.QueryEscape(param))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return gjson.Result{}, fmt.Errorf("build recipe request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return gjson.Result{}, fmt.Errorf("recipe API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return gjson.Result{}, fmt.Errorf("recipe API returned status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return gjson.Result{}, fmt.Errorf("read recipe response: %w", err)
	}
	if !gjson.ValidBytes(body) {
		return gjson.Result{}, fmt.Errorf("recipe API returned malformed JSON")
	}
	return gjson.ParseBytes(body), nil
}

func parseMeal(m gjson.Result) Meal {
	meal := Meal{
		ID:           m.Get("idMeal").String(),
		Name:         m.Get("strMeal").String(),
		Category:     m.Get("strCategory").String(),
		Area:         m.Get("strArea").String(),
		Instructions: m.Get("strInstructions").String(),
		Thumb:        m.Get("strMealThumb").String(),
		YouTube:      m.Get("strYoutube").String(),
		Source:       m.Get("strSource").String(),
		Tags:         []string{},
		Ingredients:  []Ingredient{},
	}
	for _, tag := range strings.Split(m.Get("strTags").String(), ",") {
		if tag = strings.TrimSpace(tag); tag != "" {
			meal.Tags = append(meal.Tags, tag)
		}
	}
	for i := 1; i <= maxIngredients; i++ {
		n := strconv.Itoa(i)
		name := strings.TrimSpace(m.Get("strIngredient" + n).String())
		if name == "" {
			continue
		}
		meal.Ingredients = append(meal.Ingredients, Ingredient{
			Name:    name,
			Measure: strings.TrimSpace(m.Get("strMeasure" + n).String()),
		})
	}
	return meal
}
