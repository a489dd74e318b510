// Package barcode resolves product barcodes against the Open Food Facts API.
package barcode

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/tidwall/gjson"
	"golang.org/x/time/rate"

	"github.com/dukerupert/pantrypal/internal/grocery"
	"github.com/dukerupert/pantrypal/internal/model"
)

const (
	DefaultBaseURL = "https://world.openfoodfacts.org/api/v0/product"

	// UnknownProduct names a product the provider returned without a name.
	UnknownProduct = "Unknown Product"

	cacheTTL    = 24 * time.Hour
	maxBodySize = 2 << 20
)

var (
	// ErrNotFound means the provider has no product for the code, or answered
	// with something other than a usable product document.
	ErrNotFound = errors.New("product not found")
	// ErrInvalidCode means the code is empty or not a barcode.
	ErrInvalidCode = errors.New("invalid barcode")
)

type cacheEntry struct {
	item      model.Item
	fetchedAt time.Time
}

// Client looks up products by barcode. Found products are cached and
// outbound requests are rate limited.
type Client struct {
	client  *http.Client
	baseURL string
	limiter *rate.Limiter

	mu    sync.RWMutex
	cache map[string]cacheEntry
}

// NewClient creates a client for baseURL, or DefaultBaseURL when empty.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		client:  &http.Client{Timeout: 10 * time.Second},
		baseURL: strings.TrimRight(baseURL, "/"),
		// Open Food Facts asks for at most 100 product reads per minute.
		limiter: rate.NewLimiter(rate.Every(600*time.Millisecond), 5),
		cache:   make(map[string]cacheEntry),
	}
}

// Lookup returns the catalog-shaped item for code. A provider miss, a non-2xx
// status or an undecodable body all yield ErrNotFound; transport failures are
// returned as errors.
func (c *Client) Lookup(ctx context.Context, code string) (model.Item, error) {
	code = strings.TrimSpace(code)
	if !validCode(code) {
		return model.Item{}, ErrInvalidCode
	}

	c.mu.RLock()
	entry, ok := c.cache[code]
	c.mu.RUnlock()
	if ok && time.Since(entry.fetchedAt) < cacheTTL {
		return entry.item, nil
	}

	item, err := c.fetch(ctx, code)
	if err != nil {
		return model.Item{}, err
	}

	c.mu.Lock()
	c.cache[code] = cacheEntry{item: item, fetchedAt: time.Now()}
	c.mu.Unlock()
	return item, nil
}

func (c *Client) fetch(ctx context.Context, code string) (model.Item, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return model.Item{}, fmt.Errorf("barcode rate limit: %w", err)
	}

	reqURL := fmt.Sprintf("%s/%s.json", c.baseURL, url.PathEscape(code))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return model.Item{}, fmt.Errorf("build barcode request: %w", err)
	}
	req.Header.Set("User-Agent", "PantryPal/1.0")

	resp, err := c.client.Do(req)
	if err != nil {
		return model.Item{}, fmt.Errorf("barcode API request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return model.Item{}, ErrNotFound
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return model.Item{}, fmt.Errorf("read barcode response: %w", err)
	}
	if !gjson.ValidBytes(body) {
		return model.Item{}, ErrNotFound
	}

	doc := gjson.ParseBytes(body)
	if doc.Get("status").Int() != 1 || !doc.Get("product").IsObject() {
		return model.Item{}, ErrNotFound
	}
	return ProductToItem(
		doc.Get("product.product_name").String(),
		doc.Get("product.categories_tags.0").String(),
	), nil
}

// ProductToItem maps a provider product onto the catalog item shape.
func ProductToItem(name, categorySlug string) model.Item {
	name = strings.TrimSpace(name)
	if name == "" {
		name = UnknownProduct
	}
	category := grocery.FormatCategorySlug(categorySlug)
	if category == "" {
		category = grocery.DefaultCategory
	}
	return model.Item{
		Name:     name,
		Category: category,
		Quantity: "1",
	}
}

func validCode(code string) bool {
	if code == "" || len(code) > 64 {
		return false
	}
	for _, r := range code {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
