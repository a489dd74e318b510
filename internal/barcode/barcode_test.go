package barcode

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dukerupert/pantrypal/internal/model"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL)
}

func TestLookupFound(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/737628064502.json", r.URL.Path)
		fmt.Fprint(w, `{"status":1,"product":{"product_name":"Rice Noodles","categories_tags":["en:plant-based-foods","en:cereals"]}}`)
	})

	item, err := c.Lookup(context.Background(), "737628064502")
	require.NoError(t, err)
	assert.Equal(t, model.Item{
		Name:     "Rice Noodles",
		Category: "Plant Based Foods",
		Quantity: "1",
	}, item)
}

func TestLookupDefaults(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"status":1,"product":{}}`)
	})

	item, err := c.Lookup(context.Background(), "123")
	require.NoError(t, err)
	assert.Equal(t, UnknownProduct, item.Name)
	assert.Equal(t, "Other", item.Category)
	assert.Equal(t, "1", item.Quantity)
	assert.Empty(t, item.Unit)
	assert.Empty(t, item.Price)
	assert.Empty(t, item.ExpirationDate)
}

func TestLookupNotFound(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"status zero", http.StatusOK, `{"status":0,"status_verbose":"product not found"}`},
		{"server error", http.StatusInternalServerError, `oops`},
		{"not found status", http.StatusNotFound, `{}`},
		{"malformed json", http.StatusOK, `{"status":1,"product":`},
		{"missing product", http.StatusOK, `{"status":1}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				fmt.Fprint(w, tt.body)
			})
			_, err := c.Lookup(context.Background(), "42")
			assert.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestLookupTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	c := NewClient(srv.URL)
	srv.Close()

	_, err := c.Lookup(context.Background(), "42")
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrNotFound))
}

func TestLookupInvalidCode(t *testing.T) {
	c := NewClient("http://127.0.0.1:0")
	for _, code := range []string{"", "   ", "abc", "12-34"} {
		_, err := c.Lookup(context.Background(), code)
		assert.ErrorIs(t, err, ErrInvalidCode, "code %q", code)
	}
}

func TestLookupCachesFoundProducts(t *testing.T) {
	var calls atomic.Int32
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		fmt.Fprint(w, `{"status":1,"product":{"product_name":"Milk","categories_tags":["en:dairies"]}}`)
	})

	for range 3 {
		_, err := c.Lookup(context.Background(), "111")
		require.NoError(t, err)
	}
	assert.Equal(t, int32(1), calls.Load())
}

func TestProductToItem(t *testing.T) {
	item := ProductToItem("  Oat Milk ", "en:dairy-substitutes")
	assert.Equal(t, "Oat Milk", item.Name)
	assert.Equal(t, "Dairy Substitutes", item.Category)
}
