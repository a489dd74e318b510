// Package catalog reads catalog item files for the admin import.
package catalog

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/dukerupert/pantrypal/internal/grocery"
	"github.com/dukerupert/pantrypal/internal/model"
)

var ErrEmpty = errors.New("catalog file has no items")

// Load reads a JSON array or YAML list of items from path.
func Load(path string) ([]model.Item, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()
	return Decode(f)
}

// Decode parses items from r. JSON is accepted because it is valid YAML;
// numeric quantities and prices are kept as their literal text. Items without
// a name are dropped and blank categories are filled in from the name.
func Decode(r io.Reader) ([]model.Item, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, ErrEmpty
	}

	var raw []model.Item
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}

	items := make([]model.Item, 0, len(raw))
	for _, it := range raw {
		it.Name = strings.TrimSpace(it.Name)
		if it.Name == "" {
			continue
		}
		it.Category = strings.TrimSpace(it.Category)
		if it.Category == "" {
			it.Category = grocery.Categorize(it.Name)
		}
		items = append(items, it)
	}
	if len(items) == 0 {
		return nil, ErrEmpty
	}
	return items, nil
}
