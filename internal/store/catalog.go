package store

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/dukerupert/pantrypal/internal/model"
)

type CatalogStore struct {
	db *sql.DB
}

func NewCatalogStore(db *sql.DB) *CatalogStore {
	return &CatalogStore{db: db}
}

func scanCatalogItem(scanner interface{ Scan(...any) error }) (*model.Item, error) {
	var it model.Item
	err := scanner.Scan(&it.ID, &it.Name, &it.Category, &it.Quantity, &it.Unit, &it.Price, &it.ExpirationDate, &it.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &it, nil
}

const catalogCols = `id, name, category, quantity, unit, price, expiration_date, created_at`

func (s *CatalogStore) GetByID(id int64) (*model.Item, error) {
	row := s.db.QueryRow(`SELECT `+catalogCols+` FROM catalog_items WHERE id = ?`, id)
	it, err := scanCatalogItem(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get catalog item: %w", err)
	}
	return it, nil
}

// Search returns catalog items whose name contains query, case-insensitively.
// An empty query matches nothing.
func (s *CatalogStore) Search(query string, limit int) ([]model.Item, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}
	if limit <= 0 {
		limit = 50
	}

	pattern := "%" + escapeLike(strings.ToLower(query)) + "%"
	rows, err := s.db.Query(
		`SELECT `+catalogCols+` FROM catalog_items WHERE lower(name) LIKE ? ESCAPE '\' ORDER BY name COLLATE NOCASE ASC LIMIT ?`,
		pattern, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("search catalog: %w", err)
	}
	defer rows.Close()

	var items []model.Item
	for rows.Next() {
		it, err := scanCatalogItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan catalog item: %w", err)
		}
		items = append(items, *it)
	}
	return items, rows.Err()
}

// Import inserts items in a single transaction and returns how many were written.
func (s *CatalogStore) Import(items []model.Item) (int, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("begin import: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(
		`INSERT INTO catalog_items (name, category, quantity, unit, price, expiration_date) VALUES (?, ?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return 0, fmt.Errorf("prepare import: %w", err)
	}
	defer stmt.Close()

	count := 0
	for _, it := range items {
		if strings.TrimSpace(it.Name) == "" {
			continue
		}
		if _, err := stmt.Exec(it.Name, it.Category, it.Quantity, it.Unit, it.Price, it.ExpirationDate); err != nil {
			return 0, fmt.Errorf("insert catalog item %q: %w", it.Name, err)
		}
		count++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit import: %w", err)
	}
	return count, nil
}

func (s *CatalogStore) Count() (int, error) {
	var count int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM catalog_items`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count catalog: %w", err)
	}
	return count, nil
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
