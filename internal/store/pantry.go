package store

import (
	"database/sql"
	"fmt"

	"github.com/dukerupert/pantrypal/internal/model"
)

type PantryStore struct {
	db *sql.DB
}

func NewPantryStore(db *sql.DB) *PantryStore {
	return &PantryStore{db: db}
}

func scanPantryItem(scanner interface{ Scan(...any) error }) (*model.PantryItem, error) {
	var it model.PantryItem
	err := scanner.Scan(
		&it.ID, &it.UserID, &it.Name, &it.Category, &it.Quantity,
		&it.Unit, &it.Price, &it.ExpirationDate, &it.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &it, nil
}

const pantryCols = `id, user_id, name, category, quantity, unit, price, expiration_date, created_at`

func (s *PantryStore) GetByID(id int64) (*model.PantryItem, error) {
	row := s.db.QueryRow(`SELECT `+pantryCols+` FROM pantry_items WHERE id = ?`, id)
	it, err := scanPantryItem(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get pantry item: %w", err)
	}
	return it, nil
}

func (s *PantryStore) ListByUser(userID int64) ([]model.PantryItem, error) {
	rows, err := s.db.Query(
		`SELECT `+pantryCols+` FROM pantry_items WHERE user_id = ? ORDER BY created_at ASC, id ASC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list pantry items: %w", err)
	}
	defer rows.Close()

	var items []model.PantryItem
	for rows.Next() {
		it, err := scanPantryItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan pantry item: %w", err)
		}
		items = append(items, *it)
	}
	return items, rows.Err()
}

func (s *PantryStore) Create(userID int64, it model.PantryItem) (*model.PantryItem, error) {
	result, err := s.db.Exec(
		`INSERT INTO pantry_items (user_id, name, category, quantity, unit, price, expiration_date) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		userID, it.Name, it.Category, it.Quantity, it.Unit, it.Price, it.ExpirationDate,
	)
	if err != nil {
		return nil, fmt.Errorf("insert pantry item: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(id)
}

func (s *PantryStore) Update(id int64, it model.PantryItem) (*model.PantryItem, error) {
	_, err := s.db.Exec(
		`UPDATE pantry_items SET name = ?, category = ?, quantity = ?, unit = ?, price = ?, expiration_date = ? WHERE id = ?`,
		it.Name, it.Category, it.Quantity, it.Unit, it.Price, it.ExpirationDate, id,
	)
	if err != nil {
		return nil, fmt.Errorf("update pantry item: %w", err)
	}
	return s.GetByID(id)
}

func (s *PantryStore) Delete(id int64) error {
	_, err := s.db.Exec(`DELETE FROM pantry_items WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete pantry item: %w", err)
	}
	return nil
}
