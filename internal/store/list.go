package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dukerupert/pantrypal/internal/model"
)

// ListStore persists lists as documents: the item array lives in a single
// JSON column and every mutation replaces it inside one transaction.
type ListStore struct {
	db *sql.DB
}

func NewListStore(db *sql.DB) *ListStore {
	return &ListStore{db: db}
}

func scanList(scanner interface{ Scan(...any) error }) (*model.List, error) {
	var l model.List
	var raw string
	err := scanner.Scan(&l.ID, &l.UserID, &l.Name, &raw, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(raw), &l.Items); err != nil {
		return nil, fmt.Errorf("decode items: %w", err)
	}
	if l.Items == nil {
		l.Items = []model.ListItem{}
	}
	return &l, nil
}

const listCols = `id, user_id, name, items, created_at, updated_at`

func (s *ListStore) Create(userID int64, name string) (*model.List, error) {
	result, err := s.db.Exec(`INSERT INTO lists (user_id, name) VALUES (?, ?)`, userID, name)
	if err != nil {
		return nil, fmt.Errorf("insert list: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(id)
}

func (s *ListStore) GetByID(id int64) (*model.List, error) {
	row := s.db.QueryRow(`SELECT `+listCols+` FROM lists WHERE id = ?`, id)
	l, err := scanList(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get list: %w", err)
	}
	return l, nil
}

func (s *ListStore) ListByUser(userID int64) ([]model.List, error) {
	rows, err := s.db.Query(`SELECT `+listCols+` FROM lists WHERE user_id = ? ORDER BY created_at ASC, id ASC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list lists: %w", err)
	}
	defer rows.Close()

	var lists []model.List
	for rows.Next() {
		l, err := scanList(rows)
		if err != nil {
			return nil, fmt.Errorf("scan list: %w", err)
		}
		lists = append(lists, *l)
	}
	return lists, rows.Err()
}

func (s *ListStore) Delete(id int64) error {
	_, err := s.db.Exec(`DELETE FROM lists WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete list: %w", err)
	}
	return nil
}

// Mutate applies fn to the current item array and writes the result back in
// the same transaction. Returns nil, nil when the list does not exist.
func (s *ListStore) Mutate(id int64, fn func(items []model.ListItem) ([]model.ListItem, error)) (*model.List, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin mutate list: %w", err)
	}
	defer tx.Rollback()

	var raw string
	err = tx.QueryRow(`SELECT items FROM lists WHERE id = ?`, id).Scan(&raw)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read list items: %w", err)
	}

	var items []model.ListItem
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, fmt.Errorf("decode items: %w", err)
	}

	items, err = fn(items)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []model.ListItem{}
	}

	data, err := json.Marshal(items)
	if err != nil {
		return nil, fmt.Errorf("encode items: %w", err)
	}
	if _, err := tx.Exec(`UPDATE lists SET items = ?, updated_at = ? WHERE id = ?`, string(data), time.Now().UTC(), id); err != nil {
		return nil, fmt.Errorf("update list items: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit list items: %w", err)
	}
	return s.GetByID(id)
}

// UpdateItem replaces the item with the same ID. It reports false when no such
// item exists.
func (s *ListStore) UpdateItem(id int64, item model.ListItem) (*model.List, bool, error) {
	found := false
	l, err := s.Mutate(id, func(items []model.ListItem) ([]model.ListItem, error) {
		for i := range items {
			if items[i].ID == item.ID {
				items[i] = item
				found = true
			}
		}
		return items, nil
	})
	return l, found, err
}

// RemoveItem deletes the item with the given ID from the list.
func (s *ListStore) RemoveItem(id int64, itemID string) (*model.List, bool, error) {
	found := false
	l, err := s.Mutate(id, func(items []model.ListItem) ([]model.ListItem, error) {
		kept := items[:0]
		for _, it := range items {
			if it.ID == itemID {
				found = true
				continue
			}
			kept = append(kept, it)
		}
		return kept, nil
	})
	return l, found, err
}

// RemoveCompleted removes the items named by itemIDs that are still marked
// completed. Items that were unchecked in the meantime stay on the list.
func (s *ListStore) RemoveCompleted(id int64, itemIDs []string) (*model.List, error) {
	remove := make(map[string]struct{}, len(itemIDs))
	for _, itemID := range itemIDs {
		remove[itemID] = struct{}{}
	}
	return s.Mutate(id, func(items []model.ListItem) ([]model.ListItem, error) {
		kept := items[:0]
		for _, it := range items {
			if _, ok := remove[it.ID]; ok && it.Completed {
				continue
			}
			kept = append(kept, it)
		}
		return kept, nil
	})
}

// SetAllCompleted checks or unchecks every item on the list.
func (s *ListStore) SetAllCompleted(id int64, completed bool) (*model.List, error) {
	return s.Mutate(id, func(items []model.ListItem) ([]model.ListItem, error) {
		for i := range items {
			items[i].Completed = completed
		}
		return items, nil
	})
}

// ToggleItem flips the completed flag of one item.
func (s *ListStore) ToggleItem(id int64, itemID string) (*model.List, bool, error) {
	found := false
	l, err := s.Mutate(id, func(items []model.ListItem) ([]model.ListItem, error) {
		for i := range items {
			if items[i].ID == itemID {
				items[i].Completed = !items[i].Completed
				found = true
			}
		}
		return items, nil
	})
	return l, found, err
}

// Clear removes every item from the list.
func (s *ListStore) Clear(id int64) (*model.List, error) {
	return s.Mutate(id, func([]model.ListItem) ([]model.ListItem, error) {
		return nil, nil
	})
}
