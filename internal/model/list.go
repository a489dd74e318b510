package model

import "time"

type ListItem struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Category       string `json:"category"`
	Quantity       string `json:"quantity"`
	Unit           string `json:"unit"`
	Price          string `json:"price"`
	ExpirationDate string `json:"expirationDate"`
	Completed      bool   `json:"completed"`
}

type List struct {
	ID        int64      `json:"id"`
	UserID    int64      `json:"user_id"`
	Name      string     `json:"name"`
	Items     []ListItem `json:"items"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// ListItemFromCatalog copies a catalog item into a fresh, uncompleted list item.
func ListItemFromCatalog(it Item) ListItem {
	return ListItem{
		Name:           it.Name,
		Category:       it.Category,
		Quantity:       it.Quantity,
		Unit:           it.Unit,
		Price:          it.Price,
		ExpirationDate: it.ExpirationDate,
	}
}
