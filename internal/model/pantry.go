package model

import "time"

type PantryItem struct {
	ID             int64     `json:"id"`
	UserID         int64     `json:"user_id"`
	Name           string    `json:"name"`
	Category       string    `json:"category"`
	Quantity       string    `json:"quantity"`
	Unit           string    `json:"unit"`
	Price          string    `json:"price"`
	ExpirationDate string    `json:"expirationDate"`
	CreatedAt      time.Time `json:"created_at"`
}

// PantryItemFromList drops the completed flag and the list-local id.
func PantryItemFromList(li ListItem) PantryItem {
	return PantryItem{
		Name:           li.Name,
		Category:       li.Category,
		Quantity:       li.Quantity,
		Unit:           li.Unit,
		Price:          li.Price,
		ExpirationDate: li.ExpirationDate,
	}
}

// PantryItemFromCatalog copies a catalog (or scanned) item into the pantry shape.
func PantryItemFromCatalog(it Item) PantryItem {
	return PantryItem{
		Name:           it.Name,
		Category:       it.Category,
		Quantity:       it.Quantity,
		Unit:           it.Unit,
		Price:          it.Price,
		ExpirationDate: it.ExpirationDate,
	}
}

// ExpiringIngredient is a pantry item that expires within the lookahead window.
type ExpiringIngredient struct {
	ItemID   int64  `json:"item_id"`
	Name     string `json:"name"`
	DaysLeft int    `json:"days_left"`
}
