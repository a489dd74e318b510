package grocery

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/dukerupert/pantrypal/internal/model"
)

var (
	// ErrDuplicate means an item with the same name and category already
	// exists in the target. Nothing was written.
	ErrDuplicate = errors.New("item already exists")
	// ErrInvalidItem means the candidate has no name.
	ErrInvalidItem = errors.New("item name is required")
	// ErrListNotFound means the target list does not exist.
	ErrListNotFound = errors.New("list not found")
)

// Key identifies an item for duplicate detection: name and category, trimmed
// and lower-cased. Two items with empty categories share the empty category
// key and therefore collide when their names match.
type Key struct {
	Name     string
	Category string
}

func KeyOf(name, category string) Key {
	return Key{Name: normalize(name), Category: normalize(category)}
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// ListStore is the subset of the list document store the reconciler needs.
type ListStore interface {
	GetByID(id int64) (*model.List, error)
	Mutate(id int64, fn func(items []model.ListItem) ([]model.ListItem, error)) (*model.List, error)
	RemoveCompleted(id int64, itemIDs []string) (*model.List, error)
}

// PantryStore is the subset of the pantry collection the reconciler needs.
type PantryStore interface {
	ListByUser(userID int64) ([]model.PantryItem, error)
	Create(userID int64, it model.PantryItem) (*model.PantryItem, error)
	Update(id int64, it model.PantryItem) (*model.PantryItem, error)
}

// Reconciler performs duplicate-aware writes into lists and pantries.
type Reconciler struct {
	lists  ListStore
	pantry PantryStore
	logger *slog.Logger
	now    func() time.Time

	// Pantry writes for one user run one at a time so the duplicate read and
	// the insert cannot interleave with another insert for the same user.
	pantryLocks sync.Map // map[int64]*sync.Mutex
}

func NewReconciler(lists ListStore, pantry PantryStore, logger *slog.Logger) *Reconciler {
	return &Reconciler{
		lists:  lists,
		pantry: pantry,
		logger: logger,
		now:    time.Now,
	}
}

func (r *Reconciler) lockPantry(userID int64) func() {
	v, _ := r.pantryLocks.LoadOrStore(userID, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

// AddToList appends item to the list unless an item with the same key is
// already on it. The duplicate check and the append happen in one document
// update. An empty item ID is replaced with a millisecond timestamp that is
// unique within the list.
func (r *Reconciler) AddToList(listID int64, item model.ListItem) (*model.List, model.ListItem, error) {
	if strings.TrimSpace(item.Name) == "" {
		return nil, item, ErrInvalidItem
	}
	item.Name = strings.TrimSpace(item.Name)
	item.Category = strings.TrimSpace(item.Category)

	key := KeyOf(item.Name, item.Category)
	l, err := r.lists.Mutate(listID, func(items []model.ListItem) ([]model.ListItem, error) {
		for _, existing := range items {
			if KeyOf(existing.Name, existing.Category) == key {
				return nil, ErrDuplicate
			}
		}
		item.ID = uniqueItemID(items, item.ID, r.now())
		return append(items, item), nil
	})
	if err != nil {
		if errors.Is(err, ErrDuplicate) {
			return nil, item, err
		}
		return nil, item, fmt.Errorf("add to list: %w", err)
	}
	if l == nil {
		return nil, item, ErrListNotFound
	}

	r.logger.Debug("list item added", "list_id", listID, "item_id", item.ID, "name", item.Name)
	return l, item, nil
}

// AddToPantry inserts item into the user's pantry unless an item with the
// same key is already there.
func (r *Reconciler) AddToPantry(userID int64, item model.PantryItem) (*model.PantryItem, error) {
	if strings.TrimSpace(item.Name) == "" {
		return nil, ErrInvalidItem
	}
	item.Name = strings.TrimSpace(item.Name)
	item.Category = strings.TrimSpace(item.Category)

	unlock := r.lockPantry(userID)
	defer unlock()

	existing, err := r.pantry.ListByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("read pantry: %w", err)
	}
	key := KeyOf(item.Name, item.Category)
	for _, it := range existing {
		if KeyOf(it.Name, it.Category) == key {
			return nil, ErrDuplicate
		}
	}

	created, err := r.pantry.Create(userID, item)
	if err != nil {
		return nil, fmt.Errorf("add to pantry: %w", err)
	}
	r.logger.Debug("pantry item added", "user_id", userID, "id", created.ID, "name", created.Name)
	return created, nil
}

// UpdatePantry rewrites the pantry item id. Renaming it onto the key of
// another item in the same pantry is rejected with ErrDuplicate; keeping its
// own key is always allowed.
func (r *Reconciler) UpdatePantry(userID, id int64, item model.PantryItem) (*model.PantryItem, error) {
	if strings.TrimSpace(item.Name) == "" {
		return nil, ErrInvalidItem
	}
	item.Name = strings.TrimSpace(item.Name)
	item.Category = strings.TrimSpace(item.Category)

	unlock := r.lockPantry(userID)
	defer unlock()

	existing, err := r.pantry.ListByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("read pantry: %w", err)
	}
	key := KeyOf(item.Name, item.Category)
	for _, it := range existing {
		if it.ID != id && KeyOf(it.Name, it.Category) == key {
			return nil, ErrDuplicate
		}
	}

	updated, err := r.pantry.Update(id, item)
	if err != nil {
		return nil, fmt.Errorf("update pantry item: %w", err)
	}
	return updated, nil
}

// MigrationResult describes one move of checked list items into the pantry.
type MigrationResult struct {
	Moved   []model.PantryItem `json:"moved"`
	Skipped []model.ListItem   `json:"skipped"`
	Removed int                `json:"removed"`
	List    *model.List        `json:"list"`
}

// MigrateChecked moves the list's completed items into the user's pantry.
// Items whose key is already in the pantry are skipped. All inserts happen
// before the completed items are removed from the list in a single update; if
// an insert fails the list is left untouched and the error is returned along
// with whatever was already moved.
func (r *Reconciler) MigrateChecked(userID, listID int64) (MigrationResult, error) {
	var res MigrationResult

	l, err := r.lists.GetByID(listID)
	if err != nil {
		return res, fmt.Errorf("read list: %w", err)
	}
	if l == nil {
		return res, ErrListNotFound
	}

	var completed []model.ListItem
	for _, it := range l.Items {
		if it.Completed {
			completed = append(completed, it)
		}
	}
	if len(completed) == 0 {
		res.List = l
		return res, nil
	}

	unlock := r.lockPantry(userID)
	defer unlock()

	existing, err := r.pantry.ListByUser(userID)
	if err != nil {
		return res, fmt.Errorf("read pantry: %w", err)
	}
	seen := make(map[Key]struct{}, len(existing))
	for _, it := range existing {
		seen[KeyOf(it.Name, it.Category)] = struct{}{}
	}

	ids := make([]string, 0, len(completed))
	for _, it := range completed {
		ids = append(ids, it.ID)
		key := KeyOf(it.Name, it.Category)
		if _, ok := seen[key]; ok {
			res.Skipped = append(res.Skipped, it)
			continue
		}
		created, err := r.pantry.Create(userID, model.PantryItemFromList(it))
		if err != nil {
			return res, fmt.Errorf("move %q to pantry: %w", it.Name, err)
		}
		seen[key] = struct{}{}
		res.Moved = append(res.Moved, *created)
	}

	updated, err := r.lists.RemoveCompleted(listID, ids)
	if err != nil {
		return res, fmt.Errorf("remove checked items: %w", err)
	}
	if updated == nil {
		return res, ErrListNotFound
	}
	res.List = updated
	res.Removed = len(l.Items) - len(updated.Items)

	r.logger.Info("checked items moved to pantry",
		"user_id", userID, "list_id", listID,
		"moved", len(res.Moved), "skipped", len(res.Skipped), "removed", res.Removed)
	return res, nil
}

// uniqueItemID keeps a caller-supplied ID when it is free, otherwise derives a
// millisecond timestamp ID and bumps it until nothing on the list uses it.
func uniqueItemID(items []model.ListItem, want string, now time.Time) string {
	taken := make(map[string]struct{}, len(items))
	for _, it := range items {
		taken[it.ID] = struct{}{}
	}
	if want != "" {
		if _, ok := taken[want]; !ok {
			return want
		}
	}
	n := now.UnixMilli()
	for {
		id := strconv.FormatInt(n, 10)
		if _, ok := taken[id]; !ok {
			return id
		}
		n++
	}
}
