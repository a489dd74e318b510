package grocery

import (
	"errors"
	"sync"

	"github.com/dukerupert/pantrypal/internal/model"
)

var errStore = errors.New("store unavailable")

type fakeLists struct {
	mu     sync.Mutex
	lists  map[int64]*model.List
	writes int
	fail   bool
}

func newFakeLists(l *model.List) *fakeLists {
	return &fakeLists{lists: map[int64]*model.List{l.ID: l}}
}

func (f *fakeLists) GetByID(id int64) (*model.List, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	l, ok := f.lists[id]
	if !ok {
		return nil, nil
	}
	cp := *l
	cp.Items = append([]model.ListItem(nil), l.Items...)
	return &cp, nil
}

func (f *fakeLists) Mutate(id int64, fn func([]model.ListItem) ([]model.ListItem, error)) (*model.List, error) {
	f.mu.Lock()
	l, ok := f.lists[id]
	if !ok {
		f.mu.Unlock()
		return nil, nil
	}
	if f.fail {
		f.mu.Unlock()
		return nil, errStore
	}
	items, err := fn(append([]model.ListItem(nil), l.Items...))
	if err != nil {
		f.mu.Unlock()
		return nil, err
	}
	l.Items = items
	f.writes++
	f.mu.Unlock()
	return f.GetByID(id)
}

func (f *fakeLists) RemoveCompleted(id int64, itemIDs []string) (*model.List, error) {
	remove := make(map[string]bool)
	for _, itemID := range itemIDs {
		remove[itemID] = true
	}
	return f.Mutate(id, func(items []model.ListItem) ([]model.ListItem, error) {
		var kept []model.ListItem
		for _, it := range items {
			if remove[it.ID] && it.Completed {
				continue
			}
			kept = append(kept, it)
		}
		return kept, nil
	})
}

type fakePantry struct {
	mu       sync.Mutex
	items    []model.PantryItem
	nextID   int64
	writes   int
	failRead bool
	failOn   string
}

func (f *fakePantry) ListByUser(userID int64) ([]model.PantryItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failRead {
		return nil, errStore
	}
	var out []model.PantryItem
	for _, it := range f.items {
		if it.UserID == userID {
			out = append(out, it)
		}
	}
	return out, nil
}

func (f *fakePantry) Create(userID int64, it model.PantryItem) (*model.PantryItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failOn != "" && it.Name == f.failOn {
		return nil, errStore
	}
	f.nextID++
	it.ID = f.nextID
	it.UserID = userID
	f.items = append(f.items, it)
	f.writes++
	return &it, nil
}

func (f *fakePantry) Update(id int64, it model.PantryItem) (*model.PantryItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.items {
		if f.items[i].ID == id {
			it.ID = id
			it.UserID = f.items[i].UserID
			f.items[i] = it
			f.writes++
			return &it, nil
		}
	}
	return nil, nil
}
