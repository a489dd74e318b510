package handler

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/dukerupert/pantrypal/internal/auth"
	"github.com/dukerupert/pantrypal/internal/websocket"
)

// LiveAuthorizer resolves WebSocket subscription requests for the caller.
// "pantry" subscribes to the caller's pantry and "list:<id>" to one of the
// caller's lists. The snapshot is the full current document.
type LiveAuthorizer struct {
	lists  *ListHandler
	pantry *PantryHandler
}

func NewLiveAuthorizer(lists *ListHandler, pantry *PantryHandler) *LiveAuthorizer {
	return &LiveAuthorizer{lists: lists, pantry: pantry}
}

func (a *LiveAuthorizer) Authorize(ctx context.Context, topic string) (websocket.Subscription, error) {
	userID := auth.UserID(ctx)
	if userID == 0 {
		return websocket.Subscription{}, websocket.ErrForbidden
	}

	if topic == "pantry" || topic == websocket.PantryTopic(userID) {
		items, err := a.pantry.items(userID)
		if err != nil {
			return websocket.Subscription{}, fmt.Errorf("load pantry: %w", err)
		}
		return websocket.Subscription{
			Topic:    websocket.PantryTopic(userID),
			Snapshot: websocket.NewMessage("pantry", "snapshot", 0, items),
		}, nil
	}

	raw, ok := strings.CutPrefix(topic, "list:")
	if !ok {
		return websocket.Subscription{}, fmt.Errorf("unknown topic %q", topic)
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return websocket.Subscription{}, fmt.Errorf("invalid list id %q", raw)
	}
	l, err := a.lists.lists.GetByID(id)
	if err != nil {
		return websocket.Subscription{}, fmt.Errorf("load list: %w", err)
	}
	if l == nil || l.UserID != userID {
		return websocket.Subscription{}, websocket.ErrForbidden
	}
	return websocket.Subscription{
		Topic:    websocket.ListTopic(id),
		Snapshot: websocket.NewMessage("list", "snapshot", id, l),
	}, nil
}
