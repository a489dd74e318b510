package push

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/dukerupert/pantrypal/internal/grocery"
	"github.com/dukerupert/pantrypal/internal/model"
)

// Sender delivers one payload to one subscription.
type Sender interface {
	Send(sub *model.PushSubscription, payload Payload) error
}

// SubscriptionStore is the slice of the push store the scheduler needs.
type SubscriptionStore interface {
	ListUserIDs() ([]int64, error)
	ListByUser(userID int64) ([]model.PushSubscription, error)
	DeleteByEndpoint(endpoint string) error
	WasSent(userID int64, notifType, refID string) (bool, error)
	RecordSent(userID int64, notifType, refID string) error
}

// PantryLister lists a user's pantry items.
type PantryLister interface {
	ListByUser(userID int64) ([]model.PantryItem, error)
}

// Scheduler periodically sends expiry reminders for pantry items.
type Scheduler struct {
	mu       sync.RWMutex
	sender   Sender
	push     SubscriptionStore
	pantry   PantryLister
	horizon  int
	interval time.Duration
	now      func() time.Time
	logger   *slog.Logger
	cancel   context.CancelFunc
	done     chan struct{}
}

// NewScheduler creates a reminder scheduler. horizonDays bounds how far ahead
// an expiration date triggers a reminder.
func NewScheduler(sender Sender, pushStore SubscriptionStore, pantry PantryLister, horizonDays int, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		sender:   sender,
		push:     pushStore,
		pantry:   pantry,
		horizon:  horizonDays,
		interval: time.Hour,
		now:      time.Now,
		logger:   logger.With("component", "push_scheduler"),
	}
}

// Start begins the scheduler loop. The first check runs immediately.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	ctx, s.cancel = context.WithCancel(ctx)
	s.done = make(chan struct{})
	s.mu.Unlock()

	go func() {
		defer close(s.done)
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		s.Tick()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.Tick()
			}
		}
	}()
}

// Stop gracefully stops the scheduler.
func (s *Scheduler) Stop() {
	s.mu.RLock()
	cancel := s.cancel
	done := s.done
	s.mu.RUnlock()

	if cancel != nil {
		cancel()
	}
	if done != nil {
		<-done
	}
}

// Tick runs one reminder pass over every user with a subscription.
func (s *Scheduler) Tick() {
	userIDs, err := s.push.ListUserIDs()
	if err != nil {
		s.logger.Error("list subscribed users", "error", err)
		return
	}

	for _, uid := range userIDs {
		s.remindUser(uid)
	}
}

func (s *Scheduler) remindUser(userID int64) {
	now := s.now()
	items, err := s.pantry.ListByUser(userID)
	if err != nil {
		s.logger.Error("list pantry", "user_id", userID, "error", err)
		return
	}

	expiring := grocery.ExpiringWithin(items, now, s.horizon)
	if len(expiring) == 0 {
		return
	}

	var subs []model.PushSubscription
	day := now.Format("2006-01-02")
	for _, exp := range expiring {
		refID := fmt.Sprintf("pantry-%d-%s", exp.ItemID, day)
		sent, err := s.push.WasSent(userID, model.NotifTypeExpiryReminder, refID)
		if err != nil {
			s.logger.Error("check sent", "user_id", userID, "error", err)
			continue
		}
		if sent {
			continue
		}

		if subs == nil {
			subs, err = s.push.ListByUser(userID)
			if err != nil {
				s.logger.Error("list subscriptions", "user_id", userID, "error", err)
				return
			}
		}

		payload := reminderPayload(exp)
		live := subs[:0]
		for i := range subs {
			err := s.sender.Send(&subs[i], payload)
			switch {
			case errors.Is(err, ErrExpired):
				if err := s.push.DeleteByEndpoint(subs[i].Endpoint); err != nil {
					s.logger.Error("delete expired subscription", "error", err)
				}
				continue
			case err != nil:
				s.logger.Warn("send expiry reminder", "user_id", userID, "error", err)
			}
			live = append(live, subs[i])
		}
		subs = live

		if err := s.push.RecordSent(userID, model.NotifTypeExpiryReminder, refID); err != nil {
			s.logger.Error("record sent", "user_id", userID, "error", err)
		}
	}
}

func reminderPayload(exp model.ExpiringIngredient) Payload {
	var body string
	switch exp.DaysLeft {
	case 0:
		body = fmt.Sprintf("%s expires today", exp.Name)
	case 1:
		body = fmt.Sprintf("%s expires tomorrow", exp.Name)
	default:
		body = fmt.Sprintf("%s expires in %d days", exp.Name, exp.DaysLeft)
	}
	return Payload{
		Title: "Use it soon",
		Body:  body,
		URL:   "/pantry",
		Tag:   fmt.Sprintf("pantry-%d", exp.ItemID),
	}
}
