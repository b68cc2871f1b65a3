package alerts

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/guylavee-07/Base44-AI-Finance-Iadvice/models"
)

// AlertStore is the persistence surface the feed needs.
type AlertStore interface {
	ListAlerts(ctx context.Context, userEmail string, limit int) ([]models.Alert, error)
	MarkAlertRead(ctx context.Context, alertID string) error
}

// Feed caches the newest alerts for one user. Reads flip locally first; a
// failed remote mark is logged but never rolled back.
type Feed struct {
	store     AlertStore
	userEmail string
	limit     int

	mu     sync.RWMutex
	alerts []models.Alert
}

func NewFeed(store AlertStore, userEmail string, limit int) *Feed {
	if limit <= 0 {
		limit = 20
	}
	return &Feed{store: store, userEmail: userEmail, limit: limit}
}

// Load replaces the cache wholesale. On error the previous cache is kept and
// the error returned for the caller to log.
func (f *Feed) Load(ctx context.Context) error {
	alerts, err := f.store.ListAlerts(ctx, f.userEmail, f.limit)
	if err != nil {
		return fmt.Errorf("load alerts: %w", err)
	}

	f.mu.Lock()
	f.alerts = alerts
	f.mu.Unlock()
	return nil
}

// Alerts returns a copy of the cached alerts, newest first.
func (f *Feed) Alerts() []models.Alert {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make([]models.Alert, len(f.alerts))
	copy(out, f.alerts)
	return out
}

// UnreadCount counts cached alerts not yet read.
func (f *Feed) UnreadCount() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	count := 0
	for _, alert := range f.alerts {
		if !alert.IsRead {
			count++
		}
	}
	return count
}

// MarkRead flips the cached alert immediately, then issues the persistence
// mutation. A remote failure leaves the local flag set.
func (f *Feed) MarkRead(ctx context.Context, alertID string) {
	f.mu.Lock()
	for i := range f.alerts {
		if f.alerts[i].ID == alertID {
			f.alerts[i].IsRead = true
			break
		}
	}
	f.mu.Unlock()

	if err := f.store.MarkAlertRead(ctx, alertID); err != nil {
		log.Printf("alerts: mark read %s: %v", alertID, err)
	}
}

// MarkAllRead applies MarkRead semantics to every unread cached alert, with
// the remote mutations issued concurrently.
func (f *Feed) MarkAllRead(ctx context.Context) {
	f.mu.Lock()
	var ids []string
	for i := range f.alerts {
		if !f.alerts[i].IsRead {
			ids = append(ids, f.alerts[i].ID)
			f.alerts[i].IsRead = true
		}
	}
	f.mu.Unlock()

	var wg sync.WaitGroup
	for _, id := range ids {
		wg.Add(1)
		go func(alertID string) {
			defer wg.Done()
			if err := f.store.MarkAlertRead(ctx, alertID); err != nil {
				log.Printf("alerts: mark read %s: %v", alertID, err)
			}
		}(id)
	}
	wg.Wait()
}
