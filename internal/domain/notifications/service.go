package notifications

import (
	"context"
	"log/slog"
	"sort"
	"time"
)

type Service struct {
	store  StoreAPI
	window time.Duration
	now    func() time.Time
}

func New(store StoreAPI, windowDays int) *Service {
	if windowDays <= 0 {
		windowDays = DefaultWindowDays
	}
	return &Service{
		store:  store,
		window: time.Duration(windowDays) * 24 * time.Hour,
		now:    time.Now,
	}
}

func (s *Service) Create(ctx context.Context, supervisorID, employeeID int64, action int) (int64, error) {
	return s.store.CreateNotification(ctx, supervisorID, employeeID, action)
}

// Notify records a notification for every supervisor. Failures are logged and
// skipped.
func (s *Service) Notify(ctx context.Context, supervisorIDs []int64, employeeID int64, action int) {
	for _, supervisorID := range supervisorIDs {
		if _, err := s.store.CreateNotification(ctx, supervisorID, employeeID, action); err != nil {
			slog.Warn("notification create failed",
				"supervisorId", supervisorID,
				"employeeId", employeeID,
				"action", action,
				"err", err,
			)
		}
	}
}

// ListRecent returns active notifications inside the trailing window. A zero
// supervisor id lists every supervisor.
func (s *Service) ListRecent(ctx context.Context, supervisorID int64) ([]Notification, error) {
	return s.store.ListRecent(ctx, supervisorID, s.now().Add(-s.window))
}

// Deactivate clears one notification and reports whether it was active.
func (s *Service) Deactivate(ctx context.Context, id int64) (bool, error) {
	found, changed, err := s.store.Deactivate(ctx, id)
	if err != nil {
		return false, err
	}
	if !found {
		return false, ErrNotFound
	}
	return changed, nil
}

// DeactivateMany clears the given notifications in one statement and returns
// how many were active before the call.
func (s *Service) DeactivateMany(ctx context.Context, ids []int64) (int64, error) {
	unique := uniqueIDs(ids)
	if len(unique) == 0 {
		return 0, ErrNoIDs
	}
	return s.store.DeactivateMany(ctx, unique)
}

func uniqueIDs(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if id <= 0 {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
