package notifications

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryStore struct {
	items   map[int64]*Notification
	nextID  int64
	failFor int64
}

func newMemoryStore() *memoryStore {
	return &memoryStore{items: map[int64]*Notification{}}
}

func (m *memoryStore) CreateNotification(ctx context.Context, supervisorID, employeeID int64, action int) (int64, error) {
	if supervisorID == m.failFor {
		return 0, errors.New("insert failed")
	}
	m.nextID++
	m.items[m.nextID] = &Notification{
		ID:           m.nextID,
		SupervisorID: supervisorID,
		EmployeeID:   employeeID,
		Action:       action,
		CreatedAt:    time.Now(),
		Active:       true,
	}
	return m.nextID, nil
}

func (m *memoryStore) ListRecent(ctx context.Context, supervisorID int64, since time.Time) ([]Notification, error) {
	var out []Notification
	for _, n := range m.items {
		if !n.Active || n.CreatedAt.Before(since) {
			continue
		}
		if supervisorID > 0 && n.SupervisorID != supervisorID {
			continue
		}
		out = append(out, *n)
	}
	return out, nil
}

func (m *memoryStore) Deactivate(ctx context.Context, id int64) (bool, bool, error) {
	n, ok := m.items[id]
	if !ok {
		return false, false, nil
	}
	was := n.Active
	n.Active = false
	return true, was, nil
}

func (m *memoryStore) DeactivateMany(ctx context.Context, ids []int64) (int64, error) {
	var changed int64
	for _, id := range ids {
		if n, ok := m.items[id]; ok && n.Active {
			n.Active = false
			changed++
		}
	}
	return changed, nil
}

func TestDeactivateManyCountsOnlyChangedRows(t *testing.T) {
	store := newMemoryStore()
	svc := New(store, 0)
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		_, err := svc.Create(ctx, 10, int64(i+1), ActionEmployeeAssigned)
		require.NoError(t, err)
	}

	changed, err := svc.Deactivate(ctx, 2)
	require.NoError(t, err)
	assert.True(t, changed)

	count, err := svc.DeactivateMany(ctx, []int64{1, 2, 3})
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	count, err = svc.DeactivateMany(ctx, []int64{1, 1, 2, 3})
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}

func TestDeactivateManyRequiresIDs(t *testing.T) {
	svc := New(newMemoryStore(), 0)

	_, err := svc.DeactivateMany(context.Background(), []int64{0, -4})
	assert.ErrorIs(t, err, ErrNoIDs)
}

func TestDeactivateSingle(t *testing.T) {
	store := newMemoryStore()
	svc := New(store, 0)
	ctx := context.Background()
	id, err := svc.Create(ctx, 10, 1, ActionEvaluationRecorded)
	require.NoError(t, err)

	changed, err := svc.Deactivate(ctx, id)
	require.NoError(t, err)
	assert.True(t, changed)

	changed, err = svc.Deactivate(ctx, id)
	require.NoError(t, err)
	assert.False(t, changed, "second deactivation is a no-op")

	_, err = svc.Deactivate(ctx, 999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListRecentUsesTrailingWindow(t *testing.T) {
	store := newMemoryStore()
	svc := New(store, 60)
	ctx := context.Background()
	now := time.Date(2024, time.June, 30, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	store.items[1] = &Notification{ID: 1, SupervisorID: 10, EmployeeID: 1, CreatedAt: now.AddDate(0, 0, -59), Active: true}
	store.items[2] = &Notification{ID: 2, SupervisorID: 10, EmployeeID: 2, CreatedAt: now.AddDate(0, 0, -61), Active: true}
	store.items[3] = &Notification{ID: 3, SupervisorID: 11, EmployeeID: 3, CreatedAt: now.AddDate(0, 0, -1), Active: true}
	store.items[4] = &Notification{ID: 4, SupervisorID: 10, EmployeeID: 4, CreatedAt: now, Active: false}

	mine, err := svc.ListRecent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, int64(1), mine[0].ID)

	all, err := svc.ListRecent(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestNotifySkipsFailures(t *testing.T) {
	store := newMemoryStore()
	store.failFor = 11
	svc := New(store, 0)

	svc.Notify(context.Background(), []int64{10, 11, 12}, 5, ActionEmployeeDeactivated)
	assert.Len(t, store.items, 2)
}
