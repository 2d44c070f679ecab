package core

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"perfeval/internal/domain/notifications"
)

type notifyCall struct {
	supervisors []int64
	employee    int64
	action      int
}

type recordingNotifier struct {
	calls []notifyCall
}

func (r *recordingNotifier) Notify(ctx context.Context, supervisorIDs []int64, employeeID int64, action int) {
	r.calls = append(r.calls, notifyCall{supervisors: supervisorIDs, employee: employeeID, action: action})
}

// memoryStore implements the employee half of StoreAPI; the rest is unused
// by these tests.
type memoryStore struct {
	StoreAPI
	employees map[int64]*Employee
	nextID    int64
}

func (m *memoryStore) GetEmployee(ctx context.Context, id int64) (Employee, error) {
	emp, ok := m.employees[id]
	if !ok {
		return Employee{}, ErrNotFound
	}
	return *emp, nil
}

func (m *memoryStore) CreateEmployee(ctx context.Context, emp Employee) (int64, error) {
	m.nextID++
	emp.ID = m.nextID
	emp.Active = true
	m.employees[emp.ID] = &emp
	return emp.ID, nil
}

func (m *memoryStore) UpdateEmployee(ctx context.Context, id int64, emp Employee) (Reconciliation, error) {
	cur, ok := m.employees[id]
	if !ok {
		return Reconciliation{}, ErrNotFound
	}
	toAdd, toRemove := Reconcile(cur.SupervisorIDs, emp.SupervisorIDs)
	emp.ID, emp.Active = id, cur.Active
	m.employees[id] = &emp
	return Reconciliation{Added: toAdd, Removed: toRemove}, nil
}

func (m *memoryStore) ToggleEmployeeActive(ctx context.Context, id int64) (bool, error) {
	emp, ok := m.employees[id]
	if !ok {
		return false, ErrNotFound
	}
	emp.Active = !emp.Active
	return emp.Active, nil
}

func TestEmployeeAssignmentNotifications(t *testing.T) {
	store := &memoryStore{employees: map[int64]*Employee{}}
	notifier := &recordingNotifier{}
	svc := NewService(store, notifier)
	ctx := context.Background()

	emp, err := svc.CreateEmployee(ctx, Employee{Name: "  Ana Ruiz ", SupervisorIDs: []int64{3, 1, 3}})
	require.NoError(t, err)
	assert.Equal(t, "Ana Ruiz", emp.Name)
	assert.Equal(t, []int64{1, 3}, emp.SupervisorIDs)
	require.Len(t, notifier.calls, 1)
	assert.Equal(t, notifyCall{supervisors: []int64{1, 3}, employee: emp.ID, action: notifications.ActionEmployeeAssigned}, notifier.calls[0])

	notifier.calls = nil
	rec, err := svc.UpdateEmployee(ctx, emp.ID, Employee{Name: "Ana Ruiz", SupervisorIDs: []int64{3, 4}})
	require.NoError(t, err)
	assert.Equal(t, []int64{4}, rec.Added)
	assert.Equal(t, []int64{1}, rec.Removed)
	require.Len(t, notifier.calls, 2)
	assert.Equal(t, notifications.ActionEmployeeAssigned, notifier.calls[0].action)
	assert.Equal(t, []int64{4}, notifier.calls[0].supervisors)
	assert.Equal(t, notifications.ActionEmployeeUnassigned, notifier.calls[1].action)
	assert.Equal(t, []int64{1}, notifier.calls[1].supervisors)
}

func TestToggleEmployeeActiveNotifiesSupervisors(t *testing.T) {
	store := &memoryStore{employees: map[int64]*Employee{
		7: {ID: 7, Name: "Luis", Active: true, SupervisorIDs: []int64{2}},
	}}
	notifier := &recordingNotifier{}
	svc := NewService(store, notifier)
	ctx := context.Background()

	active, err := svc.ToggleEmployeeActive(ctx, 7)
	require.NoError(t, err)
	assert.False(t, active)

	active, err = svc.ToggleEmployeeActive(ctx, 7)
	require.NoError(t, err)
	assert.True(t, active)

	require.Len(t, notifier.calls, 2)
	assert.Equal(t, notifications.ActionEmployeeDeactivated, notifier.calls[0].action)
	assert.Equal(t, notifications.ActionEmployeeReactivated, notifier.calls[1].action)

	_, err = svc.ToggleEmployeeActive(ctx, 99)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateEmployeeWithoutChangesSendsNothing(t *testing.T) {
	store := &memoryStore{employees: map[int64]*Employee{
		7: {ID: 7, Name: "Luis", Active: true, SupervisorIDs: []int64{2}},
	}}
	notifier := &recordingNotifier{}
	svc := NewService(store, notifier)

	_, err := svc.UpdateEmployee(context.Background(), 7, Employee{Name: "Luis M.", SupervisorIDs: []int64{2}})
	require.NoError(t, err)
	assert.Empty(t, notifier.calls)
}

type lookupFailingStore struct {
	*memoryStore
}

func (s lookupFailingStore) GetEmployee(ctx context.Context, id int64) (Employee, error) {
	return Employee{}, errors.New("connection reset")
}

func TestToggleEmployeeActiveSurvivesLookupFailure(t *testing.T) {
	store := &memoryStore{employees: map[int64]*Employee{
		7: {ID: 7, Name: "Luis", Active: true, SupervisorIDs: []int64{2}},
	}}
	notifier := &recordingNotifier{}
	svc := NewService(lookupFailingStore{store}, notifier)

	active, err := svc.ToggleEmployeeActive(context.Background(), 7)
	require.NoError(t, err)
	assert.False(t, active)
	assert.False(t, store.employees[7].Active)
	assert.Empty(t, notifier.calls)
}
