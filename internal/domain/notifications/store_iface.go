package notifications

import (
	"context"
	"time"
)

type StoreAPI interface {
	CreateNotification(ctx context.Context, supervisorID, employeeID int64, action int) (int64, error)
	ListRecent(ctx context.Context, supervisorID int64, since time.Time) ([]Notification, error)
	Deactivate(ctx context.Context, id int64) (found bool, changed bool, err error)
	DeactivateMany(ctx context.Context, ids []int64) (int64, error)
}
