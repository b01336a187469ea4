package notification_test

import (
	"context"
	"testing"
	"time"

	"crewtrack/internal/notification"
	"crewtrack/internal/shared/clock"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type fakeNotificationRepository struct {
	createFn         func(ctx context.Context, n *notification.Notification) error
	findByEmployeeFn func(ctx context.Context, employeeID string) ([]notification.Notification, error)
	markReadFn       func(ctx context.Context, employeeID, id string, at time.Time) error
}

func (f *fakeNotificationRepository) Create(ctx context.Context, n *notification.Notification) error {
	if f.createFn != nil {
		return f.createFn(ctx, n)
	}
	return nil
}

func (f *fakeNotificationRepository) FindByEmployee(ctx context.Context, employeeID string) ([]notification.Notification, error) {
	if f.findByEmployeeFn != nil {
		return f.findByEmployeeFn(ctx, employeeID)
	}
	return nil, nil
}

func (f *fakeNotificationRepository) MarkRead(ctx context.Context, employeeID, id string, at time.Time) error {
	if f.markReadFn != nil {
		return f.markReadFn(ctx, employeeID, id, at)
	}
	return nil
}

var notificationNow = time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)

func TestNotificationService_Create(t *testing.T) {
	ctx := context.Background()
	employeeID := uuid.New().String()

	t.Run("stamps creation time from clock", func(t *testing.T) {
		var stored *notification.Notification
		repo := &fakeNotificationRepository{
			createFn: func(ctx context.Context, n *notification.Notification) error {
				stored = n
				return nil
			},
		}
		svc := notification.NewService(repo, clock.Fixed{T: notificationNow})

		resp, err := svc.Create(ctx, notification.CreateNotificationRequest{
			EmployeeID: employeeID,
			Kind:       "leave_approved",
			RefID:      uuid.New().String(),
			Message:    "Your leave request was approved",
		})

		assert.NoError(t, err)
		assert.Equal(t, notificationNow.Format(time.RFC3339), resp.CreatedAt)
		assert.Nil(t, resp.ReadAt)
		if assert.NotNil(t, stored) {
			assert.Equal(t, notificationNow, stored.CreatedAt)
		}
	})

	t.Run("invalid employee id", func(t *testing.T) {
		svc := notification.NewService(&fakeNotificationRepository{}, clock.Fixed{T: notificationNow})

		_, err := svc.Create(ctx, notification.CreateNotificationRequest{
			EmployeeID: "not-a-uuid",
			Kind:       "leave_approved",
			RefID:      uuid.New().String(),
			Message:    "x",
		})

		assert.Error(t, err)
	})
}

func TestNotificationService_MarkRead(t *testing.T) {
	ctx := context.Background()
	employeeID := uuid.New().String()
	notificationID := uuid.New().String()

	repo := &fakeNotificationRepository{
		markReadFn: func(ctx context.Context, eid, id string, at time.Time) error {
			assert.Equal(t, employeeID, eid)
			assert.Equal(t, notificationID, id)
			assert.Equal(t, notificationNow, at)
			return nil
		},
	}
	svc := notification.NewService(repo, clock.Fixed{T: notificationNow})

	assert.NoError(t, svc.MarkRead(ctx, employeeID, notificationID))
}
