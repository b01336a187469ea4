package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"crewtrack/internal/events"
	"crewtrack/internal/notification"

	"github.com/jackc/pgx/v5/pgconn"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// ConsumeLeaveDecisions turns committed leave decisions into employee
// notifications. Messages are committed only after the notification is
// stored; the unique (leave_id, event_type) constraint makes redelivery
// harmless.
func ConsumeLeaveDecisions(
	ctx context.Context,
	reader *kafkago.Reader,
	notificationService notification.Service,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.leave_decision")
	log.Info("leave decision consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("leave decision consumer stopped")
				return
			}
			log.Error("fetch leave decision message failed", zap.Error(err))
			continue
		}

		var event events.LeaveDecisionEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Error("decode leave decision event failed", zap.Error(err))
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		_, err = notificationService.Create(ctx, notification.CreateNotificationRequest{
			EmployeeID: event.EmployeeID,
			Kind:       event.EventType,
			RefID:      event.LeaveID,
			Message:    decisionMessage(event),
		})
		if err != nil {
			if isDuplicateNotification(err) {
				log.Warn("notification already exists for event, skipping",
					zap.String("leave_id", event.LeaveID),
					zap.String("event_type", event.EventType),
				)
				_ = reader.CommitMessages(ctx, msg)
				continue
			}

			log.Error("create notification failed",
				zap.String("leave_id", event.LeaveID),
				zap.String("employee_id", event.EmployeeID),
				zap.Error(err),
			)
			continue
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit leave decision message failed", zap.Error(err))
			continue
		}

		log.Info("notification created from leave decision",
			zap.String("leave_id", event.LeaveID),
			zap.String("employee_id", event.EmployeeID),
			zap.String("status", event.Status),
		)
	}
}

func decisionMessage(event events.LeaveDecisionEvent) string {
	if event.Status == "APPROVED" {
		return "Your leave request has been approved"
	}
	return "Your leave request has been rejected"
}

func isDuplicateNotification(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "duplicate key value")
}
