package app

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"truthle-quiz-service/internal/domain"
)

// TypeReminderEmail is the asynq task type for daily play reminders.
const TypeReminderEmail = "email:reminder"

// ReminderPayload is the task body handed to the email worker.
type ReminderPayload struct {
	Email string `json:"email"`
	Date  string `json:"date"`
}

// SubscriberStore lists identities that opted into reminders.
type SubscriberStore interface {
	List(ctx context.Context) ([]domain.Subscriber, error)
}

// Enqueuer is the slice of asynq.Client the reminder scan needs.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// ReminderService runs the daily scan: every subscriber that has not played
// today gets a reminder email queued. Read-side only; it never records.
type ReminderService struct {
	subs     SubscriberStore
	attempts *AttemptService
	queue    Enqueuer
	log      *zap.Logger
}

func NewReminderService(subs SubscriberStore, attempts *AttemptService, queue Enqueuer, log *zap.Logger) *ReminderService {
	if log == nil {
		log = zap.NewNop()
	}
	return &ReminderService{subs: subs, attempts: attempts, queue: queue, log: log}
}

// Scan enqueues reminders for non-players and returns how many were queued.
func (s *ReminderService) Scan(ctx context.Context, date string) (int, error) {
	subscribers, err := s.subs.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("list subscribers: %w", err)
	}

	queued := 0
	for _, sub := range subscribers {
		if sub.Email == "" {
			continue
		}
		if _, played, err := s.attempts.Status(ctx, sub.Identity, date); err != nil {
			s.log.Warn("reminder status check failed",
				zap.String("identity", sub.Identity), zap.Error(err))
			continue
		} else if played {
			continue
		}

		payload, err := json.Marshal(ReminderPayload{Email: sub.Email, Date: date})
		if err != nil {
			return queued, err
		}
		task := asynq.NewTask(TypeReminderEmail, payload)
		if _, err := s.queue.EnqueueContext(ctx, task, asynq.Queue("low"), asynq.MaxRetry(3)); err != nil {
			s.log.Warn("enqueue reminder failed", zap.String("email", sub.Email), zap.Error(err))
			continue
		}
		queued++
	}

	s.log.Info("reminder scan complete", zap.String("date", date),
		zap.Int("subscribers", len(subscribers)), zap.Int("queued", queued))
	return queued, nil
}
