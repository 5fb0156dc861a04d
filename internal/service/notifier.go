package service

import (
	"context"
	"encoding/json"
	"time"

	"training_exam_backend/pkg/logger"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type AttemptEventType string

const (
	EventAttemptStarted    AttemptEventType = "attempt.started"
	EventAnswerSaved       AttemptEventType = "attempt.answer_saved"
	EventAttemptFinalized  AttemptEventType = "attempt.finalized"
	EventAttemptOverridden AttemptEventType = "attempt.overridden"
)

// AttemptEvent is published after the change it describes has committed.
type AttemptEvent struct {
	EventID   string           `json:"eventId"`
	Type      AttemptEventType `json:"type"`
	AttemptID uint             `json:"attemptId"`
	UserID    uint             `json:"userId"`
	ExamID    uint             `json:"examId"`
	Score     *float64         `json:"score,omitempty"`
	Passed    *bool            `json:"passed,omitempty"`
	At        time.Time        `json:"at"`
}

// Notifier delivers attempt events. Delivery failures never affect the caller.
type Notifier interface {
	Notify(ctx context.Context, event AttemptEvent)
}

const publishTimeout = 3 * time.Second

// RedisNotifier publishes events as JSON on a pub/sub channel.
type RedisNotifier struct {
	Redis   *redis.Client
	Channel string
}

func NewRedisNotifier(rdb *redis.Client, channel string) *RedisNotifier {
	return &RedisNotifier{Redis: rdb, Channel: channel}
}

func (n *RedisNotifier) Notify(ctx context.Context, event AttemptEvent) {
	event = stamp(event)
	payload, err := json.Marshal(event)
	if err != nil {
		logger.Log.Error("Failed to encode attempt event", zap.Error(err))
		return
	}

	go func() {
		pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
		defer cancel()
		if err := n.Redis.Publish(pubCtx, n.Channel, payload).Err(); err != nil {
			logger.Log.Warn("Failed to publish attempt event",
				zap.String("eventId", event.EventID),
				zap.String("type", string(event.Type)),
				zap.Error(err))
		}
	}()
}

// LogNotifier writes events to the application log only.
type LogNotifier struct{}

func (LogNotifier) Notify(_ context.Context, event AttemptEvent) {
	event = stamp(event)
	logger.Log.Debug("Attempt event",
		zap.String("eventId", event.EventID),
		zap.String("type", string(event.Type)),
		zap.Uint("attemptId", event.AttemptID),
		zap.Uint("userId", event.UserID),
		zap.Uint("examId", event.ExamID))
}

func stamp(event AttemptEvent) AttemptEvent {
	if event.EventID == "" {
		event.EventID = uuid.NewString()
	}
	if event.At.IsZero() {
		event.At = time.Now().UTC()
	}
	return event
}
