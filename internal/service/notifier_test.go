package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisNotifier_PublishesEvent(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	ctx := context.Background()
	sub := rdb.Subscribe(ctx, "exam_attempt_events")
	t.Cleanup(func() { sub.Close() })
	_, err := sub.Receive(ctx)
	require.NoError(t, err)

	n := NewRedisNotifier(rdb, "exam_attempt_events")
	score, passed := 50.0, false
	n.Notify(ctx, AttemptEvent{
		Type:      EventAttemptFinalized,
		AttemptID: 7,
		UserID:    3,
		ExamID:    2,
		Score:     &score,
		Passed:    &passed,
	})

	select {
	case msg := <-sub.Channel():
		var got AttemptEvent
		require.NoError(t, json.Unmarshal([]byte(msg.Payload), &got))
		assert.Equal(t, EventAttemptFinalized, got.Type)
		assert.EqualValues(t, 7, got.AttemptID)
		assert.NotEmpty(t, got.EventID)
		assert.False(t, got.At.IsZero())
		require.NotNil(t, got.Score)
		assert.Equal(t, 50.0, *got.Score)
	case <-time.After(2 * time.Second):
		t.Fatal("no event published")
	}
}

func TestRedisNotifier_SwallowsPublishErrors(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { rdb.Close() })
	mr.Close()

	n := NewRedisNotifier(rdb, "exam_attempt_events")
	assert.NotPanics(t, func() {
		n.Notify(context.Background(), AttemptEvent{Type: EventAttemptStarted, AttemptID: 1})
	})
}

func TestStamp_KeepsExistingIdentity(t *testing.T) {
	at := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	e := stamp(AttemptEvent{EventID: "fixed", At: at})
	assert.Equal(t, "fixed", e.EventID)
	assert.Equal(t, at, e.At)

	fresh := stamp(AttemptEvent{})
	assert.Len(t, fresh.EventID, 36)
}
