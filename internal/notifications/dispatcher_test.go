package notifications

import (
	"context"
	"sync"
	"testing"
	"time"

	"gymbuddy/internal/featureflags"
	"gymbuddy/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubTokenStore struct {
	mu          sync.Mutex
	tokens      map[uint][]models.NotificationToken
	deactivated []string
}

func (s *stubTokenStore) GetActiveTokens(_ context.Context, userID uint) ([]models.NotificationToken, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tokens[userID], nil
}

func (s *stubTokenStore) DeactivateToken(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deactivated = append(s.deactivated, token)
	return nil
}

type stubSender struct {
	mu      sync.Mutex
	batches [][]ExpoPushMessage
	tickets []ExpoPushTicket
}

func (s *stubSender) Send(_ context.Context, messages []ExpoPushMessage) ([]ExpoPushTicket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.batches = append(s.batches, messages)
	if s.tickets != nil {
		return s.tickets, nil
	}
	out := make([]ExpoPushTicket, len(messages))
	for i := range out {
		out[i] = ExpoPushTicket{Status: "ok"}
	}
	return out, nil
}

func (s *stubSender) batchCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.batches)
}

func newDispatcherHarness(t *testing.T, store *stubTokenStore, sender *stubSender, flags string) *Notifier {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	notifier := NewNotifier(rdb)
	dispatcher := NewPushDispatcher(notifier, sender, store, featureflags.NewManager(flags))

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	require.NoError(t, dispatcher.Start(ctx))

	return notifier
}

func TestPushDispatcher_DeliversToActiveTokens(t *testing.T) {
	store := &stubTokenStore{tokens: map[uint][]models.NotificationToken{
		5: {
			{UserID: 5, Token: "ExponentPushToken[one]", IsActive: true},
			{UserID: 5, Token: "ExponentPushToken[two]", IsActive: true},
		},
	}}
	sender := &stubSender{}
	notifier := newDispatcherHarness(t, store, sender, "push_notifications=on")

	require.NoError(t, notifier.PublishEvent(context.Background(), 5, Event{
		Type:  "session_invite",
		Title: "Workout invite",
		Body:  "Join my session",
	}))

	assert.Eventually(t, func() bool {
		return sender.batchCount() == 1
	}, time.Second, 10*time.Millisecond)

	sender.mu.Lock()
	defer sender.mu.Unlock()
	require.Len(t, sender.batches[0], 2)
	assert.Equal(t, "Workout invite", sender.batches[0][0].Title)
	assert.Equal(t, "default", sender.batches[0][0].Sound)
}

func TestPushDispatcher_FlagDisabledSkipsDelivery(t *testing.T) {
	store := &stubTokenStore{tokens: map[uint][]models.NotificationToken{
		5: {{UserID: 5, Token: "ExponentPushToken[one]", IsActive: true}},
	}}
	sender := &stubSender{}
	notifier := newDispatcherHarness(t, store, sender, "push_notifications=off")

	require.NoError(t, notifier.PublishEvent(context.Background(), 5, Event{Type: "x"}))

	assert.Never(t, func() bool {
		return sender.batchCount() > 0
	}, 200*time.Millisecond, 10*time.Millisecond)
}

func TestPushDispatcher_DeactivatesRejectedTokens(t *testing.T) {
	store := &stubTokenStore{tokens: map[uint][]models.NotificationToken{
		5: {
			{UserID: 5, Token: "ExponentPushToken[stale]", IsActive: true},
			{UserID: 5, Token: "ExponentPushToken[live]", IsActive: true},
		},
	}}
	sender := &stubSender{tickets: []ExpoPushTicket{
		{Status: "error", Message: "gone", Details: struct {
			Error string `json:"error,omitempty"`
		}{Error: "DeviceNotRegistered"}},
		{Status: "ok"},
	}}
	notifier := newDispatcherHarness(t, store, sender, "push_notifications=on")

	require.NoError(t, notifier.PublishEvent(context.Background(), 5, Event{Type: "x"}))

	assert.Eventually(t, func() bool {
		store.mu.Lock()
		defer store.mu.Unlock()
		return len(store.deactivated) == 1 && store.deactivated[0] == "ExponentPushToken[stale]"
	}, time.Second, 10*time.Millisecond)
}
