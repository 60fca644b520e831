package notifications

import (
	"context"
	"encoding/json"
	"log/slog"

	"gymbuddy/internal/featureflags"
	"gymbuddy/internal/middleware"
	"gymbuddy/internal/models"
	"gymbuddy/internal/observability"
)

// TokenStore is the subset of token persistence the dispatcher needs.
type TokenStore interface {
	GetActiveTokens(ctx context.Context, userID uint) ([]models.NotificationToken, error)
	DeactivateToken(ctx context.Context, token string) error
}

// PushSender delivers a batch of push messages.
type PushSender interface {
	Send(ctx context.Context, messages []ExpoPushMessage) ([]ExpoPushTicket, error)
}

// PushDispatcher bridges the Redis notification channels to the push provider.
// It subscribes to per-user channels, resolves the user's registered device
// tokens and forwards each event as a push message. Delivery is best-effort;
// failures are logged and counted but never surfaced to the publisher.
type PushDispatcher struct {
	notifier *Notifier
	sender   PushSender
	tokens   TokenStore
	flags    *featureflags.Manager
}

// NewPushDispatcher creates a dispatcher wired to the given notifier, sender and token store.
func NewPushDispatcher(notifier *Notifier, sender PushSender, tokens TokenStore, flags *featureflags.Manager) *PushDispatcher {
	return &PushDispatcher{
		notifier: notifier,
		sender:   sender,
		tokens:   tokens,
		flags:    flags,
	}
}

// Start begins consuming notification events until ctx is cancelled.
func (d *PushDispatcher) Start(ctx context.Context) error {
	return d.notifier.StartPatternSubscriber(ctx, func(channel, payload string) {
		d.handle(ctx, channel, payload)
	})
}

func (d *PushDispatcher) handle(ctx context.Context, channel, payload string) {
	userID, ok := UserIDFromChannel(channel)
	if !ok {
		// Broadcast events have no device fan-out.
		return
	}

	if !d.flags.Enabled("push_notifications", userID) {
		return
	}

	var event Event
	if err := json.Unmarshal([]byte(payload), &event); err != nil {
		middleware.Logger.WarnContext(ctx, "push dispatcher: malformed event payload",
			slog.String("channel", channel),
			slog.String("error", err.Error()),
		)
		return
	}

	tokens, err := d.tokens.GetActiveTokens(ctx, userID)
	if err != nil {
		middleware.Logger.ErrorContext(ctx, "push dispatcher: token lookup failed",
			slog.Uint64("user_id", uint64(userID)),
			slog.String("error", err.Error()),
		)
		observability.PushDeliveries.WithLabelValues("token_lookup_error").Inc()
		return
	}
	if len(tokens) == 0 {
		return
	}

	messages := make([]ExpoPushMessage, 0, len(tokens))
	for _, tok := range tokens {
		messages = append(messages, ExpoPushMessage{
			To:    tok.Token,
			Title: event.Title,
			Body:  event.Body,
			Data:  event.Data,
			Sound: "default",
		})
	}

	pushCtx, span := observability.GetTraceLayer().TracePushDelivery(ctx, "expo")
	defer span.End()

	tickets, err := d.sender.Send(pushCtx, messages)
	if err != nil {
		span.RecordError(err)
		middleware.Logger.ErrorContext(ctx, "push dispatcher: delivery failed",
			slog.Uint64("user_id", uint64(userID)),
			slog.String("error", err.Error()),
		)
		observability.PushDeliveries.WithLabelValues("error").Inc()
		return
	}

	for i, ticket := range tickets {
		if i >= len(messages) {
			break
		}
		switch {
		case ticket.Status == "ok":
			observability.PushDeliveries.WithLabelValues("ok").Inc()
		case ticket.DeviceNotRegistered():
			observability.PushDeliveries.WithLabelValues("device_not_registered").Inc()
			if err := d.tokens.DeactivateToken(ctx, messages[i].To); err != nil {
				middleware.Logger.WarnContext(ctx, "push dispatcher: token deactivation failed",
					slog.String("error", err.Error()),
				)
			} else {
				observability.PushTokensDeactivated.Inc()
			}
		default:
			observability.PushDeliveries.WithLabelValues("rejected").Inc()
		}
	}
}
