package service

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/time/rate"
)

//go:generate mockgen -package mocks -destination mocks/sender.go . MessageSender

// MessageSender delivers a single message to a single chat.
type MessageSender interface {
	Send(chatID int64, msg string) error
}

// Broadcaster fans one message out to every recipient. Delivery is
// best-effort and independent per recipient; sends are paced with a rate
// limiter to stay under the Telegram flood limit.
type Broadcaster struct {
	sender  MessageSender
	limiter *rate.Limiter

	log *slog.Logger
}

func NewBroadcaster(sender MessageSender, pace time.Duration, log *slog.Logger) *Broadcaster {
	return &Broadcaster{
		sender:  sender,
		limiter: rate.NewLimiter(rate.Every(pace), 1),

		log: log.With("component", "service").With("service", "broadcast"),
	}
}

// Broadcast sends msg to each recipient in order. A failed send is logged and
// does not affect the remaining recipients.
func (b *Broadcaster) Broadcast(ctx context.Context, recipients []int64, msg string) {
	b.log.InfoContext(ctx, "broadcasting alert", "recipients", len(recipients))

	for _, chatID := range recipients {
		if err := b.limiter.Wait(ctx); err != nil {
			b.log.WarnContext(ctx, "broadcast interrupted", "error", err)
			return
		}

		if err := b.sender.Send(chatID, msg); err != nil {
			b.log.ErrorContext(ctx, "failed to send alert", "chatID", chatID, "error", err)
			continue
		}
		b.log.DebugContext(ctx, "alert sent", "chatID", chatID)
	}
}
