package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/rsharma-dev/stock-notifier/internal/service"
	"github.com/rsharma-dev/stock-notifier/internal/service/mocks"
)

func TestBroadcaster_Broadcast(t *testing.T) {
	const msg = "🔥 \\*Stock Alert\\!\\*"
	recipients := []int64{1301703380, 7500224400, 667911343}

	t.Run("delivers_to_every_recipient", func(t *testing.T) {
		ctrl := gomock.NewController(t)

		sender := mocks.NewMockMessageSender(ctrl)
		for _, chatID := range recipients {
			sender.EXPECT().Send(chatID, msg).Return(nil)
		}

		b := service.NewBroadcaster(sender, time.Millisecond, discardLogger())
		b.Broadcast(context.Background(), recipients, msg)
	})

	t.Run("failure_does_not_abort_remaining", func(t *testing.T) {
		ctrl := gomock.NewController(t)

		sender := mocks.NewMockMessageSender(ctrl)
		sender.EXPECT().Send(recipients[0], msg).Return(nil)
		sender.EXPECT().Send(recipients[1], msg).Return(assert.AnError)
		sender.EXPECT().Send(recipients[2], msg).Return(nil)

		b := service.NewBroadcaster(sender, time.Millisecond, discardLogger())
		b.Broadcast(context.Background(), recipients, msg)
	})

	t.Run("no_recipients", func(t *testing.T) {
		ctrl := gomock.NewController(t)

		sender := mocks.NewMockMessageSender(ctrl)

		b := service.NewBroadcaster(sender, time.Millisecond, discardLogger())
		b.Broadcast(context.Background(), nil, msg)
	})

	t.Run("cancelled_context_stops_delivery", func(t *testing.T) {
		ctrl := gomock.NewController(t)

		sender := mocks.NewMockMessageSender(ctrl)
		// First send may slip through before the limiter observes the
		// cancellation; no further sends are allowed.
		sender.EXPECT().Send(gomock.Any(), msg).Return(nil).MaxTimes(1)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		b := service.NewBroadcaster(sender, time.Hour, discardLogger())
		b.Broadcast(ctx, recipients, msg)
	})

	t.Run("paces_consecutive_sends", func(t *testing.T) {
		ctrl := gomock.NewController(t)

		const pace = 20 * time.Millisecond

		sender := mocks.NewMockMessageSender(ctrl)
		sender.EXPECT().Send(gomock.Any(), msg).Return(nil).Times(len(recipients))

		b := service.NewBroadcaster(sender, pace, discardLogger())

		start := time.Now()
		b.Broadcast(context.Background(), recipients, msg)
		elapsed := time.Since(start)

		// First send is immediate, the rest wait out the pacing interval.
		assert.GreaterOrEqual(t, elapsed, time.Duration(len(recipients)-1)*pace)
	})
}
