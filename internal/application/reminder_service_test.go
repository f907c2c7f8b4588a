package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/yolka/internal/domain"
	"github.com/bnema/yolka/internal/ports/mocks"
)

func TestReminderOnlyLatestActivityFires(t *testing.T) {
	h := newHarness(t, 45)

	h.handle(t, domain.Event{Kind: domain.EventStart})
	h.clock.Advance(time.Second)
	h.pick(t, 3)

	pending := h.scheduler.Pending()
	require.Len(t, pending, 2)
	for _, task := range pending {
		assert.Equal(t, ReminderDelay, task.delay)
	}

	h.messenger.Reset()
	h.scheduler.FireAll(context.Background())

	reminders := h.messenger.OfKind(domain.ActionSendText)
	require.Len(t, reminders, 1)
	assert.Equal(t, ReminderText, reminders[0].Text)
	assert.Equal(t, int64(100), reminders[0].ChatID)
}

func TestReminderSkipsFinishedAndCompletedSessions(t *testing.T) {
	h := newHarness(t, 20)
	ctx := context.Background()

	session, err := h.selection.Start(ctx, 1)
	require.NoError(t, err)
	require.NoError(t, h.selection.Finish(ctx, 1))
	assert.False(t, h.reminders.Fire(ctx, 1, 100, session.LastActivity))

	session, err = h.selection.Start(ctx, 1)
	require.NoError(t, err)
	for i := 1; i <= domain.MaxPicks; i++ {
		session, _, err = h.selection.Pick(ctx, 1, candidateID(i))
		require.NoError(t, err)
	}
	assert.False(t, h.reminders.Fire(ctx, 1, 100, session.LastActivity))
	assert.Empty(t, h.messenger.Actions())
}

func TestReminderFiresOnceForIdleSession(t *testing.T) {
	h := newHarness(t, 20)
	ctx := context.Background()

	session, err := h.selection.Start(ctx, 1)
	require.NoError(t, err)

	h.reminders.Schedule(1, 100, session.LastActivity)
	h.scheduler.FireAll(ctx)
	h.scheduler.FireAll(ctx)

	assert.Len(t, h.messenger.OfKind(domain.ActionSendText), 1)
}

func TestReminderDeliveryFailureIsReported(t *testing.T) {
	h := newHarness(t, 20)
	ctx := context.Background()

	messenger := mocks.NewMockMessenger(t)
	messenger.EXPECT().Deliver(mockAnyContext(), domain.Action{
		Kind:   domain.ActionSendText,
		ChatID: 100,
		Text:   ReminderText,
	}).Return(errors.New("bot was blocked by the user")).Once()
	reminders := NewReminderService(h.selection, h.scheduler, messenger, nil)

	session, err := h.selection.Start(ctx, 1)
	require.NoError(t, err)
	assert.False(t, reminders.Fire(ctx, 1, 100, session.LastActivity))
}

func TestReminderDeliveryDoesNotBlockUsersOnSameLockStripe(t *testing.T) {
	require.Equal(t, uint64(1)%lockStripes, uint64(65)%lockStripes)

	h := newHarness(t, 20)
	blocking := newBlockingMessenger()
	reminders := NewReminderService(h.selection, h.scheduler, blocking, nil)
	ctx := context.Background()

	session, err := h.selection.Start(ctx, 1)
	require.NoError(t, err)
	_, err = h.selection.Start(ctx, 65)
	require.NoError(t, err)

	fired := make(chan bool, 1)
	go func() {
		fired <- reminders.Fire(ctx, 1, 100, session.LastActivity)
	}()
	waitEntered(t, blocking)

	pickWithin(t, h.selection, 65, candidateID(2), 500*time.Millisecond)

	close(blocking.release)
	assert.True(t, <-fired)
}
