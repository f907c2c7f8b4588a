package application

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bnema/yolka/internal/adapters/store/memory"
	"github.com/bnema/yolka/internal/domain"
	"github.com/bnema/yolka/internal/ports/mocks"
)

func TestSelectionServicePickUntilComplete(t *testing.T) {
	h := newHarness(t, 45)
	ctx := context.Background()

	_, err := h.selection.Start(ctx, 1)
	require.NoError(t, err)

	for i := 1; i < domain.MaxPicks; i++ {
		h.clock.Advance(time.Second)
		session, result, err := h.selection.Pick(ctx, 1, candidateID(i))
		require.NoError(t, err)
		assert.False(t, result.Complete)
		assert.Len(t, result.Picked, i)
		assert.Empty(t, session.RenderID)
		assert.True(t, session.LastActivity.Equal(h.clock.Now()))
	}

	session, result, err := h.selection.Pick(ctx, 1, candidateID(40))
	require.NoError(t, err)
	assert.True(t, result.Complete)
	assert.Equal(t, domain.StateCompleted, session.State)
	assert.Equal(t, "render-1", session.RenderID)
	assert.Equal(t, candidateID(40), result.Picked[6])

	stored, err := h.store.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "render-1", stored.RenderID)

	_, _, err = h.selection.Pick(ctx, 1, candidateID(41))
	require.ErrorIs(t, err, domain.ErrSessionCompleted)
}

func TestSelectionServicePickWithoutSession(t *testing.T) {
	h := newHarness(t, 10)

	_, _, err := h.selection.Pick(context.Background(), 9, candidateID(1))
	require.ErrorIs(t, err, domain.ErrSessionNotStarted)

	session, err := h.selection.Get(context.Background(), 9)
	require.NoError(t, err)
	assert.Equal(t, domain.StateIdle, session.State)
	assert.Empty(t, session.Picked)
}

func TestSelectionServiceUnknownCandidateLeavesSession(t *testing.T) {
	h := newHarness(t, 10)
	ctx := context.Background()

	started, err := h.selection.Start(ctx, 1)
	require.NoError(t, err)
	h.clock.Advance(time.Minute)

	_, _, err = h.selection.Pick(ctx, 1, "nope")
	require.ErrorIs(t, err, domain.ErrUnknownCandidate)

	stored, err := h.store.Get(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, stored.Picked)
	assert.True(t, stored.LastActivity.Equal(started.LastActivity))
}

func TestSelectionServiceDuplicatePickRefreshesActivity(t *testing.T) {
	h := newHarness(t, 10)
	ctx := context.Background()

	_, err := h.selection.Start(ctx, 1)
	require.NoError(t, err)
	_, _, err = h.selection.Pick(ctx, 1, candidateID(2))
	require.NoError(t, err)

	h.clock.Advance(time.Second)
	session, result, err := h.selection.Pick(ctx, 1, candidateID(2))
	require.NoError(t, err)
	assert.True(t, result.Duplicate)
	assert.Equal(t, []domain.CandidateID{candidateID(2)}, session.Picked)
	assert.True(t, session.LastActivity.Equal(h.clock.Now()))
}

func TestSelectionServiceNavigate(t *testing.T) {
	h := newHarness(t, 45)
	ctx := context.Background()

	_, err := h.selection.Start(ctx, 1)
	require.NoError(t, err)

	session, err := h.selection.Navigate(ctx, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, session.Page)

	_, err = h.selection.Navigate(ctx, 1, -1)
	require.ErrorIs(t, err, domain.ErrInvalidPage)
	stored, err := h.store.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, stored.Page)

	session, err = h.selection.Navigate(ctx, 1, 99)
	require.NoError(t, err)
	assert.Equal(t, 2, session.Page)
}

func TestSelectionServiceConcurrentFinalPicksCompleteOnce(t *testing.T) {
	h := newHarness(t, 45)
	ctx := context.Background()

	_, err := h.selection.Start(ctx, 1)
	require.NoError(t, err)
	for i := 1; i < domain.MaxPicks; i++ {
		_, _, err := h.selection.Pick(ctx, 1, candidateID(i))
		require.NoError(t, err)
	}

	const contenders = 20
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		completed int
		rejected  int
	)
	for i := 0; i < contenders; i++ {
		wg.Add(1)
		go func(id domain.CandidateID) {
			defer wg.Done()
			_, result, err := h.selection.Pick(ctx, 1, id)

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil && result.Complete:
				completed++
			case errors.Is(err, domain.ErrSessionCompleted):
				rejected++
			}
		}(candidateID(domain.MaxPicks + i))
	}
	wg.Wait()

	assert.Equal(t, 1, completed)
	assert.Equal(t, contenders-1, rejected)

	stored, err := h.store.Get(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, stored.Picked, domain.MaxPicks)
}

func TestSelectionServiceClaimRender(t *testing.T) {
	h := newHarness(t, 20)
	ctx := context.Background()

	_, err := h.selection.Start(ctx, 1)
	require.NoError(t, err)
	for i := 1; i <= domain.MaxPicks; i++ {
		_, _, err := h.selection.Pick(ctx, 1, candidateID(i))
		require.NoError(t, err)
	}

	_, ok, err := h.selection.ClaimRender(ctx, 1, "render-404")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 1, h.store.Len())

	claimed, ok, err := h.selection.ClaimRender(ctx, 1, "render-1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Len(t, claimed.Picked, domain.MaxPicks)
	assert.Equal(t, "render-1", claimed.RenderID)

	session, err := h.selection.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, domain.StateIdle, session.State)

	_, ok, err = h.selection.ClaimRender(ctx, 1, "render-1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSelectionServiceClaimRenderReportsClearFailure(t *testing.T) {
	store := mocks.NewMockSessionStore(t)
	service := NewSelectionService(store, testCatalog(t, 10), newFakeClock(), nil)

	waiting := domain.Session{
		UserID:   1,
		State:    domain.StateCompleted,
		Picked:   []domain.CandidateID{candidateID(1)},
		RenderID: "render-1",
	}
	clearErr := errors.New("read-only")
	store.EXPECT().Get(mockAnyContext(), domain.UserID(1)).Return(waiting, nil).Once()
	store.EXPECT().Clear(mockAnyContext(), domain.UserID(1)).Return(clearErr).Once()

	_, ok, err := service.ClaimRender(context.Background(), 1, "render-1")
	require.ErrorIs(t, err, clearErr)
	assert.False(t, ok)
}

func TestSelectionServiceRestartAbandonsPendingRender(t *testing.T) {
	h := newHarness(t, 20)
	ctx := context.Background()

	_, err := h.selection.Start(ctx, 1)
	require.NoError(t, err)
	for i := 1; i <= domain.MaxPicks; i++ {
		_, _, err := h.selection.Pick(ctx, 1, candidateID(i))
		require.NoError(t, err)
	}

	session, err := h.selection.Start(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, session.RenderID)

	_, ok, err := h.selection.ClaimRender(ctx, 1, "render-1")
	require.NoError(t, err)
	assert.False(t, ok)

	stored, err := h.store.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, domain.StateSelecting, stored.State)
}

func TestSelectionServiceFinish(t *testing.T) {
	store := memory.NewStore()
	service := NewSelectionService(store, testCatalog(t, 5), newFakeClock(), nil)
	ctx := context.Background()

	_, err := service.Start(ctx, 3)
	require.NoError(t, err)
	require.NoError(t, service.Finish(ctx, 3))
	assert.Equal(t, 0, store.Len())
}

func TestSelectionServiceStoreErrors(t *testing.T) {
	store := mocks.NewMockSessionStore(t)
	clock := mocks.NewMockClock(t)
	service := NewSelectionService(store, testCatalog(t, 5), clock, nil)

	getErr := errors.New("connection reset")
	store.EXPECT().Get(mockAnyContext(), domain.UserID(1)).Return(domain.Session{}, getErr).Once()

	_, _, err := service.Pick(context.Background(), 1, candidateID(1))
	require.ErrorIs(t, err, getErr)
	assert.ErrorContains(t, err, "load session")

	putErr := errors.New("read-only")
	clock.EXPECT().Now().Return(baseTime).Once()
	store.EXPECT().Put(mockAnyContext(), domain.NewSession(1, baseTime)).Return(putErr).Once()

	_, err = service.Start(context.Background(), 1)
	require.ErrorIs(t, err, putErr)
	assert.ErrorContains(t, err, "save session")
}

func TestSelectionServiceIsCurrent(t *testing.T) {
	h := newHarness(t, 20)
	ctx := context.Background()

	ok, err := h.selection.IsCurrent(ctx, 1, baseTime)
	require.NoError(t, err)
	assert.False(t, ok)

	session, err := h.selection.Start(ctx, 1)
	require.NoError(t, err)
	ok, err = h.selection.IsCurrent(ctx, 1, session.LastActivity)
	require.NoError(t, err)
	assert.True(t, ok)

	h.clock.Advance(time.Minute)
	_, err = h.selection.Navigate(ctx, 1, 1)
	require.NoError(t, err)
	ok, err = h.selection.IsCurrent(ctx, 1, session.LastActivity)
	require.NoError(t, err)
	assert.False(t, ok)
}
