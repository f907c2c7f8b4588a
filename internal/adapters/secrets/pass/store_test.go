package pass

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreGetUsesPassShowAndKeepsFirstLine(t *testing.T) {
	t.Parallel()

	store := &Store{
		run: func(ctx context.Context, args ...string) (string, string, error) {
			assert.Equal(t, []string{"show", "bots/yolka/telegram"}, args)
			return "123:abc\nuser: @yolka_bot\n", "", nil
		},
	}

	value, err := store.Get(context.Background(), "bots/yolka/telegram")
	require.NoError(t, err)
	assert.Equal(t, "123:abc", value)
}

func TestStoreGetReturnsClearError(t *testing.T) {
	t.Parallel()

	store := &Store{
		run: func(ctx context.Context, args ...string) (string, string, error) {
			return "", "entry not found", errors.New("exit status 1")
		},
	}

	_, err := store.Get(context.Background(), "bots/yolka/telegram")
	require.Error(t, err)
	assert.ErrorContains(t, err, "pass get")
	assert.ErrorContains(t, err, "bots/yolka/telegram")
	assert.ErrorContains(t, err, "entry not found")
}

func TestStoreGetRejectsEmptyEntry(t *testing.T) {
	t.Parallel()

	store := &Store{
		run: func(context.Context, ...string) (string, string, error) {
			return "\n", "", nil
		},
	}

	_, err := store.Get(context.Background(), "bots/empty")
	require.ErrorContains(t, err, "is empty")
}

func TestStoreGetHonoursCancelledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := (&Store{run: func(context.Context, ...string) (string, string, error) {
		t.Fatal("pass must not run")
		return "", "", nil
	}}).Get(ctx, "bots/yolka/telegram")
	require.ErrorIs(t, err, context.Canceled)
}
