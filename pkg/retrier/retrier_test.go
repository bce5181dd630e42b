package retrier

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func fastRetrier(maxRetries int) *Retrier {
	return New(
		WithInitialInterval(time.Millisecond),
		WithMaxInterval(5*time.Millisecond),
		WithMaxRetries(maxRetries),
	)
}

func TestDoSucceedsAfterTransientFailures(t *testing.T) {
	attempts := 0
	err := fastRetrier(3).Do(context.Background(), func(ctx context.Context) error {
		attempts++
		if attempts < 3 {
			return errors.New("transient")
		}
		return nil
	})

	require.NoError(t, err)
	require.Equal(t, 3, attempts)
}

func TestDoReturnsLastErrorWhenExhausted(t *testing.T) {
	attempts := 0
	err := fastRetrier(2).Do(context.Background(), func(ctx context.Context) error {
		attempts++
		return errors.New("still down")
	})

	require.EqualError(t, err, "still down")
	require.Equal(t, 3, attempts, "initial attempt plus two retries")
}

func TestDoStopsOnCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	attempts := 0
	err := fastRetrier(5).Do(ctx, func(ctx context.Context) error {
		attempts++
		cancel()
		return errors.New("boom")
	})

	require.ErrorIs(t, err, context.Canceled)
	require.Equal(t, 1, attempts)
}

func TestDoWithDataReturnsValue(t *testing.T) {
	attempts := 0
	got, err := DoWithData(fastRetrier(3), context.Background(), func(ctx context.Context) (int, error) {
		attempts++
		if attempts < 2 {
			return 0, errors.New("transient")
		}
		return 42, nil
	})

	require.NoError(t, err)
	require.Equal(t, 42, got)
}
