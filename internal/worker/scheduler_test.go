package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScheduler_InvalidSpec(t *testing.T) {
	s := NewScheduler(time.UTC)
	err := s.Add(context.Background(), "roto", "not a cron", func(context.Context) error { return nil })
	assert.Error(t, err)
}

func TestScheduler_RunsTasks(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s := NewScheduler(time.UTC)
	var ok, failed atomic.Int32
	require.NoError(t, s.Add(ctx, "rotacion_qr", "@every 1s", func(ctx context.Context) error {
		if _, hasDeadline := ctx.Deadline(); hasDeadline {
			ok.Add(1)
		}
		return nil
	}))
	require.NoError(t, s.Add(ctx, "cierre", "@every 1s", func(context.Context) error {
		failed.Add(1)
		return errors.New("db down")
	}))
	s.Start()

	assert.Eventually(t, func() bool { return ok.Load() >= 1 && failed.Load() >= 1 }, 3*time.Second, 50*time.Millisecond)

	stopCtx, stopCancel := context.WithTimeout(context.Background(), time.Second)
	defer stopCancel()
	s.Stop(stopCtx)
}
