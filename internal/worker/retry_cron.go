package worker

// retry_cron.go
// Failed jobs wait in a Redis sorted set (retry:{queue}) scored by the unix
// millisecond at which they become due. A ticker promotes due jobs back onto
// their queue. ZREM decides ownership, so several API instances can run the
// promoter without double-enqueuing.

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	retryTickInterval = time.Second
	retryBatchSize    = 50
	retryPrefix       = "retry:"
)

func scheduleRetry(ctx context.Context, rdb *redis.Client, queue string, job Job, at time.Time) error {
	encoded, err := json.Marshal(job)
	if err != nil {
		return err
	}
	return rdb.ZAdd(ctx, retryPrefix+queue, redis.Z{
		Score:  float64(at.UnixMilli()),
		Member: encoded,
	}).Err()
}

// promoteDue moves every job due at or before now back to queue and reports
// how many were moved.
func promoteDue(ctx context.Context, rdb *redis.Client, queue string, now time.Time) (int, error) {
	key := retryPrefix + queue
	due, err := rdb.ZRangeByScore(ctx, key, &redis.ZRangeBy{
		Min:   "-inf",
		Max:   strconv.FormatInt(now.UnixMilli(), 10),
		Count: retryBatchSize,
	}).Result()
	if err != nil {
		return 0, err
	}

	moved := 0
	for _, raw := range due {
		removed, err := rdb.ZRem(ctx, key, raw).Result()
		if err != nil {
			return moved, err
		}
		if removed == 0 {
			continue // another promoter took it
		}
		if err := rdb.LPush(ctx, queue, raw).Err(); err != nil {
			return moved, err
		}
		moved++
	}
	return moved, nil
}

// RetryPending returns how many jobs are waiting for their backoff to elapse.
func RetryPending(ctx context.Context, rdb *redis.Client, queue string) (int64, error) {
	return rdb.ZCard(ctx, retryPrefix+queue).Result()
}

func (p *Pool) runRetryLoop(ctx context.Context) {
	ticker := time.NewTicker(retryTickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("retry_cron: shutting down")
			return
		case <-ticker.C:
			for _, q := range p.queues {
				n, err := promoteDue(ctx, p.rdb, q, p.now())
				if err != nil {
					log.Error().Err(err).Str("queue", q).Msg("retry_cron: promote failed")
					continue
				}
				if n > 0 {
					log.Debug().Str("queue", q).Int("jobs", n).Msg("retry_cron: jobs requeued")
				}
			}
		}
	}
}
