package journal

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisSink appends events to a stream, one pipelined XADD per event.
type RedisSink struct {
	rdb    *redis.Client
	stream string
	maxLen int64
}

// NewRedisSink writes to stream, trimming it to roughly maxLen entries.
// maxLen <= 0 disables trimming.
func NewRedisSink(rdb *redis.Client, stream string, maxLen int64) *RedisSink {
	return &RedisSink{rdb: rdb, stream: stream, maxLen: maxLen}
}

func (s *RedisSink) WriteBatch(ctx context.Context, events []CallEvent) error {
	if len(events) == 0 {
		return nil
	}

	pipe := s.rdb.Pipeline()
	for _, e := range events {
		pipe.XAdd(ctx, s.args(e))
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("redis: xadd %d journal events to %s: %w", len(events), s.stream, err)
	}
	return nil
}

func (s *RedisSink) args(e CallEvent) *redis.XAddArgs {
	args := &redis.XAddArgs{
		Stream: s.stream,
		Values: e.values(),
	}
	if s.maxLen > 0 {
		args.MaxLen = s.maxLen
		args.Approx = true
	}
	return args
}
