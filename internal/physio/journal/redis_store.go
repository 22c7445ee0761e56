package journal

import (
	"context"
	"fmt"

	"github.com/2beens/physiometrics/internal/telemetry/tracing"

	"github.com/go-redis/redis/v8"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

const redisKeyPrefix = "physio:journal:"

var _ Store = (*RedisStore)(nil)

// RedisStore keeps one list per user, each element an encoded journal line.
// RPUSH is atomic, so concurrent appends never interleave.
type RedisStore struct {
	rdb          *redis.Client
	skippedLines lineCounter
}

func NewRedisStore(rdb *redis.Client, skippedLines lineCounter) *RedisStore {
	return &RedisStore{
		rdb:          rdb,
		skippedLines: counterOrNoop(skippedLines),
	}
}

func RedisKey(name string) string {
	return redisKeyPrefix + name
}

func (rs *RedisStore) Append(ctx context.Context, record Record) (err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "journal.redis.append")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	if record.UserName == "" {
		return fmt.Errorf("%w: %w", ErrAppendFailed, ErrEmptyUserName)
	}

	if err := rs.rdb.RPush(ctx, RedisKey(record.UserName), EncodeLine(record)).Err(); err != nil {
		return fmt.Errorf("%w: rpush: %w", ErrAppendFailed, err)
	}
	return nil
}

func (rs *RedisStore) QueryByUser(ctx context.Context, name string) (_ []Record, err error) {
	ctx, span := tracing.GlobalTracer.Start(ctx, "journal.redis.queryByUser")
	defer func() {
		tracing.EndSpanWithErrCheck(span, err)
	}()

	lines, err := rs.rdb.LRange(ctx, RedisKey(name), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("%w: lrange: %w", ErrQueryFailed, err)
	}

	records := make([]Record, 0, len(lines))
	for _, line := range lines {
		record, err := ParseLine(line)
		if err != nil {
			log.Tracef("journal: skipping redis entry: %s", err)
			rs.skippedLines.Inc()
			continue
		}
		if record.UserName == name {
			records = append(records, record)
		}
	}

	span.SetAttributes(attribute.Int("journal.records", len(records)))
	return records, nil
}
