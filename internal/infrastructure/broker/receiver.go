package broker

import (
	"context"
	"time"

	"github.com/Laisky/errors/v2"
	"github.com/redis/go-redis/v9"

	"blogd/internal/domain/repository/broker"
	"blogd/pkg/logger"
)

const (
	defaultClaimIdle = 5 * time.Minute
	claimBatch       = 16
)

// Receiver reads new entries for a consumer group. Entries another consumer
// left pending for longer than claimIdle are claimed before new ones.
type Receiver struct {
	redis     *redis.Client
	stream    string
	group     string
	blockTime time.Duration
	claimIdle time.Duration
}

func NewReceiver(client *Client) *Receiver {
	claimIdle := client.claimIdle
	if claimIdle <= 0 {
		claimIdle = defaultClaimIdle
	}

	return &Receiver{
		redis:     client.redis,
		stream:    client.stream,
		group:     client.group,
		blockTime: min(5*time.Second, claimIdle),
		claimIdle: claimIdle,
	}
}

func (r *Receiver) Messages(ctx context.Context, consumerName string) (<-chan broker.Message, error) {
	if r.redis == nil {
		logger.Error("redis client is nil in receiver")

		return nil, errors.New("redis not initialized")
	}

	out := make(chan broker.Message)
	go r.consumeLoop(ctx, out, consumerName)

	return out, nil
}

func (r *Receiver) consumeLoop(ctx context.Context, out chan broker.Message, consumerName string) {
	defer close(out)

	var lastClaim time.Time
	for {
		select {
		case <-ctx.Done():
			logger.Debug("message receiving context cancelled", "consumer", consumerName)

			return
		default:
			if time.Since(lastClaim) >= r.claimIdle {
				lastClaim = time.Now()
				if !r.claimAndEmit(ctx, out, consumerName) {
					return
				}
			}

			if !r.readAndEmit(ctx, out, consumerName) {
				return
			}
		}
	}
}

// claimAndEmit takes over idle pending entries. It reports false once ctx is
// done while handing a message over.
func (r *Receiver) claimAndEmit(ctx context.Context, out chan broker.Message, consumerName string) bool {
	start := "0-0"
	for {
		msgs, next, err := r.redis.XAutoClaim(ctx, &redis.XAutoClaimArgs{
			Stream:   r.stream,
			Group:    r.group,
			Consumer: consumerName,
			MinIdle:  r.claimIdle,
			Start:    start,
			Count:    claimBatch,
		}).Result()
		if err != nil {
			if ctx.Err() == nil {
				logger.Error("failed to claim idle entries", "stream", r.stream, "err", err)
			}

			return true
		}

		if len(msgs) > 0 {
			logger.Warn("claimed idle entries", "stream", r.stream, "consumer", consumerName, "count", len(msgs))
		}

		if !r.emit(ctx, out, msgs) {
			return false
		}

		if next == "0-0" || next == "" {
			return true
		}
		start = next
	}
}

// readAndEmit reports false once ctx is done while handing a message over.
func (r *Receiver) readAndEmit(ctx context.Context, out chan broker.Message, consumerName string) bool {
	entries, err := r.redis.XReadGroup(ctx, &redis.XReadGroupArgs{
		Group:    r.group,
		Consumer: consumerName,
		Streams:  []string{r.stream, ">"},
		Count:    1,
		Block:    r.blockTime,
	}).Result()

	if err != nil && !errors.Is(err, redis.Nil) {
		if ctx.Err() == nil {
			logger.Error("failed to read from redis stream group", "stream", r.stream, "err", err)
			time.Sleep(100 * time.Millisecond)
		}

		return true
	}

	for _, stream := range entries {
		if !r.emit(ctx, out, stream.Messages) {
			return false
		}
	}

	return true
}

func (r *Receiver) emit(ctx context.Context, out chan broker.Message, msgs []redis.XMessage) bool {
	for _, msg := range msgs {
		body, ok := msg.Values["body"].(string)
		if !ok {
			logger.Error("invalid body type in redis message", "id", msg.ID)
			_ = r.redis.XAck(ctx, r.stream, r.group, msg.ID).Err()

			continue
		}

		select {
		case out <- &RedisMessage{
			stream:      r.stream,
			group:       r.group,
			id:          msg.ID,
			body:        body,
			redisClient: r.redis,
		}:
		case <-ctx.Done():
			return false
		}
	}

	return true
}
