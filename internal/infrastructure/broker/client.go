package broker

import (
	"context"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"blogd/pkg/logger"
)

type Client struct {
	redis     *redis.Client
	stream    string
	group     string
	claimIdle time.Duration
}

// NewClient connects to redis and makes sure the consumer group exists so
// entries published before the first worker starts are not lost.
func NewClient(cfg Config) (*Client, error) {
	opt, err := redis.ParseURL(cfg.URI)
	if err != nil {
		return nil, err
	}

	rdb := redis.NewClient(opt)
	ctx := context.Background()

	err = rdb.XGroupCreateMkStream(ctx, cfg.StreamName, cfg.GroupName, "0").Err()
	if err != nil && !isBusyGroup(err) {
		_ = rdb.Close()

		return nil, err
	}

	logger.Info("connected to redis stream", "stream", cfg.StreamName, "group", cfg.GroupName)

	return &Client{
		redis:     rdb,
		stream:    cfg.StreamName,
		group:     cfg.GroupName,
		claimIdle: time.Duration(cfg.ClaimIdle) * time.Millisecond,
	}, nil
}

func (c *Client) Close() error {
	return c.redis.Close()
}

func isBusyGroup(err error) bool {
	return err != nil && strings.HasPrefix(err.Error(), "BUSYGROUP")
}
