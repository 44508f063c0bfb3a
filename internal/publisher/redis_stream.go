package publisher

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/fortuna/dugout/internal/commands"
)

const (
	DefaultStream = "commands.mlb"

	// streams are trimmed to roughly this many entries
	defaultMaxLen  = 10000
	publishTimeout = 2 * time.Second
)

// RedisStreamPublisher appends every dispatched command to a Redis stream so
// other services can follow bot activity.
type RedisStreamPublisher struct {
	client *redis.Client
	stream string
	maxLen int64
	logger *slog.Logger
}

// NewRedisStreamPublisher creates a publisher from an existing client.
func NewRedisStreamPublisher(client *redis.Client, stream string) *RedisStreamPublisher {
	if stream == "" {
		stream = DefaultStream
	}
	return &RedisStreamPublisher{
		client: client,
		stream: stream,
		maxLen: defaultMaxLen,
		logger: slog.Default().With("component", "stream-publisher", "stream", stream),
	}
}

// Stream returns the stream name.
func (p *RedisStreamPublisher) Stream() string {
	return p.stream
}

// PublishCommand appends ev to the stream.
func (p *RedisStreamPublisher) PublishCommand(ctx context.Context, ev commands.Event) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return err
	}

	return p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: p.stream,
		MaxLen: p.maxLen,
		Approx: true,
		Values: map[string]interface{}{
			"command":   ev.Command,
			"ok":        ev.OK,
			"data":      string(data),
			"timestamp": ev.At.Unix(),
		},
	}).Err()
}

// OnCommand implements commands.Observer. Failures are logged, never
// surfaced to the chat reply.
func (p *RedisStreamPublisher) OnCommand(ctx context.Context, ev commands.Event) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	if err := p.PublishCommand(ctx, ev); err != nil {
		p.logger.Warn("publish failed", "command", ev.Command, "error", err)
	}
}
