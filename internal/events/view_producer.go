package events

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// ViewProducer publishes view events onto a redis stream for the analytics
// worker to consume. Publishing is fire-and-forget from the caller's side;
// a lost event only skews view counts.
type ViewProducer struct {
	client     *redis.Client
	streamName string
}

func NewViewProducer(client *redis.Client, streamName string) *ViewProducer {
	return &ViewProducer{
		client:     client,
		streamName: streamName,
	}
}

func (p *ViewProducer) Publish(ctx context.Context, event *ViewEvent) error {
	fields := map[string]interface{}{
		"book_id":   event.BookID,
		"timestamp": event.Timestamp,
	}

	if event.IP != "" {
		fields["ip"] = event.IP
	}
	if event.UserAgent != "" {
		fields["user_agent"] = event.UserAgent
	}
	if event.Referer != "" {
		fields["referer"] = event.Referer
	}

	result := p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: p.streamName,
		Values: fields,
	})

	if err := result.Err(); err != nil {
		return fmt.Errorf("failed to publish view event: %w", err)
	}

	return nil
}

func (p *ViewProducer) StreamLength(ctx context.Context) (int64, error) {
	result := p.client.XLen(ctx, p.streamName)
	return result.Val(), result.Err()
}
