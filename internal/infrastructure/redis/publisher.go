package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const viewsChannelPrefix = "horizon:views:"

// ViewsChannel is the pub/sub channel a user's invalidation signals go to.
func ViewsChannel(userID string) string {
	return viewsChannelPrefix + userID
}

type viewsChanged struct {
	UserID string    `json:"userId"`
	At     time.Time `json:"at"`
}

// Publisher announces stale account views over Redis pub/sub.
type Publisher struct {
	client *redis.Client
	now    func() time.Time
}

func NewPublisher(client *redis.Client) *Publisher {
	return &Publisher{client: client, now: time.Now}
}

func (p *Publisher) PublishViewsChanged(ctx context.Context, userID string) error {
	payload, err := json.Marshal(viewsChanged{UserID: userID, At: p.now().UTC()})
	if err != nil {
		return fmt.Errorf("failed to encode views event: %w", err)
	}

	if err := p.client.Publish(ctx, ViewsChannel(userID), payload).Err(); err != nil {
		return fmt.Errorf("failed to publish views event: %w", err)
	}
	return nil
}
