package firebase

import (
	"context"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"github.com/rs/zerolog/log"
	"google.golang.org/api/option"

	"horizon/internal/domain/notification"
)

// FCM rejects multicast messages addressed to more tokens than this.
const fcmBatchLimit = 500

// TokenDeactivator marks a device token FCM reported as dead.
type TokenDeactivator func(ctx context.Context, token string) error

// Client delivers push messages through Firebase Cloud Messaging.
type Client struct {
	msgClient   *messaging.Client
	deactivator TokenDeactivator
}

var _ notification.Messenger = (*Client)(nil)

// NewClient initializes the Firebase app from a service account file.
// deactivator may be nil.
func NewClient(ctx context.Context, credentialsFile string, deactivator TokenDeactivator) (*Client, error) {
	app, err := firebase.NewApp(ctx, nil, option.WithCredentialsFile(credentialsFile))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize firebase app: %w", err)
	}

	msgClient, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize firebase messaging client: %w", err)
	}

	return &Client{msgClient: msgClient, deactivator: deactivator}, nil
}

// SendMulticast shows a notification on every device in tokens.
func (c *Client) SendMulticast(ctx context.Context, tokens []string, title, body string, data map[string]string) error {
	return c.multicast(ctx, "notification", tokens, &messaging.Notification{Title: title, Body: body}, data)
}

// SendDataOnly delivers data without an OS notification. Clients handle it
// in the foreground only, to reload their views.
func (c *Client) SendDataOnly(ctx context.Context, tokens []string, data map[string]string) error {
	return c.multicast(ctx, "data", tokens, nil, data)
}

func (c *Client) multicast(ctx context.Context, kind string, tokens []string, n *messaging.Notification, data map[string]string) error {
	if len(tokens) == 0 {
		return nil
	}

	var sent, failed int
	for _, batch := range chunkTokens(tokens, fcmBatchLimit) {
		resp, err := c.msgClient.SendEachForMulticast(ctx, &messaging.MulticastMessage{
			Tokens:       batch,
			Notification: n,
			Data:         data,
		})
		if err != nil {
			return fmt.Errorf("failed to send FCM %s multicast: %w", kind, err)
		}

		sent += resp.SuccessCount
		failed += resp.FailureCount
		if resp.FailureCount > 0 {
			c.handleFailures(ctx, batch, resp)
		}
	}

	log.Debug().Str("kind", kind).Int("sent", sent).Int("failed", failed).Msg("FCM multicast delivered")
	return nil
}

func (c *Client) handleFailures(ctx context.Context, tokens []string, resp *messaging.BatchResponse) {
	for i, r := range resp.Responses {
		if r.Error == nil {
			continue
		}
		if isDeadToken(r.Error) {
			log.Info().Err(r.Error).Str("token", tokens[i]).Msg("deactivating dead FCM token")
			c.deactivate(ctx, tokens[i])
			continue
		}
		log.Warn().Err(r.Error).Int("index", i).Msg("FCM send failed")
	}
}

func (c *Client) deactivate(ctx context.Context, token string) {
	if c.deactivator == nil {
		return
	}
	if err := c.deactivator(ctx, token); err != nil {
		log.Error().Err(err).Str("token", token).Msg("failed to deactivate FCM token")
	}
}

func isDeadToken(err error) bool {
	return messaging.IsUnregistered(err) || messaging.IsInvalidArgument(err)
}

func chunkTokens(tokens []string, size int) [][]string {
	var chunks [][]string
	for i := 0; i < len(tokens); i += size {
		chunks = append(chunks, tokens[i:min(i+size, len(tokens))])
	}
	return chunks
}
