package notification

import "context"

// Messenger defines the interface for sending push notifications.
// Implemented by the Firebase FCM client in the infrastructure layer.
type Messenger interface {
	SendMulticast(ctx context.Context, tokens []string, title, body string, data map[string]string) error
	SendDataOnly(ctx context.Context, tokens []string, data map[string]string) error
}

// Publisher fans a change signal out to other server instances and
// connected clients. Implemented over Redis pub/sub.
type Publisher interface {
	PublishViewsChanged(ctx context.Context, userID string) error
}
