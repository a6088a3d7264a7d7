// Package push delivers mobile push notifications through FCM.
package push

import "context"

// Message is a device push payload.
type Message struct {
	Title string
	Body  string
	Data  map[string]string
}

// Sender delivers a push message to a set of device tokens.
type Sender interface {
	Send(ctx context.Context, tokens []string, msg Message) error
}

// NopSender discards every message. Used when FCM credentials are not
// configured.
type NopSender struct{}

func (NopSender) Send(ctx context.Context, tokens []string, msg Message) error {
	return nil
}
