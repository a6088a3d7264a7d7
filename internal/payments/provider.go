// Package payments abstracts the external payment-intent provider.
package payments

import "context"

// Intent is the provider-side handle for an online charge.
type Intent struct {
	ID           string
	ClientSecret string
}

// IntentClient creates payment intents with an external provider. Amounts
// are minor units (cents) and are passed through without conversion.
type IntentClient interface {
	CreateIntent(ctx context.Context, amountCents int32, currency string, metadata map[string]string) (*Intent, error)
}
