package payments

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// MockIntentClient implements IntentClient without an external provider.
// This is for demo/testing without a live payment account.
type MockIntentClient struct {
	mu      sync.Mutex
	intents map[string]*Intent
}

func NewMockIntentClient() *MockIntentClient {
	return &MockIntentClient{
		intents: make(map[string]*Intent),
	}
}

func (m *MockIntentClient) CreateIntent(ctx context.Context, amountCents int32, currency string, metadata map[string]string) (*Intent, error) {
	if amountCents <= 0 {
		return nil, fmt.Errorf("invalid intent amount: %d", amountCents)
	}

	intent := &Intent{
		ID:           "pi_mock_" + uuid.New().String(),
		ClientSecret: "secret_" + uuid.New().String(),
	}

	m.mu.Lock()
	m.intents[intent.ID] = intent
	m.mu.Unlock()

	return intent, nil
}

// Get returns a previously created intent, for tests.
func (m *MockIntentClient) Get(id string) (*Intent, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	intent, ok := m.intents[id]
	return intent, ok
}
