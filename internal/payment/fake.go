package payment

import (
	"context"
	"fmt"
	"sync"
)

// FakeGateway is an in-memory Gateway used by tests and dev mode. Intents
// move requires_confirmation -> succeeded on confirm.
type FakeGateway struct {
	mu      sync.Mutex
	seq     int
	intents map[string]*Intent

	// FailNextCreate makes the next CreateIntent return an error.
	FailNextCreate error
}

// NewFakeGateway creates an empty fake gateway.
func NewFakeGateway() *FakeGateway {
	return &FakeGateway{intents: make(map[string]*Intent)}
}

// CreateIntent stores and returns a new intent.
func (g *FakeGateway) CreateIntent(
	_ context.Context,
	amountCents int64,
	currency string,
	_ map[string]string,
) (*Intent, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.FailNextCreate != nil {
		err := g.FailNextCreate
		g.FailNextCreate = nil

		return nil, err
	}

	g.seq++

	in := &Intent{
		ID:           fmt.Sprintf("pi_fake_%d", g.seq),
		ClientSecret: fmt.Sprintf("pi_fake_%d_secret", g.seq),
		Status:       StatusRequiresConfirmation,
		AmountCents:  amountCents,
		Currency:     currency,
	}
	g.intents[in.ID] = in

	return in, nil
}

// ConfirmIntent marks the intent succeeded.
func (g *FakeGateway) ConfirmIntent(_ context.Context, id string) (*Intent, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	in, ok := g.intents[id]
	if !ok {
		return nil, ErrIntentNotFound
	}

	if in.Status != StatusCanceled {
		in.Status = StatusSucceeded
	}

	cp := *in

	return &cp, nil
}

// GetIntent returns the stored intent.
func (g *FakeGateway) GetIntent(_ context.Context, id string) (*Intent, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	in, ok := g.intents[id]
	if !ok {
		return nil, ErrIntentNotFound
	}

	cp := *in

	return &cp, nil
}
