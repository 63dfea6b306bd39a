// Package payment is the boundary to the card payment provider. Orders
// reference intents by id only, all provider state stays on the provider
// side.
package payment

import (
	"context"

	"github.com/pkg/errors"
)

// Intent statuses as reported by the provider.
const (
	StatusRequiresConfirmation = "requires_confirmation"
	StatusSucceeded            = "succeeded"
	StatusCanceled             = "canceled"
)

// ErrIntentNotFound is returned when the provider does not know the
// intent id.
var ErrIntentNotFound = errors.New("payment intent not found")

// Intent is the provider side payment state for one order.
type Intent struct {
	ID           string
	ClientSecret string
	Status       string
	AmountCents  int64
	Currency     string
}

// Gateway abstracts the payment provider.
type Gateway interface {
	CreateIntent(ctx context.Context, amountCents int64, currency string, metadata map[string]string) (*Intent, error)
	ConfirmIntent(ctx context.Context, id string) (*Intent, error)
	GetIntent(ctx context.Context, id string) (*Intent, error)
}
