package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

const defaultStripeBaseURL = "https://api.stripe.com"

// StripeGateway talks to the Stripe payment intents API with form encoded
// requests, as their API expects.
type StripeGateway struct {
	secretKey string
	baseURL   string
	client    *http.Client
}

// NewStripeGateway creates a gateway. An empty baseURL selects the public
// Stripe endpoint, tests point it at a local server.
func NewStripeGateway(secretKey, baseURL string) *StripeGateway {
	if baseURL == "" {
		baseURL = defaultStripeBaseURL
	}

	return &StripeGateway{
		secretKey: secretKey,
		baseURL:   strings.TrimRight(baseURL, "/"),
		client:    &http.Client{Timeout: 15 * time.Second},
	}
}

// stripeIntent is the wire shape of a payment intent response.
type stripeIntent struct {
	ID           string `json:"id"`
	ClientSecret string `json:"client_secret"`
	Status       string `json:"status"`
	Amount       int64  `json:"amount"`
	Currency     string `json:"currency"`
	Error        *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// CreateIntent creates a payment intent for the given amount in minor units.
func (g *StripeGateway) CreateIntent(
	ctx context.Context,
	amountCents int64,
	currency string,
	metadata map[string]string,
) (*Intent, error) {
	form := url.Values{}
	form.Set("amount", strconv.FormatInt(amountCents, 10))
	form.Set("currency", currency)
	form.Set("payment_method_types[]", "card")

	for k, v := range metadata {
		form.Set(fmt.Sprintf("metadata[%s]", k), v)
	}

	return g.do(ctx, http.MethodPost, "/v1/payment_intents", form)
}

// ConfirmIntent confirms the intent on the provider side.
func (g *StripeGateway) ConfirmIntent(ctx context.Context, id string) (*Intent, error) {
	form := url.Values{}
	form.Set("payment_method", "pm_card_visa")

	return g.do(ctx, http.MethodPost, "/v1/payment_intents/"+url.PathEscape(id)+"/confirm", form)
}

// GetIntent looks up the current intent state.
func (g *StripeGateway) GetIntent(ctx context.Context, id string) (*Intent, error) {
	return g.do(ctx, http.MethodGet, "/v1/payment_intents/"+url.PathEscape(id), nil)
}

func (g *StripeGateway) do(ctx context.Context, method, path string, form url.Values) (*Intent, error) {
	var body io.Reader
	if form != nil {
		body = strings.NewReader(form.Encode())
	}

	req, err := http.NewRequestWithContext(ctx, method, g.baseURL+path, body)
	if err != nil {
		return nil, errors.Wrap(err, "build stripe request")
	}

	req.Header.Set("Authorization", "Bearer "+g.secretKey)
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "stripe request")
	}

	defer func() {
		if cErr := resp.Body.Close(); cErr != nil {
			log.Error().Err(cErr).Msg("close stripe response body")
		}
	}()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20)) //nolint:mnd
	if err != nil {
		return nil, errors.Wrap(err, "read stripe response")
	}

	var si stripeIntent
	if err := json.Unmarshal(raw, &si); err != nil {
		return nil, errors.Wrapf(err, "decode stripe response (status %d)", resp.StatusCode)
	}

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrIntentNotFound
	}

	if resp.StatusCode >= http.StatusBadRequest {
		msg := "unknown error"
		if si.Error != nil {
			msg = si.Error.Message
		}

		return nil, errors.Errorf("stripe: %s (status %d)", msg, resp.StatusCode)
	}

	return &Intent{
		ID:           si.ID,
		ClientSecret: si.ClientSecret,
		Status:       si.Status,
		AmountCents:  si.Amount,
		Currency:     si.Currency,
	}, nil
}
