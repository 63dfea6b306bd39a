package otp_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GoMarket-Shop/GoMarket/internal/kv"
	"github.com/GoMarket-Shop/GoMarket/internal/otp"
)

const subject = "+998901234567"

func TestGenerateAndCheck(t *testing.T) {
	ctx := context.Background()
	svc := otp.NewService(kv.NewMemoryStore())

	code, secret, err := svc.Generate(ctx, subject, 2*time.Minute, false)
	require.NoError(t, err)
	assert.Len(t, code, 6)
	assert.NotEmpty(t, secret)

	assert.NoError(t, svc.Check(ctx, subject, code, secret))

	// wrong code
	wrong := "000000"
	if wrong == code {
		wrong = "000001"
	}

	assert.ErrorIs(t, svc.Check(ctx, subject, wrong, secret), otp.ErrInvalidOtp)

	// wrong secret
	assert.ErrorIs(t, svc.Check(ctx, subject, code, "bogus"), otp.ErrInvalidOtp)

	// unknown subject
	assert.ErrorIs(t, svc.Check(ctx, "someone-else", code, secret), otp.ErrInvalidOtp)
}

// A correct submission does not consume the passcode: verification only
// ends once the caller clears it.
func TestCheckDoesNotConsume(t *testing.T) {
	ctx := context.Background()
	svc := otp.NewService(kv.NewMemoryStore())

	code, secret, err := svc.Generate(ctx, subject, 2*time.Minute, false)
	require.NoError(t, err)

	require.NoError(t, svc.Check(ctx, subject, code, secret))
	assert.NoError(t, svc.Check(ctx, subject, code, secret))

	require.NoError(t, svc.Clear(ctx, subject))
	assert.ErrorIs(t, svc.Check(ctx, subject, code, secret), otp.ErrInvalidOtp)
}

func TestGenerateRejectsPending(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemoryStore()
	svc := otp.NewService(store)

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	store.SetClock(func() time.Time { return now })

	_, _, err := svc.Generate(ctx, subject, 2*time.Minute, true)
	require.NoError(t, err)

	_, _, err = svc.Generate(ctx, subject, 2*time.Minute, true)
	require.Error(t, err)

	rateErr, ok := otp.IsRateLimited(err)
	require.True(t, ok, "second generate must be rate limited")
	assert.Greater(t, rateErr.RetryAfter, time.Duration(0))
	assert.LessOrEqual(t, rateErr.RetryAfter, 2*time.Minute)

	// after the passcode expired a new one is issued again
	now = now.Add(3 * time.Minute)

	_, _, err = svc.Generate(ctx, subject, 2*time.Minute, true)
	assert.NoError(t, err)
}

func TestGenerateOverwritesWithoutReject(t *testing.T) {
	ctx := context.Background()
	svc := otp.NewService(kv.NewMemoryStore())

	oldCode, oldSecret, err := svc.Generate(ctx, subject, 2*time.Minute, false)
	require.NoError(t, err)

	newCode, newSecret, err := svc.Generate(ctx, subject, 2*time.Minute, false)
	require.NoError(t, err)
	assert.NotEqual(t, oldSecret, newSecret)

	assert.ErrorIs(t, svc.Check(ctx, subject, oldCode, oldSecret), otp.ErrInvalidOtp)
	assert.NoError(t, svc.Check(ctx, subject, newCode, newSecret))
}

func TestPendingSecret(t *testing.T) {
	ctx := context.Background()
	svc := otp.NewService(kv.NewMemoryStore())

	_, err := svc.PendingSecret(ctx, subject)
	assert.ErrorIs(t, err, kv.ErrKeyNotFound)

	_, secret, err := svc.Generate(ctx, subject, 2*time.Minute, false)
	require.NoError(t, err)

	pending, err := svc.PendingSecret(ctx, subject)
	require.NoError(t, err)
	assert.Equal(t, secret, pending)
}
