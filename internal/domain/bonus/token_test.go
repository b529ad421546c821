package bonus

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yanqian/fitness-wizard/internal/domain/plan"
)

func TestTokensRoundTrip(t *testing.T) {
	t.Parallel()

	tokens := NewTokens(TokenConfig{Secret: "s3cret", TTL: time.Hour})
	profile := plan.Profile{Email: "Jo@Example.com", Timeline: plan.TimelineThreeMonths}

	token, err := tokens.Issue(profile)
	require.NoError(t, err)
	require.NoError(t, tokens.Verify(token, plan.Profile{Email: " jo@example.com", Timeline: plan.TimelineThreeMonths}))

	err = tokens.Verify(token, plan.Profile{Email: "other@example.com", Timeline: plan.TimelineThreeMonths})
	require.ErrorIs(t, err, ErrTokenMismatch)

	err = tokens.Verify(token, plan.Profile{Email: "jo@example.com", Timeline: plan.TimelineSixMonths})
	require.ErrorIs(t, err, ErrTokenMismatch)
}

func TestTokensRejectForeignAndExpired(t *testing.T) {
	t.Parallel()

	profile := plan.Profile{Email: "jo@example.com", Timeline: plan.TimelineSixMonths}
	issuer := NewTokens(TokenConfig{Secret: "one", TTL: time.Minute})
	token, err := issuer.Issue(profile)
	require.NoError(t, err)

	require.Error(t, NewTokens(TokenConfig{Secret: "two"}).Verify(token, profile))

	issuer.now = func() time.Time { return time.Now().Add(2 * time.Minute) }
	require.Error(t, issuer.Verify(token, profile))

	require.Error(t, issuer.Verify("not-a-token", profile))
}

func TestNewTokensWithoutSecret(t *testing.T) {
	t.Parallel()

	require.Nil(t, NewTokens(TokenConfig{}))
}
