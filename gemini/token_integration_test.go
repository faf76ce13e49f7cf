//go:build integration

package gemini_test

import (
	"context"
	"strings"
	"testing"

	"github.com/fwojciec/sentiscope/gemini"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenCounter_LocalTokenizer(t *testing.T) {
	t.Parallel()

	tc, err := gemini.NewTokenCounter("gemini-2.0-flash")
	require.NoError(t, err)
	ctx := context.Background()

	t.Run("empty text has no tokens", func(t *testing.T) {
		n, err := tc.CountTokens(ctx, "")

		require.NoError(t, err)
		assert.Zero(t, n)
	})

	t.Run("longer review has more tokens", func(t *testing.T) {
		short, err := tc.CountTokens(ctx, "Great")
		require.NoError(t, err)
		long, err := tc.CountTokens(ctx, "Great product, although shipping took far longer than the seller promised.")
		require.NoError(t, err)

		assert.Greater(t, long, short)
	})

	t.Run("trims a long page under the limit", func(t *testing.T) {
		page := strings.Repeat("the market rallied and traders cheered. ", 500)

		trimmed, err := gemini.TrimToTokens(ctx, tc, page, 100)
		require.NoError(t, err)
		n, err := tc.CountTokens(ctx, trimmed)
		require.NoError(t, err)

		assert.LessOrEqual(t, n, 100)
		assert.True(t, strings.HasPrefix(page, trimmed))
	})
}
