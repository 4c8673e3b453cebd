package scenario

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trogers1052/scenario-risk-service/internal/models"
)

func TestCatalog(t *testing.T) {
	c := NewCatalog()

	t.Run("contains all scenario families", func(t *testing.T) {
		all := c.All()
		assert.Len(t, all, 17)

		counts := map[string]int{}
		for _, s := range all {
			counts[s.Category]++
		}
		assert.Equal(t, 4, counts[models.CategoryStressTest])
		assert.Equal(t, 3, counts[models.CategoryMonteCarlo])
		assert.Equal(t, 1, counts[models.CategoryCustom])
	})

	t.Run("Get returns catalog entries", func(t *testing.T) {
		s, err := c.Get("equity-down-5")
		require.NoError(t, err)
		assert.Equal(t, "Equity -5%", s.Name)
		assert.Equal(t, -0.05, s.Shock)
	})

	t.Run("Get rejects unknown IDs", func(t *testing.T) {
		_, err := c.Get("flash-crash-1987")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("stress entries carry severity metadata", func(t *testing.T) {
		s, err := c.Get("2008-financial-crisis")
		require.NoError(t, err)
		assert.Equal(t, models.SeverityExtreme, s.Severity)
		assert.Equal(t, "2008-09-15", s.HistoricalBasis)
	})

	t.Run("monte carlo entries carry simulation metadata", func(t *testing.T) {
		s, err := c.Get("monthly-var-99")
		require.NoError(t, err)
		assert.Equal(t, 50000, s.NumSimulations)
		assert.Equal(t, 0.99, s.ConfidenceLevel)
	})
}

func TestResolve(t *testing.T) {
	c := NewCatalog()

	t.Run("catalog entries pass through unchanged", func(t *testing.T) {
		s, err := c.Resolve("rates-up-50bps", 0, "")
		require.NoError(t, err)
		assert.Equal(t, 0.005, s.Shock)
	})

	t.Run("custom shock is converted from percentage points", func(t *testing.T) {
		s, err := c.Resolve(CustomID, -12.5, "Flash Crash")
		require.NoError(t, err)
		assert.Equal(t, "Flash Crash", s.Name)
		assert.Equal(t, -0.125, s.Shock)
	})

	t.Run("custom without a name is rejected", func(t *testing.T) {
		_, err := c.Resolve(CustomID, -5, "")
		assert.ErrorIs(t, err, ErrCustomNameRequired)
	})

	t.Run("custom with a whitespace-only name is rejected", func(t *testing.T) {
		_, err := c.Resolve(CustomID, -5, "   ")
		assert.ErrorIs(t, err, ErrCustomNameRequired)
	})
}
