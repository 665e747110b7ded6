package scraper

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateCarName(t *testing.T) {
	assert.NoError(t, ValidateCarName("BMW"))
	assert.NoError(t, ValidateCarName("Mercedes-Benz C 200"))
	assert.NoError(t, ValidateCarName("  Audi A4  "))

	err := ValidateCarName("X5")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least 3 characters")

	err = ValidateCarName("BMW X5!")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid characters")

	// whitespace padding does not count toward the minimum
	err = ValidateCarName("  a  ")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least 3 characters")
}

func TestValidateCarNamesCollectsAllViolations(t *testing.T) {
	msgs := ValidateCarNames([]string{"BMW X5", "a", "Kia!", "Toyota Corolla"})
	require.Len(t, msgs, 2)
	assert.Contains(t, msgs[0], `"a"`)
	assert.Contains(t, msgs[1], `"Kia!"`)
}

func TestValidateCarNamesAllValid(t *testing.T) {
	assert.Empty(t, ValidateCarNames([]string{"BMW X5", "Nissan Patrol"}))
}
