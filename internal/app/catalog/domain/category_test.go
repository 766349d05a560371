package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryLifecycle(t *testing.T) {
	c, err := NewCategory("cat-1", "Keyboards", "keyboards", "Input devices", 1, testStart)
	require.NoError(t, err)
	assert.False(t, c.IsDeleted())

	require.NoError(t, c.Rename("Mechanical Keyboards", testStart.Add(time.Minute)))
	assert.Equal(t, "Mechanical Keyboards", c.Name())
	assert.Equal(t, testStart.Add(time.Minute), c.UpdatedAt())

	require.NoError(t, c.Delete(testStart.Add(time.Hour)))
	assert.True(t, c.IsDeleted())
	require.NotNil(t, c.DeletedAt())

	assert.ErrorIs(t, c.Rename("Nope", testStart), ErrCategoryDeleted)
	assert.ErrorIs(t, c.Delete(testStart), ErrCategoryDeleted)

	c.Restore(testStart.Add(2 * time.Hour))
	assert.False(t, c.IsDeleted())
	require.NoError(t, c.SetPosition(5, testStart.Add(3*time.Hour)))
	assert.Equal(t, 5, c.Position())
}

func TestNewCategoryValidation(t *testing.T) {
	_, err := NewCategory("cat-1", "", "slug", "", 0, testStart)
	assert.ErrorIs(t, err, ErrEmptyName)

	_, err = NewCategory("cat-1", "Name", "", "", 0, testStart)
	assert.ErrorIs(t, err, ErrEmptySlug)
}

func TestNewMarketplaceValidation(t *testing.T) {
	mp, err := NewMarketplace("mp-1", "Amazon", "amazon", "https://amazon.example", "devdaily-20", "span.a-price .a-offscreen", testStart)
	require.NoError(t, err)
	assert.Equal(t, "devdaily-20", mp.AffiliateTag())

	_, err = NewMarketplace("mp-2", "Broken", "broken", "not-a-url", "", "", testStart)
	assert.ErrorIs(t, err, ErrInvalidSiteURL)
}
