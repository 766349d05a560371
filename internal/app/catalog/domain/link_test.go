package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAffiliateLink(t *testing.T) {
	link, err := NewAffiliateLink("link-1", "prod-1", "mp-1", "https://amazon.example/dp/B00X", MustPrice(7999, "USD"), testStart)
	require.NoError(t, err)
	assert.True(t, link.Healthy(), "new links start healthy")
	assert.Nil(t, link.LastCheckedAt())

	_, err = NewAffiliateLink("link-2", "prod-1", "mp-1", "/dp/B00X", Price{}, testStart)
	assert.ErrorIs(t, err, ErrInvalidLinkURL)

	_, err = NewAffiliateLink("link-3", "", "mp-1", "https://amazon.example/dp/B00X", Price{}, testStart)
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestAffiliateLinkRecordCheck(t *testing.T) {
	link, err := NewAffiliateLink("link-1", "prod-1", "mp-1", "https://amazon.example/dp/B00X", Price{}, testStart)
	require.NoError(t, err)
	createdUpdatedAt := link.UpdatedAt()

	t.Run("healthy stays healthy without touching updated_at", func(t *testing.T) {
		checked := testStart.Add(time.Hour)
		flipped := link.RecordCheck(true, checked)

		assert.False(t, flipped)
		require.NotNil(t, link.LastCheckedAt())
		assert.Equal(t, checked, *link.LastCheckedAt())
		assert.Equal(t, createdUpdatedAt, link.UpdatedAt())
	})

	t.Run("a health flip is a visible change", func(t *testing.T) {
		flippedAt := testStart.Add(2 * time.Hour)
		flipped := link.RecordCheck(false, flippedAt)

		assert.True(t, flipped)
		assert.False(t, link.Healthy())
		assert.Equal(t, flippedAt, link.UpdatedAt())
	})
}

func TestAffiliateLinkSetURLResetsHealth(t *testing.T) {
	link, err := NewAffiliateLink("link-1", "prod-1", "mp-1", "https://amazon.example/dp/B00X", Price{}, testStart)
	require.NoError(t, err)
	link.RecordCheck(false, testStart.Add(time.Hour))
	require.False(t, link.Healthy())

	require.NoError(t, link.SetURL("https://amazon.example/dp/B00Y", testStart.Add(2*time.Hour)))
	assert.True(t, link.Healthy())
	assert.Nil(t, link.LastCheckedAt())
}
