//go:build integration

package integration

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devdaily/catalog-service/internal/app/catalog/contracts"
	"github.com/devdaily/catalog-service/internal/app/catalog/domain"
	"github.com/devdaily/catalog-service/internal/app/catalog/repo"
	"github.com/devdaily/catalog-service/internal/models/m_link"
	"github.com/devdaily/catalog-service/tests/testutil"
)

func TestReadModel_GetProductPage(t *testing.T) {
	db, cleanup := testutil.SetupMySQLTest(t)
	defer cleanup()

	ctx := context.Background()
	categoryID := testutil.CreateTestCategory(t, db, "Electronics", "electronics")
	marketplaceID := testutil.CreateTestMarketplace(t, db, "Amazon", "amazon", ".a-price")
	productID := testutil.CreateTestProduct(t, db, categoryID, "Trackball", "trackball", "published")
	badgeID := testutil.CreateTestBadge(t, db, "Editor's Choice", "editors-choice")
	testutil.AssignTestBadge(t, db, productID, badgeID)
	linkID := testutil.CreateTestLink(t, db, productID, marketplaceID, "https://amazon.example.test/trackball", 7999)

	recorded := time.Now().UTC().Add(-time.Hour).Truncate(time.Microsecond)
	testutil.RecordTestPricePoint(t, db, linkID, productID, marketplaceID, 8499, recorded)
	testutil.RecordTestPricePoint(t, db, linkID, productID, marketplaceID, 7999, recorded.Add(30*time.Minute))

	readModel := repo.NewReadModel(db)

	page, err := readModel.GetProductPage(ctx, "trackball")
	require.NoError(t, err)
	assert.Equal(t, productID, page.Product.ID)
	assert.Equal(t, "Trackball", page.Product.Name)
	assert.Equal(t, int64(7999), page.Product.PriceAmount)

	require.Len(t, page.Badges, 1)
	assert.Equal(t, "Editor's Choice", page.Badges[0].Name)

	require.Len(t, page.Links, 1)
	assert.Equal(t, "Amazon", page.Links[0].MarketplaceName)
	assert.Equal(t, "https://amazon.example.test/trackball", page.Links[0].URL)

	require.Len(t, page.Prices, 2)
	// Newest observation first for the chart.
	assert.Equal(t, int64(7999), page.Prices[0].PriceAmount)
	assert.Equal(t, int64(8499), page.Prices[1].PriceAmount)
}

func TestReadModel_UnpublishedProductsAreInvisible(t *testing.T) {
	db, cleanup := testutil.SetupMySQLTest(t)
	defer cleanup()

	ctx := context.Background()
	categoryID := testutil.CreateTestCategory(t, db, "Electronics", "electronics")
	for _, status := range []string{"draft", "pending_verification", "verified", "archived"} {
		testutil.CreateTestProduct(t, db, categoryID, "Hidden "+status, "hidden-"+status, status)
	}

	readModel := repo.NewReadModel(db)

	for _, slug := range []string{"hidden-draft", "hidden-pending_verification", "hidden-verified", "hidden-archived"} {
		_, err := readModel.GetProductPage(ctx, slug)
		assert.ErrorIs(t, err, domain.ErrProductNotFound, "slug %s", slug)
	}

	result, err := readModel.ListPublished(ctx, &contracts.ListFilter{})
	require.NoError(t, err)
	assert.Empty(t, result.Products)
	assert.Zero(t, result.TotalCount)
}

func TestReadModel_PageSkipsUnhealthyLinks(t *testing.T) {
	db, cleanup := testutil.SetupMySQLTest(t)
	defer cleanup()

	ctx := context.Background()
	categoryID := testutil.CreateTestCategory(t, db, "Electronics", "electronics")
	amazonID := testutil.CreateTestMarketplace(t, db, "Amazon", "amazon", ".a-price")
	ebayID := testutil.CreateTestMarketplace(t, db, "eBay", "ebay", ".price")
	productID := testutil.CreateTestProduct(t, db, categoryID, "Trackball", "trackball", "published")
	testutil.CreateTestLink(t, db, productID, amazonID, "https://amazon.example.test/t", 7999)
	deadLinkID := testutil.CreateTestLink(t, db, productID, ebayID, "https://ebay.example.test/t", 8299)

	_, err := db.ExecContext(ctx,
		"UPDATE "+m_link.TableName+" SET "+m_link.Healthy+" = 0 WHERE "+m_link.ID+" = ?", deadLinkID)
	require.NoError(t, err)

	readModel := repo.NewReadModel(db)

	page, err := readModel.GetProductPage(ctx, "trackball")
	require.NoError(t, err)
	require.Len(t, page.Links, 1)
	assert.Equal(t, "Amazon", page.Links[0].MarketplaceName)
}

func TestReadModel_ListPublishedFilters(t *testing.T) {
	db, cleanup := testutil.SetupMySQLTest(t)
	defer cleanup()

	ctx := context.Background()
	electronicsID := testutil.CreateTestCategory(t, db, "Electronics", "electronics")
	officeID := testutil.CreateTestCategory(t, db, "Office", "office")
	trackballID := testutil.CreateTestProduct(t, db, electronicsID, "Ergo Trackball", "ergo-trackball", "published")
	testutil.CreateTestProduct(t, db, electronicsID, "Split Keyboard", "split-keyboard", "published")
	deskID := testutil.CreateTestProduct(t, db, officeID, "Standing Desk", "standing-desk", "published")
	badgeID := testutil.CreateTestBadge(t, db, "Budget Pick", "budget-pick")
	testutil.AssignTestBadge(t, db, trackballID, badgeID)

	readModel := repo.NewReadModel(db)

	all, err := readModel.ListPublished(ctx, &contracts.ListFilter{})
	require.NoError(t, err)
	assert.Len(t, all.Products, 3)
	assert.Equal(t, int64(3), all.TotalCount)

	byCategory, err := readModel.ListPublished(ctx, &contracts.ListFilter{CategoryID: officeID})
	require.NoError(t, err)
	require.Len(t, byCategory.Products, 1)
	assert.Equal(t, deskID, byCategory.Products[0].ID)

	byBadge, err := readModel.ListPublished(ctx, &contracts.ListFilter{BadgeID: badgeID})
	require.NoError(t, err)
	require.Len(t, byBadge.Products, 1)
	assert.Equal(t, trackballID, byBadge.Products[0].ID)

	bySearch, err := readModel.ListPublished(ctx, &contracts.ListFilter{Search: "keyboard"})
	require.NoError(t, err)
	require.Len(t, bySearch.Products, 1)
	assert.Equal(t, "Split Keyboard", bySearch.Products[0].Name)

	paged, err := readModel.ListPublished(ctx, &contracts.ListFilter{Limit: 2, Offset: 2})
	require.NoError(t, err)
	assert.Len(t, paged.Products, 1)
	assert.Equal(t, int64(3), paged.TotalCount)
}
