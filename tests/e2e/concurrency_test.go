package e2e

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devdaily/catalog-service/internal/app/catalog/queries/get_product"
	"github.com/devdaily/catalog-service/internal/app/catalog/usecases/publish_product"
	"github.com/devdaily/catalog-service/internal/app/catalog/usecases/request_verification"
	"github.com/devdaily/catalog-service/internal/app/catalog/usecases/unpublish_product"
	"github.com/devdaily/catalog-service/internal/app/catalog/usecases/update_product"
	"github.com/devdaily/catalog-service/tests/testutil"
)

// TestConcurrentSubmissionsSerialize races two submissions of the same
// draft. The row lock serializes them: the first writes the
// transition, the second sees pending and no-ops. Both calls succeed.
func TestConcurrentSubmissionsSerialize(t *testing.T) {
	services, cleanup := setupTest(t)
	defer cleanup()

	editorID := testutil.CreateTestAdmin(t, services.DB, "editor")
	categoryID := testutil.CreateTestCategory(t, services.DB, "Electronics", "electronics")
	productID := testutil.CreateTestProduct(t, services.DB, categoryID, "Widget", "widget", "draft")

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := range errs {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			errs[idx] = services.RequestVerification.Execute(ctx(), &request_verification.Request{
				ActorID:   editorID,
				ProductID: productID,
			})
		}(i)
	}
	wg.Wait()

	require.NoError(t, errs[0])
	require.NoError(t, errs[1])

	assert.Equal(t, "pending_verification", testutil.GetProductRow(t, services.DB, productID).Status)
	// Only the call that actually moved the product writes history.
	assert.Equal(t, int64(1), testutil.CountAuditEntries(t, services.DB, productID))
}

// TestConcurrentUpdatesBothApply runs two edits touching different
// fields at the same time. With row locks instead of optimistic
// versions, neither loses: the later transaction waits and stacks its
// change on top.
func TestConcurrentUpdatesBothApply(t *testing.T) {
	services, cleanup := setupTest(t)
	defer cleanup()

	editorID := testutil.CreateTestAdmin(t, services.DB, "editor")
	categoryID := testutil.CreateTestCategory(t, services.DB, "Electronics", "electronics")
	productID := testutil.CreateTestProduct(t, services.DB, categoryID, "Widget", "widget", "draft")

	newName := "Renamed Widget"
	newDescription := "Rewritten copy"

	var wg sync.WaitGroup
	var nameErr, descErr error

	wg.Add(2)
	go func() {
		defer wg.Done()
		nameErr = services.UpdateProduct.Execute(ctx(), &update_product.Request{
			ActorID:   editorID,
			ProductID: productID,
			Name:      &newName,
		})
	}()
	go func() {
		defer wg.Done()
		descErr = services.UpdateProduct.Execute(ctx(), &update_product.Request{
			ActorID:     editorID,
			ProductID:   productID,
			Description: &newDescription,
		})
	}()
	wg.Wait()

	require.NoError(t, nameErr)
	require.NoError(t, descErr)

	row := testutil.GetProductRow(t, services.DB, productID)
	assert.Equal(t, "Renamed Widget", row.Name)
	assert.Equal(t, "Rewritten copy", row.Description)
	assert.Equal(t, int64(2), testutil.CountAuditEntries(t, services.DB, productID))
}

// TestStorefrontReadsStayConsistent flips a product on and off the
// storefront while a reader hammers the page. Every read must be all
// or nothing: a full page or a clean not-found, never a partial row.
func TestStorefrontReadsStayConsistent(t *testing.T) {
	services, cleanup := setupTest(t)
	defer cleanup()

	publisherID := testutil.CreateTestAdmin(t, services.DB, "publisher")
	categoryID := testutil.CreateTestCategory(t, services.DB, "Electronics", "electronics")
	productID := testutil.CreateTestProduct(t, services.DB, categoryID, "Widget", "widget", "published")
	firstPublishedAt := testutil.GetProductRow(t, services.DB, productID).PublishedAt.Time

	stop := make(chan struct{})
	var badReads int
	var readerWg sync.WaitGroup

	readerWg.Add(1)
	go func() {
		defer readerWg.Done()
		for {
			select {
			case <-stop:
				return
			default:
			}
			page, err := services.GetProduct.Execute(ctx(), &get_product.Request{Slug: "widget"})
			if err == nil && (page.Product.ID != productID || page.Product.Name == "") {
				badReads++
			}
			time.Sleep(time.Millisecond)
		}
	}()

	for i := 0; i < 5; i++ {
		require.NoError(t, services.UnpublishProduct.Execute(ctx(), &unpublish_product.Request{
			ActorID:   publisherID,
			ProductID: productID,
		}))
		require.NoError(t, services.PublishProduct.Execute(ctx(), &publish_product.Request{
			ActorID:   publisherID,
			ProductID: productID,
		}))
	}
	close(stop)
	readerWg.Wait()

	assert.Zero(t, badReads)

	// The round trips must not have re-stamped first publication.
	row := testutil.GetProductRow(t, services.DB, productID)
	assert.Equal(t, "published", row.Status)
	require.True(t, row.PublishedAt.Valid)
	assert.True(t, row.PublishedAt.Time.Equal(firstPublishedAt))
}
