package repo

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/devdaily/catalog-service/internal/app/catalog/contracts"
)

// Storefront cache keys. Product pages are keyed by slug and dropped
// one at a time. List pages are keyed under a generation counter:
// invalidation bumps the counter, orphaning every cached list at once,
// and the orphans age out through the store TTL.
const (
	productPageKeyPrefix = "catalog:page:"
	listKeyPrefix        = "catalog:lists:"
	listGenKey           = "catalog:lists:gen"
)

func productPageKey(slug string) string {
	return productPageKeyPrefix + slug
}

func listKey(gen int64, filter *contracts.ListFilter) string {
	raw := fmt.Sprintf("%s|%s|%s|%s|%d|%d",
		filter.CategoryID,
		filter.BadgeID,
		filter.MarketplaceID,
		filter.Search,
		filter.Limit,
		filter.Offset,
	)
	sum := sha256.Sum256([]byte(raw))
	return fmt.Sprintf("%s%d:%s", listKeyPrefix, gen, hex.EncodeToString(sum[:8]))
}
