package domain

import "time"

// AffiliateLink points a product at its listing on one marketplace.
// The link checker probes the URL and flips Healthy; the storefront
// hides unhealthy links.
type AffiliateLink struct {
	id            string
	productID     string
	marketplaceID string
	url           string
	price         Price
	healthy       bool
	lastCheckedAt *time.Time

	stamps Timestamps
}

// NewAffiliateLink creates a new AffiliateLink. Links start healthy;
// the checker earns its keep by proving otherwise.
func NewAffiliateLink(id, productID, marketplaceID, rawURL string, price Price, now time.Time) (*AffiliateLink, error) {
	if productID == "" {
		return nil, ErrProductNotFound
	}
	if marketplaceID == "" {
		return nil, ErrMarketplaceNotFound
	}
	if !isAbsoluteURL(rawURL) {
		return nil, ErrInvalidLinkURL
	}
	return &AffiliateLink{
		id:            id,
		productID:     productID,
		marketplaceID: marketplaceID,
		url:           rawURL,
		price:         price,
		healthy:       true,
		stamps:        NewTimestamps(now),
	}, nil
}

// ReconstructAffiliateLink reconstitutes an AffiliateLink from the database.
func ReconstructAffiliateLink(id, productID, marketplaceID, rawURL string, price Price, healthy bool, lastCheckedAt *time.Time, createdAt, updatedAt time.Time) *AffiliateLink {
	return &AffiliateLink{
		id:            id,
		productID:     productID,
		marketplaceID: marketplaceID,
		url:           rawURL,
		price:         price,
		healthy:       healthy,
		lastCheckedAt: lastCheckedAt,
		stamps:        ReconstructTimestamps(createdAt, updatedAt),
	}
}

// Getters
func (l *AffiliateLink) ID() string               { return l.id }
func (l *AffiliateLink) ProductID() string        { return l.productID }
func (l *AffiliateLink) MarketplaceID() string    { return l.marketplaceID }
func (l *AffiliateLink) URL() string              { return l.url }
func (l *AffiliateLink) Price() Price             { return l.price }
func (l *AffiliateLink) Healthy() bool            { return l.healthy }
func (l *AffiliateLink) LastCheckedAt() *time.Time { return l.lastCheckedAt }
func (l *AffiliateLink) CreatedAt() time.Time     { return l.stamps.CreatedAt() }
func (l *AffiliateLink) UpdatedAt() time.Time     { return l.stamps.UpdatedAt() }

// SetURL repoints the link.
func (l *AffiliateLink) SetURL(rawURL string, now time.Time) error {
	if !isAbsoluteURL(rawURL) {
		return ErrInvalidLinkURL
	}
	l.url = rawURL
	// A new target has no probe history yet.
	l.healthy = true
	l.lastCheckedAt = nil
	l.stamps.Touch(now)
	return nil
}

// SetPrice records the marketplace price for this listing.
func (l *AffiliateLink) SetPrice(price Price, now time.Time) {
	l.price = price
	l.stamps.Touch(now)
}

// RecordCheck stores a probe outcome. The checked stamp is
// housekeeping and must not move updated_at; a health flip is a real
// change the storefront sees, so it does.
func (l *AffiliateLink) RecordCheck(healthy bool, now time.Time) (flipped bool) {
	l.lastCheckedAt = &now
	if l.healthy == healthy {
		return false
	}
	l.healthy = healthy
	l.stamps.Touch(now)
	return true
}
