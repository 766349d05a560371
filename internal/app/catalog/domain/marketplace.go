package domain

import (
	"net/url"
	"time"
)

// Marketplace is a store DevDaily links out to (Amazon, AliExpress and
// the like). The price selector tells the price checker where to find
// the price on a product page.
type Marketplace struct {
	id            string
	name          string
	slug          string
	siteURL       string
	affiliateTag  string
	priceSelector string

	stamps  Timestamps
	deleted SoftDelete
}

// NewMarketplace creates a new Marketplace.
func NewMarketplace(id, name, slug, siteURL, affiliateTag, priceSelector string, now time.Time) (*Marketplace, error) {
	if name == "" {
		return nil, ErrEmptyName
	}
	if slug == "" {
		return nil, ErrEmptySlug
	}
	if !isAbsoluteURL(siteURL) {
		return nil, ErrInvalidSiteURL
	}
	return &Marketplace{
		id:            id,
		name:          name,
		slug:          slug,
		siteURL:       siteURL,
		affiliateTag:  affiliateTag,
		priceSelector: priceSelector,
		stamps:        NewTimestamps(now),
	}, nil
}

// ReconstructMarketplace reconstitutes a Marketplace from the database.
func ReconstructMarketplace(id, name, slug, siteURL, affiliateTag, priceSelector string, createdAt, updatedAt time.Time, deletedAt *time.Time) *Marketplace {
	return &Marketplace{
		id:            id,
		name:          name,
		slug:          slug,
		siteURL:       siteURL,
		affiliateTag:  affiliateTag,
		priceSelector: priceSelector,
		stamps:        ReconstructTimestamps(createdAt, updatedAt),
		deleted:       ReconstructSoftDelete(deletedAt),
	}
}

// Getters
func (m *Marketplace) ID() string            { return m.id }
func (m *Marketplace) Name() string          { return m.name }
func (m *Marketplace) Slug() string          { return m.slug }
func (m *Marketplace) SiteURL() string       { return m.siteURL }
func (m *Marketplace) AffiliateTag() string  { return m.affiliateTag }
func (m *Marketplace) PriceSelector() string { return m.priceSelector }
func (m *Marketplace) CreatedAt() time.Time  { return m.stamps.CreatedAt() }
func (m *Marketplace) UpdatedAt() time.Time  { return m.stamps.UpdatedAt() }
func (m *Marketplace) DeletedAt() *time.Time { return m.deleted.DeletedAt() }
func (m *Marketplace) IsDeleted() bool       { return m.deleted.Deleted() }

// Rename changes the display name.
func (m *Marketplace) Rename(name string, now time.Time) error {
	if name == "" {
		return ErrEmptyName
	}
	m.name = name
	m.stamps.Touch(now)
	return nil
}

// SetSiteURL changes the marketplace home page.
func (m *Marketplace) SetSiteURL(siteURL string, now time.Time) error {
	if !isAbsoluteURL(siteURL) {
		return ErrInvalidSiteURL
	}
	m.siteURL = siteURL
	m.stamps.Touch(now)
	return nil
}

// SetAffiliateTag changes the tag appended to outgoing links.
func (m *Marketplace) SetAffiliateTag(tag string, now time.Time) {
	m.affiliateTag = tag
	m.stamps.Touch(now)
}

// SetPriceSelector changes the CSS selector the price checker uses.
func (m *Marketplace) SetPriceSelector(selector string, now time.Time) {
	m.priceSelector = selector
	m.stamps.Touch(now)
}

// Delete soft-deletes the marketplace.
func (m *Marketplace) Delete(now time.Time) {
	m.deleted.MarkDeleted(now)
	m.stamps.Touch(now)
}

// Restore brings a soft-deleted marketplace back.
func (m *Marketplace) Restore(now time.Time) {
	m.deleted.Clear()
	m.stamps.Touch(now)
}

func isAbsoluteURL(raw string) bool {
	u, err := url.Parse(raw)
	return err == nil && u.IsAbs() && u.Host != ""
}
