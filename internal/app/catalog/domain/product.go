package domain

import (
	"time"

	"github.com/devdaily/catalog-service/internal/pkg/clock"
)

// Field names for change tracking
const (
	FieldName           = "name"
	FieldSlug           = "slug"
	FieldDescription    = "description"
	FieldCategory       = "category_id"
	FieldPrice          = "price"
	FieldStatus         = "status"
	FieldVerifiedAt     = "verified_at"
	FieldVerifiedBy     = "verified_by"
	FieldPublishedAt    = "published_at"
	FieldArchivedAt     = "archived_at"
	FieldLastPriceCheck = "last_price_check"
	FieldLastLinkCheck  = "last_link_check"
)

// Product is the aggregate root of the catalog. It owns the editorial
// workflow (draft through published), the verification and publication
// stamps, and the checker bookkeeping the maintenance jobs write.
type Product struct {
	id          string
	name        string
	slug        string
	description string
	categoryID  string
	price       Price
	status      ProductStatus

	verifiedAt  *time.Time
	verifiedBy  string
	publishedAt *time.Time

	lastPriceCheck *time.Time
	lastLinkCheck  *time.Time

	stamps  Timestamps
	archive SoftDelete

	// Clock for time operations (injected for testability)
	clock clock.Clock

	// Change tracking for optimized repository updates
	changes *ChangeTracker

	// Domain events to be published
	events []DomainEvent
}

// NewProduct creates a new Product aggregate in draft status. A draft
// may carry a zero price; the price checker fills it in later.
func NewProduct(id, name, slug, description, categoryID string, price Price, now time.Time, clk clock.Clock) (*Product, error) {
	if name == "" {
		return nil, ErrEmptyName
	}
	if slug == "" {
		return nil, ErrEmptySlug
	}
	if categoryID == "" {
		return nil, ErrInvalidCategory
	}

	p := &Product{
		id:          id,
		name:        name,
		slug:        slug,
		description: description,
		categoryID:  categoryID,
		price:       price,
		status:      StatusDraft,
		stamps:      NewTimestamps(now),
		clock:       clk,
		changes:     NewChangeTracker(),
		events:      make([]DomainEvent, 0),
	}

	// Mark all fields as dirty for new product
	p.changes.MarkDirty(FieldName)
	p.changes.MarkDirty(FieldSlug)
	p.changes.MarkDirty(FieldDescription)
	p.changes.MarkDirty(FieldCategory)
	p.changes.MarkDirty(FieldPrice)
	p.changes.MarkDirty(FieldStatus)

	p.recordEvent(&ProductCreatedEvent{
		ProductID:  p.id,
		Name:       p.name,
		Slug:       p.slug,
		CategoryID: p.categoryID,
		Price:      p.price,
		Status:     p.status,
		CreatedAt:  now,
	})

	return p, nil
}

// ReconstructProduct reconstitutes a Product from the database.
func ReconstructProduct(
	id, name, slug, description, categoryID string,
	price Price,
	status ProductStatus,
	verifiedAt *time.Time,
	verifiedBy string,
	publishedAt *time.Time,
	lastPriceCheck, lastLinkCheck *time.Time,
	createdAt, updatedAt time.Time,
	archivedAt *time.Time,
	clk clock.Clock,
) *Product {
	return &Product{
		id:             id,
		name:           name,
		slug:           slug,
		description:    description,
		categoryID:     categoryID,
		price:          price,
		status:         status,
		verifiedAt:     verifiedAt,
		verifiedBy:     verifiedBy,
		publishedAt:    publishedAt,
		lastPriceCheck: lastPriceCheck,
		lastLinkCheck:  lastLinkCheck,
		stamps:         ReconstructTimestamps(createdAt, updatedAt),
		archive:        ReconstructSoftDelete(archivedAt),
		clock:          clk,
		changes:        NewChangeTracker(), // Start with clean slate
		events:         make([]DomainEvent, 0),
	}
}

// Getters
func (p *Product) ID() string                  { return p.id }
func (p *Product) Name() string                { return p.name }
func (p *Product) Slug() string                { return p.slug }
func (p *Product) Description() string         { return p.description }
func (p *Product) CategoryID() string          { return p.categoryID }
func (p *Product) Price() Price                { return p.price }
func (p *Product) Status() ProductStatus       { return p.status }
func (p *Product) VerifiedAt() *time.Time      { return p.verifiedAt }
func (p *Product) VerifiedBy() string          { return p.verifiedBy }
func (p *Product) PublishedAt() *time.Time     { return p.publishedAt }
func (p *Product) LastPriceCheck() *time.Time  { return p.lastPriceCheck }
func (p *Product) LastLinkCheck() *time.Time   { return p.lastLinkCheck }
func (p *Product) CreatedAt() time.Time        { return p.stamps.CreatedAt() }
func (p *Product) UpdatedAt() time.Time        { return p.stamps.UpdatedAt() }
func (p *Product) ArchivedAt() *time.Time      { return p.archive.DeletedAt() }
func (p *Product) Changes() *ChangeTracker     { return p.changes }
func (p *Product) DomainEvents() []DomainEvent { return p.events }

// SetName updates the product name.
func (p *Product) SetName(name string) error {
	if err := p.checkNotArchived(); err != nil {
		return err
	}
	if name == "" {
		return ErrEmptyName
	}
	p.name = name
	p.markEdited(FieldName)
	return nil
}

// SetSlug updates the storefront slug. The recorded event carries the
// previous slug so the page cached under the old address gets dropped.
func (p *Product) SetSlug(slug string) error {
	if err := p.checkNotArchived(); err != nil {
		return err
	}
	if slug == "" {
		return ErrEmptySlug
	}
	prev := p.slug
	p.slug = slug
	p.changes.MarkDirty(FieldSlug)
	now := p.clock.Now()
	p.stamps.Touch(now)
	p.recordEvent(&ProductUpdatedEvent{
		ProductID: p.id,
		Slug:      slug,
		PrevSlug:  prev,
		Fields:    []string{FieldSlug},
		UpdatedAt: now,
	})
	return nil
}

// SetDescription updates the product description.
func (p *Product) SetDescription(description string) error {
	if err := p.checkNotArchived(); err != nil {
		return err
	}
	p.description = description
	p.markEdited(FieldDescription)
	return nil
}

// SetCategory moves the product to another category.
func (p *Product) SetCategory(categoryID string) error {
	if err := p.checkNotArchived(); err != nil {
		return err
	}
	if categoryID == "" {
		return ErrInvalidCategory
	}
	p.categoryID = categoryID
	p.markEdited(FieldCategory)
	return nil
}

// SetPrice updates the display price through an edit.
func (p *Product) SetPrice(price Price) error {
	if err := p.checkNotArchived(); err != nil {
		return err
	}
	p.price = price
	p.markEdited(FieldPrice)
	return nil
}

// RequestVerification hands a draft to the verification queue.
// Requesting it again while already pending is a no-op.
func (p *Product) RequestVerification(now time.Time) error {
	if p.status == StatusPendingVerification {
		return nil
	}
	if err := p.status.TransitionTo(StatusPendingVerification); err != nil {
		return err
	}
	from := p.status
	p.status = StatusPendingVerification
	p.changes.MarkDirty(FieldStatus)
	p.stamps.Touch(now)

	p.recordEvent(&VerificationRequestedEvent{
		ProductID:   p.id,
		From:        from,
		RequestedAt: now,
	})
	return nil
}

// Verify signs the product off, stamping who verified it and when.
// Verifying an already verified product is a no-op that keeps the
// original stamp.
func (p *Product) Verify(verifierID string, now time.Time) error {
	if verifierID == "" {
		return ErrEmptyVerifier
	}
	if p.status == StatusVerified {
		return nil
	}
	if p.status != StatusPendingVerification {
		return &IllegalTransitionError{From: p.status, To: StatusVerified}
	}
	from := p.status
	p.status = StatusVerified
	p.verifiedAt = &now
	p.verifiedBy = verifierID
	p.changes.MarkDirty(FieldStatus)
	p.changes.MarkDirty(FieldVerifiedAt)
	p.changes.MarkDirty(FieldVerifiedBy)
	p.stamps.Touch(now)

	p.recordEvent(&ProductVerifiedEvent{
		ProductID:  p.id,
		From:       from,
		VerifierID: verifierID,
		VerifiedAt: now,
	})
	return nil
}

// Reject sends a pending product back to draft.
func (p *Product) Reject(reason string, now time.Time) error {
	if p.status == StatusDraft {
		return nil
	}
	if p.status != StatusPendingVerification {
		return &IllegalTransitionError{From: p.status, To: StatusDraft}
	}
	from := p.status
	p.status = StatusDraft
	p.changes.MarkDirty(FieldStatus)
	p.stamps.Touch(now)

	p.recordEvent(&ProductRejectedEvent{
		ProductID:  p.id,
		From:       from,
		Reason:     reason,
		RejectedAt: now,
	})
	return nil
}

// Publish puts a verified product live. The published_at stamp is
// written exactly once, on the first time the product ever goes live.
// Publishing an already published product is a no-op.
func (p *Product) Publish(now time.Time) error {
	if p.status == StatusPublished {
		return nil
	}
	if p.status != StatusVerified {
		return ErrNotVerified
	}
	from := p.status
	p.status = StatusPublished
	p.changes.MarkDirty(FieldStatus)
	first := p.publishedAt == nil
	if first {
		p.publishedAt = &now
		p.changes.MarkDirty(FieldPublishedAt)
	}
	p.stamps.Touch(now)

	p.recordEvent(&ProductPublishedEvent{
		ProductID:    p.id,
		Slug:         p.slug,
		From:         from,
		FirstPublish: first,
		PublishedAt:  now,
	})
	return nil
}

// Unpublish pulls a live product back to verified for rework.
func (p *Product) Unpublish(now time.Time) error {
	if p.status == StatusVerified {
		return nil
	}
	if p.status != StatusPublished {
		return &IllegalTransitionError{From: p.status, To: StatusVerified}
	}
	p.status = StatusVerified
	p.changes.MarkDirty(FieldStatus)
	p.stamps.Touch(now)

	p.recordEvent(&ProductUnpublishedEvent{
		ProductID:     p.id,
		Slug:          p.slug,
		UnpublishedAt: now,
	})
	return nil
}

// Archive takes the product off the books from any status. Archiving
// an archived product is a no-op. The verification and publication
// stamps survive so a restore can pick up where the product left off.
func (p *Product) Archive(now time.Time) error {
	if p.status == StatusArchived {
		return nil
	}
	from := p.status
	p.status = StatusArchived
	p.archive.MarkDeleted(now)
	p.changes.MarkDirty(FieldStatus)
	p.changes.MarkDirty(FieldArchivedAt)
	p.stamps.Touch(now)

	p.recordEvent(&ProductArchivedEvent{
		ProductID:  p.id,
		Slug:       p.slug,
		From:       from,
		ArchivedAt: now,
	})
	return nil
}

// Restore brings an archived product back as a draft for rework.
func (p *Product) Restore(now time.Time) error {
	if p.status != StatusArchived {
		return ErrNotArchived
	}
	p.status = StatusDraft
	p.archive.Clear()
	p.changes.MarkDirty(FieldStatus)
	p.changes.MarkDirty(FieldArchivedAt)
	p.stamps.Touch(now)

	p.recordEvent(&ProductRestoredEvent{
		ProductID:  p.id,
		Slug:       p.slug,
		To:         StatusDraft,
		RestoredAt: now,
	})
	return nil
}

// RestoreToPublished puts an archived product straight back on the
// storefront, skipping re-verification. A product archived before it
// ever went live gets its published_at stamped now.
func (p *Product) RestoreToPublished(now time.Time) error {
	if p.status != StatusArchived {
		return ErrNotArchived
	}
	p.status = StatusPublished
	p.archive.Clear()
	p.changes.MarkDirty(FieldStatus)
	p.changes.MarkDirty(FieldArchivedAt)
	if p.publishedAt == nil {
		p.publishedAt = &now
		p.changes.MarkDirty(FieldPublishedAt)
	}
	p.stamps.Touch(now)

	p.recordEvent(&ProductRestoredEvent{
		ProductID:  p.id,
		Slug:       p.slug,
		To:         StatusPublished,
		RestoredAt: now,
	})
	return nil
}

// MarkPriceChecked stamps the price checker's visit. Housekeeping
// only: updated_at must not move.
func (p *Product) MarkPriceChecked(now time.Time) {
	p.lastPriceCheck = &now
	p.changes.MarkHousekeeping(FieldLastPriceCheck)
}

// MarkLinkChecked stamps the link checker's visit. Housekeeping only.
func (p *Product) MarkLinkChecked(now time.Time) {
	p.lastLinkCheck = &now
	p.changes.MarkHousekeeping(FieldLastLinkCheck)
}

// ApplyCheckedPrice records a price the checker extracted. A changed
// price is a real edit: it moves updated_at and lands in the price
// history. Returns true when the price actually changed.
func (p *Product) ApplyCheckedPrice(newPrice Price, now time.Time) bool {
	if p.price.Equal(newPrice) {
		return false
	}
	old := p.price
	p.price = newPrice
	p.changes.MarkDirty(FieldPrice)
	p.stamps.Touch(now)

	p.recordEvent(&PriceChangedEvent{
		ProductID: p.id,
		Slug:      p.slug,
		OldPrice:  old,
		NewPrice:  newPrice,
		ChangedAt: now,
	})
	return true
}

// IsPublished returns true if the product is live on the storefront.
func (p *Product) IsPublished() bool {
	return p.status == StatusPublished
}

// IsArchived returns true if the product is archived.
func (p *Product) IsArchived() bool {
	return p.status == StatusArchived
}

// checkNotArchived returns an error if the product is archived.
func (p *Product) checkNotArchived() error {
	if p.status == StatusArchived {
		return ErrCannotModifyArchived
	}
	return nil
}

// markEdited marks a field dirty and records a single-field update
// event; the audit layer folds consecutive update events into one
// trail entry.
func (p *Product) markEdited(field string) {
	p.changes.MarkDirty(field)
	now := p.clock.Now()
	p.stamps.Touch(now)
	p.recordEvent(&ProductUpdatedEvent{
		ProductID: p.id,
		Slug:      p.slug,
		Fields:    []string{field},
		UpdatedAt: now,
	})
}

// recordEvent adds a domain event to the list of events.
func (p *Product) recordEvent(event DomainEvent) {
	p.events = append(p.events, event)
}

// ClearEvents clears all recorded domain events (called after publishing).
func (p *Product) ClearEvents() {
	p.events = make([]DomainEvent, 0)
}
