package domain

import "time"

// DomainEvent is the base interface for all domain events. The
// workflow layer turns recorded events into audit trail entries inside
// the same transaction as the state change itself.
type DomainEvent interface {
	EventType() string
	AggregateID() string
}

// ProductCreatedEvent is emitted when a product is created.
type ProductCreatedEvent struct {
	ProductID  string
	Name       string
	Slug       string
	CategoryID string
	Price      Price
	Status     ProductStatus
	CreatedAt  time.Time
}

func (e *ProductCreatedEvent) EventType() string {
	return "product.created"
}

func (e *ProductCreatedEvent) AggregateID() string {
	return e.ProductID
}

// ProductUpdatedEvent is emitted when product details are edited.
// PrevSlug is set only when the slug itself changed, so the storefront
// cache can drop the page cached under the old address.
type ProductUpdatedEvent struct {
	ProductID string
	Slug      string
	PrevSlug  string
	Fields    []string
	UpdatedAt time.Time
}

func (e *ProductUpdatedEvent) EventType() string {
	return "product.updated"
}

func (e *ProductUpdatedEvent) AggregateID() string {
	return e.ProductID
}

// VerificationRequestedEvent is emitted when a draft is handed to the
// verification queue.
type VerificationRequestedEvent struct {
	ProductID   string
	From        ProductStatus
	RequestedAt time.Time
}

func (e *VerificationRequestedEvent) EventType() string {
	return "product.verification_requested"
}

func (e *VerificationRequestedEvent) AggregateID() string {
	return e.ProductID
}

// ProductVerifiedEvent is emitted when an editor signs off a product.
type ProductVerifiedEvent struct {
	ProductID  string
	From       ProductStatus
	VerifierID string
	VerifiedAt time.Time
}

func (e *ProductVerifiedEvent) EventType() string {
	return "product.verified"
}

func (e *ProductVerifiedEvent) AggregateID() string {
	return e.ProductID
}

// ProductRejectedEvent is emitted when verification sends a product
// back to draft.
type ProductRejectedEvent struct {
	ProductID  string
	From       ProductStatus
	Reason     string
	RejectedAt time.Time
}

func (e *ProductRejectedEvent) EventType() string {
	return "product.rejected"
}

func (e *ProductRejectedEvent) AggregateID() string {
	return e.ProductID
}

// ProductPublishedEvent is emitted when a product goes live on the
// storefront. FirstPublish is true only the first time ever.
type ProductPublishedEvent struct {
	ProductID    string
	Slug         string
	From         ProductStatus
	FirstPublish bool
	PublishedAt  time.Time
}

func (e *ProductPublishedEvent) EventType() string {
	return "product.published"
}

func (e *ProductPublishedEvent) AggregateID() string {
	return e.ProductID
}

// ProductUnpublishedEvent is emitted when a live product is pulled
// back for re-verification.
type ProductUnpublishedEvent struct {
	ProductID     string
	Slug          string
	UnpublishedAt time.Time
}

func (e *ProductUnpublishedEvent) EventType() string {
	return "product.unpublished"
}

func (e *ProductUnpublishedEvent) AggregateID() string {
	return e.ProductID
}

// ProductArchivedEvent is emitted when a product is archived.
type ProductArchivedEvent struct {
	ProductID  string
	Slug       string
	From       ProductStatus
	ArchivedAt time.Time
}

func (e *ProductArchivedEvent) EventType() string {
	return "product.archived"
}

func (e *ProductArchivedEvent) AggregateID() string {
	return e.ProductID
}

// ProductRestoredEvent is emitted when an archived product comes back,
// either to draft or straight to published.
type ProductRestoredEvent struct {
	ProductID  string
	Slug       string
	To         ProductStatus
	RestoredAt time.Time
}

func (e *ProductRestoredEvent) EventType() string {
	return "product.restored"
}

func (e *ProductRestoredEvent) AggregateID() string {
	return e.ProductID
}

// PriceChangedEvent is emitted when a price check finds a new price.
type PriceChangedEvent struct {
	ProductID string
	Slug      string
	OldPrice  Price
	NewPrice  Price
	ChangedAt time.Time
}

func (e *PriceChangedEvent) EventType() string {
	return "product.price_changed"
}

func (e *PriceChangedEvent) AggregateID() string {
	return e.ProductID
}
