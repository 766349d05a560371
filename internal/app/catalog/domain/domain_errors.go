package domain

import (
	"errors"
	"fmt"
)

// Domain errors as sentinel values
var (
	// Product errors
	ErrProductNotFound      = errors.New("product not found")
	ErrEmptyName            = errors.New("name cannot be empty")
	ErrEmptySlug            = errors.New("slug cannot be empty")
	ErrSlugTaken            = errors.New("slug is already in use")
	ErrInvalidCategory      = errors.New("category cannot be empty")
	ErrInvalidPrice         = errors.New("price cannot be negative")
	ErrInvalidCurrency      = errors.New("currency must be a three-letter code")
	ErrNotVerified          = errors.New("product must be verified before publishing")
	ErrAlreadyVerified      = errors.New("product is already verified")
	ErrEmptyVerifier        = errors.New("verifier cannot be empty")
	ErrNotArchived          = errors.New("product is not archived")
	ErrCannotModifyArchived = errors.New("cannot modify archived product")

	// Category errors
	ErrCategoryNotFound = errors.New("category not found")
	ErrCategoryDeleted  = errors.New("category is deleted")

	// Marketplace errors
	ErrMarketplaceNotFound = errors.New("marketplace not found")
	ErrInvalidSiteURL      = errors.New("marketplace site url must be absolute")

	// Badge errors
	ErrBadgeNotFound = errors.New("badge not found")

	// Affiliate link errors
	ErrLinkNotFound   = errors.New("affiliate link not found")
	ErrInvalidLinkURL = errors.New("affiliate link url must be absolute")
	ErrDuplicateLink  = errors.New("product already has a link for this marketplace")
)

// IllegalTransitionError reports a workflow move the status graph does
// not allow. It names both ends so logs and API responses can say
// exactly what was attempted.
type IllegalTransitionError struct {
	From ProductStatus
	To   ProductStatus
}

// ErrIllegalTransition matches any IllegalTransitionError via errors.Is.
var ErrIllegalTransition = errors.New("illegal status transition")

func (e *IllegalTransitionError) Error() string {
	return fmt.Sprintf("illegal status transition %s -> %s", e.From, e.To)
}

func (e *IllegalTransitionError) Is(target error) bool {
	return target == ErrIllegalTransition
}
