package domain

// ProductStatus represents the editorial lifecycle status of a product.
type ProductStatus string

const (
	StatusDraft               ProductStatus = "draft"
	StatusPendingVerification ProductStatus = "pending_verification"
	StatusVerified            ProductStatus = "verified"
	StatusPublished           ProductStatus = "published"
	StatusArchived            ProductStatus = "archived"
)

// AllStatuses lists every valid status, in workflow order.
func AllStatuses() []ProductStatus {
	return []ProductStatus{
		StatusDraft,
		StatusPendingVerification,
		StatusVerified,
		StatusPublished,
		StatusArchived,
	}
}

// IsValid reports whether s is one of the known statuses.
func (s ProductStatus) IsValid() bool {
	switch s {
	case StatusDraft, StatusPendingVerification, StatusVerified, StatusPublished, StatusArchived:
		return true
	}
	return false
}

// statusTransitions is the workflow graph. Two moves live outside the
// table: any status may move to Archived, and Archived may move
// straight back to Published (restore of a formerly published product).
var statusTransitions = map[ProductStatus][]ProductStatus{
	StatusDraft:               {StatusPendingVerification},
	StatusPendingVerification: {StatusVerified, StatusDraft},
	StatusVerified:            {StatusPublished, StatusPendingVerification},
	StatusPublished:           {StatusVerified},
	StatusArchived:            {StatusDraft},
}

// CanTransitionTo reports whether moving from s to target is legal.
// A transition to the current status is always allowed; callers treat
// it as a no-op before any side effects run.
func (s ProductStatus) CanTransitionTo(target ProductStatus) bool {
	if s == target {
		return true
	}
	if target == StatusArchived {
		return true
	}
	if s == StatusArchived && target == StatusPublished {
		return true
	}
	for _, next := range statusTransitions[s] {
		if next == target {
			return true
		}
	}
	return false
}

// TransitionTo validates the move from s to target, returning an
// IllegalTransitionError naming both statuses when it is not allowed.
func (s ProductStatus) TransitionTo(target ProductStatus) error {
	if !s.CanTransitionTo(target) {
		return &IllegalTransitionError{From: s, To: target}
	}
	return nil
}
