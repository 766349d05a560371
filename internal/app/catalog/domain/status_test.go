package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestStatusTransitionMatrix pins the whole workflow graph.
func TestStatusTransitionMatrix(t *testing.T) {
	// From\To     | Draft | Pending | Verified | Published | Archived
	// ------------|-------|---------|----------|-----------|---------
	// Draft       | ✓     | ✓       | ✗        | ✗         | ✓
	// Pending     | ✓     | ✓       | ✓        | ✗         | ✓
	// Verified    | ✗     | ✓       | ✓        | ✓         | ✓
	// Published   | ✗     | ✗       | ✓        | ✓         | ✓
	// Archived    | ✓     | ✗       | ✗        | ✓         | ✓
	//
	// Same-status moves are always valid; any status may archive; a
	// restore may jump Archived straight back to Published.
	allowed := map[ProductStatus]map[ProductStatus]bool{
		StatusDraft: {
			StatusDraft:               true,
			StatusPendingVerification: true,
			StatusArchived:            true,
		},
		StatusPendingVerification: {
			StatusDraft:               true,
			StatusPendingVerification: true,
			StatusVerified:            true,
			StatusArchived:            true,
		},
		StatusVerified: {
			StatusPendingVerification: true,
			StatusVerified:            true,
			StatusPublished:           true,
			StatusArchived:            true,
		},
		StatusPublished: {
			StatusVerified:  true,
			StatusPublished: true,
			StatusArchived:  true,
		},
		StatusArchived: {
			StatusDraft:     true,
			StatusPublished: true,
			StatusArchived:  true,
		},
	}

	for _, from := range AllStatuses() {
		for _, to := range AllStatuses() {
			want := allowed[from][to]
			verdict := "forbidden"
			if want {
				verdict = "allowed"
			}
			t.Run(fmt.Sprintf("%s → %s: %s", from, to, verdict), func(t *testing.T) {
				assert.Equal(t, want, from.CanTransitionTo(to))

				err := from.TransitionTo(to)
				if want {
					assert.NoError(t, err)
					return
				}
				require.Error(t, err)
				var transitionErr *IllegalTransitionError
				require.ErrorAs(t, err, &transitionErr)
				assert.Equal(t, from, transitionErr.From)
				assert.Equal(t, to, transitionErr.To)
				assert.ErrorIs(t, err, ErrIllegalTransition)
			})
		}
	}
}

func TestStatusIsValid(t *testing.T) {
	for _, s := range AllStatuses() {
		assert.True(t, s.IsValid(), s)
	}
	assert.False(t, ProductStatus("live").IsValid())
	assert.False(t, ProductStatus("").IsValid())
}

func TestIllegalTransitionErrorMessage(t *testing.T) {
	err := StatusDraft.TransitionTo(StatusPublished)
	require.Error(t, err)
	assert.Equal(t, "illegal status transition draft -> published", err.Error())
	assert.False(t, errors.Is(err, ErrNotArchived))
}
