package validation

import (
	"slices"

	"github.com/templui/jobtracker/internal/model"
)

// Statuses lists the accepted application statuses in display order.
var Statuses = []string{
	model.StatusOpen,
	model.StatusApplied,
	model.StatusInterview,
	model.StatusRejected,
	model.StatusOffer,
	model.StatusContract,
	model.StatusWithdrawn,
}

func IsStatus(s string) bool {
	return slices.Contains(Statuses, s)
}
