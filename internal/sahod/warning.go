package sahod

import (
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/sahod-planner/backend/internal/metrics"
)

// Operations that run as best effort side effects
const (
	OperationRollover     = "rollover"
	OperationIncomeSearch = "income_search"
	OperationIncomeLink   = "income_link"
	OperationIncomeRecord = "income_record"
	OperationRecurring    = "recurring"
	OperationRefreshSpent = "refresh_spent"
)

// Warning reports a best effort step that failed while the operation
// that triggered it succeeded. The step is safe to retry.
type Warning struct {
	Operation  string    `json:"operation" example:"rollover"`
	ResourceID uuid.UUID `json:"resourceId" example:"d0b5b2a1-38b5-4a8b-9f4e-5c9a1d6f6a11"`
	Message    string    `json:"message" example:"there is no envelope matching your query"`
}

// softFailure logs and counts a failed best effort step and returns the
// warning for it.
func softFailure(owner uuid.UUID, operation string, resource uuid.UUID, err error) Warning {
	log.Warn().
		Str("owner", owner.String()).
		Str("operation", operation).
		Str("resource", resource.String()).
		Err(err).
		Msg("best effort step failed")

	metrics.SoftFailures.WithLabelValues(operation).Inc()

	return Warning{
		Operation:  operation,
		ResourceID: resource,
		Message:    err.Error(),
	}
}
