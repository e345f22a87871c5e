// Package v1 contains the handlers of the v1 API.
package v1

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sahod-planner/backend/internal/ledger"
	"github.com/sahod-planner/backend/internal/models"
	"github.com/sahod-planner/backend/internal/sahod"
	internal_uuid "github.com/sahod-planner/backend/internal/uuid"
)

// Controller holds the dependencies of the v1 handlers.
type Controller struct {
	Engine *sahod.Engine
	Ledger *ledger.Ledger
}

type httpError struct {
	Error string `json:"error" example:"An ID specified in the query string was not a valid UUID"`
}

// status returns the appropriate status for an error
func status(err error) int {
	if errors.Is(err, models.ErrGeneral) {
		return http.StatusInternalServerError
	}

	if errors.Is(err, models.ErrResourceNotFound) {
		return http.StatusNotFound
	}

	return http.StatusBadRequest
}

var errNegativeLimit = errors.New("the limit must not be negative")

type URIID struct {
	ID internal_uuid.UUID `uri:"id" binding:"required" format:"UUID"` // ID of the resource
}

// baseURL returns the external URL of the API for links.
func baseURL(c *gin.Context) string {
	return c.GetString(string(models.DBContextURL))
}

// errorString returns a pointer to the message of err for use in responses.
func errorString(err error) *string {
	s := err.Error()
	return &s
}
