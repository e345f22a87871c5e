package httputil

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// OwnerHeader carries the ID of the authenticated owner. It is set by
// the authenticating proxy in front of the backend.
const OwnerHeader = "X-Owner-Id"

const ownerKey = "sahod-owner"

// OwnerMiddleware rejects requests without a valid owner and stores the
// owner in the context.
func OwnerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		owner, err := uuid.Parse(c.GetHeader(OwnerHeader))
		if err != nil || owner == uuid.Nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": ErrMissingOwner.Error()})
			return
		}

		c.Set(ownerKey, owner)
		c.Next()
	}
}

// Owner returns the owner stored by OwnerMiddleware.
func Owner(c *gin.Context) uuid.UUID {
	owner, _ := c.Get(ownerKey)
	id, _ := owner.(uuid.UUID)
	return id
}
