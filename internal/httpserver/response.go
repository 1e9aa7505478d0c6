package httpserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"vendormart/internal/domain"
	authsvc "vendormart/internal/service/auth"
)

// respondErr maps service errors onto HTTP statuses. Anything unrecognized
// becomes an opaque 500 so internals never leak to clients.
func respondErr(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	message := "internal error"

	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		status, message = http.StatusBadRequest, err.Error()
	case errors.Is(err, domain.ErrUnauthorized),
		errors.Is(err, authsvc.ErrInvalidCredentials),
		errors.Is(err, authsvc.ErrInvalidToken):
		status, message = http.StatusUnauthorized, err.Error()
	case errors.Is(err, domain.ErrForbidden):
		status, message = http.StatusForbidden, err.Error()
	case errors.Is(err, domain.ErrNotFound):
		status, message = http.StatusNotFound, "not found"
	case errors.Is(err, domain.ErrAlreadyExists),
		errors.Is(err, domain.ErrConflict):
		status, message = http.StatusConflict, err.Error()
	}

	c.AbortWithStatusJSON(status, gin.H{"error": message})
}

func badRequest(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": message})
}
