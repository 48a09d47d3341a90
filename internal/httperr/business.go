package httperr

import (
	"errors"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/garagedesk/shop-scheduler/internal/domain/scheduling"
)

// Domain maps the scheduling error taxonomy onto HTTP responses. Every
// branch keeps the human-readable message from the error itself.
func Domain(c *gin.Context, err error) {
	var (
		validation scheduling.ValidationError
		notFound   scheduling.NotFoundError
		capacity   scheduling.CapacityExceededError
		state      scheduling.StateError
		authz      scheduling.AuthorizationError
		configErr  scheduling.ConfigurationError
	)

	switch {
	case errors.As(err, &validation):
		BadRequest(c, "validation_error", validation.Error())
	case errors.As(err, &notFound):
		NotFound(c, "not_found", notFound.Error())
	case errors.As(err, &capacity):
		Conflict(c, "capacity_exceeded_"+string(capacity.Scope), capacity.Error())
	case errors.As(err, &state):
		Conflict(c, "invalid_state", state.Error())
	case errors.As(err, &authz):
		Forbidden(c, "forbidden", authz.Error())
	case errors.As(err, &configErr):
		Internal(c, "configuration_error", configErr.Error())
	case errors.Is(err, gorm.ErrRecordNotFound):
		NotFound(c, "not_found", "record not found")
	default:
		Internal(c, "internal_error", "internal error")
	}
}
