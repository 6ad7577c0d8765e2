package rest

import (
	"errors"
	"net/http"

	"modora-be/internal/cart"
	"modora-be/internal/logger"
	"modora-be/internal/order"
	"modora-be/internal/product"
	"modora-be/internal/user"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// abortWithError translates service errors into the JSON error envelope.
// Unknown errors are logged and hidden behind a generic 500.
func abortWithError(c *gin.Context, err error) {
	status, msg := mapError(err)
	if status == http.StatusInternalServerError {
		logger.FromCtx(c.Request.Context()).Error("request failed",
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
	}
	c.AbortWithStatusJSON(status, gin.H{"error": msg})
}

func mapError(err error) (int, string) {
	switch {
	case errors.Is(err, cart.ErrCartNotFound),
		errors.Is(err, cart.ErrCartItemNotFound),
		errors.Is(err, cart.ErrProductNotFound),
		errors.Is(err, product.ErrProductNotFound),
		errors.Is(err, order.ErrOrderNotFound),
		errors.Is(err, user.ErrUserNotFound):
		return http.StatusNotFound, err.Error()

	case errors.Is(err, order.ErrForbidden):
		return http.StatusForbidden, err.Error()

	case errors.Is(err, user.ErrEmailExists):
		return http.StatusConflict, err.Error()

	case errors.Is(err, user.ErrInvalidCredentials):
		return http.StatusUnauthorized, err.Error()

	case errors.Is(err, cart.ErrInvalidQuantity),
		errors.Is(err, cart.ErrMissingOwner),
		errors.Is(err, order.ErrInvalidStatus),
		errors.Is(err, order.ErrEmptyCart),
		errors.Is(err, product.ErrInvalidPrice),
		errors.Is(err, product.ErrEmptyName),
		errors.Is(err, user.ErrInvalidRole):
		return http.StatusBadRequest, err.Error()
	}

	return http.StatusInternalServerError, "internal server error"
}
