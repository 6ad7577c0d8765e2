package rest

import (
	"net/http"

	"modora-be/internal/cart"
	"modora-be/internal/logger"
	"modora-be/internal/middleware"
	"modora-be/internal/order"
	"modora-be/internal/user"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

type OrderHandler struct {
	svc     order.Service
	cartSvc cart.Service
	created prometheus.Counter
}

func NewOrderHandler(svc order.Service, cartSvc cart.Service, created prometheus.Counter) *OrderHandler {
	return &OrderHandler{svc: svc, cartSvc: cartSvc, created: created}
}

type checkoutRequest struct {
	ShippingAddress struct {
		Address    string `json:"address" binding:"required"`
		City       string `json:"city" binding:"required"`
		PostalCode string `json:"postal_code" binding:"required"`
		Country    string `json:"country" binding:"required"`
	} `json:"shipping_address" binding:"required"`
	PaymentMethod string `json:"payment_method" binding:"required"`
}

type updateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// Checkout freezes the user's cart into an order, then empties the cart. A
// failed cart clear is logged and swallowed; the order already exists and
// must be returned.
func (h *OrderHandler) Checkout(c *gin.Context) {
	ctx := c.Request.Context()
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	var req checkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input: " + err.Error()})
		return
	}

	o, err := h.svc.CreateFromCart(ctx, userID, order.CheckoutParams{
		ShippingAddress: order.Address{
			Address:    req.ShippingAddress.Address,
			City:       req.ShippingAddress.City,
			PostalCode: req.ShippingAddress.PostalCode,
			Country:    req.ShippingAddress.Country,
		},
		PaymentMethod: req.PaymentMethod,
	})
	if err != nil {
		abortWithError(c, err)
		return
	}

	if err := h.cartSvc.Clear(ctx, cart.UserOwner(userID)); err != nil {
		logger.FromCtx(ctx).Warn("failed to clear cart after checkout",
			zap.Uint("user_id", userID),
			zap.String("order_id", o.ID),
			zap.Error(err),
		)
	}

	if h.created != nil {
		h.created.Inc()
	}

	c.JSON(http.StatusCreated, o)
}

func (h *OrderHandler) MyOrders(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	orders, err := h.svc.ListForUser(c.Request.Context(), userID)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, orders)
}

func (h *OrderHandler) Get(c *gin.Context) {
	ctx := c.Request.Context()
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	role := user.Role(middleware.GetUserRoleFromContext(ctx))

	o, err := h.svc.GetOrder(ctx, c.Param("id"), userID, role)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, o)
}

func (h *OrderHandler) ListAll(c *gin.Context) {
	orders, err := h.svc.ListAll(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, orders)
}

func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input: " + err.Error()})
		return
	}

	o, err := h.svc.UpdateStatus(c.Request.Context(), c.Param("id"), order.Status(req.Status))
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, o)
}

func (h *OrderHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}
