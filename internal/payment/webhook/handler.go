package webhook

import (
	"errors"
	"net/http"

	"modora-be/internal/logger"
	"modora-be/internal/order"
	"modora-be/internal/payment"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// Payload is the JSON the payment provider posts back after a charge
// attempt settles.
type Payload struct {
	PaymentID string `json:"id"`
	OrderID   string `json:"order_id"`
	Status    string `json:"status"`
	Email     string `json:"payer_email,omitempty"`
}

type Handler struct {
	orderSvc  order.Service
	gateway   payment.Gateway
	confirmed prometheus.Counter
}

// NewHandler wires the webhook to the order service. confirmed may be nil
// when no metrics are collected.
func NewHandler(orderSvc order.Service, gateway payment.Gateway, confirmed prometheus.Counter) *Handler {
	return &Handler{
		orderSvc:  orderSvc,
		gateway:   gateway,
		confirmed: confirmed,
	}
}

// Handle processes a payment callback. Any status other than PAID is
// acknowledged without touching the order, so the provider stops retrying.
func (h *Handler) Handle(c *gin.Context) {
	ctx := c.Request.Context()
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "webhook"),
		zap.String("method", "Handle"),
	)

	if err := h.gateway.VerifySignature(c.Request); err != nil {
		log.Warn("rejected webhook with bad signature")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid signature"})
		return
	}

	var payload Payload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON payload"})
		return
	}

	log = log.With(
		zap.String("order_id", payload.OrderID),
		zap.String("payment_id", payload.PaymentID),
		zap.String("status", payload.Status),
	)

	if payload.Status != "PAID" {
		log.Info("ignoring non-payment status")
		c.JSON(http.StatusOK, gin.H{"status": "ignored"})
		return
	}

	_, err := h.orderSvc.MarkPaid(ctx, payload.OrderID, order.PaymentConfirmation{
		PaymentID: payload.PaymentID,
		Status:    payload.Status,
		Email:     payload.Email,
	})
	if err != nil {
		if errors.Is(err, order.ErrOrderNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
			return
		}
		log.Error("failed to mark order paid", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update order"})
		return
	}

	if h.confirmed != nil {
		h.confirmed.Inc()
	}

	log.Info("order payment confirmed")
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
