package rest

import (
	"errors"
	"io"
	"net/http"

	"modora-be/internal/cart"
	"modora-be/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

// GuestIDHeader carries the anonymous cart identity. The client stores the
// guest id it receives with a cart response and sends it back on every call.
const GuestIDHeader = "X-Guest-ID"

type CartHandler struct {
	svc    cart.Service
	merged prometheus.Counter
}

func NewCartHandler(svc cart.Service, merged prometheus.Counter) *CartHandler {
	return &CartHandler{svc: svc, merged: merged}
}

// ownerFrom resolves the cart identity for a request. An authenticated user
// id always wins over a guest header.
func ownerFrom(c *gin.Context) cart.Owner {
	if id, ok := middleware.GetUserIDFromContext(c.Request.Context()); ok {
		return cart.UserOwner(id)
	}
	if guestID := c.GetHeader(GuestIDHeader); guestID != "" {
		return cart.GuestOwner(guestID)
	}
	return cart.Owner{}
}

type addItemRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required"`
	Size      string `json:"size"`
	Color     string `json:"color"`
}

type updateItemRequest struct {
	ProductID string `json:"product_id" binding:"required"`
	Size      string `json:"size"`
	Color     string `json:"color"`
	Quantity  int    `json:"quantity"`
}

type mergeRequest struct {
	GuestID string `json:"guest_id"`
}

// Get returns the shopper's cart. A shopper who has not added anything yet
// sees an empty cart rather than an error.
func (h *CartHandler) Get(c *gin.Context) {
	owner := ownerFrom(c)
	if owner.IsZero() {
		c.JSON(http.StatusOK, emptyCart())
		return
	}

	crt, err := h.svc.Get(c.Request.Context(), owner)
	if err != nil {
		if errors.Is(err, cart.ErrCartNotFound) {
			c.JSON(http.StatusOK, emptyCart())
			return
		}
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, crt)
}

func emptyCart() *cart.Cart {
	return &cart.Cart{Items: []cart.Item{}}
}

func (h *CartHandler) AddItem(c *gin.Context) {
	var req addItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input: " + err.Error()})
		return
	}

	crt, err := h.svc.AddItem(c.Request.Context(), cart.AddItemParams{
		Owner:     ownerFrom(c),
		ProductID: req.ProductID,
		Quantity:  req.Quantity,
		Size:      req.Size,
		Color:     req.Color,
	})
	if err != nil {
		abortWithError(c, err)
		return
	}

	// A freshly minted guest identity rides back on the header as well as
	// the body, so thin clients can pick it up without parsing.
	if crt.GuestID != nil {
		c.Header(GuestIDHeader, *crt.GuestID)
	}

	c.JSON(http.StatusOK, crt)
}

func (h *CartHandler) UpdateItem(c *gin.Context) {
	var req updateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input: " + err.Error()})
		return
	}

	crt, err := h.svc.SetItemQuantity(c.Request.Context(), cart.UpdateItemParams{
		Owner:    ownerFrom(c),
		Key:      cart.ItemKey{ProductID: req.ProductID, Size: req.Size, Color: req.Color},
		Quantity: req.Quantity,
	})
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, crt)
}

func (h *CartHandler) RemoveItem(c *gin.Context) {
	productID := c.Query("product_id")
	if productID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "product_id is required"})
		return
	}

	crt, err := h.svc.RemoveItem(c.Request.Context(), cart.RemoveItemParams{
		Owner: ownerFrom(c),
		Key: cart.ItemKey{
			ProductID: productID,
			Size:      c.Query("size"),
			Color:     c.Query("color"),
		},
	})
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, crt)
}

// Merge folds the guest cart into the authenticated user's cart. Called by
// the client right after login.
func (h *CartHandler) Merge(c *gin.Context) {
	userID, ok := middleware.GetUserIDFromContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	// The body is optional; the guest id may arrive on the header instead.
	var req mergeRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input: " + err.Error()})
		return
	}

	guestID := req.GuestID
	if guestID == "" {
		guestID = c.GetHeader(GuestIDHeader)
	}
	if guestID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "guest_id is required"})
		return
	}

	crt, err := h.svc.Merge(c.Request.Context(), guestID, userID)
	if err != nil {
		abortWithError(c, err)
		return
	}

	if h.merged != nil {
		h.merged.Inc()
	}

	c.JSON(http.StatusOK, crt)
}
