package rest

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"modora-be/internal/cart"
	"modora-be/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// asUser injects an authenticated identity the way the auth middleware does.
func asUser(id uint, role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := middleware.SetUserContext(c.Request.Context(), id, "user@example.com", role)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func newCartRouter(h *CartHandler, mw ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	grp := r.Group("/api/cart", mw...)
	grp.GET("", h.Get)
	grp.POST("", h.AddItem)
	grp.PUT("", h.UpdateItem)
	grp.DELETE("", h.RemoveItem)
	grp.POST("/merge", h.Merge)
	return r
}

func TestCartHandler_Get(t *testing.T) {
	t.Run("anonymous shopper with no cart sees an empty one", func(t *testing.T) {
		svc := new(MockCartService)
		r := newCartRouter(NewCartHandler(svc, nil))

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/cart", nil)
		r.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		var body cart.Cart
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Empty(t, body.Items)
		assert.Zero(t, body.TotalPrice)
		svc.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
	})

	t.Run("guest header resolves the cart", func(t *testing.T) {
		svc := new(MockCartService)
		r := newCartRouter(NewCartHandler(svc, nil))

		guestID := "guest_abc"
		svc.On("Get", mock.Anything, cart.GuestOwner(guestID)).
			Return(&cart.Cart{ID: "cart-1", GuestID: &guestID, TotalPrice: 30}, nil)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/cart", nil)
		req.Header.Set(GuestIDHeader, guestID)
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		svc.AssertExpectations(t)
	})

	t.Run("authenticated user wins over guest header", func(t *testing.T) {
		svc := new(MockCartService)
		r := newCartRouter(NewCartHandler(svc, nil), asUser(7, "customer"))

		svc.On("Get", mock.Anything, cart.UserOwner(7)).
			Return(&cart.Cart{ID: "cart-2"}, nil)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/cart", nil)
		req.Header.Set(GuestIDHeader, "guest_abc")
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		svc.AssertExpectations(t)
	})
}

func TestCartHandler_AddItem(t *testing.T) {
	t.Run("first anonymous add returns the minted guest id on the header", func(t *testing.T) {
		svc := new(MockCartService)
		r := newCartRouter(NewCartHandler(svc, nil))

		guestID := "guest_fresh"
		svc.On("AddItem", mock.Anything, cart.AddItemParams{
			ProductID: "prod-a",
			Quantity:  2,
			Size:      "M",
			Color:     "Red",
		}).Return(&cart.Cart{ID: "cart-1", GuestID: &guestID, TotalPrice: 20}, nil)

		body := `{"product_id":"prod-a","quantity":2,"size":"M","color":"Red"}`
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/cart", bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, guestID, w.Header().Get(GuestIDHeader))
		svc.AssertExpectations(t)
	})

	t.Run("unknown product", func(t *testing.T) {
		svc := new(MockCartService)
		r := newCartRouter(NewCartHandler(svc, nil))

		svc.On("AddItem", mock.Anything, mock.Anything).
			Return(nil, cart.ErrProductNotFound)

		body := `{"product_id":"nope","quantity":1}`
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/cart", bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("missing fields are rejected", func(t *testing.T) {
		svc := new(MockCartService)
		r := newCartRouter(NewCartHandler(svc, nil))

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/cart", bytes.NewBufferString(`{"quantity":1}`))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		svc.AssertNotCalled(t, "AddItem", mock.Anything, mock.Anything)
	})
}

func TestCartHandler_UpdateItem(t *testing.T) {
	svc := new(MockCartService)
	r := newCartRouter(NewCartHandler(svc, nil), asUser(7, "customer"))

	svc.On("SetItemQuantity", mock.Anything, cart.UpdateItemParams{
		Owner:    cart.UserOwner(7),
		Key:      cart.ItemKey{ProductID: "prod-a", Size: "M", Color: "Red"},
		Quantity: 0,
	}).Return(&cart.Cart{ID: "cart-1"}, nil)

	// Quantity zero goes through; removal happens downstream.
	body := `{"product_id":"prod-a","size":"M","color":"Red","quantity":0}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/api/cart", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}

func TestCartHandler_RemoveItem(t *testing.T) {
	t.Run("requires product_id", func(t *testing.T) {
		svc := new(MockCartService)
		r := newCartRouter(NewCartHandler(svc, nil))

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodDelete, "/api/cart", nil)
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("removes by variant key", func(t *testing.T) {
		svc := new(MockCartService)
		r := newCartRouter(NewCartHandler(svc, nil))

		svc.On("RemoveItem", mock.Anything, cart.RemoveItemParams{
			Owner: cart.GuestOwner("guest_abc"),
			Key:   cart.ItemKey{ProductID: "prod-a", Size: "M", Color: "Red"},
		}).Return(&cart.Cart{ID: "cart-1"}, nil)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodDelete, "/api/cart?product_id=prod-a&size=M&color=Red", nil)
		req.Header.Set(GuestIDHeader, "guest_abc")
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		svc.AssertExpectations(t)
	})
}

func TestCartHandler_Merge(t *testing.T) {
	t.Run("anonymous caller is rejected", func(t *testing.T) {
		svc := new(MockCartService)
		r := newCartRouter(NewCartHandler(svc, nil))

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/cart/merge", bytes.NewBufferString(`{"guest_id":"guest_abc"}`))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("guest id from body", func(t *testing.T) {
		svc := new(MockCartService)
		r := newCartRouter(NewCartHandler(svc, nil), asUser(7, "customer"))

		svc.On("Merge", mock.Anything, "guest_abc", uint(7)).
			Return(&cart.Cart{ID: "cart-1", TotalPrice: 50}, nil)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/cart/merge", bytes.NewBufferString(`{"guest_id":"guest_abc"}`))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		svc.AssertExpectations(t)
	})

	t.Run("guest id from header when the body is empty", func(t *testing.T) {
		svc := new(MockCartService)
		r := newCartRouter(NewCartHandler(svc, nil), asUser(7, "customer"))

		svc.On("Merge", mock.Anything, "guest_hdr", uint(7)).
			Return(&cart.Cart{ID: "cart-1"}, nil)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/cart/merge", nil)
		req.Header.Set(GuestIDHeader, "guest_hdr")
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		svc.AssertExpectations(t)
	})

	t.Run("no guest id anywhere", func(t *testing.T) {
		svc := new(MockCartService)
		r := newCartRouter(NewCartHandler(svc, nil), asUser(7, "customer"))

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/cart/merge", nil)
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		svc.AssertNotCalled(t, "Merge", mock.Anything, mock.Anything, mock.Anything)
	})
}
