package cart

import (
	"time"

	"github.com/google/uuid"
)

// Owner identifies which identity a cart belongs to. Exactly one of the two
// fields is set on a persisted cart; UserID wins when a caller supplies both.
type Owner struct {
	UserID  *uint
	GuestID *string
}

func (o Owner) IsZero() bool {
	return o.UserID == nil && (o.GuestID == nil || *o.GuestID == "")
}

func UserOwner(userID uint) Owner {
	return Owner{UserID: &userID}
}

func GuestOwner(guestID string) Owner {
	return Owner{GuestID: &guestID}
}

// NewGuestID mints an opaque identity for an anonymous browsing session.
func NewGuestID() string {
	return "guest_" + uuid.NewString()
}

type Cart struct {
	ID         string    `json:"id"`
	UserID     *uint     `json:"user_id,omitempty"`
	GuestID    *string   `json:"guest_id,omitempty"`
	Items      []Item    `json:"items"`
	TotalPrice float64   `json:"total_price"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Item is one line of a cart. Name, image and price are snapshots taken from
// the product at add time.
type Item struct {
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"`
	Image     string  `json:"image"`
	Price     float64 `json:"price"`
	Size      string  `json:"size"`
	Color     string  `json:"color"`
	Quantity  int     `json:"quantity"`
}

// ItemKey is the uniqueness key of a line item within a cart.
type ItemKey struct {
	ProductID string
	Size      string
	Color     string
}

func (i Item) Key() ItemKey {
	return ItemKey{ProductID: i.ProductID, Size: i.Size, Color: i.Color}
}

// TotalOf returns the canonical aggregate for a set of line items.
func TotalOf(items []Item) float64 {
	var total float64
	for _, it := range items {
		total += it.Price * float64(it.Quantity)
	}
	return total
}

type AddItemParams struct {
	Owner     Owner
	ProductID string
	Quantity  int
	Size      string
	Color     string
}

type UpdateItemParams struct {
	Owner    Owner
	Key      ItemKey
	Quantity int
}

type RemoveItemParams struct {
	Owner Owner
	Key   ItemKey
}
