package cart

import (
	"context"
	"errors"

	"modora-be/internal/logger"
	"modora-be/internal/product"

	"go.uber.org/zap"
)

// Service defines the business logic for carts.
type Service interface {
	Get(ctx context.Context, owner Owner) (*Cart, error)
	AddItem(ctx context.Context, params AddItemParams) (*Cart, error)
	SetItemQuantity(ctx context.Context, params UpdateItemParams) (*Cart, error)
	RemoveItem(ctx context.Context, params RemoveItemParams) (*Cart, error)
	Clear(ctx context.Context, owner Owner) error
	Merge(ctx context.Context, guestID string, userID uint) (*Cart, error)
}

type service struct {
	repo        Repository
	productRepo product.Repository
}

func NewService(repo Repository, productRepo product.Repository) Service {
	return &service{repo: repo, productRepo: productRepo}
}

func (s *service) Get(ctx context.Context, owner Owner) (*Cart, error) {
	if owner.IsZero() {
		return nil, ErrCartNotFound
	}
	return s.repo.GetByOwner(ctx, owner)
}

// AddItem adds a product to the identified cart, creating the cart first when
// none exists. A brand-new anonymous caller gets a freshly minted guest id,
// returned on the cart itself.
func (s *service) AddItem(ctx context.Context, params AddItemParams) (*Cart, error) {
	if params.Quantity < 1 {
		return nil, ErrInvalidQuantity
	}

	p, err := s.productRepo.GetByID(ctx, params.ProductID)
	if err != nil {
		if errors.Is(err, product.ErrProductNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}

	owner := params.Owner
	c, err := s.repo.GetByOwner(ctx, owner)
	if err != nil {
		if !errors.Is(err, ErrCartNotFound) {
			return nil, err
		}

		if owner.IsZero() {
			owner = GuestOwner(NewGuestID())
		}
		c, err = s.repo.CreateCart(ctx, owner)
		if err != nil {
			return nil, err
		}
		owner = Owner{UserID: c.UserID, GuestID: c.GuestID}
	} else {
		owner = Owner{UserID: c.UserID, GuestID: c.GuestID}
	}

	item := Item{
		ProductID: p.ID,
		Name:      p.Name,
		Image:     p.FirstImage(),
		Price:     p.Price,
		Size:      params.Size,
		Color:     params.Color,
		Quantity:  params.Quantity,
	}

	if err := s.repo.AddItem(ctx, c.ID, item); err != nil {
		return nil, err
	}

	return s.repo.GetByOwner(ctx, owner)
}

// SetItemQuantity sets the quantity of a line item; a quantity of zero or
// less removes the line item entirely.
func (s *service) SetItemQuantity(ctx context.Context, params UpdateItemParams) (*Cart, error) {
	if params.Owner.IsZero() {
		return nil, ErrCartNotFound
	}

	c, err := s.repo.GetByOwner(ctx, params.Owner)
	if err != nil {
		return nil, err
	}

	if params.Quantity <= 0 {
		err = s.repo.RemoveItem(ctx, c.ID, params.Key)
	} else {
		err = s.repo.SetItemQuantity(ctx, c.ID, params.Key, params.Quantity)
	}
	if err != nil {
		return nil, err
	}

	return s.repo.GetByOwner(ctx, params.Owner)
}

func (s *service) RemoveItem(ctx context.Context, params RemoveItemParams) (*Cart, error) {
	if params.Owner.IsZero() {
		return nil, ErrCartNotFound
	}

	c, err := s.repo.GetByOwner(ctx, params.Owner)
	if err != nil {
		return nil, err
	}

	if err := s.repo.RemoveItem(ctx, c.ID, params.Key); err != nil {
		return nil, err
	}

	return s.repo.GetByOwner(ctx, params.Owner)
}

func (s *service) Clear(ctx context.Context, owner Owner) error {
	if owner.IsZero() {
		return ErrCartNotFound
	}

	c, err := s.repo.GetByOwner(ctx, owner)
	if err != nil {
		return err
	}

	return s.repo.Clear(ctx, c.ID)
}

// Merge reconciles a guest cart into a user cart at login time.
func (s *service) Merge(ctx context.Context, guestID string, userID uint) (*Cart, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "Merge"),
		zap.String("guest_id", guestID),
		zap.Uint("user_id", userID),
	)

	guestCart, err := s.repo.GetByOwner(ctx, GuestOwner(guestID))
	if err != nil && !errors.Is(err, ErrCartNotFound) {
		return nil, err
	}

	userCart, err := s.repo.GetByOwner(ctx, UserOwner(userID))
	if err != nil && !errors.Is(err, ErrCartNotFound) {
		return nil, err
	}

	switch {
	case guestCart == nil && userCart == nil:
		return nil, ErrCartNotFound

	case guestCart == nil:
		// Nothing to merge; a repeated merge after success lands here.
		return userCart, nil

	case userCart == nil:
		// Reassign ownership in place, no item copy needed.
		if err := s.repo.AssignToUser(ctx, guestCart.ID, userID); err != nil {
			return nil, err
		}
		log.Info("guest cart reassigned to user")
		return s.repo.GetByOwner(ctx, UserOwner(userID))

	default:
		merged := mergeItems(userCart.Items, guestCart.Items)
		if err := s.repo.ReplaceItems(ctx, userCart.ID, merged); err != nil {
			return nil, err
		}

		// The orphaned guest cart must not survive, but a failed delete
		// must not fail the merge or lose the merged data.
		if err := s.repo.Delete(ctx, guestCart.ID); err != nil {
			log.Warn("failed to delete guest cart after merge", zap.Error(err))
		}

		log.Info("guest cart merged into user cart",
			zap.Int("guest_items", len(guestCart.Items)),
			zap.Int("merged_items", len(merged)),
		)

		return s.repo.GetByOwner(ctx, UserOwner(userID))
	}
}

// mergeItems folds guest line items into the user's: shared
// (product, size, color) keys sum their quantities, guest-only items are
// appended in order.
func mergeItems(userItems, guestItems []Item) []Item {
	merged := make([]Item, len(userItems))
	copy(merged, userItems)

	index := make(map[ItemKey]int, len(merged))
	for i, it := range merged {
		index[it.Key()] = i
	}

	for _, g := range guestItems {
		if i, ok := index[g.Key()]; ok {
			merged[i].Quantity += g.Quantity
		} else {
			index[g.Key()] = len(merged)
			merged = append(merged, g)
		}
	}

	return merged
}
