package order

import (
	"context"
	"errors"
	"time"

	"modora-be/internal/cart"
	"modora-be/internal/logger"
	"modora-be/internal/user"

	"go.uber.org/zap"
)

type Service interface {
	CreateFromCart(ctx context.Context, userID uint, params CheckoutParams) (*Order, error)
	GetOrder(ctx context.Context, id string, requesterID uint, requesterRole user.Role) (*Order, error)
	ListForUser(ctx context.Context, userID uint) ([]*Order, error)
	ListAll(ctx context.Context) ([]*Order, error)
	MarkPaid(ctx context.Context, id string, conf PaymentConfirmation) (*Order, error)
	UpdateStatus(ctx context.Context, id string, status Status) (*Order, error)
	Delete(ctx context.Context, id string) error
}

type service struct {
	repo    Repository
	cartSvc cart.Service
}

func NewService(repo Repository, cartSvc cart.Service) Service {
	return &service{repo: repo, cartSvc: cartSvc}
}

// CreateFromCart freezes the user's current cart into an order. The item
// snapshots and the total are copied as-is; later price changes on the
// catalog never touch an existing order.
func (s *service) CreateFromCart(ctx context.Context, userID uint, params CheckoutParams) (*Order, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "CreateFromCart"),
		zap.Uint("user_id", userID),
	)

	c, err := s.cartSvc.Get(ctx, cart.UserOwner(userID))
	if err != nil {
		if errors.Is(err, cart.ErrCartNotFound) {
			return nil, ErrEmptyCart
		}
		return nil, err
	}
	if len(c.Items) == 0 {
		return nil, ErrEmptyCart
	}

	items := make([]Item, 0, len(c.Items))
	for _, it := range c.Items {
		items = append(items, Item{
			ProductID: it.ProductID,
			Name:      it.Name,
			Image:     it.Image,
			Price:     it.Price,
			Size:      it.Size,
			Color:     it.Color,
			Quantity:  it.Quantity,
		})
	}

	o := &Order{
		UserID:          userID,
		Items:           items,
		ShippingAddress: params.ShippingAddress,
		PaymentMethod:   params.PaymentMethod,
		TotalPrice:      c.TotalPrice,
		Status:          StatusPending,
	}

	created, err := s.repo.Create(ctx, o)
	if err != nil {
		return nil, err
	}

	log.Info("order created from cart",
		zap.String("order_id", created.ID),
		zap.Int("items", len(created.Items)),
	)

	return created, nil
}

// GetOrder returns the order only to its owner or to an admin.
func (s *service) GetOrder(ctx context.Context, id string, requesterID uint, requesterRole user.Role) (*Order, error) {
	o, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if o.UserID != requesterID && requesterRole != user.RoleAdmin {
		return nil, ErrForbidden
	}

	return o, nil
}

func (s *service) ListForUser(ctx context.Context, userID uint) ([]*Order, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *service) ListAll(ctx context.Context) ([]*Order, error) {
	return s.repo.ListAll(ctx)
}

// MarkPaid records the payment confirmation exactly once. Replayed
// confirmations for an already-paid order return the order unchanged.
func (s *service) MarkPaid(ctx context.Context, id string, conf PaymentConfirmation) (*Order, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "MarkPaid"),
		zap.String("order_id", id),
	)

	o, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if o.IsPaid {
		log.Info("order already paid, ignoring confirmation",
			zap.String("payment_id", conf.PaymentID),
		)
		return o, nil
	}

	if err := s.repo.MarkPaid(ctx, id, conf, time.Now()); err != nil {
		return nil, err
	}

	log.Info("order marked paid", zap.String("payment_id", conf.PaymentID))

	return s.repo.GetByID(ctx, id)
}

// UpdateStatus moves the order to one of the known statuses. Reaching
// Delivered also flips the delivery flag and stamps delivered_at the first
// time only.
func (s *service) UpdateStatus(ctx context.Context, id string, status Status) (*Order, error) {
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}

	if err := s.repo.UpdateStatus(ctx, id, status, status == StatusDelivered); err != nil {
		return nil, err
	}

	return s.repo.GetByID(ctx, id)
}

func (s *service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
