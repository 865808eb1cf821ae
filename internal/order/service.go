package order

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"wyzar-be/internal/logger"
	"wyzar-be/internal/payment"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// paymentDescription is the single line item Paynow shows the buyer.
const paymentDescription = "WyZar Order"

type Service interface {
	// Create validates the cart against authoritative product rows,
	// persists a Pending order and initiates payment. It returns the
	// order and the gateway redirect URL for the buyer.
	Create(ctx context.Context, userID uint, email string, items []CartItem, addr ShippingAddress) (*Order, string, error)

	// HandleCallback reconciles an order against a gateway status update.
	// Unknown references and repeated callbacks are no-ops.
	HandleCallback(ctx context.Context, payload *payment.CallbackPayload) error

	ListForUser(ctx context.Context, userID uint) ([]Order, error)
	Get(ctx context.Context, orderID string, userID uint) (*Order, error)
}

type service struct {
	repo    Repository
	gateway payment.Gateway
}

func NewService(repo Repository, gateway payment.Gateway) Service {
	return &service{repo: repo, gateway: gateway}
}

func (s *service) Create(ctx context.Context, userID uint, email string, items []CartItem, addr ShippingAddress) (*Order, string, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "Create"),
		zap.Uint("user_id", userID),
		zap.Int("cart_size", len(items)),
	)

	if len(items) == 0 {
		return nil, "", ErrEmptyCart
	}

	ids := make([]uuid.UUID, 0, len(items))
	for _, item := range items {
		id, err := uuid.Parse(item.ProductID)
		if err != nil {
			return nil, "", fmt.Errorf("%w: %s", ErrProductNotFound, item.ProductID)
		}
		if item.Quantity <= 0 {
			return nil, "", fmt.Errorf("%w for product %s", ErrInvalidQuantity, item.ProductID)
		}
		ids = append(ids, id)
	}

	products, err := s.repo.GetProductsForCheckout(ctx, ids)
	if err != nil {
		return nil, "", err
	}

	// Prices and names come from the products table, never from the
	// client cart.
	var total float64
	orderItems := make([]Item, 0, len(items))
	for i, cartItem := range items {
		p, ok := products[ids[i]]
		if !ok {
			return nil, "", fmt.Errorf("%w: %s", ErrProductNotFound, cartItem.ProductID)
		}
		if cartItem.Quantity > p.Quantity {
			return nil, "", fmt.Errorf("%w for %s", ErrInsufficientStock, p.Name)
		}

		total += p.Price * float64(cartItem.Quantity)
		orderItems = append(orderItems, Item{
			ProductID: p.ID,
			Name:      p.Name,
			Price:     p.Price,
			Quantity:  cartItem.Quantity,
			Image:     p.Image,
		})
	}

	o := &Order{
		ID:              uuid.New(),
		UserID:          userID,
		Items:           orderItems,
		ShippingAddress: addr,
		TotalPrice:      total,
		Status:          StatusPending,
	}

	if err := s.repo.CreateOrder(ctx, o); err != nil {
		return nil, "", err
	}

	resp, err := s.gateway.CreatePayment(ctx, o.ID.String(), email, paymentDescription, total)
	if err != nil {
		log.Error("payment initiation failed, marking order failed",
			zap.String("order_id", o.ID.String()),
			zap.Error(err),
		)
		// Compensate: a Pending order with no live payment would dangle
		// until the sweeper got it.
		if markErr := s.repo.MarkFailed(ctx, o.ID); markErr != nil {
			log.Error("failed to mark order failed",
				zap.String("order_id", o.ID.String()),
				zap.Error(markErr),
			)
		} else {
			o.Status = StatusFailed
		}
		return o, "", fmt.Errorf("%w: %v", ErrPaymentInit, err)
	}

	if err := s.repo.SetPaymentReference(ctx, o.ID, resp.PollURL); err != nil {
		log.Warn("failed to store payment reference",
			zap.String("order_id", o.ID.String()),
			zap.Error(err),
		)
	}
	o.PaymentReference = resp.PollURL

	log.Info("order created",
		zap.String("order_id", o.ID.String()),
		zap.Float64("total", total),
	)

	return o, resp.RedirectURL, nil
}

func (s *service) HandleCallback(ctx context.Context, payload *payment.CallbackPayload) error {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "HandleCallback"),
		zap.String("reference", payload.Reference),
		zap.String("gateway_status", payload.Status),
	)

	orderID, err := uuid.Parse(payload.Reference)
	if err != nil {
		log.Warn("callback with malformed reference")
		return nil
	}

	o, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, ErrOrderNotFound) {
			log.Warn("callback for unknown order")
			return nil
		}
		return err
	}

	if o.Status != StatusPending {
		log.Info("order already processed", zap.String("status", string(o.Status)))
		return nil
	}

	if payment.IsSuccessStatus(payload.Status) {
		err = s.repo.MarkPaid(ctx, orderID, payload.PaynowReference, payload.Status)
	} else {
		err = s.repo.MarkCancelled(ctx, orderID, payload.Status)
	}

	if errors.Is(err, ErrNoPendingOrder) {
		// Lost the race to a concurrent callback; the first writer won.
		log.Info("order left pending between lookup and update")
		return nil
	}
	if err != nil {
		return err
	}

	if payment.IsSuccessStatus(payload.Status) {
		log.Info("order marked paid")
	} else {
		log.Info("order cancelled")
	}
	return nil
}

func (s *service) ListForUser(ctx context.Context, userID uint) ([]Order, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *service) Get(ctx context.Context, orderID string, userID uint) (*Order, error) {
	id, err := uuid.Parse(strings.TrimSpace(orderID))
	if err != nil {
		return nil, ErrOrderNotFound
	}

	o, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if o.UserID != userID {
		return nil, ErrNotOwner
	}

	return o, nil
}
