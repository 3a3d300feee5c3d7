package orders

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"zuka-backend/models"
	"zuka-backend/pricing"
)

// Service owns the order lifecycle: creation from a cart snapshot and
// the created -> paid/cod-pending -> delivered transitions. All
// transitions go through the repository's conditional updates, so a
// concurrent payment verification and delivery mark on the same order
// cannot lose an update.
type Service struct {
	repo  Repository
	carts CartRepository
}

func NewService(repo Repository, carts CartRepository) *Service {
	return &Service{repo: repo, carts: carts}
}

// Create places an order from the user's current cart and clears the
// cart on success.
func (s *Service) Create(ctx context.Context, userID primitive.ObjectID, address models.ShippingAddress, paymentMethod string) (*models.Order, error) {
	if paymentMethod != models.PaymentMethodOnline && paymentMethod != models.PaymentMethodCOD {
		return nil, ErrInvalidPaymentMethod
	}

	cart, err := s.carts.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(cart.Items) == 0 {
		return nil, ErrEmptyCart
	}

	items := make([]models.OrderItem, 0, len(cart.Items))
	for _, ci := range cart.Items {
		if ci.Quantity < 1 || ci.Price < 0 {
			return nil, ErrInvalidCartItem
		}
		items = append(items, models.OrderItem{
			ProductID: ci.ProductID,
			Name:      ci.Name,
			Quantity:  ci.Quantity,
			UnitPrice: ci.Price,
			Image:     ci.Image,
		})
	}

	totals, err := pricing.ComputeTotals(cart.TotalPrice)
	if err != nil {
		return nil, err
	}

	order := &models.Order{
		UserID:          userID,
		Items:           items,
		ShippingAddress: address,
		PaymentMethod:   paymentMethod,
		ItemsPrice:      totals.ItemsPrice,
		ShippingPrice:   totals.ShippingPrice,
		TaxPrice:        totals.TaxPrice,
		TotalPrice:      totals.TotalPrice,
		Status:          models.OrderStatusCreated,
		CreatedAt:       time.Now().UTC(),
	}

	id, err := s.repo.Insert(ctx, order)
	if err != nil {
		return nil, err
	}
	order.ID = id

	// The clear is best effort. The order is already placed at this
	// point, and failing the request would invite a duplicate order on
	// retry; a stale cart is the cheaper inconsistency.
	if err := s.carts.Clear(ctx, userID); err != nil {
		log.Printf("Failed to clear cart for user %s after order %s: %v", userID.Hex(), id.Hex(), err)
	}

	return order, nil
}

func (s *Service) GetByID(ctx context.Context, id primitive.ObjectID) (*models.Order, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *Service) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Order, error) {
	return s.repo.FindByUser(ctx, userID)
}

func (s *Service) ListAll(ctx context.Context) ([]models.Order, error) {
	return s.repo.FindAll(ctx)
}

// MarkPaid records a verified online payment. Only orders placed with
// the online payment method qualify; a COD order is never reported as
// cryptographically paid. Re-invoking on an order that already left
// "created" is a no-op, not an error.
func (s *Service) MarkPaid(ctx context.Context, id primitive.ObjectID, result models.PaymentResult) (*models.Order, error) {
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order.PaymentMethod != models.PaymentMethodOnline {
		return nil, ErrNotOnline
	}

	if _, err := s.repo.TransitionToPaid(ctx, id, models.OrderStatusPaid, &result, time.Now().UTC()); err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, id)
}

// AcceptCOD marks a cash-on-delivery order as accepted. The order
// moves to "cod-pending", a deferred-payment state distinct from a
// cryptographically verified payment.
func (s *Service) AcceptCOD(ctx context.Context, id primitive.ObjectID) (*models.Order, error) {
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order.PaymentMethod != models.PaymentMethodCOD {
		return nil, ErrNotCOD
	}

	if _, err := s.repo.TransitionToPaid(ctx, id, models.OrderStatusCODPending, nil, time.Now().UTC()); err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, id)
}

// MarkDelivered records an operator's delivery confirmation. Delivery
// of an order that was never paid or COD-accepted is rejected;
// re-delivering is a no-op.
func (s *Service) MarkDelivered(ctx context.Context, id primitive.ObjectID) (*models.Order, error) {
	matched, err := s.repo.TransitionToDelivered(ctx, id, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !matched && order.Status == models.OrderStatusCreated {
		return nil, ErrNotPaid
	}
	return order, nil
}
