package checkout

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/courseplatform/backend/internal/domain/learning"
	"github.com/courseplatform/backend/internal/domain/shared"
	"github.com/courseplatform/backend/internal/domain/trade"
	"github.com/courseplatform/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service places, pays and cancels orders.
// Payment is simulated: paying marks the order paid, enrolls the buyer in
// every purchased course and takes product stock, all in one transaction.
type Service struct {
	orderRepo      trade.OrderRepository
	txScope        TransactionScope
	idempotency    shared.IdempotencyStore
	idempotencyTTL time.Duration
	metrics        *telemetry.CheckoutMetrics
	logger         *zap.Logger
}

// NewService creates a checkout service. idempotency may be nil, in which
// case Idempotency-Key headers are ignored.
func NewService(
	orderRepo trade.OrderRepository,
	txScope TransactionScope,
	idempotency shared.IdempotencyStore,
	idempotencyTTL time.Duration,
	logger *zap.Logger,
) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if idempotencyTTL <= 0 {
		idempotencyTTL = shared.DefaultIdempotencyConfig().TTL
	}
	return &Service{
		orderRepo:      orderRepo,
		txScope:        txScope,
		idempotency:    idempotency,
		idempotencyTTL: idempotencyTTL,
		logger:         logger,
	}
}

// SetCheckoutMetrics sets the checkout metrics collector
func (s *Service) SetCheckoutMetrics(m *telemetry.CheckoutMetrics) {
	s.metrics = m
}

// CreateOrder validates the requested items against the catalog and stores a
// pending order. Nothing is persisted if any item is rejected.
func (s *Service) CreateOrder(ctx context.Context, userID uuid.UUID, req CreateOrderRequest) (*OrderResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "checkout", "create_order")
	defer span.End()
	telemetry.SetAttributes(span,
		telemetry.SpanAttrUserID, userID.String(),
		telemetry.SpanAttrItemCount, len(req.Items),
	)

	if len(req.Items) == 0 {
		return nil, shared.NewValidationError("Order items are required")
	}
	for _, item := range req.Items {
		if strings.TrimSpace(item.Type) == "" || strings.TrimSpace(item.ID) == "" {
			return nil, shared.NewValidationError("Item type and ID are required")
		}
	}

	order := trade.NewOrder(userID, req.PaymentMethod)
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		for _, item := range req.Items {
			if err := s.addItem(ctx, repos, order, item); err != nil {
				return err
			}
		}
		return repos.OrderRepo().Create(ctx, order)
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	itemsByType := make(map[string]int, 2)
	for _, item := range order.Items {
		itemsByType[string(item.ItemType)]++
	}
	s.metrics.RecordOrderCreated(ctx, order.TotalAmount, itemsByType)
	telemetry.SetAttributes(span,
		telemetry.SpanAttrOrderID, order.ID.String(),
		telemetry.SpanAttrAmount, order.TotalAmount.String(),
	)

	s.logger.Info("Order created",
		zap.String("order_id", order.ID.String()),
		zap.String("user_id", userID.String()),
		zap.String("total_amount", order.TotalAmount.StringFixed(2)),
		zap.Int("items", len(order.Items)))

	response := ToOrderResponse(order)
	return &response, nil
}

func (s *Service) addItem(ctx context.Context, repos TransactionalRepositories, order *trade.Order, item OrderItemRequest) error {
	quantity := 1
	if item.Quantity != nil {
		quantity = *item.Quantity
	}

	switch trade.ItemType(strings.TrimSpace(item.Type)) {
	case trade.ItemTypeCourse:
		id, err := uuid.Parse(strings.TrimSpace(item.ID))
		if err != nil {
			return shared.NewNotFoundError(fmt.Sprintf("Course %s not found", item.ID))
		}
		course, err := repos.CourseRepo().FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return shared.NewNotFoundError(fmt.Sprintf("Course %s not found", item.ID))
			}
			return err
		}
		if course.IsActive() {
			enrolled, err := repos.EnrollmentRepo().Exists(ctx, order.UserID, course.ID)
			if err != nil {
				return err
			}
			if enrolled {
				return shared.NewConflictError(fmt.Sprintf("Already enrolled in course %s", course.Title))
			}
		}
		_, err = order.AddCourse(course)
		return err

	case trade.ItemTypeProduct:
		id, err := uuid.Parse(strings.TrimSpace(item.ID))
		if err != nil {
			return shared.NewNotFoundError(fmt.Sprintf("Product %s not found", item.ID))
		}
		product, err := repos.ProductRepo().FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return shared.NewNotFoundError(fmt.Sprintf("Product %s not found", item.ID))
			}
			return err
		}
		_, err = order.AddProduct(product, quantity)
		return err

	default:
		return shared.NewValidationError(`Invalid item type. Must be "course" or "product"`)
	}
}

// PayOrder pays a pending order owned by userID.
//
// With an idempotency key, the first request claims pay:<user>:<order>:<key>,
// so the same key may be reused for a different order. A repeat
// of a request that already paid the order returns the order unchanged; a
// repeat while the first is still running is rejected. The claim is released
// when the payment fails so the client can retry with the same key.
func (s *Service) PayOrder(ctx context.Context, userID, orderID uuid.UUID, req PayOrderRequest) (*OrderResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "checkout", "pay_order")
	defer span.End()

	key := strings.TrimSpace(req.IdempotencyKey)
	telemetry.SetAttributes(span,
		telemetry.SpanAttrOrderID, orderID.String(),
		telemetry.SpanAttrUserID, userID.String(),
		telemetry.SpanAttrIdempotent, key != "",
	)

	order, err := s.findForUser(ctx, orderID, userID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	claimKey := ""
	if key != "" && s.idempotency != nil {
		claimKey = fmt.Sprintf("pay:%s:%s:%s", userID, order.ID, key)
		claimed, err := s.idempotency.Claim(ctx, claimKey, s.idempotencyTTL)
		if err != nil {
			telemetry.RecordError(span, err)
			return nil, err
		}
		if !claimed {
			if order.IsPaid() {
				s.metrics.RecordPayment(ctx, order.PaymentMethod, telemetry.OutcomeReplayed)
				telemetry.AddEvent(span, "idempotent_replay")
				s.logger.Info("Replayed payment request",
					zap.String("order_id", order.ID.String()),
					zap.String("user_id", userID.String()))
				response := ToOrderResponse(order)
				return &response, nil
			}
			return nil, shared.NewConflictError("Payment with this idempotency key is already in progress")
		}
	}

	paid, err := s.pay(ctx, userID, order, req.PaymentMethod)
	if err != nil {
		if claimKey != "" {
			if relErr := s.idempotency.Release(ctx, claimKey); relErr != nil {
				s.logger.Warn("Failed to release idempotency key",
					zap.String("key", claimKey),
					zap.Error(relErr))
			}
		}
		s.metrics.RecordPayment(ctx, req.PaymentMethod, telemetry.OutcomeFailed)
		telemetry.RecordError(span, err)
		return nil, err
	}

	s.metrics.RecordPayment(ctx, paid.PaymentMethod, telemetry.OutcomeSucceeded)
	telemetry.SetAttributes(span, telemetry.SpanAttrAmount, paid.TotalAmount.String())
	s.logger.Info("Order paid",
		zap.String("order_id", paid.ID.String()),
		zap.String("user_id", userID.String()),
		zap.String("payment_method", paid.PaymentMethod),
		zap.String("total_amount", paid.TotalAmount.StringFixed(2)))

	response := ToOrderResponse(paid)
	return &response, nil
}

func (s *Service) pay(ctx context.Context, userID uuid.UUID, order *trade.Order, paymentMethod string) (*trade.Order, error) {
	if !order.IsPending() {
		return nil, shared.NewConflictError("Order is not in pending status")
	}

	enrolled := 0
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		locked, err := repos.OrderRepo().FindByIDForUpdate(ctx, order.ID)
		if err != nil {
			return err
		}
		if err := locked.Pay(paymentMethod); err != nil {
			return err
		}
		if err := repos.OrderRepo().Update(ctx, locked); err != nil {
			return err
		}

		for i := range locked.Items {
			item := &locked.Items[i]
			switch {
			case item.IsCourse():
				if err := repos.EnrollmentRepo().Create(ctx, learning.NewEnrollment(userID, *item.CourseID)); err != nil {
					if errors.Is(err, shared.ErrAlreadyExists) {
						return shared.NewConflictError(fmt.Sprintf("Already enrolled in course %s", itemName(item)))
					}
					return err
				}
				enrolled++
			case item.IsProduct():
				ok, err := repos.ProductRepo().DecrementStock(ctx, *item.ProductID, item.Quantity)
				if err != nil {
					return err
				}
				if !ok {
					s.metrics.RecordStockConflict(ctx)
					return shared.NewDomainError(shared.CodeInsufficientStock,
						fmt.Sprintf("Insufficient stock for %s", itemName(item)))
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.metrics.RecordEnrollments(ctx, enrolled)

	// reload so embedded products show the stock left after this payment
	return s.orderRepo.FindByID(ctx, order.ID)
}

func itemName(item *trade.OrderItem) string {
	switch {
	case item.Course != nil:
		return item.Course.Title
	case item.Product != nil:
		return item.Product.Name
	case item.CourseID != nil:
		return item.CourseID.String()
	case item.ProductID != nil:
		return item.ProductID.String()
	}
	return item.ID.String()
}

// CancelOrder cancels a pending order owned by userID
func (s *Service) CancelOrder(ctx context.Context, userID, orderID uuid.UUID) (*OrderResponse, error) {
	order, err := s.findForUser(ctx, orderID, userID)
	if err != nil {
		return nil, err
	}
	if err := order.Cancel(); err != nil {
		return nil, err
	}
	if err := s.orderRepo.Update(ctx, order); err != nil {
		return nil, err
	}

	s.logger.Info("Order cancelled",
		zap.String("order_id", order.ID.String()),
		zap.String("user_id", userID.String()))

	response := ToOrderResponse(order)
	return &response, nil
}

// GetOrder returns an order owned by userID
func (s *Service) GetOrder(ctx context.Context, userID, orderID uuid.UUID) (*OrderResponse, error) {
	order, err := s.findForUser(ctx, orderID, userID)
	if err != nil {
		return nil, err
	}
	response := ToOrderResponse(order)
	return &response, nil
}

// MyOrders lists the user's orders newest first
func (s *Service) MyOrders(ctx context.Context, userID uuid.UUID, filter OrderListFilter) (shared.Paginated[OrderResponse], error) {
	return s.list(ctx, trade.OrderFilter{
		Filter: shared.Filter{Page: filter.Page, PageSize: filter.PerPage},
		UserID: &userID,
		Status: filter.Status,
	})
}

// ListOrders lists every order newest first
func (s *Service) ListOrders(ctx context.Context, filter OrderListFilter) (shared.Paginated[OrderResponse], error) {
	return s.list(ctx, trade.OrderFilter{
		Filter: shared.Filter{Page: filter.Page, PageSize: filter.PerPage},
		Status: filter.Status,
	})
}

func (s *Service) list(ctx context.Context, filter trade.OrderFilter) (shared.Paginated[OrderResponse], error) {
	page, err := s.orderRepo.FindAll(ctx, filter)
	if err != nil {
		return shared.Paginated[OrderResponse]{}, err
	}
	return shared.MapPaginated(page, ToOrderResponse), nil
}

// UpdateOrderStatus sets any valid status on an order. It does not touch
// stock or enrollments.
func (s *Service) UpdateOrderStatus(ctx context.Context, orderID uuid.UUID, req UpdateOrderStatusRequest) (*OrderResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewNotFoundError("Order not found")
		}
		return nil, err
	}

	previous := order.Status
	if err := order.OverrideStatus(trade.OrderStatus(strings.TrimSpace(req.Status))); err != nil {
		return nil, err
	}
	if err := s.orderRepo.Update(ctx, order); err != nil {
		return nil, err
	}

	s.logger.Info("Order status overridden",
		zap.String("order_id", order.ID.String()),
		zap.String("from", string(previous)),
		zap.String("to", string(order.Status)))

	response := ToOrderResponse(order)
	return &response, nil
}

func (s *Service) findForUser(ctx context.Context, orderID, userID uuid.UUID) (*trade.Order, error) {
	order, err := s.orderRepo.FindByIDForUser(ctx, orderID, userID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewNotFoundError("Order not found")
		}
		return nil, err
	}
	return order, nil
}
