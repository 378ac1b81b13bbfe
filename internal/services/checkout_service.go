package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"homecook-backend/internal/models"
	"homecook-backend/internal/repositories"
	"homecook-backend/pkg/messaging"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// EventPublisher sends domain events to the message bus.
type EventPublisher interface {
	SendMessage(ctx context.Context, topic, key string, value interface{}) error
}

type CheckoutService struct {
	orderRepo  repositories.OrderRepository
	publisher  EventPublisher
	orderTopic string
	logger     *zap.Logger
}

func NewCheckoutService(orderRepo repositories.OrderRepository, publisher EventPublisher, orderTopic string, logger *zap.Logger) *CheckoutService {
	return &CheckoutService{
		orderRepo:  orderRepo,
		publisher:  publisher,
		orderTopic: orderTopic,
		logger:     logger,
	}
}

type PlaceOrderRequest struct {
	DeliveryNote  string `json:"delivery_note"`
	PaymentMethod string `json:"payment_method"`
}

// PlaceOrder turns the cart into one pending order per vendor, in the order
// vendors first appear in the cart. The orders are written together; the
// ordered quantities are then taken out of the cart, so anything added while
// the orders were being written stays.
func (s *CheckoutService) PlaceOrder(ctx context.Context, sessionID string, cart *Cart, req *PlaceOrderRequest) ([]models.Order, error) {
	summary := cart.Summary()
	if summary.Count == 0 {
		return nil, ErrEmptyCart
	}

	paymentMethod := req.PaymentMethod
	if paymentMethod == "" {
		paymentMethod = "cash"
	}

	orders := buildVendorOrders(sessionID, summary.Items, req.DeliveryNote, paymentMethod)
	if err := s.orderRepo.CreateAll(ctx, orders); err != nil {
		s.logger.Error("order create failed",
			zap.String("session_id", sessionID),
			zap.Int("orders", len(orders)),
			zap.Error(err))
		return nil, fmt.Errorf("create orders: %w", err)
	}

	for _, item := range summary.Items {
		cart.DeductOrdered(item.ID, item.Quantity)
	}

	for _, order := range orders {
		s.publishPlaced(ctx, &order)
	}

	s.logger.Info("checkout completed",
		zap.String("session_id", sessionID),
		zap.Int("orders", len(orders)),
		zap.Int("items", summary.Count),
		zap.Float64("total", summary.Total))
	return orders, nil
}

func (s *CheckoutService) ListOrders(ctx context.Context, sessionID string, limit, offset int) ([]models.Order, error) {
	orders, err := s.orderRepo.GetBySessionID(ctx, sessionID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return orders, nil
}

// GetOrder returns an order of the session. Orders of other sessions are not found.
func (s *CheckoutService) GetOrder(ctx context.Context, sessionID, orderID string) (*models.Order, error) {
	id, err := uuid.Parse(orderID)
	if err != nil {
		return nil, ErrInvalidOrderID
	}

	order, err := s.orderRepo.GetByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get order %s: %w", orderID, err)
	}
	if order.SessionID != sessionID {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

func (s *CheckoutService) publishPlaced(ctx context.Context, order *models.Order) {
	event := messaging.OrderEvent{
		Type:       messaging.OrderPlaced,
		OrderID:    order.ID.String(),
		SessionID:  order.SessionID,
		VendorID:   order.VendorID,
		ItemCount:  order.ItemCount,
		Total:      order.TotalAmount,
		OccurredAt: order.CreatedAt,
	}
	if err := s.publisher.SendMessage(ctx, s.orderTopic, order.VendorID, event); err != nil {
		s.logger.Warn("order event publish failed",
			zap.String("order_id", event.OrderID),
			zap.Error(err))
	}
}

func buildVendorOrders(sessionID string, items []models.CartLineItem, note, paymentMethod string) []models.Order {
	now := time.Now()
	var orders []models.Order
	byVendor := make(map[string]int)

	for _, item := range items {
		i, ok := byVendor[item.VendorID]
		if !ok {
			i = len(orders)
			byVendor[item.VendorID] = i
			orders = append(orders, models.Order{
				ID:            uuid.New(),
				SessionID:     sessionID,
				VendorID:      item.VendorID,
				VendorName:    item.VendorName,
				OrderStatus:   "pending",
				DeliveryNote:  note,
				PaymentMethod: paymentMethod,
				CreatedAt:     now,
				UpdatedAt:     now,
			})
		}

		order := &orders[i]
		order.Items = append(order.Items, models.OrderItem{
			ID:                  uuid.New(),
			OrderID:             order.ID,
			LineID:              item.ID,
			ProductID:           item.ProductID,
			Title:               item.Title,
			UnitPrice:           item.UnitPrice,
			Quantity:            item.Quantity,
			SpecialInstructions: item.SpecialInstructions,
		})
		order.ItemCount += item.Quantity
		order.TotalAmount += item.LineTotal()
	}
	return orders
}
