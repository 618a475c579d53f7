package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"alliedparts/internal/logger"
	"alliedparts/internal/models"
	"alliedparts/internal/repositories"

	"github.com/google/uuid"
)

// EventPublisher sends an encoded event under a routing key.
type EventPublisher interface {
	Publish(routingKey string, body []byte) error
}

// OrderService handles business logic related to orders.
type OrderService struct {
	orders    repositories.Collection
	publisher EventPublisher
}

// NewOrderService creates a new OrderService. publisher may be nil.
func NewOrderService(orders repositories.Collection, publisher EventPublisher) *OrderService {
	return &OrderService{
		orders:    orders,
		publisher: publisher,
	}
}

// CreateOrder stores the order details as given.
func (s *OrderService) CreateOrder(ctx context.Context, itemID string, details models.Document) (*repositories.InsertResult, error) {
	result, err := s.orders.InsertOne(ctx, details)
	if err != nil {
		return nil, err
	}
	s.publish(models.OrderEvent{
		Type:    "order.created",
		OrderID: toString(result.InsertedID),
		UID:     details.UID(),
	})
	logger.Debugf("Order %v created for item %s", result.InsertedID, itemID)
	return result, nil
}

// GetOrdersByUser returns the orders of uid, newest first. An empty uid
// matches no orders.
func (s *OrderService) GetOrdersByUser(ctx context.Context, uid string) ([]models.Document, error) {
	if uid == "" {
		return []models.Document{}, nil
	}
	return s.orders.Find(ctx, repositories.Filter{UID: uid}, repositories.FindOptions{Newest: true})
}

// GetAllOrders returns every order, newest first.
func (s *OrderService) GetAllOrders(ctx context.Context) ([]models.Document, error) {
	return s.orders.Find(ctx, repositories.Filter{}, repositories.FindOptions{Newest: true})
}

// GetOrderByID returns a single order.
func (s *OrderService) GetOrderByID(ctx context.Context, id string) (models.Document, error) {
	return s.orders.FindOne(ctx, repositories.Filter{ID: id})
}

// MarkPaid records the payment transaction and sets the status to StatusPending.
func (s *OrderService) MarkPaid(ctx context.Context, id, transactionID string) (*repositories.UpdateResult, error) {
	set := models.Document{
		"status":        string(models.StatusPending),
		"transactionId": transactionID,
	}
	result, err := s.orders.UpdateOne(ctx, repositories.Filter{ID: id}, set, false)
	if err != nil {
		return nil, err
	}
	if result.MatchedCount > 0 {
		s.publish(models.OrderEvent{
			Type:          "order.paid",
			OrderID:       id,
			Status:        models.StatusPending,
			TransactionID: transactionID,
		})
	}
	return result, nil
}

// MarkShifted sets the order status to StatusShifted.
func (s *OrderService) MarkShifted(ctx context.Context, id string) (*repositories.UpdateResult, error) {
	set := models.Document{"status": string(models.StatusShifted)}
	result, err := s.orders.UpdateOne(ctx, repositories.Filter{ID: id}, set, false)
	if err != nil {
		return nil, err
	}
	if result.MatchedCount > 0 {
		s.publish(models.OrderEvent{
			Type:    "order.shifted",
			OrderID: id,
			Status:  models.StatusShifted,
		})
	}
	return result, nil
}

// DeleteOrder removes an order.
func (s *OrderService) DeleteOrder(ctx context.Context, id string) (*repositories.DeleteResult, error) {
	result, err := s.orders.DeleteOne(ctx, repositories.Filter{ID: id})
	if err != nil {
		return nil, err
	}
	if result.DeletedCount > 0 {
		s.publish(models.OrderEvent{Type: "order.deleted", OrderID: id})
	}
	return result, nil
}

// publish is best effort: a broker failure never fails the request.
func (s *OrderService) publish(event models.OrderEvent) {
	if s.publisher == nil {
		return
	}
	event.ID = uuid.New().String()
	event.OccurredAt = time.Now().Unix()

	body, err := json.Marshal(event)
	if err != nil {
		logger.Warningf("Failed to marshal %s event: %v", event.Type, err)
		return
	}
	if err := s.publisher.Publish(event.Type, body); err != nil {
		logger.Warningf("Failed to publish %s event for order %s: %v", event.Type, event.OrderID, err)
	}
}

func toString(v interface{}) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}
