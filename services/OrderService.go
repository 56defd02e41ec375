package services

import (
	"context"
	"log"
	"time"

	"eshopClient/entities"
	"eshopClient/repository"
)

// OrderFilter narrows an already fetched order list. Zero values mean
// "no constraint". Date bounds are inclusive.
type OrderFilter struct {
	Status    string
	StartDate *time.Time
	EndDate   *time.Time
}

// OrderService holds the user's order history. Filtering happens on the
// fetched list, the backend is not asked again per filter change.
type OrderService struct {
	or     repository.OrderRepository
	orders []entities.Order
}

func NewOrderService(orderRepo repository.OrderRepository) OrderService {
	return OrderService{or: orderRepo}
}

func (os *OrderService) Orders() []entities.Order {
	return os.orders
}

func (os *OrderService) FetchOrders(ctx context.Context) (err error) {
	orders, err := os.or.GetOrders(ctx)
	if err != nil {
		log.Printf("FetchOrders: %v", err)
		return
	}
	os.orders = orders
	return
}

func (os *OrderService) FilterOrders(filter OrderFilter) []entities.Order {
	var filtered []entities.Order
	for _, order := range os.orders {
		if filter.Status != "" && order.Status != filter.Status {
			continue
		}
		if !inDateRange(order.OrderDate.Time, filter.StartDate, filter.EndDate) {
			continue
		}
		filtered = append(filtered, order)
	}
	return filtered
}

// Reorder puts the items of a past order back into the cart. It never
// places a new order by itself.
func (os *OrderService) Reorder(ctx context.Context, orderId int64) (message string, err error) {
	message, err = os.or.Reorder(ctx, orderId)
	if err != nil {
		log.Printf("Reorder: %v", err)
	}
	return
}

func inDateRange(date time.Time, start, end *time.Time) bool {
	if start != nil && date.Before(*start) {
		return false
	}
	if end != nil && date.After(*end) {
		return false
	}
	return true
}

// StatusText is the display label for an order status. CONFIRMED appears
// only in server payloads of older orders and has a label but no place
// in the status choices.
func StatusText(status string) string {
	switch status {
	case entities.StatusNew:
		return "Новый"
	case "CONFIRMED":
		return "Подтвержден"
	case entities.StatusProcessing:
		return "В обработке"
	case entities.StatusShipped:
		return "Отправлен"
	case entities.StatusDelivered:
		return "Доставлен"
	case entities.StatusCancelled:
		return "Отменен"
	case entities.StatusCompleted:
		return "Завершен"
	default:
		return status
	}
}

func ShippingMethodText(method string) string {
	switch method {
	case entities.ShippingExpress:
		return "Экспресс-доставка"
	case entities.ShippingPickup:
		return "Самовывоз"
	case entities.ShippingStandard:
		return "Стандартная доставка"
	default:
		return method
	}
}
