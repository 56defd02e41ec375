package repository

import (
	"context"
	"errors"
	"strconv"

	"eshopClient/entities"
)

type OrderRepository interface {
	CreateOrder(ctx context.Context, info entities.DeliveryInfo) (string, error)
	GetOrders(ctx context.Context) ([]entities.Order, error)
	Reorder(ctx context.Context, orderId int64) (string, error)
}

type OrderRepo struct {
	client *Client
}

func NewOrderRepository(client *Client) (OrderRepository, error) {
	if client == nil {
		return nil, errors.New("client must be non-nil")
	}
	return &OrderRepo{client: client}, nil
}

// CreateOrder submits the delivery draft; the cart contents are implicit,
// the backend builds the order from the caller's server-side cart.
func (o *OrderRepo) CreateOrder(ctx context.Context, info entities.DeliveryInfo) (message string, err error) {
	var resp entities.OrderResponse
	err = o.client.doEnvelope(ctx, "POST", "/orders", nil, info, &resp)
	if err != nil {
		return
	}
	message = resp.Message
	return
}

func (o *OrderRepo) GetOrders(ctx context.Context) (orders []entities.Order, err error) {
	var resp entities.OrdersResponse
	err = o.client.doEnvelope(ctx, "GET", "/orders", nil, nil, &resp)
	if err != nil {
		return
	}
	orders = resp.Orders
	return
}

// Reorder asks the backend to put the order's items back into the cart.
// It never places a duplicate order: the user still checks out explicitly.
func (o *OrderRepo) Reorder(ctx context.Context, orderId int64) (message string, err error) {
	var resp entities.OrderResponse
	err = o.client.doEnvelope(ctx, "POST", "/orders/"+strconv.FormatInt(orderId, 10)+"/reorder", nil, nil, &resp)
	if err != nil {
		return
	}
	message = resp.Message
	return
}
