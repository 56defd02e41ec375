package repository

import (
	"context"
	"errors"
	"net/url"
	"strconv"

	"eshopClient/entities"
	"eshopClient/models"
)

type AdminRepository interface {
	GetDashboardStats(ctx context.Context) (entities.DashboardStats, error)
	GetOrders(ctx context.Context) ([]entities.Order, error)
	GetOrderById(ctx context.Context, id int64) (entities.Order, bool, error)
	SetOrderStatus(ctx context.Context, id int64, status string) (string, error)
	UpdateOrderDeliveryInfo(ctx context.Context, id int64, info entities.DeliveryInfo) (string, error)
	DeleteOrder(ctx context.Context, id int64) (string, error)
	CreateProduct(ctx context.Context, form models.ProductForm) (string, error)
	UpdateProduct(ctx context.Context, id int64, form models.ProductForm) (string, error)
	DeleteProduct(ctx context.Context, id int64) (string, error)
	GetUsers(ctx context.Context) ([]entities.User, error)
	SetUserRole(ctx context.Context, userId int64, role string) (string, error)
}

type AdminRepo struct {
	client *Client
}

func NewAdminRepository(client *Client) (AdminRepository, error) {
	if client == nil {
		return nil, errors.New("client must be non-nil")
	}
	return &AdminRepo{client: client}, nil
}

func (a *AdminRepo) GetDashboardStats(ctx context.Context) (stats entities.DashboardStats, err error) {
	var resp entities.StatsResponse
	err = a.client.doEnvelope(ctx, "GET", "/admin/dashboard", nil, nil, &resp)
	if err != nil {
		return
	}
	if resp.Stats != nil {
		stats = *resp.Stats
	}
	return
}

func (a *AdminRepo) GetOrders(ctx context.Context) (orders []entities.Order, err error) {
	var resp entities.OrdersResponse
	err = a.client.doEnvelope(ctx, "GET", "/admin/orders", nil, nil, &resp)
	if err != nil {
		return
	}
	orders = resp.Orders
	return
}

func (a *AdminRepo) GetOrderById(ctx context.Context, id int64) (order entities.Order, exists bool, err error) {
	var resp entities.OrderResponse
	err = a.client.doEnvelope(ctx, "GET", "/admin/orders/"+strconv.FormatInt(id, 10), nil, nil, &resp)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			err = nil
		}
		return
	}
	if resp.Order == nil {
		return
	}
	order = *resp.Order
	exists = true
	return
}

func (a *AdminRepo) SetOrderStatus(ctx context.Context, id int64, status string) (message string, err error) {
	query := url.Values{}
	query.Set("status", status)
	var resp entities.OrderResponse
	err = a.client.doEnvelope(ctx, "PUT", "/admin/orders/"+strconv.FormatInt(id, 10)+"/status", query, nil, &resp)
	if err != nil {
		return
	}
	message = resp.Message
	return
}

// UpdateOrderDeliveryInfo replaces the delivery fields on an existing
// order. Status and items are untouched.
func (a *AdminRepo) UpdateOrderDeliveryInfo(ctx context.Context, id int64, info entities.DeliveryInfo) (message string, err error) {
	var resp entities.OrderResponse
	err = a.client.doEnvelope(ctx, "PUT", "/admin/orders/"+strconv.FormatInt(id, 10)+"/delivery-info", nil, info, &resp)
	if err != nil {
		return
	}
	message = resp.Message
	return
}

func (a *AdminRepo) DeleteOrder(ctx context.Context, id int64) (message string, err error) {
	var resp entities.OrderResponse
	err = a.client.doEnvelope(ctx, "DELETE", "/admin/orders/"+strconv.FormatInt(id, 10), nil, nil, &resp)
	if err != nil {
		return
	}
	message = resp.Message
	return
}

func productQuery(form models.ProductForm) url.Values {
	query := url.Values{}
	query.Set("name", form.Name)
	query.Set("description", form.Description)
	query.Set("price", strconv.FormatFloat(form.Price, 'f', -1, 64))
	query.Set("categoryId", strconv.FormatInt(form.CategoryId, 10))
	return query
}

func (a *AdminRepo) CreateProduct(ctx context.Context, form models.ProductForm) (message string, err error) {
	var resp entities.ProductResponse
	err = a.client.doEnvelope(ctx, "POST", "/admin/products", productQuery(form), nil, &resp)
	if err != nil {
		return
	}
	message = resp.Message
	return
}

func (a *AdminRepo) UpdateProduct(ctx context.Context, id int64, form models.ProductForm) (message string, err error) {
	var resp entities.ProductResponse
	err = a.client.doEnvelope(ctx, "PUT", "/admin/products/"+strconv.FormatInt(id, 10), productQuery(form), nil, &resp)
	if err != nil {
		return
	}
	message = resp.Message
	return
}

func (a *AdminRepo) DeleteProduct(ctx context.Context, id int64) (message string, err error) {
	var resp entities.ProductResponse
	err = a.client.doEnvelope(ctx, "DELETE", "/admin/products/"+strconv.FormatInt(id, 10), nil, nil, &resp)
	if err != nil {
		return
	}
	message = resp.Message
	return
}

func (a *AdminRepo) GetUsers(ctx context.Context) (users []entities.User, err error) {
	var resp entities.UsersResponse
	err = a.client.doEnvelope(ctx, "GET", "/admin/users", nil, nil, &resp)
	if err != nil {
		return
	}
	users = resp.Users
	return
}

func (a *AdminRepo) SetUserRole(ctx context.Context, userId int64, role string) (message string, err error) {
	query := url.Values{}
	query.Set("role", role)
	var resp entities.UserResponse
	err = a.client.doEnvelope(ctx, "PUT", "/admin/users/"+strconv.FormatInt(userId, 10)+"/role", query, nil, &resp)
	if err != nil {
		return
	}
	message = resp.Message
	return
}
