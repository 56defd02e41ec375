package services

import (
	"context"
	"log"
	"strconv"
	"strings"
	"time"

	"eshopClient/entities"
	"eshopClient/models"
	"eshopClient/repository"
)

// AdminOrderFilter narrows the fetched admin order list. Search matches
// the order id or the customer username, case insensitive. Date bounds
// are inclusive.
type AdminOrderFilter struct {
	Status    string
	Search    string
	StartDate *time.Time
	EndDate   *time.Time
}

// AdminService drives the management panel: dashboard counters, the full
// order list, product maintenance and user role assignment. Any status
// can be set on any order; the lifecycle is not enforced on this side.
type AdminService struct {
	adm     repository.AdminRepository
	confirm Confirmer

	stats  entities.DashboardStats
	orders []entities.Order
	users  []entities.User
}

func NewAdminService(adminRepo repository.AdminRepository, confirm Confirmer) AdminService {
	return AdminService{adm: adminRepo, confirm: confirm}
}

func (as *AdminService) Stats() entities.DashboardStats {
	return as.stats
}

func (as *AdminService) Orders() []entities.Order {
	return as.orders
}

func (as *AdminService) Users() []entities.User {
	return as.users
}

func (as *AdminService) FetchDashboard(ctx context.Context) (err error) {
	stats, err := as.adm.GetDashboardStats(ctx)
	if err != nil {
		log.Printf("FetchDashboard: %v", err)
		return
	}
	as.stats = stats
	return
}

func (as *AdminService) FetchOrders(ctx context.Context) (err error) {
	orders, err := as.adm.GetOrders(ctx)
	if err != nil {
		log.Printf("FetchOrders: %v", err)
		return
	}
	as.orders = orders
	return
}

func (as *AdminService) GetOrder(ctx context.Context, orderId int64) (order entities.Order, exists bool, err error) {
	order, exists, err = as.adm.GetOrderById(ctx, orderId)
	if err != nil {
		log.Printf("GetOrder: %v", err)
	}
	return
}

func (as *AdminService) FilterOrders(filter AdminOrderFilter) []entities.Order {
	search := strings.ToLower(strings.TrimSpace(filter.Search))
	var filtered []entities.Order
	for _, order := range as.orders {
		if filter.Status != "" && order.Status != filter.Status {
			continue
		}
		if search != "" && !orderMatches(order, search) {
			continue
		}
		if !inDateRange(order.OrderDate.Time, filter.StartDate, filter.EndDate) {
			continue
		}
		filtered = append(filtered, order)
	}
	return filtered
}

func orderMatches(order entities.Order, search string) bool {
	if strings.Contains(strconv.FormatInt(order.Id, 10), search) {
		return true
	}
	if order.User != nil && strings.Contains(strings.ToLower(order.User.Username), search) {
		return true
	}
	return false
}

// SetOrderStatus moves an order to any of the known statuses and, on
// success, refetches the order list so the table reflects what the
// server actually stored.
func (as *AdminService) SetOrderStatus(ctx context.Context, orderId int64, status string) (message string, err error) {
	if !validStatus(status) {
		err = models.NewAPIError(models.ErrBadRequest, "Неизвестный статус заказа")
		return
	}
	message, err = as.adm.SetOrderStatus(ctx, orderId, status)
	if err != nil {
		log.Printf("SetOrderStatus: %v", err)
		return
	}
	if refreshErr := as.FetchOrders(ctx); refreshErr != nil {
		log.Printf("SetOrderStatus: %v", refreshErr)
	}
	return
}

// CompleteOrder is the one-click shorthand for setting COMPLETED.
func (as *AdminService) CompleteOrder(ctx context.Context, orderId int64) (message string, err error) {
	return as.SetOrderStatus(ctx, orderId, entities.StatusCompleted)
}

func (as *AdminService) UpdateDeliveryInfo(ctx context.Context, orderId int64, info entities.DeliveryInfo) (message string, err error) {
	message, err = as.adm.UpdateOrderDeliveryInfo(ctx, orderId, info)
	if err != nil {
		log.Printf("UpdateDeliveryInfo: %v", err)
		return
	}
	if refreshErr := as.FetchOrders(ctx); refreshErr != nil {
		log.Printf("UpdateDeliveryInfo: %v", refreshErr)
	}
	return
}

func (as *AdminService) DeleteOrder(ctx context.Context, orderId int64) (message string, err error) {
	if !as.confirm.Confirm("Вы уверены, что хотите удалить этот заказ?") {
		return
	}
	message, err = as.adm.DeleteOrder(ctx, orderId)
	if err != nil {
		log.Printf("DeleteOrder: %v", err)
		return
	}
	if refreshErr := as.FetchOrders(ctx); refreshErr != nil {
		log.Printf("DeleteOrder: %v", refreshErr)
	}
	return
}

// CreateProduct does only presence checks before sending; price and
// category plausibility is the server's call.
func (as *AdminService) CreateProduct(ctx context.Context, form models.ProductForm) (message string, err error) {
	if err = validateProductForm(form); err != nil {
		return
	}
	message, err = as.adm.CreateProduct(ctx, form)
	if err != nil {
		log.Printf("CreateProduct: %v", err)
	}
	return
}

func (as *AdminService) UpdateProduct(ctx context.Context, productId int64, form models.ProductForm) (message string, err error) {
	if err = validateProductForm(form); err != nil {
		return
	}
	message, err = as.adm.UpdateProduct(ctx, productId, form)
	if err != nil {
		log.Printf("UpdateProduct: %v", err)
	}
	return
}

func (as *AdminService) DeleteProduct(ctx context.Context, productId int64) (message string, err error) {
	if !as.confirm.Confirm("Вы уверены, что хотите удалить этот товар?") {
		return
	}
	message, err = as.adm.DeleteProduct(ctx, productId)
	if err != nil {
		log.Printf("DeleteProduct: %v", err)
	}
	return
}

func (as *AdminService) FetchUsers(ctx context.Context) (err error) {
	users, err := as.adm.GetUsers(ctx)
	if err != nil {
		log.Printf("FetchUsers: %v", err)
		return
	}
	as.users = users
	return
}

// SetUserRole assigns the single role of an account. Accepts both the
// short and the prefixed spelling and sends the canonical wire value.
func (as *AdminService) SetUserRole(ctx context.Context, userId int64, role string) (message string, err error) {
	wire, ok := wireRole(role)
	if !ok {
		err = models.NewAPIError(models.ErrBadRequest, "Неизвестная роль")
		return
	}
	message, err = as.adm.SetUserRole(ctx, userId, wire)
	if err != nil {
		log.Printf("SetUserRole: %v", err)
		return
	}
	if refreshErr := as.FetchUsers(ctx); refreshErr != nil {
		log.Printf("SetUserRole: %v", refreshErr)
	}
	return
}

func validateProductForm(form models.ProductForm) error {
	if strings.TrimSpace(form.Name) == "" ||
		strings.TrimSpace(form.Description) == "" ||
		form.Price < 0 || form.CategoryId == 0 {
		return models.NewAPIError(models.ErrBadRequest, "Заполните все поля товара")
	}
	return nil
}

func validStatus(status string) bool {
	for _, known := range entities.OrderStatuses {
		if status == known {
			return true
		}
	}
	return false
}

func wireRole(role string) (string, bool) {
	switch NormalizeRole(role) {
	case RoleAdmin:
		return rolePrefix + RoleAdmin, true
	case RoleUser:
		return rolePrefix + RoleUser, true
	default:
		return "", false
	}
}

// DisplayRole collapses an account's role set to the single value the
// role selector shows. Higher privilege wins; an account with no known
// role displays as a regular user.
func DisplayRole(roles []entities.Role) string {
	best := rolePrefix + RoleUser
	bestRank := 0
	for _, role := range roles {
		if rank := roleRank(role.Name); rank > bestRank {
			best = role.Name
			bestRank = rank
		}
	}
	return best
}

func roleRank(name string) int {
	switch name {
	case rolePrefix + RoleAdmin:
		return 2
	case rolePrefix + RoleUser:
		return 1
	default:
		return 0
	}
}
