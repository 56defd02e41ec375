package handlers

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"eshopClient/entities"
	"eshopClient/models"
	"eshopClient/services"
)

// adminView applies the admin guard and opens the management panel.
func (h *Handler) adminView(ctx context.Context) {
	switch result := RequireAdmin(h.sessions.Session()); result.Decision {
	case DecisionPending:
		fmt.Fprintln(h.out, "Загрузка...")
		return
	case DecisionRedirect:
		if result.Target == ViewLogin {
			fmt.Fprintln(h.out, "Войдите, чтобы продолжить")
			h.loginView(ctx)
			h.adminView(ctx)
			return
		}
		fmt.Fprintln(h.out, "Доступ только для администраторов")
		return
	}

	for {
		fmt.Fprintln(h.out, "--- Панель администратора ---")
		fmt.Fprintln(h.out, "[1] Статистика  [2] Заказы  [3] Товары  [4] Пользователи  [0] Назад")
		choice, ok := h.prompt("админ> ")
		if !ok {
			return
		}
		switch choice {
		case "1":
			h.adminDashboard(ctx)
		case "2":
			h.adminOrders(ctx)
		case "3":
			h.adminProducts(ctx)
		case "4":
			h.adminUsers(ctx)
		case "0":
			return
		}
	}
}

func (h *Handler) adminDashboard(ctx context.Context) {
	if err := h.admin.FetchDashboard(ctx); err != nil {
		fmt.Fprintln(h.out, models.ServerMessage(err, "Не удалось загрузить статистику"))
		return
	}
	stats := h.admin.Stats()
	fmt.Fprintf(h.out, "Пользователей: %d  Заказов: %d  Товаров: %d\n",
		stats.TotalUsers, stats.TotalOrders, stats.TotalProducts)
}

func (h *Handler) adminOrders(ctx context.Context) {
	if err := h.admin.FetchOrders(ctx); err != nil {
		fmt.Fprintln(h.out, models.ServerMessage(err, "Не удалось загрузить заказы"))
		return
	}
	var filter services.AdminOrderFilter
	for {
		orders := h.admin.FilterOrders(filter)
		fmt.Fprintf(h.out, "--- Заказы (%d) ---\n", len(orders))
		for _, order := range orders {
			username := ""
			if order.User != nil {
				username = order.User.Username
			}
			fmt.Fprintf(h.out, "%4d  %s  %-14s %-16s %10.2f ₽\n",
				order.Id, order.OrderDate.Format("02.01.2006"),
				services.StatusText(order.Status), username, order.TotalPrice)
		}
		fmt.Fprintln(h.out, "Команды: status <id> <статус>, complete <id>, delivery <id>, delete <id>, find <текст|*>, filter <статус|*>, from <ГГГГ-ММ-ДД|*>, to <ГГГГ-ММ-ДД|*>, back")

		line, ok := h.prompt("заказы> ")
		if !ok || line == "back" {
			return
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case "status":
			id, err := strconv.ParseInt(arg(fields, 1), 10, 64)
			if err != nil {
				continue
			}
			h.reportAdmin(h.admin.SetOrderStatus(ctx, id, strings.ToUpper(arg(fields, 2))))
		case "complete":
			if id, err := strconv.ParseInt(arg(fields, 1), 10, 64); err == nil {
				h.reportAdmin(h.admin.CompleteOrder(ctx, id))
			}
		case "delivery":
			if id, err := strconv.ParseInt(arg(fields, 1), 10, 64); err == nil {
				h.adminDeliveryInfo(ctx, id)
			}
		case "delete":
			if id, err := strconv.ParseInt(arg(fields, 1), 10, 64); err == nil {
				h.reportAdmin(h.admin.DeleteOrder(ctx, id))
			}
		case "find":
			filter.Search = filterArg(strings.Join(fields[1:], " "))
		case "filter":
			filter.Status = filterArg(strings.ToUpper(arg(fields, 1)))
		case "from":
			filter.StartDate = parseFilterDate(arg(fields, 1), false)
		case "to":
			filter.EndDate = parseFilterDate(arg(fields, 1), true)
		}
	}
}

func (h *Handler) adminDeliveryInfo(ctx context.Context, orderId int64) {
	order, exists, err := h.admin.GetOrder(ctx, orderId)
	if err != nil {
		fmt.Fprintln(h.out, models.ServerMessage(err, "Не удалось загрузить заказ"))
		return
	}
	if !exists {
		fmt.Fprintln(h.out, "Заказ не найден")
		return
	}
	info := entities.DeliveryInfo{
		ShippingAddress: order.ShippingAddress,
		RecipientName:   order.RecipientName,
		RecipientPhone:  order.RecipientPhone,
		DeliveryNotes:   order.DeliveryNotes,
		ShippingMethod:  order.ShippingMethod,
	}
	var ok bool
	if info.ShippingAddress, ok = h.promptDefault("Адрес доставки", info.ShippingAddress); !ok {
		return
	}
	if info.RecipientName, ok = h.promptDefault("Имя получателя", info.RecipientName); !ok {
		return
	}
	if info.RecipientPhone, ok = h.promptDefault("Телефон получателя", info.RecipientPhone); !ok {
		return
	}
	method, ok := h.promptDefault("Доставка (STANDARD/EXPRESS/PICKUP)", info.ShippingMethod)
	if !ok {
		return
	}
	info.ShippingMethod = strings.ToUpper(method)
	if info.DeliveryNotes, ok = h.promptDefault("Комментарий", info.DeliveryNotes); !ok {
		return
	}
	h.reportAdmin(h.admin.UpdateDeliveryInfo(ctx, orderId, info))
}

func (h *Handler) adminProducts(ctx context.Context) {
	if err := h.products.FetchProducts(ctx); err != nil {
		fmt.Fprintln(h.out, models.ServerMessage(err, "Не удалось загрузить товары"))
		return
	}
	h.products.FetchCategories(ctx)
	for {
		fmt.Fprintf(h.out, "--- Товары (%d) ---\n", len(h.products.Products()))
		for _, product := range h.products.Products() {
			fmt.Fprintf(h.out, "%4d  %-30s %10.2f ₽\n", product.Id, product.Name, product.Price)
		}
		fmt.Fprintln(h.out, "Команды: new, edit <id>, delete <id>, back")

		line, ok := h.prompt("товары> ")
		if !ok || line == "back" {
			return
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		refetch := false
		switch fields[0] {
		case "new":
			form, ok := h.productForm(models.ProductForm{})
			if !ok {
				continue
			}
			h.reportAdmin(h.admin.CreateProduct(ctx, form))
			refetch = true
		case "edit":
			id, err := strconv.ParseInt(arg(fields, 1), 10, 64)
			if err != nil {
				continue
			}
			product, exists, err := h.products.GetProduct(ctx, id)
			if err != nil || !exists {
				fmt.Fprintln(h.out, "Товар не найден")
				continue
			}
			current := models.ProductForm{
				Name:        product.Name,
				Description: product.Description,
				Price:       product.Price,
			}
			if product.Category != nil {
				current.CategoryId = product.Category.Id
			}
			form, ok := h.productForm(current)
			if !ok {
				continue
			}
			h.reportAdmin(h.admin.UpdateProduct(ctx, id, form))
			refetch = true
		case "delete":
			if id, err := strconv.ParseInt(arg(fields, 1), 10, 64); err == nil {
				h.reportAdmin(h.admin.DeleteProduct(ctx, id))
				refetch = true
			}
		}
		if refetch {
			if err := h.products.FetchProducts(ctx); err != nil {
				fmt.Fprintln(h.out, models.ServerMessage(err, "Не удалось загрузить товары"))
			}
		}
	}
}

func (h *Handler) productForm(current models.ProductForm) (form models.ProductForm, ok bool) {
	form = current
	if form.Name, ok = h.promptDefault("Название", form.Name); !ok {
		return
	}
	if form.Description, ok = h.promptDefault("Описание", form.Description); !ok {
		return
	}
	price, ok := h.promptDefault("Цена", strconv.FormatFloat(form.Price, 'f', -1, 64))
	if !ok {
		return
	}
	form.Price, _ = strconv.ParseFloat(price, 64)
	for _, category := range h.products.Categories() {
		fmt.Fprintf(h.out, "  [%d] %s\n", category.Id, category.Name)
	}
	categoryId, ok := h.promptDefault("Категория", strconv.FormatInt(form.CategoryId, 10))
	if !ok {
		return
	}
	form.CategoryId, _ = strconv.ParseInt(categoryId, 10, 64)
	return form, true
}

func (h *Handler) adminUsers(ctx context.Context) {
	if err := h.admin.FetchUsers(ctx); err != nil {
		fmt.Fprintln(h.out, models.ServerMessage(err, "Не удалось загрузить пользователей"))
		return
	}
	for {
		fmt.Fprintf(h.out, "--- Пользователи (%d) ---\n", len(h.admin.Users()))
		for _, user := range h.admin.Users() {
			fmt.Fprintf(h.out, "%4d  %-20s %-30s %s\n",
				user.Id, user.Username, user.Email, services.DisplayRole(user.Roles))
		}
		fmt.Fprintln(h.out, "Команды: role <id> <USER|ADMIN>, back")

		line, ok := h.prompt("пользователи> ")
		if !ok || line == "back" {
			return
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		if fields[0] == "role" {
			id, err := strconv.ParseInt(arg(fields, 1), 10, 64)
			if err != nil {
				continue
			}
			h.reportAdmin(h.admin.SetUserRole(ctx, id, arg(fields, 2)))
		}
	}
}

func (h *Handler) reportAdmin(message string, err error) {
	if err != nil {
		fmt.Fprintln(h.out, models.ServerMessage(err, "Операция не выполнена"))
		return
	}
	if message == "" {
		message = "Готово"
	}
	fmt.Fprintln(h.out, message)
}
