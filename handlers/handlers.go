package handlers

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"eshopClient/entities"
	"eshopClient/models"
	"eshopClient/services"
)

type HandlerParams struct {
	Sessions *services.SessionService
	Products *services.ProductService
	Cart     *services.CartService
	Orders   *services.OrderService
	Admin    *services.AdminService
	In       io.Reader
	Out      io.Writer
}

// Handler is the terminal front of the store: it renders views, applies
// the route guards and forwards user actions to the services. It owns no
// domain state of its own.
type Handler struct {
	sessions *services.SessionService
	products *services.ProductService
	cart     *services.CartService
	orders   *services.OrderService
	admin    *services.AdminService
	in       *bufio.Scanner
	out      io.Writer
}

func NewHandler(params HandlerParams) (h Handler, err error) {
	if params.Sessions == nil || params.Products == nil || params.Cart == nil ||
		params.Orders == nil || params.Admin == nil || params.In == nil || params.Out == nil {
		err = errors.New("NewHandler: missing dependency")
		return
	}
	h = Handler{
		sessions: params.Sessions,
		products: params.Products,
		cart:     params.Cart,
		orders:   params.Orders,
		admin:    params.Admin,
		in:       bufio.NewScanner(params.In),
		out:      params.Out,
	}
	return
}

// Run drives the main menu until the user quits or input ends.
func (h *Handler) Run(ctx context.Context) error {
	for {
		h.header()
		fmt.Fprintln(h.out, "[1] Каталог  [2] Корзина  [3] Мои заказы  [4] Панель администратора")
		if h.sessions.Session().User == nil {
			fmt.Fprintln(h.out, "[5] Войти  [6] Регистрация  [0] Выход")
		} else {
			fmt.Fprintln(h.out, "[5] Выйти из аккаунта  [0] Выход")
		}
		choice, ok := h.prompt("> ")
		if !ok {
			return nil
		}
		switch choice {
		case "1":
			h.catalogView(ctx)
		case "2":
			h.openGuarded(ctx, h.cartView)
		case "3":
			h.openGuarded(ctx, h.ordersView)
		case "4":
			h.adminView(ctx)
		case "5":
			if h.sessions.Session().User == nil {
				h.loginView(ctx)
			} else if h.Confirm("Вы уверены, что хотите выйти из аккаунта?") {
				h.sessions.Logout()
				fmt.Fprintln(h.out, "Вы вышли из аккаунта")
			}
		case "6":
			if h.sessions.Session().User == nil {
				h.registerView(ctx)
			}
		case "0":
			return nil
		}
	}
}

func (h *Handler) header() {
	session := h.sessions.Session()
	fmt.Fprintln(h.out)
	fmt.Fprint(h.out, "=== Интернет-магазин ===")
	switch {
	case session.Loading:
		fmt.Fprint(h.out, "  (загрузка...)")
	case session.User != nil:
		fmt.Fprintf(h.out, "  %s", session.User.Username)
		if session.IsAdmin {
			fmt.Fprint(h.out, " [админ]")
		}
		fmt.Fprintf(h.out, "  корзина: %d", h.cart.ItemCount())
	default:
		fmt.Fprint(h.out, "  гость")
	}
	fmt.Fprintln(h.out)
}

// openGuarded applies the auth guard before opening a view. A redirect to
// login opens the login form and, after a successful sign in, the view
// the user originally asked for.
func (h *Handler) openGuarded(ctx context.Context, view func(context.Context)) {
	switch result := RequireAuth(h.sessions.Session()); result.Decision {
	case DecisionPending:
		fmt.Fprintln(h.out, "Загрузка...")
	case DecisionRedirect:
		fmt.Fprintln(h.out, "Войдите, чтобы продолжить")
		h.loginView(ctx)
		if h.sessions.Session().User != nil {
			view(ctx)
		}
	case DecisionAllow:
		view(ctx)
	}
}

func (h *Handler) loginView(ctx context.Context) {
	fmt.Fprintln(h.out, "--- Вход ---")
	fmt.Fprintln(h.out, "Демо-доступ: demo / Demo123!")
	remembered := h.sessions.RememberedUsername()
	label := "Имя пользователя: "
	if remembered != "" {
		label = fmt.Sprintf("Имя пользователя [%s]: ", remembered)
	}
	username, ok := h.prompt(label)
	if !ok {
		return
	}
	if username == "" {
		username = remembered
	}
	password, ok := h.prompt("Пароль: ")
	if !ok {
		return
	}
	if err := h.sessions.Login(ctx, username, password); err != nil {
		fmt.Fprintln(h.out, models.ServerMessage(err, "Неверное имя пользователя или пароль"))
		return
	}
	remember, _ := h.prompt("Запомнить имя пользователя? (y/n): ")
	h.sessions.RememberUsername(username, strings.EqualFold(remember, "y"))
	fmt.Fprintf(h.out, "Добро пожаловать, %s!\n", h.sessions.Session().User.Username)
	if err := h.cart.FetchCart(ctx); err != nil {
		fmt.Fprintln(h.out, models.ServerMessage(err, "Не удалось загрузить корзину"))
	}
}

func (h *Handler) registerView(ctx context.Context) {
	fmt.Fprintln(h.out, "--- Регистрация ---")
	var form services.RegistrationForm
	var ok bool
	if form.Username, ok = h.prompt("Имя пользователя: "); !ok {
		return
	}
	if form.Email, ok = h.prompt("Email: "); !ok {
		return
	}
	if form.Password, ok = h.prompt("Пароль: "); !ok {
		return
	}
	fmt.Fprintf(h.out, "Надежность пароля: %s\n", services.StrengthLabel(services.PasswordStrength(form.Password)))
	if form.ConfirmPassword, ok = h.prompt("Повторите пароль: "); !ok {
		return
	}
	agree, ok := h.prompt("Принимаете условия использования? (y/n): ")
	if !ok {
		return
	}
	form.AgreeTerms = strings.EqualFold(agree, "y")

	if errs := services.ValidateRegistration(form); !errs.Valid() {
		h.printFieldErrors(errs)
		return
	}
	message, err := h.sessions.Register(ctx, form.Username, strings.TrimSpace(form.Email), form.Password)
	if err != nil {
		fmt.Fprintln(h.out, models.ServerMessage(err, "Не удалось зарегистрироваться"))
		return
	}
	if message == "" {
		message = "Пользователь успешно зарегистрирован!"
	}
	fmt.Fprintln(h.out, message)
}

func (h *Handler) catalogView(ctx context.Context) {
	if err := h.products.FetchProducts(ctx); err != nil {
		fmt.Fprintln(h.out, models.ServerMessage(err, "Не удалось загрузить каталог"))
		return
	}
	h.products.FetchCategories(ctx)

	var filter services.CatalogFilter
	page := 1
	for {
		items := h.products.FilterProducts(filter)
		pageItems, totalPages := services.Paginate(items, page)
		fmt.Fprintf(h.out, "--- Каталог (%d товаров) ---\n", len(items))
		for _, product := range pageItems {
			category := ""
			if product.Category != nil {
				category = "  [" + product.Category.Name + "]"
			}
			fmt.Fprintf(h.out, "%4d  %-30s %10.2f ₽%s\n", product.Id, product.Name, product.Price, category)
		}
		if totalPages > 1 {
			first, last := services.PageWindow(page, totalPages)
			fmt.Fprintf(h.out, "Страница %d из %d (переход: страницы %d-%d)\n", page, totalPages, first, last)
		}
		fmt.Fprintln(h.out, "Команды: open <id>, add <id> <кол-во>, search <текст>, category <id>, sort <price-asc|price-desc|name-asc|name-desc>, price <мин> <макс>, page <n>, back")

		line, ok := h.prompt("каталог> ")
		if !ok || line == "back" {
			return
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case "open":
			if id, err := strconv.ParseInt(arg(fields, 1), 10, 64); err == nil {
				h.productView(ctx, id)
			}
		case "add":
			id, err := strconv.ParseInt(arg(fields, 1), 10, 64)
			if err != nil {
				continue
			}
			quantity, err := strconv.Atoi(arg(fields, 2))
			if err != nil || quantity < 1 {
				quantity = 1
			}
			h.addToCart(ctx, id, quantity)
		case "search":
			filter.SearchTerm = strings.Join(fields[1:], " ")
			page = 1
		case "category":
			filter.CategoryId, _ = strconv.ParseInt(arg(fields, 1), 10, 64)
			page = 1
		case "sort":
			filter.SortBy = arg(fields, 1)
		case "price":
			filter.MinPrice, _ = strconv.ParseFloat(arg(fields, 1), 64)
			filter.MaxPrice, _ = strconv.ParseFloat(arg(fields, 2), 64)
			page = 1
		case "page":
			if n, err := strconv.Atoi(arg(fields, 1)); err == nil && n >= 1 {
				page = n
			}
		}
	}
}

func (h *Handler) productView(ctx context.Context, productId int64) {
	product, exists, err := h.products.GetProduct(ctx, productId)
	if err != nil {
		fmt.Fprintln(h.out, models.ServerMessage(err, "Не удалось загрузить товар"))
		return
	}
	if !exists {
		fmt.Fprintln(h.out, "Товар не найден")
		return
	}
	fmt.Fprintf(h.out, "--- %s ---\n", product.Name)
	fmt.Fprintln(h.out, product.Description)
	fmt.Fprintf(h.out, "Цена: %.2f ₽\n", product.Price)
	if product.Category != nil {
		fmt.Fprintf(h.out, "Категория: %s\n", product.Category.Name)
	}
	quantity, ok := h.prompt("Количество для добавления в корзину (пусто - назад): ")
	if !ok || quantity == "" {
		return
	}
	n, err := strconv.Atoi(quantity)
	if err != nil || n < 1 {
		return
	}
	h.addToCart(ctx, productId, n)
}

func (h *Handler) addToCart(ctx context.Context, productId int64, quantity int) {
	if h.sessions.Session().User == nil {
		fmt.Fprintln(h.out, "Войдите, чтобы добавить товар в корзину")
		return
	}
	message, err := h.cart.AddToCart(ctx, productId, quantity)
	if err != nil {
		fmt.Fprintln(h.out, models.ServerMessage(err, "Не удалось добавить товар"))
		return
	}
	if message == "" {
		message = "Товар добавлен в корзину"
	}
	fmt.Fprintln(h.out, message)
}

func (h *Handler) cartView(ctx context.Context) {
	if err := h.cart.FetchCart(ctx); err != nil {
		fmt.Fprintln(h.out, models.ServerMessage(err, "Не удалось загрузить корзину"))
		return
	}
	for {
		cart := h.cart.Cart()
		fmt.Fprintln(h.out, "--- Корзина ---")
		if len(cart.CartItems) == 0 {
			fmt.Fprintln(h.out, "Корзина пуста")
		}
		for _, item := range cart.CartItems {
			fmt.Fprintf(h.out, "%4d  %-30s %3d x %.2f ₽ = %.2f ₽\n",
				item.Product.Id, item.Product.Name, item.Quantity,
				item.Product.Price, item.Product.Price*float64(item.Quantity))
		}
		fmt.Fprintf(h.out, "Итого: %.2f ₽ (%d шт.)\n", h.cart.Subtotal(), h.cart.ItemCount())
		fmt.Fprintln(h.out, "Команды: qty <id> <кол-во>, del <id>, checkout, back")

		line, ok := h.prompt("корзина> ")
		if !ok || line == "back" {
			return
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case "qty":
			id, err := strconv.ParseInt(arg(fields, 1), 10, 64)
			if err != nil {
				continue
			}
			quantity, err := strconv.Atoi(arg(fields, 2))
			if err != nil {
				continue
			}
			if err := h.cart.UpdateQuantity(ctx, id, quantity); err != nil {
				fmt.Fprintln(h.out, models.ServerMessage(err, "Не удалось изменить количество"))
			}
		case "del":
			if id, err := strconv.ParseInt(arg(fields, 1), 10, 64); err == nil {
				if err := h.cart.RemoveFromCart(ctx, id); err != nil {
					fmt.Fprintln(h.out, models.ServerMessage(err, "Не удалось удалить товар"))
				}
			}
		case "checkout":
			h.checkoutView(ctx)
		}
	}
}

func (h *Handler) checkoutView(ctx context.Context) {
	ok, message := h.cart.BeginCheckout()
	if !ok {
		fmt.Fprintln(h.out, message)
		return
	}
	defer func() {
		if h.cart.State() != services.CheckoutIdle {
			h.cart.CancelCheckout()
		}
	}()

	draft := h.cart.Draft()
	for {
		fmt.Fprintln(h.out, "--- Оформление заказа ---")
		if draft.ShippingAddress, ok = h.promptDefault("Адрес доставки", draft.ShippingAddress); !ok {
			return
		}
		if draft.RecipientName, ok = h.promptDefault("Имя получателя", draft.RecipientName); !ok {
			return
		}
		if draft.RecipientPhone, ok = h.promptDefault("Телефон получателя", draft.RecipientPhone); !ok {
			return
		}
		method, ok := h.promptDefault("Доставка (STANDARD/EXPRESS/PICKUP)", draft.ShippingMethod)
		if !ok {
			return
		}
		draft.ShippingMethod = strings.ToUpper(method)
		if draft.DeliveryNotes, ok = h.promptDefault("Комментарий к заказу", draft.DeliveryNotes); !ok {
			return
		}

		fmt.Fprintf(h.out, "Товары: %.2f ₽  Доставка: %.2f ₽  К оплате: %.2f ₽\n",
			h.cart.Subtotal(), services.ShippingCost(draft.ShippingMethod), h.cart.Total())
		confirm, ok := h.prompt("Подтвердить заказ? (y/n): ")
		if !ok || !strings.EqualFold(confirm, "y") {
			return
		}

		message, err := h.cart.ConfirmCheckout(ctx)
		if err != nil {
			if errs := h.cart.ValidationErrors(); !errs.Valid() {
				h.printFieldErrors(errs)
				continue
			}
			fmt.Fprintln(h.out, models.ServerMessage(err, "Не удалось оформить заказ"))
			continue
		}
		if message == "" {
			message = "Заказ успешно оформлен!"
		}
		fmt.Fprintln(h.out, message)
		return
	}
}

func (h *Handler) ordersView(ctx context.Context) {
	if err := h.orders.FetchOrders(ctx); err != nil {
		fmt.Fprintln(h.out, models.ServerMessage(err, "Не удалось загрузить заказы"))
		return
	}
	var filter services.OrderFilter
	for {
		orders := h.orders.FilterOrders(filter)
		fmt.Fprintf(h.out, "--- Мои заказы (%d) ---\n", len(orders))
		for _, order := range orders {
			h.printOrderLine(order)
		}
		fmt.Fprintln(h.out, "Команды: open <id>, reorder <id>, status <статус|*>, from <ГГГГ-ММ-ДД|*>, to <ГГГГ-ММ-ДД|*>, back")

		line, ok := h.prompt("заказы> ")
		if !ok || line == "back" {
			return
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case "open":
			if id, err := strconv.ParseInt(arg(fields, 1), 10, 64); err == nil {
				h.printOrderDetails(orders, id)
			}
		case "reorder":
			id, err := strconv.ParseInt(arg(fields, 1), 10, 64)
			if err != nil {
				continue
			}
			message, err := h.orders.Reorder(ctx, id)
			if err != nil {
				fmt.Fprintln(h.out, models.ServerMessage(err, "Не удалось повторить заказ"))
				continue
			}
			if message == "" {
				message = "Товары добавлены в корзину"
			}
			fmt.Fprintln(h.out, message)
			if err := h.cart.FetchCart(ctx); err != nil {
				fmt.Fprintln(h.out, models.ServerMessage(err, "Не удалось загрузить корзину"))
			}
		case "status":
			filter.Status = filterArg(arg(fields, 1))
		case "from":
			filter.StartDate = parseFilterDate(arg(fields, 1), false)
		case "to":
			filter.EndDate = parseFilterDate(arg(fields, 1), true)
		}
	}
}

func (h *Handler) printOrderLine(order entities.Order) {
	fmt.Fprintf(h.out, "%4d  %s  %-14s %10.2f ₽\n",
		order.Id, order.OrderDate.Format("02.01.2006"),
		services.StatusText(order.Status), order.TotalPrice)
}

func (h *Handler) printOrderDetails(orders []entities.Order, orderId int64) {
	for _, order := range orders {
		if order.Id != orderId {
			continue
		}
		fmt.Fprintf(h.out, "--- Заказ #%d ---\n", order.Id)
		fmt.Fprintf(h.out, "Статус: %s\n", services.StatusText(order.Status))
		for _, item := range order.OrderItems {
			name := "(товар удален)"
			if item.Product != nil {
				name = item.Product.Name
			}
			fmt.Fprintf(h.out, "  %-30s %3d x %.2f ₽\n", name, item.Quantity, item.Price)
		}
		fmt.Fprintf(h.out, "Доставка: %s, %.2f ₽\n", services.ShippingMethodText(order.ShippingMethod), order.ShippingCost)
		fmt.Fprintf(h.out, "Адрес: %s\n", order.ShippingAddress)
		fmt.Fprintf(h.out, "Получатель: %s, %s\n", order.RecipientName, order.RecipientPhone)
		if order.DeliveryNotes != "" {
			fmt.Fprintf(h.out, "Комментарий: %s\n", order.DeliveryNotes)
		}
		fmt.Fprintf(h.out, "Итого: %.2f ₽\n", order.TotalPrice)
		return
	}
	fmt.Fprintln(h.out, "Заказ не найден")
}

func (h *Handler) printFieldErrors(errs models.ValidationErrors) {
	for field, message := range errs {
		fmt.Fprintf(h.out, "%s: %s\n", field, message)
	}
}

// Confirm implements services.Confirmer on top of the prompt loop, so
// destructive actions ask on the same terminal they were typed on.
func (h *Handler) Confirm(prompt string) bool {
	answer, ok := h.prompt(prompt + " (y/n): ")
	return ok && strings.EqualFold(answer, "y")
}

func (h *Handler) prompt(label string) (string, bool) {
	fmt.Fprint(h.out, label)
	if !h.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(h.in.Text()), true
}

// promptDefault keeps the previous value when the user enters nothing,
// so a validation retry does not mean retyping the whole form.
func (h *Handler) promptDefault(label, current string) (string, bool) {
	text := label + ": "
	if current != "" {
		text = fmt.Sprintf("%s [%s]: ", label, current)
	}
	value, ok := h.prompt(text)
	if !ok {
		return current, false
	}
	if value == "" {
		return current, true
	}
	return value, true
}

func arg(fields []string, i int) string {
	if i < len(fields) {
		return fields[i]
	}
	return ""
}

func filterArg(value string) string {
	if value == "*" {
		return ""
	}
	return value
}

// parseFilterDate reads a day-granular bound. The end bound covers the
// whole named day.
func parseFilterDate(value string, endOfDay bool) *time.Time {
	if value == "" || value == "*" {
		return nil
	}
	date, err := time.Parse("2006-01-02", value)
	if err != nil {
		return nil
	}
	if endOfDay {
		date = date.Add(24*time.Hour - time.Nanosecond)
	}
	return &date
}
