package stubapi

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"eshopClient/entities"
	"eshopClient/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/mux"
)

type account struct {
	id       int64
	username string
	email    string
	password string
	roles    []string
}

// Server is an in-memory stand-in for the store backend. It speaks the
// same REST contract, envelope shapes and messages, so the client can run
// against it in tests and in demo mode without a real backend.
type Server struct {
	mu sync.Mutex

	secret     []byte
	accounts   map[string]*account
	carts      map[string]*entities.Cart
	orders     []*entities.Order
	products   map[int64]*entities.Product
	categories []entities.Category

	nextUserId    int64
	nextProductId int64
	nextOrderId   int64
	nextCartId    int64
}

func New() *Server {
	s := &Server{
		secret:   []byte("stub-signing-secret"),
		accounts: map[string]*account{},
		carts:    map[string]*entities.Cart{},
		products: map[int64]*entities.Product{},
	}
	s.seed()
	return s
}

func (s *Server) seed() {
	s.categories = []entities.Category{
		{Id: 1, Name: "Электроника"},
		{Id: 2, Name: "Книги"},
		{Id: 3, Name: "Игрушки"},
	}
	catalog := []entities.Product{
		{Name: "Беспроводные наушники", Description: "Bluetooth 5.3, 30 часов работы", Price: 4990, Category: &s.categories[0]},
		{Name: "Электронная книга", Description: "Экран 6 дюймов, подсветка", Price: 8990, Category: &s.categories[0]},
		{Name: "Роман «Мастер и Маргарита»", Description: "Твердый переплет", Price: 650, Category: &s.categories[1]},
		{Name: "Сборник рассказов Чехова", Description: "Мягкая обложка", Price: 420, Category: &s.categories[1]},
		{Name: "Конструктор «Замок»", Description: "520 деталей", Price: 2790, Category: &s.categories[2]},
		{Name: "Плюшевый медведь", Description: "Высота 40 см", Price: 1190, Category: &s.categories[2]},
	}
	for i := range catalog {
		s.nextProductId++
		catalog[i].Id = s.nextProductId
		s.products[catalog[i].Id] = &catalog[i]
	}
	s.addAccount("demo", "demo@example.com", "Demo123!", []string{"ROLE_USER"})
	s.addAccount("admin", "admin@example.com", "Admin123!", []string{"ROLE_USER", "ROLE_ADMIN"})
}

func (s *Server) addAccount(username, email, password string, roles []string) *account {
	s.nextUserId++
	acct := &account{
		id:       s.nextUserId,
		username: username,
		email:    email,
		password: password,
		roles:    roles,
	}
	s.accounts[username] = acct
	return acct
}

// Handler returns the router with the full /api surface mounted.
func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	api := r.PathPrefix("/api").Subrouter()

	api.HandleFunc("/auth/signup", s.signup).Methods(http.MethodPost)
	api.HandleFunc("/auth/signin", s.signin).Methods(http.MethodPost)
	api.Handle("/auth/profile", s.auth(s.profile)).Methods(http.MethodGet)

	api.HandleFunc("/products", s.listProducts).Methods(http.MethodGet)
	api.HandleFunc("/products/categories", s.listCategories).Methods(http.MethodGet)
	api.HandleFunc("/products/search", s.searchProducts).Methods(http.MethodGet)
	api.HandleFunc("/products/category/{id:[0-9]+}", s.productsByCategory).Methods(http.MethodGet)
	api.HandleFunc("/products/{id:[0-9]+}", s.getProduct).Methods(http.MethodGet)

	api.Handle("/cart", s.auth(s.getCart)).Methods(http.MethodGet)
	api.Handle("/cart/add", s.auth(s.addToCart)).Methods(http.MethodPost)
	api.Handle("/cart/update", s.auth(s.updateCart)).Methods(http.MethodPut)
	api.Handle("/cart/remove", s.auth(s.removeFromCart)).Methods(http.MethodDelete)

	api.Handle("/orders", s.auth(s.createOrder)).Methods(http.MethodPost)
	api.Handle("/orders", s.auth(s.listOrders)).Methods(http.MethodGet)
	api.Handle("/orders/{id:[0-9]+}/reorder", s.auth(s.reorder)).Methods(http.MethodPost)

	api.Handle("/admin/dashboard", s.admin(s.dashboard)).Methods(http.MethodGet)
	api.Handle("/admin/orders", s.admin(s.adminListOrders)).Methods(http.MethodGet)
	api.Handle("/admin/orders/{id:[0-9]+}", s.admin(s.adminGetOrder)).Methods(http.MethodGet)
	api.Handle("/admin/orders/{id:[0-9]+}/status", s.admin(s.adminSetStatus)).Methods(http.MethodPut)
	api.Handle("/admin/orders/{id:[0-9]+}/delivery-info", s.admin(s.adminSetDelivery)).Methods(http.MethodPut)
	api.Handle("/admin/orders/{id:[0-9]+}", s.admin(s.adminDeleteOrder)).Methods(http.MethodDelete)
	api.Handle("/admin/products", s.admin(s.adminCreateProduct)).Methods(http.MethodPost)
	api.Handle("/admin/products/{id:[0-9]+}", s.admin(s.adminUpdateProduct)).Methods(http.MethodPut)
	api.Handle("/admin/products/{id:[0-9]+}", s.admin(s.adminDeleteProduct)).Methods(http.MethodDelete)
	api.Handle("/admin/users", s.admin(s.adminListUsers)).Methods(http.MethodGet)
	api.Handle("/admin/users/{id:[0-9]+}/role", s.admin(s.adminSetRole)).Methods(http.MethodPut)

	return r
}

type authedHandler func(w http.ResponseWriter, r *http.Request, acct *account)

func (s *Server) auth(next authedHandler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		acct := s.authenticate(r)
		if acct == nil {
			writeFailure(w, http.StatusUnauthorized, "Требуется авторизация")
			return
		}
		next(w, r, acct)
	})
}

func (s *Server) admin(next authedHandler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		acct := s.authenticate(r)
		if acct == nil {
			writeFailure(w, http.StatusUnauthorized, "Требуется авторизация")
			return
		}
		if !hasRole(acct, "ROLE_ADMIN") {
			writeFailure(w, http.StatusForbidden, "Доступ запрещен")
			return
		}
		next(w, r, acct)
	})
}

func (s *Server) authenticate(r *http.Request) *account {
	header := r.Header.Get("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return nil
	}
	token, err := jwt.Parse(strings.TrimPrefix(header, "Bearer "), func(*jwt.Token) (any, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return nil
	}
	subject, err := token.Claims.GetSubject()
	if err != nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.accounts[subject]
}

func (s *Server) mintToken(acct *account) (string, error) {
	claims := jwt.MapClaims{
		"sub":   acct.username,
		"email": acct.email,
		"roles": acct.roles,
		"exp":   time.Now().Add(24 * time.Hour).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

func hasRole(acct *account, role string) bool {
	for _, r := range acct.roles {
		if r == role {
			return true
		}
	}
	return false
}

func (s *Server) signup(w http.ResponseWriter, r *http.Request) {
	var req models.SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeFailure(w, http.StatusBadRequest, "Некорректный запрос")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, taken := s.accounts[req.Username]; taken {
		writeFailure(w, http.StatusBadRequest, "Имя пользователя уже занято")
		return
	}
	for _, acct := range s.accounts {
		if acct.email == req.Email {
			writeFailure(w, http.StatusBadRequest, "Email уже используется")
			return
		}
	}
	s.addAccount(req.Username, req.Email, req.Password, []string{"ROLE_USER"})
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Пользователь успешно зарегистрирован!",
	})
}

func (s *Server) signin(w http.ResponseWriter, r *http.Request) {
	var creds models.Credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		writeFailure(w, http.StatusBadRequest, "Некорректный запрос")
		return
	}
	s.mu.Lock()
	acct, found := s.accounts[creds.Username]
	s.mu.Unlock()
	if !found || acct.password != creds.Password {
		writeFailure(w, http.StatusUnauthorized, "Неверное имя пользователя или пароль")
		return
	}
	token, err := s.mintToken(acct)
	if err != nil {
		writeFailure(w, http.StatusInternalServerError, "Внутренняя ошибка сервера")
		return
	}
	// the signin payload predates the success envelope and does not
	// carry the flag
	writeJSON(w, http.StatusOK, map[string]any{
		"token":    token,
		"type":     "Bearer",
		"id":       acct.id,
		"username": acct.username,
		"email":    acct.email,
		"roles":    acct.roles,
	})
}

func (s *Server) profile(w http.ResponseWriter, _ *http.Request, acct *account) {
	writeJSON(w, http.StatusOK, map[string]any{
		"id":       acct.id,
		"username": acct.username,
		"email":    acct.email,
		"roles":    acct.roles,
	})
}

func (s *Server) listProducts(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "products": s.productList(nil, "")})
}

func (s *Server) listCategories(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "categories": s.categories})
}

func (s *Server) searchProducts(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"products": s.productList(nil, r.URL.Query().Get("name")),
	})
}

func (s *Server) productsByCategory(w http.ResponseWriter, r *http.Request) {
	categoryId := pathId(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"products": s.productList(&categoryId, ""),
	})
}

// productList filters under the lock held by the caller.
func (s *Server) productList(categoryId *int64, name string) []entities.Product {
	name = strings.ToLower(name)
	list := []entities.Product{}
	for id := int64(1); id <= s.nextProductId; id++ {
		product, alive := s.products[id]
		if !alive {
			continue
		}
		if categoryId != nil && (product.Category == nil || product.Category.Id != *categoryId) {
			continue
		}
		if name != "" && !strings.Contains(strings.ToLower(product.Name), name) {
			continue
		}
		list = append(list, *product)
	}
	return list
}

func (s *Server) getProduct(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	product, found := s.products[pathId(r)]
	s.mu.Unlock()
	if !found {
		writeFailure(w, http.StatusNotFound, "Товар не найден")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "product": product})
}

func (s *Server) cartOf(acct *account) *entities.Cart {
	cart, found := s.carts[acct.username]
	if !found {
		s.nextCartId++
		cart = &entities.Cart{Id: s.nextCartId, CartItems: []entities.CartItem{}}
		s.carts[acct.username] = cart
	}
	return cart
}

func (s *Server) getCart(w http.ResponseWriter, _ *http.Request, acct *account) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "cart": s.cartOf(acct)})
}

func (s *Server) addToCart(w http.ResponseWriter, r *http.Request, acct *account) {
	productId, quantity, ok := cartParams(r)
	if !ok {
		writeFailure(w, http.StatusBadRequest, "Некорректный запрос")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	product, found := s.products[productId]
	if !found {
		writeFailure(w, http.StatusNotFound, "Товар не найден")
		return
	}
	cart := s.cartOf(acct)
	for i := range cart.CartItems {
		if cart.CartItems[i].Product.Id == productId {
			cart.CartItems[i].Quantity += quantity
			writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Товар добавлен в корзину", "cart": cart})
			return
		}
	}
	cart.CartItems = append(cart.CartItems, entities.CartItem{Product: *product, Quantity: quantity})
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Товар добавлен в корзину", "cart": cart})
}

func (s *Server) updateCart(w http.ResponseWriter, r *http.Request, acct *account) {
	productId, quantity, ok := cartParams(r)
	if !ok {
		writeFailure(w, http.StatusBadRequest, "Некорректный запрос")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	cart := s.cartOf(acct)
	for i := range cart.CartItems {
		if cart.CartItems[i].Product.Id == productId {
			cart.CartItems[i].Quantity = quantity
			writeJSON(w, http.StatusOK, map[string]any{"success": true, "cart": cart})
			return
		}
	}
	writeFailure(w, http.StatusNotFound, "Товар не найден в корзине")
}

func (s *Server) removeFromCart(w http.ResponseWriter, r *http.Request, acct *account) {
	productId, err := strconv.ParseInt(r.URL.Query().Get("productId"), 10, 64)
	if err != nil {
		writeFailure(w, http.StatusBadRequest, "Некорректный запрос")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	cart := s.cartOf(acct)
	kept := cart.CartItems[:0]
	for _, item := range cart.CartItems {
		if item.Product.Id != productId {
			kept = append(kept, item)
		}
	}
	cart.CartItems = kept
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Товар удален из корзины", "cart": cart})
}

func shippingCost(method string) float64 {
	switch method {
	case entities.ShippingExpress:
		return 500
	case entities.ShippingPickup:
		return 0
	default:
		return 250
	}
}

func (s *Server) createOrder(w http.ResponseWriter, r *http.Request, acct *account) {
	var info entities.DeliveryInfo
	if err := json.NewDecoder(r.Body).Decode(&info); err != nil {
		writeFailure(w, http.StatusBadRequest, "Некорректный запрос")
		return
	}
	if len(strings.TrimSpace(info.ShippingAddress)) < 10 || strings.TrimSpace(info.RecipientName) == "" {
		writeFailure(w, http.StatusBadRequest, "Проверьте данные доставки")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	cart := s.cartOf(acct)
	if len(cart.CartItems) == 0 {
		writeFailure(w, http.StatusBadRequest, "Корзина пуста")
		return
	}

	s.nextOrderId++
	order := &entities.Order{
		Id:              s.nextOrderId,
		OrderDate:       entities.APITime{Time: time.Now()},
		Status:          entities.StatusNew,
		ShippingAddress: info.ShippingAddress,
		RecipientName:   info.RecipientName,
		RecipientPhone:  info.RecipientPhone,
		ShippingMethod:  info.ShippingMethod,
		ShippingCost:    shippingCost(info.ShippingMethod),
		DeliveryNotes:   info.DeliveryNotes,
		User:            &entities.User{Id: acct.id, Username: acct.username, Email: acct.email},
	}
	for _, item := range cart.CartItems {
		product := item.Product
		order.OrderItems = append(order.OrderItems, entities.OrderItem{
			Id:       int64(len(order.OrderItems) + 1),
			Product:  &product,
			Quantity: item.Quantity,
			Price:    product.Price,
		})
		order.TotalPrice += product.Price * float64(item.Quantity)
	}
	order.TotalPrice += order.ShippingCost
	s.orders = append(s.orders, order)
	cart.CartItems = []entities.CartItem{}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Заказ успешно оформлен!",
		"order":   order,
	})
}

func (s *Server) listOrders(w http.ResponseWriter, _ *http.Request, acct *account) {
	s.mu.Lock()
	defer s.mu.Unlock()
	orders := []entities.Order{}
	for _, order := range s.orders {
		if order.User != nil && order.User.Id == acct.id {
			orders = append(orders, *order)
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "orders": orders})
}

func (s *Server) reorder(w http.ResponseWriter, r *http.Request, acct *account) {
	orderId := pathId(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, order := range s.orders {
		if order.Id != orderId || order.User == nil || order.User.Id != acct.id {
			continue
		}
		cart := s.cartOf(acct)
		for _, item := range order.OrderItems {
			if item.Product == nil {
				continue
			}
			product, alive := s.products[item.Product.Id]
			if !alive {
				continue
			}
			merged := false
			for i := range cart.CartItems {
				if cart.CartItems[i].Product.Id == product.Id {
					cart.CartItems[i].Quantity += item.Quantity
					merged = true
					break
				}
			}
			if !merged {
				cart.CartItems = append(cart.CartItems, entities.CartItem{Product: *product, Quantity: item.Quantity})
			}
		}
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Товары добавлены в корзину", "cart": cart})
		return
	}
	writeFailure(w, http.StatusNotFound, "Заказ не найден")
}

func (s *Server) dashboard(w http.ResponseWriter, _ *http.Request, _ *account) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"stats": entities.DashboardStats{
			TotalUsers:    int64(len(s.accounts)),
			TotalOrders:   int64(len(s.orders)),
			TotalProducts: int64(len(s.products)),
		},
	})
}

func (s *Server) adminListOrders(w http.ResponseWriter, _ *http.Request, _ *account) {
	s.mu.Lock()
	defer s.mu.Unlock()
	orders := []entities.Order{}
	for _, order := range s.orders {
		orders = append(orders, *order)
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "orders": orders})
}

func (s *Server) adminGetOrder(w http.ResponseWriter, r *http.Request, _ *account) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if order := s.findOrder(pathId(r)); order != nil {
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "order": order})
		return
	}
	writeFailure(w, http.StatusNotFound, "Заказ не найден")
}

func (s *Server) adminSetStatus(w http.ResponseWriter, r *http.Request, _ *account) {
	status := r.URL.Query().Get("status")
	valid := false
	for _, known := range entities.OrderStatuses {
		if status == known {
			valid = true
			break
		}
	}
	if !valid {
		writeFailure(w, http.StatusBadRequest, "Неизвестный статус заказа")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	order := s.findOrder(pathId(r))
	if order == nil {
		writeFailure(w, http.StatusNotFound, "Заказ не найден")
		return
	}
	order.Status = status
	if status == entities.StatusDelivered || status == entities.StatusCompleted {
		now := entities.APITime{Time: time.Now()}
		order.DeliveryDate = &now
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Статус заказа обновлен", "order": order})
}

func (s *Server) adminSetDelivery(w http.ResponseWriter, r *http.Request, _ *account) {
	var info entities.DeliveryInfo
	if err := json.NewDecoder(r.Body).Decode(&info); err != nil {
		writeFailure(w, http.StatusBadRequest, "Некорректный запрос")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	order := s.findOrder(pathId(r))
	if order == nil {
		writeFailure(w, http.StatusNotFound, "Заказ не найден")
		return
	}
	previousCost := order.ShippingCost
	order.ShippingAddress = info.ShippingAddress
	order.RecipientName = info.RecipientName
	order.RecipientPhone = info.RecipientPhone
	order.DeliveryNotes = info.DeliveryNotes
	order.ShippingMethod = info.ShippingMethod
	order.ShippingCost = shippingCost(info.ShippingMethod)
	order.TotalPrice += order.ShippingCost - previousCost
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Данные доставки обновлены", "order": order})
}

func (s *Server) adminDeleteOrder(w http.ResponseWriter, r *http.Request, _ *account) {
	orderId := pathId(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, order := range s.orders {
		if order.Id == orderId {
			s.orders = append(s.orders[:i], s.orders[i+1:]...)
			writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Заказ удален"})
			return
		}
	}
	writeFailure(w, http.StatusNotFound, "Заказ не найден")
}

func (s *Server) adminCreateProduct(w http.ResponseWriter, r *http.Request, _ *account) {
	product, ok := s.productFromQuery(r)
	if !ok {
		writeFailure(w, http.StatusBadRequest, "Проверьте данные товара")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextProductId++
	product.Id = s.nextProductId
	s.products[product.Id] = &product
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Товар создан", "product": product})
}

func (s *Server) adminUpdateProduct(w http.ResponseWriter, r *http.Request, _ *account) {
	update, ok := s.productFromQuery(r)
	if !ok {
		writeFailure(w, http.StatusBadRequest, "Проверьте данные товара")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	product, found := s.products[pathId(r)]
	if !found {
		writeFailure(w, http.StatusNotFound, "Товар не найден")
		return
	}
	product.Name = update.Name
	product.Description = update.Description
	product.Price = update.Price
	product.Category = update.Category
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Товар обновлен", "product": product})
}

func (s *Server) adminDeleteProduct(w http.ResponseWriter, r *http.Request, _ *account) {
	s.mu.Lock()
	defer s.mu.Unlock()
	productId := pathId(r)
	if _, found := s.products[productId]; !found {
		writeFailure(w, http.StatusNotFound, "Товар не найден")
		return
	}
	delete(s.products, productId)
	for _, cart := range s.carts {
		kept := cart.CartItems[:0]
		for _, item := range cart.CartItems {
			if item.Product.Id != productId {
				kept = append(kept, item)
			}
		}
		cart.CartItems = kept
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Товар удален"})
}

func (s *Server) adminListUsers(w http.ResponseWriter, _ *http.Request, _ *account) {
	s.mu.Lock()
	defer s.mu.Unlock()
	users := []entities.User{}
	for id := int64(1); id <= s.nextUserId; id++ {
		for _, acct := range s.accounts {
			if acct.id == id {
				users = append(users, accountUser(acct))
			}
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "users": users})
}

func (s *Server) adminSetRole(w http.ResponseWriter, r *http.Request, _ *account) {
	role := r.URL.Query().Get("role")
	if role != "ROLE_USER" && role != "ROLE_ADMIN" {
		writeFailure(w, http.StatusBadRequest, "Неизвестная роль")
		return
	}
	userId := pathId(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, acct := range s.accounts {
		if acct.id == userId {
			acct.roles = []string{role}
			writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Роль обновлена", "user": accountUser(acct)})
			return
		}
	}
	writeFailure(w, http.StatusNotFound, "Пользователь не найден")
}

func (s *Server) findOrder(orderId int64) *entities.Order {
	for _, order := range s.orders {
		if order.Id == orderId {
			return order
		}
	}
	return nil
}

func (s *Server) productFromQuery(r *http.Request) (product entities.Product, ok bool) {
	query := r.URL.Query()
	price, priceErr := strconv.ParseFloat(query.Get("price"), 64)
	categoryId, categoryErr := strconv.ParseInt(query.Get("categoryId"), 10, 64)
	if query.Get("name") == "" || priceErr != nil || price < 0 || categoryErr != nil {
		return
	}
	product = entities.Product{
		Name:        query.Get("name"),
		Description: query.Get("description"),
		Price:       price,
	}
	for i := range s.categories {
		if s.categories[i].Id == categoryId {
			product.Category = &s.categories[i]
			return product, true
		}
	}
	return
}

func accountUser(acct *account) entities.User {
	user := entities.User{Id: acct.id, Username: acct.username, Email: acct.email}
	for i, role := range acct.roles {
		user.Roles = append(user.Roles, entities.Role{Id: int64(i + 1), Name: role})
	}
	return user
}

func cartParams(r *http.Request) (productId int64, quantity int, ok bool) {
	query := r.URL.Query()
	productId, err := strconv.ParseInt(query.Get("productId"), 10, 64)
	if err != nil {
		return
	}
	quantity, err = strconv.Atoi(query.Get("quantity"))
	if err != nil || quantity < 1 {
		return
	}
	return productId, quantity, true
}

func pathId(r *http.Request) int64 {
	id, _ := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	return id
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func writeFailure(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{"success": false, "message": message})
}
