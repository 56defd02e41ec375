package services

import (
	"context"
	"net/http/httptest"
	"testing"

	"eshopClient/localstore"
	"eshopClient/repository"
	"eshopClient/stubapi"

	"github.com/stretchr/testify/require"
)

// env wires the full client stack against an in-process stub backend.
type env struct {
	store    localstore.Store
	sessions *SessionService
	products *ProductService
	cart     *CartService
	orders   *OrderService
	admin    *AdminService
}

func acceptAll(string) bool { return true }

func newEnv(t *testing.T, confirm Confirmer) *env {
	t.Helper()
	if confirm == nil {
		confirm = ConfirmerFunc(acceptAll)
	}

	server := httptest.NewServer(stubapi.New().Handler())
	t.Cleanup(server.Close)

	store, err := localstore.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	client, err := repository.NewClient(server.URL+"/api", store)
	require.NoError(t, err)
	authRepo, err := repository.NewAuthRepository(client)
	require.NoError(t, err)
	productRepo, err := repository.NewProductRepository(client)
	require.NoError(t, err)
	cartRepo, err := repository.NewCartRepository(client)
	require.NoError(t, err)
	orderRepo, err := repository.NewOrderRepository(client)
	require.NoError(t, err)
	adminRepo, err := repository.NewAdminRepository(client)
	require.NoError(t, err)

	sessions := NewSessionService(authRepo, store)
	products := NewProductService(productRepo)
	cart := NewCartService(cartRepo, orderRepo, confirm)
	orders := NewOrderService(orderRepo)
	admin := NewAdminService(adminRepo, confirm)

	return &env{
		store:    store,
		sessions: &sessions,
		products: &products,
		cart:     &cart,
		orders:   &orders,
		admin:    &admin,
	}
}

func (e *env) login(t *testing.T, username, password string) {
	t.Helper()
	require.NoError(t, e.sessions.Login(context.Background(), username, password))
}

// fillDraft puts an acceptable delivery form into the checkout draft.
func (e *env) fillDraft() {
	draft := e.cart.Draft()
	draft.ShippingAddress = "Москва, ул. Ленина, д. 1, кв. 5"
	draft.RecipientName = "Иван Иванов"
	draft.RecipientPhone = "+7 999 123 45 67"
}
