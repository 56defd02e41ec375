package services

import (
	"context"
	"testing"

	"eshopClient/entities"
	"eshopClient/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShippingCost(t *testing.T) {
	assert.Equal(t, 250.0, ShippingCost(entities.ShippingStandard))
	assert.Equal(t, 500.0, ShippingCost(entities.ShippingExpress))
	assert.Equal(t, 0.0, ShippingCost(entities.ShippingPickup))
	assert.Equal(t, 250.0, ShippingCost("COURIER_PIGEON"))
	assert.Equal(t, 250.0, ShippingCost(""))
}

func TestSubtotalAndItemCount(t *testing.T) {
	cs := CartService{cart: entities.Cart{CartItems: []entities.CartItem{
		{Product: entities.Product{Id: 1, Price: 100}, Quantity: 2},
		{Product: entities.Product{Id: 2, Price: 50}, Quantity: 1},
	}}}
	assert.Equal(t, 250.0, cs.Subtotal())
	assert.Equal(t, 3, cs.ItemCount())
}

func TestValidateDeliveryInfoAccepts(t *testing.T) {
	errs := ValidateDeliveryInfo(entities.DeliveryInfo{
		ShippingAddress: "Москва, ул. Ленина, д. 1",
		RecipientName:   "Иван",
		RecipientPhone:  "+7 999 123 45 67",
		ShippingMethod:  entities.ShippingStandard,
	})
	assert.True(t, errs.Valid())
}

func TestValidateDeliveryInfoRejects(t *testing.T) {
	errs := ValidateDeliveryInfo(entities.DeliveryInfo{
		ShippingAddress: "коротко",
		RecipientName:   "И",
		RecipientPhone:  "12345",
	})
	assert.Contains(t, errs, "shippingAddress")
	assert.Contains(t, errs, "recipientName")
	assert.Contains(t, errs, "recipientPhone")
}

func TestValidateDeliveryInfoTrimsBeforeMeasuring(t *testing.T) {
	errs := ValidateDeliveryInfo(entities.DeliveryInfo{
		ShippingAddress: "   a b c    ",
		RecipientName:   "  И  ",
		RecipientPhone:  "89991234567",
	})
	assert.Contains(t, errs, "shippingAddress")
	assert.Contains(t, errs, "recipientName")
	assert.NotContains(t, errs, "recipientPhone")
}

func TestValidatePhone(t *testing.T) {
	valid := []string{
		"+79991234567",
		"+7 999 123 45 67",
		"8 (999) 123-45-67",
		"89991234567",
		"9991234567",
	}
	for _, phone := range valid {
		assert.True(t, ValidatePhone(phone), phone)
	}
	invalid := []string{"", "12345", "phone", "+7 999 123", "+1 555 123 45 67"}
	for _, phone := range invalid {
		assert.False(t, ValidatePhone(phone), phone)
	}
}

func TestNormalizePhone(t *testing.T) {
	assert.Equal(t, "+79991234567", NormalizePhone("8 (999) 123-45-67"))
	assert.Equal(t, "+79991234567", NormalizePhone("79991234567"))
	assert.Equal(t, "+79991234567", NormalizePhone("+7 999 123 45 67"))
	// too short to canonicalize: digits only, separators never survive
	assert.Equal(t, "9991234567", NormalizePhone("9991234567"))
	assert.Equal(t, "9991234567", NormalizePhone("999 123 45 67"))
	assert.Equal(t, "7999123", NormalizePhone("8 999 123"))
	assert.Equal(t, "", NormalizePhone(""))
}

func TestUpdateQuantityBelowOneRemoves(t *testing.T) {
	asked := 0
	confirm := ConfirmerFunc(func(string) bool {
		asked++
		return true
	})
	e := newEnv(t, confirm)
	ctx := context.Background()
	e.login(t, "demo", "Demo123!")

	_, err := e.cart.AddToCart(ctx, 1, 2)
	require.NoError(t, err)

	require.NoError(t, e.cart.UpdateQuantity(ctx, 1, 0))
	assert.Equal(t, 1, asked, "removal через нулевое количество проходит через подтверждение")
	assert.Empty(t, e.cart.Cart().CartItems)

	require.NoError(t, e.cart.FetchCart(ctx))
	assert.Empty(t, e.cart.Cart().CartItems, "server cart agrees")
}

func TestRemoveFromCartDeclined(t *testing.T) {
	confirm := ConfirmerFunc(func(string) bool { return false })
	e := newEnv(t, confirm)
	ctx := context.Background()
	e.login(t, "demo", "Demo123!")

	_, err := e.cart.AddToCart(ctx, 1, 1)
	require.NoError(t, err)

	require.NoError(t, e.cart.RemoveFromCart(ctx, 1))
	assert.Len(t, e.cart.Cart().CartItems, 1, "declined confirmation keeps the line")
}

func TestUpdateQuantityMutatesOnlyAfterSuccess(t *testing.T) {
	e := newEnv(t, nil)
	ctx := context.Background()
	e.login(t, "demo", "Demo123!")

	_, err := e.cart.AddToCart(ctx, 1, 1)
	require.NoError(t, err)

	// product 99 is not in the cart, the server rejects and the local
	// mirror must not change
	err = e.cart.UpdateQuantity(ctx, 99, 5)
	require.Error(t, err)
	require.Len(t, e.cart.Cart().CartItems, 1)
	assert.Equal(t, 1, e.cart.Cart().CartItems[0].Quantity)
}

func TestBeginCheckoutEmptyCart(t *testing.T) {
	e := newEnv(t, nil)
	e.login(t, "demo", "Demo123!")

	ok, message := e.cart.BeginCheckout()
	assert.False(t, ok)
	assert.Equal(t, "Корзина пуста", message)
	assert.Equal(t, CheckoutIdle, e.cart.State())
}

func TestConfirmCheckoutValidationKeepsDraft(t *testing.T) {
	e := newEnv(t, nil)
	ctx := context.Background()
	e.login(t, "demo", "Demo123!")

	_, err := e.cart.AddToCart(ctx, 1, 1)
	require.NoError(t, err)
	ok, _ := e.cart.BeginCheckout()
	require.True(t, ok)

	e.cart.Draft().ShippingAddress = "коротко"
	_, err = e.cart.ConfirmCheckout(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrBadRequest)
	assert.False(t, e.cart.ValidationErrors().Valid())
	assert.Equal(t, CheckoutDraftOpen, e.cart.State())
	assert.Len(t, e.cart.Cart().CartItems, 1, "cart untouched on validation failure")
}

func TestConfirmCheckoutClearsCartAndResetsDraft(t *testing.T) {
	e := newEnv(t, nil)
	ctx := context.Background()
	e.login(t, "demo", "Demo123!")

	_, err := e.cart.AddToCart(ctx, 1, 2)
	require.NoError(t, err)
	ok, _ := e.cart.BeginCheckout()
	require.True(t, ok)
	e.fillDraft()
	e.cart.Draft().ShippingMethod = entities.ShippingExpress

	message, err := e.cart.ConfirmCheckout(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Заказ успешно оформлен!", message)

	assert.Empty(t, e.cart.Cart().CartItems)
	assert.Equal(t, CheckoutIdle, e.cart.State())
	assert.True(t, e.cart.ValidationErrors().Valid())

	draft := e.cart.Draft()
	assert.Empty(t, draft.ShippingAddress)
	assert.Empty(t, draft.RecipientName)
	assert.Equal(t, entities.ShippingStandard, draft.ShippingMethod)

	require.NoError(t, e.orders.FetchOrders(ctx))
	require.Len(t, e.orders.Orders(), 1)
	order := e.orders.Orders()[0]
	assert.Equal(t, entities.StatusNew, order.Status)
	assert.Equal(t, 500.0, order.ShippingCost)
	assert.Equal(t, "+79991234567", order.RecipientPhone, "phone is normalized before submit")
}

func TestConfirmCheckoutOutsideDraft(t *testing.T) {
	e := newEnv(t, nil)
	e.login(t, "demo", "Demo123!")

	_, err := e.cart.ConfirmCheckout(context.Background())
	assert.ErrorIs(t, err, models.ErrNotAllowed)
}

func TestTotalIncludesShipping(t *testing.T) {
	cs := CartService{
		cart:  entities.Cart{CartItems: []entities.CartItem{{Product: entities.Product{Price: 100}, Quantity: 1}}},
		draft: entities.DeliveryInfo{ShippingMethod: entities.ShippingPickup},
	}
	assert.Equal(t, 100.0, cs.Total())
	cs.draft.ShippingMethod = entities.ShippingExpress
	assert.Equal(t, 600.0, cs.Total())
}
