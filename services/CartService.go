package services

import (
	"context"
	"log"
	"regexp"
	"strings"
	"unicode/utf8"

	"eshopClient/entities"
	"eshopClient/models"
	"eshopClient/repository"
)

// CheckoutState is the phase of the checkout flow. Transitions only move
// forward from DraftOpen to Submitting and back; a successful submit
// lands in Idle with the cart already cleared.
type CheckoutState int

const (
	CheckoutIdle CheckoutState = iota
	CheckoutDraftOpen
	CheckoutSubmitting
)

var phonePattern = regexp.MustCompile(`^(\+7|8|7)?[\s-]?\(?[0-9]{3}\)?[\s-]?[0-9]{3}[\s-]?[0-9]{2}[\s-]?[0-9]{2}$`)

// CartService holds the server cart mirror and the checkout draft. The
// cart on the server is authoritative; local mutations are applied only
// after the matching request succeeded.
type CartService struct {
	cr      repository.CartRepository
	or      repository.OrderRepository
	confirm Confirmer

	cart   entities.Cart
	draft  entities.DeliveryInfo
	errors models.ValidationErrors
	state  CheckoutState
}

func NewCartService(cartRepo repository.CartRepository, orderRepo repository.OrderRepository, confirm Confirmer) CartService {
	return CartService{
		cr:      cartRepo,
		or:      orderRepo,
		confirm: confirm,
		draft:   defaultDraft(),
	}
}

func (cs *CartService) Cart() entities.Cart {
	return cs.cart
}

func (cs *CartService) State() CheckoutState {
	return cs.state
}

func (cs *CartService) ValidationErrors() models.ValidationErrors {
	return cs.errors
}

// Draft exposes the delivery form for editing. Checkout reads it back at
// confirm time, so edits between BeginCheckout and ConfirmCheckout are
// picked up without extra plumbing.
func (cs *CartService) Draft() *entities.DeliveryInfo {
	return &cs.draft
}

func (cs *CartService) FetchCart(ctx context.Context) (err error) {
	cart, err := cs.cr.GetCart(ctx)
	if err != nil {
		log.Printf("FetchCart: %v", err)
		return
	}
	cs.cart = cart
	return
}

func (cs *CartService) AddToCart(ctx context.Context, productId int64, quantity int) (message string, err error) {
	message, err = cs.cr.AddCartItem(ctx, productId, quantity)
	if err != nil {
		log.Printf("AddToCart: %v", err)
		return
	}
	if err = cs.FetchCart(ctx); err != nil {
		return
	}
	return
}

// UpdateQuantity sets the quantity of a cart line. Anything below one is
// a removal and goes through the same confirmation as RemoveFromCart.
func (cs *CartService) UpdateQuantity(ctx context.Context, productId int64, quantity int) (err error) {
	if quantity < 1 {
		return cs.RemoveFromCart(ctx, productId)
	}
	if err = cs.cr.UpdateCartItem(ctx, productId, quantity); err != nil {
		log.Printf("UpdateQuantity: %v", err)
		return
	}
	for i := range cs.cart.CartItems {
		if cs.cart.CartItems[i].Product.Id == productId {
			cs.cart.CartItems[i].Quantity = quantity
			break
		}
	}
	return
}

// RemoveFromCart drops a line after user confirmation. A declined
// confirmation is a silent no-op, not an error.
func (cs *CartService) RemoveFromCart(ctx context.Context, productId int64) (err error) {
	if !cs.confirm.Confirm("Вы уверены, что хотите удалить товар из корзины?") {
		return
	}
	if err = cs.cr.RemoveCartItem(ctx, productId); err != nil {
		log.Printf("RemoveFromCart: %v", err)
		return
	}
	kept := cs.cart.CartItems[:0]
	for _, item := range cs.cart.CartItems {
		if item.Product.Id != productId {
			kept = append(kept, item)
		}
	}
	cs.cart.CartItems = kept
	return
}

func (cs *CartService) Subtotal() float64 {
	var total float64
	for _, item := range cs.cart.CartItems {
		total += item.Product.Price * float64(item.Quantity)
	}
	return total
}

func (cs *CartService) ItemCount() int {
	var count int
	for _, item := range cs.cart.CartItems {
		count += item.Quantity
	}
	return count
}

func (cs *CartService) Total() float64 {
	return cs.Subtotal() + ShippingCost(cs.draft.ShippingMethod)
}

// BeginCheckout opens the delivery form. An empty cart cannot be checked
// out; the reason is returned as a user-facing message.
func (cs *CartService) BeginCheckout() (ok bool, message string) {
	if len(cs.cart.CartItems) == 0 {
		return false, "Корзина пуста"
	}
	cs.errors = nil
	cs.state = CheckoutDraftOpen
	return true, ""
}

func (cs *CartService) CancelCheckout() {
	cs.errors = nil
	cs.state = CheckoutIdle
}

// ConfirmCheckout validates the draft and places the order. Validation
// failure keeps the form open with field errors set. A rejected or failed
// request leaves the cart and the draft untouched so the user can retry.
// Success clears the cart, resets the draft and closes the form.
func (cs *CartService) ConfirmCheckout(ctx context.Context) (message string, err error) {
	switch cs.state {
	case CheckoutSubmitting:
		// a submit is already in flight, ignore the re-trigger
		err = models.ErrNotAllowed
		return
	case CheckoutIdle:
		err = models.ErrNotAllowed
		return
	}

	cs.errors = ValidateDeliveryInfo(cs.draft)
	if !cs.errors.Valid() {
		err = models.NewAPIError(models.ErrBadRequest, "Проверьте правильность заполнения формы")
		return
	}

	cs.state = CheckoutSubmitting
	payload := cs.draft
	payload.RecipientPhone = NormalizePhone(cs.draft.RecipientPhone)
	message, err = cs.or.CreateOrder(ctx, payload)
	if err != nil {
		log.Printf("ConfirmCheckout: %v", err)
		cs.state = CheckoutDraftOpen
		return
	}

	cs.cart = entities.Cart{Id: cs.cart.Id}
	cs.draft = defaultDraft()
	cs.errors = nil
	cs.state = CheckoutIdle
	return
}

func defaultDraft() entities.DeliveryInfo {
	return entities.DeliveryInfo{ShippingMethod: entities.ShippingStandard}
}

// ShippingCost is the flat delivery price for a shipping method. Unknown
// methods cost the same as standard delivery.
func ShippingCost(method string) float64 {
	switch method {
	case entities.ShippingExpress:
		return 500
	case entities.ShippingPickup:
		return 0
	default:
		return 250
	}
}

// ValidateDeliveryInfo checks the delivery form the way the order page
// does before submit. An empty result means the draft is acceptable.
func ValidateDeliveryInfo(info entities.DeliveryInfo) models.ValidationErrors {
	errors := models.ValidationErrors{}
	// lengths are in characters, not bytes: Cyrillic input is the norm
	if utf8.RuneCountInString(strings.TrimSpace(info.ShippingAddress)) < 10 {
		errors["shippingAddress"] = "Адрес должен содержать не менее 10 символов"
	}
	if utf8.RuneCountInString(strings.TrimSpace(info.RecipientName)) < 2 {
		errors["recipientName"] = "Укажите имя получателя"
	}
	if !ValidatePhone(info.RecipientPhone) {
		errors["recipientPhone"] = "Укажите корректный номер телефона"
	}
	if len(errors) == 0 {
		return nil
	}
	return errors
}

func ValidatePhone(phone string) bool {
	stripped := strings.Join(strings.Fields(phone), "")
	if stripped == "" {
		return false
	}
	return phonePattern.MatchString(stripped)
}

// NormalizePhone brings a free-form Russian phone number to +7 canonical
// form: non-digits are stripped, a leading 8 becomes 7, and an eleven
// digit number starting with 7 gets the plus prefix. Anything else comes
// back as the bare digit string with those substitutions applied.
func NormalizePhone(raw string) string {
	var digits strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	number := digits.String()
	if strings.HasPrefix(number, "8") {
		number = "7" + number[1:]
	}
	if len(number) == 11 && strings.HasPrefix(number, "7") {
		return "+" + number
	}
	return number
}
