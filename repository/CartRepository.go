package repository

import (
	"context"
	"errors"
	"net/url"
	"strconv"

	"eshopClient/entities"
)

type CartRepository interface {
	GetCart(ctx context.Context) (entities.Cart, error)
	AddCartItem(ctx context.Context, productId int64, quantity int) (string, error)
	UpdateCartItem(ctx context.Context, productId int64, quantity int) error
	RemoveCartItem(ctx context.Context, productId int64) error
}

type CartRepo struct {
	client *Client
}

func NewCartRepository(client *Client) (CartRepository, error) {
	if client == nil {
		return nil, errors.New("client must be non-nil")
	}
	return &CartRepo{client: client}, nil
}

// GetCart returns the current cart. A missing cart is not an error: the
// backend reports success with no cart for a user who never added
// anything, and that decodes to an empty cart here.
func (c *CartRepo) GetCart(ctx context.Context) (cart entities.Cart, err error) {
	var resp entities.CartResponse
	err = c.client.doEnvelope(ctx, "GET", "/cart", nil, nil, &resp)
	if err != nil {
		return
	}
	if resp.Cart != nil {
		cart = *resp.Cart
	}
	return
}

func (c *CartRepo) AddCartItem(ctx context.Context, productId int64, quantity int) (message string, err error) {
	query := url.Values{}
	query.Set("productId", strconv.FormatInt(productId, 10))
	query.Set("quantity", strconv.Itoa(quantity))
	var resp entities.CartResponse
	err = c.client.doEnvelope(ctx, "POST", "/cart/add", query, nil, &resp)
	if err != nil {
		return
	}
	message = resp.Message
	return
}

func (c *CartRepo) UpdateCartItem(ctx context.Context, productId int64, quantity int) (err error) {
	query := url.Values{}
	query.Set("productId", strconv.FormatInt(productId, 10))
	query.Set("quantity", strconv.Itoa(quantity))
	var resp entities.CartResponse
	err = c.client.doEnvelope(ctx, "PUT", "/cart/update", query, nil, &resp)
	return
}

func (c *CartRepo) RemoveCartItem(ctx context.Context, productId int64) (err error) {
	query := url.Values{}
	query.Set("productId", strconv.FormatInt(productId, 10))
	var resp entities.CartResponse
	err = c.client.doEnvelope(ctx, "DELETE", "/cart/remove", query, nil, &resp)
	return
}
