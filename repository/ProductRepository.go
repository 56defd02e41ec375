package repository

import (
	"context"
	"errors"
	"net/url"
	"strconv"

	"eshopClient/entities"
	"eshopClient/models"
)

type ProductRepository interface {
	GetProducts(ctx context.Context) ([]entities.Product, error)
	GetProductById(ctx context.Context, id int64) (entities.Product, bool, error)
	GetCategories(ctx context.Context) ([]entities.Category, error)
	SearchProducts(ctx context.Context, name string) ([]entities.Product, error)
	GetProductsByCategory(ctx context.Context, categoryId int64) ([]entities.Product, error)
}

type ProductRepo struct {
	client *Client
}

func NewProductRepository(client *Client) (ProductRepository, error) {
	if client == nil {
		return nil, errors.New("client must be non-nil")
	}
	return &ProductRepo{client: client}, nil
}

func (p *ProductRepo) GetProducts(ctx context.Context) (products []entities.Product, err error) {
	var resp entities.ProductsResponse
	err = p.client.doEnvelope(ctx, "GET", "/products", nil, nil, &resp)
	if err != nil {
		return
	}
	products = resp.Products
	return
}

func (p *ProductRepo) GetProductById(ctx context.Context, id int64) (product entities.Product, exists bool, err error) {
	var resp entities.ProductResponse
	err = p.client.doEnvelope(ctx, "GET", "/products/"+strconv.FormatInt(id, 10), nil, nil, &resp)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			err = nil
		}
		return
	}
	if resp.Product == nil {
		return
	}
	product = *resp.Product
	exists = true
	return
}

func (p *ProductRepo) GetCategories(ctx context.Context) (categories []entities.Category, err error) {
	var resp entities.CategoriesResponse
	err = p.client.doEnvelope(ctx, "GET", "/products/categories", nil, nil, &resp)
	if err != nil {
		return
	}
	categories = resp.Categories
	return
}

func (p *ProductRepo) SearchProducts(ctx context.Context, name string) (products []entities.Product, err error) {
	query := url.Values{}
	query.Set("name", name)
	var resp entities.ProductsResponse
	err = p.client.doEnvelope(ctx, "GET", "/products/search", query, nil, &resp)
	if err != nil {
		return
	}
	products = resp.Products
	return
}

func (p *ProductRepo) GetProductsByCategory(ctx context.Context, categoryId int64) (products []entities.Product, err error) {
	var resp entities.ProductsResponse
	err = p.client.doEnvelope(ctx, "GET", "/products/category/"+strconv.FormatInt(categoryId, 10), nil, nil, &resp)
	if err != nil {
		return
	}
	products = resp.Products
	return
}
