package services

import (
	"context"
	"log"
	"sort"
	"strings"

	"eshopClient/entities"
	"eshopClient/repository"
)

const (
	// ProductsPerPage is the catalog page size.
	ProductsPerPage = 12
	// maxPageLinks is how many page numbers the pager shows at once.
	maxPageLinks = 5
)

// CatalogFilter narrows and orders the fetched catalog. Zero values mean
// "no constraint"; SortBy is one of price-asc, price-desc, name-asc,
// name-desc or empty for server order.
type CatalogFilter struct {
	SearchTerm string
	CategoryId int64
	MinPrice   float64
	MaxPrice   float64
	SortBy     string
}

// ProductService holds the catalog and category list. Search and category
// browsing refetch from the backend; everything else filters locally.
type ProductService struct {
	pr         repository.ProductRepository
	products   []entities.Product
	categories []entities.Category
}

func NewProductService(productRepo repository.ProductRepository) ProductService {
	return ProductService{pr: productRepo}
}

func (ps *ProductService) Products() []entities.Product {
	return ps.products
}

func (ps *ProductService) Categories() []entities.Category {
	return ps.categories
}

func (ps *ProductService) FetchProducts(ctx context.Context) (err error) {
	products, err := ps.pr.GetProducts(ctx)
	if err != nil {
		log.Printf("FetchProducts: %v", err)
		return
	}
	ps.products = products
	return
}

// FetchCategories failure leaves the category filter empty but does not
// block the catalog, so the error is only logged.
func (ps *ProductService) FetchCategories(ctx context.Context) {
	categories, err := ps.pr.GetCategories(ctx)
	if err != nil {
		log.Printf("FetchCategories: %v", err)
		return
	}
	ps.categories = categories
}

func (ps *ProductService) GetProduct(ctx context.Context, productId int64) (product entities.Product, exists bool, err error) {
	product, exists, err = ps.pr.GetProductById(ctx, productId)
	if err != nil {
		log.Printf("GetProduct: %v", err)
	}
	return
}

// Search replaces the catalog with the backend result for a name term.
// An empty term restores the full catalog.
func (ps *ProductService) Search(ctx context.Context, term string) (err error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return ps.FetchProducts(ctx)
	}
	products, err := ps.pr.SearchProducts(ctx, term)
	if err != nil {
		log.Printf("Search: %v", err)
		return
	}
	ps.products = products
	return
}

// BrowseCategory replaces the catalog with one category's products.
// Category zero means all products.
func (ps *ProductService) BrowseCategory(ctx context.Context, categoryId int64) (err error) {
	if categoryId == 0 {
		return ps.FetchProducts(ctx)
	}
	products, err := ps.pr.GetProductsByCategory(ctx, categoryId)
	if err != nil {
		log.Printf("BrowseCategory: %v", err)
		return
	}
	ps.products = products
	return
}

func (ps *ProductService) FilterProducts(filter CatalogFilter) []entities.Product {
	term := strings.ToLower(strings.TrimSpace(filter.SearchTerm))
	var filtered []entities.Product
	for _, product := range ps.products {
		if term != "" &&
			!strings.Contains(strings.ToLower(product.Name), term) &&
			!strings.Contains(strings.ToLower(product.Description), term) {
			continue
		}
		if filter.CategoryId != 0 && (product.Category == nil || product.Category.Id != filter.CategoryId) {
			continue
		}
		if filter.MinPrice > 0 && product.Price < filter.MinPrice {
			continue
		}
		if filter.MaxPrice > 0 && product.Price > filter.MaxPrice {
			continue
		}
		filtered = append(filtered, product)
	}
	sortProducts(filtered, filter.SortBy)
	return filtered
}

func sortProducts(products []entities.Product, sortBy string) {
	switch sortBy {
	case "price-asc":
		sort.SliceStable(products, func(i, j int) bool { return products[i].Price < products[j].Price })
	case "price-desc":
		sort.SliceStable(products, func(i, j int) bool { return products[i].Price > products[j].Price })
	case "name-asc":
		sort.SliceStable(products, func(i, j int) bool { return products[i].Name < products[j].Name })
	case "name-desc":
		sort.SliceStable(products, func(i, j int) bool { return products[i].Name > products[j].Name })
	}
}

// Paginate cuts one page out of a filtered list. Pages are 1-based; a
// page past the end comes back empty.
func Paginate(products []entities.Product, page int) (pageItems []entities.Product, totalPages int) {
	totalPages = (len(products) + ProductsPerPage - 1) / ProductsPerPage
	if page < 1 {
		page = 1
	}
	start := (page - 1) * ProductsPerPage
	if start >= len(products) {
		return nil, totalPages
	}
	end := start + ProductsPerPage
	if end > len(products) {
		end = len(products)
	}
	return products[start:end], totalPages
}

// PageWindow picks the page numbers the pager shows: a window of up to
// five pages centered on the current one, clamped to the valid range.
func PageWindow(current, total int) (first, last int) {
	if total <= maxPageLinks {
		return 1, total
	}
	first = current - maxPageLinks/2
	if first < 1 {
		first = 1
	}
	last = first + maxPageLinks - 1
	if last > total {
		last = total
		first = last - maxPageLinks + 1
	}
	return
}
