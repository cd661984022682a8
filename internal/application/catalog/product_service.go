package catalog

import (
	"context"
	"errors"
	"strings"

	"github.com/courseplatform/backend/internal/domain/catalog"
	"github.com/courseplatform/backend/internal/domain/shared"
	"github.com/courseplatform/backend/internal/domain/trade"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ProductService handles product catalog reads and admin product management
type ProductService struct {
	productRepo catalog.ProductRepository
	orderRepo   trade.OrderRepository
	logger      *zap.Logger
}

// NewProductService creates a new ProductService
func NewProductService(
	productRepo catalog.ProductRepository,
	orderRepo trade.OrderRepository,
	logger *zap.Logger,
) *ProductService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProductService{
		productRepo: productRepo,
		orderRepo:   orderRepo,
		logger:      logger,
	}
}

// List returns a page of products. Status defaults to active.
func (s *ProductService) List(ctx context.Context, filter ProductListFilter) (shared.Paginated[ProductResponse], error) {
	status := filter.Status
	if status == "" {
		status = string(catalog.ProductStatusActive)
	}

	page, err := s.productRepo.FindAll(ctx, catalog.ProductFilter{
		Filter: shared.Filter{
			Page:     filter.Page,
			PageSize: filter.PerPage,
			Search:   filter.Search,
		},
		Status:   status,
		Category: filter.Category,
		MinPrice: filter.MinPrice,
		MaxPrice: filter.MaxPrice,
	})
	if err != nil {
		return shared.Paginated[ProductResponse]{}, err
	}
	return shared.MapPaginated(page, ToProductResponse), nil
}

// Search matches active products by name or description
func (s *ProductService) Search(ctx context.Context, query string, page, perPage int) (shared.Paginated[ProductResponse], error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return shared.Paginated[ProductResponse]{}, shared.NewValidationError("Search query is required")
	}

	result, err := s.productRepo.FindAll(ctx, catalog.ProductFilter{
		Filter: shared.Filter{
			Page:     page,
			PageSize: perPage,
			Search:   query,
		},
		Status:            string(catalog.ProductStatusActive),
		SearchDescription: true,
	})
	if err != nil {
		return shared.Paginated[ProductResponse]{}, err
	}
	return shared.MapPaginated(result, ToProductResponse), nil
}

// GetByID retrieves a product
func (s *ProductService) GetByID(ctx context.Context, id uuid.UUID) (*ProductResponse, error) {
	product, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToProductResponse(product)
	return &response, nil
}

// Categories lists the distinct product categories
func (s *ProductService) Categories(ctx context.Context) ([]string, error) {
	return s.productRepo.Categories(ctx)
}

// Create creates a product. Zero stock makes it out_of_stock.
func (s *ProductService) Create(ctx context.Context, req CreateProductRequest) (*ProductResponse, error) {
	if req.Price == nil {
		return nil, shared.NewValidationError("price is required")
	}
	product, err := catalog.NewProduct(req.Name, *req.Price, req.StockQuantity)
	if err != nil {
		return nil, err
	}

	upd := catalog.ProductUpdate{
		Description: &req.Description,
		Category:    &req.Category,
		ImageURL:    &req.ImageURL,
	}
	if req.Status != "" {
		status := catalog.ProductStatus(req.Status)
		upd.Status = &status
	}
	if err := product.Apply(upd); err != nil {
		return nil, err
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, err
	}

	s.logger.Info("Product created",
		zap.String("product_id", product.ID.String()),
		zap.String("name", product.Name),
		zap.Int("stock_quantity", product.StockQuantity))

	response := ToProductResponse(product)
	return &response, nil
}

// Update applies whitelisted changes to a product
func (s *ProductService) Update(ctx context.Context, id uuid.UUID, req UpdateProductRequest) (*ProductResponse, error) {
	upd := catalog.ProductUpdate{
		Name:          req.Name,
		Description:   req.Description,
		Price:         req.Price,
		Category:      req.Category,
		StockQuantity: req.StockQuantity,
		ImageURL:      req.ImageURL,
	}
	if req.Status != nil {
		status := catalog.ProductStatus(*req.Status)
		upd.Status = &status
	}

	product, err := s.productRepo.Modify(ctx, id, func(p *catalog.Product) error {
		return p.Apply(upd)
	})
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewNotFoundError("Product not found")
		}
		return nil, err
	}

	response := ToProductResponse(product)
	return &response, nil
}

// Delete removes a product no order item references
func (s *ProductService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.find(ctx, id); err != nil {
		return err
	}

	referenced, err := s.orderRepo.ExistsByProduct(ctx, id)
	if err != nil {
		return err
	}
	if referenced {
		return shared.NewConflictError("Cannot delete product referenced by orders")
	}

	if err := s.productRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, shared.ErrConflict) {
			return shared.NewConflictError("Cannot delete product referenced by orders")
		}
		return err
	}

	s.logger.Info("Product deleted", zap.String("product_id", id.String()))
	return nil
}

func (s *ProductService) find(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewNotFoundError("Product not found")
		}
		return nil, err
	}
	return product, nil
}
