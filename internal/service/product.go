package service

import (
	"context"
	"errors"
	"github.com/hashicorp/go-hclog"
	"github.com/kahvecikaan/product-catalog-api/internal/domain"
	"github.com/kahvecikaan/product-catalog-api/internal/events"
	"github.com/kahvecikaan/product-catalog-api/internal/metrics"
	"github.com/kahvecikaan/product-catalog-api/internal/repository"
)

type ProductService interface {
	CreateProduct(ctx context.Context, dto *domain.ProductDTO) (*domain.ProductDTO, error)
	GetAllProducts(ctx context.Context, page, size int, sortBy, sortDir string) (*domain.PagedResponse[*domain.ProductDTO], error)
	GetProductByID(ctx context.Context, id int64) (*domain.ProductDTO, error)
	UpdateProduct(ctx context.Context, id int64, dto *domain.ProductDTO) (*domain.ProductDTO, error)
	DeleteProduct(ctx context.Context, id int64) error
}

type productService struct {
	repo     repository.ProductRepository
	eventBus *events.EventBus[events.Event]
	logger   hclog.Logger
}

func NewProductService(
	repo repository.ProductRepository,
	eventBus *events.EventBus[events.Event],
	logger hclog.Logger) ProductService {
	return &productService{
		repo:     repo,
		eventBus: eventBus,
		logger:   logger,
	}
}

// CreateProduct saves dto as a new product. A dto carrying the id of an
// existing product overwrites that product and is reported as an update.
func (s *productService) CreateProduct(ctx context.Context, dto *domain.ProductDTO) (result *domain.ProductDTO, err error) {
	operation := "create"
	defer func() { metrics.RecordProductOperation(operation, err) }()
	s.logger.Debug("Creating product", "name", dto.Name)

	overwrite := false
	if dto.ID != 0 {
		// The repository only honours the id for existing rows
		s.logger.Warn("Create request carries a product id", "id", dto.ID)

		_, err = s.repo.FindByID(ctx, dto.ID)
		switch {
		case err == nil:
			overwrite = true
			operation = "update"
		case !errors.Is(err, domain.ErrProductNotFound):
			s.logger.Error("Unable to get the product by ID", "id", dto.ID, "error", err)
			return nil, err
		}
	}

	saved, err := s.repo.Save(ctx, dto.ToEntity())
	if err != nil {
		s.logger.Error("Unable to create product", "name", dto.Name, "error", err)
		return nil, err
	}

	result = domain.NewProductDTO(saved)
	if overwrite {
		s.publish(events.ProductUpdated{Product: result})
	} else {
		s.publish(events.ProductCreated{Product: result})
	}
	return result, nil
}

func (s *productService) GetAllProducts(
	ctx context.Context,
	page, size int,
	sortBy, sortDir string) (result *domain.PagedResponse[*domain.ProductDTO], err error) {
	defer func() { metrics.RecordProductOperation("list", err) }()
	s.logger.Debug("Getting products", "page", page, "size", size, "sort_by", sortBy, "sort_dir", sortDir)

	sort := domain.Sort{Field: sortBy, Direction: domain.ParseDirection(sortDir)}
	req, err := domain.NewPageRequest(page, size, sort)
	if err != nil {
		return nil, err
	}

	productPage, err := s.repo.FindAll(ctx, req)
	if err != nil {
		s.logger.Error("Unable to get products", "error", err)
		return nil, err
	}

	content := make([]*domain.ProductDTO, 0, len(productPage.Content))
	for _, product := range productPage.Content {
		content = append(content, domain.NewProductDTO(product))
	}

	return &domain.PagedResponse[*domain.ProductDTO]{
		Content:       content,
		PageNumber:    productPage.Number,
		PageSize:      productPage.Size,
		TotalElements: productPage.TotalElements,
		TotalPages:    productPage.TotalPages(),
		Last:          productPage.IsLast(),
	}, nil
}

func (s *productService) GetProductByID(ctx context.Context, id int64) (result *domain.ProductDTO, err error) {
	defer func() { metrics.RecordProductOperation("get", err) }()
	s.logger.Debug("Getting product by ID", "id", id)

	product, err := s.findOrFail(ctx, id)
	if err != nil {
		return nil, err
	}

	return domain.NewProductDTO(product), nil
}

func (s *productService) UpdateProduct(ctx context.Context, id int64, dto *domain.ProductDTO) (result *domain.ProductDTO, err error) {
	defer func() { metrics.RecordProductOperation("update", err) }()
	s.logger.Debug("Updating product", "id", id)

	existing, err := s.findOrFail(ctx, id)
	if err != nil {
		return nil, err
	}

	dto.ApplyTo(existing)

	updated, err := s.repo.Save(ctx, existing)
	if err != nil {
		s.logger.Error("Unable to update product", "id", id, "error", err)
		return nil, err
	}

	result = domain.NewProductDTO(updated)
	s.publish(events.ProductUpdated{Product: result})
	return result, nil
}

func (s *productService) DeleteProduct(ctx context.Context, id int64) (err error) {
	defer func() { metrics.RecordProductOperation("delete", err) }()
	s.logger.Debug("Deleting product", "id", id)

	existing, err := s.findOrFail(ctx, id)
	if err != nil {
		return err
	}

	err = s.repo.Delete(ctx, existing)
	if errors.Is(err, domain.ErrProductNotFound) {
		// removed by a concurrent request between the lookup and the delete
		return &domain.NotFoundError{ID: id}
	}
	if err != nil {
		s.logger.Error("Unable to delete product", "id", id, "error", err)
		return err
	}

	s.publish(events.ProductDeleted{ProductID: id})
	return nil
}

func (s *productService) findOrFail(ctx context.Context, id int64) (*domain.Product, error) {
	product, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, domain.ErrProductNotFound) {
		return nil, &domain.NotFoundError{ID: id}
	}
	if err != nil {
		s.logger.Error("Unable to get the product by ID", "id", id, "error", err)
		return nil, err
	}
	return product, nil
}

func (s *productService) publish(e events.Event) {
	if dropped := s.eventBus.Publish(e); dropped > 0 {
		s.logger.Warn("Event not delivered to slow subscribers", "event", e.Name(), "subscribers", dropped)
	}
}
