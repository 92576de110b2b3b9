package repository

import (
	"cmp"
	"context"
	"github.com/kahvecikaan/product-catalog-api/internal/domain"
	"slices"
	"strings"
	"sync"
)

type memoryProductRepository struct {
	products map[int64]domain.Product
	lastID   int64
	mutex    sync.RWMutex
}

func NewMemoryProductRepository() ProductRepository {
	return &memoryProductRepository{
		products: make(map[int64]domain.Product),
	}
}

func (r *memoryProductRepository) Save(ctx context.Context, p *domain.Product) (*domain.Product, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	stored := *p
	if _, exists := r.products[stored.ID]; stored.ID == 0 || !exists {
		r.lastID++
		stored.ID = r.lastID
	}
	r.products[stored.ID] = stored

	return &stored, nil
}

func (r *memoryProductRepository) FindByID(ctx context.Context, id int64) (*domain.Product, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	product, ok := r.products[id]
	if !ok {
		return nil, domain.ErrProductNotFound
	}

	return &product, nil
}

func (r *memoryProductRepository) FindAll(ctx context.Context, req domain.PageRequest) (*domain.Page, error) {
	r.mutex.RLock()
	all := make([]*domain.Product, 0, len(r.products))
	for _, product := range r.products {
		p := product
		all = append(all, &p)
	}
	r.mutex.RUnlock()

	compare := comparator(req.Sort.Field)
	slices.SortFunc(all, func(a, b *domain.Product) int {
		c := compare(a, b)
		if req.Sort.Direction == domain.Descending {
			c = -c
		}
		if c == 0 {
			c = cmp.Compare(a.ID, b.ID)
		}
		return c
	})

	total := int64(len(all))
	start := min(req.Offset(), total)
	end := min(start+int64(req.Size), total)

	return domain.NewPage(all[start:end], req, total), nil
}

func (r *memoryProductRepository) Delete(ctx context.Context, p *domain.Product) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, ok := r.products[p.ID]; !ok {
		return domain.ErrProductNotFound
	}
	delete(r.products, p.ID)

	return nil
}

func comparator(field string) func(a, b *domain.Product) int {
	switch field {
	case "name":
		return func(a, b *domain.Product) int { return strings.Compare(a.Name, b.Name) }
	case "description":
		return func(a, b *domain.Product) int { return strings.Compare(a.Description, b.Description) }
	case "price":
		return func(a, b *domain.Product) int { return a.Price.Cmp(b.Price) }
	case "quantity":
		return func(a, b *domain.Product) int { return cmp.Compare(a.Quantity, b.Quantity) }
	default:
		return func(a, b *domain.Product) int { return cmp.Compare(a.ID, b.ID) }
	}
}
