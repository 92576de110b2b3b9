package service

import (
	"context"
	"errors"
	"github.com/hashicorp/go-hclog"
	"github.com/kahvecikaan/product-catalog-api/internal/domain"
	"github.com/kahvecikaan/product-catalog-api/internal/events"
	"github.com/kahvecikaan/product-catalog-api/internal/repository"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"math"
	"testing"
)

func newTestService(t *testing.T) (ProductService, *events.EventBus[events.Event]) {
	t.Helper()
	bus := events.NewEventBus[events.Event]()
	t.Cleanup(bus.Close)
	return NewProductService(repository.NewMemoryProductRepository(), bus, hclog.NewNullLogger()), bus
}

func productDTO(name, description, price string, quantity int) *domain.ProductDTO {
	p := decimal.RequireFromString(price)
	return &domain.ProductDTO{Name: name, Description: description, Price: &p, Quantity: &quantity}
}

func createN(t *testing.T, svc ProductService, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		_, err := svc.CreateProduct(context.Background(), productDTO("item", "", "1", i))
		require.NoError(t, err)
	}
}

func contentIDs(page *domain.PagedResponse[*domain.ProductDTO]) []int64 {
	ids := make([]int64, 0, len(page.Content))
	for _, p := range page.Content {
		ids = append(ids, p.ID)
	}
	return ids
}

func TestCreateProductEchoesFieldsWithNewID(t *testing.T) {
	svc, _ := newTestService(t)

	created, err := svc.CreateProduct(context.Background(), productDTO("Pen", "Blue pen", "1.50", 100))
	require.NoError(t, err)

	assert.NotZero(t, created.ID)
	assert.Equal(t, "Pen", created.Name)
	assert.Equal(t, "Blue pen", created.Description)
	assert.True(t, created.Price.Equal(decimal.RequireFromString("1.50")))
	assert.Equal(t, 100, *created.Quantity)
}

func TestGetProductByIDReturnsCreatedFields(t *testing.T) {
	svc, _ := newTestService(t)
	created, err := svc.CreateProduct(context.Background(), productDTO("Pen", "Blue pen", "1.50", 100))
	require.NoError(t, err)

	found, err := svc.GetProductByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, found)
}

func TestGetProductByIDNotFound(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.GetProductByID(context.Background(), 404)
	require.ErrorIs(t, err, domain.ErrProductNotFound)
	assert.EqualError(t, err, "Product not found with id: 404")
}

func TestUpdateProductKeepsID(t *testing.T) {
	svc, _ := newTestService(t)
	created, err := svc.CreateProduct(context.Background(), productDTO("Pen", "Blue pen", "1.50", 100))
	require.NoError(t, err)

	change := productDTO("Pencil", "HB pencil", "0.75", 40)
	change.ID = created.ID + 100

	updated, err := svc.UpdateProduct(context.Background(), created.ID, change)
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "Pencil", updated.Name)
	assert.Equal(t, "HB pencil", updated.Description)
	assert.True(t, updated.Price.Equal(decimal.RequireFromString("0.75")))
	assert.Equal(t, 40, *updated.Quantity)

	found, err := svc.GetProductByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, updated, found)

	_, err = svc.GetProductByID(context.Background(), created.ID+100)
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}

func TestUpdateProductNotFound(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.UpdateProduct(context.Background(), 9, productDTO("Pen", "", "1", 1))
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}

func TestDeleteProductThenGetFails(t *testing.T) {
	svc, _ := newTestService(t)
	created, err := svc.CreateProduct(context.Background(), productDTO("Pen", "Blue pen", "1.50", 100))
	require.NoError(t, err)

	require.NoError(t, svc.DeleteProduct(context.Background(), created.ID))

	_, err = svc.GetProductByID(context.Background(), created.ID)
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
	assert.ErrorIs(t, svc.DeleteProduct(context.Background(), created.ID), domain.ErrProductNotFound)
}

func TestGetAllProductsPagination(t *testing.T) {
	svc, _ := newTestService(t)
	createN(t, svc, 5)

	first, err := svc.GetAllProducts(context.Background(), 0, 2, "id", "asc")
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2}, contentIDs(first))
	assert.Equal(t, 0, first.PageNumber)
	assert.Equal(t, 2, first.PageSize)
	assert.Equal(t, int64(5), first.TotalElements)
	assert.Equal(t, 3, first.TotalPages)
	assert.False(t, first.Last)

	last, err := svc.GetAllProducts(context.Background(), 2, 2, "id", "asc")
	require.NoError(t, err)
	assert.Equal(t, []int64{5}, contentIDs(last))
	assert.True(t, last.Last)
}

func TestGetAllProductsDescending(t *testing.T) {
	svc, _ := newTestService(t)
	createN(t, svc, 5)

	for _, dir := range []string{"desc", "DESC", "anything"} {
		page, err := svc.GetAllProducts(context.Background(), 0, 5, "id", dir)
		require.NoError(t, err)
		assert.Equal(t, []int64{5, 4, 3, 2, 1}, contentIDs(page), dir)
	}

	page, err := svc.GetAllProducts(context.Background(), 0, 5, "id", "ASC")
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2, 3, 4, 5}, contentIDs(page))
}

func TestGetAllProductsEmpty(t *testing.T) {
	svc, _ := newTestService(t)

	page, err := svc.GetAllProducts(context.Background(), 0, 5, "id", "asc")
	require.NoError(t, err)
	assert.NotNil(t, page.Content)
	assert.Empty(t, page.Content)
	assert.Zero(t, page.TotalPages)
	assert.True(t, page.Last)
}

func TestGetAllProductsInvalidRequest(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.GetAllProducts(context.Background(), -1, 5, "id", "asc")
	assert.ErrorIs(t, err, domain.ErrInvalidPageRequest)

	_, err = svc.GetAllProducts(context.Background(), 0, 0, "id", "asc")
	assert.ErrorIs(t, err, domain.ErrInvalidPageRequest)

	_, err = svc.GetAllProducts(context.Background(), 0, 5, "sku", "asc")
	assert.ErrorIs(t, err, domain.ErrInvalidSortField)
}

func TestGetAllProductsOutOfRangePaging(t *testing.T) {
	svc, _ := newTestService(t)
	createN(t, svc, 5)

	testCases := []struct {
		name       string
		page, size int
	}{
		{"Huge page", 1 << 62, 2},
		{"Huge size", 1, math.MaxInt},
		{"Max int size on first page", 0, math.MaxInt},
		{"Offset that would wrap", 3689348814741910324, 5},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var err error
			require.NotPanics(t, func() {
				_, err = svc.GetAllProducts(context.Background(), tc.page, tc.size, "id", "asc")
			})
			assert.ErrorIs(t, err, domain.ErrInvalidPageRequest)
		})
	}

	far, err := svc.GetAllProducts(context.Background(), math.MaxInt32, 5, "id", "asc")
	require.NoError(t, err)
	assert.Empty(t, far.Content)
	assert.Equal(t, 1, far.TotalPages)
	assert.True(t, far.Last)
}

func TestMutationsPublishEvents(t *testing.T) {
	svc, bus := newTestService(t)
	sub := bus.Subscribe()

	created, err := svc.CreateProduct(context.Background(), productDTO("Pen", "", "1", 1))
	require.NoError(t, err)
	_, err = svc.UpdateProduct(context.Background(), created.ID, productDTO("Pencil", "", "1", 1))
	require.NoError(t, err)
	require.NoError(t, svc.DeleteProduct(context.Background(), created.ID))

	assert.Equal(t, events.ProductCreatedEvent, (<-sub).Name())
	assert.Equal(t, events.ProductUpdatedEvent, (<-sub).Name())
	assert.Equal(t, events.ProductDeleted{ProductID: created.ID}, <-sub)
}

func TestCreateProductWithExistingIDOverwrites(t *testing.T) {
	svc, bus := newTestService(t)
	createN(t, svc, 2)
	sub := bus.Subscribe()

	replacement := productDTO("Pencil", "HB pencil", "0.75", 40)
	replacement.ID = 2

	saved, err := svc.CreateProduct(context.Background(), replacement)
	require.NoError(t, err)
	assert.Equal(t, int64(2), saved.ID)

	found, err := svc.GetProductByID(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, saved, found)
	assert.Equal(t, "Pencil", found.Name)
	assert.Equal(t, 40, *found.Quantity)

	page, err := svc.GetAllProducts(context.Background(), 0, 5, "id", "asc")
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2}, contentIDs(page))

	event := <-sub
	require.IsType(t, events.ProductUpdated{}, event)
	assert.Equal(t, saved, event.(events.ProductUpdated).Product)
}

func TestCreateProductWithUnknownIDInsertsNew(t *testing.T) {
	svc, bus := newTestService(t)
	createN(t, svc, 1)
	sub := bus.Subscribe()

	dto := productDTO("Pencil", "", "0.75", 40)
	dto.ID = 999

	saved, err := svc.CreateProduct(context.Background(), dto)
	require.NoError(t, err)
	assert.Equal(t, int64(2), saved.ID)

	_, err = svc.GetProductByID(context.Background(), 999)
	assert.ErrorIs(t, err, domain.ErrProductNotFound)

	existing, err := svc.GetProductByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "item", existing.Name)

	assert.Equal(t, events.ProductCreatedEvent, (<-sub).Name())
}

type failingRepository struct {
	repository.ProductRepository
	err error
}

func (r failingRepository) FindByID(ctx context.Context, id int64) (*domain.Product, error) {
	return nil, r.err
}

func (r failingRepository) Save(ctx context.Context, p *domain.Product) (*domain.Product, error) {
	return nil, r.err
}

func TestStoreFailuresPropagate(t *testing.T) {
	storeErr := errors.New("connection refused")
	bus := events.NewEventBus[events.Event]()
	svc := NewProductService(failingRepository{err: storeErr}, bus, hclog.NewNullLogger())

	_, err := svc.GetProductByID(context.Background(), 1)
	assert.ErrorIs(t, err, storeErr)
	assert.NotErrorIs(t, err, domain.ErrProductNotFound)

	_, err = svc.CreateProduct(context.Background(), productDTO("Pen", "", "1", 1))
	assert.ErrorIs(t, err, storeErr)

	withID := productDTO("Pen", "", "1", 1)
	withID.ID = 3
	_, err = svc.CreateProduct(context.Background(), withID)
	assert.ErrorIs(t, err, storeErr)
}
