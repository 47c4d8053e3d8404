package usecase

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leanNunez/Ecommerce-Tucuman/internal/cache"
	"github.com/leanNunez/Ecommerce-Tucuman/internal/domain"
)

type fakeProductRepo struct {
	products map[string]*domain.Product
	getCalls int
	created  *domain.Product
	deleted  []int
}

func newFakeProductRepo() *fakeProductRepo {
	return &fakeProductRepo{products: make(map[string]*domain.Product)}
}

func (f *fakeProductRepo) List(domain.ProductFilter) ([]domain.Product, int, error) {
	return nil, 0, nil
}

func (f *fakeProductRepo) GetByIDOrSlug(key string) (*domain.Product, error) {
	f.getCalls++
	product, ok := f.products[key]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return product, nil
}

func (f *fakeProductRepo) Search(string) ([]domain.Product, error) { return nil, nil }

func (f *fakeProductRepo) Create(product *domain.Product) (*domain.Product, error) {
	f.created = product
	stored := *product
	stored.ID = 1
	return &stored, nil
}

func (f *fakeProductRepo) Update(int, map[string]interface{}) error { return nil }

func (f *fakeProductRepo) SoftDelete(id int) (string, error) {
	f.deleted = append(f.deleted, id)
	return "Mate Imperial", nil
}

// memoryCache backs the cache interface with a plain map so tests can observe
// hits and invalidations without Redis.
type memoryCache struct {
	entries map[string]string
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: make(map[string]string)}
}

func (m *memoryCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	switch v := value.(type) {
	case []byte:
		m.entries[key] = string(v)
	case string:
		m.entries[key] = v
	default:
		m.entries[key] = fmt.Sprint(v)
	}
	return nil
}

func (m *memoryCache) Get(_ context.Context, key string) (string, error) {
	return m.entries[key], nil
}

func (m *memoryCache) Delete(_ context.Context, keys ...string) error {
	for _, key := range keys {
		delete(m.entries, key)
	}
	return nil
}

func (m *memoryCache) GenerateKey(operation, key string) string {
	return operation + ":" + key
}

var _ cache.Cache = (*memoryCache)(nil)

func TestGetProduct_ReadThroughCache(t *testing.T) {
	repo := newFakeProductRepo()
	repo.products["mate-imperial"] = &domain.Product{ID: 1, Name: "Mate Imperial", Slug: "mate-imperial", Price: 30000}
	memory := newMemoryCache()
	uc := NewProductUseCase(repo, memory, testLogger())

	first, err := uc.GetProduct("mate-imperial")
	require.NoError(t, err)
	assert.Equal(t, 1, repo.getCalls)

	second, err := uc.GetProduct("mate-imperial")
	require.NoError(t, err)
	// Second read is served from cache.
	assert.Equal(t, 1, repo.getCalls)
	assert.Equal(t, first.Name, second.Name)
	assert.Contains(t, memory.entries, "producto:mate-imperial")
}

func TestGetProduct_CorruptCacheEntryFallsThrough(t *testing.T) {
	repo := newFakeProductRepo()
	repo.products["7"] = &domain.Product{ID: 7, Name: "Yerba 500g", Price: 10000}
	memory := newMemoryCache()
	memory.entries["producto:7"] = "{rota"
	uc := NewProductUseCase(repo, memory, testLogger())

	product, err := uc.GetProduct("7")
	require.NoError(t, err)
	assert.Equal(t, "Yerba 500g", product.Name)
	assert.Equal(t, 1, repo.getCalls)
}

func TestGetProduct_NotFound(t *testing.T) {
	uc := NewProductUseCase(newFakeProductRepo(), cache.NewNopCache(), testLogger())

	_, err := uc.GetProduct("no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCreateProduct_ValidationAndSlug(t *testing.T) {
	repo := newFakeProductRepo()
	uc := NewProductUseCase(repo, cache.NewNopCache(), testLogger())

	_, err := uc.CreateProduct(&domain.Product{Name: "", Price: 100, CategoryID: 1})
	require.Error(t, err)
	assert.True(t, domain.IsBusinessError(err))

	_, err = uc.CreateProduct(&domain.Product{Name: "Mate", Price: 0, CategoryID: 1})
	require.Error(t, err)

	created, err := uc.CreateProduct(&domain.Product{Name: "Café Molido Ñandú", Price: 15000, Stock: 3, CategoryID: 1})
	require.NoError(t, err)
	assert.Equal(t, "cafe-molido-nandu", created.Slug)
}

func TestUpdateProduct_InvalidatesCache(t *testing.T) {
	repo := newFakeProductRepo()
	memory := newMemoryCache()
	memory.entries["producto:5"] = `{"id":5}`
	memory.entries["producto:mate-viejo"] = `{"id":5}`
	uc := NewProductUseCase(repo, memory, testLogger())

	err := uc.UpdateProduct(5, map[string]interface{}{"precio": 20000, "slug": "mate-viejo"})
	require.NoError(t, err)
	assert.NotContains(t, memory.entries, "producto:5")
	assert.NotContains(t, memory.entries, "producto:mate-viejo")
}

func TestDeleteProduct_InvalidatesCache(t *testing.T) {
	repo := newFakeProductRepo()
	memory := newMemoryCache()
	memory.entries["producto:5"] = `{"id":5}`
	uc := NewProductUseCase(repo, memory, testLogger())

	name, err := uc.DeleteProduct(5)
	require.NoError(t, err)
	assert.Equal(t, "Mate Imperial", name)
	assert.Equal(t, []int{5}, repo.deleted)
	assert.NotContains(t, memory.entries, "producto:5")
}

func TestSearchProducts_MinimumTermLength(t *testing.T) {
	uc := NewProductUseCase(newFakeProductRepo(), cache.NewNopCache(), testLogger())

	_, err := uc.SearchProducts(" a ")
	require.Error(t, err)
	assert.True(t, domain.IsBusinessError(err))

	_, err = uc.SearchProducts("ma")
	require.NoError(t, err)
}
