package usecase

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/leanNunez/Ecommerce-Tucuman/internal/cache"
	"github.com/leanNunez/Ecommerce-Tucuman/internal/domain"
)

var _ domain.ProductUseCase = (*productUseCase)(nil)

const productCacheTTL = 5 * time.Minute

type productUseCase struct {
	productRepo domain.ProductRepository
	cache       cache.Cache
	log         *logrus.Logger
}

func NewProductUseCase(repo domain.ProductRepository, c cache.Cache, logger *logrus.Logger) domain.ProductUseCase {
	return &productUseCase{
		productRepo: repo,
		cache:       c,
		log:         logger,
	}
}

func (uc *productUseCase) ListProducts(filter domain.ProductFilter) ([]domain.Product, int, error) {
	return uc.productRepo.List(filter)
}

// GetProduct serves product detail through the cache. The view counter is
// only bumped on misses, which is acceptable drift for a popularity metric.
func (uc *productUseCase) GetProduct(key string) (*domain.Product, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, domain.NewValidationError("Identificador de producto inválido")
	}

	ctx := context.Background()
	cacheKey := uc.cache.GenerateKey("producto", key)
	if cached, err := uc.cache.Get(ctx, cacheKey); err != nil {
		uc.log.Warnf("Cache read failed for %s: %v", cacheKey, err)
	} else if cached != "" {
		product := &domain.Product{}
		if err := json.Unmarshal([]byte(cached), product); err == nil {
			uc.log.Debugf("Cache hit for product %s", key)
			return product, nil
		}
		uc.log.Warnf("Discarding corrupt cache entry %s", cacheKey)
	}

	product, err := uc.productRepo.GetByIDOrSlug(key)
	if err != nil {
		return nil, err
	}

	if encoded, err := json.Marshal(product); err == nil {
		if err := uc.cache.Set(ctx, cacheKey, encoded, productCacheTTL); err != nil {
			uc.log.Warnf("Cache write failed for %s: %v", cacheKey, err)
		}
	}
	return product, nil
}

func (uc *productUseCase) SearchProducts(term string) ([]domain.Product, error) {
	term = strings.TrimSpace(term)
	if len(term) < 2 {
		return nil, domain.NewValidationError("El término de búsqueda debe tener al menos 2 caracteres")
	}
	return uc.productRepo.Search(term)
}

func (uc *productUseCase) CreateProduct(product *domain.Product) (*domain.Product, error) {
	product.Name = strings.TrimSpace(product.Name)
	if product.Name == "" || product.Price <= 0 || product.Stock < 0 || product.CategoryID <= 0 {
		return nil, domain.NewValidationError("Faltan campos requeridos: nombre, precio, stock, categoria_id")
	}
	if product.Slug == "" {
		product.Slug = Slugify(product.Name)
	}

	created, err := uc.productRepo.Create(product)
	if err != nil {
		return nil, err
	}
	uc.log.Infof("Product %q created with ID %d", created.Name, created.ID)
	return created, nil
}

func (uc *productUseCase) UpdateProduct(id int, updates map[string]interface{}) error {
	if id <= 0 {
		return domain.NewValidationError("Identificador de producto inválido")
	}
	if err := uc.productRepo.Update(id, updates); err != nil {
		return err
	}
	uc.invalidate(id, updates["slug"])
	return nil
}

func (uc *productUseCase) DeleteProduct(id int) (string, error) {
	if id <= 0 {
		return "", domain.NewValidationError("Identificador de producto inválido")
	}
	name, err := uc.productRepo.SoftDelete(id)
	if err != nil {
		return "", err
	}
	uc.invalidate(id, nil)
	return name, nil
}

func (uc *productUseCase) invalidate(id int, slug interface{}) {
	ctx := context.Background()
	keys := []string{uc.cache.GenerateKey("producto", strconv.Itoa(id))}
	if s, ok := slug.(string); ok && s != "" {
		keys = append(keys, uc.cache.GenerateKey("producto", s))
	}
	if err := uc.cache.Delete(ctx, keys...); err != nil {
		uc.log.Warnf("Cache invalidation failed for product %d: %v", id, err)
	}
}
