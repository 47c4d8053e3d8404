package usecase

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/leanNunez/Ecommerce-Tucuman/internal/cache"
	"github.com/leanNunez/Ecommerce-Tucuman/internal/domain"
)

var _ domain.CategoryUseCase = (*categoryUseCase)(nil)

const categoryCacheTTL = 10 * time.Minute

type categoryUseCase struct {
	categoryRepo domain.CategoryRepository
	cache        cache.Cache
	log          *logrus.Logger
}

func NewCategoryUseCase(repo domain.CategoryRepository, c cache.Cache, logger *logrus.Logger) domain.CategoryUseCase {
	return &categoryUseCase{
		categoryRepo: repo,
		cache:        c,
		log:          logger,
	}
}

func (uc *categoryUseCase) ListCategories() ([]domain.Category, error) {
	ctx := context.Background()
	cacheKey := uc.cache.GenerateKey("categorias", "all")
	if cached, err := uc.cache.Get(ctx, cacheKey); err != nil {
		uc.log.Warnf("Cache read failed for %s: %v", cacheKey, err)
	} else if cached != "" {
		var categories []domain.Category
		if err := json.Unmarshal([]byte(cached), &categories); err == nil {
			uc.log.Debug("Cache hit for category list")
			return categories, nil
		}
	}

	categories, err := uc.categoryRepo.List()
	if err != nil {
		return nil, err
	}

	if encoded, err := json.Marshal(categories); err == nil {
		if err := uc.cache.Set(ctx, cacheKey, encoded, categoryCacheTTL); err != nil {
			uc.log.Warnf("Cache write failed for %s: %v", cacheKey, err)
		}
	}
	return categories, nil
}

func (uc *categoryUseCase) GetCategoryBySlug(slug string) (*domain.Category, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, domain.NewValidationError("Slug de categoría inválido")
	}
	return uc.categoryRepo.GetBySlug(slug)
}

func (uc *categoryUseCase) CreateCategory(category *domain.Category) (*domain.Category, error) {
	category.Name = strings.TrimSpace(category.Name)
	if category.Name == "" {
		return nil, domain.NewValidationError("El nombre es requerido")
	}
	if category.Slug == "" {
		category.Slug = Slugify(category.Name)
	}

	created, err := uc.categoryRepo.Create(category)
	if err != nil {
		return nil, err
	}
	uc.invalidate()
	uc.log.Infof("Category %q created with ID %d", created.Name, created.ID)
	return created, nil
}

func (uc *categoryUseCase) UpdateCategory(id int, updates map[string]interface{}) error {
	if id <= 0 {
		return domain.NewValidationError("Identificador de categoría inválido")
	}
	if err := uc.categoryRepo.Update(id, updates); err != nil {
		return err
	}
	uc.invalidate()
	return nil
}

func (uc *categoryUseCase) DeleteCategory(id int) error {
	if id <= 0 {
		return domain.NewValidationError("Identificador de categoría inválido")
	}
	if err := uc.categoryRepo.SoftDelete(id); err != nil {
		return err
	}
	uc.invalidate()
	return nil
}

func (uc *categoryUseCase) invalidate() {
	if err := uc.cache.Delete(context.Background(), uc.cache.GenerateKey("categorias", "all")); err != nil {
		uc.log.Warnf("Cache invalidation failed for category list: %v", err)
	}
}
