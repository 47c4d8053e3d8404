package domain

import "time"

type Category struct {
	ID           int       `json:"id"`
	Name         string    `json:"nombre"`
	Slug         string    `json:"slug"`
	Description  string    `json:"descripcion,omitempty"`
	Image        string    `json:"imagen,omitempty"`
	Active       bool      `json:"activo"`
	ProductCount int       `json:"total_productos"`
	Products     []Product `json:"productos,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

type CategoryRepository interface {
	List() ([]Category, error)
	GetBySlug(slug string) (*Category, error)
	Create(category *Category) (*Category, error)
	Update(id int, updates map[string]interface{}) error
	SoftDelete(id int) error
}

type CategoryUseCase interface {
	ListCategories() ([]Category, error)
	GetCategoryBySlug(slug string) (*Category, error)
	CreateCategory(category *Category) (*Category, error)
	UpdateCategory(id int, updates map[string]interface{}) error
	DeleteCategory(id int) error
}
