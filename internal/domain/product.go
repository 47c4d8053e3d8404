package domain

import "time"

type Product struct {
	ID               int       `json:"id"`
	Name             string    `json:"nombre"`
	Slug             string    `json:"slug"`
	Description      string    `json:"descripcion,omitempty"`
	ShortDescription string    `json:"descripcion_corta,omitempty"`
	Price            float64   `json:"precio"`
	PreviousPrice    float64   `json:"precio_anterior,omitempty"`
	DiscountPercent  int       `json:"descuento_porcentaje"`
	Stock            int       `json:"stock"`
	MinStock         int       `json:"stock_minimo,omitempty"`
	CategoryID       int       `json:"categoria_id,omitempty"`
	CategoryName     string    `json:"categoria_nombre,omitempty"`
	CategorySlug     string    `json:"categoria_slug,omitempty"`
	MainImage        string    `json:"imagen_principal,omitempty"`
	Images           []string  `json:"imagenes,omitempty"`
	Related          []Product `json:"relacionados,omitempty"`
	Active           bool      `json:"activo"`
	Featured         bool      `json:"destacado"`
	Sales            int       `json:"ventas"`
	Views            int       `json:"vistas"`
	CreatedAt        time.Time `json:"created_at"`
}

// ProductFilter narrows the public catalog listing. Category accepts an id or
// a slug, mirroring the /api/productos?categoria= query parameter.
type ProductFilter struct {
	Category     string
	FeaturedOnly bool
	Sort         string
	Limit        int
	Offset       int
}

type ProductRepository interface {
	List(filter ProductFilter) ([]Product, int, error)
	GetByIDOrSlug(key string) (*Product, error)
	Search(term string) ([]Product, error)
	Create(product *Product) (*Product, error)
	Update(id int, updates map[string]interface{}) error
	SoftDelete(id int) (string, error)
}

type ProductUseCase interface {
	ListProducts(filter ProductFilter) ([]Product, int, error)
	GetProduct(key string) (*Product, error)
	SearchProducts(term string) ([]Product, error)
	CreateProduct(product *Product) (*Product, error)
	UpdateProduct(id int, updates map[string]interface{}) error
	DeleteProduct(id int) (string, error)
}

// DiscountFor derives the percentage shown on sale badges from the previous
// price, rounded to the nearest integer. Zero when there is no previous price.
func DiscountFor(price, previousPrice float64) int {
	if previousPrice <= 0 || price >= previousPrice {
		return 0
	}
	return int(((previousPrice-price)/previousPrice)*100 + 0.5)
}
