package repository

import (
	"context"

	"github.com/andikasp/gocommerce/internal/domain/entity"
)

// ProductRepository defines catalog persistence.
type ProductRepository interface {
	Create(ctx context.Context, p *entity.Product) error
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	List(ctx context.Context) ([]entity.Product, error)
	Delete(ctx context.Context, id string) error
}
