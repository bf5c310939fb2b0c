package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/farmstand/marketplace/internal/domain/entity"
)

// ProductRepository defines the product-related document store operations.
type ProductRepository interface {
	Insert(ctx context.Context, p *entity.Product) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*entity.Product, error)
	// FindAll returns every product, narrowed by exact category match when
	// category is non-empty.
	FindAll(ctx context.Context, category string) ([]entity.Product, error)
	FindByFarmer(ctx context.Context, farmerID primitive.ObjectID) ([]entity.Product, error)
	Featured(ctx context.Context, limit int64) ([]entity.Product, error)
}
