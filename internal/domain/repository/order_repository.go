package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/farmstand/marketplace/internal/domain/entity"
)

// OrderRepository reads orders written by the external order system.
type OrderRepository interface {
	FindByFarmer(ctx context.Context, farmerID primitive.ObjectID) ([]entity.Order, error)
	FindByCustomer(ctx context.Context, customerID primitive.ObjectID) ([]entity.Order, error)
}
