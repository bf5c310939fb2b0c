package mongodb

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/farmstand/marketplace/internal/domain/entity"
	"github.com/farmstand/marketplace/internal/domain/repository"
)

type OrderRepository struct {
	coll *mongo.Collection
}

func NewOrderRepository(db *mongo.Database) *OrderRepository {
	return &OrderRepository{coll: db.Collection(OrdersCollection)}
}

func (r *OrderRepository) FindByFarmer(ctx context.Context, farmerID primitive.ObjectID) ([]entity.Order, error) {
	return r.find(ctx, bson.M{"farmer_id": farmerID})
}

func (r *OrderRepository) FindByCustomer(ctx context.Context, customerID primitive.ObjectID) ([]entity.Order, error) {
	return r.find(ctx, bson.M{"customer_id": customerID})
}

func (r *OrderRepository) find(ctx context.Context, filter bson.M) ([]entity.Order, error) {
	cur, err := r.coll.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer func() { _ = cur.Close(ctx) }()
	orders := []entity.Order{}
	if err := cur.All(ctx, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

var _ repository.OrderRepository = (*OrderRepository)(nil)
